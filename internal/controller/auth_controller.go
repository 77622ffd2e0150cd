package controller

import (
	"errors"

	"docchat-be/internal/dto"
	"docchat-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAuthController interface {
	RegisterRoutes(r fiber.Router)
	Token(ctx *fiber.Ctx) error
}

type authController struct {
	service service.IAuthService
}

func NewAuthController(service service.IAuthService) IAuthController {
	return &authController{service: service}
}

func (c *authController) RegisterRoutes(r fiber.Router) {
	r.Post("/token", c.Token)
}

// Token accepts either a url-encoded form or a JSON body. An unparsable body
// is treated as missing credentials.
func (c *authController) Token(ctx *fiber.Ctx) error {
	var req dto.TokenRequest
	_ = ctx.BodyParser(&req)

	res, err := c.service.IssueToken(ctx.UserContext(), &req)
	if err != nil {
		status := fiber.StatusUnauthorized
		if errors.Is(err, service.ErrUsernameTooShort) {
			status = fiber.StatusBadRequest
		}
		ctx.Set(fiber.HeaderWWWAuthenticate, "Bearer")
		return ctx.Status(status).JSON(fiber.Map{"detail": err.Error()})
	}
	return ctx.JSON(res)
}
