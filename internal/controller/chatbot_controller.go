package controller

import (
	"errors"

	"docchat-be/internal/dto"
	"docchat-be/internal/pkg/serverutils"
	"docchat-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IChatbotController interface {
	RegisterRoutes(r fiber.Router)
	Gemini(ctx *fiber.Ctx) error
}

type chatbotController struct {
	chatbotService service.IChatbotService
}

func NewChatbotController(chatbotService service.IChatbotService) IChatbotController {
	return &chatbotController{chatbotService: chatbotService}
}

func (c *chatbotController) RegisterRoutes(r fiber.Router) {
	r.Get("/gemini", c.Gemini)
}

func (c *chatbotController) Gemini(ctx *fiber.Ctx) error {
	var req dto.GeminiRequest
	if err := ctx.QueryParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.chatbotService.Generate(ctx.UserContext(), req.Prompt)
	switch {
	case errors.Is(err, service.ErrChatbotUnavailable):
		return ctx.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"message": err.Error()})
	case err != nil:
		return ctx.Status(fiber.StatusBadGateway).JSON(fiber.Map{"message": err.Error()})
	}
	return ctx.JSON(res)
}
