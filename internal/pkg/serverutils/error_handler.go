package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandler renders any error that escapes a handler as {"message": ...}.
func ErrorHandler(ctx *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return ctx.Status(code).JSON(fiber.Map{"message": err.Error()})
}

// ErrorHandlerMiddleware turns panics and returned errors into JSON responses
// before they reach fiber's default text handler.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "internal server error"})
			}
		}()
		if err = ctx.Next(); err != nil {
			return ErrorHandler(ctx, err)
		}
		return nil
	}
}
