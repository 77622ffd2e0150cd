package dto

type GeminiRequest struct {
	Prompt string `query:"prompt" validate:"required"`
}
