package service

import (
	"context"
	"errors"
	"fmt"

	"docchat-be/internal/dto"
	"docchat-be/internal/pkg/logger"
	"docchat-be/pkg/chatbot"
)

var (
	ErrChatbotUnavailable = errors.New("Gemini is not configured")
	ErrGenerationFailed   = errors.New("Error generating response from Gemini")
)

// IChatbotService proxies a prompt to the hosted model without any document
// context.
type IChatbotService interface {
	Generate(ctx context.Context, prompt string) (*dto.ChatResponse, error)
}

type chatbotService struct {
	generator chatbot.Generator
	logger    logger.ILogger
}

// NewChatbotService accepts a nil generator; every call then reports
// ErrChatbotUnavailable.
func NewChatbotService(generator chatbot.Generator, log logger.ILogger) IChatbotService {
	return &chatbotService{generator: generator, logger: log}
}

func (s *chatbotService) Generate(ctx context.Context, prompt string) (*dto.ChatResponse, error) {
	if s.generator == nil {
		return nil, ErrChatbotUnavailable
	}

	text, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		s.logger.Error("ChatbotService", "Generation failed", map[string]interface{}{"error": err})
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	return dto.NewChatResponse(text), nil
}
