package service

import (
	"context"
	"errors"
	"fmt"

	"docchat-be/internal/dto"
	"docchat-be/internal/pkg/logger"
	"docchat-be/pkg/rag/resolver"
	"docchat-be/pkg/rag/response"
)

var ErrProcessingFailed = errors.New("error processing chat message")

type ContextResolver interface {
	Resolve(ctx context.Context, query string, restrictTo []string) (string, error)
}

type IChatService interface {
	Respond(ctx context.Context, query string, restrictTo []string) (*dto.ChatResponse, error)
}

type chatService struct {
	resolver      ContextResolver
	previewLength int
	logger        logger.ILogger
}

func NewChatService(r ContextResolver, previewLength int, log logger.ILogger) IChatService {
	if previewLength <= 0 {
		previewLength = response.DefaultPreviewLength
	}
	return &chatService{
		resolver:      r,
		previewLength: previewLength,
		logger:        log,
	}
}

var _ ContextResolver = (*resolver.ContextResolver)(nil)

func (s *chatService) Respond(ctx context.Context, query string, restrictTo []string) (*dto.ChatResponse, error) {
	matched, err := s.resolver.Resolve(ctx, query, restrictTo)
	if err != nil {
		s.logger.Error("ChatService", "Context resolution failed", map[string]interface{}{"error": err})
		return nil, fmt.Errorf("%w: %v", ErrProcessingFailed, err)
	}

	s.logger.Debug("ChatService", "Context resolved", map[string]interface{}{
		"matched":     matched != "",
		"restricted":  restrictTo != nil,
		"query_bytes": len(query),
	})

	return dto.NewChatResponse(response.Compose(matched, s.previewLength)), nil
}
