package contract

import (
	"context"

	"docchat-be/internal/entity"
)

// DocumentRepository reads extracted text. Nothing is cached: every call
// looks at storage again so concurrent uploads and deletes are visible.
type DocumentRepository interface {
	// ListDocuments returns documents in storage order with Text left empty.
	ListDocuments(ctx context.Context) ([]entity.Document, error)
	// ReadDocument reports found=false when no companion exists. Unreadable
	// companions come back as empty text with found=true.
	ReadDocument(ctx context.Context, identifier string) (text string, found bool)
}
