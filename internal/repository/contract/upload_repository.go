package contract

import (
	"context"
	"errors"
	"io"

	"docchat-be/internal/entity"
)

var (
	ErrFileNotFound    = errors.New("file not found")
	ErrInvalidFilename = errors.New("invalid filename")
)

type UploadRepository interface {
	SaveRaw(ctx context.Context, filename string, src io.Reader) (string, error)
	RemoveRaw(ctx context.Context, filename string) error
	WriteText(ctx context.Context, filename, text string) error
	WriteVector(ctx context.Context, filename string, data []byte) error
	ListAvailable(ctx context.Context) ([]entity.UploadedFile, error)
	Delete(ctx context.Context, filename string) error
}
