package implementation

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"docchat-be/internal/entity"
	"docchat-be/internal/pkg/logger"
	"docchat-be/internal/repository/contract"
)

const (
	TextExtension   = ".txt"
	VectorExtension = ".vector"
)

type documentRepository struct {
	dir    string
	logger logger.ILogger
}

func NewDocumentRepository(dir string, log logger.ILogger) contract.DocumentRepository {
	return &documentRepository{dir: dir, logger: log}
}

func (r *documentRepository) ListDocuments(ctx context.Context) ([]entity.Document, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []entity.Document{}, nil
		}
		return nil, err
	}

	docs := make([]entity.Document, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), TextExtension) {
			continue
		}
		docs = append(docs, entity.Document{
			Identifier: strings.TrimSuffix(e.Name(), TextExtension),
			Location:   filepath.Join(r.dir, e.Name()),
		})
	}
	return docs, nil
}

func (r *documentRepository) ReadDocument(ctx context.Context, identifier string) (string, bool) {
	path, ok := safeJoin(r.dir, identifier+TextExtension)
	if !ok {
		r.logger.Warn("DocumentRepository", "Rejected document identifier", map[string]interface{}{"identifier": identifier})
		return "", false
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
	case errors.Is(err, fs.ErrNotExist):
		// Deleted between listing and reading, or never uploaded.
		return "", false
	case errors.Is(err, fs.ErrPermission):
		r.logger.Warn("DocumentRepository", "Permission denied reading document", map[string]interface{}{"path": path})
		return "", true
	default:
		r.logger.Error("DocumentRepository", "I/O error reading document", map[string]interface{}{"path": path, "error": err})
		return "", true
	}

	if !utf8.Valid(data) {
		r.logger.Warn("DocumentRepository", "Document is not valid UTF-8", map[string]interface{}{"path": path})
		return "", true
	}
	return string(data), true
}

// safeJoin keeps name inside dir. Names carrying separators or dot segments are refused.
func safeJoin(dir, name string) (string, bool) {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", false
	}
	return filepath.Join(dir, name), true
}
