package implementation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sort"
	"strings"

	"docchat-be/internal/entity"
	"docchat-be/internal/pkg/logger"
	"docchat-be/internal/repository/contract"
)

type uploadRepository struct {
	dir    string
	logger logger.ILogger
}

func NewUploadRepository(dir string, log logger.ILogger) contract.UploadRepository {
	return &uploadRepository{dir: dir, logger: log}
}

func (r *uploadRepository) path(filename string) (string, error) {
	p, ok := safeJoin(r.dir, filename)
	if !ok {
		return "", fmt.Errorf("%w: %q", contract.ErrInvalidFilename, filename)
	}
	return p, nil
}

func (r *uploadRepository) SaveRaw(ctx context.Context, filename string, src io.Reader) (string, error) {
	p, err := r.path(filename)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	f, err := os.Create(p)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := io.Copy(f, src); err != nil {
		return "", err
	}
	return p, f.Sync()
}

// RemoveRaw undoes a partial upload: the raw file and any text companion
// already written.
func (r *uploadRepository) RemoveRaw(ctx context.Context, filename string) error {
	p, err := r.path(filename)
	if err != nil {
		return err
	}
	for _, target := range []string{p, p + TextExtension} {
		if err := os.Remove(target); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}

func (r *uploadRepository) WriteText(ctx context.Context, filename, text string) error {
	p, err := r.path(filename + TextExtension)
	if err != nil {
		return err
	}
	return os.WriteFile(p, []byte(text), 0o644)
}

func (r *uploadRepository) WriteVector(ctx context.Context, filename string, data []byte) error {
	p, err := r.path(filename + VectorExtension)
	if err != nil {
		return err
	}
	return os.WriteFile(p, data, 0o644)
}

// ListAvailable returns raw uploads that have both companions, newest first.
func (r *uploadRepository) ListAvailable(ctx context.Context) ([]entity.UploadedFile, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []entity.UploadedFile{}, nil
		}
		return nil, err
	}

	files := make([]entity.UploadedFile, 0)
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasSuffix(name, VectorExtension) {
			continue
		}
		p, _ := r.path(name)
		if !exists(p+TextExtension) || !exists(p+VectorExtension) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			// Removed while listing.
			continue
		}
		files = append(files, entity.UploadedFile{
			Filename:   name,
			Size:       info.Size(),
			UploadedAt: info.ModTime(),
		})
	}

	sort.SliceStable(files, func(i, j int) bool {
		return files[i].UploadedAt.After(files[j].UploadedAt)
	})
	return files, nil
}

func (r *uploadRepository) Delete(ctx context.Context, filename string) error {
	p, err := r.path(filename)
	if err != nil {
		return err
	}
	if !exists(p) {
		return fmt.Errorf("%w: %s", contract.ErrFileNotFound, filename)
	}

	if err := os.Remove(p); err != nil {
		return err
	}
	for _, companion := range []string{p + TextExtension, p + VectorExtension} {
		if err := os.Remove(companion); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}

	r.logger.Info("UploadRepository", "Deleted upload", map[string]interface{}{"filename": filename})
	return nil
}

func exists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
