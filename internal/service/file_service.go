package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"docchat-be/internal/dto"
	"docchat-be/internal/pkg/logger"
	"docchat-be/internal/repository/contract"
	"docchat-be/pkg/events"
)

var (
	ErrUnsupportedExtension = errors.New("File type not allowed")
	ErrFileTooLarge         = errors.New("File too large")
	ErrSaveFailed           = errors.New("Could not save file")
)

type TextExtractor interface {
	Extract(path, ext string) (string, error)
}

// EventPublisher is satisfied by the NATS publisher. A nil EventPublisher
// disables lifecycle events.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type IFileService interface {
	Upload(ctx context.Context, req *dto.UploadRequest) (*dto.UploadResponse, error)
	List(ctx context.Context) ([]dto.FileInfo, error)
	Delete(ctx context.Context, filename string) error
}

type FileServiceOptions struct {
	AllowedExtensions []string
	MaxFileSize       int64
}

type fileService struct {
	uploads          contract.UploadRepository
	extractor        TextExtractor
	publisherService IPublisherService
	eventPublisher   EventPublisher
	allowed          map[string]struct{}
	maxFileSize      int64
	logger           logger.ILogger
}

func NewFileService(
	uploads contract.UploadRepository,
	extractor TextExtractor,
	publisherService IPublisherService,
	eventPublisher EventPublisher,
	opts FileServiceOptions,
	log logger.ILogger,
) IFileService {
	allowed := make(map[string]struct{}, len(opts.AllowedExtensions))
	for _, ext := range opts.AllowedExtensions {
		allowed[strings.ToLower(strings.TrimPrefix(ext, "."))] = struct{}{}
	}
	return &fileService{
		uploads:          uploads,
		extractor:        extractor,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
		allowed:          allowed,
		maxFileSize:      opts.MaxFileSize,
		logger:           log,
	}
}

// extension returns the lower-cased suffix after the last dot, or "".
func extension(filename string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
}

func (s *fileService) Upload(ctx context.Context, req *dto.UploadRequest) (*dto.UploadResponse, error) {
	filename := filepath.Base(req.Filename)
	ext := extension(filename)
	if _, ok := s.allowed[ext]; !ok {
		return nil, fmt.Errorf("%w: .%s", ErrUnsupportedExtension, ext)
	}
	if s.maxFileSize > 0 && req.Size > s.maxFileSize {
		return nil, fmt.Errorf("%w: %d bytes exceeds %d", ErrFileTooLarge, req.Size, s.maxFileSize)
	}

	text, err := s.store(ctx, filename, ext, req)
	if err != nil {
		if rmErr := s.uploads.RemoveRaw(ctx, filename); rmErr != nil {
			s.logger.Warn("FileService", "Failed to clean up partial upload", map[string]interface{}{
				"filename": filename,
				"error":    rmErr.Error(),
			})
		}
		s.logger.Error("FileService", "Upload failed", map[string]interface{}{
			"filename": filename,
			"error":    err,
		})
		return nil, fmt.Errorf("%w: %v", ErrSaveFailed, err)
	}

	s.publishEvent(ctx, events.NewDocumentEvent(events.DocumentUploaded, filename, map[string]interface{}{
		"content_type": req.ContentType,
		"size":         req.Size,
	}))

	s.logger.Info("FileService", "File uploaded", map[string]interface{}{
		"filename": filename,
		"size":     req.Size,
	})

	return &dto.UploadResponse{
		Filename:    filename,
		ContentType: req.ContentType,
		TextContent: text,
	}, nil
}

// store saves the raw file, writes the text companion and queues vector
// encoding. The caller rolls back on error.
func (s *fileService) store(ctx context.Context, filename, ext string, req *dto.UploadRequest) (string, error) {
	path, err := s.uploads.SaveRaw(ctx, filename, req.Content)
	if err != nil {
		return "", err
	}

	text, err := s.extractor.Extract(path, ext)
	if err != nil {
		return "", err
	}

	if err := s.uploads.WriteText(ctx, filename, text); err != nil {
		return "", err
	}

	msgJson, err := json.Marshal(dto.EncodeVectorMessage{Filename: filename})
	if err != nil {
		return "", err
	}
	if err := s.publisherService.Publish(ctx, msgJson); err != nil {
		return "", err
	}

	return text, nil
}

func (s *fileService) List(ctx context.Context) ([]dto.FileInfo, error) {
	files, err := s.uploads.ListAvailable(ctx)
	if err != nil {
		return nil, err
	}

	res := make([]dto.FileInfo, 0, len(files))
	for _, f := range files {
		res = append(res, dto.FileInfo{
			Filename:   f.Filename,
			Size:       f.Size,
			UploadedAt: f.UploadedAt,
		})
	}
	return res, nil
}

func (s *fileService) Delete(ctx context.Context, filename string) error {
	if err := s.uploads.Delete(ctx, filename); err != nil {
		return err
	}
	s.publishEvent(ctx, events.NewDocumentEvent(events.DocumentDeleted, filename, nil))
	return nil
}

// publishEvent never fails the request; lifecycle events are auxiliary.
func (s *fileService) publishEvent(ctx context.Context, evt events.Event) {
	if s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, evt); err != nil {
		s.logger.Warn("FileService", fmt.Sprintf("Failed to publish %s event", evt.EventType()), map[string]interface{}{
			"error": err.Error(),
		})
	}
}
