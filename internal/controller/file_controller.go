package controller

import (
	"errors"
	"fmt"
	"net/url"

	"docchat-be/internal/dto"
	"docchat-be/internal/repository/contract"
	"docchat-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IFileController interface {
	RegisterRoutes(r fiber.Router)
	Upload(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type fileController struct {
	fileService service.IFileService
	guard       fiber.Handler
}

// NewFileController mounts guard in front of every file route when it is
// not nil.
func NewFileController(fileService service.IFileService, guard fiber.Handler) IFileController {
	return &fileController{fileService: fileService, guard: guard}
}

func (c *fileController) RegisterRoutes(r fiber.Router) {
	handlers := func(h fiber.Handler) []fiber.Handler {
		if c.guard == nil {
			return []fiber.Handler{h}
		}
		return []fiber.Handler{c.guard, h}
	}
	r.Post("/upload", handlers(c.Upload)...)
	r.Get("/files", handlers(c.List)...)
	r.Delete("/files/:filename", handlers(c.Delete)...)
}

func (c *fileController) Upload(ctx *fiber.Ctx) error {
	fh, err := ctx.FormFile("file")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": "No file provided"})
	}

	src, err := fh.Open()
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"detail": fmt.Sprintf("%s: %v", service.ErrSaveFailed, err),
		})
	}
	defer src.Close()

	res, err := c.fileService.Upload(ctx.UserContext(), &dto.UploadRequest{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(fiber.HeaderContentType),
		Size:        fh.Size,
		Content:     src,
	})
	if err != nil {
		status := fiber.StatusInternalServerError
		switch {
		case errors.Is(err, service.ErrUnsupportedExtension):
			status = fiber.StatusBadRequest
		case errors.Is(err, service.ErrFileTooLarge):
			status = fiber.StatusRequestEntityTooLarge
		}
		return ctx.Status(status).JSON(fiber.Map{"detail": err.Error()})
	}
	return ctx.JSON(res)
}

func (c *fileController) List(ctx *fiber.Ctx) error {
	files, err := c.fileService.List(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(files)
}

func (c *fileController) Delete(ctx *fiber.Ctx) error {
	filename, err := url.PathUnescape(ctx.Params("filename"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": "Invalid filename"})
	}

	err = c.fileService.Delete(ctx.UserContext(), filename)
	switch {
	case errors.Is(err, contract.ErrFileNotFound):
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"detail": "File not found"})
	case errors.Is(err, contract.ErrInvalidFilename):
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": "Invalid filename"})
	case err != nil:
		return err
	}

	return ctx.JSON(dto.DeleteFileResponse{
		Message: fmt.Sprintf("File %s deleted successfully", filename),
	})
}
