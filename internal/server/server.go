package server

import (
	"net"
	"os"
	"path/filepath"

	"docchat-be/internal/bootstrap"
	"docchat-be/internal/config"
	"docchat-be/internal/pkg/serverutils"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// multipartOverhead leaves room for boundaries and headers around a file
// of exactly MaxFileSize bytes.
const multipartOverhead = 64 * 1024

type Server struct {
	app       *fiber.App
	cfg       *config.Config
	container *bootstrap.Container
}

func New(cfg *config.Config, container *bootstrap.Container) *Server {
	app := fiber.New(fiber.Config{
		AppName:               cfg.App.ProjectName,
		BodyLimit:             cfg.Storage.MaxFileSize + multipartOverhead,
		ErrorHandler:          serverutils.ErrorHandler,
		DisableStartupMessage: true,
	})

	// Middleware
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.App.CorsAllowedOrigins,
		// Credentials cannot be combined with a wildcard origin.
		AllowCredentials: cfg.App.CorsAllowedOrigins != "*",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders:    "Content-Length, Content-Type, Authorization",
	}))

	// OpenTelemetry tracing middleware (no-op provider unless OTEL_ENABLED)
	app.Use(otelfiber.Middleware())

	app.Use(serverutils.ErrorHandlerMiddleware())

	registerRoutes(app, cfg, container)
	registerFrontend(app, cfg)

	return &Server{
		app:       app,
		cfg:       cfg,
		container: container,
	}
}

func (s *Server) GetApp() *fiber.App {
	return s.app
}

func (s *Server) Run() error {
	s.container.Logger.Info("Server", "Server is running", map[string]interface{}{
		"addr": "http://localhost:" + s.cfg.App.Port,
	})
	return s.app.Listen(":" + s.cfg.App.Port)
}

// Listener serves on an already bound listener.
func (s *Server) Listener(ln net.Listener) error {
	return s.app.Listener(ln)
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func registerRoutes(app *fiber.App, cfg *config.Config, c *bootstrap.Container) {
	api := app.Group(cfg.App.APIPrefix)

	c.AuthController.RegisterRoutes(api)
	c.ChatController.RegisterRoutes(api)
	c.ChatSocketHandler.RegisterRoutes(api)
	c.FileController.RegisterRoutes(api)
	c.ChatbotController.RegisterRoutes(api)
}

// registerFrontend serves the single page app from WebFolder. Unknown GET
// paths fall back to index.html so client-side routes resolve.
func registerFrontend(app *fiber.App, cfg *config.Config) {
	web := cfg.App.WebFolder
	index := filepath.Join(web, "index.html")

	app.Static("/static", filepath.Join(web, "static"))

	app.Get("/", func(ctx *fiber.Ctx) error {
		if fileExists(index) {
			return ctx.SendFile(index)
		}
		return ctx.JSON(fiber.Map{"message": cfg.App.ProjectName})
	})

	app.Get("/*", func(ctx *fiber.Ctx) error {
		rel := filepath.Clean("/" + ctx.Params("*"))
		candidate := filepath.Join(web, rel)
		if fileExists(candidate) {
			return ctx.SendFile(candidate)
		}
		if fileExists(index) {
			return ctx.SendFile(index)
		}
		return fiber.ErrNotFound
	})
}

func fileExists(p string) bool {
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}
