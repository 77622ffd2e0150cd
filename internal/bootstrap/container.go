package bootstrap

import (
	"context"

	"docchat-be/internal/config"
	"docchat-be/internal/controller"
	"docchat-be/internal/handler"
	"docchat-be/internal/pkg/logger"
	"docchat-be/internal/pkg/serverutils"
	"docchat-be/internal/repository/implementation"
	"docchat-be/internal/service"
	"docchat-be/pkg/chatbot"
	"docchat-be/pkg/extractor"
	"docchat-be/pkg/rag/resolver"

	pktNats "docchat-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/gofiber/fiber/v2"
)

type Container struct {
	// Controllers
	ChatController    controller.IChatController
	AuthController    controller.IAuthController
	FileController    controller.IFileController
	ChatbotController controller.IChatbotController

	// WebSockets
	ChatSocketHandler *handler.ChatSocketHandler

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	Logger logger.ILogger

	closers []func() error
}

// NewContainer wires every component. NATS and Gemini are optional: when
// they are not configured or unreachable the related features degrade and
// the rest of the service still starts.
func NewContainer(ctx context.Context, cfg *config.Config, sysLogger logger.ILogger) *Container {
	c := &Container{Logger: sysLogger}

	// 1. Storage
	documentRepo := implementation.NewDocumentRepository(cfg.Storage.UploadDir, sysLogger)
	uploadRepo := implementation.NewUploadRepository(cfg.Storage.UploadDir, sysLogger)

	// 2. Event Bus
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermill.NewStdLogger(false, false),
	)
	c.closers = append(c.closers, pubSub.Close)

	var eventPublisher service.EventPublisher
	if cfg.Events.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(ctx, cfg.Events.NatsURL)
		if err != nil {
			sysLogger.Warn("Container", "Failed to connect to NATS Publisher", map[string]interface{}{"error": err.Error()})
		} else {
			eventPublisher = natsPub
			c.closers = append(c.closers, func() error { natsPub.Close(); return nil })
		}
	}

	// 3. Services
	contextResolver := resolver.NewContextResolver(documentRepo)
	chatService := service.NewChatService(contextResolver, cfg.Chat.PreviewLength, sysLogger)
	authService := service.NewAuthService(cfg.Auth.JwtSecret, cfg.Auth.AccessTokenExpiry)

	publisherService := service.NewPublisherService(cfg.Events.VectorEncodeTopic, pubSub)
	c.ConsumerService = service.NewConsumerService(
		pubSub,
		cfg.Events.VectorEncodeTopic,
		documentRepo,
		uploadRepo,
		sysLogger,
	)
	fileService := service.NewFileService(
		uploadRepo,
		extractor.NewRegistry(),
		publisherService,
		eventPublisher,
		service.FileServiceOptions{
			AllowedExtensions: cfg.Storage.AllowedExtensions,
			MaxFileSize:       int64(cfg.Storage.MaxFileSize),
		},
		sysLogger,
	)

	var generator chatbot.Generator
	if bot, err := chatbot.NewGeminiChatbot(ctx, cfg.Ai.GoogleGeminiKey, cfg.Ai.GeminiModel); err != nil {
		sysLogger.Warn("Container", "Gemini proxy disabled", map[string]interface{}{"error": err.Error()})
	} else {
		generator = bot
		sysLogger.Info("Container", "Using Gemini model", map[string]interface{}{"model": bot.Model()})
	}
	chatbotService := service.NewChatbotService(generator, sysLogger)

	// 4. Controllers
	var fileGuard fiber.Handler
	if cfg.Auth.RequireForFiles {
		fileGuard = serverutils.JwtMiddleware(cfg.Auth.JwtSecret)
	}

	c.ChatController = controller.NewChatController(chatService)
	c.AuthController = controller.NewAuthController(authService)
	c.FileController = controller.NewFileController(fileService, fileGuard)
	c.ChatbotController = controller.NewChatbotController(chatbotService)
	wsLogger := logger.NewIsolatedLogger(cfg.Chat.SessionLogPath)
	c.closers = append(c.closers, func() error { _ = wsLogger.Sync(); return nil })
	c.ChatSocketHandler = handler.NewChatSocketHandler(chatService, cfg.Chat, wsLogger)

	return c
}

// Close releases the event bus and the NATS connection.
func (c *Container) Close() error {
	var firstErr error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
