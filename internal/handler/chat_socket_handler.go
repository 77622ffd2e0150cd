package handler

import (
	"context"

	"docchat-be/internal/config"
	"docchat-be/internal/pkg/logger"
	internalWS "docchat-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// ChatSocketHandler upgrades GET /chat to a chat session. No token is
// required on this channel.
type ChatSocketHandler struct {
	responder internalWS.Responder
	cfg       internalWS.SessionConfig
	logger    logger.ILogger
}

func NewChatSocketHandler(responder internalWS.Responder, chatCfg config.ChatConfig, log logger.ILogger) *ChatSocketHandler {
	return &ChatSocketHandler{
		responder: responder,
		cfg: internalWS.SessionConfig{
			MaxMessageSize: chatCfg.MaxMessageSize,
			IdleTimeout:    chatCfg.IdleTimeout,
		},
		logger: log,
	}
}

// ServeWs handles websocket requests from the peer.
func (h *ChatSocketHandler) ServeWs(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	remote := c.IP()
	return websocket.New(func(conn *websocket.Conn) {
		session := internalWS.NewSession(conn, h.responder, h.cfg, h.logger)
		h.logger.Info("ChatSocketHandler", "Starting WebSocket session", map[string]interface{}{
			"session_id": session.ID,
			"remote":     remote,
		})
		final := session.Run(context.Background())
		h.logger.Info("ChatSocketHandler", "WebSocket session ended", map[string]interface{}{
			"session_id": session.ID,
			"state":      final.String(),
		})
	})(c)
}

func (h *ChatSocketHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/chat", h.ServeWs)
}
