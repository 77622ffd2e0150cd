package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"docchat-be/internal/dto"
	"docchat-be/internal/pkg/logger"

	fastws "github.com/fasthttp/websocket"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

const (
	writeWait = 10 * time.Second

	ExitSentinel        = "exit"
	MessageTooLarge     = "Message too large"
	EmptyMessage        = "Empty message"
	ProcessingErrPrefix = "Error processing WebSocket message: "
)

// Conn is the part of a WebSocket connection the session loop drives.
// *websocket.Conn from gofiber/websocket satisfies it.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	WriteControl(messageType int, data []byte, deadline time.Time) error
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

type Responder interface {
	Respond(ctx context.Context, query string, restrictTo []string) (*dto.ChatResponse, error)
}

type State int32

const (
	StateOpen State = iota
	StateReceiving
	StateResponding
	StateClosed
	StateClosedTimeout
	StateClosedError
)

func (s State) String() string {
	switch s {
	case StateOpen:
		return "OPEN"
	case StateReceiving:
		return "RECEIVING"
	case StateResponding:
		return "RESPONDING"
	case StateClosed:
		return "CLOSED"
	case StateClosedTimeout:
		return "CLOSED_TIMEOUT"
	case StateClosedError:
		return "CLOSED_ERROR"
	}
	return fmt.Sprintf("State(%d)", int32(s))
}

type SessionConfig struct {
	MaxMessageSize int
	IdleTimeout    time.Duration
}

// Session runs one chat connection: read a frame, answer it, repeat.
// Frames are answered strictly in arrival order.
type Session struct {
	ID        uuid.UUID
	conn      Conn
	responder Responder
	cfg       SessionConfig
	logger    logger.ILogger

	state     atomic.Int32
	closeOnce sync.Once
}

func NewSession(conn Conn, responder Responder, cfg SessionConfig, log logger.ILogger) *Session {
	s := &Session{
		ID:        uuid.New(),
		conn:      conn,
		responder: responder,
		cfg:       cfg,
		logger:    log,
	}
	s.setState(StateOpen)
	return s
}

func (s *Session) State() State {
	return State(s.state.Load())
}

func (s *Session) setState(st State) {
	s.state.Store(int32(st))
}

// Run blocks until the session reaches a terminal state and returns it.
// The connection is always closed on return.
func (s *Session) Run(ctx context.Context) State {
	s.logger.Info("ChatSocket", "Session opened", map[string]interface{}{"session_id": s.ID})

	for {
		s.setState(StateReceiving)
		if s.cfg.IdleTimeout > 0 {
			_ = s.conn.SetReadDeadline(time.Now().Add(s.cfg.IdleTimeout))
		}

		messageType, data, err := s.conn.ReadMessage()
		if err != nil {
			return s.finishOnReadError(err)
		}

		s.setState(StateResponding)
		reachedResponder, err := s.handleFrame(ctx, messageType, data)
		if err != nil {
			s.logger.Warn("ChatSocket", "Write failed, dropping session", map[string]interface{}{
				"session_id": s.ID,
				"error":      err,
			})
			return s.finish(StateClosedError, "")
		}

		if reachedResponder && string(data) == ExitSentinel {
			return s.finish(StateClosed, "exit requested")
		}
	}
}

// handleFrame applies the guards in order: type, size, blank, then answer.
// reachedResponder reports whether the frame got past the guards.
func (s *Session) handleFrame(ctx context.Context, messageType int, data []byte) (reachedResponder bool, err error) {
	if messageType != websocket.TextMessage {
		return false, s.sendReply(ProcessingErrPrefix + "unsupported frame type, text expected")
	}

	if s.cfg.MaxMessageSize > 0 && len(data) > s.cfg.MaxMessageSize {
		s.logger.Warn("ChatSocket", "Frame over size limit", map[string]interface{}{
			"session_id": s.ID,
			"bytes":      len(data),
			"limit":      s.cfg.MaxMessageSize,
		})
		return false, s.sendReply(MessageTooLarge)
	}

	text := string(data)
	if strings.TrimSpace(text) == "" {
		return false, s.sendReply(EmptyMessage)
	}

	reply, respErr := s.respond(ctx, text)
	if respErr != nil {
		s.logger.Error("ChatSocket", "Frame processing failed", map[string]interface{}{
			"session_id": s.ID,
			"error":      respErr,
		})
		return true, s.sendReply(ProcessingErrPrefix + respErr.Error())
	}
	return true, s.send(reply)
}

// respond turns a responder panic into an error so one bad frame cannot take
// down the connection handler.
func (s *Session) respond(ctx context.Context, text string) (reply *dto.ChatResponse, err error) {
	defer func() {
		if r := recover(); r != nil {
			reply, err = nil, fmt.Errorf("%v", r)
		}
	}()
	return s.responder.Respond(ctx, text, nil)
}

func (s *Session) sendReply(text string) error {
	return s.send(dto.NewChatResponse(text))
}

func (s *Session) send(reply *dto.ChatResponse) error {
	payload, err := json.Marshal(reply)
	if err != nil {
		return err
	}
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteMessage(websocket.TextMessage, payload)
}

func (s *Session) finishOnReadError(err error) State {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return s.finish(StateClosedTimeout, "idle timeout")
	}

	var closeErr *fastws.CloseError
	if errors.As(err, &closeErr) || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) {
			s.logger.Warn("ChatSocket", "Peer closed abnormally", map[string]interface{}{"session_id": s.ID, "error": err})
		}
		// The peer is gone, no close frame to send back.
		return s.finish(StateClosed, "")
	}

	s.logger.Error("ChatSocket", "Read failed", map[string]interface{}{"session_id": s.ID, "error": err})
	return s.finish(StateClosedError, "")
}

// finish sends a close frame when reason is non-empty, closes the transport
// and records the terminal state.
func (s *Session) finish(st State, reason string) State {
	s.closeOnce.Do(func() {
		if reason != "" {
			msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, reason)
			_ = s.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
		}
		_ = s.conn.Close()
	})
	s.setState(st)
	s.logger.Info("ChatSocket", "Session closed", map[string]interface{}{
		"session_id": s.ID,
		"state":      st.String(),
	})
	return st
}
