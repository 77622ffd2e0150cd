package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"docchat-be/internal/dto"
	"docchat-be/internal/pkg/logger"

	fastws "github.com/fasthttp/websocket"
	"github.com/gofiber/websocket/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type frame struct {
	messageType int
	data        []byte
}

type timeoutError struct{}

func (timeoutError) Error() string   { return "i/o timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

// fakeConn feeds frames from inbound and records everything written.
// Closing inbound simulates the peer sending a normal close.
type fakeConn struct {
	inbound  chan frame
	outbound chan []byte

	mu       sync.Mutex
	deadline time.Time
	controls []int
	closed   bool
	readErr  error
	writeErr error
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		inbound:  make(chan frame, 16),
		outbound: make(chan []byte, 16),
	}
}

func (c *fakeConn) ReadMessage() (int, []byte, error) {
	c.mu.Lock()
	deadline, readErr := c.deadline, c.readErr
	c.mu.Unlock()
	if readErr != nil {
		return 0, nil, readErr
	}

	var expired <-chan time.Time
	if !deadline.IsZero() {
		timer := time.NewTimer(time.Until(deadline))
		defer timer.Stop()
		expired = timer.C
	}

	select {
	case f, ok := <-c.inbound:
		if !ok {
			return 0, nil, &fastws.CloseError{Code: fastws.CloseNormalClosure}
		}
		return f.messageType, f.data, nil
	case <-expired:
		return 0, nil, timeoutError{}
	}
}

func (c *fakeConn) WriteMessage(messageType int, data []byte) error {
	c.mu.Lock()
	err := c.writeErr
	c.mu.Unlock()
	if err != nil {
		return err
	}
	c.outbound <- data
	return nil
}

func (c *fakeConn) WriteControl(messageType int, data []byte, deadline time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.controls = append(c.controls, messageType)
	return nil
}

func (c *fakeConn) SetReadDeadline(t time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deadline = t
	return nil
}

func (c *fakeConn) SetWriteDeadline(t time.Time) error { return nil }

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeConn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *fakeConn) sentClose() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, ct := range c.controls {
		if ct == websocket.CloseMessage {
			return true
		}
	}
	return false
}

func (c *fakeConn) sendText(s string) {
	c.inbound <- frame{websocket.TextMessage, []byte(s)}
}

type echoResponder struct {
	mu      sync.Mutex
	queries []string
}

func (r *echoResponder) Respond(ctx context.Context, query string, restrictTo []string) (*dto.ChatResponse, error) {
	r.mu.Lock()
	r.queries = append(r.queries, query)
	r.mu.Unlock()
	if query == "boom" {
		return nil, errors.New("resolver exploded")
	}
	if query == "crash" {
		var counts map[string]int
		counts[query]++
	}
	return dto.NewChatResponse("echo: " + query), nil
}

func (r *echoResponder) seen() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.queries...)
}

type harness struct {
	t         *testing.T
	conn      *fakeConn
	responder *echoResponder
	session   *Session
	done      chan State
}

func startSession(t *testing.T, idle time.Duration) *harness {
	t.Helper()
	h := &harness{
		t:         t,
		conn:      newFakeConn(),
		responder: &echoResponder{},
		done:      make(chan State, 1),
	}
	h.session = NewSession(h.conn, h.responder, SessionConfig{MaxMessageSize: 1024, IdleTimeout: idle}, logger.NewNopLogger())
	go func() { h.done <- h.session.Run(context.Background()) }()
	return h
}

func (h *harness) nextReply() string {
	h.t.Helper()
	select {
	case raw := <-h.conn.outbound:
		var reply dto.ChatResponse
		require.NoError(h.t, json.Unmarshal(raw, &reply))
		assert.False(h.t, reply.Timestamp.IsZero())
		return reply.Response
	case <-time.After(2 * time.Second):
		h.t.Fatal("no reply frame")
		return ""
	}
}

func (h *harness) wait() State {
	h.t.Helper()
	select {
	case st := <-h.done:
		return st
	case <-time.After(2 * time.Second):
		h.t.Fatal("session did not terminate")
		return StateOpen
	}
}

func (h *harness) hangUp() State {
	close(h.conn.inbound)
	return h.wait()
}

func TestSessionAnswersTextFrames(t *testing.T) {
	h := startSession(t, time.Minute)

	h.conn.sendText("hello")
	assert.Equal(t, "echo: hello", h.nextReply())

	assert.Equal(t, StateClosed, h.hangUp())
	assert.True(t, h.conn.isClosed())
	assert.False(t, h.conn.sentClose(), "no close frame back to a peer that already left")
}

func TestSessionRejectsOversizedFrameAndStaysOpen(t *testing.T) {
	h := startSession(t, time.Minute)

	h.conn.sendText(strings.Repeat("a", 1025))
	assert.Equal(t, MessageTooLarge, h.nextReply())

	h.conn.sendText(strings.Repeat("b", 1024))
	assert.Equal(t, "echo: "+strings.Repeat("b", 1024), h.nextReply())

	assert.Equal(t, StateClosed, h.hangUp())
	assert.Len(t, h.responder.seen(), 1, "oversized frame never reaches the responder")
}

func TestSessionSizeLimitCountsBytes(t *testing.T) {
	h := startSession(t, time.Minute)

	// 513 two-byte runes: 513 characters but 1026 bytes.
	h.conn.sendText(strings.Repeat("é", 513))
	assert.Equal(t, MessageTooLarge, h.nextReply())

	assert.Equal(t, StateClosed, h.hangUp())
}

func TestSessionRejectsBlankFrames(t *testing.T) {
	h := startSession(t, time.Minute)

	for _, blank := range []string{"", "   ", "\n\t "} {
		h.conn.sendText(blank)
		assert.Equal(t, EmptyMessage, h.nextReply())
	}
	h.conn.sendText("still here")
	assert.Equal(t, "echo: still here", h.nextReply())

	assert.Equal(t, StateClosed, h.hangUp())
	assert.Equal(t, []string{"still here"}, h.responder.seen())
}

func TestSessionExitRepliesThenCloses(t *testing.T) {
	h := startSession(t, time.Minute)

	h.conn.sendText("exit")
	h.conn.sendText("never read")

	assert.Equal(t, "echo: exit", h.nextReply())
	assert.Equal(t, StateClosed, h.wait())
	assert.True(t, h.conn.isClosed())
	assert.True(t, h.conn.sentClose())
	assert.Equal(t, []string{"exit"}, h.responder.seen())
	assert.Len(t, h.conn.inbound, 1, "frames after exit are not consumed")
}

func TestSessionExitMustMatchExactly(t *testing.T) {
	h := startSession(t, time.Minute)

	h.conn.sendText(" exit")
	assert.Equal(t, "echo:  exit", h.nextReply())
	h.conn.sendText("EXIT")
	assert.Equal(t, "echo: EXIT", h.nextReply())

	assert.Equal(t, StateClosed, h.hangUp())
}

func TestSessionIdleTimeout(t *testing.T) {
	h := startSession(t, 50*time.Millisecond)

	start := time.Now()
	assert.Equal(t, StateClosedTimeout, h.wait())
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
	assert.True(t, h.conn.isClosed())
	assert.True(t, h.conn.sentClose())
	assert.Equal(t, StateClosedTimeout, h.session.State())
}

func TestSessionIdleTimerResetsOnTraffic(t *testing.T) {
	h := startSession(t, 150*time.Millisecond)

	for i := 0; i < 3; i++ {
		time.Sleep(80 * time.Millisecond)
		h.conn.sendText("ping")
		assert.Equal(t, "echo: ping", h.nextReply())
	}
	assert.Equal(t, StateClosedTimeout, h.wait())
	assert.Len(t, h.responder.seen(), 3)
}

func TestSessionSurvivesProcessingError(t *testing.T) {
	h := startSession(t, time.Minute)

	h.conn.sendText("boom")
	reply := h.nextReply()
	assert.True(t, strings.HasPrefix(reply, ProcessingErrPrefix))
	assert.Contains(t, reply, "resolver exploded")

	h.conn.sendText("after")
	assert.Equal(t, "echo: after", h.nextReply())

	assert.Equal(t, StateClosed, h.hangUp())
}

func TestSessionSurvivesResponderPanic(t *testing.T) {
	h := startSession(t, time.Minute)

	h.conn.sendText("crash")
	reply := h.nextReply()
	assert.True(t, strings.HasPrefix(reply, ProcessingErrPrefix))
	assert.Contains(t, reply, "assignment to entry in nil map")

	h.conn.sendText("after")
	assert.Equal(t, "echo: after", h.nextReply())

	assert.Equal(t, StateClosed, h.hangUp())
	assert.Equal(t, []string{"crash", "after"}, h.responder.seen())
}

func TestSessionRejectsBinaryFrames(t *testing.T) {
	h := startSession(t, time.Minute)

	h.conn.inbound <- frame{websocket.BinaryMessage, []byte{0x01, 0x02}}
	assert.True(t, strings.HasPrefix(h.nextReply(), ProcessingErrPrefix))

	h.conn.sendText("text again")
	assert.Equal(t, "echo: text again", h.nextReply())

	assert.Equal(t, StateClosed, h.hangUp())
	assert.Equal(t, []string{"text again"}, h.responder.seen())
}

func TestSessionPreservesArrivalOrder(t *testing.T) {
	h := startSession(t, time.Minute)

	inputs := []string{"one", "two", "three", "four"}
	for _, in := range inputs {
		h.conn.sendText(in)
	}
	for _, in := range inputs {
		assert.Equal(t, "echo: "+in, h.nextReply())
	}

	assert.Equal(t, StateClosed, h.hangUp())
	assert.Equal(t, inputs, h.responder.seen())
}

func TestSessionWriteFailureEndsSession(t *testing.T) {
	h := startSession(t, time.Minute)
	h.conn.mu.Lock()
	h.conn.writeErr = errors.New("broken pipe")
	h.conn.mu.Unlock()

	h.conn.sendText("hello")
	assert.Equal(t, StateClosedError, h.wait())
	assert.True(t, h.conn.isClosed())
}

func TestSessionUnexpectedReadError(t *testing.T) {
	conn := newFakeConn()
	conn.readErr = errors.New("tls: bad record MAC")
	s := NewSession(conn, &echoResponder{}, SessionConfig{MaxMessageSize: 1024, IdleTimeout: time.Minute}, logger.NewNopLogger())

	assert.Equal(t, StateClosedError, s.Run(context.Background()))
	assert.True(t, conn.isClosed())
}

func TestSessionAbnormalPeerClose(t *testing.T) {
	conn := newFakeConn()
	conn.readErr = &fastws.CloseError{Code: fastws.CloseAbnormalClosure}
	s := NewSession(conn, &echoResponder{}, SessionConfig{MaxMessageSize: 1024, IdleTimeout: time.Minute}, logger.NewNopLogger())

	assert.Equal(t, StateClosed, s.Run(context.Background()))
}

func TestStateStrings(t *testing.T) {
	assert.Equal(t, "OPEN", StateOpen.String())
	assert.Equal(t, "CLOSED_TIMEOUT", StateClosedTimeout.String())
}
