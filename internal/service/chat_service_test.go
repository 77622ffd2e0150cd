package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"docchat-be/internal/pkg/logger"
	"docchat-be/pkg/rag/response"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubResolver struct {
	text        string
	err         error
	gotQuery    string
	gotRestrict []string
}

func (s *stubResolver) Resolve(ctx context.Context, query string, restrictTo []string) (string, error) {
	s.gotQuery = query
	s.gotRestrict = restrictTo
	return s.text, s.err
}

func TestRespondWithMatch(t *testing.T) {
	matched := strings.Repeat("x", 500)
	r := &stubResolver{text: matched}
	svc := NewChatService(r, 200, logger.NewNopLogger())

	before := time.Now()
	reply, err := svc.Respond(context.Background(), "x", []string{"a.pdf"})
	require.NoError(t, err)

	assert.Equal(t, "x", r.gotQuery)
	assert.Equal(t, []string{"a.pdf"}, r.gotRestrict)
	assert.True(t, strings.HasSuffix(reply.Response, "..."))
	body := strings.TrimSuffix(strings.TrimPrefix(reply.Response, response.FoundPrefix), "...")
	assert.Len(t, body, 200)
	assert.False(t, reply.Timestamp.Before(before))
}

func TestRespondShortMatchKeepsEllipsis(t *testing.T) {
	svc := NewChatService(&stubResolver{text: "short"}, 200, logger.NewNopLogger())
	reply, err := svc.Respond(context.Background(), "short", nil)
	require.NoError(t, err)
	assert.Equal(t, response.FoundPrefix+"short...", reply.Response)
}

func TestRespondWithoutMatch(t *testing.T) {
	svc := NewChatService(&stubResolver{}, 200, logger.NewNopLogger())
	reply, err := svc.Respond(context.Background(), "anything", nil)
	require.NoError(t, err)
	assert.Equal(t, response.NoContextMessage, reply.Response)
}

func TestRespondWrapsResolverFailure(t *testing.T) {
	svc := NewChatService(&stubResolver{err: errors.New("disk on fire")}, 200, logger.NewNopLogger())
	reply, err := svc.Respond(context.Background(), "q", nil)
	assert.Nil(t, reply)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrProcessingFailed)
	assert.Contains(t, err.Error(), "disk on fire")
}

func TestRespondDefaultsPreviewLength(t *testing.T) {
	svc := NewChatService(&stubResolver{text: strings.Repeat("y", 300)}, 0, logger.NewNopLogger())
	reply, err := svc.Respond(context.Background(), "y", nil)
	require.NoError(t, err)
	body := strings.TrimSuffix(strings.TrimPrefix(reply.Response, response.FoundPrefix), "...")
	assert.Len(t, body, response.DefaultPreviewLength)
}
