package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CHAT_IDLE_TIMEOUT", "")
	t.Setenv("ALLOWED_EXTENSIONS", "")

	cfg := Load()

	assert.Equal(t, "/api/v1", cfg.App.APIPrefix)
	assert.Equal(t, 1024, cfg.Chat.MaxMessageSize)
	assert.Equal(t, 30*time.Second, cfg.Chat.IdleTimeout)
	assert.Equal(t, 200, cfg.Chat.PreviewLength)
	assert.Equal(t, 10*1024*1024, cfg.Storage.MaxFileSize)
	assert.ElementsMatch(t, []string{"pdf", "docx", "pptx", "xlsx", "csv", "txt"}, cfg.Storage.AllowedExtensions)
	assert.Equal(t, 30*time.Minute, cfg.Auth.AccessTokenExpiry)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("CHAT_IDLE_TIMEOUT", "5s")
	t.Setenv("CHAT_MAX_MESSAGE_SIZE", "2048")
	t.Setenv("ALLOWED_EXTENSIONS", " TXT, md ,,")
	t.Setenv("AUTH_REQUIRE_FILES", "true")
	t.Setenv("GO_ENV", "production")

	cfg := Load()

	assert.Equal(t, 5*time.Second, cfg.Chat.IdleTimeout)
	assert.Equal(t, 2048, cfg.Chat.MaxMessageSize)
	assert.Equal(t, []string{"txt", "md"}, cfg.Storage.AllowedExtensions)
	assert.True(t, cfg.Auth.RequireForFiles)
	assert.True(t, cfg.IsProduction())
}

func TestGetEnvAsDurationAcceptsSeconds(t *testing.T) {
	t.Setenv("SOME_TIMEOUT", "12")
	assert.Equal(t, 12*time.Second, getEnvAsDuration("SOME_TIMEOUT", time.Second))

	t.Setenv("SOME_TIMEOUT", "not-a-duration")
	assert.Equal(t, time.Second, getEnvAsDuration("SOME_TIMEOUT", time.Second))
}
