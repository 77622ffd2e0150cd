package service

import (
	"context"
	"testing"
	"time"

	"docchat-be/internal/dto"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueToken(t *testing.T) {
	svc := NewAuthService("test-secret", 30*time.Minute)

	res, err := svc.IssueToken(context.Background(), &dto.TokenRequest{Username: "longusername", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "bearer", res.TokenType)

	claims := jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(res.AccessToken, &claims, func(t *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	assert.True(t, token.Valid)
	assert.Equal(t, "longusername", claims.Subject)
	assert.NotEmpty(t, claims.ID)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), claims.ExpiresAt.Time, 5*time.Second)
}

func TestIssueTokenRejections(t *testing.T) {
	svc := NewAuthService("test-secret", time.Minute)
	ctx := context.Background()

	_, err := svc.IssueToken(ctx, &dto.TokenRequest{Username: "", Password: "pw"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.IssueToken(ctx, &dto.TokenRequest{Username: "longusername", Password: ""})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.IssueToken(ctx, &dto.TokenRequest{Username: "eightchr", Password: "pw"})
	assert.ErrorIs(t, err, ErrUsernameTooShort)

	_, err = svc.IssueToken(ctx, &dto.TokenRequest{Username: "ninechars", Password: "pw"})
	assert.NoError(t, err)
}

func TestIssuedTokensAreUnique(t *testing.T) {
	svc := NewAuthService("s", time.Minute)
	a, err := svc.IssueToken(context.Background(), &dto.TokenRequest{Username: "longusername", Password: "pw"})
	require.NoError(t, err)
	b, err := svc.IssueToken(context.Background(), &dto.TokenRequest{Username: "longusername", Password: "pw"})
	require.NoError(t, err)
	assert.NotEqual(t, a.AccessToken, b.AccessToken)
}
