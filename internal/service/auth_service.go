package service

import (
	"context"
	"errors"
	"time"

	"docchat-be/internal/dto"
	"docchat-be/internal/pkg/serverutils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidCredentials = errors.New("Invalid credentials")
	ErrUsernameTooShort   = errors.New("Username must be more than 8 characters")
)

const minUsernameLength = 9

type IAuthService interface {
	IssueToken(ctx context.Context, req *dto.TokenRequest) (*dto.TokenResponse, error)
}

// authService mints tokens for any username/password pair that passes the
// shape checks. There is no user store and no revocation.
type authService struct {
	secret []byte
	expiry time.Duration
	now    func() time.Time
}

func NewAuthService(secret string, expiry time.Duration) IAuthService {
	return &authService{
		secret: []byte(secret),
		expiry: expiry,
		now:    time.Now,
	}
}

func (s *authService) IssueToken(ctx context.Context, req *dto.TokenRequest) (*dto.TokenResponse, error) {
	if err := serverutils.Validator().StructCtx(ctx, req); err != nil {
		return nil, ErrInvalidCredentials
	}
	if len(req.Username) < minUsernameLength {
		return nil, ErrUsernameTooShort
	}

	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   req.Username,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(s.secret)
	if err != nil {
		return nil, err
	}

	return &dto.TokenResponse{AccessToken: signedToken, TokenType: "bearer"}, nil
}
