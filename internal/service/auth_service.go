package service

import (
	"aiinterviewer/internal/cache"
	"aiinterviewer/internal/model"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidCredentials = errors.New("invalid backend token")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// AuthService exchanges a backend bearer token for a gateway JWT. The
// backend token never leaves the token store; the JWT only carries the
// key it is stored under.
type AuthService struct {
	api       *APIClient
	tokens    cache.TokenStore
	credits   cache.CreditCache
	jwtSecret []byte
	ttl       time.Duration
}

// NewAuthService creates a new auth service. credits may be nil.
func NewAuthService(api *APIClient, tokens cache.TokenStore, credits cache.CreditCache, jwtSecret string) *AuthService {
	return &AuthService{
		api:       api,
		tokens:    tokens,
		credits:   credits,
		jwtSecret: []byte(jwtSecret),
		ttl:       24 * time.Hour,
	}
}

// Login verifies backendToken against the credit balance endpoint and
// returns a gateway token for it
func (s *AuthService) Login(ctx context.Context, backendToken string) (*model.LoginResponse, error) {
	backendToken = strings.TrimSpace(strings.TrimPrefix(backendToken, "Bearer "))
	if backendToken == "" {
		return nil, ErrInvalidCredentials
	}

	balance, err := s.api.WithCredentials(StaticCredentials(backendToken)).GetCreditBalance(ctx)
	if errors.Is(err, ErrUnauthorized) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("verify token: %w", err)
	}

	sessionKey := uuid.New().String()
	if err := s.tokens.Save(ctx, sessionKey, backendToken); err != nil {
		return nil, fmt.Errorf("store token: %w", err)
	}
	if s.credits != nil {
		if err := s.credits.Set(ctx, sessionKey, balance); err != nil {
			slog.Warn("Failed to cache credit balance", "error", err)
		}
	}

	now := time.Now()
	expiresAt := now.Add(s.ttl)
	claims := &model.SessionClaims{
		SessionKey: sessionKey,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sessionKey,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, err
	}

	return &model.LoginResponse{
		Token:     tokenString,
		ExpiresAt: expiresAt,
		Credits:   balance,
	}, nil
}

// ValidateSessionToken validates a gateway JWT and returns its claims
func (s *AuthService) ValidateSessionToken(tokenString string) (*model.SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &model.SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*model.SessionClaims)
	if !ok || !token.Valid || claims.SessionKey == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// Logout forgets the backend token of a login
func (s *AuthService) Logout(ctx context.Context, sessionKey string) error {
	if s.credits != nil {
		_ = s.credits.Delete(ctx, sessionKey)
	}
	return s.tokens.Delete(ctx, sessionKey)
}
