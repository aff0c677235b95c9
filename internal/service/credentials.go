package service

import (
	"aiinterviewer/internal/cache"
	"context"
	"fmt"
)

// CredentialProvider supplies the bearer token for backend requests
type CredentialProvider interface {
	Token(ctx context.Context) (string, error)
}

// StaticCredentials is a fixed token, e.g. from API_TOKEN
type StaticCredentials string

// Token implements CredentialProvider
func (s StaticCredentials) Token(ctx context.Context) (string, error) {
	if s == "" {
		return "", ErrUnauthorized
	}
	return string(s), nil
}

// StoredCredentials resolves the token of one gateway login from the token store
type StoredCredentials struct {
	Store cache.TokenStore
	Key   string
}

// Token implements CredentialProvider
func (s StoredCredentials) Token(ctx context.Context) (string, error) {
	token, err := s.Store.Get(ctx, s.Key)
	if err != nil {
		return "", fmt.Errorf("failed to load credentials: %w", err)
	}
	if token == "" {
		return "", ErrUnauthorized
	}
	return token, nil
}
