package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenStore keeps the backend bearer token of each gateway login
type TokenStore interface {
	Save(ctx context.Context, key, token string) error
	Get(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}

type tokenStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewTokenStore creates a redis-backed token store
func NewTokenStore(client *redis.Client) TokenStore {
	return &tokenStore{
		client: client,
		ttl:    24 * time.Hour, // Logins expire with their JWT
	}
}

func (s *tokenStore) key(key string) string {
	return fmt.Sprintf("auth:%s:token", key)
}

func (s *tokenStore) Save(ctx context.Context, key, token string) error {
	return s.client.Set(ctx, s.key(key), token, s.ttl).Err()
}

// Get returns "" with no error when the login is unknown or expired
func (s *tokenStore) Get(ctx context.Context, key string) (string, error) {
	token, err := s.client.Get(ctx, s.key(key)).Result()
	if err == redis.Nil {
		return "", nil
	}
	return token, err
}

func (s *tokenStore) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.key(key)).Err()
}
