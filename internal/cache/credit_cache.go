package cache

import (
	"aiinterviewer/internal/model"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// CreditCache mirrors the last known credit balance of each login
type CreditCache interface {
	Set(ctx context.Context, owner string, balance *model.CreditBalance) error
	Get(ctx context.Context, owner string) (*model.CreditBalance, error)
	Delete(ctx context.Context, owner string) error
}

type creditCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCreditCache creates a new credit balance cache
func NewCreditCache(client *redis.Client) CreditCache {
	return &creditCache{
		client: client,
		ttl:    time.Hour,
	}
}

func (c *creditCache) key(owner string) string {
	return fmt.Sprintf("credits:%s", owner)
}

func (c *creditCache) Set(ctx context.Context, owner string, balance *model.CreditBalance) error {
	data, err := json.Marshal(balance)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(owner), data, c.ttl).Err()
}

func (c *creditCache) Get(ctx context.Context, owner string) (*model.CreditBalance, error) {
	data, err := c.client.Get(ctx, c.key(owner)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var balance model.CreditBalance
	if err := json.Unmarshal([]byte(data), &balance); err != nil {
		return nil, err
	}
	return &balance, nil
}

func (c *creditCache) Delete(ctx context.Context, owner string) error {
	return c.client.Del(ctx, c.key(owner)).Err()
}
