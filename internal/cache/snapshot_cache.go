package cache

import (
	"aiinterviewer/internal/interview"
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// SnapshotCache keeps the latest interview snapshot of each login so a
// reconnecting client sees where it left off.
type SnapshotCache interface {
	Set(ctx context.Context, owner string, snap *interview.Snapshot) error
	Get(ctx context.Context, owner string) (*interview.Snapshot, error)
	Delete(ctx context.Context, owner string) error
}

type snapshotCache struct {
	client *redis.Client
}

func NewSnapshotCache(client *redis.Client) SnapshotCache {
	return &snapshotCache{
		client: client,
	}
}

func (c *snapshotCache) Set(ctx context.Context, owner string, snap *interview.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, "interview:"+owner+":snapshot", data, 24*time.Hour).Err()
}

func (c *snapshotCache) Get(ctx context.Context, owner string) (*interview.Snapshot, error) {
	data, err := c.client.Get(ctx, "interview:"+owner+":snapshot").Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var snap interview.Snapshot
	err = json.Unmarshal([]byte(data), &snap)
	return &snap, err
}

func (c *snapshotCache) Delete(ctx context.Context, owner string) error {
	return c.client.Del(ctx, "interview:"+owner+":snapshot").Err()
}
