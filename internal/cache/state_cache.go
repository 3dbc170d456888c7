package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"pulsecheck/internal/model"
)

// StateCache holds per-session flow snapshots so a session evicted from the
// in-memory registry can be restored with its guard flags intact.
type StateCache interface {
	Set(ctx context.Context, snap *model.Snapshot) error
	Get(ctx context.Context, sessionID string) (*model.Snapshot, error)
	Delete(ctx context.Context, sessionID string) error
}

type stateCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStateCache creates a new state cache.
func NewStateCache(client *redis.Client) StateCache {
	return &stateCache{
		client: client,
		ttl:    24 * time.Hour,
	}
}

func (c *stateCache) key(sessionID string) string {
	return "assessment:" + sessionID + ":state"
}

func (c *stateCache) Set(ctx context.Context, snap *model.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(snap.State.SessionID), data, c.ttl).Err()
}

func (c *stateCache) Get(ctx context.Context, sessionID string) (*model.Snapshot, error) {
	data, err := c.client.Get(ctx, c.key(sessionID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var snap model.Snapshot
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

func (c *stateCache) Delete(ctx context.Context, sessionID string) error {
	return c.client.Del(ctx, c.key(sessionID)).Err()
}
