package cache

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"pulsecheck/internal/model"
)

// FunnelCache holds the started/completed/abandoned counters per
// (assessmentType, version) funnel.
type FunnelCache interface {
	Increment(ctx context.Context, assessmentType string, version model.CatalogVersion, event model.FunnelEvent) error
	Counts(ctx context.Context, assessmentType string, version model.CatalogVersion) (*model.FunnelStats, error)
}

type funnelCache struct {
	client *redis.Client
}

// NewFunnelCache creates a new funnel counter cache.
func NewFunnelCache(client *redis.Client) FunnelCache {
	return &funnelCache{client: client}
}

func (c *funnelCache) key(assessmentType string, version model.CatalogVersion, event model.FunnelEvent) string {
	return fmt.Sprintf("funnel:%s:%s:%s", assessmentType, version, event)
}

func (c *funnelCache) Increment(ctx context.Context, assessmentType string, version model.CatalogVersion, event model.FunnelEvent) error {
	return c.client.Incr(ctx, c.key(assessmentType, version, event)).Err()
}

func (c *funnelCache) Counts(ctx context.Context, assessmentType string, version model.CatalogVersion) (*model.FunnelStats, error) {
	stats := &model.FunnelStats{
		AssessmentType: assessmentType,
		Version:        version,
	}
	for _, event := range model.FunnelEvents {
		n, err := c.client.Get(ctx, c.key(assessmentType, version, event)).Int64()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			return nil, err
		}
		switch event {
		case model.EventStarted:
			stats.Started = n
		case model.EventCompleted:
			stats.Completed = n
		case model.EventAbandoned:
			stats.Abandoned = n
		}
	}
	return stats, nil
}
