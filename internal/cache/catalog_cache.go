package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"pulsecheck/internal/model"
)

// CatalogCache is a read-through cache in front of the catalog store. The
// version is part of the key, so the cached JSON decodes into the matching
// concrete catalog type.
type CatalogCache interface {
	Get(ctx context.Context, assessmentType string, version model.CatalogVersion) (model.Catalog, error)
	Set(ctx context.Context, catalog model.Catalog) error
}

type catalogCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCatalogCache creates a new catalog cache.
func NewCatalogCache(client *redis.Client) CatalogCache {
	return &catalogCache{
		client: client,
		ttl:    time.Hour,
	}
}

func (c *catalogCache) key(assessmentType string, version model.CatalogVersion) string {
	return fmt.Sprintf("catalog:%s:%s", assessmentType, version)
}

func (c *catalogCache) Get(ctx context.Context, assessmentType string, version model.CatalogVersion) (model.Catalog, error) {
	data, err := c.client.Get(ctx, c.key(assessmentType, version)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	switch version {
	case model.CatalogVersionV1:
		var cat model.CatalogV1
		if err := json.Unmarshal([]byte(data), &cat); err != nil {
			return nil, err
		}
		return &cat, nil
	case model.CatalogVersionV2:
		var cat model.CatalogV2
		if err := json.Unmarshal([]byte(data), &cat); err != nil {
			return nil, err
		}
		return &cat, nil
	}
	return nil, nil
}

func (c *catalogCache) Set(ctx context.Context, catalog model.Catalog) error {
	data, err := json.Marshal(catalog)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(catalog.AssessmentType(), catalog.Version()), data, c.ttl).Err()
}
