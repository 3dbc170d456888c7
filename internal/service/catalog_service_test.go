package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pulsecheck/internal/model"
)

type fakeCatalogRepo struct {
	catalogs map[string]model.Catalog
	getErr   error
	upserts  int
}

func repoKey(assessmentType string, version model.CatalogVersion) string {
	return assessmentType + "/" + string(version)
}

func (r *fakeCatalogRepo) GetByTypeVersion(ctx context.Context, assessmentType string, version model.CatalogVersion) (model.Catalog, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	return r.catalogs[repoKey(assessmentType, version)], nil
}

func (r *fakeCatalogRepo) Upsert(ctx context.Context, catalog model.Catalog) error {
	if r.catalogs == nil {
		r.catalogs = make(map[string]model.Catalog)
	}
	r.catalogs[repoKey(catalog.AssessmentType(), catalog.Version())] = catalog
	r.upserts++
	return nil
}

type fakeCatalogCache struct {
	catalogs map[string]model.Catalog
	sets     int
}

func (c *fakeCatalogCache) Get(ctx context.Context, assessmentType string, version model.CatalogVersion) (model.Catalog, error) {
	return c.catalogs[repoKey(assessmentType, version)], nil
}

func (c *fakeCatalogCache) Set(ctx context.Context, catalog model.Catalog) error {
	if c.catalogs == nil {
		c.catalogs = make(map[string]model.Catalog)
	}
	c.catalogs[repoKey(catalog.AssessmentType(), catalog.Version())] = catalog
	c.sets++
	return nil
}

func TestCatalogServiceLoadFromStoreFillsCache(t *testing.T) {
	stored := DefaultFor(model.CatalogVersionV1)
	repo := &fakeCatalogRepo{catalogs: map[string]model.Catalog{
		repoKey(stored.AssessmentType(), stored.Version()): stored,
	}}
	cache := &fakeCatalogCache{}
	svc := NewCatalogService(repo, cache)

	cat := svc.Load(context.Background(), stored.AssessmentType(), model.CatalogVersionV1)

	require.Equal(t, stored, cat)
	assert.Equal(t, 1, cache.sets)

	// Second load is served from the cache.
	again := svc.Load(context.Background(), stored.AssessmentType(), model.CatalogVersionV1)
	require.Equal(t, stored, again)
	assert.Equal(t, 1, cache.sets)
}

func TestCatalogServiceFallsBackToDefaults(t *testing.T) {
	svc := NewCatalogService(&fakeCatalogRepo{}, &fakeCatalogCache{})

	cat := svc.Load(context.Background(), "anything", model.CatalogVersionV2)

	require.Equal(t, DefaultFor(model.CatalogVersionV2), cat)
}

func TestCatalogServiceStoreErrorStillServesDefaults(t *testing.T) {
	repo := &fakeCatalogRepo{getErr: errors.New("store down")}
	svc := NewCatalogService(repo, &fakeCatalogCache{})

	cat := svc.Load(context.Background(), DefaultTypeV1, model.CatalogVersionV1)

	require.NotNil(t, cat)
	require.Equal(t, DefaultFor(model.CatalogVersionV1), cat)
}

func TestCatalogServiceEnsureDefaultsSeedsOnce(t *testing.T) {
	repo := &fakeCatalogRepo{}
	svc := NewCatalogService(repo, nil)

	svc.EnsureDefaults(context.Background())
	assert.Equal(t, 2, repo.upserts)

	// Already seeded: nothing to write.
	svc.EnsureDefaults(context.Background())
	assert.Equal(t, 2, repo.upserts)
}
