package service

import (
	"context"
	"log"

	"pulsecheck/internal/cache"
	"pulsecheck/internal/model"
	"pulsecheck/internal/repository"
)

// CatalogService loads versioned question catalogs: cache, then store, then
// the built-in defaults. Loading never fails and never blocks a flow on a
// broken collaborator; the worst case is a warn-logged default.
type CatalogService struct {
	catalogRepo  repository.CatalogRepo
	catalogCache cache.CatalogCache
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(catalogRepo repository.CatalogRepo, catalogCache cache.CatalogCache) *CatalogService {
	return &CatalogService{
		catalogRepo:  catalogRepo,
		catalogCache: catalogCache,
	}
}

// Load resolves the catalog for an assessment type and scoring version.
func (s *CatalogService) Load(ctx context.Context, assessmentType string, version model.CatalogVersion) model.Catalog {
	if s.catalogCache != nil {
		if cat, err := s.catalogCache.Get(ctx, assessmentType, version); err == nil && cat != nil {
			return cat
		}
	}

	if s.catalogRepo != nil {
		cat, err := s.catalogRepo.GetByTypeVersion(ctx, assessmentType, version)
		if err != nil {
			log.Printf("catalog: store lookup failed for %s/%s: %v", assessmentType, version, err)
		}
		if cat != nil {
			if s.catalogCache != nil {
				if err := s.catalogCache.Set(ctx, cat); err != nil {
					log.Printf("catalog: cache set failed for %s/%s: %v", assessmentType, version, err)
				}
			}
			return cat
		}
	}

	log.Printf("catalog: falling back to built-in defaults for %s/%s", assessmentType, version)
	return DefaultFor(version)
}

// EnsureDefaults seeds the store with the built-in catalogs so they are
// editable later. Best effort; a failure is logged, never fatal.
func (s *CatalogService) EnsureDefaults(ctx context.Context) {
	if s.catalogRepo == nil {
		return
	}
	for _, version := range []model.CatalogVersion{model.CatalogVersionV1, model.CatalogVersionV2} {
		cat := DefaultFor(version)
		existing, err := s.catalogRepo.GetByTypeVersion(ctx, cat.AssessmentType(), version)
		if err != nil {
			log.Printf("catalog: default seed lookup failed for %s: %v", version, err)
			continue
		}
		if existing != nil {
			continue
		}
		if err := s.catalogRepo.Upsert(ctx, cat); err != nil {
			log.Printf("catalog: default seed failed for %s: %v", version, err)
		}
	}
}
