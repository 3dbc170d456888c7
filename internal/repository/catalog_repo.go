package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"pulsecheck/internal/model"
)

// CatalogRepo handles MongoDB operations for versioned question catalogs.
type CatalogRepo interface {
	GetByTypeVersion(ctx context.Context, assessmentType string, version model.CatalogVersion) (model.Catalog, error)
	Upsert(ctx context.Context, catalog model.Catalog) error
}

// catalogDoc is the persisted tagged-union form: exactly one of V1/V2 is
// set, matching Version.
type catalogDoc struct {
	AssessmentType string               `bson:"assessmentType"`
	Version        model.CatalogVersion `bson:"version"`
	V1             *model.CatalogV1     `bson:"v1,omitempty"`
	V2             *model.CatalogV2     `bson:"v2,omitempty"`
	UpdatedAt      time.Time            `bson:"updatedAt"`
}

type catalogRepo struct {
	collection *mongo.Collection
}

// NewCatalogRepo creates a new catalog repository.
func NewCatalogRepo(db *mongo.Database) CatalogRepo {
	return &catalogRepo{
		collection: db.Collection("catalogs"),
	}
}

func (r *catalogRepo) GetByTypeVersion(ctx context.Context, assessmentType string, version model.CatalogVersion) (model.Catalog, error) {
	var doc catalogDoc
	err := r.collection.FindOne(ctx, bson.M{"assessmentType": assessmentType, "version": version}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	switch doc.Version {
	case model.CatalogVersionV1:
		if doc.V1 != nil {
			return doc.V1, nil
		}
	case model.CatalogVersionV2:
		if doc.V2 != nil {
			return doc.V2, nil
		}
	}
	return nil, nil
}

func (r *catalogRepo) Upsert(ctx context.Context, catalog model.Catalog) error {
	doc := catalogDoc{
		AssessmentType: catalog.AssessmentType(),
		Version:        catalog.Version(),
		UpdatedAt:      time.Now(),
	}
	switch c := catalog.(type) {
	case *model.CatalogV1:
		doc.V1 = c
	case *model.CatalogV2:
		doc.V2 = c
	}

	filter := bson.M{"assessmentType": doc.AssessmentType, "version": doc.Version}
	_, err := r.collection.ReplaceOne(ctx, filter, doc, options.Replace().SetUpsert(true))
	return err
}
