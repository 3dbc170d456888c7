package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"pulsecheck/internal/model"
)

// SubmissionRepo handles MongoDB operations for scored submissions. It is
// the persistence collaborator behind the submission guard: Create
// deduplicates on the submissionId idempotency key, so a duplicate
// transmission attempt is absorbed rather than stored twice.
type SubmissionRepo interface {
	Create(ctx context.Context, sub *model.Submission) error
	Exists(ctx context.Context, submissionID string) (bool, error)
	GetBySessionID(ctx context.Context, sessionID string) (*model.Submission, error)
}

type submissionRepo struct {
	collection *mongo.Collection
}

// NewSubmissionRepo creates a new submission repository.
func NewSubmissionRepo(db *mongo.Database) SubmissionRepo {
	return &submissionRepo{
		collection: db.Collection("submissions"),
	}
}

func (r *submissionRepo) Create(ctx context.Context, sub *model.Submission) error {
	exists, err := r.Exists(ctx, sub.SubmissionID)
	if err != nil {
		return err
	}
	if exists {
		// Same idempotency key: already recorded, nothing to do.
		return nil
	}

	// Generate ObjectID if not provided
	if sub.ID == "" {
		sub.ID = primitive.NewObjectID().Hex()
	}
	if sub.SubmittedAt.IsZero() {
		sub.SubmittedAt = time.Now()
	}

	_, err = r.collection.InsertOne(ctx, sub)
	return err
}

func (r *submissionRepo) Exists(ctx context.Context, submissionID string) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"submissionId": submissionID})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *submissionRepo) GetBySessionID(ctx context.Context, sessionID string) (*model.Submission, error) {
	var sub model.Submission
	err := r.collection.FindOne(ctx, bson.M{"sessionId": sessionID}).Decode(&sub)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}
