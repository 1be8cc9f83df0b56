package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"content-autopilot/models"
)

type ContentIdeaRepository struct {
	col *mongo.Collection
}

func NewContentIdeaRepository(db *mongo.Database) *ContentIdeaRepository {
	return &ContentIdeaRepository{col: db.Collection("content_ideas")}
}

func (r *ContentIdeaRepository) Insert(ctx context.Context, idea *models.ContentIdea) (*mongo.InsertOneResult, error) {
	now := time.Now()
	if idea.CreatedAt.IsZero() {
		idea.CreatedAt = now
	}
	idea.UpdatedAt = now
	if idea.Status == "" {
		idea.Status = models.IdeaStatusExtracted
	}
	return r.col.InsertOne(ctx, idea)
}

// FindExtractedByUser loads up to limit ideas with status extracted,
// newest-first. Only these are eligible for a nightly run.
func (r *ContentIdeaRepository) FindExtractedByUser(ctx context.Context, userID string, limit int) ([]models.ContentIdea, error) {
	filter := bson.M{"user_id": userID, "status": models.IdeaStatusExtracted}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var ideas []models.ContentIdea
	if err := cur.All(ctx, &ideas); err != nil {
		return nil, err
	}
	return ideas, nil
}

// UpdateStatus sets the lifecycle status and updated_at.
func (r *ContentIdeaRepository) UpdateStatus(ctx context.Context, id interface{}, status models.IdeaStatus) error {
	_, err := r.col.UpdateByID(ctx, id, bson.M{
		"$set": bson.M{"status": status, "updated_at": time.Now()},
	})
	return err
}

// MarkWriting moves an idea to writing and persists the scoring outputs
// computed for this run.
func (r *ContentIdeaRepository) MarkWriting(ctx context.Context, id interface{}, compositeScore float64, fingerprint string, surfacedAt time.Time) error {
	_, err := r.col.UpdateByID(ctx, id, bson.M{
		"$set": bson.M{
			"status":                 models.IdeaStatusWriting,
			"composite_score":        compositeScore,
			"similarity_fingerprint": fingerprint,
			"last_surfaced_at":       surfacedAt,
			"updated_at":             time.Now(),
		},
	})
	return err
}

// ListByUser returns ideas for the API surface, newest-first.
func (r *ContentIdeaRepository) ListByUser(ctx context.Context, userID string, page, pageSize int) ([]models.ContentIdea, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((page - 1) * pageSize)).
		SetLimit(int64(pageSize))

	cur, err := r.col.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var ideas []models.ContentIdea
	if err := cur.All(ctx, &ideas); err != nil {
		return nil, err
	}
	return ideas, nil
}
