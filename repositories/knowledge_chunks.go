package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"content-autopilot/models"
)

type KnowledgeChunkRepository struct {
	col *mongo.Collection
}

func NewKnowledgeChunkRepository(db *mongo.Database) *KnowledgeChunkRepository {
	return &KnowledgeChunkRepository{col: db.Collection("knowledge_chunks")}
}

func (r *KnowledgeChunkRepository) Insert(ctx context.Context, c *models.KnowledgeChunk) (*mongo.InsertOneResult, error) {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	return r.col.InsertOne(ctx, c)
}

// SearchByText runs a text-index search scoped to the user and returns
// the best-matching chunks, highest score first.
func (r *KnowledgeChunkRepository) SearchByText(ctx context.Context, userID, query string, limit int) ([]models.KnowledgeChunk, error) {
	if limit <= 0 {
		limit = 5
	}
	filter := bson.M{
		"user_id": userID,
		"$text":   bson.M{"$search": query},
	}
	opts := options.Find().
		SetProjection(bson.M{"score": bson.M{"$meta": "textScore"}}).
		SetSort(bson.M{"score": bson.M{"$meta": "textScore"}}).
		SetLimit(int64(limit))

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var chunks []models.KnowledgeChunk
	if err := cur.All(ctx, &chunks); err != nil {
		return nil, err
	}
	return chunks, nil
}
