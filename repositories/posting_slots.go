package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"content-autopilot/models"
)

type PostingSlotRepository struct {
	col *mongo.Collection
}

func NewPostingSlotRepository(db *mongo.Database) *PostingSlotRepository {
	return &PostingSlotRepository{col: db.Collection("posting_slots")}
}

// FindActiveByUser returns the user's active slots ordered by slot number.
// Inactive slots never participate in candidate generation.
func (r *PostingSlotRepository) FindActiveByUser(ctx context.Context, userID string) ([]models.PostingSlot, error) {
	filter := bson.M{"user_id": userID, "active": true}
	opts := options.Find().SetSort(bson.D{{Key: "slot_number", Value: 1}})

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var slots []models.PostingSlot
	if err := cur.All(ctx, &slots); err != nil {
		return nil, err
	}
	return slots, nil
}

// ListByUser returns all slots, active or not, for the API surface.
func (r *PostingSlotRepository) ListByUser(ctx context.Context, userID string) ([]models.PostingSlot, error) {
	opts := options.Find().SetSort(bson.D{{Key: "slot_number", Value: 1}})
	cur, err := r.col.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var slots []models.PostingSlot
	if err := cur.All(ctx, &slots); err != nil {
		return nil, err
	}
	return slots, nil
}

// UpsertBySlotNumber upserts a slot uniquely identified by (user_id, slot_number).
func (r *PostingSlotRepository) UpsertBySlotNumber(ctx context.Context, s *models.PostingSlot) (*mongo.UpdateResult, error) {
	now := time.Now()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.UpdatedAt = now

	filter := bson.M{"user_id": s.UserID, "slot_number": s.SlotNumber}
	update := bson.M{
		"$setOnInsert": bson.M{"created_at": s.CreatedAt},
		"$set": bson.M{
			"updated_at":  s.UpdatedAt,
			"hour":        s.Hour,
			"minute":      s.Minute,
			"day_of_week": s.DayOfWeek,
			"timezone":    s.Timezone,
			"active":      s.Active,
		},
	}
	opts := options.Update().SetUpsert(true)
	return r.col.UpdateOne(ctx, filter, update, opts)
}
