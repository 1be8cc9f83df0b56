package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"content-autopilot/models"
)

type PipelinePostRepository struct {
	col *mongo.Collection
}

func NewPipelinePostRepository(db *mongo.Database) *PipelinePostRepository {
	return &PipelinePostRepository{col: db.Collection("pipeline_posts")}
}

func (r *PipelinePostRepository) Insert(ctx context.Context, p *models.PipelinePost) (*mongo.InsertOneResult, error) {
	now := time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	return r.col.InsertOne(ctx, p)
}

// RecentTitles returns titles of posts created in the lookback window,
// regardless of status. Used for freshness comparison.
func (r *PipelinePostRepository) RecentTitles(ctx context.Context, userID string, days int) ([]string, error) {
	since := time.Now().AddDate(0, 0, -days)
	filter := bson.M{"user_id": userID, "created_at": bson.M{"$gte": since}}
	opts := options.Find().SetProjection(bson.M{"title": 1})

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []struct {
		Title string `bson:"title"`
	}
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	titles := make([]string, 0, len(docs))
	for _, d := range docs {
		titles = append(titles, d.Title)
	}
	return titles, nil
}

// PillarCounts groups posts created in the lookback window with status
// approved, scheduled or published by pillar. Used for balance scoring.
func (r *PipelinePostRepository) PillarCounts(ctx context.Context, userID string, days int) (map[models.Pillar]int, error) {
	since := time.Now().AddDate(0, 0, -days)
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"user_id":    userID,
			"created_at": bson.M{"$gte": since},
			"status": bson.M{"$in": []models.PostStatus{
				models.PostStatusApproved,
				models.PostStatusScheduled,
				models.PostStatusPublished,
			}},
			"pillar": bson.M{"$ne": nil},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":   "$pillar",
			"count": bson.M{"$sum": 1},
		}}},
	}

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []struct {
		Pillar models.Pillar `bson:"_id"`
		Count  int           `bson:"count"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}

	counts := make(map[models.Pillar]int, len(rows))
	for _, row := range rows {
		counts[row.Pillar] = row.Count
	}
	return counts, nil
}

// TakenInstants returns every scheduled_time already committed for the
// user. Loaded once per batch run as a point-in-time snapshot.
func (r *PipelinePostRepository) TakenInstants(ctx context.Context, userID string) ([]time.Time, error) {
	filter := bson.M{"user_id": userID, "scheduled_time": bson.M{"$ne": nil}}
	opts := options.Find().SetProjection(bson.M{"scheduled_time": 1})

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []struct {
		ScheduledTime *time.Time `bson:"scheduled_time"`
	}
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	instants := make([]time.Time, 0, len(docs))
	for _, d := range docs {
		if d.ScheduledTime != nil {
			instants = append(instants, d.ScheduledTime.UTC())
		}
	}
	return instants, nil
}

// CountBufferPosts counts the user's buffer posts. The orchestrator
// re-queries this per buffer item to derive the next buffer position.
func (r *PipelinePostRepository) CountBufferPosts(ctx context.Context, userID string) (int, error) {
	n, err := r.col.CountDocuments(ctx, bson.M{"user_id": userID, "is_buffer": true})
	return int(n), err
}

// ListByUser returns pipeline posts for the API surface, newest-first.
func (r *PipelinePostRepository) ListByUser(ctx context.Context, userID string, page, pageSize int) ([]models.PipelinePost, error) {
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

	var posts []models.PipelinePost
	if err := cur.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}
