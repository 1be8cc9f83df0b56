package events

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EventType identifies autopilot pipeline events.
type EventType string

const (
	// BatchDue is published by the outer user iterator when a user's
	// nightly run should start.
	BatchDue EventType = "autopilot.batch_due"

	// BatchCompleted is published after a nightly run finishes,
	// carrying the aggregate result.
	BatchCompleted EventType = "autopilot.batch_completed"

	// PostScheduled is published for the primary post of a run.
	PostScheduled EventType = "autopilot.post_scheduled"
)

// BaseEvent is the envelope every event embeds.
type BaseEvent struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"`
	Version   string    `json:"version"`
}

// BatchDueEvent triggers one user's nightly batch. Zero-valued settings
// fall back to the service config defaults.
type BatchDueEvent struct {
	BaseEvent
	UserID                string `json:"user_id"`
	PostsPerBatch         int    `json:"posts_per_batch,omitempty"`
	AutoPublish           bool   `json:"auto_publish,omitempty"`
	AutoPublishDelayHours int    `json:"auto_publish_delay_hours,omitempty"`
}

// BatchCompletedEvent reports one finished nightly run.
type BatchCompletedEvent struct {
	BaseEvent
	UserID         string   `json:"user_id"`
	PostsCreated   int      `json:"posts_created"`
	PostsScheduled int      `json:"posts_scheduled"`
	IdeasProcessed int      `json:"ideas_processed"`
	Errors         []string `json:"errors"`
}

// PostScheduledEvent announces the primary post of a run and its
// publish instant.
type PostScheduledEvent struct {
	BaseEvent
	UserID        string             `json:"user_id"`
	PostID        primitive.ObjectID `json:"post_id"`
	IdeaID        primitive.ObjectID `json:"idea_id"`
	ScheduledTime time.Time          `json:"scheduled_time"`
}
