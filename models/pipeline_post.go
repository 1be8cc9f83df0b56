package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PostStatus is the lifecycle state of a pipeline post.
type PostStatus string

const (
	// PostStatusReviewing marks the single scheduled post of a batch run,
	// awaiting user review before publish.
	PostStatusReviewing PostStatus = "reviewing"

	// PostStatusApproved marks buffer posts waiting for a publish slot.
	PostStatusApproved PostStatus = "approved"

	PostStatusScheduled PostStatus = "scheduled"
	PostStatusPublished PostStatus = "published"
	PostStatusFailed    PostStatus = "failed"
)

// PipelinePost is the persisted output of processing one content idea.
// Collection: pipeline_posts
type PipelinePost struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
	UserID    string             `bson:"user_id" json:"user_id"`
	IdeaID    primitive.ObjectID `bson:"idea_id" json:"idea_id"`

	// Pillar is copied from the source idea so pillar-balance counting
	// does not need a join back to content_ideas.
	Pillar *Pillar `bson:"pillar,omitempty" json:"pillar,omitempty"`

	Title           string   `bson:"title" json:"title"`
	DraftContent    string   `bson:"draft_content" json:"draft_content"`
	PolishedContent string   `bson:"polished_content" json:"polished_content"`
	Variations      []string `bson:"variations,omitempty" json:"variations,omitempty"`
	DMTemplate      string   `bson:"dm_template,omitempty" json:"dm_template,omitempty"`
	CTAWord         string   `bson:"cta_word,omitempty" json:"cta_word,omitempty"`

	Status PostStatus `bson:"status" json:"status"`

	// ScheduledTime is UTC. At most one post per batch run carries a
	// non-nil value; the rest are buffer posts.
	ScheduledTime *time.Time `bson:"scheduled_time,omitempty" json:"scheduled_time,omitempty"`

	IsBuffer       bool `bson:"is_buffer" json:"is_buffer"`
	BufferPosition *int `bson:"buffer_position,omitempty" json:"buffer_position,omitempty"`

	HookScore     float64  `bson:"hook_score" json:"hook_score"`
	PolishChanges []string `bson:"polish_changes,omitempty" json:"polish_changes,omitempty"`

	AutoPublishAfter *time.Time `bson:"auto_publish_after,omitempty" json:"auto_publish_after,omitempty"`
}
