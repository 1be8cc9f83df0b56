package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IdeaStatus is the lifecycle state of a content idea.
// extracted -> writing -> written, with a retreat back to extracted
// when processing fails mid-batch.
type IdeaStatus string

const (
	IdeaStatusExtracted IdeaStatus = "extracted"
	IdeaStatusWriting   IdeaStatus = "writing"
	IdeaStatusWritten   IdeaStatus = "written"
)

// ContentType classifies the angle of a drafted post.
type ContentType string

const (
	ContentTypeStory      ContentType = "story"
	ContentTypeInsight    ContentType = "insight"
	ContentTypeTip        ContentType = "tip"
	ContentTypeFramework  ContentType = "framework"
	ContentTypeCaseStudy  ContentType = "case_study"
	ContentTypeQuestion   ContentType = "question"
	ContentTypeListicle   ContentType = "listicle"
	ContentTypeContrarian ContentType = "contrarian"
)

// Pillar is one of the four fixed thematic buckets used to keep a
// posting schedule topically balanced.
type Pillar string

const (
	PillarPersonalStory   Pillar = "personal_story"
	PillarIndustryInsight Pillar = "industry_insight"
	PillarTacticalAdvice  Pillar = "tactical_advice"
	PillarSocialProof     Pillar = "social_proof"
)

// NumPillars is the divisor for the pillar-balance average.
const NumPillars = 4

// AllPillars lists every pillar in a stable order.
var AllPillars = []Pillar{
	PillarPersonalStory,
	PillarIndustryInsight,
	PillarTacticalAdvice,
	PillarSocialProof,
}

// ContentIdea is a candidate post concept mined from a user's sources.
// Collection: content_ideas
type ContentIdea struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
	UserID    string             `bson:"user_id" json:"user_id"`

	Title         string      `bson:"title" json:"title"`
	CoreInsight   string      `bson:"core_insight" json:"core_insight"`
	FullContext   string      `bson:"full_context" json:"full_context"`
	WhyPostWorthy string      `bson:"why_post_worthy" json:"why_post_worthy"`
	ContentType   ContentType `bson:"content_type" json:"content_type"`
	Pillar        *Pillar     `bson:"pillar,omitempty" json:"pillar,omitempty"`

	// RelevanceScore is assigned by the extraction model on a 0-10 scale.
	// Nil means the extractor did not score this idea.
	RelevanceScore *float64 `bson:"relevance_score,omitempty" json:"relevance_score,omitempty"`

	// PostReady marks ideas the extractor judged publishable without
	// further research.
	PostReady bool `bson:"post_ready" json:"post_ready"`

	Status IdeaStatus `bson:"status" json:"status"`

	// CompositeScore and SimilarityFingerprint are written once the idea
	// has been scored by a nightly run. The fingerprint is stored for
	// future dedup tooling and is not enforced as a hard constraint.
	CompositeScore        *float64   `bson:"composite_score,omitempty" json:"composite_score,omitempty"`
	SimilarityFingerprint string     `bson:"similarity_fingerprint,omitempty" json:"similarity_fingerprint,omitempty"`
	LastSurfacedAt        *time.Time `bson:"last_surfaced_at,omitempty" json:"last_surfaced_at,omitempty"`
}
