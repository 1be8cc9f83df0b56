package dto

import (
	"time"

	"content-autopilot/models"
)

// ContentIdeaDTO is the API shape of a backlog idea.
type ContentIdeaDTO struct {
	ID                    string     `json:"id"`
	Title                 string     `json:"title"`
	CoreInsight           string     `json:"core_insight"`
	WhyPostWorthy         string     `json:"why_post_worthy,omitempty"`
	ContentType           string     `json:"content_type"`
	Pillar                *string    `json:"pillar,omitempty"`
	RelevanceScore        *float64   `json:"relevance_score,omitempty"`
	PostReady             bool       `json:"post_ready"`
	Status                string     `json:"status"`
	CompositeScore        *float64   `json:"composite_score,omitempty"`
	SimilarityFingerprint string     `json:"similarity_fingerprint,omitempty"`
	LastSurfacedAt        *time.Time `json:"last_surfaced_at,omitempty"`
	CreatedAt             time.Time  `json:"created_at"`
}

func NewContentIdeaDTO(m models.ContentIdea) ContentIdeaDTO {
	d := ContentIdeaDTO{
		ID:                    m.ID.Hex(),
		Title:                 m.Title,
		CoreInsight:           m.CoreInsight,
		WhyPostWorthy:         m.WhyPostWorthy,
		ContentType:           string(m.ContentType),
		RelevanceScore:        m.RelevanceScore,
		PostReady:             m.PostReady,
		Status:                string(m.Status),
		CompositeScore:        m.CompositeScore,
		SimilarityFingerprint: m.SimilarityFingerprint,
		LastSurfacedAt:        m.LastSurfacedAt,
		CreatedAt:             m.CreatedAt,
	}
	if m.Pillar != nil {
		p := string(*m.Pillar)
		d.Pillar = &p
	}
	return d
}

// PipelinePostDTO is the API shape of a generated post.
type PipelinePostDTO struct {
	ID               string     `json:"id"`
	IdeaID           string     `json:"idea_id"`
	Title            string     `json:"title"`
	Pillar           *string    `json:"pillar,omitempty"`
	DraftContent     string     `json:"draft_content"`
	PolishedContent  string     `json:"polished_content"`
	Variations       []string   `json:"variations,omitempty"`
	DMTemplate       string     `json:"dm_template,omitempty"`
	CTAWord          string     `json:"cta_word,omitempty"`
	Status           string     `json:"status"`
	ScheduledTime    *time.Time `json:"scheduled_time,omitempty"`
	IsBuffer         bool       `json:"is_buffer"`
	BufferPosition   *int       `json:"buffer_position,omitempty"`
	HookScore        float64    `json:"hook_score"`
	PolishChanges    []string   `json:"polish_changes,omitempty"`
	AutoPublishAfter *time.Time `json:"auto_publish_after,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

func NewPipelinePostDTO(m models.PipelinePost) PipelinePostDTO {
	d := PipelinePostDTO{
		ID:               m.ID.Hex(),
		IdeaID:           m.IdeaID.Hex(),
		Title:            m.Title,
		DraftContent:     m.DraftContent,
		PolishedContent:  m.PolishedContent,
		Variations:       m.Variations,
		DMTemplate:       m.DMTemplate,
		CTAWord:          m.CTAWord,
		Status:           string(m.Status),
		ScheduledTime:    m.ScheduledTime,
		IsBuffer:         m.IsBuffer,
		BufferPosition:   m.BufferPosition,
		HookScore:        m.HookScore,
		PolishChanges:    m.PolishChanges,
		AutoPublishAfter: m.AutoPublishAfter,
		CreatedAt:        m.CreatedAt,
	}
	if m.Pillar != nil {
		p := string(*m.Pillar)
		d.Pillar = &p
	}
	return d
}

// PostingSlotDTO is the API shape of a recurring posting slot.
type PostingSlotDTO struct {
	ID         string `json:"id"`
	SlotNumber int    `json:"slot_number"`
	Hour       int    `json:"hour"`
	Minute     int    `json:"minute"`
	DayOfWeek  *int   `json:"day_of_week,omitempty"`
	Timezone   string `json:"timezone"`
	Active     bool   `json:"active"`
}

func NewPostingSlotDTO(m models.PostingSlot) PostingSlotDTO {
	return PostingSlotDTO{
		ID:         m.ID.Hex(),
		SlotNumber: m.SlotNumber,
		Hour:       m.Hour,
		Minute:     m.Minute,
		DayOfWeek:  m.DayOfWeek,
		Timezone:   m.Timezone,
		Active:     m.Active,
	}
}
