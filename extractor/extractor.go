// Package extractor mines content ideas from a user's source material.
// It feeds the content_ideas backlog the nightly autopilot ranks.
package extractor

import (
	"context"
	"encoding/json"
	"fmt"

	"content-autopilot/config"
	"content-autopilot/llm"
	"content-autopilot/models"
	"content-autopilot/repositories"
)

// IdeaCandidate is one idea the extraction model pulled from an article.
type IdeaCandidate struct {
	Title          string   `json:"title"`
	CoreInsight    string   `json:"core_insight"`
	FullContext    string   `json:"full_context"`
	WhyPostWorthy  string   `json:"why_post_worthy"`
	ContentType    string   `json:"content_type"`
	Pillar         *string  `json:"pillar,omitempty"`
	RelevanceScore *float64 `json:"relevance_score,omitempty"`
	PostReady      bool     `json:"post_ready"`
}

type ExtractResult struct {
	Ideas []IdeaCandidate `json:"ideas"`
	Error *string         `json:"error,omitempty"`
}

const SYSTEM_INSTRUCTION = `
You are a content strategist mining articles for post-worthy ideas. You
receive the plain text of one article and extract distinct content ideas a
professional could post about.
The response MUST be a valid JSON object with two keys:

1. ideas: A list of 0-5 idea objects, each with:
   - title: A working headline for the post (under 100 characters).
   - core_insight: The single takeaway in one or two sentences.
   - full_context: The supporting detail from the article, 2-5 sentences.
   - why_post_worthy: One sentence on why an audience would care.
   - content_type: One of "story", "insight", "tip", "framework",
     "case_study", "question", "listicle", "contrarian".
   - pillar: One of "personal_story", "industry_insight", "tactical_advice",
     "social_proof", or null if none fits.
   - relevance_score: A number from 0 to 10 rating how relevant the idea is
     to a professional audience.
   - post_ready: true only if the idea could be posted without further
     research.
2. error: An optional string field. If the text is not an article (paywall
   notice, bot check, navigation debris), set a descriptive message.
   Otherwise set it to null.

Additional constraints:
- Extract ideas, not summaries: each idea must stand alone as a post angle.
- You MUST NOT wrap the JSON output in a markdown code block (e.g. ` + "```json ... ```" + `).
- The response should contain ONLY the raw JSON string.
`

// Extractor turns article text into content-idea candidates.
type Extractor struct {
	aiLogs *repositories.AILogRepository
}

func New(aiLogs *repositories.AILogRepository) *Extractor {
	return &Extractor{aiLogs: aiLogs}
}

// ExtractIdeas runs the extraction prompt over one article's text.
func (e *Extractor) ExtractIdeas(ctx context.Context, userID, articleText string) ([]IdeaCandidate, error) {
	raw, reqLog, err := llm.Generate(ctx, SYSTEM_INSTRUCTION, articleText)
	if reqLog != nil && e.aiLogs != nil {
		var errMsg *string
		if err != nil {
			s := err.Error()
			errMsg = &s
		}
		if _, logErr := e.aiLogs.Insert(ctx, llm.NewAILog(userID, "extract_ideas", reqLog, errMsg)); logErr != nil {
			config.Logger.Warnf("failed to insert ai_log for extract_ideas: %v", logErr)
		}
	}
	if err != nil {
		return nil, err
	}

	var result ExtractResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return nil, fmt.Errorf("extractor response is not valid JSON: %w", err)
	}
	if result.Error != nil {
		return nil, fmt.Errorf("ai judged the text unusable: %s", *result.Error)
	}
	return result.Ideas, nil
}

// ToModel converts a candidate into a content_ideas document with
// status extracted.
func (c IdeaCandidate) ToModel(userID string) *models.ContentIdea {
	idea := &models.ContentIdea{
		UserID:         userID,
		Title:          c.Title,
		CoreInsight:    c.CoreInsight,
		FullContext:    c.FullContext,
		WhyPostWorthy:  c.WhyPostWorthy,
		ContentType:    models.ContentType(c.ContentType),
		RelevanceScore: c.RelevanceScore,
		PostReady:      c.PostReady,
		Status:         models.IdeaStatusExtracted,
	}
	if c.Pillar != nil {
		p := models.Pillar(*c.Pillar)
		idea.Pillar = &p
	}
	return idea
}
