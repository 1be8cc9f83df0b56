// Package writer turns a content idea into a full post draft via the
// configured LLM.
package writer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"content-autopilot/config"
	"content-autopilot/llm"
	"content-autopilot/models"
	"content-autopilot/repositories"
)

type WriteResult struct {
	Content    string   `json:"content"`
	Variations []string `json:"variations"`
	DMTemplate string   `json:"dm_template"`
	CTAWord    string   `json:"cta_word"`
	Error      *string  `json:"error,omitempty"`
}

const SYSTEM_INSTRUCTION = `
You are a ghostwriter for professional social posts. You receive one content
idea (title, core insight, supporting context, rationale, content type) and
optionally supporting material from the author's own knowledge base.
The response MUST be a valid JSON object with five keys:

1. content: The full post text, written in the author's voice, 900-1800
   characters, with a strong opening hook and a clear takeaway. Plain text,
   no markdown, no hashtag walls.
2. variations: A list of exactly 2 alternative phrasings of the opening hook.
3. dm_template: A short direct-message template (under 300 characters) the
   author can send to readers who comment, referencing the post topic.
4. cta_word: A single lowercase keyword readers can comment to request the
   DM (e.g. "playbook", "guide").
5. error: An optional string field. If the idea is too thin to write a
   credible post from, set a descriptive message. Otherwise set it to null.

Additional constraints:
- Ground claims in the supporting material when it is provided. Do not invent
  numbers or client names.
- You MUST NOT wrap the JSON output in a markdown code block (e.g. ` + "```json ... ```" + `).
- The response should contain ONLY the raw JSON string.
`

// Writer is the content-writer collaborator. When an ai_logs repository
// is attached, every call is logged best-effort.
type Writer struct {
	aiLogs *repositories.AILogRepository
}

func New(aiLogs *repositories.AILogRepository) *Writer {
	return &Writer{aiLogs: aiLogs}
}

// WritePost drafts a post for the idea. knowledgeContext may be empty.
func (w *Writer) WritePost(ctx context.Context, idea models.ContentIdea, knowledgeContext string) (*WriteResult, error) {
	prompt := buildPrompt(idea, knowledgeContext)

	raw, reqLog, err := llm.Generate(ctx, SYSTEM_INSTRUCTION, prompt)
	if reqLog != nil && w.aiLogs != nil {
		var errMsg *string
		if err != nil {
			s := err.Error()
			errMsg = &s
		}
		if _, logErr := w.aiLogs.Insert(ctx, llm.NewAILog(idea.UserID, "write_post", reqLog, errMsg)); logErr != nil {
			config.Logger.Warnf("failed to insert ai_log for write_post: %v", logErr)
		}
	}
	if err != nil {
		return nil, err
	}

	var result WriteResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return nil, fmt.Errorf("writer response is not valid JSON: %w", err)
	}
	if result.Error != nil {
		return &result, fmt.Errorf("ai judged the idea unwritable: %s", *result.Error)
	}
	if strings.TrimSpace(result.Content) == "" {
		return &result, fmt.Errorf("writer returned empty content")
	}
	return &result, nil
}

func buildPrompt(idea models.ContentIdea, knowledgeContext string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Title: %s\n", idea.Title)
	fmt.Fprintf(&b, "Core insight: %s\n", idea.CoreInsight)
	fmt.Fprintf(&b, "Content type: %s\n", idea.ContentType)
	if idea.Pillar != nil {
		fmt.Fprintf(&b, "Content pillar: %s\n", *idea.Pillar)
	}
	if idea.WhyPostWorthy != "" {
		fmt.Fprintf(&b, "Why this is worth posting: %s\n", idea.WhyPostWorthy)
	}
	if idea.FullContext != "" {
		fmt.Fprintf(&b, "\nSupporting context:\n%s\n", idea.FullContext)
	}
	if knowledgeContext != "" {
		fmt.Fprintf(&b, "\nMaterial from the author's knowledge base:\n%s\n", knowledgeContext)
	}
	return b.String()
}
