// Package polisher runs the final editing pass over a drafted post.
package polisher

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"content-autopilot/config"
	"content-autopilot/llm"
	"content-autopilot/repositories"
)

type PolishResult struct {
	Polished  string   `json:"polished"`
	HookScore float64  `json:"hook_score"`
	Changes   []string `json:"changes"`
	Error     *string  `json:"error,omitempty"`
}

const SYSTEM_INSTRUCTION = `
You are an editor for professional social posts. You receive one drafted post
and tighten it without changing its substance.
The response MUST be a valid JSON object with four keys:

1. polished: The edited post text. Shorten flabby sentences, sharpen the
   opening hook, keep the author's voice and all factual claims intact.
2. hook_score: A number from 0 to 10 rating how strong the opening hook of
   the polished post is.
3. changes: A list of short notes describing each edit you applied
   (e.g. "tightened opening line", "split long paragraph").
4. error: An optional string field. If the draft is not editable (empty or
   not a post), set a descriptive message. Otherwise set it to null.

Additional constraints:
- Never add new claims, numbers or names that are not in the draft.
- You MUST NOT wrap the JSON output in a markdown code block (e.g. ` + "```json ... ```" + `).
- The response should contain ONLY the raw JSON string.
`

// Polisher is the content-polisher collaborator. When an ai_logs
// repository is attached, every call is logged best-effort.
type Polisher struct {
	aiLogs *repositories.AILogRepository
}

func New(aiLogs *repositories.AILogRepository) *Polisher {
	return &Polisher{aiLogs: aiLogs}
}

// Polish edits the draft and rates its hook.
func (p *Polisher) Polish(ctx context.Context, userID, content string) (*PolishResult, error) {
	raw, reqLog, err := llm.Generate(ctx, SYSTEM_INSTRUCTION, content)
	if reqLog != nil && p.aiLogs != nil {
		var errMsg *string
		if err != nil {
			s := err.Error()
			errMsg = &s
		}
		if _, logErr := p.aiLogs.Insert(ctx, llm.NewAILog(userID, "polish_post", reqLog, errMsg)); logErr != nil {
			config.Logger.Warnf("failed to insert ai_log for polish_post: %v", logErr)
		}
	}
	if err != nil {
		return nil, err
	}

	var result PolishResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return nil, fmt.Errorf("polisher response is not valid JSON: %w", err)
	}
	if result.Error != nil {
		return &result, fmt.Errorf("ai judged the draft uneditable: %s", *result.Error)
	}
	if strings.TrimSpace(result.Polished) == "" {
		return &result, fmt.Errorf("polisher returned empty content")
	}
	return &result, nil
}
