// Package llm wraps the google genai client used by every content
// generation step. Callers provide a JSON-only system instruction and
// parse the raw response themselves; the request log is returned for
// ai_logs persistence.
package llm

import (
	"context"
	"fmt"
	"os"
	"time"

	"google.golang.org/genai"

	"content-autopilot/config"
	"content-autopilot/models"
)

type TokenUsage struct {
	InputTokens  int64 `json:"input_tokens"`
	OutputTokens int64 `json:"output_tokens"`
	TotalTokens  int64 `json:"total_tokens"`
}

type RequestLog struct {
	Prompt       string     `json:"prompt"`
	Response     string     `json:"response"`
	LatencyMs    int64      `json:"latency_ms"`
	TokenUsage   TokenUsage `json:"token_usage"`
	ModelName    string     `json:"model_name"`
	ModelVersion string     `json:"model_version"`
	GeneratedAt  time.Time  `json:"generated_at"`
}

// Generate sends one prompt to the configured model and returns the raw
// response text along with a request log.
func Generate(ctx context.Context, systemInstruction, prompt string) (string, *RequestLog, error) {
	startTime := time.Now()

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return "", nil, fmt.Errorf("GEMINI_API_KEY environment variable is not set")
	}
	llmCfg := config.GetConfig().LLM
	if llmCfg.Provider != "google" {
		return "", nil, fmt.Errorf("unsupported LLM provider: %s", llmCfg.Provider)
	}
	modelName := llmCfg.ModelName

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return "", nil, err
	}

	result, err := client.Models.GenerateContent(
		ctx,
		modelName,
		genai.Text(prompt),
		&genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: systemInstruction}}},
		},
	)
	if err != nil {
		return "", nil, err
	}

	reqLog := &RequestLog{
		Prompt:       fmt.Sprintf("%s\n\n%s", systemInstruction, prompt),
		Response:     result.Text(),
		LatencyMs:    time.Since(startTime).Milliseconds(),
		ModelName:    modelName,
		ModelVersion: result.ModelVersion,
		GeneratedAt:  time.Now(),
	}
	if result.UsageMetadata != nil {
		reqLog.TokenUsage = TokenUsage{
			InputTokens:  int64(result.UsageMetadata.PromptTokenCount),
			OutputTokens: int64(result.UsageMetadata.CandidatesTokenCount),
			TotalTokens:  int64(result.UsageMetadata.TotalTokenCount),
		}
	}

	return result.Text(), reqLog, nil
}

// NewAILog converts a request log into the ai_logs document shape.
func NewAILog(userID, operation string, reqLog *RequestLog, errMsg *string) models.AILog {
	started := reqLog.GeneratedAt.Add(-time.Duration(reqLog.LatencyMs) * time.Millisecond)
	return models.AILog{
		UserID:         userID,
		Operation:      operation,
		ModelName:      reqLog.ModelName,
		ModelVersion:   reqLog.ModelVersion,
		InputTokens:    reqLog.TokenUsage.InputTokens,
		OutputTokens:   reqLog.TokenUsage.OutputTokens,
		TotalTokens:    reqLog.TokenUsage.TotalTokens,
		DurationMs:     reqLog.LatencyMs,
		ErrorMessage:   errMsg,
		InputPrompt:    reqLog.Prompt,
		OutputResponse: reqLog.Response,
		RequestedAt:    started,
		CompletedAt:    reqLog.GeneratedAt,
	}
}
