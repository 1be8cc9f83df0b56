// Package knowledge compiles best-effort supporting context for a post
// from the user's knowledge base. Failures degrade to an empty brief
// instead of surfacing as errors, so the caller branches on Degraded
// rather than catching anything.
package knowledge

import (
	"context"
	"strings"

	"content-autopilot/config"
	"content-autopilot/repositories"
)

// maxBriefRunes bounds the compiled context handed to the writer prompt.
const maxBriefRunes = 4000

// ContextBrief is the outcome of a context lookup. Degraded means the
// search failed or found nothing and the post should be written without
// extra context.
type ContextBrief struct {
	CompiledContext string
	Degraded        bool
}

type Searcher struct {
	chunks *repositories.KnowledgeChunkRepository
}

func NewSearcher(chunks *repositories.KnowledgeChunkRepository) *Searcher {
	return &Searcher{chunks: chunks}
}

// BuildContextBrief searches the user's knowledge chunks for material
// matching the idea and compiles the best hits into one brief.
func (s *Searcher) BuildContextBrief(ctx context.Context, userID, query string) ContextBrief {
	chunks, err := s.chunks.SearchByText(ctx, userID, query, 5)
	if err != nil {
		config.Logger.Warnf("knowledge search degraded for user %s: %v", userID, err)
		return ContextBrief{Degraded: true}
	}
	if len(chunks) == 0 {
		return ContextBrief{Degraded: true}
	}

	var b strings.Builder
	for _, c := range chunks {
		if c.Title != "" {
			b.WriteString("## ")
			b.WriteString(c.Title)
			b.WriteString("\n")
		}
		b.WriteString(c.Content)
		b.WriteString("\n\n")
	}

	brief := strings.TrimSpace(b.String())
	if rs := []rune(brief); len(rs) > maxBriefRunes {
		brief = string(rs[:maxBriefRunes])
	}
	return ContextBrief{CompiledContext: brief}
}
