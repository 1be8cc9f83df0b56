// Package scoring ranks a backlog of content ideas with a weighted
// composite score. Scoring is pure: all run state arrives in a Context
// value and nothing here touches storage.
package scoring

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"content-autopilot/models"
)

// Factor weights. They sum to 1 so the composite stays on the 0-10 scale.
const (
	weightRelevance    = 0.35
	weightFreshness    = 0.25
	weightPillar       = 0.25
	weightHookStrength = 0.15
)

const defaultRelevance = 5.0

// Context is the per-run scoring input, built once per batch.
type Context struct {
	// RecentTitles holds titles of posts created in the lookback window,
	// any status. Used for freshness comparison.
	RecentTitles []string

	// PillarCounts maps each pillar to the number of approved, scheduled
	// or published posts created in the lookback window.
	PillarCounts map[models.Pillar]int
}

// Factors breaks the composite down per signal, each on a 0-10 scale.
type Factors struct {
	Relevance     float64 `json:"relevance"`
	Freshness     float64 `json:"freshness"`
	PillarBalance float64 `json:"pillar_balance"`
	HookStrength  float64 `json:"hook_strength"`
}

// ScoredIdea pairs an idea with its computed rank inputs.
type ScoredIdea struct {
	Idea        models.ContentIdea
	Composite   float64
	Factors     Factors
	Fingerprint string
}

// ScoreIdea computes the composite score, its factors and the similarity
// fingerprint for one idea.
func ScoreIdea(idea models.ContentIdea, sc Context) ScoredIdea {
	f := Factors{
		Relevance:     relevanceScore(idea),
		Freshness:     freshnessScore(idea, sc.RecentTitles),
		PillarBalance: pillarBalanceScore(idea.Pillar, sc.PillarCounts),
		HookStrength:  hookStrengthScore(idea),
	}

	composite := weightRelevance*f.Relevance +
		weightFreshness*f.Freshness +
		weightPillar*f.PillarBalance +
		weightHookStrength*f.HookStrength

	return ScoredIdea{
		Idea:        idea,
		Composite:   clamp(composite),
		Factors:     f,
		Fingerprint: Fingerprint(idea.Title, idea.CoreInsight),
	}
}

// RankIdeas scores every idea and returns them sorted by composite score
// descending. The sort is stable: equal scores keep their input order,
// which is newest-first as loaded from storage.
func RankIdeas(ideas []models.ContentIdea, sc Context) []ScoredIdea {
	scored := make([]ScoredIdea, len(ideas))
	for i, idea := range ideas {
		scored[i] = ScoreIdea(idea, sc)
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Composite > scored[j].Composite
	})
	return scored
}

// TopIdeas returns the first n of RankIdeas.
func TopIdeas(ideas []models.ContentIdea, n int, sc Context) []ScoredIdea {
	ranked := RankIdeas(ideas, sc)
	if n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked
}

func relevanceScore(idea models.ContentIdea) float64 {
	if idea.RelevanceScore == nil {
		return defaultRelevance
	}
	return clamp(*idea.RelevanceScore)
}

// freshnessScore penalizes ideas that read like a recently created post.
// 10 with no recent titles; otherwise 10 minus 15x the highest word-set
// Jaccard similarity, floored at 0.
func freshnessScore(idea models.ContentIdea, recentTitles []string) float64 {
	if len(recentTitles) == 0 {
		return 10
	}

	ideaWords := wordSet(idea.Title + " " + idea.CoreInsight)
	maxSim := 0.0
	for _, title := range recentTitles {
		if sim := jaccard(ideaWords, wordSet(title)); sim > maxSim {
			maxSim = sim
		}
	}

	score := 10 - 15*maxSim
	if score < 0 {
		score = 0
	}
	return clamp(score)
}

// pillarBalanceScore favors pillars the user has posted least from in
// the lookback window.
func pillarBalanceScore(pillar *models.Pillar, counts map[models.Pillar]int) float64 {
	if pillar == nil {
		return 5
	}

	total := 0
	for _, c := range counts {
		total += c
	}
	if total == 0 {
		return 10
	}

	count := counts[*pillar]
	if count == 0 {
		return 10
	}

	avg := float64(total) / models.NumPillars
	switch {
	case float64(count) < avg:
		return 8
	case float64(count) == avg:
		return 5
	case float64(count) > 1.5*avg:
		return 2
	default:
		return 4
	}
}

// hookStrengthScore is a +1 checklist on top of a base of 5.
func hookStrengthScore(idea models.ContentIdea) float64 {
	score := 5.0
	if utf8.RuneCountInString(idea.CoreInsight) > 20 {
		score++
	}
	if strings.ContainsFunc(idea.Title, unicode.IsDigit) {
		score++
	}
	if idea.ContentType == models.ContentTypeContrarian || idea.ContentType == models.ContentTypeQuestion {
		score++
	}
	if utf8.RuneCountInString(idea.WhyPostWorthy) > 10 {
		score++
	}
	if idea.PostReady {
		score++
	}
	return clamp(score)
}

// Fingerprint builds the similarity fingerprint stored on the idea:
// lowercase title|insight, non-alphanumerics stripped, tokens longer
// than 3 characters, sorted, first 10, joined with "|". Stored for
// future dedup tooling; not enforced as a hard filter.
func Fingerprint(title, coreInsight string) string {
	text := strings.ToLower(title + "|" + coreInsight)
	var b strings.Builder
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}

	var tokens []string
	for _, tok := range strings.Fields(b.String()) {
		if utf8.RuneCountInString(tok) > 3 {
			tokens = append(tokens, tok)
		}
	}
	sort.Strings(tokens)
	if len(tokens) > 10 {
		tokens = tokens[:10]
	}
	return strings.Join(tokens, "|")
}

// wordSet tokenizes for freshness comparison: case-folded, punctuation
// stripped, tokens longer than 2 characters.
func wordSet(text string) map[string]bool {
	var b strings.Builder
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}

	set := make(map[string]bool)
	for _, tok := range strings.Fields(b.String()) {
		if utf8.RuneCountInString(tok) > 2 {
			set[tok] = true
		}
	}
	return set
}

func jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	intersection := 0
	for w := range a {
		if b[w] {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 10 {
		return 10
	}
	return v
}
