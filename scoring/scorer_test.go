package scoring_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"content-autopilot/models"
	"content-autopilot/scoring"
)

func pillarPtr(p models.Pillar) *models.Pillar {
	return &p
}

func floatPtr(v float64) *float64 {
	return &v
}

func TestScoreIdeaCompositeRange(t *testing.T) {
	ideas := []models.ContentIdea{
		{Title: "Plain idea", CoreInsight: "short"},
		{
			Title:          "7 lessons from scaling a platform team",
			CoreInsight:    "Platform teams fail when they chase feature parity with product teams",
			WhyPostWorthy:  "Every engineering leader hits this wall",
			ContentType:    models.ContentTypeContrarian,
			RelevanceScore: floatPtr(10),
			PostReady:      true,
		},
		{Title: "Negative relevance", RelevanceScore: floatPtr(-3)},
		{Title: "Overflowing relevance", RelevanceScore: floatPtr(25)},
	}

	for _, idea := range ideas {
		scored := scoring.ScoreIdea(idea, scoring.Context{})
		assert.GreaterOrEqual(t, scored.Composite, 0.0)
		assert.LessOrEqual(t, scored.Composite, 10.0)
	}
}

func TestScoreIdeaDefaultRelevance(t *testing.T) {
	scored := scoring.ScoreIdea(models.ContentIdea{Title: "No model score"}, scoring.Context{})
	assert.Equal(t, 5.0, scored.Factors.Relevance)
}

func TestFreshnessNoRecentTitles(t *testing.T) {
	scored := scoring.ScoreIdea(models.ContentIdea{Title: "Anything"}, scoring.Context{})
	assert.Equal(t, 10.0, scored.Factors.Freshness)
}

func TestFreshnessPenalizesSimilarTitles(t *testing.T) {
	idea := models.ContentIdea{
		Title:       "Why standups kill deep work",
		CoreInsight: "Daily standups fragment maker schedules",
	}

	fresh := scoring.ScoreIdea(idea, scoring.Context{
		RecentTitles: []string{"Our migration to event sourcing"},
	})
	stale := scoring.ScoreIdea(idea, scoring.Context{
		RecentTitles: []string{"Why standups kill deep work"},
	})

	assert.Greater(t, fresh.Factors.Freshness, stale.Factors.Freshness)
	assert.GreaterOrEqual(t, stale.Factors.Freshness, 0.0)
}

func TestPillarBalance(t *testing.T) {
	// total 8 posts over 4 pillars, average 2 per pillar
	counts := map[models.Pillar]int{
		models.PillarPersonalStory:   1,
		models.PillarIndustryInsight: 2,
		models.PillarTacticalAdvice:  4,
		models.PillarSocialProof:     1,
	}

	cases := []struct {
		name   string
		pillar *models.Pillar
		counts map[models.Pillar]int
		want   float64
	}{
		{"nil pillar", nil, counts, 5},
		{"no posts at all", pillarPtr(models.PillarPersonalStory), map[models.Pillar]int{}, 10},
		{"unused pillar", pillarPtr(models.PillarSocialProof), map[models.Pillar]int{models.PillarTacticalAdvice: 4}, 10},
		{"below average", pillarPtr(models.PillarPersonalStory), counts, 8},
		{"at average", pillarPtr(models.PillarIndustryInsight), counts, 5},
		{"far above average", pillarPtr(models.PillarTacticalAdvice), counts, 2},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			idea := models.ContentIdea{Title: "x", Pillar: tc.pillar}
			scored := scoring.ScoreIdea(idea, scoring.Context{PillarCounts: tc.counts})
			assert.Equal(t, tc.want, scored.Factors.PillarBalance)
		})
	}
}

func TestHookStrengthChecklist(t *testing.T) {
	bare := scoring.ScoreIdea(models.ContentIdea{Title: "Idea", CoreInsight: "short"}, scoring.Context{})
	assert.Equal(t, 5.0, bare.Factors.HookStrength)

	loaded := scoring.ScoreIdea(models.ContentIdea{
		Title:         "3 hiring mistakes I keep seeing",
		CoreInsight:   "Interview loops reward confidence over competence",
		WhyPostWorthy: "Hiring managers argue about this constantly",
		ContentType:   models.ContentTypeQuestion,
		PostReady:     true,
	}, scoring.Context{})
	assert.Equal(t, 10.0, loaded.Factors.HookStrength)
}

func TestRankIdeasDescendingAndStable(t *testing.T) {
	ideas := []models.ContentIdea{
		{Title: "low", RelevanceScore: floatPtr(1)},
		{Title: "high", RelevanceScore: floatPtr(10)},
		{Title: "tie first", RelevanceScore: floatPtr(5)},
		{Title: "tie second", RelevanceScore: floatPtr(5)},
	}

	ranked := scoring.RankIdeas(ideas, scoring.Context{})
	assert.Len(t, ranked, 4)
	assert.Equal(t, "high", ranked[0].Idea.Title)
	assert.Equal(t, "low", ranked[3].Idea.Title)
	// equal composites keep input order
	assert.Equal(t, "tie first", ranked[1].Idea.Title)
	assert.Equal(t, "tie second", ranked[2].Idea.Title)
}

func TestTopIdeasLimits(t *testing.T) {
	ideas := []models.ContentIdea{{Title: "a"}, {Title: "b"}, {Title: "c"}}

	assert.Len(t, scoring.TopIdeas(ideas, 2, scoring.Context{}), 2)
	assert.Len(t, scoring.TopIdeas(ideas, 10, scoring.Context{}), 3)
}

func TestFingerprint(t *testing.T) {
	// "ship fast|momentum wins deals" loses the separator when
	// non-alphanumerics are stripped, fusing the boundary tokens.
	got := scoring.Fingerprint("Ship Fast", "Momentum wins deals")
	assert.Equal(t, "deals|fastmomentum|ship|wins", got)

	assert.Equal(t,
		scoring.Fingerprint("CASE Folding", "works HERE"),
		scoring.Fingerprint("case folding", "WORKS here"),
	)
}

func TestFingerprintCapsAtTenTokens(t *testing.T) {
	got := scoring.Fingerprint(
		"alpha bravo charlie delta echoes foxtrot",
		"golfs hotel india juliet kilos limas",
	)
	// 11 qualifying tokens after the boundary fusion, truncated to 10
	assert.Equal(t, "alpha|", got[:6])
	assert.Len(t, splitPipes(got), 10)
}

func splitPipes(s string) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '|' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	return append(out, s[start:])
}
