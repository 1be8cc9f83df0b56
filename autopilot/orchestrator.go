// Package autopilot drives the nightly batch: rank the extracted idea
// backlog, generate content for the shortlist and persist one scheduled
// post plus buffer posts, isolating failures per idea.
package autopilot

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"content-autopilot/config"
	"content-autopilot/knowledge"
	"content-autopilot/models"
	"content-autopilot/polisher"
	"content-autopilot/scheduling"
	"content-autopilot/scoring"
	"content-autopilot/writer"
)

// Store contracts. The mongo repositories satisfy these directly; tests
// substitute in-memory fakes.

type IdeaStore interface {
	FindExtractedByUser(ctx context.Context, userID string, limit int) ([]models.ContentIdea, error)
	MarkWriting(ctx context.Context, id interface{}, compositeScore float64, fingerprint string, surfacedAt time.Time) error
	UpdateStatus(ctx context.Context, id interface{}, status models.IdeaStatus) error
}

type PostStore interface {
	Insert(ctx context.Context, p *models.PipelinePost) (*mongo.InsertOneResult, error)
	RecentTitles(ctx context.Context, userID string, days int) ([]string, error)
	PillarCounts(ctx context.Context, userID string, days int) (map[models.Pillar]int, error)
	TakenInstants(ctx context.Context, userID string) ([]time.Time, error)
	CountBufferPosts(ctx context.Context, userID string) (int, error)
}

type SlotStore interface {
	FindActiveByUser(ctx context.Context, userID string) ([]models.PostingSlot, error)
}

// Collaborator contracts, implemented by the knowledge, writer and
// polisher packages.

type KnowledgeSearcher interface {
	BuildContextBrief(ctx context.Context, userID, query string) knowledge.ContextBrief
}

type ContentWriter interface {
	WritePost(ctx context.Context, idea models.ContentIdea, knowledgeContext string) (*writer.WriteResult, error)
}

type ContentPolisher interface {
	Polish(ctx context.Context, userID, content string) (*polisher.PolishResult, error)
}

// Notifier receives announcements for posts that got a real
// scheduled_time. Optional; the worker binary plugs in an event
// publisher here.
type Notifier interface {
	PostScheduled(ctx context.Context, post *models.PipelinePost)
}

// BatchConfig configures one nightly run for one user.
type BatchConfig struct {
	UserID                string
	PostsPerBatch         int // default 3
	AutoPublish           bool
	AutoPublishDelayHours int // default 24
	LookbackDays          int // default 14
	IdeaLoadLimit         int // default 50
}

// BatchResult aggregates what one run did. Failures are surfaced here,
// never as a returned error.
type BatchResult struct {
	PostsCreated   int      `json:"posts_created"`
	PostsScheduled int      `json:"posts_scheduled"`
	IdeasProcessed int      `json:"ideas_processed"`
	Errors         []string `json:"errors"`
}

type Orchestrator struct {
	ideas     IdeaStore
	posts     PostStore
	slots     SlotStore
	knowledge KnowledgeSearcher
	writer    ContentWriter
	polisher  ContentPolisher
	notifier  Notifier

	// now is swappable for deterministic scheduling tests.
	now func() time.Time
}

// SetNotifier installs an optional post-scheduled listener.
func (o *Orchestrator) SetNotifier(n Notifier) {
	o.notifier = n
}

func NewOrchestrator(ideas IdeaStore, posts PostStore, slots SlotStore, ks KnowledgeSearcher, w ContentWriter, p ContentPolisher) *Orchestrator {
	return &Orchestrator{
		ideas:     ideas,
		posts:     posts,
		slots:     slots,
		knowledge: ks,
		writer:    w,
		polisher:  p,
		now:       time.Now,
	}
}

// batchState is everything loaded up front for one run: the ranked
// shortlist, the scoring context inputs and the point-in-time snapshots
// the scheduling decisions depend on.
type batchState struct {
	shortlist []scoring.ScoredIdea
	slots     []models.PostingSlot
	taken     []time.Time
}

// RunNightlyBatch processes one user's backlog. It never returns an
// error: batch-level failures produce a single error entry on a zero-ish
// result, per-idea failures are appended and the loop continues.
//
// Within a run, ideas are processed strictly in ranked order and only
// the first (highest-ranked) surviving idea is eligible for a real
// scheduled_time; the rest become buffer posts. The run assumes it is
// the only writer for this user's data.
func (o *Orchestrator) RunNightlyBatch(ctx context.Context, cfg BatchConfig) BatchResult {
	applyDefaults(&cfg)
	result := BatchResult{Errors: []string{}}
	now := o.now().UTC()

	state, err := o.loadBatchState(ctx, cfg, now)
	if err != nil {
		// Top-level guard: the initial loads are the only place a
		// failure aborts the whole run.
		result.Errors = append(result.Errors, fmt.Sprintf("batch setup failed for user %s: %v", cfg.UserID, err))
		return result
	}
	if state == nil {
		// Empty backlog: nothing to do tonight.
		return result
	}

	config.Logger.Infof("nightly batch for user %s: %d shortlisted, %d slots, %d taken instants",
		cfg.UserID, len(state.shortlist), len(state.slots), len(state.taken))

	for i, scored := range state.shortlist {
		o.processIdea(ctx, cfg, now, state, i, scored, &result)
	}

	return result
}

func (o *Orchestrator) loadBatchState(ctx context.Context, cfg BatchConfig, now time.Time) (*batchState, error) {
	ideas, err := o.ideas.FindExtractedByUser(ctx, cfg.UserID, cfg.IdeaLoadLimit)
	if err != nil {
		return nil, fmt.Errorf("load extracted ideas: %w", err)
	}
	if len(ideas) == 0 {
		return nil, nil
	}

	recentTitles, err := o.posts.RecentTitles(ctx, cfg.UserID, cfg.LookbackDays)
	if err != nil {
		return nil, fmt.Errorf("load recent titles: %w", err)
	}
	pillarCounts, err := o.posts.PillarCounts(ctx, cfg.UserID, cfg.LookbackDays)
	if err != nil {
		return nil, fmt.Errorf("load pillar counts: %w", err)
	}

	sc := scoring.Context{RecentTitles: recentTitles, PillarCounts: pillarCounts}
	shortlist := scoring.TopIdeas(ideas, cfg.PostsPerBatch, sc)

	slots, err := o.slots.FindActiveByUser(ctx, cfg.UserID)
	if err != nil {
		return nil, fmt.Errorf("load active slots: %w", err)
	}

	// Point-in-time snapshot; not refreshed between items in this run.
	taken, err := o.posts.TakenInstants(ctx, cfg.UserID)
	if err != nil {
		return nil, fmt.Errorf("load taken instants: %w", err)
	}

	return &batchState{shortlist: shortlist, slots: slots, taken: taken}, nil
}

// processIdea runs steps a-h for one shortlisted idea. Index 0 is the
// primary item and the only one that can receive a scheduled_time.
func (o *Orchestrator) processIdea(ctx context.Context, cfg BatchConfig, now time.Time, state *batchState, i int, scored scoring.ScoredIdea, result *BatchResult) {
	idea := scored.Idea

	// a. Best-effort knowledge lookup. A degraded brief is not an error.
	brief := o.knowledge.BuildContextBrief(ctx, cfg.UserID, idea.Title+" "+idea.CoreInsight)
	if brief.Degraded {
		config.Logger.Debugf("no knowledge context for idea %s, writing without it", idea.ID.Hex())
	}

	// b. Claim the idea and persist its scoring outputs.
	if err := o.ideas.MarkWriting(ctx, idea.ID, scored.Composite, scored.Fingerprint, now); err != nil {
		o.failIdea(ctx, idea, err, result)
		return
	}

	// c. Draft.
	writeRes, err := o.writer.WritePost(ctx, idea, brief.CompiledContext)
	if err != nil {
		o.failIdea(ctx, idea, err, result)
		return
	}

	// d. Polish.
	polishRes, err := o.polisher.Polish(ctx, cfg.UserID, writeRes.Content)
	if err != nil {
		o.failIdea(ctx, idea, err, result)
		return
	}

	post := &models.PipelinePost{
		UserID:          cfg.UserID,
		IdeaID:          idea.ID,
		Pillar:          idea.Pillar,
		Title:           idea.Title,
		DraftContent:    writeRes.Content,
		PolishedContent: polishRes.Polished,
		Variations:      writeRes.Variations,
		DMTemplate:      writeRes.DMTemplate,
		CTAWord:         writeRes.CTAWord,
		HookScore:       polishRes.HookScore,
		PolishChanges:   polishRes.Changes,
	}

	// e. Scheduling decision: the primary item gets the next free slot
	// instant, every other item joins the buffer queue.
	scheduled := false
	if i == 0 {
		t := scheduling.NextScheduledTime(state.slots, now, state.taken)
		post.ScheduledTime = &t
		post.Status = models.PostStatusReviewing
		scheduled = true
	} else {
		// Buffer position is the re-queried persisted count plus the
		// shortlist index. The count is re-read from storage per item
		// rather than tracked across the loop and can lag this run's own
		// inserts under eventually-consistent reads; adding the index
		// keeps positions strictly increasing either way. See DESIGN.md.
		bufferCount, err := o.posts.CountBufferPosts(ctx, cfg.UserID)
		if err != nil {
			o.failIdea(ctx, idea, err, result)
			return
		}
		pos := bufferCount + i
		post.IsBuffer = true
		post.BufferPosition = &pos
		post.Status = models.PostStatusApproved
	}

	// f. Optional auto-publish deadline for the primary item.
	if cfg.AutoPublish && i == 0 {
		t := now.Add(time.Duration(cfg.AutoPublishDelayHours) * time.Hour)
		post.AutoPublishAfter = &t
	}

	// g. Persist. An insert failure is recorded but deliberately does
	// not revert the idea: it stays in writing (see DESIGN.md).
	res, err := o.posts.Insert(ctx, post)
	if err != nil {
		result.Errors = append(result.Errors, ideaError(idea, fmt.Errorf("insert post: %w", err)))
		return
	}
	if res != nil {
		if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
			post.ID = oid
		}
	}

	// h. Success: the idea is written.
	if err := o.ideas.UpdateStatus(ctx, idea.ID, models.IdeaStatusWritten); err != nil {
		o.failIdea(ctx, idea, fmt.Errorf("mark idea written: %w", err), result)
		return
	}

	result.PostsCreated++
	result.IdeasProcessed++
	if scheduled {
		result.PostsScheduled++
		config.Logger.Infof("scheduled post for idea %s at %s", idea.ID.Hex(), post.ScheduledTime.Format(time.RFC3339))
		if o.notifier != nil {
			o.notifier.PostScheduled(ctx, post)
		}
	}
}

// failIdea records a per-idea processing failure and reverts the idea to
// extracted so a future run retries it.
func (o *Orchestrator) failIdea(ctx context.Context, idea models.ContentIdea, cause error, result *BatchResult) {
	result.Errors = append(result.Errors, ideaError(idea, cause))
	if err := o.ideas.UpdateStatus(ctx, idea.ID, models.IdeaStatusExtracted); err != nil {
		config.Logger.Warnf("failed to revert idea %s to extracted: %v", idea.ID.Hex(), err)
	}
}

func ideaError(idea models.ContentIdea, err error) string {
	return fmt.Sprintf("idea %s (%q): %v", idea.ID.Hex(), idea.Title, err)
}

func applyDefaults(cfg *BatchConfig) {
	if cfg.PostsPerBatch <= 0 {
		cfg.PostsPerBatch = 3
	}
	if cfg.AutoPublishDelayHours <= 0 {
		cfg.AutoPublishDelayHours = 24
	}
	if cfg.LookbackDays <= 0 {
		cfg.LookbackDays = 14
	}
	if cfg.IdeaLoadLimit <= 0 {
		cfg.IdeaLoadLimit = 50
	}
}
