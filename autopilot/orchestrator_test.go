package autopilot

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"content-autopilot/knowledge"
	"content-autopilot/models"
	"content-autopilot/polisher"
	"content-autopilot/writer"
)

// In-memory fakes for the store and collaborator contracts.

type fakeIdeaStore struct {
	ideas    []models.ContentIdea
	statuses map[primitive.ObjectID]models.IdeaStatus

	findErr error
	markErr error
}

func (f *fakeIdeaStore) FindExtractedByUser(ctx context.Context, userID string, limit int) ([]models.ContentIdea, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	if limit < len(f.ideas) {
		return f.ideas[:limit], nil
	}
	return f.ideas, nil
}

func (f *fakeIdeaStore) MarkWriting(ctx context.Context, id interface{}, compositeScore float64, fingerprint string, surfacedAt time.Time) error {
	if f.markErr != nil {
		return f.markErr
	}
	f.statuses[id.(primitive.ObjectID)] = models.IdeaStatusWriting
	return nil
}

func (f *fakeIdeaStore) UpdateStatus(ctx context.Context, id interface{}, status models.IdeaStatus) error {
	f.statuses[id.(primitive.ObjectID)] = status
	return nil
}

type fakePostStore struct {
	inserted     []*models.PipelinePost
	recentTitles []string
	pillarCounts map[models.Pillar]int
	taken        []time.Time

	insertFailFor  string // post title that fails to insert
	countBufferErr error

	// bufferCountOverride freezes CountBufferPosts at a fixed value,
	// simulating a lagging read that never sees this run's inserts.
	bufferCountOverride *int
}

func (f *fakePostStore) Insert(ctx context.Context, p *models.PipelinePost) (*mongo.InsertOneResult, error) {
	if f.insertFailFor != "" && p.Title == f.insertFailFor {
		return nil, errors.New("write conflict")
	}
	f.inserted = append(f.inserted, p)
	return nil, nil
}

func (f *fakePostStore) RecentTitles(ctx context.Context, userID string, days int) ([]string, error) {
	return f.recentTitles, nil
}

func (f *fakePostStore) PillarCounts(ctx context.Context, userID string, days int) (map[models.Pillar]int, error) {
	return f.pillarCounts, nil
}

func (f *fakePostStore) TakenInstants(ctx context.Context, userID string) ([]time.Time, error) {
	return f.taken, nil
}

func (f *fakePostStore) CountBufferPosts(ctx context.Context, userID string) (int, error) {
	if f.countBufferErr != nil {
		return 0, f.countBufferErr
	}
	if f.bufferCountOverride != nil {
		return *f.bufferCountOverride, nil
	}
	n := 0
	for _, p := range f.inserted {
		if p.IsBuffer {
			n++
		}
	}
	return n, nil
}

type fakeSlotStore struct {
	slots []models.PostingSlot
}

func (f *fakeSlotStore) FindActiveByUser(ctx context.Context, userID string) ([]models.PostingSlot, error) {
	return f.slots, nil
}

type fakeKnowledge struct{}

func (fakeKnowledge) BuildContextBrief(ctx context.Context, userID, query string) knowledge.ContextBrief {
	return knowledge.ContextBrief{Degraded: true}
}

type fakeWriter struct {
	failFor string // idea title that fails to draft
}

func (f *fakeWriter) WritePost(ctx context.Context, idea models.ContentIdea, knowledgeContext string) (*writer.WriteResult, error) {
	if f.failFor != "" && idea.Title == f.failFor {
		return nil, errors.New("model refused")
	}
	return &writer.WriteResult{Content: "draft of " + idea.Title}, nil
}

type fakePolisher struct{}

func (fakePolisher) Polish(ctx context.Context, userID, content string) (*polisher.PolishResult, error) {
	return &polisher.PolishResult{Polished: "polished " + content, HookScore: 7}, nil
}

type capturedNotifier struct {
	posts []*models.PipelinePost
}

func (n *capturedNotifier) PostScheduled(ctx context.Context, post *models.PipelinePost) {
	n.posts = append(n.posts, post)
}

func relPtr(v float64) *float64 {
	return &v
}

func dayPtr(d int) *int {
	return &d
}

func testIdeas() []models.ContentIdea {
	// relevance ordering makes the ranked order deterministic
	return []models.ContentIdea{
		{ID: primitive.NewObjectID(), UserID: "u1", Title: "first", CoreInsight: "a", Status: models.IdeaStatusExtracted, RelevanceScore: relPtr(10)},
		{ID: primitive.NewObjectID(), UserID: "u1", Title: "second", CoreInsight: "b", Status: models.IdeaStatusExtracted, RelevanceScore: relPtr(6)},
		{ID: primitive.NewObjectID(), UserID: "u1", Title: "third", CoreInsight: "c", Status: models.IdeaStatusExtracted, RelevanceScore: relPtr(2)},
	}
}

func tuesdaySlot() models.PostingSlot {
	return models.PostingSlot{
		SlotNumber: 1,
		Hour:       9,
		DayOfWeek:  dayPtr(2),
		Timezone:   "America/New_York",
		Active:     true,
	}
}

// 2026-01-13 is a Tuesday; 08:00 UTC is before the 09:00 EST slot.
var testNow = time.Date(2026, time.January, 13, 8, 0, 0, 0, time.UTC)

func newTestOrchestrator(ideas *fakeIdeaStore, posts *fakePostStore, slots *fakeSlotStore, w ContentWriter) *Orchestrator {
	o := NewOrchestrator(ideas, posts, slots, fakeKnowledge{}, w, fakePolisher{})
	o.now = func() time.Time { return testNow }
	return o
}

func TestRunNightlyBatchHappyPath(t *testing.T) {
	ideas := &fakeIdeaStore{ideas: testIdeas(), statuses: map[primitive.ObjectID]models.IdeaStatus{}}
	posts := &fakePostStore{}
	slots := &fakeSlotStore{slots: []models.PostingSlot{tuesdaySlot()}}
	notifier := &capturedNotifier{}

	o := newTestOrchestrator(ideas, posts, slots, &fakeWriter{})
	o.SetNotifier(notifier)

	result := o.RunNightlyBatch(context.Background(), BatchConfig{UserID: "u1"})

	assert.Empty(t, result.Errors)
	assert.Equal(t, 3, result.PostsCreated)
	assert.Equal(t, 1, result.PostsScheduled)
	assert.Equal(t, 3, result.IdeasProcessed)

	assert.Len(t, posts.inserted, 3)

	primary := posts.inserted[0]
	assert.Equal(t, "first", primary.Title)
	assert.Equal(t, models.PostStatusReviewing, primary.Status)
	assert.False(t, primary.IsBuffer)
	if assert.NotNil(t, primary.ScheduledTime) {
		assert.Equal(t, time.Date(2026, time.January, 13, 14, 0, 0, 0, time.UTC), *primary.ScheduledTime)
	}
	assert.Nil(t, primary.AutoPublishAfter)

	// positions are count + shortlist index; with up-to-date counts
	// the second buffer item sees the first one already persisted
	wantPositions := []int{1, 3}
	for i, p := range posts.inserted[1:] {
		assert.True(t, p.IsBuffer)
		assert.Equal(t, models.PostStatusApproved, p.Status)
		assert.Nil(t, p.ScheduledTime)
		if assert.NotNil(t, p.BufferPosition) {
			assert.Equal(t, wantPositions[i], *p.BufferPosition)
		}
	}

	for _, idea := range ideas.ideas {
		assert.Equal(t, models.IdeaStatusWritten, ideas.statuses[idea.ID])
	}

	if assert.Len(t, notifier.posts, 1) {
		assert.Equal(t, "first", notifier.posts[0].Title)
	}
}

func TestRunNightlyBatchBufferPositionsSurviveLaggingCounts(t *testing.T) {
	// A count that never observes this run's inserts must not collapse
	// buffer positions: the shortlist index keeps them strictly
	// increasing.
	zero := 0
	ideas := &fakeIdeaStore{ideas: testIdeas(), statuses: map[primitive.ObjectID]models.IdeaStatus{}}
	posts := &fakePostStore{bufferCountOverride: &zero}
	slots := &fakeSlotStore{slots: []models.PostingSlot{tuesdaySlot()}}

	o := newTestOrchestrator(ideas, posts, slots, &fakeWriter{})

	result := o.RunNightlyBatch(context.Background(), BatchConfig{UserID: "u1"})

	assert.Empty(t, result.Errors)
	var positions []int
	for _, p := range posts.inserted {
		if p.IsBuffer {
			positions = append(positions, *p.BufferPosition)
		}
	}
	assert.Equal(t, []int{1, 2}, positions)
}

func TestRunNightlyBatchWriterFailureIsIsolated(t *testing.T) {
	ideas := &fakeIdeaStore{ideas: testIdeas(), statuses: map[primitive.ObjectID]models.IdeaStatus{}}
	posts := &fakePostStore{}
	slots := &fakeSlotStore{slots: []models.PostingSlot{tuesdaySlot()}}

	o := newTestOrchestrator(ideas, posts, slots, &fakeWriter{failFor: "second"})

	result := o.RunNightlyBatch(context.Background(), BatchConfig{UserID: "u1"})

	assert.Equal(t, 2, result.PostsCreated)
	assert.Equal(t, 1, result.PostsScheduled)
	assert.Equal(t, 2, result.IdeasProcessed)
	if assert.Len(t, result.Errors, 1) {
		assert.Contains(t, result.Errors[0], `"second"`)
	}

	// the failed idea goes back to extracted for a future run
	assert.Equal(t, models.IdeaStatusExtracted, ideas.statuses[ideas.ideas[1].ID])
	assert.Equal(t, models.IdeaStatusWritten, ideas.statuses[ideas.ideas[0].ID])
	assert.Equal(t, models.IdeaStatusWritten, ideas.statuses[ideas.ideas[2].ID])
}

func TestRunNightlyBatchInsertFailureKeepsIdeaWriting(t *testing.T) {
	ideas := &fakeIdeaStore{ideas: testIdeas(), statuses: map[primitive.ObjectID]models.IdeaStatus{}}
	posts := &fakePostStore{insertFailFor: "first"}
	slots := &fakeSlotStore{slots: []models.PostingSlot{tuesdaySlot()}}

	o := newTestOrchestrator(ideas, posts, slots, &fakeWriter{})

	result := o.RunNightlyBatch(context.Background(), BatchConfig{UserID: "u1"})

	assert.Equal(t, 2, result.PostsCreated)
	assert.Len(t, result.Errors, 1)

	// post insert failure does not revert the claim
	assert.Equal(t, models.IdeaStatusWriting, ideas.statuses[ideas.ideas[0].ID])
}

func TestRunNightlyBatchNoSlotsFallsBack(t *testing.T) {
	ideas := &fakeIdeaStore{ideas: testIdeas()[:1], statuses: map[primitive.ObjectID]models.IdeaStatus{}}
	posts := &fakePostStore{}

	o := newTestOrchestrator(ideas, posts, &fakeSlotStore{}, &fakeWriter{})

	result := o.RunNightlyBatch(context.Background(), BatchConfig{UserID: "u1"})

	assert.Empty(t, result.Errors)
	if assert.Len(t, posts.inserted, 1) && assert.NotNil(t, posts.inserted[0].ScheduledTime) {
		assert.Equal(t, time.Date(2026, time.January, 14, 9, 0, 0, 0, time.UTC), *posts.inserted[0].ScheduledTime)
	}
	assert.Equal(t, 1, result.PostsScheduled)
}

func TestRunNightlyBatchAutoPublish(t *testing.T) {
	ideas := &fakeIdeaStore{ideas: testIdeas()[:2], statuses: map[primitive.ObjectID]models.IdeaStatus{}}
	posts := &fakePostStore{}
	slots := &fakeSlotStore{slots: []models.PostingSlot{tuesdaySlot()}}

	o := newTestOrchestrator(ideas, posts, slots, &fakeWriter{})

	result := o.RunNightlyBatch(context.Background(), BatchConfig{UserID: "u1", AutoPublish: true, AutoPublishDelayHours: 12})

	assert.Empty(t, result.Errors)
	if assert.Len(t, posts.inserted, 2) {
		// only the primary post gets an auto-publish deadline
		if assert.NotNil(t, posts.inserted[0].AutoPublishAfter) {
			assert.Equal(t, testNow.Add(12*time.Hour), *posts.inserted[0].AutoPublishAfter)
		}
		assert.Nil(t, posts.inserted[1].AutoPublishAfter)
	}
}

func TestRunNightlyBatchEmptyBacklog(t *testing.T) {
	ideas := &fakeIdeaStore{statuses: map[primitive.ObjectID]models.IdeaStatus{}}
	posts := &fakePostStore{}

	o := newTestOrchestrator(ideas, posts, &fakeSlotStore{}, &fakeWriter{})

	result := o.RunNightlyBatch(context.Background(), BatchConfig{UserID: "u1"})

	assert.Equal(t, BatchResult{Errors: []string{}}, result)
	assert.Empty(t, posts.inserted)
}

func TestRunNightlyBatchSetupFailure(t *testing.T) {
	ideas := &fakeIdeaStore{findErr: errors.New("mongo down"), statuses: map[primitive.ObjectID]models.IdeaStatus{}}
	posts := &fakePostStore{}

	o := newTestOrchestrator(ideas, posts, &fakeSlotStore{}, &fakeWriter{})

	result := o.RunNightlyBatch(context.Background(), BatchConfig{UserID: "u1"})

	assert.Equal(t, 0, result.PostsCreated)
	if assert.Len(t, result.Errors, 1) {
		assert.Contains(t, result.Errors[0], "batch setup failed for user u1")
	}
}

func TestRunNightlyBatchBufferCountFailureReverts(t *testing.T) {
	ideas := &fakeIdeaStore{ideas: testIdeas()[:2], statuses: map[primitive.ObjectID]models.IdeaStatus{}}
	posts := &fakePostStore{countBufferErr: errors.New("count timed out")}
	slots := &fakeSlotStore{slots: []models.PostingSlot{tuesdaySlot()}}

	o := newTestOrchestrator(ideas, posts, slots, &fakeWriter{})

	result := o.RunNightlyBatch(context.Background(), BatchConfig{UserID: "u1"})

	// primary still lands; the buffer item fails before insert and reverts
	assert.Equal(t, 1, result.PostsCreated)
	assert.Len(t, result.Errors, 1)
	assert.Equal(t, models.IdeaStatusExtracted, ideas.statuses[ideas.ideas[1].ID])
}

func TestRunNightlyBatchRespectsPostsPerBatch(t *testing.T) {
	ideas := &fakeIdeaStore{ideas: testIdeas(), statuses: map[primitive.ObjectID]models.IdeaStatus{}}
	posts := &fakePostStore{}
	slots := &fakeSlotStore{slots: []models.PostingSlot{tuesdaySlot()}}

	o := newTestOrchestrator(ideas, posts, slots, &fakeWriter{})

	result := o.RunNightlyBatch(context.Background(), BatchConfig{UserID: "u1", PostsPerBatch: 1})

	assert.Equal(t, 1, result.PostsCreated)
	if assert.Len(t, posts.inserted, 1) {
		assert.Equal(t, "first", posts.inserted[0].Title)
	}
	// ideas outside the shortlist stay untouched
	_, touched := ideas.statuses[ideas.ideas[2].ID]
	assert.False(t, touched)
}
