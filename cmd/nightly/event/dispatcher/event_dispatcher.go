package dispatcher

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"content-autopilot/autopilot"
	"content-autopilot/config"
	"content-autopilot/eventbus"
	"content-autopilot/events"
	"content-autopilot/models"
)

// EventDispatcher publishes nightly-worker events back onto the batch
// topic.
type EventDispatcher struct {
	bus eventbus.EventBus
}

func NewEventDispatcher(bus eventbus.EventBus) *EventDispatcher {
	return &EventDispatcher{
		bus: bus,
	}
}

// PublishBatchCompleted reports the aggregate result of one nightly run.
func (s *EventDispatcher) PublishBatchCompleted(ctx context.Context, userID string, result autopilot.BatchResult) error {
	e := events.BatchCompletedEvent{
		BaseEvent: events.BaseEvent{
			ID:        uuid.New().String(),
			Type:      events.BatchCompleted,
			Timestamp: time.Now(),
			Source:    "nightly",
			Version:   "1.0",
		},
		UserID:         userID,
		PostsCreated:   result.PostsCreated,
		PostsScheduled: result.PostsScheduled,
		IdeasProcessed: result.IdeasProcessed,
		Errors:         result.Errors,
	}
	evt, err := eventbus.NewJSONEvent("", e, 0)
	if err != nil {
		return fmt.Errorf("failed to build event: %w", err)
	}
	return s.bus.Publish(ctx, eventbus.TopicBatchEvents.Base(), evt)
}

// PostScheduled announces the primary post of a run. It satisfies the
// orchestrator's Notifier contract; publish failures are logged, not
// propagated, since the post is already persisted.
func (s *EventDispatcher) PostScheduled(ctx context.Context, post *models.PipelinePost) {
	if post.ScheduledTime == nil {
		return
	}
	e := events.PostScheduledEvent{
		BaseEvent: events.BaseEvent{
			ID:        uuid.New().String(),
			Type:      events.PostScheduled,
			Timestamp: time.Now(),
			Source:    "nightly",
			Version:   "1.0",
		},
		UserID:        post.UserID,
		PostID:        post.ID,
		IdeaID:        post.IdeaID,
		ScheduledTime: *post.ScheduledTime,
	}
	evt, err := eventbus.NewJSONEvent("", e, 0)
	if err != nil {
		config.Logger.Errorf("failed to build PostScheduled event: %v", err)
		return
	}
	if err := s.bus.Publish(ctx, eventbus.TopicBatchEvents.Base(), evt); err != nil {
		config.Logger.Errorf("failed to publish PostScheduled event for post %s: %v", post.ID.Hex(), err)
	}
}
