package handler

import (
	"context"

	"content-autopilot/autopilot"
	"content-autopilot/cmd/nightly/event/dispatcher"
	"content-autopilot/config"
	"content-autopilot/events"
)

type EventHandlers struct {
	eventDispatcher *dispatcher.EventDispatcher
	orchestrator    *autopilot.Orchestrator
}

func NewEventHandlers(eventDispatcher *dispatcher.EventDispatcher, orchestrator *autopilot.Orchestrator) *EventHandlers {
	return &EventHandlers{
		eventDispatcher: eventDispatcher,
		orchestrator:    orchestrator,
	}
}

// HandleBatchDue runs one user's nightly batch. Event fields override the
// config defaults when set; a zero value means "use the default".
func (h *EventHandlers) HandleBatchDue(ctx context.Context, event *events.BatchDueEvent) error {
	config.Logger.Infof("handling BatchDue event for user: %s", event.UserID)

	appCfg := config.GetConfig().Autopilot
	cfg := autopilot.BatchConfig{
		UserID:                event.UserID,
		PostsPerBatch:         event.PostsPerBatch,
		AutoPublish:           event.AutoPublish || appCfg.AutoPublish,
		AutoPublishDelayHours: event.AutoPublishDelayHours,
		LookbackDays:          appCfg.LookbackDays,
		IdeaLoadLimit:         appCfg.IdeaLoadLimit,
	}
	if cfg.PostsPerBatch <= 0 {
		cfg.PostsPerBatch = appCfg.PostsPerBatch
	}
	if cfg.AutoPublishDelayHours <= 0 {
		cfg.AutoPublishDelayHours = appCfg.AutoPublishDelayHours
	}

	result := h.orchestrator.RunNightlyBatch(ctx, cfg)

	config.Logger.Infof("nightly batch done for user %s - created:%d scheduled:%d processed:%d errors:%d",
		event.UserID,
		result.PostsCreated,
		result.PostsScheduled,
		result.IdeasProcessed,
		len(result.Errors),
	)
	for _, e := range result.Errors {
		config.Logger.Warnf("nightly batch error: %s", e)
	}

	if err := h.eventDispatcher.PublishBatchCompleted(ctx, event.UserID, result); err != nil {
		config.Logger.Errorf("failed to publish BatchCompleted event: %v", err)
		return err
	}

	return nil
}
