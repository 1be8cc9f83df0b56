package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"content-autopilot/autopilot"
	"content-autopilot/cmd/nightly/event/dispatcher"
	"content-autopilot/cmd/nightly/event/handler"
	"content-autopilot/config"
	"content-autopilot/db"
	"content-autopilot/eventbus"
	"content-autopilot/events"
	"content-autopilot/knowledge"
	"content-autopilot/polisher"
	"content-autopilot/repositories"
	"content-autopilot/writer"
)

func main() {
	config.InitApp()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := db.Init(ctx); err != nil {
		config.Logger.Errorf("failed to initialize MongoDB: %v", err)
		os.Exit(1)
	}

	brokers := eventbus.GetBrokers()
	if err := eventbus.EnsureTopics(brokers, eventbus.TopicBatchEvents, 3); err != nil {
		config.Logger.Errorf("failed to ensure eventbus topics: %v", err)
	}

	bus, err := eventbus.NewKafkaEventBus(brokers)
	if err != nil {
		config.Logger.Errorf("failed to create event bus: %v", err)
		os.Exit(1)
	}
	defer bus.Close()

	ideaRepo := repositories.NewContentIdeaRepository(db.Database())
	postRepo := repositories.NewPipelinePostRepository(db.Database())
	slotRepo := repositories.NewPostingSlotRepository(db.Database())
	chunkRepo := repositories.NewKnowledgeChunkRepository(db.Database())
	aiLogRepo := repositories.NewAILogRepository(db.Database())

	eventDispatcher := dispatcher.NewEventDispatcher(bus)
	orch := autopilot.NewOrchestrator(
		ideaRepo,
		postRepo,
		slotRepo,
		knowledge.NewSearcher(chunkRepo),
		writer.New(aiLogRepo),
		polisher.New(aiLogRepo),
	)
	orch.SetNotifier(eventDispatcher)
	eventHandler := handler.NewEventHandlers(eventDispatcher, orch)

	groupID := eventbus.GetGroupID()

	subscribeRunner := func() error {
		return bus.Subscribe(ctx, groupID, eventbus.TopicBatchEvents, func(ctx context.Context, ev eventbus.Event) error {
			// Peek the event type first; BaseEvent.Type is top-level.
			var peek struct {
				Type string `json:"type"`
			}
			if err := json.Unmarshal(ev.Payload, &peek); err != nil {
				return err
			}
			switch events.EventType(peek.Type) {
			case events.BatchDue:
				v, err := eventbus.DecodeJSON[events.BatchDueEvent](ev)
				if err != nil {
					return err
				}
				return eventHandler.HandleBatchDue(ctx, &v)
			default:
				// Events this worker itself publishes, or events for other
				// consumers. Ignore and commit.
				return nil
			}
		})
	}

	config.Logger.Info("starting nightly batch service with eventbus...")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := subscribeRunner(); err != nil && err != context.Canceled {
			config.Logger.Errorf("eventbus subscribe error: %v", err)
		}
	}()

	<-sigChan
	config.Logger.Info("received shutdown signal, shutting down nightly batch service...")

	cancel()
	wg.Wait()

	config.Logger.Info("nightly batch service stopped")
}
