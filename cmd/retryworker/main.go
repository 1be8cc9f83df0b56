package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"content-autopilot/config"
	"content-autopilot/eventbus"
)

func main() {
	config.InitApp()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	brokers := eventbus.GetBrokers()
	for _, t := range eventbus.AllTopics {
		if err := eventbus.EnsureTopics(brokers, t, 3); err != nil {
			config.Logger.Errorf("failed to ensure eventbus topics for %s: %v", t.Base(), err)
		}
	}

	bus, err := eventbus.NewKafkaEventBus(brokers)
	if err != nil {
		config.Logger.Errorf("failed to create event bus: %v", err)
		os.Exit(1)
	}
	defer bus.Close()

	groupID := eventbus.GetGroupID() + "-retry-worker"

	config.Logger.Infof("starting retry worker, reinjecting delayed events for %d topic(s)...", len(eventbus.AllTopics))

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	var wg sync.WaitGroup
	for _, t := range eventbus.AllTopics {
		topic := t
		wg.Add(1)
		go func() {
			defer wg.Done()
			topicGroupID := groupID + "-" + strings.ReplaceAll(topic.Base(), ".", "-")
			if err := bus.StartRetryReinjector(ctx, topicGroupID, topic); err != nil && err != context.Canceled {
				config.Logger.Errorf("eventbus retry reinjector error for %s: %v", topic.Base(), err)
			}
		}()
	}

	<-sigChan
	config.Logger.Info("received shutdown signal, shutting down retry worker...")

	cancel()
	wg.Wait()

	config.Logger.Info("retry worker stopped")
}
