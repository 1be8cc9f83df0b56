package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"

	"content-autopilot/config"
)

// KafkaEventBus implements EventBus on confluent-kafka-go.
type KafkaEventBus struct {
	Producer *kafka.Producer
	Brokers  string
}

// NewKafkaEventBus initializes the Kafka producer.
func NewKafkaEventBus(brokers string) (*KafkaEventBus, error) {
	p, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers": brokers,
		"acks":              "all",
		"retries":           5,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	// Drain producer events (delivery reports etc.)
	go func() {
		for e := range p.Events() {
			switch ev := e.(type) {
			case *kafka.Message:
				if ev.TopicPartition.Error != nil {
					config.Logger.Errorf("message delivery failed %v: %v", ev.TopicPartition, ev.TopicPartition.Error)
				}
			case kafka.Error:
				config.Logger.Errorf("kafka error: %v", ev)
			}
		}
	}()

	return &KafkaEventBus{
		Producer: p,
		Brokers:  brokers,
	}, nil
}

// Close flushes and shuts down the producer.
func (k *KafkaEventBus) Close() {
	if k.Producer != nil {
		if remaining := k.Producer.Flush(5000); remaining > 0 {
			config.Logger.Warnf("%d messages still pending after flush", remaining)
		}
		k.Producer.Close()
		config.Logger.Info("kafka producer closed")
	}
}

// Publish sends one event to the given topic and waits for delivery.
func (k *KafkaEventBus) Publish(ctx context.Context, topic string, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("event marshal failed: %w", err)
	}

	deliveryChan := make(chan kafka.Event, 1)
	defer close(deliveryChan)

	err = k.Producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Value:          data,
		Key:            []byte(event.ID),
	}, deliveryChan)
	if err != nil {
		return fmt.Errorf("message publish failed: %w", err)
	}

	select {
	case ev := <-deliveryChan:
		m := ev.(*kafka.Message)
		if m.TopicPartition.Error != nil {
			return fmt.Errorf("message delivery failed: %w", m.TopicPartition.Error)
		}
	case <-ctx.Done():
		return ctx.Err()
	}

	return nil
}

// Subscribe consumes the base topic and runs the main business handler.
// Handler failures are rescheduled onto the retry topics, then the DLQ
// once retries are exhausted; offsets are committed manually.
func (k *KafkaEventBus) Subscribe(ctx context.Context, groupID string, topic Topic, handler EventHandler) error {
	c, err := kafka.NewConsumer(&kafka.ConfigMap{
		"bootstrap.servers":             k.Brokers,
		"group.id":                      groupID,
		"auto.offset.reset":             "earliest",
		"enable.auto.commit":            false, // manual commit for the retry logic
		"partition.assignment.strategy": "range",
	})
	if err != nil {
		return fmt.Errorf("failed to create kafka consumer: %w", err)
	}
	defer c.Close()

	topicsToSubscribe := []string{topic.Base()}
	if err := c.SubscribeTopics(topicsToSubscribe, nil); err != nil {
		return fmt.Errorf("failed to subscribe to %v: %w", topicsToSubscribe, err)
	}

	config.Logger.Infof("main consumer (%s) started, topics: %s", groupID, strings.Join(topicsToSubscribe, ", "))

	for {
		select {
		case <-ctx.Done():
			config.Logger.Info("main consumer shutting down")
			return ctx.Err()
		default:
			msg, err := c.ReadMessage(100 * time.Millisecond)
			if err != nil {
				if kerr, ok := err.(kafka.Error); ok && kerr.Code() == kafka.ErrTimedOut {
					continue // timeouts are expected
				}
				continue
			}

			var evt Event
			if err := json.Unmarshal(msg.Value, &evt); err != nil {
				config.Logger.Errorf("bad event payload on topic %s: %v, skipping and committing", *msg.TopicPartition.Topic, err)
				c.CommitMessage(msg)
				continue
			}

			if evt.MaxRetry <= 0 || evt.MaxRetry > len(RetryDelays) {
				evt.MaxRetry = len(RetryDelays)
			}

			if evt.Retry > 0 {
				config.Logger.Infof("processing event %s (retry %d/%d) from topic %s", evt.ID, evt.Retry, evt.MaxRetry, *msg.TopicPartition.Topic)
			} else {
				config.Logger.Debugf("processing event %s from topic %s", evt.ID, *msg.TopicPartition.Topic)
			}
			err = handler(ctx, evt)

			if err != nil {
				// Handler failed: schedule a retry or dead-letter it.
				evt.LastError = err.Error()
				nextRetryCount := evt.Retry + 1
				nextRetryTopic, getTopicErr := topic.GetRetryTopic(nextRetryCount)

				if getTopicErr == ErrMaxRetryExceeded {
					config.Logger.Errorf("event %s exhausted retries, sending to DLQ %s, final error: %s", evt.ID, topic.DLQ(), err.Error())
					publishErr := k.Publish(ctx, topic.DLQ(), evt)
					if publishErr != nil {
						config.Logger.Errorf("DLQ publish to %s failed: %v, not committing offset", topic.DLQ(), publishErr)
						continue // message will be redelivered
					}
				} else if getTopicErr != nil {
					config.Logger.Errorf("unexpected error resolving retry topic: %v, not committing offset", getTopicErr)
					continue
				} else {
					evt.Retry = nextRetryCount
					config.Logger.Warnf("event %s failed, scheduling retry %d/%d on topic %s",
						evt.ID, evt.Retry, evt.MaxRetry, nextRetryTopic)
					publishErr := k.Publish(ctx, nextRetryTopic, evt)
					if publishErr != nil {
						config.Logger.Errorf("retry publish to %s failed: %v, not committing offset", nextRetryTopic, publishErr)
						continue
					}
				}
			}

			// Success, or retry/DLQ publish succeeded: commit the offset.
			if _, err := c.CommitMessage(msg); err != nil {
				config.Logger.Errorf("offset commit error: %v", err)
			}
		}
	}
}

// StartRetryReinjector consumes every retry topic and republishes
// messages to the base topic once their delay has elapsed.
func (k *KafkaEventBus) StartRetryReinjector(ctx context.Context, groupID string, topic Topic) error {
	c, err := kafka.NewConsumer(&kafka.ConfigMap{
		"bootstrap.servers":             k.Brokers,
		"group.id":                      groupID, // dedicated reinjector group
		"auto.offset.reset":             "earliest",
		"enable.auto.commit":            false,
		"partition.assignment.strategy": "range",
	})
	if err != nil {
		return fmt.Errorf("failed to create retry reinjector consumer: %w", err)
	}
	defer c.Close()

	retryTopics := topic.GetRetryTopics()
	if err := c.SubscribeTopics(retryTopics, nil); err != nil {
		return fmt.Errorf("failed to subscribe to retry topics %v: %w", retryTopics, err)
	}

	config.Logger.Infof("retry reinjector consumer (%s) started, topics: %s", groupID, strings.Join(retryTopics, ", "))

	for {
		select {
		case <-ctx.Done():
			config.Logger.Info("retry reinjector consumer shutting down")
			return ctx.Err()
		default:
			msg, err := c.ReadMessage(100 * time.Millisecond)
			if err != nil {
				if kerr, ok := err.(kafka.Error); ok {
					if kerr.Code() == kafka.ErrTimedOut {
						continue
					}
					if kerr.IsFatal() {
						return fmt.Errorf("retry reinjector fatal error: %w", err)
					}
				}
				config.Logger.Errorf("retry reinjector ReadMessage error: %v", err)
				time.Sleep(500 * time.Millisecond)
				continue
			}

			topicName := *msg.TopicPartition.Topic
			delayDur, ok := ParseRetryDelayFromTopicName(topicName)
			if !ok {
				config.Logger.Errorf("cannot parse retry topic name %s, skipping and committing", topicName)
				c.CommitMessage(msg)
				continue
			}

			readyAt := msg.Timestamp.Add(delayDur)
			now := time.Now()
			if now.Before(readyAt) {
				remaining := readyAt.Sub(now)
				// Sleep only briefly so the consumer thread is never
				// blocked for a full delay window.
				sleepDur := remaining
				if sleepDur > 500*time.Millisecond {
					sleepDur = 500 * time.Millisecond
				} else if sleepDur < 50*time.Millisecond {
					sleepDur = 50 * time.Millisecond
				}
				time.Sleep(sleepDur)
				// No commit: the message is redelivered later.
				continue
			}

			var evt Event
			if err := json.Unmarshal(msg.Value, &evt); err != nil {
				config.Logger.Errorf("bad event payload on retry topic %s: %v, skipping and committing", topicName, err)
				c.CommitMessage(msg)
				continue
			}

			config.Logger.Infof("reinjecting event %s from %s to %s (retry: %d)",
				evt.ID, topicName, topic.Base(), evt.Retry)

			if err := k.Publish(ctx, topic.Base(), evt); err != nil {
				config.Logger.Errorf("reinject of event %s failed: %v, not committing offset", evt.ID, err)
				continue
			}

			if _, err := c.CommitMessage(msg); err != nil {
				config.Logger.Errorf("commit after reinject failed: %v", err)
			}
		}
	}
}
