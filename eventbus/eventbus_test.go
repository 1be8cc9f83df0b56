package eventbus_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"content-autopilot/eventbus"
	"content-autopilot/events"
)

func TestTopicNames(t *testing.T) {
	topic := eventbus.NewTopic("autopilot.batch.events")

	assert.Equal(t, "autopilot.batch.events", topic.Base())
	assert.Equal(t, "autopilot.batch.events.dlq", topic.DLQ())

	retries := topic.GetRetryTopics()
	assert.Len(t, retries, len(eventbus.RetryDelays))
	assert.Equal(t, "autopilot.batch.events.retry.10s", retries[0])
	assert.Equal(t, "autopilot.batch.events.retry.10m0s", retries[len(retries)-1])
}

func TestGetRetryTopicBounds(t *testing.T) {
	topic := eventbus.NewTopic("x")

	name, err := topic.GetRetryTopic(1)
	assert.NoError(t, err)
	assert.Equal(t, "x.retry.10s", name)

	_, err = topic.GetRetryTopic(0)
	assert.ErrorIs(t, err, eventbus.ErrMaxRetryExceeded)
	_, err = topic.GetRetryTopic(len(eventbus.RetryDelays) + 1)
	assert.ErrorIs(t, err, eventbus.ErrMaxRetryExceeded)
}

func TestParseRetryDelayFromTopicName(t *testing.T) {
	d, ok := eventbus.ParseRetryDelayFromTopicName("autopilot.batch.events.retry.1m0s")
	assert.True(t, ok)
	assert.Equal(t, time.Minute, d)

	_, ok = eventbus.ParseRetryDelayFromTopicName("autopilot.batch.events")
	assert.False(t, ok)
	_, ok = eventbus.ParseRetryDelayFromTopicName("autopilot.batch.events.retry.")
	assert.False(t, ok)
	_, ok = eventbus.ParseRetryDelayFromTopicName("autopilot.batch.events.retry.soon")
	assert.False(t, ok)
}

func TestJSONEventRoundTrip(t *testing.T) {
	src := events.BatchDueEvent{
		BaseEvent: events.BaseEvent{ID: "evt-1", Type: events.BatchDue},
		UserID:    "u1",
	}

	evt, err := eventbus.NewJSONEvent("", src, 3)
	assert.NoError(t, err)
	assert.NotEmpty(t, evt.ID)
	assert.Equal(t, 3, evt.MaxRetry)

	decoded, err := eventbus.DecodeJSON[events.BatchDueEvent](evt)
	assert.NoError(t, err)
	assert.Equal(t, "u1", decoded.UserID)
	assert.Equal(t, events.BatchDue, decoded.Type)
}
