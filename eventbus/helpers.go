package eventbus

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// NewJSONEvent builds an Event with a JSON-encoded payload. An empty id
// is replaced with a fresh uuid.
func NewJSONEvent(id string, payload any, maxRetry int) (Event, error) {
	if maxRetry <= 0 || maxRetry > len(RetryDelays) {
		maxRetry = len(RetryDelays)
	}
	if id == "" {
		id = uuid.New().String()
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("payload marshal failed: %w", err)
	}
	return Event{
		ID:       id,
		Payload:  b,
		Retry:    0,
		MaxRetry: maxRetry,
	}, nil
}

// DecodeJSON unmarshals Event.Payload into the generic type.
func DecodeJSON[T any](evt Event) (T, error) {
	var out T
	if err := json.Unmarshal(evt.Payload, &out); err != nil {
		var zero T
		return zero, fmt.Errorf("payload unmarshal failed: %w", err)
	}
	return out, nil
}

// SubscribeJSON wraps Subscribe with automatic payload decoding. The
// handler receives the decoded payload together with the raw envelope.
func SubscribeJSON[T any](ctx context.Context, bus EventBus, groupID string, topic Topic, handler func(ctx context.Context, payload T, meta Event) error) error {
	return bus.Subscribe(ctx, groupID, topic, func(ctx context.Context, evt Event) error {
		v, err := DecodeJSON[T](evt)
		if err != nil {
			return err
		}
		return handler(ctx, v, evt)
	})
}
