package pubsub

import (
	"context"
	"encoding/json"
)

// Publish sends a typed payload on the bus. The compiler ensures callers and
// subscribers agree on the shape of T for a given topic name.
func Publish[T any](ctx context.Context, p Publisher, topicName string, payload T) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	return p.Publish(ctx, Message{
		Topic:   topicName,
		Payload: data,
	})
}

// Subscribe wires a typed handler to a topic. A payload that does not decode
// into T is nacked and never reaches the handler.
func Subscribe[T any](ctx context.Context, s Subscriber, topicName string, handler func(ctx context.Context, payload T) error) error {
	return s.Subscribe(ctx, topicName, func(ctx context.Context, msg Message) error {
		var payload T
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return err
		}
		return handler(ctx, payload)
	})
}
