package reader

import (
	"context"
	"encoding/json"
	"strings"
)

// ReadAs replays a topic, deserializing each object into T instead of a
// generic map. The same per-item failure isolation applies: an object whose
// payload is not valid JSON is logged and dropped. Valid JSON that merely
// lacks fields of T decodes to zero values, per encoding/json semantics.
func ReadAs[T any](ctx context.Context, r *Reader, topicName string, h func(ctx context.Context, evt T) error) error {
	container := strings.ToLower(topicName)

	return r.walk(ctx, container, func(o outcome) error {
		if o.err != nil {
			r.skip(container, o.key, o.err)
			return nil
		}
		var evt T
		if err := json.Unmarshal(o.raw, &evt); err != nil {
			r.skip(container, o.key, err)
			return nil
		}
		return h(ctx, evt)
	})
}

// ReadAllAs collects a typed replay into memory.
func ReadAllAs[T any](ctx context.Context, r *Reader, topicName string) ([]T, error) {
	var events []T
	err := ReadAs(ctx, r, topicName, func(_ context.Context, evt T) error {
		events = append(events, evt)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return events, nil
}
