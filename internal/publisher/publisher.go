// Package publisher implements the data-plane write path: one serialized
// event becomes one immutable object under the topic's storage container.
package publisher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/nfrund/topicstore/internal/storage"
)

// Publisher appends events to per-topic containers in the object store.
// It performs no internal retry: storage failures are logged and returned,
// and the caller owns any retry/backoff policy.
type Publisher struct {
	store  storage.Store
	logger *slog.Logger
	tracer trace.Tracer
}

// Option configures a Publisher.
type Option func(*Publisher)

// WithLogger sets the logger used for publish failures.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) { p.logger = logger }
}

// WithTracer sets the tracer used to span each publish.
func WithTracer(tracer trace.Tracer) Option {
	return func(p *Publisher) { p.tracer = tracer }
}

// New creates a Publisher on top of the given store.
func New(store storage.Store, opts ...Option) *Publisher {
	p := &Publisher{
		store:  store,
		logger: slog.Default(),
		tracer: noop.NewTracerProvider().Tracer("publisher"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Publish serializes the event as indented JSON and uploads it as a new
// object under lowercase(topicName). The container is created on first use.
// The returned key is the object's path inside the container.
//
// Keys are prefixed with the UTC write time at minute granularity, so a
// lexicographic listing is approximately chronological. Events written
// within the same minute sort by UUID, i.e. arbitrarily.
func (p *Publisher) Publish(ctx context.Context, topicName string, event any) (string, error) {
	if strings.TrimSpace(topicName) == "" {
		return "", fmt.Errorf("publish: topic name cannot be empty")
	}
	container := strings.ToLower(topicName)

	ctx, span := p.tracer.Start(ctx, "topicstore.publish",
		trace.WithAttributes(
			attribute.String("messaging.destination", container),
			attribute.String("messaging.operation", "publish"),
		),
	)
	defer span.End()

	data, err := json.MarshalIndent(event, "", "  ")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", fmt.Errorf("publish: serializing event for topic %q: %w", topicName, err)
	}

	if err := p.store.EnsureContainer(ctx, container); err != nil {
		return "", p.fail(span, container, "", err)
	}

	key := objectKey(time.Now().UTC(), uuid.New())
	span.SetAttributes(attribute.String("messaging.message_id", key))

	if _, err := p.store.Put(ctx, container, key, bytes.NewReader(data)); err != nil {
		return "", p.fail(span, container, key, err)
	}

	return key, nil
}

// fail logs a storage failure and marks the span before handing the error
// back to the caller unchanged.
func (p *Publisher) fail(span trace.Span, container, key string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	p.logger.Error("Failed to publish event",
		slog.String("container", container),
		slog.String("key", key),
		slog.String("error", err.Error()))
	return err
}

// objectKey builds the storage key for one event: a minute-granularity UTC
// time prefix followed by a random UUID. Collisions surface as failed writes
// because the store has overwrite disabled.
func objectKey(now time.Time, id uuid.UUID) string {
	return now.Format("2006/01/02/15/04") + "/" + id.String() + ".json"
}
