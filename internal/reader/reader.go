// Package reader implements the data-plane replay path: a full, lazy
// re-enumeration of a topic's stored events from the beginning.
package reader

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/nfrund/topicstore/internal/storage"
)

// Handler processes one replayed event. Returning a non-nil error stops the
// replay and surfaces the error to the Read caller.
type Handler func(ctx context.Context, evt map[string]any) error

// Reader enumerates a topic's container and lazily yields deserialized
// events. Each call re-walks storage from the beginning; nothing is cached.
type Reader struct {
	store  storage.Store
	logger *slog.Logger
	tracer trace.Tracer
}

// Option configures a Reader.
type Option func(*Reader)

// WithLogger sets the logger used when items are skipped.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Reader) { r.logger = logger }
}

// WithTracer sets the tracer used to span each replay.
func WithTracer(tracer trace.Tracer) Option {
	return func(r *Reader) { r.tracer = tracer }
}

// New creates a Reader on top of the given store.
func New(store storage.Store, opts ...Option) *Reader {
	r := &Reader{
		store:  store,
		logger: slog.Default(),
		tracer: noop.NewTracerProvider().Tracer("reader"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// outcome is one item of a replay walk before the drop policy is applied:
// either a raw payload or the reason it could not be produced.
type outcome struct {
	key string
	raw []byte
	err error
}

// walk lists the topic's container and feeds every object through fn as a
// tagged outcome. A missing container yields no items and no error. The
// context is checked between items, so a cancelled walk ends after the
// current item with ctx.Err().
func (r *Reader) walk(ctx context.Context, container string, fn func(o outcome) error) error {
	exists, err := r.store.ContainerExists(ctx, container)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}

	keys, err := r.store.List(ctx, container)
	if err != nil {
		return err
	}

	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return err
		}
		raw, err := r.download(ctx, container, key)
		if err := fn(outcome{key: key, raw: raw, err: err}); err != nil {
			return err
		}
	}
	return nil
}

func (r *Reader) download(ctx context.Context, container, key string) ([]byte, error) {
	rc, err := r.store.Get(ctx, container, key)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// Read replays every event stored for the topic, in key order, through the
// handler. A per-item read or decode failure is logged and the item dropped:
// one corrupt record never aborts the rest of the replay. A topic that was
// never published to produces no events and no error. Cancellation stops the
// replay after the events already delivered and returns ctx.Err().
func (r *Reader) Read(ctx context.Context, topicName string, h Handler) error {
	container := strings.ToLower(topicName)

	ctx, span := r.tracer.Start(ctx, "topicstore.read",
		trace.WithAttributes(
			attribute.String("messaging.source", container),
			attribute.String("messaging.operation", "receive"),
		),
	)
	defer span.End()

	delivered, skipped := 0, 0
	err := r.walk(ctx, container, func(o outcome) error {
		if o.err != nil {
			skipped++
			r.skip(container, o.key, o.err)
			return nil
		}
		var evt map[string]any
		if err := json.Unmarshal(o.raw, &evt); err != nil {
			skipped++
			r.skip(container, o.key, err)
			return nil
		}
		delivered++
		return h(ctx, evt)
	})

	span.SetAttributes(
		attribute.Int("messaging.events_delivered", delivered),
		attribute.Int("messaging.events_skipped", skipped),
	)
	return err
}

// ReadAll collects the full replay into memory. Convenient for small topics
// and for the CLI; large topics should use Read and stream.
func (r *Reader) ReadAll(ctx context.Context, topicName string) ([]map[string]any, error) {
	var events []map[string]any
	err := r.Read(ctx, topicName, func(_ context.Context, evt map[string]any) error {
		events = append(events, evt)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return events, nil
}

// skip records one dropped item. The log line is the only trace a corrupt
// object leaves behind.
func (r *Reader) skip(container, key string, err error) {
	r.logger.Warn("Skipping unreadable event",
		slog.String("container", container),
		slog.String("key", key),
		slog.String("error", err.Error()))
}
