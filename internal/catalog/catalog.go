// Package catalog implements the control plane: a concurrency-safe,
// in-memory directory of topic metadata whose lifecycle changes are recorded
// durably in the reserved configuration topic.
package catalog

import (
	"context"
	"log/slog"
	"sync"

	"github.com/nfrund/topicstore/internal/event"
	"github.com/nfrund/topicstore/internal/pubsub"
	"github.com/nfrund/topicstore/internal/reader"
	"github.com/nfrund/topicstore/internal/topic"
)

// EventPublisher is the slice of the data-plane write path the catalog
// needs to append lifecycle events.
type EventPublisher interface {
	Publish(ctx context.Context, topicName string, evt any) (string, error)
}

// Catalog is the name→Topic directory. State is process-lifetime and
// in-memory; the durable record of creations lives in the configuration
// topic. The directory is an explicit object: construct one in the
// composition root and pass the handle around, never a package global.
type Catalog struct {
	mu       sync.RWMutex
	topics   map[string]topic.Topic
	pub      EventPublisher
	notifier pubsub.Publisher
	logger   *slog.Logger
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithLogger sets the catalog's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Catalog) { c.logger = logger }
}

// WithNotifier attaches an in-process bus on which successful creations are
// announced. Notification failures are logged and never fail a creation.
func WithNotifier(n pubsub.Publisher) Option {
	return func(c *Catalog) { c.notifier = n }
}

// New creates an empty catalog that appends lifecycle events through pub.
func New(pub EventPublisher, opts ...Option) *Catalog {
	c := &Catalog{
		topics: make(map[string]topic.Topic),
		pub:    pub,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CreateTopic validates and registers a new topic, then appends a
// TopicCreated record to the configuration topic.
//
// The directory insert happens before the publish. If the publish fails the
// topic stays registered while the durable log lacks its record, an
// inconsistency window the caller sees as a storage error. Retrying the
// call reports a duplicate; re-publishing the lifecycle record is an
// operator decision, not something this method does on its own.
func (c *Catalog) CreateTopic(ctx context.Context, name, description string, schemas []topic.EventSchema) (topic.Topic, error) {
	t, err := topic.New(name, description, schemas)
	if err != nil {
		return topic.Topic{}, &Error{
			Type:    ErrorValidation,
			Topic:   name,
			Message: "topic validation failed",
			Cause:   err,
		}
	}

	c.mu.Lock()
	if _, exists := c.topics[t.Name]; exists {
		c.mu.Unlock()
		return topic.Topic{}, duplicateError(t.Name)
	}
	c.topics[t.Name] = t
	c.mu.Unlock()

	created := event.NewTopicCreated(t)

	if _, err := c.pub.Publish(ctx, event.ConfigurationTopic, created); err != nil {
		c.logger.Error("Topic registered but lifecycle event not persisted",
			slog.String("topic", t.Name),
			slog.String("error", err.Error()))
		return topic.Topic{}, &Error{
			Type:    ErrorStorage,
			Topic:   t.Name,
			Message: "persisting topic-created event failed",
			Cause:   err,
		}
	}

	c.notify(ctx, created)

	return t, nil
}

// notify announces the creation on the in-process bus, if one is attached.
func (c *Catalog) notify(ctx context.Context, created event.TopicCreated) {
	if c.notifier == nil {
		return
	}
	if err := pubsub.Publish(ctx, c.notifier, event.TopicCreatedNotification, created); err != nil {
		c.logger.Warn("Topic-created notification dropped",
			slog.String("topic", created.TopicName),
			slog.String("error", err.Error()))
	}
}

// GetTopic returns the registered topic or a not-found error. The lookup is
// case-sensitive against the registered name, independent of the lowercased
// storage container behind it.
func (c *Catalog) GetTopic(name string) (topic.Topic, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	t, exists := c.topics[name]
	if !exists {
		return topic.Topic{}, notFoundError(name)
	}
	return t, nil
}

// TryGetTopic is the non-failing lookup variant.
func (c *Catalog) TryGetTopic(name string) (topic.Topic, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	t, exists := c.topics[name]
	return t, exists
}

// TopicExists reports whether a topic is registered under exactly this name.
func (c *Catalog) TopicExists(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, exists := c.topics[name]
	return exists
}

// Topics returns a snapshot of all registered topics.
func (c *Catalog) Topics() []topic.Topic {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]topic.Topic, 0, len(c.topics))
	for _, t := range c.topics {
		out = append(out, t)
	}
	return out
}

// Len returns the number of registered topics.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.topics)
}

// Rehydrate rebuilds the directory by replaying the configuration topic,
// treating the durable log as ground truth. It is opt-in: a catalog that is
// never rehydrated starts empty on every process start. Records already
// registered win over replayed ones, so rehydrating a live catalog is safe.
func (c *Catalog) Rehydrate(ctx context.Context, r *reader.Reader) error {
	restored := 0
	err := reader.ReadAs(ctx, r, event.ConfigurationTopic, func(_ context.Context, created event.TopicCreated) error {
		if created.TopicName == "" {
			// Valid JSON without a topicName is not a lifecycle record.
			return nil
		}
		t := topic.Topic{
			Name:         created.TopicName,
			Description:  created.Description,
			Version:      created.Version,
			CreatedAt:    created.CreatedAt,
			EventSchemas: created.EventSchemas,
		}

		c.mu.Lock()
		if _, exists := c.topics[t.Name]; !exists {
			c.topics[t.Name] = t
			restored++
		}
		c.mu.Unlock()
		return nil
	})
	if err != nil {
		return err
	}

	c.logger.Info("Catalog rehydrated from configuration topic",
		slog.Int("restored", restored))
	return nil
}
