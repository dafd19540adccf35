// Package app is the composition root: it owns construction of the storage
// client, data-plane services and the topic catalog, and hands them to
// callers as one wired bundle.
package app

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/afero"

	"github.com/nfrund/topicstore/internal/catalog"
	"github.com/nfrund/topicstore/internal/config"
	"github.com/nfrund/topicstore/internal/logging"
	"github.com/nfrund/topicstore/internal/publisher"
	"github.com/nfrund/topicstore/internal/pubsub"
	"github.com/nfrund/topicstore/internal/reader"
	"github.com/nfrund/topicstore/internal/storage"
)

// Dependencies holds the core services required by consumers of the topic
// store. The catalog directory lives here as an explicit object; there is no
// package-level registry anywhere.
type Dependencies struct {
	Store     storage.Store
	Publisher *publisher.Publisher
	Reader    *reader.Reader
	Catalog   *catalog.Catalog
	Bus       *pubsub.WatermillBridge

	cleanup func()
}

// New wires the full dependency graph from configuration. StorageRoot
// selects a durable local store; when empty everything lives in memory,
// which is what the tests and ephemeral usage want.
func New(ctx context.Context, cfg *config.Config) (*Dependencies, error) {
	var fs afero.Fs
	if cfg.StorageRoot != "" {
		if err := os.MkdirAll(cfg.StorageRoot, 0o755); err != nil {
			return nil, fmt.Errorf("preparing storage root %q: %w", cfg.StorageRoot, err)
		}
		fs = afero.NewBasePathFs(afero.NewOsFs(), cfg.StorageRoot)
	} else {
		fs = afero.NewMemMapFs()
	}
	store := storage.NewAferoStore(fs)

	tracingCfg := pubsub.DefaultTracingConfig()
	tracingCfg.Enabled = cfg.TracingEnabled
	tracingCfg.ZipkinURL = cfg.ZipkinURL
	tracer, stopTracing, err := pubsub.SetupTracing(ctx, tracingCfg)
	if err != nil {
		return nil, fmt.Errorf("setting up tracing: %w", err)
	}

	pub := publisher.New(store,
		publisher.WithLogger(logging.Component("publisher")),
		publisher.WithTracer(tracer),
	)
	rd := reader.New(store,
		reader.WithLogger(logging.Component("reader")),
		reader.WithTracer(tracer),
	)

	bus := pubsub.NewWatermillBridge()

	cat := catalog.New(pub,
		catalog.WithLogger(logging.Component("catalog")),
		catalog.WithNotifier(bus),
	)

	return &Dependencies{
		Store:     store,
		Publisher: pub,
		Reader:    rd,
		Catalog:   cat,
		Bus:       bus,
		cleanup: func() {
			_ = bus.Close()
			stopTracing()
		},
	}, nil
}

// Close releases the bus and flushes any pending trace spans.
func (d *Dependencies) Close() {
	if d.cleanup != nil {
		d.cleanup()
	}
}
