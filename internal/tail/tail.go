// Package tail provides a best-effort live view of a topic backed by the
// local filesystem: newly written event objects are decoded and delivered as
// they appear. It is not a consumer-offset mechanism: nothing is tracked
// across restarts and delivery is at-most-once.
package tail

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/nfrund/topicstore/internal/reader"
)

// Tailer watches a topic's container directory under an OS-backed storage
// root and streams newly created event objects through a handler.
type Tailer struct {
	root   string
	logger *slog.Logger
}

// Option configures a Tailer.
type Option func(*Tailer)

// WithLogger sets the tailer's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Tailer) { t.logger = logger }
}

// New creates a Tailer over the given storage root directory.
func New(root string, opts ...Option) *Tailer {
	t := &Tailer{
		root:   root,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Tail starts following the topic and returns once the watch is
// established. Events are delivered on a background goroutine until the
// context is cancelled. Objects that cannot be read are logged and dropped;
// objects that do not decode yet are retried on their next write and
// otherwise never delivered.
func (t *Tailer) Tail(ctx context.Context, topicName string, h reader.Handler) error {
	container := filepath.Join(t.root, strings.ToLower(topicName))
	if err := os.MkdirAll(container, 0o755); err != nil {
		return fmt.Errorf("tail: preparing container directory: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("tail: creating file system watcher: %w", err)
	}

	// Watch the container and every directory below it. New minute
	// directories appear over time and are added as they are created.
	err = filepath.Walk(container, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if err := watcher.Add(path); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		watcher.Close()
		return fmt.Errorf("tail: watching container directories: %w", err)
	}

	go t.watch(ctx, watcher, container, h)

	t.logger.Debug("Started following topic", slog.String("container", container))
	return nil
}

// watch is the event loop. A Create on a directory extends the watch; a
// Create or Write on a .json file attempts delivery. Write events cover
// objects that were only partially visible when their Create fired.
func (t *Tailer) watch(ctx context.Context, watcher *fsnotify.Watcher, container string, h reader.Handler) {
	defer watcher.Close()

	var mu sync.Mutex
	delivered := make(map[string]bool)

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-watcher.Events:
			if !ok {
				return
			}
			t.handleEvent(ctx, watcher, container, ev, h, &mu, delivered)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			t.logger.Warn("File system watcher error", slog.String("error", err.Error()))
		}
	}
}

func (t *Tailer) handleEvent(ctx context.Context, watcher *fsnotify.Watcher, container string, ev fsnotify.Event, h reader.Handler, mu *sync.Mutex, delivered map[string]bool) {
	isCreate := ev.Op&fsnotify.Create == fsnotify.Create
	isWrite := ev.Op&fsnotify.Write == fsnotify.Write
	if !isCreate && !isWrite {
		return
	}

	if isCreate {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			// MkdirAll creates whole minute-prefix chains at once, and an
			// object can land before the watch reaches the leaf directory.
			// Walk the new subtree: watch every directory and deliver any
			// objects that slipped in ahead of the watch.
			err := filepath.Walk(ev.Name, func(path string, info os.FileInfo, err error) error {
				if err != nil {
					return err
				}
				if info.IsDir() {
					return watcher.Add(path)
				}
				t.deliver(ctx, container, path, h, mu, delivered)
				return nil
			})
			if err != nil {
				t.logger.Warn("Failed to extend watch to new directory",
					slog.String("path", ev.Name), slog.String("error", err.Error()))
			}
			return
		}
	}

	t.deliver(ctx, container, ev.Name, h, mu, delivered)
}

// deliver reads one object and hands it to the handler, at most once per
// key. An object that does not decode yet is left pending: a later Write
// event retries it.
func (t *Tailer) deliver(ctx context.Context, container, name string, h reader.Handler, mu *sync.Mutex, delivered map[string]bool) {
	if filepath.Ext(name) != ".json" {
		return
	}

	key, err := filepath.Rel(container, name)
	if err != nil {
		return
	}
	key = filepath.ToSlash(key)

	mu.Lock()
	if delivered[key] {
		mu.Unlock()
		return
	}
	mu.Unlock()

	raw, err := os.ReadFile(name)
	if err != nil {
		t.logger.Warn("Skipping unreadable event",
			slog.String("container", container),
			slog.String("key", key),
			slog.String("error", err.Error()))
		return
	}

	var evt map[string]any
	if err := json.Unmarshal(raw, &evt); err != nil {
		// Possibly still being written; a later Write event retries.
		return
	}

	mu.Lock()
	if delivered[key] {
		mu.Unlock()
		return
	}
	delivered[key] = true
	mu.Unlock()

	if err := h(ctx, evt); err != nil {
		t.logger.Error("Tail handler failed",
			slog.String("key", key),
			slog.String("error", err.Error()))
	}
}
