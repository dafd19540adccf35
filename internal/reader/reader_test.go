package reader

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nfrund/topicstore/internal/publisher"
	"github.com/nfrund/topicstore/internal/storage"
)

// recordingHandler captures warn-level log records so tests can assert on
// the skip policy without scraping output.
type recordingHandler struct {
	mu      sync.Mutex
	records []slog.Record
}

func (h *recordingHandler) Enabled(context.Context, slog.Level) bool { return true }
func (h *recordingHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, r)
	return nil
}
func (h *recordingHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *recordingHandler) WithGroup(string) slog.Handler      { return h }

func (h *recordingHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.records)
}

func newFixture(t *testing.T) (*storage.AferoStore, *publisher.Publisher, *Reader, *recordingHandler) {
	t.Helper()
	store := storage.NewAferoStore(afero.NewMemMapFs())
	logs := &recordingHandler{}
	pub := publisher.New(store)
	rd := New(store, WithLogger(slog.New(logs)))
	return store, pub, rd, logs
}

func TestRead_NeverPublishedTopic(t *testing.T) {
	_, _, rd, _ := newFixture(t)

	events, err := rd.ReadAll(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestPublishThenRead_RoundTrip(t *testing.T) {
	_, pub, rd, _ := newFixture(t)
	ctx := context.Background()

	original := map[string]any{
		"account": "acc-1",
		"amount":  42.5,
		"settled": true,
	}
	_, err := pub.Publish(ctx, "payments", original)
	require.NoError(t, err)

	events, err := rd.ReadAll(ctx, "payments")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, original, events[0])
}

func TestRead_SkipsCorruptObjects(t *testing.T) {
	store, pub, rd, logs := newFixture(t)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		_, err := pub.Publish(ctx, "payments", map[string]any{"seq": float64(i)})
		require.NoError(t, err)
	}
	// One corrupted object planted among the well-formed ones.
	_, err := store.Put(ctx, "payments", "2020/01/01/00/00/corrupt.json", strings.NewReader(`{"seq": not-json`))
	require.NoError(t, err)

	events, err := rd.ReadAll(ctx, "payments")
	require.NoError(t, err)
	assert.Len(t, events, 4)

	seen := make(map[float64]bool)
	for _, evt := range events {
		seen[evt["seq"].(float64)] = true
	}
	assert.Len(t, seen, 4)

	assert.Equal(t, 1, logs.count(), "exactly one skip should be logged")
}

func TestRead_HandlerErrorStopsReplay(t *testing.T) {
	_, pub, rd, _ := newFixture(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := pub.Publish(ctx, "payments", map[string]any{"seq": float64(i)})
		require.NoError(t, err)
	}

	delivered := 0
	wantErr := assert.AnError
	err := rd.Read(ctx, "payments", func(context.Context, map[string]any) error {
		delivered++
		return wantErr
	})
	assert.ErrorIs(t, err, wantErr)
	assert.Equal(t, 1, delivered)
}

func TestRead_CancellationStopsBetweenItems(t *testing.T) {
	_, pub, rd, _ := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())

	for i := 0; i < 3; i++ {
		_, err := pub.Publish(ctx, "payments", map[string]any{"seq": float64(i)})
		require.NoError(t, err)
	}

	delivered := 0
	err := rd.Read(ctx, "payments", func(context.Context, map[string]any) error {
		delivered++
		cancel()
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, delivered, "cancellation applies between items, after the delivered prefix")
}

func TestReadAs_TypedReplay(t *testing.T) {
	type deposit struct {
		Account string  `json:"account"`
		Amount  float64 `json:"amount"`
	}

	store, pub, rd, logs := newFixture(t)
	ctx := context.Background()

	_, err := pub.Publish(ctx, "payments", deposit{Account: "acc-1", Amount: 10})
	require.NoError(t, err)
	// Valid JSON with none of deposit's fields decodes to the zero value.
	_, err = pub.Publish(ctx, "payments", map[string]any{"unrelated": true})
	require.NoError(t, err)
	// Invalid JSON is skipped.
	_, err = store.Put(ctx, "payments", "2020/01/01/00/00/corrupt.json", strings.NewReader("{"))
	require.NoError(t, err)

	events, err := ReadAllAs[deposit](ctx, rd, "payments")
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Contains(t, events, deposit{Account: "acc-1", Amount: 10})
	assert.Contains(t, events, deposit{})

	assert.Equal(t, 1, logs.count())
}

func TestRead_ContainerNameIsLowercased(t *testing.T) {
	_, pub, rd, _ := newFixture(t)
	ctx := context.Background()

	_, err := pub.Publish(ctx, "Payments", map[string]any{"x": float64(1)})
	require.NoError(t, err)

	// Reads with any casing hit the same lowercased container.
	events, err := rd.ReadAll(ctx, "PAYMENTS")
	require.NoError(t, err)
	assert.Len(t, events, 1)
}
