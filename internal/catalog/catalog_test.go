package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nfrund/topicstore/internal/event"
	"github.com/nfrund/topicstore/internal/publisher"
	"github.com/nfrund/topicstore/internal/pubsub"
	"github.com/nfrund/topicstore/internal/reader"
	"github.com/nfrund/topicstore/internal/storage"
	"github.com/nfrund/topicstore/internal/topic"
)

func depositSchemas() []topic.EventSchema {
	return []topic.EventSchema{
		{EventType: "Deposit", Schema: json.RawMessage(`{}`)},
	}
}

func newFixture(t *testing.T) (*storage.AferoStore, *reader.Reader, *Catalog) {
	t.Helper()
	store := storage.NewAferoStore(afero.NewMemMapFs())
	rd := reader.New(store)
	cat := New(publisher.New(store))
	return store, rd, cat
}

// failingPublisher simulates a storage outage on the lifecycle publish.
type failingPublisher struct {
	err error
}

func (f *failingPublisher) Publish(context.Context, string, any) (string, error) {
	return "", f.err
}

func TestCreateTopic(t *testing.T) {
	_, rd, cat := newFixture(t)
	ctx := context.Background()

	created, err := cat.CreateTopic(ctx, "payments", "payment events", depositSchemas())
	require.NoError(t, err)
	assert.Equal(t, "payments", created.Name)
	assert.Equal(t, 1, created.Version)

	// The creation fact is durable in the reserved configuration topic.
	records, err := reader.ReadAllAs[event.TopicCreated](ctx, rd, event.ConfigurationTopic)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "payments", records[0].TopicName)
	assert.Equal(t, "payment events", records[0].Description)
	assert.Equal(t, 1, records[0].Version)
}

func TestCreateTopic_ValidationFailure(t *testing.T) {
	_, rd, cat := newFixture(t)
	ctx := context.Background()

	_, err := cat.CreateTopic(ctx, "", "desc", depositSchemas())
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	var vErr *topic.ValidationError
	assert.True(t, errors.As(err, &vErr), "the underlying ValidationError is preserved")

	// Nothing was registered and nothing was published.
	assert.Equal(t, 0, cat.Len())
	records, err := rd.ReadAll(ctx, event.ConfigurationTopic)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestCreateTopic_Duplicate(t *testing.T) {
	_, rd, cat := newFixture(t)
	ctx := context.Background()

	_, err := cat.CreateTopic(ctx, "payments", "desc", depositSchemas())
	require.NoError(t, err)

	_, err = cat.CreateTopic(ctx, "payments", "other desc", depositSchemas())
	require.Error(t, err)
	assert.True(t, IsDuplicate(err))

	// Directory still holds exactly one entry, and only one lifecycle
	// record was ever published.
	assert.Equal(t, 1, cat.Len())
	records, err := rd.ReadAll(ctx, event.ConfigurationTopic)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestCreateTopic_ConcurrentSameName(t *testing.T) {
	_, _, cat := newFixture(t)
	ctx := context.Background()

	const n = 32
	var wg sync.WaitGroup
	errs := make([]error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = cat.CreateTopic(ctx, "payments", "desc", depositSchemas())
		}(i)
	}
	wg.Wait()

	winners, duplicates := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			winners++
		case IsDuplicate(err):
			duplicates++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, winners)
	assert.Equal(t, n-1, duplicates)
	assert.Equal(t, 1, cat.Len())
}

func TestCreateTopic_PublishFailureLeavesEntryRegistered(t *testing.T) {
	cat := New(&failingPublisher{err: errors.New("storage down")})
	ctx := context.Background()

	_, err := cat.CreateTopic(ctx, "payments", "desc", depositSchemas())
	require.Error(t, err)
	assert.True(t, IsStorage(err))

	// The documented inconsistency window: the directory reflects the topic
	// even though the durable log does not.
	assert.True(t, cat.TopicExists("payments"))

	// A retry consequently reports a duplicate.
	_, err = cat.CreateTopic(ctx, "payments", "desc", depositSchemas())
	assert.True(t, IsDuplicate(err))
}

func TestLookups_AreCaseSensitive(t *testing.T) {
	store, _, cat := newFixture(t)
	ctx := context.Background()

	_, err := cat.CreateTopic(ctx, "payments", "desc", depositSchemas())
	require.NoError(t, err)

	assert.True(t, cat.TopicExists("payments"))
	assert.False(t, cat.TopicExists("Payments"))

	_, found := cat.TryGetTopic("Payments")
	assert.False(t, found)

	_, err = cat.GetTopic("Payments")
	assert.True(t, IsNotFound(err))

	// The backing container is lowercased regardless of the directory key.
	exists, err := store.ContainerExists(ctx, "payments")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestLookups_MixedCaseName(t *testing.T) {
	store, _, cat := newFixture(t)
	ctx := context.Background()

	_, err := cat.CreateTopic(ctx, "Payments", "desc", depositSchemas())
	require.NoError(t, err)

	// Directory key keeps the creation casing; storage lowercases.
	assert.True(t, cat.TopicExists("Payments"))
	assert.False(t, cat.TopicExists("payments"))

	exists, err := store.ContainerExists(ctx, "payments")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestGetTopic(t *testing.T) {
	_, _, cat := newFixture(t)
	ctx := context.Background()

	want, err := cat.CreateTopic(ctx, "payments", "desc", depositSchemas())
	require.NoError(t, err)

	got, err := cat.GetTopic("payments")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = cat.GetTopic("orders")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestTopics_Snapshot(t *testing.T) {
	_, _, cat := newFixture(t)
	ctx := context.Background()

	for _, name := range []string{"payments", "orders", "shipments"} {
		_, err := cat.CreateTopic(ctx, name, "desc", depositSchemas())
		require.NoError(t, err)
	}

	topics := cat.Topics()
	assert.Len(t, topics, 3)

	names := make(map[string]bool)
	for _, tp := range topics {
		names[tp.Name] = true
	}
	assert.True(t, names["payments"] && names["orders"] && names["shipments"])
}

func TestNotifier_ReceivesTopicCreated(t *testing.T) {
	store := storage.NewAferoStore(afero.NewMemMapFs())
	bridge := pubsub.NewWatermillBridge()
	defer bridge.Close()

	cat := New(publisher.New(store), WithNotifier(bridge))
	ctx := context.Background()

	received := make(chan event.TopicCreated, 1)
	err := pubsub.Subscribe(ctx, bridge, event.TopicCreatedNotification,
		func(_ context.Context, created event.TopicCreated) error {
			received <- created
			return nil
		})
	require.NoError(t, err)

	_, err = cat.CreateTopic(ctx, "payments", "desc", depositSchemas())
	require.NoError(t, err)

	select {
	case created := <-received:
		assert.Equal(t, "payments", created.TopicName)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for topic-created notification")
	}
}

func TestRehydrate(t *testing.T) {
	store, rd, cat := newFixture(t)
	ctx := context.Background()

	for _, name := range []string{"payments", "orders"} {
		_, err := cat.CreateTopic(ctx, name, "desc", depositSchemas())
		require.NoError(t, err)
	}

	// A fresh catalog over the same store starts empty; replaying the
	// configuration topic restores the directory.
	fresh := New(publisher.New(store))
	assert.Equal(t, 0, fresh.Len())

	require.NoError(t, fresh.Rehydrate(ctx, rd))
	assert.Equal(t, 2, fresh.Len())

	restored, err := fresh.GetTopic("payments")
	require.NoError(t, err)
	assert.Equal(t, 1, restored.Version)
	assert.Equal(t, "desc", restored.Description)
}

func TestRehydrate_LiveEntriesWin(t *testing.T) {
	store, rd, cat := newFixture(t)
	ctx := context.Background()

	_, err := cat.CreateTopic(ctx, "payments", "original", depositSchemas())
	require.NoError(t, err)

	fresh := New(publisher.New(store))
	_, err = fresh.CreateTopic(ctx, "payments", "recreated", depositSchemas())
	require.NoError(t, err)

	require.NoError(t, fresh.Rehydrate(ctx, rd))

	got, err := fresh.GetTopic("payments")
	require.NoError(t, err)
	assert.Equal(t, "recreated", got.Description)
}
