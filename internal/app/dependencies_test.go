package app

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nfrund/topicstore/internal/catalog"
	"github.com/nfrund/topicstore/internal/config"
	"github.com/nfrund/topicstore/internal/topic"
)

func newTestConfig(root string) *config.Config {
	return &config.Config{StorageRoot: root}
}

func TestNew_InMemoryWiring(t *testing.T) {
	ctx := context.Background()
	deps, err := New(ctx, newTestConfig(""))
	require.NoError(t, err)
	defer deps.Close()

	schemas := []topic.EventSchema{{EventType: "Deposit", Schema: json.RawMessage(`{}`)}}

	created, err := deps.Catalog.CreateTopic(ctx, "payments", "payment events", schemas)
	require.NoError(t, err)
	assert.Equal(t, 1, created.Version)

	_, err = deps.Publisher.Publish(ctx, "payments", map[string]any{"amount": float64(3)})
	require.NoError(t, err)

	events, err := deps.Reader.ReadAll(ctx, "payments")
	require.NoError(t, err)
	assert.Len(t, events, 1)

	// Catalog key is case-sensitive; the container behind it is lowercased.
	assert.True(t, deps.Catalog.TopicExists("payments"))
	assert.False(t, deps.Catalog.TopicExists("Payments"))
}

func TestNew_DurableRootSurvivesRewiring(t *testing.T) {
	ctx := context.Background()
	root := filepath.Join(t.TempDir(), "store")

	deps, err := New(ctx, newTestConfig(root))
	require.NoError(t, err)

	schemas := []topic.EventSchema{{EventType: "Deposit", Schema: json.RawMessage(`{}`)}}
	_, err = deps.Catalog.CreateTopic(ctx, "payments", "desc", schemas)
	require.NoError(t, err)
	deps.Close()

	// A second composition over the same root starts with an empty
	// directory; rehydration replays the configuration topic.
	reopened, err := New(ctx, newTestConfig(root))
	require.NoError(t, err)
	defer reopened.Close()

	assert.Equal(t, 0, reopened.Catalog.Len())
	require.NoError(t, reopened.Catalog.Rehydrate(ctx, reopened.Reader))
	assert.Equal(t, 1, reopened.Catalog.Len())

	_, err = reopened.Catalog.GetTopic("payments")
	require.NoError(t, err)

	// And a recreate of the same name now reports a duplicate.
	_, err = reopened.Catalog.CreateTopic(ctx, "payments", "desc", schemas)
	assert.True(t, catalog.IsDuplicate(err))
}
