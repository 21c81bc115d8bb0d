package vector

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/gonotes-mcp/internal/embedder"
	"github.com/dshills/gonotes-mcp/internal/notes"
)

func newTestIndex(t *testing.T) (*SQLiteIndex, *notes.Store) {
	t.Helper()

	cache := embedder.NewCache(100)
	emb, err := embedder.NewLocalProvider(cache)
	require.NoError(t, err)

	store, err := notes.New(t.TempDir(), nil)
	require.NoError(t, err)

	ix, err := NewSQLiteIndex(filepath.Join(t.TempDir(), "index.db"), emb, store, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ix.Close() })

	return ix, store
}

func TestNoteID(t *testing.T) {
	assert.Equal(t, "my project/my note", NoteID("my project", "my note"))
}

func TestAddOrUpdateAndSearch(t *testing.T) {
	ix, _ := newTestIndex(t)
	ctx := context.Background()

	require.NoError(t, ix.AddOrUpdate(ctx, "infra", "docker", "container networking basics", nil))
	require.NoError(t, ix.AddOrUpdate(ctx, "infra", "k8s", "pod scheduling and affinity", nil))
	require.NoError(t, ix.AddOrUpdate(ctx, "recipes", "bread", "sourdough starter maintenance", nil))

	// Querying with a stored note's exact content embeds to the same
	// vector, so that note must rank first at distance zero.
	results, err := ix.Search(ctx, "container networking basics", "", 10)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "infra/docker", results[0].ID)
	assert.InDelta(t, 0.0, results[0].Distance, 1e-6)
	assert.Equal(t, "infra", results[0].Metadata["project"])
	assert.Equal(t, "docker", results[0].Metadata["title"])

	// Distances are ascending.
	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i].Distance, results[i-1].Distance)
	}
}

func TestSearchProjectFilter(t *testing.T) {
	ix, _ := newTestIndex(t)
	ctx := context.Background()

	require.NoError(t, ix.AddOrUpdate(ctx, "infra", "docker", "container networking basics", nil))
	require.NoError(t, ix.AddOrUpdate(ctx, "recipes", "bread", "sourdough starter maintenance", nil))

	results, err := ix.Search(ctx, "container networking basics", "recipes", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "recipes/bread", results[0].ID)
}

func TestSearchLimit(t *testing.T) {
	ix, _ := newTestIndex(t)
	ctx := context.Background()

	require.NoError(t, ix.AddOrUpdate(ctx, "p", "a", "alpha", nil))
	require.NoError(t, ix.AddOrUpdate(ctx, "p", "b", "bravo", nil))
	require.NoError(t, ix.AddOrUpdate(ctx, "p", "c", "charlie", nil))

	results, err := ix.Search(ctx, "alpha", "", 2)
	require.NoError(t, err)
	assert.Len(t, results, 2)

	results, err = ix.Search(ctx, "alpha", "", 0)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestUpdateReplacesEmbedding(t *testing.T) {
	ix, _ := newTestIndex(t)
	ctx := context.Background()

	require.NoError(t, ix.AddOrUpdate(ctx, "p", "note", "first revision text", nil))
	require.NoError(t, ix.AddOrUpdate(ctx, "p", "note", "second revision text", nil))

	results, err := ix.Search(ctx, "second revision text", "", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "second revision text", results[0].Content)
	assert.InDelta(t, 0.0, results[0].Distance, 1e-6)
}

func TestDeleteIsIdempotent(t *testing.T) {
	ix, _ := newTestIndex(t)
	ctx := context.Background()

	require.NoError(t, ix.AddOrUpdate(ctx, "p", "note", "some text", nil))
	require.NoError(t, ix.Delete(ctx, "p", "note"))

	results, err := ix.Search(ctx, "some text", "", 10)
	require.NoError(t, err)
	assert.Empty(t, results)

	// Deleting again, and deleting a key that never existed, succeed.
	require.NoError(t, ix.Delete(ctx, "p", "note"))
	require.NoError(t, ix.Delete(ctx, "never", "existed"))
}

func TestRebuildAll(t *testing.T) {
	ix, store := newTestIndex(t)
	ctx := context.Background()

	_, _, err := store.Store(ctx, "infra", "docker", "stale draft")
	require.NoError(t, err)
	_, _, err = store.Store(ctx, "infra", "docker", "container networking basics")
	require.NoError(t, err)
	_, _, err = store.Store(ctx, "recipes", "bread", "sourdough starter maintenance")
	require.NoError(t, err)

	// Seed a row that no longer corresponds to a stored note.
	require.NoError(t, ix.AddOrUpdate(ctx, "gone", "orphan", "orphaned entry", nil))

	count, err := ix.RebuildAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	// The orphan is gone and only latest versions remain.
	results, err := ix.Search(ctx, "orphaned entry", "", 10)
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, r := range results {
		assert.NotEqual(t, "gone/orphan", r.ID)
		assert.NotEqual(t, "stale draft", r.Content)
	}

	results, err = ix.Search(ctx, "container networking basics", "infra", 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "container networking basics", results[0].Content)
}

func TestNoopIndex(t *testing.T) {
	n := NewNoop()
	ctx := context.Background()

	assert.NoError(t, n.AddOrUpdate(ctx, "p", "t", "content", nil))
	assert.NoError(t, n.Delete(ctx, "p", "t"))

	results, err := n.Search(ctx, "anything", "", 10)
	assert.NoError(t, err)
	assert.Empty(t, results)

	count, err := n.RebuildAll(ctx)
	assert.NoError(t, err)
	assert.Zero(t, count)
	assert.NoError(t, n.Close())
}

func TestVectorCodecRoundtrip(t *testing.T) {
	vec := []float32{0.5, -1.25, 3.0, 0.0}
	assert.Equal(t, vec, deserializeVector(serializeVector(vec)))
}

func TestCosineDistance(t *testing.T) {
	assert.InDelta(t, 0.0, cosineDistance([]float32{1, 0}, []float32{2, 0}), 1e-9)
	assert.InDelta(t, 1.0, cosineDistance([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.InDelta(t, 2.0, cosineDistance([]float32{1, 0}, []float32{-1, 0}), 1e-9)
	assert.InDelta(t, 1.0, cosineDistance([]float32{0, 0}, []float32{1, 1}), 1e-9)
}
