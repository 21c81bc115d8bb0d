package searcher

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/gonotes-mcp/internal/notes"
)

func newTestIndex(t *testing.T) (*notes.Store, *Index) {
	t.Helper()
	store, err := notes.New(t.TempDir(), nil)
	require.NoError(t, err)
	return store, New(store, nil)
}

func mustStore(t *testing.T, s *notes.Store, project, title, content string) {
	t.Helper()
	_, _, err := s.Store(context.Background(), project, title, content)
	require.NoError(t, err)
}

func TestSearchBeforeRebuild(t *testing.T) {
	_, ix := newTestIndex(t)
	assert.Nil(t, ix.Search("anything", "", 0))
	assert.Equal(t, 0, ix.Count())
}

func TestRebuildIndexesLatestVersionOnly(t *testing.T) {
	store, ix := newTestIndex(t)
	ctx := context.Background()

	mustStore(t, store, "Python", "Async", "superseded draft: legacy draft")
	mustStore(t, store, "Python", "Async", "new content about event loops")
	mustStore(t, store, "Python", "Decorators", "wrapping functions")

	count, err := ix.Rebuild(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, 2, ix.Count())

	results := ix.Search("event loops", "", 0)
	require.Len(t, results, 1)
	assert.Equal(t, "Async", results[0].Title)
	assert.Equal(t, "new content about event loops", results[0].Content)

	// The superseded version is not searchable.
	assert.Empty(t, ix.Search("legacy draft", "", 80))
}

func TestRebuildReflectsDeletes(t *testing.T) {
	store, ix := newTestIndex(t)
	ctx := context.Background()

	mustStore(t, store, "Testing", "Fixtures", "pytest fixtures cheat sheet")
	mustStore(t, store, "Testing", "Mocks", "mocking with monkeypatch")

	_, err := ix.Rebuild(ctx)
	require.NoError(t, err)
	require.Len(t, ix.Search("pytest fixtures", "", 0), 1)

	_, err = store.Delete(ctx, "Testing", "Fixtures", "")
	require.NoError(t, err)

	count, err := ix.Rebuild(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Empty(t, ix.Search("pytest fixtures", "", 0))
}

func TestSearchExactSubstringScoresHundred(t *testing.T) {
	store, ix := newTestIndex(t)

	mustStore(t, store, "Infra", "Docker", "How to write a docker compose file for local dev.")
	_, err := ix.Rebuild(context.Background())
	require.NoError(t, err)

	results := ix.Search("docker compose", "", 0)
	require.Len(t, results, 1)
	assert.Equal(t, 100, results[0].Score)
}

func TestSearchCaseInsensitive(t *testing.T) {
	store, ix := newTestIndex(t)

	mustStore(t, store, "Infra", "Containers", "Docker images and registries.")
	_, err := ix.Rebuild(context.Background())
	require.NoError(t, err)

	lower := ix.Search("docker", "", 0)
	upper := ix.Search("DOCKER", "", 0)
	mixed := ix.Search("Docker", "", 0)

	require.Len(t, lower, 1)
	require.Len(t, upper, 1)
	require.Len(t, mixed, 1)
	assert.Equal(t, lower[0].Score, upper[0].Score)
	assert.Equal(t, lower[0].Score, mixed[0].Score)
	assert.Equal(t, lower[0].Title, upper[0].Title)
}

func TestSearchThresholdBoundary(t *testing.T) {
	store, ix := newTestIndex(t)

	// PartialRatio("abcd", "abxd") = 2*3/8 = 75: three of four runes
	// align. The title is chosen to score zero so only content counts.
	mustStore(t, store, "Boundary", "zzzz", "abxd")
	_, err := ix.Rebuild(context.Background())
	require.NoError(t, err)

	atThreshold := ix.Search("abcd", "", 75)
	require.Len(t, atThreshold, 1)
	assert.Equal(t, 75, atThreshold[0].Score)

	aboveThreshold := ix.Search("abcd", "", 76)
	assert.Empty(t, aboveThreshold)
}

func TestSearchProjectFilter(t *testing.T) {
	store, ix := newTestIndex(t)

	mustStore(t, store, "Python", "Testing", "pytest parametrize tricks")
	mustStore(t, store, "Go", "Testing", "table driven tests with testify")
	_, err := ix.Rebuild(context.Background())
	require.NoError(t, err)

	all := ix.Search("testing", "", 0)
	assert.Len(t, all, 2)

	scoped := ix.Search("testing", "Go", 0)
	require.Len(t, scoped, 1)
	assert.Equal(t, "Go", scoped[0].Project)

	none := ix.Search("testing", "Rust", 0)
	assert.Empty(t, none)
}

func TestSearchIdenticalContentBothMatch(t *testing.T) {
	store, ix := newTestIndex(t)

	shared := "Shared runbook: restart the ingest worker."
	mustStore(t, store, "Testing", "Runbook A", shared)
	mustStore(t, store, "Testing", "Runbook B", shared)
	mustStore(t, store, "Testing", "Unrelated", "completely different text")
	_, err := ix.Rebuild(context.Background())
	require.NoError(t, err)

	results := ix.Search("restart the ingest worker", "", 0)
	require.Len(t, results, 2)
	assert.Equal(t, 100, results[0].Score)
	assert.Equal(t, 100, results[1].Score)

	// Delete one; the other stays searchable after rebuild.
	_, err = store.Delete(context.Background(), "Testing", "Runbook A", "")
	require.NoError(t, err)
	_, err = ix.Rebuild(context.Background())
	require.NoError(t, err)

	results = ix.Search("restart the ingest worker", "", 0)
	require.Len(t, results, 1)
	assert.Equal(t, "Runbook B", results[0].Title)
}

func TestSearchOrderedByScore(t *testing.T) {
	store, ix := newTestIndex(t)

	mustStore(t, store, "Mix", "Exact", "kubernetes operators explained")
	mustStore(t, store, "Mix", "Close", "kubernets operator notes") // misspelled
	_, err := ix.Rebuild(context.Background())
	require.NoError(t, err)

	results := ix.Search("kubernetes operators", "", 0)
	require.GreaterOrEqual(t, len(results), 2)
	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].Score, results[i].Score)
	}
	assert.Equal(t, "Exact", results[0].Title)
}

func TestExcerptWindow(t *testing.T) {
	padding := strings.Repeat("x", 200)
	content := padding + " NEEDLE " + padding

	excerpt := makeExcerpt(content, "needle")
	assert.True(t, strings.HasPrefix(excerpt, "..."))
	assert.True(t, strings.HasSuffix(excerpt, "..."))
	assert.Contains(t, excerpt, "NEEDLE")
	// 150 context + marker + match + context 150, plus two ellipses.
	assert.LessOrEqual(t, len(excerpt), 150+len(" NEEDLE ")+150+6)
}

func TestExcerptAtStart(t *testing.T) {
	content := "NEEDLE then a short tail"
	excerpt := makeExcerpt(content, "needle")
	assert.Equal(t, content, excerpt)
}

func TestExcerptFallback(t *testing.T) {
	long := strings.Repeat("abcdefghij", 40) // 400 chars, no match
	excerpt := makeExcerpt(long, "zzz-not-present")
	assert.Equal(t, long[:300]+"...", excerpt)

	short := "tiny content"
	assert.Equal(t, short, makeExcerpt(short, "zzz-not-present"))
}
