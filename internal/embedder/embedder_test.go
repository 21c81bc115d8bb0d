package embedder

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheRoundTrip(t *testing.T) {
	cache := NewCache(10)

	hash := ComputeHash("some note content")
	_, ok := cache.Get(hash)
	assert.False(t, ok)

	cache.Set(hash, []float32{0.1, 0.2, 0.3})
	vec, ok := cache.Get(hash)
	require.True(t, ok)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, vec)
	assert.Equal(t, 1, cache.Len())
}

func TestCacheReturnsCopy(t *testing.T) {
	cache := NewCache(10)
	hash := ComputeHash("text")
	cache.Set(hash, []float32{1, 2, 3})

	vec, ok := cache.Get(hash)
	require.True(t, ok)
	vec[0] = 99

	fresh, ok := cache.Get(hash)
	require.True(t, ok)
	assert.Equal(t, float32(1), fresh[0])
}

func TestCacheEviction(t *testing.T) {
	cache := NewCache(2)
	cache.Set("a", []float32{1})
	cache.Set("b", []float32{2})
	cache.Set("c", []float32{3})

	assert.Equal(t, 2, cache.Len())
	_, ok := cache.Get("a")
	assert.False(t, ok, "oldest entry should have been evicted")
}

func TestLocalProviderDeterministic(t *testing.T) {
	p, err := NewLocalProvider(nil)
	require.NoError(t, err)
	ctx := context.Background()

	a, err := p.Embed(ctx, "asyncio event loops")
	require.NoError(t, err)
	b, err := p.Embed(ctx, "asyncio event loops")
	require.NoError(t, err)
	other, err := p.Embed(ctx, "docker compose files")
	require.NoError(t, err)

	assert.Equal(t, a, b, "identical text must embed identically")
	assert.NotEqual(t, a, other)
	assert.Len(t, a, LocalDimension)

	// Unit-normalized.
	var norm float64
	for _, v := range a {
		norm += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, norm, 1e-4)
}

func TestLocalProviderValidation(t *testing.T) {
	p, err := NewLocalProvider(nil)
	require.NoError(t, err)

	_, err = p.Embed(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyText)

	_, err = p.EmbedBatch(context.Background(), nil)
	assert.ErrorIs(t, err, ErrEmptyText)

	_, err = p.EmbedBatch(context.Background(), []string{"ok", ""})
	assert.ErrorIs(t, err, ErrEmptyText)
}

func TestEmbedUsesCache(t *testing.T) {
	cache := NewCache(10)
	p, err := NewLocalProvider(cache)
	require.NoError(t, err)

	vec, err := p.Embed(context.Background(), "cached text")
	require.NoError(t, err)

	cached, ok := cache.Get(ComputeHash("cached text"))
	require.True(t, ok)
	assert.Equal(t, vec, cached)
}
