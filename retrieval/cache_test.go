package retrieval

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/poiesic/termstd/ai/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddingCache_Eviction(t *testing.T) {
	ctx := context.Background()
	emb := mock.NewMockEmbedder()
	cache := NewEmbeddingCache(emb, 2)

	for _, text := range []string{"a", "b", "c"} {
		_, err := cache.Embed(ctx, text)
		require.NoError(t, err)
	}
	assert.Equal(t, 2, cache.Stats().Entries)

	// "a" was evicted, "c" is still cached
	_, err := cache.Embed(ctx, "c")
	require.NoError(t, err)
	assert.Equal(t, 3, emb.CallCount())

	_, err = cache.Embed(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 4, emb.CallCount())
}

func TestEmbeddingCache_EvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	emb := mock.NewMockEmbedder()
	cache := NewEmbeddingCache(emb, 2)

	for _, text := range []string{"Return on Equity", "Book Value", "Return on Equity", "Net Margin"} {
		_, err := cache.Embed(ctx, text)
		require.NoError(t, err)
	}
	assert.Equal(t, 3, emb.CallCount())

	// the hit on "Return on Equity" made "Book Value" the eviction victim
	_, err := cache.Embed(ctx, "Return on Equity")
	require.NoError(t, err)
	assert.Equal(t, 3, emb.CallCount())

	_, err = cache.Embed(ctx, "Book Value")
	require.NoError(t, err)
	assert.Equal(t, 4, emb.CallCount())

	stats := cache.Stats()
	assert.Equal(t, 2, stats.Entries)
	assert.Equal(t, int64(2), stats.Hits)
	assert.Equal(t, int64(4), stats.Misses)
}

func TestEmbeddingCache_Disabled(t *testing.T) {
	ctx := context.Background()
	emb := mock.NewMockEmbedder()
	cache := NewEmbeddingCache(emb, 0)

	for range 3 {
		_, err := cache.Embed(ctx, "same")
		require.NoError(t, err)
	}
	assert.Equal(t, 3, emb.CallCount())
	assert.Zero(t, cache.Stats().Entries)
}

func TestEmbeddingCache_CollapsesConcurrentRequests(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	emb := mock.NewMockEmbedder().WithEmbedTextFunc(func(ctx context.Context, text string) ([]float32, error) {
		calls.Add(1)
		<-release
		return []float32{1}, nil
	})
	cache := NewEmbeddingCache(emb, 16)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := cache.Embed(context.Background(), "Debt to Equity")
			assert.NoError(t, err)
			assert.Equal(t, []float32{1}, v)
		}()
	}

	// let every goroutine reach the in-flight call before releasing it
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
}

func TestEmbeddingCache_ErrorsAreNotCached(t *testing.T) {
	ctx := context.Background()
	fail := true
	emb := mock.NewMockEmbedder().WithEmbedTextFunc(func(ctx context.Context, text string) ([]float32, error) {
		if fail {
			return nil, fmt.Errorf("unavailable")
		}
		return []float32{1}, nil
	})
	cache := NewEmbeddingCache(emb, 4)

	_, err := cache.Embed(ctx, "x")
	assert.Error(t, err)

	fail = false
	v, err := cache.Embed(ctx, "x")
	require.NoError(t, err)
	assert.Equal(t, []float32{1}, v)
}
