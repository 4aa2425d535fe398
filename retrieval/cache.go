// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package retrieval

import (
	"context"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/poiesic/termstd/ai"
)

// DefaultCacheSize is the number of query embeddings kept by default.
const DefaultCacheSize = 4096

// CacheStats reports embedding cache activity.
type CacheStats struct {
	Entries int   `json:"entries"`
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
}

type cacheEntry struct {
	text   string
	vector []float32
}

// EmbeddingCache memoizes query embeddings. Concurrent requests for the same
// text share a single embedding call. When full, the least recently used
// entry is evicted.
type EmbeddingCache struct {
	embedder ai.Embedder
	group    singleflight.Group
	store    *lru.Cache[uint64, cacheEntry] // nil when caching is disabled

	hits   atomic.Int64
	misses atomic.Int64
}

// NewEmbeddingCache wraps embedder with a cache of the given capacity.
// A capacity of zero disables caching but still collapses concurrent
// duplicate requests.
func NewEmbeddingCache(embedder ai.Embedder, capacity int) *EmbeddingCache {
	c := &EmbeddingCache{embedder: embedder}
	if capacity > 0 {
		// lru.New only fails for a non-positive size
		c.store, _ = lru.New[uint64, cacheEntry](capacity)
	}
	return c
}

// Embed returns the embedding of text, computing it at most once while cached.
// The returned slice is shared and must not be modified.
func (c *EmbeddingCache) Embed(ctx context.Context, text string) ([]float32, error) {
	key := xxhash.Sum64String(text)
	if v, ok := c.get(key, text); ok {
		c.hits.Add(1)
		return v, nil
	}
	c.misses.Add(1)

	v, err, _ := c.group.Do(text, func() (any, error) {
		vector, err := c.embedder.EmbedText(ctx, text)
		if err != nil {
			return nil, err
		}
		if c.store != nil {
			c.store.Add(key, cacheEntry{text: text, vector: vector})
		}
		return vector, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]float32), nil
}

// get marks the entry as recently used. A hash collision counts as a miss.
func (c *EmbeddingCache) get(key uint64, text string) ([]float32, bool) {
	if c.store == nil {
		return nil, false
	}
	e, ok := c.store.Get(key)
	if !ok || e.text != text {
		return nil, false
	}
	return e.vector, true
}

// Stats returns the current counters.
func (c *EmbeddingCache) Stats() CacheStats {
	n := 0
	if c.store != nil {
		n = c.store.Len()
	}
	return CacheStats{
		Entries: n,
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
	}
}
