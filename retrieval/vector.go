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
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/poiesic/termstd/ai"
	"github.com/poiesic/termstd/core"
	"github.com/poiesic/termstd/storage"
)

// TermIndex is the part of storage.TermRepository a VectorRetriever reads.
type TermIndex interface {
	storage.VectorSearcher
	CountTerms(ctx context.Context) (int, error)
}

// VectorRetriever answers queries by nearest-neighbour search over the
// stored term embeddings.
type VectorRetriever struct {
	index  TermIndex
	cache  *EmbeddingCache
	ready  atomic.Bool
	logger *slog.Logger

	cacheSize int
}

var _ Retriever = (*VectorRetriever)(nil)

// Option configures a VectorRetriever.
type Option func(*VectorRetriever) error

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *VectorRetriever) error {
		r.logger = logger
		return nil
	}
}

// WithCacheSize sets how many query embeddings are kept. Zero disables caching.
func WithCacheSize(n int) Option {
	return func(r *VectorRetriever) error {
		if n < 0 {
			return fmt.Errorf("cache size must be non-negative, got %d", n)
		}
		r.cacheSize = n
		return nil
	}
}

// NewVectorRetriever creates a retriever over index using embedder for queries.
// The retriever starts uninitialized; call Load once the index is built.
func NewVectorRetriever(embedder ai.Embedder, index TermIndex, opts ...Option) (*VectorRetriever, error) {
	if embedder == nil {
		return nil, fmt.Errorf("embedder is required")
	}
	if index == nil {
		return nil, fmt.Errorf("term index is required")
	}

	r := &VectorRetriever{
		index:     index,
		logger:    slog.Default().With("component", "vector-retriever"),
		cacheSize: DefaultCacheSize,
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	r.cache = NewEmbeddingCache(embedder, r.cacheSize)
	return r, nil
}

// Load checks the index and marks the retriever initialized when it holds terms.
func (r *VectorRetriever) Load(ctx context.Context) error {
	count, err := r.index.CountTerms(ctx)
	if err != nil {
		r.ready.Store(false)
		return fmt.Errorf("counting indexed terms: %w", err)
	}
	r.ready.Store(count > 0)
	r.logger.Info("vector index loaded", "terms", count)
	return nil
}

// Initialized reports whether Load found indexed terms.
func (r *VectorRetriever) Initialized() bool {
	return r.ready.Load()
}

// SearchSimilar embeds query and returns the topK nearest terms.
func (r *VectorRetriever) SearchSimilar(ctx context.Context, query string, topK int) ([]core.SemanticHit, error) {
	if !r.Initialized() {
		return nil, ErrNotInitialized
	}
	query = strings.TrimSpace(query)
	if query == "" || topK <= 0 {
		return nil, nil
	}

	vector, err := r.cache.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	hits, err := r.index.FindSimilar(ctx, core.NormalizeVector(vector), topK)
	if err != nil {
		return nil, fmt.Errorf("searching index: %w", err)
	}

	r.logger.Debug("semantic search", "query", query, "top_k", topK, "hits", len(hits))
	return hits, nil
}

// CacheStats returns the query embedding cache counters.
func (r *VectorRetriever) CacheStats() CacheStats {
	return r.cache.Stats()
}
