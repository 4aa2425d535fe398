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


package standardize

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/termstd/core"
	"github.com/poiesic/termstd/dictionary"
	"github.com/poiesic/termstd/extract"
	"github.com/poiesic/termstd/retrieval"
)

const (
	// MaxCandidates is the number of semantic candidates attached to a MatchResult.
	MaxCandidates = 5

	// SimilarOversample is added to the requested limit of a similar-terms
	// lookup to make up for results removed by filtering.
	SimilarOversample = 5
)

// Standardizer matches queries and text spans against a dictionary, falling
// back to semantic retrieval. It is safe for concurrent use.
type Standardizer struct {
	dict      *dictionary.Dictionary
	retriever retrieval.Retriever
	extractor *extract.Extractor
	pool      *ants.Pool
	logger    *slog.Logger
}

// Option configures a Standardizer.
type Option func(*Standardizer) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Standardizer) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithPoolSize sets the worker pool size used by batch operations.
// Default is runtime.NumCPU(), with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(s *Standardizer) error {
		if size < 1 {
			size = 1
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		if s.pool != nil {
			s.pool.Release()
		}
		s.pool = pool
		return nil
	}
}

// WithExtractor replaces the default text extractor.
func WithExtractor(extractor *extract.Extractor) Option {
	return func(s *Standardizer) error {
		if extractor == nil {
			return ErrExtractorRequired
		}
		s.extractor = extractor
		return nil
	}
}

// New creates a standardizer over dict. The retriever may be nil, in which
// case only exact matching is performed.
func New(dict *dictionary.Dictionary, retriever retrieval.Retriever, opts ...Option) (*Standardizer, error) {
	if dict == nil {
		return nil, ErrDictionaryRequired
	}

	poolSize := runtime.NumCPU()
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	s := &Standardizer{
		dict:      dict,
		retriever: retriever,
		pool:      pool,
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(s); optErr != nil {
			s.Release()
			return nil, optErr
		}
	}

	if s.extractor == nil {
		s.extractor, err = extract.New(extract.WithLogger(s.logger))
		if err != nil {
			s.Release()
			return nil, err
		}
	}

	return s, nil
}

// Release releases the worker pool.
// The standardizer should not be used after calling Release.
func (s *Standardizer) Release() {
	if s.pool != nil {
		s.pool.Release()
	}
}

// SemanticAvailable reports whether semantic retrieval can be used.
func (s *Standardizer) SemanticAvailable() bool {
	return s.retriever != nil && s.retriever.Initialized()
}

// Standardize resolves query to a standard term. It never fails: an empty
// query, an unavailable retriever or a retrieval error all produce a result
// with MatchType none.
func (s *Standardizer) Standardize(ctx context.Context, query string, threshold float64) core.MatchResult {
	if strings.TrimSpace(query) == "" {
		return core.MatchResult{
			Query:      query,
			MatchType:  core.MatchNone,
			Message:    "query is empty",
			Candidates: []core.Candidate{},
		}
	}

	if standard, ok := s.dict.ExactMatch(query); ok {
		s.logger.Debug("exact match", "query", query, "standard", standard)
		return core.MatchResult{
			Query:        query,
			StandardTerm: standard,
			Score:        100,
			Similarity:   1,
			MatchType:    core.MatchExact,
			Message:      "exact match",
			Candidates:   []core.Candidate{},
		}
	}

	if s.SemanticAvailable() {
		hits, err := s.retriever.SearchSimilar(ctx, query, MaxCandidates)
		if err != nil {
			s.logger.Error("semantic match failed", "query", query, "err", err)
		} else if len(hits) > 0 {
			return semanticResult(query, threshold, hits)
		}
	}

	s.logger.Debug("no match", "query", query)
	return core.MatchResult{
		Query:      query,
		MatchType:  core.MatchNone,
		Message:    fmt.Sprintf("no match found (semantic threshold=%.2f)", threshold),
		Candidates: []core.Candidate{},
	}
}

func semanticResult(query string, threshold float64, hits []core.SemanticHit) core.MatchResult {
	if len(hits) > MaxCandidates {
		hits = hits[:MaxCandidates]
	}
	candidates := make([]core.Candidate, len(hits))
	for i, hit := range hits {
		candidates[i] = core.Candidate{
			Term:       hit.Term,
			Score:      core.Score(hit.Similarity),
			Similarity: hit.Similarity,
			Source:     core.SourceSemantic,
		}
	}

	best := hits[0]
	result := core.MatchResult{
		Query:      query,
		Score:      core.Score(best.Similarity),
		Similarity: core.Round(best.Similarity, 4),
		Candidates: candidates,
	}
	if best.Similarity >= threshold {
		result.StandardTerm = best.Term
		result.MatchType = core.MatchSemantic
		result.Message = "semantic match"
	} else {
		result.MatchType = core.MatchSemanticLow
		result.Message = fmt.Sprintf("low-confidence semantic match (threshold=%.2f)", threshold)
	}
	return result
}

// BatchStandardize standardizes each trimmed query independently. Results are
// positionally aligned with queries.
func (s *Standardizer) BatchStandardize(ctx context.Context, queries []string, threshold float64) []core.MatchResult {
	results := make([]core.MatchResult, len(queries))
	for i, query := range queries {
		results[i] = core.MatchResult{
			Query:      strings.TrimSpace(query),
			MatchType:  core.MatchNone,
			Message:    "standardization failed",
			Candidates: []core.Candidate{},
		}
	}
	s.forEach(len(queries), func(i int) {
		results[i] = s.Standardize(ctx, strings.TrimSpace(queries[i]), threshold)
	})
	s.logger.Info("batch standardized", "count", len(queries))
	return results
}

// SimilarTerms returns up to limit terms semantically close to term,
// excluding term itself, in retrieval rank order. It returns an empty slice
// when retrieval is unavailable or fails.
func (s *Standardizer) SimilarTerms(ctx context.Context, term string, limit int, threshold float64) []core.SimilarTerm {
	similar := []core.SimilarTerm{}
	if limit <= 0 {
		return similar
	}
	if !s.SemanticAvailable() {
		s.logger.Warn("semantic retrieval unavailable, no similar terms")
		return similar
	}

	hits, err := s.retriever.SearchSimilar(ctx, term, limit+SimilarOversample)
	if err != nil {
		s.logger.Error("similar terms lookup failed", "term", term, "err", err)
		return similar
	}

	for _, hit := range hits {
		if core.EqualFold(hit.Term, term) || hit.Similarity < threshold {
			continue
		}
		similar = append(similar, core.SimilarTerm{
			Term:       hit.Term,
			Similarity: core.Round(hit.Similarity, 4),
		})
		if len(similar) >= limit {
			break
		}
	}
	return similar
}

// forEach runs fn for every index in [0, n) on the worker pool and waits for
// all of them. Panics are contained to the failing item.
func (s *Standardizer) forEach(n int, fn func(i int)) {
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		task := func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					s.logger.Error("batch item panicked", "index", i, "panic", r)
				}
			}()
			fn(i)
		}
		if err := s.pool.Submit(task); err != nil {
			s.logger.Warn("worker pool unavailable, running inline", "err", err)
			task()
		}
	}
	wg.Wait()
}
