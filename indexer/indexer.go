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


package indexer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/poiesic/termstd/ai"
	"github.com/poiesic/termstd/core"
	"github.com/poiesic/termstd/dictionary"
	"github.com/poiesic/termstd/storage"
)

// Config holds configuration for an index build.
type Config struct {
	// BatchSize is the number of terms embedded per call
	BatchSize int

	// Concurrency is the number of batches in flight at once
	Concurrency int

	// ReportInterval is how often to report progress (number of terms)
	ReportInterval int

	// MaxRetries is the maximum number of attempts per embedding call
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration

	// Model names the embedding model. A stored index built with a
	// different model is rebuilt.
	Model string

	// Force rebuilds even when the stored index looks current.
	Force bool
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      100,
		Concurrency:    4,
		ReportInterval: 100,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
	}
}

func (c *Config) validate() error {
	if c.BatchSize <= 0 {
		return fmt.Errorf("%w: batch size must be positive, got %d", ErrInvalidConfig, c.BatchSize)
	}
	if c.Concurrency <= 0 {
		return fmt.Errorf("%w: concurrency must be positive, got %d", ErrInvalidConfig, c.Concurrency)
	}
	if c.MaxRetries <= 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, ErrInvalidMaxAttempts)
	}
	return nil
}

// Result describes a finished index build.
type Result struct {
	Terms      int           `json:"terms"`
	Dimensions int           `json:"dimensions"`
	Skipped    bool          `json:"skipped"`
	Elapsed    time.Duration `json:"elapsed"`
}

// Indexer embeds dictionary terms into a TermRepository.
type Indexer struct {
	repo      storage.TermRepository
	config    *Config
	progress  io.Writer
	processor *BatchProcessor
	logger    *slog.Logger
}

// NewIndexer creates a new indexer.
// progress: where to write progress output (typically os.Stderr), may be nil
func NewIndexer(repo storage.TermRepository, embedder ai.Embedder, config *Config, progress io.Writer) (*Indexer, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.validate(); err != nil {
		return nil, err
	}
	if progress == nil {
		progress = io.Discard
	}

	return &Indexer{
		repo:      repo,
		config:    config,
		progress:  progress,
		processor: NewBatchProcessor(repo, embedder, config.MaxRetries, config.RetryDelay),
		logger:    slog.Default().With("component", "indexer"),
	}, nil
}

// Current reports whether the stored index matches dict and the configured model.
func (ix *Indexer) Current(ctx context.Context, dict *dictionary.Dictionary) (bool, error) {
	count, err := ix.repo.CountTerms(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to count indexed terms: %w", err)
	}
	if count != dict.Len() {
		return false, nil
	}
	meta, err := ix.repo.LoadIndexMeta(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to load index metadata: %w", err)
	}
	if meta == nil || meta.Model == "" || ix.config.Model == "" {
		return true, nil
	}
	return meta.Model == ix.config.Model, nil
}

// Run builds the index for dict unless it is already current.
func (ix *Indexer) Run(ctx context.Context, dict *dictionary.Dictionary) (*Result, error) {
	terms := dict.Terms()
	if len(terms) == 0 {
		return nil, dictionary.ErrEmptyDictionary
	}

	if !ix.config.Force {
		current, err := ix.Current(ctx, dict)
		if err != nil {
			return nil, err
		}
		if current {
			ix.logger.Info("vector index is current, skipping build", "terms", len(terms))
			return &Result{Terms: len(terms), Skipped: true}, nil
		}
	}

	ix.logger.Info("rebuilding vector index", "terms", len(terms), "batch_size", ix.config.BatchSize)
	if err := ix.repo.ClearTerms(ctx); err != nil {
		return nil, fmt.Errorf("failed to clear stored terms: %w", err)
	}

	fmt.Fprintf(ix.progress, "Indexing %d terms (batch size: %d)\n", len(terms), ix.config.BatchSize)
	tracker := NewProgressTracker(ix.progress, len(terms), ix.config.ReportInterval)
	tracker.Start()

	var (
		dimsMu sync.Mutex
		dims   int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(ix.config.Concurrency)
	for batch := range slices.Chunk(terms, ix.config.BatchSize) {
		g.Go(func() error {
			d, err := ix.processor.Process(gctx, batch)
			if err != nil {
				return fmt.Errorf("failed to process batch starting at %q: %w", batch[0].Text, err)
			}
			dimsMu.Lock()
			if dims == 0 {
				dims = d
			}
			expected := dims
			dimsMu.Unlock()
			if d != expected {
				return fmt.Errorf("%w: batch starting at %q has %d dimensions, expected %d",
					ErrEmbeddingMismatch, batch[0].Text, d, expected)
			}
			tracker.Increment(len(batch))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		tracker.Finish()
		return nil, err
	}
	tracker.Finish()

	meta := &core.IndexMeta{
		Model:      ix.config.Model,
		Dimensions: dims,
		TermCount:  len(terms),
	}
	if err := ix.repo.SaveIndexMeta(ctx, meta); err != nil {
		return nil, fmt.Errorf("failed to save index metadata: %w", err)
	}

	elapsed := tracker.Elapsed()
	ix.logger.Info("vector index built", "terms", len(terms), "dimensions", dims, "elapsed", elapsed)
	fmt.Fprintf(ix.progress, "Indexing complete. Embedded %d terms in %v\n", len(terms), elapsed.Round(time.Millisecond))

	return &Result{Terms: len(terms), Dimensions: dims, Elapsed: elapsed}, nil
}
