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
	"time"

	"github.com/poiesic/termstd/ai"
	"github.com/poiesic/termstd/core"
	"github.com/poiesic/termstd/storage"
)

// BatchProcessor embeds a batch of terms and stores them.
type BatchProcessor struct {
	repo           storage.TermRepository
	embedder       ai.Embedder
	maxRetries     int
	retryBaseDelay time.Duration
}

// NewBatchProcessor creates a new batch processor.
// maxRetries: maximum number of attempts for each embedding call
// retryBaseDelay: base delay for exponential backoff
func NewBatchProcessor(repo storage.TermRepository, embedder ai.Embedder, maxRetries int, retryBaseDelay time.Duration) *BatchProcessor {
	return &BatchProcessor{
		repo:           repo,
		embedder:       embedder,
		maxRetries:     maxRetries,
		retryBaseDelay: retryBaseDelay,
	}
}

// Process embeds the texts of terms, stores the terms with their normalized
// vectors and returns the vector dimension.
// The input terms are not modified.
func (bp *BatchProcessor) Process(ctx context.Context, terms []core.CanonicalTerm) (int, error) {
	if len(terms) == 0 {
		return 0, nil
	}

	texts := make([]string, len(terms))
	for i, term := range terms {
		texts[i] = term.Text
	}

	var vectors [][]float32
	err := RetryWithBackoff(ctx, func(ctx context.Context) error {
		var err error
		vectors, err = bp.embedder.EmbedTexts(ctx, texts)
		return err
	}, bp.maxRetries, bp.retryBaseDelay)
	if err != nil {
		return 0, fmt.Errorf("failed to generate embeddings after %d attempts: %w", bp.maxRetries, err)
	}

	if len(vectors) != len(terms) {
		return 0, fmt.Errorf("%w: expected %d vectors, got %d", ErrEmbeddingMismatch, len(terms), len(vectors))
	}

	dims := len(vectors[0])
	batch := make([]*core.CanonicalTerm, len(terms))
	for i := range terms {
		if len(vectors[i]) == 0 || len(vectors[i]) != dims {
			return 0, fmt.Errorf("%w: vector %d of %q has %d dimensions, want %d",
				ErrEmbeddingMismatch, i, terms[i].Text, len(vectors[i]), dims)
		}
		term := terms[i]
		term.Vector = core.NormalizeVector(vectors[i])
		batch[i] = &term
	}

	if _, err := bp.repo.AddTerms(ctx, batch...); err != nil {
		return 0, fmt.Errorf("failed to store terms: %w", err)
	}

	return dims, nil
}
