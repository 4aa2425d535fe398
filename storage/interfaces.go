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


package storage

import (
	"context"

	"github.com/poiesic/termstd/core"
)

// Repository is the base interface shared by all repositories.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close releases resources held by the repository.
	// It does not close the shared backend.
	Close() error
}

// VectorSearcher provides nearest-neighbour search over stored term vectors.
type VectorSearcher interface {
	// FindSimilar returns up to limit terms nearest to vector, best-first.
	// Distance is the squared Euclidean distance between the vectors and
	// Similarity is 1/(1+Distance). Terms without a vector are skipped.
	FindSimilar(ctx context.Context, vector []float32, limit int) ([]core.SemanticHit, error)
}

// TermRepository stores the canonical terms together with their embeddings.
type TermRepository interface {
	Repository
	VectorSearcher

	// AddTerms stores terms, replacing any term with the same normalized key.
	// Zero IDs are derived from the term text and InsertedAt is set when zero.
	// Returns ErrInvalidTerm wrapped if a term fails validation.
	AddTerms(ctx context.Context, terms ...*core.CanonicalTerm) ([]*core.CanonicalTerm, error)

	// GetTerm retrieves a single term by ID.
	// Returns ErrNotFound if the term doesn't exist.
	GetTerm(ctx context.Context, id core.ID) (*core.CanonicalTerm, error)

	// FindTermByText retrieves a term by its text, ignoring case and
	// surrounding whitespace. Returns ErrNotFound if no such term exists.
	FindTermByText(ctx context.Context, text string) (*core.CanonicalTerm, error)

	// AllTerms returns every stored term in key order.
	AllTerms(ctx context.Context) ([]*core.CanonicalTerm, error)

	// CountTerms returns the number of stored terms.
	CountTerms(ctx context.Context) (int, error)

	// ClearTerms removes all terms and the index metadata.
	ClearTerms(ctx context.Context) error

	// SaveIndexMeta records how the stored vectors were produced.
	SaveIndexMeta(ctx context.Context, meta *core.IndexMeta) error

	// LoadIndexMeta returns the stored index metadata, or nil if none exists.
	LoadIndexMeta(ctx context.Context) (*core.IndexMeta, error)
}

// HistoryRepository is a capped, newest-first log of service calls.
type HistoryRepository interface {
	Repository

	// AddRecord appends a record, assigning its ID and Timestamp when zero.
	// The oldest records are evicted once the configured maximum is exceeded.
	AddRecord(ctx context.Context, record *core.HistoryRecord) (*core.HistoryRecord, error)

	// RecentRecords returns up to limit records, newest first.
	RecentRecords(ctx context.Context, limit int) ([]*core.HistoryRecord, error)

	// RecordsByType returns up to limit records of the given type, newest first.
	RecordsByType(ctx context.Context, recordType string, limit int) ([]*core.HistoryRecord, error)

	// ClearHistory removes all records.
	ClearHistory(ctx context.Context) error

	// Stats summarizes the log.
	Stats(ctx context.Context) (*core.HistoryStats, error)
}
