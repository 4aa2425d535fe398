package badger

import (
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/termstd/core"
	"github.com/poiesic/termstd/storage"
)

// TermRepository implements storage.TermRepository for BadgerDB.
type TermRepository struct {
	backend *Backend
}

var _ storage.TermRepository = (*TermRepository)(nil)

// NewTermRepository creates a new TermRepository.
func NewTermRepository(backend *Backend) (storage.TermRepository, error) {
	return newTermRepository(backend), nil
}

func newTermRepository(backend *Backend) *TermRepository {
	return &TermRepository{
		backend: backend,
	}
}

// Close releases resources. TermRepository has no resources to release.
func (r *TermRepository) Close() error {
	return nil
}

// FindSimilar delegates to the backend.
func (r *TermRepository) FindSimilar(ctx context.Context, vector []float32, limit int) ([]core.SemanticHit, error) {
	return r.backend.FindSimilar(ctx, vector, limit)
}

// WithTransaction delegates to the backend.
func (r *TermRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddTerms adds or replaces terms. All terms are written in one transaction.
func (r *TermRepository) AddTerms(ctx context.Context, terms ...*core.CanonicalTerm) ([]*core.CanonicalTerm, error) {
	for _, term := range terms {
		if err := core.ValidateTerm(term); err != nil {
			return nil, err
		}
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		now := time.Now().UTC()
		for _, term := range terms {
			// Use content-based ID if not set
			if term.Id == 0 {
				term.Id = core.TermID(term.Text)
			}
			if term.InsertedAt.IsZero() {
				term.InsertedAt = now
			}

			if err := tx.Set(makeTermKey(term.Id), storage.MarshalTerm(term)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return nil, err
	}

	return terms, nil
}

// GetTerm retrieves a single term by ID.
func (r *TermRepository) GetTerm(ctx context.Context, id core.ID) (*core.CanonicalTerm, error) {
	var result *core.CanonicalTerm
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readTerm(tx, makeTermKey(id))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// FindTermByText looks a term up through its content-derived ID.
func (r *TermRepository) FindTermByText(ctx context.Context, text string) (*core.CanonicalTerm, error) {
	term, err := r.GetTerm(ctx, core.TermID(text))
	if err != nil {
		return nil, err
	}
	// Guard against ID collisions
	if !core.EqualFold(term.Text, text) {
		return nil, storage.ErrNotFound
	}
	return term, nil
}

// AllTerms retrieves all terms from storage.
func (r *TermRepository) AllTerms(ctx context.Context) ([]*core.CanonicalTerm, error) {
	var results []*core.CanonicalTerm
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		opts.Prefix = []byte(termRecordPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var term *core.CanonicalTerm
			err := iter.Item().Value(func(val []byte) error {
				var err error
				term, err = storage.UnmarshalTerm(val)
				return err
			})
			if err != nil {
				return fmt.Errorf("%w: %w", storage.ErrSerializationFailed, err)
			}
			results = append(results, term)
		}
		return nil
	}, false)

	return results, err
}

// CountTerms returns the number of stored terms.
func (r *TermRepository) CountTerms(ctx context.Context) (int, error) {
	return r.backend.countPrefix([]byte(termRecordPrefix + ":"))
}

// ClearTerms removes every term and the index metadata.
func (r *TermRepository) ClearTerms(ctx context.Context) error {
	deleted, err := r.backend.dropPrefix([]byte(termRecordPrefix + ":"))
	if err != nil {
		return err
	}
	r.backend.logger.Debug("cleared terms", "deleted", deleted)

	return r.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Delete([]byte(termMetaKey)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// SaveIndexMeta persists the index metadata.
func (r *TermRepository) SaveIndexMeta(ctx context.Context, meta *core.IndexMeta) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		if meta.BuiltAt.IsZero() {
			meta.BuiltAt = time.Now().UTC()
		}
		if err := tx.Set([]byte(termMetaKey), storage.MarshalIndexMeta(meta)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// LoadIndexMeta retrieves the index metadata.
// Returns nil, nil if the index was never built.
func (r *TermRepository) LoadIndexMeta(ctx context.Context) (*core.IndexMeta, error) {
	var meta *core.IndexMeta
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get([]byte(termMetaKey))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return nil
			}
			return err
		}

		return item.Value(func(val []byte) error {
			var unmarshalErr error
			meta, unmarshalErr = storage.UnmarshalIndexMeta(val)
			return unmarshalErr
		})
	}, false)

	return meta, err
}

// readTerm reads a term from the transaction.
// Returns nil, nil when the key does not exist.
func readTerm(tx *badger.Txn, key []byte) (*core.CanonicalTerm, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var term *core.CanonicalTerm
	err = item.Value(func(val []byte) error {
		var err error
		term, err = storage.UnmarshalTerm(val)
		return err
	})
	return term, err
}
