package badger

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/termstd/core"
	"github.com/poiesic/termstd/storage"
)

// DefaultMaxHistoryRecords is the history cap used when none is configured.
const DefaultMaxHistoryRecords = 1000

// HistoryRepository implements storage.HistoryRepository for BadgerDB.
// Records are keyed by a monotonically increasing sequence, so key order is
// insertion order and newest-first reads are reverse scans.
type HistoryRepository struct {
	backend    *Backend
	idSeq      *badger.Sequence
	maxRecords int

	// serializes append-then-trim so the cap holds under concurrent writers
	mu sync.Mutex
}

var _ storage.HistoryRepository = (*HistoryRepository)(nil)

// HistoryOption configures a HistoryRepository.
type HistoryOption func(*HistoryRepository) error

// WithMaxRecords caps the number of retained records.
func WithMaxRecords(n int) HistoryOption {
	return func(r *HistoryRepository) error {
		if n <= 0 {
			return fmt.Errorf("%w: max records must be positive, got %d", storage.ErrInvalidQuery, n)
		}
		r.maxRecords = n
		return nil
	}
}

// NewHistoryRepository creates a new HistoryRepository.
func NewHistoryRepository(backend *Backend, opts ...HistoryOption) (storage.HistoryRepository, error) {
	r, err := newHistoryRepository(backend, opts...)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func newHistoryRepository(backend *Backend, opts ...HistoryOption) (*HistoryRepository, error) {
	r := &HistoryRepository{
		backend:    backend,
		maxRecords: DefaultMaxHistoryRecords,
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	idSeq, err := backend.GetSequence(historyIDSeq)
	if err != nil {
		return nil, err
	}
	r.idSeq = idSeq
	return r, nil
}

// Close releases the ID sequence.
func (r *HistoryRepository) Close() error {
	return r.idSeq.Release()
}

// WithTransaction delegates to the backend.
func (r *HistoryRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddRecord appends a record and trims the log to the configured cap.
func (r *HistoryRepository) AddRecord(ctx context.Context, record *core.HistoryRecord) (*core.HistoryRecord, error) {
	if record != nil && record.Timestamp.IsZero() {
		record.Timestamp = time.Now().UTC()
	}
	if err := core.ValidateHistoryRecord(record); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		nextID, err := r.idSeq.Next()
		if err != nil {
			return err
		}
		// BadgerDB sequences can return 0 on first call, so we skip it
		if nextID == 0 {
			nextID, err = r.idSeq.Next()
			if err != nil {
				return err
			}
		}
		record.Id = core.ID(nextID)

		if err := tx.Set(makeHistoryKey(record.Id), storage.MarshalHistoryRecord(record)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return nil, err
	}

	if err := r.trim(); err != nil {
		return record, err
	}
	return record, nil
}

// trim deletes the oldest records beyond maxRecords.
func (r *HistoryRepository) trim() error {
	prefix := []byte(historyRecordPrefix + ":")
	count, err := r.backend.countPrefix(prefix)
	if err != nil {
		return err
	}
	excess := count - r.maxRecords
	if excess <= 0 {
		return nil
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = prefix
		iter := tx.NewIterator(opts)

		var stale [][]byte
		for iter.Rewind(); iter.Valid() && len(stale) < excess; iter.Next() {
			stale = append(stale, iter.Item().KeyCopy(nil))
		}
		iter.Close()

		for _, key := range stale {
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// RecentRecords returns up to limit records, newest first.
// A non-positive limit returns every record.
func (r *HistoryRepository) RecentRecords(ctx context.Context, limit int) ([]*core.HistoryRecord, error) {
	return r.scanNewest(limit, func(*core.HistoryRecord) bool { return true })
}

// RecordsByType returns up to limit records of recordType, newest first.
// A non-positive limit returns every matching record.
func (r *HistoryRepository) RecordsByType(ctx context.Context, recordType string, limit int) ([]*core.HistoryRecord, error) {
	return r.scanNewest(limit, func(rec *core.HistoryRecord) bool { return rec.Type == recordType })
}

func (r *HistoryRepository) scanNewest(limit int, keep func(*core.HistoryRecord) bool) ([]*core.HistoryRecord, error) {
	if limit <= 0 {
		limit = math.MaxInt
	}

	var results []*core.HistoryRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		// Use reverse iterator to get most recent records first
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.Prefix = []byte(historyRecordPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		// Seek to the last possible key with this prefix
		startKey := makeHistoryKey(core.ID(math.MaxUint64))

		for iter.Seek(startKey); iter.Valid() && len(results) < limit; iter.Next() {
			record, err := readHistoryItem(iter.Item())
			if err != nil {
				return err
			}
			if keep(record) {
				results = append(results, record)
			}
		}
		return nil
	}, false)

	return results, err
}

// ClearHistory removes all records.
func (r *HistoryRepository) ClearHistory(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	deleted, err := r.backend.dropPrefix([]byte(historyRecordPrefix + ":"))
	if err != nil {
		return err
	}
	r.backend.logger.Debug("cleared history", "deleted", deleted)
	return nil
}

// Stats summarizes the log.
func (r *HistoryRepository) Stats(ctx context.Context) (*core.HistoryStats, error) {
	stats := &core.HistoryStats{
		TypeCounts: make(map[string]int),
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(historyRecordPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			record, err := readHistoryItem(iter.Item())
			if err != nil {
				return err
			}
			stats.TotalRecords++
			stats.TypeCounts[record.Type]++

			ts := record.Timestamp
			if stats.OldestRecord == nil || ts.Before(*stats.OldestRecord) {
				stats.OldestRecord = &ts
			}
			if stats.NewestRecord == nil || ts.After(*stats.NewestRecord) {
				stats.NewestRecord = &ts
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	return stats, nil
}

func readHistoryItem(item *badger.Item) (*core.HistoryRecord, error) {
	var record *core.HistoryRecord
	err := item.Value(func(val []byte) error {
		var err error
		record, err = storage.UnmarshalHistoryRecord(val)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", storage.ErrSerializationFailed, err)
	}
	return record, nil
}
