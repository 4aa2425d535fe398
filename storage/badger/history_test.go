package badger

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/poiesic/termstd/core"
	"github.com/poiesic/termstd/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupHistoryRepo(t *testing.T, opts ...HistoryOption) storage.HistoryRepository {
	t.Helper()
	termRepo, historyRepo, backend, err := NewMemoryRepositories(opts...)
	require.NoError(t, err)
	t.Cleanup(func() {
		historyRepo.Close()
		termRepo.Close()
		backend.Close()
	})
	return historyRepo
}

func TestAddRecord(t *testing.T) {
	repo := setupHistoryRepo(t)
	ctx := context.Background()

	rec, err := repo.AddRecord(ctx, &core.HistoryRecord{Query: "ROE", Type: "search", ResultsCount: 3})
	require.NoError(t, err)
	assert.NotZero(t, rec.Id)
	assert.False(t, rec.Timestamp.IsZero())

	_, err = repo.AddRecord(ctx, &core.HistoryRecord{Query: "ROE"})
	assert.ErrorIs(t, err, core.ErrEmptyHistoryType)
}

func TestRecentRecords_NewestFirst(t *testing.T) {
	repo := setupHistoryRepo(t)
	ctx := context.Background()

	for i := range 5 {
		_, err := repo.AddRecord(ctx, &core.HistoryRecord{Query: fmt.Sprintf("q%d", i), Type: "search"})
		require.NoError(t, err)
	}

	recent, err := repo.RecentRecords(ctx, 3)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.Equal(t, "q4", recent[0].Query)
	assert.Equal(t, "q3", recent[1].Query)
	assert.Equal(t, "q2", recent[2].Query)

	all, err := repo.RecentRecords(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

func TestRecordsByType(t *testing.T) {
	repo := setupHistoryRepo(t)
	ctx := context.Background()

	types := []string{"search", "text_standardize", "search", "batch_text_standardize", "search"}
	for i, typ := range types {
		_, err := repo.AddRecord(ctx, &core.HistoryRecord{Query: fmt.Sprintf("q%d", i), Type: typ})
		require.NoError(t, err)
	}

	searches, err := repo.RecordsByType(ctx, "search", 0)
	require.NoError(t, err)
	require.Len(t, searches, 3)
	assert.Equal(t, "q4", searches[0].Query)
	assert.Equal(t, "q0", searches[2].Query)

	limited, err := repo.RecordsByType(ctx, "search", 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	none, err := repo.RecordsByType(ctx, "similar", 10)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestHistoryCap(t *testing.T) {
	repo := setupHistoryRepo(t, WithMaxRecords(3))
	ctx := context.Background()

	for i := range 7 {
		_, err := repo.AddRecord(ctx, &core.HistoryRecord{Query: fmt.Sprintf("q%d", i), Type: "search"})
		require.NoError(t, err)
	}

	all, err := repo.RecentRecords(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "q6", all[0].Query)
	assert.Equal(t, "q4", all[2].Query)
}

func TestHistoryCap_ConcurrentWriters(t *testing.T) {
	repo := setupHistoryRepo(t, WithMaxRecords(10))
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := range 40 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.AddRecord(ctx, &core.HistoryRecord{Query: fmt.Sprintf("q%d", i), Type: "search"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	stats, err := repo.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10, stats.TotalRecords)
}

func TestWithMaxRecords_Invalid(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	defer backend.Close()

	_, err = NewHistoryRepository(backend, WithMaxRecords(0))
	assert.ErrorIs(t, err, storage.ErrInvalidQuery)
}

func TestHistoryStatsAndClear(t *testing.T) {
	repo := setupHistoryRepo(t)
	ctx := context.Background()

	stats, err := repo.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.TotalRecords)
	assert.Nil(t, stats.OldestRecord)
	assert.Nil(t, stats.NewestRecord)

	base := time.Now().UTC().Add(-time.Hour).Truncate(time.Microsecond)
	for i, typ := range []string{"search", "search", "text_standardize"} {
		_, err := repo.AddRecord(ctx, &core.HistoryRecord{
			Query:     fmt.Sprintf("q%d", i),
			Type:      typ,
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	stats, err = repo.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalRecords)
	assert.Equal(t, map[string]int{"search": 2, "text_standardize": 1}, stats.TypeCounts)
	require.NotNil(t, stats.OldestRecord)
	require.NotNil(t, stats.NewestRecord)
	assert.True(t, stats.OldestRecord.Equal(base))
	assert.True(t, stats.NewestRecord.Equal(base.Add(2*time.Minute)))

	require.NoError(t, repo.ClearHistory(ctx))

	recent, err := repo.RecentRecords(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, recent)
}
