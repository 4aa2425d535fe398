package badger

import (
	"context"
	"math"
	"testing"

	"github.com/poiesic/termstd/core"
	"github.com/poiesic/termstd/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenBackend_InMemory(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	require.NotNil(t, backend)
	defer backend.Close()

	assert.False(t, backend.IsClosed())
}

func TestOpenBackend_FileSystem(t *testing.T) {
	tmpDir := t.TempDir() + "/db"
	backend, err := OpenBackend(tmpDir, false)
	require.NoError(t, err)
	require.NotNil(t, backend)
	defer backend.Close()

	assert.False(t, backend.IsClosed())
}

func TestBackendClose(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)

	require.NoError(t, backend.Close())
	assert.True(t, backend.IsClosed())

	_, err = backend.FindSimilar(context.Background(), []float32{1}, 1)
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
}

func TestFindSimilar_InvalidQuery(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	defer backend.Close()

	_, err = backend.FindSimilar(context.Background(), nil, 5)
	assert.ErrorIs(t, err, storage.ErrInvalidQuery)

	_, err = backend.FindSimilar(context.Background(), []float32{1, 0}, 0)
	assert.ErrorIs(t, err, storage.ErrInvalidQuery)
}

func TestFindSimilar_NoRecords(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	defer backend.Close()

	results, err := backend.FindSimilar(context.Background(), []float32{0.1, 0.2, 0.3}, 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestFindSimilar_RanksBySquaredDistance(t *testing.T) {
	termRepo, historyRepo, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		historyRepo.Close()
		termRepo.Close()
		backend.Close()
	}()

	ctx := context.Background()
	inv := float32(1 / math.Sqrt2)
	_, err = termRepo.AddTerms(ctx,
		&core.CanonicalTerm{Text: "Return on Equity", Vector: []float32{1, 0}},
		&core.CanonicalTerm{Text: "Return on Assets", Vector: []float32{inv, inv}},
		&core.CanonicalTerm{Text: "Debt Ratio", Vector: []float32{0, 1}},
		&core.CanonicalTerm{Text: "Unembedded"},
		&core.CanonicalTerm{Text: "Other Model", Vector: []float32{1, 0, 0}},
	)
	require.NoError(t, err)

	hits, err := backend.FindSimilar(ctx, []float32{1, 0}, 2)
	require.NoError(t, err)
	require.Len(t, hits, 2)

	assert.Equal(t, "Return on Equity", hits[0].Term)
	assert.InDelta(t, 0.0, hits[0].Distance, 1e-9)
	assert.Equal(t, 1.0, hits[0].Similarity)

	// |(1,0)-(1/√2,1/√2)|² = 2 - √2
	assert.Equal(t, "Return on Assets", hits[1].Term)
	assert.InDelta(t, 2-math.Sqrt2, hits[1].Distance, 1e-6)
	assert.Equal(t, core.Round(1/(1+(2-math.Sqrt2)), 4), hits[1].Similarity)

	all, err := backend.FindSimilar(ctx, []float32{1, 0}, 10)
	require.NoError(t, err)
	assert.Len(t, all, 3, "terms without a matching vector are skipped")
	assert.Equal(t, "Debt Ratio", all[2].Term)
	assert.Equal(t, 0.3333, all[2].Similarity)
}

func TestFindSimilar_ContextCancelled(t *testing.T) {
	termRepo, historyRepo, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		historyRepo.Close()
		termRepo.Close()
		backend.Close()
	}()

	_, err = termRepo.AddTerms(context.Background(), &core.CanonicalTerm{Text: "ROE", Vector: []float32{1}})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = backend.FindSimilar(ctx, []float32{1}, 1)
	assert.ErrorIs(t, err, context.Canceled)
}
