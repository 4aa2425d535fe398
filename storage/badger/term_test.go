package badger

import (
	"context"
	"fmt"
	"testing"

	"github.com/poiesic/termstd/core"
	"github.com/poiesic/termstd/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTermRepo(t *testing.T) storage.TermRepository {
	t.Helper()
	termRepo, historyRepo, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() {
		historyRepo.Close()
		termRepo.Close()
		backend.Close()
	})
	return termRepo
}

func TestAddTerms(t *testing.T) {
	repo := setupTermRepo(t)
	ctx := context.Background()

	added, err := repo.AddTerms(ctx,
		&core.CanonicalTerm{Text: "Return on Equity", Label: "ROE"},
		&core.CanonicalTerm{Text: "股本回报率", Label: "ROE"},
	)
	require.NoError(t, err)
	require.Len(t, added, 2)

	for _, term := range added {
		assert.Equal(t, core.TermID(term.Text), term.Id)
		assert.False(t, term.InsertedAt.IsZero())
	}

	count, err := repo.CountTerms(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestAddTerms_ReplacesSameKey(t *testing.T) {
	repo := setupTermRepo(t)
	ctx := context.Background()

	_, err := repo.AddTerms(ctx, &core.CanonicalTerm{Text: "Net Profit", Label: "old"})
	require.NoError(t, err)
	_, err = repo.AddTerms(ctx, &core.CanonicalTerm{Text: "net profit ", Label: "new"})
	require.NoError(t, err)

	count, err := repo.CountTerms(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	term, err := repo.FindTermByText(ctx, "NET PROFIT")
	require.NoError(t, err)
	assert.Equal(t, "new", term.Label)
}

func TestAddTerms_Invalid(t *testing.T) {
	repo := setupTermRepo(t)

	_, err := repo.AddTerms(context.Background(),
		&core.CanonicalTerm{Text: "valid"},
		&core.CanonicalTerm{Text: "  "},
	)
	assert.ErrorIs(t, err, core.ErrEmptyTermText)

	count, err := repo.CountTerms(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count, "nothing is written when any term is invalid")
}

func TestGetTerm_NotFound(t *testing.T) {
	repo := setupTermRepo(t)

	_, err := repo.GetTerm(context.Background(), core.ID(99))
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = repo.FindTermByText(context.Background(), "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestAllTermsAndClear(t *testing.T) {
	repo := setupTermRepo(t)
	ctx := context.Background()

	terms := make([]*core.CanonicalTerm, 0, 25)
	for i := range 25 {
		terms = append(terms, &core.CanonicalTerm{Text: fmt.Sprintf("term %02d", i), Vector: []float32{float32(i)}})
	}
	_, err := repo.AddTerms(ctx, terms...)
	require.NoError(t, err)

	all, err := repo.AllTerms(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 25)

	require.NoError(t, repo.SaveIndexMeta(ctx, &core.IndexMeta{Model: "bge-m3", Dimensions: 1, TermCount: 25}))

	require.NoError(t, repo.ClearTerms(ctx))

	count, err := repo.CountTerms(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	meta, err := repo.LoadIndexMeta(ctx)
	require.NoError(t, err)
	assert.Nil(t, meta)
}

func TestIndexMeta(t *testing.T) {
	repo := setupTermRepo(t)
	ctx := context.Background()

	meta, err := repo.LoadIndexMeta(ctx)
	require.NoError(t, err)
	assert.Nil(t, meta)

	require.NoError(t, repo.SaveIndexMeta(ctx, &core.IndexMeta{Model: "bge-m3", Dimensions: 1024, TermCount: 3}))

	meta, err = repo.LoadIndexMeta(ctx)
	require.NoError(t, err)
	require.NotNil(t, meta)
	assert.Equal(t, "bge-m3", meta.Model)
	assert.Equal(t, 1024, meta.Dimensions)
	assert.Equal(t, 3, meta.TermCount)
	assert.False(t, meta.BuiltAt.IsZero())
}
