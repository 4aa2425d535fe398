package mock

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockEmbedderDefaults(t *testing.T) {
	emb := NewMockEmbedder()
	ctx := context.Background()

	a, err := emb.EmbedText(ctx, "Return on Equity")
	require.NoError(t, err)
	b, err := emb.EmbedText(ctx, "Return on Equity")
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Len(t, a, DefaultDimensions)

	var sum float64
	for _, v := range a {
		sum += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, math.Sqrt(sum), 1e-5)
	assert.Equal(t, 2, emb.CallCount())
}

func TestMockEmbedderPinnedVectors(t *testing.T) {
	emb := NewMockEmbedder().WithVector("ROE", []float32{1, 0})

	vecs, err := emb.EmbedTexts(context.Background(), []string{"ROE", "other"})
	require.NoError(t, err)
	require.Len(t, vecs, 2)
	assert.Equal(t, []float32{1, 0}, vecs[0])
	assert.Len(t, vecs[1], DefaultDimensions)
}

func TestMockEmbedderCustomFunc(t *testing.T) {
	boom := errors.New("boom")
	emb := NewMockEmbedder().WithEmbedTextFunc(func(ctx context.Context, text string) ([]float32, error) {
		return nil, boom
	})

	_, err := emb.EmbedText(context.Background(), "x")
	assert.ErrorIs(t, err, boom)

	emb.Reset()
	assert.Equal(t, 0, emb.CallCount())
	_, err = emb.EmbedText(context.Background(), "x")
	assert.NoError(t, err)
}
