package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 0.65, cfg.Matching.SemanticThreshold)
	assert.Equal(t, 0.6, cfg.Matching.TextThreshold)
	assert.Equal(t, 2, cfg.Matching.MinWordLength)
	assert.Equal(t, 1000, cfg.History.MaxRecords)
	assert.Equal(t, 100, cfg.Index.BatchSize)
	assert.Equal(t, "vector", cfg.Matching.Retriever)
	assert.Equal(t, "bge-m3", cfg.Embedding.Model)
}

func TestParse(t *testing.T) {
	data := []byte(`
[database]
path = "/var/lib/termstd"

[embedding]
host = "http://embed:8080"
model = "nomic-embed-text"

[matching]
retriever = "lexical"
semantic_threshold = 0.8

[index]
batch_size = 32
retry_delay_ms = 250
`)
	cfg, err := Parse(data)
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/termstd", cfg.Database.Path)
	assert.Equal(t, "lexical", cfg.Matching.Retriever)
	assert.Equal(t, 0.8, cfg.Matching.SemanticThreshold)
	assert.Equal(t, 0.6, cfg.Matching.TextThreshold, "unset keys keep defaults")
	assert.Equal(t, 32, cfg.Index.BatchSize)

	ai := cfg.AIConfig()
	require.NoError(t, ai.Validate())
	assert.Equal(t, "http://embed:8080/v1", ai.EmbeddingHost)
	assert.Equal(t, "nomic-embed-text", ai.EmbeddingModel)

	ix := cfg.IndexConfig()
	assert.Equal(t, 32, ix.BatchSize)
	assert.Equal(t, 250*time.Millisecond, ix.RetryDelay)
	assert.Equal(t, "nomic-embed-text", ix.Model)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"syntax error", `[matching`},
		{"unknown key", "[matching]\nfuzzy = true\n"},
		{"threshold out of range", "[matching]\nsemantic_threshold = 1.5\n"},
		{"unknown retriever", "[matching]\nretriever = \"fuzzy\"\n"},
		{"negative min word length", "[matching]\nmin_word_length = -1\n"},
		{"top_k too large", "[matching]\ntop_k = 101\n"},
		{"zero history", "[history]\nmax_records = 0\n"},
		{"zero batch size", "[index]\nbatch_size = 0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "termstd.toml")
	require.NoError(t, os.WriteFile(path, []byte("[history]\nmax_records = 50\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.History.MaxRecords)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWriteRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Matching.TopK = 25

	var buf bytes.Buffer
	require.NoError(t, cfg.Write(&buf))
	assert.Contains(t, buf.String(), "semantic_threshold")

	parsed, err := Parse(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, cfg, parsed)
}
