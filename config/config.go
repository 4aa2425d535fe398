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


package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/poiesic/termstd/ai"
	"github.com/poiesic/termstd/core"
	"github.com/poiesic/termstd/indexer"
	"github.com/poiesic/termstd/retrieval"
)

// Defaults for matching and the history log.
const (
	DefaultSemanticThreshold = 0.65
	DefaultTextThreshold     = 0.6
	DefaultSimilarThreshold  = 0.5
	DefaultSimilarLimit      = 5
	DefaultMinWordLength     = 2
	DefaultTopK              = 10
	DefaultMaxHistory        = 1000
)

// ErrInvalidConfig is returned when a loaded configuration fails validation.
var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	Database   Database   `toml:"database"`
	Dictionary Dictionary `toml:"dictionary"`
	Embedding  Embedding  `toml:"embedding"`
	Matching   Matching   `toml:"matching"`
	Index      Index      `toml:"index"`
	History    History    `toml:"history"`
}

type Database struct {
	Path     string `toml:"path"`
	InMemory bool   `toml:"in_memory"`
}

type Dictionary struct {
	Path string `toml:"path"` // CSV or TSV with term,label columns
}

type Embedding struct {
	Host      string `toml:"host"`
	Model     string `toml:"model"`
	Token     string `toml:"token"`
	CacheSize int    `toml:"cache_size"` // query embeddings kept in memory, 0 disables
}

type Matching struct {
	Retriever         string  `toml:"retriever"` // "vector" or "lexical"
	SemanticThreshold float64 `toml:"semantic_threshold"`
	TextThreshold     float64 `toml:"text_threshold"`
	SimilarThreshold  float64 `toml:"similar_threshold"`
	SimilarLimit      int     `toml:"similar_limit"`
	MinWordLength     int     `toml:"min_word_length"`
	TopK              int     `toml:"top_k"`
	PoolSize          int     `toml:"pool_size"` // 0 = NumCPU
}

type Index struct {
	BatchSize    int  `toml:"batch_size"`
	Concurrency  int  `toml:"concurrency"`
	MaxRetries   int  `toml:"max_retries"`
	RetryDelayMs int  `toml:"retry_delay_ms"`
	Auto         bool `toml:"auto"` // build on startup when stale
}

type History struct {
	MaxRecords int `toml:"max_records"`
}

// Default returns the built-in configuration.
func Default() *Config {
	aiCfg := ai.DefaultConfig()
	indexCfg := indexer.DefaultConfig()
	return &Config{
		Database: Database{
			Path: "./termstd.db",
		},
		Dictionary: Dictionary{
			Path: "./data/terms.csv",
		},
		Embedding: Embedding{
			Host:      aiCfg.EmbeddingHost,
			Model:     aiCfg.EmbeddingModel,
			Token:     aiCfg.APIToken,
			CacheSize: retrieval.DefaultCacheSize,
		},
		Matching: Matching{
			Retriever:         "vector",
			SemanticThreshold: DefaultSemanticThreshold,
			TextThreshold:     DefaultTextThreshold,
			SimilarThreshold:  DefaultSimilarThreshold,
			SimilarLimit:      DefaultSimilarLimit,
			MinWordLength:     DefaultMinWordLength,
			TopK:              DefaultTopK,
		},
		Index: Index{
			BatchSize:    indexCfg.BatchSize,
			Concurrency:  indexCfg.Concurrency,
			MaxRetries:   indexCfg.MaxRetries,
			RetryDelayMs: int(indexCfg.RetryDelay / time.Millisecond),
		},
		History: History{
			MaxRecords: DefaultMaxHistory,
		},
	}
}

// Load reads the TOML file at path over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes TOML over the defaults and validates the result.
// Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Write encodes cfg as TOML.
func (c *Config) Write(w io.Writer) error {
	enc := toml.NewEncoder(w)
	return enc.Encode(c)
}

// Validate checks ranges and enumerations.
func (c *Config) Validate() error {
	var errs []error
	thresholds := []struct {
		name  string
		value float64
	}{
		{"matching.semantic_threshold", c.Matching.SemanticThreshold},
		{"matching.text_threshold", c.Matching.TextThreshold},
		{"matching.similar_threshold", c.Matching.SimilarThreshold},
	}
	for _, th := range thresholds {
		if err := core.ValidateThreshold(th.value); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", th.name, err))
		}
	}
	if c.Matching.Retriever != "vector" && c.Matching.Retriever != "lexical" {
		errs = append(errs, fmt.Errorf("matching.retriever must be vector or lexical, got %q", c.Matching.Retriever))
	}
	if c.Matching.SimilarLimit < 1 {
		errs = append(errs, fmt.Errorf("matching.similar_limit must be positive, got %d", c.Matching.SimilarLimit))
	}
	if c.Matching.MinWordLength < 0 {
		errs = append(errs, fmt.Errorf("matching.min_word_length must not be negative, got %d", c.Matching.MinWordLength))
	}
	if c.Matching.TopK < 1 || c.Matching.TopK > 100 {
		errs = append(errs, fmt.Errorf("matching.top_k must be between 1 and 100, got %d", c.Matching.TopK))
	}
	if c.Embedding.CacheSize < 0 {
		errs = append(errs, fmt.Errorf("embedding.cache_size must not be negative, got %d", c.Embedding.CacheSize))
	}
	if c.Index.BatchSize < 1 || c.Index.Concurrency < 1 || c.Index.MaxRetries < 1 {
		errs = append(errs, errors.New("index.batch_size, index.concurrency and index.max_retries must be positive"))
	}
	if c.History.MaxRecords < 1 {
		errs = append(errs, fmt.Errorf("history.max_records must be positive, got %d", c.History.MaxRecords))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// AIConfig returns the embedding service settings.
func (c *Config) AIConfig() *ai.Config {
	return ai.NewConfig(
		ai.WithEmbeddingHost(c.Embedding.Host),
		ai.WithEmbeddingModel(c.Embedding.Model),
		ai.WithAPIToken(c.Embedding.Token),
	)
}

// IndexConfig returns the index build settings.
func (c *Config) IndexConfig() *indexer.Config {
	cfg := indexer.DefaultConfig()
	cfg.BatchSize = c.Index.BatchSize
	cfg.Concurrency = c.Index.Concurrency
	cfg.MaxRetries = c.Index.MaxRetries
	cfg.RetryDelay = time.Duration(c.Index.RetryDelayMs) * time.Millisecond
	cfg.Model = c.Embedding.Model
	return cfg
}
