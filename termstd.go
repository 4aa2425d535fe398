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


package termstd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/abadojack/whatlanggo"
	"github.com/poiesic/termstd/ai"
	"github.com/poiesic/termstd/ai/openai"
	"github.com/poiesic/termstd/core"
	"github.com/poiesic/termstd/dictionary"
	"github.com/poiesic/termstd/indexer"
	"github.com/poiesic/termstd/retrieval"
	"github.com/poiesic/termstd/standardize"
	"github.com/poiesic/termstd/storage"
	"github.com/poiesic/termstd/storage/badger"
)

// History record types.
const (
	HistorySearch               = "search"
	HistoryStandardize          = "standardize"
	HistoryBatchStandardize     = "batch_standardize"
	HistorySimilar              = "similar"
	HistoryTextStandardize      = "text_standardize"
	HistoryBatchTextStandardize = "batch_text_standardize"
)

const (
	// MaxTopK bounds the result count of a raw search.
	MaxTopK = 100

	maxHistoryQueryRunes  = 100
	minLanguageConfidence = 0.5
)

// RetrieverKind selects how semantic candidates are produced.
type RetrieverKind string

const (
	// RetrieverVector searches embeddings stored in the database.
	RetrieverVector RetrieverKind = "vector"
	// RetrieverLexical scores dictionary terms by string similarity, offline.
	RetrieverLexical RetrieverKind = "lexical"
)

// Service is the entry point for term standardization.
type Service struct {
	backend      *badger.Backend
	termRepo     storage.TermRepository
	historyRepo  storage.HistoryRepository
	dict         *dictionary.Dictionary
	provider     ai.AIProvider
	retriever    retrieval.Retriever
	vector       *retrieval.VectorRetriever
	standardizer *standardize.Standardizer
	indexConfig  *indexer.Config
	progress     io.Writer
	kind         RetrieverKind
	logger       *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*serviceOptions)

type serviceOptions struct {
	aiConfig    *ai.Config
	provider    ai.AIProvider
	kind        RetrieverKind
	inMemory    bool
	maxHistory  int
	indexConfig *indexer.Config
	progress    io.Writer
	logger      *slog.Logger
	poolSize    int
	cacheSize   int
	autoIndex   bool
}

// WithAIConfig sets the embedding service configuration.
func WithAIConfig(config *ai.Config) ServiceOption {
	return func(o *serviceOptions) {
		o.aiConfig = config
	}
}

// WithProvider uses provider instead of creating an OpenAI-compatible one.
// The service takes ownership and closes it.
func WithProvider(provider ai.AIProvider) ServiceOption {
	return func(o *serviceOptions) {
		o.provider = provider
	}
}

// WithRetriever selects the retriever kind. Default is RetrieverVector.
func WithRetriever(kind RetrieverKind) ServiceOption {
	return func(o *serviceOptions) {
		o.kind = kind
	}
}

// WithInMemory keeps the database in memory. The file path is ignored.
func WithInMemory() ServiceOption {
	return func(o *serviceOptions) {
		o.inMemory = true
	}
}

// WithMaxHistory caps the number of history records kept.
func WithMaxHistory(n int) ServiceOption {
	return func(o *serviceOptions) {
		o.maxHistory = n
	}
}

// WithIndexConfig sets the index build configuration.
func WithIndexConfig(config *indexer.Config) ServiceOption {
	return func(o *serviceOptions) {
		o.indexConfig = config
	}
}

// WithProgress sets where index build progress is written.
func WithProgress(w io.Writer) ServiceOption {
	return func(o *serviceOptions) {
		o.progress = w
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(o *serviceOptions) {
		o.logger = logger
	}
}

// WithPoolSize sets the worker pool size of batch operations.
func WithPoolSize(size int) ServiceOption {
	return func(o *serviceOptions) {
		o.poolSize = size
	}
}

// WithCacheSize sets how many query embeddings are cached.
func WithCacheSize(n int) ServiceOption {
	return func(o *serviceOptions) {
		o.cacheSize = n
	}
}

// WithAutoIndex builds the vector index during NewService when it is not current.
func WithAutoIndex() ServiceOption {
	return func(o *serviceOptions) {
		o.autoIndex = true
	}
}

// NewService opens the database at filePath and wires a standardizer over dict.
func NewService(ctx context.Context, filePath string, dict *dictionary.Dictionary, opts ...ServiceOption) (*Service, error) {
	if dict == nil {
		return nil, standardize.ErrDictionaryRequired
	}

	options := &serviceOptions{
		aiConfig:   ai.DefaultConfig(),
		kind:       RetrieverVector,
		maxHistory: badger.DefaultMaxHistoryRecords,
		cacheSize:  retrieval.DefaultCacheSize,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}
	if options.kind != RetrieverVector && options.kind != RetrieverLexical {
		return nil, fmt.Errorf("unknown retriever kind %q", options.kind)
	}

	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	s := &Service{
		backend:     backend,
		dict:        dict,
		kind:        options.kind,
		progress:    options.progress,
		indexConfig: options.indexConfig,
		logger:      options.logger.With("component", "termstd"),
	}

	if err := s.init(ctx, options); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func (s *Service) init(ctx context.Context, options *serviceOptions) error {
	var err error
	if s.termRepo, err = badger.NewTermRepository(s.backend); err != nil {
		return err
	}
	if s.historyRepo, err = badger.NewHistoryRepository(s.backend, badger.WithMaxRecords(options.maxHistory)); err != nil {
		return err
	}

	switch s.kind {
	case RetrieverLexical:
		s.retriever = retrieval.NewLexicalRetriever(s.dict)
	default:
		s.provider = options.provider
		if s.provider == nil {
			if s.provider, err = openai.NewProvider(options.aiConfig); err != nil {
				return err
			}
		}
		if s.indexConfig == nil {
			s.indexConfig = indexer.DefaultConfig()
		}
		if s.indexConfig.Model == "" && options.aiConfig != nil {
			s.indexConfig.Model = options.aiConfig.EmbeddingModel
		}
		s.vector, err = retrieval.NewVectorRetriever(s.provider.Embedder(), s.termRepo,
			retrieval.WithLogger(options.logger.With("component", "vector-retriever")),
			retrieval.WithCacheSize(options.cacheSize))
		if err != nil {
			return err
		}
		if err := s.vector.Load(ctx); err != nil {
			return err
		}
		s.retriever = s.vector
	}

	stdOpts := []standardize.Option{standardize.WithLogger(options.logger.With("component", "standardizer"))}
	if options.poolSize > 0 {
		stdOpts = append(stdOpts, standardize.WithPoolSize(options.poolSize))
	}
	if s.standardizer, err = standardize.New(s.dict, s.retriever, stdOpts...); err != nil {
		return err
	}

	if options.autoIndex && s.kind == RetrieverVector {
		if _, err := s.BuildIndex(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the worker pool, the provider and the database.
func (s *Service) Close() error {
	if s.standardizer != nil {
		s.standardizer.Release()
	}
	if s.provider != nil {
		if err := s.provider.Close(); err != nil {
			s.logger.Error("error closing AI provider", "err", err)
		}
	}
	if s.historyRepo != nil {
		if err := s.historyRepo.Close(); err != nil {
			s.logger.Error("error closing history repository", "err", err)
			return err
		}
	}
	if s.termRepo != nil {
		if err := s.termRepo.Close(); err != nil {
			s.logger.Error("error closing term repository", "err", err)
			return err
		}
	}
	if err := s.backend.Close(); err != nil {
		s.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// Dictionary returns the canonical dictionary.
func (s *Service) Dictionary() *dictionary.Dictionary {
	return s.dict
}

// Standardizer returns the underlying standardizer.
func (s *Service) Standardizer() *standardize.Standardizer {
	return s.standardizer
}

// TermRepository returns the vector index store.
func (s *Service) TermRepository() storage.TermRepository {
	return s.termRepo
}

// HistoryRepository returns the history log store.
func (s *Service) HistoryRepository() storage.HistoryRepository {
	return s.historyRepo
}

// RetrieverKind reports which retriever the service uses.
func (s *Service) RetrieverKind() RetrieverKind {
	return s.kind
}

// BuildIndex embeds the dictionary into the vector index unless it is
// already current, then makes the index available to queries.
func (s *Service) BuildIndex(ctx context.Context) (*indexer.Result, error) {
	if s.vector == nil {
		return nil, ErrIndexUnsupported
	}
	ix, err := indexer.NewIndexer(s.termRepo, s.provider.Embedder(), s.indexConfig, s.progress)
	if err != nil {
		return nil, err
	}
	result, err := ix.Run(ctx, s.dict)
	if err != nil {
		return nil, err
	}
	if err := s.vector.Load(ctx); err != nil {
		return nil, err
	}
	return result, nil
}

// Search returns the topK terms closest to query without any thresholding.
func (s *Service) Search(ctx context.Context, query string, topK int) ([]core.SemanticHit, error) {
	if topK < 1 || topK > MaxTopK {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidTopK, topK)
	}
	if !s.retriever.Initialized() {
		return nil, retrieval.ErrNotInitialized
	}
	hits, err := s.retriever.SearchSimilar(ctx, query, topK)
	if err != nil {
		return nil, err
	}
	if hits == nil {
		hits = []core.SemanticHit{}
	}
	s.record(ctx, query, HistorySearch, len(hits))
	return hits, nil
}

// Standardize resolves query to a standard term.
func (s *Service) Standardize(ctx context.Context, query string, threshold float64) (core.MatchResult, error) {
	if err := core.ValidateThreshold(threshold); err != nil {
		return core.MatchResult{}, err
	}
	result := s.standardizer.Standardize(ctx, query, threshold)
	s.record(ctx, query, HistoryStandardize, matchedCount(result))
	return result, nil
}

// BatchStandardize resolves each query independently.
func (s *Service) BatchStandardize(ctx context.Context, queries []string, threshold float64) ([]core.MatchResult, error) {
	if err := core.ValidateThreshold(threshold); err != nil {
		return nil, err
	}
	results := s.standardizer.BatchStandardize(ctx, queries, threshold)
	matched := 0
	for _, result := range results {
		matched += matchedCount(result)
	}
	s.recordBatch(ctx, fmt.Sprintf("batch of %d terms", len(queries)), queries, HistoryBatchStandardize, matched)
	return results, nil
}

// SimilarTerms returns up to limit terms close to term, excluding term itself.
func (s *Service) SimilarTerms(ctx context.Context, term string, limit int, threshold float64) ([]core.SimilarTerm, error) {
	if limit < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidLimit, limit)
	}
	if err := core.ValidateThreshold(threshold); err != nil {
		return nil, err
	}
	similar := s.standardizer.SimilarTerms(ctx, term, limit, threshold)
	s.record(ctx, term, HistorySimilar, len(similar))
	return similar, nil
}

// StandardizeText identifies terms in text and replaces them with their standard form.
func (s *Service) StandardizeText(ctx context.Context, text string, threshold float64, minWordLength int) (core.TextStandardizationResult, error) {
	return s.StandardizeTextWithMonitor(ctx, text, threshold, minWordLength, nil)
}

// StandardizeTextWithMonitor is StandardizeText with monitoring.
func (s *Service) StandardizeTextWithMonitor(ctx context.Context, text string, threshold float64, minWordLength int, monitor standardize.TextMonitor) (core.TextStandardizationResult, error) {
	if err := core.ValidateThreshold(threshold); err != nil {
		return core.TextStandardizationResult{}, err
	}
	result := s.standardizer.IdentifyAndReplaceWithMonitor(ctx, text, threshold, minWordLength, monitor)
	s.record(ctx, text, HistoryTextStandardize, len(result.Replacements))
	return result, nil
}

// BatchStandardizeText processes each text independently.
func (s *Service) BatchStandardizeText(ctx context.Context, texts []string, threshold float64, minWordLength int) ([]core.TextStandardizationResult, error) {
	if err := core.ValidateThreshold(threshold); err != nil {
		return nil, err
	}
	results := s.standardizer.BatchIdentifyAndReplace(ctx, texts, threshold, minWordLength)
	replaced := 0
	for _, result := range results {
		replaced += len(result.Replacements)
	}
	s.recordBatch(ctx, fmt.Sprintf("batch of %d texts", len(texts)), texts, HistoryBatchTextStandardize, replaced)
	return results, nil
}

// History returns the newest history records, optionally restricted to one type.
// A non-positive limit returns every record.
func (s *Service) History(ctx context.Context, limit int, recordType string) ([]*core.HistoryRecord, error) {
	if recordType != "" {
		return s.historyRepo.RecordsByType(ctx, recordType, limit)
	}
	return s.historyRepo.RecentRecords(ctx, limit)
}

// ClearHistory deletes every history record.
func (s *Service) ClearHistory(ctx context.Context) error {
	return s.historyRepo.ClearHistory(ctx)
}

// Health is the result of Service.Health.
type Health struct {
	Status   string          `json:"status"`
	Services map[string]bool `json:"services"`
}

// Health reports which components are usable.
func (s *Service) Health() Health {
	return Health{
		Status: "healthy",
		Services: map[string]bool{
			"dictionary":   s.dict.Len() > 0,
			"standardizer": s.standardizer != nil,
			"retriever":    s.retriever != nil && s.retriever.Initialized(),
			"history":      s.historyRepo != nil && !s.backend.IsClosed(),
		},
	}
}

// Stats is the result of Service.Stats.
type Stats struct {
	Data      dictionary.Stats   `json:"data"`
	Retriever RetrieverKind      `json:"retriever"`
	Index     *core.IndexMeta    `json:"index,omitempty"`
	History   *core.HistoryStats `json:"history"`
}

// Stats describes the dictionary, the vector index and the history log.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	history, err := s.historyRepo.Stats(ctx)
	if err != nil {
		return nil, err
	}
	meta, err := s.termRepo.LoadIndexMeta(ctx)
	if err != nil {
		return nil, err
	}
	return &Stats{
		Data:      s.dict.Stats(),
		Retriever: s.kind,
		Index:     meta,
		History:   history,
	}, nil
}

func (s *Service) record(ctx context.Context, query, recordType string, results int) {
	s.addHistory(ctx, truncateQuery(query), detectLanguage(query), recordType, results)
}

func (s *Service) recordBatch(ctx context.Context, summary string, items []string, recordType string, results int) {
	s.addHistory(ctx, summary, detectLanguage(strings.Join(items, " ")), recordType, results)
}

// addHistory never fails the calling operation.
func (s *Service) addHistory(ctx context.Context, query, language, recordType string, results int) {
	_, err := s.historyRepo.AddRecord(ctx, &core.HistoryRecord{
		Query:        query,
		Type:         recordType,
		ResultsCount: results,
		Language:     language,
	})
	if err != nil {
		s.logger.Warn("failed to record history", "type", recordType, "err", err)
	}
}

func matchedCount(result core.MatchResult) int {
	if result.Matched() {
		return 1
	}
	return 0
}

func truncateQuery(query string) string {
	if utf8.RuneCountInString(query) <= maxHistoryQueryRunes {
		return query
	}
	runes := []rune(query)
	return string(runes[:maxHistoryQueryRunes]) + "..."
}

func detectLanguage(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	info := whatlanggo.Detect(text)
	if info.Confidence < minLanguageConfidence {
		return ""
	}
	return info.Lang.Iso6391()
}
