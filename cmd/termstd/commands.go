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


package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/poiesic/termstd"
	"github.com/poiesic/termstd/config"
	"github.com/poiesic/termstd/dictionary"
	"github.com/urfave/cli/v2"
)

// loadConfig reads the configuration file, if any, and overlays global flags
// and their environment variables.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg := config.Default()
	if path := c.String("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if c.IsSet("db") {
		cfg.Database.Path = c.String("db")
	}
	if c.Bool("in-memory") {
		cfg.Database.InMemory = true
	}
	if c.IsSet("dictionary") {
		cfg.Dictionary.Path = c.String("dictionary")
	}
	if c.IsSet("retriever") {
		cfg.Matching.Retriever = c.String("retriever")
	}
	if c.IsSet("embedding-host") {
		cfg.Embedding.Host = c.String("embedding-host")
	}
	if c.IsSet("embedding-model") {
		cfg.Embedding.Model = c.String("embedding-model")
	}
	if c.IsSet("api-token") {
		cfg.Embedding.Token = c.String("api-token")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func openService(c *cli.Context, cfg *config.Config, extra ...termstd.ServiceOption) (*termstd.Service, error) {
	dict, err := dictionary.LoadCSV(cfg.Dictionary.Path)
	if err != nil {
		return nil, err
	}

	opts := []termstd.ServiceOption{
		termstd.WithAIConfig(cfg.AIConfig()),
		termstd.WithRetriever(termstd.RetrieverKind(cfg.Matching.Retriever)),
		termstd.WithMaxHistory(cfg.History.MaxRecords),
		termstd.WithIndexConfig(cfg.IndexConfig()),
		termstd.WithCacheSize(cfg.Embedding.CacheSize),
		termstd.WithProgress(c.App.ErrWriter),
	}
	if cfg.Database.InMemory {
		opts = append(opts, termstd.WithInMemory())
	}
	if cfg.Matching.PoolSize > 0 {
		opts = append(opts, termstd.WithPoolSize(cfg.Matching.PoolSize))
	}
	if cfg.Index.Auto {
		opts = append(opts, termstd.WithAutoIndex())
	}
	opts = append(opts, extra...)

	return termstd.NewService(c.Context, cfg.Database.Path, dict, opts...)
}

// withService runs fn against a service opened from the command line and
// closes it afterwards.
func withService(c *cli.Context, fn func(cfg *config.Config, svc *termstd.Service) error, extra ...termstd.ServiceOption) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	svc, err := openService(c, cfg, extra...)
	if err != nil {
		return err
	}
	defer svc.Close()
	return fn(cfg, svc)
}

func indexCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	indexConfig := cfg.IndexConfig()
	if c.IsSet("batch-size") {
		indexConfig.BatchSize = c.Int("batch-size")
	}
	if c.IsSet("concurrency") {
		indexConfig.Concurrency = c.Int("concurrency")
	}
	indexConfig.Force = c.Bool("force")

	svc, err := openService(c, cfg, termstd.WithIndexConfig(indexConfig))
	if err != nil {
		return err
	}
	defer svc.Close()

	result, err := svc.BuildIndex(c.Context)
	if err != nil {
		return err
	}
	return printJSON(c.App.Writer, result)
}

func standardizeCommand(c *cli.Context) error {
	query := strings.Join(c.Args().Slice(), " ")
	if strings.TrimSpace(query) == "" {
		return errors.New("a term is required")
	}
	return withService(c, func(cfg *config.Config, svc *termstd.Service) error {
		threshold := floatFlag(c, "threshold", cfg.Matching.SemanticThreshold)
		result, err := svc.Standardize(c.Context, query, threshold)
		if err != nil {
			return err
		}
		return printJSON(c.App.Writer, result)
	})
}

func batchCommand(c *cli.Context) error {
	queries, err := readLines(c, c.Args().First())
	if err != nil {
		return err
	}
	return withService(c, func(cfg *config.Config, svc *termstd.Service) error {
		threshold := floatFlag(c, "threshold", cfg.Matching.SemanticThreshold)
		results, err := svc.BatchStandardize(c.Context, queries, threshold)
		if err != nil {
			return err
		}
		return printJSON(c.App.Writer, map[string]any{
			"results": results,
			"total":   len(results),
		})
	})
}

func similarCommand(c *cli.Context) error {
	term := strings.Join(c.Args().Slice(), " ")
	if strings.TrimSpace(term) == "" {
		return errors.New("a term is required")
	}
	return withService(c, func(cfg *config.Config, svc *termstd.Service) error {
		limit := cfg.Matching.SimilarLimit
		if c.IsSet("limit") {
			limit = c.Int("limit")
		}
		threshold := floatFlag(c, "threshold", cfg.Matching.SimilarThreshold)
		similar, err := svc.SimilarTerms(c.Context, term, limit, threshold)
		if err != nil {
			return err
		}
		return printJSON(c.App.Writer, map[string]any{
			"term":          term,
			"similar_terms": similar,
		})
	})
}

func searchCommand(c *cli.Context) error {
	query := strings.Join(c.Args().Slice(), " ")
	if strings.TrimSpace(query) == "" {
		return errors.New("a query is required")
	}
	return withService(c, func(cfg *config.Config, svc *termstd.Service) error {
		topK := cfg.Matching.TopK
		if c.IsSet("top-k") {
			topK = c.Int("top-k")
		}
		hits, err := svc.Search(c.Context, query, topK)
		if err != nil {
			return err
		}
		return printJSON(c.App.Writer, map[string]any{
			"query":   query,
			"results": hits,
			"count":   len(hits),
		})
	})
}

func replaceCommand(c *cli.Context) error {
	file := c.String("file")
	text := strings.Join(c.Args().Slice(), " ")
	if file == "" && strings.TrimSpace(text) == "" {
		return errors.New("text or --file is required")
	}

	return withService(c, func(cfg *config.Config, svc *termstd.Service) error {
		threshold := floatFlag(c, "threshold", cfg.Matching.TextThreshold)
		minWordLength := cfg.Matching.MinWordLength
		if c.IsSet("min-word-length") {
			minWordLength = c.Int("min-word-length")
		}

		if file != "" {
			texts, err := readLines(c, file)
			if err != nil {
				return err
			}
			results, err := svc.BatchStandardizeText(c.Context, texts, threshold, minWordLength)
			if err != nil {
				return err
			}
			return printJSON(c.App.Writer, map[string]any{
				"results": results,
				"total":   len(results),
			})
		}

		var monitor *traceMonitor
		if c.Bool("trace") {
			monitor = newTraceMonitor(c.App.ErrWriter)
		}
		result, err := svc.StandardizeTextWithMonitor(c.Context, text, threshold, minWordLength, monitor.orNil())
		if err != nil {
			return err
		}
		return printJSON(c.App.Writer, result)
	})
}

func historyListCommand(c *cli.Context) error {
	return withService(c, func(_ *config.Config, svc *termstd.Service) error {
		records, err := svc.History(c.Context, c.Int("limit"), c.String("type"))
		if err != nil {
			return err
		}
		return printJSON(c.App.Writer, map[string]any{
			"history": records,
			"count":   len(records),
		})
	})
}

func historyClearCommand(c *cli.Context) error {
	return withService(c, func(_ *config.Config, svc *termstd.Service) error {
		if err := svc.ClearHistory(c.Context); err != nil {
			return err
		}
		return printJSON(c.App.Writer, map[string]string{"message": "history cleared"})
	})
}

func historyStatsCommand(c *cli.Context) error {
	return withService(c, func(_ *config.Config, svc *termstd.Service) error {
		stats, err := svc.HistoryRepository().Stats(c.Context)
		if err != nil {
			return err
		}
		return printJSON(c.App.Writer, stats)
	})
}

func statsCommand(c *cli.Context) error {
	return withService(c, func(_ *config.Config, svc *termstd.Service) error {
		stats, err := svc.Stats(c.Context)
		if err != nil {
			return err
		}
		return printJSON(c.App.Writer, map[string]any{
			"health": svc.Health(),
			"stats":  stats,
		})
	})
}

func configCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	return cfg.Write(c.App.Writer)
}

func floatFlag(c *cli.Context, name string, fallback float64) float64 {
	if c.IsSet(name) {
		return c.Float64(name)
	}
	return fallback
}

// readLines returns the non-blank lines of path, or of stdin when path is
// empty or "-".
func readLines(c *cli.Context, path string) ([]string, error) {
	var r io.Reader = c.App.Reader
	if path != "" && path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	var lines []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	return lines, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
