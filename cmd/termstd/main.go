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
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

func main() {
	// .env is optional; variables already set in the environment win
	_ = godotenv.Load()

	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "termstd",
		Usage: "Standardize financial terminology against a canonical dictionary",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
				EnvVars: []string{"TERMSTD_LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a TOML configuration file",
				EnvVars: []string{"TERMSTD_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "db",
				Aliases: []string{"d"},
				Usage:   "Path to BadgerDB database directory",
				EnvVars: []string{"TERMSTD_DB"},
			},
			&cli.BoolFlag{
				Name:    "in-memory",
				Usage:   "Keep the database in memory (nothing is persisted)",
				EnvVars: []string{"TERMSTD_IN_MEMORY"},
			},
			&cli.StringFlag{
				Name:    "dictionary",
				Aliases: []string{"t"},
				Usage:   "Path to the term dictionary (CSV or TSV with term,label columns)",
				EnvVars: []string{"TERMSTD_DICTIONARY"},
			},
			&cli.StringFlag{
				Name:    "retriever",
				Usage:   "Semantic retriever: vector or lexical",
				EnvVars: []string{"TERMSTD_RETRIEVER"},
			},
			&cli.StringFlag{
				Name:    "embedding-host",
				Usage:   "Embedding service host URL",
				EnvVars: []string{"TERMSTD_EMBEDDING_HOST"},
			},
			&cli.StringFlag{
				Name:    "embedding-model",
				Usage:   "Embedding model name",
				EnvVars: []string{"TERMSTD_EMBEDDING_MODEL"},
			},
			&cli.StringFlag{
				Name:    "api-token",
				Usage:   "Embedding service API token",
				EnvVars: []string{"TERMSTD_API_TOKEN"},
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "index",
				Usage:  "Embed the dictionary into the vector index",
				Action: indexCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Rebuild even if the index is current",
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of terms to embed in each batch",
					},
					&cli.IntFlag{
						Name:  "concurrency",
						Usage: "Number of batches embedded in parallel",
					},
				},
			},
			{
				Name:      "standardize",
				Usage:     "Map a term to its standard form",
				ArgsUsage: "<term>",
				Action:    standardizeCommand,
				Flags:     []cli.Flag{thresholdFlag()},
			},
			{
				Name:      "batch",
				Usage:     "Standardize terms read one per line",
				ArgsUsage: "[file]",
				Action:    batchCommand,
				Flags:     []cli.Flag{thresholdFlag()},
			},
			{
				Name:      "similar",
				Usage:     "List terms similar to a term",
				ArgsUsage: "<term>",
				Action:    similarCommand,
				Flags: []cli.Flag{
					thresholdFlag(),
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"n"},
						Usage:   "Maximum number of terms",
					},
				},
			},
			{
				Name:      "search",
				Usage:     "Raw semantic search over the dictionary",
				ArgsUsage: "<query>",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "top-k",
						Aliases: []string{"k"},
						Usage:   "Number of results (1-100)",
					},
				},
			},
			{
				Name:      "replace",
				Usage:     "Identify terms in text and replace them with standard terms",
				ArgsUsage: "<text> | --file <path>",
				Action:    replaceCommand,
				Flags: []cli.Flag{
					thresholdFlag(),
					&cli.IntFlag{
						Name:  "min-word-length",
						Usage: "Minimum length of single-word candidates",
					},
					&cli.StringFlag{
						Name:    "file",
						Aliases: []string{"f"},
						Usage:   "Process each non-empty line of a file as a separate text",
					},
					&cli.BoolFlag{
						Name:  "trace",
						Usage: "Print each step of identification to stderr",
					},
				},
			},
			{
				Name:  "history",
				Usage: "Inspect the call history",
				Subcommands: []*cli.Command{
					{
						Name:   "list",
						Usage:  "List recent history records",
						Action: historyListCommand,
						Flags: []cli.Flag{
							&cli.IntFlag{
								Name:    "limit",
								Aliases: []string{"n"},
								Usage:   "Maximum number of records (0 for all)",
								Value:   20,
							},
							&cli.StringFlag{
								Name:  "type",
								Usage: "Only records of this type",
							},
						},
					},
					{
						Name:   "clear",
						Usage:  "Delete all history records",
						Action: historyClearCommand,
					},
					{
						Name:   "stats",
						Usage:  "Summarize the history log",
						Action: historyStatsCommand,
					},
				},
			},
			{
				Name:   "stats",
				Usage:  "Show dictionary, index and history statistics",
				Action: statsCommand,
			},
			{
				Name:   "config",
				Usage:  "Print the effective configuration as TOML",
				Action: configCommand,
			},
		},
	}
}

func thresholdFlag() cli.Flag {
	return &cli.Float64Flag{
		Name:  "threshold",
		Usage: "Similarity threshold between 0 and 1 (defaults from configuration)",
	}
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
