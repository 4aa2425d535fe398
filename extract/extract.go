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


package extract

import (
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/dlclark/regexp2"
)

// DefaultMinWordLength is the minimum rune length of single-token candidates.
const DefaultMinWordLength = 2

const token = `[A-Za-z][A-Za-z0-9\-/&]*`

// Candidate is a span of the input text that may be a term.
type Candidate struct {
	// Text is the span exactly as it appears in the input.
	Text string `json:"text"`
	// Key is the lowercase form used for deduplication.
	Key string `json:"key"`
	// Strategy names the strategy that produced the candidate.
	Strategy string `json:"strategy"`
}

// Strategy is one extraction pass.
type Strategy struct {
	name string
	re   *regexp2.Regexp
	// single-token strategies are subject to the minimum word length
	minLength bool
}

// NewStrategy compiles a strategy. When applyMinLength is set, matches
// shorter than the extractor's minimum word length are dropped.
func NewStrategy(name, pattern string, applyMinLength bool) (Strategy, error) {
	re, err := regexp2.Compile(pattern, regexp2.None)
	if err != nil {
		return Strategy{}, fmt.Errorf("compiling strategy %s: %w", name, err)
	}
	return Strategy{name: name, re: re, minLength: applyMinLength}, nil
}

func mustStrategy(name, pattern string, applyMinLength bool) Strategy {
	s, err := NewStrategy(name, pattern, applyMinLength)
	if err != nil {
		panic(err)
	}
	return s
}

// Name returns the strategy name.
func (s Strategy) Name() string {
	return s.name
}

// DefaultStrategies returns the built-in strategies in extraction order.
func DefaultStrategies() []Strategy {
	return []Strategy{
		mustStrategy("word", `\b`+token+`\b`, true),
		mustStrategy("bigram", `\b`+token+`\s+`+token+`\b`, false),
		mustStrategy("trigram", `\b`+token+`\s+`+token+`\s+`+token+`\b`, false),
		mustStrategy("cjk", `[\u4e00-\u9fff]{2,6}`, false),
	}
}

// Extractor runs an ordered list of strategies over text.
// It holds no mutable state and is safe for concurrent use.
type Extractor struct {
	strategies []Strategy
	logger     *slog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor) error

// WithStrategies replaces the default strategies.
func WithStrategies(strategies ...Strategy) Option {
	return func(e *Extractor) error {
		if len(strategies) == 0 {
			return fmt.Errorf("at least one strategy is required")
		}
		e.strategies = strategies
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Extractor) error {
		e.logger = logger
		return nil
	}
}

// New creates an extractor with the default strategies unless overridden.
func New(opts ...Option) (*Extractor, error) {
	e := &Extractor{
		strategies: DefaultStrategies(),
		logger:     slog.Default().With("component", "extractor"),
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// Extract returns the deduplicated candidates of text in strategy order,
// then in order of appearance. A non-positive minWordLength disables the
// length filter.
func (e *Extractor) Extract(text string, minWordLength int) ([]Candidate, error) {
	var (
		candidates []Candidate
		seen       = make(map[string]struct{})
	)

	for _, s := range e.strategies {
		matches, err := findAll(s.re, text)
		if err != nil {
			return nil, fmt.Errorf("strategy %s: %w", s.name, err)
		}
		for _, m := range matches {
			if s.minLength && utf8.RuneCountInString(m) < minWordLength {
				continue
			}
			key := strings.ToLower(m)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			candidates = append(candidates, Candidate{Text: m, Key: key, Strategy: s.name})
		}
	}

	e.logger.Debug("extracted candidates", "count", len(candidates), "text_length", utf8.RuneCountInString(text))
	return candidates, nil
}

// findAll returns every non-overlapping match, left to right.
func findAll(re *regexp2.Regexp, text string) ([]string, error) {
	var out []string
	m, err := re.FindStringMatch(text)
	for m != nil && err == nil {
		out = append(out, m.String())
		m, err = re.FindNextMatch(m)
	}
	return out, err
}
