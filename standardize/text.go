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


package standardize

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/dlclark/regexp2"
	"github.com/poiesic/termstd/core"
)

// IdentifyAndReplace finds terms in text that map to a different standard
// term and rewrites every whole-word occurrence of them.
func (s *Standardizer) IdentifyAndReplace(ctx context.Context, text string, threshold float64, minWordLength int) core.TextStandardizationResult {
	return s.IdentifyAndReplaceWithMonitor(ctx, text, threshold, minWordLength, nil)
}

// IdentifyAndReplaceWithMonitor is IdentifyAndReplace with monitoring.
// The monitor receives callbacks at each stage of the process.
func (s *Standardizer) IdentifyAndReplaceWithMonitor(ctx context.Context, text string, threshold float64, minWordLength int, monitor TextMonitor) core.TextStandardizationResult {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	monitor.Start(text)

	result := core.TextStandardizationResult{
		OriginalText:    text,
		ProcessedText:   text,
		IdentifiedTerms: []core.IdentifiedTerm{},
		Replacements:    []core.ReplacementRecord{},
	}

	if strings.TrimSpace(text) == "" || !s.SemanticAvailable() {
		result.Message = "text is empty or semantic retrieval is unavailable"
		monitor.Finish(&result)
		return result
	}

	candidates, err := s.extractor.Extract(text, minWordLength)
	if err != nil {
		s.logger.Error("term extraction failed", "err", err)
		result.Message = fmt.Sprintf("term extraction failed: %v", err)
		monitor.Finish(&result)
		return result
	}
	monitor.AfterExtraction(candidates)
	s.logger.Debug("extracted candidate terms", "count", len(candidates))

	for _, candidate := range candidates {
		term, ok := s.identify(ctx, candidate.Text, threshold)
		if !ok {
			continue
		}
		result.IdentifiedTerms = append(result.IdentifiedTerms, term)
		monitor.Identified(term)
	}

	ordered := slices.Clone(result.IdentifiedTerms)
	slices.SortStableFunc(ordered, func(a, b core.IdentifiedTerm) int {
		return utf8.RuneCountInString(b.Original) - utf8.RuneCountInString(a.Original)
	})

	for _, term := range ordered {
		processed, count, err := replaceWholeWord(result.ProcessedText, term.Original, term.Standard)
		if err != nil {
			s.logger.Error("replacement failed", "original", term.Original, "err", err)
			continue
		}
		if count == 0 {
			continue
		}
		result.ProcessedText = processed
		record := core.ReplacementRecord{
			Original:   term.Original,
			Standard:   term.Standard,
			Count:      count,
			Similarity: term.Similarity,
			MatchType:  term.MatchType,
		}
		result.Replacements = append(result.Replacements, record)
		result.TotalReplacements += count
		monitor.Replaced(record)
	}

	result.Message = fmt.Sprintf("identified %d terms, made %d replacements",
		len(result.IdentifiedTerms), result.TotalReplacements)
	s.logger.Info("identified and replaced terms",
		"identified", len(result.IdentifiedTerms),
		"replaced", len(result.Replacements),
		"total_replacements", result.TotalReplacements)
	monitor.Finish(&result)
	return result
}

// BatchIdentifyAndReplace processes each text independently. Results are
// positionally aligned with texts.
func (s *Standardizer) BatchIdentifyAndReplace(ctx context.Context, texts []string, threshold float64, minWordLength int) []core.TextStandardizationResult {
	results := make([]core.TextStandardizationResult, len(texts))
	for i, text := range texts {
		results[i] = core.TextStandardizationResult{
			OriginalText:    text,
			ProcessedText:   text,
			IdentifiedTerms: []core.IdentifiedTerm{},
			Replacements:    []core.ReplacementRecord{},
			Message:         "text standardization failed",
		}
	}
	s.forEach(len(texts), func(i int) {
		results[i] = s.IdentifyAndReplace(ctx, texts[i], threshold, minWordLength)
	})
	s.logger.Info("batch identified and replaced terms", "count", len(texts))
	return results
}

// identify resolves a single candidate. An exact hit is final: it is
// reported only when the spelling differs and never falls through to
// retrieval.
func (s *Standardizer) identify(ctx context.Context, candidate string, threshold float64) (core.IdentifiedTerm, bool) {
	if standard, ok := s.dict.ExactMatch(candidate); ok {
		if standard == candidate {
			return core.IdentifiedTerm{}, false
		}
		return core.IdentifiedTerm{
			Original:   candidate,
			Standard:   standard,
			Similarity: 1,
			MatchType:  core.MatchExact,
		}, true
	}

	hits, err := s.retriever.SearchSimilar(ctx, candidate, 1)
	if err != nil {
		s.logger.Error("identifying candidate failed", "candidate", candidate, "err", err)
		return core.IdentifiedTerm{}, false
	}
	if len(hits) == 0 {
		return core.IdentifiedTerm{}, false
	}

	best := hits[0]
	if best.Similarity < threshold || core.EqualFold(best.Term, candidate) {
		return core.IdentifiedTerm{}, false
	}
	return core.IdentifiedTerm{
		Original:   candidate,
		Standard:   best.Term,
		Similarity: core.Round(best.Similarity, 4),
		MatchType:  core.MatchSemantic,
	}, true
}

// replaceWholeWord replaces every case-insensitive whole-word occurrence of
// original in text with the literal replacement and returns the count.
func replaceWholeWord(text, original, replacement string) (string, int, error) {
	re, err := regexp2.Compile(`\b`+regexp2.Escape(original)+`\b`, regexp2.IgnoreCase)
	if err != nil {
		return text, 0, err
	}
	count := 0
	out, err := re.ReplaceFunc(text, func(regexp2.Match) string {
		count++
		return replacement
	}, -1, -1)
	if err != nil {
		return text, 0, err
	}
	return out, count, nil
}
