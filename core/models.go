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

package core

import (
	"encoding/binary"
	"math"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// Terms use content-based IDs derived from their normalized key.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// TermID returns the ID of a canonical term text. Texts that differ only in
// surrounding whitespace or letter case share an ID.
func TermID(text string) ID {
	return IDFromContent(NormalizeKey(text))
}

// MatchType classifies how a query was resolved to a standard term.
type MatchType string

const (
	// MatchExact is a case-insensitive dictionary hit.
	MatchExact MatchType = "exact"
	// MatchSemantic is a retrieval hit at or above the threshold.
	MatchSemantic MatchType = "semantic"
	// MatchSemanticLow is a retrieval hit below the threshold. No standard term is chosen.
	MatchSemanticLow MatchType = "semantic_low"
	// MatchNone means neither path produced a result.
	MatchNone MatchType = "none"
)

// SourceSemantic labels candidates produced by semantic retrieval.
const SourceSemantic = "semantic"

// CanonicalTerm is an entry of the standard terminology dictionary.
type CanonicalTerm struct {
	Id         ID
	Text       string
	Label      string
	Vector     []float32 // Embedding vector (populated by the indexer)
	InsertedAt time.Time
}

// Key returns the normalized lookup key of the term.
func (t *CanonicalTerm) Key() string {
	return NormalizeKey(t.Text)
}

// IndexMeta describes the vector index as it was last built.
type IndexMeta struct {
	Model      string    `json:"model"`
	Dimensions int       `json:"dimensions"`
	TermCount  int       `json:"term_count"`
	BuiltAt    time.Time `json:"built_at"`
}

// SemanticHit is a single result returned by semantic retrieval, best-first.
type SemanticHit struct {
	Term       string  `json:"term"`
	Similarity float64 `json:"similarity"`
	Distance   float64 `json:"distance"`
}

// Candidate is a ranked alternative attached to a MatchResult.
type Candidate struct {
	Term       string  `json:"term"`
	Score      float64 `json:"score"`
	Similarity float64 `json:"similarity"`
	Source     string  `json:"source"`
}

// MatchResult is the outcome of standardizing a single query.
type MatchResult struct {
	Query        string      `json:"query"`
	StandardTerm string      `json:"standard_term,omitempty"` // empty unless exact or semantic
	Score        float64     `json:"score"`
	Similarity   float64     `json:"similarity"`
	MatchType    MatchType   `json:"match_type"`
	Message      string      `json:"message"`
	Candidates   []Candidate `json:"candidates"`
}

// Matched reports whether a standard term was chosen.
func (r *MatchResult) Matched() bool {
	return r.MatchType == MatchExact || r.MatchType == MatchSemantic
}

// SimilarTerm is an entry returned by a similar-terms lookup.
type SimilarTerm struct {
	Term       string  `json:"term"`
	Similarity float64 `json:"similarity"`
}

// IdentifiedTerm is a text candidate confirmed to map to a different standard term.
type IdentifiedTerm struct {
	Original   string    `json:"original"`
	Standard   string    `json:"standard"`
	Similarity float64   `json:"similarity"`
	MatchType  MatchType `json:"match_type"`
}

// ReplacementRecord describes the substitutions applied for one identified term.
type ReplacementRecord struct {
	Original   string    `json:"original"`
	Standard   string    `json:"standard"`
	Count      int       `json:"count"`
	Similarity float64   `json:"similarity"`
	MatchType  MatchType `json:"match_type"`
}

// TextStandardizationResult is the outcome of identifying and replacing terms in a text.
type TextStandardizationResult struct {
	OriginalText      string              `json:"original_text"`
	ProcessedText     string              `json:"processed_text"`
	IdentifiedTerms   []IdentifiedTerm    `json:"identified_terms"`
	Replacements      []ReplacementRecord `json:"replacements"`
	TotalReplacements int                 `json:"total_replacements"`
	Message           string              `json:"message"`
}

// HistoryRecord is one entry of the append-only call history.
type HistoryRecord struct {
	Id           ID        `json:"-"`
	Query        string    `json:"query"`
	Type         string    `json:"type"`
	ResultsCount int       `json:"results_count"`
	Language     string    `json:"language,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// HistoryStats summarizes the history log.
type HistoryStats struct {
	TotalRecords int            `json:"total_records"`
	TypeCounts   map[string]int `json:"type_counts"`
	OldestRecord *time.Time     `json:"oldest_record"`
	NewestRecord *time.Time     `json:"newest_record"`
}

// Score converts a similarity in [0,1] to a percentage rounded to two decimals.
func Score(similarity float64) float64 {
	return Round(similarity*100, 2)
}

// Round rounds v to the given number of decimal places.
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
