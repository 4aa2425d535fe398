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


package retrieval

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"github.com/hbollon/go-edlib"

	"github.com/poiesic/termstd/core"
	"github.com/poiesic/termstd/dictionary"
)

// LexicalRetriever scores dictionary terms by Jaro-Winkler similarity of
// their lowercased text to the query.
type LexicalRetriever struct {
	dict      *dictionary.Dictionary
	texts     []string
	lowered   []string
	algorithm edlib.Algorithm
}

var _ Retriever = (*LexicalRetriever)(nil)

// NewLexicalRetriever creates a retriever over dict.
func NewLexicalRetriever(dict *dictionary.Dictionary) *LexicalRetriever {
	texts := dict.Texts()
	lowered := make([]string, len(texts))
	for i, text := range texts {
		lowered[i] = strings.ToLower(text)
	}
	return &LexicalRetriever{
		dict:      dict,
		texts:     texts,
		lowered:   lowered,
		algorithm: edlib.JaroWinkler,
	}
}

// Initialized reports whether the dictionary holds any terms.
func (r *LexicalRetriever) Initialized() bool {
	return len(r.texts) > 0
}

// SearchSimilar ranks every term against query and returns the topK best.
func (r *LexicalRetriever) SearchSimilar(ctx context.Context, query string, topK int) ([]core.SemanticHit, error) {
	if !r.Initialized() {
		return nil, ErrNotInitialized
	}
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" || topK <= 0 {
		return nil, nil
	}

	hits := make([]core.SemanticHit, 0, len(r.texts))
	for i, term := range r.lowered {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		sim := r.similarity(query, term)
		hits = append(hits, core.SemanticHit{
			Term:       r.texts[i],
			Similarity: core.Round(sim, 4),
			Distance:   1 - sim,
		})
	}

	slices.SortStableFunc(hits, func(a, b core.SemanticHit) int {
		return cmp.Compare(a.Distance, b.Distance)
	})
	if len(hits) > topK {
		hits = hits[:topK]
	}
	return hits, nil
}

func (r *LexicalRetriever) similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	score, err := edlib.StringsSimilarity(a, b, r.algorithm)
	if err != nil {
		return 0.0
	}
	return float64(score)
}
