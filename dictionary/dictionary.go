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


package dictionary

import (
	"github.com/poiesic/termstd/core"
)

// Stats summarizes a dictionary.
type Stats struct {
	TotalTerms   int    `json:"total_terms"`
	UniqueLabels int    `json:"unique_labels"`
	Source       string `json:"data_file,omitempty"`
}

// Dictionary is an immutable set of canonical terms indexed by normalized key.
// It is safe for concurrent use.
type Dictionary struct {
	terms  []core.CanonicalTerm
	index  map[string]int
	source string
}

// New builds a dictionary from terms. Terms are trimmed; blank terms are
// dropped and, among terms sharing a normalized key, the first one wins.
func New(source string, terms ...core.CanonicalTerm) *Dictionary {
	d := &Dictionary{
		terms:  make([]core.CanonicalTerm, 0, len(terms)),
		index:  make(map[string]int, len(terms)),
		source: source,
	}
	for _, term := range terms {
		term.Text = trim(term.Text)
		term.Label = trim(term.Label)
		if core.ValidateTerm(&term) != nil {
			continue
		}
		key := term.Key()
		if _, dup := d.index[key]; dup {
			continue
		}
		if term.Id == 0 {
			term.Id = core.IDFromContent(key)
		}
		d.index[key] = len(d.terms)
		d.terms = append(d.terms, term)
	}
	return d
}

// FromTexts builds an unlabeled dictionary from plain term texts.
func FromTexts(texts ...string) *Dictionary {
	terms := make([]core.CanonicalTerm, len(texts))
	for i, text := range texts {
		terms[i] = core.CanonicalTerm{Text: text}
	}
	return New("", terms...)
}

// ExactMatch returns the canonical spelling of query when the dictionary
// holds a term equal to it ignoring case and surrounding whitespace.
func (d *Dictionary) ExactMatch(query string) (string, bool) {
	term, ok := d.Lookup(query)
	if !ok {
		return "", false
	}
	return term.Text, true
}

// Lookup returns the full entry for query. See ExactMatch.
func (d *Dictionary) Lookup(query string) (core.CanonicalTerm, bool) {
	if d == nil {
		return core.CanonicalTerm{}, false
	}
	i, ok := d.index[core.NormalizeKey(query)]
	if !ok {
		return core.CanonicalTerm{}, false
	}
	return d.terms[i], true
}

// Len returns the number of terms.
func (d *Dictionary) Len() int {
	if d == nil {
		return 0
	}
	return len(d.terms)
}

// Terms returns a copy of the terms in load order.
func (d *Dictionary) Terms() []core.CanonicalTerm {
	out := make([]core.CanonicalTerm, len(d.terms))
	copy(out, d.terms)
	return out
}

// Texts returns the term texts in load order.
func (d *Dictionary) Texts() []string {
	out := make([]string, len(d.terms))
	for i, term := range d.terms {
		out[i] = term.Text
	}
	return out
}

// Source returns the path the dictionary was loaded from, if any.
func (d *Dictionary) Source() string {
	return d.source
}

// Stats reports term and label counts.
func (d *Dictionary) Stats() Stats {
	labels := make(map[string]struct{})
	for _, term := range d.terms {
		if term.Label != "" {
			labels[term.Label] = struct{}{}
		}
	}
	return Stats{
		TotalTerms:   len(d.terms),
		UniqueLabels: len(labels),
		Source:       d.source,
	}
}
