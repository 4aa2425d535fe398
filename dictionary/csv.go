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
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/poiesic/termstd/core"
)

const (
	termColumn  = "term"
	labelColumn = "label"
)

// LoadCSV reads a dictionary from a CSV file with a header row naming a term
// column and, optionally, a label column. Files ending in .tsv are read as
// tab separated.
func LoadCSV(path string) (*Dictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	comma := ','
	if strings.EqualFold(filepath.Ext(path), ".tsv") {
		comma = '\t'
	}
	dict, err := Read(f, comma)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	dict.source = path
	return dict, nil
}

// Read parses term,label rows from r. The header is matched case-insensitively.
func Read(r io.Reader, comma rune) (*Dictionary, error) {
	reader := csv.NewReader(r)
	reader.Comma = comma
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrEmptyDictionary
	}

	termCol, labelCol := -1, -1
	for i, cell := range rows[0] {
		switch strings.ToLower(cleanCell(cell)) {
		case termColumn:
			termCol = i
		case labelColumn:
			labelCol = i
		}
	}
	if termCol < 0 {
		return nil, fmt.Errorf("%w: header %q", ErrMissingTermColumn, rows[0])
	}

	terms := make([]core.CanonicalTerm, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if termCol >= len(row) {
			continue
		}
		term := core.CanonicalTerm{Text: cleanCell(row[termCol])}
		if labelCol >= 0 && labelCol < len(row) {
			term.Label = cleanCell(row[labelCol])
		}
		terms = append(terms, term)
	}

	dict := New("", terms...)
	if dict.Len() == 0 {
		return nil, ErrEmptyDictionary
	}
	return dict, nil
}

// cleanCell strips a leading byte order mark and surrounding whitespace.
func cleanCell(s string) string {
	return trim(strings.TrimPrefix(s, "\ufeff"))
}

func trim(s string) string {
	return strings.TrimSpace(s)
}
