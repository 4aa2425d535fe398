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
	"fmt"
	"math"
	"strings"
	"time"
)

// ValidateTerm validates a CanonicalTerm according to domain rules.
//
// Validation rules:
//   - Text must not be blank
//
// NOT validated:
//   - Label (may be empty in source data)
//   - Vector (empty until the indexer runs)
//   - ID (derived from Text when zero)
func ValidateTerm(term *CanonicalTerm) error {
	if term == nil {
		return fmt.Errorf("%w: term is nil", ErrInvalidTerm)
	}

	if strings.TrimSpace(term.Text) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidTerm, ErrEmptyTermText)
	}

	return nil
}

// ValidateThreshold checks that a similarity threshold lies in [0,1].
func ValidateThreshold(threshold float64) error {
	if math.IsNaN(threshold) || threshold < 0 || threshold > 1 {
		return fmt.Errorf("%w: got %v", ErrInvalidThreshold, threshold)
	}
	return nil
}

// ValidateHistoryRecord validates a HistoryRecord according to domain rules.
//
// Validation rules:
//   - Type must not be empty
//   - Timestamp must not be in the future
func ValidateHistoryRecord(record *HistoryRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidHistoryRecord)
	}

	if record.Type == "" {
		return fmt.Errorf("%w: %w", ErrInvalidHistoryRecord, ErrEmptyHistoryType)
	}

	if !IsValidTimestamp(record.Timestamp) {
		return fmt.Errorf("%w: %w", ErrInvalidHistoryRecord, ErrInvalidTimestamp)
	}

	return nil
}

// IsValidTimestamp checks if a timestamp is valid (not in the future).
func IsValidTimestamp(ts time.Time) bool {
	return !ts.After(time.Now())
}
