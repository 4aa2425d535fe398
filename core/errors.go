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

import "errors"

// Domain validation errors
var (
	// ErrInvalidTerm indicates a CanonicalTerm failed validation.
	ErrInvalidTerm = errors.New("invalid term")

	// ErrEmptyTermText indicates the term Text field is blank.
	ErrEmptyTermText = errors.New("term text cannot be empty")

	// ErrInvalidThreshold indicates a similarity threshold outside [0,1].
	ErrInvalidThreshold = errors.New("threshold must be between 0 and 1")

	// ErrInvalidHistoryRecord indicates a HistoryRecord failed validation.
	ErrInvalidHistoryRecord = errors.New("invalid history record")

	// ErrEmptyHistoryType indicates the history record Type field is empty.
	ErrEmptyHistoryType = errors.New("history type cannot be empty")

	// ErrInvalidTimestamp indicates a timestamp is in the future.
	ErrInvalidTimestamp = errors.New("timestamp cannot be in the future")
)
