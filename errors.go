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


package termstd

import "errors"

var (
	// ErrInvalidTopK is returned when a search asks for fewer than 1 or more than MaxTopK results.
	ErrInvalidTopK = errors.New("top_k must be between 1 and 100")

	// ErrInvalidLimit is returned when a similar-terms lookup limit is not positive.
	ErrInvalidLimit = errors.New("limit must be positive")

	// ErrIndexUnsupported is returned by BuildIndex when the service uses the lexical retriever.
	ErrIndexUnsupported = errors.New("lexical retriever has no vector index")
)
