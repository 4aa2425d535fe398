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
	"context"
	"errors"

	"github.com/poiesic/termstd/core"
)

// ErrNotInitialized is returned by SearchSimilar when the retriever has no index.
var ErrNotInitialized = errors.New("retriever not initialized")

// Retriever finds terms semantically close to a query.
type Retriever interface {
	// Initialized reports whether the retriever has an index to search.
	Initialized() bool

	// SearchSimilar returns up to topK hits, best-first.
	SearchSimilar(ctx context.Context, query string, topK int) ([]core.SemanticHit, error)
}
