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


// Package retrieval finds dictionary terms semantically close to a query.
//
// Two Retriever implementations are provided:
//
//   - VectorRetriever embeds the query and searches the stored term vectors
//     (see storage.VectorSearcher). Query embeddings are cached.
//   - LexicalRetriever scores every dictionary term by Jaro-Winkler string
//     similarity. It needs no embedding service and suits offline use.
//
// Both return hits best-first with similarities in [0, 1]. A retriever that
// reports Initialized() == false must not be queried; callers treat it as
// absent.
package retrieval
