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


// Package indexer builds the vector index of the dictionary.
//
// Every dictionary term is embedded in batches, its vector normalized to
// unit length and stored with the term. Batches run concurrently up to a
// configured limit; each embedding call is retried with exponential backoff.
//
// A build is skipped when the store already holds as many terms as the
// dictionary and was built with the same embedding model. Otherwise the
// stored terms are cleared and the index is rebuilt from scratch.
package indexer
