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


// Package storage provides the storage abstraction layer for termstd.
//
// Two repositories sit on top of a shared backend:
//
//   - TermRepository: canonical terms, their embedding vectors and the
//     metadata of the last index build
//   - HistoryRepository: a capped, newest-first log of service calls
//
// Public constructors in implementation packages return these interfaces:
//
//	backend, err := badger.OpenBackend("/path/to/db", false)
//	terms, err := badger.NewTermRepository(backend)
//	history, err := badger.NewHistoryRepository(backend, badger.WithMaxRecords(1000))
//
// Tests use in-memory storage:
//
//	terms, history, backend, err := badger.NewMemoryRepositories()
//
// # Vector Search
//
// Search is brute force over every stored vector. Distance is the squared
// Euclidean distance and similarity is 1/(1+distance), so unit vectors yield
// similarities in [1/5, 1].
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support
// concurrent access from multiple goroutines.
package storage
