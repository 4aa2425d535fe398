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


// Package termstd standardizes financial terminology against a canonical
// dictionary.
//
// A Service ties the pieces together: a badger database holding the term
// vector index and the call history, an embedding provider, a retriever and
// a standardize.Standardizer. Typical use:
//
//	dict, err := dictionary.LoadCSV("terms.csv")
//	svc, err := termstd.NewService(ctx, "./termstd.db", dict)
//	defer svc.Close()
//	if _, err := svc.BuildIndex(ctx); err != nil { ... }
//	result, err := svc.Standardize(ctx, "股本回报率", 0.65)
//
// Every public call is recorded in the history log with a language tag.
package termstd
