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


// Package standardize maps free-form financial terminology onto a canonical
// dictionary.
//
// The Standardizer combines two signals:
//   - Exact lookup against the dictionary, ignoring case and surrounding whitespace
//   - Semantic retrieval over the indexed dictionary, accepted above a threshold
//
// Exact hits always win. Retrieval is optional: without an initialized
// retriever every operation degrades to exact matching, and failures of the
// retriever are logged and treated as "no semantic result" rather than
// returned to the caller.
//
// IdentifyAndReplace applies the same matching to spans extracted from free
// text and rewrites the text with the standard spellings, longest original
// first so that phrases are replaced before the words they contain.
package standardize
