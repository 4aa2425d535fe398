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


// Package dictionary holds the canonical terminology.
//
// A Dictionary is loaded once, from a CSV file of term,label rows or from
// terms already stored in the database, and is read-only afterwards. Exact
// lookup ignores letter case and surrounding whitespace:
//
//	dict, err := dictionary.LoadCSV("data/terms.csv")
//	if term, ok := dict.ExactMatch("roe"); ok {
//	    fmt.Println(term) // ROE
//	}
package dictionary
