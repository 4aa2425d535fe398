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


// Package extract finds candidate terminology spans in free text.
//
// Extraction is heuristic: a fixed, ordered list of regular-expression
// strategies is run over the text and every match becomes a candidate. The
// default strategies, in order, are
//
//  1. single Latin-script tokens such as "ROE", "P/E" or "M&A"
//  2. two whitespace-separated tokens
//  3. three whitespace-separated tokens
//  4. runs of two to six CJK ideographs
//
// Candidates are deduplicated across all strategies by their lowercase form;
// the first occurrence wins. Word boundaries are Unicode-aware, so a Latin
// token glued to CJK text ("ROE股本") is not a token.
package extract
