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


package storage

import (
	"github.com/poiesic/termstd/core"
)

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, core.IDMUS.Size(id))
	core.IDMUS.Marshal(id, buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	id, _, err := core.IDMUS.Unmarshal(data)
	return id, err
}

// MarshalTerm serializes a CanonicalTerm to bytes.
func MarshalTerm(term *core.CanonicalTerm) []byte {
	buf := make([]byte, core.CanonicalTermMUS.Size(*term))
	core.CanonicalTermMUS.Marshal(*term, buf)
	return buf
}

// UnmarshalTerm deserializes a CanonicalTerm from bytes.
func UnmarshalTerm(data []byte) (*core.CanonicalTerm, error) {
	term, _, err := core.CanonicalTermMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &term, nil
}

// MarshalHistoryRecord serializes a HistoryRecord to bytes.
func MarshalHistoryRecord(record *core.HistoryRecord) []byte {
	buf := make([]byte, core.HistoryRecordMUS.Size(*record))
	core.HistoryRecordMUS.Marshal(*record, buf)
	return buf
}

// UnmarshalHistoryRecord deserializes a HistoryRecord from bytes.
func UnmarshalHistoryRecord(data []byte) (*core.HistoryRecord, error) {
	record, _, err := core.HistoryRecordMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// MarshalIndexMeta serializes an IndexMeta to bytes.
func MarshalIndexMeta(meta *core.IndexMeta) []byte {
	buf := make([]byte, core.IndexMetaMUS.Size(*meta))
	core.IndexMetaMUS.Marshal(*meta, buf)
	return buf
}

// UnmarshalIndexMeta deserializes an IndexMeta from bytes.
func UnmarshalIndexMeta(data []byte) (*core.IndexMeta, error) {
	meta, _, err := core.IndexMetaMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &meta, nil
}
