package core

import (
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// MUS serializers for records persisted by the storage layer.
// Field order is part of the encoding: append new fields at the end only.
var (
	IDMUS            = idMUS{}
	CanonicalTermMUS = canonicalTermMUS{}
	HistoryRecordMUS = historyRecordMUS{}
	IndexMetaMUS     = indexMetaMUS{}
)

type idMUS struct{}

func (idMUS) Marshal(v ID, bs []byte) int {
	return varint.Uint64.Marshal(uint64(v), bs)
}

func (idMUS) Unmarshal(bs []byte) (ID, int, error) {
	u, n, err := varint.Uint64.Unmarshal(bs)
	return ID(u), n, err
}

func (idMUS) Size(v ID) int {
	return varint.Uint64.Size(uint64(v))
}

// timestamps are stored as UTC unix microseconds
type timeMUS struct{}

func (timeMUS) Marshal(v time.Time, bs []byte) int {
	return varint.Int64.Marshal(v.UnixMicro(), bs)
}

func (timeMUS) Unmarshal(bs []byte) (time.Time, int, error) {
	us, n, err := varint.Int64.Unmarshal(bs)
	if err != nil {
		return time.Time{}, n, err
	}
	return time.UnixMicro(us).UTC(), n, nil
}

func (timeMUS) Size(v time.Time) int {
	return varint.Int64.Size(v.UnixMicro())
}

type vectorMUS struct{}

func (vectorMUS) Marshal(v []float32, bs []byte) int {
	n := varint.Int.Marshal(len(v), bs)
	for _, f := range v {
		n += raw.Float32.Marshal(f, bs[n:])
	}
	return n
}

func (vectorMUS) Unmarshal(bs []byte) ([]float32, int, error) {
	length, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return nil, n, err
	}
	if length == 0 {
		return nil, n, nil
	}
	v := make([]float32, length)
	for i := range v {
		f, m, err := raw.Float32.Unmarshal(bs[n:])
		n += m
		if err != nil {
			return nil, n, err
		}
		v[i] = f
	}
	return v, n, nil
}

func (vectorMUS) Size(v []float32) int {
	size := varint.Int.Size(len(v))
	for _, f := range v {
		size += raw.Float32.Size(f)
	}
	return size
}

type canonicalTermMUS struct{}

func (canonicalTermMUS) Marshal(v CanonicalTerm, bs []byte) int {
	n := IDMUS.Marshal(v.Id, bs)
	n += ord.String.Marshal(v.Text, bs[n:])
	n += ord.String.Marshal(v.Label, bs[n:])
	n += vectorMUS{}.Marshal(v.Vector, bs[n:])
	n += timeMUS{}.Marshal(v.InsertedAt, bs[n:])
	return n
}

func (canonicalTermMUS) Unmarshal(bs []byte) (CanonicalTerm, int, error) {
	var (
		v   CanonicalTerm
		n   int
		m   int
		err error
	)
	if v.Id, m, err = IDMUS.Unmarshal(bs); err != nil {
		return v, n + m, err
	}
	n += m
	if v.Text, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + m, err
	}
	n += m
	if v.Label, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + m, err
	}
	n += m
	if v.Vector, m, err = (vectorMUS{}).Unmarshal(bs[n:]); err != nil {
		return v, n + m, err
	}
	n += m
	if v.InsertedAt, m, err = (timeMUS{}).Unmarshal(bs[n:]); err != nil {
		return v, n + m, err
	}
	n += m
	return v, n, nil
}

func (canonicalTermMUS) Size(v CanonicalTerm) int {
	return IDMUS.Size(v.Id) +
		ord.String.Size(v.Text) +
		ord.String.Size(v.Label) +
		vectorMUS{}.Size(v.Vector) +
		timeMUS{}.Size(v.InsertedAt)
}

type historyRecordMUS struct{}

func (historyRecordMUS) Marshal(v HistoryRecord, bs []byte) int {
	n := IDMUS.Marshal(v.Id, bs)
	n += ord.String.Marshal(v.Query, bs[n:])
	n += ord.String.Marshal(v.Type, bs[n:])
	n += varint.Int.Marshal(v.ResultsCount, bs[n:])
	n += ord.String.Marshal(v.Language, bs[n:])
	n += timeMUS{}.Marshal(v.Timestamp, bs[n:])
	return n
}

func (historyRecordMUS) Unmarshal(bs []byte) (HistoryRecord, int, error) {
	var (
		v   HistoryRecord
		n   int
		m   int
		err error
	)
	if v.Id, m, err = IDMUS.Unmarshal(bs); err != nil {
		return v, n + m, err
	}
	n += m
	if v.Query, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + m, err
	}
	n += m
	if v.Type, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + m, err
	}
	n += m
	if v.ResultsCount, m, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return v, n + m, err
	}
	n += m
	if v.Language, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + m, err
	}
	n += m
	if v.Timestamp, m, err = (timeMUS{}).Unmarshal(bs[n:]); err != nil {
		return v, n + m, err
	}
	n += m
	return v, n, nil
}

func (historyRecordMUS) Size(v HistoryRecord) int {
	return IDMUS.Size(v.Id) +
		ord.String.Size(v.Query) +
		ord.String.Size(v.Type) +
		varint.Int.Size(v.ResultsCount) +
		ord.String.Size(v.Language) +
		timeMUS{}.Size(v.Timestamp)
}

type indexMetaMUS struct{}

func (indexMetaMUS) Marshal(v IndexMeta, bs []byte) int {
	n := ord.String.Marshal(v.Model, bs)
	n += varint.Int.Marshal(v.Dimensions, bs[n:])
	n += varint.Int.Marshal(v.TermCount, bs[n:])
	n += timeMUS{}.Marshal(v.BuiltAt, bs[n:])
	return n
}

func (indexMetaMUS) Unmarshal(bs []byte) (IndexMeta, int, error) {
	var (
		v   IndexMeta
		n   int
		m   int
		err error
	)
	if v.Model, m, err = ord.String.Unmarshal(bs); err != nil {
		return v, n + m, err
	}
	n += m
	if v.Dimensions, m, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return v, n + m, err
	}
	n += m
	if v.TermCount, m, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return v, n + m, err
	}
	n += m
	if v.BuiltAt, m, err = (timeMUS{}).Unmarshal(bs[n:]); err != nil {
		return v, n + m, err
	}
	n += m
	return v, n, nil
}

func (indexMetaMUS) Size(v IndexMeta) int {
	return ord.String.Size(v.Model) +
		varint.Int.Size(v.Dimensions) +
		varint.Int.Size(v.TermCount) +
		timeMUS{}.Size(v.BuiltAt)
}
