package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDFromContent(t *testing.T) {
	assert.Equal(t, IDFromContent("Return on Equity"), IDFromContent("Return on Equity"))
	assert.NotEqual(t, IDFromContent("Return on Equity"), IDFromContent("Return on Assets"))
}

func TestTermID(t *testing.T) {
	assert.Equal(t, TermID("Return on Equity"), TermID("  return ON equity "))
	assert.NotEqual(t, TermID("ROE"), TermID("ROA"))
}

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"ROE", "roe"},
		{"  Net Profit\t", "net profit"},
		{"股本回报率", "股本回报率"},
		{"STRASSE", "strasse"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeKey(tt.in), "NormalizeKey(%q)", tt.in)
	}
	assert.True(t, EqualFold("Credit Risk", "credit risk "))
	assert.False(t, EqualFold("Credit Risk", "Credit Rise"))
}

func TestScore(t *testing.T) {
	assert.Equal(t, 72.0, Score(0.72))
	assert.Equal(t, 100.0, Score(1))
	assert.Equal(t, 0.0, Score(0))
	assert.Equal(t, 65.43, Score(0.654321))
}

func TestRound(t *testing.T) {
	assert.Equal(t, 0.6543, Round(0.654321, 4))
	assert.Equal(t, 0.5, Round(0.49999, 2))
	assert.Equal(t, 3.0, Round(2.5, 0))
}

func TestMatchResultMatched(t *testing.T) {
	for mt, want := range map[MatchType]bool{
		MatchExact:       true,
		MatchSemantic:    true,
		MatchSemanticLow: false,
		MatchNone:        false,
	} {
		r := MatchResult{MatchType: mt}
		assert.Equal(t, want, r.Matched(), "match type %s", mt)
	}
}

func TestCanonicalTermMUSRoundTrip(t *testing.T) {
	term := CanonicalTerm{
		Id:         TermID("Return on Equity"),
		Text:       "Return on Equity",
		Label:      "ROE",
		Vector:     []float32{0.1, -0.2, 0.3},
		InsertedAt: time.UnixMicro(1700000000123456).UTC(),
	}

	buf := make([]byte, CanonicalTermMUS.Size(term))
	n := CanonicalTermMUS.Marshal(term, buf)
	require.Equal(t, len(buf), n)

	decoded, m, err := CanonicalTermMUS.Unmarshal(buf)
	require.NoError(t, err)
	assert.Equal(t, n, m)
	assert.Equal(t, term, decoded)
}

func TestHistoryRecordMUSTruncated(t *testing.T) {
	rec := HistoryRecord{Id: 7, Query: "ROE", Type: "search", ResultsCount: 1, Language: "en", Timestamp: time.Now().UTC()}
	buf := make([]byte, HistoryRecordMUS.Size(rec))
	HistoryRecordMUS.Marshal(rec, buf)

	_, _, err := HistoryRecordMUS.Unmarshal(buf[:len(buf)/2])
	assert.Error(t, err)
}
