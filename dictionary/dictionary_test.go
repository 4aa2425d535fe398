package dictionary

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/poiesic/termstd/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExactMatch(t *testing.T) {
	dict := New("",
		core.CanonicalTerm{Text: "ROE", Label: "profitability"},
		core.CanonicalTerm{Text: "Return on Equity", Label: "profitability"},
		core.CanonicalTerm{Text: "股本回报率", Label: "profitability"},
	)

	tests := []struct {
		query string
		want  string
		found bool
	}{
		{"ROE", "ROE", true},
		{"roe", "ROE", true},
		{"  Roe\t", "ROE", true},
		{"return ON equity", "Return on Equity", true},
		{"股本回报率", "股本回报率", true},
		{"ROA", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got, ok := dict.ExactMatch(tt.query)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNew_DropsBlankAndDuplicateTerms(t *testing.T) {
	dict := New("",
		core.CanonicalTerm{Text: " Net Profit ", Label: "a"},
		core.CanonicalTerm{Text: "", Label: "b"},
		core.CanonicalTerm{Text: "NET PROFIT", Label: "c"},
		core.CanonicalTerm{Text: "Gross Margin"},
	)

	assert.Equal(t, 2, dict.Len())
	assert.Equal(t, []string{"Net Profit", "Gross Margin"}, dict.Texts())

	term, ok := dict.Lookup("net profit")
	require.True(t, ok)
	assert.Equal(t, "a", term.Label)
	assert.Equal(t, core.TermID("Net Profit"), term.Id)
}

func TestNilDictionary(t *testing.T) {
	var dict *Dictionary
	_, ok := dict.ExactMatch("ROE")
	assert.False(t, ok)
	assert.Zero(t, dict.Len())
}

func TestStats(t *testing.T) {
	dict := New("terms.csv",
		core.CanonicalTerm{Text: "ROE", Label: "profitability"},
		core.CanonicalTerm{Text: "ROA", Label: "profitability"},
		core.CanonicalTerm{Text: "Current Ratio", Label: "liquidity"},
		core.CanonicalTerm{Text: "Beta"},
	)

	assert.Equal(t, Stats{TotalTerms: 4, UniqueLabels: 2, Source: "terms.csv"}, dict.Stats())
}

func TestRead(t *testing.T) {
	input := "\ufeffTerm,Label\n" +
		"Return on Equity,ROE\n" +
		" 股本回报率 ,ROE\n" +
		",orphan\n" +
		"return on equity,duplicate\n" +
		"Beta\n"

	dict, err := Read(strings.NewReader(input), ',')
	require.NoError(t, err)

	assert.Equal(t, []string{"Return on Equity", "股本回报率", "Beta"}, dict.Texts())
	term, ok := dict.Lookup("RETURN ON EQUITY")
	require.True(t, ok)
	assert.Equal(t, "ROE", term.Label)
}

func TestRead_LabelFirst(t *testing.T) {
	dict, err := Read(strings.NewReader("label,term\nliquidity,Quick Ratio\n"), ',')
	require.NoError(t, err)

	term, ok := dict.Lookup("quick ratio")
	require.True(t, ok)
	assert.Equal(t, "liquidity", term.Label)
}

func TestRead_Errors(t *testing.T) {
	_, err := Read(strings.NewReader(""), ',')
	assert.ErrorIs(t, err, ErrEmptyDictionary)

	_, err = Read(strings.NewReader("name,label\nROE,x\n"), ',')
	assert.ErrorIs(t, err, ErrMissingTermColumn)

	_, err = Read(strings.NewReader("term,label\n,x\n"), ',')
	assert.ErrorIs(t, err, ErrEmptyDictionary)
}

func TestLoadCSV(t *testing.T) {
	dir := t.TempDir()

	csvPath := filepath.Join(dir, "terms.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("term,label\nEBITDA,earnings\nNet Profit,earnings\n"), 0o644))

	dict, err := LoadCSV(csvPath)
	require.NoError(t, err)
	assert.Equal(t, Stats{TotalTerms: 2, UniqueLabels: 1, Source: csvPath}, dict.Stats())

	tsvPath := filepath.Join(dir, "terms.tsv")
	require.NoError(t, os.WriteFile(tsvPath, []byte("term\tlabel\nDebt, net\tleverage\n"), 0o644))

	dict, err = LoadCSV(tsvPath)
	require.NoError(t, err)
	got, ok := dict.ExactMatch("debt, NET")
	assert.True(t, ok)
	assert.Equal(t, "Debt, net", got)

	_, err = LoadCSV(filepath.Join(dir, "missing.csv"))
	assert.Error(t, err)
}
