package main

import (
	"fmt"
	"io"

	"github.com/poiesic/termstd/core"
	"github.com/poiesic/termstd/extract"
	"github.com/poiesic/termstd/standardize"
)

// traceMonitor prints each stage of identify-and-replace.
type traceMonitor struct {
	w io.Writer
}

var _ standardize.TextMonitor = (*traceMonitor)(nil)

func newTraceMonitor(w io.Writer) *traceMonitor {
	return &traceMonitor{w: w}
}

// orNil avoids handing a typed nil to the standardizer.
func (m *traceMonitor) orNil() standardize.TextMonitor {
	if m == nil {
		return nil
	}
	return m
}

func (m *traceMonitor) Start(text string) {
	fmt.Fprintf(m.w, "text: %q\n", text)
}

func (m *traceMonitor) AfterExtraction(candidates []extract.Candidate) {
	fmt.Fprintf(m.w, "candidates (%d):\n", len(candidates))
	for _, c := range candidates {
		fmt.Fprintf(m.w, "  %-8s %s\n", c.Strategy, c.Text)
	}
}

func (m *traceMonitor) Identified(term core.IdentifiedTerm) {
	fmt.Fprintf(m.w, "identified: %q -> %q (%s, %.4f)\n", term.Original, term.Standard, term.MatchType, term.Similarity)
}

func (m *traceMonitor) Replaced(record core.ReplacementRecord) {
	fmt.Fprintf(m.w, "replaced: %q -> %q x%d\n", record.Original, record.Standard, record.Count)
}

func (m *traceMonitor) Finish(result *core.TextStandardizationResult) {
	fmt.Fprintf(m.w, "total replacements: %d\n", result.TotalReplacements)
}
