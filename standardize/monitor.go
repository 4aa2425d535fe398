package standardize

import (
	"github.com/poiesic/termstd/core"
	"github.com/poiesic/termstd/extract"
)

// TextMonitor provides hooks to observe the identify-and-replace process.
// Implement this interface to trace intermediate steps of a single call.
type TextMonitor interface {
	Start(text string)
	AfterExtraction(candidates []extract.Candidate)
	Identified(term core.IdentifiedTerm)
	Replaced(record core.ReplacementRecord)
	Finish(result *core.TextStandardizationResult)
}

// noopMonitor is a no-op implementation of TextMonitor
type noopMonitor struct{}

var _ TextMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                           {}
func (n *noopMonitor) AfterExtraction(_ []extract.Candidate)    {}
func (n *noopMonitor) Identified(_ core.IdentifiedTerm)         {}
func (n *noopMonitor) Replaced(_ core.ReplacementRecord)        {}
func (n *noopMonitor) Finish(_ *core.TextStandardizationResult) {}
