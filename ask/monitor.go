package ask

import "github.com/poiesic/recall/core"

// Monitor provides hooks to observe the ask process.
// Implement this interface to track intermediate steps during retrieval
// and prompt assembly.
type Monitor interface {
	Start(query string)
	AfterQueryEmbedding(vector []float32)
	AfterRetrieval(chunks []core.RetrievedChunk)
	AfterHistoryFetch(turns []core.Turn)
	AfterTruncation(droppedPairs int, estimatedTokens int)
	Finish(answer string)
}

// noopMonitor is a no-op implementation of Monitor
type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                         {}
func (n *noopMonitor) AfterQueryEmbedding(_ []float32)        {}
func (n *noopMonitor) AfterRetrieval(_ []core.RetrievedChunk) {}
func (n *noopMonitor) AfterHistoryFetch(_ []core.Turn)        {}
func (n *noopMonitor) AfterTruncation(_ int, _ int)           {}
func (n *noopMonitor) Finish(_ string)                        {}
