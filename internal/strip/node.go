package strip

import "reel/internal/domain"

// Node is one child of the strip: either a slide or a spacer
type Node struct {
	Length    float64
	Hidden    bool
	Translate float64
	Snap      bool
	SnapAlign domain.Alignment
	Spacer    bool
	Payload   any

	flowStart float64
}

// VisualStart is where the node is drawn, relative to the start of the
// scrollable content
func (n *Node) VisualStart() float64 {
	return n.flowStart + n.Translate
}

// VisualEnd is VisualStart plus the node's length
func (n *Node) VisualEnd() float64 {
	return n.VisualStart() + n.Length
}
