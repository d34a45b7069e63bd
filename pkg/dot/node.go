// Package dot exports the operation graph of an ir.Module as a Graphviz DOT
// document with nested clusters.
//
// Regions, blocks, and instructions-with-regions become clusters; plain
// instructions and block arguments become nodes. Edges can be drawn only
// between nodes in the DOT language, so every cluster starts with an
// invisible anchor node and edges that logically target the cluster are
// clipped to its boundary with the ltail/lhead attributes.
//
// The export is a single forward pass: nodes and clusters are streamed to
// the sink as they are visited, while edges are buffered and flushed in
// encounter order once the whole structure has been emitted. This keeps the
// document free of forward references.
package dot

// Node identity and shape constants of the emitted document.
const (
	shapeNode = "ellipse"
	shapeNone = "plain"

	lineStyleDataFlow          = "solid"
	lineStyleControlFlow       = "dashed"
	lineStyleRegionControlFlow = "bold"
)

// Node identifies one emitted DOT node. ClusterID is non-zero only for a
// cluster's anchor node, in which case edges touching the node are clipped
// to the cluster boundary. Node and cluster identifiers are drawn from one
// shared counter, so an ID is globally unique within a single export.
type Node struct {
	ID        int
	ClusterID int
}

// InCluster reports whether the node is a cluster anchor.
func (n Node) InCluster() bool { return n.ClusterID != 0 }

// EdgeStyle classifies an edge descriptor.
type EdgeStyle int

// Edge styles, rendered as DOT line styles.
const (
	// DataFlow connects a value's producer to a consumer. Rendered solid.
	DataFlow EdgeStyle = iota
	// ControlFlow connects consecutive instructions of a block. Rendered dashed.
	ControlFlow
	// RegionControlFlow connects a block to a successor block. Rendered bold.
	RegionControlFlow
)

func (s EdgeStyle) lineStyle() string {
	switch s {
	case ControlFlow:
		return lineStyleControlFlow
	case RegionControlFlow:
		return lineStyleRegionControlFlow
	default:
		return lineStyleDataFlow
	}
}

// edge is one buffered edge descriptor. Both endpoints already carry their
// final identifiers when the descriptor is appended.
type edge struct {
	src, dst Node
	label    string
	style    EdgeStyle
}
