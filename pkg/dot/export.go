package dot

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/opdot/opdot/pkg/errors"
	"github.com/opdot/opdot/pkg/ir"
)

// Default bounds for label rendering.
const (
	DefaultMaxLabelLen       = 80
	DefaultLargeElementLimit = 16
)

// Options configures one export. The zero value emits a bare structural
// graph; DefaultOptions matches the usual dataflow visualization.
type Options struct {
	// DataFlowEdges draws a solid edge from each operand's producer to its
	// consumer, labeled with the operand position when there is more than one.
	DataFlowEdges bool

	// ControlFlowEdges draws a dashed edge between consecutive instructions
	// of a block.
	ControlFlowEdges bool

	// RegionControlFlowEdges draws a bold edge from each block's last node to
	// the first node of every successor block, labeled with the successor
	// position when a block branches more than one way.
	RegionControlFlowEdges bool

	// ResultTypes includes result types in instruction labels.
	ResultTypes bool

	// Attributes includes instruction attributes in labels, one per line.
	Attributes bool

	// CondenseBlocks elides the interior of blocks that are not top-level
	// and have more than two instructions: only the first and last
	// instruction are emitted, joined by one control-flow edge. Elided
	// instructions contribute no value bindings, so a later use of one of
	// their results fails the export with an UNBOUND_VALUE error.
	CondenseBlocks bool

	// MaxLabelLen bounds rendered label strings. Zero means DefaultMaxLabelLen.
	MaxLabelLen int

	// LargeElementLimit is the element count above which non-splat container
	// attributes are elided. Zero means DefaultLargeElementLimit.
	LargeElementLimit int
}

// DefaultOptions returns the standard dataflow-graph configuration.
func DefaultOptions() Options {
	return Options{
		DataFlowEdges:     true,
		ResultTypes:       true,
		Attributes:        true,
		MaxLabelLen:       DefaultMaxLabelLen,
		LargeElementLimit: DefaultLargeElementLimit,
	}
}

// Export writes the operation graph of mod to w as a DOT document.
//
// The export is a single forward pass over the module. It fails on the
// first sink write error, or with a structured invariant error when the
// module references a value that has no emitted producer.
func Export(w io.Writer, mod *ir.Module, opts Options) error {
	e := newExporter(w, mod, opts)
	return e.run(func() error {
		for _, r := range mod.Regions {
			if err := e.processRegion(r); err != nil {
				return err
			}
		}
		return nil
	})
}

// ExportRegionCFG writes a control-flow-only graph of one region to w.
// Data-flow edges are disabled since no surrounding bindings exist.
func ExportRegionCFG(w io.Writer, region *ir.Region) error {
	opts := DefaultOptions()
	opts.DataFlowEdges = false
	opts.Attributes = false
	opts.ControlFlowEdges = true
	opts.RegionControlFlowEdges = true

	e := newExporter(w, nil, opts)
	return e.run(func() error { return e.processRegion(region) })
}

// exporter carries the per-export state: the shared node/cluster counter,
// the deferred edge buffer, the value binding table, and the block boundary
// maps. One exporter serves exactly one export; concurrent exports must use
// independent instances.
type exporter struct {
	opts Options
	w    *Writer
	fmtr Formatter
	mod  *ir.Module // nil for region-only exports

	counter    int
	edges      []edge
	bindings   map[ir.ValueID]Node
	blockFirst map[*ir.Block]Node
	blockLast  map[*ir.Block]Node
}

func newExporter(w io.Writer, mod *ir.Module, opts Options) *exporter {
	if opts.MaxLabelLen <= 0 {
		opts.MaxLabelLen = DefaultMaxLabelLen
	}
	if opts.LargeElementLimit <= 0 {
		opts.LargeElementLimit = DefaultLargeElementLimit
	}
	return &exporter{
		opts: opts,
		w:    NewWriter(w),
		fmtr: Formatter{
			MaxLen:       opts.MaxLabelLen,
			ElementLimit: opts.LargeElementLimit,
			ResultTypes:  opts.ResultTypes,
			Attributes:   opts.Attributes,
		},
		mod:        mod,
		bindings:   make(map[ir.ValueID]Node),
		blockFirst: make(map[*ir.Block]Node),
		blockLast:  make(map[*ir.Block]Node),
	}
}

// run wraps the builder in the digraph envelope and flushes the buffered
// edges exactly once, after the entire structure has been emitted.
func (e *exporter) run(body func() error) error {
	var err error
	e.w.Scope("digraph G {\n", "}\n", func() {
		// Edges between clusters are allowed only in compound mode.
		e.w.Printf("compound = true;\n")
		if err = body(); err != nil {
			return
		}
		e.flushEdges()
	})
	if err != nil {
		return err
	}
	return e.w.Err()
}

// processRegion emits every block of the region, then the control-flow
// edges between blocks and their successors.
func (e *exporter) processRegion(r *ir.Region) error {
	for _, b := range r.Blocks {
		if err := e.processBlock(b); err != nil {
			return err
		}
	}

	if !e.opts.RegionControlFlowEdges {
		return nil
	}
	for _, b := range r.Blocks {
		for i, name := range b.Successors {
			succ := r.FindBlock(name)
			if succ == nil {
				return errors.New(errors.ErrCodeInvalidModule,
					"block %q lists unknown successor %q", b.Name, name)
			}
			last, ok := e.blockLast[b]
			if !ok {
				return errors.New(errors.ErrCodeInternal,
					"block %q has successors but no emitted instructions", b.Name)
			}
			first, ok := e.blockFirst[succ]
			if !ok {
				return errors.New(errors.ErrCodeInternal,
					"successor block %q has no emitted instructions", succ.Name)
			}
			label := ""
			if len(b.Successors) > 1 {
				label = strconv.Itoa(i)
			}
			e.appendEdge(last, first, label, RegionControlFlow)
		}
	}
	return nil
}

// processBlock emits a cluster for the block: one node per block argument,
// then the instruction nodes, recording the block's first and last node for
// region control-flow edges.
func (e *exporter) processBlock(b *ir.Block) error {
	if err := e.w.Err(); err != nil {
		return err
	}

	condense := e.opts.CondenseBlocks &&
		len(b.Instructions) > 2 &&
		(e.mod == nil || !e.mod.IsTopLevel(b))

	_, err := e.emitCluster(b.OperandName(), func() error {
		for i, arg := range b.Args {
			if err := e.bind(arg, e.emitNode(e.fmtr.ArgLabel(i), shapeNode)); err != nil {
				return err
			}
		}

		if condense {
			first, err := e.processInstruction(b.Instructions[0])
			if err != nil {
				return err
			}
			e.blockFirst[b] = first

			last, err := e.processInstruction(b.Instructions[len(b.Instructions)-1])
			if err != nil {
				return err
			}
			e.blockLast[b] = last

			if e.opts.ControlFlowEdges {
				e.appendEdge(first, last, "", ControlFlow)
			}
			return nil
		}

		var prev *Node
		for _, in := range b.Instructions {
			next, err := e.processInstruction(in)
			if err != nil {
				return err
			}
			if prev == nil {
				e.blockFirst[b] = next
			} else if e.opts.ControlFlowEdges {
				e.appendEdge(*prev, next, "", ControlFlow)
			}
			n := next
			prev = &n
		}
		if prev != nil {
			e.blockLast[b] = *prev
		}
		return nil
	})
	return err
}

// processInstruction emits a cluster when the instruction owns regions and
// a plain node otherwise, draws its incoming data-flow edges, and binds its
// results to the representative node.
func (e *exporter) processInstruction(in *ir.Instruction) (Node, error) {
	var node Node
	if in.HasRegions() {
		n, err := e.emitCluster(e.fmtr.InstructionLabel(in), func() error {
			for _, r := range in.Regions {
				if err := e.processRegion(r); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return Node{}, err
		}
		node = n
	} else {
		node = e.emitNode(e.fmtr.InstructionLabel(in), shapeNode)
	}

	if e.opts.DataFlowEdges {
		for i, op := range in.Operands {
			src, err := e.lookup(op, in)
			if err != nil {
				return Node{}, err
			}
			label := ""
			if len(in.Operands) > 1 {
				label = strconv.Itoa(i)
			}
			e.appendEdge(src, node, label, DataFlow)
		}
	}

	for _, res := range in.Results {
		if err := e.bind(res, node); err != nil {
			return Node{}, err
		}
	}
	return node, nil
}

// emitCluster emits a subgraph whose body is generated by the builder. The
// invisible anchor node is always the cluster's first statement so external
// tools can clip edges to it. The returned node carries the cluster id.
func (e *exporter) emitCluster(label string, body func() error) (Node, error) {
	e.counter++
	clusterID := e.counter

	var anchor Node
	var err error
	e.w.Scope(fmt.Sprintf("subgraph cluster_%d {\n", clusterID), "}\n", func() {
		anchor = e.emitNode(" ", shapeNone)
		e.w.Printf("label = %s;\n", quote(escapeString(label)))
		err = body()
	})
	return Node{ID: anchor.ID, ClusterID: clusterID}, err
}

// emitNode streams one node statement and returns its identity.
func (e *exporter) emitNode(label, shape string) Node {
	e.counter++
	e.w.Printf("v%d [label = %s, shape = %s];\n",
		e.counter, quote(escapeString(label)), shape)
	return Node{ID: e.counter}
}

// appendEdge buffers an edge descriptor. Both endpoints already exist in
// the emitted text, so the flushed document never contains a forward
// reference.
func (e *exporter) appendEdge(src, dst Node, label string, style EdgeStyle) {
	e.edges = append(e.edges, edge{src: src, dst: dst, label: label, style: style})
}

// flushEdges writes the buffered edges in insertion order and clears the
// buffer. Called exactly once per export, after traversal completes.
//
// Edges that start or end at a cluster boundary are clipped there via
// ltail/lhead and carry no label: the clip point does not line up with
// where a label would float.
func (e *exporter) flushEdges() {
	for _, ed := range e.edges {
		attrs := []string{"style = " + ed.style.lineStyle()}
		if !ed.src.InCluster() && !ed.dst.InCluster() && ed.label != "" {
			attrs = append(attrs, "label = "+quote(escapeString(ed.label)))
		}
		if ed.src.InCluster() {
			attrs = append(attrs, fmt.Sprintf("ltail = cluster_%d", ed.src.ClusterID))
		}
		if ed.dst.InCluster() {
			attrs = append(attrs, fmt.Sprintf("lhead = cluster_%d", ed.dst.ClusterID))
		}
		e.w.Printf("v%d -> v%d [%s];\n", ed.src.ID, ed.dst.ID, strings.Join(attrs, ", "))
	}
	e.edges = e.edges[:0]
}

// bind records the producer node of a value. Each value has exactly one
// static producer; a second write is a contract violation.
func (e *exporter) bind(v ir.ValueID, n Node) error {
	if _, ok := e.bindings[v]; ok {
		return errors.New(errors.ErrCodeDuplicateBinding, "value %q bound more than once", v)
	}
	e.bindings[v] = n
	return nil
}

// lookup resolves a value to its producer node. A miss means the input
// violates definition-before-use, or the producer was elided by condensed
// mode; either way the export cannot continue.
func (e *exporter) lookup(v ir.ValueID, consumer *ir.Instruction) (Node, error) {
	n, ok := e.bindings[v]
	if !ok {
		return Node{}, errors.New(errors.ErrCodeUnboundValue,
			"value %q used by %q has no emitted producer", v, consumer.Name)
	}
	return n, nil
}
