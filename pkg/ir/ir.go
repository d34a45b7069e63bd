// Package ir defines the nested intermediate representation consumed by the
// DOT exporter, together with its JSON document format.
//
// The representation mirrors the usual region-based IR shape: a module owns
// regions, a region owns an ordered list of blocks, a block owns arguments
// and an ordered list of instructions, and an instruction may itself own
// nested regions. Values (block arguments and instruction results) are
// identified by stable string IDs and are produced exactly once.
//
// The package is a read-only data model: nothing in opdot mutates a module
// after it has been decoded or built.
package ir

import "fmt"

// ValueID is the stable identity of an SSA-like value. A value is produced
// exactly once, either as a block argument or as an instruction result.
type ValueID string

// Module is the root container of one IR unit.
type Module struct {
	Name    string    `json:"name"`
	Regions []*Region `json:"regions,omitempty" bson:"regions,omitempty"`
}

// Region is one nested scope of control flow: an ordered list of blocks.
type Region struct {
	Blocks []*Block `json:"blocks,omitempty" bson:"blocks,omitempty"`
}

// Block is an ordered sequence of instructions with named arguments and
// zero or more successor blocks (by name, within the same region).
type Block struct {
	Name         string         `json:"name"`
	Args         []ValueID      `json:"args,omitempty"`
	Successors   []string       `json:"successors,omitempty"`
	Instructions []*Instruction `json:"instructions,omitempty"`
}

// Instruction is a single operation. It consumes operand values, produces
// result values, carries named attributes, and may own nested regions.
type Instruction struct {
	Name     string    `json:"name"`
	Operands []ValueID `json:"operands,omitempty"`
	Results  []ValueID `json:"results,omitempty"`
	Types    []string  `json:"types,omitempty"` // result types, parallel to Results
	Attrs    []Attr    `json:"attrs,omitempty"`
	Regions  []*Region `json:"regions,omitempty"`
}

// Attr is one named attribute attached to an instruction.
type Attr struct {
	Name  string    `json:"name"`
	Value AttrValue `json:"value"`
}

// OperandName returns the printable form of a block, e.g. "^bb0".
func (b *Block) OperandName() string {
	return "^" + b.Name
}

// HasRegions reports whether the instruction owns nested regions.
func (in *Instruction) HasRegions() bool {
	return len(in.Regions) > 0
}

// IsTopLevel reports whether block is one of the module's own blocks, i.e.
// a block whose parent container is the module itself rather than an
// instruction. Top-level blocks are exempt from entry/exit condensation.
func (m *Module) IsTopLevel(block *Block) bool {
	for _, r := range m.Regions {
		for _, b := range r.Blocks {
			if b == block {
				return true
			}
		}
	}
	return false
}

// FindBlock returns the block with the given name inside the region, or nil.
func (r *Region) FindBlock(name string) *Block {
	for _, b := range r.Blocks {
		if b.Name == name {
			return b
		}
	}
	return nil
}

// CountInstructions returns the number of instructions in the module,
// including those nested arbitrarily deep inside instruction regions.
func (m *Module) CountInstructions() int {
	total := 0
	for _, r := range m.Regions {
		total += countRegion(r)
	}
	return total
}

func countRegion(r *Region) int {
	total := 0
	for _, b := range r.Blocks {
		for _, in := range b.Instructions {
			total++
			for _, nested := range in.Regions {
				total += countRegion(nested)
			}
		}
	}
	return total
}

func (in *Instruction) String() string {
	return fmt.Sprintf("%s(%d operands, %d results)", in.Name, len(in.Operands), len(in.Results))
}
