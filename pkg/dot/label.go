package dot

import (
	"fmt"
	"strings"

	"github.com/opdot/opdot/pkg/ir"
)

// Formatter renders instructions and attribute values into bounded, escaped
// label text. Rendering never fails: oversized text is truncated and large
// constant containers are elided down to their shape.
type Formatter struct {
	// MaxLen bounds any single rendered string (the instruction line or one
	// attribute value). Longer strings are cut and suffixed with "...".
	MaxLen int

	// ElementLimit is the element count above which a non-splat container
	// attribute is replaced by a rank-preserving placeholder.
	ElementLimit int

	// ResultTypes appends the instruction's result types to its label.
	ResultTypes bool

	// Attributes appends one line per instruction attribute.
	Attributes bool
}

// InstructionLabel renders the label for an instruction node or cluster.
func (f Formatter) InstructionLabel(in *ir.Instruction) string {
	var sb strings.Builder
	sb.WriteString(in.Name)
	if f.ResultTypes && len(in.Types) > 0 {
		sb.WriteString(" : (")
		sb.WriteString(f.truncate(strings.Join(in.Types, ", ")))
		sb.WriteString(")")
	}
	label := f.truncate(sb.String())

	if f.Attributes && len(in.Attrs) > 0 {
		var sb strings.Builder
		sb.WriteString(label)
		sb.WriteString("\n")
		for _, attr := range in.Attrs {
			sb.WriteString("\n")
			sb.WriteString(attr.Name)
			sb.WriteString(": ")
			sb.WriteString(f.AttrValue(attr.Value))
		}
		label = sb.String()
	}
	return label
}

// ArgLabel renders the label for a block-argument node.
func (f Formatter) ArgLabel(index int) string {
	return fmt.Sprintf("arg%d", index)
}

// AttrValue renders one attribute value, applying size-based elision.
//
// Splat containers are always printed in full since their representation is
// compact regardless of logical element count. A non-splat container above
// ElementLimit collapses to one bracket pair per dimension plus "..." and
// its type, preserving rank without unbounded text. Oversized arrays become
// "[...]". Everything else renders through its normal textual form, bounded
// by MaxLen.
func (f Formatter) AttrValue(v ir.AttrValue) string {
	switch v.Kind {
	case ir.AttrElements:
		if v.Splat {
			return v.String()
		}
		if v.Count > int64(f.ElementLimit) {
			return strings.Repeat("[", v.Rank) + "..." + strings.Repeat("]", v.Rank) + " : " + v.Type
		}
	case ir.AttrArray:
		if len(v.Items) > f.ElementLimit {
			return "[...]"
		}
	}
	return f.truncate(v.String())
}

// truncate cuts strings longer than MaxLen and marks the cut with "...".
func (f Formatter) truncate(s string) string {
	if len(s) <= f.MaxLen {
		return s
	}
	return s[:f.MaxLen] + "..."
}

// escapeString escapes quotes, backslashes, and control characters so the
// result can be embedded in a double-quoted DOT label.
func escapeString(s string) string {
	var sb strings.Builder
	for _, b := range []byte(s) {
		switch b {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			if b < 0x20 {
				fmt.Fprintf(&sb, `\x%02x`, b)
			} else {
				sb.WriteByte(b)
			}
		}
	}
	return sb.String()
}

// quote puts double quotation marks around a string.
func quote(s string) string {
	return `"` + s + `"`
}
