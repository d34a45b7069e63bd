package dot

import (
	"strings"
	"testing"

	"github.com/opdot/opdot/pkg/ir"
)

func testFormatter() Formatter {
	return Formatter{MaxLen: 80, ElementLimit: 16, ResultTypes: true, Attributes: true}
}

func TestInstructionLabel(t *testing.T) {
	f := testFormatter()
	in := &ir.Instruction{
		Name:    "math.add",
		Results: []ir.ValueID{"v0"},
		Types:   []string{"i32"},
		Attrs: []ir.Attr{
			{Name: "fastmath", Value: ir.BoolValue(true)},
		},
	}

	got := f.InstructionLabel(in)
	want := "math.add : (i32)\n\nfastmath: true"
	if got != want {
		t.Errorf("InstructionLabel = %q, want %q", got, want)
	}
}

func TestInstructionLabelPlain(t *testing.T) {
	f := Formatter{MaxLen: 80, ElementLimit: 16}
	in := &ir.Instruction{Name: "cf.br", Types: []string{"i32"}, Attrs: []ir.Attr{{Name: "x", Value: ir.IntValue(1)}}}

	// Types and attributes stay out of the label unless enabled.
	if got := f.InstructionLabel(in); got != "cf.br" {
		t.Errorf("InstructionLabel = %q, want %q", got, "cf.br")
	}
}

func TestTruncation(t *testing.T) {
	f := Formatter{MaxLen: 10, ElementLimit: 16}

	long := &ir.Instruction{Name: strings.Repeat("x", 25)}
	got := f.InstructionLabel(long)
	if want := strings.Repeat("x", 10) + "..."; got != want {
		t.Errorf("truncated label = %q, want %q", got, want)
	}

	// At or under the limit: unchanged.
	exact := &ir.Instruction{Name: strings.Repeat("y", 10)}
	if got := f.InstructionLabel(exact); got != strings.Repeat("y", 10) {
		t.Errorf("label at limit changed: %q", got)
	}
}

func TestAttrValueElision(t *testing.T) {
	f := testFormatter()

	tests := []struct {
		name string
		val  ir.AttrValue
		want string
	}{
		{
			name: "large 2d container collapses to rank placeholder",
			val:  ir.ElementsValue("tensor<100x100xi32>", 2, 10000, false, "dense<[[...]]>"),
			want: "[[...]] : tensor<100x100xi32>",
		},
		{
			name: "large 1d container",
			val:  ir.ElementsValue("tensor<64xf32>", 1, 64, false, "dense<...>"),
			want: "[...] : tensor<64xf32>",
		},
		{
			name: "splat printed in full regardless of size",
			val:  ir.ElementsValue("tensor<1000000xi8>", 1, 1000000, true, "dense<0>"),
			want: "dense<0> : tensor<1000000xi8>",
		},
		{
			name: "small container printed in full",
			val:  ir.ElementsValue("tensor<2xi32>", 1, 2, false, "dense<[1, 2]>"),
			want: "dense<[1, 2]> : tensor<2xi32>",
		},
		{
			name: "oversized array",
			val: func() ir.AttrValue {
				items := make([]ir.AttrValue, 20)
				for i := range items {
					items[i] = ir.IntValue(int64(i))
				}
				return ir.ArrayValue(items...)
			}(),
			want: "[...]",
		},
		{
			name: "plain value",
			val:  ir.StringValue("hello"),
			want: `"hello"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := f.AttrValue(tt.val); got != tt.want {
				t.Errorf("AttrValue = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEscapeString(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`say "hi"`, `say \"hi\"`},
		{"line1\nline2", `line1\nline2`},
		{`back\slash`, `back\\slash`},
		{"tab\there", `tab\there`},
		{"bell\x07", `bell\x07`},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		if got := escapeString(tt.in); got != tt.want {
			t.Errorf("escapeString(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
