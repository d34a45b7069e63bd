package pipeline

import (
	"context"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/opdot/opdot/pkg/dot"
	"github.com/opdot/opdot/pkg/errors"
	"github.com/opdot/opdot/pkg/ir"
)

func writeSampleModule(t *testing.T) string {
	t.Helper()
	m := &ir.Module{
		Name: "sample",
		Regions: []*ir.Region{{
			Blocks: []*ir.Block{{
				Name: "entry",
				Instructions: []*ir.Instruction{
					{Name: "a", Results: []ir.ValueID{"v0"}},
					{Name: "b", Operands: []ir.ValueID{"v0"}},
				},
			}},
		}},
	}
	path := filepath.Join(t.TempDir(), "module.json")
	if err := ir.WriteFile(m, path); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestExecuteDOT(t *testing.T) {
	r := NewRunner(nil, nil)
	defer r.Close()

	result, err := r.Execute(context.Background(), Options{
		Input:   writeSampleModule(t),
		Export:  dot.DefaultOptions(),
		Formats: []string{FormatDOT},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if result.Stats.InstructionCount != 2 {
		t.Errorf("InstructionCount = %d, want 2", result.Stats.InstructionCount)
	}
	out := string(result.Artifacts[FormatDOT])
	if out != result.DOT {
		t.Error("dot artifact should equal the exported text")
	}
	if !strings.Contains(out, "digraph G {") {
		t.Errorf("missing digraph envelope:\n%s", out)
	}
	if result.CacheHits != 0 {
		t.Errorf("CacheHits = %d, want 0", result.CacheHits)
	}
}

func TestExecuteInvalidFormat(t *testing.T) {
	r := NewRunner(nil, nil)
	defer r.Close()

	_, err := r.Execute(context.Background(), Options{
		Input:   writeSampleModule(t),
		Formats: []string{"gif"},
	})
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Fatalf("expected INVALID_FORMAT, got %v", err)
	}
}

func TestExecuteMissingInput(t *testing.T) {
	r := NewRunner(nil, nil)
	defer r.Close()

	_, err := r.Execute(context.Background(), Options{
		Input:   filepath.Join(t.TempDir(), "nope.json"),
		Formats: []string{FormatDOT},
	})
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Fatalf("expected FILE_NOT_FOUND, got %v", err)
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{"dot"}},
		{"svg", []string{"svg"}},
		{"svg,png", []string{"svg", "png"}},
		{" SVG , dot ", []string{"svg", "dot"}},
		{"svg,,png", []string{"svg", "png"}},
	}
	for _, tt := range tests {
		if got := ParseFormats(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ParseFormats(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"dot", "svg", "png"}); err != nil {
		t.Errorf("valid formats rejected: %v", err)
	}
	if err := ValidateFormats(nil); err == nil {
		t.Error("empty format list should be rejected")
	}
	if err := ValidateFormats([]string{"pdf"}); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("expected INVALID_FORMAT, got %v", err)
	}
}
