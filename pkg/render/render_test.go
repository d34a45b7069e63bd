package render

import (
	"strings"
	"testing"
)

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.50 50.25" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))

	if !strings.Contains(out, `viewBox="0 0 100.50 50.25"`) {
		t.Errorf("viewBox not normalized: %s", out)
	}
	if !strings.Contains(out, `width="101"`) && !strings.Contains(out, `width="100"`) {
		t.Errorf("width not rewritten: %s", out)
	}
	if !strings.HasSuffix(out, "<g/></svg>") {
		t.Errorf("document body altered: %s", out)
	}
}

func TestNormalizeViewBoxPassthrough(t *testing.T) {
	in := []byte(`<svg><g/></svg>`)
	if got := string(normalizeViewBox(in)); got != string(in) {
		t.Errorf("svg without viewBox should pass through, got %s", got)
	}
}
