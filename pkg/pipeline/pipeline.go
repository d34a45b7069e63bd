// Package pipeline provides the parse → export → render pipeline shared by
// the CLI and the HTTP server.
//
// The pipeline consists of three stages:
//
//  1. Parse: decode and validate a module document
//  2. Export: walk the module and emit the DOT text
//  3. Render: turn the DOT text into output formats (dot, svg, png)
//
// Each stage can be run independently or as part of the complete pipeline.
// Rendered artifacts are cached under a content hash of the DOT text, so
// re-rendering an unchanged module is free.
package pipeline

import (
	"fmt"
	"strings"
	"time"

	"github.com/opdot/opdot/pkg/dot"
	"github.com/opdot/opdot/pkg/errors"
	"github.com/opdot/opdot/pkg/ir"
)

// Output formats.
const (
	FormatDOT = "dot"
	FormatSVG = "svg"
	FormatPNG = "png"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatDOT: true,
	FormatSVG: true,
	FormatPNG: true,
}

// DefaultCacheTTL is how long rendered artifacts stay cached.
const DefaultCacheTTL = 24 * time.Hour

// Options contains all configuration for one pipeline run.
type Options struct {
	// Input is the path to the module document, or "-" for stdin.
	Input string `json:"input,omitempty"`

	// Export configures the DOT exporter.
	Export dot.Options `json:"export"`

	// Formats selects the rendered outputs. Defaults to ["dot"].
	Formats []string `json:"formats,omitempty"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Module is the parsed input.
	Module *ir.Module

	// DOT is the exported document text.
	DOT string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheHits counts artifacts served from the cache.
	CacheHits int
}

// Stats contains pipeline execution statistics.
type Stats struct {
	InstructionCount int
	DOTBytes         int
	ParseTime        time.Duration
	ExportTime       time.Duration
	RenderTime       time.Duration
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: dot, svg, png)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid and that there is at
// least one.
func ValidateFormats(formats []string) error {
	if len(formats) == 0 {
		return errors.New(errors.ErrCodeInvalidFormat, "no output format selected")
	}
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ParseFormats splits a comma-separated format list, trimming whitespace
// and dropping empty entries. An empty input yields the default ["dot"].
func ParseFormats(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{FormatDOT}
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if f := strings.TrimSpace(part); f != "" {
			out = append(out, strings.ToLower(f))
		}
	}
	return out
}

func (s Stats) String() string {
	return fmt.Sprintf("%d instructions, %d DOT bytes (parse %s, export %s, render %s)",
		s.InstructionCount, s.DOTBytes,
		s.ParseTime.Round(time.Millisecond),
		s.ExportTime.Round(time.Millisecond),
		s.RenderTime.Round(time.Millisecond))
}
