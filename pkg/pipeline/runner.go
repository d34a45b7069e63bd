package pipeline

import (
	"bytes"
	"context"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/opdot/opdot/pkg/cache"
	"github.com/opdot/opdot/pkg/dot"
	"github.com/opdot/opdot/pkg/ir"
	"github.com/opdot/opdot/pkg/observability"
	"github.com/opdot/opdot/pkg/render"
)

// Runner executes pipeline stages with caching and observability hooks.
// A Runner is safe to reuse across runs; each export uses fresh state.
type Runner struct {
	cache  cache.Cache
	logger *log.Logger
}

// NewRunner creates a pipeline runner. A nil cache disables caching and a
// nil logger discards log output.
func NewRunner(c cache.Cache, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Runner{cache: c, logger: logger}
}

// Close releases the cache backend.
func (r *Runner) Close() error {
	return r.cache.Close()
}

// Parse reads and validates the module document at path ("-" for stdin).
func (r *Runner) Parse(ctx context.Context, path string) (*ir.Module, error) {
	start := time.Now()
	observability.Pipeline().OnParseStart(ctx, path)

	var mod *ir.Module
	var err error
	if path == "-" {
		mod, err = ir.Read(os.Stdin)
	} else {
		mod, err = ir.ReadFile(path)
	}

	count := 0
	if mod != nil {
		count = mod.CountInstructions()
	}
	observability.Pipeline().OnParseComplete(ctx, path, count, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("parsed module", "path", path, "instructions", count)
	return mod, nil
}

// Export walks the module and returns the DOT document text.
func (r *Runner) Export(ctx context.Context, mod *ir.Module, opts dot.Options) (string, error) {
	start := time.Now()
	observability.Pipeline().OnExportStart(ctx, mod.Name)

	var buf bytes.Buffer
	err := dot.Export(&buf, mod, opts)
	observability.Pipeline().OnExportComplete(ctx, mod.Name, buf.Len(), time.Since(start), err)
	if err != nil {
		return "", err
	}
	r.logger.Debug("exported module", "module", mod.Name, "bytes", buf.Len())
	return buf.String(), nil
}

// Render produces the requested artifact formats from the DOT text,
// serving from the cache where possible. It returns the artifacts and the
// number of cache hits.
func (r *Runner) Render(ctx context.Context, dotText string, formats []string) (map[string][]byte, int, error) {
	start := time.Now()
	observability.Pipeline().OnRenderStart(ctx, formats)

	artifacts := make(map[string][]byte, len(formats))
	hits := 0
	var err error
	for _, format := range formats {
		var data []byte
		data, err = r.renderOne(ctx, dotText, format, &hits)
		if err != nil {
			break
		}
		artifacts[format] = data
	}

	observability.Pipeline().OnRenderComplete(ctx, formats, time.Since(start), err)
	if err != nil {
		return nil, hits, err
	}
	return artifacts, hits, nil
}

func (r *Runner) renderOne(ctx context.Context, dotText, format string, hits *int) ([]byte, error) {
	// DOT is the exporter's own output; nothing to render or cache.
	if format == FormatDOT {
		return []byte(dotText), nil
	}

	key := cache.ArtifactKey(dotText, format)
	if data, hit, err := r.cache.Get(ctx, key); err == nil && hit {
		observability.Cache().OnCacheHit(ctx, "artifact")
		*hits++
		return data, nil
	}
	observability.Cache().OnCacheMiss(ctx, "artifact")

	var data []byte
	var err error
	switch format {
	case FormatSVG:
		data, err = render.SVG(ctx, dotText)
	case FormatPNG:
		data, err = render.PNG(ctx, dotText)
	default:
		return nil, ValidateFormat(format)
	}
	if err != nil {
		return nil, err
	}

	if err := r.cache.Set(ctx, key, data, DefaultCacheTTL); err != nil {
		// Cache write failures degrade to uncached operation.
		r.logger.Warn("cache write failed", "key", key, "err", err)
	} else {
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}
	return data, nil
}

// Execute runs the complete parse → export → render pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	formats := opts.Formats
	if len(formats) == 0 {
		formats = []string{FormatDOT}
	}
	if err := ValidateFormats(formats); err != nil {
		return nil, err
	}

	result := &Result{}

	start := time.Now()
	mod, err := r.Parse(ctx, opts.Input)
	if err != nil {
		return nil, err
	}
	result.Module = mod
	result.Stats.ParseTime = time.Since(start)
	result.Stats.InstructionCount = mod.CountInstructions()

	start = time.Now()
	dotText, err := r.Export(ctx, mod, opts.Export)
	if err != nil {
		return nil, err
	}
	result.DOT = dotText
	result.Stats.ExportTime = time.Since(start)
	result.Stats.DOTBytes = len(dotText)

	start = time.Now()
	artifacts, hits, err := r.Render(ctx, dotText, formats)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.CacheHits = hits
	result.Stats.RenderTime = time.Since(start)

	return result, nil
}
