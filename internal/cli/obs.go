package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/opdot/opdot/pkg/observability"
)

// logPipelineHooks mirrors pipeline events into the debug log. Installed
// only in verbose mode.
type logPipelineHooks struct {
	observability.NoopPipelineHooks
	logger *log.Logger
}

func (h *logPipelineHooks) OnParseComplete(_ context.Context, source string, count int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("parse failed", "source", source, "err", err)
		return
	}
	h.logger.Debug("parse complete", "source", source, "instructions", count, "took", d.Round(time.Millisecond))
}

func (h *logPipelineHooks) OnExportComplete(_ context.Context, module string, bytes int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("export failed", "module", module, "err", err)
		return
	}
	h.logger.Debug("export complete", "module", module, "bytes", bytes, "took", d.Round(time.Millisecond))
}

func (h *logPipelineHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("render failed", "formats", formats, "err", err)
		return
	}
	h.logger.Debug("render complete", "formats", formats, "took", d.Round(time.Millisecond))
}

// logCacheHooks mirrors artifact cache events into the debug log.
type logCacheHooks struct {
	observability.NoopCacheHooks
	logger *log.Logger
}

func (h *logCacheHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *logCacheHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}
