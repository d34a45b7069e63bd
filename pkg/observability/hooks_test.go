package observability

import (
	"context"
	"testing"
	"time"
)

type recordingPipelineHooks struct {
	NoopPipelineHooks
	exports int
}

func (h *recordingPipelineHooks) OnExportStart(context.Context, string) { h.exports++ }

type recordingCacheHooks struct {
	NoopCacheHooks
	hits int
}

func (h *recordingCacheHooks) OnCacheHit(context.Context, string) { h.hits++ }

func TestDefaultHooksAreNoop(t *testing.T) {
	SetPipelineHooks(nil)
	SetCacheHooks(nil)

	ctx := context.Background()
	// Must not panic.
	Pipeline().OnParseStart(ctx, "module.json")
	Pipeline().OnExportComplete(ctx, "m", 100, time.Millisecond, nil)
	Cache().OnCacheMiss(ctx, "artifact")
}

func TestSetPipelineHooks(t *testing.T) {
	h := &recordingPipelineHooks{}
	SetPipelineHooks(h)
	defer SetPipelineHooks(nil)

	Pipeline().OnExportStart(context.Background(), "m")
	Pipeline().OnExportStart(context.Background(), "m")
	if h.exports != 2 {
		t.Errorf("exports = %d, want 2", h.exports)
	}
}

func TestSetCacheHooks(t *testing.T) {
	h := &recordingCacheHooks{}
	SetCacheHooks(h)
	defer SetCacheHooks(nil)

	Cache().OnCacheHit(context.Background(), "artifact")
	if h.hits != 1 {
		t.Errorf("hits = %d, want 1", h.hits)
	}
}

func TestNilRestoresNoop(t *testing.T) {
	SetPipelineHooks(&recordingPipelineHooks{})
	SetPipelineHooks(nil)
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("nil should restore the no-op pipeline hooks")
	}
}
