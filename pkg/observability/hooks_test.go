package observability

import (
	"context"
	"testing"
	"time"
)

type recordingSearchHooks struct {
	NoopSearchHooks
	batches int
	tasks   int
}

func (h *recordingSearchHooks) OnBatchStart(context.Context, string, int, int) { h.batches++ }
func (h *recordingSearchHooks) OnTaskComplete(context.Context, string, string, string, time.Duration, error) {
	h.tasks++
}

func TestDefaultsAreNoop(t *testing.T) {
	Reset()

	// Must not panic.
	ctx := context.Background()
	Search().OnBatchStart(ctx, "b", 1, 2)
	Search().OnTaskComplete(ctx, "b", "q", "s", time.Second, nil)
	Search().OnBatchComplete(ctx, "b", 0, time.Second)
	Cache().OnCacheHit(ctx, "http")
	Cache().OnCacheMiss(ctx, "http")
	Cache().OnCacheSet(ctx, "http", 10)
	HTTP().OnRequest(ctx, "GET", "example.com", "/")
	HTTP().OnResponse(ctx, "GET", "example.com", "/", 200, time.Second)
	HTTP().OnError(ctx, "GET", "example.com", "/", nil)
}

func TestSetSearchHooks(t *testing.T) {
	t.Cleanup(Reset)

	h := &recordingSearchHooks{}
	SetSearchHooks(h)

	Search().OnBatchStart(context.Background(), "b", 1, 1)
	Search().OnTaskComplete(context.Background(), "b", "q", "s", 0, nil)

	if h.batches != 1 || h.tasks != 1 {
		t.Errorf("hooks not invoked: batches=%d tasks=%d", h.batches, h.tasks)
	}
}

func TestSetNilKeepsCurrent(t *testing.T) {
	t.Cleanup(Reset)

	h := &recordingSearchHooks{}
	SetSearchHooks(h)
	SetSearchHooks(nil)

	Search().OnBatchStart(context.Background(), "b", 1, 1)
	if h.batches != 1 {
		t.Error("nil registration should not replace existing hooks")
	}
}
