package batch

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
)

func discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestRunCountsOutcomes(t *testing.T) {
	r := NewRunner(2, discard())
	paths := []string{"a.pdf", "b.pdf", "c.pdf", "d.pdf"}

	ok, failed := r.Run(context.Background(), paths, func(_ context.Context, path string) error {
		if path == "c.pdf" {
			return errors.New("corrupt file")
		}
		return nil
	})
	if ok != 3 || failed != 1 {
		t.Errorf("ok=%d failed=%d, want 3/1", ok, failed)
	}
}

func TestRunFailureDoesNotStopBatch(t *testing.T) {
	r := NewRunner(1, discard())
	var processed atomic.Int64

	ok, failed := r.Run(context.Background(), []string{"a", "b", "c"}, func(context.Context, string) error {
		processed.Add(1)
		return errors.New("always fails")
	})
	if processed.Load() != 3 {
		t.Errorf("processed %d files, want all 3", processed.Load())
	}
	if ok != 0 || failed != 3 {
		t.Errorf("ok=%d failed=%d, want 0/3", ok, failed)
	}
}

func TestRunHonorsConcurrencyLimit(t *testing.T) {
	const limit = 2
	r := NewRunner(limit, discard())

	var mu sync.Mutex
	active, peak := 0, 0

	r.Run(context.Background(), []string{"a", "b", "c", "d", "e", "f"}, func(context.Context, string) error {
		mu.Lock()
		active++
		if active > peak {
			peak = active
		}
		mu.Unlock()

		mu.Lock()
		active--
		mu.Unlock()
		return nil
	})
	if peak > limit {
		t.Errorf("peak concurrency %d exceeded limit %d", peak, limit)
	}
}

func TestRunCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewRunner(2, discard())
	ok, failed := r.Run(ctx, []string{"a", "b"}, func(context.Context, string) error {
		t.Error("process function called after cancellation")
		return nil
	})
	if ok != 0 || failed != 0 {
		t.Errorf("ok=%d failed=%d, want 0/0", ok, failed)
	}
}

func TestWatcherClaimRelease(t *testing.T) {
	w := NewWatcher(WatchConfig{Dir: t.TempDir()}, discard())

	if !w.claim("/in/a.pdf") {
		t.Fatal("first claim refused")
	}
	if w.claim("/in/a.pdf") {
		t.Fatal("double claim allowed")
	}
	w.release("/in/a.pdf")
	if !w.claim("/in/a.pdf") {
		t.Fatal("claim after release refused")
	}
}
