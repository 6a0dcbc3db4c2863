// Package batch fans one-file processing out over many inputs and keeps
// a drop directory under watch for new arrivals.
package batch

import (
	"context"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// ProcessFunc handles one input PDF end to end.
type ProcessFunc func(ctx context.Context, path string) error

type Runner struct {
	concurrency int
	log         *slog.Logger
}

func NewRunner(concurrency int, log *slog.Logger) *Runner {
	if concurrency < 1 {
		concurrency = 1
	}
	if log == nil {
		log = slog.Default()
	}
	return &Runner{concurrency: concurrency, log: log}
}

// Run processes every path with bounded concurrency. A failing file is
// logged and counted but never stops the rest of the batch; only context
// cancellation aborts early.
func (r *Runner) Run(ctx context.Context, paths []string, fn ProcessFunc) (succeeded, failed int) {
	var okCount, failCount atomic.Int64

	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(r.concurrency)
	for _, path := range paths {
		eg.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := fn(gctx, path); err != nil {
				r.log.Error("File processing failed", "path", path, "error", err)
				failCount.Add(1)
				return nil
			}
			okCount.Add(1)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		r.log.Warn("Batch aborted.", "error", err)
	}
	return int(okCount.Load()), int(failCount.Load())
}
