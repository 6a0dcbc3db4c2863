// Package run carries per-invocation identity through the pipeline.
// Components receive a Run instead of reaching for process-wide state,
// so batch workers can process files concurrently with isolated logs.
package run

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Run identifies one processing invocation. The logger carries the run id
// on every record it emits.
type Run struct {
	ID        string
	Log       *slog.Logger
	StartedAt time.Time
}

// New mints a run with a fresh id. A nil logger falls back to the default.
func New(log *slog.Logger) *Run {
	if log == nil {
		log = slog.Default()
	}
	id := uuid.NewString()
	return &Run{
		ID:        id,
		Log:       log.With("runID", id),
		StartedAt: time.Now(),
	}
}

// ForFile derives a child run scoped to one input file; used by batch
// processing so each file's records carry its own source attribute.
func (r *Run) ForFile(path string) *Run {
	return &Run{
		ID:        r.ID,
		Log:       r.Log.With("source", path),
		StartedAt: r.StartedAt,
	}
}
