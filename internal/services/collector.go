package services

import (
	"sync"

	"github.com/legaldocflow/mailroom/internal/assembler"
	"github.com/legaldocflow/mailroom/internal/models"
)

// Collector accumulates outcomes from concurrent per-file processing so a
// multi-file run ends with one combined manifest and one incomplete log
// instead of each worker overwriting the shared report files.
type Collector struct {
	mu         sync.Mutex
	documents  []models.ProcessedDocument
	incomplete []models.IncompleteDocument
}

func (c *Collector) Add(o *Outcome) {
	if o == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.documents = append(c.documents, o.Documents...)
	c.incomplete = append(c.incomplete, o.Incomplete...)
}

// Documents returns a snapshot of everything collected so far.
func (c *Collector) Documents() []models.ProcessedDocument {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.ProcessedDocument, len(c.documents))
	copy(out, c.documents)
	return out
}

// WriteReports writes the combined manifest and incomplete log. Calls are
// serialized, so long-running callers may rewrite after every file.
func (c *Collector) WriteReports(asm *assembler.Assembler, runID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := asm.WriteManifest(runID, c.documents); err != nil {
		return err
	}
	_, err := asm.WriteIncompleteLog(c.incomplete)
	return err
}
