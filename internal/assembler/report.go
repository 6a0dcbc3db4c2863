package assembler

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/legaldocflow/mailroom/internal/models"
)

// WriteManifest persists the run's manifest.json in the output directory.
func (a *Assembler) WriteManifest(runID string, docs []models.ProcessedDocument) (string, error) {
	manifest := models.Manifest{
		RunID:          runID,
		ProcessedAt:    time.Now(),
		TotalDocuments: len(docs),
		Documents:      docs,
	}
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling manifest: %w", err)
	}
	path := filepath.Join(a.config.OutputDir, "manifest.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing manifest: %w", err)
	}
	a.log.Info("Manifest saved.", "path", path)
	return path, nil
}

// WriteIncompleteLog writes the human-readable review log next to the
// incomplete documents. No file is written when nothing is incomplete.
func (a *Assembler) WriteIncompleteLog(docs []models.IncompleteDocument) (string, error) {
	if len(docs) == 0 {
		return "", nil
	}
	dir := filepath.Join(a.config.OutputDir, a.config.IncompleteDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating incomplete dir: %w", err)
	}

	var b strings.Builder
	rule := strings.Repeat("=", 60)
	b.WriteString("INCOMPLETE DOCUMENTS LOG\n")
	b.WriteString(rule + "\n")
	fmt.Fprintf(&b, "Generated: %s\n", time.Now().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Total incomplete documents: %d\n", len(docs))
	b.WriteString(rule + "\n\n")
	for _, d := range docs {
		fmt.Fprintf(&b, "Document #%d\n", d.DocNumber)
		fmt.Fprintf(&b, "  Index No: %s\n", d.IndexNo)
		fmt.Fprintf(&b, "  Pages: %s (%d pages)\n", d.PageRange, d.PageCount)
		fmt.Fprintf(&b, "  Filename: %s\n", d.Filename)
		fmt.Fprintf(&b, "  Status: %s\n", d.Reason)
		b.WriteString(strings.Repeat("-", 40) + "\n")
	}

	path := filepath.Join(dir, "incomplete_documents.txt")
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return "", fmt.Errorf("writing incomplete log: %w", err)
	}
	a.log.Info("Created incomplete documents log.", "path", path, "count", len(docs))
	return path, nil
}

// PrintSummary writes the end-of-run summary: complete versus incomplete
// counts and per-type, per-jurisdiction breakdowns.
func PrintSummary(w io.Writer, outputDir string, docs []models.ProcessedDocument) {
	complete := 0
	byType := map[string]int{}
	byJurisdiction := map[string]int{}
	for _, d := range docs {
		if !d.Incomplete {
			complete++
		}
		byType[d.DocumentType]++
		j := d.Jurisdiction
		if j == "" {
			j = "Unknown"
		}
		byJurisdiction[j]++
	}

	rule := strings.Repeat("=", 70)
	fmt.Fprintln(w)
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "PROCESSING SUMMARY")
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Total documents processed: %d\n", len(docs))
	fmt.Fprintf(w, "Complete: %d, Incomplete: %d\n", complete, len(docs)-complete)
	fmt.Fprintf(w, "Output directory: %s\n", outputDir)

	fmt.Fprintln(w, "\nBy document type:")
	for _, k := range sortedKeys(byType) {
		fmt.Fprintf(w, "  %s: %d\n", k, byType[k])
	}
	fmt.Fprintln(w, "\nBy jurisdiction:")
	for _, k := range sortedKeys(byJurisdiction) {
		fmt.Fprintf(w, "  %s: %d\n", k, byJurisdiction[k])
	}
	fmt.Fprintln(w, rule)
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
