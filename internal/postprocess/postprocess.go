// Package postprocess repairs output filenames after a split run: file
// numbers embedded in names get the strict correction pass, and documents
// that went out with an UNKNOWN placeholder get one more extraction
// attempt against their own pages.
package postprocess

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/legaldocflow/mailroom/internal/corrector"
	"github.com/legaldocflow/mailroom/internal/pagetext"
	"github.com/legaldocflow/mailroom/internal/patterns"
)

type Stats struct {
	Examined  int
	Renamed   int
	Corrected int
}

type Processor struct {
	strict corrector.Strict
	cfg    pagetext.Config
	log    *slog.Logger
}

func New(now time.Time, log *slog.Logger) *Processor {
	if log == nil {
		log = slog.Default()
	}
	return &Processor{strict: corrector.NewStrict(now), cfg: pagetext.DefaultConfig(), log: log}
}

// ProcessDirectory examines every <docType>_*.pdf in dir. Files whose
// embedded file number the strict corrector changes are renamed; files
// carrying an UNKNOWN placeholder get a fresh extraction attempt from
// their first pages. Renames never overwrite an existing file.
func (p *Processor) ProcessDirectory(ctx context.Context, dir, docType string) (Stats, error) {
	var stats Stats
	matches, err := filepath.Glob(filepath.Join(dir, docType+"_*.pdf"))
	if err != nil {
		return stats, fmt.Errorf("listing %s: %w", dir, err)
	}
	if len(matches) == 0 {
		p.log.Info("No documents found to post-process.", "dir", dir, "type", docType)
		return stats, nil
	}

	prefix := docType + "_"
	for _, path := range matches {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		stats.Examined++
		name := filepath.Base(path)
		embedded := strings.TrimSuffix(strings.TrimPrefix(name, prefix), ".pdf")

		if !strings.Contains(embedded, "UNKNOWN") {
			corrected, reason := p.strict.CorrectWithReason(embedded)
			if corrected == embedded {
				continue
			}
			newName := prefix + corrected + ".pdf"
			if p.rename(path, filepath.Join(dir, newName)) {
				p.log.Info("Corrected file number in name.", "from", name, "to", newName, "rule", reason)
				stats.Corrected++
			}
			continue
		}

		fileNumber := p.extractComprehensive(ctx, path)
		if fileNumber == "" {
			p.log.Warn("Could not recover file number.", "file", name)
			continue
		}
		newName := prefix + fileNumber + ".pdf"
		if p.rename(path, filepath.Join(dir, newName)) {
			p.log.Info("Recovered file number.", "from", name, "to", newName)
			stats.Renamed++
		}
	}
	p.log.Info("Post-processing complete.", "examined", stats.Examined, "renamed", stats.Renamed, "corrected", stats.Corrected)
	return stats, nil
}

// ProcessIncomplete retries extraction for documents parked in the
// incomplete bucket. A recovered file number promotes the document back
// into outputDir under its proper name.
func (p *Processor) ProcessIncomplete(ctx context.Context, outputDir, incompleteDir, docType string) (Stats, error) {
	var stats Stats
	matches, err := filepath.Glob(filepath.Join(outputDir, incompleteDir, "INCOMPLETE_*_"+docType+".pdf"))
	if err != nil {
		return stats, fmt.Errorf("listing incomplete bucket: %w", err)
	}
	for _, path := range matches {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		stats.Examined++
		fileNumber := p.extractComprehensive(ctx, path)
		if fileNumber == "" {
			continue
		}
		newPath := filepath.Join(outputDir, docType+"_"+fileNumber+".pdf")
		if p.rename(path, newPath) {
			p.log.Info("Promoted incomplete document.", "from", filepath.Base(path), "to", filepath.Base(newPath))
			stats.Renamed++
		}
	}
	return stats, nil
}

// extractComprehensive reads the document's own embedded text: the first
// three pages through the standard rule set, then the wrapped-label case
// where a page break or line wrap separated "File No." from its value.
func (p *Processor) extractComprehensive(ctx context.Context, path string) string {
	src, err := pagetext.Open(path, nil, p.cfg, p.log)
	if err != nil {
		p.log.Error("Failed to open output PDF", "path", path, "error", err)
		return ""
	}
	defer src.Close()

	n := src.PageCount()
	for i := 0; i < n && i < 3; i++ {
		text := src.PageText(ctx, i, pagetext.ModeStructured)
		if fn := patterns.ExtractFileNumber(text); fn != "" {
			return p.finish(fn)
		}
	}
	if n >= 2 {
		if fn := extractWrapped(src.PageText(ctx, 1, pagetext.ModeStructured)); fn != "" {
			return p.finish(fn)
		}
	}
	return ""
}

var wrappedValue = regexp.MustCompile(`(?i)File\s*No[.:]?\s*([A-Z0-9]{2,})`)

// extractWrapped joins each line containing a file-number label with the
// two lines after it, catching values the layout pushed onto the next
// line.
func extractWrapped(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if !strings.Contains(line, "File No") {
			continue
		}
		joined := line
		for j := i + 1; j < len(lines) && j <= i+2; j++ {
			joined += " " + lines[j]
		}
		if m := wrappedValue.FindStringSubmatch(joined); m != nil {
			return m[1]
		}
	}
	return ""
}

func (p *Processor) finish(candidate string) string {
	corrected := p.strict.Correct(candidate)
	if !patterns.IsValidFileNumber(corrected) {
		return ""
	}
	return corrected
}

// rename moves a file unless the destination already exists.
func (p *Processor) rename(from, to string) bool {
	if _, err := os.Stat(to); err == nil {
		p.log.Warn("Rename target already exists, keeping original.", "from", filepath.Base(from), "to", filepath.Base(to))
		return false
	}
	if err := os.Rename(from, to); err != nil {
		p.log.Error("Rename failed", "from", from, "to", to, "error", err)
		return false
	}
	return true
}
