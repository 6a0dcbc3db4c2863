// Package detector walks the page-text stream of a concatenated PDF and
// decides where one logical document ends and the next begins. Detection
// runs as two named phases: DetectBoundaries makes a best-effort inline
// pass, then ResolveMissingIdentifiers exhaustively rescans spans that
// still lack a file number.
package detector

import (
	"context"
	"log/slog"

	"github.com/legaldocflow/mailroom/internal/models"
	"github.com/legaldocflow/mailroom/internal/pagetext"
	"github.com/legaldocflow/mailroom/internal/patterns"
)

// PageSource is what the detector needs from a PDF: a page count, the
// document-wide scanned/text policy, and per-page text in a given mode.
// Extraction failures surface as empty text, never as errors.
type PageSource interface {
	PageCount() int
	Scanned() bool
	PageText(ctx context.Context, page int, mode pagetext.Mode) string
}

// Result holds the outcome of a detection run: the ordered spans and the
// page cache accumulated while producing them. Spans are emitted in page
// order, non-overlapping; blank pages belong to no span's content.
type Result struct {
	Spans   []models.DocumentSpan
	Pages   []models.Page
	Scanned bool
}

// Detector drives boundary detection over a single source PDF.
type Detector struct {
	src PageSource
	log *slog.Logger
}

// New builds a detector for one source.
func New(src PageSource, log *slog.Logger) *Detector {
	if log == nil {
		log = slog.Default()
	}
	return &Detector{src: src, log: log}
}

// Run executes both detection phases plus the validity filter.
func (d *Detector) Run(ctx context.Context) *Result {
	scanned := d.src.Scanned()
	pages := d.prefetch(ctx, scanned)
	spans := d.DetectBoundaries(ctx, pages, scanned)
	d.ResolveMissingIdentifiers(ctx, pages, spans, scanned)
	spans = dropEmptySpans(pages, spans, d.log)
	return &Result{Spans: spans, Pages: pages, Scanned: scanned}
}

// RunFixed splits the document into fixed-size spans of pagesPerDoc pages
// instead of detecting boundaries, then recovers file numbers per span.
// Used when the caller forces a document family with a known layout.
func (d *Detector) RunFixed(ctx context.Context, pagesPerDoc int) *Result {
	if pagesPerDoc < 1 {
		pagesPerDoc = 1
	}
	scanned := d.src.Scanned()
	pages := d.prefetch(ctx, scanned)
	spans := FixedSpans(d.src.PageCount(), pagesPerDoc)

	// File numbers conventionally sit on the second page of a document in
	// this family; try it first, then the first page, then everything.
	for i := range spans {
		for _, p := range []int{spans[i].StartPage + 1, spans[i].StartPage} {
			if p > spans[i].EndPage {
				continue
			}
			if scanned && pages[p].Text == "" {
				d.upgrade(ctx, pages, p)
			}
			if fn := d.extractFileNumber(pages[p].Text, p); fn != "" {
				spans[i].FileNumber = fn
				break
			}
		}
		if spans[i].IndexNumber == "" {
			spans[i].IndexNumber = patterns.ExtractIndexNumber(pages[spans[i].StartPage].Text)
		}
	}
	d.ResolveMissingIdentifiers(ctx, pages, spans, scanned)
	spans = dropEmptySpans(pages, spans, d.log)
	return &Result{Spans: spans, Pages: pages, Scanned: scanned}
}

// FixedSpans covers total pages with consecutive spans of per pages each;
// the final span may be shorter.
func FixedSpans(total, per int) []models.DocumentSpan {
	var spans []models.DocumentSpan
	for start := 0; start < total; start += per {
		end := start + per - 1
		if end > total-1 {
			end = total - 1
		}
		spans = append(spans, models.DocumentSpan{StartPage: start, EndPage: end})
	}
	return spans
}

// prefetch builds the initial page cache. Text documents read the whole
// embedded layer. Scanned documents quick-scan only a strategic subset
// (leading pages, every third page, and expected signature pages);
// everything else stays empty until a later phase needs it.
func (d *Detector) prefetch(ctx context.Context, scanned bool) []models.Page {
	n := d.src.PageCount()
	pages := make([]models.Page, n)
	for i := 0; i < n; i++ {
		var text string
		var usedOCR bool
		if !scanned {
			text = d.src.PageText(ctx, i, pagetext.ModeStructured)
		} else if quickScanPage(i) {
			text = d.src.PageText(ctx, i, pagetext.ModeOCRQuick)
			usedOCR = true
		}
		// A scanned page that was skipped by the schedule has no text yet;
		// that is unknown, not blank.
		blank := patterns.IsBlank(text) && (!scanned || usedOCR)
		pages[i] = models.Page{Index: i, Text: text, Blank: blank, OCRUsed: usedOCR}
	}
	return pages
}

// quickScanPage says whether page i is in the quick-scan schedule for
// scanned documents: the first three pages, every third page, and the
// typical signature pages of a seven-page packet.
func quickScanPage(i int) bool {
	return i < 3 || i%3 == 0 || (i+1)%7 == 0
}

// upgrade replaces a page with its full-resolution OCR reading.
func (d *Detector) upgrade(ctx context.Context, pages []models.Page, i int) {
	text := d.src.PageText(ctx, i, pagetext.ModeOCRFull)
	pages[i] = models.Page{Index: i, Text: text, Blank: patterns.IsBlank(text), OCRUsed: true}
}

func (d *Detector) extractFileNumber(text string, page int) string {
	fn, label := patterns.ExtractFileNumberWithLabel(text)
	if fn != "" {
		d.log.Info("found file number", "fileNumber", fn, "page", page+1, "rule", label)
	}
	return fn
}

// DetectBoundaries is phase one: a single in-order pass over the pages,
// maintaining at most one open span. Per page, in priority order: skip
// blanks; close/open on an index-number change; close/open on a start
// marker; otherwise fill the open span's missing identifiers.
func (d *Detector) DetectBoundaries(ctx context.Context, pages []models.Page, scanned bool) []models.DocumentSpan {
	var spans []models.DocumentSpan
	var open *models.DocumentSpan

	closeAt := func(end int) {
		if open != nil {
			open.EndPage = end
			spans = append(spans, *open)
			open = nil
		}
	}

	for i := 0; i < len(pages); i++ {
		p := pages[i]
		if p.Blank {
			continue
		}
		if scanned && p.Text == "" {
			if open == nil {
				// Outside any document the quick schedule is the only
				// signal we pay for; unread pages stay unread.
				continue
			}
			// Inside a document an unread page may carry the next start
			// marker or the identifiers the span still lacks.
			d.upgrade(ctx, pages, i)
			p = pages[i]
			if p.Blank {
				continue
			}
		}

		pageIndex := patterns.ExtractIndexNumber(p.Text)
		continuation := patterns.IsContinuation(p.Text)

		switch {
		case open != nil && !continuation && pageIndex != "" && open.IndexNumber != "" && pageIndex != open.IndexNumber:
			// Case boundary inferred from reference-number continuity:
			// no layout marker, but the court index number changed.
			d.log.Info("index number changed", "from", open.IndexNumber, "to", pageIndex, "page", i+1)
			closeAt(i - 1)
			open = &models.DocumentSpan{StartPage: i, IndexNumber: pageIndex}

		case !continuation && patterns.IsDocumentStart(p.Text):
			closeAt(i - 1)
			open = &models.DocumentSpan{StartPage: i, IndexNumber: pageIndex}
			d.log.Info("document start marker", "page", i+1, "indexNumber", pageIndex)
			// File numbers sit on the second page of this document
			// family; on scanned sources read it eagerly at full
			// resolution rather than waiting for the rescan phase.
			if scanned && i+1 < len(pages) {
				d.upgrade(ctx, pages, i+1)
				if fn := d.extractFileNumber(pages[i+1].Text, i+1); fn != "" {
					open.FileNumber = fn
				}
			}

		case open == nil:
			// No marker, but content before any detected start. Open an
			// implicit span so every non-blank page belongs to exactly
			// one span.
			open = &models.DocumentSpan{StartPage: i, IndexNumber: pageIndex}
			d.log.Debug("implicit document start", "page", i+1)
			if fn := d.extractFileNumber(p.Text, i); fn != "" {
				open.FileNumber = fn
			}

		default:
			if open.IndexNumber == "" && pageIndex != "" && !continuation {
				open.IndexNumber = pageIndex
			}
			if open.FileNumber == "" {
				if fn := d.extractFileNumber(p.Text, i); fn != "" {
					open.FileNumber = fn
				}
			}
		}
	}
	closeAt(len(pages) - 1)
	return spans
}

// ResolveMissingIdentifiers is phase two: for every span still lacking a
// file number, read each of its pages (full-resolution OCR where text is
// still missing) until one yields a file number. First hit wins.
func (d *Detector) ResolveMissingIdentifiers(ctx context.Context, pages []models.Page, spans []models.DocumentSpan, scanned bool) {
	for si := range spans {
		if spans[si].FileNumber != "" {
			continue
		}
		d.log.Info("rescanning span for file number", "span", si+1, "pages", spans[si].PageRange())
		for p := spans[si].StartPage; p <= spans[si].EndPage && p < len(pages); p++ {
			if scanned && (pages[p].Text == "" || !pages[p].OCRUsed) {
				d.upgrade(ctx, pages, p)
			}
			if fn := d.extractFileNumber(pages[p].Text, p); fn != "" {
				spans[si].FileNumber = fn
				break
			}
		}
	}
}

// dropEmptySpans applies the validity filter: a span whose range holds no
// non-blank page is an artifact of marker detection on empty content.
func dropEmptySpans(pages []models.Page, spans []models.DocumentSpan, log *slog.Logger) []models.DocumentSpan {
	valid := spans[:0]
	for _, s := range spans {
		nonBlank := 0
		for p := s.StartPage; p <= s.EndPage && p < len(pages); p++ {
			if !pages[p].Blank {
				nonBlank++
			}
		}
		if nonBlank >= 1 {
			valid = append(valid, s)
		} else {
			log.Warn("dropping span with no content", "pages", s.PageRange())
		}
	}
	return valid
}
