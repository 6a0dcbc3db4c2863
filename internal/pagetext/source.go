// Package pagetext yields per-page plain text for a PDF, choosing between
// the embedded text layer and rasterize+OCR extraction. OCR is 10-100x
// slower than structured extraction, so whether a document needs it is
// decided once per document, not per page.
package pagetext

import (
	"context"
	"fmt"
	"image"
	"log/slog"

	"github.com/gen2brain/go-fitz"

	"github.com/legaldocflow/mailroom/internal/ocr"
)

// Mode selects how a page's text is extracted.
type Mode int

const (
	// ModeStructured reads the embedded text layer; "" if there is none.
	ModeStructured Mode = iota
	// ModeOCRQuick rasterizes only the top of the page at low resolution,
	// for fast boundary-marker scanning.
	ModeOCRQuick
	// ModeOCRFull rasterizes the whole page at higher resolution, for
	// reliable file-number recovery.
	ModeOCRFull
)

func (m Mode) String() string {
	switch m {
	case ModeStructured:
		return "structured"
	case ModeOCRQuick:
		return "ocr_quick"
	case ModeOCRFull:
		return "ocr_full"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Config carries the extraction knobs.
type Config struct {
	QuickDPI    float64 // raster resolution for quick scans
	FullDPI     float64 // raster resolution for full-page recognition
	TopFraction float64 // fraction of page height scanned in quick mode
	Language    string  // recognition language hint

	// SampleThreshold is the structured-text length below which a sampled
	// page counts as empty for the scanned-document heuristic.
	SampleThreshold int
}

// DefaultConfig returns the tuned defaults for this document family.
func DefaultConfig() Config {
	return Config{
		QuickDPI:        108,
		FullDPI:         144,
		TopFraction:     0.30,
		Language:        "eng",
		SampleThreshold: 50,
	}
}

// Source yields page text for one open PDF. It is not safe for concurrent
// use; processing is page-by-page sequential per document.
type Source struct {
	path    string
	doc     *fitz.Document
	engine  ocr.Engine
	cfg     Config
	log     *slog.Logger
	pages   int
	scanned bool
}

// Open opens a PDF and classifies it as scanned or text-layered. The
// engine may be nil for callers that only ever need structured text.
func Open(path string, engine ocr.Engine, cfg Config, log *slog.Logger) (*Source, error) {
	if log == nil {
		log = slog.Default()
	}
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", path, err)
	}
	s := &Source{
		path:   path,
		doc:    doc,
		engine: engine,
		cfg:    cfg,
		log:    log.With("pdf", path),
		pages:  doc.NumPage(),
	}
	s.scanned = s.classifyScanned()
	if s.scanned {
		s.log.Info("detected scanned document, OCR strategy selected", "pages", s.pages)
	}
	return s, nil
}

// Close releases the underlying document.
func (s *Source) Close() error {
	return s.doc.Close()
}

// PageCount returns the number of pages in the document.
func (s *Source) PageCount() int { return s.pages }

// Scanned reports the document-wide extraction policy: true means the
// embedded text layer is unusable and OCR modes must be used.
func (s *Source) Scanned() bool { return s.scanned }

// Path returns the source PDF path.
func (s *Source) Path() string { return s.path }

// PageText extracts one page's text in the given mode. Any extraction
// failure (corrupt page, recognition error) is logged and yields ""; it
// never aborts the run.
func (s *Source) PageText(ctx context.Context, page int, mode Mode) string {
	if page < 0 || page >= s.pages {
		return ""
	}
	text, err := s.pageText(ctx, page, mode)
	if err != nil {
		s.log.Warn("page text extraction failed", "page", page+1, "mode", mode.String(), "error", err)
		return ""
	}
	return text
}

func (s *Source) pageText(ctx context.Context, page int, mode Mode) (string, error) {
	if mode == ModeStructured {
		return s.doc.Text(page)
	}
	if s.engine == nil {
		return "", fmt.Errorf("no recognition engine configured")
	}

	dpi := s.cfg.FullDPI
	if mode == ModeOCRQuick {
		dpi = s.cfg.QuickDPI
	}
	img, err := s.doc.ImageDPI(page, dpi)
	if err != nil {
		return "", fmt.Errorf("rasterize page %d: %w", page+1, err)
	}
	var src image.Image = img
	if mode == ModeOCRQuick {
		src = ocr.CropTop(img, s.cfg.TopFraction)
	}
	data, err := ocr.EncodePNG(src)
	if err != nil {
		return "", err
	}
	return s.engine.Recognize(ctx, ocr.Input{
		Image:    data,
		DPI:      int(dpi),
		Language: s.cfg.Language,
	})
}

// classifyScanned samples a few pages and classifies the whole document:
// if the structured text on a supermajority of samples is shorter than
// the threshold, the text layer is unusable and every subsequent
// extraction goes through OCR.
func (s *Source) classifyScanned() bool {
	samples := samplePages(s.pages)
	lengths := make([]int, 0, len(samples))
	for _, p := range samples {
		text, err := s.doc.Text(p)
		if err != nil {
			text = ""
		}
		lengths = append(lengths, len(stripSpace(text)))
	}
	return scannedFromSamples(lengths, s.cfg.SampleThreshold)
}

// samplePages picks the fixed sample set: the first page, an early-middle
// page and one late page, deduplicated for short documents.
func samplePages(total int) []int {
	if total <= 0 {
		return nil
	}
	candidates := []int{0, min(4, total-1), min(10, total-1)}
	pages := candidates[:0]
	seen := map[int]bool{}
	for _, p := range candidates {
		if !seen[p] {
			seen[p] = true
			pages = append(pages, p)
		}
	}
	return pages
}

// scannedFromSamples applies the supermajority rule: all but one sample
// (or all of them) must be under the threshold.
func scannedFromSamples(lengths []int, threshold int) bool {
	if len(lengths) == 0 {
		return false
	}
	empty := 0
	for _, n := range lengths {
		if n < threshold {
			empty++
		}
	}
	need := len(lengths) - 1
	if need < 1 {
		need = 1
	}
	return empty >= need
}

func stripSpace(s string) string {
	out := make([]rune, 0, len(s))
	for _, c := range s {
		switch c {
		case ' ', '\t', '\n', '\r', '\f', '\v':
		default:
			out = append(out, c)
		}
	}
	return string(out)
}
