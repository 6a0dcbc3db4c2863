package models

import "fmt"

// Page is one source page's extracted text together with the facts the
// detector needs about it. A Page is immutable once produced; when a page
// is re-read at a higher resolution the slot is replaced with a new value
// rather than mutated in place.
type Page struct {
	Index   int
	Text    string
	Blank   bool
	OCRUsed bool
}

// DocumentSpan is a contiguous page range believed to constitute one
// logical output document. StartPage and EndPage are zero-based and
// inclusive. FileNumber and IndexNumber are empty until extracted.
type DocumentSpan struct {
	StartPage   int
	EndPage     int
	FileNumber  string
	IndexNumber string
}

// PageCount returns the number of source pages covered by the span,
// including pages later excluded as blank.
func (s DocumentSpan) PageCount() int {
	return s.EndPage - s.StartPage + 1
}

// PageRange renders the span as a human-readable 1-based range, e.g. "3-9".
func (s DocumentSpan) PageRange() string {
	return fmt.Sprintf("%d-%d", s.StartPage+1, s.EndPage+1)
}
