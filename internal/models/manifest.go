package models

import "time"

// These structs define the JSON records persisted at the end of a run:
// the manifest consumed by downstream routing collaborators and the
// report entries for documents that need manual follow-up.

// ProcessedDocument is the manifest record for one output PDF. It is
// terminal: created after the output file is written and never mutated.
type ProcessedDocument struct {
	FileNumber    string    `json:"file_number"`
	DocumentType  string    `json:"document_type"`
	Jurisdiction  string    `json:"jurisdiction,omitempty"`
	DebtorName    string    `json:"debtor_name,omitempty"`
	OutputFile    string    `json:"output_file"`
	OriginalPages string    `json:"original_pages"`
	PagesIncluded int       `json:"pages_included"`
	SourceFile    string    `json:"source_file"`
	Incomplete    bool      `json:"incomplete,omitempty"`
	ProcessedAt   time.Time `json:"processing_timestamp"`
}

// IncompleteDocument describes a span for which no valid file number was
// recovered. The output PDF is still materialized in the incomplete
// bucket; this record carries the provenance for manual review.
type IncompleteDocument struct {
	DocNumber int
	IndexNo   string
	PageRange string
	PageCount int
	Filename  string
	Reason    string
}

// Manifest is the top-level record written to manifest.json for a run.
type Manifest struct {
	RunID          string              `json:"run_id"`
	ProcessedAt    time.Time           `json:"processed_at"`
	TotalDocuments int                 `json:"total_documents"`
	Documents      []ProcessedDocument `json:"documents"`
}
