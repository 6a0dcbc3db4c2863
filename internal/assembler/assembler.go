// Package assembler materializes detected spans as output PDFs and
// routes spans without a valid file number to the incomplete bucket.
package assembler

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/legaldocflow/mailroom/internal/models"
	"github.com/legaldocflow/mailroom/internal/patterns"
)

type Config struct {
	OutputDir     string
	IncompleteDir string // subdirectory name under OutputDir
}

// Input is one span plus the labels classification attached to it.
type Input struct {
	Span         models.DocumentSpan
	Type         string
	Jurisdiction string
	DebtorName   string
}

type Assembler struct {
	config  Config
	pdfConf *model.Configuration
	log     *slog.Logger
}

func New(config Config, log *slog.Logger) *Assembler {
	if config.IncompleteDir == "" {
		config.IncompleteDir = "incomplete"
	}
	if log == nil {
		log = slog.Default()
	}
	pdfConf := model.NewDefaultConfiguration()
	pdfConf.ValidationMode = model.ValidationRelaxed
	return &Assembler{config: config, pdfConf: pdfConf, log: log}
}

// Assemble writes one PDF per span. Scanned sources keep every span page
// verbatim; text sources omit pages classified blank. Spans that end up
// with zero pages are dropped with a warning instead of producing an
// empty file. The input PDF is never modified.
func (a *Assembler) Assemble(ctx context.Context, sourcePDF string, docs []Input, pages []models.Page, scanned bool) ([]models.ProcessedDocument, []models.IncompleteDocument, error) {
	if err := os.MkdirAll(a.config.OutputDir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("creating output dir: %w", err)
	}

	var processed []models.ProcessedDocument
	var incomplete []models.IncompleteDocument
	sourceName := filepath.Base(sourcePDF)

	for i, doc := range docs {
		if err := ctx.Err(); err != nil {
			return processed, incomplete, err
		}
		span := doc.Span
		logCtx := a.log.With("document", i+1, "pages", span.PageRange())

		selected := a.selectPages(span, pages, scanned)
		if len(selected) == 0 {
			logCtx.Warn("Span has no content pages, skipping.")
			continue
		}

		fileNumber := span.FileNumber
		complete := isComplete(fileNumber)

		var outDir, outName string
		if complete {
			outDir = a.config.OutputDir
			outName = fmt.Sprintf("%s_%s.pdf", doc.Type, fileNumber)
		} else {
			outDir = filepath.Join(a.config.OutputDir, a.config.IncompleteDir)
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return processed, incomplete, fmt.Errorf("creating incomplete dir: %w", err)
			}
			outName = incompleteName(span.IndexNumber, i+1, doc.Type)
			incomplete = append(incomplete, models.IncompleteDocument{
				DocNumber: i + 1,
				IndexNo:   orUnknown(span.IndexNumber),
				PageRange: span.PageRange(),
				PageCount: span.PageCount(),
				Filename:  outName,
				Reason:    "missing file number",
			})
			logCtx.Warn("Document appears incomplete - no file number found.", "indexNumber", span.IndexNumber)
		}

		outPath := uniquePath(filepath.Join(outDir, outName), logCtx)
		if err := api.CollectFile(sourcePDF, outPath, selected, a.pdfConf); err != nil {
			logCtx.Error("Failed to write output PDF", "path", outPath, "error", err)
			continue
		}

		if fileNumber == "" {
			fileNumber = fmt.Sprintf("UNKNOWN_%03d", i+1)
		}
		processed = append(processed, models.ProcessedDocument{
			FileNumber:    fileNumber,
			DocumentType:  doc.Type,
			Jurisdiction:  doc.Jurisdiction,
			DebtorName:    doc.DebtorName,
			OutputFile:    filepath.Base(outPath),
			OriginalPages: span.PageRange(),
			PagesIncluded: len(selected),
			SourceFile:    sourceName,
			Incomplete:    !complete,
			ProcessedAt:   time.Now(),
		})
		logCtx.Info("Created output document.", "file", filepath.Base(outPath), "fileNumber", fileNumber, "pagesIncluded", len(selected))
	}
	return processed, incomplete, nil
}

// selectPages returns 1-based page numbers for the span's content.
func (a *Assembler) selectPages(span models.DocumentSpan, pages []models.Page, scanned bool) []string {
	var selected []string
	for p := span.StartPage; p <= span.EndPage && p < len(pages); p++ {
		if !scanned && pages[p].Blank {
			continue
		}
		selected = append(selected, strconv.Itoa(p+1))
	}
	return selected
}

// isComplete says whether a file number can place a document outside the
// incomplete bucket. Hyphenated and CV/EF-prefixed values are court index
// numbers that leaked through extraction, not firm file numbers.
func isComplete(fileNumber string) bool {
	if fileNumber == "" || strings.Contains(fileNumber, "-") {
		return false
	}
	if strings.HasPrefix(fileNumber, "CV") || strings.HasPrefix(fileNumber, "EF") {
		return false
	}
	return patterns.IsValidFileNumber(fileNumber)
}

func incompleteName(indexNumber string, ordinal int, docType string) string {
	if id := patterns.SanitizeIdentifier(indexNumber); id != "" {
		return fmt.Sprintf("INCOMPLETE_%s_%s.pdf", id, docType)
	}
	return fmt.Sprintf("INCOMPLETE_%03d_%s.pdf", ordinal, docType)
}

func orUnknown(s string) string {
	if s == "" {
		return "UNKNOWN"
	}
	return s
}

// uniquePath keeps existing outputs intact by suffixing a counter when
// the target name is already taken.
func uniquePath(path string, log *slog.Logger) string {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return path
	}
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s_%d%s", base, n, ext)
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			log.Warn("Output file exists, using suffixed name.", "path", candidate)
			return candidate
		}
	}
}
