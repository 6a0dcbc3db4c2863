// Package services wires the mailroom pipeline together: text extraction,
// boundary detection, classification, and assembly for one input PDF.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/legaldocflow/mailroom/internal/assembler"
	"github.com/legaldocflow/mailroom/internal/classify"
	"github.com/legaldocflow/mailroom/internal/detector"
	"github.com/legaldocflow/mailroom/internal/models"
	"github.com/legaldocflow/mailroom/internal/ocr"
	"github.com/legaldocflow/mailroom/internal/pagetext"
	"github.com/legaldocflow/mailroom/internal/run"
)

type ProcessorConfig struct {
	OutputDir     string
	IncompleteDir string
	PageText      pagetext.Config

	// ForcedFamily bypasses auto-detection when set.
	ForcedFamily classify.Family
	// AutoDetect enables the IS-versus-LTD family decision from leading
	// pages when no family is forced.
	AutoDetect bool
	// FixedPages splits into fixed-size documents instead of detecting
	// boundaries; zero means boundary detection.
	FixedPages int
	// SkipReports suppresses the per-file manifest and incomplete log.
	// Multi-file callers aggregate outcomes and write one combined report
	// for the whole run instead; concurrent per-file writes to the shared
	// report paths would tear each other.
	SkipReports bool
}

type Processor struct {
	config ProcessorConfig
	engine ocr.Engine
	runCtx *run.Run
}

// Outcome is the explicit result of one file's processing; nothing is
// accumulated on the processor between calls.
type Outcome struct {
	Family     classify.Family
	Confidence float64
	Documents  []models.ProcessedDocument
	Incomplete []models.IncompleteDocument
}

func NewProcessor(config ProcessorConfig, engine ocr.Engine, r *run.Run) *Processor {
	if r == nil {
		r = run.New(nil)
	}
	return &Processor{config: config, engine: engine, runCtx: r}
}

// Process splits one input PDF into per-case documents, writes the
// manifest and incomplete log, and returns the outcome. Per-page failures
// degrade to empty text; only wholesale input failure returns an error.
func (p *Processor) Process(ctx context.Context, inputPath string) (*Outcome, error) {
	logCtx := p.runCtx.Log.With("input", filepath.Base(inputPath))
	logCtx.Info("Processing input PDF.")

	if _, err := os.Stat(inputPath); err != nil {
		return nil, p.handleError(logCtx, "input file not readable", err)
	}

	tempDir, err := os.MkdirTemp("", "mailroom-*")
	if err != nil {
		return nil, p.handleError(logCtx, "failed to create temp dir", err)
	}
	defer os.RemoveAll(tempDir)

	// Scanner output often carries structural defects pdfcpu can repair;
	// downstream page copying works from the optimized copy.
	optimizedPath := filepath.Join(tempDir, "optimized.pdf")
	if err := optimizePDF(inputPath, optimizedPath); err != nil {
		return nil, p.handleError(logCtx, "failed to validate/optimize PDF", err)
	}

	src, err := pagetext.Open(optimizedPath, p.engine, p.config.PageText, logCtx)
	if err != nil {
		return nil, p.handleError(logCtx, "failed to open PDF for extraction", err)
	}
	defer src.Close()
	logCtx.Info("Opened input.", "pageCount", src.PageCount(), "scanned", src.Scanned())

	outcome := &Outcome{Family: p.config.ForcedFamily}
	if outcome.Family == "" && p.config.AutoDetect {
		outcome.Family, outcome.Confidence = p.detectFamily(ctx, src)
		if outcome.Family != "" {
			logCtx.Info("Auto-detected document family.", "family", outcome.Family, "confidence", fmt.Sprintf("%.2f", outcome.Confidence))
		}
	}

	det := detector.New(src, logCtx)
	var result *detector.Result
	if p.config.FixedPages > 0 {
		result = det.RunFixed(ctx, p.config.FixedPages)
	} else {
		result = det.Run(ctx)
	}
	if len(result.Spans) == 0 {
		logCtx.Warn("No documents found in PDF.")
		return outcome, nil
	}
	logCtx.Info("Boundary detection complete.", "documents", len(result.Spans))

	inputs := p.label(result, outcome.Family, filepath.Base(inputPath))

	asm := assembler.New(assembler.Config{
		OutputDir:     p.config.OutputDir,
		IncompleteDir: p.config.IncompleteDir,
	}, logCtx)
	docs, incomplete, err := asm.Assemble(ctx, optimizedPath, inputs, result.Pages, result.Scanned)
	if err != nil {
		return nil, p.handleError(logCtx, "failed to assemble output documents", err)
	}
	outcome.Documents = docs
	outcome.Incomplete = incomplete

	if !p.config.SkipReports {
		if _, err := asm.WriteManifest(p.runCtx.ID, docs); err != nil {
			logCtx.Error("Failed to write manifest", "error", err)
		}
		if _, err := asm.WriteIncompleteLog(incomplete); err != nil {
			logCtx.Error("Failed to write incomplete log", "error", err)
		}
	}

	logCtx.Info("Processing complete.", "documents", len(docs), "incomplete", len(incomplete))
	return outcome, nil
}

// detectFamily samples structured text from the leading pages. Scanned
// sources rarely yield a verdict here and fall through to boundary
// detection's own signals.
func (p *Processor) detectFamily(ctx context.Context, src *pagetext.Source) (classify.Family, float64) {
	n := src.PageCount()
	if n > 5 {
		n = 5
	}
	texts := make([]string, 0, n)
	for i := 0; i < n; i++ {
		texts = append(texts, src.PageText(ctx, i, pagetext.ModeStructured))
	}
	return classify.AutoDetect(texts)
}

// label attaches type, jurisdiction, and debtor to each span from the
// span's own page text.
func (p *Processor) label(result *detector.Result, family classify.Family, sourceName string) []assembler.Input {
	inputs := make([]assembler.Input, 0, len(result.Spans))
	for _, span := range result.Spans {
		text := spanText(result.Pages, span, 3)

		docType := string(family)
		if docType == "" {
			docType = classify.DocumentType(text, sourceName)
		}
		inputs = append(inputs, assembler.Input{
			Span:         span,
			Type:         docType,
			Jurisdiction: classify.Jurisdiction(text),
			DebtorName:   classify.DebtorName(text),
		})
	}
	return inputs
}

// spanText joins the first maxPages non-empty page texts of a span.
func spanText(pages []models.Page, span models.DocumentSpan, maxPages int) string {
	var parts []string
	for i := span.StartPage; i <= span.EndPage && i < len(pages) && len(parts) < maxPages; i++ {
		if pages[i].Text != "" {
			parts = append(parts, pages[i].Text)
		}
	}
	return strings.Join(parts, "\n")
}

func (p *Processor) handleError(logCtx *slog.Logger, message string, originalErr error) error {
	logCtx.Error(message, "error", originalErr)
	return fmt.Errorf("%s: %w", message, originalErr)
}

func optimizePDF(inPath, outPath string) error {
	cfg := model.NewDefaultConfiguration()
	cfg.ValidationMode = model.ValidationRelaxed
	return api.OptimizeFile(inPath, outPath, cfg)
}
