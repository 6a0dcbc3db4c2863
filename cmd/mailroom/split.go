package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/legaldocflow/mailroom/internal/assembler"
	"github.com/legaldocflow/mailroom/internal/classify"
	"github.com/legaldocflow/mailroom/internal/config"
	"github.com/legaldocflow/mailroom/internal/ocr"
	"github.com/legaldocflow/mailroom/internal/pagetext"
	"github.com/legaldocflow/mailroom/internal/run"
	"github.com/legaldocflow/mailroom/internal/services"
)

var (
	splitType   string
	splitPages  int
	splitNoAuto bool
)

var splitCmd = &cobra.Command{
	Use:   "split INPUT.pdf",
	Short: "Split one PDF into per-case documents",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, r, err := initRun()
		if err != nil {
			return err
		}
		proc, err := newProcessor(cfg, r, false)
		if err != nil {
			return err
		}

		outcome, err := proc.Process(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		assembler.PrintSummary(os.Stdout, cfg.OutputDir, outcome.Documents)
		if len(outcome.Documents) == 0 {
			return errors.New("no documents produced")
		}
		return nil
	},
}

func init() {
	splitCmd.Flags().StringVarP(&splitType, "type", "t", "", "force document family: LTD, IS, or PI (bypasses auto-detection)")
	splitCmd.Flags().IntVarP(&splitPages, "pages", "p", 0, "fixed page count per document (0 = detect boundaries)")
	splitCmd.Flags().BoolVar(&splitNoAuto, "no-auto", false, "disable document family auto-detection")
	rootCmd.AddCommand(splitCmd)
}

// newProcessor builds the pipeline for the current flag set. Multi-file
// commands pass skipReports and write one combined report themselves.
func newProcessor(cfg *config.Config, r *run.Run, skipReports bool) (*services.Processor, error) {
	var family classify.Family
	if splitType != "" {
		parsed, ok := classify.ParseFamily(splitType)
		if !ok {
			return nil, fmt.Errorf("unknown document type %q (want LTD, IS, or PI)", splitType)
		}
		family = parsed
	}

	pageText := pagetext.Config{
		QuickDPI:        cfg.QuickDPI,
		FullDPI:         cfg.FullDPI,
		TopFraction:     cfg.TopFraction,
		Language:        cfg.OCRLanguage,
		SampleThreshold: pagetext.DefaultConfig().SampleThreshold,
	}
	return services.NewProcessor(services.ProcessorConfig{
		OutputDir:     cfg.OutputDir,
		IncompleteDir: cfg.IncompleteDir,
		PageText:      pageText,
		ForcedFamily:  family,
		AutoDetect:    !splitNoAuto && family == "",
		FixedPages:    splitPages,
		SkipReports:   skipReports,
	}, ocr.NewTesseractEngine(), r), nil
}
