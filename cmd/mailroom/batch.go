package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/legaldocflow/mailroom/internal/assembler"
	"github.com/legaldocflow/mailroom/internal/batch"
	"github.com/legaldocflow/mailroom/internal/services"
)

var batchCmd = &cobra.Command{
	Use:   "batch DIR",
	Short: "Process every PDF in a directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, r, err := initRun()
		if err != nil {
			return err
		}

		paths, err := filepath.Glob(filepath.Join(args[0], "*.pdf"))
		if err != nil {
			return fmt.Errorf("listing %s: %w", args[0], err)
		}
		if len(paths) == 0 {
			return fmt.Errorf("no PDFs found in %s", args[0])
		}

		// Workers share the output directory, so per-file report writes
		// are suppressed and one combined manifest is written at the end.
		var collector services.Collector

		runner := batch.NewRunner(cfg.Concurrency, r.Log)
		ok, failed := runner.Run(cmd.Context(), paths, func(ctx context.Context, path string) error {
			proc, err := newProcessor(cfg, r.ForFile(filepath.Base(path)), true)
			if err != nil {
				return err
			}
			outcome, err := proc.Process(ctx, path)
			if err != nil {
				return err
			}
			collector.Add(outcome)
			return nil
		})

		asm := assembler.New(assembler.Config{OutputDir: cfg.OutputDir, IncompleteDir: cfg.IncompleteDir}, r.Log)
		if err := collector.WriteReports(asm, r.ID); err != nil {
			r.Log.Error("Failed to write combined reports", "error", err)
		}

		all := collector.Documents()
		r.Log.Info("Batch complete.", "files", len(paths), "succeeded", ok, "failed", failed)
		assembler.PrintSummary(os.Stdout, cfg.OutputDir, all)
		if len(all) == 0 {
			return errors.New("no documents produced")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(batchCmd)
}
