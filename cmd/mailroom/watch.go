package main

import (
	"context"
	"errors"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/legaldocflow/mailroom/internal/assembler"
	"github.com/legaldocflow/mailroom/internal/batch"
	"github.com/legaldocflow/mailroom/internal/services"
)

var watchCmd = &cobra.Command{
	Use:   "watch DIR",
	Short: "Watch a drop directory and process PDFs as they arrive",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, r, err := initRun()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		w := batch.NewWatcher(batch.WatchConfig{
			Dir:           args[0],
			RetryAttempts: cfg.RetryAttempts,
			RetryDelay:    cfg.RetryDelay,
		}, r.Log)

		// Arrivals may process concurrently; the collector owns the shared
		// report files and rewrites them whole after each finished file.
		var collector services.Collector
		asm := assembler.New(assembler.Config{OutputDir: cfg.OutputDir, IncompleteDir: cfg.IncompleteDir}, r.Log)

		err = w.Watch(ctx, func(ctx context.Context, path string) error {
			proc, err := newProcessor(cfg, r.ForFile(filepath.Base(path)), true)
			if err != nil {
				return err
			}
			outcome, err := proc.Process(ctx, path)
			if err != nil {
				return err
			}
			collector.Add(outcome)
			if err := collector.WriteReports(asm, r.ID); err != nil {
				r.Log.Error("Failed to write combined reports", "error", err)
			}
			return nil
		})
		if errors.Is(err, context.Canceled) {
			r.Log.Info("Watch stopped.")
			return nil
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
