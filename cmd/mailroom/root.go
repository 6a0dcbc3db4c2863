package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/legaldocflow/mailroom/internal/config"
	"github.com/legaldocflow/mailroom/internal/run"
)

var (
	cfgFile   string
	debugFlag bool
	outputDir string
)

var rootCmd = &cobra.Command{
	Use:          "mailroom",
	Short:        "Split concatenated legal mail PDFs into per-case documents",
	Long:         "mailroom walks the pages of scanned or text PDF batches, detects where one document ends and the next begins, recovers firm file numbers despite OCR noise, and writes one output PDF per case.",
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default mailroom.yaml in working directory)")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&outputDir, "output", "o", "", "output directory (default \"output\")")
}

// initRun loads configuration, applies flag overrides, and sets up the
// run-scoped logger on stderr so stdout stays clean for the summary.
func initRun() (*config.Config, *run.Run, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, err
	}
	if outputDir != "" {
		cfg.OutputDir = outputDir
	}
	if debugFlag {
		cfg.Debug = true
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	r := run.New(slog.New(handler))
	return cfg, r, nil
}
