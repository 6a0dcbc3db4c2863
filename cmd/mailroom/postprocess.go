package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/legaldocflow/mailroom/internal/postprocess"
)

var postprocessType string

var postprocessCmd = &cobra.Command{
	Use:   "postprocess",
	Short: "Repair output filenames and retry incomplete documents",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, r, err := initRun()
		if err != nil {
			return err
		}

		p := postprocess.New(time.Now(), r.Log)
		stats, err := p.ProcessDirectory(cmd.Context(), cfg.OutputDir, postprocessType)
		if err != nil {
			return err
		}
		recovered, err := p.ProcessIncomplete(cmd.Context(), cfg.OutputDir, cfg.IncompleteDir, postprocessType)
		if err != nil {
			return err
		}

		fmt.Printf("Examined %d documents: %d corrected, %d renamed, %d recovered from incomplete\n",
			stats.Examined+recovered.Examined, stats.Corrected, stats.Renamed, recovered.Renamed)
		return nil
	},
}

func init() {
	postprocessCmd.Flags().StringVarP(&postprocessType, "type", "t", "IS", "document type prefix to post-process")
	rootCmd.AddCommand(postprocessCmd)
}
