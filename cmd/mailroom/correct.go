package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/legaldocflow/mailroom/internal/corrector"
	"github.com/legaldocflow/mailroom/internal/patterns"
)

var correctStrict bool

var correctCmd = &cobra.Command{
	Use:   "correct FILE_NUMBER...",
	Short: "Show OCR corrections for candidate file numbers",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		strict := corrector.NewStrict(time.Now())
		for _, candidate := range args {
			var corrected, reason string
			if correctStrict {
				corrected, reason = strict.CorrectWithReason(candidate)
			} else {
				corrected, reason = corrector.CorrectWithReason(candidate)
			}
			status := "valid"
			if !patterns.IsValidFileNumber(corrected) {
				status = "unverified"
			}
			if reason == "" {
				reason = "unchanged"
			}
			fmt.Printf("%s -> %s  [%s, %s]\n", candidate, corrected, reason, status)
		}
		return nil
	},
}

func init() {
	correctCmd.Flags().BoolVar(&correctStrict, "strict", false, "also clamp implausible embedded years")
	rootCmd.AddCommand(correctCmd)
}
