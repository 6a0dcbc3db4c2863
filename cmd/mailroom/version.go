package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version is overridden at build time via -ldflags.
var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the mailroom version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("mailroom", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
