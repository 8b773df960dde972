// Package main provides the entry point for the Study Scout CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "study_scout",
	Short: "Paid-study board watcher",
	Long:  "Study Scout watches a research-study listing board, extracts new studies, stores them, and emails a digest of fresh discoveries exactly once per study.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
