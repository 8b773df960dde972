package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var logsLimit int

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Show recent run log entries, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		store, err := openDB(cmd.Context())
		if err != nil {
			return err
		}
		defer store.Close()

		entries, err := store.ListLogs(cmd.Context(), logsLimit)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("No log entries yet.")
			return nil
		}
		for _, e := range entries {
			fmt.Printf("%s  %-7s  %s\n",
				e.CreatedAt.Format("2006-01-02 15:04:05"), e.Severity, e.Message)
		}
		return nil
	},
}

func init() {
	logsCmd.Flags().IntVar(&logsLimit, "limit", 50, "maximum number of entries to show")
	rootCmd.AddCommand(logsCmd)
}
