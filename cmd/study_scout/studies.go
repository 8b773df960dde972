package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/study-scout/internal/db"
)

var (
	studiesUndelivered bool
	studiesLimit       int
)

var studiesCmd = &cobra.Command{
	Use:   "studies",
	Short: "List stored studies",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		store, err := openDB(cmd.Context())
		if err != nil {
			return err
		}
		defer store.Close()

		studies, err := store.ListStudies(cmd.Context(), db.ListStudiesOptions{
			Undelivered: studiesUndelivered,
			Limit:       studiesLimit,
		})
		if err != nil {
			return err
		}
		if len(studies) == 0 {
			fmt.Println("No studies stored.")
			return nil
		}

		for _, s := range studies {
			flag := " "
			if !s.Delivered {
				flag = "*"
			}
			fmt.Printf("%s %-12s $%-5d %-10s %-9s %s\n",
				flag, s.ExternalID, s.Payout, s.Duration, s.StudyType, s.Title)
		}
		fmt.Printf("\n%d studies (* = not yet notified)\n", len(studies))
		return nil
	},
}

func init() {
	studiesCmd.Flags().BoolVar(&studiesUndelivered, "undelivered", false, "only studies not yet covered by a digest")
	studiesCmd.Flags().IntVar(&studiesLimit, "limit", 0, "maximum number of studies to list (0 = all)")
	rootCmd.AddCommand(studiesCmd)
}
