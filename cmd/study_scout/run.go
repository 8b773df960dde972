package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/study-scout/internal/config"
	"github.com/jonathan/study-scout/internal/db"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one check of the study board now",
	Long:  "Fetches the listing page, reconciles it against the store, and sends a digest for any newly discovered studies. Manual runs are independent of the watch timer.",
	RunE:  runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	store, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer store.Close()
	if err := store.Migrate(ctx); err != nil {
		return err
	}

	runner := buildRunner(cfg, store)
	created, err := runner.RunOnce(ctx)
	if err != nil {
		return err
	}

	if len(created) == 0 {
		fmt.Println("No new studies.")
		return nil
	}
	fmt.Printf("%d new studies:\n", len(created))
	for _, s := range created {
		fmt.Printf("  %s - $%d, %s, %s\n", s.Title, s.Payout, s.Duration, s.StudyType)
	}
	return nil
}
