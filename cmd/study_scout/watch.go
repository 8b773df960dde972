package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonathan/study-scout/internal/config"
	"github.com/jonathan/study-scout/internal/db"
	"github.com/jonathan/study-scout/internal/scheduler"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the study board on the configured interval",
	Long:  "Starts the scheduler and runs a check on the interval stored in settings. The interval and enabled switch are re-read at every tick, so settings changes take effect without a restart.",
	RunE:  runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(_ *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

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

	settings, err := store.GetSettings(ctx)
	if err != nil {
		return err
	}
	if !settings.Enabled {
		return fmt.Errorf("checks are disabled in settings; run `study_scout settings enable` first")
	}

	runner := buildRunner(cfg, store)

	var sched *scheduler.Scheduler
	sched = scheduler.New(func() {
		jobCtx := context.Background()

		// Honor the settings current at trigger time, not at process start
		current, err := store.GetSettings(jobCtx)
		if err != nil {
			log.Printf("[watch] Failed to read settings: %v", err)
			return
		}
		if !current.Enabled {
			log.Println("[watch] Checks disabled in settings, stopping scheduler")
			sched.Stop()
			return
		}
		if current.IntervalMinutes != sched.Interval() {
			if err := sched.SetInterval(current.IntervalMinutes); err != nil {
				log.Printf("[watch] Failed to reschedule: %v", err)
			}
		}

		// Run outcome handling lives inside the runner; nothing here may
		// kill the timer
		_, _ = runner.RunOnce(jobCtx)
	})

	if err := sched.Start(settings.IntervalMinutes); err != nil {
		return err
	}

	// Populate immediately instead of waiting out the first interval
	go func() {
		_, _ = runner.RunOnce(context.Background())
	}()

	<-ctx.Done()
	sched.Stop()
	log.Println("[watch] Shut down")
	return nil
}
