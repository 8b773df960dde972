package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "View and change run settings",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		store, err := openDB(cmd.Context())
		if err != nil {
			return err
		}
		defer store.Close()

		s, err := store.GetSettings(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("Interval: %d minute(s)\n", s.IntervalMinutes)
		fmt.Printf("Enabled:  %v\n", s.Enabled)
		if s.LastRunAt != nil {
			fmt.Printf("Last run: %s\n", s.LastRunAt.Format("2006-01-02 15:04:05 MST"))
		} else {
			fmt.Println("Last run: never")
		}
		return nil
	},
}

var settingsIntervalCmd = &cobra.Command{
	Use:   "interval <minutes>",
	Short: "Set the check interval (1-60 minutes)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		minutes, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("interval must be a number of minutes, got %q", args[0])
		}

		store, err := openDB(cmd.Context())
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.SetIntervalMinutes(cmd.Context(), minutes); err != nil {
			return err
		}
		fmt.Printf("Interval set to %d minute(s). A running watcher picks this up at its next tick.\n", minutes)
		return nil
	},
}

func setEnabledCmd(use, short string, enabled bool) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.SetEnabled(cmd.Context(), enabled); err != nil {
				return err
			}
			fmt.Printf("Checks %sd.\n", use)
			return nil
		},
	}
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsIntervalCmd)
	settingsCmd.AddCommand(setEnabledCmd("enable", "Enable scheduled checks", true))
	settingsCmd.AddCommand(setEnabledCmd("disable", "Disable scheduled checks", false))
	rootCmd.AddCommand(settingsCmd)
}
