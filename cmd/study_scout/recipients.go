package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var recipientsCmd = &cobra.Command{
	Use:   "recipients",
	Short: "Manage digest recipients",
}

var recipientsAddCmd = &cobra.Command{
	Use:   "add <email>",
	Short: "Add a recipient (reactivates an existing address)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openDB(cmd.Context())
		if err != nil {
			return err
		}
		defer store.Close()

		r, err := store.AddRecipient(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Added %s (active)\n", r.Email)
		return nil
	},
}

var recipientsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all recipients",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		store, err := openDB(cmd.Context())
		if err != nil {
			return err
		}
		defer store.Close()

		recipients, err := store.ListRecipients(cmd.Context(), false)
		if err != nil {
			return err
		}
		if len(recipients) == 0 {
			fmt.Println("No recipients configured.")
			return nil
		}
		for _, r := range recipients {
			state := "active"
			if !r.Active {
				state = "inactive"
			}
			fmt.Printf("%s\t%s\tsince %s\n", r.Email, state, r.CreatedAt.Format("2006-01-02"))
		}
		return nil
	},
}

func setRecipientActiveCmd(use, short string, active bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <email>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.SetRecipientActive(cmd.Context(), args[0], active); err != nil {
				return err
			}
			fmt.Printf("%s is now %s\n", args[0], use+"d")
			return nil
		},
	}
}

func init() {
	recipientsCmd.AddCommand(recipientsAddCmd)
	recipientsCmd.AddCommand(recipientsListCmd)
	recipientsCmd.AddCommand(setRecipientActiveCmd("enable", "Reactivate a recipient", true))
	recipientsCmd.AddCommand(setRecipientActiveCmd("disable", "Deactivate a recipient without deleting it", false))
	rootCmd.AddCommand(recipientsCmd)
}
