package main

import (
	"fmt"

	"family-chores-go/internal/app"
	"github.com/spf13/cobra"
)

var familyCmd = &cobra.Command{
	Use:   "family",
	Short: "Family membership maintenance",
}

var familySyncCmd = &cobra.Command{
	Use:   "sync <parent-id>",
	Short: "Recompute a parent's member and child lists from the share code",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withServices(cmd.Context(), func(services *app.Services) error {
			result, err := services.Family.SyncFamily(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			state := "already in sync"
			if result.Updated {
				state = "updated"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d members, %d children (%s)\n", args[0], len(result.Members), len(result.Children), state)
			return nil
		})
	},
}

func init() {
	familyCmd.AddCommand(familySyncCmd)
}
