package main

import (
	"fmt"

	"family-chores-go/internal/app"
	"github.com/spf13/cobra"
)

var revertChildIDs []string

var goalsCmd = &cobra.Command{
	Use:   "goals",
	Short: "Goal maintenance",
}

var goalsRevertCheckCmd = &cobra.Command{
	Use:   "revert-check",
	Short: "Reopen completed goals whose target exceeds the child's earnings",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withServices(cmd.Context(), func(services *app.Services) error {
			childIDs := revertChildIDs
			if len(childIDs) == 0 {
				report, err := services.Reconcile.Report(cmd.Context())
				if err != nil {
					return err
				}
				for _, row := range report.Children {
					childIDs = append(childIDs, row.ChildID)
				}
			}
			if len(childIDs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no children")
				return nil
			}

			reverted, err := services.Goals.RevertCompletedGoals(cmd.Context(), childIDs)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "checked %d children, reopened %d goals\n", len(childIDs), reverted)
			return nil
		})
	},
}

func init() {
	goalsRevertCheckCmd.Flags().StringSliceVar(&revertChildIDs, "child", nil, "limit the check to these child ids (default: every child)")
	goalsCmd.AddCommand(goalsRevertCheckCmd)
}
