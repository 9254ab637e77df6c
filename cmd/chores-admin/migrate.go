package main

import (
	"family-chores-go/internal/db"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending SQL migrations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, dbConn, err := openDB()
		if err != nil {
			return err
		}
		defer closeDB(dbConn)

		return db.Migrate(dbConn, log)
	},
}
