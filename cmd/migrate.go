package cmd

import (
	"github.com/andrewpaige1/formbook-api/config"
	"github.com/andrewpaige1/formbook-api/models"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDatabase()
		if err != nil {
			return err
		}
		defer closeDatabase(db)
		printf(cmd, "migrated %d tables\n", len(models.All()))
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert the default topics",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDatabase()
		if err != nil {
			return err
		}
		defer closeDatabase(db)

		n, err := config.SeedTopics(db)
		if err != nil {
			return err
		}
		printf(cmd, "created %d topics\n", n)
		return nil
	},
}
