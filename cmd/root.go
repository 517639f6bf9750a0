package cmd

import (
	"fmt"
	"os"

	"github.com/andrewpaige1/formbook-api/config"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	dbURL    string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "formbook",
	Short: "Form builder API server",
	Long: `formbook serves the form builder API and carries its maintenance commands.

Subcommands:
  serve         - Run the HTTP API
  migrate       - Create or update the database schema
  seed          - Insert the default topics
  create-admin  - Create an admin account or promote an existing one`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.SetupLogging(logLevel, config.LoadEnvironment().IsDevelopment)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbURL, "db", "", "database URL (defaults to DB_URL)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", os.Getenv("LOG_LEVEL"), "log level")

	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd, createAdminCmd)
}

// Execute runs the command line.
func Execute() error {
	return rootCmd.Execute()
}

// openDatabase connects and migrates. The --db flag wins over DB_URL.
func openDatabase() (*gorm.DB, error) {
	url := dbURL
	if url == "" {
		url = config.DatabaseURL()
	}
	db, err := config.Connect(url)
	if err != nil {
		return nil, err
	}
	if err := config.Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func closeDatabase(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func printf(cmd *cobra.Command, format string, args ...interface{}) {
	fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}
