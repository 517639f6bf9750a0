package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/andrewpaige1/formbook-api/config"
	"github.com/andrewpaige1/formbook-api/server"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	db, err := openDatabase()
	if err != nil {
		return err
	}
	defer closeDatabase(db)

	if n, err := config.SeedTopics(db); err != nil {
		return err
	} else if n > 0 {
		log.Info().Int("created", n).Msg("seeded topics")
	}

	handler, err := server.New(db, cfg)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	return server.Run(ctx, "0.0.0.0:"+cfg.Port, handler)
}
