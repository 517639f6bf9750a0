package main

import (
	"os"

	"github.com/andrewpaige1/formbook-api/cmd"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func init() {
	// Load .env file if not in production environment
	if os.Getenv("RAILWAY_ENVIRONMENT_NAME") == "" {
		if err := godotenv.Load(); err != nil {
			log.Warn().Err(err).Msg(".env file not found, environment variables might not be loaded")
		}
	}
}

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal().Err(err).Msg("formbook failed")
	}
}
