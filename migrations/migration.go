package main

import (
	"os"

	"gin-inventory/infra"
)

func main() {
	cfg, logger, err := infra.Initialize(os.Getenv("INVENTORY_CONFIG_FILE"))
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	db, err := infra.SetupDB(cfg.Database, cfg.Env, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to database")
	}

	if err := infra.Migrate(db); err != nil {
		logger.Fatal().Err(err).Msg("Failed to migrate database")
	}
	logger.Info().Msg("Migration completed")
}
