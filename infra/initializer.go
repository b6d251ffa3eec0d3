package infra

import (
	"gin-inventory/config"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Initialize loads .env, builds the configuration and the root logger.
func Initialize(configPath string) (*config.Config, zerolog.Logger, error) {
	envErr := godotenv.Load()

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, zerolog.Nop(), err
	}

	logger := NewLogger(cfg)
	if envErr != nil {
		logger.Debug().Msg("No .env file found; using environment variables")
	}
	return cfg, logger, nil
}
