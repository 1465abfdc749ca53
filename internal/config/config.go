package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"fjacquet/spendtag/internal/logging"
)

// LoadEnv loads a .env file from the current or parent directory when one
// exists. Variables already set in the environment win.
func LoadEnv(logger logging.Logger) {
	logger = logging.OrDiscard(logger)

	for _, envFile := range []string{".env", filepath.Join("..", ".env")} {
		if _, err := os.Stat(envFile); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(envFile); err != nil {
			logger.WithError(err).Warn("Error loading .env file", logging.Field{Key: logging.FieldFile, Value: envFile})
			return
		}
		logger.Debug("Loaded environment variables", logging.Field{Key: logging.FieldFile, Value: envFile})
		return
	}
	logger.Debug("No .env file found, using environment variables")
}

// NewLogger builds the application logger from the log section.
func NewLogger(cfg *Config) logging.Logger {
	return logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format)
}
