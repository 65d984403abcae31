package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds the sync client settings read from the environment.
type Config struct {
	WSURL     string `validate:"required"`
	Room      string `validate:"required"`
	SessionID string
	CachePath string
	Reconnect bool
}

// Load reads .env when present (real environment wins) and the BOARDSYNC_*
// variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		WSURL:     os.Getenv("BOARDSYNC_WS_URL"),
		Room:      os.Getenv("BOARDSYNC_ROOM"),
		SessionID: os.Getenv("BOARDSYNC_SESSION_ID"),
		CachePath: os.Getenv("BOARDSYNC_CACHE_PATH"),
	}

	if v := os.Getenv("BOARDSYNC_RECONNECT"); v != "" {
		reconnect, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("parse BOARDSYNC_RECONNECT: %w", err)
		}
		cfg.Reconnect = reconnect
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}
