package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config with values from the process environment,
// loading a .env file first when one exists. A missing .env file is not an
// error; the system environment still applies.
func parseEnv(cfg *Config) {
	_ = godotenv.Load()

	if v := os.Getenv("DREAMCHAT_SERVER_URL"); v != "" {
		cfg.ServerBaseURL = v
	}
	if v := os.Getenv("DREAMCHAT_DB_PATH"); v != "" {
		cfg.DatabasePath = v
	}
	if v := os.Getenv("DREAMCHAT_KEY_PATH"); v != "" {
		cfg.KeyFilePath = v
	}
	if v := os.Getenv("DREAMCHAT_REQUEST_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.RequestTimeout = d
		}
	}
}
