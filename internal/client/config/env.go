package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/dmitrijs2005/assignhub/internal/flagx"
)

// Environment variables read by parseEnv.
const (
	EnvServerURL      = "ASSIGNHUB_SERVER_URL"
	EnvDBPath         = "ASSIGNHUB_DB_PATH"
	EnvRequestTimeout = "ASSIGNHUB_REQUEST_TIMEOUT"
	EnvVerbose        = "ASSIGNHUB_VERBOSE"
	EnvNoColor        = "NO_COLOR"
)

// parseEnv overlays cfg with environment variables. A dotenv file named by
// -env is loaded first; variables already set in the process win over it.
// Malformed values are ignored.
func parseEnv(cfg *Config) {
	if path := flagx.ConfigSources().Env; path != "" {
		if err := godotenv.Load(path); err != nil {
			panic(err)
		}
	}

	if v := os.Getenv(EnvServerURL); v != "" {
		cfg.ServerURL = v
	}
	if v := os.Getenv(EnvDBPath); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv(EnvRequestTimeout); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.RequestTimeout = d
		}
	}
	if v := os.Getenv(EnvVerbose); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Verbose = b
		}
	}
	if _, ok := os.LookupEnv(EnvNoColor); ok {
		cfg.Color = false
	}
}
