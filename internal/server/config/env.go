package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/dmitrijs2005/assignhub/internal/flagx"
)

// parseEnv overlays config with environment variables, after loading the
// dotenv file named by -env when given. Unset variables leave values alone;
// malformed durations are ignored.
func parseEnv(config *Config) {
	if path := flagx.ConfigSources().Env; path != "" {
		if err := godotenv.Load(path); err != nil {
			panic(err)
		}
	}

	str := func(name string, dst *string) {
		if v, ok := os.LookupEnv(name); ok && v != "" {
			*dst = v
		}
	}
	dur := func(name string, dst *time.Duration) {
		if v, ok := os.LookupEnv(name); ok {
			if d, err := time.ParseDuration(v); err == nil {
				*dst = d
			}
		}
	}
	list := func(name string, dst *[]string) {
		if v, ok := os.LookupEnv(name); ok && v != "" {
			*dst = splitList(v)
		}
	}

	str("ADDRESS", &config.ListenAddr)
	str("DATABASE_DSN", &config.DatabaseDSN)
	str("JWT_SECRET", &config.SecretKey)
	dur("TOKEN_VALIDITY", &config.TokenValidity)
	dur("REQUEST_TIMEOUT", &config.RequestTimeout)
	str("S3_ROOT_USER", &config.S3RootUser)
	str("S3_ROOT_PASSWORD", &config.S3RootPassword)
	str("S3_BUCKET", &config.S3Bucket)
	str("S3_REGION", &config.S3Region)
	str("S3_BASE_ENDPOINT", &config.S3BaseEndpoint)
	str("REDIS_ADDR", &config.RedisAddr)
	dur("CACHE_TTL", &config.CacheTTL)
	list("KAFKA_BROKERS", &config.KafkaBrokers)
	list("ALLOWED_ORIGINS", &config.AllowedOrigins)
	str("DISCORD_CLIENT_ID", &config.DiscordClientID)
	str("DISCORD_CLIENT_SECRET", &config.DiscordClientSecret)
	str("DISCORD_REDIRECT_URL", &config.DiscordRedirectURL)
	list("ADMIN_DISCORD_IDS", &config.AdminDiscordIDs)
	str("CATEGORY_CATALOG", &config.CatalogFile)
	dur("DEADLINE_SWEEP_INTERVAL", &config.DeadlineSweepInterval)
}
