package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/assignhub/internal/flagx"
	"github.com/dmitrijs2005/assignhub/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON unmarshalling.
// It uses timex.Duration for interval fields, which allows parsing both
// string values such as "1s" and integer nanoseconds.
//
// This struct is an intermediate DTO used only for reading JSON configuration
// files. Zero values are treated as "not set" and keep the earlier value.
type JsonConfig struct {
	ListenAddr            string         `json:"listen_addr"`
	DatabaseDSN           string         `json:"database_dsn"`
	SecretKey             string         `json:"secret_key"`
	TokenValidity         timex.Duration `json:"token_validity"`
	RequestTimeout        timex.Duration `json:"request_timeout"`
	S3RootUser            string         `json:"s3_root_user"`
	S3RootPassword        string         `json:"s3_root_password"`
	S3Bucket              string         `json:"s3_bucket"`
	S3Region              string         `json:"s3_region"`
	S3BaseEndpoint        string         `json:"s3_base_endpoint"`
	RedisAddr             string         `json:"redis_addr"`
	CacheTTL              timex.Duration `json:"cache_ttl"`
	KafkaBrokers          []string       `json:"kafka_brokers"`
	AllowedOrigins        []string       `json:"allowed_origins"`
	DiscordClientID       string         `json:"discord_client_id"`
	DiscordClientSecret   string         `json:"discord_client_secret"`
	DiscordRedirectURL    string         `json:"discord_redirect_url"`
	AdminDiscordIDs       []string       `json:"admin_discord_ids"`
	CatalogFile           string         `json:"category_catalog"`
	DeadlineSweepInterval timex.Duration `json:"deadline_sweep_interval"`
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// parseJson loads configuration values from the JSON file named by -c or
// -config into config. Without one nothing is loaded. If the file cannot be
// read or contains invalid JSON, the function panics.
func parseJson(config *Config) {

	// try flags
	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	setString(&config.ListenAddr, c.ListenAddr)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.RedisAddr, c.RedisAddr)
	setString(&config.DiscordClientID, c.DiscordClientID)
	setString(&config.DiscordClientSecret, c.DiscordClientSecret)
	setString(&config.DiscordRedirectURL, c.DiscordRedirectURL)
	setString(&config.CatalogFile, c.CatalogFile)

	if c.TokenValidity.Duration > 0 {
		config.TokenValidity = c.TokenValidity.Duration
	}
	if c.RequestTimeout.Duration > 0 {
		config.RequestTimeout = c.RequestTimeout.Duration
	}
	if c.CacheTTL.Duration > 0 {
		config.CacheTTL = c.CacheTTL.Duration
	}
	if c.DeadlineSweepInterval.Duration > 0 {
		config.DeadlineSweepInterval = c.DeadlineSweepInterval.Duration
	}
	if c.KafkaBrokers != nil {
		config.KafkaBrokers = c.KafkaBrokers
	}
	if c.AllowedOrigins != nil {
		config.AllowedOrigins = c.AllowedOrigins
	}
	if c.AdminDiscordIDs != nil {
		config.AdminDiscordIDs = c.AdminDiscordIDs
	}
}
