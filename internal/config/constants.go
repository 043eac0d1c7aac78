package config

import "time"

const (
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"
	defaultPort       = 2333
	defaultEnv        = "development"
	defaultSiteURL    = "http://localhost:2333"
	defaultDBHost     = "127.0.0.1"
	defaultDBPort     = 3306
	defaultDBUser     = "root"
	defaultDBPassword = "password"
	defaultDBName     = "mood_space"
	defaultDBCharset  = "utf8mb4"
	defaultDBLoc      = "Local"
	defaultRedisHost  = "localhost"
	defaultRedisPort  = 6379
	defaultRedisDB    = 0
	defaultSMTPPort   = 587

	defaultMagicLinkTTL = 15 * time.Minute
	defaultAccessTTL    = time.Hour
	defaultSessionTTL   = 30 * 24 * time.Hour
	defaultLinkRate     = 5
)
