package config

import "time"

// AppConfig holds runtime startup configuration loaded from YAML.
type AppConfig struct {
	Port           int                   `yaml:"port"`
	DSN            string                `yaml:"dsn"` // MySQL DSN
	RedisURL       string                `yaml:"redis_url"`
	Database       DatabaseRuntimeConfig `yaml:"database"`
	Redis          RedisRuntimeConfig    `yaml:"redis"`
	Env            string                `yaml:"env"` // "development" | "production"
	SiteURL        string                `yaml:"site_url"`
	Paths          RuntimePathsConfig    `yaml:"paths"`
	AllowedOrigins []string              `yaml:"allowed_origins"`
	JWTSecret      string                `yaml:"jwt_secret"`
	Mail           MailRuntimeConfig     `yaml:"mail"`
	Auth           AuthRuntimeConfig     `yaml:"auth"`
}

type DatabaseRuntimeConfig struct {
	DSN       string            `yaml:"dsn"`
	URL       string            `yaml:"url"`
	Host      string            `yaml:"host"`
	Port      int               `yaml:"port"`
	User      string            `yaml:"user"`
	Username  string            `yaml:"username"`
	Password  string            `yaml:"password"`
	Name      string            `yaml:"name"`
	DBName    string            `yaml:"db_name"`
	Charset   string            `yaml:"charset"`
	ParseTime bool              `yaml:"parse_time"`
	Loc       string            `yaml:"loc"`
	Params    map[string]string `yaml:"params"`
}

type RedisRuntimeConfig struct {
	URL      string            `yaml:"url"`
	Host     string            `yaml:"host"`
	Port     int               `yaml:"port"`
	Username string            `yaml:"username"`
	Password string            `yaml:"password"`
	DB       int               `yaml:"db"`
	TLS      bool              `yaml:"tls"`
	Scheme   string            `yaml:"scheme"`
	Params   map[string]string `yaml:"params"`
}

type RuntimePathsConfig struct {
	Logs   string `yaml:"logs"`
	Sounds string `yaml:"sounds"`
}

// MailRuntimeConfig configures magic-link delivery. Resend wins over SMTP when a key is set.
type MailRuntimeConfig struct {
	Enable    bool   `yaml:"enable"`
	From      string `yaml:"from"`
	ReplyTo   string `yaml:"reply_to"`
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	User      string `yaml:"user"`
	Pass      string `yaml:"pass"`
	ResendKey string `yaml:"resend_key"`
}

type AuthRuntimeConfig struct {
	MagicLinkTTL time.Duration `yaml:"magic_link_ttl"`
	AccessTTL    time.Duration `yaml:"access_ttl"`
	SessionTTL   time.Duration `yaml:"session_ttl"`
	// LinkRequestsPerMinute caps magic-link requests per client IP.
	LinkRequestsPerMinute int `yaml:"link_requests_per_minute"`
}
