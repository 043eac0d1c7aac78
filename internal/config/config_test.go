package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)

	assert.Equal(t, defaultPort, cfg.Port)
	assert.True(t, cfg.IsDev())
	assert.Equal(t, "http://localhost:2333", cfg.SiteURL)
	assert.Equal(t, "root:password@tcp(127.0.0.1:3306)/mood_space?charset=utf8mb4&loc=Local&parseTime=true", cfg.DSN)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
	assert.Equal(t, 15*time.Minute, cfg.Auth.MagicLinkTTL)
	assert.Equal(t, time.Hour, cfg.Auth.AccessTTL)
	assert.Equal(t, 30*24*time.Hour, cfg.Auth.SessionTTL)
	assert.Equal(t, 5, cfg.Auth.LinkRequestsPerMinute)
	assert.Equal(t, 587, cfg.Mail.Port)
}

func TestParse_Overrides(t *testing.T) {
	cfg, err := Parse([]byte(`
port: 8080
env: Production
site_url: mood.example.com/
jwt_secret: s3cret
allowed_origins: [" https://mood.example.com ", ""]
database:
  host: db
  name: moods
redis:
  url: cache:6379/2
mail:
  enable: true
  from: Mood <noreply@mood.example.com>
  smtp:
    host: smtp.example.com
    port: 465
  resend:
    api_key: re_123
auth:
  magic_link_ttl: 10m
  access_ttl: 2h
  session_ttl: 1h
`))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.False(t, cfg.IsDev())
	assert.Equal(t, "http://mood.example.com", cfg.SiteURL)
	assert.Equal(t, []string{"https://mood.example.com"}, cfg.AllowedOrigins)
	assert.Contains(t, cfg.DSN, "tcp(db:3306)/moods")
	assert.Equal(t, "redis://cache:6379/2", cfg.RedisURL)
	assert.True(t, cfg.Mail.Enable)
	assert.Equal(t, "smtp.example.com", cfg.Mail.Host)
	assert.Equal(t, 465, cfg.Mail.Port)
	assert.Equal(t, "re_123", cfg.Mail.ResendKey)
	assert.Equal(t, 10*time.Minute, cfg.Auth.MagicLinkTTL)
	// Access tokens never outlive their session.
	assert.Equal(t, time.Hour, cfg.Auth.AccessTTL)
}

func TestParse_Rejects(t *testing.T) {
	for name, body := range map[string]string{
		"unknown key":        "bogus: 1\n",
		"bad port":           "port: 70000\n",
		"missing jwt secret": "env: production\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(body))
			assert.Error(t, err)
		})
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("port: 3000\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, "http://localhost:3000", cfg.SiteURL)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}
