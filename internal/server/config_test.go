package server

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lox/blackjack/internal/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "blackjack.hcl")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfigMissingFile(t *testing.T) {
	t.Parallel()

	config, err := LoadConfig(filepath.Join(t.TempDir(), "missing.hcl"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), config)
	assert.NoError(t, config.Validate())
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
server {
  address   = "0.0.0.0"
  port      = 9090
  log_level = "debug"
  data_dir  = "/var/lib/blackjack"
  seed      = 42

  auth_url       = "https://auth.example.com/validate"
  auth_fail_open = true
  auth_cache_ttl = "5m"
}

table "main" {
  decks     = 2
  human     = "Alice"
  computers = ["low", "high"]
}

table "solo" {
}
`)

	config, err := LoadConfig(path)
	require.NoError(t, err)
	require.NoError(t, config.Validate())

	assert.Equal(t, "0.0.0.0:9090", config.Address())
	assert.Equal(t, "debug", config.Server.LogLevel)
	assert.Equal(t, "/var/lib/blackjack", config.Server.DataDir)
	assert.Equal(t, int64(42), config.Server.Seed)
	assert.Equal(t, "30m", config.Server.IdleTTL)
	assert.Equal(t, "https://auth.example.com/validate", config.Server.AuthURL)
	assert.Empty(t, config.Server.AuthSecret)
	assert.True(t, config.Server.AuthFailOpen)
	ttl, err := config.AuthCacheTimeout()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Minute, ttl)

	main := config.Table("main")
	require.NotNil(t, main)
	assert.Equal(t, 2, main.Decks)
	assert.Equal(t, "Alice", main.Human)
	skills, err := main.Skills()
	require.NoError(t, err)
	assert.Equal(t, []game.SkillLevel{game.SkillLow, game.SkillHigh}, skills)

	solo := config.Table("solo")
	require.NotNil(t, solo)
	assert.Equal(t, 6, solo.Decks)
	assert.Equal(t, "Player", solo.Human)
	assert.Empty(t, solo.Computers)

	assert.Nil(t, config.Table("missing"))
}

func TestLoadConfigDefaultsTables(t *testing.T) {
	t.Parallel()

	config, err := LoadConfig(writeConfig(t, "server {\n  port = 8081\n}\n"))
	require.NoError(t, err)
	assert.Equal(t, 8081, config.Server.Port)
	assert.Equal(t, "localhost", config.Server.Address)
	require.Len(t, config.Tables, 1)
	assert.Equal(t, "main", config.Tables[0].Name)
}

func TestLoadConfigParseError(t *testing.T) {
	t.Parallel()

	_, err := LoadConfig(writeConfig(t, "server {\n  port = \n"))
	assert.Error(t, err)

	_, err = LoadConfig(writeConfig(t, "server {\n  colour = \"red\"\n}\n"))
	assert.Error(t, err, "unknown attributes are rejected")
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"port too low", func(c *Config) { c.Server.Port = 0 }},
		{"port too high", func(c *Config) { c.Server.Port = 70000 }},
		{"bad idle ttl", func(c *Config) { c.Server.IdleTTL = "soon" }},
		{"negative idle ttl", func(c *Config) { c.Server.IdleTTL = "-1m" }},
		{"bad auth cache ttl", func(c *Config) { c.Server.AuthCacheTTL = "1 minute" }},
		{"no tables", func(c *Config) { c.Tables = nil }},
		{"duplicate table", func(c *Config) { c.Tables = append(c.Tables, c.Tables[0]) }},
		{"too many decks", func(c *Config) { c.Tables[0].Decks = 9 }},
		{"no decks", func(c *Config) { c.Tables[0].Decks = 0 }},
		{"unknown skill", func(c *Config) { c.Tables[0].Computers = []string{"expert"} }},
		{"too many computers", func(c *Config) {
			c.Tables[0].Computers = []string{"low", "low", "low", "low", "low", "low"}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			config := DefaultConfig()
			tt.modify(config)
			assert.Error(t, config.Validate())
		})
	}
}

func TestIdleTimeout(t *testing.T) {
	t.Parallel()

	config := DefaultConfig()
	d, err := config.IdleTimeout()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Minute, d)

	config.Server.IdleTTL = ""
	d, err = config.IdleTimeout()
	require.NoError(t, err)
	assert.Zero(t, d)
}
