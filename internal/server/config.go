package server

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
)

// Config represents the complete server configuration
type Config struct {
	Server Settings      `hcl:"server,block"`
	Tables []TableConfig `hcl:"table,block"`
}

// Settings contains server-level configuration
type Settings struct {
	Address      string `hcl:"address,optional"`
	Port         int    `hcl:"port,optional"`
	LogLevel     string `hcl:"log_level,optional"`
	DataDir      string `hcl:"data_dir,optional"` // empty keeps games in memory only
	Seed         int64  `hcl:"seed,optional"`     // 0 picks a time-based seed
	IdleTTL      string `hcl:"idle_ttl,optional"` // duration after which idle in-memory games are dropped
	AuthURL      string `hcl:"auth_url,optional"` // token validation endpoint; empty disables auth
	AuthSecret   string `hcl:"auth_secret,optional"`
	AuthFailOpen bool   `hcl:"auth_fail_open,optional"`
	AuthCacheTTL string `hcl:"auth_cache_ttl,optional"` // how long accepted tokens are remembered; "0s" disables
}

// TableConfig is the template a create_game request starts from
type TableConfig struct {
	Name      string   `hcl:"name,label"`
	Decks     int      `hcl:"decks,optional"`
	Human     string   `hcl:"human,optional"`
	Computers []string `hcl:"computers,optional"`
}

// DefaultConfig returns default server configuration
func DefaultConfig() *Config {
	return &Config{
		Server: Settings{
			Address:      "localhost",
			Port:         8080,
			LogLevel:     "info",
			IdleTTL:      "30m",
			AuthCacheTTL: "1m",
		},
		Tables: []TableConfig{
			{
				Name:      "main",
				Decks:     deck.DefaultDeckCount,
				Human:     "Player",
				Computers: []string{"medium", "high"},
			},
		},
	}
}

// LoadConfig loads configuration from an HCL file. A missing file yields the
// defaults.
func LoadConfig(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	config.applyDefaults()
	return &config, nil
}

func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Server.Address == "" {
		c.Server.Address = defaults.Server.Address
	}
	if c.Server.Port == 0 {
		c.Server.Port = defaults.Server.Port
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = defaults.Server.LogLevel
	}
	if c.Server.IdleTTL == "" {
		c.Server.IdleTTL = defaults.Server.IdleTTL
	}
	if c.Server.AuthCacheTTL == "" {
		c.Server.AuthCacheTTL = defaults.Server.AuthCacheTTL
	}
	if len(c.Tables) == 0 {
		c.Tables = defaults.Tables
	}
	for i := range c.Tables {
		if c.Tables[i].Decks == 0 {
			c.Tables[i].Decks = deck.DefaultDeckCount
		}
		if c.Tables[i].Human == "" {
			c.Tables[i].Human = "Player"
		}
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if _, err := c.IdleTimeout(); err != nil {
		return err
	}
	if _, err := c.AuthCacheTimeout(); err != nil {
		return err
	}
	if len(c.Tables) == 0 {
		return fmt.Errorf("at least one table must be configured")
	}

	seen := make(map[string]bool, len(c.Tables))
	for _, table := range c.Tables {
		if seen[table.Name] {
			return fmt.Errorf("table %s: defined more than once", table.Name)
		}
		seen[table.Name] = true

		if table.Decks < 1 || table.Decks > 8 {
			return fmt.Errorf("table %s: decks must be between 1 and 8", table.Name)
		}
		// the human takes one seat
		if len(table.Computers) > game.MaxSeats-1 {
			return fmt.Errorf("table %s: at most %d computer players", table.Name, game.MaxSeats-1)
		}
		if _, err := table.Skills(); err != nil {
			return fmt.Errorf("table %s: %w", table.Name, err)
		}
	}
	return nil
}

// Address returns the full listen address
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}

// IdleTimeout parses idle_ttl. Zero disables reaping.
func (c *Config) IdleTimeout() (time.Duration, error) {
	return parseTTL("idle_ttl", c.Server.IdleTTL)
}

func parseTTL(name, value string) (time.Duration, error) {
	if value == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, value, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s must not be negative, got %s", name, d)
	}
	return d, nil
}

// AuthCacheTimeout parses auth_cache_ttl. Zero disables the cache.
func (c *Config) AuthCacheTimeout() (time.Duration, error) {
	return parseTTL("auth_cache_ttl", c.Server.AuthCacheTTL)
}

// Table returns a table configuration by name
func (c *Config) Table(name string) *TableConfig {
	for i := range c.Tables {
		if c.Tables[i].Name == name {
			return &c.Tables[i]
		}
	}
	return nil
}

// Skills parses the computer skill names
func (t TableConfig) Skills() ([]game.SkillLevel, error) {
	skills := make([]game.SkillLevel, len(t.Computers))
	for i, name := range t.Computers {
		skill, err := game.ParseSkillLevel(name)
		if err != nil {
			return nil, err
		}
		skills[i] = skill
	}
	return skills, nil
}
