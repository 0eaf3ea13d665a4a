// Package config loads and watches the bountyclaw host configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultBaseURL is the production bounty.new web root.
const DefaultBaseURL = "https://www.bounty.new"

// APIConfig locates the remote service. TRPCURL, AuthURL, and DeviceURL
// default to paths under BaseURL and only need setting for split
// deployments.
type APIConfig struct {
	BaseURL   string `yaml:"base_url"`
	TRPCURL   string `yaml:"trpc_url"`
	AuthURL   string `yaml:"auth_url"`
	DeviceURL string `yaml:"device_url"`
	ClientID  string `yaml:"client_id"`
	Scope     string `yaml:"scope"`
}

// GatewayConfig configures the local WebSocket endpoint serving UI surfaces.
type GatewayConfig struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	RateLimitRPM   int    `yaml:"rate_limit_rpm"`
	RateLimitBurst int    `yaml:"rate_limit_burst"`
}

// SessionConfig selects the secret-storage backend.
type SessionConfig struct {
	Backend  string `yaml:"backend"` // "keyring" (default) or "file"
	FilePath string `yaml:"file_path"`
}

// LogConfig controls slog output.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// Config is the full host configuration.
type Config struct {
	API     APIConfig     `yaml:"api"`
	Gateway GatewayConfig `yaml:"gateway"`
	Session SessionConfig `yaml:"session"`
	Log     LogConfig     `yaml:"log"`
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.API.BaseURL == "" {
		c.API.BaseURL = DefaultBaseURL
	}
	base := strings.TrimRight(c.API.BaseURL, "/")
	c.API.BaseURL = base
	if c.API.TRPCURL == "" {
		c.API.TRPCURL = base + "/api/trpc"
	}
	if c.API.AuthURL == "" {
		c.API.AuthURL = base + "/api/auth"
	}
	if c.API.DeviceURL == "" {
		c.API.DeviceURL = base + "/device"
	}
	if c.API.ClientID == "" {
		c.API.ClientID = "bountyclaw"
	}
	if c.API.Scope == "" {
		c.API.Scope = "openid profile email"
	}

	if c.Gateway.Host == "" {
		c.Gateway.Host = "127.0.0.1"
	}
	if c.Gateway.Port == 0 {
		c.Gateway.Port = 8391
	}
	if c.Gateway.RateLimitRPM == 0 {
		c.Gateway.RateLimitRPM = 120
	}
	if c.Gateway.RateLimitBurst == 0 {
		c.Gateway.RateLimitBurst = 20
	}

	if c.Session.Backend == "" {
		c.Session.Backend = "keyring"
	}
	if c.Session.FilePath == "" {
		c.Session.FilePath = filepath.Join(DataDir(), "session.json")
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// BountyURL returns the web page for one bounty.
func (c *Config) BountyURL(bountyID string) string {
	return c.API.BaseURL + "/bounty/" + bountyID
}

// Dir returns the bountyclaw home directory (~/.bountyclaw).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".bountyclaw"
	}
	return filepath.Join(home, ".bountyclaw")
}

// DataDir returns the directory for mutable host data.
func DataDir() string {
	return filepath.Join(Dir(), "data")
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return filepath.Join(Dir(), "config.yaml")
}

// Load reads the YAML config at path and fills in defaults. A missing file
// yields the default configuration.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Session.Backend {
	case "", "keyring", "file":
	default:
		return fmt.Errorf("config: unknown session backend %q", c.Session.Backend)
	}
	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unknown log level %q", c.Log.Level)
	}
	if c.Gateway.Port < 0 || c.Gateway.Port > 65535 {
		return fmt.Errorf("config: invalid gateway port %d", c.Gateway.Port)
	}
	return nil
}
