package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Security SecurityConfig `mapstructure:"security"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
	Mode string `mapstructure:"mode"` // gin mode: "release", "debug" or "test"
}

// AuthConfig holds token authentication configuration
type AuthConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	Secret      string        `mapstructure:"secret"` // Empty means generate and persist one
	TokenExpiry time.Duration `mapstructure:"token_expiry"`
}

// SecurityConfig holds request filtering configuration
type SecurityConfig struct {
	RateLimit  float64  `mapstructure:"rate_limit"` // Requests per second per IP
	RateBurst  int      `mapstructure:"rate_burst"`
	AllowedIPs []string `mapstructure:"allowed_ips"`
}

// Load reads configuration from defaults, an optional YAML file and
// DIRSCAN_* environment variables. An empty file means search the default
// locations for dirscan.yaml.
func Load(file string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.addr", "localhost:8080")
	v.SetDefault("server.mode", "release")
	v.SetDefault("auth.enabled", true)
	v.SetDefault("auth.secret", "")
	v.SetDefault("auth.token_expiry", 90*24*time.Hour)
	v.SetDefault("security.rate_limit", 5.0)
	v.SetDefault("security.rate_burst", 10)
	v.SetDefault("security.allowed_ips", []string{})

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("dirscan")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/dirscan")
		v.AddConfigPath("/etc/dirscan/")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// No config file, defaults and environment only
	}

	v.SetEnvPrefix("DIRSCAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks values viper cannot check on its own
func (c *Config) Validate() error {
	switch c.Server.Mode {
	case "release", "debug", "test":
	default:
		return fmt.Errorf("invalid server.mode %q (expected release, debug or test)", c.Server.Mode)
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr must not be empty")
	}
	if c.Auth.TokenExpiry < 0 {
		return fmt.Errorf("auth.token_expiry must not be negative")
	}
	if c.Security.RateLimit <= 0 {
		return fmt.Errorf("security.rate_limit must be positive")
	}
	if c.Security.RateBurst <= 0 {
		return fmt.Errorf("security.rate_burst must be positive")
	}
	return nil
}
