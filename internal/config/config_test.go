package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "localhost:8080", cfg.Server.Addr)
	assert.Equal(t, "release", cfg.Server.Mode)
	assert.True(t, cfg.Auth.Enabled)
	assert.Empty(t, cfg.Auth.Secret)
	assert.Equal(t, 90*24*time.Hour, cfg.Auth.TokenExpiry)
	assert.Equal(t, 5.0, cfg.Security.RateLimit)
	assert.Equal(t, 10, cfg.Security.RateBurst)
	assert.Empty(t, cfg.Security.AllowedIPs)
}

func TestLoadFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "dirscan.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
server:
  addr: 0.0.0.0:9000
  mode: debug
auth:
  enabled: false
  token_expiry: 1h
security:
  rate_limit: 2.5
  allowed_ips:
    - 10.0.0.1
    - 10.0.0.2
`), 0o644))

	cfg, err := Load(file)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9000", cfg.Server.Addr)
	assert.Equal(t, "debug", cfg.Server.Mode)
	assert.False(t, cfg.Auth.Enabled)
	assert.Equal(t, time.Hour, cfg.Auth.TokenExpiry)
	assert.Equal(t, 2.5, cfg.Security.RateLimit)
	assert.Equal(t, 10, cfg.Security.RateBurst)
	assert.Equal(t, []string{"10.0.0.1", "10.0.0.2"}, cfg.Security.AllowedIPs)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DIRSCAN_SERVER_ADDR", "127.0.0.1:7000")
	t.Setenv("DIRSCAN_AUTH_SECRET", "from-env")
	t.Setenv("DIRSCAN_SECURITY_RATE_BURST", "3")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:7000", cfg.Server.Addr)
	assert.Equal(t, "from-env", cfg.Auth.Secret)
	assert.Equal(t, 3, cfg.Security.RateBurst)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := Config{
		Server:   ServerConfig{Addr: ":8080", Mode: "release"},
		Security: SecurityConfig{RateLimit: 1, RateBurst: 1},
	}
	require.NoError(t, valid.Validate())

	tests := map[string]func(c *Config){
		"unknown mode":    func(c *Config) { c.Server.Mode = "production" },
		"empty addr":      func(c *Config) { c.Server.Addr = "" },
		"negative expiry": func(c *Config) { c.Auth.TokenExpiry = -time.Second },
		"zero rate":       func(c *Config) { c.Security.RateLimit = 0 },
		"zero burst":      func(c *Config) { c.Security.RateBurst = 0 },
	}

	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := valid
			mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
