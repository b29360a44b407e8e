package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anstrom/escudo/internal/auth"
	"github.com/anstrom/escudo/internal/errors"
	"github.com/anstrom/escudo/internal/logging"
	"github.com/anstrom/escudo/internal/scanning"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func validConfig() *Config {
	cfg := Default()
	cfg.Auth.SecretKey = "test-secret"
	cfg.Database.Database = "escudo"
	cfg.Database.Username = "escudo"
	return cfg
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "127.0.0.1:8000", cfg.APIAddress())
	assert.Equal(t, []string{"http://localhost:5173", "http://127.0.0.1:5173"}, cfg.API.CORS.AllowedOrigins)
	assert.Equal(t, auth.DefaultTokenLifetime, cfg.Auth.TokenLifetime)
	assert.Equal(t, scanning.DefaultScanTimeout, cfg.Scanning.Timeout)
	assert.Greater(t, cfg.API.WriteTimeout, cfg.Scanning.Timeout)
	assert.Empty(t, cfg.Auth.SecretKey)

	// Defaults alone are incomplete.
	assert.Error(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		wantErr bool
	}{
		{
			name: "valid yaml config",
			file: "config.yaml",
			content: `
auth:
  secret_key: s3cret
  token_lifetime: 15m
database:
  host: db.internal
  database: escudo
  username: escudo
  password: pw
scanning:
  binary_path: /usr/local/bin/nmap
  timeout: 45s
api:
  port: 9000
`,
		},
		{
			name: "valid json config",
			file: "config.json",
			content: `{
				"auth": {"secret_key": "s3cret", "token_lifetime": "15m"},
				"database": {"host": "db.internal", "database": "escudo", "username": "escudo"},
				"scanning": {"binary_path": "/usr/local/bin/nmap", "timeout": "45s"},
				"api": {"port": 9000}
			}`,
		},
		{
			name:    "invalid yaml syntax",
			file:    "config.yaml",
			content: "database:\n  port: invalid\n",
			wantErr: true,
		},
		{
			name:    "invalid json syntax",
			file:    "config.json",
			content: `{"database": {"host": "localhost",}`,
			wantErr: true,
		},
		{
			name:    "unsupported extension",
			file:    "config.txt",
			content: "config data",
			wantErr: true,
		},
		{
			name:    "missing secret",
			file:    "config.yaml",
			content: "database:\n  database: escudo\n  username: escudo\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(writeConfig(t, tt.file, tt.content))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "s3cret", cfg.Auth.SecretKey)
			assert.Equal(t, 15*time.Minute, cfg.Auth.TokenLifetime)
			assert.Equal(t, "db.internal", cfg.Database.Host)
			assert.Equal(t, 5432, cfg.Database.Port)
			assert.Equal(t, 45*time.Second, cfg.Scanning.Timeout)
			assert.Equal(t, "/usr/local/bin/nmap", cfg.Scanning.BinaryPath)
			assert.Equal(t, 9000, cfg.API.Port)
			assert.Equal(t, "127.0.0.1", cfg.API.Host)
		})
	}
}

func TestLoad_NonexistentFile(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	assert.Error(t, err)
}

func TestLoad_EmptyPath(t *testing.T) {
	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "auth.secret_key")
}

func TestRead_SkipsValidation(t *testing.T) {
	path := writeConfig(t, "partial.yaml", "api:\n  port: 9100\n")

	cfg, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.API.Port)
	assert.Empty(t, cfg.Auth.SecretKey)

	cfg, err = Read("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestRead_DerivesWriteTimeout(t *testing.T) {
	cfg, err := Read(writeConfig(t, "slow.yaml", "scanning:\n  timeout: 5m\n"))
	require.NoError(t, err)
	assert.Equal(t, 5*time.Minute+WriteTimeoutGrace, cfg.API.WriteTimeout)

	cfg, err = Read(writeConfig(t, "explicit.yaml", "scanning:\n  timeout: 5m\napi:\n  write_timeout: 1m\n"))
	require.NoError(t, err)
	assert.Equal(t, time.Minute, cfg.API.WriteTimeout)
	var cfgErr *errors.ConfigError
	require.ErrorAs(t, cfg.Validate(), &cfgErr)
	assert.Equal(t, "api.write_timeout", cfgErr.Field)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"missing secret", func(c *Config) { c.Auth.SecretKey = "" }, "auth.secret_key"},
		{"zero token lifetime", func(c *Config) { c.Auth.TokenLifetime = 0 }, "auth.token_lifetime"},
		{"missing database host", func(c *Config) { c.Database.Host = "" }, "database.host"},
		{"missing database name", func(c *Config) { c.Database.Database = "" }, "database.database"},
		{"missing database user", func(c *Config) { c.Database.Username = "" }, "database.username"},
		{"negative scan timeout", func(c *Config) { c.Scanning.Timeout = -time.Second }, "scanning.timeout"},
		{"scan outlives write timeout", func(c *Config) { c.Scanning.Timeout = 5 * time.Minute }, "api.write_timeout"},
		{"write timeout equals scan timeout", func(c *Config) { c.API.WriteTimeout = c.Scanning.Timeout }, "api.write_timeout"},
		{"port too large", func(c *Config) { c.API.Port = 70000 }, "api.port"},
		{"port zero", func(c *Config) { c.API.Port = 0 }, "api.port"},
		{"missing api host", func(c *Config) { c.API.Host = "" }, "api.host"},
		{"zero request size", func(c *Config) { c.API.MaxRequestSize = 0 }, "api.max_request_size"},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }, "logging.level"},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
	}

	require.NoError(t, validConfig().Validate())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			var cfgErr *errors.ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	cfg := validConfig()
	cfg.Logging.Format = logging.FormatJSON
	cfg.Scanning.SkipHostDiscovery = true

	path := filepath.Join(t.TempDir(), "nested", "escudo.yaml")
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestExecutorOptions(t *testing.T) {
	cfg := validConfig()
	assert.Len(t, cfg.ExecutorOptions(), 3)

	cfg.Scanning.BinaryPath = "/opt/nmap"
	cfg.Scanning.Timeout = 10 * time.Second
	opts := cfg.ExecutorOptions()
	assert.Len(t, opts, 4)

	executor := scanning.NewNmapExecutor(opts...)
	assert.Equal(t, 10*time.Second, executor.Timeout())
}
