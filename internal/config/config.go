// Package config holds the escudo server configuration. Values come from a
// YAML or JSON file layered over Default, and the CLI may override them
// from flags and ESCUDO_* environment variables before Validate is called.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/anstrom/escudo/internal/auth"
	"github.com/anstrom/escudo/internal/db"
	"github.com/anstrom/escudo/internal/errors"
	"github.com/anstrom/escudo/internal/logging"
	"github.com/anstrom/escudo/internal/scanning"
)

const (
	defaultAPIPort        = 8000
	defaultMaxRequestSize = 1 << 20
	configDirPerm         = 0750
	configFilePerm        = 0600
)

// WriteTimeoutGrace is how much longer than the scan timeout the API waits
// before abandoning a response.
const WriteTimeoutGrace = 30 * time.Second

// Config represents the complete server configuration.
type Config struct {
	API      APIConfig      `yaml:"api" json:"api"`
	Auth     AuthConfig     `yaml:"auth" json:"auth"`
	Scanning ScanningConfig `yaml:"scanning" json:"scanning"`
	Database db.Config      `yaml:"database" json:"database"`
	Logging  logging.Config `yaml:"logging" json:"logging"`
}

// APIConfig holds HTTP server settings.
type APIConfig struct {
	Host string `yaml:"host" json:"host"`
	Port int    `yaml:"port" json:"port"`

	ReadTimeout     time.Duration `yaml:"read_timeout" json:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout" json:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" json:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" json:"shutdown_timeout"`

	// Maximum request body size in bytes
	MaxRequestSize int64 `yaml:"max_request_size" json:"max_request_size"`

	CORS CORSConfig `yaml:"cors" json:"cors"`

	// Log every request through the logging middleware
	RequestLogging bool `yaml:"request_logging" json:"request_logging"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins" json:"allowed_origins"`
	AllowedMethods []string `yaml:"allowed_methods" json:"allowed_methods"`
	AllowedHeaders []string `yaml:"allowed_headers" json:"allowed_headers"`
}

// AuthConfig holds bearer token settings.
type AuthConfig struct {
	// HMAC key used to sign tokens; required
	SecretKey string `yaml:"secret_key" json:"secret_key"`

	TokenLifetime time.Duration `yaml:"token_lifetime" json:"token_lifetime"`
}

// ScanningConfig holds settings for the nmap executor.
type ScanningConfig struct {
	// Path to the nmap binary; empty means look it up in PATH
	BinaryPath string `yaml:"binary_path" json:"binary_path"`

	// Upper bound on a single scan
	Timeout time.Duration `yaml:"timeout" json:"timeout"`

	// Pass -sV to nmap
	ServiceDetection bool `yaml:"service_detection" json:"service_detection"`

	// Pass -Pn to nmap
	SkipHostDiscovery bool `yaml:"skip_host_discovery" json:"skip_host_discovery"`
}

// Default returns a configuration with sensible defaults. The auth secret
// and database credentials have no default.
func Default() *Config {
	return &Config{
		API: APIConfig{
			Host:            "127.0.0.1",
			Port:            defaultAPIPort,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    scanning.DefaultScanTimeout + WriteTimeoutGrace,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			MaxRequestSize:  defaultMaxRequestSize,
			CORS: CORSConfig{
				AllowedOrigins: []string{"http://localhost:5173", "http://127.0.0.1:5173"},
				AllowedMethods: []string{"GET", "POST", "OPTIONS"},
				AllowedHeaders: []string{"Content-Type", "Authorization"},
			},
			RequestLogging: true,
		},
		Auth: AuthConfig{
			TokenLifetime: auth.DefaultTokenLifetime,
		},
		Scanning: ScanningConfig{
			Timeout:          scanning.DefaultScanTimeout,
			ServiceDetection: true,
		},
		Database: db.DefaultConfig(),
		Logging:  logging.DefaultConfig(),
	}
}

// Load reads the file at path over Default and validates the result. An
// empty path yields the defaults, still validated.
func Load(path string) (*Config, error) {
	config, err := Read(path)
	if err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// Read reads the file at path over Default without validating, so callers
// can apply overrides first. An empty path yields the defaults.
func Read(path string) (*Config, error) {
	config := Default()
	if path == "" {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	defaultWrite := config.API.WriteTimeout
	if err := config.parse(path, data); err != nil {
		return nil, err
	}
	if config.API.WriteTimeout == defaultWrite && config.API.WriteTimeout <= config.Scanning.Timeout {
		config.API.WriteTimeout = config.Scanning.Timeout + WriteTimeoutGrace
	}

	return config, nil
}

func (c *Config) parse(path string, data []byte) error {
	// JSON is a subset of YAML, so one decoder covers both.
	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml", ".json":
		if err := yaml.Unmarshal(data, c); err != nil {
			return fmt.Errorf("failed to parse %s config: %w", ext, err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported config file extension %q", ext)
	}
}

// Save writes the configuration to path as YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), configDirPerm); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, configFilePerm); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks required fields and value ranges. The first problem found
// is returned as a *errors.ConfigError naming the field.
func (c *Config) Validate() error {
	if c.Auth.SecretKey == "" {
		return errors.ErrConfigMissing("auth.secret_key")
	}
	if c.Auth.TokenLifetime <= 0 {
		return errors.ErrConfigInvalid("auth.token_lifetime", c.Auth.TokenLifetime)
	}

	if c.Database.Host == "" {
		return errors.ErrConfigMissing("database.host")
	}
	if c.Database.Database == "" {
		return errors.ErrConfigMissing("database.database")
	}
	if c.Database.Username == "" {
		return errors.ErrConfigMissing("database.username")
	}

	if c.Scanning.Timeout <= 0 {
		return errors.ErrConfigInvalid("scanning.timeout", c.Scanning.Timeout)
	}
	// A scan request holds the response open for the whole scan.
	if c.API.WriteTimeout <= c.Scanning.Timeout {
		return errors.ErrConfigInvalid("api.write_timeout", c.API.WriteTimeout)
	}

	if c.API.Port <= 0 || c.API.Port > 65535 {
		return errors.ErrConfigInvalid("api.port", c.API.Port)
	}
	if c.API.Host == "" {
		return errors.ErrConfigMissing("api.host")
	}
	if c.API.MaxRequestSize <= 0 {
		return errors.ErrConfigInvalid("api.max_request_size", c.API.MaxRequestSize)
	}

	switch c.Logging.Level {
	case logging.LevelDebug, logging.LevelInfo, logging.LevelWarn, logging.LevelError:
	default:
		return errors.ErrConfigInvalid("logging.level", c.Logging.Level)
	}
	switch c.Logging.Format {
	case logging.FormatText, logging.FormatJSON:
	default:
		return errors.ErrConfigInvalid("logging.format", c.Logging.Format)
	}

	return nil
}

// APIAddress returns the host:port the HTTP server listens on.
func (c *Config) APIAddress() string {
	return fmt.Sprintf("%s:%d", c.API.Host, c.API.Port)
}

// ExecutorOptions translates the scanning section into executor options.
func (c *Config) ExecutorOptions() []scanning.ExecutorOption {
	opts := []scanning.ExecutorOption{
		scanning.WithTimeout(c.Scanning.Timeout),
		scanning.WithServiceDetection(c.Scanning.ServiceDetection),
		scanning.WithSkipHostDiscovery(c.Scanning.SkipHostDiscovery),
	}
	if c.Scanning.BinaryPath != "" {
		opts = append(opts, scanning.WithBinaryPath(c.Scanning.BinaryPath))
	}
	return opts
}
