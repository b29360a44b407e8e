// Package cli provides the escudo command-line interface: the API server,
// database migrations, one-shot scans and account administration.
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/anstrom/escudo/internal/api/handlers"
	"github.com/anstrom/escudo/internal/config"
	"github.com/anstrom/escudo/internal/logging"
)

const envPrefix = "ESCUDO"

var (
	cfgFile string
	verbose bool
)

// Build information - these will be set by ldflags during build.
var (
	version   = "dev"
	commit    = "none"
	buildTime = "unknown"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "escudo",
	Short: "Tenant-scoped port scanning service",
	Long: `Escudo runs nmap against single IP addresses on behalf of registered
users and keeps each user's results private to that user.`,
	Version:       getVersion(),
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	if err := viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose")); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to bind verbose flag: %v\n", err)
	}
}

// initConfig reads in the config file, .env and ENV variables if set.
func initConfig() {
	// A missing .env is normal outside development.
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// configFilePath returns the explicit --config path or the file viper found.
func configFilePath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return viper.ConfigFileUsed()
}

// loadConfig reads the config file, applies ESCUDO_* overrides and
// validates the result. It also installs the configured default logger.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Read(configFilePath())
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}

	applyOverrides(cfg, viper.GetViper())

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	initLogging(cfg)
	return cfg, nil
}

// applyOverrides copies every key v knows about onto cfg. Keys use the
// config file names, so auth.secret_key maps to ESCUDO_AUTH_SECRET_KEY.
func applyOverrides(cfg *config.Config, v *viper.Viper) {
	stringKeys := map[string]*string{
		"api.host":             &cfg.API.Host,
		"auth.secret_key":      &cfg.Auth.SecretKey,
		"database.host":        &cfg.Database.Host,
		"database.database":    &cfg.Database.Database,
		"database.username":    &cfg.Database.Username,
		"database.password":    &cfg.Database.Password,
		"database.ssl_mode":    &cfg.Database.SSLMode,
		"scanning.binary_path": &cfg.Scanning.BinaryPath,
	}
	for key, target := range stringKeys {
		if v.IsSet(key) {
			*target = v.GetString(key)
		}
	}

	intKeys := map[string]*int{
		"api.port":      &cfg.API.Port,
		"database.port": &cfg.Database.Port,
	}
	for key, target := range intKeys {
		if v.IsSet(key) {
			*target = v.GetInt(key)
		}
	}

	if v.IsSet("auth.token_lifetime") {
		cfg.Auth.TokenLifetime = v.GetDuration("auth.token_lifetime")
	}
	if v.IsSet("scanning.timeout") {
		cfg.Scanning.Timeout = v.GetDuration("scanning.timeout")
		if cfg.API.WriteTimeout <= cfg.Scanning.Timeout {
			cfg.API.WriteTimeout = cfg.Scanning.Timeout + config.WriteTimeoutGrace
		}
	}
	if v.IsSet("api.write_timeout") {
		cfg.API.WriteTimeout = v.GetDuration("api.write_timeout")
	}
	if v.IsSet("logging.level") {
		cfg.Logging.Level = logging.LogLevel(v.GetString("logging.level"))
	}
	if v.IsSet("logging.format") {
		cfg.Logging.Format = logging.LogFormat(v.GetString("logging.format"))
	}
	if v.GetBool("verbose") {
		cfg.Logging.Level = logging.LevelDebug
	}
}

// getVersion returns the version string.
func getVersion() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildTime)
}

// SetVersion sets the version information (called from main).
func SetVersion(v, c, bt string) {
	version = v
	commit = c
	buildTime = bt
	rootCmd.Version = getVersion()
	handlers.SetBuildInfo(v, c, bt)
}

// initLogging installs the logger described by cfg as the default.
func initLogging(cfg *config.Config) {
	logConfig := cfg.Logging
	logConfig.AddSource = logConfig.Level == logging.LevelDebug

	logger, err := logging.New(logConfig)
	if err != nil {
		logger = logging.NewDefault()
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logging: %v\n", err)
	}
	logging.SetDefault(logger)

	if verbose {
		logging.Info("Structured logging initialized", "level", logConfig.Level, "format", logConfig.Format)
	}
}
