package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/anstrom/escudo/internal/api"
	"github.com/anstrom/escudo/internal/config"
	"github.com/anstrom/escudo/internal/db"
	"github.com/anstrom/escudo/internal/logging"
	"github.com/anstrom/escudo/internal/metrics"
)

const systemMetricsInterval = 15 * time.Second

// serveCmd runs the API server in the foreground until interrupted.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the API server",
	Long: `Connect to the database, apply pending migrations and serve the HTTP API
until SIGINT or SIGTERM is received.`,
	Example: `  escudo serve
  escudo serve --host 0.0.0.0 --port 8080
  ESCUDO_AUTH_SECRET_KEY=... escudo serve --config /etc/escudo/config.yaml`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("host", "", "Override server host")
	serveCmd.Flags().Int("port", 0, "Override server port")

	bindFlags(viper.GetViper(), serveCmd.Flags(), map[string]string{"api.host": "host", "api.port": "port"})
}

// bindFlags binds each named flag to a config key. Only flags set on the
// command line override the configuration.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet, keys map[string]string) {
	for key, name := range keys {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to bind %s flag: %v\n", name, err)
		}
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return withDatabase(ctx, true, func(ctx context.Context, cfg *config.Config, database *db.DB) error {
		logger := logging.Default()
		logger.Info("Starting escudo API server",
			"version", version,
			"commit", commit,
			"build_time", buildTime,
			"address", cfg.APIAddress())

		pm := metrics.NewPrometheusMetrics()
		go pm.StartPeriodicUpdates(ctx, systemMetricsInterval)

		a, err := newApp(cfg, database, pm)
		if err != nil {
			return err
		}

		server, err := api.New(cfg, api.Services{
			Auth:     a.auth,
			Scans:    a.scans,
			Database: database,
			Metrics:  pm,
		}, logger)
		if err != nil {
			return fmt.Errorf("failed to create API server: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "API server listening on http://%s\n", cfg.APIAddress())
		if err := server.Start(ctx); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Server stopped successfully")
		return nil
	})
}
