package cli

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/anstrom/escudo/internal/config"
	"github.com/anstrom/escudo/internal/db"
	"github.com/anstrom/escudo/internal/logging"
	"github.com/anstrom/escudo/internal/scanning"
	"github.com/anstrom/escudo/internal/services"
)

var (
	scanOwner int64
	scanJSON  bool
)

// scanCmd runs a single scan from the command line.
var scanCmd = &cobra.Command{
	Use:   "scan <ip>",
	Short: "Scan one IP address",
	Long: `Run nmap against a single IPv4 or IPv6 address and print the open ports.

With --owner the result is also stored for that user, exactly as if the
user had triggered the scan through the API.`,
	Example: `  escudo scan 192.168.1.10
  escudo scan ::1 --json
  escudo scan 10.0.0.5 --owner 3`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().Int64Var(&scanOwner, "owner", 0, "Store the result for this user ID")
	scanCmd.Flags().BoolVar(&scanJSON, "json", false, "Print the result as JSON")
}

func runScan(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	if scanOwner == 0 {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		result, err := newProbeService(cfg).Probe(ctx, args[0])
		if err != nil {
			return err
		}
		return printHostResult(cmd, result)
	}

	return withDatabase(ctx, false, func(ctx context.Context, cfg *config.Config, database *db.DB) error {
		a, err := newApp(cfg, database, nil)
		if err != nil {
			return err
		}
		record, err := a.scans.Scan(ctx, scanOwner, args[0])
		if err != nil {
			return err
		}
		result, err := record.HostResult()
		if err != nil {
			return err
		}
		return printHostResult(cmd, result)
	})
}

// newProbeService builds a scan service without storage for one-off scans.
func newProbeService(cfg *config.Config) *services.ScanService {
	logger := logging.Default()
	executor := scanning.NewNmapExecutor(append(cfg.ExecutorOptions(), scanning.WithLogger(logger))...)
	return services.NewScanService(executor, nil, nil, logger)
}

func printHostResult(cmd *cobra.Command, result scanning.HostResult) error {
	if scanJSON {
		return displayJSON(cmd.OutOrStdout(), result)
	}
	displayHostResult(cmd.OutOrStdout(), result)
	return nil
}
