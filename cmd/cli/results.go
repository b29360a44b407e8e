package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/anstrom/escudo/internal/config"
	"github.com/anstrom/escudo/internal/db"
)

var (
	resultsOwner  int64
	resultsLimit  int
	resultsOffset int
	resultsJSON   bool
)

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "List stored scan results of a user",
	Example: `  escudo results --owner 3
  escudo results --owner 3 --limit 10 --offset 20
  escudo results --owner 3 --json`,
	Args: cobra.NoArgs,
	RunE: runResults,
}

func init() {
	rootCmd.AddCommand(resultsCmd)

	resultsCmd.Flags().Int64Var(&resultsOwner, "owner", 0, "User ID whose results to list")
	resultsCmd.Flags().IntVar(&resultsLimit, "limit", 0, "Maximum number of results (0 lists all)")
	resultsCmd.Flags().IntVar(&resultsOffset, "offset", 0, "Number of results to skip")
	resultsCmd.Flags().BoolVar(&resultsJSON, "json", false, "Print results as JSON")
	_ = resultsCmd.MarkFlagRequired("owner")
}

func runResults(cmd *cobra.Command, _ []string) error {
	return withDatabase(cmd.Context(), false, func(ctx context.Context, cfg *config.Config, database *db.DB) error {
		a, err := newApp(cfg, database, nil)
		if err != nil {
			return err
		}

		var results []*db.ScanResult
		if resultsLimit == 0 && resultsOffset == 0 {
			results, err = a.scans.ListResults(ctx, resultsOwner)
			if err != nil {
				return err
			}
		} else {
			page, err := a.scans.ListResultsPage(ctx, resultsOwner, resultsLimit, resultsOffset)
			if err != nil {
				return err
			}
			results = page.Results
			defer fmt.Fprintf(cmd.OutOrStdout(), "Showing %d of %d results\n", len(page.Results), page.Total)
		}

		if resultsJSON {
			return displayJSON(cmd.OutOrStdout(), results)
		}
		return displayScanResults(cmd.OutOrStdout(), results)
	})
}
