package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"cricstats/internal/fetch"
)

var (
	fetchMatchesURL    string
	fetchDeliveriesURL string
	fetchDir           string
	fetchIngest        bool
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download a ball-by-ball dataset over HTTP",
	Long: `Downloads the matches and deliveries CSV files to a local directory.
URLs come from --matches-url/--deliveries-url or from matches_url/deliveries_url
in the config file.

Example:
  cricstats fetch --matches-url https://example.com/matches.csv \
                  --deliveries-url https://example.com/deliveries.csv --ingest`,
	Args: cobra.NoArgs,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().StringVar(&fetchMatchesURL, "matches-url", "", "URL of the matches CSV")
	fetchCmd.Flags().StringVar(&fetchDeliveriesURL, "deliveries-url", "", "URL of the deliveries CSV")
	fetchCmd.Flags().StringVar(&fetchDir, "dir", "", "download directory (default ~/.cricstats/data)")
	fetchCmd.Flags().BoolVar(&fetchIngest, "ingest", false, "ingest the dataset after downloading")
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	matchesURL, deliveriesURL := fetchMatchesURL, fetchDeliveriesURL
	if matchesURL == "" {
		matchesURL = cfg.MatchesURL
	}
	if deliveriesURL == "" {
		deliveriesURL = cfg.DeliveriesURL
	}
	if matchesURL == "" || deliveriesURL == "" {
		return fmt.Errorf("both URLs are required: pass --matches-url/--deliveries-url or set matches_url/deliveries_url in the config")
	}

	dir := fetchDir
	if dir == "" {
		dir = filepath.Join(mustUserHome(), ".cricstats", "data")
	}
	matchesPath := filepath.Join(dir, "matches.csv")
	deliveriesPath := filepath.Join(dir, "deliveries.csv")

	client := fetch.NewClient(time.Duration(cfg.HTTPTimeoutSec) * time.Second)

	fmt.Fprintf(os.Stdout, "Downloading %s...\n", matchesURL)
	if err := client.Download(cmd.Context(), matchesURL, matchesPath); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Downloading %s...\n", deliveriesURL)
	if err := client.Download(cmd.Context(), deliveriesURL, deliveriesPath); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Saved to %s\n", dir)

	if fetchIngest {
		return runIngest(cmd, []string{matchesPath, deliveriesPath})
	}
	fmt.Fprintf(os.Stdout, "Run 'cricstats ingest %s %s' to compute metrics.\n", matchesPath, deliveriesPath)
	return nil
}
