package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"cricstats/internal/report"
	"cricstats/internal/storage"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show database-wide totals",
	Args:  cobra.NoArgs,
	RunE:  runSummary,
}

func runSummary(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	ov, err := db.GetOverview()
	if err != nil {
		return fmt.Errorf("query overview: %w", err)
	}
	if ov.Datasets == 0 {
		fmt.Fprintln(os.Stdout, "No datasets stored yet. Run 'cricstats ingest <matches.csv> <deliveries.csv>' to add one.")
		return nil
	}

	report.PrintOverview(os.Stdout, *ov)

	latest, err := db.LatestDataset()
	if err != nil {
		return err
	}
	if latest != nil {
		summaries, err := db.ListSeasons(latest.Hash)
		if err != nil {
			return fmt.Errorf("list seasons: %w", err)
		}
		fmt.Fprintln(os.Stdout, "Latest dataset:")
		report.PrintDatasetSummary(os.Stdout, *latest)
		report.PrintSeasonTable(os.Stdout, summaries)
	}
	return nil
}
