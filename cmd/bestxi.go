package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"cricstats/internal/aggregator"
	"cricstats/internal/report"
	"cricstats/internal/storage"
)

var bestXIDataset string

var bestXICmd = &cobra.Command{
	Use:   "bestxi <season>",
	Short: "Pick a notional best XI for a season",
	Long:  "Six batsmen by total runs (strike rate breaks ties) and five bowlers by wickets. Only wicket-takers qualify as bowlers, so the list may run short.",
	Args:  cobra.ExactArgs(1),
	RunE:  runBestXI,
}

func init() {
	bestXICmd.Flags().StringVar(&bestXIDataset, "dataset", "", "dataset hash prefix (default: latest)")
}

func runBestXI(cmd *cobra.Command, args []string) error {
	season := args[0]

	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	info, err := resolveDataset(db, bestXIDataset)
	if err != nil {
		return err
	}
	rows, err := db.GetSeasonPerformance(info.Hash, season)
	if err != nil {
		return fmt.Errorf("query performance: %w", err)
	}
	if len(rows) == 0 {
		fmt.Fprintf(os.Stdout, "No data for season %q.\n", season)
		return nil
	}

	xi := aggregator.BestXI(rows)
	fmt.Fprintf(os.Stdout, "\nSeason %s — best XI shortlist\n", season)
	report.PrintBestXITable(os.Stdout, xi)
	if len(xi.Bowlers) < 5 {
		fmt.Fprintf(os.Stdout, "\nNote: only %d wicket-taker(s) in this season.\n", len(xi.Bowlers))
	}
	return nil
}
