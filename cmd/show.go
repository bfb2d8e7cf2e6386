package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"cricstats/internal/report"
	"cricstats/internal/storage"
)

var (
	showDataset string
	showPlayer  string
)

var showCmd = &cobra.Command{
	Use:   "show <season>",
	Short: "Show the performance table for one season",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	showCmd.Flags().StringVar(&showDataset, "dataset", "", "dataset hash prefix (default: latest)")
	showCmd.Flags().StringVar(&showPlayer, "player", "", "highlight this player's row")
}

func runShow(cmd *cobra.Command, args []string) error {
	season := args[0]

	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	info, err := resolveDataset(db, showDataset)
	if err != nil {
		return err
	}
	rows, err := db.GetSeasonPerformance(info.Hash, season)
	if err != nil {
		return fmt.Errorf("query performance: %w", err)
	}
	if len(rows) == 0 {
		// Unknown season yields an empty table, not a failure.
		fmt.Fprintf(os.Stdout, "No data for season %q. Run 'cricstats seasons' to list known seasons.\n", season)
		return nil
	}

	fmt.Fprintf(os.Stdout, "\nSeason %s — %d players\n\n", season, len(rows))
	report.PrintPerformanceTable(rows, showPlayer)
	return nil
}
