package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"cricstats/internal/aggregator"
	"cricstats/internal/report"
	"cricstats/internal/storage"
)

var compareDataset string

var compareCmd = &cobra.Command{
	Use:   "compare <season> <player-a> <player-b>",
	Short: "Compare two players within a season",
	Args:  cobra.ExactArgs(3),
	RunE:  runCompare,
}

func init() {
	compareCmd.Flags().StringVar(&compareDataset, "dataset", "", "dataset hash prefix (default: latest)")
}

func runCompare(cmd *cobra.Command, args []string) error {
	season, playerA, playerB := args[0], args[1], args[2]

	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	info, err := resolveDataset(db, compareDataset)
	if err != nil {
		return err
	}
	rows, err := db.GetSeasonPerformance(info.Hash, season)
	if err != nil {
		return fmt.Errorf("query performance: %w", err)
	}
	if len(rows) == 0 {
		return fmt.Errorf("no data for season %q", season)
	}

	a, b, err := aggregator.Compare(rows, playerA, playerB)
	if err != nil {
		if errors.Is(err, aggregator.ErrPlayerNotFound) {
			return fmt.Errorf("%w — player names must match the season's batting records exactly (see 'cricstats show %s')", err, season)
		}
		return err
	}

	fmt.Fprintf(os.Stdout, "\nSeason %s — %s vs %s\n\n", season, a.Player, b.Player)
	report.PrintComparisonTable(os.Stdout, a, b)
	return nil
}
