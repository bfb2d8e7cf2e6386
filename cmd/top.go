package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"cricstats/internal/aggregator"
	"cricstats/internal/model"
	"cricstats/internal/report"
	"cricstats/internal/storage"
)

var (
	topDataset string
	topMetric  string
	topCount   int
)

var topCmd = &cobra.Command{
	Use:   "top <season>",
	Short: "Show the top N players of a season by a chosen metric",
	Args:  cobra.ExactArgs(1),
	RunE:  runTop,
}

func init() {
	topCmd.Flags().StringVar(&topDataset, "dataset", "", "dataset hash prefix (default: latest)")
	topCmd.Flags().StringVar(&topMetric, "metric", "runs", "ranking metric: runs, sr, wickets, efficiency")
	topCmd.Flags().IntVarP(&topCount, "count", "n", 10, "number of players to show")
}

// metricKey maps a metric flag value to a ranking key.
func metricKey(metric string) (func(*model.PlayerPerformance) float64, error) {
	switch metric {
	case "runs":
		return aggregator.ByRuns, nil
	case "sr", "strike-rate":
		return aggregator.ByStrikeRate, nil
	case "wickets":
		return aggregator.ByWickets, nil
	case "efficiency", "eff":
		return aggregator.ByEfficiency, nil
	default:
		return nil, fmt.Errorf("unknown metric %q (want runs, sr, wickets or efficiency)", metric)
	}
}

func runTop(cmd *cobra.Command, args []string) error {
	season := args[0]

	key, err := metricKey(topMetric)
	if err != nil {
		return err
	}

	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	info, err := resolveDataset(db, topDataset)
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

	top := aggregator.TopN(rows, topCount, key)
	fmt.Fprintf(os.Stdout, "\nSeason %s — top %d by %s\n\n", season, len(top), topMetric)
	report.PrintTopTable(os.Stdout, top, topMetric)
	return nil
}
