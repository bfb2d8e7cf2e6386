package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"cricstats/internal/report"
	"cricstats/internal/storage"
)

var (
	splitDataset string
	splitCount   int
)

var splitCmd = &cobra.Command{
	Use:   "split <season>",
	Short: "Show powerplay vs death-overs run splits for a season",
	Long:  "Per-player run totals in the powerplay (overs 1-6) and the death overs (16-20). Middle overs are excluded.",
	Args:  cobra.ExactArgs(1),
	RunE:  runSplit,
}

func init() {
	splitCmd.Flags().StringVar(&splitDataset, "dataset", "", "dataset hash prefix (default: latest)")
	splitCmd.Flags().IntVarP(&splitCount, "count", "n", 0, "limit to the top N rows (0 = all)")
}

func runSplit(cmd *cobra.Command, args []string) error {
	season := args[0]

	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	info, err := resolveDataset(db, splitDataset)
	if err != nil {
		return err
	}
	rows, err := db.GetPhaseSplits(info.Hash, season)
	if err != nil {
		return fmt.Errorf("query phase splits: %w", err)
	}
	if len(rows) == 0 {
		fmt.Fprintf(os.Stdout, "No data for season %q.\n", season)
		return nil
	}
	if splitCount > 0 && splitCount < len(rows) {
		rows = rows[:splitCount]
	}

	fmt.Fprintf(os.Stdout, "\nSeason %s — powerplay/death split\n\n", season)
	report.PrintPhaseSplitTable(os.Stdout, rows)
	return nil
}
