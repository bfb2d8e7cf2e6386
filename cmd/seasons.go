package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"cricstats/internal/report"
	"cricstats/internal/storage"
)

var seasonsDataset string

var seasonsCmd = &cobra.Command{
	Use:   "seasons",
	Short: "List the seasons of the latest ingested dataset",
	Args:  cobra.NoArgs,
	RunE:  runSeasons,
}

func init() {
	seasonsCmd.Flags().StringVar(&seasonsDataset, "dataset", "", "dataset hash prefix (default: latest)")
}

func runSeasons(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	info, err := resolveDataset(db, seasonsDataset)
	if err != nil {
		return err
	}
	summaries, err := db.ListSeasons(info.Hash)
	if err != nil {
		return fmt.Errorf("list seasons: %w", err)
	}
	if len(summaries) == 0 {
		fmt.Fprintln(os.Stdout, "No seasons stored for this dataset.")
		return nil
	}
	report.PrintDatasetSummary(os.Stdout, *info)
	report.PrintSeasonTable(os.Stdout, summaries)
	return nil
}
