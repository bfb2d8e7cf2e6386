package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"cricstats/internal/aggregator"
	"cricstats/internal/model"
	"cricstats/internal/storage"
)

var (
	exportDataset string
	exportOut     string
)

// seasonExport is the JSON document produced by the export command.
type seasonExport struct {
	Dataset     string                    `json:"dataset"`
	Season      string                    `json:"season"`
	GeneratedAt string                    `json:"generated_at"`
	Performance []model.PlayerPerformance `json:"performance"`
	PhaseSplits []model.PhaseSplit        `json:"phase_splits"`
	BestXI      model.BestXI              `json:"best_xi"`
}

var exportCmd = &cobra.Command{
	Use:   "export <season>",
	Short: "Export one season's tables as JSON",
	Long: `Writes the full performance table, the powerplay/death split and the
best-XI shortlist for one season as a single JSON document.

Example:
  cricstats export 2016 --out 2016.json`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportDataset, "dataset", "", "dataset hash prefix (default: latest)")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output file path (default: stdout)")
}

func runExport(cmd *cobra.Command, args []string) error {
	season := args[0]

	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	info, err := resolveDataset(db, exportDataset)
	if err != nil {
		return err
	}
	perf, err := db.GetSeasonPerformance(info.Hash, season)
	if err != nil {
		return fmt.Errorf("query performance: %w", err)
	}
	if len(perf) == 0 {
		return fmt.Errorf("no data for season %q", season)
	}
	splits, err := db.GetPhaseSplits(info.Hash, season)
	if err != nil {
		return fmt.Errorf("query phase splits: %w", err)
	}

	out := seasonExport{
		Dataset:     info.Hash,
		Season:      season,
		GeneratedAt: info.IngestedAt,
		Performance: perf,
		PhaseSplits: splits,
		BestXI:      aggregator.BestXI(perf),
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}

	if exportOut == "" {
		fmt.Println(string(data))
		return nil
	}
	if err := os.WriteFile(exportOut, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write %s: %w", exportOut, err)
	}
	fmt.Fprintf(os.Stderr, "Wrote %s\n", exportOut)
	return nil
}
