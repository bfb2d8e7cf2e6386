package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"cricstats/internal/aggregator"
	"cricstats/internal/loader"
	"cricstats/internal/model"
	"cricstats/internal/report"
	"cricstats/internal/storage"
)

var ingestForce bool

var ingestCmd = &cobra.Command{
	Use:   "ingest <matches.csv> <deliveries.csv>",
	Short: "Ingest a ball-by-ball dataset and store per-season metrics",
	Args:  cobra.ExactArgs(2),
	RunE:  runIngest,
}

func init() {
	ingestCmd.Flags().BoolVar(&ingestForce, "force", false, "recompute even if this dataset is already stored")
}

func runIngest(cmd *cobra.Command, args []string) error {
	matchesPath, deliveriesPath := args[0], args[1]

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return fmt.Errorf("create db dir: %w", err)
	}

	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	fmt.Fprintf(os.Stdout, "Loading %s + %s...\n", matchesPath, deliveriesPath)
	ds, err := loader.Load(matchesPath, deliveriesPath)
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}

	exists, err := db.DatasetExists(ds.Hash)
	if err != nil {
		return fmt.Errorf("check dataset: %w", err)
	}
	if exists && !ingestForce {
		fmt.Fprintf(os.Stdout, "Dataset %s already stored — showing cached results.\n", ds.Hash[:12])
		return showSeasons(db, ds.Hash)
	}

	weights, err := loadWeights()
	if err != nil {
		return err
	}

	seasons := ds.Seasons()
	var allPerf []model.PlayerPerformance
	var allSplits []model.PhaseSplit
	summaries := make([]model.SeasonSummary, 0, len(seasons))

	for _, season := range seasons {
		deliveries := aggregator.FilterSeason(ds, season)
		perf := aggregator.ComputeSeason(ds, season, weights)
		splits := aggregator.OversSplit(season, deliveries)
		summaries = append(summaries, aggregator.Summarize(season, ds, deliveries, perf))
		allPerf = append(allPerf, perf...)
		allSplits = append(allSplits, splits...)
	}

	info := model.DatasetInfo{
		Hash:           ds.Hash,
		MatchesPath:    matchesPath,
		DeliveriesPath: deliveriesPath,
		IngestedAt:     time.Now().UTC().Format(time.RFC3339),
		SeasonCount:    len(seasons),
		MatchCount:     len(ds.Matches),
		DeliveryCount:  len(ds.Deliveries),
	}

	if err := db.InsertDataset(info); err != nil {
		return fmt.Errorf("insert dataset: %w", err)
	}
	if err := db.InsertPlayerPerformance(ds.Hash, allPerf); err != nil {
		return fmt.Errorf("insert performance: %w", err)
	}
	if err := db.InsertPhaseSplits(ds.Hash, allSplits); err != nil {
		return fmt.Errorf("insert phase splits: %w", err)
	}
	if err := db.InsertSeasonSummaries(ds.Hash, summaries); err != nil {
		return fmt.Errorf("insert season summaries: %w", err)
	}

	report.PrintDatasetSummary(os.Stdout, info)
	report.PrintSeasonTable(os.Stdout, summaries)
	return nil
}

func showSeasons(db *storage.DB, hash string) error {
	info, err := db.GetDatasetByPrefix(hash)
	if err != nil || info == nil {
		return fmt.Errorf("dataset not found: %s", hash)
	}
	summaries, err := db.ListSeasons(info.Hash)
	if err != nil {
		return fmt.Errorf("list seasons: %w", err)
	}
	report.PrintDatasetSummary(os.Stdout, *info)
	report.PrintSeasonTable(os.Stdout, summaries)
	return nil
}
