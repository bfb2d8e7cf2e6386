package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"cricstats/internal/report"
	"cricstats/internal/storage"
)

var sqlCmd = &cobra.Command{
	Use:   "sql <query>",
	Short: "Run a raw SQL query against the stats database",
	Long: `Run an arbitrary SQL query against the stats database and print results as a table.

Schema overview:
  datasets(hash, matches_path, deliveries_path, ingested_at, season_count, match_count, delivery_count)
  player_performance(dataset_hash, season, player, total_runs, balls_faced, fours, sixes,
    innings, wickets, strike_rate, consistency_index, efficiency_score)
  phase_splits(dataset_hash, season, player, powerplay_runs, death_runs)
  season_summaries(dataset_hash, season, match_count, player_count, total_runs, wickets, delivery_count)

Note: season is stored as TEXT. Use quotes: WHERE season = '2016'`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSQL,
}

func runSQL(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	cols, rows, err := db.RawQuery(query)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Println("(no rows)")
		return nil
	}
	report.PrintRawRows(os.Stdout, cols, rows)
	return nil
}
