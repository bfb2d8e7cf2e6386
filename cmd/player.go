package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"cricstats/internal/report"
	"cricstats/internal/storage"
)

var playerDataset string

var playerCmd = &cobra.Command{
	Use:   "player <name>",
	Short: "Show one player's performance across all seasons",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlayer,
}

func init() {
	playerCmd.Flags().StringVar(&playerDataset, "dataset", "", "dataset hash prefix (default: latest)")
}

func runPlayer(cmd *cobra.Command, args []string) error {
	name := args[0]

	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	info, err := resolveDataset(db, playerDataset)
	if err != nil {
		return err
	}
	rows, err := db.GetPlayerSeasons(info.Hash, name)
	if err != nil {
		return fmt.Errorf("query player: %w", err)
	}
	if len(rows) == 0 {
		return fmt.Errorf("no batting records for %q — names must match the source data exactly", name)
	}

	fmt.Fprintf(os.Stdout, "\n%s — %d season(s)\n\n", name, len(rows))
	report.PrintPlayerSeasonsTable(os.Stdout, rows)
	return nil
}
