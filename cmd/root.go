package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"cricstats/internal/config"
	"cricstats/internal/model"
	"cricstats/internal/storage"
)

var (
	dbPath  string
	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "cricstats",
	Short: "Ball-by-ball cricket performance tool",
	Long:  "Ingest ball-by-ball CSV datasets and compute per-season player performance metrics.",
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	defaultDB := filepath.Join(mustUserHome(), ".cricstats", "stats.db")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", defaultDB, "path to SQLite database")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to config file (default ~/.cricstats/config.yaml)")

	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(seasonsCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(topCmd)
	rootCmd.AddCommand(splitCmd)
	rootCmd.AddCommand(bestXICmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(playerCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(shellCmd)
	rootCmd.AddCommand(sqlCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(dropCmd)
}

func mustUserHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}

// loadConfig reads the global config, honoring the --config flag.
func loadConfig() (*config.Global, error) {
	return config.Load(cfgFile)
}

// loadWeights resolves the configured efficiency weight vector.
func loadWeights() (model.Weights, error) {
	cfg, err := loadConfig()
	if err != nil {
		return model.Weights{}, err
	}
	return cfg.ResolveWeights()
}

// resolveDataset returns the dataset to operate on: the one matching hashPrefix
// when given, otherwise the most recently ingested one.
func resolveDataset(db *storage.DB, hashPrefix string) (*model.DatasetInfo, error) {
	latest, err := db.LatestDataset()
	if err != nil {
		return nil, fmt.Errorf("query datasets: %w", err)
	}
	if latest == nil {
		return nil, fmt.Errorf("no datasets ingested yet — run 'cricstats ingest <matches.csv> <deliveries.csv>' first")
	}
	if hashPrefix == "" {
		return latest, nil
	}
	info, err := db.GetDatasetByPrefix(hashPrefix)
	if err != nil {
		return nil, fmt.Errorf("query dataset: %w", err)
	}
	if info == nil {
		return nil, fmt.Errorf("no dataset found with hash prefix %q", hashPrefix)
	}
	return info, nil
}
