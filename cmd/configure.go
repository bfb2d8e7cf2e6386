package cmd

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	cfgpkg "cricstats/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set cricstats configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the resolved configuration to disk",
	Long:  "Writes the effective configuration (defaults merged with environment and any existing file) to ~/.cricstats/config.yaml, or to --config when set. Edit the file to change weight presets, dataset URLs or the AI analysis settings.",
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		fmt.Printf("weight_preset: %s\n", cfg.WeightPreset)
		fmt.Printf("weight_runs: %.2f\n", cfg.WeightRuns)
		fmt.Printf("weight_strike_rate: %.2f\n", cfg.WeightStrikeRate)
		fmt.Printf("weight_wickets: %.2f\n", cfg.WeightWickets)
		fmt.Printf("weight_consistency: %.2f\n", cfg.WeightConsistency)
		if cfg.MatchesURL != "" {
			fmt.Printf("matches_url: %s\n", cfg.MatchesURL)
		}
		if cfg.DeliveriesURL != "" {
			fmt.Printf("deliveries_url: %s\n", cfg.DeliveriesURL)
		}
		fmt.Printf("http_timeout_sec: %d\n", cfg.HTTPTimeoutSec)
		fmt.Printf("anthropic_api_key: %s\n", mask(cfg.AnthropicAPIKey))
		fmt.Printf("analysis_model: %s\n", cfg.AnalysisModel)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		switch key {
		case "weight_preset":
			cfg.WeightPreset = val
			if _, err := cfg.ResolveWeights(); err != nil {
				return err
			}
		case "weight_runs", "weight_strike_rate", "weight_wickets", "weight_consistency":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil || f < 0 {
				return fmt.Errorf("invalid weight for %s: %v", key, val)
			}
			switch key {
			case "weight_runs":
				cfg.WeightRuns = f
			case "weight_strike_rate":
				cfg.WeightStrikeRate = f
			case "weight_wickets":
				cfg.WeightWickets = f
			case "weight_consistency":
				cfg.WeightConsistency = f
			}
		case "matches_url":
			cfg.MatchesURL = val
		case "deliveries_url":
			cfg.DeliveriesURL = val
		case "http_timeout_sec":
			i, err := strconv.Atoi(val)
			if err != nil || i <= 0 {
				return fmt.Errorf("invalid int for http_timeout_sec: %v", val)
			}
			cfg.HTTPTimeoutSec = i
		case "anthropic_api_key":
			cfg.AnthropicAPIKey = val
		case "analysis_model":
			cfg.AnalysisModel = val
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Println("Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfgpkg.Save(cfg, cfgFile); err != nil {
		return err
	}
	path := cfgFile
	if path == "" {
		path = filepath.Join(mustUserHome(), ".cricstats", "config.yaml")
	}
	fmt.Printf("Wrote %s\n", path)
	return nil
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 6 {
		return "******"
	}
	return s[:3] + "****" + s[len(s)-3:]
}
