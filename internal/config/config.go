package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"cricstats/internal/model"
)

// Global configuration structure.
type Global struct {
	// Efficiency weight preset: "classic", "balanced", or "custom".
	// With "custom", the four weight_* fields below are used verbatim.
	WeightPreset string `mapstructure:"weight_preset" yaml:"weight_preset"`

	WeightRuns        float64 `mapstructure:"weight_runs" yaml:"weight_runs"`
	WeightStrikeRate  float64 `mapstructure:"weight_strike_rate" yaml:"weight_strike_rate"`
	WeightWickets     float64 `mapstructure:"weight_wickets" yaml:"weight_wickets"`
	WeightConsistency float64 `mapstructure:"weight_consistency" yaml:"weight_consistency"`

	// Default dataset download URLs for the fetch command.
	MatchesURL    string `mapstructure:"matches_url" yaml:"matches_url"`
	DeliveriesURL string `mapstructure:"deliveries_url" yaml:"deliveries_url"`

	HTTPTimeoutSec int `mapstructure:"http_timeout_sec" yaml:"http_timeout_sec"`

	// AI analysis
	AnthropicAPIKey string `mapstructure:"anthropic_api_key" yaml:"anthropic_api_key"`
	AnalysisModel   string `mapstructure:"analysis_model" yaml:"analysis_model"`
}

// ResolveWeights maps the configured preset to a weight vector.
func (c *Global) ResolveWeights() (model.Weights, error) {
	switch c.WeightPreset {
	case "", "balanced":
		return model.WeightsBalanced, nil
	case "classic":
		return model.WeightsClassic, nil
	case "custom":
		return model.Weights{
			Runs:        c.WeightRuns,
			StrikeRate:  c.WeightStrikeRate,
			Wickets:     c.WeightWickets,
			Consistency: c.WeightConsistency,
		}, nil
	default:
		return model.Weights{}, fmt.Errorf("unknown weight preset %q (want classic, balanced or custom)", c.WeightPreset)
	}
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.cricstats/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".cricstats")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("CRICSTATS")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("weight_preset", "balanced")
	v.SetDefault("weight_runs", model.WeightsBalanced.Runs)
	v.SetDefault("weight_strike_rate", model.WeightsBalanced.StrikeRate)
	v.SetDefault("weight_wickets", model.WeightsBalanced.Wickets)
	v.SetDefault("weight_consistency", model.WeightsBalanced.Consistency)
	v.SetDefault("http_timeout_sec", 120)
	v.SetDefault("analysis_model", "claude-sonnet-4-20250514")

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".cricstats")
		_ = os.MkdirAll(dir, 0o755)
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}
