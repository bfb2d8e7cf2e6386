package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/spf13/cobra"

	"cricstats/internal/aggregator"
	"cricstats/internal/config"
	"cricstats/internal/model"
	"cricstats/internal/storage"
)

const analyzeSystemPrompt = `You are a T20 cricket performance analyst. You are given structured data
from a ball-by-ball aggregation tool and a question from the user.

Rules:
- Answer ONLY from the data provided. Never invent or estimate statistics.
- Always cite specific numbers when making a claim.
- If the data is insufficient to answer confidently, say so explicitly.
- Be concise and actionable.
- Avoid generic cricket advice unless it directly explains a pattern in the data.

Metrics glossary:
- Strike rate: runs per 100 balls faced. T20 context: >130 is brisk, <110 is slow.
- Innings: distinct matches in which the player faced at least one ball.
- Consistency index: mean of per-innings runs divided by their standard deviation.
  Higher = steadier scoring. 0 means fewer than two innings or no variation.
- Efficiency score: weighted blend of runs, strike rate, wickets and consistency.
  Only comparable within one weighting preset.
- Powerplay runs: runs scored in overs 1-6 (fielding restrictions).
- Death runs: runs scored in overs 16-20.
- Wickets: bowler-credited dismissals off the player's bowling.`

var (
	analyzeModel   string
	analyzeAPIKey  string
	analyzeDataset string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "AI-powered grounded analysis (requires ANTHROPIC_API_KEY)",
}

var analyzeSeasonCmd = &cobra.Command{
	Use:   "season <season> <question>",
	Short: "Analyze one season's performance table with AI",
	Args:  cobra.ExactArgs(2),
	RunE:  runAnalyzeSeason,
}

var analyzePlayerCmd = &cobra.Command{
	Use:   "player <name> <question>",
	Short: "Analyze a player's record across seasons with AI",
	Args:  cobra.ExactArgs(2),
	RunE:  runAnalyzePlayer,
}

func init() {
	analyzeCmd.PersistentFlags().StringVar(&analyzeModel, "model", "", "Anthropic model (default: analysis_model from config)")
	analyzeCmd.PersistentFlags().StringVar(&analyzeAPIKey, "api-key", "", "Anthropic API key (falls back to $ANTHROPIC_API_KEY, then anthropic_api_key from config)")
	analyzeCmd.PersistentFlags().StringVar(&analyzeDataset, "dataset", "", "dataset hash prefix (default: latest)")

	analyzeCmd.AddCommand(analyzeSeasonCmd)
	analyzeCmd.AddCommand(analyzePlayerCmd)
}

// resolveAnalysisOptions applies the flag > environment > config precedence
// for the API key, and flag > config for the model.
func resolveAnalysisOptions(flagKey, flagModel, envKey string, cfg *config.Global) (apiKey, modelID string) {
	apiKey = flagKey
	if apiKey == "" {
		apiKey = envKey
	}
	if apiKey == "" {
		apiKey = cfg.AnthropicAPIKey
	}
	modelID = flagModel
	if modelID == "" {
		modelID = cfg.AnalysisModel
	}
	return apiKey, modelID
}

func runAnalyzeSeason(cmd *cobra.Command, args []string) error {
	season, question := args[0], args[1]

	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	info, err := resolveDataset(db, analyzeDataset)
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

	contextJSON, err := buildSeasonContext(season, perf, splits)
	if err != nil {
		return fmt.Errorf("build context: %w", err)
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	apiKey, modelID := resolveAnalysisOptions(analyzeAPIKey, analyzeModel, os.Getenv("ANTHROPIC_API_KEY"), cfg)
	return callAnthropic(cmd.Context(), apiKey, modelID, contextJSON, question)
}

func runAnalyzePlayer(cmd *cobra.Command, args []string) error {
	name, question := args[0], args[1]

	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	info, err := resolveDataset(db, analyzeDataset)
	if err != nil {
		return err
	}
	rows, err := db.GetPlayerSeasons(info.Hash, name)
	if err != nil {
		return fmt.Errorf("query player: %w", err)
	}
	if len(rows) == 0 {
		return fmt.Errorf("no batting records for %q", name)
	}

	contextJSON, err := buildPlayerContext(name, rows)
	if err != nil {
		return fmt.Errorf("build context: %w", err)
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	apiKey, modelID := resolveAnalysisOptions(analyzeAPIKey, analyzeModel, os.Getenv("ANTHROPIC_API_KEY"), cfg)
	return callAnthropic(cmd.Context(), apiKey, modelID, contextJSON, question)
}

// perfEntry is the compact JSON shape sent to the model per performance row.
type perfEntry struct {
	Player      string  `json:"player,omitempty"`
	Season      string  `json:"season,omitempty"`
	Runs        int     `json:"runs"`
	Balls       int     `json:"balls"`
	Fours       int     `json:"fours"`
	Sixes       int     `json:"sixes"`
	Innings     int     `json:"innings"`
	Wickets     int     `json:"wickets"`
	StrikeRate  float64 `json:"strike_rate"`
	Consistency float64 `json:"consistency_index"`
	Efficiency  float64 `json:"efficiency_score"`
}

// buildSeasonContext serialises one season's tables into compact JSON.
// Only the top 25 performance rows are sent to keep the prompt small.
func buildSeasonContext(season string, perf []model.PlayerPerformance, splits []model.PhaseSplit) (string, error) {
	top := aggregator.TopN(perf, 25, aggregator.ByEfficiency)
	entries := make([]perfEntry, 0, len(top))
	for _, p := range top {
		entries = append(entries, perfEntry{
			Player: p.Player, Runs: p.TotalRuns, Balls: p.BallsFaced,
			Fours: p.Fours, Sixes: p.Sixes, Innings: p.Innings, Wickets: p.Wickets,
			StrikeRate: p.StrikeRate, Consistency: p.ConsistencyIndex, Efficiency: p.EfficiencyScore,
		})
	}

	type splitEntry struct {
		Player    string `json:"player"`
		Powerplay int    `json:"powerplay_runs"`
		Death     int    `json:"death_runs"`
	}
	topSplits := splits
	if len(topSplits) > 25 {
		topSplits = topSplits[:25]
	}
	splitEntries := make([]splitEntry, 0, len(topSplits))
	for _, s := range topSplits {
		splitEntries = append(splitEntries, splitEntry{Player: s.Player, Powerplay: s.PowerplayRuns, Death: s.DeathRuns})
	}

	doc := map[string]interface{}{
		"subject":        "season",
		"season":         season,
		"players_total":  len(perf),
		"top_by_eff":     entries,
		"phase_splits":   splitEntries,
		"note_truncated": len(perf) > 25,
	}
	b, err := json.Marshal(doc)
	return string(b), err
}

// buildPlayerContext serialises one player's per-season rows into compact JSON.
func buildPlayerContext(name string, rows []model.PlayerPerformance) (string, error) {
	entries := make([]perfEntry, 0, len(rows))
	for _, p := range rows {
		entries = append(entries, perfEntry{
			Season: p.Season, Runs: p.TotalRuns, Balls: p.BallsFaced,
			Fours: p.Fours, Sixes: p.Sixes, Innings: p.Innings, Wickets: p.Wickets,
			StrikeRate: p.StrikeRate, Consistency: p.ConsistencyIndex, Efficiency: p.EfficiencyScore,
		})
	}
	doc := map[string]interface{}{
		"subject": "player",
		"player":  name,
		"seasons": entries,
	}
	b, err := json.Marshal(doc)
	return string(b), err
}

// callAnthropic streams a response from the Anthropic API and prints it to
// stdout. The API key and model must already be resolved.
func callAnthropic(ctx context.Context, apiKey, modelID, dataJSON, question string) error {
	if apiKey == "" {
		return fmt.Errorf("no API key: set ANTHROPIC_API_KEY, use --api-key, or set anthropic_api_key in the config")
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))

	userMsg := fmt.Sprintf("DATA:\n%s\n\nQUESTION: %s", dataJSON, question)

	fmt.Fprintln(os.Stdout, "\n─── AI Analysis ─────────────────────────────────────")

	stream := client.Messages.NewStreaming(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(modelID),
		MaxTokens: 1024,
		System: []anthropic.TextBlockParam{
			{Text: analyzeSystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userMsg)),
		},
	})

	for stream.Next() {
		evt := stream.Current()
		if evt.Type == "content_block_delta" {
			delta := evt.AsContentBlockDelta()
			if delta.Delta.Type == "text_delta" {
				fmt.Fprint(os.Stdout, delta.Delta.AsTextDelta().Text)
			}
		}
	}
	fmt.Fprintln(os.Stdout, "\n─────────────────────────────────────────────────────")

	if err := stream.Err(); err != nil {
		errStr := err.Error()
		if strings.Contains(errStr, "401") || strings.Contains(errStr, "authentication") {
			return fmt.Errorf("API authentication failed — check your API key")
		}
		return fmt.Errorf("streaming error: %w", err)
	}
	return nil
}
