package model

import "sort"

// ---- Raw rows produced by the loader ----

// Match is one game from the matches table. Reference data, loaded once.
type Match struct {
	ID     int
	Season string
}

// Delivery is one ball from the ball-by-ball table, already normalized to
// canonical column names by the loader.
type Delivery struct {
	MatchID  int
	Over     int // 1-indexed, typically 1–20
	Batter   string
	Bowler   string
	Runs     int // runs off the bat on this ball
	IsWicket bool
}

// Dataset holds both source tables for the lifetime of the process.
// It is immutable after Load and safe to share read-only.
type Dataset struct {
	Hash           string // sha256 over both input files
	MatchesPath    string
	DeliveriesPath string
	Matches        []Match
	Deliveries     []Delivery
}

// Seasons returns the distinct season labels present in the match table,
// sorted ascending.
func (d *Dataset) Seasons() []string {
	seen := make(map[string]struct{})
	for _, m := range d.Matches {
		seen[m.Season] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// ---- Efficiency weights ----

// Weights is the efficiency-score weight vector:
//
//	efficiency = Runs*total_runs + StrikeRate*strike_rate + Wickets*wickets + Consistency*consistency_index
//
// The vector is configuration, not a constant — two incompatible presets
// exist in observed usage.
type Weights struct {
	Runs        float64
	StrikeRate  float64
	Wickets     float64
	Consistency float64
}

var (
	// WeightsClassic is the original three-term preset (no consistency term).
	WeightsClassic = Weights{Runs: 0.45, StrikeRate: 0.35, Wickets: 0.20}
	// WeightsBalanced adds the consistency-index term.
	WeightsBalanced = Weights{Runs: 0.40, StrikeRate: 0.30, Wickets: 0.20, Consistency: 0.10}
)

// ---- Aggregated tables ----

// BattingStats is the per-player batting aggregate for one season slice.
type BattingStats struct {
	Player     string
	TotalRuns  int
	BallsFaced int
	Fours      int
	Sixes      int
	Innings    int // distinct matches batted in
}

// StrikeRate is runs per 100 balls. 0 when no balls were faced.
func (b *BattingStats) StrikeRate() float64 {
	if b.BallsFaced == 0 {
		return 0
	}
	return float64(b.TotalRuns) / float64(b.BallsFaced) * 100
}

// BowlingStats is the per-player wicket count. Players with zero wickets are
// absent from this table by construction.
type BowlingStats struct {
	Player  string
	Wickets int
}

// ConsistencyStats holds the mean/stddev of per-innings runs for one player.
// Index is mean/stddev, forced to 0 when the stddev is 0 or undefined
// (fewer than two innings).
type ConsistencyStats struct {
	Player     string
	Innings    int
	MeanRuns   float64
	StdDevRuns float64
	Index      float64
}

// PlayerPerformance is one row of the merged per-season performance table.
// The merge is batting-anchored: every player who faced at least one ball in
// the season has a row; bowling-only players do not.
type PlayerPerformance struct {
	Season string
	Player string

	TotalRuns  int
	BallsFaced int
	Fours      int
	Sixes      int
	Innings    int
	Wickets    int // 0 when the player took no wickets

	StrikeRate       float64
	ConsistencyIndex float64
	EfficiencyScore  float64
}

// PhaseSplit is per-player run totals in the powerplay (overs 1–6) and the
// death overs (16–20). Overs 7–15 are in neither side.
type PhaseSplit struct {
	Season        string
	Player        string
	PowerplayRuns int
	DeathRuns     int
}

// BestXI is the notional team shortlist: six batsmen by runs (strike rate as
// tie-break) and five bowlers by wickets.
type BestXI struct {
	Batsmen []PlayerPerformance
	Bowlers []PlayerPerformance
}

// SeasonSummary is a lightweight record for the seasons listing.
type SeasonSummary struct {
	Season     string
	Matches    int
	Players    int // players with a performance row (batters)
	TotalRuns  int
	Wickets    int
	Deliveries int
}

// DatasetInfo describes one ingested dataset as stored.
type DatasetInfo struct {
	Hash           string
	MatchesPath    string
	DeliveriesPath string
	IngestedAt     string
	SeasonCount    int
	MatchCount     int
	DeliveryCount  int
}

// Overview holds database-wide aggregates for the summary command.
type Overview struct {
	Datasets    int
	Seasons     int
	Players     int
	TotalRuns   int
	Wickets     int
	Deliveries  int
	FirstSeason string
	LastSeason  string
}
