// Package aggregator turns normalized match and delivery rows into the
// per-season player performance table and its auxiliary breakdowns. Every
// function is pure and recomputes from scratch; nothing here touches storage
// or carries state between calls.
package aggregator

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"cricstats/internal/model"
)

// ErrPlayerNotFound is returned by Compare for a player with no performance
// row. Callers are expected to pre-validate against the known player list.
var ErrPlayerNotFound = errors.New("player not found")

// Powerplay and death-over boundaries. Overs 7–15 belong to neither phase.
const (
	powerplayLastOver = 6
	deathFirstOver    = 16
)

// FilterSeason returns the deliveries belonging to matches of the given
// season. An unknown season yields an empty slice, not an error; deliveries
// referencing unknown match ids are silently dropped.
func FilterSeason(ds *model.Dataset, season string) []model.Delivery {
	ids := make(map[int]struct{})
	for _, m := range ds.Matches {
		if m.Season == season {
			ids[m.ID] = struct{}{}
		}
	}
	var out []model.Delivery
	for _, d := range ds.Deliveries {
		if _, ok := ids[d.MatchID]; ok {
			out = append(out, d)
		}
	}
	return out
}

// ComputeBatting groups deliveries by batter: total runs, balls faced,
// boundary counts, and innings (distinct matches batted in). Rows are sorted
// by total runs descending, name ascending on ties.
func ComputeBatting(deliveries []model.Delivery) []model.BattingStats {
	acc := make(map[string]*model.BattingStats)
	matchesSeen := make(map[string]map[int]struct{})

	for _, d := range deliveries {
		b := acc[d.Batter]
		if b == nil {
			b = &model.BattingStats{Player: d.Batter}
			acc[d.Batter] = b
			matchesSeen[d.Batter] = make(map[int]struct{})
		}
		b.TotalRuns += d.Runs
		b.BallsFaced++
		switch d.Runs {
		case 4:
			b.Fours++
		case 6:
			b.Sixes++
		}
		matchesSeen[d.Batter][d.MatchID] = struct{}{}
	}

	out := make([]model.BattingStats, 0, len(acc))
	for player, b := range acc {
		b.Innings = len(matchesSeen[player])
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalRuns != out[j].TotalRuns {
			return out[i].TotalRuns > out[j].TotalRuns
		}
		return out[i].Player < out[j].Player
	})
	return out
}

// ComputeBowling counts wicket-taking balls per bowler. Bowlers with no
// wickets are absent by construction.
func ComputeBowling(deliveries []model.Delivery) []model.BowlingStats {
	acc := make(map[string]int)
	for _, d := range deliveries {
		if d.IsWicket {
			acc[d.Bowler]++
		}
	}
	out := make([]model.BowlingStats, 0, len(acc))
	for player, w := range acc {
		out = append(out, model.BowlingStats{Player: player, Wickets: w})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Wickets != out[j].Wickets {
			return out[i].Wickets > out[j].Wickets
		}
		return out[i].Player < out[j].Player
	})
	return out
}

// ComputeConsistency groups runs per (batter, match) to get per-innings
// totals, then takes mean over sample standard deviation per batter. The
// index is forced to 0 when the stddev is 0, undefined, or the player has a
// single innings.
func ComputeConsistency(deliveries []model.Delivery) []model.ConsistencyStats {
	perInnings := make(map[string]map[int]int)
	for _, d := range deliveries {
		if perInnings[d.Batter] == nil {
			perInnings[d.Batter] = make(map[int]int)
		}
		perInnings[d.Batter][d.MatchID] += d.Runs
	}

	out := make([]model.ConsistencyStats, 0, len(perInnings))
	for player, innings := range perInnings {
		runs := make([]float64, 0, len(innings))
		for _, r := range innings {
			runs = append(runs, float64(r))
		}
		c := model.ConsistencyStats{
			Player:   player,
			Innings:  len(runs),
			MeanRuns: mean(runs),
		}
		if len(runs) >= 2 {
			c.StdDevRuns = sampleStdDev(runs, c.MeanRuns)
			c.Index = safeRatio(c.MeanRuns, c.StdDevRuns)
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Player < out[j].Player })
	return out
}

// MergePerformance left-joins batting with bowling and consistency on the
// player name. Batting-anchored: every batting row survives, with wickets
// and consistency defaulting to 0 when absent.
func MergePerformance(season string, batting []model.BattingStats, bowling []model.BowlingStats, consistency []model.ConsistencyStats) []model.PlayerPerformance {
	wickets := make(map[string]int, len(bowling))
	for _, b := range bowling {
		wickets[b.Player] = b.Wickets
	}
	index := make(map[string]float64, len(consistency))
	for _, c := range consistency {
		index[c.Player] = c.Index
	}

	out := make([]model.PlayerPerformance, 0, len(batting))
	for i := range batting {
		b := &batting[i]
		out = append(out, model.PlayerPerformance{
			Season:           season,
			Player:           b.Player,
			TotalRuns:        b.TotalRuns,
			BallsFaced:       b.BallsFaced,
			Fours:            b.Fours,
			Sixes:            b.Sixes,
			Innings:          b.Innings,
			Wickets:          wickets[b.Player],
			StrikeRate:       b.StrikeRate(),
			ConsistencyIndex: index[b.Player],
		})
	}
	return out
}

// ApplyEfficiency computes the weighted efficiency score in place.
func ApplyEfficiency(rows []model.PlayerPerformance, w model.Weights) {
	for i := range rows {
		r := &rows[i]
		r.EfficiencyScore = w.Runs*float64(r.TotalRuns) +
			w.StrikeRate*r.StrikeRate +
			w.Wickets*float64(r.Wickets) +
			w.Consistency*r.ConsistencyIndex
	}
}

// ComputeSeason runs the full pipeline for one season: filter, group, merge,
// score. An unknown season yields an empty table.
func ComputeSeason(ds *model.Dataset, season string, w model.Weights) []model.PlayerPerformance {
	deliveries := FilterSeason(ds, season)
	perf := MergePerformance(season,
		ComputeBatting(deliveries),
		ComputeBowling(deliveries),
		ComputeConsistency(deliveries),
	)
	ApplyEfficiency(perf, w)
	return perf
}

// OversSplit sums runs per batter in the powerplay (overs 1–6) and death
// overs (16–20) independently, outer-joined on the player with the missing
// side filled to 0. Mid-innings overs appear in neither side. Rows are
// sorted by combined runs descending, name ascending on ties.
func OversSplit(season string, deliveries []model.Delivery) []model.PhaseSplit {
	pp := make(map[string]int)
	death := make(map[string]int)
	for _, d := range deliveries {
		switch {
		case d.Over <= powerplayLastOver:
			pp[d.Batter] += d.Runs
		case d.Over >= deathFirstOver:
			death[d.Batter] += d.Runs
		}
	}

	players := make(map[string]struct{}, len(pp)+len(death))
	for p := range pp {
		players[p] = struct{}{}
	}
	for p := range death {
		players[p] = struct{}{}
	}

	out := make([]model.PhaseSplit, 0, len(players))
	for p := range players {
		out = append(out, model.PhaseSplit{
			Season:        season,
			Player:        p,
			PowerplayRuns: pp[p],
			DeathRuns:     death[p],
		})
	}
	sort.Slice(out, func(i, j int) bool {
		ti := out[i].PowerplayRuns + out[i].DeathRuns
		tj := out[j].PowerplayRuns + out[j].DeathRuns
		if ti != tj {
			return ti > tj
		}
		return out[i].Player < out[j].Player
	})
	return out
}

// TopN returns the first n rows sorted non-increasing by key. The sort is
// stable, so ties beyond the key keep their input order. Output length is
// min(n, len(rows)); the input is not modified.
func TopN(rows []model.PlayerPerformance, n int, key func(*model.PlayerPerformance) float64) []model.PlayerPerformance {
	out := make([]model.PlayerPerformance, len(rows))
	copy(out, rows)
	sort.SliceStable(out, func(i, j int) bool {
		return key(&out[i]) > key(&out[j])
	})
	if n < len(out) {
		out = out[:n]
	}
	return out
}

// Sort keys for TopN.
func ByRuns(p *model.PlayerPerformance) float64       { return float64(p.TotalRuns) }
func ByStrikeRate(p *model.PlayerPerformance) float64 { return p.StrikeRate }
func ByWickets(p *model.PlayerPerformance) float64    { return float64(p.Wickets) }
func ByEfficiency(p *model.PlayerPerformance) float64 { return p.EfficiencyScore }

// BestXI picks six batsmen by total runs (strike rate breaking ties) and
// five bowlers by wickets. Players without a wicket never make the bowler
// shortlist, so it may hold fewer than five rows.
func BestXI(rows []model.PlayerPerformance) model.BestXI {
	batsmen := make([]model.PlayerPerformance, len(rows))
	copy(batsmen, rows)
	sort.SliceStable(batsmen, func(i, j int) bool {
		if batsmen[i].TotalRuns != batsmen[j].TotalRuns {
			return batsmen[i].TotalRuns > batsmen[j].TotalRuns
		}
		return batsmen[i].StrikeRate > batsmen[j].StrikeRate
	})
	if len(batsmen) > 6 {
		batsmen = batsmen[:6]
	}

	var bowlers []model.PlayerPerformance
	for _, r := range rows {
		if r.Wickets > 0 {
			bowlers = append(bowlers, r)
		}
	}
	sort.SliceStable(bowlers, func(i, j int) bool {
		return bowlers[i].Wickets > bowlers[j].Wickets
	})
	if len(bowlers) > 5 {
		bowlers = bowlers[:5]
	}

	return model.BestXI{Batsmen: batsmen, Bowlers: bowlers}
}

// Compare returns the performance rows for two named players. Either name
// missing from the table is an ErrPlayerNotFound — reachable only when the
// caller did not pre-populate its choices from the player list.
func Compare(rows []model.PlayerPerformance, playerA, playerB string) (a, b *model.PlayerPerformance, err error) {
	// Matched independently: both names may resolve to the same row.
	for i := range rows {
		if rows[i].Player == playerA {
			a = &rows[i]
		}
		if rows[i].Player == playerB {
			b = &rows[i]
		}
	}
	if a == nil {
		return nil, nil, fmt.Errorf("%w: %q", ErrPlayerNotFound, playerA)
	}
	if b == nil {
		return nil, nil, fmt.Errorf("%w: %q", ErrPlayerNotFound, playerB)
	}
	return a, b, nil
}

// Summarize condenses one season's deliveries and performance table into a
// SeasonSummary row.
func Summarize(season string, ds *model.Dataset, deliveries []model.Delivery, perf []model.PlayerPerformance) model.SeasonSummary {
	s := model.SeasonSummary{
		Season:     season,
		Players:    len(perf),
		Deliveries: len(deliveries),
	}
	for _, m := range ds.Matches {
		if m.Season == season {
			s.Matches++
		}
	}
	for _, d := range deliveries {
		s.TotalRuns += d.Runs
		if d.IsWicket {
			s.Wickets++
		}
	}
	return s
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// sampleStdDev is the n-1 standard deviation. Callers guard len >= 2.
func sampleStdDev(xs []float64, mu float64) float64 {
	var ss float64
	for _, x := range xs {
		d := x - mu
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(xs)-1))
}

// safeRatio divides num by den, mapping the undefined cases (zero, NaN, or
// infinite denominator or result) to 0 so ratios never leak NaN/∞ into
// output tables.
func safeRatio(num, den float64) float64 {
	if den == 0 || math.IsNaN(den) || math.IsInf(den, 0) {
		return 0
	}
	r := num / den
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}
	return r
}
