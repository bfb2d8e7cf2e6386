package aggregator

import (
	"errors"
	"math"
	"testing"

	"cricstats/internal/model"
)

// ball is shorthand for building delivery fixtures.
func ball(matchID, over int, batter, bowler string, runs int, wicket bool) model.Delivery {
	return model.Delivery{MatchID: matchID, Over: over, Batter: batter, Bowler: bowler, Runs: runs, IsWicket: wicket}
}

// makeDataset wraps matches and deliveries into a Dataset.
func makeDataset(matches []model.Match, deliveries []model.Delivery) *model.Dataset {
	return &model.Dataset{Hash: "testhash", Matches: matches, Deliveries: deliveries}
}

// singleInningsFixture: match 1 in season 2020, player A faces five balls
// with runs [4,1,0,6,1], no wickets.
func singleInningsFixture() *model.Dataset {
	runs := []int{4, 1, 0, 6, 1}
	var dels []model.Delivery
	for i, r := range runs {
		dels = append(dels, ball(1, i+1, "A", "X", r, false))
	}
	return makeDataset([]model.Match{{ID: 1, Season: "2020"}}, dels)
}

func findPerf(t *testing.T, rows []model.PlayerPerformance, player string) *model.PlayerPerformance {
	t.Helper()
	for i := range rows {
		if rows[i].Player == player {
			return &rows[i]
		}
	}
	t.Fatalf("player %q not found in performance table", player)
	return nil
}

// ---- Season filter ----

func TestFilterSeason_UnknownSeasonIsEmpty(t *testing.T) {
	ds := singleInningsFixture()
	got := FilterSeason(ds, "1999")
	if len(got) != 0 {
		t.Errorf("expected empty slice for unknown season, got %d rows", len(got))
	}

	// Empty input must flow through the whole pipeline without error.
	perf := ComputeSeason(ds, "1999", model.WeightsClassic)
	if len(perf) != 0 {
		t.Errorf("expected empty performance table, got %d rows", len(perf))
	}
}

func TestFilterSeason_DropsUnknownMatches(t *testing.T) {
	ds := singleInningsFixture()
	// A delivery for match 99 which has no Match row.
	ds.Deliveries = append(ds.Deliveries, ball(99, 1, "A", "X", 4, false))

	got := FilterSeason(ds, "2020")
	if len(got) != 5 {
		t.Errorf("expected orphan delivery dropped, got %d rows", len(got))
	}
}

// ---- Batting ----

func TestComputeBatting_SingleInnings(t *testing.T) {
	ds := singleInningsFixture()
	batting := ComputeBatting(FilterSeason(ds, "2020"))
	if len(batting) != 1 {
		t.Fatalf("expected 1 batting row, got %d", len(batting))
	}
	b := batting[0]
	if b.TotalRuns != 12 {
		t.Errorf("TotalRuns: want 12, got %d", b.TotalRuns)
	}
	if b.BallsFaced != 5 {
		t.Errorf("BallsFaced: want 5, got %d", b.BallsFaced)
	}
	if b.Fours != 1 || b.Sixes != 1 {
		t.Errorf("boundaries: want 1 four and 1 six, got %d/%d", b.Fours, b.Sixes)
	}
	if b.Innings != 1 {
		t.Errorf("Innings: want 1, got %d", b.Innings)
	}
	if b.StrikeRate() != 240.0 {
		t.Errorf("StrikeRate: want 240.0, got %f", b.StrikeRate())
	}
}

// Aggregation conservation: summed group totals equal the summed runs field
// over exactly the same subset.
func TestComputeBatting_Conservation(t *testing.T) {
	dels := []model.Delivery{
		ball(1, 1, "A", "X", 4, false),
		ball(1, 2, "B", "X", 6, false),
		ball(1, 3, "A", "Y", 1, true),
		ball(2, 5, "C", "Y", 0, false),
		ball(2, 18, "B", "Z", 2, false),
	}
	want := 0
	for _, d := range dels {
		want += d.Runs
	}
	got := 0
	for _, b := range ComputeBatting(dels) {
		got += b.TotalRuns
	}
	if got != want {
		t.Errorf("run conservation: grouped sum %d != raw sum %d", got, want)
	}
}

func TestStrikeRate_ZeroBallsGuard(t *testing.T) {
	b := model.BattingStats{Player: "A"}
	sr := b.StrikeRate()
	if sr != 0 {
		t.Errorf("strike rate with zero balls: want 0, got %f", sr)
	}
	if math.IsNaN(sr) || math.IsInf(sr, 0) {
		t.Error("strike rate must never be NaN/Inf")
	}
}

// ---- Bowling ----

func TestComputeBowling_OnlyWicketTakers(t *testing.T) {
	dels := []model.Delivery{
		ball(1, 1, "A", "X", 0, true),
		ball(1, 2, "A", "X", 4, false),
		ball(1, 3, "A", "Y", 0, false),
	}
	bowling := ComputeBowling(dels)
	if len(bowling) != 1 {
		t.Fatalf("expected 1 bowling row, got %d", len(bowling))
	}
	if bowling[0].Player != "X" || bowling[0].Wickets != 1 {
		t.Errorf("want X with 1 wicket, got %s with %d", bowling[0].Player, bowling[0].Wickets)
	}
}

// ---- Consistency ----

func TestComputeConsistency_SingleInningsIsZero(t *testing.T) {
	ds := singleInningsFixture()
	cons := ComputeConsistency(FilterSeason(ds, "2020"))
	if len(cons) != 1 {
		t.Fatalf("expected 1 consistency row, got %d", len(cons))
	}
	if cons[0].Index != 0 {
		t.Errorf("single innings: want index 0, got %f", cons[0].Index)
	}
}

func TestComputeConsistency_ZeroStdDevIsZero(t *testing.T) {
	// Two innings with identical totals → stddev 0 → index forced to 0.
	dels := []model.Delivery{
		ball(1, 1, "A", "X", 10, false),
		ball(2, 1, "A", "X", 10, false),
	}
	cons := ComputeConsistency(dels)
	if cons[0].Index != 0 {
		t.Errorf("zero stddev: want index 0, got %f", cons[0].Index)
	}
}

func TestComputeConsistency_TwoInnings(t *testing.T) {
	// Innings totals 10 and 20: mean 15, sample stddev sqrt(50)≈7.0711.
	dels := []model.Delivery{
		ball(1, 1, "A", "X", 10, false),
		ball(2, 1, "A", "X", 20, false),
	}
	cons := ComputeConsistency(dels)
	want := 15.0 / math.Sqrt(50)
	if diff := math.Abs(cons[0].Index - want); diff > 1e-9 {
		t.Errorf("index: want %f, got %f", want, cons[0].Index)
	}
}

// ---- Merge ----

func TestMergePerformance_LeftJoinCompleteness(t *testing.T) {
	batting := []model.BattingStats{
		{Player: "A", TotalRuns: 12, BallsFaced: 5, Fours: 1, Sixes: 1, Innings: 1},
		{Player: "B", TotalRuns: 3, BallsFaced: 6, Innings: 1},
	}
	bowling := []model.BowlingStats{{Player: "B", Wickets: 2}}
	cons := []model.ConsistencyStats{{Player: "A", Innings: 1}}

	perf := MergePerformance("2020", batting, bowling, cons)
	if len(perf) != 2 {
		t.Fatalf("merge dropped a batter: want 2 rows, got %d", len(perf))
	}
	a := findPerf(t, perf, "A")
	if a.Wickets != 0 {
		t.Errorf("A absent from bowling: want wickets 0, got %d", a.Wickets)
	}
	b := findPerf(t, perf, "B")
	if b.Wickets != 2 {
		t.Errorf("B wickets: want 2, got %d", b.Wickets)
	}
	if b.ConsistencyIndex != 0 {
		t.Errorf("B absent from consistency: want 0, got %f", b.ConsistencyIndex)
	}
}

// ---- Full pipeline scenarios ----

func TestComputeSeason_SingleInningsScenario(t *testing.T) {
	ds := singleInningsFixture()
	perf := ComputeSeason(ds, "2020", model.WeightsClassic)

	a := findPerf(t, perf, "A")
	if a.TotalRuns != 12 || a.BallsFaced != 5 || a.Fours != 1 || a.Sixes != 1 {
		t.Errorf("batting fields: got %+v", a)
	}
	if a.StrikeRate != 240.0 {
		t.Errorf("StrikeRate: want 240.0, got %f", a.StrikeRate)
	}
	if a.Wickets != 0 {
		t.Errorf("Wickets: want 0, got %d", a.Wickets)
	}
	if a.ConsistencyIndex != 0 {
		t.Errorf("ConsistencyIndex (single innings): want 0, got %f", a.ConsistencyIndex)
	}

	// Classic preset: 0.45*12 + 0.35*240 + 0.20*0 = 89.4.
	if diff := math.Abs(a.EfficiencyScore - 89.4); diff > 1e-9 {
		t.Errorf("EfficiencyScore: want 89.4, got %f", a.EfficiencyScore)
	}
}

func TestComputeSeason_BowlerWicketScenario(t *testing.T) {
	ds := singleInningsFixture()
	// One extra ball: B bowls to A and takes a wicket. B never bats.
	ds.Deliveries = append(ds.Deliveries, ball(1, 6, "A", "B", 0, true))

	deliveries := FilterSeason(ds, "2020")
	bowling := ComputeBowling(deliveries)
	if len(bowling) != 1 || bowling[0].Player != "B" || bowling[0].Wickets != 1 {
		t.Fatalf("bowling aggregate: want {B 1}, got %+v", bowling)
	}

	// The merge is batting-anchored: B never batted, so B has no
	// performance row at all.
	perf := ComputeSeason(ds, "2020", model.WeightsClassic)
	for _, p := range perf {
		if p.Player == "B" {
			t.Errorf("bowling-only player must be absent from player_performance, got %+v", p)
		}
	}
}

func TestApplyEfficiency_BalancedPreset(t *testing.T) {
	rows := []model.PlayerPerformance{{
		Player: "A", TotalRuns: 100, StrikeRate: 150, Wickets: 5, ConsistencyIndex: 2,
	}}
	ApplyEfficiency(rows, model.WeightsBalanced)
	// 0.40*100 + 0.30*150 + 0.20*5 + 0.10*2 = 86.2
	if diff := math.Abs(rows[0].EfficiencyScore - 86.2); diff > 1e-9 {
		t.Errorf("EfficiencyScore: want 86.2, got %f", rows[0].EfficiencyScore)
	}
}

// ---- Overs split ----

func TestOversSplit_ExcludesMiddleOvers(t *testing.T) {
	dels := []model.Delivery{
		ball(1, 1, "A", "X", 4, false),  // powerplay
		ball(1, 6, "A", "X", 6, false),  // powerplay boundary over
		ball(1, 7, "A", "X", 10, false), // middle — excluded
		ball(1, 15, "A", "X", 10, false),
		ball(1, 16, "A", "X", 2, false), // death boundary over
		ball(1, 20, "B", "X", 3, false), // death only
	}
	splits := OversSplit("2020", dels)

	byPlayer := make(map[string]model.PhaseSplit)
	total := 0
	for _, s := range splits {
		byPlayer[s.Player] = s
		total += s.PowerplayRuns + s.DeathRuns
	}

	a := byPlayer["A"]
	if a.PowerplayRuns != 10 {
		t.Errorf("A powerplay: want 10, got %d", a.PowerplayRuns)
	}
	if a.DeathRuns != 2 {
		t.Errorf("A death: want 2, got %d", a.DeathRuns)
	}
	b := byPlayer["B"]
	if b.PowerplayRuns != 0 || b.DeathRuns != 3 {
		t.Errorf("B split: want 0/3, got %d/%d", b.PowerplayRuns, b.DeathRuns)
	}
	// Middle-over runs (20) appear on neither side.
	if total != 15 {
		t.Errorf("total split runs: want 15, got %d", total)
	}
}

// ---- TopN ----

func TestTopN_LengthAndOrder(t *testing.T) {
	rows := []model.PlayerPerformance{
		{Player: "A", TotalRuns: 10},
		{Player: "B", TotalRuns: 30},
		{Player: "C", TotalRuns: 20},
	}
	top := TopN(rows, 2, ByRuns)
	if len(top) != 2 {
		t.Fatalf("length: want 2, got %d", len(top))
	}
	if top[0].Player != "B" || top[1].Player != "C" {
		t.Errorf("order: want [B C], got [%s %s]", top[0].Player, top[1].Player)
	}

	// n larger than input: min(n, len).
	all := TopN(rows, 10, ByRuns)
	if len(all) != 3 {
		t.Errorf("length with large n: want 3, got %d", len(all))
	}
	for i := 1; i < len(all); i++ {
		if ByRuns(&all[i-1]) < ByRuns(&all[i]) {
			t.Errorf("not non-increasing at %d", i)
		}
	}
}

func TestTopN_StableOnTies(t *testing.T) {
	rows := []model.PlayerPerformance{
		{Player: "first", TotalRuns: 10},
		{Player: "second", TotalRuns: 10},
	}
	top := TopN(rows, 2, ByRuns)
	if top[0].Player != "first" || top[1].Player != "second" {
		t.Errorf("ties must keep input order, got [%s %s]", top[0].Player, top[1].Player)
	}
}

func TestTopN_DoesNotMutateInput(t *testing.T) {
	rows := []model.PlayerPerformance{
		{Player: "A", TotalRuns: 1},
		{Player: "B", TotalRuns: 2},
	}
	TopN(rows, 1, ByRuns)
	if rows[0].Player != "A" {
		t.Error("TopN reordered its input")
	}
}

// ---- Best XI ----

func TestBestXI_SelectionAndTieBreak(t *testing.T) {
	rows := []model.PlayerPerformance{
		{Player: "b1", TotalRuns: 500, StrikeRate: 140, Wickets: 0},
		{Player: "b2", TotalRuns: 500, StrikeRate: 160, Wickets: 1},
		{Player: "b3", TotalRuns: 400, Wickets: 12},
		{Player: "b4", TotalRuns: 300, Wickets: 9},
		{Player: "b5", TotalRuns: 200, Wickets: 0},
		{Player: "b6", TotalRuns: 100, Wickets: 3},
		{Player: "b7", TotalRuns: 50, Wickets: 0},
	}
	xi := BestXI(rows)

	if len(xi.Batsmen) != 6 {
		t.Fatalf("batsmen: want 6, got %d", len(xi.Batsmen))
	}
	// Equal runs: higher strike rate first.
	if xi.Batsmen[0].Player != "b2" || xi.Batsmen[1].Player != "b1" {
		t.Errorf("tie-break: want [b2 b1], got [%s %s]", xi.Batsmen[0].Player, xi.Batsmen[1].Player)
	}
	if xi.Batsmen[5].Player != "b6" {
		t.Errorf("6th batsman: want b6, got %s", xi.Batsmen[5].Player)
	}

	// Only 4 wicket-takers exist — shortlist holds 4, not 5.
	if len(xi.Bowlers) != 4 {
		t.Fatalf("bowlers: want 4, got %d", len(xi.Bowlers))
	}
	if xi.Bowlers[0].Player != "b3" {
		t.Errorf("top bowler: want b3, got %s", xi.Bowlers[0].Player)
	}
}

// ---- Compare ----

func TestCompare_KnownPlayers(t *testing.T) {
	rows := []model.PlayerPerformance{
		{Player: "A", TotalRuns: 12},
		{Player: "B", TotalRuns: 7},
	}
	a, b, err := Compare(rows, "A", "B")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.TotalRuns != 12 || b.TotalRuns != 7 {
		t.Errorf("wrong rows returned: %+v %+v", a, b)
	}
}

// Comparing a player against themselves is odd but valid: both sides resolve
// to the same row.
func TestCompare_SamePlayer(t *testing.T) {
	rows := []model.PlayerPerformance{
		{Player: "A", TotalRuns: 12},
		{Player: "B", TotalRuns: 7},
	}
	a, b, err := Compare(rows, "A", "A")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.TotalRuns != 12 || b.TotalRuns != 12 {
		t.Errorf("both sides should be A's row: %+v %+v", a, b)
	}
}

func TestCompare_UnknownPlayer(t *testing.T) {
	rows := []model.PlayerPerformance{{Player: "A"}}
	_, _, err := Compare(rows, "A", "Z")
	if err == nil {
		t.Fatal("expected error for unknown player, got nil")
	}
	if !errors.Is(err, ErrPlayerNotFound) {
		t.Errorf("want ErrPlayerNotFound, got %v", err)
	}
}

// ---- Summarize ----

func TestSummarize(t *testing.T) {
	ds := singleInningsFixture()
	ds.Deliveries = append(ds.Deliveries, ball(1, 6, "A", "B", 0, true))
	deliveries := FilterSeason(ds, "2020")
	perf := ComputeSeason(ds, "2020", model.WeightsClassic)

	s := Summarize("2020", ds, deliveries, perf)
	if s.Matches != 1 || s.Players != 1 || s.TotalRuns != 12 || s.Wickets != 1 || s.Deliveries != 6 {
		t.Errorf("summary mismatch: %+v", s)
	}
}
