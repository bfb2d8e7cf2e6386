package report

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"cricstats/internal/model"
)

// PrintDatasetSummary prints a one-line summary header for the dataset.
func PrintDatasetSummary(w io.Writer, info model.DatasetInfo) {
	fmt.Fprintf(w, "\nSeasons: %d  |  Matches: %d  |  Deliveries: %d  |  Ingested: %s  |  Hash: %s\n\n",
		info.SeasonCount, info.MatchCount, info.DeliveryCount, info.IngestedAt, shortHash(info.Hash))
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

// PrintSeasonTable prints the seasons listing.
func PrintSeasonTable(w io.Writer, seasons []model.SeasonSummary) {
	table := newTable(w)
	table.Header("SEASON", "MATCHES", "BATTERS", "RUNS", "WICKETS", "DELIVERIES")
	for _, s := range seasons {
		table.Append(
			s.Season,
			strconv.Itoa(s.Matches),
			strconv.Itoa(s.Players),
			strconv.Itoa(s.TotalRuns),
			strconv.Itoa(s.Wickets),
			strconv.Itoa(s.Deliveries),
		)
	}
	table.Render()
}

// PrintPerformanceTable prints the per-season performance table to stdout.
// If focusPlayer is non-empty, that player's row is marked with ">".
func PrintPerformanceTable(rows []model.PlayerPerformance, focusPlayer string) {
	PrintPerformanceTableTo(os.Stdout, rows, focusPlayer)
}

// PrintPerformanceTableTo writes the performance table to the provided writer.
func PrintPerformanceTableTo(w io.Writer, rows []model.PlayerPerformance, focusPlayer string) {
	table := newTable(w)
	table.Header(" ", "PLAYER", "RUNS", "BALLS", "4s", "6s", "INN", "WKTS", "SR", "CONS", "EFF")

	for _, r := range rows {
		marker := " "
		if focusPlayer != "" && r.Player == focusPlayer {
			marker = ">"
		}
		// A consistency index needs at least two innings to mean anything.
		cons := "—"
		if r.Innings >= 2 && r.ConsistencyIndex > 0 {
			cons = fmt.Sprintf("%.2f", r.ConsistencyIndex)
		}
		table.Append(
			marker,
			r.Player,
			strconv.Itoa(r.TotalRuns),
			strconv.Itoa(r.BallsFaced),
			strconv.Itoa(r.Fours),
			strconv.Itoa(r.Sixes),
			strconv.Itoa(r.Innings),
			strconv.Itoa(r.Wickets),
			fmt.Sprintf("%.1f", r.StrikeRate),
			cons,
			fmt.Sprintf("%.1f", r.EfficiencyScore),
		)
	}
	table.Render()
}

// PrintTopTable prints a ranked top-N slice with rank numbers.
func PrintTopTable(w io.Writer, rows []model.PlayerPerformance, metric string) {
	table := newTable(w)
	table.Header("#", "PLAYER", "RUNS", "BALLS", "WKTS", "SR", "EFF")
	for i, r := range rows {
		table.Append(
			strconv.Itoa(i+1),
			r.Player,
			strconv.Itoa(r.TotalRuns),
			strconv.Itoa(r.BallsFaced),
			strconv.Itoa(r.Wickets),
			fmt.Sprintf("%.1f", r.StrikeRate),
			fmt.Sprintf("%.1f", r.EfficiencyScore),
		)
	}
	table.Render()
	fmt.Fprintf(w, "\nRanked by %s.\n", metric)
}

// PrintPhaseSplitTable prints the powerplay/death overs split.
func PrintPhaseSplitTable(w io.Writer, rows []model.PhaseSplit) {
	table := newTable(w)
	table.Header("PLAYER", "POWERPLAY", "DEATH", "TOTAL")
	for _, r := range rows {
		table.Append(
			r.Player,
			strconv.Itoa(r.PowerplayRuns),
			strconv.Itoa(r.DeathRuns),
			strconv.Itoa(r.PowerplayRuns+r.DeathRuns),
		)
	}
	table.Render()
}

// PrintBestXITable prints the best-XI shortlist: batsmen then bowlers.
func PrintBestXITable(w io.Writer, xi model.BestXI) {
	fmt.Fprintln(w, "\nBatsmen (by runs, strike rate breaks ties):")
	bat := newTable(w)
	bat.Header("#", "PLAYER", "RUNS", "SR", "INN")
	for i, r := range xi.Batsmen {
		bat.Append(
			strconv.Itoa(i+1),
			r.Player,
			strconv.Itoa(r.TotalRuns),
			fmt.Sprintf("%.1f", r.StrikeRate),
			strconv.Itoa(r.Innings),
		)
	}
	bat.Render()

	fmt.Fprintln(w, "\nBowlers (by wickets):")
	bowl := newTable(w)
	bowl.Header("#", "PLAYER", "WKTS")
	for i, r := range xi.Bowlers {
		bowl.Append(
			strconv.Itoa(i+1),
			r.Player,
			strconv.Itoa(r.Wickets),
		)
	}
	bowl.Render()
}

// PrintComparisonTable prints two players side by side, metric per row.
func PrintComparisonTable(w io.Writer, a, b *model.PlayerPerformance) {
	table := newTable(w)
	table.Header("METRIC", a.Player, b.Player)

	cons := func(p *model.PlayerPerformance) string {
		if p.Innings >= 2 && p.ConsistencyIndex > 0 {
			return fmt.Sprintf("%.2f", p.ConsistencyIndex)
		}
		return "—"
	}

	table.Append("Total runs", strconv.Itoa(a.TotalRuns), strconv.Itoa(b.TotalRuns))
	table.Append("Balls faced", strconv.Itoa(a.BallsFaced), strconv.Itoa(b.BallsFaced))
	table.Append("Fours", strconv.Itoa(a.Fours), strconv.Itoa(b.Fours))
	table.Append("Sixes", strconv.Itoa(a.Sixes), strconv.Itoa(b.Sixes))
	table.Append("Innings", strconv.Itoa(a.Innings), strconv.Itoa(b.Innings))
	table.Append("Wickets", strconv.Itoa(a.Wickets), strconv.Itoa(b.Wickets))
	table.Append("Strike rate", fmt.Sprintf("%.1f", a.StrikeRate), fmt.Sprintf("%.1f", b.StrikeRate))
	table.Append("Consistency", cons(a), cons(b))
	table.Append("Efficiency", fmt.Sprintf("%.1f", a.EfficiencyScore), fmt.Sprintf("%.1f", b.EfficiencyScore))
	table.Render()
}

// PrintPlayerSeasonsTable prints one player's per-season rows, season ascending.
func PrintPlayerSeasonsTable(w io.Writer, rows []model.PlayerPerformance) {
	table := newTable(w)
	table.Header("SEASON", "RUNS", "BALLS", "4s", "6s", "INN", "WKTS", "SR", "CONS", "EFF")
	for _, r := range rows {
		cons := "—"
		if r.Innings >= 2 && r.ConsistencyIndex > 0 {
			cons = fmt.Sprintf("%.2f", r.ConsistencyIndex)
		}
		table.Append(
			r.Season,
			strconv.Itoa(r.TotalRuns),
			strconv.Itoa(r.BallsFaced),
			strconv.Itoa(r.Fours),
			strconv.Itoa(r.Sixes),
			strconv.Itoa(r.Innings),
			strconv.Itoa(r.Wickets),
			fmt.Sprintf("%.1f", r.StrikeRate),
			cons,
			fmt.Sprintf("%.1f", r.EfficiencyScore),
		)
	}
	table.Render()
}

// PrintOverview prints database-wide totals for the summary command.
func PrintOverview(w io.Writer, ov model.Overview) {
	fmt.Fprintf(w, "\nDatasets: %d  |  Seasons: %d (%s–%s)  |  Players: %d\n",
		ov.Datasets, ov.Seasons, ov.FirstSeason, ov.LastSeason, ov.Players)
	fmt.Fprintf(w, "Runs: %d  |  Wickets: %d  |  Deliveries: %d\n\n",
		ov.TotalRuns, ov.Wickets, ov.Deliveries)
}

// PrintRawRows prints an arbitrary result set, for the sql command.
func PrintRawRows(w io.Writer, cols []string, rows [][]string) {
	table := newTable(w)
	hdr := make([]any, len(cols))
	for i, c := range cols {
		hdr[i] = c
	}
	table.Header(hdr...)
	for _, r := range rows {
		cells := make([]any, len(r))
		for i, v := range r {
			cells[i] = v
		}
		table.Append(cells...)
	}
	table.Render()
	fmt.Fprintf(w, "\n%d row(s)\n", len(rows))
}
