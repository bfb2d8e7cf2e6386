package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"cricstats/internal/aggregator"
	"cricstats/internal/model"
	"cricstats/internal/report"
	"cricstats/internal/storage"
)

var (
	cPrompt   = color.New(color.FgCyan, color.Bold)
	cMuted    = color.New(color.Faint)
	cError    = color.New(color.FgRed, color.Bold)
	cWarn     = color.New(color.FgYellow)
	cHeader   = color.New(color.FgCyan, color.Bold)
	cCmd      = color.New(color.FgYellow, color.Bold)
	cGreeting = color.New(color.Bold)
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive REPL session",
	Long:  "Open a persistent session against the database. Type 'help' for available commands.",
	Args:  cobra.NoArgs,
	RunE:  runShell,
}

// shellState carries the session's dataset and currently selected season.
type shellState struct {
	db     *storage.DB
	info   *model.DatasetInfo
	season string
}

func runShell(_ *cobra.Command, _ []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	st := &shellState{db: db}
	if info, err := resolveDataset(db, ""); err == nil {
		st.info = info
	}

	cGreeting.Println("cricstats shell")
	cMuted.Println("type 'help' or 'exit'")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		cPrompt.Print("cricstats")
		if st.season != "" {
			cMuted.Printf("[%s]", st.season)
		}
		cMuted.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		tokens := strings.Fields(line)
		cmd, args := tokens[0], tokens[1:]

		switch cmd {
		case "exit", "quit":
			return nil
		case "help":
			shellHelp()
		case "seasons":
			st.seasons()
		case "use":
			if len(args) != 1 {
				cError.Fprintln(os.Stderr, "usage: use <season>")
				continue
			}
			st.use(args[0])
		case "show":
			st.show(args)
		case "top":
			st.top(args)
		case "split":
			st.split()
		case "bestxi":
			st.bestXI()
		case "compare":
			if len(args) != 2 {
				cError.Fprintln(os.Stderr, "usage: compare <player-a> <player-b>")
				continue
			}
			st.compare(args[0], args[1])
		case "player":
			if len(args) == 0 {
				cError.Fprintln(os.Stderr, "usage: player <name>")
				continue
			}
			st.player(strings.Join(args, " "))
		default:
			cWarn.Fprintf(os.Stderr, "unknown command %q — type 'help'\n", cmd)
		}
	}
	return nil
}

func shellHelp() {
	fmt.Println()
	type entry struct{ cmd, desc string }
	rows := []entry{
		{"seasons", "list seasons in the current dataset"},
		{"use <season>", "select the working season"},
		{"show [player]", "performance table, optionally highlighting one player"},
		{"top [metric] [n]", "top players by runs, sr, wickets or efficiency"},
		{"split", "powerplay vs death-overs run split"},
		{"bestxi", "notional best XI for the season"},
		{"compare <a> <b>", "compare two players side by side"},
		{"player <name>", "one player's record across seasons"},
		{"help", "show this message"},
		{"exit / quit", "close the session"},
	}
	for _, r := range rows {
		fmt.Print("  ")
		cCmd.Printf("%-24s", r.cmd)
		fmt.Println(r.desc)
	}
	fmt.Println()
}

// needSeason reports whether a season has been selected, complaining if not.
func (st *shellState) needSeason() bool {
	if st.info == nil {
		cError.Fprintln(os.Stderr, "no dataset ingested — run 'cricstats ingest' first")
		return false
	}
	if st.season == "" {
		cError.Fprintln(os.Stderr, "no season selected — run 'use <season>'")
		return false
	}
	return true
}

func (st *shellState) seasons() {
	if st.info == nil {
		cError.Fprintln(os.Stderr, "no dataset ingested — run 'cricstats ingest' first")
		return
	}
	summaries, err := st.db.ListSeasons(st.info.Hash)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	if len(summaries) == 0 {
		cMuted.Println("No seasons stored yet.")
		return
	}
	report.PrintSeasonTable(os.Stdout, summaries)
}

func (st *shellState) use(season string) {
	if st.info == nil {
		cError.Fprintln(os.Stderr, "no dataset ingested — run 'cricstats ingest' first")
		return
	}
	rows, err := st.db.GetSeasonPerformance(st.info.Hash, season)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	if len(rows) == 0 {
		cWarn.Fprintf(os.Stderr, "season %q has no data — 'seasons' lists what's available\n", season)
		return
	}
	st.season = season
	cMuted.Printf("using season %s (%d players)\n", season, len(rows))
}

func (st *shellState) show(args []string) {
	if !st.needSeason() {
		return
	}
	focus := ""
	if len(args) > 0 {
		focus = strings.Join(args, " ")
	}
	rows, err := st.db.GetSeasonPerformance(st.info.Hash, st.season)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	report.PrintPerformanceTable(rows, focus)
}

func (st *shellState) top(args []string) {
	if !st.needSeason() {
		return
	}
	metric := "runs"
	n := 10
	if len(args) > 0 {
		metric = args[0]
	}
	if len(args) > 1 {
		if v, err := strconv.Atoi(args[1]); err == nil && v > 0 {
			n = v
		}
	}
	key, err := metricKey(metric)
	if err != nil {
		cError.Fprintf(os.Stderr, "%v\n", err)
		return
	}
	rows, err := st.db.GetSeasonPerformance(st.info.Hash, st.season)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	report.PrintTopTable(os.Stdout, aggregator.TopN(rows, n, key), metric)
}

func (st *shellState) split() {
	if !st.needSeason() {
		return
	}
	rows, err := st.db.GetPhaseSplits(st.info.Hash, st.season)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	report.PrintPhaseSplitTable(os.Stdout, rows)
}

func (st *shellState) bestXI() {
	if !st.needSeason() {
		return
	}
	rows, err := st.db.GetSeasonPerformance(st.info.Hash, st.season)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	report.PrintBestXITable(os.Stdout, aggregator.BestXI(rows))
}

func (st *shellState) compare(playerA, playerB string) {
	if !st.needSeason() {
		return
	}
	rows, err := st.db.GetSeasonPerformance(st.info.Hash, st.season)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	a, b, err := aggregator.Compare(rows, playerA, playerB)
	if err != nil {
		if errors.Is(err, aggregator.ErrPlayerNotFound) {
			cWarn.Fprintf(os.Stderr, "%v — names must match the batting records exactly\n", err)
		} else {
			cError.Fprintf(os.Stderr, "error: %v\n", err)
		}
		return
	}
	report.PrintComparisonTable(os.Stdout, a, b)
}

func (st *shellState) player(name string) {
	if st.info == nil {
		cError.Fprintln(os.Stderr, "no dataset ingested — run 'cricstats ingest' first")
		return
	}
	rows, err := st.db.GetPlayerSeasons(st.info.Hash, name)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	if len(rows) == 0 {
		cWarn.Fprintf(os.Stderr, "no batting records for %q\n", name)
		return
	}
	cHeader.Fprintf(os.Stdout, "--- %s ---\n", name)
	report.PrintPlayerSeasonsTable(os.Stdout, rows)
}
