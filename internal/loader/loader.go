// Package loader reads the two source CSVs (match metadata and ball-by-ball
// deliveries) and normalizes them to the canonical schema. Normalization
// happens exactly once here; every downstream package assumes canonical
// column names and never re-checks for missing columns.
package loader

import (
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"cricstats/internal/model"
)

// Column synonyms tolerated in the wild. Applied in order after
// lower-casing all header names:
//   - deliveries: "batter" → "batsman", and "id" → "match_id" when no
//     canonical match_id column exists
//   - matches: "match_id" accepted for "id", "year" accepted for "season"
//   - deliveries: "is_wicket" taken as-is; otherwise derived from
//     "dismissal_kind" (non-empty → 1); otherwise constant 0
const (
	colMatchID = "match_id"
	colOver    = "over"
	colBatsman = "batsman"
	colBatter  = "batter"
	colBowler  = "bowler"
	colRuns    = "batsman_runs"
	colWicket  = "is_wicket"
	colDismiss = "dismissal_kind"
	colID      = "id"
	colSeason  = "season"
	colYear    = "year"
)

// Load reads, normalizes, and hashes both input files. Any structural or
// parse failure is fatal: the returned error names the offending file (and
// row, where known).
func Load(matchesPath, deliveriesPath string) (*model.Dataset, error) {
	matches, mSum, err := loadMatches(matchesPath)
	if err != nil {
		return nil, err
	}
	deliveries, dSum, err := loadDeliveries(deliveriesPath)
	if err != nil {
		return nil, err
	}

	h := sha256.New()
	h.Write(mSum)
	h.Write(dSum)

	return &model.Dataset{
		Hash:           hex.EncodeToString(h.Sum(nil)),
		MatchesPath:    matchesPath,
		DeliveriesPath: deliveriesPath,
		Matches:        matches,
		Deliveries:     deliveries,
	}, nil
}

func loadMatches(path string) ([]model.Match, []byte, error) {
	header, rows, sum, err := readTable(path)
	if err != nil {
		return nil, nil, err
	}

	idCol := indexOfAny(header, colID, colMatchID)
	seasonCol := indexOfAny(header, colSeason, colYear)
	if idCol < 0 {
		return nil, nil, fmt.Errorf("%s: no match identifier column (want %q or %q)", path, colID, colMatchID)
	}
	if seasonCol < 0 {
		return nil, nil, fmt.Errorf("%s: no season column (want %q or %q)", path, colSeason, colYear)
	}

	out := make([]model.Match, 0, len(rows))
	for i, row := range rows {
		id, err := strconv.Atoi(strings.TrimSpace(row[idCol]))
		if err != nil {
			return nil, nil, fmt.Errorf("%s row %d: bad match id %q: %w", path, i+2, row[idCol], err)
		}
		out = append(out, model.Match{ID: id, Season: strings.TrimSpace(row[seasonCol])})
	}
	return out, sum, nil
}

func loadDeliveries(path string) ([]model.Delivery, []byte, error) {
	header, rows, sum, err := readTable(path)
	if err != nil {
		return nil, nil, err
	}

	matchCol := indexOf(header, colMatchID)
	if matchCol < 0 {
		matchCol = indexOf(header, colID) // alternate name for the same field
	}
	batterCol := indexOfAny(header, colBatsman, colBatter)
	overCol := indexOf(header, colOver)
	bowlerCol := indexOf(header, colBowler)
	runsCol := indexOf(header, colRuns)
	wicketCol := indexOf(header, colWicket)
	dismissCol := indexOf(header, colDismiss)

	switch {
	case matchCol < 0:
		return nil, nil, fmt.Errorf("%s: no match identifier column (want %q or %q)", path, colMatchID, colID)
	case batterCol < 0:
		return nil, nil, fmt.Errorf("%s: no batting-player column (want %q or %q)", path, colBatsman, colBatter)
	case overCol < 0:
		return nil, nil, fmt.Errorf("%s: no %q column", path, colOver)
	case bowlerCol < 0:
		return nil, nil, fmt.Errorf("%s: no %q column", path, colBowler)
	case runsCol < 0:
		return nil, nil, fmt.Errorf("%s: no %q column", path, colRuns)
	}

	out := make([]model.Delivery, 0, len(rows))
	for i, row := range rows {
		d := model.Delivery{
			Batter: strings.TrimSpace(row[batterCol]),
			Bowler: strings.TrimSpace(row[bowlerCol]),
		}
		var err error
		if d.MatchID, err = strconv.Atoi(strings.TrimSpace(row[matchCol])); err != nil {
			return nil, nil, fmt.Errorf("%s row %d: bad match id %q: %w", path, i+2, row[matchCol], err)
		}
		if d.Over, err = strconv.Atoi(strings.TrimSpace(row[overCol])); err != nil {
			return nil, nil, fmt.Errorf("%s row %d: bad over %q: %w", path, i+2, row[overCol], err)
		}
		if d.Runs, err = strconv.Atoi(strings.TrimSpace(row[runsCol])); err != nil {
			return nil, nil, fmt.Errorf("%s row %d: bad runs %q: %w", path, i+2, row[runsCol], err)
		}

		switch {
		case wicketCol >= 0:
			d.IsWicket = parseFlag(row[wicketCol])
		case dismissCol >= 0:
			d.IsWicket = isPresent(row[dismissCol])
		}
		out = append(out, d)
	}
	return out, sum, nil
}

// readTable parses a CSV file, lower-casing header names, and returns the
// header, data rows, and a content checksum for dataset identity.
func readTable(path string) (header []string, rows [][]string, sum []byte, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	h := sha256.New()
	r := csv.NewReader(io.TeeReader(f, h))
	r.ReuseRecord = false

	all, err := r.ReadAll()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(all) == 0 {
		return nil, nil, nil, fmt.Errorf("%s: empty file (no header row)", path)
	}

	header = all[0]
	for i := range header {
		header[i] = strings.ToLower(strings.TrimSpace(header[i]))
	}
	return header, all[1:], h.Sum(nil), nil
}

func indexOf(header []string, name string) int {
	for i, h := range header {
		if h == name {
			return i
		}
	}
	return -1
}

// indexOfAny returns the index of the first name present in the header,
// preferring earlier names (canonical before alternate).
func indexOfAny(header []string, names ...string) int {
	for _, n := range names {
		if i := indexOf(header, n); i >= 0 {
			return i
		}
	}
	return -1
}

// parseFlag reads a 0/1 wicket flag, tolerating boolean spellings.
func parseFlag(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "t", "yes":
		return true
	default:
		return false
	}
}

// isPresent reports whether a dismissal-kind cell holds a value. Empty cells
// and the literal NA/NaN spellings produced by dataframe exports count as
// missing.
func isPresent(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "na", "nan", "null":
		return false
	default:
		return true
	}
}
