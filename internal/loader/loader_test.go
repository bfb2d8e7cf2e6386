package loader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeCSV writes content to a temp file and returns its path.
func writeCSV(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestLoad_CanonicalColumns(t *testing.T) {
	matches := writeCSV(t, "matches.csv",
		"id,season\n1,2020\n2,2021\n")
	deliveries := writeCSV(t, "deliveries.csv",
		"match_id,over,batsman,bowler,batsman_runs,is_wicket\n"+
			"1,1,A,X,4,0\n"+
			"1,2,A,X,0,1\n")

	ds, err := Load(matches, deliveries)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(ds.Matches) != 2 || len(ds.Deliveries) != 2 {
		t.Fatalf("row counts: got %d matches, %d deliveries", len(ds.Matches), len(ds.Deliveries))
	}
	if ds.Hash == "" {
		t.Error("expected non-empty dataset hash")
	}
	d := ds.Deliveries[1]
	if d.Batter != "A" || d.Bowler != "X" || !d.IsWicket {
		t.Errorf("delivery fields: %+v", d)
	}
	if got := ds.Seasons(); len(got) != 2 || got[0] != "2020" {
		t.Errorf("Seasons: got %v", got)
	}
}

// Headers are lower-cased and both synonyms accepted: "batter" for the
// batting player, "id" for the deliveries match identifier, "year" for the
// season label.
func TestLoad_SynonymColumns(t *testing.T) {
	matches := writeCSV(t, "matches.csv",
		"MATCH_ID,Year\n7,2019\n")
	deliveries := writeCSV(t, "deliveries.csv",
		"ID,Over,Batter,Bowler,Batsman_Runs\n7,3,V Kohli,R Ashwin,6\n")

	ds, err := Load(matches, deliveries)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ds.Matches[0].ID != 7 || ds.Matches[0].Season != "2019" {
		t.Errorf("match row: %+v", ds.Matches[0])
	}
	d := ds.Deliveries[0]
	if d.MatchID != 7 || d.Batter != "V Kohli" || d.Runs != 6 {
		t.Errorf("delivery row: %+v", d)
	}
	// No wicket column of any kind: flag defaults to false.
	if d.IsWicket {
		t.Error("expected IsWicket=false with no wicket column")
	}
}

// A canonical match_id on deliveries wins over a coexisting "id" column.
func TestLoad_CanonicalMatchIDPreferred(t *testing.T) {
	matches := writeCSV(t, "matches.csv", "id,season\n5,2020\n")
	deliveries := writeCSV(t, "deliveries.csv",
		"id,match_id,over,batsman,bowler,batsman_runs\n999,5,1,A,X,1\n")

	ds, err := Load(matches, deliveries)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ds.Deliveries[0].MatchID != 5 {
		t.Errorf("MatchID: want 5 (from match_id), got %d", ds.Deliveries[0].MatchID)
	}
}

func TestLoad_WicketDerivedFromDismissalKind(t *testing.T) {
	matches := writeCSV(t, "matches.csv", "id,season\n1,2020\n")
	deliveries := writeCSV(t, "deliveries.csv",
		"match_id,over,batsman,bowler,batsman_runs,dismissal_kind\n"+
			"1,1,A,X,0,caught\n"+
			"1,2,A,X,4,\n"+
			"1,3,A,X,0,NA\n")

	ds, err := Load(matches, deliveries)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := []bool{true, false, false}
	for i, w := range want {
		if ds.Deliveries[i].IsWicket != w {
			t.Errorf("row %d: IsWicket want %v, got %v", i, w, ds.Deliveries[i].IsWicket)
		}
	}
}

func TestLoad_MissingRequiredColumn(t *testing.T) {
	matches := writeCSV(t, "matches.csv", "id,season\n1,2020\n")
	deliveries := writeCSV(t, "deliveries.csv",
		"match_id,over,bowler,batsman_runs\n1,1,X,4\n")

	_, err := Load(matches, deliveries)
	if err == nil {
		t.Fatal("expected error for missing batting-player column")
	}
	if !strings.Contains(err.Error(), "batting-player") {
		t.Errorf("diagnostic should name the missing column, got: %v", err)
	}
}

func TestLoad_MalformedNumericCell(t *testing.T) {
	matches := writeCSV(t, "matches.csv", "id,season\n1,2020\n")
	deliveries := writeCSV(t, "deliveries.csv",
		"match_id,over,batsman,bowler,batsman_runs\n1,one,A,X,4\n")

	_, err := Load(matches, deliveries)
	if err == nil {
		t.Fatal("expected error for unparsable over value")
	}
	// Diagnostic must name the file and the row.
	if !strings.Contains(err.Error(), "deliveries.csv") || !strings.Contains(err.Error(), "row 2") {
		t.Errorf("diagnostic should name file and row, got: %v", err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	matches := writeCSV(t, "matches.csv", "id,season\n1,2020\n")
	if _, err := Load(matches, filepath.Join(t.TempDir(), "nope.csv")); err == nil {
		t.Fatal("expected error for missing deliveries file")
	}
}

// Hash identity: identical content hashes equal, differing content differs.
func TestLoad_HashTracksContent(t *testing.T) {
	m := "id,season\n1,2020\n"
	d := "match_id,over,batsman,bowler,batsman_runs\n1,1,A,X,4\n"

	ds1, err := Load(writeCSV(t, "m1.csv", m), writeCSV(t, "d1.csv", d))
	if err != nil {
		t.Fatal(err)
	}
	ds2, err := Load(writeCSV(t, "m2.csv", m), writeCSV(t, "d2.csv", d))
	if err != nil {
		t.Fatal(err)
	}
	if ds1.Hash != ds2.Hash {
		t.Error("identical content should hash identically")
	}

	ds3, err := Load(writeCSV(t, "m3.csv", m), writeCSV(t, "d3.csv", d+"1,2,A,X,1\n"))
	if err != nil {
		t.Fatal(err)
	}
	if ds3.Hash == ds1.Hash {
		t.Error("different content should hash differently")
	}
}
