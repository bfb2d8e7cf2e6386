package storage

import (
	"database/sql"
	"fmt"

	"cricstats/internal/model"
)

// DatasetExists returns true if a dataset with the given hash is already stored.
func (db *DB) DatasetExists(hash string) (bool, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(1) FROM datasets WHERE hash = ?", hash).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// InsertDataset inserts a dataset record. Uses INSERT OR REPLACE for idempotency.
func (db *DB) InsertDataset(info model.DatasetInfo) error {
	_, err := db.conn.Exec(`
		INSERT OR REPLACE INTO datasets(hash, matches_path, deliveries_path, ingested_at, season_count, match_count, delivery_count)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		info.Hash, info.MatchesPath, info.DeliveriesPath, info.IngestedAt,
		info.SeasonCount, info.MatchCount, info.DeliveryCount,
	)
	return err
}

// LatestDataset returns the most recently ingested dataset, or nil when the
// database is empty.
func (db *DB) LatestDataset() (*model.DatasetInfo, error) {
	var info model.DatasetInfo
	err := db.conn.QueryRow(`
		SELECT hash, matches_path, deliveries_path, ingested_at, season_count, match_count, delivery_count
		FROM datasets ORDER BY ingested_at DESC LIMIT 1`).
		Scan(&info.Hash, &info.MatchesPath, &info.DeliveriesPath, &info.IngestedAt,
			&info.SeasonCount, &info.MatchCount, &info.DeliveryCount)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &info, nil
}

// GetDatasetByPrefix returns the dataset whose hash starts with prefix, or nil
// when none matches.
func (db *DB) GetDatasetByPrefix(prefix string) (*model.DatasetInfo, error) {
	var info model.DatasetInfo
	err := db.conn.QueryRow(`
		SELECT hash, matches_path, deliveries_path, ingested_at, season_count, match_count, delivery_count
		FROM datasets WHERE hash LIKE ? || '%' LIMIT 1`, prefix).
		Scan(&info.Hash, &info.MatchesPath, &info.DeliveriesPath, &info.IngestedAt,
			&info.SeasonCount, &info.MatchCount, &info.DeliveryCount)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &info, nil
}

// InsertPlayerPerformance bulk-inserts performance rows in a transaction.
func (db *DB) InsertPlayerPerformance(hash string, rows []model.PlayerPerformance) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO player_performance(
			dataset_hash, season, player,
			total_runs, balls_faced, fours, sixes, innings, wickets,
			strike_rate, consistency_index, efficiency_score
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range rows {
		_, err = stmt.Exec(
			hash, r.Season, r.Player,
			r.TotalRuns, r.BallsFaced, r.Fours, r.Sixes, r.Innings, r.Wickets,
			r.StrikeRate, r.ConsistencyIndex, r.EfficiencyScore,
		)
		if err != nil {
			return fmt.Errorf("insert player_performance for %s/%s: %w", r.Season, r.Player, err)
		}
	}
	return tx.Commit()
}

// InsertPhaseSplits bulk-inserts powerplay/death splits in a transaction.
func (db *DB) InsertPhaseSplits(hash string, rows []model.PhaseSplit) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO phase_splits(dataset_hash, season, player, powerplay_runs, death_runs)
		VALUES (?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range rows {
		if _, err = stmt.Exec(hash, r.Season, r.Player, r.PowerplayRuns, r.DeathRuns); err != nil {
			return fmt.Errorf("insert phase_splits for %s/%s: %w", r.Season, r.Player, err)
		}
	}
	return tx.Commit()
}

// InsertSeasonSummaries bulk-inserts season summary rows in a transaction.
func (db *DB) InsertSeasonSummaries(hash string, rows []model.SeasonSummary) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO season_summaries(dataset_hash, season, match_count, player_count, total_runs, wickets, delivery_count)
		VALUES (?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range rows {
		if _, err = stmt.Exec(hash, r.Season, r.Matches, r.Players, r.TotalRuns, r.Wickets, r.Deliveries); err != nil {
			return fmt.Errorf("insert season_summaries for %s: %w", r.Season, err)
		}
	}
	return tx.Commit()
}

// ListSeasons returns all season summaries for a dataset, season ascending.
func (db *DB) ListSeasons(hash string) ([]model.SeasonSummary, error) {
	rows, err := db.conn.Query(`
		SELECT season, match_count, player_count, total_runs, wickets, delivery_count
		FROM season_summaries WHERE dataset_hash = ? ORDER BY season ASC`, hash)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.SeasonSummary
	for rows.Next() {
		var s model.SeasonSummary
		if err := rows.Scan(&s.Season, &s.Matches, &s.Players, &s.TotalRuns, &s.Wickets, &s.Deliveries); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetSeasonPerformance returns the performance table for one season, ordered
// by efficiency score descending.
func (db *DB) GetSeasonPerformance(hash, season string) ([]model.PlayerPerformance, error) {
	rows, err := db.conn.Query(`
		SELECT player, total_runs, balls_faced, fours, sixes, innings, wickets,
		       strike_rate, consistency_index, efficiency_score
		FROM player_performance
		WHERE dataset_hash = ? AND season = ?
		ORDER BY efficiency_score DESC, player ASC`, hash, season)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.PlayerPerformance
	for rows.Next() {
		p := model.PlayerPerformance{Season: season}
		if err := rows.Scan(&p.Player, &p.TotalRuns, &p.BallsFaced, &p.Fours, &p.Sixes,
			&p.Innings, &p.Wickets, &p.StrikeRate, &p.ConsistencyIndex, &p.EfficiencyScore); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// GetPhaseSplits returns the powerplay/death split for one season, ordered by
// combined runs descending.
func (db *DB) GetPhaseSplits(hash, season string) ([]model.PhaseSplit, error) {
	rows, err := db.conn.Query(`
		SELECT player, powerplay_runs, death_runs
		FROM phase_splits
		WHERE dataset_hash = ? AND season = ?
		ORDER BY powerplay_runs + death_runs DESC, player ASC`, hash, season)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.PhaseSplit
	for rows.Next() {
		s := model.PhaseSplit{Season: season}
		if err := rows.Scan(&s.Player, &s.PowerplayRuns, &s.DeathRuns); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetPlayerSeasons returns all per-season performance rows for one player,
// season ascending.
func (db *DB) GetPlayerSeasons(hash, player string) ([]model.PlayerPerformance, error) {
	rows, err := db.conn.Query(`
		SELECT season, total_runs, balls_faced, fours, sixes, innings, wickets,
		       strike_rate, consistency_index, efficiency_score
		FROM player_performance
		WHERE dataset_hash = ? AND player = ?
		ORDER BY season ASC`, hash, player)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.PlayerPerformance
	for rows.Next() {
		p := model.PlayerPerformance{Player: player}
		if err := rows.Scan(&p.Season, &p.TotalRuns, &p.BallsFaced, &p.Fours, &p.Sixes,
			&p.Innings, &p.Wickets, &p.StrikeRate, &p.ConsistencyIndex, &p.EfficiencyScore); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// ListPlayers returns the distinct player names for one season, ascending.
// This is the known-player list callers must validate comparison input against.
func (db *DB) ListPlayers(hash, season string) ([]string, error) {
	rows, err := db.conn.Query(`
		SELECT player FROM player_performance
		WHERE dataset_hash = ? AND season = ? ORDER BY player ASC`, hash, season)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// GetOverview returns database-wide aggregates for the summary command.
func (db *DB) GetOverview() (*model.Overview, error) {
	var ov model.Overview
	err := db.conn.QueryRow("SELECT COUNT(1) FROM datasets").Scan(&ov.Datasets)
	if err != nil {
		return nil, err
	}
	err = db.conn.QueryRow(`
		SELECT COUNT(1), COALESCE(SUM(total_runs), 0), COALESCE(SUM(wickets), 0),
		       COALESCE(SUM(delivery_count), 0), COALESCE(MIN(season), ''), COALESCE(MAX(season), '')
		FROM season_summaries`).
		Scan(&ov.Seasons, &ov.TotalRuns, &ov.Wickets, &ov.Deliveries, &ov.FirstSeason, &ov.LastSeason)
	if err != nil {
		return nil, err
	}
	err = db.conn.QueryRow("SELECT COUNT(DISTINCT player) FROM player_performance").Scan(&ov.Players)
	if err != nil {
		return nil, err
	}
	return &ov, nil
}

// RawQuery runs an arbitrary SQL query and returns column names plus rows as
// strings, for the sql command.
func (db *DB) RawQuery(query string) ([]string, [][]string, error) {
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}

	var out [][]string
	for rows.Next() {
		raw := make([]sql.NullString, len(cols))
		ptrs := make([]interface{}, len(cols))
		for i := range raw {
			ptrs[i] = &raw[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		rec := make([]string, len(cols))
		for i, v := range raw {
			if v.Valid {
				rec[i] = v.String
			} else {
				rec[i] = "NULL"
			}
		}
		out = append(out, rec)
	}
	return cols, out, rows.Err()
}
