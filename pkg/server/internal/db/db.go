package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// DB represents the ledger database connection
type DB struct {
	*sql.DB
}

// ScoreEntry is one non-winner's leftover hand value at round end
type ScoreEntry struct {
	PlayerID int64  `json:"id"`
	Name     string `json:"name"`
	Points   int    `json:"points"`
}

// RoundRecord is one completed round
type RoundRecord struct {
	ID         int64
	RoomID     int64
	WinnerID   int64
	WinnerName string
	Scores     []ScoreEntry
	FinishedAt time.Time
}

// PlayerStats holds the per-player aggregates across all recorded
// rounds. PointsScored follows classic scoring: the winner collects the
// sum of every opponent's leftover hand.
type PlayerStats struct {
	PlayerID     int64
	Name         string
	RoundsPlayed int64
	RoundsWon    int64
	PointsScored int64
}

// NewDB creates a new database connection
func NewDB(dbPath string) (*DB, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// Create tables if they don't exist
	if err := createTables(db); err != nil {
		return nil, err
	}

	return &DB{db}, nil
}

// createTables creates the necessary database tables
func createTables(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS rounds (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			room_id INTEGER NOT NULL,
			winner_id INTEGER NOT NULL,
			winner_name TEXT NOT NULL,
			scores_json TEXT NOT NULL,
			finished_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS player_stats (
			player_id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			rounds_played INTEGER NOT NULL DEFAULT 0,
			rounds_won INTEGER NOT NULL DEFAULT 0,
			points_scored INTEGER NOT NULL DEFAULT 0
		)
	`)
	if err != nil {
		return err
	}

	return nil
}

// RecordRound appends a completed round and updates the per-player
// aggregates in one transaction
func (db *DB) RecordRound(record *RoundRecord) error {
	scoresJSON, err := json.Marshal(record.Scores)
	if err != nil {
		return fmt.Errorf("failed to marshal scores: %v", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	finished := record.FinishedAt
	if finished.IsZero() {
		finished = time.Now()
	}

	res, err := tx.Exec(`
		INSERT INTO rounds (room_id, winner_id, winner_name, scores_json, finished_at)
		VALUES (?, ?, ?, ?, ?)`,
		record.RoomID, record.WinnerID, record.WinnerName, string(scoresJSON), finished,
	)
	if err != nil {
		return fmt.Errorf("failed to insert round: %v", err)
	}
	if id, err := res.LastInsertId(); err == nil {
		record.ID = id
	}

	// The winner collects the sum of opponents' leftover hands
	won := 0
	for _, s := range record.Scores {
		won += s.Points
	}
	if err := upsertStats(tx, record.WinnerID, record.WinnerName, 1, int64(won)); err != nil {
		return err
	}
	for _, s := range record.Scores {
		if err := upsertStats(tx, s.PlayerID, s.Name, 0, 0); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func upsertStats(tx *sql.Tx, playerID int64, name string, won, points int64) error {
	_, err := tx.Exec(`
		INSERT INTO player_stats (player_id, name, rounds_played, rounds_won, points_scored)
		VALUES (?, ?, 1, ?, ?)
		ON CONFLICT(player_id) DO UPDATE SET
			name = excluded.name,
			rounds_played = rounds_played + 1,
			rounds_won = rounds_won + excluded.rounds_won,
			points_scored = points_scored + excluded.points_scored`,
		playerID, name, won, points,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert stats for player %d: %v", playerID, err)
	}
	return nil
}

// GetPlayerStats returns the aggregates for one player
func (db *DB) GetPlayerStats(playerID int64) (*PlayerStats, error) {
	stats := &PlayerStats{PlayerID: playerID}
	err := db.QueryRow(`
		SELECT name, rounds_played, rounds_won, points_scored
		FROM player_stats WHERE player_id = ?`, playerID,
	).Scan(&stats.Name, &stats.RoundsPlayed, &stats.RoundsWon, &stats.PointsScored)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("player %d not found", playerID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player stats: %v", err)
	}
	return stats, nil
}

// TopPlayers returns up to limit players ordered by rounds won
func (db *DB) TopPlayers(limit int) ([]*PlayerStats, error) {
	rows, err := db.Query(`
		SELECT player_id, name, rounds_played, rounds_won, points_scored
		FROM player_stats ORDER BY rounds_won DESC, points_scored DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top players: %v", err)
	}
	defer rows.Close()

	var out []*PlayerStats
	for rows.Next() {
		stats := &PlayerStats{}
		if err := rows.Scan(&stats.PlayerID, &stats.Name, &stats.RoundsPlayed,
			&stats.RoundsWon, &stats.PointsScored); err != nil {
			return nil, err
		}
		out = append(out, stats)
	}
	return out, rows.Err()
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.DB.Close()
}
