package server

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/vctt94/unoserver/pkg/server/internal/db"
)

// Database is the round-results ledger. It records outcomes as rounds
// complete; live game state is never persisted or restored from it.
type Database interface {
	// RecordRound appends a completed round and folds it into the
	// per-player aggregates
	RecordRound(record *db.RoundRecord) error
	// GetPlayerStats returns the aggregates for one player
	GetPlayerStats(playerID int64) (*db.PlayerStats, error)
	// TopPlayers returns up to limit players ordered by rounds won
	TopPlayers(limit int) ([]*db.PlayerStats, error)
	// Close closes the database connection
	Close() error
}

// NewDatabase opens (creating if needed) the ledger at the given path
func NewDatabase(dbPath string) (Database, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %v", err)
	}
	return db.NewDB(dbPath)
}
