package db

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "uno.sqlite"))
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRecordRoundStoresRow(t *testing.T) {
	db := newTestDB(t)

	record := &RoundRecord{
		RoomID:     1,
		WinnerID:   1,
		WinnerName: "alice",
		Scores: []ScoreEntry{
			{PlayerID: 2, Name: "bob", Points: 30},
			{PlayerID: 3, Name: "carol", Points: 12},
		},
	}
	if err := db.RecordRound(record); err != nil {
		t.Fatalf("RecordRound: %v", err)
	}
	if record.ID == 0 {
		t.Error("record should carry the inserted row id")
	}

	var winnerName, scoresJSON string
	var finished time.Time
	err := db.QueryRow(`SELECT winner_name, scores_json, finished_at FROM rounds WHERE id = ?`,
		record.ID).Scan(&winnerName, &scoresJSON, &finished)
	if err != nil {
		t.Fatalf("query round: %v", err)
	}
	if winnerName != "alice" {
		t.Errorf("winner_name = %q", winnerName)
	}
	if finished.IsZero() {
		t.Error("finished_at should default to now")
	}
	var scores []ScoreEntry
	if err := json.Unmarshal([]byte(scoresJSON), &scores); err != nil {
		t.Fatalf("unmarshal scores_json: %v", err)
	}
	if len(scores) != 2 || scores[0].Name != "bob" || scores[1].Points != 12 {
		t.Errorf("unexpected scores: %+v", scores)
	}
}

func TestRecordRoundAggregates(t *testing.T) {
	db := newTestDB(t)

	err := db.RecordRound(&RoundRecord{
		RoomID: 1, WinnerID: 1, WinnerName: "alice",
		Scores: []ScoreEntry{
			{PlayerID: 2, Name: "bob", Points: 30},
			{PlayerID: 3, Name: "carol", Points: 12},
		},
	})
	if err != nil {
		t.Fatalf("RecordRound: %v", err)
	}

	alice, err := db.GetPlayerStats(1)
	if err != nil {
		t.Fatalf("GetPlayerStats: %v", err)
	}
	if alice.RoundsPlayed != 1 || alice.RoundsWon != 1 || alice.PointsScored != 42 {
		t.Errorf("alice = %+v, want 1 played, 1 won, 42 points", alice)
	}

	bob, err := db.GetPlayerStats(2)
	if err != nil {
		t.Fatalf("GetPlayerStats: %v", err)
	}
	if bob.RoundsPlayed != 1 || bob.RoundsWon != 0 || bob.PointsScored != 0 {
		t.Errorf("bob = %+v, want 1 played, 0 won, 0 points", bob)
	}

	// Second round, bob wins back
	err = db.RecordRound(&RoundRecord{
		RoomID: 1, WinnerID: 2, WinnerName: "bob",
		Scores: []ScoreEntry{
			{PlayerID: 1, Name: "alice", Points: 5},
			{PlayerID: 3, Name: "carol", Points: 20},
		},
	})
	if err != nil {
		t.Fatalf("RecordRound: %v", err)
	}

	alice, err = db.GetPlayerStats(1)
	if err != nil {
		t.Fatalf("GetPlayerStats: %v", err)
	}
	if alice.RoundsPlayed != 2 || alice.RoundsWon != 1 || alice.PointsScored != 42 {
		t.Errorf("alice after round 2 = %+v", alice)
	}
	bob, err = db.GetPlayerStats(2)
	if err != nil {
		t.Fatalf("GetPlayerStats: %v", err)
	}
	if bob.RoundsPlayed != 2 || bob.RoundsWon != 1 || bob.PointsScored != 25 {
		t.Errorf("bob after round 2 = %+v", bob)
	}
}

func TestGetPlayerStatsUnknown(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetPlayerStats(404)
	if err == nil {
		t.Fatal("expected error for unknown player")
	}
	if !strings.Contains(err.Error(), "not found") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestTopPlayersOrdering(t *testing.T) {
	db := newTestDB(t)

	rounds := []*RoundRecord{
		{RoomID: 1, WinnerID: 1, WinnerName: "alice",
			Scores: []ScoreEntry{{PlayerID: 2, Name: "bob", Points: 10}}},
		{RoomID: 1, WinnerID: 1, WinnerName: "alice",
			Scores: []ScoreEntry{{PlayerID: 2, Name: "bob", Points: 10}}},
		{RoomID: 2, WinnerID: 2, WinnerName: "bob",
			Scores: []ScoreEntry{{PlayerID: 3, Name: "carol", Points: 50}}},
		{RoomID: 3, WinnerID: 3, WinnerName: "carol",
			Scores: []ScoreEntry{{PlayerID: 4, Name: "dave", Points: 5}}},
	}
	for _, r := range rounds {
		if err := db.RecordRound(r); err != nil {
			t.Fatalf("RecordRound: %v", err)
		}
	}

	top, err := db.TopPlayers(10)
	if err != nil {
		t.Fatalf("TopPlayers: %v", err)
	}
	if len(top) != 4 {
		t.Fatalf("expected 4 players, got %d", len(top))
	}
	// alice has two wins; bob beats carol on points at one win each
	if top[0].Name != "alice" || top[1].Name != "bob" || top[2].Name != "carol" {
		t.Errorf("unexpected order: %s, %s, %s", top[0].Name, top[1].Name, top[2].Name)
	}

	top, err = db.TopPlayers(2)
	if err != nil {
		t.Fatalf("TopPlayers: %v", err)
	}
	if len(top) != 2 {
		t.Errorf("limit not honored, got %d rows", len(top))
	}
}
