package server

import (
	"time"

	"github.com/vctt94/unoserver/pkg/server/internal/db"
	"github.com/vctt94/unoserver/pkg/uno"
)

// EventHandler defines the interface for handling room events
type EventHandler interface {
	HandleEvent(event uno.RoomEvent)
}

// ------------------------ Ledger Handler ------------------------

// LedgerHandler writes finished rounds to the results ledger
type LedgerHandler struct {
	server *Server
}

// NewLedgerHandler creates a new ledger handler
func NewLedgerHandler(server *Server) *LedgerHandler {
	return &LedgerHandler{server: server}
}

// HandleEvent records completed rounds. An aborted round carries no
// winner payload and leaves no trace in the ledger.
func (lh *LedgerHandler) HandleEvent(event uno.RoomEvent) {
	if event.Type != uno.RoomEventRoundEnded {
		return
	}
	result, ok := event.Payload.(*uno.WinnerFound)
	if !ok || result == nil {
		return
	}

	record := &db.RoundRecord{
		RoomID:     event.RoomID,
		WinnerID:   result.Winner.ID,
		WinnerName: result.Winner.Name,
		FinishedAt: time.Now(),
	}
	for _, score := range result.Scores {
		record.Scores = append(record.Scores, db.ScoreEntry{
			PlayerID: score.ID,
			Name:     score.Name,
			Points:   score.Points,
		})
	}

	if err := lh.server.db.RecordRound(record); err != nil {
		lh.server.log.Errorf("Failed to record round for room %d: %v", event.RoomID, err)
		return
	}
	lh.server.log.Debugf("Recorded round won by player %d in room %d", result.Winner.ID, event.RoomID)
}

// ------------------------ Lobby Handler ------------------------

// LobbyHandler refreshes the room list for lobby clients whenever a
// room's headcount or round flag changes.
type LobbyHandler struct {
	server *Server
}

// NewLobbyHandler creates a new lobby handler
func NewLobbyHandler(server *Server) *LobbyHandler {
	return &LobbyHandler{server: server}
}

// HandleEvent processes an event and rebroadcasts the lobby list
func (lh *LobbyHandler) HandleEvent(event uno.RoomEvent) {
	switch event.Type {
	case uno.RoomEventPlayerJoined, uno.RoomEventPlayerLeft,
		uno.RoomEventRoundStarted, uno.RoomEventRoundEnded:
		lh.server.BroadcastRoomList()
	}
}

// ------------------------ Stats Handler ------------------------

// StatsHandler feeds the periodic report's counters
type StatsHandler struct {
	server *Server
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(server *Server) *StatsHandler {
	return &StatsHandler{server: server}
}

// HandleEvent bumps the counter matching the event type
func (sh *StatsHandler) HandleEvent(event uno.RoomEvent) {
	switch event.Type {
	case uno.RoomEventRoundStarted:
		sh.server.stats.roundsStarted.Add(1)
	case uno.RoomEventRoundEnded:
		sh.server.stats.roundsEnded.Add(1)
	}
}
