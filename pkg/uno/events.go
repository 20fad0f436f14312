package uno

import (
	"encoding/json"
)

// Outbound event names as they appear on the wire.
const (
	EventPlayer         = "player"
	EventLobbyGamesList = "update_lobby_games_list"
	EventUpdatePlayers  = "update_players"
	EventUpdatePlayer   = "update_player"
	EventGameState      = "update_game_state"
	EventYourTurn       = "your_turn"
	EventCardPlayed     = "card_played"
	EventWinnerFound    = "winner_found"
	EventYouJoinedGame  = "you_joined_game"
	EventError          = "error"
)

// Event is an outbound event with its payload marshaled exactly once,
// so a broadcast fans the same bytes out to every queue.
type Event struct {
	Name    string
	Payload json.RawMessage
}

// NewEvent builds an event, marshaling the payload
func NewEvent(name string, payload interface{}) (*Event, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Event{Name: name, Payload: raw}, nil
}

// Sender delivers outbound events to one client. Implementations must
// not block: a send that cannot be queued immediately returns false and
// the event is dropped for that client.
type Sender interface {
	TrySend(ev *Event) bool
}

// PlayerPublic is the participant snapshot broadcast to a room.
type PlayerPublic struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	CardCount int    `json:"card_count"`
}

// PlayerPrivate is the targeted hand update; only its owner sees it.
type PlayerPrivate struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Hand        []Card `json:"hand"`
	CurrentGame int64  `json:"current_game"`
	IsSpectator bool   `json:"is_spectator"`
}

// GameState is the public per-room snapshot broadcast on every change.
type GameState struct {
	ID              int64 `json:"id"`
	Direction       int   `json:"direction"`
	CurrentPlayer   int64 `json:"current_player"`
	TopCard         *Card `json:"top_card"`
	DeckSize        int   `json:"deck_size"`
	PlayerCount     int   `json:"player_count"`
	RoundInProgress bool  `json:"round_in_progress"`
}

// CardPlayed announces an accepted play to the whole room.
type CardPlayed struct {
	PlayerID int64  `json:"player_id"`
	Cards    []Card `json:"cards"`
}

// PlayerScore is one row of the end-of-round scoring.
type PlayerScore struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Points int    `json:"points"`
}

// WinnerFound announces the round winner and the points left in every
// other hand.
type WinnerFound struct {
	Winner PlayerPublic  `json:"winner"`
	Scores []PlayerScore `json:"scores"`
}

// RoomSummary is one row of the lobby games list.
type RoomSummary struct {
	ID              int64 `json:"id"`
	PlayerCount     int   `json:"player_count"`
	RoundInProgress bool  `json:"round_in_progress"`
}

// PublicSnapshot returns the player's broadcastable view
func (p *Player) PublicSnapshot() PlayerPublic {
	return PlayerPublic{
		ID:        p.ID,
		Name:      p.Name,
		CardCount: len(p.Hand),
	}
}

// PrivateSnapshot returns the player's own view including the hand
func (p *Player) PrivateSnapshot() PlayerPrivate {
	hand := make([]Card, len(p.Hand))
	copy(hand, p.Hand)
	return PlayerPrivate{
		ID:          p.ID,
		Name:        p.Name,
		Hand:        hand,
		CurrentGame: p.CurrentRoom,
		IsSpectator: p.IsSpectator,
	}
}
