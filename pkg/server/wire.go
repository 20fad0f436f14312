package server

import (
	"encoding/json"
	"fmt"

	"github.com/vctt94/unoserver/pkg/uno"
)

// Inbound action names as they appear on the wire.
const (
	ActionFetchGames = "fetch_games"
	ActionCreateGame = "create_game"
	ActionJoinGame   = "join_game"
	ActionPlayCard   = "play_card"
	ActionDrawCard   = "draw_card"
	ActionLeaveGame  = "leave_game"
	ActionEndGame    = "end_game"
)

// Envelope is the outbound wire frame. Data carries the payload as a
// JSON-encoded string, not an embedded object; clients decode twice.
type Envelope struct {
	SV   string `json:"sv"`
	Data string `json:"data"`
}

// EncodeEvent wraps an event into the wire envelope
func EncodeEvent(ev *uno.Event) ([]byte, error) {
	return json.Marshal(Envelope{
		SV:   ev.Name,
		Data: string(ev.Payload),
	})
}

// Command is an inbound client request. play_card accepts either a
// single card or a cards list; color is an accepted alternative way to
// declare a wild's chosen color.
type Command struct {
	Action string     `json:"action"`
	GameID int64      `json:"game_id,omitempty"`
	Card   *uno.Card  `json:"card,omitempty"`
	Cards  []uno.Card `json:"cards,omitempty"`
	Color  string     `json:"color,omitempty"`
}

// DecodeCommand parses an inbound message
func DecodeCommand(data []byte) (*Command, error) {
	var cmd Command
	if err := json.Unmarshal(data, &cmd); err != nil {
		return nil, err
	}
	if cmd.Action == "" {
		return nil, fmt.Errorf("missing action")
	}
	return &cmd, nil
}

// PlayedCards normalizes the card/cards fields into the declared play,
// applying the command-level color to a wild that did not carry one.
func (c *Command) PlayedCards() ([]uno.Card, error) {
	var cards []uno.Card
	switch {
	case len(c.Cards) > 0:
		cards = c.Cards
	case c.Card != nil:
		cards = []uno.Card{*c.Card}
	default:
		return nil, uno.ErrEmptyPlay
	}

	if c.Color != "" {
		chosen, err := uno.ParseColor(c.Color)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", uno.ErrInvalidPlay, err)
		}
		for i, card := range cards {
			if card.IsWild() && card.GetColor() == uno.ColorWild {
				cards[i] = card.WithColor(chosen)
			}
		}
	}
	return cards, nil
}
