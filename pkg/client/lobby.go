package client

import (
	"fmt"

	"github.com/vctt94/unoserver/pkg/uno"
)

// FetchGames asks the server for the current room list. The reply
// arrives as a room list notification.
func (c *Client) FetchGames() error {
	return c.sendCommand(&command{Action: "fetch_games"})
}

// CreateGame opens a new room with us as host. The server seats us in
// it; confirmation arrives as a joined-game notification.
func (c *Client) CreateGame() error {
	if c.CurrentGameID() != 0 {
		return uno.ErrAlreadyInGame
	}
	return c.sendCommand(&command{Action: "create_game"})
}

// JoinGame seats us in an existing room
func (c *Client) JoinGame(gameID int64) error {
	if gameID == 0 {
		return fmt.Errorf("game id required")
	}
	if c.CurrentGameID() != 0 {
		return uno.ErrAlreadyInGame
	}
	return c.sendCommand(&command{Action: "join_game", GameID: gameID})
}

// LeaveGame gives up our seat and returns us to the lobby
func (c *Client) LeaveGame() error {
	gameID := c.CurrentGameID()
	if gameID == 0 {
		return uno.ErrGameNotFound
	}
	if err := c.sendCommand(&command{Action: "leave_game", GameID: gameID}); err != nil {
		return err
	}
	c.Lock()
	c.GameID = 0
	c.Hand = nil
	c.Players = nil
	c.Unlock()
	return nil
}

// PlayCard plays a single card from our hand. For a wild, color names
// the chosen color.
func (c *Client) PlayCard(card uno.Card, color uno.Color) error {
	return c.PlayCards([]uno.Card{card}, color)
}

// PlayCards plays one or more same-valued cards from our hand. The
// server validates; rejections come back as error notifications or as
// an immediate error here when we are not seated.
func (c *Client) PlayCards(cards []uno.Card, color uno.Color) error {
	gameID := c.CurrentGameID()
	if gameID == 0 {
		return uno.ErrGameNotFound
	}
	if len(cards) == 0 {
		return uno.ErrEmptyPlay
	}

	cmd := &command{Action: "play_card", GameID: gameID}
	if len(cards) == 1 {
		cmd.Card = &cards[0]
	} else {
		cmd.Cards = cards
	}
	if color != "" && color != uno.ColorWild {
		cmd.Color = string(color)
	}
	return c.sendCommand(cmd)
}

// DrawCard draws one card from the deck on our turn
func (c *Client) DrawCard() error {
	gameID := c.CurrentGameID()
	if gameID == 0 {
		return uno.ErrGameNotFound
	}
	return c.sendCommand(&command{Action: "draw_card", GameID: gameID})
}

// EndGame asks the server to end the current round. Host only.
func (c *Client) EndGame() error {
	gameID := c.CurrentGameID()
	if gameID == 0 {
		return uno.ErrGameNotFound
	}
	return c.sendCommand(&command{Action: "end_game", GameID: gameID})
}
