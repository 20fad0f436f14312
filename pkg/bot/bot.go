package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/decred/slog"

	"github.com/vctt94/unoserver/pkg/client"
	"github.com/vctt94/unoserver/pkg/uno"
	"github.com/vctt94/unoserver/pkg/utils"
)

// Bot is a headless client that seats itself in a room and plays legal
// moves until the connection drops or its context ends. It exists to
// exercise the client library end to end and to give a single human a
// live opponent.
type Bot struct {
	cfg    *Config
	client *client.Client
	log    slog.Logger

	rooms []uno.RoomSummary
}

// New connects the bot to the server
func New(ctx context.Context, cfg *Config) (*Bot, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c, err := client.NewClient(ctx, &client.Config{
		ServerAddr:    cfg.ServerAddr,
		Name:          cfg.Name,
		DataDir:       cfg.DataDir,
		DebugLevel:    cfg.DebugLevel,
		Notifications: client.NewNotificationManager(),
	})
	if err != nil {
		return nil, err
	}

	return &Bot{
		cfg:    cfg,
		client: c,
		log:    c.Log(),
	}, nil
}

// Client exposes the underlying game client
func (b *Bot) Client() *client.Client {
	return b.client
}

// Close disconnects the bot
func (b *Bot) Close() error {
	return b.client.Close()
}

// Run seats the bot and plays until the context ends or the connection
// drops.
func (b *Bot) Run(ctx context.Context) error {
	defer b.client.Close()

	waitCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	err := b.client.WaitForIdentity(waitCtx)
	cancel()
	if err != nil {
		return fmt.Errorf("no identity from server: %w", err)
	}
	b.log.Infof("Bot %s connected as player %d", b.cfg.Name, b.client.PlayerID())

	if err := b.seat(ctx); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-b.client.Done():
			return fmt.Errorf("connection closed")
		case msg := <-b.client.UpdatesCh:
			if err := b.handle(msg); err != nil {
				return err
			}
		}
	}
}

// seat joins the configured room, or the first open room, creating one
// when the lobby is empty.
func (b *Bot) seat(ctx context.Context) error {
	if b.cfg.GameID != 0 {
		return b.client.JoinGame(b.cfg.GameID)
	}

	if err := b.client.FetchGames(); err != nil {
		return err
	}

	// The room list answer arrives on the updates channel; grab it
	// there so the pick uses a current list.
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		msg, err := b.client.NextUpdate(time.Until(deadline))
		if err != nil {
			return fmt.Errorf("no room list from server: %w", err)
		}
		list, ok := msg.(client.RoomListMsg)
		if !ok {
			continue
		}
		for _, room := range list {
			if room.PlayerCount < 6 {
				b.log.Infof("Joining room %d (%d seated)", room.ID, room.PlayerCount)
				return b.client.JoinGame(room.ID)
			}
		}
		b.log.Infof("No open rooms, creating one")
		return b.client.CreateGame()
	}
	return fmt.Errorf("no room list from server")
}

// handle reacts to one server event
func (b *Bot) handle(msg interface{}) error {
	switch m := msg.(type) {
	case client.YourTurnMsg:
		if b.cfg.ThinkDelay > 0 {
			time.Sleep(b.cfg.ThinkDelay)
		}
		return b.takeTurn()

	case client.RoomListMsg:
		b.rooms = m

	case client.CardPlayedMsg:
		b.log.Debugf("Player %d played %s", m.PlayerID, utils.FormatCards(m.Cards))

	case client.WinnerMsg:
		if m.Winner.ID == b.client.PlayerID() {
			b.log.Infof("Bot won the round")
		} else {
			b.log.Infof("Round won by %s", m.Winner.Name)
		}

	case client.ServerErrMsg:
		// A rejected move means our view was stale; draw as a safe
		// retry next time the turn event fires.
		b.log.Warnf("Server rejected a command: %s", string(m))

	case client.DisconnectedMsg:
		return fmt.Errorf("disconnected: %v", m.Err)
	}
	return nil
}

// takeTurn plays the first legal set or draws
func (b *Bot) takeTurn() error {
	hand := b.client.CurrentHand()
	state := b.client.CurrentState()
	if state.TopCard == nil {
		b.log.Warnf("Turn signalled without a discard top, drawing")
		return b.client.DrawCard()
	}

	cards, color, ok := choosePlay(hand, *state.TopCard)
	if !ok {
		b.log.Debugf("Nothing playable on %s, drawing", utils.FormatCard(*state.TopCard))
		return b.client.DrawCard()
	}

	b.log.Debugf("Playing %s", utils.FormatCards(cards))
	return b.client.PlayCards(cards, color)
}
