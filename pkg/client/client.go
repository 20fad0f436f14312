package client

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/davecgh/go-spew/spew"
	"github.com/decred/slog"
	"github.com/gorilla/websocket"
	"github.com/vctt94/bisonbotkit/logging"

	"github.com/vctt94/unoserver/pkg/uno"
)

// Messages delivered on UpdatesCh for UI consumption. Every server
// event becomes one of these in arrival order.
type (
	// IdentityMsg carries the identity assigned on connect
	IdentityMsg uno.PlayerPrivate
	// RoomListMsg carries a lobby room list refresh
	RoomListMsg []uno.RoomSummary
	// JoinedGameMsg reports our own successful join
	JoinedGameMsg uno.RoomSummary
	// PlayersMsg carries the room participant list
	PlayersMsg []uno.PlayerPublic
	// HandMsg carries our private hand
	HandMsg uno.PlayerPrivate
	// GameStateMsg carries the public room snapshot
	GameStateMsg uno.GameState
	// YourTurnMsg signals it is our turn to act
	YourTurnMsg struct{}
	// CardPlayedMsg reports an accepted play by anyone in the room
	CardPlayedMsg uno.CardPlayed
	// WinnerMsg reports the end-of-round result
	WinnerMsg uno.WinnerFound
	// ServerErrMsg carries a command rejection reason
	ServerErrMsg string
	// DisconnectedMsg reports that the connection dropped
	DisconnectedMsg struct{ Err error }
)

// wireConn is the subset of *websocket.Conn the client uses; tests
// substitute a scripted implementation.
type wireConn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// envelope mirrors the server's outbound wire frame
type envelope struct {
	SV   string `json:"sv"`
	Data string `json:"data"`
}

// command mirrors the server's inbound wire frame
type command struct {
	Action string     `json:"action"`
	GameID int64      `json:"game_id,omitempty"`
	Card   *uno.Card  `json:"card,omitempty"`
	Cards  []uno.Card `json:"cards,omitempty"`
	Color  string     `json:"color,omitempty"`
}

// Client is a connected game client. It owns the websocket, demuxes
// inbound events into the NotificationManager plus UpdatesCh, and
// offers one method per server command.
type Client struct {
	sync.RWMutex
	ID          int64
	Name        string
	Hand        []uno.Card
	GameID      int64
	IsSpectator bool
	GameState   uno.GameState
	Players     []uno.PlayerPublic

	cfg        *Config
	conn       wireConn
	ntfns      *NotificationManager
	log        slog.Logger
	logBackend *logging.LogBackend

	writeMu sync.Mutex

	UpdatesCh chan tea.Msg
	ErrorsCh  chan error

	identified chan struct{}
	idOnce     sync.Once
	done       chan struct{}
	closeOnce  sync.Once
}

// NewClient dials the server and starts the read loop. The returned
// client is usable immediately; WaitForIdentity blocks until the server
// has assigned an id.
func NewClient(ctx context.Context, cfg *Config) (*Client, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	logBackend, err := cfg.newLogBackend()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}

	wsURL, err := cfg.wsURL()
	if err != nil {
		return nil, err
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", wsURL, err)
	}

	c := &Client{
		Name:       cfg.Name,
		cfg:        cfg,
		conn:       conn,
		ntfns:      cfg.Notifications,
		log:        logBackend.Logger("CLNT"),
		logBackend: logBackend,
		UpdatesCh:  make(chan tea.Msg, 100),
		ErrorsCh:   make(chan error, 10),
		identified: make(chan struct{}),
		done:       make(chan struct{}),
	}

	go c.readLoop()

	return c, nil
}

// Close tears the connection down. Safe to call more than once.
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)
		err = c.conn.Close()
	})
	return err
}

// Done is closed when the read loop has terminated
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// WaitForIdentity blocks until the server has sent our player identity
// or the context expires.
func (c *Client) WaitForIdentity(ctx context.Context) error {
	select {
	case <-c.identified:
		return nil
	case <-c.done:
		return fmt.Errorf("connection closed before identity arrived")
	case <-ctx.Done():
		return ctx.Err()
	}
}

// readLoop reads envelopes until the connection drops and demuxes them
func (c *Client) readLoop() {
	defer c.Close()

	for {
		messageType, data, err := c.conn.ReadMessage()
		if err != nil {
			select {
			case <-c.done:
			default:
				c.log.Debugf("read loop ending: %v", err)
				c.pushUpdate(DisconnectedMsg{Err: err})
			}
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var env envelope
		if err := json.Unmarshal(data, &env); err != nil {
			c.log.Warnf("Undecodable envelope: %v: %s", err, spew.Sdump(data))
			continue
		}
		c.dispatch(&env)
	}
}

// dispatch decodes one envelope's payload and fans it out. The data
// field is a JSON-encoded string holding the payload object.
func (c *Client) dispatch(env *envelope) {
	payload := []byte(env.Data)

	switch env.SV {
	case uno.EventPlayer:
		var p uno.PlayerPrivate
		if !c.decode(env.SV, payload, &p) {
			return
		}
		c.Lock()
		c.ID = p.ID
		c.Name = p.Name
		c.Unlock()
		c.idOnce.Do(func() { close(c.identified) })
		c.ntfns.notifyIdentity(p)
		c.pushUpdate(IdentityMsg(p))

	case uno.EventLobbyGamesList:
		var rooms []uno.RoomSummary
		if !c.decode(env.SV, payload, &rooms) {
			return
		}
		c.ntfns.notifyRoomList(rooms)
		c.pushUpdate(RoomListMsg(rooms))

	case uno.EventYouJoinedGame:
		var room uno.RoomSummary
		if !c.decode(env.SV, payload, &room) {
			return
		}
		c.Lock()
		c.GameID = room.ID
		c.Unlock()
		c.ntfns.notifyJoinedGame(room)
		c.pushUpdate(JoinedGameMsg(room))

	case uno.EventUpdatePlayers:
		var players []uno.PlayerPublic
		if !c.decode(env.SV, payload, &players) {
			return
		}
		c.Lock()
		c.Players = players
		c.Unlock()
		c.ntfns.notifyPlayersUpdated(players)
		c.pushUpdate(PlayersMsg(players))

	case uno.EventUpdatePlayer:
		var p uno.PlayerPrivate
		if !c.decode(env.SV, payload, &p) {
			return
		}
		c.Lock()
		c.Hand = p.Hand
		c.GameID = p.CurrentGame
		c.IsSpectator = p.IsSpectator
		c.Unlock()
		c.ntfns.notifyHandUpdated(p)
		c.pushUpdate(HandMsg(p))

	case uno.EventGameState:
		var state uno.GameState
		if !c.decode(env.SV, payload, &state) {
			return
		}
		c.Lock()
		c.GameState = state
		c.Unlock()
		c.ntfns.notifyGameState(state)
		c.pushUpdate(GameStateMsg(state))

	case uno.EventYourTurn:
		c.ntfns.notifyYourTurn()
		c.pushUpdate(YourTurnMsg{})

	case uno.EventCardPlayed:
		var played uno.CardPlayed
		if !c.decode(env.SV, payload, &played) {
			return
		}
		c.ntfns.notifyCardPlayed(played)
		c.pushUpdate(CardPlayedMsg(played))

	case uno.EventWinnerFound:
		var result uno.WinnerFound
		if !c.decode(env.SV, payload, &result) {
			return
		}
		c.ntfns.notifyWinner(result)
		c.pushUpdate(WinnerMsg(result))

	case uno.EventError:
		var reason string
		if !c.decode(env.SV, payload, &reason) {
			return
		}
		c.ntfns.notifyServerError(reason)
		c.pushUpdate(ServerErrMsg(reason))
		select {
		case c.ErrorsCh <- fmt.Errorf("%s", reason):
		default:
		}

	default:
		c.log.Warnf("Unknown event %q", env.SV)
	}
}

// decode unmarshals an event payload, logging failures with a dump of
// the raw bytes for diagnosis.
func (c *Client) decode(name string, data []byte, v interface{}) bool {
	if err := json.Unmarshal(data, v); err != nil {
		c.log.Warnf("Undecodable %s payload: %v: %s", name, err, spew.Sdump(data))
		return false
	}
	return true
}

// pushUpdate forwards a message to the UI channel without ever
// blocking the read loop.
func (c *Client) pushUpdate(msg tea.Msg) {
	select {
	case c.UpdatesCh <- msg:
	default:
		c.log.Warnf("Updates channel full, dropping %T", msg)
	}
}

// sendCommand writes one command frame to the server
func (c *Client) sendCommand(cmd *command) error {
	data, err := json.Marshal(cmd)
	if err != nil {
		return fmt.Errorf("failed to marshal %s command: %w", cmd.Action, err)
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	select {
	case <-c.done:
		return fmt.Errorf("connection closed")
	default:
	}
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Log returns the client's logger so wrappers share the log file
func (c *Client) Log() slog.Logger {
	return c.log
}

// CurrentGameID returns the room we are seated in, 0 for the lobby
func (c *Client) CurrentGameID() int64 {
	c.RLock()
	defer c.RUnlock()
	return c.GameID
}

// CurrentHand returns a copy of our hand
func (c *Client) CurrentHand() []uno.Card {
	c.RLock()
	defer c.RUnlock()
	hand := make([]uno.Card, len(c.Hand))
	copy(hand, c.Hand)
	return hand
}

// CurrentState returns the last seen public game state
func (c *Client) CurrentState() uno.GameState {
	c.RLock()
	defer c.RUnlock()
	return c.GameState
}

// PlayerID returns our server-assigned id, 0 before identity arrives
func (c *Client) PlayerID() int64 {
	c.RLock()
	defer c.RUnlock()
	return c.ID
}

// NextUpdate waits for the next UI message, mostly for tests and the
// bot's event loop.
func (c *Client) NextUpdate(timeout time.Duration) (tea.Msg, error) {
	select {
	case msg := <-c.UpdatesCh:
		return msg, nil
	case <-c.done:
		return nil, fmt.Errorf("connection closed")
	case <-time.After(timeout):
		return nil, fmt.Errorf("timed out waiting for update")
	}
}
