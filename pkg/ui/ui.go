package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vctt94/unoserver/pkg/client"
	"github.com/vctt94/unoserver/pkg/uno"
)

// screenState represents the current screen in the UI
type screenState int

const (
	stateLobby screenState = iota
	stateTable
)

// Model contains all the state for our UI
type Model struct {
	ctx    context.Context
	client *client.Client
	state  screenState

	// Identity
	playerID   int64
	playerName string

	// Lobby
	rooms        []uno.RoomSummary
	selectedRoom int

	// Table
	gameID       int64
	players      []uno.PlayerPublic
	hand         []uno.Card
	isSpectator  bool
	game         uno.GameState
	myTurn       bool
	selectedCard int
	lastWinner   *uno.WinnerFound

	// Transient feedback
	message string
	errMsg  string
}

// NewModel creates a new UI model bound to a connected client
func NewModel(ctx context.Context, c *client.Client) Model {
	return Model{
		ctx:        ctx,
		client:     c,
		state:      stateLobby,
		playerID:   c.PlayerID(),
		playerName: c.Name,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(listenForUpdates(m.client), fetchGamesCmd(m.client))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case client.IdentityMsg:
		m.playerID = msg.ID
		m.playerName = msg.Name
		return m, listenForUpdates(m.client)

	case client.RoomListMsg:
		m.rooms = msg
		if m.selectedRoom >= len(m.rooms) {
			m.selectedRoom = 0
		}
		return m, listenForUpdates(m.client)

	case client.JoinedGameMsg:
		m.state = stateTable
		m.gameID = msg.ID
		m.lastWinner = nil
		m.message = ""
		m.errMsg = ""
		return m, listenForUpdates(m.client)

	case client.PlayersMsg:
		m.players = msg
		return m, listenForUpdates(m.client)

	case client.HandMsg:
		m.hand = msg.Hand
		m.isSpectator = msg.IsSpectator
		if m.selectedCard >= len(m.hand) {
			m.selectedCard = 0
		}
		return m, listenForUpdates(m.client)

	case client.GameStateMsg:
		m.game = uno.GameState(msg)
		if m.game.CurrentPlayer != m.playerID {
			m.myTurn = false
		}
		if m.game.RoundInProgress {
			m.lastWinner = nil
		}
		return m, listenForUpdates(m.client)

	case client.YourTurnMsg:
		m.myTurn = true
		m.message = "Your turn"
		return m, listenForUpdates(m.client)

	case client.CardPlayedMsg:
		m.message = describePlay(m.players, uno.CardPlayed(msg))
		return m, listenForUpdates(m.client)

	case client.WinnerMsg:
		result := uno.WinnerFound(msg)
		m.lastWinner = &result
		m.myTurn = false
		return m, listenForUpdates(m.client)

	case client.ServerErrMsg:
		m.errMsg = string(msg)
		return m, listenForUpdates(m.client)

	case client.DisconnectedMsg:
		m.errMsg = "Disconnected from server"
		return m, tea.Quit

	case localErrMsg:
		m.errMsg = msg.err.Error()
		return m, nil
	}

	return m, nil
}

// leaveTable resets the table view back to the lobby
func (m Model) leaveTable() Model {
	m.state = stateLobby
	m.gameID = 0
	m.players = nil
	m.hand = nil
	m.game = uno.GameState{}
	m.myTurn = false
	m.selectedCard = 0
	m.lastWinner = nil
	m.message = ""
	m.errMsg = ""
	return m
}
