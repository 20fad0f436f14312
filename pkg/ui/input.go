package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vctt94/unoserver/pkg/uno"
)

// handleKey routes key presses by screen
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.state {
	case stateLobby:
		return m.handleLobbyKey(msg)
	case stateTable:
		return m.handleTableKey(msg)
	}
	return m, nil
}

func (m Model) handleLobbyKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "up", "k":
		if m.selectedRoom > 0 {
			m.selectedRoom--
		}

	case "down", "j":
		if m.selectedRoom < len(m.rooms)-1 {
			m.selectedRoom++
		}

	case "enter":
		if len(m.rooms) == 0 {
			m.errMsg = "No rooms to join; press c to create one"
			return m, nil
		}
		m.errMsg = ""
		return m, joinGameCmd(m.client, m.rooms[m.selectedRoom].ID)

	case "c":
		m.errMsg = ""
		return m, createGameCmd(m.client)

	case "r":
		m.errMsg = ""
		return m, fetchGamesCmd(m.client)
	}
	return m, nil
}

func (m Model) handleTableKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		m = m.leaveTable()
		return m, tea.Batch(leaveGameCmd(m.client), fetchGamesCmd(m.client))

	case "left", "h":
		if m.selectedCard > 0 {
			m.selectedCard--
		}

	case "right", "l":
		if m.selectedCard < len(m.hand)-1 {
			m.selectedCard++
		}

	case "enter":
		return m.playSelected("")

	// A wild needs a declared color; these play the selected card as
	// that color directly.
	case "R":
		return m.playSelected(uno.Red)
	case "G":
		return m.playSelected(uno.Green)
	case "B":
		return m.playSelected(uno.Blue)
	case "Y":
		return m.playSelected(uno.Yellow)

	case "d":
		if !m.myTurn {
			m.errMsg = "Wait for your turn"
			return m, nil
		}
		m.errMsg = ""
		return m, drawCardCmd(m.client)

	case "e":
		m.errMsg = ""
		return m, endGameCmd(m.client)
	}
	return m, nil
}

// playSelected plays the highlighted card. Wilds require a chosen
// color; playing one with enter prompts for the color keys instead.
func (m Model) playSelected(color uno.Color) (tea.Model, tea.Cmd) {
	if m.isSpectator {
		m.errMsg = "Spectators cannot play"
		return m, nil
	}
	if !m.myTurn {
		m.errMsg = "Wait for your turn"
		return m, nil
	}
	if len(m.hand) == 0 || m.selectedCard >= len(m.hand) {
		return m, nil
	}

	card := m.hand[m.selectedCard]
	if card.IsWild() && color == "" {
		m.errMsg = "Pick a color for the wild: R, G, B or Y"
		return m, nil
	}

	m.errMsg = ""
	return m, playCardCmd(m.client, card, color)
}
