package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vctt94/unoserver/pkg/uno"
	"github.com/vctt94/unoserver/pkg/utils"
)

func (m Model) View() string {
	switch m.state {
	case stateTable:
		return m.viewTable()
	default:
		return m.viewLobby()
	}
}

func (m Model) viewLobby() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("UNO — Lobby"))
	b.WriteString("\n\n")
	if m.playerID != 0 {
		b.WriteString(fmt.Sprintf("  Connected as %s (#%d)\n\n", m.playerName, m.playerID))
	}

	if len(m.rooms) == 0 {
		b.WriteString(blurredStyle.Render("  No open rooms."))
		b.WriteString("\n")
	} else {
		for i, room := range m.rooms {
			line := fmt.Sprintf("Room %d — %d player(s)", room.ID, room.PlayerCount)
			if room.RoundInProgress {
				line += " [round running]"
			}
			cursor := "  "
			style := blurredStyle
			if i == m.selectedRoom {
				cursor = "> "
				style = focusedStyle
			}
			b.WriteString("  " + cursor + style.Render(line) + "\n")
		}
	}

	b.WriteString(m.feedback())
	b.WriteString(helpStyle.Render("  ↑/↓ select · enter join · c create · r refresh · q quit"))
	return b.String()
}

func (m Model) viewTable() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("UNO — Room %d", m.gameID)))
	b.WriteString("\n\n")

	b.WriteString(m.renderPlayers())
	b.WriteString(m.renderTable())
	b.WriteString(m.renderHand())

	if m.lastWinner != nil {
		b.WriteString(m.renderWinner())
	}

	b.WriteString(m.feedback())
	help := "  ←/→ select · enter play · R/G/B/Y play wild as color · d draw · e end round · q leave"
	if m.isSpectator {
		help = "  spectating — q leave"
	}
	b.WriteString(helpStyle.Render(help))
	return b.String()
}

// renderPlayers shows everyone seated, marking the player to act
func (m Model) renderPlayers() string {
	if len(m.players) == 0 {
		return blurredStyle.Render("  Waiting for players...") + "\n"
	}

	parts := make([]string, 0, len(m.players))
	for _, p := range m.players {
		label := fmt.Sprintf("%s (%d)", p.Name, p.CardCount)
		switch {
		case p.ID == m.game.CurrentPlayer && m.game.RoundInProgress:
			label = currentPlayerStyle.Render("▶ " + label)
		case p.ID == m.playerID:
			label = focusedStyle.Render(label)
		default:
			label = blurredStyle.Render(label)
		}
		parts = append(parts, label)
	}
	return "  " + strings.Join(parts, "   ") + "\n"
}

// renderTable shows the discard top, deck size and direction
func (m Model) renderTable() string {
	if !m.game.RoundInProgress && m.lastWinner == nil {
		return messageStyle.Render("  Round starts when two players are seated.") + "\n"
	}

	var b strings.Builder
	if m.game.TopCard != nil {
		card := *m.game.TopCard
		style := topCardStyle
		if fg, ok := cardColors[card.GetColor()]; ok {
			style = style.BorderForeground(fg).Foreground(fg)
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Center,
			"  ", style.Render(utils.FormatCard(card))))
	}

	dir := "clockwise"
	if m.game.Direction < 0 {
		dir = "counter-clockwise"
	}
	b.WriteString(fmt.Sprintf("\n  Deck: %d cards · Direction: %s\n", m.game.DeckSize, dir))
	return b.String()
}

// renderHand shows our cards with the selection highlighted
func (m Model) renderHand() string {
	if m.isSpectator {
		return spectatorStyle.Render("  You are spectating this round.") + "\n"
	}
	if len(m.hand) == 0 {
		return ""
	}

	cards := make([]string, 0, len(m.hand))
	for i, card := range m.hand {
		cards = append(cards, styleForCard(card, i == m.selectedCard).Render(utils.FormatCard(card)))
	}

	var b strings.Builder
	b.WriteString("\n  Your hand:\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Center, cards...))
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderWinner() string {
	var b strings.Builder
	b.WriteString(winnerStyle.Render(fmt.Sprintf("%s wins the round!", m.lastWinner.Winner.Name)))
	b.WriteString("\n")
	for _, score := range m.lastWinner.Scores {
		b.WriteString(fmt.Sprintf("  %s left %d points on the table\n", score.Name, score.Points))
	}
	return b.String()
}

// feedback renders the transient message and error lines
func (m Model) feedback() string {
	var b strings.Builder
	if m.message != "" {
		b.WriteString(messageStyle.Render("  " + m.message))
		b.WriteString("\n")
	}
	if m.errMsg != "" {
		b.WriteString(errorStyle.Render("  ✗ " + m.errMsg))
		b.WriteString("\n")
	}
	return b.String()
}

// describePlay builds the play announcement line from the public
// participant list.
func describePlay(players []uno.PlayerPublic, played uno.CardPlayed) string {
	name := fmt.Sprintf("Player %d", played.PlayerID)
	for _, p := range players {
		if p.ID == played.PlayerID {
			name = p.Name
			break
		}
	}
	return fmt.Sprintf("%s played %s", name, utils.FormatCards(played.Cards))
}
