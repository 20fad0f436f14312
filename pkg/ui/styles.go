package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/vctt94/unoserver/pkg/uno"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true).
			MarginLeft(2)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Margin(1, 0)

	messageStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("140")).
			MarginTop(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			MarginTop(1)

	focusedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205"))

	blurredStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	winnerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("46")).
			Bold(true).
			Border(lipgloss.DoubleBorder()).
			Padding(0, 2).
			Margin(1, 0)

	currentPlayerStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("46")).
				Bold(true)

	spectatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true)

	cardBaseStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Margin(0, 1).
			Border(lipgloss.RoundedBorder())

	selectedCardStyle = lipgloss.NewStyle().
				Padding(0, 1).
				Margin(0, 1).
				Border(lipgloss.ThickBorder()).
				BorderForeground(lipgloss.Color("205")).
				Bold(true)

	topCardStyle = lipgloss.NewStyle().
			Padding(0, 2).
			Margin(1, 1).
			Border(lipgloss.DoubleBorder()).
			Bold(true)
)

// cardColors maps each card color to a terminal foreground
var cardColors = map[uno.Color]lipgloss.Color{
	uno.Red:       lipgloss.Color("196"),
	uno.Yellow:    lipgloss.Color("226"),
	uno.Green:     lipgloss.Color("46"),
	uno.Blue:      lipgloss.Color("39"),
	uno.ColorWild: lipgloss.Color("201"),
}

// styleForCard picks the card style with the card's color applied
func styleForCard(card uno.Card, selected bool) lipgloss.Style {
	base := cardBaseStyle
	if selected {
		base = selectedCardStyle
	}
	if fg, ok := cardColors[card.GetColor()]; ok {
		return base.Foreground(fg)
	}
	return base
}
