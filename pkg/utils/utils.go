package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vctt94/unoserver/pkg/uno"
)

// FormatCard renders a card for logs and terminal display, e.g.
// "Red 7", "Blue skip", "wild(Green)" for a wild played as green.
func FormatCard(card uno.Card) string {
	color := card.GetColor()
	value := card.GetValue()
	if card.IsWild() && color != uno.ColorWild {
		return fmt.Sprintf("%s(%s)", value, color)
	}
	return fmt.Sprintf("%s %s", color, value)
}

// FormatCards renders a hand as a single line
func FormatCards(cards []uno.Card) string {
	if len(cards) == 0 {
		return "None"
	}
	parts := make([]string, 0, len(cards))
	for _, card := range cards {
		parts = append(parts, FormatCard(card))
	}
	return strings.Join(parts, ", ")
}

// EnsureDataDirExists creates the datadir and necessary subdirectories if they don't exist
func EnsureDataDirExists(datadir string) error {
	if datadir == "" {
		return fmt.Errorf("datadir cannot be empty")
	}

	// Create main datadir
	if err := os.MkdirAll(datadir, 0700); err != nil {
		return fmt.Errorf("failed to create datadir %s: %v", datadir, err)
	}

	// Create logs subdirectory
	logsDir := filepath.Join(datadir, "logs")
	if err := os.MkdirAll(logsDir, 0700); err != nil {
		return fmt.Errorf("failed to create logs directory %s: %v", logsDir, err)
	}

	return nil
}
