package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vctt94/unoserver/pkg/client"
	"github.com/vctt94/unoserver/pkg/uno"
)

// localErrMsg carries a client-side command failure into Update
type localErrMsg struct{ err error }

// listenForUpdates waits for the next server event. Update re-issues
// this command after every message so the stream never stalls.
func listenForUpdates(c *client.Client) tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-c.UpdatesCh:
			return msg
		case <-c.Done():
			return client.DisconnectedMsg{}
		}
	}
}

// run wraps a client command so its failure surfaces in the UI
func run(f func() error) tea.Cmd {
	return func() tea.Msg {
		if err := f(); err != nil {
			return localErrMsg{err: err}
		}
		return nil
	}
}

func fetchGamesCmd(c *client.Client) tea.Cmd {
	return run(c.FetchGames)
}

func createGameCmd(c *client.Client) tea.Cmd {
	return run(c.CreateGame)
}

func joinGameCmd(c *client.Client, gameID int64) tea.Cmd {
	return run(func() error { return c.JoinGame(gameID) })
}

func leaveGameCmd(c *client.Client) tea.Cmd {
	return run(c.LeaveGame)
}

func playCardCmd(c *client.Client, card uno.Card, color uno.Color) tea.Cmd {
	return run(func() error { return c.PlayCard(card, color) })
}

func drawCardCmd(c *client.Client) tea.Cmd {
	return run(c.DrawCard)
}

func endGameCmd(c *client.Client) tea.Cmd {
	return run(c.EndGame)
}
