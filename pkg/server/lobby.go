package server

import (
	"fmt"

	"github.com/vctt94/unoserver/pkg/uno"
)

// handleCommand dispatches one decoded client command. Failures never
// close the connection; they come back as error events so the client
// can correct and retry.
func (s *Server) handleCommand(sess *Session, cmd *Command) {
	s.stats.commands.Add(1)

	var err error
	switch cmd.Action {
	case ActionFetchGames:
		s.sendRoomList(sess)
	case ActionCreateGame:
		err = s.handleCreateGame(sess)
	case ActionJoinGame:
		err = s.handleJoinGame(sess, cmd.GameID)
	case ActionLeaveGame:
		err = s.handleLeaveGame(sess)
	case ActionPlayCard:
		err = s.handlePlayCard(sess, cmd)
	case ActionDrawCard:
		err = s.handleDrawCard(sess, cmd)
	case ActionEndGame:
		err = s.handleEndGame(sess, cmd)
	default:
		err = fmt.Errorf("unknown action %q", cmd.Action)
	}

	if err != nil {
		s.log.Debugf("Command %s from player %d failed: %v", cmd.Action, sess.playerID, err)
		sess.sendError(err)
	}
}

// handleCreateGame opens a fresh room with the requester as host and
// seats them in it.
func (s *Server) handleCreateGame(sess *Session) error {
	if sess.RoomID() != 0 {
		return uno.ErrAlreadyInGame
	}

	table := s.createRoom(sess.playerID)
	if err := table.Join(sess.player, sess); err != nil {
		s.mu.Lock()
		delete(s.rooms, table.ID())
		s.mu.Unlock()
		return err
	}
	sess.setRoomID(table.ID())
	return nil
}

func (s *Server) handleJoinGame(sess *Session, gameID int64) error {
	if sess.RoomID() != 0 {
		return uno.ErrAlreadyInGame
	}
	if gameID == 0 {
		return fmt.Errorf("join_game needs a game_id")
	}

	table, ok := s.getRoom(gameID)
	if !ok {
		return uno.ErrGameNotFound
	}
	if err := table.Join(sess.player, sess); err != nil {
		return err
	}
	sess.setRoomID(gameID)
	return nil
}

func (s *Server) handleLeaveGame(sess *Session) error {
	roomID := sess.RoomID()
	if roomID == 0 {
		return uno.ErrGameNotFound
	}
	if err := s.leaveRoom(sess, roomID); err != nil {
		return err
	}
	// Back in the lobby, start them off with a current list
	s.sendRoomList(sess)
	return nil
}

func (s *Server) handlePlayCard(sess *Session, cmd *Command) error {
	table, err := s.resolveRoom(sess, cmd.GameID)
	if err != nil {
		return err
	}
	cards, err := cmd.PlayedCards()
	if err != nil {
		return err
	}
	return table.HandlePlayCards(sess.playerID, cards)
}

func (s *Server) handleDrawCard(sess *Session, cmd *Command) error {
	table, err := s.resolveRoom(sess, cmd.GameID)
	if err != nil {
		return err
	}
	return table.HandleDrawCard(sess.playerID)
}

// handleEndGame lets the room's host cut a round short
func (s *Server) handleEndGame(sess *Session, cmd *Command) error {
	table, err := s.resolveRoom(sess, cmd.GameID)
	if err != nil {
		return err
	}
	return table.HandleEndRound(sess.playerID)
}

// resolveRoom finds the room a gameplay command applies to: the
// command's game_id when present, the session's seat otherwise.
func (s *Server) resolveRoom(sess *Session, gameID int64) (*uno.Table, error) {
	id := gameID
	if id == 0 {
		id = sess.RoomID()
	}
	if id == 0 {
		return nil, uno.ErrGameNotFound
	}
	table, ok := s.getRoom(id)
	if !ok {
		return nil, uno.ErrGameNotFound
	}
	return table, nil
}
