package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/decred/slog"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/vctt94/unoserver/pkg/uno"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second
	// Maximum inbound message size in bytes
	maxMessageSize = 4096
	// Outbound queue capacity per client
	sendQueueSize = 32
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsConn is the subset of *websocket.Conn the session uses. The seam
// lets tests drive a session with a fake connection.
type wsConn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	SetReadLimit(limit int64)
	SetWriteDeadline(t time.Time) error
	Close() error
}

// Session owns one client connection: a readPump decoding inbound
// commands and a writePump draining the outbound queue. The id is a
// correlation id for logs; the playerID is the participant identity on
// the wire.
type Session struct {
	id       string
	playerID int64
	player   *uno.Player
	conn     wsConn
	server   *Server
	log      slog.Logger

	send chan *uno.Event
	done chan struct{}

	mu        sync.Mutex
	roomID    int64
	closeOnce sync.Once
}

func newSession(server *Server, conn wsConn, player *uno.Player, log slog.Logger) *Session {
	return &Session{
		id:       uuid.NewString(),
		playerID: player.ID,
		player:   player,
		conn:     conn,
		server:   server,
		log:      log,
		send:     make(chan *uno.Event, sendQueueSize),
		done:     make(chan struct{}),
	}
}

// TrySend queues an event for delivery. It never blocks: a full queue
// or a closed session drops the event and returns false.
func (s *Session) TrySend(ev *uno.Event) bool {
	select {
	case <-s.done:
		return false
	default:
	}
	select {
	case s.send <- ev:
		return true
	default:
		return false
	}
}

// RoomID returns the room this session is seated in, 0 for the lobby
func (s *Session) RoomID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.roomID
}

func (s *Session) setRoomID(id int64) {
	s.mu.Lock()
	s.roomID = id
	s.mu.Unlock()
}

// close makes the pumps wind down. Safe to call more than once.
func (s *Session) close() {
	s.closeOnce.Do(func() {
		close(s.done)
		s.conn.Close()
	})
}

// readPump reads inbound commands and dispatches them until the
// connection drops. It owns session cleanup: on exit the participant
// leaves their room and the lobby forgets the session.
func (s *Session) readPump() {
	defer func() {
		s.close()
		s.server.dropSession(s)
	}()

	s.conn.SetReadLimit(maxMessageSize)
	for {
		messageType, data, err := s.conn.ReadMessage()
		if err != nil {
			s.log.Debugf("session %s: read loop ending: %v", s.id, err)
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		cmd, err := DecodeCommand(data)
		if err != nil {
			s.log.Warnf("session %s: undecodable command: %v", s.id, err)
			s.sendError(err)
			continue
		}
		s.log.Tracef("session %s: command %s", s.id, spew.Sdump(cmd))

		s.server.handleCommand(s, cmd)
	}
}

// writePump drains the outbound queue onto the wire, applying a write
// deadline per message, and sends a close frame on the way out.
func (s *Session) writePump() {
	defer s.conn.Close()

	for {
		select {
		case ev := <-s.send:
			data, err := EncodeEvent(ev)
			if err != nil {
				s.log.Errorf("session %s: failed to encode %s event: %v", s.id, ev.Name, err)
				continue
			}
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				s.log.Debugf("session %s: write failed: %v", s.id, err)
				return
			}
		case <-s.done:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			s.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}

// sendError delivers an error event with a short textual reason
func (s *Session) sendError(cause error) {
	ev, err := uno.NewEvent(uno.EventError, cause.Error())
	if err != nil {
		s.log.Errorf("session %s: failed to build error event: %v", s.id, err)
		return
	}
	if !s.TrySend(ev) {
		s.log.Warnf("session %s: dropping error event: queue full", s.id)
	}
}
