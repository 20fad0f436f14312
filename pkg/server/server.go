package server

import (
	"fmt"
	"math/rand"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/decred/slog"
	"github.com/vctt94/bisonbotkit/logging"

	"github.com/vctt94/unoserver/pkg/uno"
)

// Server owns the lobby: the set of rooms, the set of connected
// sessions, and the async event plane behind them. Lock hierarchy is
// Server → Table; s.mu is never held across a table call that takes
// the table lock.
type Server struct {
	log        slog.Logger
	logBackend *logging.LogBackend
	cfg        *Config
	db         Database

	mu         sync.RWMutex
	rooms      map[int64]*uno.Table
	sessions   map[int64]*Session
	nextRoomID int64

	rngMu sync.Mutex
	rng   *rand.Rand

	eventProcessor *EventProcessor
	stats          *statsCollector
}

// NewServer creates the lobby server and starts its event processor
func NewServer(cfg *Config, db Database, logBackend *logging.LogBackend) *Server {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	s := &Server{
		log:        logBackend.Logger("SERVER"),
		logBackend: logBackend,
		cfg:        cfg,
		db:         db,
		rooms:      make(map[int64]*uno.Table),
		sessions:   make(map[int64]*Session),
		nextRoomID: 1,
		rng:        rand.New(rand.NewSource(seed)),
	}

	s.eventProcessor = NewEventProcessor(s, 100, 2)
	s.eventProcessor.Start()

	s.stats = newStatsCollector(logBackend.Logger("STAT"), s)
	if cfg.StatsInterval > 0 {
		s.stats.start(cfg.StatsInterval)
	}

	return s
}

// Stop winds the server down: sessions are closed, then the event
// processor drains. The ledger database is owned by the caller.
func (s *Server) Stop() {
	s.mu.RLock()
	open := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		open = append(open, sess)
	}
	s.mu.RUnlock()
	for _, sess := range open {
		sess.close()
	}

	if s.stats != nil {
		s.stats.stop()
	}
	if s.eventProcessor != nil {
		s.eventProcessor.Stop()
	}
}

// HandleWS upgrades an HTTP request into a game session. The display
// name comes from the "name" query parameter when present.
func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warnf("Websocket upgrade failed: %v", err)
		return
	}

	sess := s.registerSession(conn, r.URL.Query().Get("name"))
	s.greetSession(sess)

	go sess.writePump()
	go sess.readPump()
}

// Handler returns the HTTP routes served by this server
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.HandleWS)
	return mux
}

// registerSession allocates a participant identity and tracks the
// session in the lobby.
func (s *Server) registerSession(conn wsConn, name string) *Session {
	s.mu.Lock()
	var id int64
	for {
		s.rngMu.Lock()
		id = s.rng.Int63()
		s.rngMu.Unlock()
		if id == 0 {
			continue
		}
		if _, taken := s.sessions[id]; !taken {
			break
		}
	}

	if name == "" {
		name = fmt.Sprintf("player-%04d", id%10000)
	}
	if len(name) > 32 {
		name = name[:32]
	}

	player := uno.NewPlayer(id, name)
	sess := newSession(s, conn, player, s.logBackend.Logger("SESS"))
	s.sessions[id] = sess
	s.mu.Unlock()

	s.stats.connections.Add(1)
	s.log.Infof("Player %d (%s) connected, session %s", id, name, sess.id)
	return sess
}

// greetSession sends the identity event and the current room list to a
// freshly connected client.
func (s *Server) greetSession(sess *Session) {
	ev, err := uno.NewEvent(uno.EventPlayer, sess.player.PrivateSnapshot())
	if err != nil {
		s.log.Errorf("Failed to build player event: %v", err)
	} else {
		sess.TrySend(ev)
	}
	s.sendRoomList(sess)
}

// dropSession removes a disconnected session: the participant leaves
// whatever room they were seated in and the lobby forgets them.
func (s *Server) dropSession(sess *Session) {
	if roomID := sess.RoomID(); roomID != 0 {
		if err := s.leaveRoom(sess, roomID); err != nil {
			s.log.Warnf("Cleanup of session %s from room %d failed: %v", sess.id, roomID, err)
		}
	}

	s.mu.Lock()
	delete(s.sessions, sess.playerID)
	s.mu.Unlock()

	s.log.Infof("Player %d disconnected, session %s", sess.playerID, sess.id)
}

// createRoom allocates a room with the creator as host. The caller
// still seats the creator through the table's Join.
func (s *Server) createRoom(hostID int64) *uno.Table {
	s.mu.Lock()
	id := s.nextRoomID
	s.nextRoomID++

	table := uno.NewTable(uno.TableConfig{
		ID:             id,
		Log:            s.logBackend.Logger("ROOM"),
		GameLog:        s.logBackend.Logger("GAME"),
		HostID:         hostID,
		MinPlayers:     s.cfg.MinPlayers,
		MaxPlayers:     s.cfg.MaxPlayers,
		AutoStartDelay: s.cfg.AutoStartDelay,
		Rng:            s.tableRng(id),
	})
	table.SetEventChannel(s.eventProcessor.Queue())
	s.rooms[id] = table
	s.mu.Unlock()

	s.stats.roomsCreated.Add(1)
	s.log.Infof("Room %d created by player %d", id, hostID)
	return table
}

// tableRng derives a per-room source when a fixed seed is configured,
// keeping whole-server runs reproducible. Without a seed the table
// seeds itself from the clock.
func (s *Server) tableRng(roomID int64) *rand.Rand {
	if s.cfg.Seed == 0 {
		return nil
	}
	return rand.New(rand.NewSource(s.cfg.Seed + roomID))
}

func (s *Server) getRoom(id int64) (*uno.Table, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	table, ok := s.rooms[id]
	return table, ok
}

// leaveRoom takes a session out of a room, closing the room when the
// last seat empties.
func (s *Server) leaveRoom(sess *Session, roomID int64) error {
	table, ok := s.getRoom(roomID)
	if !ok {
		return fmt.Errorf("game %d not found", roomID)
	}

	if err := table.Leave(sess.playerID); err != nil {
		return err
	}
	sess.setRoomID(0)

	removed := false
	s.mu.Lock()
	if t, ok := s.rooms[roomID]; ok && t.Size() == 0 {
		delete(s.rooms, roomID)
		removed = true
	}
	s.mu.Unlock()

	if removed {
		s.log.Infof("Room %d closed, no players left", roomID)
		s.BroadcastRoomList()
	}
	return nil
}

// roomSummaries builds the lobby list ordered by room id. Table
// references are collected first so no table call runs under s.mu.
func (s *Server) roomSummaries() []uno.RoomSummary {
	s.mu.RLock()
	tables := make([]*uno.Table, 0, len(s.rooms))
	for _, table := range s.rooms {
		tables = append(tables, table)
	}
	s.mu.RUnlock()

	summaries := make([]uno.RoomSummary, 0, len(tables))
	for _, table := range tables {
		summaries = append(summaries, table.Summary())
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].ID < summaries[j].ID })
	return summaries
}

// sendRoomList delivers the current room list to one session
func (s *Server) sendRoomList(sess *Session) {
	ev, err := uno.NewEvent(uno.EventLobbyGamesList, s.roomSummaries())
	if err != nil {
		s.log.Errorf("Failed to build room list event: %v", err)
		return
	}
	sess.TrySend(ev)
}

// BroadcastRoomList pushes the room list to every session idling in
// the lobby. Players seated in a room get a fresh list on return.
func (s *Server) BroadcastRoomList() {
	ev, err := uno.NewEvent(uno.EventLobbyGamesList, s.roomSummaries())
	if err != nil {
		s.log.Errorf("Failed to build room list event: %v", err)
		return
	}

	s.mu.RLock()
	idle := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		if sess.RoomID() == 0 {
			idle = append(idle, sess)
		}
	}
	s.mu.RUnlock()

	for _, sess := range idle {
		sess.TrySend(ev)
	}
}
