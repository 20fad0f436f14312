package uno

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/decred/slog"

	"github.com/vctt94/unoserver/pkg/statemachine"
)

// RoomEventType identifies a cross-cutting room notification
type RoomEventType string

const (
	RoomEventPlayerJoined RoomEventType = "player_joined"
	RoomEventPlayerLeft   RoomEventType = "player_left"
	RoomEventRoundStarted RoomEventType = "round_started"
	RoomEventRoundEnded   RoomEventType = "round_ended"
)

// RoomEvent represents a room event with type and payload. These flow
// to the server's async processor for ledger writes and lobby refresh;
// in-room gameplay events go straight to client queues instead.
type RoomEvent struct {
	Type    RoomEventType
	RoomID  int64
	Payload interface{}
}

// TableStateFn represents a table state function following Rob Pike's pattern
type TableStateFn = statemachine.StateFn[Table]

// TableConfig holds configuration for a new game room
type TableConfig struct {
	ID             int64
	Log            slog.Logger
	GameLog        slog.Logger
	HostID         int64
	MinPlayers     int
	MaxPlayers     int
	AutoStartDelay time.Duration // Delay before automatically starting the next round
	Rng            *rand.Rand    // Optional, time-seeded when nil
}

// RoomEventManager handles notifications for room events
type RoomEventManager struct {
	log          slog.Logger
	eventChannel chan<- RoomEvent
}

// SetEventChannel sets the event channel for the event manager
func (rem *RoomEventManager) SetEventChannel(eventChannel chan<- RoomEvent) {
	rem.eventChannel = eventChannel
}

// PublishEvent publishes an event to the channel. Best effort: a full
// channel drops the event with a warning and never stalls gameplay.
func (rem *RoomEventManager) PublishEvent(eventType RoomEventType, roomID int64, payload interface{}) {
	if rem.eventChannel != nil {
		select {
		case rem.eventChannel <- RoomEvent{
			Type:    eventType,
			RoomID:  roomID,
			Payload: payload,
		}:
		default:
			rem.log.Warnf("dropping %s event for room %d: event queue full", eventType, roomID)
		}
	}
}

// Table represents a game room. It manages seating and the round
// lifecycle and delegates card logic to Game. All gameplay events are
// enqueued to client senders while the table lock is held, so every
// client observes state changes in the same order.
type Table struct {
	log    slog.Logger
	config TableConfig
	pool   *Pool
	game   *Game
	mu     sync.RWMutex

	hostID     int64
	createdAt  time.Time
	lastAction time.Time

	eventManager *RoomEventManager

	// Last completed round result, kept for late queries
	lastResult *WinnerFound

	stateMachine *statemachine.StateMachine[Table]
}

// NewTable creates a new game room
func NewTable(cfg TableConfig) *Table {
	if cfg.MinPlayers <= 0 {
		cfg.MinPlayers = 2
	}
	if cfg.MaxPlayers <= 0 {
		cfg.MaxPlayers = 6
	}
	rng := cfg.Rng
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	t := &Table{
		log:          cfg.Log,
		config:       cfg,
		pool:         NewPool(cfg.Log),
		hostID:       cfg.HostID,
		createdAt:    time.Now(),
		lastAction:   time.Now(),
		eventManager: &RoomEventManager{log: cfg.Log},
	}

	gameLog := cfg.GameLog
	if gameLog == nil {
		gameLog = cfg.Log
	}
	t.game = NewGame(GameConfig{
		RoomID: cfg.ID,
		Rng:    rng,
		Log:    gameLog,
	}, t.pool)

	t.stateMachine = statemachine.NewStateMachine(t, tableStateWaitingForPlayers)

	return t
}

// State functions following Rob Pike's pattern
// Each state function performs its work and returns the next state function

// tableStateWaitingForPlayers handles the WAITING_FOR_PLAYERS state.
// The transition out is triggered by maybeStartRound dispatching
// tableStateRoundInProgress.
func tableStateWaitingForPlayers(entity *Table) TableStateFn {
	return tableStateWaitingForPlayers
}

// tableStateRoundInProgress handles the ROUND_IN_PROGRESS state
func tableStateRoundInProgress(entity *Table) TableStateFn {
	return tableStateRoundInProgress
}

// tableStateRoundEnded performs end-of-round cleanup and immediately
// returns the room to waiting. Assumes the table lock is held by the
// dispatching caller.
func tableStateRoundEnded(entity *Table) TableStateFn {
	entity.game.EndRound()
	entity.lastAction = time.Now()
	if entity.config.AutoStartDelay > 0 {
		entity.scheduleAutoStart()
	}
	return tableStateWaitingForPlayers
}

// GetStateString returns a string representation of the current room state
func (t *Table) GetStateString() string {
	currentState := t.stateMachine.GetCurrentState()
	if currentState == nil {
		return "TERMINATED"
	}

	// Use function pointer comparison to determine state
	switch fmt.Sprintf("%p", currentState) {
	case fmt.Sprintf("%p", tableStateWaitingForPlayers):
		return "WAITING_FOR_PLAYERS"
	case fmt.Sprintf("%p", tableStateRoundInProgress):
		return "ROUND_IN_PROGRESS"
	case fmt.Sprintf("%p", tableStateRoundEnded):
		return "ROUND_ENDED"
	default:
		return "UNKNOWN"
	}
}

// SetEventChannel sets the event channel for the table
func (t *Table) SetEventChannel(eventChannel chan<- RoomEvent) {
	t.eventManager.SetEventChannel(eventChannel)
}

// PublishEvent publishes a room event (non-blocking)
func (t *Table) PublishEvent(eventType RoomEventType, payload interface{}) {
	t.eventManager.PublishEvent(eventType, t.config.ID, payload)
}

// scheduleAutoStart arms a timer that re-evaluates the start condition
// after the configured delay. The evaluation takes the lock itself and
// is a no-op if a round started or the room emptied meanwhile.
func (t *Table) scheduleAutoStart() {
	time.AfterFunc(t.config.AutoStartDelay, func() {
		t.mu.Lock()
		t.maybeStartRound()
		t.mu.Unlock()
	})
}

// Join seats a participant in the room with their event sender. Joins
// during a round enter as spectators. The first participant to join an
// empty room becomes the host and the initial player to act.
func (t *Table) Join(player *Player, sender Sender) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.pool.Size() >= t.config.MaxPlayers {
		return ErrGameFull
	}

	player.IsSpectator = t.game.RoundInProgress()
	if err := t.pool.Register(player, sender); err != nil {
		return err
	}
	player.CurrentRoom = t.config.ID

	if t.pool.Size() == 1 {
		t.hostID = player.ID
		t.game.currentPlayerID = player.ID
	}
	t.lastAction = time.Now()

	t.log.Infof("room %d: %s joined (spectator=%v, %d seated)",
		t.config.ID, player.Name, player.IsSpectator, t.pool.Size())

	t.sendEventTo(player.ID, EventYouJoinedGame, t.summary())
	t.broadcastEvent(EventUpdatePlayers, t.playerSnapshots())
	t.sendEventTo(player.ID, EventUpdatePlayer, player.PrivateSnapshot())
	t.broadcastEvent(EventGameState, t.game.State())

	t.maybeStartRound()

	t.PublishEvent(RoomEventPlayerJoined, player.PublicSnapshot())
	return nil
}

// Leave removes a participant from the room. If the leaver held the
// turn it passes to the next eligible player first; if fewer than two
// active players remain mid-round, the round ends without a winner.
func (t *Table) Leave(playerID int64) error {
	t.mu.Lock()

	player, ok := t.pool.Get(playerID)
	if !ok {
		t.mu.Unlock()
		return ErrPlayerNotFound
	}

	wasCurrent := t.game.RoundInProgress() && t.game.CurrentPlayerID() == playerID
	t.game.PlayerLeaving(playerID)
	t.pool.Deregister(playerID)
	player.CurrentRoom = 0
	player.IsSpectator = false
	player.ClearHand()

	if !t.game.RoundInProgress() && t.game.CurrentPlayerID() == playerID {
		if actives := t.pool.ActivePlayers(); len(actives) > 0 {
			t.game.currentPlayerID = actives[0].ID
		} else {
			t.game.currentPlayerID = 0
		}
	}

	if t.hostID == playerID {
		if remaining := t.pool.Players(); len(remaining) > 0 {
			t.hostID = remaining[0].ID
			t.log.Debugf("room %d: host left, %s inherits", t.config.ID, remaining[0].Name)
		}
	}
	t.lastAction = time.Now()

	t.log.Infof("room %d: %s left (%d seated)", t.config.ID, player.Name, t.pool.Size())

	// A round needs two active players to continue, regardless of the
	// configured start threshold.
	aborted := t.game.RoundInProgress() && len(t.pool.ActivePlayers()) < 2
	if aborted {
		t.stateMachine.Dispatch(tableStateRoundEnded)
	}

	t.broadcastEvent(EventUpdatePlayers, t.playerSnapshots())
	t.broadcastEvent(EventGameState, t.game.State())
	if !aborted && wasCurrent {
		t.sendEventTo(t.game.CurrentPlayerID(), EventYourTurn, struct{}{})
	}
	t.mu.Unlock()

	t.PublishEvent(RoomEventPlayerLeft, player.PublicSnapshot())
	if aborted {
		t.PublishEvent(RoomEventRoundEnded, nil)
	}
	return nil
}

// maybeStartRound starts a round when enough active players are seated
// and none is running. Assumes the table lock is held.
func (t *Table) maybeStartRound() {
	if t.game.RoundInProgress() {
		return
	}
	if len(t.pool.ActivePlayers()) < t.config.MinPlayers {
		return
	}

	if err := t.game.StartRound(); err != nil {
		t.log.Errorf("room %d: failed to start round: %v", t.config.ID, err)
		return
	}
	t.stateMachine.Dispatch(tableStateRoundInProgress)
	t.lastAction = time.Now()

	t.broadcastEvent(EventGameState, t.game.State())
	t.broadcastEvent(EventUpdatePlayers, t.playerSnapshots())
	for _, p := range t.pool.ActivePlayers() {
		t.sendEventTo(p.ID, EventUpdatePlayer, p.PrivateSnapshot())
	}
	t.sendEventTo(t.game.CurrentPlayerID(), EventYourTurn, struct{}{})

	t.PublishEvent(RoomEventRoundStarted, nil)
}

// HandlePlayCards plays one or more same-valued cards for a
// participant by delegating to the Game layer
func (t *Table) HandlePlayCards(playerID int64, declared []Card) error {
	t.mu.Lock()

	if _, ok := t.pool.Get(playerID); !ok {
		t.mu.Unlock()
		return ErrPlayerNotFound
	}

	result, err := t.game.PlayCards(playerID, declared)
	if err != nil {
		t.mu.Unlock()
		return err
	}
	t.lastAction = time.Now()

	if player, ok := t.pool.Get(playerID); ok {
		t.sendEventTo(playerID, EventUpdatePlayer, player.PrivateSnapshot())
	}
	t.broadcastEvent(EventCardPlayed, CardPlayed{PlayerID: playerID, Cards: result.Played})
	if result.VictimID != 0 {
		if victim, ok := t.pool.Get(result.VictimID); ok {
			t.sendEventTo(result.VictimID, EventUpdatePlayer, victim.PrivateSnapshot())
		}
	}
	t.broadcastEvent(EventUpdatePlayers, t.playerSnapshots())

	var roundResult *WinnerFound
	if result.Winner != nil {
		roundResult = &WinnerFound{
			Winner: result.Winner.PublicSnapshot(),
			Scores: t.game.Scores(result.Winner.ID),
		}
		t.lastResult = roundResult
		t.log.Infof("room %d: %s wins the round", t.config.ID, result.Winner.Name)

		t.broadcastEvent(EventWinnerFound, roundResult)
		t.stateMachine.Dispatch(tableStateRoundEnded)
		t.broadcastEvent(EventGameState, t.game.State())
		t.broadcastEvent(EventUpdatePlayers, t.playerSnapshots())
	} else {
		t.broadcastEvent(EventGameState, t.game.State())
		t.sendEventTo(result.NextPlayerID, EventYourTurn, struct{}{})
	}
	t.mu.Unlock()

	if roundResult != nil {
		t.PublishEvent(RoomEventRoundEnded, roundResult)
	}
	return nil
}

// HandleDrawCard draws a card for a participant by delegating to the
// Game layer
func (t *Table) HandleDrawCard(playerID int64) error {
	t.mu.Lock()

	if _, ok := t.pool.Get(playerID); !ok {
		t.mu.Unlock()
		return ErrPlayerNotFound
	}

	result, err := t.game.DrawCard(playerID)
	if err != nil {
		t.mu.Unlock()
		return err
	}
	t.lastAction = time.Now()

	if player, ok := t.pool.Get(playerID); ok {
		t.sendEventTo(playerID, EventUpdatePlayer, player.PrivateSnapshot())
	}
	t.broadcastEvent(EventUpdatePlayers, t.playerSnapshots())
	t.broadcastEvent(EventGameState, t.game.State())
	t.sendEventTo(result.NextPlayerID, EventYourTurn, struct{}{})
	t.mu.Unlock()

	return nil
}

// HandleEndRound ends the current round without a winner. Only the room
// host may do this.
func (t *Table) HandleEndRound(playerID int64) error {
	t.mu.Lock()

	if _, ok := t.pool.Get(playerID); !ok {
		t.mu.Unlock()
		return ErrPlayerNotFound
	}
	if playerID != t.hostID {
		t.mu.Unlock()
		return ErrNotHost
	}
	if !t.game.RoundInProgress() {
		t.mu.Unlock()
		return ErrRoundNotInProgress
	}

	t.log.Infof("room %d: host ended the round", t.config.ID)
	t.stateMachine.Dispatch(tableStateRoundEnded)

	t.broadcastEvent(EventGameState, t.game.State())
	t.broadcastEvent(EventUpdatePlayers, t.playerSnapshots())
	t.mu.Unlock()

	t.PublishEvent(RoomEventRoundEnded, nil)
	return nil
}

// broadcastEvent enqueues an event to every seated client. Assumes the
// table lock is held.
func (t *Table) broadcastEvent(name string, payload interface{}) {
	ev, err := NewEvent(name, payload)
	if err != nil {
		t.log.Errorf("room %d: failed to marshal %s event: %v", t.config.ID, name, err)
		return
	}
	t.pool.Broadcast(ev)
}

// sendEventTo enqueues an event to one seated client. Assumes the
// table lock is held.
func (t *Table) sendEventTo(playerID int64, name string, payload interface{}) {
	ev, err := NewEvent(name, payload)
	if err != nil {
		t.log.Errorf("room %d: failed to marshal %s event: %v", t.config.ID, name, err)
		return
	}
	t.pool.SendTo(playerID, ev)
}

// playerSnapshots returns the public view of everyone seated, in join
// order. Assumes the table lock is held.
func (t *Table) playerSnapshots() []PlayerPublic {
	players := t.pool.Players()
	snaps := make([]PlayerPublic, 0, len(players))
	for _, p := range players {
		snaps = append(snaps, p.PublicSnapshot())
	}
	return snaps
}

// summary returns the lobby view of the room. Assumes the table lock
// is held.
func (t *Table) summary() RoomSummary {
	return RoomSummary{
		ID:              t.config.ID,
		PlayerCount:     t.pool.Size(),
		RoundInProgress: t.game.RoundInProgress(),
	}
}

// ID returns the room id
func (t *Table) ID() int64 {
	return t.config.ID
}

// HostID returns the current host's player id
func (t *Table) HostID() int64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.hostID
}

// Size returns the number of seated participants
func (t *Table) Size() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.pool.Size()
}

// Summary returns the lobby view of the room
func (t *Table) Summary() RoomSummary {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.summary()
}

// GameState returns the public game state snapshot
func (t *Table) GameState() GameState {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.game.State()
}

// GetPlayer returns a seated participant by id
func (t *Table) GetPlayer(playerID int64) (*Player, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.pool.Get(playerID)
}

// RoundInProgress reports whether a round is running
func (t *Table) RoundInProgress() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.game.RoundInProgress()
}

// CurrentPlayerID returns the id of the participant to play
func (t *Table) CurrentPlayerID() int64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.game.CurrentPlayerID()
}

// GetLastResult returns the most recently completed round result, or
// nil if no round has completed
func (t *Table) GetLastResult() *WinnerFound {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.lastResult
}

// LastAction returns the time of the most recent room activity
func (t *Table) LastAction() time.Time {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.lastAction
}
