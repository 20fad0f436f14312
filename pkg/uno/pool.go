package uno

import (
	"github.com/decred/slog"
)

// seat pairs a participant with the handle used to reach their client.
type seat struct {
	player *Player
	sender Sender
}

// Pool owns the (participant, sender) pairs of one room. Iteration order
// is insertion order, which is the seating order for the turn cycle.
// The pool itself is not goroutine-safe; the owning table serializes
// access under its lock.
type Pool struct {
	seats []*seat
	index map[int64]*seat
	log   slog.Logger
}

// NewPool creates an empty pool
func NewPool(log slog.Logger) *Pool {
	return &Pool{
		seats: make([]*seat, 0, 6),
		index: make(map[int64]*seat),
		log:   log,
	}
}

// Register adds a participant and their sender. At most one entry may
// exist per participant id.
func (p *Pool) Register(player *Player, sender Sender) error {
	if _, exists := p.index[player.ID]; exists {
		return ErrAlreadyInGame
	}
	s := &seat{player: player, sender: sender}
	p.seats = append(p.seats, s)
	p.index[player.ID] = s
	return nil
}

// Deregister removes the participant with the given id
func (p *Pool) Deregister(id int64) bool {
	if _, exists := p.index[id]; !exists {
		return false
	}
	delete(p.index, id)
	for i, s := range p.seats {
		if s.player.ID == id {
			p.seats = append(p.seats[:i], p.seats[i+1:]...)
			break
		}
	}
	return true
}

// Get returns the participant with the given id
func (p *Pool) Get(id int64) (*Player, bool) {
	s, ok := p.index[id]
	if !ok {
		return nil, false
	}
	return s.player, true
}

// Size returns the number of seated participants
func (p *Pool) Size() int {
	return len(p.seats)
}

// Players returns all participants in seating order
func (p *Pool) Players() []*Player {
	players := make([]*Player, 0, len(p.seats))
	for _, s := range p.seats {
		players = append(players, s.player)
	}
	return players
}

// ActivePlayers returns the non-spectator participants in seating order.
// This is the turn cycle.
func (p *Pool) ActivePlayers() []*Player {
	players := make([]*Player, 0, len(p.seats))
	for _, s := range p.seats {
		if !s.player.IsSpectator {
			players = append(players, s.player)
		}
	}
	return players
}

// SendTo delivers an event to a single participant. Best effort: a full
// queue drops the event with a warning and never aborts the caller.
func (p *Pool) SendTo(id int64, ev *Event) {
	s, ok := p.index[id]
	if !ok {
		return
	}
	if !s.sender.TrySend(ev) {
		p.log.Warnf("dropping %s event for player %d: outbound queue full", ev.Name, id)
	}
}

// Broadcast delivers an event to every participant in the pool
func (p *Pool) Broadcast(ev *Event) {
	for _, s := range p.seats {
		if !s.sender.TrySend(ev) {
			p.log.Warnf("dropping %s broadcast for player %d: outbound queue full", ev.Name, s.player.ID)
		}
	}
}
