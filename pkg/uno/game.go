package uno

import (
	"fmt"
	"math/rand"

	"github.com/decred/slog"
)

// GameConfig holds configuration for a room's game engine
type GameConfig struct {
	RoomID int64
	Rng    *rand.Rand
	Log    slog.Logger
}

// Game is the authoritative round state of one room: deck, discard,
// direction of play and the participant-to-play. Methods assume the
// owning table's lock is held; the game itself carries no lock.
type Game struct {
	roomID          int64
	pool            *Pool
	deck            *Deck
	discard         *DiscardPile
	direction       int
	currentPlayerID int64
	roundInProgress bool
	rng             *rand.Rand
	log             slog.Logger
}

// PlayResult describes the outcome of an accepted play
type PlayResult struct {
	Played       []Card  // canonical instances, in play order
	VictimID     int64   // player who drew penalty cards, 0 if none
	VictimDrew   int     // number of penalty cards drawn
	Winner       *Player // non-nil when the actor emptied their hand
	NextPlayerID int64   // participant-to-play after the flow
}

// DrawResult describes the outcome of a participant-initiated draw
type DrawResult struct {
	Card         Card
	Reshuffled   bool
	NextPlayerID int64
}

// NewGame creates the engine for a room. The deck exists from creation;
// it is rebuilt on every round start.
func NewGame(cfg GameConfig, pool *Pool) *Game {
	return &Game{
		roomID:    cfg.RoomID,
		pool:      pool,
		deck:      NewDeck(cfg.Rng),
		discard:   NewDiscardPile(),
		direction: 1,
		rng:       cfg.Rng,
		log:       cfg.Log,
	}
}

// RoundInProgress reports whether a round is currently being played
func (g *Game) RoundInProgress() bool {
	return g.roundInProgress
}

// CurrentPlayerID returns the id of the participant-to-play
func (g *Game) CurrentPlayerID() int64 {
	return g.currentPlayerID
}

// Direction returns +1 for seating order, -1 for reverse
func (g *Game) Direction() int {
	return g.direction
}

// DeckSize returns the number of cards left in the draw pile
func (g *Game) DeckSize() int {
	return g.deck.Size()
}

// TopCard returns the top of the discard pile
func (g *Game) TopCard() (Card, bool) {
	return g.discard.Top()
}

// State returns the public snapshot broadcast to the room
func (g *Game) State() GameState {
	st := GameState{
		ID:              g.roomID,
		Direction:       g.direction,
		CurrentPlayer:   g.currentPlayerID,
		DeckSize:        g.deck.Size(),
		PlayerCount:     g.pool.Size(),
		RoundInProgress: g.roundInProgress,
	}
	if top, ok := g.discard.Top(); ok {
		st.TopCard = &top
	}
	return st
}

// nextEligibleFrom returns the active player one step from the given
// participant in the current direction, skipping spectators. The index
// arithmetic is negative-safe so a reverse wraps correctly.
func (g *Game) nextEligibleFrom(fromID int64) (*Player, bool) {
	players := g.pool.ActivePlayers()
	n := len(players)
	if n == 0 {
		return nil, false
	}

	idx := -1
	for i, p := range players {
		if p.ID == fromID {
			idx = i
			break
		}
	}
	if idx == -1 {
		// The reference player is gone or a spectator; fall back to the
		// first seat so the turn cycle can recover.
		return players[0], true
	}

	next := ((idx+g.direction)%n + n) % n
	return players[next], true
}

// advanceTurn moves the participant-to-play one step in the current
// direction
func (g *Game) advanceTurn() {
	if next, ok := g.nextEligibleFrom(g.currentPlayerID); ok {
		g.currentPlayerID = next.ID
	}
}

// StartRound deals a fresh round: new shuffled deck, direction reset,
// an initial non-action discard card, seven cards to every active
// player, and the first active seat to play. Spectator flags are
// cleared first so participants who watched the previous round are
// dealt in.
func (g *Game) StartRound() error {
	if g.roundInProgress {
		return fmt.Errorf("round already in progress")
	}

	for _, p := range g.pool.Players() {
		p.IsSpectator = false
		p.ClearHand()
	}

	players := g.pool.ActivePlayers()
	if len(players) < 2 {
		return fmt.Errorf("need at least 2 players to start a round, have %d", len(players))
	}

	g.deck = NewDeck(g.rng)
	g.discard = NewDiscardPile()
	g.direction = 1

	// The first discard must leave the opening move unambiguous: push
	// action and wild cards back and draw again.
	for {
		card, ok := g.deck.Draw()
		if !ok {
			return fmt.Errorf("deck exhausted while seeding discard")
		}
		if card.IsAction() {
			g.deck.Push(card)
			g.deck.Shuffle()
			continue
		}
		g.discard.Push(card)
		break
	}

	for _, p := range players {
		p.AddCards(g.deck.DrawN(7)...)
	}

	g.currentPlayerID = players[0].ID
	g.roundInProgress = true

	top, _ := g.discard.Top()
	g.log.Infof("round started in room %d: %d players, first card %s, %s to play",
		g.roomID, len(players), top, players[0].Name)
	return nil
}

// EndRound clears all hands and re-initializes deck and discard in
// place, returning the room to the waiting state. Spectator flags are
// cleared as well: with no round running there is nothing to watch,
// and everyone seated is dealt into the next round.
func (g *Game) EndRound() {
	for _, p := range g.pool.Players() {
		p.ClearHand()
		p.IsSpectator = false
	}
	g.deck = NewDeck(g.rng)
	g.discard = NewDiscardPile()
	g.direction = 1
	g.roundInProgress = false
	g.log.Debugf("round ended in room %d", g.roomID)
}

// validatePlay checks a declared play without mutating anything and
// returns the canonical hand instances in play order. The declared
// cards are matched by id; for wilds the declared color is the chosen
// color.
func (g *Game) validatePlay(player *Player, declared []Card) ([]Card, error) {
	if len(declared) == 0 {
		return nil, ErrEmptyPlay
	}

	top, ok := g.discard.Top()
	if !ok {
		// The discard is seeded at round start; an empty pile mid-round
		// is a programmer error.
		panic("uno: empty discard pile during play validation")
	}

	canonical := make([]Card, 0, len(declared))
	seen := make(map[int]bool, len(declared))
	for _, dc := range declared {
		if seen[dc.id] {
			return nil, fmt.Errorf("%w: duplicate card id %d", ErrCardNotInHand, dc.id)
		}
		seen[dc.id] = true

		hc, ok := player.FindCard(dc.id)
		if !ok {
			return nil, fmt.Errorf("%w: id %d", ErrCardNotInHand, dc.id)
		}
		if hc.IsWild() && dc.color != ColorWild {
			// Record the chosen color declared by the client.
			hc = hc.WithColor(dc.color)
		}
		canonical = append(canonical, hc)
	}

	first := canonical[0]
	for _, c := range canonical[1:] {
		if c.value != first.value {
			return nil, ErrMixedValues
		}
	}

	if !first.IsWild() && first.color != top.color && first.value != top.value {
		return nil, fmt.Errorf("%w: %s on %s", ErrInvalidPlay, first, top)
	}

	return canonical, nil
}

// PlayCards applies a play by the given participant. Validation is
// atomic: on any error no hand, discard or turn state changes. On
// success the played cards are removed from the hand, their effects are
// applied in play order, penalty draws land on the next eligible
// player, and the turn advances once — unless the play wins the round,
// in which case the turn is left untouched.
func (g *Game) PlayCards(playerID int64, declared []Card) (*PlayResult, error) {
	if !g.roundInProgress {
		return nil, ErrRoundNotInProgress
	}
	player, ok := g.pool.Get(playerID)
	if !ok {
		return nil, ErrPlayerNotFound
	}
	if player.IsSpectator || playerID != g.currentPlayerID {
		return nil, ErrNotYourTurn
	}

	canonical, err := g.validatePlay(player, declared)
	if err != nil {
		return nil, err
	}

	// Validation is complete; from here on the play is committed.
	result := &PlayResult{Played: canonical}
	pendingDraw := 0
	for _, card := range canonical {
		player.RemoveCard(card.id)
		switch card.value {
		case DrawTwo:
			pendingDraw += 2
		case WildDrawFour:
			pendingDraw += 4
		case Skip:
			if next, ok := g.nextEligibleFrom(g.currentPlayerID); ok {
				g.currentPlayerID = next.ID
			}
		case Reverse:
			g.direction = -g.direction
			// Head-to-head a reverse acts as a skip: the opponent misses
			// a turn and the actor plays again.
			if len(g.pool.ActivePlayers()) == 2 {
				if next, ok := g.nextEligibleFrom(g.currentPlayerID); ok {
					g.currentPlayerID = next.ID
				}
			}
		}
		g.discard.Push(card)
	}

	// Accumulated penalties all land on the one player who is next
	// after the effects above; they are not skipped.
	if pendingDraw > 0 {
		if victim, ok := g.nextEligibleFrom(g.currentPlayerID); ok && victim.ID != playerID {
			drawn := g.drawWithReshuffle(pendingDraw)
			victim.AddCards(drawn...)
			result.VictimID = victim.ID
			result.VictimDrew = len(drawn)
			if len(drawn) < pendingDraw {
				g.log.Warnf("room %d: only %d of %d penalty cards available", g.roomID, len(drawn), pendingDraw)
			}
		}
	}

	g.log.Debugf("room %d: %s played %d card(s), top now %s", g.roomID, player.Name, len(canonical), canonical[len(canonical)-1])

	if player.CardCount() == 0 && !player.IsSpectator {
		result.Winner = player
		result.NextPlayerID = g.currentPlayerID
		return result, nil
	}

	g.advanceTurn()
	result.NextPlayerID = g.currentPlayerID
	return result, nil
}

// DrawCard draws one card for the participant-to-play and advances the
// turn. An empty deck is replenished from the discard pile first; when
// both are exhausted the draw fails with ErrDeckEmpty and nothing
// changes.
func (g *Game) DrawCard(playerID int64) (*DrawResult, error) {
	if !g.roundInProgress {
		return nil, ErrRoundNotInProgress
	}
	player, ok := g.pool.Get(playerID)
	if !ok {
		return nil, ErrPlayerNotFound
	}
	if player.IsSpectator || playerID != g.currentPlayerID {
		return nil, ErrNotYourTurn
	}

	reshuffled := false
	if g.deck.Size() == 0 {
		g.deck.ReshuffleFromDiscard(g.discard)
		reshuffled = true
	}
	card, ok := g.deck.Draw()
	if !ok {
		return nil, ErrDeckEmpty
	}

	player.AddCards(card)
	g.advanceTurn()

	g.log.Debugf("room %d: %s drew a card, %d left in deck", g.roomID, player.Name, g.deck.Size())
	return &DrawResult{
		Card:         card,
		Reshuffled:   reshuffled,
		NextPlayerID: g.currentPlayerID,
	}, nil
}

// PlayerLeaving adjusts the turn before the given participant is
// removed from the pool. When the leaver holds the turn it passes to
// the next eligible player; spectator leaves change nothing.
func (g *Game) PlayerLeaving(playerID int64) {
	if !g.roundInProgress || playerID != g.currentPlayerID {
		return
	}
	if next, ok := g.nextEligibleFrom(playerID); ok && next.ID != playerID {
		g.currentPlayerID = next.ID
	}
}

// drawWithReshuffle draws up to n cards, replenishing the deck from the
// discard pile as needed. Used for penalty draws, which accept a short
// count when both piles run dry.
func (g *Game) drawWithReshuffle(n int) []Card {
	cards := make([]Card, 0, n)
	for len(cards) < n {
		card, ok := g.deck.Draw()
		if !ok {
			g.deck.ReshuffleFromDiscard(g.discard)
			if g.deck.Size() == 0 {
				break
			}
			continue
		}
		cards = append(cards, card)
	}
	return cards
}

// Scores returns the end-of-round point totals over every active
// non-winner's remaining hand.
func (g *Game) Scores(winnerID int64) []PlayerScore {
	scores := make([]PlayerScore, 0, g.pool.Size())
	for _, p := range g.pool.ActivePlayers() {
		if p.ID == winnerID {
			continue
		}
		scores = append(scores, PlayerScore{
			ID:     p.ID,
			Name:   p.Name,
			Points: p.HandPoints(),
		})
	}
	return scores
}
