package uno

import (
	"time"
)

// Player represents a participant seated in a room. A participant who
// joins while a round is in progress is a spectator: they hold no cards
// and are excluded from the turn cycle until the next round starts.
type Player struct {
	ID   int64
	Name string

	Hand        []Card
	CurrentRoom int64 // 0 while in the lobby
	IsSpectator bool
	JoinedAt    time.Time
}

// NewPlayer creates a new player with an empty hand
func NewPlayer(id int64, name string) *Player {
	return &Player{
		ID:       id,
		Name:     name,
		Hand:     make([]Card, 0, 7),
		JoinedAt: time.Now(),
	}
}

// FindCard returns the hand card with the given id
func (p *Player) FindCard(id int) (Card, bool) {
	for _, card := range p.Hand {
		if card.id == id {
			return card, true
		}
	}
	return Card{}, false
}

// RemoveCard removes the hand card with the given id, preserving the
// order of the remaining cards
func (p *Player) RemoveCard(id int) (Card, bool) {
	for i, card := range p.Hand {
		if card.id == id {
			p.Hand = append(p.Hand[:i], p.Hand[i+1:]...)
			return card, true
		}
	}
	return Card{}, false
}

// AddCards appends cards to the tail of the hand
func (p *Player) AddCards(cards ...Card) {
	p.Hand = append(p.Hand, cards...)
}

// ClearHand discards all cards in the hand
func (p *Player) ClearHand() {
	p.Hand = p.Hand[:0]
}

// CardCount returns the number of cards in the hand
func (p *Player) CardCount() int {
	return len(p.Hand)
}

// HandPoints returns the score of the remaining hand
func (p *Player) HandPoints() int {
	total := 0
	for _, card := range p.Hand {
		total += card.Points()
	}
	return total
}

// GetHandString returns a string representation of the player's hand
func (p *Player) GetHandString() string {
	if len(p.Hand) == 0 {
		return "No cards"
	}

	str := ""
	for i, card := range p.Hand {
		if i > 0 {
			str += " "
		}
		str += card.String()
	}
	return str
}
