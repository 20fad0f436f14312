package uno

import (
	"math/rand"
	"time"
)

// Deck represents the draw pile. Cards are drawn from the tail.
type Deck struct {
	cards []Card
	rng   *rand.Rand
}

// NewDeck creates the full 108-card deck with the given random number
// generator and shuffles it. Composition: for each concrete color one 0,
// two of each 1..9, two Skip, two Reverse, two DrawTwo; plus four Wild
// and four WildDrawFour. Ids are assigned sequentially at construction
// and are stable for the lifetime of the deck's cards.
func NewDeck(rng *rand.Rand) *Deck {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	deck := &Deck{
		cards: make([]Card, 0, 108),
		rng:   rng,
	}

	id := 0
	add := func(color Color, value Value) {
		deck.cards = append(deck.cards, Card{id: id, color: color, value: value})
		id++
	}

	doubled := []Value{One, Two, Three, Four, Five, Six, Seven, Eight, Nine, Skip, Reverse, DrawTwo}
	for _, color := range Colors {
		add(color, Zero)
		for _, value := range doubled {
			add(color, value)
			add(color, value)
		}
	}
	for i := 0; i < 4; i++ {
		add(ColorWild, Wild)
	}
	for i := 0; i < 4; i++ {
		add(ColorWild, WildDrawFour)
	}

	deck.Shuffle()

	return deck
}

// NewDeckFromCards creates a deck holding a specific set of cards (used
// to construct known states in tests)
func NewDeckFromCards(cards []Card, rng *rand.Rand) *Deck {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	deck := &Deck{
		cards: make([]Card, len(cards)),
		rng:   rng,
	}
	copy(deck.cards, cards)
	return deck
}

// Shuffle randomizes the order of cards in the deck
func (d *Deck) Shuffle() {
	d.rng.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

// Draw removes and returns the tail card of the deck
func (d *Deck) Draw() (Card, bool) {
	if len(d.cards) == 0 {
		return Card{}, false
	}
	card := d.cards[len(d.cards)-1]
	d.cards = d.cards[:len(d.cards)-1]
	return card, true
}

// DrawN draws up to n cards, fewer if the deck empties mid-draw. The
// caller is responsible for reshuffling between draws.
func (d *Deck) DrawN(n int) []Card {
	cards := make([]Card, 0, n)
	for i := 0; i < n; i++ {
		card, ok := d.Draw()
		if !ok {
			break
		}
		cards = append(cards, card)
	}
	return cards
}

// Push returns a card to the tail of the deck
func (d *Deck) Push(card Card) {
	d.cards = append(d.cards, card)
}

// Size returns the number of cards remaining in the deck
func (d *Deck) Size() int {
	return len(d.cards)
}

// ReshuffleFromDiscard moves every discard card except the top back into
// the deck and shuffles. Wild and WildDrawFour cards have their recorded
// color reset to the Wild sentinel so they are again playable on any
// color. The discard keeps only its top card.
func (d *Deck) ReshuffleFromDiscard(pile *DiscardPile) {
	recycled := pile.takeAllButTop()
	for _, card := range recycled {
		if card.IsWild() {
			card.color = ColorWild
		}
		d.cards = append(d.cards, card)
	}
	d.Shuffle()
}

// DiscardPile holds played cards in play order; the top (last pushed)
// card defines the current match constraint.
type DiscardPile struct {
	cards []Card
}

// NewDiscardPile creates an empty discard pile
func NewDiscardPile() *DiscardPile {
	return &DiscardPile{cards: make([]Card, 0, 108)}
}

// Push appends a played card; it becomes the new top
func (p *DiscardPile) Push(card Card) {
	p.cards = append(p.cards, card)
}

// Top returns the top card without removing it
func (p *DiscardPile) Top() (Card, bool) {
	if len(p.cards) == 0 {
		return Card{}, false
	}
	return p.cards[len(p.cards)-1], true
}

// Size returns the number of cards in the pile
func (p *DiscardPile) Size() int {
	return len(p.cards)
}

// takeAllButTop removes and returns every card except the top one,
// preserving nothing about their order guarantees.
func (p *DiscardPile) takeAllButTop() []Card {
	if len(p.cards) <= 1 {
		return nil
	}
	taken := make([]Card, len(p.cards)-1)
	copy(taken, p.cards[:len(p.cards)-1])
	p.cards[0] = p.cards[len(p.cards)-1]
	p.cards = p.cards[:1]
	return taken
}
