package uno

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Color represents a card color. Wild and WildDrawFour cards carry
// ColorWild while in the deck and the chosen concrete color once played.
type Color string

const (
	Red       Color = "Red"
	Yellow    Color = "Yellow"
	Green     Color = "Green"
	Blue      Color = "Blue"
	ColorWild Color = "Wild"
)

// Colors lists the four concrete colors in deck-construction order.
var Colors = []Color{Red, Yellow, Green, Blue}

// Value represents a card face value
type Value string

const (
	Zero         Value = "0"
	One          Value = "1"
	Two          Value = "2"
	Three        Value = "3"
	Four         Value = "4"
	Five         Value = "5"
	Six          Value = "6"
	Seven        Value = "7"
	Eight        Value = "8"
	Nine         Value = "9"
	Skip         Value = "skip"
	Reverse      Value = "reverse"
	DrawTwo      Value = "draw_two"
	Wild         Value = "wild"
	WildDrawFour Value = "wild_draw_four"
)

// Card represents a single card. Each card carries a stable id unique
// within its deck so a client-declared card can be matched to the
// authoritative instance in a hand.
type Card struct {
	id    int
	color Color
	value Value
}

// CardJSON represents a card for JSON serialization
type CardJSON struct {
	ID    int    `json:"id"`
	Color string `json:"color"`
	Value string `json:"value"`
}

// NewCard creates a new card with the given id, color and value
func NewCard(id int, color Color, value Value) Card {
	return Card{id: id, color: color, value: value}
}

// MarshalJSON implements json.Marshaler interface for Card
func (c Card) MarshalJSON() ([]byte, error) {
	return json.Marshal(CardJSON{
		ID:    c.id,
		Color: string(c.color),
		Value: string(c.value),
	})
}

// UnmarshalJSON implements json.Unmarshaler interface for Card
func (c *Card) UnmarshalJSON(data []byte) error {
	var cardJSON CardJSON
	if err := json.Unmarshal(data, &cardJSON); err != nil {
		return err
	}

	color, err := ParseColor(cardJSON.Color)
	if err != nil {
		return err
	}

	switch cardJSON.Value {
	case "0", "1", "2", "3", "4", "5", "6", "7", "8", "9":
		c.value = Value(cardJSON.Value)
	case "skip", "Skip":
		c.value = Skip
	case "reverse", "Reverse":
		c.value = Reverse
	case "draw_two", "DrawTwo":
		c.value = DrawTwo
	case "wild", "Wild":
		c.value = Wild
	case "wild_draw_four", "WildDrawFour":
		c.value = WildDrawFour
	default:
		return fmt.Errorf("invalid value: %s", cardJSON.Value)
	}

	c.id = cardJSON.ID
	c.color = color
	return nil
}

// ParseColor validates and converts a color string
func ParseColor(s string) (Color, error) {
	switch s {
	case "Red", "red", "R", "r":
		return Red, nil
	case "Yellow", "yellow", "Y", "y":
		return Yellow, nil
	case "Green", "green", "G", "g":
		return Green, nil
	case "Blue", "blue", "B", "b":
		return Blue, nil
	case "Wild", "wild", "W", "w":
		return ColorWild, nil
	default:
		return "", fmt.Errorf("invalid color: %s", s)
	}
}

// String returns a string representation of the card
func (c Card) String() string {
	if c.IsWild() && c.color == ColorWild {
		return string(c.value)
	}
	return string(c.color) + "-" + string(c.value)
}

// GetID returns the card's stable within-deck id
func (c Card) GetID() int {
	return c.id
}

// GetColor returns the card's current color
func (c Card) GetColor() Color {
	return c.color
}

// GetValue returns the card's value
func (c Card) GetValue() Value {
	return c.value
}

// IsWild reports whether the card is a Wild or WildDrawFour
func (c Card) IsWild() bool {
	return c.value == Wild || c.value == WildDrawFour
}

// IsAction reports whether the card is any non-number card
func (c Card) IsAction() bool {
	switch c.value {
	case Skip, Reverse, DrawTwo, Wild, WildDrawFour:
		return true
	}
	return false
}

// WithColor returns a copy of the card carrying the given color. Used to
// record the chosen color on a wild as it lands on the discard pile.
func (c Card) WithColor(color Color) Card {
	c.color = color
	return c
}

// Points returns the card's score value: face value for numbers, 20 for
// Skip/Reverse/DrawTwo, 50 for Wild/WildDrawFour.
func (c Card) Points() int {
	switch c.value {
	case Skip, Reverse, DrawTwo:
		return 20
	case Wild, WildDrawFour:
		return 50
	default:
		n, err := strconv.Atoi(string(c.value))
		if err != nil {
			return 0
		}
		return n
	}
}
