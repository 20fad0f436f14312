package bot

import (
	"github.com/vctt94/unoserver/pkg/uno"
)

// matchesTop reports whether a card is playable on the given top card.
// A wild on top matches by its recorded chosen color.
func matchesTop(card uno.Card, top uno.Card) bool {
	if card.IsWild() {
		return true
	}
	return card.GetColor() == top.GetColor() || card.GetValue() == top.GetValue()
}

// majorityColor picks the concrete color the hand holds most of, for
// declaring a wild. Falls back to Red for a hand of nothing but wilds.
func majorityColor(hand []uno.Card) uno.Color {
	counts := make(map[uno.Color]int)
	for _, card := range hand {
		if c := card.GetColor(); c != uno.ColorWild {
			counts[c]++
		}
	}

	best := uno.Red
	bestCount := 0
	for _, c := range uno.Colors {
		if counts[c] > bestCount {
			best, bestCount = c, counts[c]
		}
	}
	return best
}

// choosePlay picks the bot's move for the given hand and top card. It
// returns the cards to play and, for a wild lead, the chosen color; ok
// is false when nothing in the hand is playable and the bot must draw.
//
// The strategy is simple: prefer a non-wild match (dumping every copy
// of the same value in one play), spend wilds only when nothing else
// fits, and declare the hand's majority color.
func choosePlay(hand []uno.Card, top uno.Card) (cards []uno.Card, color uno.Color, ok bool) {
	var wild *uno.Card
	for i, card := range hand {
		if !matchesTop(card, top) {
			continue
		}
		if card.IsWild() {
			if wild == nil {
				wild = &hand[i]
			}
			continue
		}

		// Same-value multi-play: every other copy of this value goes
		// along, wilds excluded because their value never matches.
		set := []uno.Card{card}
		for j, other := range hand {
			if j != i && other.GetValue() == card.GetValue() {
				set = append(set, other)
			}
		}
		return set, "", true
	}

	if wild != nil {
		return []uno.Card{*wild}, majorityColor(hand), true
	}
	return nil, "", false
}
