package uno

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/decred/slog"
)

// newTestGame builds a game over a pool seating one player per name,
// with ids assigned 1..n in order.
func newTestGame(t *testing.T, names ...string) (*Game, []*Player) {
	t.Helper()
	pool := NewPool(slog.Disabled)
	players := make([]*Player, 0, len(names))
	for i, name := range names {
		p := NewPlayer(int64(i+1), name)
		if err := pool.Register(p, &captureSender{}); err != nil {
			t.Fatalf("Failed to register %s: %v", name, err)
		}
		players = append(players, p)
	}
	g := NewGame(GameConfig{RoomID: 1, Rng: testRNG(), Log: slog.Disabled}, pool)
	return g, players
}

// forceRound puts the game into a running round with a fixed top card,
// draw pile and per-player hands, first seat to play.
func forceRound(g *Game, top Card, deck []Card, hands ...[]Card) {
	players := g.pool.ActivePlayers()
	for i, p := range players {
		p.ClearHand()
		if i < len(hands) {
			p.AddCards(hands[i]...)
		}
	}
	g.deck = NewDeckFromCards(deck, g.rng)
	g.discard = NewDiscardPile()
	g.discard.Push(top)
	g.direction = 1
	g.currentPlayerID = players[0].ID
	g.roundInProgress = true
}

func TestStartRound(t *testing.T) {
	g, players := newTestGame(t, "a", "b", "c")

	if err := g.StartRound(); err != nil {
		t.Fatalf("StartRound failed: %v", err)
	}

	if !g.RoundInProgress() {
		t.Error("Round should be in progress")
	}
	for _, p := range players {
		if p.CardCount() != 7 {
			t.Errorf("%s: expected 7 cards, got %d", p.Name, p.CardCount())
		}
	}
	if g.CurrentPlayerID() != players[0].ID {
		t.Errorf("Expected first seat to play, got %d", g.CurrentPlayerID())
	}
	if g.Direction() != 1 {
		t.Errorf("Expected direction 1, got %d", g.Direction())
	}
	// 108 minus three hands of 7 minus the initial discard
	if g.DeckSize() != 86 {
		t.Errorf("Expected deck size 86, got %d", g.DeckSize())
	}
	top, ok := g.TopCard()
	if !ok {
		t.Fatal("Expected an initial discard card")
	}
	if top.IsAction() {
		t.Errorf("Initial discard must not be an action card, got %s", top)
	}

	if err := g.StartRound(); err == nil {
		t.Error("StartRound should fail while a round is in progress")
	}
}

func TestStartRoundNeedsTwoPlayers(t *testing.T) {
	g, _ := newTestGame(t, "solo")
	if err := g.StartRound(); err == nil {
		t.Error("StartRound should fail with a single player")
	}
}

func TestStartRoundInitialDiscardNeverAction(t *testing.T) {
	for seed := int64(0); seed < 50; seed++ {
		pool := NewPool(slog.Disabled)
		pool.Register(NewPlayer(1, "a"), &captureSender{})
		pool.Register(NewPlayer(2, "b"), &captureSender{})
		g := NewGame(GameConfig{
			RoomID: 1,
			Rng:    rand.New(rand.NewSource(seed)),
			Log:    slog.Disabled,
		}, pool)

		if err := g.StartRound(); err != nil {
			t.Fatalf("seed %d: StartRound failed: %v", seed, err)
		}
		top, _ := g.TopCard()
		if top.IsAction() {
			t.Errorf("seed %d: initial discard is an action card: %s", seed, top)
		}
	}
}

func TestPlayColorMatch(t *testing.T) {
	g, players := newTestGame(t, "a", "b")
	forceRound(g, NewCard(200, Red, Three), nil,
		[]Card{NewCard(1, Red, Seven), NewCard(2, Blue, Two)},
		[]Card{NewCard(3, Green, Five)},
	)

	result, err := g.PlayCards(1, []Card{NewCard(1, Red, Seven)})
	if err != nil {
		t.Fatalf("PlayCards failed: %v", err)
	}

	if players[0].CardCount() != 1 {
		t.Errorf("Expected 1 card left, got %d", players[0].CardCount())
	}
	top, _ := g.TopCard()
	if top.id != 1 {
		t.Errorf("Expected played card on top, got id %d", top.id)
	}
	if result.NextPlayerID != 2 {
		t.Errorf("Expected turn to pass to player 2, got %d", result.NextPlayerID)
	}
	if g.CurrentPlayerID() != 2 {
		t.Errorf("Expected current player 2, got %d", g.CurrentPlayerID())
	}
}

func TestPlayValueMatch(t *testing.T) {
	g, _ := newTestGame(t, "a", "b")
	forceRound(g, NewCard(200, Red, Three), nil,
		[]Card{NewCard(1, Blue, Three)},
		[]Card{NewCard(2, Green, Five)},
	)

	if _, err := g.PlayCards(1, []Card{NewCard(1, Blue, Three)}); err != nil {
		t.Fatalf("Value match should be legal: %v", err)
	}
}

func TestPlayMultipleSameValue(t *testing.T) {
	g, players := newTestGame(t, "a", "b")
	forceRound(g, NewCard(200, Red, Nine), nil,
		[]Card{NewCard(1, Red, Five), NewCard(2, Blue, Five), NewCard(3, Green, Two)},
		[]Card{NewCard(4, Green, Five)},
	)

	result, err := g.PlayCards(1, []Card{NewCard(1, Red, Five), NewCard(2, Blue, Five)})
	if err != nil {
		t.Fatalf("PlayCards failed: %v", err)
	}

	if len(result.Played) != 2 {
		t.Fatalf("Expected 2 played cards, got %d", len(result.Played))
	}
	if players[0].CardCount() != 1 {
		t.Errorf("Expected 1 card left, got %d", players[0].CardCount())
	}
	// Last played card defines the match constraint
	top, _ := g.TopCard()
	if top.id != 2 {
		t.Errorf("Expected second card on top, got id %d", top.id)
	}
	if g.discard.Size() != 3 {
		t.Errorf("Expected discard size 3, got %d", g.discard.Size())
	}
}

func TestPlayWildRecordsChosenColor(t *testing.T) {
	g, _ := newTestGame(t, "a", "b")
	forceRound(g, NewCard(200, Red, Three), nil,
		[]Card{NewCard(1, ColorWild, Wild)},
		[]Card{NewCard(2, Green, Five), NewCard(3, Red, Five)},
	)

	// The client declares the chosen color on the card itself
	if _, err := g.PlayCards(1, []Card{NewCard(1, Green, Wild)}); err != nil {
		t.Fatalf("Wild play failed: %v", err)
	}

	top, _ := g.TopCard()
	if top.GetColor() != Green {
		t.Errorf("Expected top color Green, got %s", top.GetColor())
	}

	// Next player must now match the chosen color
	if _, err := g.PlayCards(2, []Card{NewCard(3, Red, Five)}); !errors.Is(err, ErrInvalidPlay) {
		t.Errorf("Expected ErrInvalidPlay against chosen color, got %v", err)
	}
	if _, err := g.PlayCards(2, []Card{NewCard(2, Green, Five)}); err != nil {
		t.Errorf("Chosen-color match should be legal: %v", err)
	}
}

func TestPlayRejections(t *testing.T) {
	setup := func(t *testing.T) (*Game, []*Player) {
		g, players := newTestGame(t, "a", "b")
		forceRound(g, NewCard(200, Red, Three), nil,
			[]Card{NewCard(1, Red, Seven), NewCard(2, Blue, Two)},
			[]Card{NewCard(3, Green, Five)},
		)
		return g, players
	}

	// Every rejection must leave hand and turn untouched
	assertUnchanged := func(t *testing.T, g *Game, p *Player, handSize int) {
		t.Helper()
		if p.CardCount() != handSize {
			t.Errorf("Hand changed on rejected play: %d cards", p.CardCount())
		}
		if g.CurrentPlayerID() != 1 {
			t.Errorf("Turn changed on rejected play: %d", g.CurrentPlayerID())
		}
		if g.discard.Size() != 1 {
			t.Errorf("Discard changed on rejected play: %d", g.discard.Size())
		}
	}

	t.Run("not your turn", func(t *testing.T) {
		g, players := setup(t)
		_, err := g.PlayCards(2, []Card{NewCard(3, Green, Five)})
		if !errors.Is(err, ErrNotYourTurn) {
			t.Errorf("Expected ErrNotYourTurn, got %v", err)
		}
		if players[1].CardCount() != 1 {
			t.Errorf("Hand changed: %d", players[1].CardCount())
		}
	})

	t.Run("card not in hand", func(t *testing.T) {
		g, players := setup(t)
		_, err := g.PlayCards(1, []Card{NewCard(99, Red, Five)})
		if !errors.Is(err, ErrCardNotInHand) {
			t.Errorf("Expected ErrCardNotInHand, got %v", err)
		}
		assertUnchanged(t, g, players[0], 2)
	})

	t.Run("duplicate card id", func(t *testing.T) {
		g, players := setup(t)
		_, err := g.PlayCards(1, []Card{NewCard(1, Red, Seven), NewCard(1, Red, Seven)})
		if !errors.Is(err, ErrCardNotInHand) {
			t.Errorf("Expected ErrCardNotInHand, got %v", err)
		}
		assertUnchanged(t, g, players[0], 2)
	})

	t.Run("empty play", func(t *testing.T) {
		g, players := setup(t)
		_, err := g.PlayCards(1, nil)
		if !errors.Is(err, ErrEmptyPlay) {
			t.Errorf("Expected ErrEmptyPlay, got %v", err)
		}
		assertUnchanged(t, g, players[0], 2)
	})

	t.Run("mixed values", func(t *testing.T) {
		g, players := setup(t)
		_, err := g.PlayCards(1, []Card{NewCard(1, Red, Seven), NewCard(2, Blue, Two)})
		if !errors.Is(err, ErrMixedValues) {
			t.Errorf("Expected ErrMixedValues, got %v", err)
		}
		assertUnchanged(t, g, players[0], 2)
	})

	t.Run("no match", func(t *testing.T) {
		g, players := setup(t)
		_, err := g.PlayCards(1, []Card{NewCard(2, Blue, Two)})
		if !errors.Is(err, ErrInvalidPlay) {
			t.Errorf("Expected ErrInvalidPlay, got %v", err)
		}
		assertUnchanged(t, g, players[0], 2)
	})

	t.Run("unknown player", func(t *testing.T) {
		g, _ := setup(t)
		_, err := g.PlayCards(99, []Card{NewCard(1, Red, Seven)})
		if !errors.Is(err, ErrPlayerNotFound) {
			t.Errorf("Expected ErrPlayerNotFound, got %v", err)
		}
	})

	t.Run("round not in progress", func(t *testing.T) {
		g, _ := newTestGame(t, "a", "b")
		_, err := g.PlayCards(1, []Card{NewCard(1, Red, Seven)})
		if !errors.Is(err, ErrRoundNotInProgress) {
			t.Errorf("Expected ErrRoundNotInProgress, got %v", err)
		}
	})

	t.Run("spectator", func(t *testing.T) {
		g, players := newTestGame(t, "a", "b", "c")
		players[2].IsSpectator = true
		forceRound(g, NewCard(200, Red, Three), nil,
			[]Card{NewCard(1, Red, Seven)},
			[]Card{NewCard(2, Green, Five)},
		)
		g.currentPlayerID = 3
		_, err := g.PlayCards(3, []Card{NewCard(1, Red, Seven)})
		if !errors.Is(err, ErrNotYourTurn) {
			t.Errorf("Expected ErrNotYourTurn for spectator, got %v", err)
		}
	})
}

func TestSkipAdvancesPastNextPlayer(t *testing.T) {
	g, _ := newTestGame(t, "a", "b", "c")
	forceRound(g, NewCard(200, Red, Three), nil,
		[]Card{NewCard(1, Red, Skip), NewCard(2, Blue, Two)},
		[]Card{NewCard(3, Green, Five)},
		[]Card{NewCard(4, Yellow, Six)},
	)

	result, err := g.PlayCards(1, []Card{NewCard(1, Red, Skip)})
	if err != nil {
		t.Fatalf("PlayCards failed: %v", err)
	}
	// b is skipped, c plays
	if result.NextPlayerID != 3 {
		t.Errorf("Expected player 3 to play, got %d", result.NextPlayerID)
	}
}

func TestDoubleSkipReturnsToActor(t *testing.T) {
	g, _ := newTestGame(t, "a", "b", "c")
	forceRound(g, NewCard(200, Red, Three), nil,
		[]Card{NewCard(1, Red, Skip), NewCard(2, Blue, Skip), NewCard(3, Green, Two)},
		[]Card{NewCard(4, Green, Five)},
		[]Card{NewCard(5, Yellow, Six)},
	)

	result, err := g.PlayCards(1, []Card{NewCard(1, Red, Skip), NewCard(2, Blue, Skip)})
	if err != nil {
		t.Fatalf("PlayCards failed: %v", err)
	}
	// Both b and c are skipped, a plays again
	if result.NextPlayerID != 1 {
		t.Errorf("Expected turn back to player 1, got %d", result.NextPlayerID)
	}
}

func TestSkipTwoPlayers(t *testing.T) {
	g, _ := newTestGame(t, "a", "b")
	forceRound(g, NewCard(200, Red, Three), nil,
		[]Card{NewCard(1, Red, Skip), NewCard(2, Blue, Two)},
		[]Card{NewCard(3, Green, Five)},
	)

	result, err := g.PlayCards(1, []Card{NewCard(1, Red, Skip)})
	if err != nil {
		t.Fatalf("PlayCards failed: %v", err)
	}
	// With two players a skip comes straight back
	if result.NextPlayerID != 1 {
		t.Errorf("Expected turn back to player 1, got %d", result.NextPlayerID)
	}
}

func TestReverseTwoPlayers(t *testing.T) {
	g, _ := newTestGame(t, "a", "b")
	forceRound(g, NewCard(200, Red, Three), nil,
		[]Card{NewCard(1, Red, Reverse), NewCard(2, Blue, Two)},
		[]Card{NewCard(3, Green, Five)},
	)

	result, err := g.PlayCards(1, []Card{NewCard(1, Red, Reverse)})
	if err != nil {
		t.Fatalf("PlayCards failed: %v", err)
	}
	if g.Direction() != -1 {
		t.Errorf("Expected direction -1, got %d", g.Direction())
	}
	// Head-to-head a reverse acts as a skip: the actor plays twice
	if result.NextPlayerID != 1 {
		t.Errorf("Expected turn back to player 1, got %d", result.NextPlayerID)
	}
}

func TestReverseFlipsDirection(t *testing.T) {
	g, _ := newTestGame(t, "a", "b", "c")
	forceRound(g, NewCard(200, Red, Three), nil,
		[]Card{NewCard(1, Red, Reverse), NewCard(2, Blue, Two)},
		[]Card{NewCard(3, Green, Five)},
		[]Card{NewCard(4, Yellow, Six)},
	)

	result, err := g.PlayCards(1, []Card{NewCard(1, Red, Reverse)})
	if err != nil {
		t.Fatalf("PlayCards failed: %v", err)
	}
	if g.Direction() != -1 {
		t.Errorf("Expected direction -1, got %d", g.Direction())
	}
	// Reversed from a wraps backward to c
	if result.NextPlayerID != 3 {
		t.Errorf("Expected player 3 to play, got %d", result.NextPlayerID)
	}
}

func TestDoubleReverseKeepsDirection(t *testing.T) {
	g, _ := newTestGame(t, "a", "b", "c")
	forceRound(g, NewCard(200, Red, Three), nil,
		[]Card{NewCard(1, Red, Reverse), NewCard(2, Blue, Reverse), NewCard(3, Green, Two)},
		[]Card{NewCard(4, Green, Five)},
		[]Card{NewCard(5, Yellow, Six)},
	)

	result, err := g.PlayCards(1, []Card{NewCard(1, Red, Reverse), NewCard(2, Blue, Reverse)})
	if err != nil {
		t.Fatalf("PlayCards failed: %v", err)
	}
	if g.Direction() != 1 {
		t.Errorf("Expected direction 1, got %d", g.Direction())
	}
	if result.NextPlayerID != 2 {
		t.Errorf("Expected player 2 to play, got %d", result.NextPlayerID)
	}
}

func TestDrawTwoPenalty(t *testing.T) {
	g, players := newTestGame(t, "a", "b", "c")
	forceRound(g,
		NewCard(200, Red, Three),
		[]Card{NewCard(50, Green, One), NewCard(51, Green, Two), NewCard(52, Green, Three)},
		[]Card{NewCard(1, Red, DrawTwo), NewCard(2, Blue, Two)},
		[]Card{NewCard(3, Green, Five)},
		[]Card{NewCard(4, Yellow, Six)},
	)

	result, err := g.PlayCards(1, []Card{NewCard(1, Red, DrawTwo)})
	if err != nil {
		t.Fatalf("PlayCards failed: %v", err)
	}

	if result.VictimID != 2 || result.VictimDrew != 2 {
		t.Errorf("Expected player 2 to draw 2, got player %d drawing %d", result.VictimID, result.VictimDrew)
	}
	if players[1].CardCount() != 3 {
		t.Errorf("Expected victim hand of 3, got %d", players[1].CardCount())
	}
	// The penalized player still takes their turn
	if result.NextPlayerID != 2 {
		t.Errorf("Expected player 2 to play, got %d", result.NextPlayerID)
	}
}

func TestStackedDrawTwos(t *testing.T) {
	g, players := newTestGame(t, "a", "b")
	deck := make([]Card, 0, 6)
	for i := 0; i < 6; i++ {
		deck = append(deck, NewCard(50+i, Green, One))
	}
	forceRound(g, NewCard(200, Red, Three), deck,
		[]Card{NewCard(1, Red, DrawTwo), NewCard(2, Blue, DrawTwo), NewCard(3, Green, Two)},
		[]Card{NewCard(4, Green, Five)},
	)

	result, err := g.PlayCards(1, []Card{NewCard(1, Red, DrawTwo), NewCard(2, Blue, DrawTwo)})
	if err != nil {
		t.Fatalf("PlayCards failed: %v", err)
	}

	// Both penalties land on the same player
	if result.VictimID != 2 || result.VictimDrew != 4 {
		t.Errorf("Expected player 2 to draw 4, got player %d drawing %d", result.VictimID, result.VictimDrew)
	}
	if players[1].CardCount() != 5 {
		t.Errorf("Expected victim hand of 5, got %d", players[1].CardCount())
	}
	if result.NextPlayerID != 2 {
		t.Errorf("Expected player 2 to play, got %d", result.NextPlayerID)
	}
}

func TestWildDrawFourPenalty(t *testing.T) {
	g, players := newTestGame(t, "a", "b", "c")
	deck := make([]Card, 0, 4)
	for i := 0; i < 4; i++ {
		deck = append(deck, NewCard(50+i, Green, One))
	}
	forceRound(g, NewCard(200, Red, Three), deck,
		[]Card{NewCard(1, ColorWild, WildDrawFour), NewCard(2, Blue, Two)},
		[]Card{NewCard(3, Green, Five)},
		[]Card{NewCard(4, Yellow, Six)},
	)

	result, err := g.PlayCards(1, []Card{NewCard(1, Blue, WildDrawFour)})
	if err != nil {
		t.Fatalf("PlayCards failed: %v", err)
	}

	if result.VictimID != 2 || result.VictimDrew != 4 {
		t.Errorf("Expected player 2 to draw 4, got player %d drawing %d", result.VictimID, result.VictimDrew)
	}
	if players[1].CardCount() != 5 {
		t.Errorf("Expected victim hand of 5, got %d", players[1].CardCount())
	}
	top, _ := g.TopCard()
	if top.GetColor() != Blue {
		t.Errorf("Expected chosen color Blue on top, got %s", top.GetColor())
	}
	if result.NextPlayerID != 2 {
		t.Errorf("Expected player 2 to play, got %d", result.NextPlayerID)
	}
}

func TestPenaltyDrawsReshuffle(t *testing.T) {
	g, players := newTestGame(t, "a", "b")
	forceRound(g, NewCard(200, Red, Three), nil,
		[]Card{NewCard(1, Red, DrawTwo), NewCard(2, Blue, Two)},
		[]Card{NewCard(3, Green, Five)},
	)
	// Empty deck, three spent cards under the top
	g.discard.cards = append([]Card{
		NewCard(60, Green, One),
		NewCard(61, Green, Two),
		NewCard(62, Green, Three),
	}, g.discard.cards...)

	result, err := g.PlayCards(1, []Card{NewCard(1, Red, DrawTwo)})
	if err != nil {
		t.Fatalf("PlayCards failed: %v", err)
	}

	if result.VictimDrew != 2 {
		t.Errorf("Expected 2 penalty cards after reshuffle, got %d", result.VictimDrew)
	}
	if players[1].CardCount() != 3 {
		t.Errorf("Expected victim hand of 3, got %d", players[1].CardCount())
	}
}

func TestDrawCard(t *testing.T) {
	g, players := newTestGame(t, "a", "b")
	forceRound(g,
		NewCard(200, Red, Three),
		[]Card{NewCard(50, Green, One), NewCard(51, Green, Two)},
		[]Card{NewCard(1, Red, Seven)},
		[]Card{NewCard(2, Green, Five)},
	)

	result, err := g.DrawCard(1)
	if err != nil {
		t.Fatalf("DrawCard failed: %v", err)
	}

	if players[0].CardCount() != 2 {
		t.Errorf("Expected 2 cards after draw, got %d", players[0].CardCount())
	}
	// Tail card comes first
	if result.Card.id != 51 {
		t.Errorf("Expected card 51, got %d", result.Card.id)
	}
	if result.NextPlayerID != 2 {
		t.Errorf("Expected turn to pass to player 2, got %d", result.NextPlayerID)
	}

	// Now it is b's turn; a drawing again is rejected
	if _, err := g.DrawCard(1); !errors.Is(err, ErrNotYourTurn) {
		t.Errorf("Expected ErrNotYourTurn, got %v", err)
	}
}

func TestDrawCardReshufflesDiscard(t *testing.T) {
	g, players := newTestGame(t, "a", "b")
	forceRound(g, NewCard(200, Red, Three), nil,
		[]Card{NewCard(1, Red, Seven)},
		[]Card{NewCard(2, Green, Five)},
	)
	g.discard.cards = append([]Card{
		NewCard(60, Green, One),
		NewCard(61, ColorWild, Wild).WithColor(Blue),
	}, g.discard.cards...)

	result, err := g.DrawCard(1)
	if err != nil {
		t.Fatalf("DrawCard failed: %v", err)
	}

	if !result.Reshuffled {
		t.Error("Expected a reshuffle")
	}
	if players[0].CardCount() != 2 {
		t.Errorf("Expected 2 cards, got %d", players[0].CardCount())
	}
	// Top of the discard survives the reshuffle
	top, _ := g.TopCard()
	if top.id != 200 {
		t.Errorf("Expected original top card, got id %d", top.id)
	}
	if g.discard.Size() != 1 {
		t.Errorf("Expected discard size 1, got %d", g.discard.Size())
	}
	// One of the two recycled cards was drawn
	if g.DeckSize() != 1 {
		t.Errorf("Expected deck size 1, got %d", g.DeckSize())
	}
}

func TestDrawCardBothPilesEmpty(t *testing.T) {
	g, players := newTestGame(t, "a", "b")
	forceRound(g, NewCard(200, Red, Three), nil,
		[]Card{NewCard(1, Red, Seven)},
		[]Card{NewCard(2, Green, Five)},
	)

	_, err := g.DrawCard(1)
	if !errors.Is(err, ErrDeckEmpty) {
		t.Errorf("Expected ErrDeckEmpty, got %v", err)
	}
	// Nothing changes on a failed draw
	if players[0].CardCount() != 1 {
		t.Errorf("Hand changed on failed draw: %d", players[0].CardCount())
	}
	if g.CurrentPlayerID() != 1 {
		t.Errorf("Turn changed on failed draw: %d", g.CurrentPlayerID())
	}
}

func TestWinnerEndsRoundWithoutAdvance(t *testing.T) {
	g, players := newTestGame(t, "a", "b", "c")
	forceRound(g, NewCard(200, Red, Three), nil,
		[]Card{NewCard(1, Red, Five)},
		[]Card{NewCard(2, Blue, Nine), NewCard(3, Yellow, Skip), NewCard(4, ColorWild, Wild)},
		[]Card{NewCard(5, Red, Two)},
	)

	result, err := g.PlayCards(1, []Card{NewCard(1, Red, Five)})
	if err != nil {
		t.Fatalf("PlayCards failed: %v", err)
	}

	if result.Winner == nil || result.Winner.ID != 1 {
		t.Fatalf("Expected player 1 to win, got %+v", result.Winner)
	}
	if players[0].CardCount() != 0 {
		t.Errorf("Winner should have an empty hand, has %d", players[0].CardCount())
	}
	// The turn does not advance past a win
	if g.CurrentPlayerID() != 1 {
		t.Errorf("Turn advanced after a win: %d", g.CurrentPlayerID())
	}

	scores := g.Scores(1)
	if len(scores) != 2 {
		t.Fatalf("Expected 2 scores, got %d", len(scores))
	}
	if scores[0].ID != 2 || scores[0].Points != 79 {
		t.Errorf("Expected player 2 with 79 points, got %d with %d", scores[0].ID, scores[0].Points)
	}
	if scores[1].ID != 3 || scores[1].Points != 2 {
		t.Errorf("Expected player 3 with 2 points, got %d with %d", scores[1].ID, scores[1].Points)
	}
}

func TestWinningDrawTwoStillPenalizes(t *testing.T) {
	g, players := newTestGame(t, "a", "b")
	forceRound(g,
		NewCard(200, Red, Three),
		[]Card{NewCard(50, Green, One), NewCard(51, Green, Two)},
		[]Card{NewCard(1, Red, DrawTwo)},
		[]Card{NewCard(2, Green, Five)},
	)

	result, err := g.PlayCards(1, []Card{NewCard(1, Red, DrawTwo)})
	if err != nil {
		t.Fatalf("PlayCards failed: %v", err)
	}

	if result.Winner == nil || result.Winner.ID != 1 {
		t.Fatal("Expected player 1 to win")
	}
	if result.VictimID != 2 || result.VictimDrew != 2 {
		t.Errorf("Expected player 2 to draw 2 before the round ends, got %d drawing %d",
			result.VictimID, result.VictimDrew)
	}
	if players[1].CardCount() != 3 {
		t.Errorf("Expected victim hand of 3, got %d", players[1].CardCount())
	}
}

func TestSpectatorExcludedFromTurnCycle(t *testing.T) {
	g, players := newTestGame(t, "a", "b", "c")
	players[2].IsSpectator = true
	forceRound(g, NewCard(200, Red, Three), nil,
		[]Card{NewCard(1, Red, Seven), NewCard(2, Blue, Two)},
		[]Card{NewCard(3, Red, Five), NewCard(4, Green, Six)},
	)

	result, err := g.PlayCards(1, []Card{NewCard(1, Red, Seven)})
	if err != nil {
		t.Fatalf("PlayCards failed: %v", err)
	}
	if result.NextPlayerID != 2 {
		t.Errorf("Expected player 2, got %d", result.NextPlayerID)
	}

	result, err = g.PlayCards(2, []Card{NewCard(3, Red, Five)})
	if err != nil {
		t.Fatalf("PlayCards failed: %v", err)
	}
	// The cycle wraps back to a, never reaching the spectator
	if result.NextPlayerID != 1 {
		t.Errorf("Expected player 1, got %d", result.NextPlayerID)
	}
}

func TestPlayerLeavingPassesTurn(t *testing.T) {
	g, _ := newTestGame(t, "a", "b", "c")
	forceRound(g, NewCard(200, Red, Three), nil,
		[]Card{NewCard(1, Red, Seven)},
		[]Card{NewCard(2, Green, Five)},
		[]Card{NewCard(3, Yellow, Six)},
	)

	g.PlayerLeaving(1)
	if g.CurrentPlayerID() != 2 {
		t.Errorf("Expected turn to pass to player 2, got %d", g.CurrentPlayerID())
	}

	// A leave by someone else does not move the turn
	g.PlayerLeaving(3)
	if g.CurrentPlayerID() != 2 {
		t.Errorf("Turn moved on a non-current leave: %d", g.CurrentPlayerID())
	}
}

func TestEndRound(t *testing.T) {
	g, players := newTestGame(t, "a", "b")
	if err := g.StartRound(); err != nil {
		t.Fatalf("StartRound failed: %v", err)
	}
	players[1].IsSpectator = true

	g.EndRound()

	if g.RoundInProgress() {
		t.Error("Round should not be in progress")
	}
	for _, p := range players {
		if p.CardCount() != 0 {
			t.Errorf("%s still holds %d cards", p.Name, p.CardCount())
		}
		if p.IsSpectator {
			t.Errorf("%s still flagged as spectator", p.Name)
		}
	}
	if g.DeckSize() != 108 {
		t.Errorf("Expected a rebuilt deck of 108, got %d", g.DeckSize())
	}
	if g.discard.Size() != 0 {
		t.Errorf("Expected an empty discard, got %d", g.discard.Size())
	}
	if g.Direction() != 1 {
		t.Errorf("Expected direction reset to 1, got %d", g.Direction())
	}
}

func TestGameState(t *testing.T) {
	g, _ := newTestGame(t, "a", "b")
	forceRound(g,
		NewCard(200, Red, Three),
		[]Card{NewCard(50, Green, One)},
		[]Card{NewCard(1, Red, Seven)},
		[]Card{NewCard(2, Green, Five)},
	)

	st := g.State()
	if st.ID != 1 {
		t.Errorf("Expected room id 1, got %d", st.ID)
	}
	if st.CurrentPlayer != 1 {
		t.Errorf("Expected current player 1, got %d", st.CurrentPlayer)
	}
	if st.TopCard == nil || st.TopCard.id != 200 {
		t.Error("Expected top card in state")
	}
	if st.DeckSize != 1 {
		t.Errorf("Expected deck size 1, got %d", st.DeckSize)
	}
	if st.PlayerCount != 2 {
		t.Errorf("Expected player count 2, got %d", st.PlayerCount)
	}
	if !st.RoundInProgress {
		t.Error("Expected round in progress")
	}
}
