package uno

import "errors"

// Domain errors surfaced to clients as error events. Engine state is
// unchanged on every one of these failure paths; they are all retryable
// and never close the client's connection.
var (
	ErrNotYourTurn        = errors.New("not your turn")
	ErrInvalidPlay        = errors.New("card does not match the top of the discard pile")
	ErrCardNotInHand      = errors.New("card not in hand")
	ErrPlayerNotFound     = errors.New("player not found")
	ErrGameNotFound       = errors.New("game not found")
	ErrGameFull           = errors.New("game is full")
	ErrAlreadyInGame      = errors.New("player already in game")
	ErrDeckEmpty          = errors.New("deck is empty")
	ErrNotHost            = errors.New("only the host may do that")
	ErrRoundNotInProgress = errors.New("no round in progress")
	ErrEmptyPlay          = errors.New("no cards in play")
	ErrMixedValues        = errors.New("all cards in a multi-card play must share a value")
)
