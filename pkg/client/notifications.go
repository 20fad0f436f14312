package client

import (
	"fmt"
	"sync"

	"github.com/vctt94/unoserver/pkg/uno"
)

// Following are the notification types. Add new types at the bottom of this
// list, then add a notifyX() to NotificationManager and initialize a new
// container in NewNotificationManager().

const onIdentityNtfnType = "onIdentity"

// OnIdentityNtfn is the handler for the identity event sent on connect.
type OnIdentityNtfn func(uno.PlayerPrivate)

func (_ OnIdentityNtfn) typ() string { return onIdentityNtfnType }

const onRoomListNtfnType = "onRoomList"

// OnRoomListNtfn is the handler for lobby room list updates.
type OnRoomListNtfn func([]uno.RoomSummary)

func (_ OnRoomListNtfn) typ() string { return onRoomListNtfnType }

const onJoinedGameNtfnType = "onJoinedGame"

// OnJoinedGameNtfn is the handler for our own successful room join.
type OnJoinedGameNtfn func(uno.RoomSummary)

func (_ OnJoinedGameNtfn) typ() string { return onJoinedGameNtfnType }

const onPlayersUpdatedNtfnType = "onPlayersUpdated"

// OnPlayersUpdatedNtfn is the handler for room participant list updates.
type OnPlayersUpdatedNtfn func([]uno.PlayerPublic)

func (_ OnPlayersUpdatedNtfn) typ() string { return onPlayersUpdatedNtfnType }

const onHandUpdatedNtfnType = "onHandUpdated"

// OnHandUpdatedNtfn is the handler for private hand updates.
type OnHandUpdatedNtfn func(uno.PlayerPrivate)

func (_ OnHandUpdatedNtfn) typ() string { return onHandUpdatedNtfnType }

const onGameStateNtfnType = "onGameState"

// OnGameStateNtfn is the handler for public game state updates.
type OnGameStateNtfn func(uno.GameState)

func (_ OnGameStateNtfn) typ() string { return onGameStateNtfnType }

const onYourTurnNtfnType = "onYourTurn"

// OnYourTurnNtfn is the handler for turn notifications.
type OnYourTurnNtfn func()

func (_ OnYourTurnNtfn) typ() string { return onYourTurnNtfnType }

const onCardPlayedNtfnType = "onCardPlayed"

// OnCardPlayedNtfn is the handler for accepted plays in the room.
type OnCardPlayedNtfn func(uno.CardPlayed)

func (_ OnCardPlayedNtfn) typ() string { return onCardPlayedNtfnType }

const onWinnerNtfnType = "onWinner"

// OnWinnerNtfn is the handler for end-of-round results.
type OnWinnerNtfn func(uno.WinnerFound)

func (_ OnWinnerNtfn) typ() string { return onWinnerNtfnType }

const onServerErrorNtfnType = "onServerError"

// OnServerErrorNtfn is the handler for error events. The server keeps
// the connection open; these are rejections of individual commands.
type OnServerErrorNtfn func(string)

func (_ OnServerErrorNtfn) typ() string { return onServerErrorNtfnType }

// The following is used only in tests.

const onTestNtfnType = "testNtfnType"

type onTestNtfn func()

func (_ onTestNtfn) typ() string { return onTestNtfnType }

// Following is the generic notification code.

type NotificationRegistration struct {
	unreg func() bool
}

func (reg NotificationRegistration) Unregister() bool {
	return reg.unreg()
}

type NotificationHandler interface {
	typ() string
}

type handler[T any] struct {
	handler T
	async   bool
}

type handlersFor[T any] struct {
	mtx      sync.Mutex
	next     uint
	handlers map[uint]handler[T]
}

func (hn *handlersFor[T]) register(h T, async bool) NotificationRegistration {
	var id uint

	hn.mtx.Lock()
	id, hn.next = hn.next, hn.next+1
	if hn.handlers == nil {
		hn.handlers = make(map[uint]handler[T])
	}
	hn.handlers[id] = handler[T]{handler: h, async: async}
	registered := true
	hn.mtx.Unlock()

	return NotificationRegistration{
		unreg: func() bool {
			hn.mtx.Lock()
			res := registered
			if registered {
				delete(hn.handlers, id)
				registered = false
			}
			hn.mtx.Unlock()
			return res
		},
	}
}

func (hn *handlersFor[T]) visit(f func(T)) {
	hn.mtx.Lock()
	for _, h := range hn.handlers {
		if h.async {
			go f(h.handler)
		} else {
			f(h.handler)
		}
	}
	hn.mtx.Unlock()
}

func (hn *handlersFor[T]) Register(v interface{}, async bool) NotificationRegistration {
	if h, ok := v.(T); !ok {
		panic("wrong type")
	} else {
		return hn.register(h, async)
	}
}

func (hn *handlersFor[T]) AnyRegistered() bool {
	hn.mtx.Lock()
	res := len(hn.handlers) > 0
	hn.mtx.Unlock()
	return res
}

type handlersRegistry interface {
	Register(v interface{}, async bool) NotificationRegistration
	AnyRegistered() bool
}

// NotificationManager demuxes server events into typed callbacks.
type NotificationManager struct {
	handlers map[string]handlersRegistry
}

func (nmgr *NotificationManager) register(handler NotificationHandler, async bool) NotificationRegistration {
	handlers := nmgr.handlers[handler.typ()]
	if handlers == nil {
		panic(fmt.Sprintf("forgot to init the handler type %T "+
			"in NewNotificationManager", handler))
	}

	return handlers.Register(handler, async)
}

// Register registers a callback notification function that is called
// asynchronously to the event (i.e. in a separate goroutine).
func (nmgr *NotificationManager) Register(handler NotificationHandler) NotificationRegistration {
	return nmgr.register(handler, true)
}

// RegisterSync registers a callback notification function that is called
// synchronously to the event. This callback SHOULD return as soon as
// possible, otherwise the client read loop hangs.
//
// Synchronous callbacks are mostly intended for tests and when external
// callers need to ensure proper order of multiple sequential events.
func (nmgr *NotificationManager) RegisterSync(handler NotificationHandler) NotificationRegistration {
	return nmgr.register(handler, false)
}

// AnyRegistered returns true if there are any handlers registered for
// the given handler type.
func (nmgr *NotificationManager) AnyRegistered(handler NotificationHandler) bool {
	return nmgr.handlers[handler.typ()].AnyRegistered()
}

func (nmgr *NotificationManager) notifyIdentity(p uno.PlayerPrivate) {
	nmgr.handlers[onIdentityNtfnType].(*handlersFor[OnIdentityNtfn]).
		visit(func(h OnIdentityNtfn) { h(p) })
}

func (nmgr *NotificationManager) notifyRoomList(rooms []uno.RoomSummary) {
	nmgr.handlers[onRoomListNtfnType].(*handlersFor[OnRoomListNtfn]).
		visit(func(h OnRoomListNtfn) { h(rooms) })
}

func (nmgr *NotificationManager) notifyJoinedGame(room uno.RoomSummary) {
	nmgr.handlers[onJoinedGameNtfnType].(*handlersFor[OnJoinedGameNtfn]).
		visit(func(h OnJoinedGameNtfn) { h(room) })
}

func (nmgr *NotificationManager) notifyPlayersUpdated(players []uno.PlayerPublic) {
	nmgr.handlers[onPlayersUpdatedNtfnType].(*handlersFor[OnPlayersUpdatedNtfn]).
		visit(func(h OnPlayersUpdatedNtfn) { h(players) })
}

func (nmgr *NotificationManager) notifyHandUpdated(p uno.PlayerPrivate) {
	nmgr.handlers[onHandUpdatedNtfnType].(*handlersFor[OnHandUpdatedNtfn]).
		visit(func(h OnHandUpdatedNtfn) { h(p) })
}

func (nmgr *NotificationManager) notifyGameState(state uno.GameState) {
	nmgr.handlers[onGameStateNtfnType].(*handlersFor[OnGameStateNtfn]).
		visit(func(h OnGameStateNtfn) { h(state) })
}

func (nmgr *NotificationManager) notifyYourTurn() {
	nmgr.handlers[onYourTurnNtfnType].(*handlersFor[OnYourTurnNtfn]).
		visit(func(h OnYourTurnNtfn) { h() })
}

func (nmgr *NotificationManager) notifyCardPlayed(played uno.CardPlayed) {
	nmgr.handlers[onCardPlayedNtfnType].(*handlersFor[OnCardPlayedNtfn]).
		visit(func(h OnCardPlayedNtfn) { h(played) })
}

func (nmgr *NotificationManager) notifyWinner(result uno.WinnerFound) {
	nmgr.handlers[onWinnerNtfnType].(*handlersFor[OnWinnerNtfn]).
		visit(func(h OnWinnerNtfn) { h(result) })
}

func (nmgr *NotificationManager) notifyServerError(reason string) {
	nmgr.handlers[onServerErrorNtfnType].(*handlersFor[OnServerErrorNtfn]).
		visit(func(h OnServerErrorNtfn) { h(reason) })
}

func (nmgr *NotificationManager) notifyTest() {
	nmgr.handlers[onTestNtfnType].(*handlersFor[onTestNtfn]).
		visit(func(h onTestNtfn) { h() })
}

// NewNotificationManager creates a notification manager with every
// handler type container initialized.
func NewNotificationManager() *NotificationManager {
	return &NotificationManager{
		handlers: map[string]handlersRegistry{
			onIdentityNtfnType:       &handlersFor[OnIdentityNtfn]{},
			onRoomListNtfnType:       &handlersFor[OnRoomListNtfn]{},
			onJoinedGameNtfnType:     &handlersFor[OnJoinedGameNtfn]{},
			onPlayersUpdatedNtfnType: &handlersFor[OnPlayersUpdatedNtfn]{},
			onHandUpdatedNtfnType:    &handlersFor[OnHandUpdatedNtfn]{},
			onGameStateNtfnType:      &handlersFor[OnGameStateNtfn]{},
			onYourTurnNtfnType:       &handlersFor[OnYourTurnNtfn]{},
			onCardPlayedNtfnType:     &handlersFor[OnCardPlayedNtfn]{},
			onWinnerNtfnType:         &handlersFor[OnWinnerNtfn]{},
			onServerErrorNtfnType:    &handlersFor[OnServerErrorNtfn]{},
			onTestNtfnType:           &handlersFor[onTestNtfn]{},
		},
	}
}
