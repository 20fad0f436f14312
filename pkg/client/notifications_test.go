package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vctt94/unoserver/pkg/uno"
)

func TestNtfnRegisterUnregister(t *testing.T) {
	nmgr := NewNotificationManager()

	calls := 0
	reg := nmgr.RegisterSync(onTestNtfn(func() { calls++ }))
	require.True(t, nmgr.AnyRegistered(onTestNtfn(nil)))

	nmgr.notifyTest()
	assert.Equal(t, 1, calls)

	require.True(t, reg.Unregister())
	require.False(t, reg.Unregister(), "second unregister must report false")
	require.False(t, nmgr.AnyRegistered(onTestNtfn(nil)))

	nmgr.notifyTest()
	assert.Equal(t, 1, calls, "unregistered handler must not fire")
}

func TestNtfnMultipleHandlers(t *testing.T) {
	nmgr := NewNotificationManager()

	var got []string
	nmgr.RegisterSync(OnServerErrorNtfn(func(reason string) { got = append(got, "a:"+reason) }))
	nmgr.RegisterSync(OnServerErrorNtfn(func(reason string) { got = append(got, "b:"+reason) }))

	nmgr.notifyServerError("nope")
	assert.Len(t, got, 2)
}

func TestNtfnTypedPayloads(t *testing.T) {
	nmgr := NewNotificationManager()

	var winner uno.WinnerFound
	nmgr.RegisterSync(OnWinnerNtfn(func(w uno.WinnerFound) { winner = w }))

	var turns int
	nmgr.RegisterSync(OnYourTurnNtfn(func() { turns++ }))

	nmgr.notifyWinner(uno.WinnerFound{
		Winner: uno.PlayerPublic{ID: 9, Name: "carol"},
		Scores: []uno.PlayerScore{{ID: 4, Name: "dave", Points: 27}},
	})
	nmgr.notifyYourTurn()
	nmgr.notifyYourTurn()

	assert.Equal(t, int64(9), winner.Winner.ID)
	require.Len(t, winner.Scores, 1)
	assert.Equal(t, 27, winner.Scores[0].Points)
	assert.Equal(t, 2, turns)
}

func TestNtfnWrongTypePanics(t *testing.T) {
	nmgr := NewNotificationManager()
	assert.Panics(t, func() {
		nmgr.handlers[onYourTurnNtfnType].Register(OnServerErrorNtfn(func(string) {}), false)
	})
}
