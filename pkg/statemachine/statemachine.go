// Package statemachine implements a small generic state machine in the
// state-functions style: each state is a function that does its work
// and returns the next state. A nil state terminates the machine.
package statemachine

import (
	"sync"
)

// StateFn is one state of the machine. It receives the owning entity
// and returns the state to transition to.
type StateFn[T any] func(*T) StateFn[T]

// StateMachine drives an entity through its state functions. The
// machine itself is goroutine-safe; the entity's own synchronization is
// the caller's concern.
type StateMachine[T any] struct {
	entity  *T
	stateFn StateFn[T]
	mutex   sync.RWMutex
}

// NewStateMachine creates a machine for the given entity, positioned at
// the initial state without executing it.
func NewStateMachine[T any](entity *T, initial StateFn[T]) *StateMachine[T] {
	return &StateMachine[T]{
		entity:  entity,
		stateFn: initial,
	}
}

// Dispatch jumps to the given state, executes it once, and records the
// state it returns. Dispatching nil terminates the machine.
func (sm *StateMachine[T]) Dispatch(stateFn StateFn[T]) {
	sm.mutex.Lock()
	sm.stateFn = stateFn
	sm.mutex.Unlock()

	if stateFn == nil {
		return
	}
	next := stateFn(sm.entity)

	sm.mutex.Lock()
	sm.stateFn = next
	sm.mutex.Unlock()
}

// GetCurrentState returns the state the machine currently sits in, nil
// once terminated.
func (sm *StateMachine[T]) GetCurrentState() StateFn[T] {
	sm.mutex.RLock()
	defer sm.mutex.RUnlock()
	return sm.stateFn
}
