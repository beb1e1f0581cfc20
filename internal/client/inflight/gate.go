// Package inflight limits each state-changing action to one outstanding
// request.
package inflight

import (
	"errors"
	"sync"
)

// ErrInFlight is returned when the same action is already running.
var ErrInFlight = errors.New("request already in progress")

// Action names a guarded operation.
type Action string

const (
	Accept             Action = "accept"
	SubmitWork         Action = "submit-work"
	Review             Action = "review"
	Create             Action = "create"
	SetPayout          Action = "set-payout"
	ToggleRegistration Action = "toggle-registration"
	EditUser           Action = "edit-user"
	DeleteUser         Action = "delete-user"
	RecordPayout       Action = "record-payout"
	Summarize          Action = "summarize"
)

// Gate tracks running actions. The zero value is ready to use.
type Gate struct {
	mu      sync.Mutex
	running map[Action]bool
}

// Do runs fn unless action is already running, in which case it returns
// ErrInFlight at once. Nothing is queued or retried.
func (g *Gate) Do(action Action, fn func() error) error {
	if !g.acquire(action) {
		return ErrInFlight
	}
	defer g.release(action)
	return fn()
}

// Busy reports whether action is running.
func (g *Gate) Busy(action Action) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.running[action]
}

func (g *Gate) acquire(action Action) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.running == nil {
		g.running = make(map[Action]bool)
	}
	if g.running[action] {
		return false
	}
	g.running[action] = true
	return true
}

func (g *Gate) release(action Action) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.running, action)
}
