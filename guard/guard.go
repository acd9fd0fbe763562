// Copyright (c) 2025 Marco Rinaldi.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package guard

import (
	"log/slog"
	"sync"
	"time"
)

// Action identifies a destructive operation protected by the guard.
type Action string

const (
	ActionClearVotes Action = "clear-votes"
	ActionWipe       Action = "wipe"
	ActionTerminate  Action = "terminate"
)

// DefaultTimeout is how long an armed action stays confirmable.
const DefaultTimeout = 5 * time.Second

// Result reports what an invocation did. When Executed is false the
// action is armed and Deadline says until when the confirmation is
// accepted.
type Result struct {
	Executed bool
	Deadline time.Time
}

// Guard wraps destructive actions in a two-step confirmation. The
// first invocation arms the action without executing it; a second
// invocation before the deadline executes and disarms; silence past
// the deadline disarms automatically. One pending arm per action kind;
// re-arming after expiry resets the deadline.
type Guard struct {
	mu      sync.Mutex
	timeout time.Duration
	now     func() time.Time
	armed   map[Action]time.Time
	logger  *slog.Logger
}

func New(timeout time.Duration, logger *slog.Logger) *Guard {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Guard{
		timeout: timeout,
		now:     time.Now,
		armed:   map[Action]time.Time{},
		logger:  logger,
	}
}

// Invoke either arms the action or, if it is already armed and the
// deadline has not passed, runs fn. Expired arms count as a fresh
// first invocation.
func (g *Guard) Invoke(action Action, fn func() error) (Result, error) {
	g.mu.Lock()
	deadline, pending := g.armed[action]
	if pending && g.now().After(deadline) {
		pending = false
	}
	if !pending {
		deadline = g.now().Add(g.timeout)
		g.armed[action] = deadline
		g.mu.Unlock()
		g.logger.Info("action armed", "action", string(action), "deadline", deadline)
		return Result{Executed: false, Deadline: deadline}, nil
	}
	delete(g.armed, action)
	g.mu.Unlock()

	if err := fn(); err != nil {
		return Result{}, err
	}
	g.logger.Info("action confirmed and executed", "action", string(action))
	return Result{Executed: true}, nil
}

// Abandon cancels a pending confirmation, if any.
func (g *Guard) Abandon(action Action) {
	g.mu.Lock()
	_, pending := g.armed[action]
	delete(g.armed, action)
	g.mu.Unlock()
	if pending {
		g.logger.Info("pending confirmation abandoned", "action", string(action))
	}
}

// Pending reports whether the action is armed and not expired, along
// with its deadline.
func (g *Guard) Pending(action Action) (time.Time, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	deadline, ok := g.armed[action]
	if !ok || g.now().After(deadline) {
		return time.Time{}, false
	}
	return deadline, true
}
