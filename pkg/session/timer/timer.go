// Copyright (c) 2025 StarCoach
//
// Licensed under the MIT License. See LICENSE.md for details.
package session_timer

import (
	"sync"
	"time"
)

// Urgency is a display hint derived from the remaining time. It never gates
// any transition.
type Urgency string

const (
	UrgencyNormal   Urgency = "normal"
	UrgencyWarning  Urgency = "warning"  // 30s or less
	UrgencyCritical Urgency = "critical" // 15s or less
)

const (
	warningThreshold  = 30
	criticalThreshold = 15

	// DefaultTick is the countdown cadence.
	DefaultTick = time.Second
)

// Engine counts down from a configured number of seconds on a fixed cadence
// and fires an expiry callback exactly once when it reaches zero.
//
// The callback reference is re-read at the moment of firing, so wiring it
// after Start() (the usual case, since the stop sequence only exists once the
// rest of the session is assembled) still works.
type Engine struct {
	mu        sync.Mutex
	total     int
	remaining int
	running   bool
	onExpire  func()
	tick      time.Duration
	cancel    chan struct{}
}

// Option configures NewEngine.
type Option func(*Engine)

// WithTickInterval overrides the 1s cadence. Intended for tests.
func WithTickInterval(d time.Duration) Option {
	return func(e *Engine) { e.tick = d }
}

// NewEngine creates a stopped engine configured for totalSeconds.
func NewEngine(totalSeconds int, opts ...Option) *Engine {
	e := &Engine{
		total:     totalSeconds,
		remaining: totalSeconds,
		tick:      DefaultTick,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SetOnExpire replaces the expiry callback. The most recently supplied
// callback is the one invoked when the countdown reaches zero.
func (e *Engine) SetOnExpire(fn func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onExpire = fn
}

// Configure sets the total duration. When the engine is not running the
// displayed remaining time follows immediately.
func (e *Engine) Configure(totalSeconds int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.total = totalSeconds
	if !e.running {
		e.remaining = totalSeconds
	}
}

// Start begins the countdown. Calling Start on a running engine is a no-op.
func (e *Engine) Start() {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return
	}
	e.running = true
	cancel := make(chan struct{})
	e.cancel = cancel
	tick := e.tick
	e.mu.Unlock()

	go e.run(cancel, tick)
}

func (e *Engine) run(cancel chan struct{}, tick time.Duration) {
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-cancel:
			return
		case <-ticker.C:
			var expire func()
			e.mu.Lock()
			if !e.running {
				e.mu.Unlock()
				return
			}
			if e.remaining <= 1 {
				e.remaining = 0
				e.running = false
				e.cancel = nil
				expire = e.onExpire
				e.mu.Unlock()
				if expire != nil {
					expire()
				}
				return
			}
			e.remaining--
			e.mu.Unlock()
		}
	}
}

// Stop cancels the cadence without firing expiry. Idempotent.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopLocked()
}

func (e *Engine) stopLocked() {
	if e.cancel != nil {
		close(e.cancel)
		e.cancel = nil
	}
	e.running = false
}

// Reset stops the engine and restores the remaining time to newTotal, or to
// the last configured total when newTotal is omitted.
func (e *Engine) Reset(newTotal ...int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopLocked()
	if len(newTotal) > 0 {
		e.total = newTotal[0]
	}
	e.remaining = e.total
}

// Close tears the engine down, guaranteeing no stale tick fires afterwards.
func (e *Engine) Close() {
	e.Stop()
}

// Remaining returns the seconds left, clamped to [0, total].
func (e *Engine) Remaining() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.remaining
}

// Running reports whether the cadence is active.
func (e *Engine) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running
}

// Urgency classifies the remaining time for display.
func (e *Engine) Urgency() Urgency {
	switch r := e.Remaining(); {
	case r <= criticalThreshold:
		return UrgencyCritical
	case r <= warningThreshold:
		return UrgencyWarning
	default:
		return UrgencyNormal
	}
}
