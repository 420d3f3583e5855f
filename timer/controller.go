// Package timer is the client-side countdown controller. It owns a local
// clock driven by an external once-per-second tick and keeps it consistent
// with the single outstanding server session. All state lives on the
// Controller value, so multiple instances never collide.
package timer

import (
	"context"
	"errors"
)

// Client-side bounds on the requested duration, in minutes.
const (
	MinMinutes = 1
	MaxMinutes = 240
)

var ErrInvalidMinutes = errors.New("minutes must be between 1 and 240")

// State is the controller's local state.
type State int

const (
	// StateIdle: no countdown running. A stale session id may still be held
	// after Reset so a later Cancel can close the server record.
	StateIdle State = iota
	// StateRunning: countdown ticking, open server session held.
	StateRunning
	// StatePaused: countdown stopped locally; the server session stays open.
	StatePaused
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	default:
		return "idle"
	}
}

// Controller runs the countdown state machine over an injected Service. It is
// not safe for concurrent use; drive it from a single goroutine, one tick per
// second, the way a UI event loop does.
type Controller struct {
	svc Service

	state       State
	sessionID   string
	runDuration int // seconds originally requested
	timeLeft    int
	completed   bool // last countdown ran to zero

	todayMinutes int
}

func NewController(svc Service) *Controller {
	return &Controller{svc: svc}
}

func (c *Controller) State() State      { return c.state }
func (c *Controller) TimeLeft() int     { return c.timeLeft }
func (c *Controller) RunDuration() int  { return c.runDuration }
func (c *Controller) SessionID() string { return c.sessionID }
func (c *Controller) TodayMinutes() int { return c.todayMinutes }
func (c *Controller) Completed() bool   { return c.completed }

// Start validates minutes client-side before any network call, then opens a
// server session. The countdown only begins once the server has confirmed the
// session: on any error the controller stays Idle.
func (c *Controller) Start(ctx context.Context, minutes int, taskID string) error {
	if c.state != StateIdle {
		return errors.New("a countdown is already in progress")
	}
	if minutes < MinMinutes || minutes > MaxMinutes {
		return ErrInvalidMinutes
	}

	session, err := c.svc.Start(ctx, minutes*60, taskID)
	if err != nil {
		return err
	}

	c.sessionID = session.ID
	c.runDuration = minutes * 60
	c.timeLeft = c.runDuration
	c.completed = false
	c.state = StateRunning
	return nil
}

// Tick advances the countdown by one second. At zero it synchronously fires
// exactly one Finish call, refreshes the daily total best-effort, and returns
// to Idle. Returns true on the tick that expires the countdown.
func (c *Controller) Tick(ctx context.Context) bool {
	if c.state != StateRunning {
		return false
	}

	if c.timeLeft > 0 {
		c.timeLeft--
	}
	if c.timeLeft > 0 {
		return false
	}

	// Leave Running before any network call so a re-entrant tick can't
	// double-finish.
	c.state = StateIdle
	c.completed = true
	sid := c.sessionID
	c.sessionID = ""

	if sid != "" {
		_, _ = c.svc.Finish(ctx, sid)
	}
	c.refreshToday(ctx)
	return true
}

// Pause stops the local countdown and notifies the server best-effort; local
// state pauses regardless of the call's outcome.
func (c *Controller) Pause(ctx context.Context) {
	if c.state != StateRunning || c.timeLeft <= 0 {
		return
	}
	c.state = StatePaused
	if c.sessionID != "" {
		_, _ = c.svc.Pause(ctx, c.sessionID)
	}
}

// Resume re-enters Running with the remaining time, only while time is left.
// The server resume is best-effort.
func (c *Controller) Resume(ctx context.Context) {
	if c.state != StatePaused || c.timeLeft <= 0 {
		return
	}
	c.state = StateRunning
	if c.sessionID != "" {
		_, _ = c.svc.Resume(ctx, c.sessionID)
	}
}

// Reset is a local do-over: it restores the requested duration and forces
// Idle without touching the server. The held session id survives so Cancel
// can still close the record; otherwise it stays open and is never counted.
func (c *Controller) Reset() {
	c.timeLeft = c.runDuration
	c.completed = false
	c.state = StateIdle
}

// Cancel fires exactly one Cancel call for the held session, refreshes the
// daily total, and returns to Idle regardless of the call's outcome.
func (c *Controller) Cancel(ctx context.Context) {
	sid := c.sessionID
	c.sessionID = ""
	c.state = StateIdle
	c.timeLeft = c.runDuration
	c.completed = false

	if sid != "" {
		_, _ = c.svc.Cancel(ctx, sid)
	}
	c.refreshToday(ctx)
}

// RefreshToday re-reads the daily completed-minutes total.
func (c *Controller) RefreshToday(ctx context.Context) error {
	minutes, err := c.svc.TodayMinutes(ctx)
	if err != nil {
		return err
	}
	c.todayMinutes = minutes
	return nil
}

func (c *Controller) refreshToday(ctx context.Context) {
	if minutes, err := c.svc.TodayMinutes(ctx); err == nil {
		c.todayMinutes = minutes
	}
}
