package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Duration bounds for a focus session, in seconds.
const (
	MinSessionSeconds = 60
	MaxSessionSeconds = 24 * 60 * 60
)

// SessionStatus is the derived lifecycle state of a focus session. The stored
// record encodes it through endedAt presence plus the completed flag; both are
// only ever written together in a single close, so the illegal combination
// (completed without endedAt) never reaches storage.
type SessionStatus string

const (
	SessionOpen      SessionStatus = "open"
	SessionFinished  SessionStatus = "finished"
	SessionCancelled SessionStatus = "cancelled"
)

// FocusSession is one timed focus interval, embedded in the user document.
// durationSeconds and startedAt are fixed at creation; endedAt, once set, is
// never changed again.
type FocusSession struct {
	ID              primitive.ObjectID  `bson:"_id" json:"id"`
	TaskID          *primitive.ObjectID `bson:"task_id,omitempty" json:"taskId"`
	DurationSeconds int                 `bson:"duration_seconds" json:"durationSeconds"`
	StartedAt       time.Time           `bson:"started_at" json:"startedAt"`
	EndedAt         *time.Time          `bson:"ended_at,omitempty" json:"endedAt"`
	Completed       bool                `bson:"completed" json:"completed"`
	PausedSeconds   int                 `bson:"paused_seconds" json:"pausedSeconds"`
	PausedAt        *time.Time          `bson:"paused_at,omitempty" json:"pausedAt,omitempty"`
}

// Status derives the lifecycle variant.
func (s *FocusSession) Status() SessionStatus {
	switch {
	case s.EndedAt == nil:
		return SessionOpen
	case s.Completed:
		return SessionFinished
	default:
		return SessionCancelled
	}
}

// Ended reports whether the session has been closed, by either finish or cancel.
func (s *FocusSession) Ended() bool {
	return s.EndedAt != nil
}

// Paused reports whether a pause is currently in effect on an open session.
func (s *FocusSession) Paused() bool {
	return s.EndedAt == nil && s.PausedAt != nil
}
