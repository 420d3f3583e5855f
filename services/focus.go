package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/Osmankaankorkmaz/Tonica/models"
)

// SessionStore is the durable per-user list of focus sessions. Creation is
// append-only; the only mutations are the single close (endedAt + completed +
// final pausedSeconds in one write) and the pause marker updates.
type SessionStore interface {
	AppendSession(ctx context.Context, userID primitive.ObjectID, s models.FocusSession) error
	GetSession(ctx context.Context, userID, sessionID primitive.ObjectID) (*models.FocusSession, error)
	ListSessions(ctx context.Context, userID primitive.ObjectID) ([]models.FocusSession, error)

	// CloseSession sets endedAt/completed/pausedSeconds and clears any pause
	// marker, guarded on the session still being open. Returns false when the
	// guard did not match (already closed by a concurrent call).
	CloseSession(ctx context.Context, userID, sessionID primitive.ObjectID, endedAt time.Time, completed bool, pausedSeconds int) (bool, error)

	// SetPause stamps (pausedAt != nil) or clears (pausedAt == nil) the pause
	// marker and stores the accumulated pausedSeconds, guarded on the session
	// still being open. Returns false when the guard did not match.
	SetPause(ctx context.Context, userID, sessionID primitive.ObjectID, pausedAt *time.Time, pausedSeconds int) (bool, error)
}

// TaskLookup is the only thing the focus engine needs from the task domain:
// an existence check scoped to the owning user.
type TaskLookup interface {
	TaskExists(ctx context.Context, userID, taskID primitive.ObjectID) (bool, error)
}

// FocusService enacts the session lifecycle transitions and answers the daily
// total. It is stateless and reactive: no background timers, every transition
// is driven by an explicit call.
type FocusService struct {
	store SessionStore
	tasks TaskLookup
	log   *zap.Logger
	now   func() time.Time
}

func NewFocusService(store SessionStore, tasks TaskLookup, log *zap.Logger) *FocusService {
	return &FocusService{store: store, tasks: tasks, log: log, now: time.Now}
}

// Start validates the duration and optional task reference, then appends a new
// open session. Overlapping open sessions for the same user are allowed.
func (s *FocusService) Start(ctx context.Context, userID string, durationSeconds int, taskID string) (*models.FocusSession, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: user", ErrNotFound)
	}

	if durationSeconds < models.MinSessionSeconds || durationSeconds > models.MaxSessionSeconds {
		return nil, fmt.Errorf("%w: durationSeconds must be between %d and %d",
			ErrInvalidInput, models.MinSessionSeconds, models.MaxSessionSeconds)
	}

	var tid *primitive.ObjectID
	if taskID != "" {
		parsed, err := primitive.ObjectIDFromHex(taskID)
		if err != nil {
			return nil, fmt.Errorf("%w: malformed taskId", ErrInvalidInput)
		}
		exists, err := s.tasks.TaskExists(ctx, uid, parsed)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, fmt.Errorf("%w: task", ErrNotFound)
		}
		tid = &parsed
	}

	session := models.FocusSession{
		ID:              primitive.NewObjectID(),
		TaskID:          tid,
		DurationSeconds: durationSeconds,
		StartedAt:       s.now(),
		EndedAt:         nil,
		Completed:       false,
		PausedSeconds:   0,
	}

	if err := s.store.AppendSession(ctx, uid, session); err != nil {
		return nil, err
	}

	s.log.Info("focus session started",
		zap.String("user_id", userID),
		zap.String("session_id", session.ID.Hex()),
		zap.Int("duration_seconds", durationSeconds))

	return &session, nil
}

// Finish closes the session as completed. Closing an already-ended session is
// a no-op that returns the stored record unchanged, so client retries and the
// expiry-vs-cancel race are harmless.
func (s *FocusService) Finish(ctx context.Context, userID, sessionID string) (*models.FocusSession, error) {
	return s.close(ctx, userID, sessionID, true)
}

// Cancel closes the session as abandoned, with the same tolerance as Finish.
func (s *FocusService) Cancel(ctx context.Context, userID, sessionID string) (*models.FocusSession, error) {
	return s.close(ctx, userID, sessionID, false)
}

func (s *FocusService) close(ctx context.Context, userID, sessionID string, completed bool) (*models.FocusSession, error) {
	uid, sid, err := parseIDs(userID, sessionID)
	if err != nil {
		return nil, err
	}

	session, err := s.store.GetSession(ctx, uid, sid)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, fmt.Errorf("%w: session", ErrNotFound)
	}
	if session.Ended() {
		return session, nil
	}

	endedAt := s.now()
	if endedAt.Before(session.StartedAt) {
		endedAt = session.StartedAt
	}

	pausedSeconds := session.PausedSeconds
	if session.PausedAt != nil {
		pausedSeconds += elapsedSeconds(*session.PausedAt, endedAt)
	}

	closed, err := s.store.CloseSession(ctx, uid, sid, endedAt, completed, pausedSeconds)
	if err != nil {
		return nil, err
	}
	if !closed {
		// Lost the race to another finish/cancel; whoever landed first wins.
		return s.store.GetSession(ctx, uid, sid)
	}

	session.EndedAt = &endedAt
	session.Completed = completed
	session.PausedSeconds = pausedSeconds
	session.PausedAt = nil

	s.log.Info("focus session closed",
		zap.String("user_id", userID),
		zap.String("session_id", sessionID),
		zap.Bool("completed", completed))

	return session, nil
}

// Pause stamps the pause marker on an open session. Ended or already-paused
// sessions are returned unchanged.
func (s *FocusService) Pause(ctx context.Context, userID, sessionID string) (*models.FocusSession, error) {
	uid, sid, err := parseIDs(userID, sessionID)
	if err != nil {
		return nil, err
	}

	session, err := s.store.GetSession(ctx, uid, sid)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, fmt.Errorf("%w: session", ErrNotFound)
	}
	if session.Ended() || session.Paused() {
		return session, nil
	}

	pausedAt := s.now()
	ok, err := s.store.SetPause(ctx, uid, sid, &pausedAt, session.PausedSeconds)
	if err != nil {
		return nil, err
	}
	if !ok {
		return s.store.GetSession(ctx, uid, sid)
	}

	session.PausedAt = &pausedAt
	return session, nil
}

// Resume clears the pause marker, folding the paused interval into
// pausedSeconds. Ended or un-paused sessions are returned unchanged.
func (s *FocusService) Resume(ctx context.Context, userID, sessionID string) (*models.FocusSession, error) {
	uid, sid, err := parseIDs(userID, sessionID)
	if err != nil {
		return nil, err
	}

	session, err := s.store.GetSession(ctx, uid, sid)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, fmt.Errorf("%w: session", ErrNotFound)
	}
	if session.Ended() || !session.Paused() {
		return session, nil
	}

	pausedSeconds := session.PausedSeconds + elapsedSeconds(*session.PausedAt, s.now())
	ok, err := s.store.SetPause(ctx, uid, sid, nil, pausedSeconds)
	if err != nil {
		return nil, err
	}
	if !ok {
		return s.store.GetSession(ctx, uid, sid)
	}

	session.PausedAt = nil
	session.PausedSeconds = pausedSeconds
	return session, nil
}

// TodayMinutes sums durationSeconds over completed sessions whose startedAt
// falls inside the current day in loc, rounded to the nearest minute. Sessions
// are bucketed by start time: one that starts at 23:58 counts entirely in the
// day it started. Open and cancelled sessions contribute nothing.
func (s *FocusService) TodayMinutes(ctx context.Context, userID string, loc *time.Location) (int, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return 0, fmt.Errorf("%w: user", ErrNotFound)
	}
	if loc == nil {
		loc = time.Local
	}

	sessions, err := s.store.ListSessions(ctx, uid)
	if err != nil {
		return 0, err
	}

	now := s.now().In(loc)
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	dayEnd := dayStart.AddDate(0, 0, 1)

	totalSeconds := 0
	for i := range sessions {
		sess := &sessions[i]
		if sess.Status() != models.SessionFinished {
			continue
		}
		started := sess.StartedAt.In(loc)
		if started.Before(dayStart) || !started.Before(dayEnd) {
			continue
		}
		totalSeconds += sess.DurationSeconds
	}

	return int(math.Round(float64(totalSeconds) / 60.0)), nil
}

func parseIDs(userID, sessionID string) (primitive.ObjectID, primitive.ObjectID, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, fmt.Errorf("%w: user", ErrNotFound)
	}
	sid, err := primitive.ObjectIDFromHex(sessionID)
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, fmt.Errorf("%w: malformed sessionId", ErrInvalidInput)
	}
	return uid, sid, nil
}

func elapsedSeconds(from, to time.Time) int {
	if to.Before(from) {
		return 0
	}
	return int(to.Sub(from).Seconds())
}
