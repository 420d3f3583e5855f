package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/Osmankaankorkmaz/Tonica/helpers"
	"github.com/Osmankaankorkmaz/Tonica/middleware"
	"github.com/Osmankaankorkmaz/Tonica/models"
	"github.com/Osmankaankorkmaz/Tonica/services"
)

// stubStore is a single-user in-memory session store for handler tests.
type stubStore struct {
	userID   primitive.ObjectID
	sessions []models.FocusSession
	taskIDs  map[primitive.ObjectID]bool
}

func newStubStore() *stubStore {
	return &stubStore{userID: primitive.NewObjectID(), taskIDs: map[primitive.ObjectID]bool{}}
}

func (s *stubStore) find(sid primitive.ObjectID) *models.FocusSession {
	for i := range s.sessions {
		if s.sessions[i].ID == sid {
			return &s.sessions[i]
		}
	}
	return nil
}

func (s *stubStore) AppendSession(_ context.Context, uid primitive.ObjectID, sess models.FocusSession) error {
	if uid != s.userID {
		return fmt.Errorf("%w: user", services.ErrNotFound)
	}
	s.sessions = append(s.sessions, sess)
	return nil
}

func (s *stubStore) GetSession(_ context.Context, uid, sid primitive.ObjectID) (*models.FocusSession, error) {
	if uid != s.userID {
		return nil, nil
	}
	if found := s.find(sid); found != nil {
		copied := *found
		return &copied, nil
	}
	return nil, nil
}

func (s *stubStore) ListSessions(_ context.Context, uid primitive.ObjectID) ([]models.FocusSession, error) {
	if uid != s.userID {
		return nil, fmt.Errorf("%w: user", services.ErrNotFound)
	}
	return s.sessions, nil
}

func (s *stubStore) CloseSession(_ context.Context, uid, sid primitive.ObjectID, endedAt time.Time, completed bool, pausedSeconds int) (bool, error) {
	found := s.find(sid)
	if uid != s.userID || found == nil || found.EndedAt != nil {
		return false, nil
	}
	found.EndedAt = &endedAt
	found.Completed = completed
	found.PausedSeconds = pausedSeconds
	found.PausedAt = nil
	return true, nil
}

func (s *stubStore) SetPause(_ context.Context, uid, sid primitive.ObjectID, pausedAt *time.Time, pausedSeconds int) (bool, error) {
	found := s.find(sid)
	if uid != s.userID || found == nil || found.EndedAt != nil {
		return false, nil
	}
	found.PausedAt = pausedAt
	found.PausedSeconds = pausedSeconds
	return true, nil
}

func (s *stubStore) TaskExists(_ context.Context, uid, tid primitive.ObjectID) (bool, error) {
	return uid == s.userID && s.taskIDs[tid], nil
}

func newTestRouter(store *stubStore) *gin.Engine {
	gin.SetMode(gin.TestMode)

	svc := services.NewFocusService(store, store, zap.NewNop())
	fc := NewFocusController(svc)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ClaimsKey, &helpers.Claims{UserID: store.userID.Hex()})
	})

	r.POST("/focus/sessions/start", fc.StartSession())
	r.POST("/focus/sessions/:sessionId/finish", fc.FinishSession())
	r.POST("/focus/sessions/:sessionId/cancel", fc.CancelSession())
	r.POST("/focus/sessions/:sessionId/pause", fc.PauseSession())
	r.POST("/focus/sessions/:sessionId/resume", fc.ResumeSession())
	r.GET("/focus/today", fc.Today())
	return r
}

func doRequest(t *testing.T, r *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, map[string]json.RawMessage) {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("{}")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var parsed map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &parsed))
	return w, parsed
}

func startSession(t *testing.T, r *gin.Engine, body string) map[string]interface{} {
	t.Helper()
	w, parsed := doRequest(t, r, http.MethodPost, "/focus/sessions/start", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var session map[string]interface{}
	require.NoError(t, json.Unmarshal(parsed["session"], &session))
	return session
}

func TestStartSessionHTTP(t *testing.T) {
	store := newStubStore()
	r := newTestRouter(store)

	session := startSession(t, r, `{"durationSeconds":1500}`)
	assert.Equal(t, float64(1500), session["durationSeconds"])
	assert.Nil(t, session["endedAt"])
	assert.Nil(t, session["taskId"])
	assert.Equal(t, false, session["completed"])
	assert.Equal(t, float64(0), session["pausedSeconds"])
	assert.NotEmpty(t, session["id"])
}

func TestStartSessionRejectsBadDuration(t *testing.T) {
	store := newStubStore()
	r := newTestRouter(store)

	for _, body := range []string{`{"durationSeconds":30}`, `{"durationSeconds":90000}`, `{}`} {
		w, _ := doRequest(t, r, http.MethodPost, "/focus/sessions/start", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}
}

func TestStartSessionTaskLookup(t *testing.T) {
	store := newStubStore()
	tid := primitive.NewObjectID()
	store.taskIDs[tid] = true
	r := newTestRouter(store)

	session := startSession(t, r, fmt.Sprintf(`{"durationSeconds":600,"taskId":%q}`, tid.Hex()))
	assert.Equal(t, tid.Hex(), session["taskId"])

	w, _ := doRequest(t, r, http.MethodPost, "/focus/sessions/start",
		fmt.Sprintf(`{"durationSeconds":600,"taskId":%q}`, primitive.NewObjectID().Hex()))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = doRequest(t, r, http.MethodPost, "/focus/sessions/start", `{"durationSeconds":600,"taskId":"nope"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFinishSessionHTTP(t *testing.T) {
	store := newStubStore()
	r := newTestRouter(store)

	session := startSession(t, r, `{"durationSeconds":120}`)
	id := session["id"].(string)

	w, parsed := doRequest(t, r, http.MethodPost, "/focus/sessions/"+id+"/finish", "")
	require.Equal(t, http.StatusOK, w.Code)

	var finished map[string]interface{}
	require.NoError(t, json.Unmarshal(parsed["session"], &finished))
	assert.Equal(t, true, finished["completed"])
	assert.NotNil(t, finished["endedAt"])

	// Finishing again succeeds and returns the unchanged record.
	w, parsed = doRequest(t, r, http.MethodPost, "/focus/sessions/"+id+"/finish", "")
	require.Equal(t, http.StatusOK, w.Code)
	var again map[string]interface{}
	require.NoError(t, json.Unmarshal(parsed["session"], &again))
	assert.Equal(t, finished["endedAt"], again["endedAt"])

	// Cancel after finish keeps the outcome.
	w, parsed = doRequest(t, r, http.MethodPost, "/focus/sessions/"+id+"/cancel", "")
	require.Equal(t, http.StatusOK, w.Code)
	var cancelled map[string]interface{}
	require.NoError(t, json.Unmarshal(parsed["session"], &cancelled))
	assert.Equal(t, true, cancelled["completed"])
}

func TestSessionNotFoundAndMalformed(t *testing.T) {
	store := newStubStore()
	r := newTestRouter(store)

	w, _ := doRequest(t, r, http.MethodPost, "/focus/sessions/"+primitive.NewObjectID().Hex()+"/finish", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = doRequest(t, r, http.MethodPost, "/focus/sessions/garbage/cancel", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPauseResumeHTTP(t *testing.T) {
	store := newStubStore()
	r := newTestRouter(store)

	session := startSession(t, r, `{"durationSeconds":600}`)
	id := session["id"].(string)

	w, parsed := doRequest(t, r, http.MethodPost, "/focus/sessions/"+id+"/pause", "")
	require.Equal(t, http.StatusOK, w.Code)
	var paused map[string]interface{}
	require.NoError(t, json.Unmarshal(parsed["session"], &paused))
	assert.NotNil(t, paused["pausedAt"])

	w, parsed = doRequest(t, r, http.MethodPost, "/focus/sessions/"+id+"/resume", "")
	require.Equal(t, http.StatusOK, w.Code)
	var resumed map[string]interface{}
	require.NoError(t, json.Unmarshal(parsed["session"], &resumed))
	assert.Nil(t, resumed["pausedAt"])
	assert.Nil(t, resumed["endedAt"])
}

func TestTodayHTTP(t *testing.T) {
	store := newStubStore()
	r := newTestRouter(store)

	w, parsed := doRequest(t, r, http.MethodGet, "/focus/today", "")
	require.Equal(t, http.StatusOK, w.Code)
	var minutes int
	require.NoError(t, json.Unmarshal(parsed["minutes"], &minutes))
	assert.Equal(t, 0, minutes)

	session := startSession(t, r, `{"durationSeconds":1500}`)
	id := session["id"].(string)
	w, _ = doRequest(t, r, http.MethodPost, "/focus/sessions/"+id+"/finish", "")
	require.Equal(t, http.StatusOK, w.Code)

	w, parsed = doRequest(t, r, http.MethodGet, "/focus/today", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(parsed["minutes"], &minutes))
	assert.Equal(t, 25, minutes)

	w, _ = doRequest(t, r, http.MethodGet, "/focus/today?tz=UTC", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = doRequest(t, r, http.MethodGet, "/focus/today?tz=Not/AZone", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
