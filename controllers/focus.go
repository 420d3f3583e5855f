package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Osmankaankorkmaz/Tonica/middleware"
	"github.com/Osmankaankorkmaz/Tonica/models"
	"github.com/Osmankaankorkmaz/Tonica/services"
)

// FocusController exposes the focus-session lifecycle and the daily total.
type FocusController struct {
	focus *services.FocusService
}

func NewFocusController(focus *services.FocusService) *FocusController {
	return &FocusController{focus: focus}
}

// ===================== START SESSION =====================
// POST /focus/sessions/start  body: {durationSeconds, taskId?}
func (fc *FocusController) StartSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.UserID(c)
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "message": "Unauthorized"})
			return
		}

		var body struct {
			DurationSeconds int    `json:"durationSeconds"`
			TaskID          string `json:"taskId"`
		}
		if err := c.BindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "message": "invalid request body"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		session, err := fc.focus.Start(ctx, userID, body.DurationSeconds, body.TaskID)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{"ok": true, "session": session})
	}
}

// ===================== FINISH SESSION =====================
// POST /focus/sessions/:sessionId/finish
func (fc *FocusController) FinishSession() gin.HandlerFunc {
	return fc.transition(fc.focus.Finish)
}

// ===================== CANCEL SESSION =====================
// POST /focus/sessions/:sessionId/cancel
func (fc *FocusController) CancelSession() gin.HandlerFunc {
	return fc.transition(fc.focus.Cancel)
}

// ===================== PAUSE / RESUME =====================
// POST /focus/sessions/:sessionId/pause
func (fc *FocusController) PauseSession() gin.HandlerFunc {
	return fc.transition(fc.focus.Pause)
}

// POST /focus/sessions/:sessionId/resume
func (fc *FocusController) ResumeSession() gin.HandlerFunc {
	return fc.transition(fc.focus.Resume)
}

// ===================== TODAY MINUTES =====================
// GET /focus/today?tz=<IANA zone>
func (fc *FocusController) Today() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.UserID(c)
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "message": "Unauthorized"})
			return
		}

		loc := time.Local
		if tz := c.Query("tz"); tz != "" {
			parsed, err := time.LoadLocation(tz)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"ok": false, "message": "unknown timezone"})
				return
			}
			loc = parsed
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		minutes, err := fc.focus.TodayMinutes(ctx, userID, loc)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"ok": true, "minutes": minutes})
	}
}

func (fc *FocusController) transition(fn func(ctx context.Context, userID, sessionID string) (*models.FocusSession, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.UserID(c)
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "message": "Unauthorized"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		session, err := fn(ctx, userID, c.Param("sessionId"))
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"ok": true, "session": session})
	}
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "message": err.Error()})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "message": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "message": "operation failed"})
	}
}
