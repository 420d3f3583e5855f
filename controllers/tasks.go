package controllers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Osmankaankorkmaz/Tonica/middleware"
	"github.com/Osmankaankorkmaz/Tonica/models"
)

// TaskController is the minimal task CRUD surface. Focus sessions reference
// tasks only by id, so this stays thin: create, list, patch, delete.
type TaskController struct {
	users *mongo.Collection
}

func NewTaskController(db *mongo.Database) *TaskController {
	return &TaskController{users: db.Collection("users")}
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if len(t) > 24 {
			t = t[:24]
		}
		out = append(out, t)
		if len(out) == 20 {
			break
		}
	}
	return out
}

// ===================== CREATE TASK =====================
// POST /tasks  body: {title, description?, status?, priority?, tags?, dueAt?}
func (tc *TaskController) CreateTask() gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := requireUser(c)
		if !ok {
			return
		}

		var body struct {
			Title       string     `json:"title"`
			Description string     `json:"description"`
			Status      string     `json:"status"`
			Priority    string     `json:"priority"`
			Tags        []string   `json:"tags"`
			DueAt       *time.Time `json:"dueAt"`
		}
		if err := c.BindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "message": "invalid request body"})
			return
		}

		body.Title = strings.TrimSpace(body.Title)
		if body.Title == "" || len(body.Title) > 140 {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "message": "title is required (max 140 chars)"})
			return
		}
		if body.Status == "" {
			body.Status = models.TaskStatusTodo
		}
		if !models.ValidTaskStatus(body.Status) {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "message": "invalid status"})
			return
		}
		if body.Priority == "" {
			body.Priority = models.TaskPriorityMedium
		}
		if !models.ValidTaskPriority(body.Priority) {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "message": "invalid priority"})
			return
		}

		task := models.Task{
			ID:          primitive.NewObjectID(),
			Title:       body.Title,
			Description: strings.TrimSpace(body.Description),
			Status:      body.Status,
			Priority:    body.Priority,
			Tags:        normalizeTags(body.Tags),
			DueAt:       body.DueAt,
			CreatedAt:   time.Now(),
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		res, err := tc.users.UpdateOne(ctx,
			bson.M{"_id": uid},
			bson.M{"$push": bson.M{"tasks": task}, "$set": bson.M{"updated_at": time.Now()}},
		)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "message": "operation failed"})
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "message": "User not found"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"ok": true, "task": task})
	}
}

// ===================== LIST TASKS =====================
// GET /tasks
func (tc *TaskController) ListTasks() gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := requireUser(c)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		var doc struct {
			Tasks []models.Task `bson:"tasks"`
		}
		err := tc.users.FindOne(ctx,
			bson.M{"_id": uid},
			options.FindOne().SetProjection(bson.M{"tasks": 1}),
		).Decode(&doc)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "message": "User not found"})
			return
		}
		if doc.Tasks == nil {
			doc.Tasks = []models.Task{}
		}

		c.JSON(http.StatusOK, gin.H{"ok": true, "tasks": doc.Tasks})
	}
}

// ===================== UPDATE TASK =====================
// PATCH /tasks/:taskId  body: any of {title, description, status, priority, tags, dueAt}
func (tc *TaskController) UpdateTask() gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := requireUser(c)
		if !ok {
			return
		}
		tid, err := primitive.ObjectIDFromHex(c.Param("taskId"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "message": "malformed taskId"})
			return
		}

		var body struct {
			Title       *string    `json:"title"`
			Description *string    `json:"description"`
			Status      *string    `json:"status"`
			Priority    *string    `json:"priority"`
			Tags        []string   `json:"tags"`
			DueAt       *time.Time `json:"dueAt"`
		}
		if err := c.BindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "message": "invalid request body"})
			return
		}

		set := bson.M{"updated_at": time.Now()}
		if body.Title != nil {
			title := strings.TrimSpace(*body.Title)
			if title == "" || len(title) > 140 {
				c.JSON(http.StatusBadRequest, gin.H{"ok": false, "message": "title is required (max 140 chars)"})
				return
			}
			set["tasks.$.title"] = title
		}
		if body.Description != nil {
			set["tasks.$.description"] = strings.TrimSpace(*body.Description)
		}
		if body.Status != nil {
			if !models.ValidTaskStatus(*body.Status) {
				c.JSON(http.StatusBadRequest, gin.H{"ok": false, "message": "invalid status"})
				return
			}
			set["tasks.$.status"] = *body.Status
			if *body.Status == models.TaskStatusDone {
				set["tasks.$.completed_at"] = time.Now()
			}
		}
		if body.Priority != nil {
			if !models.ValidTaskPriority(*body.Priority) {
				c.JSON(http.StatusBadRequest, gin.H{"ok": false, "message": "invalid priority"})
				return
			}
			set["tasks.$.priority"] = *body.Priority
		}
		if body.Tags != nil {
			set["tasks.$.tags"] = normalizeTags(body.Tags)
		}
		if body.DueAt != nil {
			set["tasks.$.due_at"] = *body.DueAt
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		res, err := tc.users.UpdateOne(ctx,
			bson.M{"_id": uid, "tasks._id": tid},
			bson.M{"$set": set},
		)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "message": "operation failed"})
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "message": "Task not found"})
			return
		}

		var doc struct {
			Tasks []models.Task `bson:"tasks"`
		}
		err = tc.users.FindOne(ctx,
			bson.M{"_id": uid, "tasks._id": tid},
			options.FindOne().SetProjection(bson.M{"tasks.$": 1}),
		).Decode(&doc)
		if err != nil || len(doc.Tasks) == 0 {
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "message": "Task not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"ok": true, "task": doc.Tasks[0]})
	}
}

// ===================== DELETE TASK =====================
// DELETE /tasks/:taskId
// Focus sessions referencing the task keep their reference; it just goes stale.
func (tc *TaskController) DeleteTask() gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := requireUser(c)
		if !ok {
			return
		}
		tid, err := primitive.ObjectIDFromHex(c.Param("taskId"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "message": "malformed taskId"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		res, err := tc.users.UpdateOne(ctx,
			bson.M{"_id": uid},
			bson.M{"$pull": bson.M{"tasks": bson.M{"_id": tid}}, "$set": bson.M{"updated_at": time.Now()}},
		)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "message": "operation failed"})
			return
		}
		if res.ModifiedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "message": "Task not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

func requireUser(c *gin.Context) (primitive.ObjectID, bool) {
	userID := middleware.UserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "message": "Unauthorized"})
		return primitive.NilObjectID, false
	}
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "message": "Unauthorized"})
		return primitive.NilObjectID, false
	}
	return uid, true
}
