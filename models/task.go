package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Task statuses and priorities accepted on create/patch.
const (
	TaskStatusTodo       = "todo"
	TaskStatusInProgress = "in_progress"
	TaskStatusDone       = "done"
)

const (
	TaskPriorityLow    = "low"
	TaskPriorityMedium = "medium"
	TaskPriorityHigh   = "high"
)

// Task is embedded in the user document. Focus sessions reference tasks by id
// with no cascade: deleting a task leaves any session reference stale.
type Task struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Status      string             `bson:"status" json:"status"`
	Priority    string             `bson:"priority" json:"priority"`
	Tags        []string           `bson:"tags,omitempty" json:"tags,omitempty"`
	DueAt       *time.Time         `bson:"due_at,omitempty" json:"dueAt,omitempty"`
	CompletedAt *time.Time         `bson:"completed_at,omitempty" json:"completedAt,omitempty"`
	Archived    bool               `bson:"archived" json:"archived"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
}

func ValidTaskStatus(s string) bool {
	return s == TaskStatusTodo || s == TaskStatusInProgress || s == TaskStatusDone
}

func ValidTaskPriority(p string) bool {
	return p == TaskPriorityLow || p == TaskPriorityMedium || p == TaskPriorityHigh
}
