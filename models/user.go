package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is the root document in the "users" collection. Tasks and focus
// sessions are embedded arrays owned exclusively by this user.
type User struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName      string             `bson:"full_name" json:"fullName" validate:"max=80"`
	Email         string             `bson:"email" json:"email" validate:"required,email"`
	PasswordHash  string             `bson:"password_hash" json:"-"`
	Tasks         []Task             `bson:"tasks" json:"tasks,omitempty"`
	FocusSessions []FocusSession     `bson:"focus_sessions" json:"-"`
	LastLoginAt   *time.Time         `bson:"last_login_at,omitempty" json:"lastLoginAt,omitempty"`
	CreatedAt     time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updated_at" json:"updatedAt"`
}
