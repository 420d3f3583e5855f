package controllers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Osmankaankorkmaz/Tonica/helpers"
	"github.com/Osmankaankorkmaz/Tonica/middleware"
	"github.com/Osmankaankorkmaz/Tonica/models"
)

var validate = validator.New()

// UserController handles signup, login and the current-user endpoint.
type UserController struct {
	users  *mongo.Collection
	tokens *helpers.TokenManager
}

func NewUserController(db *mongo.Database, tokens *helpers.TokenManager) *UserController {
	return &UserController{users: db.Collection("users"), tokens: tokens}
}

// ===================== SIGNUP =====================
func (uc *UserController) Signup() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		var body struct {
			FullName string `json:"fullName" validate:"max=80"`
			Email    string `json:"email" validate:"required,email"`
			Password string `json:"password" validate:"required,min=6"`
		}
		if err := c.BindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "message": "invalid request body"})
			return
		}
		if err := validate.Struct(body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "message": err.Error()})
			return
		}

		email := strings.ToLower(strings.TrimSpace(body.Email))

		count, err := uc.users.CountDocuments(ctx, bson.M{"email": email})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "message": "operation failed"})
			return
		}
		if count > 0 {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "message": "Email already exists"})
			return
		}

		hash, err := helpers.HashPassword(body.Password)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "message": "operation failed"})
			return
		}

		now := time.Now()
		user := models.User{
			ID:            primitive.NewObjectID(),
			FullName:      strings.TrimSpace(body.FullName),
			Email:         email,
			PasswordHash:  hash,
			Tasks:         []models.Task{},
			FocusSessions: []models.FocusSession{},
			CreatedAt:     now,
			UpdatedAt:     now,
		}

		if _, err := uc.users.InsertOne(ctx, user); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "message": "operation failed"})
			return
		}

		token, err := uc.tokens.Generate(user.ID.Hex(), user.Email)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "message": "operation failed"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"ok": true, "token": token, "user": user})
	}
}

// ===================== LOGIN =====================
func (uc *UserController) Login() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		var body struct {
			Email    string `json:"email" binding:"required"`
			Password string `json:"password" binding:"required"`
		}
		if err := c.BindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "message": "Email and password are required"})
			return
		}

		var user models.User
		err := uc.users.FindOne(ctx, bson.M{"email": strings.ToLower(strings.TrimSpace(body.Email))}).Decode(&user)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "message": "Invalid email or password"})
			return
		}

		if !helpers.VerifyPassword(user.PasswordHash, body.Password) {
			c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "message": "Invalid email or password"})
			return
		}

		token, err := uc.tokens.Generate(user.ID.Hex(), user.Email)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "message": "operation failed"})
			return
		}

		now := time.Now()
		_, _ = uc.users.UpdateOne(ctx,
			bson.M{"_id": user.ID},
			bson.M{"$set": bson.M{"last_login_at": now, "updated_at": now}},
		)

		c.JSON(http.StatusOK, gin.H{"ok": true, "token": token, "user": user})
	}
}

// ===================== GET CURRENT USER (ME) =====================
func (uc *UserController) GetMe() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.UserID(c)
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "message": "Unauthorized"})
			return
		}

		uid, err := primitive.ObjectIDFromHex(userID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "message": "User not found"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		var user models.User
		if err := uc.users.FindOne(ctx, bson.M{"_id": uid}).Decode(&user); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "message": "User not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"ok": true, "user": user})
	}
}
