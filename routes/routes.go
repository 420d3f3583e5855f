package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/Osmankaankorkmaz/Tonica/controllers"
	"github.com/Osmankaankorkmaz/Tonica/helpers"
	"github.com/Osmankaankorkmaz/Tonica/middleware"
)

// Controllers groups everything SetupRoutes needs to wire the API.
type Controllers struct {
	Users  *controllers.UserController
	Tasks  *controllers.TaskController
	Focus  *controllers.FocusController
	Tokens *helpers.TokenManager
}

func SetupRoutes(router *gin.RouterGroup, ctrl Controllers) {
	router.POST("/signup", ctrl.Users.Signup())
	router.POST("/login", ctrl.Users.Login())

	protected := router.Group("/")
	protected.Use(middleware.Authenticate(ctrl.Tokens))
	{
		protected.GET("/me", ctrl.Users.GetMe())

		// Tasks
		protected.POST("/tasks", ctrl.Tasks.CreateTask())
		protected.GET("/tasks", ctrl.Tasks.ListTasks())
		protected.PATCH("/tasks/:taskId", ctrl.Tasks.UpdateTask())
		protected.DELETE("/tasks/:taskId", ctrl.Tasks.DeleteTask())

		// Focus sessions
		protected.POST("/focus/sessions/start", ctrl.Focus.StartSession())
		protected.POST("/focus/sessions/:sessionId/finish", ctrl.Focus.FinishSession())
		protected.POST("/focus/sessions/:sessionId/cancel", ctrl.Focus.CancelSession())
		protected.POST("/focus/sessions/:sessionId/pause", ctrl.Focus.PauseSession())
		protected.POST("/focus/sessions/:sessionId/resume", ctrl.Focus.ResumeSession())
		protected.GET("/focus/today", ctrl.Focus.Today())
	}
}
