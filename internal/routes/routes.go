package routes

import (
	"team-task-board/internal/handlers"
	"team-task-board/internal/middleware"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(app *handlers.App) *gin.Engine {
	// Create a new GIN Router
	ginRouter := gin.Default()

	// CORS middleware (for frontend integration)
	ginRouter.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Health check endpoint
	ginRouter.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Team task board API is running",
		})
	})

	// Public routes (no authentication required)
	api := ginRouter.Group("/api")
	{
		api.POST("/login", app.Login)
		api.POST("/signup", app.Signup)
		api.POST("/auth/google", app.GoogleLogin)
	}

	// Protected routes (authentication required)
	protectedRoutes := api.Group("")
	protectedRoutes.Use(middleware.JWTAuthMiddleware(app.Sessions))
	{
		protectedRoutes.POST("/logout", app.Logout)
		// Task endpoints
		protectedRoutes.GET("/tasks", app.GetTasks)
		protectedRoutes.GET("/tasks/:id", app.GetTaskByID)
		protectedRoutes.POST("/tasks", app.CreateTask)
		protectedRoutes.PUT("/tasks/:id", app.UpdateTask)
		protectedRoutes.PATCH("/tasks/:id/status", app.UpdateTaskStatus)
		protectedRoutes.POST("/tasks/:id/transfer", app.TransferTask)
		protectedRoutes.PUT("/tasks/:id/score", app.ScoreTask)
		// User endpoints
		protectedRoutes.GET("/users", app.GetAllUsers)
		protectedRoutes.PUT("/users/:id", app.UpdateUser)
		protectedRoutes.DELETE("/users/:id", app.DeleteUser)
		// Notification endpoints
		protectedRoutes.GET("/notifications", app.GetNotifications)
		protectedRoutes.DELETE("/notifications/:id", app.DismissNotification)
		// Realtime notification push
		protectedRoutes.GET("/ws", app.WebSocket)
	}

	return ginRouter
}
