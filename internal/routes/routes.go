package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taskcontrol/internal/handlers"
	"taskcontrol/internal/middleware"
)

func SetupRoutes(
	r *gin.Engine,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	projectHandler *handlers.ProjectHandler,
	boardHandler *handlers.BoardHandler,
	taskHandler *handlers.TaskHandler,
	labelHandler *handlers.LabelHandler,
	commentHandler *handlers.CommentHandler,
	reportHandler *handlers.ReportHandler,
) *gin.Engine {
	api := r.Group("/api")

	// ---- public
	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"status": "ok"}})
	})
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/refresh", authHandler.Refresh)
	api.POST("/auth/logout", authHandler.Logout)

	// ---- protected
	api.Use(middleware.AuthMiddleware())

	api.GET("/auth/me", authHandler.Me)

	// USERS
	users := api.Group("/users")
	{
		users.GET("/search", userHandler.Search)
		users.PUT("/me", userHandler.UpdateProfile)
		users.GET("/:id", userHandler.GetProfile)
	}

	// PROJECTS
	projects := api.Group("/projects")
	{
		projects.GET("", projectHandler.List)
		projects.POST("", projectHandler.Create)
		projects.GET("/:id", projectHandler.GetByID)
		projects.PUT("/:id", projectHandler.Update)
		projects.DELETE("/:id", projectHandler.Delete)

		projects.GET("/:id/members", projectHandler.ListMembers)
		projects.POST("/:id/members", projectHandler.AddMember)
		projects.DELETE("/:id/members/:userId", projectHandler.RemoveMember)

		projects.GET("/:id/boards", boardHandler.ListByProject)
		projects.POST("/:id/boards", boardHandler.Create)

		projects.GET("/:id/tasks", taskHandler.ListByProject)
		projects.POST("/:id/tasks", taskHandler.Create)

		projects.GET("/:id/labels", labelHandler.ListByProject)
		projects.POST("/:id/labels", labelHandler.Create)

		projects.GET("/:id/report", reportHandler.ProjectSummary)
		projects.GET("/:id/report/pdf", reportHandler.ProjectSummaryPDF)
	}

	// BOARDS
	boards := api.Group("/boards")
	{
		boards.GET("/:id", boardHandler.GetByID)
		boards.PUT("/:id", boardHandler.Rename)
		boards.DELETE("/:id", boardHandler.Delete)
	}

	// TASKS
	tasks := api.Group("/tasks")
	{
		tasks.GET("/:id", taskHandler.GetByID)
		tasks.PUT("/:id", taskHandler.Update)
		tasks.PATCH("/:id/status", taskHandler.UpdateStatus)
		tasks.PATCH("/:id/move", taskHandler.Move)
		tasks.DELETE("/:id", taskHandler.Delete)

		tasks.POST("/:id/labels", labelHandler.AddToTask)
		tasks.DELETE("/:id/labels/:labelId", labelHandler.RemoveFromTask)

		tasks.GET("/:id/comments", commentHandler.ListByTask)
		tasks.POST("/:id/comments", commentHandler.Create)
	}

	// COMMENTS
	comments := api.Group("/comments")
	{
		comments.PUT("/:id", commentHandler.Update)
		comments.DELETE("/:id", commentHandler.Delete)
	}

	return r
}
