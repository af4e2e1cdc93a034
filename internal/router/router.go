package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/softdesk-dev/softdesk/internal/handlers"
	"github.com/softdesk-dev/softdesk/internal/middleware"
	"github.com/softdesk-dev/softdesk/internal/types"
)

func NewRouter() *gin.Engine {
	r := gin.Default()

	// Add CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     types.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)

		user := api.Group("/user")
		{
			user.POST("/signup", handlers.Signup)
			user.POST("/login", handlers.Login)
			user.POST("/token/refresh", handlers.RefreshToken)

			profile := user.Group("/profile", middleware.AuthMiddleware())
			{
				profile.GET("", handlers.GetProfile)
				profile.PATCH("", handlers.UpdateProfile)
				profile.DELETE("", handlers.DeleteProfile)
			}
		}

		project := api.Group("/project", middleware.AuthMiddleware())
		{
			project.POST("", handlers.CreateProject)
			project.GET("", handlers.ListProjects)
			project.GET("/:project_id", handlers.GetProject)
			project.PATCH("/:project_id", handlers.UpdateProject)
			project.DELETE("/:project_id", handlers.DeleteProject)

			project.POST("/:project_id/add-contributor", handlers.AddContributor)
			project.DELETE("/:project_id/remove-contributor", handlers.RemoveContributor)
			project.GET("/:project_id/contributors", handlers.ListContributors)

			project.POST("/:project_id/create-issue", handlers.CreateIssue)
		}

		issue := api.Group("/issue", middleware.AuthMiddleware())
		{
			issue.GET("/:issue_id", handlers.GetIssue)
			issue.PATCH("/:issue_id", handlers.UpdateIssue)
			issue.DELETE("/:issue_id", handlers.DeleteIssue)

			issue.POST("/:issue_id/create-comment", handlers.CreateComment)
		}

		comment := api.Group("/comment", middleware.AuthMiddleware())
		{
			comment.GET("/:comment_id", handlers.GetComment)
			comment.PATCH("/:comment_id", handlers.UpdateComment)
			comment.DELETE("/:comment_id", handlers.DeleteComment)
		}
	}

	return r
}
