package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/project-task-api/internal/middleware"
)

// RegisterRoutes mounts the health check and the /api tree on r.
func RegisterRoutes(r *gin.Engine, resolver middleware.ScopeResolver, account *AccountHandler, projects *ProjectHandler, tasks *TaskHandler) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Project Task API is running",
		})
	})

	api := r.Group("/api")
	{
		// Account routes (public)
		accounts := api.Group("/account")
		{
			accounts.POST("/create/", account.Create)
			accounts.POST("/login/", account.Login)
			accounts.POST("/token/refresh/", account.Refresh)
		}

		// Project routes (protected)
		projectRoutes := api.Group("/project")
		projectRoutes.Use(middleware.RequireAuth(resolver))
		{
			projectRoutes.POST("/", projects.CreateProject)
			projectRoutes.GET("/", projects.ListProjects)
			projectRoutes.PUT("/", projects.ReplaceProject)
			projectRoutes.PATCH("/", projects.PatchProject)
			projectRoutes.DELETE("/", projects.DeleteProject)
		}

		// Task routes (protected)
		taskRoutes := api.Group("/task")
		taskRoutes.Use(middleware.RequireAuth(resolver))
		{
			taskRoutes.POST("/", tasks.CreateTask)
			taskRoutes.GET("/", tasks.ListTasks)
			taskRoutes.PUT("/", tasks.ReplaceTask)
			taskRoutes.PATCH("/", tasks.PatchTask)
			taskRoutes.DELETE("/", tasks.DeleteTask)
			taskRoutes.POST("/generate/", tasks.GenerateTasks)
		}
	}
}
