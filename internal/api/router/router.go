package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/moldock/docking-be/internal/api/handler"
)

// SetupRouter configures and returns the Gin router with all routes
func SetupRouter(deps *handler.Dependencies) *gin.Engine {
	r := gin.New()

	// Middleware
	r.Use(gin.Recovery())
	r.Use(LoggerMiddleware(deps.Logger))
	r.Use(CORSMiddleware())

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "docking-api-service",
		})
	})

	dockingHandler := handler.NewDockingHandler(deps)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		docking := v1.Group("/docking")
		{
			// POST /api/v1/docking/submit - Submit a docking job
			docking.POST("/submit", dockingHandler.SubmitDocking)

			// GET /api/v1/docking/status/:job_id - Get job status and results
			docking.GET("/status/:job_id", dockingHandler.GetDockingStatus)

			// GET /api/v1/docking/results/:job_id - Download pose artifacts
			docking.GET("/results/:job_id", dockingHandler.DownloadResults)

			// DELETE /api/v1/docking/job/:job_id - Delete a job
			docking.DELETE("/job/:job_id", dockingHandler.DeleteJob)
		}
	}

	return r
}
