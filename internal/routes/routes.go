package routes

import (
	"net/http"

	"shiftscore_backend/internal/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all HTTP routes.
func RegisterRoutes(ginRouter *gin.Engine, appHandlers *handlers.AppHandlers) {
	ginRouter.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Billing lives directly under /api; clients hardcode this path.
	billing := ginRouter.Group("/api")
	{
		appHandlers.BillingHandler.RegisterRoutes(billing)
	}

	api := ginRouter.Group("/api/v1")
	{
		appHandlers.AuthHandler.RegisterRoutes(api)
		appHandlers.FacilityHandler.RegisterRoutes(api)
		appHandlers.JobHandler.RegisterRoutes(api)
		appHandlers.SullyHandler.RegisterRoutes(api)
	}
}
