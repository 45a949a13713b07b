package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"markethub_backend/internal/handlers"
)

// RegisterRoutes регистрирует все HTTP маршруты.
func RegisterRoutes(ginRouter *gin.Engine, appHandlers *handlers.AppHandlers, auth gin.HandlerFunc) {
	ginRouter.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := ginRouter.Group("/api/v1")
	{
		appHandlers.AuthHandler.RegisterRoutes(api, auth)
		appHandlers.MarketHandler.RegisterRoutes(api, auth)
		appHandlers.BusinessHandler.RegisterRoutes(api, auth)
		appHandlers.ApplicationHandler.RegisterRoutes(api, auth)
		appHandlers.ReviewHandler.RegisterRoutes(api, auth)
		appHandlers.AttendanceHandler.RegisterRoutes(api, auth)
		appHandlers.FavoriteHandler.RegisterRoutes(api, auth)
		appHandlers.DashboardHandler.RegisterRoutes(api, auth)
		appHandlers.UploadHandler.RegisterRoutes(api, auth)
	}
}
