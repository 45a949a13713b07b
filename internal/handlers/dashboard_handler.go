package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"markethub_backend/internal/services"
)

type DashboardHandler struct {
	*BaseHandler
	dashboardService services.DashboardService
}

func NewDashboardHandler(base *BaseHandler, dashboardService services.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		BaseHandler:      base,
		dashboardService: dashboardService,
	}
}

func (h *DashboardHandler) RegisterRoutes(r *gin.RouterGroup, auth gin.HandlerFunc) {
	dashboard := r.Group("/dashboard")
	dashboard.Use(auth)
	{
		dashboard.GET("/stats", h.GetStats)
	}
}

func (h *DashboardHandler) GetStats(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	stats, err := h.dashboardService.Stats(c.Request.Context(), h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
