package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"markethub_backend/internal/config"
	"markethub_backend/internal/services"
	"markethub_backend/internal/services/dto"
)

type AuthHandler struct {
	*BaseHandler
	authService services.AuthService
	cfg         *config.Config
}

func NewAuthHandler(base *BaseHandler, authService services.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		BaseHandler: base,
		authService: authService,
		cfg:         cfg,
	}
}

func (h *AuthHandler) RegisterRoutes(r *gin.RouterGroup, auth gin.HandlerFunc) {
	group := r.Group("/auth")
	{
		// Обмен логина/пароля на токен, только для разработки
		group.POST("/token", h.DevToken)

		protected := group.Group("")
		protected.Use(auth)
		{
			protected.GET("/me", h.GetMe)
			protected.PUT("/me", h.UpdateMe)
		}
	}
}

func (h *AuthHandler) GetMe(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	me, err := h.authService.Me(c.Request.Context(), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, me)
}

func (h *AuthHandler) UpdateMe(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateMeRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	me, err := h.authService.UpdateMe(c.Request.Context(), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, me)
}

func (h *AuthHandler) DevToken(c *gin.Context) {
	if h.cfg.Server.Env != "development" {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	var req dto.DevTokenRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	token, err := h.authService.DevToken(c.Request.Context(), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, token)
}
