package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"markethub_backend/internal/services"
	"markethub_backend/internal/services/dto"
)

type FavoriteHandler struct {
	*BaseHandler
	favoriteService services.FavoriteService
}

func NewFavoriteHandler(base *BaseHandler, favoriteService services.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{
		BaseHandler:     base,
		favoriteService: favoriteService,
	}
}

func (h *FavoriteHandler) RegisterRoutes(r *gin.RouterGroup, auth gin.HandlerFunc) {
	favorites := r.Group("/favorites")
	favorites.Use(auth)
	{
		favorites.POST("", h.CreateFavorite)
		favorites.GET("", h.GetMyFavorites)
		favorites.GET("/check/:marketId", h.CheckFavorite)
		favorites.DELETE("/:marketId", h.DeleteFavorite)
	}
}

func (h *FavoriteHandler) CreateFavorite(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateFavoriteRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	favorite, err := h.favoriteService.Create(c.Request.Context(), h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, favorite)
}

func (h *FavoriteHandler) GetMyFavorites(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	favorites, err := h.favoriteService.MyFavorites(c.Request.Context(), h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"favorites": favorites,
		"total":     len(favorites),
	})
}

func (h *FavoriteHandler) CheckFavorite(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	result, err := h.favoriteService.Check(c.Request.Context(), h.GetDB(c), userID, c.Param("marketId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// DeleteFavorite удаляет избранное по marketId, а не по id записи
func (h *FavoriteHandler) DeleteFavorite(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.favoriteService.Delete(c.Request.Context(), h.GetDB(c), userID, c.Param("marketId")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Favorite removed successfully"})
}
