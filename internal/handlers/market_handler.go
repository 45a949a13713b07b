package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"markethub_backend/internal/repositories"
	"markethub_backend/internal/services"
	"markethub_backend/internal/services/dto"
)

type MarketHandler struct {
	*BaseHandler
	marketService services.MarketService
}

func NewMarketHandler(base *BaseHandler, marketService services.MarketService) *MarketHandler {
	return &MarketHandler{
		BaseHandler:   base,
		marketService: marketService,
	}
}

func (h *MarketHandler) RegisterRoutes(r *gin.RouterGroup, auth gin.HandlerFunc) {
	markets := r.Group("/markets")
	markets.Use(auth)
	{
		markets.POST("", h.CreateMarket)
		markets.GET("", h.SearchMarkets)
		markets.GET("/my", h.GetMyMarkets)
		markets.GET("/:marketId", h.GetMarket)
		markets.PUT("/:marketId", h.UpdateMarket)
		markets.DELETE("/:marketId", h.DeleteMarket)

		markets.POST("/:marketId/images", h.AddImage)
		markets.GET("/:marketId/images", h.ListImages)
		markets.PUT("/:marketId/images/:imageId", h.UpdateImage)
		markets.DELETE("/:marketId/images/:imageId", h.DeleteImage)
	}
}

func (h *MarketHandler) CreateMarket(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateMarketRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	market, err := h.marketService.Create(c.Request.Context(), h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, market)
}

func (h *MarketHandler) GetMarket(c *gin.Context) {
	market, err := h.marketService.GetByID(c.Request.Context(), h.GetDB(c), c.Param("marketId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, market)
}

func (h *MarketHandler) SearchMarkets(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var criteria repositories.MarketSearchCriteria
	if !h.BindAndValidate_Query(c, &criteria) {
		return
	}
	criteria.Limit, criteria.Offset = normalizePage(criteria.Limit, criteria.Offset)

	result, err := h.marketService.Search(c.Request.Context(), h.GetDB(c), userID, criteria)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *MarketHandler) GetMyMarkets(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	markets, err := h.marketService.MyMarkets(c.Request.Context(), h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"markets": markets,
		"total":   len(markets),
	})
}

func (h *MarketHandler) UpdateMarket(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateMarketRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	market, err := h.marketService.Update(c.Request.Context(), h.GetDB(c), userID, c.Param("marketId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, market)
}

func (h *MarketHandler) DeleteMarket(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.marketService.Delete(c.Request.Context(), h.GetDB(c), userID, c.Param("marketId")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Market deleted successfully"})
}

// --- Images ---

func (h *MarketHandler) AddImage(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.AddImageRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	image, err := h.marketService.AddImage(c.Request.Context(), h.GetDB(c), userID, c.Param("marketId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, image)
}

func (h *MarketHandler) ListImages(c *gin.Context) {
	images, err := h.marketService.ListImages(c.Request.Context(), h.GetDB(c), c.Param("marketId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"images": images})
}

func (h *MarketHandler) UpdateImage(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateImageRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	image, err := h.marketService.UpdateImage(c.Request.Context(), h.GetDB(c), userID, c.Param("marketId"), c.Param("imageId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, image)
}

func (h *MarketHandler) DeleteImage(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.marketService.DeleteImage(c.Request.Context(), h.GetDB(c), userID, c.Param("marketId"), c.Param("imageId")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Image deleted successfully"})
}

// normalizePage применяет дефолты и верхнюю границу к limit/offset
func normalizePage(limit, offset int) (int, int) {
	const defaultLimit = 20
	const maxLimit = 100

	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
