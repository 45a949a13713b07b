package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"markethub_backend/internal/repositories"
	"markethub_backend/internal/services"
	"markethub_backend/internal/services/dto"
)

type BusinessHandler struct {
	*BaseHandler
	businessService services.BusinessService
}

func NewBusinessHandler(base *BaseHandler, businessService services.BusinessService) *BusinessHandler {
	return &BusinessHandler{
		BaseHandler:     base,
		businessService: businessService,
	}
}

func (h *BusinessHandler) RegisterRoutes(r *gin.RouterGroup, auth gin.HandlerFunc) {
	businesses := r.Group("/businesses")
	businesses.Use(auth)
	{
		businesses.POST("", h.CreateBusiness)
		businesses.GET("", h.SearchBusinesses)
		businesses.GET("/my", h.GetMyBusinesses)
		businesses.GET("/:businessId", h.GetBusiness)
		businesses.PUT("/:businessId", h.UpdateBusiness)
		businesses.DELETE("/:businessId", h.DeleteBusiness)

		businesses.POST("/:businessId/images", h.AddImage)
		businesses.GET("/:businessId/images", h.ListImages)
		businesses.PUT("/:businessId/images/:imageId", h.UpdateImage)
		businesses.DELETE("/:businessId/images/:imageId", h.DeleteImage)
	}
}

func (h *BusinessHandler) CreateBusiness(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateBusinessRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}
	req.OwnerUserID = userID

	business, err := h.businessService.Create(c.Request.Context(), h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, business)
}

func (h *BusinessHandler) GetBusiness(c *gin.Context) {
	business, err := h.businessService.GetByID(c.Request.Context(), h.GetDB(c), c.Param("businessId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, business)
}

func (h *BusinessHandler) SearchBusinesses(c *gin.Context) {
	var criteria repositories.BusinessSearchCriteria
	if !h.BindAndValidate_Query(c, &criteria) {
		return
	}
	criteria.Limit, criteria.Offset = normalizePage(criteria.Limit, criteria.Offset)

	result, err := h.businessService.Search(c.Request.Context(), h.GetDB(c), criteria)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *BusinessHandler) GetMyBusinesses(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	businesses, err := h.businessService.MyBusinesses(c.Request.Context(), h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"businesses": businesses,
		"total":      len(businesses),
	})
}

func (h *BusinessHandler) UpdateBusiness(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateBusinessRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	business, err := h.businessService.Update(c.Request.Context(), h.GetDB(c), userID, c.Param("businessId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, business)
}

func (h *BusinessHandler) DeleteBusiness(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.businessService.Delete(c.Request.Context(), h.GetDB(c), userID, c.Param("businessId")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Business deleted successfully"})
}

// --- Images ---

func (h *BusinessHandler) AddImage(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.AddImageRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	image, err := h.businessService.AddImage(c.Request.Context(), h.GetDB(c), userID, c.Param("businessId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, image)
}

func (h *BusinessHandler) ListImages(c *gin.Context) {
	images, err := h.businessService.ListImages(c.Request.Context(), h.GetDB(c), c.Param("businessId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"images": images})
}

func (h *BusinessHandler) UpdateImage(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateImageRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	image, err := h.businessService.UpdateImage(c.Request.Context(), h.GetDB(c), userID, c.Param("businessId"), c.Param("imageId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, image)
}

func (h *BusinessHandler) DeleteImage(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.businessService.DeleteImage(c.Request.Context(), h.GetDB(c), userID, c.Param("businessId"), c.Param("imageId")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Image deleted successfully"})
}
