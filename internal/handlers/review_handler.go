package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"markethub_backend/internal/repositories"
	"markethub_backend/internal/services"
	"markethub_backend/internal/services/dto"
	"markethub_backend/pkg/apperrors"
)

type ReviewHandler struct {
	*BaseHandler
	reviewService services.ReviewService
}

func NewReviewHandler(base *BaseHandler, reviewService services.ReviewService) *ReviewHandler {
	return &ReviewHandler{
		BaseHandler:   base,
		reviewService: reviewService,
	}
}

func (h *ReviewHandler) RegisterRoutes(r *gin.RouterGroup, auth gin.HandlerFunc) {
	reviews := r.Group("/reviews")
	reviews.Use(auth)
	{
		reviews.POST("", h.CreateReview)
		reviews.GET("", h.ListReviews)
		reviews.GET("/stats", h.GetReviewStats)
		reviews.GET("/:reviewId", h.GetReview)
		reviews.PUT("/:reviewId", h.UpdateReview)
		reviews.DELETE("/:reviewId", h.DeleteReview)
	}
}

func (h *ReviewHandler) CreateReview(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateReviewRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}
	req.AuthorUserID = userID

	review, err := h.reviewService.Create(c.Request.Context(), h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, review)
}

func (h *ReviewHandler) GetReview(c *gin.Context) {
	review, err := h.reviewService.GetByID(c.Request.Context(), h.GetDB(c), c.Param("reviewId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, review)
}

func (h *ReviewHandler) ListReviews(c *gin.Context) {
	var query dto.ReviewListQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}
	limit, offset := normalizePage(query.Limit, query.Offset)

	result, err := h.reviewService.List(c.Request.Context(), h.GetDB(c), repositories.ReviewSearchCriteria{
		TargetType:   query.TargetType,
		TargetID:     query.TargetID,
		AuthorUserID: query.AuthorUserID,
		Limit:        limit,
		Offset:       offset,
	})
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *ReviewHandler) GetReviewStats(c *gin.Context) {
	targetType := c.Query("target_type")
	targetID := c.Query("target_id")
	if targetType == "" || targetID == "" {
		apperrors.HandleError(c, apperrors.NewBadRequestError("target_type and target_id are required"))
		return
	}

	stats, err := h.reviewService.Stats(c.Request.Context(), h.GetDB(c), targetType, targetID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *ReviewHandler) UpdateReview(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateReviewRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	review, err := h.reviewService.Update(c.Request.Context(), h.GetDB(c), userID, c.Param("reviewId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, review)
}

func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.reviewService.Delete(c.Request.Context(), h.GetDB(c), userID, c.Param("reviewId")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Review deleted successfully"})
}
