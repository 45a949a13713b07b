package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"markethub_backend/internal/services"
	"markethub_backend/internal/services/dto"
)

type ApplicationHandler struct {
	*BaseHandler
	applicationService services.ApplicationService
}

func NewApplicationHandler(base *BaseHandler, applicationService services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{
		BaseHandler:        base,
		applicationService: applicationService,
	}
}

func (h *ApplicationHandler) RegisterRoutes(r *gin.RouterGroup, auth gin.HandlerFunc) {
	applications := r.Group("/applications")
	applications.Use(auth)
	{
		applications.POST("", h.CreateApplication)
		applications.GET("", h.SearchApplications)
		applications.GET("/my", h.GetMyApplications)
		applications.GET("/my/details", h.GetMyApplicationsDetails)
		applications.GET("/received/details", h.GetReceivedApplicationsDetails)
		applications.GET("/:applicationId", h.GetApplication)
		applications.PUT("/:applicationId", h.UpdateApplication)
		applications.DELETE("/:applicationId", h.DeleteApplication)

		// Lifecycle transitions
		applications.POST("/:applicationId/accept", h.AcceptApplication)
		applications.POST("/:applicationId/reject", h.RejectApplication)
		applications.POST("/:applicationId/payment", h.UpdatePayment)
		applications.POST("/:applicationId/confirm", h.ConfirmApplication)
	}

	markets := r.Group("/markets")
	markets.Use(auth)
	{
		markets.GET("/:marketId/applications", h.GetMarketApplications)
	}
}

func (h *ApplicationHandler) CreateApplication(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateApplicationRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	application, err := h.applicationService.Create(c.Request.Context(), h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, application)
}

func (h *ApplicationHandler) GetApplication(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	application, err := h.applicationService.GetByID(c.Request.Context(), h.GetDB(c), userID, c.Param("applicationId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, application)
}

func (h *ApplicationHandler) SearchApplications(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var query dto.ApplicationSearchQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}
	query.Limit, query.Offset = normalizePage(query.Limit, query.Offset)

	result, err := h.applicationService.Search(c.Request.Context(), h.GetDB(c), userID, &query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *ApplicationHandler) GetMyApplications(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	limit, offset := ParsePagination(c)
	status := c.Query("status")

	result, err := h.applicationService.MyApplications(c.Request.Context(), h.GetDB(c), userID, status, limit, offset)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *ApplicationHandler) GetMyApplicationsDetails(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	limit, offset := ParsePagination(c)
	status := c.Query("status")

	result, err := h.applicationService.MyApplicationsDetails(c.Request.Context(), h.GetDB(c), userID, status, limit, offset)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetReceivedApplicationsDetails lists applications to the caller's markets.
func (h *ApplicationHandler) GetReceivedApplicationsDetails(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	limit, offset := ParsePagination(c)
	status := c.Query("status")

	result, err := h.applicationService.MarketApplicationsDetails(c.Request.Context(), h.GetDB(c), userID, status, limit, offset)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *ApplicationHandler) GetMarketApplications(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	applications, err := h.applicationService.ListForMarket(c.Request.Context(), h.GetDB(c), userID, c.Param("marketId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"applications": applications,
		"total":        len(applications),
	})
}

func (h *ApplicationHandler) UpdateApplication(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateApplicationRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	application, err := h.applicationService.Update(c.Request.Context(), h.GetDB(c), userID, c.Param("applicationId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, application)
}

func (h *ApplicationHandler) DeleteApplication(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.applicationService.Delete(c.Request.Context(), h.GetDB(c), userID, c.Param("applicationId")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Application deleted successfully"})
}

// --- Lifecycle ---

func (h *ApplicationHandler) AcceptApplication(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	application, err := h.applicationService.Accept(c.Request.Context(), h.GetDB(c), userID, c.Param("applicationId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, application)
}

func (h *ApplicationHandler) RejectApplication(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.RejectApplicationRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	application, err := h.applicationService.Reject(c.Request.Context(), h.GetDB(c), userID, c.Param("applicationId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, application)
}

func (h *ApplicationHandler) UpdatePayment(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdatePaymentRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	application, err := h.applicationService.UpdatePayment(c.Request.Context(), h.GetDB(c), userID, c.Param("applicationId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, application)
}

func (h *ApplicationHandler) ConfirmApplication(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	application, err := h.applicationService.Confirm(c.Request.Context(), h.GetDB(c), userID, c.Param("applicationId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, application)
}
