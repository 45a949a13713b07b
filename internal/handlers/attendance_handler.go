package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"markethub_backend/internal/repositories"
	"markethub_backend/internal/services"
	"markethub_backend/internal/services/dto"
)

type AttendanceHandler struct {
	*BaseHandler
	attendanceService services.AttendanceService
}

func NewAttendanceHandler(base *BaseHandler, attendanceService services.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{
		BaseHandler:       base,
		attendanceService: attendanceService,
	}
}

func (h *AttendanceHandler) RegisterRoutes(r *gin.RouterGroup, auth gin.HandlerFunc) {
	attendances := r.Group("/attendances")
	attendances.Use(auth)
	{
		attendances.POST("", h.CreateAttendance)
		attendances.GET("", h.ListAttendances)
		attendances.GET("/my", h.GetMyAttendances)
		attendances.GET("/:attendanceId", h.GetAttendance)
		attendances.PUT("/:attendanceId", h.UpdateAttendance)
		attendances.DELETE("/:attendanceId", h.DeleteAttendance)
	}
}

func (h *AttendanceHandler) CreateAttendance(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateAttendanceRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	attendance, err := h.attendanceService.Create(c.Request.Context(), h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, attendance)
}

func (h *AttendanceHandler) GetAttendance(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	attendance, err := h.attendanceService.GetByID(c.Request.Context(), h.GetDB(c), userID, c.Param("attendanceId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, attendance)
}

func (h *AttendanceHandler) ListAttendances(c *gin.Context) {
	var query dto.AttendanceListQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}
	limit, offset := normalizePage(query.Limit, query.Offset)

	result, err := h.attendanceService.List(c.Request.Context(), h.GetDB(c), repositories.AttendanceSearchCriteria{
		MarketID: query.MarketID,
		Status:   query.Status,
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *AttendanceHandler) GetMyAttendances(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	attendances, err := h.attendanceService.MyAttendances(c.Request.Context(), h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"attendances": attendances,
		"total":       len(attendances),
	})
}

func (h *AttendanceHandler) UpdateAttendance(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateAttendanceRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	attendance, err := h.attendanceService.Update(c.Request.Context(), h.GetDB(c), userID, c.Param("attendanceId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, attendance)
}

func (h *AttendanceHandler) DeleteAttendance(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.attendanceService.Delete(c.Request.Context(), h.GetDB(c), userID, c.Param("attendanceId")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Attendance deleted successfully"})
}
