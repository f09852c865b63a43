package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/learning-service/internal/models"
	"github.com/SAP-F-2025/learning-service/internal/repositories"
	"github.com/SAP-F-2025/learning-service/internal/services"
	"github.com/SAP-F-2025/learning-service/internal/utils"
)

type EnrollmentHandler struct {
	BaseHandler
	enrollmentService services.EnrollmentService
}

func NewEnrollmentHandler(enrollmentService services.EnrollmentService, logger utils.Logger) *EnrollmentHandler {
	return &EnrollmentHandler{
		BaseHandler:       NewBaseHandler(logger),
		enrollmentService: enrollmentService,
	}
}

func enrollmentFiltersFromQuery(c *gin.Context) repositories.EnrollmentFilters {
	filters := repositories.EnrollmentFilters{
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}
	filters.Limit, filters.Offset = parsePagination(c)

	if raw := c.Query("status"); raw != "" {
		status := models.EnrollmentStatus(raw)
		filters.Status = &status
	}
	if id := parseOptionalUintQuery(c, "course_id"); id != nil {
		filters.CourseID = id
	}
	if id := parseOptionalUintQuery(c, "user_id"); id != nil {
		filters.UserID = id
	}
	return filters
}

// ===== ADMIN =====

// ListEnrollments lists enrollments across all students
// @Summary List enrollments
// @Tags admin
// @Router /admin/enrollments [get]
func (h *EnrollmentHandler) ListEnrollments(c *gin.Context) {
	resp, err := h.enrollmentService.List(c.Request.Context(), enrollmentFiltersFromQuery(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.respondOK(c, resp)
}

// UpdateEnrollmentStatus force-sets an enrollment status
// @Summary Update enrollment status
// @Tags admin
// @Router /admin/enrollments/{id}/status [put]
func (h *EnrollmentHandler) UpdateEnrollmentStatus(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	enrollment, err := h.enrollmentService.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.respondOK(c, enrollment)
}

// ===== STUDENT =====

// ListMyEnrollments lists the caller's own enrollments
// @Summary List my enrollments
// @Tags student
// @Router /student/enrollments [get]
func (h *EnrollmentHandler) ListMyEnrollments(c *gin.Context) {
	userID := h.currentUserID(c)
	if userID == 0 {
		return
	}

	resp, err := h.enrollmentService.ListMine(c.Request.Context(), userID, enrollmentFiltersFromQuery(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.respondOK(c, resp)
}

// ConfirmPayment settles a pending payment and activates the enrollment
// @Summary Confirm payment
// @Tags student
// @Router /student/enrollments/payments/confirm [post]
func (h *EnrollmentHandler) ConfirmPayment(c *gin.Context) {
	userID := h.currentUserID(c)
	if userID == 0 {
		return
	}

	var req services.ConfirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	result, err := h.enrollmentService.ConfirmPayment(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.respondOK(c, result)
}

// CancelEnrollment cancels the caller's enrollment
// @Summary Cancel enrollment
// @Tags student
// @Router /student/enrollments/{id} [delete]
func (h *EnrollmentHandler) CancelEnrollment(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	userID := h.currentUserID(c)
	if userID == 0 {
		return
	}

	enrollment, err := h.enrollmentService.Cancel(c.Request.Context(), userID, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.respondOK(c, enrollment)
}
