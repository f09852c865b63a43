package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/learning-service/internal/models"
	"github.com/SAP-F-2025/learning-service/internal/repositories"
	"github.com/SAP-F-2025/learning-service/internal/services"
	"github.com/SAP-F-2025/learning-service/internal/utils"
)

type LiveClassHandler struct {
	BaseHandler
	liveClassService  services.LiveClassService
	enrollmentService services.EnrollmentService
}

func NewLiveClassHandler(liveClassService services.LiveClassService, enrollmentService services.EnrollmentService, logger utils.Logger) *LiveClassHandler {
	return &LiveClassHandler{
		BaseHandler:       NewBaseHandler(logger),
		liveClassService:  liveClassService,
		enrollmentService: enrollmentService,
	}
}

func liveClassFiltersFromQuery(c *gin.Context) repositories.LiveClassFilters {
	filters := repositories.LiveClassFilters{
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}
	filters.Limit, filters.Offset = parsePagination(c)

	if raw := c.Query("status"); raw != "" {
		status := models.LiveClassStatus(raw)
		filters.Status = &status
	}
	if raw := c.Query("from"); raw != "" {
		if from, err := time.Parse(time.RFC3339, raw); err == nil {
			filters.From = &from
		}
	}
	if raw := c.Query("to"); raw != "" {
		if to, err := time.Parse(time.RFC3339, raw); err == nil {
			filters.To = &to
		}
	}
	return filters
}

// ===== ADMIN =====

// CreateLiveClass schedules a class
// @Summary Create live class
// @Tags admin
// @Router /admin/live-classes [post]
func (h *LiveClassHandler) CreateLiveClass(c *gin.Context) {
	var req services.LiveClassCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	creatorID := h.currentUserID(c)
	if creatorID == 0 {
		return
	}

	class, err := h.liveClassService.Create(c.Request.Context(), &req, creatorID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.respondCreated(c, class)
}

// ListLiveClasses lists classes in every state
// @Summary List live classes
// @Tags admin
// @Router /admin/live-classes [get]
func (h *LiveClassHandler) ListLiveClasses(c *gin.Context) {
	resp, err := h.liveClassService.List(c.Request.Context(), liveClassFiltersFromQuery(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.respondOK(c, resp)
}

// GetLiveClass returns one class
// @Summary Get live class
// @Tags admin
// @Router /admin/live-classes/{id} [get]
func (h *LiveClassHandler) GetLiveClass(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	class, err := h.liveClassService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.respondOK(c, class)
}

// UpdateLiveClass edits an unfinished class
// @Summary Update live class
// @Tags admin
// @Router /admin/live-classes/{id} [put]
func (h *LiveClassHandler) UpdateLiveClass(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.LiveClassUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	class, err := h.liveClassService.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.respondOK(c, class)
}

// UpdateLiveClassStatus advances the schedule lifecycle
// @Summary Update live class status
// @Tags admin
// @Router /admin/live-classes/{id}/status [put]
func (h *LiveClassHandler) UpdateLiveClassStatus(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	class, err := h.liveClassService.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.respondOK(c, class)
}

// DeleteLiveClass removes a class
// @Summary Delete live class
// @Tags admin
// @Router /admin/live-classes/{id} [delete]
func (h *LiveClassHandler) DeleteLiveClass(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	if err := h.liveClassService.Delete(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.respondMessage(c, "Live class deleted")
}

// ===== STUDENT =====

// BrowseLiveClasses lists classes students may still join
// @Summary Browse live classes
// @Tags student
// @Router /student/live-classes [get]
func (h *LiveClassHandler) BrowseLiveClasses(c *gin.Context) {
	resp, err := h.liveClassService.ListVisible(c.Request.Context(), liveClassFiltersFromQuery(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.respondOK(c, resp)
}

// GetVisibleLiveClass returns a bookable class; finished ones read as missing
// @Summary Get visible live class
// @Tags student
// @Router /student/live-classes/{id} [get]
func (h *LiveClassHandler) GetVisibleLiveClass(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	class, err := h.liveClassService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	if !class.StudentVisible() {
		h.respondError(c, http.StatusNotFound, services.ErrLiveClassNotFound.Error(), nil)
		return
	}

	h.respondOK(c, class)
}

// BookLiveClass books the authenticated student onto a class
// @Summary Book live class
// @Tags student
// @Router /student/live-classes/{id}/book [post]
func (h *LiveClassHandler) BookLiveClass(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	userID := h.currentUserID(c)
	if userID == 0 {
		return
	}

	result, err := h.enrollmentService.EnrollInLiveClass(c.Request.Context(), userID, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	if result.AlreadyEnrolled {
		h.respondOK(c, result)
		return
	}
	h.respondCreated(c, result)
}
