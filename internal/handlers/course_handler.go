package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/learning-service/internal/models"
	"github.com/SAP-F-2025/learning-service/internal/repositories"
	"github.com/SAP-F-2025/learning-service/internal/services"
	"github.com/SAP-F-2025/learning-service/internal/utils"
)

type CourseHandler struct {
	BaseHandler
	courseService     services.CourseService
	enrollmentService services.EnrollmentService
}

func NewCourseHandler(courseService services.CourseService, enrollmentService services.EnrollmentService, logger utils.Logger) *CourseHandler {
	return &CourseHandler{
		BaseHandler:       NewBaseHandler(logger),
		courseService:     courseService,
		enrollmentService: enrollmentService,
	}
}

func courseFiltersFromQuery(c *gin.Context) repositories.CourseFilters {
	filters := repositories.CourseFilters{
		Search:    c.Query("search"),
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}
	filters.Limit, filters.Offset = parsePagination(c)

	if raw := c.Query("status"); raw != "" {
		status := models.CourseStatus(raw)
		filters.Status = &status
	}
	if raw := c.Query("price_max"); raw != "" {
		if max, err := strconv.ParseFloat(raw, 64); err == nil {
			filters.PriceMax = &max
		}
	}
	return filters
}

// ===== ADMIN =====

// CreateCourse creates a draft course
// @Summary Create course
// @Tags admin
// @Router /admin/courses [post]
func (h *CourseHandler) CreateCourse(c *gin.Context) {
	var req services.CourseCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	creatorID := h.currentUserID(c)
	if creatorID == 0 {
		return
	}

	course, err := h.courseService.Create(c.Request.Context(), &req, creatorID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.respondCreated(c, course)
}

// ListCourses lists every course regardless of status
// @Summary List courses
// @Tags admin
// @Router /admin/courses [get]
func (h *CourseHandler) ListCourses(c *gin.Context) {
	resp, err := h.courseService.List(c.Request.Context(), courseFiltersFromQuery(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.respondOK(c, resp)
}

// GetCourse returns one course
// @Summary Get course
// @Tags admin
// @Router /admin/courses/{id} [get]
func (h *CourseHandler) GetCourse(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	course, err := h.courseService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.respondOK(c, course)
}

// UpdateCourse applies a partial update
// @Summary Update course
// @Tags admin
// @Router /admin/courses/{id} [put]
func (h *CourseHandler) UpdateCourse(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.CourseUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	course, err := h.courseService.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.respondOK(c, course)
}

// UpdateCourseStatus moves a course through its lifecycle
// @Summary Update course status
// @Tags admin
// @Router /admin/courses/{id}/status [put]
func (h *CourseHandler) UpdateCourseStatus(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	course, err := h.courseService.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.respondOK(c, course)
}

// DeleteCourse removes a course without active enrollments
// @Summary Delete course
// @Tags admin
// @Router /admin/courses/{id} [delete]
func (h *CourseHandler) DeleteCourse(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	if err := h.courseService.Delete(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.respondMessage(c, "Course deleted")
}

// ===== STUDENT =====

// BrowseCourses lists the published catalog
// @Summary Browse courses
// @Tags student
// @Router /student/courses [get]
func (h *CourseHandler) BrowseCourses(c *gin.Context) {
	resp, err := h.courseService.ListPublished(c.Request.Context(), courseFiltersFromQuery(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.respondOK(c, resp)
}

// GetPublishedCourse returns a catalog course; drafts read as missing
// @Summary Get published course
// @Tags student
// @Router /student/courses/{id} [get]
func (h *CourseHandler) GetPublishedCourse(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	course, err := h.courseService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	if course.Status != models.CoursePublished {
		h.respondError(c, http.StatusNotFound, services.ErrCourseNotFound.Error(), nil)
		return
	}

	h.respondOK(c, course)
}

// EnrollCourse enrolls the authenticated student
// @Summary Enroll in course
// @Tags student
// @Router /student/courses/{id}/enroll [post]
func (h *CourseHandler) EnrollCourse(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	userID := h.currentUserID(c)
	if userID == 0 {
		return
	}

	result, err := h.enrollmentService.EnrollInCourse(c.Request.Context(), userID, id)
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
