package handlers

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/learning-service/internal/services"
	"github.com/SAP-F-2025/learning-service/internal/utils"
)

type AnalyticsHandler struct {
	BaseHandler
	analyticsService services.AnalyticsService
}

func NewAnalyticsHandler(analyticsService services.AnalyticsService, logger utils.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		BaseHandler:      NewBaseHandler(logger),
		analyticsService: analyticsService,
	}
}

func parseDaysQuery(c *gin.Context) int {
	days, err := strconv.Atoi(c.DefaultQuery("days", "30"))
	if err != nil || days <= 0 {
		return 30
	}
	return days
}

// GetOverview returns headline platform metrics
// @Summary Analytics overview
// @Tags analytics
// @Router /analytics/overview [get]
func (h *AnalyticsHandler) GetOverview(c *gin.Context) {
	overview, err := h.analyticsService.GetOverview(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.respondOK(c, overview)
}

// GetUserAnalytics returns user breakdowns and the registration trend
// @Summary User analytics
// @Tags analytics
// @Router /analytics/users [get]
func (h *AnalyticsHandler) GetUserAnalytics(c *gin.Context) {
	analytics, err := h.analyticsService.GetUserAnalytics(c.Request.Context(), parseDaysQuery(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.respondOK(c, analytics)
}

// GetCourseAnalytics returns per-course enrollment breakdowns
// @Summary Course analytics
// @Tags analytics
// @Router /analytics/courses [get]
func (h *AnalyticsHandler) GetCourseAnalytics(c *gin.Context) {
	analytics, err := h.analyticsService.GetCourseAnalytics(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.respondOK(c, analytics)
}

// GetRevenueAnalytics returns settled revenue totals and the daily trend
// @Summary Revenue analytics
// @Tags analytics
// @Router /analytics/revenue [get]
func (h *AnalyticsHandler) GetRevenueAnalytics(c *gin.Context) {
	analytics, err := h.analyticsService.GetRevenueAnalytics(c.Request.Context(), parseDaysQuery(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.respondOK(c, analytics)
}

// ExportOverview downloads the overview as a spreadsheet
// @Summary Export analytics overview
// @Tags analytics
// @Router /analytics/export [get]
func (h *AnalyticsHandler) ExportOverview(c *gin.Context) {
	file, err := h.analyticsService.ExportOverview(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Data(200, file.ContentType, file.Data)
}
