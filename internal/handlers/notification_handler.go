package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/learning-service/internal/repositories"
	"github.com/SAP-F-2025/learning-service/internal/services"
	"github.com/SAP-F-2025/learning-service/internal/utils"
)

type NotificationHandler struct {
	BaseHandler
	notificationService services.NotificationService
}

func NewNotificationHandler(notificationService services.NotificationService, logger utils.Logger) *NotificationHandler {
	return &NotificationHandler{
		BaseHandler:         NewBaseHandler(logger),
		notificationService: notificationService,
	}
}

// ListNotifications returns the caller's notifications with the unread count
// @Summary List notifications
// @Tags student
// @Router /student/notifications [get]
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	userID := h.currentUserID(c)
	if userID == 0 {
		return
	}

	filters := repositories.NotificationFilters{}
	filters.Limit, filters.Offset = parsePagination(c)
	if raw := c.Query("is_read"); raw != "" {
		if isRead, err := strconv.ParseBool(raw); err == nil {
			filters.IsRead = &isRead
		}
	}

	resp, err := h.notificationService.ListMine(c.Request.Context(), userID, filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.respondOK(c, resp)
}

// MarkNotificationRead marks one of the caller's notifications as read
// @Summary Mark notification read
// @Tags student
// @Router /student/notifications/{id}/read [put]
func (h *NotificationHandler) MarkNotificationRead(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	userID := h.currentUserID(c)
	if userID == 0 {
		return
	}

	if err := h.notificationService.MarkRead(c.Request.Context(), userID, id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.respondMessage(c, "Notification marked as read")
}

// MarkAllNotificationsRead marks every unread notification of the caller
// @Summary Mark all notifications read
// @Tags student
// @Router /student/notifications/read-all [put]
func (h *NotificationHandler) MarkAllNotificationsRead(c *gin.Context) {
	userID := h.currentUserID(c)
	if userID == 0 {
		return
	}

	if err := h.notificationService.MarkAllRead(c.Request.Context(), userID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.respondMessage(c, "All notifications marked as read")
}
