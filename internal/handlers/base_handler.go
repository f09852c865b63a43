package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/learning-service/internal/models"
	"github.com/SAP-F-2025/learning-service/internal/services"
	"github.com/SAP-F-2025/learning-service/internal/utils"
	"github.com/SAP-F-2025/learning-service/internal/validator"
)

// SuccessResponse is the uniform success envelope.
type SuccessResponse struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Message   string      `json:"message,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// ErrorResponse is the uniform error envelope.
type ErrorResponse struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Details   interface{} `json:"details,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// BaseHandler carries the pieces every handler shares.
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

func (h *BaseHandler) respond(c *gin.Context, status int, data interface{}, message string) {
	c.JSON(status, SuccessResponse{
		Success:   true,
		Data:      data,
		Message:   message,
		Timestamp: time.Now().UTC(),
	})
}

func (h *BaseHandler) respondOK(c *gin.Context, data interface{}) {
	h.respond(c, http.StatusOK, data, "")
}

func (h *BaseHandler) respondCreated(c *gin.Context, data interface{}) {
	h.respond(c, http.StatusCreated, data, "")
}

func (h *BaseHandler) respondMessage(c *gin.Context, message string) {
	h.respond(c, http.StatusOK, nil, message)
}

func (h *BaseHandler) respondError(c *gin.Context, status int, message string, details interface{}) {
	c.JSON(status, ErrorResponse{
		Success:   false,
		Message:   message,
		Details:   details,
		Timestamp: time.Now().UTC(),
	})
}

// handleServiceError maps service errors onto HTTP statuses in one place
// so handlers never switch on error types themselves.
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		h.respondError(c, http.StatusBadRequest, "Validation failed", validationErrs)
		return
	}

	var permErr *services.PermissionError
	if errors.As(err, &permErr) {
		h.respondError(c, http.StatusForbidden, "Access denied", nil)
		return
	}

	var conflictErr *services.ConflictError
	if errors.As(err, &conflictErr) {
		h.respondError(c, http.StatusConflict, conflictErr.Reason, nil)
		return
	}

	switch {
	case services.IsNotFound(err):
		h.respondError(c, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrInvalidToken):
		h.respondError(c, http.StatusUnauthorized, err.Error(), nil)
	case errors.Is(err, services.ErrUserSuspended):
		h.respondError(c, http.StatusForbidden, err.Error(), nil)
	case errors.Is(err, services.ErrEmailAlreadyExists),
		errors.Is(err, services.ErrCourseHasEnrollments),
		errors.Is(err, services.ErrPaymentAlreadySettled),
		errors.Is(err, services.ErrCourseNotPublished),
		errors.Is(err, services.ErrBookNotAvailable),
		errors.Is(err, services.ErrLiveClassNotBookable):
		h.respondError(c, http.StatusConflict, err.Error(), nil)
	default:
		h.LogRequest(c, "Unhandled service error", "error", err)
		h.respondError(c, http.StatusInternalServerError, "Internal server error", nil)
	}
}

// parseIDParam reads a positive integer path parameter; a zero return
// means the response was already written.
func (h *BaseHandler) parseIDParam(c *gin.Context, name string) uint {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		h.respondError(c, http.StatusBadRequest, "Invalid "+name+" parameter", nil)
		return 0
	}
	return uint(id)
}

// LogRequest logs with the request-scoped logger when one is present.
func (h *BaseHandler) LogRequest(c *gin.Context, msg string, args ...any) {
	utils.LoggerFromContext(c, h.logger).Info(msg, args...)
}

// currentUserID returns the authenticated user, written by the auth
// middleware. Zero means the response was already written.
func (h *BaseHandler) currentUserID(c *gin.Context) uint {
	raw, exists := c.Get("user_id")
	if !exists {
		h.respondError(c, http.StatusUnauthorized, "User not authenticated", nil)
		return 0
	}
	id, ok := raw.(uint)
	if !ok || id == 0 {
		h.respondError(c, http.StatusUnauthorized, "User not authenticated", nil)
		return 0
	}
	return id
}

func (h *BaseHandler) currentRole(c *gin.Context) models.UserRole {
	raw, exists := c.Get("user_role")
	if !exists {
		return ""
	}
	role, _ := raw.(models.UserRole)
	return role
}

// parsePagination reads limit/offset query parameters with the shared
// defaults applied later by the repository layer.
func parsePagination(c *gin.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	return limit, offset
}

// parseOptionalUintQuery returns nil when the parameter is absent or malformed.
func parseOptionalUintQuery(c *gin.Context, name string) *uint {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	parsed, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return nil
	}
	id := uint(parsed)
	return &id
}
