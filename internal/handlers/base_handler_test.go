package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/learning-service/internal/services"
	"github.com/SAP-F-2025/learning-service/internal/utils"
	"github.com/SAP-F-2025/learning-service/internal/validator"
)

func statusForError(t *testing.T, err error) int {
	t.Helper()
	gin.SetMode(gin.TestMode)

	h := NewBaseHandler(utils.NewSlogLogger(slog.New(slog.DiscardHandler)))
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	h.handleServiceError(c, err)
	return rec.Code
}

func TestHandleServiceError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"validation errors", validator.ValidationErrors{{Field: "email", Rule: "required"}}, http.StatusBadRequest},
		{"permission error", services.NewPermissionError(1, 2, "enrollment", "confirm_payment", "not the owner"), http.StatusForbidden},
		{"conflict error", services.NewConflictError("enrollment", 7, "enrollment already completed"), http.StatusConflict},
		{"not found", services.ErrCourseNotFound, http.StatusNotFound},
		{"invalid credentials", services.ErrInvalidCredentials, http.StatusUnauthorized},
		{"invalid token", services.ErrInvalidToken, http.StatusUnauthorized},
		{"suspended user", services.ErrUserSuspended, http.StatusForbidden},
		{"duplicate email", services.ErrEmailAlreadyExists, http.StatusConflict},
		{"payment replay", services.ErrPaymentAlreadySettled, http.StatusConflict},
		{"course not published", services.ErrCourseNotPublished, http.StatusConflict},
		{"unknown error", errors.New("mysterious failure"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := statusForError(t, tc.err); got != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, got)
			}
		})
	}
}
