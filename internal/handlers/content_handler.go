package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/learning-service/internal/services"
	"github.com/SAP-F-2025/learning-service/internal/utils"
)

type ContentHandler struct {
	BaseHandler
	contentService services.ContentService
}

func NewContentHandler(contentService services.ContentService, logger utils.Logger) *ContentHandler {
	return &ContentHandler{
		BaseHandler:    NewBaseHandler(logger),
		contentService: contentService,
	}
}

// ServeSecurePdf streams a book PDF to an authenticated reader. The
// response forbids caching and framing so the file cannot be saved from
// an embedded viewer or replayed from a shared cache.
// @Summary Serve secure PDF
// @Tags content
// @Router /secure-pdf/pdf/{bookId} [get]
func (h *ContentHandler) ServeSecurePdf(c *gin.Context) {
	bookID := h.parseIDParam(c, "bookId")
	if bookID == 0 {
		return
	}

	userID := h.currentUserID(c)
	if userID == 0 {
		return
	}

	file, err := h.contentService.GetSecurePdf(c.Request.Context(), userID, bookID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", file.Filename))
	c.Header("Cache-Control", "no-store, no-cache, must-revalidate")
	c.Header("Pragma", "no-cache")
	c.Header("X-Frame-Options", "DENY")
	c.Header("Content-Security-Policy", "default-src 'none'; object-src 'self'; frame-ancestors 'none'")

	if len(file.Data) > 0 {
		c.Data(200, file.ContentType, file.Data)
		return
	}
	c.Header("Content-Type", file.ContentType)
	c.File(file.Path)
}

// ServeCover returns a book's cover image, or a neutral placeholder when
// none was uploaded. Covers are public so catalog pages can embed them.
// @Summary Serve book cover
// @Tags content
// @Router /secure-pdf/cover/{bookId} [get]
func (h *ContentHandler) ServeCover(c *gin.Context) {
	bookID := h.parseIDParam(c, "bookId")
	if bookID == 0 {
		return
	}

	file, err := h.contentService.GetCover(c.Request.Context(), bookID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Cache-Control", "public, max-age=3600")

	if len(file.Data) > 0 {
		c.Data(200, file.ContentType, file.Data)
		return
	}
	c.Header("Content-Type", file.ContentType)
	c.File(file.Path)
}
