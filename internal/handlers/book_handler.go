package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/learning-service/internal/models"
	"github.com/SAP-F-2025/learning-service/internal/repositories"
	"github.com/SAP-F-2025/learning-service/internal/services"
	"github.com/SAP-F-2025/learning-service/internal/utils"
)

type BookHandler struct {
	BaseHandler
	bookService services.BookService
}

func NewBookHandler(bookService services.BookService, logger utils.Logger) *BookHandler {
	return &BookHandler{
		BaseHandler: NewBaseHandler(logger),
		bookService: bookService,
	}
}

func bookFiltersFromQuery(c *gin.Context) repositories.BookFilters {
	filters := repositories.BookFilters{
		Search:    c.Query("search"),
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}
	filters.Limit, filters.Offset = parsePagination(c)

	if raw := c.Query("status"); raw != "" {
		status := models.BookStatus(raw)
		filters.Status = &status
	}
	return filters
}

// ===== ADMIN =====

// CreateBook registers a book and its protected file paths
// @Summary Create book
// @Tags admin
// @Router /admin/books [post]
func (h *BookHandler) CreateBook(c *gin.Context) {
	var req services.BookCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	creatorID := h.currentUserID(c)
	if creatorID == 0 {
		return
	}

	book, err := h.bookService.Create(c.Request.Context(), &req, creatorID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.respondCreated(c, book)
}

// ListBooks lists every book regardless of visibility
// @Summary List books
// @Tags admin
// @Router /admin/books [get]
func (h *BookHandler) ListBooks(c *gin.Context) {
	resp, err := h.bookService.List(c.Request.Context(), bookFiltersFromQuery(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.respondOK(c, resp)
}

// GetBook returns one book
// @Summary Get book
// @Tags admin
// @Router /admin/books/{id} [get]
func (h *BookHandler) GetBook(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	book, err := h.bookService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.respondOK(c, book)
}

// UpdateBook applies a partial update
// @Summary Update book
// @Tags admin
// @Router /admin/books/{id} [put]
func (h *BookHandler) UpdateBook(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.BookUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	book, err := h.bookService.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.respondOK(c, book)
}

// UpdateBookStatus moves a book through its lifecycle
// @Summary Update book status
// @Tags admin
// @Router /admin/books/{id}/status [put]
func (h *BookHandler) UpdateBookStatus(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	book, err := h.bookService.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.respondOK(c, book)
}

// DeleteBook removes a book
// @Summary Delete book
// @Tags admin
// @Router /admin/books/{id} [delete]
func (h *BookHandler) DeleteBook(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	if err := h.bookService.Delete(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.respondMessage(c, "Book deleted")
}

// ===== STUDENT =====

// BrowseBooks lists books that are published and available
// @Summary Browse books
// @Tags student
// @Router /student/books [get]
func (h *BookHandler) BrowseBooks(c *gin.Context) {
	resp, err := h.bookService.ListAvailable(c.Request.Context(), bookFiltersFromQuery(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.respondOK(c, resp)
}

// GetAvailableBook returns a catalog book; unavailable ones read as missing
// @Summary Get available book
// @Tags student
// @Router /student/books/{id} [get]
func (h *BookHandler) GetAvailableBook(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	book, err := h.bookService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	if !book.Servable() {
		h.respondError(c, http.StatusNotFound, services.ErrBookNotFound.Error(), nil)
		return
	}

	h.respondOK(c, book)
}
