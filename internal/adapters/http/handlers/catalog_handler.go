package handlers

import (
	"library-ledger/internal/core/services"
	"library-ledger/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// CatalogHandler handles book catalog endpoints
type CatalogHandler struct {
	catalogService *services.CatalogService
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalogService *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
	}
}

// ListBooks handles listing all books
// @Summary List books
// @Description Get every book in the catalog ordered by ID
// @Tags Catalog
// @Accept json
// @Produce json
// @Success 200 {object} response.Response{data=[]domain.Book}
// @Failure 500 {object} response.Response
// @Router /books [get]
func (h *CatalogHandler) ListBooks(c *fiber.Ctx) error {
	books, err := h.catalogService.ListBooks(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to list books")
	}

	return response.Success(c, "Books retrieved successfully", books)
}

// GetBook handles getting a book by ID
// @Summary Get book by ID
// @Description Existence and title lookup used by the lending service
// @Tags Catalog
// @Accept json
// @Produce json
// @Param id path int true "Book ID"
// @Success 200 {object} response.Response{data=domain.Book}
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /books/{id} [get]
func (h *CatalogHandler) GetBook(c *fiber.Ctx) error {
	id, err := paramID(c, "id", "book_id")
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	book, err := h.catalogService.GetBook(c.Context(), id)
	if err != nil {
		return response.FromError(c, err, "Failed to get book")
	}

	return response.Success(c, "Book retrieved successfully", book)
}

// CreateBook handles adding a book
// @Summary Add book
// @Description Add a book with a caller-chosen ID
// @Tags Catalog
// @Accept json
// @Produce json
// @Param body body CreateBookRequest true "Book"
// @Success 201 {object} response.Response{data=domain.Book}
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /books [post]
func (h *CatalogHandler) CreateBook(c *fiber.Ctx) error {
	var req CreateBookRequest
	if err := parseBody(c, &req); err != nil {
		return response.BadRequest(c, err.Error())
	}

	book, err := h.catalogService.AddBook(c.Context(), req.ID, req.Title)
	if err != nil {
		return response.FromError(c, err, "Failed to add book")
	}

	return response.Created(c, "Book added successfully", book)
}

// UpdateBook handles renaming a book
// @Summary Update book
// @Description Replace the title of a book
// @Tags Catalog
// @Accept json
// @Produce json
// @Param id path int true "Book ID"
// @Param body body UpdateBookRequest true "Update data"
// @Success 200 {object} response.Response{data=domain.Book}
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /books/{id} [put]
func (h *CatalogHandler) UpdateBook(c *fiber.Ctx) error {
	id, err := paramID(c, "id", "book_id")
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	var req UpdateBookRequest
	if err := parseBody(c, &req); err != nil {
		return response.BadRequest(c, err.Error())
	}

	book, err := h.catalogService.UpdateBook(c.Context(), id, req.Title)
	if err != nil {
		return response.FromError(c, err, "Failed to update book")
	}

	return response.Success(c, "Book updated successfully", book)
}

// DeleteBook handles removing a book
// @Summary Delete book
// @Description Remove a book from the catalog. Loan history is kept.
// @Tags Catalog
// @Accept json
// @Produce json
// @Param id path int true "Book ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /books/{id} [delete]
func (h *CatalogHandler) DeleteBook(c *fiber.Ctx) error {
	id, err := paramID(c, "id", "book_id")
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	if err := h.catalogService.DeleteBook(c.Context(), id); err != nil {
		return response.FromError(c, err, "Failed to delete book")
	}

	return response.Success(c, "Book deleted successfully", nil)
}
