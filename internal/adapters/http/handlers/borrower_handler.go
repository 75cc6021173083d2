package handlers

import (
	"library-ledger/internal/core/services"
	"library-ledger/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// BorrowerHandler handles user registration endpoints
type BorrowerHandler struct {
	borrowerService *services.BorrowerService
}

// NewBorrowerHandler creates a new borrower handler
func NewBorrowerHandler(borrowerService *services.BorrowerService) *BorrowerHandler {
	return &BorrowerHandler{
		borrowerService: borrowerService,
	}
}

// ListUsers handles listing all registered users
// @Summary List all users
// @Description Get every registered borrower ordered by ID
// @Tags Users
// @Accept json
// @Produce json
// @Success 200 {object} response.Response{data=[]domain.Borrower}
// @Failure 500 {object} response.Response
// @Router /users [get]
func (h *BorrowerHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.borrowerService.ListBorrowers(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to list users")
	}

	return response.Success(c, "Users retrieved successfully", users)
}

// GetUser handles getting a user by ID
// @Summary Get user by ID
// @Description Get a specific registered borrower
// @Tags Users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} response.Response{data=domain.Borrower}
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/{id} [get]
func (h *BorrowerHandler) GetUser(c *fiber.Ctx) error {
	id, err := paramID(c, "id", "user_id")
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	user, err := h.borrowerService.GetBorrower(c.Context(), id)
	if err != nil {
		return response.FromError(c, err, "Failed to get user")
	}

	return response.Success(c, "User retrieved successfully", user)
}

// RegisterUser handles registering a borrower
// @Summary Register user
// @Description Register a borrower with a caller-chosen ID
// @Tags Users
// @Accept json
// @Produce json
// @Param body body RegisterUserRequest true "User"
// @Success 201 {object} response.Response{data=domain.Borrower}
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /users [post]
func (h *BorrowerHandler) RegisterUser(c *fiber.Ctx) error {
	var req RegisterUserRequest
	if err := parseBody(c, &req); err != nil {
		return response.BadRequest(c, err.Error())
	}

	user, err := h.borrowerService.Register(c.Context(), req.ID, req.Name)
	if err != nil {
		return response.FromError(c, err, "Failed to register user")
	}

	return response.Created(c, "User registered successfully", user)
}
