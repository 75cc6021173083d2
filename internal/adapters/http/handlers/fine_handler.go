package handlers

import (
	"library-ledger/internal/core/services"
	"library-ledger/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// FineHandler handles fine engine endpoints
type FineHandler struct {
	fines services.FineCalculator
}

// NewFineHandler creates a new fine handler
func NewFineHandler(fines services.FineCalculator) *FineHandler {
	return &FineHandler{fines: fines}
}

// Calculate handles pricing one issue/return date pair
// @Summary Calculate fine
// @Description Fine for a single loan period
// @Tags Fines
// @Accept json
// @Produce json
// @Param body body CalculateFineRequest true "Date pair"
// @Success 200 {object} response.Response{data=domain.FineQuote}
// @Failure 400 {object} response.Response
// @Router /calculate [post]
func (h *FineHandler) Calculate(c *fiber.Ctx) error {
	var req CalculateFineRequest
	if err := parseBody(c, &req); err != nil {
		return response.BadRequest(c, err.Error())
	}
	issue, err := parseOptionalDate(req.IssueDate)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}
	ret, err := parseOptionalDate(req.ReturnDate)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	quote, err := h.fines.ComputeFine(c.Context(), issue, ret)
	if err != nil {
		return response.FromError(c, err, "Failed to calculate fine")
	}

	return response.Success(c, "Fine calculated successfully", quote)
}

// CalculateUser handles the aggregate fine of a user
// @Summary Calculate user fine
// @Description Sum of the fines of every record of a user. Records that cannot be priced are reported and left out of the total.
// @Tags Fines
// @Accept json
// @Produce json
// @Param user_id path int true "User ID"
// @Param as_of query string false "As-of date for open loans (YYYY-MM-DD, default today)"
// @Success 200 {object} response.Response{data=domain.UserFineReport}
// @Failure 400 {object} response.Response
// @Failure 503 {object} response.Response
// @Router /calculate/{user_id} [get]
func (h *FineHandler) CalculateUser(c *fiber.Ctx) error {
	userID, err := paramID(c, "user_id", "user_id")
	if err != nil {
		return response.BadRequest(c, err.Error())
	}
	asOf, err := parseOptionalDate(c.Query("as_of"))
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	report, err := h.fines.ComputeUserFine(c.Context(), userID, asOf)
	if err != nil {
		return response.FromError(c, err, "Failed to calculate fine")
	}

	return response.Success(c, "Fine calculated successfully", report)
}
