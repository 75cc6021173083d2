package handlers

import (
	"library-ledger/internal/core/services"
	"library-ledger/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// LendingHandler handles the loan ledger endpoints. It checks the catalog
// and the borrower registry before the ledger is asked to issue a book.
type LendingHandler struct {
	ledger    *services.LedgerService
	books     services.BookLookup
	borrowers services.BorrowerDirectory
	fines     services.FineCalculator
}

// NewLendingHandler creates a new lending handler
func NewLendingHandler(
	ledger *services.LedgerService,
	books services.BookLookup,
	borrowers services.BorrowerDirectory,
	fines services.FineCalculator,
) *LendingHandler {
	return &LendingHandler{
		ledger:    ledger,
		books:     books,
		borrowers: borrowers,
		fines:     fines,
	}
}

// IssueBook handles issuing a book
// @Summary Issue book
// @Description Open a loan of a catalogued book to a registered user
// @Tags Lending
// @Accept json
// @Produce json
// @Param body body IssueRequest true "Issue data"
// @Success 201 {object} response.Response{data=domain.LoanRecord}
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Failure 503 {object} response.Response
// @Router /issue [post]
func (h *LendingHandler) IssueBook(c *fiber.Ctx) error {
	var req IssueRequest
	if err := parseBody(c, &req); err != nil {
		return response.BadRequest(c, err.Error())
	}
	issueDate, err := parseOptionalDate(req.IssueDate)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	if _, err := h.books.GetBook(c.Context(), req.BookID); err != nil {
		return response.FromError(c, err, "Failed to look up book")
	}
	if _, err := h.borrowers.GetBorrower(c.Context(), req.UserID); err != nil {
		return response.FromError(c, err, "Failed to look up user")
	}

	rec, err := h.ledger.IssueBook(c.Context(), services.IssueInput{
		BookID:    req.BookID,
		UserID:    req.UserID,
		IssueDate: issueDate,
	})
	if err != nil {
		return response.FromError(c, err, "Failed to issue book")
	}

	return response.Created(c, "Book issued successfully", rec)
}

// ReturnBook handles returning a book
// @Summary Return book
// @Description Close the open loan of a book and store its fine
// @Tags Lending
// @Accept json
// @Produce json
// @Param body body ReturnRequest true "Return data"
// @Success 200 {object} response.Response{data=domain.LoanRecord}
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Failure 503 {object} response.Response
// @Router /return [post]
func (h *LendingHandler) ReturnBook(c *fiber.Ctx) error {
	var req ReturnRequest
	if err := parseBody(c, &req); err != nil {
		return response.BadRequest(c, err.Error())
	}
	returnDate, err := parseOptionalDate(req.ReturnDate)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	rec, err := h.ledger.ReturnBook(c.Context(), services.ReturnInput{
		BookID:     req.BookID,
		UserID:     req.UserID,
		ReturnDate: returnDate,
	})
	if err != nil {
		return response.FromError(c, err, "Failed to return book")
	}

	return response.Success(c, "Book returned successfully", rec)
}

// ListIssued handles listing open loans
// @Summary List issued books
// @Description Every open loan with its elapsed days and overdue flag
// @Tags Lending
// @Accept json
// @Produce json
// @Success 200 {object} response.Response{data=[]domain.OpenLoan}
// @Failure 500 {object} response.Response
// @Router /issued [get]
func (h *LendingHandler) ListIssued(c *fiber.Ctx) error {
	loans, err := h.ledger.ListOpenLoans(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to list issued books")
	}

	return response.Success(c, "Issued books retrieved successfully", loans)
}

// ListOverdue handles listing overdue loans
// @Summary List overdue books
// @Description Open loans past the grace period
// @Tags Lending
// @Accept json
// @Produce json
// @Success 200 {object} response.Response{data=[]domain.OpenLoan}
// @Failure 500 {object} response.Response
// @Router /overdue [get]
func (h *LendingHandler) ListOverdue(c *fiber.Ctx) error {
	loans, err := h.ledger.ListOverdueLoans(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to list overdue books")
	}

	return response.Success(c, "Overdue books retrieved successfully", loans)
}

// ListRecords handles listing the loan history of a user
// @Summary List user records
// @Description All loan records of a user, oldest first. Unknown users get an empty list.
// @Tags Lending
// @Accept json
// @Produce json
// @Param user_id path int true "User ID"
// @Success 200 {object} response.Response{data=[]domain.LoanRecord}
// @Failure 400 {object} response.Response
// @Router /records/{user_id} [get]
func (h *LendingHandler) ListRecords(c *fiber.Ctx) error {
	userID, err := paramID(c, "user_id", "user_id")
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	records, err := h.ledger.ListRecordsForUser(c.Context(), userID)
	if err != nil {
		return response.FromError(c, err, "Failed to list records")
	}

	return response.Success(c, "Records retrieved successfully", records)
}

// UserFine handles the lending-side aggregate fine
// @Summary Calculate user fine
// @Description Aggregate fine of a user as of return_date (today when omitted)
// @Tags Lending
// @Accept json
// @Produce json
// @Param user_id path int true "User ID"
// @Param body body UserFineRequest false "As-of date"
// @Success 200 {object} response.Response{data=domain.UserFineReport}
// @Failure 400 {object} response.Response
// @Failure 503 {object} response.Response
// @Router /fine/{user_id} [post]
func (h *LendingHandler) UserFine(c *fiber.Ctx) error {
	userID, err := paramID(c, "user_id", "user_id")
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	var req UserFineRequest
	if err := parseBody(c, &req); err != nil {
		return response.BadRequest(c, err.Error())
	}
	asOf, err := parseOptionalDate(req.ReturnDate)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	report, err := h.fines.ComputeUserFine(c.Context(), userID, asOf)
	if err != nil {
		return response.FromError(c, err, "Failed to calculate fine")
	}

	return response.Success(c, "Fine calculated successfully", report)
}
