package handlers

import (
	"strconv"
	"strings"

	"library-ledger/internal/core/domain"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gofiber/fiber/v2"
)

var dateRule = validation.Date(domain.DateLayout).
	Min(domain.MinDate.Time()).
	Error("must be a date in YYYY-MM-DD format").
	RangeError("must not be before " + domain.MinDate.String())

var idRules = []validation.Rule{
	validation.Required.Error("is required"),
	validation.Min(int64(1)).Error("must be a positive integer"),
}

// CreateBookRequest represents add book request body
type CreateBookRequest struct {
	ID    int64  `json:"id" example:"7"`
	Title string `json:"title" example:"The Go Programming Language"`
}

func (r CreateBookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ID, idRules...),
		validation.Field(&r.Title, validation.Required.Error("title is required"), validation.Length(1, 255)),
	)
}

// UpdateBookRequest represents update book request body
type UpdateBookRequest struct {
	Title string `json:"title" example:"The Go Programming Language"`
}

func (r UpdateBookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required.Error("title is required"), validation.Length(1, 255)),
	)
}

// RegisterUserRequest represents register user request body
type RegisterUserRequest struct {
	ID   int64  `json:"id" example:"3"`
	Name string `json:"name" example:"Grace Hopper"`
}

func (r RegisterUserRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ID, idRules...),
		validation.Field(&r.Name, validation.Required.Error("name is required"), validation.Length(1, 255)),
	)
}

// IssueRequest represents issue book request body. issue_date defaults to
// today.
type IssueRequest struct {
	BookID    int64  `json:"book_id" example:"7"`
	UserID    int64  `json:"user_id" example:"3"`
	IssueDate string `json:"issue_date,omitempty" example:"2024-03-01"`
}

func (r IssueRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.BookID, idRules...),
		validation.Field(&r.UserID, idRules...),
		validation.Field(&r.IssueDate, dateRule),
	)
}

// ReturnRequest represents return book request body. return_date defaults to
// today.
type ReturnRequest struct {
	BookID     int64  `json:"book_id" example:"7"`
	UserID     int64  `json:"user_id" example:"3"`
	ReturnDate string `json:"return_date,omitempty" example:"2024-03-20"`
}

func (r ReturnRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.BookID, idRules...),
		validation.Field(&r.UserID, idRules...),
		validation.Field(&r.ReturnDate, dateRule),
	)
}

// UserFineRequest represents the optional as-of date of a lending-side fine
// calculation
type UserFineRequest struct {
	ReturnDate string `json:"return_date,omitempty" example:"2024-03-20"`
}

func (r UserFineRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ReturnDate, dateRule),
	)
}

// CalculateFineRequest represents a fine calculation for one date pair
type CalculateFineRequest struct {
	IssueDate  string `json:"issue_date" example:"2024-03-01"`
	ReturnDate string `json:"return_date" example:"2024-03-20"`
}

func (r CalculateFineRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.IssueDate, validation.Required.Error("issue_date is required"), dateRule),
		validation.Field(&r.ReturnDate, validation.Required.Error("return_date is required"), dateRule),
	)
}

// parseBody decodes and validates a request body. An empty body is allowed
// when every field is optional.
func parseBody(c *fiber.Ctx, req validation.Validatable) error {
	if len(c.Body()) > 0 {
		if err := c.BodyParser(req); err != nil {
			return domain.NewValidationError("body", nil, "malformed JSON")
		}
	}
	if err := req.Validate(); err != nil {
		return domain.NewValidationError("request", nil, err.Error())
	}
	return nil
}

// parseOptionalDate parses a validated YYYY-MM-DD string; empty means zero
func parseOptionalDate(s string) (domain.Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return domain.Date{}, nil
	}
	return domain.ParseDate(s)
}

// paramID parses a positive path id
func paramID(c *fiber.Ctx, name, field string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil {
		return 0, domain.NewValidationError(field, c.Params(name), "must be a positive integer")
	}
	if err := domain.ValidateID(field, id); err != nil {
		return 0, err
	}
	return id, nil
}
