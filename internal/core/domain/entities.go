package domain

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Book is owned by the catalog service.
type Book struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// Borrower is a registered library user, owned by the lending service.
type Borrower struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// LoanRecord is one issuance of a book. A zero ReturnDate means the loan is
// still open. Records are never deleted; they are the audit trail.
type LoanRecord struct {
	ID         uuid.UUID           `json:"id"`
	BookID     int64               `json:"book_id"`
	UserID     int64               `json:"user_id"`
	IssueDate  Date                `json:"issue_date"`
	ReturnDate Date                `json:"return_date"`
	Fine       decimal.NullDecimal `json:"fine"`

	// Defect is set on records read from another service whose dates could
	// not be decoded. Such records are reported but never priced.
	Defect *RecordDefect `json:"-"`
}

// IsOpen reports whether the loan has no return date. A record whose return
// date was present but unreadable is not open.
func (r LoanRecord) IsOpen() bool {
	if r.Defect != nil && r.Defect.ReturnDate != "" {
		return false
	}
	return r.ReturnDate.IsZero()
}

// RecordDefect holds the raw values of unreadable record dates. An empty
// field was readable.
type RecordDefect struct {
	IssueDate  string
	ReturnDate string
}

func (d *RecordDefect) Error() string {
	var parts []string
	if d.IssueDate != "" {
		parts = append(parts, fmt.Sprintf("issue date %q", d.IssueDate))
	}
	if d.ReturnDate != "" {
		parts = append(parts, fmt.Sprintf("return date %q", d.ReturnDate))
	}
	return "record has an unreadable " + strings.Join(parts, " and ")
}

// OpenLoan is an open record annotated for "currently issued" views.
type OpenLoan struct {
	LoanRecord
	ElapsedDays int  `json:"elapsed_days"`
	Overdue     bool `json:"overdue"`
}

// FineDetail is one line of an aggregate fine report. Error is set instead of
// Fine when the record could not be priced.
type FineDetail struct {
	BookID      int64            `json:"book_id"`
	IssueDate   Date             `json:"issue_date"`
	ReturnDate  Date             `json:"return_date"`
	Open        bool             `json:"open"`
	ElapsedDays int              `json:"elapsed_days"`
	Fine        *decimal.Decimal `json:"fine,omitempty"`
	Error       string           `json:"error,omitempty"`
}

// UserFineReport is the aggregate fine of one user as of a date. TotalFine
// only sums details without an error.
type UserFineReport struct {
	UserID    int64           `json:"user_id"`
	AsOf      Date            `json:"as_of"`
	TotalFine decimal.Decimal `json:"total_fine"`
	Details   []FineDetail    `json:"details"`
}
