package clients

import (
	"context"
	"time"

	"library-ledger/internal/core/domain"
	"library-ledger/internal/core/services"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerClient reads loan history from the lending service
type LedgerClient struct {
	base
}

// NewLedgerClient creates a ledger client
func NewLedgerClient(baseURL string, timeout time.Duration) *LedgerClient {
	return &LedgerClient{base: newBase("lending", baseURL, timeout)}
}

var _ services.LoanHistory = (*LedgerClient)(nil)

// wireRecord keeps dates as strings so one bad record does not fail the
// whole list
type wireRecord struct {
	ID         string              `json:"id"`
	BookID     int64               `json:"book_id"`
	UserID     int64               `json:"user_id"`
	IssueDate  string              `json:"issue_date"`
	ReturnDate *string             `json:"return_date"`
	Fine       decimal.NullDecimal `json:"fine"`
}

// ListRecordsForUser fetches all records of a user. Records with unreadable
// dates come back with a Defect, which the fine engine reports as malformed.
func (c *LedgerClient) ListRecordsForUser(ctx context.Context, userID int64) ([]domain.LoanRecord, error) {
	var wire []wireRecord
	if err := c.do(ctx, c.http.Get(c.url("/records/%d", userID)), &wire); err != nil {
		return nil, err
	}

	records := make([]domain.LoanRecord, 0, len(wire))
	for _, w := range wire {
		records = append(records, w.toDomain())
	}
	return records, nil
}

func (w wireRecord) toDomain() domain.LoanRecord {
	rec := domain.LoanRecord{
		BookID: w.BookID,
		UserID: w.UserID,
		Fine:   w.Fine,
	}
	if id, err := uuid.Parse(w.ID); err == nil {
		rec.ID = id
	}

	var defect domain.RecordDefect
	if issue, err := domain.ParseDate(w.IssueDate); err == nil {
		rec.IssueDate = issue
	} else if w.IssueDate != "" {
		defect.IssueDate = w.IssueDate
	}
	if w.ReturnDate != nil && *w.ReturnDate != "" {
		if ret, err := domain.ParseDate(*w.ReturnDate); err == nil {
			rec.ReturnDate = ret
		} else {
			defect.ReturnDate = *w.ReturnDate
		}
	}
	if defect != (domain.RecordDefect{}) {
		rec.Defect = &defect
	}
	return rec
}
