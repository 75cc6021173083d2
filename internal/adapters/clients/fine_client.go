package clients

import (
	"context"
	"time"

	"library-ledger/internal/core/domain"
	"library-ledger/internal/core/services"
)

// FineClient calls the fine service
type FineClient struct {
	base
}

// NewFineClient creates a fine client
func NewFineClient(baseURL string, timeout time.Duration) *FineClient {
	return &FineClient{base: newBase("fine", baseURL, timeout)}
}

var _ services.FineCalculator = (*FineClient)(nil)

type quoteRequest struct {
	IssueDate  domain.Date `json:"issue_date"`
	ReturnDate domain.Date `json:"return_date"`
}

// ComputeFine prices one date pair remotely
func (c *FineClient) ComputeFine(ctx context.Context, issue, ret domain.Date) (domain.FineQuote, error) {
	var quote domain.FineQuote
	a := c.http.Post(c.url("/calculate")).JSON(quoteRequest{IssueDate: issue, ReturnDate: ret})
	if err := c.do(ctx, a, &quote); err != nil {
		return domain.FineQuote{}, err
	}
	return quote, nil
}

// ComputeUserFine fetches the aggregate fine of a user. A zero asOf lets the
// fine service use its own today.
func (c *FineClient) ComputeUserFine(ctx context.Context, userID int64, asOf domain.Date) (*domain.UserFineReport, error) {
	a := c.http.Get(c.url("/calculate/%d", userID))
	if !asOf.IsZero() {
		a.QueryString("as_of=" + asOf.String())
	}

	var report domain.UserFineReport
	if err := c.do(ctx, a, &report); err != nil {
		return nil, err
	}
	return &report, nil
}
