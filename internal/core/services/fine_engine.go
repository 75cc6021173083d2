package services

import (
	"context"
	"fmt"
	"time"

	"library-ledger/internal/core/domain"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// FineEngine computes fines under one shared policy. It never mutates loan
// records; the aggregate path reads them through LoanHistory.
type FineEngine struct {
	policy  domain.FinePolicy
	history LoanHistory
	now     func() time.Time
	logger  *zap.Logger
}

// NewFineEngine creates a new fine engine. history may be nil when only
// date-pair quotes are needed.
func NewFineEngine(policy domain.FinePolicy, history LoanHistory, logger *zap.Logger) *FineEngine {
	return &FineEngine{
		policy:  policy,
		history: history,
		now:     time.Now,
		logger:  logger,
	}
}

// Policy returns the policy the engine prices with
func (e *FineEngine) Policy() domain.FinePolicy {
	return e.policy
}

// ComputeFine prices one issue/return date pair
func (e *FineEngine) ComputeFine(_ context.Context, issue, ret domain.Date) (domain.FineQuote, error) {
	return e.policy.Quote(issue, ret)
}

// ComputeUserFine sums the fines of every record of a user. Closed records
// are priced with their own return date, open records with asOf (today when
// zero). A record that cannot be priced is reported with an error and left
// out of the total.
func (e *FineEngine) ComputeUserFine(ctx context.Context, userID int64, asOf domain.Date) (*domain.UserFineReport, error) {
	if err := domain.ValidateID("user_id", userID); err != nil {
		return nil, err
	}
	if e.history == nil {
		return nil, fmt.Errorf("compute user fine: no loan history source configured")
	}
	if asOf.IsZero() {
		asOf = domain.Today(e.now)
	}

	records, err := e.history.ListRecordsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("compute user fine: %w", err)
	}

	report := &domain.UserFineReport{
		UserID:    userID,
		AsOf:      asOf,
		TotalFine: decimal.Zero,
		Details:   make([]domain.FineDetail, 0, len(records)),
	}
	for _, rec := range records {
		detail := e.priceRecord(rec, asOf)
		if detail.Error != "" {
			e.logger.Warn("Skipping malformed loan record",
				zap.Int64("user_id", userID),
				zap.Int64("book_id", rec.BookID),
				zap.String("error", detail.Error),
			)
		} else {
			report.TotalFine = report.TotalFine.Add(*detail.Fine)
		}
		report.Details = append(report.Details, detail)
	}
	return report, nil
}

func (e *FineEngine) priceRecord(rec domain.LoanRecord, asOf domain.Date) domain.FineDetail {
	detail := domain.FineDetail{
		BookID:     rec.BookID,
		IssueDate:  rec.IssueDate,
		ReturnDate: rec.ReturnDate,
		Open:       rec.IsOpen(),
	}
	if detail.Open {
		detail.ReturnDate = asOf
	}
	if rec.Defect != nil {
		detail.Error = rec.Defect.Error()
		return detail
	}
	if rec.IssueDate.IsZero() {
		detail.Error = "record has no valid issue date"
		return detail
	}

	quote, err := e.policy.Quote(rec.IssueDate, detail.ReturnDate)
	if err != nil {
		detail.Error = err.Error()
		return detail
	}
	detail.ElapsedDays = quote.ElapsedDays
	detail.Fine = &quote.Fine
	return detail
}
