package domain

import (
	"github.com/shopspring/decimal"
)

const (
	DefaultGraceDays = 14
	DefaultDailyRate = "2.00"
)

// FinePolicy is the one fine configuration shared by every component that
// computes or flags overdue loans.
type FinePolicy struct {
	GraceDays int
	DailyRate decimal.Decimal
}

// DefaultFinePolicy returns 14 grace days at 2.00 per day.
func DefaultFinePolicy() FinePolicy {
	return FinePolicy{
		GraceDays: DefaultGraceDays,
		DailyRate: decimal.RequireFromString(DefaultDailyRate),
	}
}

func (p FinePolicy) Validate() error {
	if p.GraceDays < 0 {
		return NewValidationError("grace_days", p.GraceDays, "must not be negative")
	}
	if p.DailyRate.IsNegative() {
		return NewValidationError("daily_rate", p.DailyRate.String(), "must not be negative")
	}
	return nil
}

// FineQuote is the result of pricing one issue/return date pair.
type FineQuote struct {
	IssueDate   Date            `json:"issue_date"`
	ReturnDate  Date            `json:"return_date"`
	ElapsedDays int             `json:"elapsed_days"`
	OverdueDays int             `json:"overdue_days"`
	Fine        decimal.Decimal `json:"fine"`
}

// Quote prices a date pair. A return date earlier than the issue date is
// rejected rather than clamped.
func (p FinePolicy) Quote(issue, ret Date) (FineQuote, error) {
	if issue.IsZero() {
		return FineQuote{}, NewValidationError("issue_date", nil, "is required")
	}
	if ret.IsZero() {
		return FineQuote{}, NewValidationError("return_date", nil, "is required")
	}
	elapsed := DaysBetween(issue, ret)
	if elapsed < 0 {
		return FineQuote{}, NewValidationError("return_date", ret.String(), "is earlier than issue date "+issue.String())
	}
	overdue := p.OverdueDays(elapsed)
	return FineQuote{
		IssueDate:   issue,
		ReturnDate:  ret,
		ElapsedDays: elapsed,
		OverdueDays: overdue,
		Fine:        p.DailyRate.Mul(decimal.NewFromInt(int64(overdue))).Round(2),
	}, nil
}

// OverdueDays is the number of elapsed days past the grace period, never
// negative.
func (p FinePolicy) OverdueDays(elapsed int) int {
	if elapsed <= p.GraceDays {
		return 0
	}
	return elapsed - p.GraceDays
}

// IsOverdue reports whether a loan issued on issue is past its grace period
// on the given day. It is advisory and independent of any fine amount.
func (p FinePolicy) IsOverdue(issue, on Date) bool {
	if issue.IsZero() || on.IsZero() {
		return false
	}
	return DaysBetween(issue, on) > p.GraceDays
}
