package services

import (
	"context"

	"library-ledger/internal/core/domain"
)

// BookLookup answers catalog existence and title queries. CatalogService
// implements it in process; clients.CatalogClient implements it over HTTP.
type BookLookup interface {
	GetBook(ctx context.Context, id int64) (*domain.Book, error)
}

// FineQuoter prices a single issue/return date pair.
type FineQuoter interface {
	ComputeFine(ctx context.Context, issue, ret domain.Date) (domain.FineQuote, error)
}

// FineCalculator is the full fine engine contract: per-record quotes and the
// per-user aggregate. FineEngine implements it in process; clients.FineClient
// implements it over HTTP.
type FineCalculator interface {
	FineQuoter
	ComputeUserFine(ctx context.Context, userID int64, asOf domain.Date) (*domain.UserFineReport, error)
}

// LoanHistory is the read side of the ledger consumed by the fine engine.
type LoanHistory interface {
	ListRecordsForUser(ctx context.Context, userID int64) ([]domain.LoanRecord, error)
}

// BorrowerDirectory answers "is this user registered".
type BorrowerDirectory interface {
	GetBorrower(ctx context.Context, id int64) (*domain.Borrower, error)
}

// IssueInput for issuing a book. A zero IssueDate means today.
type IssueInput struct {
	BookID    int64
	UserID    int64
	IssueDate domain.Date
}

// ReturnInput for returning a book. A zero ReturnDate means today.
type ReturnInput struct {
	BookID     int64
	UserID     int64
	ReturnDate domain.Date
}
