package services

import (
	"context"
	"fmt"
	"time"

	"library-ledger/internal/adapters/persistence/repositories"
	"library-ledger/internal/core/domain"
	"library-ledger/internal/pkg/keylock"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// LedgerService is the single writer of loan records.
//
// Issue and return on one book id run under that book's lock, and the
// repository performs the "no open record" check and the insert as one
// conditional write, so at most one open record per book can exist even
// across processes sharing a database.
type LedgerService struct {
	loanRepo repositories.LoanRepository
	fines    FineQuoter
	policy   domain.FinePolicy
	locks    keylock.Map[int64]
	now      func() time.Time
	logger   *zap.Logger
}

// NewLedgerService creates a new ledger service. fines prices returned
// loans; policy is only used for the advisory overdue flag.
func NewLedgerService(
	loanRepo repositories.LoanRepository,
	fines FineQuoter,
	policy domain.FinePolicy,
	logger *zap.Logger,
) *LedgerService {
	return &LedgerService{
		loanRepo: loanRepo,
		fines:    fines,
		policy:   policy,
		now:      time.Now,
		logger:   logger,
	}
}

// IssueBook opens a loan of a book to a user
func (s *LedgerService) IssueBook(ctx context.Context, input IssueInput) (*domain.LoanRecord, error) {
	if err := domain.ValidateID("book_id", input.BookID); err != nil {
		return nil, err
	}
	if err := domain.ValidateID("user_id", input.UserID); err != nil {
		return nil, err
	}
	issueDate := input.IssueDate
	if issueDate.IsZero() {
		issueDate = domain.Today(s.now)
	}

	unlock := s.locks.Lock(input.BookID)
	defer unlock()

	rec := &domain.LoanRecord{
		ID:        uuid.New(),
		BookID:    input.BookID,
		UserID:    input.UserID,
		IssueDate: issueDate,
	}
	if err := s.loanRepo.CreateOpen(ctx, rec); err != nil {
		return nil, fmt.Errorf("issue book %d: %w", input.BookID, err)
	}

	s.logger.Info("Book issued",
		zap.String("loan_id", rec.ID.String()),
		zap.Int64("book_id", rec.BookID),
		zap.Int64("user_id", rec.UserID),
		zap.Stringer("issue_date", rec.IssueDate),
	)
	return rec, nil
}

// ReturnBook closes the open loan of a book and stores its fine. The loan
// stays open if it belongs to another user or the fine cannot be computed.
func (s *LedgerService) ReturnBook(ctx context.Context, input ReturnInput) (*domain.LoanRecord, error) {
	if err := domain.ValidateID("book_id", input.BookID); err != nil {
		return nil, err
	}
	if err := domain.ValidateID("user_id", input.UserID); err != nil {
		return nil, err
	}
	returnDate := input.ReturnDate
	if returnDate.IsZero() {
		returnDate = domain.Today(s.now)
	}

	unlock := s.locks.Lock(input.BookID)
	defer unlock()

	// The book lock keeps the open record stable while the fine is quoted,
	// so the store is only held for the final conditional write.
	open, err := s.loanRepo.GetOpen(ctx, input.BookID)
	if err != nil {
		return nil, fmt.Errorf("return book %d: %w", input.BookID, err)
	}
	if open.UserID != input.UserID {
		return nil, fmt.Errorf("return book %d: %w", input.BookID,
			domain.NewConflictError("open loan for book", open.BookID,
				fmt.Sprintf("is issued to user %d, not user %d", open.UserID, input.UserID)))
	}
	quote, err := s.fines.ComputeFine(ctx, open.IssueDate, returnDate)
	if err != nil {
		return nil, fmt.Errorf("return book %d: %w", input.BookID, err)
	}

	closed := *open
	closed.ReturnDate = returnDate
	closed.Fine = decimal.NewNullDecimal(quote.Fine)
	if err := s.loanRepo.CloseOpen(ctx, &closed); err != nil {
		return nil, fmt.Errorf("return book %d: %w", input.BookID, err)
	}

	s.logger.Info("Book returned",
		zap.String("loan_id", closed.ID.String()),
		zap.Int64("book_id", closed.BookID),
		zap.Int64("user_id", closed.UserID),
		zap.Stringer("return_date", closed.ReturnDate),
		zap.String("fine", closed.Fine.Decimal.StringFixed(2)),
	)
	return &closed, nil
}

// ListOpenLoans lists every open loan with its elapsed days and overdue flag
// as of today
func (s *LedgerService) ListOpenLoans(ctx context.Context) ([]domain.OpenLoan, error) {
	records, err := s.loanRepo.ListOpen(ctx)
	if err != nil {
		return nil, fmt.Errorf("list open loans: %w", err)
	}

	today := domain.Today(s.now)
	loans := make([]domain.OpenLoan, len(records))
	for i, rec := range records {
		loans[i] = domain.OpenLoan{
			LoanRecord:  rec,
			ElapsedDays: domain.DaysBetween(rec.IssueDate, today),
			Overdue:     s.policy.IsOverdue(rec.IssueDate, today),
		}
	}
	return loans, nil
}

// ListOverdueLoans lists open loans past the grace period
func (s *LedgerService) ListOverdueLoans(ctx context.Context) ([]domain.OpenLoan, error) {
	loans, err := s.ListOpenLoans(ctx)
	if err != nil {
		return nil, err
	}
	overdue := make([]domain.OpenLoan, 0)
	for _, loan := range loans {
		if loan.Overdue {
			overdue = append(overdue, loan)
		}
	}
	return overdue, nil
}

// ListRecordsForUser lists all records of a user, oldest issue first. A user
// without records gets an empty slice.
func (s *LedgerService) ListRecordsForUser(ctx context.Context, userID int64) ([]domain.LoanRecord, error) {
	if err := domain.ValidateID("user_id", userID); err != nil {
		return nil, err
	}
	records, err := s.loanRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list records for user %d: %w", userID, err)
	}
	if records == nil {
		records = []domain.LoanRecord{}
	}
	return records, nil
}
