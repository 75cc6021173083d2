package repositories

import (
	"context"

	"library-ledger/internal/core/domain"
)

// BookRepository defines catalog storage
type BookRepository interface {
	Create(ctx context.Context, book *domain.Book) error
	GetByID(ctx context.Context, id int64) (*domain.Book, error)
	Update(ctx context.Context, book *domain.Book) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]domain.Book, error)
}

// BorrowerRepository defines borrower storage
type BorrowerRepository interface {
	Create(ctx context.Context, borrower *domain.Borrower) error
	GetByID(ctx context.Context, id int64) (*domain.Borrower, error)
	List(ctx context.Context) ([]domain.Borrower, error)
}

// LoanRepository defines loan ledger storage.
//
// CreateOpen must fail with domain.ErrConflict when an open record already
// exists for the book, atomically with the insert. GetOpen and CloseOpen must
// fail with domain.ErrNotFound when the book has no open record. CloseOpen
// writes rec's return date and fine only while rec is still the book's open
// record.
type LoanRepository interface {
	CreateOpen(ctx context.Context, rec *domain.LoanRecord) error
	GetOpen(ctx context.Context, bookID int64) (*domain.LoanRecord, error)
	CloseOpen(ctx context.Context, rec *domain.LoanRecord) error
	ListOpen(ctx context.Context) ([]domain.LoanRecord, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.LoanRecord, error)
}
