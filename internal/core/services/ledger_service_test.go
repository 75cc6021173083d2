package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"library-ledger/internal/adapters/persistence/memory"
	"library-ledger/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var fixedNow = time.Date(2024, time.March, 20, 15, 4, 5, 0, time.UTC)

func date(t *testing.T, s string) domain.Date {
	t.Helper()
	d, err := domain.ParseDate(s)
	require.NoError(t, err)
	return d
}

func newTestLedger() (*LedgerService, *memory.LoanStore) {
	store := memory.NewLoanStore()
	fines := NewFineEngine(domain.DefaultFinePolicy(), nil, zap.NewNop())
	ledger := NewLedgerService(store, fines, domain.DefaultFinePolicy(), zap.NewNop())
	ledger.now = func() time.Time { return fixedNow }
	return ledger, store
}

type failingQuoter struct{ err error }

func (q failingQuoter) ComputeFine(context.Context, domain.Date, domain.Date) (domain.FineQuote, error) {
	return domain.FineQuote{}, q.err
}

// blockingQuoter holds every quote until release is closed
type blockingQuoter struct {
	entered chan struct{}
	release chan struct{}
}

func (q blockingQuoter) ComputeFine(context.Context, domain.Date, domain.Date) (domain.FineQuote, error) {
	q.entered <- struct{}{}
	<-q.release
	return domain.FineQuote{}, nil
}

func TestLedgerService_IssueBook(t *testing.T) {
	ctx := context.Background()
	ledger, _ := newTestLedger()

	rec, err := ledger.IssueBook(ctx, IssueInput{BookID: 7, UserID: 3, IssueDate: date(t, "2024-03-01")})
	require.NoError(t, err)
	assert.Equal(t, int64(7), rec.BookID)
	assert.Equal(t, int64(3), rec.UserID)
	assert.Equal(t, "2024-03-01", rec.IssueDate.String())
	assert.True(t, rec.IsOpen())
	assert.False(t, rec.Fine.Valid)
	assert.NotEmpty(t, rec.ID.String())
}

func TestLedgerService_IssueBookDefaultsToToday(t *testing.T) {
	ledger, _ := newTestLedger()

	rec, err := ledger.IssueBook(context.Background(), IssueInput{BookID: 1, UserID: 1})
	require.NoError(t, err)
	assert.Equal(t, "2024-03-20", rec.IssueDate.String())
}

func TestLedgerService_IssueBookRejectsSecondOpenLoan(t *testing.T) {
	ctx := context.Background()
	ledger, _ := newTestLedger()

	_, err := ledger.IssueBook(ctx, IssueInput{BookID: 7, UserID: 3, IssueDate: date(t, "2024-03-01")})
	require.NoError(t, err)

	_, err = ledger.IssueBook(ctx, IssueInput{BookID: 7, UserID: 5, IssueDate: date(t, "2024-03-02")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflict))

	open, err := ledger.ListOpenLoans(ctx)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, int64(3), open[0].UserID)
}

func TestLedgerService_IssueBookValidation(t *testing.T) {
	ledger, _ := newTestLedger()

	tests := []struct {
		name  string
		input IssueInput
	}{
		{"zero book id", IssueInput{BookID: 0, UserID: 1}},
		{"negative book id", IssueInput{BookID: -4, UserID: 1}},
		{"zero user id", IssueInput{BookID: 1, UserID: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ledger.IssueBook(context.Background(), tt.input)
			assert.True(t, errors.Is(err, domain.ErrValidation))
		})
	}
}

func TestLedgerService_ConcurrentIssueSingleWinner(t *testing.T) {
	ledger, _ := newTestLedger()

	const callers = 32
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		wins      int
		conflicts int
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(user int64) {
			defer wg.Done()
			_, err := ledger.IssueBook(context.Background(), IssueInput{BookID: 42, UserID: user})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				wins++
			case errors.Is(err, domain.ErrConflict):
				conflicts++
			}
		}(int64(i + 1))
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
	assert.Equal(t, callers-1, conflicts)
	assert.Equal(t, 0, ledger.locks.Len())
}

func TestLedgerService_ReturnBook(t *testing.T) {
	ctx := context.Background()
	ledger, _ := newTestLedger()

	_, err := ledger.IssueBook(ctx, IssueInput{BookID: 7, UserID: 3, IssueDate: date(t, "2024-03-01")})
	require.NoError(t, err)

	closed, err := ledger.ReturnBook(ctx, ReturnInput{BookID: 7, UserID: 3, ReturnDate: date(t, "2024-03-20")})
	require.NoError(t, err)
	assert.Equal(t, "2024-03-20", closed.ReturnDate.String())
	require.True(t, closed.Fine.Valid)
	assert.Equal(t, "10.00", closed.Fine.Decimal.StringFixed(2))

	// the book can be issued again once returned
	_, err = ledger.IssueBook(ctx, IssueInput{BookID: 7, UserID: 5, IssueDate: date(t, "2024-03-21")})
	require.NoError(t, err)

	records, err := ledger.ListRecordsForUser(ctx, 3)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.False(t, records[0].IsOpen())
}

func TestLedgerService_ReturnBookWithinGrace(t *testing.T) {
	ctx := context.Background()
	ledger, _ := newTestLedger()

	_, err := ledger.IssueBook(ctx, IssueInput{BookID: 2, UserID: 1, IssueDate: date(t, "2024-03-01")})
	require.NoError(t, err)

	closed, err := ledger.ReturnBook(ctx, ReturnInput{BookID: 2, UserID: 1, ReturnDate: date(t, "2024-03-15")})
	require.NoError(t, err)
	assert.True(t, closed.Fine.Decimal.IsZero())
}

func TestLedgerService_ReturnBookNotIssued(t *testing.T) {
	ledger, _ := newTestLedger()

	_, err := ledger.ReturnBook(context.Background(), ReturnInput{BookID: 9, UserID: 1})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestLedgerService_ReturnBookByOtherUser(t *testing.T) {
	ctx := context.Background()
	ledger, _ := newTestLedger()

	_, err := ledger.IssueBook(ctx, IssueInput{BookID: 7, UserID: 3, IssueDate: date(t, "2024-03-01")})
	require.NoError(t, err)

	_, err = ledger.ReturnBook(ctx, ReturnInput{BookID: 7, UserID: 5, ReturnDate: date(t, "2024-03-10")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflict))
	assert.Contains(t, err.Error(), "user 3")

	open, err := ledger.ListOpenLoans(ctx)
	require.NoError(t, err)
	assert.Len(t, open, 1)
}

func TestLedgerService_ReturnBeforeIssueLeavesLoanOpen(t *testing.T) {
	ctx := context.Background()
	ledger, _ := newTestLedger()

	_, err := ledger.IssueBook(ctx, IssueInput{BookID: 7, UserID: 3, IssueDate: date(t, "2024-03-10")})
	require.NoError(t, err)

	_, err = ledger.ReturnBook(ctx, ReturnInput{BookID: 7, UserID: 3, ReturnDate: date(t, "2024-03-01")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))

	open, err := ledger.ListOpenLoans(ctx)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.True(t, open[0].IsOpen())
}

func TestLedgerService_FineFailureLeavesLoanOpen(t *testing.T) {
	ctx := context.Background()
	store := memory.NewLoanStore()
	ledger := NewLedgerService(store, failingQuoter{err: domain.ErrUnavailable}, domain.DefaultFinePolicy(), zap.NewNop())

	_, err := ledger.IssueBook(ctx, IssueInput{BookID: 7, UserID: 3, IssueDate: date(t, "2024-03-01")})
	require.NoError(t, err)

	_, err = ledger.ReturnBook(ctx, ReturnInput{BookID: 7, UserID: 3, ReturnDate: date(t, "2024-03-20")})
	assert.True(t, errors.Is(err, domain.ErrUnavailable))

	open, err := store.ListOpen(ctx)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.True(t, open[0].ReturnDate.IsZero())
	assert.False(t, open[0].Fine.Valid)
}

func TestLedgerService_SlowFineDoesNotBlockOtherBooks(t *testing.T) {
	ctx := context.Background()
	quoter := blockingQuoter{entered: make(chan struct{}), release: make(chan struct{})}
	ledger := NewLedgerService(memory.NewLoanStore(), quoter, domain.DefaultFinePolicy(), zap.NewNop())

	_, err := ledger.IssueBook(ctx, IssueInput{BookID: 1, UserID: 3, IssueDate: date(t, "2024-03-01")})
	require.NoError(t, err)

	returned := make(chan error, 1)
	go func() {
		_, err := ledger.ReturnBook(ctx, ReturnInput{BookID: 1, UserID: 3, ReturnDate: date(t, "2024-03-05")})
		returned <- err
	}()
	<-quoter.entered

	others := make(chan error, 1)
	go func() {
		if _, err := ledger.IssueBook(ctx, IssueInput{BookID: 2, UserID: 4, IssueDate: date(t, "2024-03-02")}); err != nil {
			others <- err
			return
		}
		open, err := ledger.ListOpenLoans(ctx)
		if err == nil && len(open) != 2 {
			err = errors.New("expected both loans open while the return is pending")
		}
		others <- err
	}()

	select {
	case err := <-others:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		close(quoter.release)
		t.Fatal("issue on another book waited for a pending fine quote")
	}

	close(quoter.release)
	require.NoError(t, <-returned)

	open, err := ledger.ListOpenLoans(ctx)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, int64(2), open[0].BookID)
}

func TestLedgerService_ListOpenLoansOverdueFlag(t *testing.T) {
	ctx := context.Background()
	ledger, _ := newTestLedger()

	_, err := ledger.IssueBook(ctx, IssueInput{BookID: 1, UserID: 1, IssueDate: date(t, "2024-03-06")})
	require.NoError(t, err)
	_, err = ledger.IssueBook(ctx, IssueInput{BookID: 2, UserID: 1, IssueDate: date(t, "2024-03-05")})
	require.NoError(t, err)

	open, err := ledger.ListOpenLoans(ctx)
	require.NoError(t, err)
	require.Len(t, open, 2)

	byBook := map[int64]domain.OpenLoan{}
	for _, loan := range open {
		byBook[loan.BookID] = loan
	}
	assert.Equal(t, 14, byBook[1].ElapsedDays)
	assert.False(t, byBook[1].Overdue)
	assert.Equal(t, 15, byBook[2].ElapsedDays)
	assert.True(t, byBook[2].Overdue)

	overdue, err := ledger.ListOverdueLoans(ctx)
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.Equal(t, int64(2), overdue[0].BookID)
}

func TestLedgerService_ListRecordsForUser(t *testing.T) {
	ctx := context.Background()
	ledger, _ := newTestLedger()

	records, err := ledger.ListRecordsForUser(ctx, 99)
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)

	_, err = ledger.IssueBook(ctx, IssueInput{BookID: 2, UserID: 4, IssueDate: date(t, "2024-03-05")})
	require.NoError(t, err)
	_, err = ledger.IssueBook(ctx, IssueInput{BookID: 1, UserID: 4, IssueDate: date(t, "2024-02-01")})
	require.NoError(t, err)
	_, err = ledger.IssueBook(ctx, IssueInput{BookID: 3, UserID: 8, IssueDate: date(t, "2024-01-01")})
	require.NoError(t, err)

	records, err = ledger.ListRecordsForUser(ctx, 4)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, int64(1), records[0].BookID)
	assert.Equal(t, int64(2), records[1].BookID)

	_, err = ledger.ListRecordsForUser(ctx, 0)
	assert.True(t, errors.Is(err, domain.ErrValidation))
}
