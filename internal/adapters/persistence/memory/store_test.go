package memory

import (
	"context"
	"testing"
	"time"

	"library-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openRecord(bookID, userID int64, issue domain.Date) *domain.LoanRecord {
	return &domain.LoanRecord{ID: uuid.New(), BookID: bookID, UserID: userID, IssueDate: issue}
}

func TestBookStore_CRUD(t *testing.T) {
	ctx := context.Background()
	store := NewBookStore()

	require.NoError(t, store.Create(ctx, &domain.Book{ID: 2, Title: "Dune"}))
	require.NoError(t, store.Create(ctx, &domain.Book{ID: 1, Title: "Emma"}))
	assert.ErrorIs(t, store.Create(ctx, &domain.Book{ID: 1, Title: "Again"}), domain.ErrConflict)

	books, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, books, 2)
	assert.Equal(t, int64(1), books[0].ID)

	require.NoError(t, store.Update(ctx, &domain.Book{ID: 2, Title: "Dune Messiah"}))
	got, err := store.GetByID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "Dune Messiah", got.Title)

	assert.ErrorIs(t, store.Update(ctx, &domain.Book{ID: 9, Title: "x"}), domain.ErrNotFound)
	require.NoError(t, store.Delete(ctx, 2))
	assert.ErrorIs(t, store.Delete(ctx, 2), domain.ErrNotFound)
	_, err = store.GetByID(ctx, 2)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBorrowerStore(t *testing.T) {
	ctx := context.Background()
	store := NewBorrowerStore()

	require.NoError(t, store.Create(ctx, &domain.Borrower{ID: 3, Name: "Ann"}))
	assert.ErrorIs(t, store.Create(ctx, &domain.Borrower{ID: 3, Name: "Bob"}), domain.ErrConflict)

	_, err := store.GetByID(ctx, 4)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	all, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.Borrower{{ID: 3, Name: "Ann"}}, all)
}

func TestLoanStore_OneOpenRecordPerBook(t *testing.T) {
	ctx := context.Background()
	store := NewLoanStore()
	day := domain.NewDate(2024, time.January, 1)

	require.NoError(t, store.CreateOpen(ctx, openRecord(7, 3, day)))
	err := store.CreateOpen(ctx, openRecord(7, 5, day))
	assert.ErrorIs(t, err, domain.ErrConflict)

	open, err := store.ListOpen(ctx)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, int64(3), open[0].UserID)
}

func TestLoanStore_CloseOpen(t *testing.T) {
	ctx := context.Background()
	store := NewLoanStore()
	day := domain.NewDate(2024, time.January, 1)
	issued := openRecord(7, 3, day)
	require.NoError(t, store.CreateOpen(ctx, issued))

	_, err := store.GetOpen(ctx, 8)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	open, err := store.GetOpen(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, issued.ID, open.ID)

	stranger := *open
	stranger.ID = uuid.New()
	stranger.ReturnDate = day.AddDays(1)
	assert.ErrorIs(t, store.CloseOpen(ctx, &stranger), domain.ErrNotFound)

	still, err := store.ListOpen(ctx)
	require.NoError(t, err)
	require.Len(t, still, 1, "close of another record must leave the loan open")
	assert.True(t, still[0].ReturnDate.IsZero())

	open.ReturnDate = day.AddDays(20)
	open.Fine = decimal.NewNullDecimal(decimal.NewFromInt(12))
	require.NoError(t, store.CloseOpen(ctx, open))
	assert.ErrorIs(t, store.CloseOpen(ctx, open), domain.ErrNotFound)

	_, err = store.GetOpen(ctx, 7)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	records, err := store.ListByUser(ctx, 3)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, day.AddDays(20), records[0].ReturnDate)
	assert.Equal(t, "12", records[0].Fine.Decimal.String())

	require.NoError(t, store.CreateOpen(ctx, openRecord(7, 5, day.AddDays(21))))
}

func TestLoanStore_ListByUserOrdersByIssueDate(t *testing.T) {
	ctx := context.Background()
	store := NewLoanStore()
	day := domain.NewDate(2024, time.March, 1)

	require.NoError(t, store.CreateOpen(ctx, openRecord(1, 3, day.AddDays(5))))
	require.NoError(t, store.CreateOpen(ctx, openRecord(2, 4, day)))
	require.NoError(t, store.CreateOpen(ctx, openRecord(3, 3, day)))

	records, err := store.ListByUser(ctx, 3)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, int64(3), records[0].BookID)
	assert.Equal(t, int64(1), records[1].BookID)

	none, err := store.ListByUser(ctx, 99)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}
