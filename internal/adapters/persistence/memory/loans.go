package memory

import (
	"context"
	"sort"
	"sync"

	"library-ledger/internal/adapters/persistence/repositories"
	"library-ledger/internal/core/domain"
)

// LoanStore is an in-memory LoanRepository. records is append-only; open maps
// a book id to the index of its open record.
type LoanStore struct {
	mu      sync.RWMutex
	records []domain.LoanRecord
	open    map[int64]int
}

// NewLoanStore creates an empty loan store
func NewLoanStore() *LoanStore {
	return &LoanStore{open: make(map[int64]int)}
}

var _ repositories.LoanRepository = (*LoanStore)(nil)

func (s *LoanStore) CreateOpen(ctx context.Context, rec *domain.LoanRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, out := s.open[rec.BookID]; out {
		return domain.NewConflictError("book", rec.BookID, "already has an open loan")
	}
	s.records = append(s.records, *rec)
	s.open[rec.BookID] = len(s.records) - 1
	return nil
}

func (s *LoanStore) GetOpen(ctx context.Context, bookID int64) (*domain.LoanRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx, out := s.open[bookID]
	if !out {
		return nil, domain.NewNotFoundError("open loan for book", bookID)
	}
	rec := s.records[idx]
	return &rec, nil
}

func (s *LoanStore) CloseOpen(ctx context.Context, rec *domain.LoanRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, out := s.open[rec.BookID]
	if !out || s.records[idx].ID != rec.ID {
		return domain.NewNotFoundError("open loan for book", rec.BookID)
	}
	s.records[idx].ReturnDate = rec.ReturnDate
	s.records[idx].Fine = rec.Fine
	delete(s.open, rec.BookID)
	return nil
}

func (s *LoanStore) ListOpen(ctx context.Context) ([]domain.LoanRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	open := make([]domain.LoanRecord, 0, len(s.open))
	for _, idx := range s.open {
		open = append(open, s.records[idx])
	}
	sort.Slice(open, func(i, j int) bool {
		if !open[i].IssueDate.Equal(open[j].IssueDate) {
			return open[i].IssueDate.Before(open[j].IssueDate)
		}
		return open[i].BookID < open[j].BookID
	})
	return open, nil
}

func (s *LoanStore) ListByUser(ctx context.Context, userID int64) ([]domain.LoanRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]domain.LoanRecord, 0)
	for _, rec := range s.records {
		if rec.UserID == userID {
			records = append(records, rec)
		}
	}
	// Stable keeps insertion order for records issued on the same day.
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].IssueDate.Before(records[j].IssueDate)
	})
	return records, nil
}
