// Package memory is an in-process implementation of the repositories, used
// for local development and tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"library-ledger/internal/adapters/persistence/repositories"
	"library-ledger/internal/core/domain"
)

// BookStore is an in-memory BookRepository
type BookStore struct {
	mu    sync.RWMutex
	books map[int64]domain.Book
}

// NewBookStore creates an empty book store
func NewBookStore() *BookStore {
	return &BookStore{books: make(map[int64]domain.Book)}
}

var _ repositories.BookRepository = (*BookStore)(nil)

func (s *BookStore) Create(ctx context.Context, book *domain.Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.books[book.ID]; exists {
		return domain.NewConflictError("book", book.ID, "already exists")
	}
	s.books[book.ID] = *book
	return nil
}

func (s *BookStore) GetByID(ctx context.Context, id int64) (*domain.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	book, ok := s.books[id]
	if !ok {
		return nil, domain.NewNotFoundError("book", id)
	}
	return &book, nil
}

func (s *BookStore) Update(ctx context.Context, book *domain.Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.books[book.ID]; !ok {
		return domain.NewNotFoundError("book", book.ID)
	}
	s.books[book.ID] = *book
	return nil
}

func (s *BookStore) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.books[id]; !ok {
		return domain.NewNotFoundError("book", id)
	}
	delete(s.books, id)
	return nil
}

func (s *BookStore) List(ctx context.Context) ([]domain.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	books := make([]domain.Book, 0, len(s.books))
	for _, b := range s.books {
		books = append(books, b)
	}
	sort.Slice(books, func(i, j int) bool { return books[i].ID < books[j].ID })
	return books, nil
}

// BorrowerStore is an in-memory BorrowerRepository
type BorrowerStore struct {
	mu        sync.RWMutex
	borrowers map[int64]domain.Borrower
}

// NewBorrowerStore creates an empty borrower store
func NewBorrowerStore() *BorrowerStore {
	return &BorrowerStore{borrowers: make(map[int64]domain.Borrower)}
}

var _ repositories.BorrowerRepository = (*BorrowerStore)(nil)

func (s *BorrowerStore) Create(ctx context.Context, borrower *domain.Borrower) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.borrowers[borrower.ID]; exists {
		return domain.NewConflictError("user", borrower.ID, "already exists")
	}
	s.borrowers[borrower.ID] = *borrower
	return nil
}

func (s *BorrowerStore) GetByID(ctx context.Context, id int64) (*domain.Borrower, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.borrowers[id]
	if !ok {
		return nil, domain.NewNotFoundError("user", id)
	}
	return &b, nil
}

func (s *BorrowerStore) List(ctx context.Context) ([]domain.Borrower, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	borrowers := make([]domain.Borrower, 0, len(s.borrowers))
	for _, b := range s.borrowers {
		borrowers = append(borrowers, b)
	}
	sort.Slice(borrowers, func(i, j int) bool { return borrowers[i].ID < borrowers[j].ID })
	return borrowers, nil
}
