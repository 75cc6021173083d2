package services

import (
	"context"
	"fmt"
	"strings"

	"library-ledger/internal/adapters/persistence/repositories"
	"library-ledger/internal/core/domain"
	"library-ledger/internal/pkg/cache"

	"go.uber.org/zap"
)

// CatalogService owns book identity and metadata
type CatalogService struct {
	bookRepo  repositories.BookRepository
	bookCache cache.Cache
	logger    *zap.Logger
}

// NewCatalogService creates a new catalog service. bookCache is the cache
// lending services read books through; it may be nil.
func NewCatalogService(bookRepo repositories.BookRepository, bookCache cache.Cache, logger *zap.Logger) *CatalogService {
	return &CatalogService{
		bookRepo:  bookRepo,
		bookCache: bookCache,
		logger:    logger,
	}
}

// ListBooks lists all books
func (s *CatalogService) ListBooks(ctx context.Context) ([]domain.Book, error) {
	return s.bookRepo.List(ctx)
}

// GetBook gets a book by ID
func (s *CatalogService) GetBook(ctx context.Context, id int64) (*domain.Book, error) {
	if err := domain.ValidateID("book_id", id); err != nil {
		return nil, err
	}
	return s.bookRepo.GetByID(ctx, id)
}

// AddBook adds a new book to the catalog
func (s *CatalogService) AddBook(ctx context.Context, id int64, title string) (*domain.Book, error) {
	book, err := newBook(id, title)
	if err != nil {
		return nil, err
	}
	if err := s.bookRepo.Create(ctx, book); err != nil {
		return nil, fmt.Errorf("add book: %w", err)
	}

	s.logger.Info("Book added", zap.Int64("book_id", book.ID), zap.String("title", book.Title))
	return book, nil
}

// UpdateBook replaces the title of an existing book
func (s *CatalogService) UpdateBook(ctx context.Context, id int64, title string) (*domain.Book, error) {
	book, err := newBook(id, title)
	if err != nil {
		return nil, err
	}
	if err := s.bookRepo.Update(ctx, book); err != nil {
		return nil, fmt.Errorf("update book: %w", err)
	}

	s.evict(ctx, book.ID)
	s.logger.Info("Book updated", zap.Int64("book_id", book.ID))
	return book, nil
}

// DeleteBook removes a book from the catalog. Loan records that reference it
// are kept; the ledger holds only book ids.
func (s *CatalogService) DeleteBook(ctx context.Context, id int64) error {
	if err := domain.ValidateID("book_id", id); err != nil {
		return err
	}
	if err := s.bookRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete book: %w", err)
	}

	s.evict(ctx, id)
	s.logger.Info("Book deleted", zap.Int64("book_id", id))
	return nil
}

// evict drops a changed book from the lending cache. A failure is logged
// only; the entry then expires with its TTL.
func (s *CatalogService) evict(ctx context.Context, id int64) {
	if s.bookCache == nil {
		return
	}
	if err := s.bookCache.Delete(ctx, cache.BookKey(id)); err != nil {
		s.logger.Warn("Failed to evict cached book", zap.Int64("book_id", id), zap.Error(err))
	}
}

func newBook(id int64, title string) (*domain.Book, error) {
	if err := domain.ValidateID("book_id", id); err != nil {
		return nil, err
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, domain.NewValidationError("title", nil, "must not be empty")
	}
	return &domain.Book{ID: id, Title: title}, nil
}
