package services

import (
	"context"
	"fmt"
	"strings"

	"library-ledger/internal/adapters/persistence/repositories"
	"library-ledger/internal/core/domain"

	"go.uber.org/zap"
)

// BorrowerService handles borrower registration
type BorrowerService struct {
	borrowerRepo repositories.BorrowerRepository
	logger       *zap.Logger
}

// NewBorrowerService creates a new borrower service
func NewBorrowerService(borrowerRepo repositories.BorrowerRepository, logger *zap.Logger) *BorrowerService {
	return &BorrowerService{
		borrowerRepo: borrowerRepo,
		logger:       logger,
	}
}

// ListBorrowers lists all registered borrowers
func (s *BorrowerService) ListBorrowers(ctx context.Context) ([]domain.Borrower, error) {
	return s.borrowerRepo.List(ctx)
}

// GetBorrower gets a borrower by ID
func (s *BorrowerService) GetBorrower(ctx context.Context, id int64) (*domain.Borrower, error) {
	if err := domain.ValidateID("user_id", id); err != nil {
		return nil, err
	}
	return s.borrowerRepo.GetByID(ctx, id)
}

// Register registers a new borrower
func (s *BorrowerService) Register(ctx context.Context, id int64, name string) (*domain.Borrower, error) {
	if err := domain.ValidateID("user_id", id); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.NewValidationError("name", nil, "must not be empty")
	}

	borrower := &domain.Borrower{ID: id, Name: name}
	if err := s.borrowerRepo.Create(ctx, borrower); err != nil {
		return nil, fmt.Errorf("register user: %w", err)
	}

	s.logger.Info("User registered", zap.Int64("user_id", id))
	return borrower, nil
}
