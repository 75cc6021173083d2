package repositories

import (
	"context"

	"library-ledger/internal/adapters/persistence/models"
	"library-ledger/internal/core/domain"

	"gorm.io/gorm"
)

// borrowerRepository implements BorrowerRepository interface
type borrowerRepository struct {
	db *gorm.DB
}

// NewBorrowerRepository creates a new borrower repository
func NewBorrowerRepository(db *gorm.DB) BorrowerRepository {
	return &borrowerRepository{db: db}
}

// Create registers a new borrower
func (r *borrowerRepository) Create(ctx context.Context, borrower *domain.Borrower) error {
	err := r.db.WithContext(ctx).Create(&models.Borrower{
		ID:   borrower.ID,
		Name: borrower.Name,
	}).Error
	return translateError(err, "user", borrower.ID)
}

// GetByID gets a borrower by ID
func (r *borrowerRepository) GetByID(ctx context.Context, id int64) (*domain.Borrower, error) {
	var borrower models.Borrower
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&borrower).Error
	if err != nil {
		return nil, translateError(err, "user", id)
	}
	b := borrower.ToDomain()
	return &b, nil
}

// List lists all borrowers ordered by ID
func (r *borrowerRepository) List(ctx context.Context) ([]domain.Borrower, error) {
	var rows []models.Borrower
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	borrowers := make([]domain.Borrower, len(rows))
	for i := range rows {
		borrowers[i] = rows[i].ToDomain()
	}
	return borrowers, nil
}
