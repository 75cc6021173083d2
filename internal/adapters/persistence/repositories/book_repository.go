package repositories

import (
	"context"

	"library-ledger/internal/adapters/persistence/models"
	"library-ledger/internal/core/domain"

	"gorm.io/gorm"
)

// bookRepository implements BookRepository interface
type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository creates a new book repository
func NewBookRepository(db *gorm.DB) BookRepository {
	return &bookRepository{db: db}
}

// Create creates a new book
func (r *bookRepository) Create(ctx context.Context, book *domain.Book) error {
	err := r.db.WithContext(ctx).Create(models.BookFromDomain(book)).Error
	return translateError(err, "book", book.ID)
}

// GetByID gets a book by ID
func (r *bookRepository) GetByID(ctx context.Context, id int64) (*domain.Book, error) {
	var book models.Book
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&book).Error
	if err != nil {
		return nil, translateError(err, "book", id)
	}
	b := book.ToDomain()
	return &b, nil
}

// Update updates the title of an existing book
func (r *bookRepository) Update(ctx context.Context, book *domain.Book) error {
	res := r.db.WithContext(ctx).
		Model(&models.Book{}).
		Where("id = ?", book.ID).
		Update("title", book.Title)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// MySQL reports zero affected rows when the title is unchanged.
		if _, err := r.GetByID(ctx, book.ID); err != nil {
			return err
		}
	}
	return nil
}

// Delete deletes a book
func (r *bookRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&models.Book{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.NewNotFoundError("book", id)
	}
	return nil
}

// List lists all books ordered by ID
func (r *bookRepository) List(ctx context.Context) ([]domain.Book, error) {
	var rows []models.Book
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	books := make([]domain.Book, len(rows))
	for i := range rows {
		books[i] = rows[i].ToDomain()
	}
	return books, nil
}
