package repositories

import (
	"context"
	"errors"

	"library-ledger/internal/adapters/persistence/models"
	"library-ledger/internal/core/domain"

	"gorm.io/gorm"
)

// loanRepository implements LoanRepository on two tables: loan_records holds
// every record, active_loans holds one row per book currently on loan.
type loanRepository struct {
	db *gorm.DB
}

// NewLoanRepository creates a new loan repository
func NewLoanRepository(db *gorm.DB) LoanRepository {
	return &loanRepository{db: db}
}

// CreateOpen inserts the active_loans marker and the record in one
// transaction. A duplicate book_id in active_loans means the book is already
// out.
func (r *loanRepository) CreateOpen(ctx context.Context, rec *domain.LoanRecord) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		marker := &models.ActiveLoan{BookID: rec.BookID, LoanRecordID: rec.ID.String()}
		if err := tx.Create(marker).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return domain.NewConflictError("book", rec.BookID, "already has an open loan")
			}
			return err
		}
		return tx.Create(models.LoanRecordFromDomain(rec)).Error
	})
}

// GetOpen loads the record the book's active_loans marker points at
func (r *loanRepository) GetOpen(ctx context.Context, bookID int64) (*domain.LoanRecord, error) {
	var row models.LoanRecord
	err := r.db.WithContext(ctx).
		Joins("JOIN active_loans ON active_loans.loan_record_id = loan_records.id").
		Where("active_loans.book_id = ?", bookID).
		First(&row).Error
	if err != nil {
		return nil, translateError(err, "open loan for book", bookID)
	}
	rec := row.ToDomain()
	return &rec, nil
}

// CloseOpen drops the marker only if it still points at rec, then stores the
// return date and fine. Both writes are conditional, so a record closed
// concurrently is reported as not found and nothing is written.
func (r *loanRepository) CloseOpen(ctx context.Context, rec *domain.LoanRecord) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("book_id = ? AND loan_record_id = ?", rec.BookID, rec.ID.String()).
			Delete(&models.ActiveLoan{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.NewNotFoundError("open loan for book", rec.BookID)
		}

		updated := models.LoanRecordFromDomain(rec)
		res = tx.Model(&models.LoanRecord{}).
			Where("id = ? AND return_date IS NULL", updated.ID).
			Updates(map[string]interface{}{
				"return_date": updated.ReturnDate,
				"fine":        updated.Fine,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.NewNotFoundError("open loan record", updated.ID)
		}
		return nil
	})
}

// ListOpen lists records without a return date
func (r *loanRepository) ListOpen(ctx context.Context) ([]domain.LoanRecord, error) {
	var rows []models.LoanRecord
	err := r.db.WithContext(ctx).
		Where("return_date IS NULL").
		Order("issue_date ASC, book_id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toDomainRecords(rows), nil
}

// ListByUser lists every record of a user, oldest issue first
func (r *loanRepository) ListByUser(ctx context.Context, userID int64) ([]domain.LoanRecord, error) {
	var rows []models.LoanRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("issue_date ASC, created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toDomainRecords(rows), nil
}

func toDomainRecords(rows []models.LoanRecord) []domain.LoanRecord {
	records := make([]domain.LoanRecord, len(rows))
	for i := range rows {
		records[i] = rows[i].ToDomain()
	}
	return records
}
