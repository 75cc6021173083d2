package models

import (
	"time"

	"library-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ============================================================
// Catalog
// ============================================================

// Book represents books table
type Book struct {
	ID        int64     `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Book) TableName() string {
	return "books"
}

func (b *Book) ToDomain() domain.Book {
	return domain.Book{ID: b.ID, Title: b.Title}
}

func BookFromDomain(b *domain.Book) *Book {
	return &Book{ID: b.ID, Title: b.Title}
}

// ============================================================
// Lending
// ============================================================

// Borrower represents borrowers table
type Borrower struct {
	ID        int64     `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Borrower) TableName() string {
	return "borrowers"
}

func (b *Borrower) ToDomain() domain.Borrower {
	return domain.Borrower{ID: b.ID, Name: b.Name}
}

// LoanRecord represents loan_records table, the append-only audit trail of
// issuances and returns.
type LoanRecord struct {
	ID         string              `gorm:"primaryKey;size:36" json:"id"`
	BookID     int64               `gorm:"index;not null" json:"book_id"`
	UserID     int64               `gorm:"index:idx_loan_records_user_issue,priority:1;not null" json:"user_id"`
	IssueDate  time.Time           `gorm:"type:date;index:idx_loan_records_user_issue,priority:2;not null" json:"issue_date"`
	ReturnDate *time.Time          `gorm:"type:date" json:"return_date"`
	Fine       decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"fine"`
	CreatedAt  time.Time           `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time           `gorm:"autoUpdateTime" json:"updated_at"`
}

func (LoanRecord) TableName() string {
	return "loan_records"
}

// ActiveLoan represents active_loans table. Its primary key on book_id is
// what makes "no open loan for this book" an atomic conditional insert.
type ActiveLoan struct {
	BookID       int64     `gorm:"primaryKey;autoIncrement:false" json:"book_id"`
	LoanRecordID string    `gorm:"size:36;not null;uniqueIndex" json:"loan_record_id"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (ActiveLoan) TableName() string {
	return "active_loans"
}

func (r *LoanRecord) ToDomain() domain.LoanRecord {
	rec := domain.LoanRecord{
		BookID:    r.BookID,
		UserID:    r.UserID,
		IssueDate: domain.DateOf(r.IssueDate),
		Fine:      r.Fine,
	}
	if id, err := uuid.Parse(r.ID); err == nil {
		rec.ID = id
	}
	if r.ReturnDate != nil {
		rec.ReturnDate = domain.DateOf(*r.ReturnDate)
	}
	return rec
}

func LoanRecordFromDomain(rec *domain.LoanRecord) *LoanRecord {
	m := &LoanRecord{
		ID:        rec.ID.String(),
		BookID:    rec.BookID,
		UserID:    rec.UserID,
		IssueDate: rec.IssueDate.Time(),
		Fine:      rec.Fine,
	}
	if !rec.ReturnDate.IsZero() {
		t := rec.ReturnDate.Time()
		m.ReturnDate = &t
	}
	return m
}

// AutoMigrate runs auto migration for all models
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Book{},
		&Borrower{},
		&LoanRecord{},
		&ActiveLoan{},
	)
}
