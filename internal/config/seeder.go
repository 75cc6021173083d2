package config

import (
	"context"
	"errors"

	"library-ledger/internal/adapters/persistence/repositories"
	"library-ledger/internal/core/domain"

	"go.uber.org/zap"
)

// Seeder handles demo data seeding
type Seeder struct {
	books     repositories.BookRepository
	borrowers repositories.BorrowerRepository
	log       *zap.Logger
}

// NewSeeder creates a new seeder instance. Either repository may be nil when
// the process does not own that data.
func NewSeeder(books repositories.BookRepository, borrowers repositories.BorrowerRepository, log *zap.Logger) *Seeder {
	return &Seeder{books: books, borrowers: borrowers, log: log}
}

var demoBooks = []domain.Book{
	{ID: 1, Title: "The Pragmatic Programmer"},
	{ID: 2, Title: "Structure and Interpretation of Computer Programs"},
	{ID: 3, Title: "The Go Programming Language"},
	{ID: 4, Title: "Designing Data-Intensive Applications"},
	{ID: 5, Title: "A Philosophy of Software Design"},
}

var demoBorrowers = []domain.Borrower{
	{ID: 1, Name: "Ada Lovelace"},
	{ID: 2, Name: "Alan Turing"},
	{ID: 3, Name: "Grace Hopper"},
}

// Run executes all seeders. Rows that already exist are left alone, so Run
// is safe to repeat.
func (s *Seeder) Run(ctx context.Context) error {
	s.log.Info("Seeding demo data")

	seeded := 0
	if s.books != nil {
		for i := range demoBooks {
			book := demoBooks[i]
			ok, err := seedOne(s.books.Create(ctx, &book))
			if err != nil {
				return err
			}
			if ok {
				seeded++
			}
		}
	}
	if s.borrowers != nil {
		for i := range demoBorrowers {
			borrower := demoBorrowers[i]
			ok, err := seedOne(s.borrowers.Create(ctx, &borrower))
			if err != nil {
				return err
			}
			if ok {
				seeded++
			}
		}
	}

	s.log.Info("Demo data seeding completed", zap.Int("created", seeded))
	return nil
}

func seedOne(err error) (bool, error) {
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, domain.ErrConflict):
		return false, nil
	default:
		return false, err
	}
}
