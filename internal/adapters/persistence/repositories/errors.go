package repositories

import (
	"errors"

	"library-ledger/internal/core/domain"

	"gorm.io/gorm"
)

// translateError maps gorm errors onto the domain error categories.
// gorm must be opened with TranslateError enabled for duplicate keys to be
// recognised.
func translateError(err error, resource string, id any) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.NewNotFoundError(resource, id)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return domain.NewConflictError(resource, id, "already exists")
	default:
		return err
	}
}
