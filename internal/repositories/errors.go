package repositories

import (
	"errors"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a requested row does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateKey is returned when an insert violates a unique
	// constraint, e.g. a second attendance row for the same
	// (student, course, date) tuple.
	ErrDuplicateKey = errors.New("duplicate key")
)

// TranslateError maps gorm errors onto the repository error kinds so
// services never depend on driver specifics.
func TranslateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicateKey
	default:
		return err
	}
}

func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound)
}

func IsDuplicateKeyError(err error) bool {
	return errors.Is(err, ErrDuplicateKey) || errors.Is(err, gorm.ErrDuplicatedKey)
}
