package services

import (
	"errors"

	"gin-inventory/errs"

	"gorm.io/gorm"
)

// notFoundOr converts a missing record into a 404 carrying message.
func notFoundOr(err error, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.NewNotFoundError(message)
	}
	return err
}

// conflictOr converts a unique constraint violation into a 409 carrying message.
func conflictOr(err error, message string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errs.NewConflictError(message)
	}
	return err
}
