package domain

import (
	"errors"

	"gorm.io/gorm"
)

// Shared error taxonomy. Store-level failures are translated into these
// sentinels at the service boundary so handlers never see raw gorm errors.
var (
	// ErrNotFound marks a missing product, subtype row or user.
	ErrNotFound = errors.New("record not found")
	// ErrConflict marks a uniqueness or referential constraint refusal.
	ErrConflict = errors.New("constraint conflict")
	// ErrInvalidRole marks a role outside the allowed set after normalization.
	ErrInvalidRole = errors.New("invalid role")
	// ErrLastAdmin marks an operation that would leave the system without
	// any ADMIN user.
	ErrLastAdmin = errors.New("at least one admin must remain")
	// ErrSelfAction marks an admin demoting or deleting their own account.
	ErrSelfAction = errors.New("operation not allowed on own account")
	// ErrUpstream marks a failed or unusable OCR service response.
	ErrUpstream = errors.New("upstream ocr service failure")
)

// TranslateDBError maps translated gorm errors onto the taxonomy. Unknown
// errors pass through unchanged.
func TranslateDBError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrConflict
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return ErrConflict
	}
	return err
}
