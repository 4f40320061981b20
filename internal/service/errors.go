// Package service holds the business operations behind the HTTP API.
// Every operation takes the acting user explicitly and returns sentinel
// errors that the handler layer maps to status codes.
package service

import (
	"errors"
	"fmt"

	"github.com/iliyamo/learning-platform/internal/repository"
)

var (
	// ErrValidation marks input the caller must fix (HTTP 400).
	ErrValidation = errors.New("validation failed")
	// ErrNotFound marks a lookup by id that missed (HTTP 404).
	ErrNotFound = errors.New("not found")
)

// ValidationError carries a message and optional per-field details.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return ErrValidation }

func invalid(field, msg string) error {
	return &ValidationError{Message: msg, Fields: map[string]string{field: msg}}
}

// storeErr converts repository sentinels into service ones.
func storeErr(what string, id uint64, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%s %d: %w", what, id, ErrNotFound)
	}
	return fmt.Errorf("%s %d: %w", what, id, err)
}
