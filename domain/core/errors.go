package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	ErrFactorNotFound   = errors.New("grouping factor not found")
	ErrColumnMismatch   = errors.New("column length mismatch")
	ErrEmptyDataset     = errors.New("dataset has no observations")
	ErrNonBinary        = errors.New("response value is not 0/1")
	ErrUnknownLink      = errors.New("unknown link function")
	ErrMissingComponent = errors.New("variance component missing")
)

// Error constructors with context
func NewFactorNotFoundError(factor string) error {
	return fmt.Errorf("%w: %s", ErrFactorNotFound, factor)
}

func NewColumnMismatchError(column string, got, want int) error {
	return fmt.Errorf("%w: %s has %d rows, expected %d", ErrColumnMismatch, column, got, want)
}

func NewMissingComponentError(factor string) error {
	return fmt.Errorf("%w: %s", ErrMissingComponent, factor)
}

// Error checking helpers
func IsFactorNotFound(err error) bool {
	return errors.Is(err, ErrFactorNotFound)
}

func IsMissingComponent(err error) bool {
	return errors.Is(err, ErrMissingComponent)
}

func IsDatasetError(err error) bool {
	return errors.Is(err, ErrColumnMismatch) ||
		errors.Is(err, ErrEmptyDataset) ||
		errors.Is(err, ErrNonBinary)
}
