package errors

import (
	"fmt"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return &AppError{
			Code:    appErr.Code,
			Message: message,
			Cause:   appErr,
		}
	}
	return &AppError{
		Code:    CodeInternalError,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// GetCode returns the error code if it's an AppError, otherwise returns "UNKNOWN"
func GetCode(err error) string {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	return "UNKNOWN"
}

// Predefined error codes
const (
	// CodeConfigInvalid covers an unsupported link value or a requested
	// grouping factor with no random-intercept term in the model spec.
	CodeConfigInvalid = "CONFIG_INVALID"

	// CodeFitFailed covers convergence failure of the observed-estimate fit
	// or an LRT reduced-model fit. Replicate-level fit failures are never
	// raised under this code; they degrade to missing values.
	CodeFitFailed = "FIT_FAILED"

	// CodeWorkerPool covers a replicate worker-pool failure, fatal to the
	// phase that raised it.
	CodeWorkerPool = "WORKER_POOL"

	CodeInternalError = "INTERNAL_ERROR"
)

// Common error constructors
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func FitFailed(stage string, cause error) *AppError {
	return &AppError{
		Code:    CodeFitFailed,
		Message: fmt.Sprintf("model fit failed during %s", stage),
		Cause:   cause,
	}
}

func WorkerPool(phase string, cause error) *AppError {
	return &AppError{
		Code:    CodeWorkerPool,
		Message: fmt.Sprintf("worker pool failed during %s phase", phase),
		Cause:   cause,
	}
}
