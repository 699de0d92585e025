// Package errors provides the standardized error taxonomy of the
// query-interpretation pipeline.
package errors

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Interpretation failures — terminate the request with an actionable message.
	ErrCodeDateNotResolved   ErrorCode = "DATE_NOT_RESOLVED"
	ErrCodeEntityNotResolved ErrorCode = "ENTITY_NOT_RESOLVED"

	// Recovered conditions — the request still produces an answer.
	ErrCodeNoDataInRange        ErrorCode = "NO_DATA_IN_RANGE"
	ErrCodeArithmeticSkipped    ErrorCode = "ARITHMETIC_SKIPPED"
	ErrCodeGeneratorUnavailable ErrorCode = "GENERATOR_UNAVAILABLE"

	// Infrastructure failures.
	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeQueryExecutionFailed     ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeQueryTimeout             ErrorCode = "QUERY_TIMEOUT"

	// Malformed inbound request.
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code        ErrorCode              `json:"code"`
	Message     string                 `json:"message"`
	Details     string                 `json:"details,omitempty"`
	Recoverable bool                   `json:"recoverable"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
	Timestamp   time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// Is reports whether target carries the same error code, so call sites can
// dispatch with errors.Is against the exported sentinels below.
func (e *StandardError) Is(target error) bool {
	var se *StandardError
	if errors.As(target, &se) {
		return e.Code == se.Code
	}
	return false
}

// Sentinels for errors.Is dispatch.
var (
	ErrDateNotResolved          = &StandardError{Code: ErrCodeDateNotResolved}
	ErrEntityNotResolved        = &StandardError{Code: ErrCodeEntityNotResolved}
	ErrNoDataInRange            = &StandardError{Code: ErrCodeNoDataInRange}
	ErrArithmeticSkipped        = &StandardError{Code: ErrCodeArithmeticSkipped}
	ErrGeneratorUnavailable     = &StandardError{Code: ErrCodeGeneratorUnavailable}
	ErrDatabaseConnectionFailed = &StandardError{Code: ErrCodeDatabaseConnectionFailed}
	ErrQueryExecutionFailed     = &StandardError{Code: ErrCodeQueryExecutionFailed}
	ErrQueryTimeout             = &StandardError{Code: ErrCodeQueryTimeout}
)

// NewDateNotResolvedError reports that no temporal strategy matched. The
// message lists accepted literal formats so the user can rephrase.
func NewDateNotResolvedError(referenceDate time.Time, acceptedFormats []string) *StandardError {
	return &StandardError{
		Code: ErrCodeDateNotResolved,
		Message: fmt.Sprintf(
			"Date non trouvée. Date actuelle: %s. Essayez par exemple: %s",
			referenceDate.Format("02/01/2006"),
			strings.Join(acceptedFormats, ", "),
		),
		Recoverable: false,
		Timestamp:   time.Now().UTC(),
	}
}

// NewEntityNotResolvedError reports that no vocabulary entry matched the
// question. A sample of known entries is included in the message.
func NewEntityNotResolvedError(sample []string) *StandardError {
	return &StandardError{
		Code: ErrCodeEntityNotResolved,
		Message: fmt.Sprintf(
			"Produit non trouvé. Formats acceptés: %s.",
			strings.Join(sample, ", "),
		),
		Metadata:    map[string]interface{}{"vocabularySample": sample},
		Recoverable: false,
		Timestamp:   time.Now().UTC(),
	}
}

// NewQueryExecutionError wraps a ledger-store failure.
func NewQueryExecutionError(details string) *StandardError {
	return &StandardError{
		Code:        ErrCodeQueryExecutionFailed,
		Message:     "Ledger query execution failed",
		Details:     details,
		Recoverable: true,
		Timestamp:   time.Now().UTC(),
	}
}

// NewQueryTimeoutError signals that the ledger store did not answer in time.
func NewQueryTimeoutError(details string) *StandardError {
	return &StandardError{
		Code:        ErrCodeQueryTimeout,
		Message:     "Ledger query timed out",
		Details:     details,
		Recoverable: true,
		Timestamp:   time.Now().UTC(),
	}
}

// NewDatabaseConnectionError signals a failed connection to the ledger store.
func NewDatabaseConnectionError(details string) *StandardError {
	return &StandardError{
		Code:        ErrCodeDatabaseConnectionFailed,
		Message:     "Database connection failed",
		Details:     details,
		Recoverable: true,
		Timestamp:   time.Now().UTC(),
	}
}

// NewGeneratorUnavailableError records why the text generator was skipped.
// Always recovered locally; never surfaced to the caller.
func NewGeneratorUnavailableError(reason string) *StandardError {
	return &StandardError{
		Code:        ErrCodeGeneratorUnavailable,
		Message:     "Text generator unavailable, deterministic template used",
		Details:     reason,
		Recoverable: true,
		Timestamp:   time.Now().UTC(),
	}
}

// NewValidationError rejects a malformed inbound request.
func NewValidationError(message string) *StandardError {
	return &StandardError{
		Code:        ErrCodeValidationFailed,
		Message:     message,
		Recoverable: false,
		Timestamp:   time.Now().UTC(),
	}
}

// CodeOf extracts the ErrorCode from err, or empty when err is not a
// StandardError.
func CodeOf(err error) ErrorCode {
	var se *StandardError
	if errors.As(err, &se) {
		return se.Code
	}
	return ""
}
