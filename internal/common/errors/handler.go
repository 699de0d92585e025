// internal/common/errors/handler.go
package errors

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"
)

// Logger is the minimal logging surface the error responder needs.
type Logger interface {
	Error(msg string, fields map[string]interface{})
}

// Responder writes errors as the standard JSON envelope with the HTTP
// status matching their code.
type Responder struct {
	logger Logger
}

func NewResponder(logger Logger) *Responder {
	return &Responder{logger: logger}
}

// errorEnvelope is the wire shape of a failed request.
type errorEnvelope struct {
	Error *StandardError `json:"error"`
}

// Write normalizes err, logs it and sends the JSON envelope.
func (r *Responder) Write(w http.ResponseWriter, req *http.Request, err error) {
	stdErr := Normalize(err)

	r.logger.Error("request failed", map[string]interface{}{
		"path":        req.URL.Path,
		"code":        string(stdErr.Code),
		"message":     stdErr.Message,
		"details":     stdErr.Details,
		"recoverable": stdErr.Recoverable,
	})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(HTTPStatusOf(stdErr.Code))
	_ = json.NewEncoder(w).Encode(errorEnvelope{Error: stdErr})
}

// Normalize ensures we always have a StandardError.
func Normalize(err error) *StandardError {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr
	}
	return &StandardError{
		Code:        "INTERNAL_ERROR",
		Message:     "Unexpected error",
		Details:     err.Error(),
		Recoverable: false,
		Timestamp:   time.Now().UTC(),
	}
}

// HTTPStatusOf maps an error code onto the status the query API returns.
// Interpretation failures are the caller's to fix; infrastructure
// failures are ours.
func HTTPStatusOf(code ErrorCode) int {
	switch code {
	case ErrCodeValidationFailed:
		return http.StatusBadRequest
	case ErrCodeDateNotResolved, ErrCodeEntityNotResolved:
		return http.StatusUnprocessableEntity
	case ErrCodeQueryTimeout:
		return http.StatusGatewayTimeout
	case ErrCodeDatabaseConnectionFailed:
		return http.StatusServiceUnavailable
	case ErrCodeQueryExecutionFailed, ErrCodeGeneratorUnavailable:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
