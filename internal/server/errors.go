package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/skill-matcher/internal/ingestion"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrNotFound indicates a stored resource does not exist
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrStoreDisabled indicates a history endpoint was called without a database
type ErrStoreDisabled struct{}

func (e *ErrStoreDisabled) Error() string {
	return "analysis history is disabled: no database configured"
}

// ErrPayloadTooLarge indicates an upload exceeded the configured limit
type ErrPayloadTooLarge struct {
	Limit int64
}

func (e *ErrPayloadTooLarge) Error() string {
	return fmt.Sprintf("upload exceeds limit of %d bytes", e.Limit)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validation  *ErrValidation
		notFound    *ErrNotFound
		disabled    *ErrStoreDisabled
		tooLarge    *ErrPayloadTooLarge
		unsupported *ingestion.UnsupportedFormatError
		extraction  *ingestion.ExtractionError
	)
	switch {
	case errors.As(err, &validation), errors.As(err, &unsupported):
		return http.StatusBadRequest
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &extraction):
		return http.StatusUnprocessableEntity
	case errors.As(err, &disabled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
