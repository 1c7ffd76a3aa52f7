package helpers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
)

var (
	ErrNotFound     = errors.New("resource not found")
	ErrUnauthorized = errors.New("authentication required")
	ErrForbidden    = errors.New("access denied")
	ErrConflict     = errors.New("resource already exists")
)

// ValidationError reports malformed or missing input. Fields maps a field name
// to a readable message.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "validation failed"
}

func NewValidationError(message string, fields map[string]string) *ValidationError {
	return &ValidationError{Message: message, Fields: fields}
}

// ValidationFrom converts the result of validator.Struct into a
// *ValidationError. Non-validation errors are returned untouched.
func ValidationFrom(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return &ValidationError{Message: "validation failed", Fields: FormatValidationErrors(verrs)}
	}
	return err
}

// StorageError is a failed write, delete or sign against blob storage.
type StorageError struct {
	Op     string
	Key    string
	Status int
	Err    error
}

func (e *StorageError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("storage %s %q: status %d: %v", e.Op, e.Key, e.Status, e.Err)
	}
	return fmt.Sprintf("storage %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// IndexIngestError names the first chunk the document index refused.
type IndexIngestError struct {
	ChunkID string
	Err     error
}

func (e *IndexIngestError) Error() string {
	return fmt.Sprintf("index ingest failed at chunk %s: %v", e.ChunkID, e.Err)
}

func (e *IndexIngestError) Unwrap() error { return e.Err }

func StatusFromError(err error) int {
	var verr *ValidationError
	var serr *StorageError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &verr):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.As(err, &serr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
