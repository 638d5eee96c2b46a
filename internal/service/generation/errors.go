package generation

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	// MessageRequired is returned to clients when the prompt is missing.
	MessageRequired = "Message is required"
	// ProcessingFailed is the only detail clients see for backend failures.
	ProcessingFailed = "Failed to process request"
)

var (
	ErrMessageRequired = &ValidationError{Field: "message", Message: MessageRequired}
	ErrSessionNotFound = errors.New("session not found")
	ErrTemplateMissing = errors.New("template bootstrap requires a template url")
)

// ValidationError is a client-correctable input problem.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// BackendError wraps any failure from the generation backend.
type BackendError struct {
	Op  Op
	Err error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("generation backend %s: %v", e.Op, e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// Classify maps err to an HTTP status and the message clients may see.
// Anything that is not a ValidationError is reported as ProcessingFailed.
func Classify(err error) (int, string) {
	var validation *ValidationError
	if errors.As(err, &validation) {
		return http.StatusBadRequest, validation.Message
	}
	return http.StatusInternalServerError, ProcessingFailed
}
