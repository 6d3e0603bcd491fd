package core

import "github.com/pkg/errors"

// FieldError attaches an error message to a named input field.
type FieldError struct {
	Field string
	Error string
}

// ValidationError is returned whenever user input fails validation. The API
// layer renders it as a 400 with a field-to-message map when Fields is set.
type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{Err: err, Fields: flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

// shutdown signals an unrecoverable server state; the HTTP error handler
// triggers a graceful stop when it sees one.
type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string { return s.message }

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
