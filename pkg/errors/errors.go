package errors

import (
	goErrors "errors"
)

// ContextError annotates an error with information about the operation that
// failed. Contexts are short, lowercase phrases such as "read save folder".
type ContextError struct {
	Context string
	Err     error
}

func (err ContextError) Error() string {
	return err.Context + ": " + err.Err.Error()
}

// WithContext wraps `err` with a description of the operation that caused it.
func WithContext(err error, context string) error {
	return ContextError{Context: context, Err: err}
}

// New creates a basic error. It's a convenience wrapper so that callers don't
// have to import both this package and the standard errors package.
func New(msg string) error {
	return goErrors.New(msg)
}

// RootCause strips all the context wrappers from `err` so that callers can
// inspect the original error.
func RootCause(err error) error {
	for {
		ctxErr, ok := err.(ContextError)
		if !ok {
			return err
		}
		err = ctxErr.Err
	}
}
