package errors

import (
	"fmt"
)

// FriendlyError is an error whose message is meant to be shown directly to
// the user, without any wrapping context or stack information.
type FriendlyError struct {
	Message string
}

func (err FriendlyError) Error() string {
	return err.Message
}

// FriendlyMessage implements the friendlyMessager interface.
func (err FriendlyError) FriendlyMessage() string {
	return err.Message
}

// NewFriendlyError creates an error that will be printed to the user as-is.
func NewFriendlyError(format string, args ...interface{}) error {
	return FriendlyError{Message: fmt.Sprintf(format, args...)}
}

// friendlyMessager is implemented by errors that can explain themselves to
// users in plain language.
type friendlyMessager interface {
	FriendlyMessage() string
}

// GetPrintableMessage returns the user-friendly message for `err` if any
// error in its chain provides one.
func GetPrintableMessage(err error) (string, bool) {
	for {
		if friendly, ok := err.(friendlyMessager); ok {
			return friendly.FriendlyMessage(), true
		}

		ctxErr, ok := err.(ContextError)
		if !ok {
			return "", false
		}
		err = ctxErr.Err
	}
}
