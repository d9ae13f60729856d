package util

import (
	"fmt"
	"os"
	"runtime/debug"

	log "github.com/sirupsen/logrus"

	"github.com/saveguard/saveguard/pkg/errors"
)

// HandleFatalError prints the given error and aborts the process.
// If any error in the chain has a user-friendly message, we show that rather
// than the raw error chain.
func HandleFatalError(err error) {
	if friendly, ok := errors.GetPrintableMessage(err); ok {
		fmt.Fprintln(os.Stderr, friendly)
	} else {
		fmt.Fprintf(os.Stderr, "FATAL ERROR: %s\n", err)
	}
	os.Exit(1)
}

// HandlePanic recovers from panics in the calling goroutine so that a crash
// in a background task doesn't take the terminal down with a raw stack trace.
// It should be deferred at the top of every goroutine.
func HandlePanic() {
	r := recover()
	if r == nil {
		return
	}

	log.WithField("panic", r).Error("Unexpected crash")
	log.Debug(string(debug.Stack()))
	os.Exit(1)
}
