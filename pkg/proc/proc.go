// Package proc waits for a named process to appear in or disappear from the
// OS process table.
package proc

import (
	"context"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	ps "github.com/mitchellh/go-ps"
	log "github.com/sirupsen/logrus"

	"github.com/saveguard/saveguard/pkg/errors"
)

// listProcesses is mocked out for unit testing.
var listProcesses = ps.Processes

// ErrWaitTimeout is returned when the process table doesn't reach the
// desired state before the configured timeout.
var ErrWaitTimeout = errors.New("timed out waiting for process state")

// Waiter polls the process table at a fixed interval. There's no backoff or
// jitter: the interval comes straight from the user's config.
type Waiter struct {
	Clock    clockwork.Clock
	Interval time.Duration

	// Timeout bounds the total wait. Zero means wait forever, which matches
	// the tool's historical behavior of blocking until the game shows up or
	// goes away.
	Timeout time.Duration
}

// Wait blocks until a process named `name` is running (wantRunning true) or
// gone (wantRunning false), re-querying the process table every Interval.
// Cancelling the context aborts the wait.
func (w Waiter) Wait(ctx context.Context, name string, wantRunning bool) error {
	var deadline <-chan time.Time
	if w.Timeout > 0 {
		deadline = w.Clock.After(w.Timeout)
	}

	for {
		running, err := IsRunning(name)
		if err != nil {
			// A transient process-table error shouldn't abort the wait.
			log.WithError(err).Warn("Failed to query the process table")
		} else if running == wantRunning {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline:
			return ErrWaitTimeout
		case <-w.Clock.After(w.Interval):
		}
	}
}

// IsRunning reports whether a process with the given executable name exists.
// Matching ignores case and a trailing ".exe", so process names copied from
// the Windows task manager work as-is.
func IsRunning(name string) (bool, error) {
	procs, err := listProcesses()
	if err != nil {
		return false, errors.WithContext(err, "list processes")
	}

	want := normalizeName(name)
	for _, p := range procs {
		if normalizeName(p.Executable()) == want {
			return true, nil
		}
	}
	return false, nil
}

func normalizeName(name string) string {
	return strings.TrimSuffix(strings.ToLower(name), ".exe")
}
