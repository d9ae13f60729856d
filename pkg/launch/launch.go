// Package launch starts the game through the OS URI handler.
package launch

import (
	"github.com/skratchdot/open-golang/open"

	"github.com/saveguard/saveguard/pkg/errors"
)

// openStart is mocked out for unit testing.
var openStart = open.Start

// Start asks the OS to open `uri` with its registered handler, e.g.
// steam://rungameid/413150. The call is fire-and-forget: a nil error means
// the handler was invoked, not that the game actually came up. Whether the
// launch worked is inferred by watching the process table afterwards.
func Start(uri string) error {
	if err := openStart(uri); err != nil {
		return errors.WithContext(err, "open launch uri")
	}
	return nil
}
