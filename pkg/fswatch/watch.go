// Package fswatch reports writes to the local save folder while the game is
// running, so the status window can show save activity as it happens.
package fswatch

import (
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"

	"github.com/saveguard/saveguard/pkg/errors"
)

// Watch watches `dir` and sends the base name of each file that's created or
// written there. Events are dropped rather than buffered when the consumer
// falls behind, since the caller only uses them for status output. The
// returned closer releases the underlying watcher.
func Watch(dir string) (<-chan string, func() error, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, nil, errors.WithContext(err, "create watcher")
	}

	if err := watcher.Add(dir); err != nil {
		if closeErr := watcher.Close(); closeErr != nil {
			log.WithError(closeErr).Warn("Failed to close file watcher")
		}
		return nil, nil, errors.WithContext(err, fmt.Sprintf("watch %q", dir))
	}

	return forwardWrites(watcher.Events), watcher.Close, nil
}

// forwardWrites converts raw fsnotify events into file names, keeping only
// creates and writes.
func forwardWrites(events <-chan fsnotify.Event) <-chan string {
	names := make(chan string, 1)
	go func() {
		defer close(names)
		for event := range events {
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}

			select {
			case names <- filepath.Base(event.Name):
			default:
			}
		}
	}()
	return names
}
