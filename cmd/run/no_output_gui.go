package run

import (
	"os"
	"os/signal"
	"sync"

	"github.com/sirupsen/logrus"
)

// noOutputGUI implements a headless status window that's used with --no-gui.
// It doesn't draw anything; log messages go to the standard logger, and Run
// just blocks until the exit watcher calls Stop or the user hits Ctrl-C.
type noOutputGUI struct {
	done     chan struct{}
	stopOnce sync.Once
}

func newNoOutputGUI() *noOutputGUI {
	return &noOutputGUI{done: make(chan struct{})}
}

func (gui *noOutputGUI) Run() error {
	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, os.Interrupt)
	defer signal.Stop(interrupts)

	select {
	case <-gui.done:
	case <-interrupts:
	}
	return nil
}

func (gui *noOutputGUI) Stop() {
	gui.stopOnce.Do(func() {
		close(gui.done)
	})
}

func (gui *noOutputGUI) GetLogger() *logrus.Logger {
	return logrus.StandardLogger()
}
