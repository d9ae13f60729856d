package run

import (
	"fmt"
	"sync"
	"time"

	"github.com/buger/goterm"
	"github.com/jroimartin/gocui"
	"github.com/sirupsen/logrus"

	"github.com/saveguard/saveguard/cmd/util"
	"github.com/saveguard/saveguard/pkg/config"
	"github.com/saveguard/saveguard/pkg/errors"
)

const (
	titleWidgetName  = "title"
	statusWidgetName = "status"
	logWidgetName    = "log"
)

// statusGUI is the status window shown while the game is running.
type statusGUI interface {
	// Run implements the main GUI loop. It blocks until Stop is called or
	// the user closes the window.
	Run() error

	// Stop closes the window and unblocks Run.
	Stop()

	// GetLogger returns a logrus Logger that can be used to display
	// messages on the user's screen.
	GetLogger() *logrus.Logger
}

// statusGUIImpl contains the GUI implementation for normal user usage.
type statusGUIImpl struct {
	cfg       config.Config
	logger    *logrus.Logger
	loggerOut chanWriter

	lock    sync.Mutex
	gui     *gocui.Gui
	stopped bool
}

func newStatusGUI(cfg config.Config) *statusGUIImpl {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		ForceColors:     true,
		FullTimestamp:   true,
		TimestampFormat: time.Kitchen,
	})

	// Allow 256 `Write`s without a corresponding `Read`. We give a generous
	// buffer here because if the channel becomes full, calls to write log
	// messages will block until there's space in the channel (which means
	// that any work in the same thread can't proceed until the log message
	// is written to the UI).
	loggerOut := chanWriter(make(chan []byte, 256))
	logger.SetOutput(loggerOut)

	return &statusGUIImpl{cfg: cfg, logger: logger, loggerOut: loggerOut}
}

func (s *statusGUIImpl) GetLogger() *logrus.Logger {
	return s.logger
}

func (s *statusGUIImpl) Run() error {
	gui, err := gocui.NewGui(gocui.OutputNormal)
	if err != nil {
		return err
	}
	defer gui.Close()

	s.lock.Lock()
	s.gui = gui
	stopped := s.stopped
	s.lock.Unlock()
	if stopped {
		// The game exited before the window even came up.
		return nil
	}

	// Stream the logrus output to the log view.
	go func() {
		defer util.HandlePanic()
		copyToView(gui, logWidgetName, s.loggerOut)
	}()

	gui.SetManager(
		&titleWidget{processName: s.cfg.ProcessName},
		&statusWidget{processName: s.cfg.ProcessName},
		&logWidget{},
	)

	ctrlCHandler := func(_ *gocui.Gui, _ *gocui.View) error {
		return gocui.ErrQuit
	}
	if err := gui.SetKeybinding("", gocui.KeyCtrlC, gocui.ModNone, ctrlCHandler); err != nil {
		return errors.WithContext(err, "bind GUI Ctrl-C")
	}

	if err := gui.MainLoop(); err != nil && err != gocui.ErrQuit {
		return err
	}
	return nil
}

func (s *statusGUIImpl) Stop() {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.stopped = true
	if s.gui != nil {
		s.gui.Update(func(*gocui.Gui) error {
			return gocui.ErrQuit
		})
	}
}

// titleWidget displays the tool name and game at the top of the window.
type titleWidget struct {
	processName string
}

func (w *titleWidget) Layout(g *gocui.Gui) error {
	maxWidth, _ := g.Size()
	height := 1

	v, err := g.SetView(titleWidgetName, 0, 0, maxWidth-1, height+1)
	if err != nil && err != gocui.ErrUnknownView {
		return err
	}

	v.Title = "saveguard"
	v.Wrap = true
	v.Clear()
	fmt.Fprintf(v, "Game: %s\n", w.processName)

	return nil
}

// statusWidget displays the protection status line. It's placed under the
// title.
type statusWidget struct {
	processName string
}

func (w *statusWidget) Layout(g *gocui.Gui) error {
	x1, y1, x2, y2, err := relativeTo(g, titleWidgetName, 1)
	if err != nil {
		return err
	}

	v, err := g.SetView(statusWidgetName, x1, y1, x2, y2)
	if err != nil && err != gocui.ErrUnknownView {
		return err
	}

	v.Title = "Status"
	v.Wrap = true
	v.Clear()
	fmt.Fprintf(v, "%s Close the game to sync. Ctrl-C aborts.\n",
		goterm.Color("Cloud save protection active.", goterm.GREEN))

	return nil
}

// logWidget is an empty view that streams saveguard logs. It fills the rest
// of the window under the status line.
type logWidget struct{}

func (w *logWidget) Layout(g *gocui.Gui) error {
	maxWidth, maxHeight := g.Size()

	_, _, _, origin, err := g.ViewPosition(statusWidgetName)
	if err != nil {
		return err
	}

	v, err := g.SetView(logWidgetName, 0, origin+1, maxWidth-1, maxHeight-1)
	if err != nil && err != gocui.ErrUnknownView {
		return err
	}

	v.Title = "Activity"
	v.Wrap = true
	v.Autoscroll = true

	return nil
}

func relativeTo(g *gocui.Gui, view string, height int) (int, int, int, int, error) {
	maxWidth, _ := g.Size()

	_, _, _, origin, err := g.ViewPosition(view)
	if err != nil {
		return 0, 0, 0, 0, err
	}

	top := origin + 1
	return 0, top, maxWidth - 1, top + height + 1, nil
}

// copyToView writes the messages in `stream` into the desired `view` in
// `gui`. It guarantees writes occur in the order of messages in `stream`.
func copyToView(gui *gocui.Gui, view string, stream chanWriter) {
	for b := range stream {
		b := b
		done := make(chan struct{})
		gui.Update(func(gui *gocui.Gui) error {
			defer close(done)
			v, err := gui.View(view)
			if err != nil {
				return err
			}

			if _, err := v.Write(b); err != nil {
				return err
			}
			return nil
		})
		<-done
	}
}
