package run

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/jonboulle/clockwork"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/saveguard/saveguard/cmd/util"
	"github.com/saveguard/saveguard/pkg/config"
	"github.com/saveguard/saveguard/pkg/errors"
	"github.com/saveguard/saveguard/pkg/fswatch"
	"github.com/saveguard/saveguard/pkg/launch"
	"github.com/saveguard/saveguard/pkg/proc"
	"github.com/saveguard/saveguard/pkg/sync"
)

type runCmd struct {
	cfg         config.Config
	waitTimeout time.Duration
	gui         statusGUI
	clock       clockwork.Clock
}

// chanWriter provides an io.Writer interface for writing to a channel.
type chanWriter chan []byte

func (w chanWriter) Write(p []byte) (int, error) {
	cpy := make([]byte, len(p))
	copy(cpy, p)
	w <- cpy
	return len(p), nil
}

// New creates a new `run` command.
func New() *cobra.Command {
	var configPath string
	var disableGUI bool
	var waitTimeout time.Duration
	cobraCmd := &cobra.Command{
		Use:   "run",
		Short: "Sync saves, launch the game, and sync again when it exits",
		Long: `Pull the newest save from the cloud folder, write a timestamped backup,
launch the game, and wait for it to exit. While the game runs, a status
window shows save activity. After exit, the newest cloud save is marked so
the external cloud-sync client uploads it.`,
		Run: func(_ *cobra.Command, _ []string) {
			if configPath == "" {
				var err error
				configPath, err = config.DefaultPath()
				if err != nil {
					util.HandleFatalError(errors.WithContext(err, "locate config"))
				}
			}

			cfg, err := config.Parse(configPath)
			if err != nil {
				util.HandleFatalError(friendlyConfigError(err, configPath))
			}

			cmd := runCmd{
				cfg:         cfg,
				waitTimeout: waitTimeout,
				clock:       clockwork.NewRealClock(),
			}
			if disableGUI {
				cmd.gui = newNoOutputGUI()
			} else {
				cmd.gui = newStatusGUI(cfg)
			}

			if err := cmd.run(); err != nil {
				util.HandleFatalError(err)
			}
		},
	}
	cobraCmd.Flags().StringVar(&configPath, "config", "",
		"Path to the config file. Defaults to saveguard.conf next to the binary.")
	cobraCmd.Flags().BoolVar(&disableGUI, "no-gui", false,
		"Disable the status window and log to the terminal instead.")
	cobraCmd.Flags().DurationVar(&waitTimeout, "wait-timeout", 0,
		"Give up waiting for the game to start or exit after this long. 0 waits forever.")
	return cobraCmd
}

// friendlyConfigError rewrites config parse failures into messages that tell
// the user what to fix.
func friendlyConfigError(err error, path string) error {
	switch cause := errors.RootCause(err).(type) {
	case errors.FileNotFound:
		return errors.NewFriendlyError("No config file found at %q.\n"+
			"Create it with one `key = value` setting per line. The required "+
			"settings are:\n"+
			"  %s, %s, %s,\n"+
			"  %s, %s, %s",
			cause.Path,
			config.KeyBaseSaveName, config.KeyCloudFolder, config.KeyLocalFolder,
			config.KeyInterval, config.KeyProcessName, config.KeyLaunchURI)
	case errors.MissingFieldError:
		return errors.NewFriendlyError(
			"The config file %q is missing the %q setting.", path, cause.Field)
	default:
		return errors.WithContext(err, "parse config")
	}
}

func (rc runCmd) run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Ctrl-C aborts the waits rather than leaving the tool blocked forever.
	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, os.Interrupt)
	defer signal.Stop(interrupts)
	go func() {
		defer util.HandlePanic()
		<-interrupts
		cancel()
	}()

	action, err := sync.Sync(rc.cfg)
	if err != nil {
		if errors.RootCause(err) == sync.ErrNoSaves {
			return errors.NewFriendlyError("No save files matching %q were found "+
				"in %q or %q.\nCheck the %s, %s, and %s settings.",
				rc.cfg.BaseSaveName+"*.sav", rc.cfg.LocalFolder, rc.cfg.CloudFolder,
				config.KeyBaseSaveName, config.KeyLocalFolder, config.KeyCloudFolder)
		}
		return errors.WithContext(err, "sync saves")
	}

	switch action {
	case sync.ActionPull:
		log.Info("Pulled the newer cloud save into the local save folder")
	default:
		log.Info("Local saves are already up to date")
	}

	backupPath, err := sync.Backup(rc.cfg, rc.clock)
	switch {
	case err == nil:
		log.WithField("path", backupPath).Info("Wrote save backup")
	case errors.RootCause(err) == sync.ErrNothingToBackup:
		log.Warn("No local save to back up. Skipping the backup step.")
	default:
		return errors.WithContext(err, "back up save")
	}

	log.WithField("uri", rc.cfg.LaunchURI).Info("Launching game")
	if err := launch.Start(rc.cfg.LaunchURI); err != nil {
		// The watcher below is what decides whether the game actually came
		// up, so a failed handler invocation is only worth a warning.
		log.WithError(err).Warn("Failed to invoke the launch handler")
	}

	waiter := proc.Waiter{
		Clock:    rc.clock,
		Interval: rc.cfg.Interval,
		Timeout:  rc.waitTimeout,
	}

	log.WithField("process", rc.cfg.ProcessName).Info("Waiting for the game to start")
	if err := waiter.Wait(ctx, rc.cfg.ProcessName, true); err != nil {
		return friendlyWaitError(err, rc.cfg.ProcessName, "start")
	}

	if err := rc.waitForExit(ctx, waiter); err != nil {
		return err
	}

	touched, err := sync.TouchNewestCloud(rc.cfg, rc.clock)
	if err != nil {
		return errors.WithContext(err, "mark cloud save for upload")
	}
	if touched {
		log.Info("Marked the newest cloud save for upload")
	} else {
		log.Warn("No cloud save found to mark for upload")
	}

	log.Info("Done. Play again soon!")
	return nil
}

// waitForExit runs the status window while polling for the game process to
// disappear.
func (rc runCmd) waitForExit(ctx context.Context, waiter proc.Waiter) error {
	guiLogger := rc.gui.GetLogger()
	guiLogger.WithField("process", rc.cfg.ProcessName).Info("Game is running")

	watchCtx, stopWatching := context.WithCancel(ctx)
	defer stopWatching()
	go func() {
		defer util.HandlePanic()
		rc.logSaveWrites(watchCtx, guiLogger)
	}()

	waitErr := make(chan error, 1)
	go func() {
		defer util.HandlePanic()
		waitErr <- waiter.Wait(ctx, rc.cfg.ProcessName, false)
		rc.gui.Stop()
	}()

	if err := rc.gui.Run(); err != nil {
		return errors.WithContext(err, "run status window")
	}

	select {
	case err := <-waitErr:
		if err != nil {
			return friendlyWaitError(err, rc.cfg.ProcessName, "exit")
		}
		log.Info("Game exited")
		return nil
	default:
		// The window was closed before the game exited.
		return errors.NewFriendlyError("Interrupted while %q was still running. "+
			"Saves will be synced on the next run.", rc.cfg.ProcessName)
	}
}

// logSaveWrites surfaces save-file writes in the status window while the
// game runs. This is purely informational, so any watcher problem just
// disables it.
func (rc runCmd) logSaveWrites(ctx context.Context, logger *log.Logger) {
	writes, closeWatcher, err := fswatch.Watch(rc.cfg.LocalFolder)
	if err != nil {
		logger.WithError(err).Debug("Not watching the local save folder")
		return
	}
	defer closeWatcher()

	pattern := rc.cfg.BaseSaveName + "*.sav"
	for {
		select {
		case <-ctx.Done():
			return
		case name, ok := <-writes:
			if !ok {
				return
			}
			if matched, _ := filepath.Match(pattern, name); matched {
				logger.WithField("file", name).Info("Local save updated")
			}
		}
	}
}

func friendlyWaitError(err error, processName, state string) error {
	switch errors.RootCause(err) {
	case proc.ErrWaitTimeout:
		return errors.NewFriendlyError("Gave up waiting for %q to %s.\n"+
			"If the game is actually running, check the %s setting against "+
			"the name in your task manager.",
			processName, state, config.KeyProcessName)
	case context.Canceled:
		return errors.NewFriendlyError(
			"Interrupted while waiting for %q to %s.", processName, state)
	default:
		return errors.WithContext(err, "wait for game "+state)
	}
}
