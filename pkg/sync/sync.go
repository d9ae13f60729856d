// Package sync keeps the newest save consistent between the game's local
// save folder and the cloud-mirrored folder. Only filesystem timestamps are
// compared; save contents are opaque.
package sync

import (
	"io"
	"path/filepath"
	"time"

	"github.com/spf13/afero"

	"github.com/saveguard/saveguard/pkg/config"
	"github.com/saveguard/saveguard/pkg/errors"
	"github.com/saveguard/saveguard/pkg/save"
)

// Mocked out for unit testing.
var fs = afero.NewOsFs()

// ErrNoSaves is returned when neither the local nor the cloud folder
// contains a matching save file.
var ErrNoSaves = errors.New("no save files found in either folder")

// Action describes what the pre-launch sync decided to do.
type Action string

const (
	// ActionNone means the local folder was already up to date.
	ActionNone Action = "none"

	// ActionPull means the newest cloud save was copied into the local
	// folder.
	ActionPull Action = "pull"
)

// Sync compares the newest local and cloud saves by last-write time and
// pulls the cloud copy into the local folder when it's strictly newer (or
// when there's no local save at all). Saves are never pushed here; the
// unconditional backup is what carries local saves into the cloud folder.
func Sync(cfg config.Config) (Action, error) {
	local, localOK, err := save.Newest(fs, cfg.LocalFolder, cfg.BaseSaveName)
	if err != nil {
		return ActionNone, errors.WithContext(err, "scan local folder")
	}

	cloud, cloudOK, err := save.Newest(fs, cfg.CloudFolder, cfg.BaseSaveName)
	if err != nil {
		return ActionNone, errors.WithContext(err, "scan cloud folder")
	}

	switch {
	case !localOK && !cloudOK:
		return ActionNone, ErrNoSaves
	case !cloudOK:
		// Nothing to pull.
		return ActionNone, nil
	case localOK && !local.ModTime.Before(cloud.ModTime):
		// The local save is at least as new as the cloud one.
		return ActionNone, nil
	}

	dst := filepath.Join(cfg.LocalFolder, cloud.Name)
	if err := copyFile(cloud.Path, dst, cloud.ModTime); err != nil {
		return ActionNone, errors.WithContext(err, "pull cloud save")
	}
	return ActionPull, nil
}

// copyFile overwrites dst with the contents of src and stamps it with
// modTime, so that a copied save compares equal to its source on the next
// run. The copy is a plain overwrite, not a temp-file-and-rename: a crash
// mid-copy can leave a truncated destination.
func copyFile(src, dst string, modTime time.Time) error {
	in, err := fs.Open(src)
	if err != nil {
		return errors.WithContext(err, "open source")
	}
	defer in.Close()

	if err := fs.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return errors.WithContext(err, "make destination folder")
	}

	out, err := fs.Create(dst)
	if err != nil {
		return errors.WithContext(err, "create destination")
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return errors.WithContext(err, "copy contents")
	}
	if err := out.Close(); err != nil {
		return errors.WithContext(err, "flush destination")
	}

	if err := fs.Chtimes(dst, modTime, modTime); err != nil {
		return errors.WithContext(err, "set modified time")
	}
	return nil
}
