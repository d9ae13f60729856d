package sync

import (
	"fmt"
	"path/filepath"

	"github.com/jonboulle/clockwork"

	"github.com/saveguard/saveguard/pkg/config"
	"github.com/saveguard/saveguard/pkg/errors"
	"github.com/saveguard/saveguard/pkg/save"
)

// backupTimeLayout produces names like Save_Backup_20240101_153000.sav.
const backupTimeLayout = "20060102_150405"

// ErrNothingToBackup is returned when the local folder has no save to back
// up. Callers are expected to warn and carry on rather than abort.
var ErrNothingToBackup = errors.New("no local save to back up")

// Backup copies the newest local save into the cloud folder under a
// timestamped name. It runs unconditionally after sync resolution, so every
// successful run leaves exactly one new backup artifact behind. The backup
// keeps the source's last-write time; only its name carries the backup
// timestamp.
func Backup(cfg config.Config, clock clockwork.Clock) (string, error) {
	newest, ok, err := save.Newest(fs, cfg.LocalFolder, cfg.BaseSaveName)
	if err != nil {
		return "", errors.WithContext(err, "scan local folder")
	}
	if !ok {
		return "", ErrNothingToBackup
	}

	name := fmt.Sprintf("%s_Backup_%s.sav",
		cfg.BaseSaveName, clock.Now().Format(backupTimeLayout))
	dst := filepath.Join(cfg.CloudFolder, name)
	if err := copyFile(newest.Path, dst, newest.ModTime); err != nil {
		return "", errors.WithContext(err, "write backup")
	}
	return dst, nil
}

// TouchNewestCloud bumps the last-write time of the newest cloud save to
// "now" without changing its contents. The actual upload is done by the
// external cloud-sync client; the fresh timestamp is a nudge for it to pick
// the file up as changed. Returns false when there's no cloud save to touch.
func TouchNewestCloud(cfg config.Config, clock clockwork.Clock) (bool, error) {
	newest, ok, err := save.Newest(fs, cfg.CloudFolder, cfg.BaseSaveName)
	if err != nil {
		return false, errors.WithContext(err, "scan cloud folder")
	}
	if !ok {
		return false, nil
	}

	now := clock.Now()
	if err := fs.Chtimes(newest.Path, now, now); err != nil {
		return false, errors.WithContext(err, "set modified time")
	}
	return true, nil
}
