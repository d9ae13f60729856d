// Package save locates a game's save files on disk. References are sourced
// fresh from the filesystem on every scan and never cached, since both the
// game and the external cloud-sync client can write saves behind our back.
package save

import (
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/afero"

	"github.com/saveguard/saveguard/pkg/errors"
)

// File is a reference to a save file on disk.
type File struct {
	// Path is the full path to the file.
	Path string

	// Name is the file's base name, e.g. "Save1.sav".
	Name string

	// ModTime is the file's last-write time, which is what the sync logic
	// compares. The file contents are never inspected.
	ModTime time.Time
}

// List returns the files in `dir` whose names match `{baseName}*.sav`,
// ordered newest-first by last-write time. Ties are broken by name so the
// ordering is deterministic. A missing or empty directory yields an empty
// list rather than an error.
func List(fs afero.Fs, dir, baseName string) ([]File, error) {
	infos, err := afero.ReadDir(fs, dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.WithContext(err, "read folder")
	}

	pattern := baseName + "*.sav"
	var files []File
	for _, info := range infos {
		if info.IsDir() {
			continue
		}

		matched, err := filepath.Match(pattern, info.Name())
		if err != nil {
			return nil, errors.WithContext(err, "match save name")
		}
		if !matched {
			continue
		}

		files = append(files, File{
			Path:    filepath.Join(dir, info.Name()),
			Name:    info.Name(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		if !files[i].ModTime.Equal(files[j].ModTime) {
			return files[i].ModTime.After(files[j].ModTime)
		}
		return files[i].Name < files[j].Name
	})
	return files, nil
}

// Newest returns the most recently written save in `dir`, if there is one.
func Newest(fs afero.Fs, dir, baseName string) (File, bool, error) {
	files, err := List(fs, dir, baseName)
	if err != nil {
		return File{}, false, err
	}
	if len(files) == 0 {
		return File{}, false, nil
	}
	return files[0], true, nil
}
