package save

import (
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestList(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeSave(t, fs, "/saves/Save1.sav", "one", date(10, 0))
	writeSave(t, fs, "/saves/Save2.sav", "two", date(12, 0))
	writeSave(t, fs, "/saves/Save_Backup_20240101_090000.sav", "backup", date(9, 0))

	// Files that don't match {baseName}*.sav should be ignored.
	writeSave(t, fs, "/saves/Other1.sav", "other", date(13, 0))
	writeSave(t, fs, "/saves/Save1.bak", "bak", date(13, 0))
	require.NoError(t, fs.Mkdir("/saves/Save-dir.sav", 0755))

	files, err := List(fs, "/saves", "Save")
	require.NoError(t, err)

	var names []string
	for _, f := range files {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{
		"Save2.sav",
		"Save1.sav",
		"Save_Backup_20240101_090000.sav",
	}, names)

	assert.Equal(t, "/saves/Save2.sav", files[0].Path)
	assert.True(t, files[0].ModTime.Equal(date(12, 0)))
}

func TestListTiesBrokenByName(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeSave(t, fs, "/saves/Save2.sav", "two", date(10, 0))
	writeSave(t, fs, "/saves/Save1.sav", "one", date(10, 0))

	files, err := List(fs, "/saves", "Save")
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "Save1.sav", files[0].Name)
	assert.Equal(t, "Save2.sav", files[1].Name)
}

func TestListMissingOrEmptyDir(t *testing.T) {
	fs := afero.NewMemMapFs()

	files, err := List(fs, "/does-not-exist", "Save")
	assert.NoError(t, err)
	assert.Empty(t, files)

	require.NoError(t, fs.Mkdir("/empty", 0755))
	files, err = List(fs, "/empty", "Save")
	assert.NoError(t, err)
	assert.Empty(t, files)
}

func TestNewest(t *testing.T) {
	fs := afero.NewMemMapFs()

	_, ok, err := Newest(fs, "/saves", "Save")
	assert.NoError(t, err)
	assert.False(t, ok)

	writeSave(t, fs, "/saves/Save1.sav", "one", date(10, 0))
	writeSave(t, fs, "/saves/Save2.sav", "two", date(12, 0))

	newest, ok, err := Newest(fs, "/saves", "Save")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Save2.sav", newest.Name)
}

func writeSave(t *testing.T, fs afero.Fs, path, contents string, modTime time.Time) {
	require.NoError(t, afero.WriteFile(fs, path, []byte(contents), 0644))
	require.NoError(t, fs.Chtimes(path, modTime, modTime))
}

func date(hour, min int) time.Time {
	return time.Date(2024, 1, 1, hour, min, 0, 0, time.UTC)
}
