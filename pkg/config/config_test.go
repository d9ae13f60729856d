package config

import (
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"

	"github.com/saveguard/saveguard/pkg/errors"
)

func TestParse(t *testing.T) {
	path := "saveguard.conf"
	validConfig := "baseSaveName = Save\n" +
		"googleDriveFolder = /drive/MyGame\n" +
		"steamSaveFolder = /steam/userdata/MyGame\n" +
		"healthCheckInterval = 5\n" +
		"gameProcessName = MyGame.exe\n" +
		"gameLaunchUri = steam://rungameid/413150\n"

	tests := []struct {
		name      string
		input     string
		expConfig Config
		expError  error
	}{
		{
			name:  "Valid",
			input: validConfig,
			expConfig: Config{
				BaseSaveName: "Save",
				CloudFolder:  "/drive/MyGame",
				LocalFolder:  "/steam/userdata/MyGame",
				Interval:     5 * time.Second,
				ProcessName:  "MyGame.exe",
				LaunchURI:    "steam://rungameid/413150",
			},
		},
		{
			name: "WhitespaceAndComments",
			input: "# saveguard settings\n" +
				"\n" +
				"baseSaveName=Save\n" +
				"  googleDriveFolder   =  /drive/MyGame  \n" +
				"steamSaveFolder = /steam/userdata/MyGame\n" +
				"healthCheckInterval = 5\n" +
				"gameProcessName = MyGame.exe\n" +
				"gameLaunchUri = steam://rungameid/413150\n",
			expConfig: Config{
				BaseSaveName: "Save",
				CloudFolder:  "/drive/MyGame",
				LocalFolder:  "/steam/userdata/MyGame",
				Interval:     5 * time.Second,
				ProcessName:  "MyGame.exe",
				LaunchURI:    "steam://rungameid/413150",
			},
		},
		{
			name: "RepeatedKeyLastWins",
			input: validConfig +
				"healthCheckInterval = 30\n",
			expConfig: Config{
				BaseSaveName: "Save",
				CloudFolder:  "/drive/MyGame",
				LocalFolder:  "/steam/userdata/MyGame",
				Interval:     30 * time.Second,
				ProcessName:  "MyGame.exe",
				LaunchURI:    "steam://rungameid/413150",
			},
		},
		{
			name: "MissingKey",
			input: "baseSaveName = Save\n" +
				"googleDriveFolder = /drive/MyGame\n" +
				"steamSaveFolder = /steam/userdata/MyGame\n" +
				"healthCheckInterval = 5\n" +
				"gameLaunchUri = steam://rungameid/413150\n",
			expError: errors.MissingFieldError{Field: KeyProcessName},
		},
		{
			name: "EmptyValueCountsAsMissing",
			input: validConfig +
				"gameProcessName =\n",
			expError: errors.MissingFieldError{Field: KeyProcessName},
		},
		{
			name: "IntervalNotAnInteger",
			input: validConfig +
				"healthCheckInterval = soon\n",
			expError: errors.NewFriendlyError(
				"The %q setting must be a positive whole number of seconds, "+
					"but %q contains %q.", KeyInterval, path, "soon"),
		},
		{
			name: "IntervalNotPositive",
			input: validConfig +
				"healthCheckInterval = 0\n",
			expError: errors.NewFriendlyError(
				"The %q setting must be a positive whole number of seconds, "+
					"but %q contains %q.", KeyInterval, path, "0"),
		},
	}

	for _, test := range tests {
		fs = afero.NewMemMapFs()
		assert.NoError(t, afero.WriteFile(fs, path, []byte(test.input), 0644))

		config, err := Parse(path)
		assert.Equal(t, test.expConfig, config, test.name)
		assert.Equal(t, test.expError, err, test.name)
	}
}

func TestParseMissingFile(t *testing.T) {
	fs = afero.NewMemMapFs()

	_, err := Parse("does-not-exist.conf")
	assert.Equal(t, errors.FileNotFound{Path: "does-not-exist.conf"}, err)
}

func TestParseExpandsHomedir(t *testing.T) {
	path := "saveguard.conf"
	fs = afero.NewMemMapFs()
	homedirExpand = func(p string) (string, error) {
		if len(p) > 0 && p[0] == '~' {
			return "/home/player" + p[1:], nil
		}
		return p, nil
	}
	defer func() { homedirExpand = func(p string) (string, error) { return p, nil } }()

	input := "baseSaveName = Save\n" +
		"googleDriveFolder = ~/drive/MyGame\n" +
		"steamSaveFolder = ~/steam/MyGame\n" +
		"healthCheckInterval = 5\n" +
		"gameProcessName = MyGame.exe\n" +
		"gameLaunchUri = steam://rungameid/413150\n"
	assert.NoError(t, afero.WriteFile(fs, path, []byte(input), 0644))

	config, err := Parse(path)
	assert.NoError(t, err)
	assert.Equal(t, "/home/player/drive/MyGame", config.CloudFolder)
	assert.Equal(t, "/home/player/steam/MyGame", config.LocalFolder)
}

func TestDefaultPath(t *testing.T) {
	executablePath = func() (string, error) {
		return "/opt/saveguard/saveguard", nil
	}

	path, err := DefaultPath()
	assert.NoError(t, err)
	assert.Equal(t, "/opt/saveguard/saveguard.conf", path)
}
