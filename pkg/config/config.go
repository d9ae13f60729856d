package config

import (
	"bufio"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	homedir "github.com/mitchellh/go-homedir"

	"github.com/saveguard/saveguard/pkg/errors"
)

// The config file uses one `key = value` setting per line. These are the
// setting names, kept compatible with the original tool's config files.
const (
	KeyBaseSaveName = "baseSaveName"
	KeyCloudFolder  = "googleDriveFolder"
	KeyLocalFolder  = "steamSaveFolder"
	KeyInterval     = "healthCheckInterval"
	KeyProcessName  = "gameProcessName"
	KeyLaunchURI    = "gameLaunchUri"
)

// requiredKeys are the settings that must be present and non-empty.
var requiredKeys = []string{
	KeyBaseSaveName,
	KeyCloudFolder,
	KeyLocalFolder,
	KeyInterval,
	KeyProcessName,
	KeyLaunchURI,
}

// DefaultFileName is the config file we look for next to the saveguard
// binary when --config isn't given.
const DefaultFileName = "saveguard.conf"

// Config contains everything needed for one sync-launch-resync run. It's
// constructed once at startup and passed by value into each component.
type Config struct {
	// BaseSaveName is the filename prefix that identifies this game's save
	// files among others in a shared folder.
	BaseSaveName string

	// CloudFolder is the directory mirrored by the external cloud-sync
	// client. saveguard only ever reads and writes local files there.
	CloudFolder string

	// LocalFolder is the directory the game itself writes saves into.
	LocalFolder string

	// Interval is the poll period used for both the launch-detection and
	// exit-detection loops.
	Interval time.Duration

	// ProcessName is the executable name to look for in the process table.
	ProcessName string

	// LaunchURI is handed to the OS URI handler to start the game, e.g.
	// steam://rungameid/413150.
	LaunchURI string
}

// homedirExpand will be overridden in mock tests.
var homedirExpand = homedir.Expand

// executablePath will be overridden in mock tests.
var executablePath = os.Executable

// DefaultPath returns the path of the config file expected next to the
// saveguard binary.
func DefaultPath() (string, error) {
	exe, err := executablePath()
	if err != nil {
		return "", errors.WithContext(err, "locate executable")
	}
	return filepath.Join(filepath.Dir(exe), DefaultFileName), nil
}

// Parse reads and validates the config file at `path`.
func Parse(path string) (Config, error) {
	values, err := parseFile(path)
	if err != nil {
		return Config{}, err
	}

	for _, key := range requiredKeys {
		if values[key] == "" {
			return Config{}, errors.MissingFieldError{Field: key}
		}
	}

	seconds, err := strconv.Atoi(values[KeyInterval])
	if err != nil || seconds <= 0 {
		return Config{}, errors.NewFriendlyError(
			"The %q setting must be a positive whole number of seconds, "+
				"but %q contains %q.", KeyInterval, path, values[KeyInterval])
	}

	cloudFolder, err := homedirExpand(values[KeyCloudFolder])
	if err != nil {
		return Config{}, errors.WithContext(err, "expand cloud folder path")
	}

	localFolder, err := homedirExpand(values[KeyLocalFolder])
	if err != nil {
		return Config{}, errors.WithContext(err, "expand local folder path")
	}

	return Config{
		BaseSaveName: values[KeyBaseSaveName],
		CloudFolder:  cloudFolder,
		LocalFolder:  localFolder,
		Interval:     time.Duration(seconds) * time.Second,
		ProcessName:  values[KeyProcessName],
		LaunchURI:    values[KeyLaunchURI],
	}, nil
}

// parseFile reads the `key = value` lines in the config file. Whitespace
// around keys and values is ignored, as are blank lines and lines starting
// with '#'. If a key repeats, the last occurrence wins.
func parseFile(path string) (map[string]string, error) {
	f, err := fs.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.FileNotFound{Path: path}
		}
		return nil, errors.WithContext(err, "open config")
	}
	defer f.Close()

	values := map[string]string{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		sep := strings.Index(line, "=")
		if sep < 0 {
			continue
		}

		key := strings.TrimSpace(line[:sep])
		value := strings.TrimSpace(line[sep+1:])
		if key == "" {
			continue
		}
		values[key] = value
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.WithContext(err, "read config")
	}
	return values, nil
}
