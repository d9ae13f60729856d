// Package configcmd implements the `config` command, which validates the
// config file and prints the effective settings.
package configcmd

import (
	"fmt"

	"github.com/ghodss/yaml"
	"github.com/spf13/cobra"

	"github.com/saveguard/saveguard/cmd/util"
	"github.com/saveguard/saveguard/pkg/config"
	"github.com/saveguard/saveguard/pkg/errors"
)

// New creates a new `config` command.
func New() *cobra.Command {
	var configPath string
	cobraCmd := &cobra.Command{
		Use:   "config",
		Short: "Validate the config file and print the effective settings",
		Run: func(_ *cobra.Command, _ []string) {
			if configPath == "" {
				var err error
				configPath, err = config.DefaultPath()
				if err != nil {
					util.HandleFatalError(errors.WithContext(err, "locate config"))
				}
			}

			if err := run(configPath); err != nil {
				util.HandleFatalError(err)
			}
		},
	}
	cobraCmd.Flags().StringVar(&configPath, "config", "",
		"Path to the config file. Defaults to saveguard.conf next to the binary.")
	return cobraCmd
}

// display mirrors config.Config with the on-disk setting names, so the
// printed output matches what users write in the file.
type display struct {
	BaseSaveName        string `json:"baseSaveName"`
	GoogleDriveFolder   string `json:"googleDriveFolder"`
	SteamSaveFolder     string `json:"steamSaveFolder"`
	HealthCheckInterval string `json:"healthCheckInterval"`
	GameProcessName     string `json:"gameProcessName"`
	GameLaunchURI       string `json:"gameLaunchUri"`
}

func run(path string) error {
	cfg, err := config.Parse(path)
	if err != nil {
		switch cause := errors.RootCause(err).(type) {
		case errors.FileNotFound:
			return errors.NewFriendlyError("No config file found at %q.", cause.Path)
		case errors.MissingFieldError:
			return errors.NewFriendlyError(
				"The config file %q is missing the %q setting.", path, cause.Field)
		default:
			return errors.WithContext(err, "parse config")
		}
	}

	out, err := yaml.Marshal(display{
		BaseSaveName:        cfg.BaseSaveName,
		GoogleDriveFolder:   cfg.CloudFolder,
		SteamSaveFolder:     cfg.LocalFolder,
		HealthCheckInterval: cfg.Interval.String(),
		GameProcessName:     cfg.ProcessName,
		GameLaunchURI:       cfg.LaunchURI,
	})
	if err != nil {
		return errors.WithContext(err, "marshal")
	}

	fmt.Printf("Config at %q is valid:\n\n%s", path, out)
	return nil
}
