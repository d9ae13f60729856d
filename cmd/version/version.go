package version

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/saveguard/saveguard/pkg/version"
)

// New creates a new `version` command.
func New() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the saveguard version.",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("saveguard version: %s\n", version.Version)
		},
	}
}
