package commands

import (
	"github.com/spf13/cobra"

	"github.com/wildintel/trapper-client/internal/constants"
)

// NewVersionCommand creates the version command.
func NewVersionCommand(version, commit, date string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Display version information",
		Long:  "Display detailed version information about the trapper CLI",
		RunE: func(cmd *cobra.Command, args []string) error {
			type VersionInfo struct {
				Version string `json:"version" yaml:"version"`
				Commit  string `json:"commit"  yaml:"commit"`
				Built   string `json:"built"   yaml:"built"`
				Client  string `json:"client"  yaml:"client"`
			}

			info := VersionInfo{
				Version: version,
				Commit:  commit,
				Built:   date,
				Client:  constants.Version,
			}

			return renderValue(cmd, info, [][2]string{
				{"Version", info.Version},
				{"Commit", info.Commit},
				{"Built", info.Built},
				{"Client library", info.Client},
			})
		},
	}
}
