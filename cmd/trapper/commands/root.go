// Package commands implements the trapper command line interface.
package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/wildintel/trapper-client/internal/constants"
	"github.com/wildintel/trapper-client/pkg/logging"
)

// NewRootCommand creates the trapper command with every subcommand attached.
// Flags are bound to the global viper instance.
func NewRootCommand(version, commit, date string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "trapper",
		Short: "Trapper camera trap API CLI",
		Long: `A command-line interface for the Trapper camera trap data API.

It lists locations, deployments, projects, collections, media and
classification results, downloads CSV exports and generates data packages.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringP("config", "c", "", "config file (default is $HOME/.trapper/config.yml)")
	flags.StringP("url", "u", constants.DefaultBaseURL, "Trapper server URL")
	flags.StringP("token", "t", "", "API access token")
	flags.String("username", "", "username for basic authentication")
	flags.StringP("output", "o", OutputFormatTable, "output format (table, json, yaml)")
	flags.BoolP("verbose", "v", false, "log HTTP requests and responses")
	flags.Bool("skip-tls-verify", false, "skip TLS certificate validation")
	flags.Float64("rate-limit", 0, "maximum requests per second (0 for unlimited)")
	flags.Int("retries", 0, "retries for connection errors, 429 and 5xx responses")

	_ = viper.BindPFlag("config", flags.Lookup("config"))
	_ = viper.BindPFlag(keyURL, flags.Lookup("url"))
	_ = viper.BindPFlag(keyToken, flags.Lookup("token"))
	_ = viper.BindPFlag(keyUsername, flags.Lookup("username"))
	_ = viper.BindPFlag(keyOutput, flags.Lookup("output"))
	_ = viper.BindPFlag(keyVerbose, flags.Lookup("verbose"))
	_ = viper.BindPFlag(keySkipTLSVerify, flags.Lookup("skip-tls-verify"))
	_ = viper.BindPFlag(keyRateLimit, flags.Lookup("rate-limit"))
	_ = viper.BindPFlag(keyRetries, flags.Lookup("retries"))

	rootCmd.AddCommand(NewVersionCommand(version, commit, date))
	rootCmd.AddCommand(NewConfigCommand())
	rootCmd.AddCommand(NewLoginCommand())
	rootCmd.AddCommand(NewLocationsCommand())
	rootCmd.AddCommand(NewDeploymentsCommand())
	rootCmd.AddCommand(NewProjectsCommand())
	rootCmd.AddCommand(NewClassificatorsCommand())
	rootCmd.AddCommand(NewCollectionsCommand())
	rootCmd.AddCommand(NewResourcesCommand())
	rootCmd.AddCommand(NewMediaCommand())
	rootCmd.AddCommand(NewResultsCommand())
	rootCmd.AddCommand(NewPackagesCommand())

	return rootCmd
}

func initConfig(cmd *cobra.Command) error {
	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get user home directory: %w", err)
		}

		viper.AddConfigPath(filepath.Join(home, ".trapper"))
		viper.SetConfigType("yml")
		viper.SetConfigName("config")
	}

	// TRAPPER_URL, TRAPPER_TOKEN, ... override the file.
	viper.SetEnvPrefix("TRAPPER")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	// The password is only ever read from the environment.
	_ = viper.BindEnv(keyPassword, "TRAPPER_USER_PASSWORD")
	_ = viper.BindEnv(keyToken, "TRAPPER_TOKEN", "TRAPPER_ACCESS_TOKEN")
	_ = viper.BindEnv(keyUsername, "TRAPPER_USERNAME", "TRAPPER_USER_NAME")

	level := logging.LevelWarn
	if viper.GetBool(keyVerbose) {
		level = logging.LevelDebug
	}

	logging.Setup(logging.Config{Level: level, Pretty: true, Output: cmd.ErrOrStderr()})

	if err := viper.ReadInConfig(); err == nil {
		logging.NewLogger("cli").Debug().Str("file", viper.ConfigFileUsed()).Msg("using config file")
	}

	return nil
}
