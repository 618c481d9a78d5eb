package commands

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/wildintel/trapper-client/pkg/trapper"
)

// NewLoginCommand creates the login command.
func NewLoginCommand() *cobra.Command {
	var token string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Save an API token",
		Long: `Verify an API token against the server and save it, together with the
server URL, to the configuration file. The token is prompted for when not
given with --token.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if token == "" {
				token = viper.GetString(keyToken)
			}

			if token == "" {
				read, err := promptSecret(cmd, "API token: ")
				if err != nil {
					return err
				}

				token = read
			}

			if token == "" {
				return ErrTokenRequired
			}

			viper.Set(keyToken, token)

			client, err := newClient(cmd.Context())
			if err != nil {
				return err
			}

			projects, err := client.ResearchProjects().Get(cmd.Context(), trapper.Query{trapper.PageSizeKey: 1})
			if err != nil {
				return fmt.Errorf("failed to verify token: %w", err)
			}

			stored := loadStoredConfig()
			stored.URL = viper.GetString(keyURL)
			stored.Token = token

			path, err := saveConfig(stored)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Logged in to %s (%d research projects visible)\nSaved to %s\n",
				stored.URL, projects.Pagination.Count, path)

			return nil
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "API access token")

	return cmd
}

// promptSecret reads a line without echo when stdin is a terminal.
func promptSecret(cmd *cobra.Command, prompt string) (string, error) {
	_, _ = fmt.Fprint(cmd.ErrOrStderr(), prompt)

	fd := int(os.Stdin.Fd()) // #nosec G115 -- file descriptors fit in int
	if term.IsTerminal(fd) {
		secret, err := term.ReadPassword(fd)

		_, _ = fmt.Fprintln(cmd.ErrOrStderr())

		if err != nil {
			return "", fmt.Errorf("failed to read token: %w", err)
		}

		return strings.TrimSpace(string(secret)), nil
	}

	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read token: %w", err)
	}

	return strings.TrimSpace(line), nil
}
