package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/wildintel/trapper-client/internal/constants"
	"github.com/wildintel/trapper-client/pkg/logging"
	"github.com/wildintel/trapper-client/pkg/trapper"
	"github.com/wildintel/trapper-client/pkg/trapperclient"
)

// Config keys. Each is also read from TRAPPER_<KEY> and the matching flag.
const (
	keyURL           = "url"
	keyToken         = "token"
	keyUsername      = "username"
	keyPassword      = "password"
	keyOutput        = "output"
	keyVerbose       = "verbose"
	keySkipTLSVerify = "skip_tls_verify"
	keyRateLimit     = "rate_limit"
	keyRetries       = "retries"
)

var (
	ErrUnknownConfigKey = errors.New("unknown configuration key")
	ErrInvalidFilter    = errors.New("filter must be given as field=value")
	ErrTokenRequired    = errors.New("an API token is required")
	ErrProjectRequired  = errors.New("classification project is required (use --project)")
)

// Config is the persisted CLI configuration.
type Config struct {
	URL           string  `json:"url,omitempty"             yaml:"url,omitempty"`
	Token         string  `json:"token,omitempty"           yaml:"token,omitempty"`
	Username      string  `json:"username,omitempty"        yaml:"username,omitempty"`
	Output        string  `json:"output,omitempty"          yaml:"output,omitempty"`
	SkipTLSVerify bool    `json:"skip_tls_verify,omitempty" yaml:"skip_tls_verify,omitempty"`
	RateLimit     float64 `json:"rate_limit,omitempty"      yaml:"rate_limit,omitempty"`
	Retries       int     `json:"retries,omitempty"         yaml:"retries,omitempty"`
}

// settableKeys are the keys accepted by "config set".
var settableKeys = map[string]func(*Config, string) error{
	keyURL:      func(c *Config, v string) error { c.URL = v; return nil },
	keyToken:    func(c *Config, v string) error { c.Token = v; return nil },
	keyUsername: func(c *Config, v string) error { c.Username = v; return nil },
	keyOutput:   func(c *Config, v string) error { c.Output = v; return nil },
	keySkipTLSVerify: func(c *Config, v string) error {
		return yaml.Unmarshal([]byte(v), &c.SkipTLSVerify)
	},
	keyRateLimit: func(c *Config, v string) error {
		return yaml.Unmarshal([]byte(v), &c.RateLimit)
	},
	keyRetries: func(c *Config, v string) error {
		return yaml.Unmarshal([]byte(v), &c.Retries)
	},
}

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
		Long:  "Show and change the settings stored in the trapper configuration file",
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetCommand())
	cmd.AddCommand(newConfigPathCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  "Display the effective configuration with secrets masked",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()
			if config.Token != "" {
				config.Token = Masked
			}

			return renderValue(cmd, config, [][2]string{
				{"URL", config.URL},
				{"Token", config.Token},
				{"Username", config.Username},
				{"Output", config.Output},
				{"Skip TLS verify", yesNo(config.SkipTLSVerify)},
				{"Rate limit", fmt.Sprintf("%g/s", config.RateLimit)},
				{"Retries", itoa(config.Retries)},
			})
		},
	}
}

func newConfigSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set a configuration value",
		Long:  "Set a configuration value and save it to the configuration file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			set, ok := settableKeys[args[0]]
			if !ok {
				keys := make([]string, 0, len(settableKeys))
				for key := range settableKeys {
					keys = append(keys, key)
				}

				sort.Strings(keys)

				return fmt.Errorf("%w %q (valid keys: %v)", ErrUnknownConfigKey, args[0], keys)
			}

			config := loadStoredConfig()
			if err := set(config, args[1]); err != nil {
				return fmt.Errorf("invalid value for %s: %w", args[0], err)
			}

			path, err := saveConfig(config)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Saved %s to %s\n", args[0], path)

			return nil
		},
	}
}

func newConfigPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := configFilePath()
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), path)

			return nil
		},
	}
}

// Masked replaces secrets in displayed configuration.
const Masked = "***"

// loadConfig returns the effective configuration: flags, then environment,
// then the configuration file.
func loadConfig() *Config {
	return &Config{
		URL:           viper.GetString(keyURL),
		Token:         viper.GetString(keyToken),
		Username:      viper.GetString(keyUsername),
		Output:        viper.GetString(keyOutput),
		SkipTLSVerify: viper.GetBool(keySkipTLSVerify),
		RateLimit:     viper.GetFloat64(keyRateLimit),
		Retries:       viper.GetInt(keyRetries),
	}
}

// loadStoredConfig reads the configuration file alone, so that flag and
// environment values are not written back.
func loadStoredConfig() *Config {
	config := &Config{}

	path, err := configFilePath()
	if err != nil {
		return config
	}

	// #nosec G304 -- path comes from the --config flag or the home directory
	data, err := os.ReadFile(path)
	if err != nil {
		return config
	}

	_ = yaml.Unmarshal(data, config)

	return config
}

func saveConfig(config *Config) (string, error) {
	path, err := configFilePath()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(path), constants.ConfigDirPerm); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return "", fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	if err := os.WriteFile(path, data, constants.ConfigFilePerm); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}

	return path, nil
}

func configFilePath() (string, error) {
	if path := viper.ConfigFileUsed(); path != "" {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(home, ".trapper", "config.yml"), nil
}

// newClient builds an API client from the effective configuration.
func newClient(ctx context.Context) (trapper.Client, error) {
	config := loadConfig()

	clientConfig := &trapper.Config{
		BaseURL:       config.URL,
		AccessToken:   config.Token,
		Username:      config.Username,
		Password:      viper.GetString(keyPassword),
		SkipTLSVerify: config.SkipTLSVerify,
		RateLimit:     config.RateLimit,
		RetryMax:      config.Retries,
	}

	if viper.GetBool(keyVerbose) {
		clientConfig.Debug = true
		clientConfig.Logger = logging.NewAdapter(logging.NewLogger("http"))
	}

	client, err := trapperclient.New(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return client, nil
}
