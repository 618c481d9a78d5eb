// Package trapperclient provides the main entry point for creating Trapper API clients.
package trapperclient

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/wildintel/trapper-client/internal/client"
	"github.com/wildintel/trapper-client/internal/constants"
	"github.com/wildintel/trapper-client/pkg/trapper"
)

// New creates a new Trapper API client. An empty BaseURL falls back to the
// public WildINTEL instance. config is not modified.
func New(ctx context.Context, config *trapper.Config) (trapper.Client, error) {
	if config == nil {
		return nil, trapper.ErrConfigRequired
	}

	cfg := *config
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = constants.DefaultBaseURL
	}

	c, err := client.New(ctx, &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	return c, nil
}

// NewWithToken creates a new client authenticated with an API token.
func NewWithToken(ctx context.Context, baseURL, token string) (trapper.Client, error) {
	return New(ctx, &trapper.Config{
		BaseURL:     baseURL,
		AccessToken: token,
	})
}

// NewWithPassword creates a new client using HTTP Basic authentication.
func NewWithPassword(ctx context.Context, baseURL, username, password string) (trapper.Client, error) {
	return New(ctx, &trapper.Config{
		BaseURL:  baseURL,
		Username: username,
		Password: password,
	})
}

// FromEnvironment creates a client configured from TRAPPER_* environment
// variables. See ConfigFromEnvironment.
func FromEnvironment(ctx context.Context, envFiles ...string) (trapper.Client, error) {
	config, err := ConfigFromEnvironment(envFiles...)
	if err != nil {
		return nil, err
	}

	return New(ctx, config)
}

// ConfigFromEnvironment loads envFiles (".env" when none are given) and builds
// a Config from the environment. Missing files are ignored and variables
// already set in the process environment win over file values.
func ConfigFromEnvironment(envFiles ...string) (*trapper.Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}

	for _, file := range envFiles {
		err := godotenv.Load(file)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", file, err)
		}
	}

	config := &trapper.Config{
		BaseURL:     os.Getenv(constants.EnvBaseURL),
		AccessToken: os.Getenv(constants.EnvAccessToken),
		Username:    os.Getenv(constants.EnvUsername),
		Password:    os.Getenv(constants.EnvPassword),
	}

	if config.BaseURL == "" {
		config.BaseURL = constants.DefaultBaseURL
	}

	if raw := os.Getenv(constants.EnvSkipTLSVerify); raw != "" {
		skip, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s=%q is not a boolean", trapper.ErrConfiguration, constants.EnvSkipTLSVerify, raw)
		}

		config.SkipTLSVerify = skip
	}

	return config, nil
}
