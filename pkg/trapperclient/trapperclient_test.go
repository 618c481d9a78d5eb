package trapperclient_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wildintel/trapper-client/pkg/trapper"
	"github.com/wildintel/trapper-client/pkg/trapperclient"
)

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("creates client with config", func(t *testing.T) {
		t.Parallel()

		client, err := trapperclient.New(context.Background(), &trapper.Config{
			BaseURL:     "https://trapper.example",
			AccessToken: "token",
		})
		require.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("nil config", func(t *testing.T) {
		t.Parallel()

		_, err := trapperclient.New(context.Background(), nil)
		require.ErrorIs(t, err, trapper.ErrConfigRequired)
	})

	t.Run("empty base URL uses the public instance", func(t *testing.T) {
		t.Parallel()

		config := &trapper.Config{AccessToken: "token"}

		client, err := trapperclient.New(context.Background(), config)
		require.NoError(t, err)

		based, ok := client.(interface{ BaseURL() string })
		require.True(t, ok)
		assert.Equal(t, "https://wildintel-trap.uhu.es", based.BaseURL())
	})

	t.Run("leaves the caller config untouched", func(t *testing.T) {
		t.Parallel()

		config := &trapper.Config{BaseURL: " ", AccessToken: "token"}
		original := *config

		_, err := trapperclient.New(context.Background(), config)
		require.NoError(t, err)
		assert.Equal(t, original, *config)
	})

	t.Run("base URL without scheme", func(t *testing.T) {
		t.Parallel()

		_, err := trapperclient.New(context.Background(), &trapper.Config{BaseURL: "wildintel-trap.uhu.es"})
		require.ErrorIs(t, err, trapper.ErrBaseURLInvalid)
	})
}

func TestNewWithToken(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Token test-token" {
			w.WriteHeader(http.StatusUnauthorized)

			return
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"pk": 1, "name": "Doñana"}]`))
	}))
	t.Cleanup(server.Close)

	client, err := trapperclient.NewWithToken(context.Background(), server.URL, "test-token")
	require.NoError(t, err)

	projects, err := client.ResearchProjects().Get(context.Background(), nil)
	require.NoError(t, err)
	require.Equal(t, 1, projects.Len())
	assert.Equal(t, "Doñana", projects.Results[0].Name)

	client, err = trapperclient.NewWithToken(context.Background(), server.URL, "wrong")
	require.NoError(t, err)

	_, err = client.ResearchProjects().Get(context.Background(), nil)
	assert.True(t, trapper.IsUnauthorized(err))
}

func TestNewWithPassword(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username, password, ok := r.BasicAuth()
		if !ok || username != "alice" || password != "secret" {
			w.WriteHeader(http.StatusUnauthorized)

			return
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	t.Cleanup(server.Close)

	client, err := trapperclient.NewWithPassword(context.Background(), server.URL, "alice", "secret")
	require.NoError(t, err)

	classificators, err := client.Classificators().Get(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, classificators.Len())
}

//nolint:paralleltest // t.Setenv
func TestConfigFromEnvironment(t *testing.T) {
	clearEnv := func(t *testing.T) {
		t.Helper()

		for _, key := range []string{
			"TRAPPER_URL", "TRAPPER_ACCESS_TOKEN", "TRAPPER_USER_NAME",
			"TRAPPER_USER_PASSWORD", "TRAPPER_SKIP_TLS_VERIFY",
		} {
			t.Setenv(key, "")
			require.NoError(t, os.Unsetenv(key))
		}
	}

	t.Run("reads variables", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("TRAPPER_URL", "https://trapper.example")
		t.Setenv("TRAPPER_ACCESS_TOKEN", "abc")
		t.Setenv("TRAPPER_SKIP_TLS_VERIFY", "true")

		config, err := trapperclient.ConfigFromEnvironment(filepath.Join(t.TempDir(), "missing.env"))
		require.NoError(t, err)
		assert.Equal(t, "https://trapper.example", config.BaseURL)
		assert.Equal(t, "abc", config.AccessToken)
		assert.True(t, config.SkipTLSVerify)
	})

	t.Run("defaults the base URL", func(t *testing.T) {
		clearEnv(t)

		config, err := trapperclient.ConfigFromEnvironment(filepath.Join(t.TempDir(), "missing.env"))
		require.NoError(t, err)
		assert.Equal(t, "https://wildintel-trap.uhu.es", config.BaseURL)
		assert.Empty(t, config.AccessToken)
	})

	t.Run("loads an env file", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("TRAPPER_USER_NAME", "from-process")

		file := filepath.Join(t.TempDir(), "trapper.env")
		require.NoError(t, os.WriteFile(file, []byte(
			"TRAPPER_URL=https://file.example\nTRAPPER_USER_NAME=from-file\nTRAPPER_USER_PASSWORD=pw\n",
		), 0o600))

		config, err := trapperclient.ConfigFromEnvironment(file)
		require.NoError(t, err)
		assert.Equal(t, "https://file.example", config.BaseURL)
		assert.Equal(t, "from-process", config.Username)
		assert.Equal(t, "pw", config.Password)
	})

	t.Run("invalid boolean", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("TRAPPER_SKIP_TLS_VERIFY", "perhaps")

		_, err := trapperclient.ConfigFromEnvironment(filepath.Join(t.TempDir(), "missing.env"))
		require.ErrorIs(t, err, trapper.ErrConfiguration)
	})

	t.Run("client from environment", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("TRAPPER_URL", "://bad")

		_, err := trapperclient.FromEnvironment(context.Background(), filepath.Join(t.TempDir(), "missing.env"))
		require.ErrorIs(t, err, trapper.ErrBaseURLInvalid)
	})
}
