package client

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wildintel/trapper-client/internal/constants"
	"github.com/wildintel/trapper-client/pkg/trapper"
)

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("nil config", func(t *testing.T) {
		t.Parallel()

		_, err := New(context.Background(), nil)
		require.ErrorIs(t, err, trapper.ErrConfigRequired)
	})

	t.Run("invalid base URL", func(t *testing.T) {
		t.Parallel()

		for _, baseURL := range []string{"", "wildintel-trap.uhu.es", "/geomap", "://bad"} {
			_, err := New(context.Background(), &trapper.Config{BaseURL: baseURL, AccessToken: "t"})
			require.ErrorIs(t, err, trapper.ErrBaseURLInvalid, baseURL)
			require.ErrorIs(t, err, trapper.ErrConfiguration, baseURL)
		}
	})

	t.Run("missing credentials fail on first call", func(t *testing.T) {
		t.Parallel()

		server := NewTestServer(t, map[string]http.HandlerFunc{
			constants.LocationsPath: PagedJSON(Rows(3), 10),
		})

		client, err := New(context.Background(), &trapper.Config{BaseURL: server.URL})
		require.NoError(t, err)

		_, err = client.Locations().Get(context.Background(), nil)
		require.ErrorIs(t, err, trapper.ErrNoCredentials)
		assert.Equal(t, 0, server.Hits())
	})

	t.Run("resource accessors", func(t *testing.T) {
		t.Parallel()

		client, err := New(context.Background(), &trapper.Config{BaseURL: "https://trapper.example", AccessToken: "t"})
		require.NoError(t, err)

		assert.NotNil(t, client.Locations())
		assert.NotNil(t, client.Deployments())
		assert.NotNil(t, client.ResearchProjects())
		assert.NotNil(t, client.ClassificationProjects())
		assert.NotNil(t, client.Classificators())
		assert.NotNil(t, client.Collections())
		assert.NotNil(t, client.Resources())
		assert.NotNil(t, client.Media())
		assert.NotNil(t, client.Observations())
		assert.NotNil(t, client.Packages())
		assert.Equal(t, "https://trapper.example", client.BaseURL())
	})
}

func TestClient_FetchAll(t *testing.T) {
	t.Parallel()

	t.Run("walks every page", func(t *testing.T) {
		t.Parallel()

		server := NewTestServer(t, map[string]http.HandlerFunc{
			constants.DeploymentsPath: PagedJSON(Rows(10), 4),
		})
		client := NewTestClient(t, server.URL)

		env, err := client.FetchAll(context.Background(), constants.DeploymentsPath, trapper.Query{"owner": true})
		require.NoError(t, err)

		require.Len(t, env.Results, 10)
		assert.Equal(t, trapper.Pagination{Page: 3, PageSize: 4, Pages: 3, Count: 10}, env.Pagination)

		for i, row := range env.Results {
			assert.InDelta(t, i+1, row["pk"], 0)
		}

		requests := server.Requests()
		require.Len(t, requests, 3)
		assert.False(t, requests[0].Query.Has("page"))
		assert.Equal(t, "2", requests[1].Query.Get("page"))
		assert.Equal(t, "3", requests[2].Query.Get("page"))

		for _, request := range requests {
			assert.Equal(t, "true", request.Query.Get("owner"))
		}
	})

	t.Run("single page is returned as fetched", func(t *testing.T) {
		t.Parallel()

		server := NewTestServer(t, map[string]http.HandlerFunc{
			constants.ClassificatorsPath: StaticJSON(Rows(3)),
		})
		client := NewTestClient(t, server.URL)

		env, err := client.FetchAll(context.Background(), constants.ClassificatorsPath, nil)
		require.NoError(t, err)

		assert.Equal(t, trapper.SinglePage(3), env.Pagination)
		assert.Len(t, env.Results, 3)
		assert.Equal(t, 1, server.Hits())
	})

	t.Run("page error aborts the walk", func(t *testing.T) {
		t.Parallel()

		paged := PagedJSON(Rows(10), 4)
		server := NewTestServer(t, map[string]http.HandlerFunc{
			constants.LocationsPath: func(writer http.ResponseWriter, request *http.Request) {
				if request.URL.Query().Get("page") == "2" {
					writer.WriteHeader(http.StatusInternalServerError)

					return
				}

				paged(writer, request)
			},
		})
		client := NewTestClient(t, server.URL)

		env, err := client.FetchAll(context.Background(), constants.LocationsPath, nil)
		require.ErrorIs(t, err, trapper.ErrInternalServer)
		assert.Nil(t, env)
		assert.Contains(t, err.Error(), "page 2")
	})
}

func TestClient_FetchPage(t *testing.T) {
	t.Parallel()

	t.Run("resolves placeholders", func(t *testing.T) {
		t.Parallel()

		server := NewTestServer(t, map[string]http.HandlerFunc{
			"/media_classification/api/media/7/": PagedJSON(Rows(2), 10),
		})
		client := NewTestClient(t, server.URL)

		query := trapper.Query{"cp": 7, "owner": true}

		env, err := client.FetchPage(context.Background(), constants.MediaPath, query)
		require.NoError(t, err)
		assert.Len(t, env.Results, 2)

		requests := server.Requests()
		require.Len(t, requests, 1)
		assert.False(t, requests[0].Query.Has("cp"))
		assert.Equal(t, "true", requests[0].Query.Get("owner"))
		assert.Equal(t, trapper.Query{"cp": 7, "owner": true}, query)
	})

	t.Run("normalizes CSV", func(t *testing.T) {
		t.Parallel()

		server := NewTestServer(t, map[string]http.HandlerFunc{
			constants.LocationsPath: func(writer http.ResponseWriter, _ *http.Request) {
				writer.Header().Set("Content-Type", "text/csv")
				_, _ = writer.Write([]byte("pk,location_id\n1,LOC-01\n2,LOC-02\n"))
			},
		})
		client := NewTestClient(t, server.URL)

		locations, err := client.Locations().Get(context.Background(), nil)
		require.NoError(t, err)
		require.Equal(t, 2, locations.Len())
		assert.Equal(t, 2, locations.Results[1].PK)
		assert.Equal(t, "LOC-02", locations.Results[1].LocationID)
	})

	t.Run("unrecognized payload", func(t *testing.T) {
		t.Parallel()

		server := NewTestServer(t, map[string]http.HandlerFunc{
			constants.LocationsPath: func(writer http.ResponseWriter, _ *http.Request) {
				writer.Header().Set("Content-Type", "text/html")
				_, _ = writer.Write([]byte("<html></html>"))
			},
		})
		client := NewTestClient(t, server.URL)

		_, err := client.FetchPage(context.Background(), constants.LocationsPath, nil)

		var decodeErr *trapper.DecodeError

		require.ErrorAs(t, err, &decodeErr)
		assert.ErrorIs(t, err, trapper.ErrUnrecognizedPayload)
		assert.Equal(t, []byte("<html></html>"), decodeErr.Body)
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()

		server := NewTestServer(t, nil)
		client := NewTestClient(t, server.URL)

		_, err := client.FetchPage(context.Background(), "/geomap/api/locations/999", nil)
		require.Error(t, err)
		assert.True(t, trapper.IsNotFound(err))
		assert.Equal(t, http.StatusNotFound, trapper.StatusCode(err))
	})
}

func TestClient_PageCache(t *testing.T) {
	t.Parallel()

	server := NewTestServer(t, map[string]http.HandlerFunc{
		constants.ResearchProjectsPath: PagedJSON(Rows(3), 10),
	})

	cache := trapper.NewMemoryCache(10)
	client := NewTestClient(t, server.URL, func(config *trapper.Config) {
		config.Cache = cache
	})

	first, err := client.FetchPage(context.Background(), constants.ResearchProjectsPath, trapper.Query{"owner": true})
	require.NoError(t, err)

	second, err := client.FetchPage(context.Background(), constants.ResearchProjectsPath, trapper.Query{"owner": true})
	require.NoError(t, err)

	assert.Equal(t, 1, server.Hits())
	assert.Equal(t, first.Pagination, second.Pagination)
	assert.Equal(t, first.Results, second.Results)
	assert.Equal(t, 1, cache.Len())

	_, err = client.FetchPage(context.Background(), constants.ResearchProjectsPath, trapper.Query{"owner": false})
	require.NoError(t, err)
	assert.Equal(t, 2, server.Hits())
}

// warnCounter is a trapper.Logger that counts warnings.
type warnCounter struct {
	mu    sync.Mutex
	warns []string
}

func (l *warnCounter) Debug(string, map[string]interface{}) {}
func (l *warnCounter) Info(string, map[string]interface{})  {}
func (l *warnCounter) Error(string, map[string]interface{}) {}

func (l *warnCounter) Warn(msg string, _ map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.warns = append(l.warns, msg)
}

func (l *warnCounter) Warnings() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	return append([]string(nil), l.warns...)
}

func TestClient_DisabledCacheIsSilent(t *testing.T) {
	t.Parallel()

	server := NewTestServer(t, map[string]http.HandlerFunc{
		constants.ResearchProjectsPath: PagedJSON(Rows(3), 10),
	})

	cache, err := trapper.NewCacheFromConfig(&trapper.CacheConfig{Type: trapper.CacheTypeNone})
	require.NoError(t, err)

	logger := &warnCounter{}
	client := NewTestClient(t, server.URL, func(config *trapper.Config) {
		config.Cache = cache
		config.Logger = logger
	})

	for range 2 {
		env, err := client.FetchPage(context.Background(), constants.ResearchProjectsPath, nil)
		require.NoError(t, err)
		assert.Len(t, env.Results, 3)
	}

	assert.Equal(t, 2, server.Hits())
	assert.Empty(t, logger.Warnings())
}

func TestClient_EmptyCSVPage(t *testing.T) {
	t.Parallel()

	server := NewTestServer(t, map[string]http.HandlerFunc{
		constants.LocationsPath: func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/csv")
			w.WriteHeader(http.StatusOK)
		},
	})

	client := NewTestClient(t, server.URL)

	env, err := client.FetchPage(context.Background(), constants.LocationsPath, nil)
	require.NoError(t, err)
	assert.NotNil(t, env.Results)
	assert.Empty(t, env.Results)
	assert.Equal(t, trapper.SinglePage(0), env.Pagination)

	cursor := client.Locations().Iterate(context.Background(), nil)

	_, err = cursor.Next()
	require.ErrorIs(t, err, trapper.ErrNoMoreItems)
	assert.True(t, cursor.Exhausted())
	assert.Equal(t, 2, server.Hits())
}

func TestClient_Request(t *testing.T) {
	t.Parallel()

	server := NewTestServer(t, nil)
	client := NewTestClient(t, server.URL)

	resp, err := client.Request(context.Background(), &trapper.Request{
		Endpoint:   "/geomap/api/locations/999",
		RawOnError: true,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	_, err = client.Request(context.Background(), &trapper.Request{Method: "TRACE", Endpoint: "/"})
	require.ErrorIs(t, err, trapper.ErrInvalidMethod)
	assert.True(t, errors.Is(err, trapper.ErrUsage))
	assert.Equal(t, 1, server.Hits())
}
