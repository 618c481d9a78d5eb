package client

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wildintel/trapper-client/pkg/trapper"
)

// RecordedRequest is one request seen by a TestServer.
type RecordedRequest struct {
	Method string
	Path   string
	Query  url.Values
}

// TestServer is a fake Trapper server that records every request it serves.
type TestServer struct {
	*httptest.Server

	mu       sync.Mutex
	requests []RecordedRequest
}

// NewTestServer starts a server routing exact paths to handlers. Unknown
// paths answer 404 with a DRF-style detail body.
func NewTestServer(t *testing.T, routes map[string]http.HandlerFunc) *TestServer {
	t.Helper()

	server := &TestServer{}
	server.Server = httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		server.mu.Lock()
		server.requests = append(server.requests, RecordedRequest{
			Method: request.Method,
			Path:   request.URL.Path,
			Query:  request.URL.Query(),
		})
		server.mu.Unlock()

		handler, ok := routes[request.URL.Path]
		if !ok {
			writer.Header().Set("Content-Type", "application/json")
			writer.WriteHeader(http.StatusNotFound)
			_, _ = writer.Write([]byte(`{"detail":"Not found."}`))

			return
		}

		handler(writer, request)
	}))
	t.Cleanup(server.Close)

	return server
}

// Requests returns a copy of the recorded requests.
func (s *TestServer) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]RecordedRequest, len(s.requests))
	copy(out, s.requests)

	return out
}

// Hits returns the number of requests served.
func (s *TestServer) Hits() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.requests)
}

// PagedJSON serves rows in the paginated layout, honoring the page and
// page_size parameters. Pages past the end are served empty.
func PagedJSON(rows []map[string]any, defaultPageSize int) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		page := queryInt(request, trapper.PageKey, 1)
		pageSize := queryInt(request, trapper.PageSizeKey, defaultPageSize)
		pages := max((len(rows)+pageSize-1)/pageSize, 1)

		start := min((page-1)*pageSize, len(rows))
		end := min(start+pageSize, len(rows))

		WriteJSON(writer, map[string]any{
			"pagination": map[string]any{
				"page":      page,
				"page_size": pageSize,
				"pages":     pages,
				"count":     len(rows),
			},
			"results": rows[start:end],
		})
	}
}

// StaticJSON always serves body as JSON.
func StaticJSON(body any) http.HandlerFunc {
	return func(writer http.ResponseWriter, _ *http.Request) {
		WriteJSON(writer, body)
	}
}

// WriteJSON encodes body as a JSON response.
func WriteJSON(writer http.ResponseWriter, body any) {
	writer.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(writer).Encode(body)
}

// Rows builds n rows with pk 1..n.
func Rows(n int) []map[string]any {
	rows := make([]map[string]any, n)
	for i := range rows {
		rows[i] = map[string]any{"pk": i + 1, "name": "row-" + strconv.Itoa(i+1)}
	}

	return rows
}

// NewTestClient creates a token-authenticated client for baseURL. mutate may
// adjust the configuration before the client is built.
func NewTestClient(t *testing.T, baseURL string, mutate ...func(*trapper.Config)) *Client {
	t.Helper()

	config := &trapper.Config{BaseURL: baseURL, AccessToken: "test-token"}
	for _, fn := range mutate {
		fn(config)
	}

	client, err := New(t.Context(), config)
	require.NoError(t, err)

	return client
}

func queryInt(request *http.Request, key string, fallback int) int {
	value, err := strconv.Atoi(request.URL.Query().Get(key))
	if err != nil || value <= 0 {
		return fallback
	}

	return value
}
