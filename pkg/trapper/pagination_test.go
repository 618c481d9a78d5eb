package trapper_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wildintel/trapper-client/pkg/trapper"
)

var errPageFailed = errors.New("page failed")

// pagedFetcher serves rows in pages of size and records the requested pages.
type pagedFetcher struct {
	mu       sync.Mutex
	rows     []trapper.Record
	size     int
	failPage int
	extra    func(page int) map[string]any
	requests []trapper.Query
}

func newPagedFetcher(total, size int) *pagedFetcher {
	rows := make([]trapper.Record, total)
	for i := range rows {
		rows[i] = trapper.Record{"pk": i + 1}
	}

	return &pagedFetcher{rows: rows, size: size}
}

func (f *pagedFetcher) FetchPage(_ context.Context, _ string, query trapper.Query) (*trapper.Envelope, error) {
	f.mu.Lock()
	f.requests = append(f.requests, query.Clone())
	f.mu.Unlock()

	page := 1
	if value, ok := query[trapper.PageKey].(int); ok {
		page = value
	}

	if page == f.failPage {
		return nil, errPageFailed
	}

	pages := max((len(f.rows)+f.size-1)/f.size, 1)
	start := min((page-1)*f.size, len(f.rows))
	end := min(start+f.size, len(f.rows))

	env := &trapper.Envelope{
		Pagination: trapper.Pagination{Page: page, PageSize: f.size, Pages: pages, Count: len(f.rows)},
		Results:    f.rows[start:end],
	}

	if f.extra != nil {
		env.Extra = f.extra(page)
	}

	return env, nil
}

func (f *pagedFetcher) requested() []trapper.Query {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.requests
}

func TestFetchAll_MultiplePages(t *testing.T) {
	t.Parallel()

	fetcher := newPagedFetcher(7, 3)

	env, err := trapper.FetchAll(context.Background(), fetcher, "x/", trapper.Query{"page": 9, "owner": true})
	require.NoError(t, err)

	require.Len(t, env.Results, 7)

	for i, rec := range env.Results {
		assert.Equal(t, i+1, rec["pk"])
	}

	assert.Equal(t, trapper.Pagination{Page: 3, PageSize: 3, Pages: 3, Count: 7}, env.Pagination)

	requests := fetcher.requested()
	require.Len(t, requests, 3)
	assert.NotContains(t, requests[0], trapper.PageKey)
	assert.Equal(t, 2, requests[1][trapper.PageKey])
	assert.Equal(t, 3, requests[2][trapper.PageKey])

	for _, query := range requests {
		assert.Equal(t, true, query["owner"])
	}
}

func TestFetchAll_SinglePageReturnedAsIs(t *testing.T) {
	t.Parallel()

	fetcher := newPagedFetcher(2, 10)

	env, err := trapper.FetchAll(context.Background(), fetcher, "x/", nil)
	require.NoError(t, err)

	assert.Len(t, env.Results, 2)
	assert.Equal(t, 1, env.Pagination.Pages)
	assert.Len(t, fetcher.requested(), 1)
}

func TestFetchAll_EmptyResult(t *testing.T) {
	t.Parallel()

	fetcher := newPagedFetcher(0, 10)

	env, err := trapper.FetchAll(context.Background(), fetcher, "x/", nil)
	require.NoError(t, err)

	assert.Empty(t, env.Results)
	assert.Len(t, fetcher.requested(), 1)
}

func TestFetchAll_PageErrorAborts(t *testing.T) {
	t.Parallel()

	fetcher := newPagedFetcher(9, 3)
	fetcher.failPage = 2

	env, err := trapper.FetchAll(context.Background(), fetcher, "x/", nil)
	require.Error(t, err)

	assert.Nil(t, env)
	require.ErrorIs(t, err, errPageFailed)
	assert.Contains(t, err.Error(), "fetching page 2")
	assert.Len(t, fetcher.requested(), 2)
}

func TestFetchAll_MergesExtraKeys(t *testing.T) {
	t.Parallel()

	fetcher := newPagedFetcher(4, 2)
	fetcher.extra = func(page int) map[string]any {
		return map[string]any{
			"warnings": []any{page},
			"stamp":    page,
		}
	}

	env, err := trapper.FetchAll(context.Background(), fetcher, "x/", nil)
	require.NoError(t, err)

	assert.Equal(t, []any{1, 2}, env.Extra["warnings"])
	assert.Equal(t, 2, env.Extra["stamp"])
}

func TestPageFetcherFunc(t *testing.T) {
	t.Parallel()

	var gotEndpoint string

	fetcher := trapper.PageFetcherFunc(func(_ context.Context, endpoint string, _ trapper.Query) (*trapper.Envelope, error) {
		gotEndpoint = endpoint

		return &trapper.Envelope{Pagination: trapper.SinglePage(0)}, nil
	})

	_, err := trapper.FetchAll(context.Background(), fetcher, "geomap/api/locations/", nil)
	require.NoError(t, err)
	assert.Equal(t, "geomap/api/locations/", gotEndpoint)
}

func TestPagination_HasMore(t *testing.T) {
	t.Parallel()

	assert.True(t, trapper.Pagination{Page: 1, Pages: 2}.HasMore())
	assert.False(t, trapper.Pagination{Page: 2, Pages: 2}.HasMore())
	assert.False(t, trapper.SinglePage(5).HasMore())
	assert.Equal(t, trapper.Pagination{Page: 1, PageSize: 5, Pages: 1, Count: 5}, trapper.SinglePage(5))
}
