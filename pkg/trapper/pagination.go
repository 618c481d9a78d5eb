package trapper

import (
	"context"
	"fmt"
	"slices"
)

// PageFetcher fetches one page of an endpoint as an Envelope. Endpoint
// placeholders are resolved by the fetcher.
type PageFetcher interface {
	FetchPage(ctx context.Context, endpoint string, query Query) (*Envelope, error)
}

// PageFetcherFunc adapts a function to PageFetcher.
type PageFetcherFunc func(ctx context.Context, endpoint string, query Query) (*Envelope, error)

// FetchPage calls f.
func (f PageFetcherFunc) FetchPage(ctx context.Context, endpoint string, query Query) (*Envelope, error) {
	return f(ctx, endpoint, query)
}

// FetchAll walks every page of endpoint starting at page 1 and returns the
// concatenated results. Pagination is the one reported by the last page.
//
// A single-page result is returned exactly as fetched. Any page error aborts
// the walk and no partial result is returned. Rows are not de-duplicated
// across pages.
func FetchAll(ctx context.Context, fetcher PageFetcher, endpoint string, query Query) (*Envelope, error) {
	pageQuery := query.Without(PageKey)

	first, err := fetcher.FetchPage(ctx, endpoint, pageQuery)
	if err != nil {
		return nil, fmt.Errorf("fetching page 1: %w", err)
	}

	if first.Pagination.Pages <= 1 {
		return first, nil
	}

	acc := first.Clone()
	current := first.Pagination.Page
	pages := first.Pagination.Pages

	for current < pages {
		current++
		pageQuery[PageKey] = current

		next, err := fetcher.FetchPage(ctx, endpoint, pageQuery)
		if err != nil {
			return nil, fmt.Errorf("fetching page %d: %w", current, err)
		}

		mergePage(acc, next)
	}

	return acc, nil
}

// mergePage folds page into acc: results are appended, list-valued extras are
// extended, other extras are added or replaced, pagination is replaced.
func mergePage(acc, page *Envelope) {
	acc.Results = append(acc.Results, page.Results...)
	acc.Pagination = page.Pagination

	for key, value := range page.Extra {
		if acc.Extra == nil {
			acc.Extra = make(map[string]any, len(page.Extra))
		}

		incoming, incomingIsList := value.([]any)
		existing, existingIsList := acc.Extra[key].([]any)

		if incomingIsList && existingIsList {
			acc.Extra[key] = append(slices.Clone(existing), incoming...)

			continue
		}

		acc.Extra[key] = value
	}
}
