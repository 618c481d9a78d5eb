package trapper

import (
	"context"
	"errors"
	"fmt"
	"iter"

	"github.com/wildintel/trapper-client/internal/constants"
)

const notStarted = -1

// CursorOption configures a Cursor.
type CursorOption[T any] func(*Cursor[T])

// WithPageSize sets the page_size sent with every page request.
func WithPageSize[T any](size int) CursorOption[T] {
	return func(c *Cursor[T]) {
		if size > 0 {
			c.pageSize = size
		}
	}
}

// WithPredicate keeps only the items accepted by keep. Rejected items are
// skipped silently.
func WithPredicate[T any](keep func(T) bool) CursorOption[T] {
	return func(c *Cursor[T]) {
		c.predicate = keep
	}
}

// WithDecoder replaces the default record decoder.
func WithDecoder[T any](decode func(Record) (T, error)) CursorOption[T] {
	return func(c *Cursor[T]) {
		if decode != nil {
			c.decode = decode
		}
	}
}

// Cursor lazily walks a paginated endpoint one item at a time, fetching a page
// only when the previous one has been consumed. It is single-pass: once the
// sequence ends (or Close is called) every further Next returns
// ErrNoMoreItems without touching the network.
//
// A Cursor is not safe for concurrent use.
type Cursor[T any] struct {
	ctx       context.Context //nolint:containedctx // iteration is bound to the caller's context like PaginationIterator
	fetcher   PageFetcher
	endpoint  string
	query     Query
	pageSize  int
	predicate func(T) bool
	decode    func(Record) (T, error)

	currentPage int
	totalPages  int
	results     []Record
	index       int
	exhausted   bool
	fetches     int
}

// NewCursor creates a Cursor over endpoint. query is copied; a caller-supplied
// page key is ignored since pages are always walked from 1.
func NewCursor[T any](ctx context.Context, fetcher PageFetcher, endpoint string, query Query, opts ...CursorOption[T]) *Cursor[T] {
	cursor := &Cursor[T]{
		ctx:         ctx,
		fetcher:     fetcher,
		endpoint:    endpoint,
		query:       query.Without(PageKey),
		pageSize:    constants.CursorPageSize,
		decode:      Decode[T],
		currentPage: notStarted,
	}

	for _, opt := range opts {
		opt(cursor)
	}

	return cursor
}

// Next returns the next accepted item, or ErrNoMoreItems at the end of the
// sequence.
func (c *Cursor[T]) Next() (T, error) {
	var zero T

	for {
		if c.exhausted {
			return zero, ErrNoMoreItems
		}

		if c.index >= len(c.results) {
			if c.currentPage != notStarted && c.currentPage >= c.totalPages {
				c.finish()

				return zero, ErrNoMoreItems
			}

			if err := c.fetchNext(); err != nil {
				return zero, err
			}

			continue
		}

		row := c.results[c.index]
		c.index++

		item, err := c.decode(row)
		if err != nil {
			return zero, err
		}

		if c.predicate != nil && !c.predicate(item) {
			continue
		}

		return item, nil
	}
}

func (c *Cursor[T]) fetchNext() error {
	page := 1
	if c.currentPage != notStarted {
		page = c.currentPage + 1
	}

	endpoint, query := ResolveEndpoint(c.endpoint, c.query)
	query[PageKey] = page
	query[PageSizeKey] = c.pageSize

	env, err := c.fetcher.FetchPage(c.ctx, endpoint, query)
	if err != nil {
		return fmt.Errorf("fetching page %d: %w", page, err)
	}

	c.fetches++

	if len(env.Results) == 0 {
		c.finish()

		return nil
	}

	c.results = env.Results
	c.index = 0
	c.currentPage = max(env.Pagination.Page, page)
	c.totalPages = env.Pagination.Pages

	return nil
}

func (c *Cursor[T]) finish() {
	c.exhausted = true
	c.results = nil
	c.index = 0
}

// Close ends the sequence early and releases the page buffer. It is safe to
// call more than once.
func (c *Cursor[T]) Close() error {
	c.finish()
	c.currentPage = notStarted
	c.totalPages = 0

	return nil
}

// Exhausted reports whether the sequence has ended.
func (c *Cursor[T]) Exhausted() bool {
	return c.exhausted
}

// Fetches returns the number of pages fetched so far.
func (c *Cursor[T]) Fetches() int {
	return c.fetches
}

// All drains the cursor into a slice.
func (c *Cursor[T]) All() ([]T, error) {
	var items []T

	err := c.ForEach(func(item T) error {
		items = append(items, item)

		return nil
	})
	if err != nil {
		return nil, err
	}

	return items, nil
}

// ForEach calls fn for every remaining item. It stops at the first error
// returned by fn or by the cursor.
func (c *Cursor[T]) ForEach(fn func(T) error) error {
	for {
		item, err := c.Next()
		if errors.Is(err, ErrNoMoreItems) {
			return nil
		}

		if err != nil {
			return err
		}

		if err := fn(item); err != nil {
			return err
		}
	}
}

// Seq exposes the cursor as a range-over-func sequence. Iteration stops after
// the first error is yielded.
func (c *Cursor[T]) Seq() iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for {
			item, err := c.Next()
			if errors.Is(err, ErrNoMoreItems) {
				return
			}

			if !yield(item, err) || err != nil {
				return
			}
		}
	}
}

// WithCursor runs fn with cursor and closes it afterwards, whether fn
// succeeds or not. fn's error is returned unchanged.
func WithCursor[T any](cursor *Cursor[T], fn func(*Cursor[T]) error) (err error) {
	defer func() {
		closeErr := cursor.Close()
		if err == nil {
			err = closeErr
		}
	}()

	return fn(cursor)
}
