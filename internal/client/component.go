package client

import (
	"context"
	"fmt"
	"slices"

	"github.com/wildintel/trapper-client/pkg/trapper"
)

// baseFilters is shared by every resource component.
var baseFilters = []trapper.FilterField{
	{Field: "pk", QueryKey: "pk"},
}

// filters builds a filter table from baseFilters and resource fields whose
// query key equals the field name.
func filters(fields ...string) []trapper.FilterField {
	table := slices.Clone(baseFilters)

	for _, field := range fields {
		if slices.ContainsFunc(table, func(f trapper.FilterField) bool { return f.Field == field }) {
			continue
		}

		table = append(table, trapper.FilterField{Field: field, QueryKey: field})
	}

	return table
}

// component is the generic read client behind every resource collection.
type component[T any] struct {
	fetcher  trapper.CoreClient
	endpoint string
	defaults trapper.Query
	filters  []trapper.FilterField
}

func newComponent[T any](fetcher trapper.CoreClient, endpoint string, defaults trapper.Query, table []trapper.FilterField) *component[T] {
	return &component[T]{
		fetcher:  fetcher,
		endpoint: endpoint,
		defaults: defaults.Clone(),
		filters:  table,
	}
}

// Endpoint implements trapper.ResourceClient.Endpoint.
func (c *component[T]) Endpoint() string {
	return c.endpoint
}

// Filters implements trapper.ResourceClient.Filters.
func (c *component[T]) Filters() []trapper.FilterField {
	return slices.Clone(c.filters)
}

// Get implements trapper.ResourceClient.Get.
func (c *component[T]) Get(ctx context.Context, query trapper.Query) (*trapper.List[T], error) {
	return c.page(ctx, c.endpoint, c.query(query))
}

// GetAll implements trapper.ResourceClient.GetAll.
func (c *component[T]) GetAll(ctx context.Context, query trapper.Query) (*trapper.List[T], error) {
	return c.all(ctx, c.endpoint, c.query(query))
}

// GetBy implements trapper.ResourceClient.GetBy.
func (c *component[T]) GetBy(ctx context.Context, field string, value any, query trapper.Query) (*trapper.List[T], error) {
	filtered, err := c.filterQuery(field, value, query)
	if err != nil {
		return nil, err
	}

	return c.page(ctx, c.endpoint, filtered)
}

// GetAllBy implements trapper.ResourceClient.GetAllBy.
func (c *component[T]) GetAllBy(ctx context.Context, field string, value any, query trapper.Query) (*trapper.List[T], error) {
	filtered, err := c.filterQuery(field, value, query)
	if err != nil {
		return nil, err
	}

	return c.all(ctx, c.endpoint, filtered)
}

// Iterate implements trapper.ResourceClient.Iterate.
func (c *component[T]) Iterate(ctx context.Context, query trapper.Query, opts ...trapper.CursorOption[T]) *trapper.Cursor[T] {
	return trapper.NewCursor(ctx, c.fetcher, c.endpoint, c.query(query), opts...)
}

// query merges the caller query over the defaults.
func (c *component[T]) query(query trapper.Query) trapper.Query {
	return trapper.Merge(c.defaults, query)
}

func (c *component[T]) filterQuery(field string, value any, query trapper.Query) (trapper.Query, error) {
	index := slices.IndexFunc(c.filters, func(f trapper.FilterField) bool { return f.Field == field })
	if index < 0 {
		return nil, fmt.Errorf("%w: %q on %s", trapper.ErrUnknownFilter, field, c.endpoint)
	}

	return c.query(query).Merge(trapper.Query{c.filters[index].QueryKey: value}), nil
}

func (c *component[T]) page(ctx context.Context, endpoint string, query trapper.Query) (*trapper.List[T], error) {
	env, err := c.fetcher.FetchPage(ctx, endpoint, query)
	if err != nil {
		return nil, err
	}

	return trapper.DecodeList[T](env)
}

func (c *component[T]) all(ctx context.Context, endpoint string, query trapper.Query) (*trapper.List[T], error) {
	env, err := c.fetcher.FetchAll(ctx, endpoint, query)
	if err != nil {
		return nil, err
	}

	return trapper.DecodeList[T](env)
}
