package commands

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wildintel/trapper-client/internal/constants"
	"github.com/wildintel/trapper-client/pkg/trapper"
)

// listFlags are the flags shared by every list command.
type listFlags struct {
	all      bool
	page     int
	pageSize int
	limit    int
	filters  []string
}

func addListFlags(cmd *cobra.Command, flags *listFlags) {
	cmd.Flags().BoolVar(&flags.all, "all", false, "fetch all pages")
	cmd.Flags().IntVar(&flags.page, "page", 0, "page number to fetch")
	cmd.Flags().IntVar(&flags.pageSize, "page-size", 0, "number of results per page")
	cmd.Flags().IntVar(&flags.limit, "limit", constants.DefaultListLimit, "maximum rows printed in table output (0 for all)")
	cmd.Flags().StringArrayVarP(&flags.filters, "filter", "f", nil, "filter as field=value (repeatable)")
}

// query builds the request query from the flags. Filter fields are checked
// against the filter table of the resource.
func (f *listFlags) query(table []trapper.FilterField) (trapper.Query, error) {
	query := trapper.Query{}

	for _, filter := range f.filters {
		field, value, ok := strings.Cut(filter, "=")
		if !ok || field == "" {
			return nil, fmt.Errorf("%w: %q", ErrInvalidFilter, filter)
		}

		index := slices.IndexFunc(table, func(ff trapper.FilterField) bool { return ff.Field == field })
		if index < 0 {
			return nil, fmt.Errorf("%w: %q (valid fields: %s)", trapper.ErrUnknownFilter, field, filterNames(table))
		}

		query[table[index].QueryKey] = value
	}

	if f.page > 0 && !f.all {
		query[trapper.PageKey] = f.page
	}

	if f.pageSize > 0 {
		query[trapper.PageSizeKey] = f.pageSize
	}

	return query, nil
}

func filterNames(table []trapper.FilterField) string {
	names := make([]string, len(table))
	for i, filter := range table {
		names[i] = filter.Field
	}

	return strings.Join(names, ", ")
}

// listResource fetches one page, or every page with --all, and renders it.
func listResource[T any](cmd *cobra.Command, resource trapper.ResourceClient[T], flags *listFlags, base trapper.Query, columns []column[T]) error {
	query, err := flags.query(resource.Filters())
	if err != nil {
		return err
	}

	query = base.Merge(query)

	var list *trapper.List[T]
	if flags.all {
		list, err = resource.GetAll(cmd.Context(), query)
	} else {
		list, err = resource.Get(cmd.Context(), query)
	}

	if err != nil {
		return fmt.Errorf("failed to list %s: %w", cmd.Parent().Name(), err)
	}

	return renderList(cmd, list, columns, flags.limit)
}

// newListCommand creates a "list" subcommand for the resource returned by
// pick. base adds fixed query keys, such as a project placeholder.
func newListCommand[T any](
	short string,
	pick func(trapper.Client) trapper.ResourceClient[T],
	columns []column[T],
	base func() (trapper.Query, error),
) *cobra.Command {
	flags := &listFlags{}

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   short,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			query := trapper.Query{}

			if base != nil {
				fixed, err := base()
				if err != nil {
					return err
				}

				query = fixed
			}

			client, err := newClient(cmd.Context())
			if err != nil {
				return err
			}

			return listResource(cmd, pick(client), flags, query, columns)
		},
	}

	addListFlags(cmd, flags)

	return cmd
}

// newFiltersCommand prints the filter table of a resource.
func newFiltersCommand[T any](pick func(trapper.Client) trapper.ResourceClient[T]) *cobra.Command {
	return &cobra.Command{
		Use:   "filters",
		Short: "List the filter fields accepted by --filter",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd.Context())
			if err != nil {
				return err
			}

			filters := pick(client).Filters()

			return renderList(cmd, &trapper.List[trapper.FilterField]{
				Pagination: trapper.SinglePage(len(filters)),
				Results:    filters,
			}, []column[trapper.FilterField]{
				{"field", func(f trapper.FilterField) string { return f.Field }},
				{"query_key", func(f trapper.FilterField) string { return f.QueryKey }},
			}, 0)
		},
	}
}
