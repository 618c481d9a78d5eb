package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/wildintel/trapper-client/pkg/trapper"
)

// Output formats.
const (
	OutputFormatTable = "table"
	OutputFormatJSON  = "json"
	OutputFormatYAML  = "yaml"

	NotAvailable = "N/A"

	defaultJSONIndent = "  "
)

// column renders one table column of T.
type column[T any] struct {
	Header string
	Value  func(T) string
}

func outputFormat() string {
	return strings.ToLower(viper.GetString("output"))
}

// renderList writes list in the configured output format. In table format at
// most limit rows are printed; limit <= 0 prints every row.
func renderList[T any](cmd *cobra.Command, list *trapper.List[T], columns []column[T], limit int) error {
	out := cmd.OutOrStdout()

	switch outputFormat() {
	case OutputFormatJSON:
		return renderJSON(out, list)
	case OutputFormatYAML:
		return renderYAML(out, list)
	}

	if list.Len() == 0 {
		_, _ = fmt.Fprintln(out, "No results found")

		return nil
	}

	rows := list.Results
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}

	table := tablewriter.NewWriter(out)
	table.Header(headers(columns)...)

	for _, item := range rows {
		values := make([]string, len(columns))
		for i, col := range columns {
			values[i] = col.Value(item)
		}

		_ = table.Append(values)
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	_, _ = fmt.Fprintln(out, summary(len(rows), list.Pagination))

	return nil
}

// renderValue writes a single value in the configured format; table output
// lists its fields as properties.
func renderValue(cmd *cobra.Command, value any, properties [][2]string) error {
	out := cmd.OutOrStdout()

	switch outputFormat() {
	case OutputFormatJSON:
		return renderJSON(out, value)
	case OutputFormatYAML:
		return renderYAML(out, value)
	}

	table := tablewriter.NewWriter(out)
	table.Header("Property", "Value")

	for _, property := range properties {
		_ = table.Append(property[0], property[1])
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

func renderJSON(out io.Writer, value any) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", defaultJSONIndent)

	return encoder.Encode(value)
}

func renderYAML(out io.Writer, value any) error {
	encoder := yaml.NewEncoder(out)
	defer func() { _ = encoder.Close() }()

	return encoder.Encode(value)
}

func headers[T any](columns []column[T]) []any {
	title := cases.Title(language.English)

	out := make([]any, len(columns))
	for i, col := range columns {
		out[i] = title.String(strings.ReplaceAll(col.Header, "_", " "))
	}

	return out
}

func summary(shown int, pagination trapper.Pagination) string {
	if pagination.Pages > 1 {
		return fmt.Sprintf("Showing %s of %s (page %d of %d)",
			humanize.Comma(int64(shown)), humanize.Comma(int64(pagination.Count)),
			pagination.Page, pagination.Pages)
	}

	return fmt.Sprintf("Showing %s of %s", humanize.Comma(int64(shown)), humanize.Comma(int64(pagination.Count)))
}

func str(value *string) string {
	if value == nil || *value == "" {
		return NotAvailable
	}

	return *value
}

func itoa(value int) string {
	return strconv.Itoa(value)
}

func optInt(value *int) string {
	if value == nil {
		return NotAvailable
	}

	return strconv.Itoa(*value)
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}

	return "no"
}

func date(value time.Time) string {
	if value.IsZero() {
		return NotAvailable
	}

	return value.Format(time.DateTime)
}

func ago(value time.Time) string {
	if value.IsZero() {
		return NotAvailable
	}

	return humanize.Time(value)
}
