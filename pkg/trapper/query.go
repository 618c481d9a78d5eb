package trapper

import (
	"fmt"
	"maps"
	"net/url"
	"reflect"
	"regexp"
	"strconv"
	"strings"
)

// Query holds request parameters. Values are scalars or slices; slices are
// sent as comma-joined strings.
type Query map[string]any

// Reserved pagination keys.
const (
	PageKey     = "page"
	PageSizeKey = "page_size"
)

var placeholderPattern = regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// NewQuery returns an empty Query.
func NewQuery() Query {
	return Query{}
}

// Clone returns a shallow copy. A nil Query clones to an empty one.
func (q Query) Clone() Query {
	out := make(Query, len(q))
	maps.Copy(out, q)

	return out
}

// With returns a copy of q with key set to value.
func (q Query) With(key string, value any) Query {
	out := q.Clone()
	out[key] = value

	return out
}

// Without returns a copy of q without the given keys.
func (q Query) Without(keys ...string) Query {
	out := q.Clone()
	for _, key := range keys {
		delete(out, key)
	}

	return out
}

// Merge returns q overlaid with overrides. See Merge.
func (q Query) Merge(overrides Query) Query {
	return Merge(q, overrides)
}

// Values encodes q for the wire. Nil values are dropped.
func (q Query) Values() url.Values {
	values := make(url.Values, len(q))

	for key, value := range q {
		if value == nil {
			continue
		}

		values.Set(key, FormatValue(value))
	}

	return values
}

// Merge combines a default Query with caller overrides. Override keys always
// win, and list-valued overrides are comma-joined before merging.
func Merge(defaults, overrides Query) Query {
	out := defaults.Clone()

	for key, value := range overrides {
		if isList(value) {
			out[key] = FormatValue(value)

			continue
		}

		out[key] = value
	}

	return out
}

// ResolveEndpoint substitutes {name} tokens of template with values from
// query. Substituted keys are removed from the returned Query; tokens without a
// matching key are left in place. query itself is not modified.
func ResolveEndpoint(template string, query Query) (string, Query) {
	remaining := query.Clone()

	if !strings.Contains(template, "{") {
		return template, remaining
	}

	resolved := placeholderPattern.ReplaceAllStringFunc(template, func(token string) string {
		name := token[1 : len(token)-1]

		value, ok := remaining[name]
		if !ok {
			return token
		}

		delete(remaining, name)

		return FormatValue(value)
	})

	return resolved, remaining
}

// Placeholders lists the {name} tokens of an endpoint template in order.
func Placeholders(template string) []string {
	matches := placeholderPattern.FindAllStringSubmatch(template, -1)
	names := make([]string, 0, len(matches))

	for _, match := range matches {
		names = append(names, match[1])
	}

	return names
}

// FormatValue renders a query value as sent on the wire.
func FormatValue(value any) string {
	switch typed := value.(type) {
	case nil:
		return ""
	case string:
		return typed
	case bool:
		return strconv.FormatBool(typed)
	case int:
		return strconv.Itoa(typed)
	case int64:
		return strconv.FormatInt(typed, 10)
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	case []string:
		return strings.Join(typed, ",")
	case fmt.Stringer:
		return typed.String()
	}

	if isList(value) {
		list := reflect.ValueOf(value)
		parts := make([]string, list.Len())

		for i := range parts {
			parts[i] = FormatValue(list.Index(i).Interface())
		}

		return strings.Join(parts, ",")
	}

	return fmt.Sprint(value)
}

func isList(value any) bool {
	if value == nil {
		return false
	}

	kind := reflect.TypeOf(value).Kind()
	if kind != reflect.Slice && kind != reflect.Array {
		return false
	}

	// []byte is a scalar payload, not a list of values.
	return reflect.TypeOf(value).Elem().Kind() != reflect.Uint8
}
