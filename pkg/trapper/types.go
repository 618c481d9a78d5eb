package trapper

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"net/http"
	"slices"
)

// Record is one opaque result row as returned by the server.
type Record map[string]any

// Pagination is the page bookkeeping of an Envelope.
type Pagination struct {
	Page     int `json:"page"      yaml:"page"`
	PageSize int `json:"page_size" yaml:"page_size"`
	Pages    int `json:"pages"     yaml:"pages"`
	Count    int `json:"count"     yaml:"count"`
}

// SinglePage returns the pagination of a one-page result holding n rows.
func SinglePage(n int) Pagination {
	return Pagination{Page: 1, PageSize: n, Pages: 1, Count: n}
}

// HasMore reports whether pages follow the current one.
func (p Pagination) HasMore() bool {
	return p.Page < p.Pages
}

// Envelope is the canonical {pagination, results} response shape. Any other
// top-level keys of a canonical body are kept in Extra.
type Envelope struct {
	Pagination Pagination
	Results    []Record
	Extra      map[string]any
}

// Clone returns a copy whose Results slice and Extra map can be modified
// without touching e. Records themselves are shared.
func (e *Envelope) Clone() *Envelope {
	return &Envelope{
		Pagination: e.Pagination,
		Results:    slices.Clone(e.Results),
		Extra:      maps.Clone(e.Extra),
	}
}

// MarshalJSON writes the canonical shape with Extra keys inlined.
func (e Envelope) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(e.Extra)+2)
	maps.Copy(out, e.Extra)

	results := e.Results
	if results == nil {
		results = []Record{}
	}

	out["pagination"] = e.Pagination
	out["results"] = results

	return json.Marshal(out)
}

// UnmarshalJSON reads the canonical shape. Keys other than pagination and
// results are stored in Extra.
func (e *Envelope) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	env := Envelope{}

	if p, ok := raw["pagination"]; ok && !bytes.Equal(bytes.TrimSpace(p), []byte("null")) {
		if err := json.Unmarshal(p, &env.Pagination); err != nil {
			return fmt.Errorf("parsing pagination: %w", err)
		}
	}

	if r, ok := raw["results"]; ok {
		if err := json.Unmarshal(r, &env.Results); err != nil {
			return fmt.Errorf("parsing results: %w", err)
		}
	}

	if env.Results == nil {
		env.Results = []Record{}
	}

	for key, value := range raw {
		if key == "pagination" || key == "results" {
			continue
		}

		var decoded any
		if err := json.Unmarshal(value, &decoded); err != nil {
			return fmt.Errorf("parsing %s: %w", key, err)
		}

		if env.Extra == nil {
			env.Extra = make(map[string]any)
		}

		env.Extra[key] = decoded
	}

	*e = env

	return nil
}

// List is an Envelope whose records were decoded into T.
type List[T any] struct {
	Pagination Pagination `json:"pagination" yaml:"pagination"`
	Results    []T        `json:"results"    yaml:"results"`
}

// Len returns the number of decoded results.
func (l *List[T]) Len() int {
	return len(l.Results)
}

// Filter keeps the results accepted by keep. Pagination is left as reported
// by the server; callers that care overwrite Count themselves.
func (l *List[T]) Filter(keep func(T) bool) *List[T] {
	out := &List[T]{Pagination: l.Pagination, Results: make([]T, 0, len(l.Results))}

	for _, item := range l.Results {
		if keep(item) {
			out.Results = append(out.Results, item)
		}
	}

	return out
}

// Request describes one call to the service.
//
// Zero values give the default behaviour: non-2xx responses are returned as
// *APIError and 2xx bodies are normalized into an Envelope.
type Request struct {
	Method   string
	Endpoint string
	Query    Query
	Body     any
	Headers  map[string]string

	// Raw skips normalization of 2xx bodies.
	Raw bool

	// RawOnError returns non-2xx responses as-is instead of an *APIError.
	RawOnError bool
}

// Response is the raw outcome of a call. Envelope is nil when normalization
// was skipped or the payload was not recognized.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	Envelope   *Envelope
}

// ContentType returns the response Content-Type header.
func (r *Response) ContentType() string {
	if r.Header == nil {
		return ""
	}

	return r.Header.Get("Content-Type")
}

// IsSuccess reports a 2xx status.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= http.StatusOK && r.StatusCode < http.StatusMultipleChoices
}
