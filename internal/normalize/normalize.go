// Package normalize turns the response shapes served by Trapper into one
// canonical Envelope.
package normalize

import (
	"bytes"
	"compress/bzip2"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"

	"github.com/wildintel/trapper-client/pkg/trapper"
)

var (
	zipMagic   = []byte("PK\x03\x04")
	gzipMagic  = []byte{0x1f, 0x8b}
	bzip2Magic = []byte("BZ")
)

// Normalize reshapes a 2xx response body into an Envelope.
//
// JSON bodies that already carry both pagination and results pass through.
// Other JSON values are wrapped as a single page. CSV bodies, plain or inside
// a zip, gzip or bzip2 container, become one page of string-valued rows.
// Anything else yields (nil, nil) and the caller keeps the raw body.
//
// body is never modified.
func Normalize(contentType string, body []byte) (*trapper.Envelope, error) {
	contentType = strings.ToLower(contentType)

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		// An empty CSV or archive is a page without rows.
		if declaresCSV(contentType) {
			return wrap([]trapper.Record{}), nil
		}

		return nil, nil
	}

	if isJSON(contentType, trimmed) {
		return normalizeJSON(body)
	}

	if isCSVLike(contentType, body, trimmed) {
		return normalizeCSV(contentType, body)
	}

	return nil, nil
}

func isJSON(contentType string, trimmed []byte) bool {
	if strings.Contains(contentType, "json") {
		return true
	}

	if contentType != "" && !isGenericContentType(contentType) {
		return false
	}

	return len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[')
}

// isGenericContentType reports content types that say nothing about the
// payload, so the body itself decides.
func isGenericContentType(contentType string) bool {
	return strings.HasPrefix(contentType, "text/plain") ||
		strings.HasPrefix(contentType, "application/octet-stream")
}

func isCSVLike(contentType string, body, trimmed []byte) bool {
	if declaresCSV(contentType) || hasMagic(body) {
		return true
	}

	return len(trimmed) > 0 && isASCIILetter(trimmed[0])
}

// declaresCSV reports content types naming CSV or one of the archive formats
// exports are wrapped in. "zip" also matches gzip.
func declaresCSV(contentType string) bool {
	return strings.Contains(contentType, "text/csv") ||
		strings.Contains(contentType, "zip") ||
		strings.Contains(contentType, "bzip2")
}

func hasMagic(body []byte) bool {
	return bytes.HasPrefix(body, zipMagic) || bytes.HasPrefix(body, gzipMagic) || bytes.HasPrefix(body, bzip2Magic)
}

func isASCIILetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func normalizeJSON(body []byte) (*trapper.Envelope, error) {
	var value any
	if err := json.Unmarshal(body, &value); err != nil {
		return nil, &trapper.DecodeError{Format: "json", Err: err, Body: body}
	}

	switch typed := value.(type) {
	case map[string]any:
		if _, hasPagination := typed["pagination"]; hasPagination {
			if _, hasResults := typed["results"]; hasResults {
				return passThrough(body)
			}
		}

		return wrap([]trapper.Record{typed}), nil

	case []any:
		records := make([]trapper.Record, 0, len(typed))

		for _, item := range typed {
			records = append(records, toRecord(item))
		}

		return wrap(records), nil

	default:
		return wrap([]trapper.Record{{"value": typed}}), nil
	}
}

func passThrough(body []byte) (*trapper.Envelope, error) {
	var env trapper.Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, &trapper.DecodeError{Format: "json", Err: err, Body: body}
	}

	env.Pagination.Page = max(env.Pagination.Page, 1)
	env.Pagination.Pages = max(env.Pagination.Pages, 1)

	return &env, nil
}

// wrap builds a single-page envelope. A non-empty page reports its length as
// page_size and count; an empty one reports zero for both.
func wrap(records []trapper.Record) *trapper.Envelope {
	return &trapper.Envelope{
		Pagination: trapper.SinglePage(len(records)),
		Results:    records,
	}
}

func toRecord(item any) trapper.Record {
	if obj, ok := item.(map[string]any); ok {
		return obj
	}

	return trapper.Record{"value": item}
}

func normalizeCSV(contentType string, body []byte) (*trapper.Envelope, error) {
	text, format, err := decompress(contentType, body)
	if err != nil {
		return nil, &trapper.DecodeError{Format: format, Err: err, Body: body}
	}

	records, err := parseCSV(text)
	if err != nil {
		return nil, &trapper.DecodeError{Format: "csv", Err: err, Body: body}
	}

	return wrap(records), nil
}

// decompress unwraps zip, gzip and bzip2 containers. Magic bytes take
// precedence over the Content-Type.
func decompress(contentType string, body []byte) ([]byte, string, error) {
	switch {
	case bytes.HasPrefix(body, zipMagic):
		return readZip(body)
	case bytes.HasPrefix(body, gzipMagic):
		return readGzip(body)
	case bytes.HasPrefix(body, bzip2Magic):
		return readBzip2(body)
	case strings.Contains(contentType, "gzip"):
		return readGzip(body)
	case strings.Contains(contentType, "bzip2"):
		return readBzip2(body)
	case strings.Contains(contentType, "zip"):
		return readZip(body)
	}

	return body, "csv", nil
}

func readZip(body []byte) ([]byte, string, error) {
	archive, err := zip.NewReader(bytes.NewReader(body), int64(len(body)))
	if err != nil {
		return nil, "zip", fmt.Errorf("opening zip: %w", err)
	}

	for _, file := range archive.File {
		if !strings.HasSuffix(file.Name, ".csv") {
			continue
		}

		entry, err := file.Open()
		if err != nil {
			return nil, "zip", fmt.Errorf("opening %s: %w", file.Name, err)
		}

		data, err := io.ReadAll(entry)
		_ = entry.Close()

		if err != nil {
			return nil, "zip", fmt.Errorf("reading %s: %w", file.Name, err)
		}

		return data, "zip", nil
	}

	// An archive without a CSV entry is an empty export.
	return nil, "zip", nil
}

func readGzip(body []byte) ([]byte, string, error) {
	reader, err := gzip.NewReader(bytes.NewReader(body))
	if err != nil {
		return nil, "gzip", fmt.Errorf("opening gzip: %w", err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, "gzip", fmt.Errorf("reading gzip: %w", err)
	}

	return data, "gzip", nil
}

func readBzip2(body []byte) ([]byte, string, error) {
	data, err := io.ReadAll(bzip2.NewReader(bytes.NewReader(body)))
	if err != nil {
		return nil, "bzip2", fmt.Errorf("reading bzip2: %w", err)
	}

	return data, "bzip2", nil
}

// parseCSV reads a header line followed by data rows. Short rows leave the
// missing columns empty.
func parseCSV(text []byte) ([]trapper.Record, error) {
	text = bytes.TrimPrefix(text, []byte("\xef\xbb\xbf"))

	reader := csv.NewReader(bytes.NewReader(text))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return []trapper.Record{}, nil
	}

	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	records := []trapper.Record{}

	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("reading row %d: %w", len(records)+1, err)
		}

		record := make(trapper.Record, len(header))
		for i, column := range header {
			if i < len(row) {
				record[column] = row[i]
			} else {
				record[column] = ""
			}
		}

		records = append(records, record)
	}

	return records, nil
}
