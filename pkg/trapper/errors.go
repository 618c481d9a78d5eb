package trapper

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error categories, matched with errors.Is.
var (
	// ErrConfiguration reports unusable client configuration, e.g. missing credentials.
	ErrConfiguration = errors.New("trapper: configuration error")

	// ErrUsage reports a caller mistake detected before or instead of a network call.
	ErrUsage = errors.New("trapper: usage error")

	// ErrAPI is the generic kind of every non-2xx response.
	ErrAPI = errors.New("trapper: API error")

	// ErrDecode reports a body that could not be parsed.
	ErrDecode = errors.New("trapper: decode error")
)

// Configuration errors.
var (
	ErrConfigRequired = fmt.Errorf("%w: config is required", ErrConfiguration)
	ErrNoCredentials  = fmt.Errorf("%w: no access token or username/password configured", ErrConfiguration)
	ErrBaseURLInvalid = fmt.Errorf("%w: base URL must include a scheme and host", ErrConfiguration)
)

// Usage errors.
var (
	ErrInvalidMethod        = fmt.Errorf("%w: invalid HTTP method", ErrUsage)
	ErrUnknownFilter        = fmt.Errorf("%w: unknown filter field", ErrUsage)
	ErrMalformedBBoxes      = fmt.Errorf("%w: invalid bboxes format", ErrUsage)
	ErrMalformedCoordinates = fmt.Errorf("%w: invalid coordinates format", ErrUsage)
)

// ErrUnrecognizedPayload is the cause of a DecodeError for 2xx bodies that
// are neither JSON nor CSV.
var ErrUnrecognizedPayload = errors.New("unrecognized response payload")

// ErrNoMoreItems ends a Cursor sequence. It is a stop signal, not a failure.
var ErrNoMoreItems = errors.New("no more items")

// HTTP error kinds selected by status code.
var (
	ErrBadRequest          = errors.New("bad request")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrNotFound            = errors.New("not found")
	ErrMethodNotAllowed    = errors.New("method not allowed")
	ErrConflict            = errors.New("conflict")
	ErrUnprocessableEntity = errors.New("unprocessable entity")
	ErrTooManyRequests     = errors.New("too many requests")
	ErrInternalServer      = errors.New("internal server error")
	ErrBadGateway          = errors.New("bad gateway")
	ErrServiceUnavailable  = errors.New("service unavailable")
	ErrGatewayTimeout      = errors.New("gateway timeout")
)

var statusKinds = map[int]error{
	http.StatusBadRequest:          ErrBadRequest,
	http.StatusUnauthorized:        ErrUnauthorized,
	http.StatusForbidden:           ErrForbidden,
	http.StatusNotFound:            ErrNotFound,
	http.StatusMethodNotAllowed:    ErrMethodNotAllowed,
	http.StatusConflict:            ErrConflict,
	http.StatusUnprocessableEntity: ErrUnprocessableEntity,
	http.StatusTooManyRequests:     ErrTooManyRequests,
	http.StatusInternalServerError: ErrInternalServer,
	http.StatusBadGateway:          ErrBadGateway,
	http.StatusServiceUnavailable:  ErrServiceUnavailable,
	http.StatusGatewayTimeout:      ErrGatewayTimeout,
}

// ErrorKindForStatus returns the error kind for an HTTP status code, or ErrAPI
// when the code has no dedicated kind.
func ErrorKindForStatus(status int) error {
	if kind, ok := statusKinds[status]; ok {
		return kind
	}

	return ErrAPI
}

// APIError is returned for non-2xx responses.
type APIError struct {
	StatusCode int    `json:"status_code" yaml:"status_code"`
	Kind       error  `json:"-"           yaml:"-"`
	Message    string `json:"message"     yaml:"message"`
	Body       []byte `json:"-"           yaml:"-"`
}

// NewAPIError builds an APIError from a status code and raw response body.
func NewAPIError(status int, body []byte) *APIError {
	return &APIError{
		StatusCode: status,
		Kind:       ErrorKindForStatus(status),
		Message:    ExtractErrorMessage(body),
		Body:       body,
	}
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Kind != nil && !errors.Is(e.Kind, ErrAPI) {
		return fmt.Sprintf("trapper: %s (status %d): %s", e.Kind, e.StatusCode, e.Message)
	}

	return fmt.Sprintf("trapper: API error (status %d): %s", e.StatusCode, e.Message)
}

// Unwrap lets errors.Is match both ErrAPI and the status kind.
func (e *APIError) Unwrap() []error {
	if e.Kind == nil || errors.Is(e.Kind, ErrAPI) {
		return []error{ErrAPI}
	}

	return []error{ErrAPI, e.Kind}
}

// ExtractErrorMessage returns the `_error.message` field of a JSON error body,
// then the `detail` field, falling back to the body text.
func ExtractErrorMessage(body []byte) string {
	var payload struct {
		Error *struct {
			Message string `json:"message"`
		} `json:"_error"`
		Detail string `json:"detail"`
	}

	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Error != nil && payload.Error.Message != "" {
			return payload.Error.Message
		}

		if payload.Detail != "" {
			return payload.Detail
		}
	}

	return strings.TrimSpace(string(body))
}

// DecodeError reports a response body or record that could not be decoded.
type DecodeError struct {
	Format string
	Err    error
	Body   []byte
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("trapper: decoding %s: %v", e.Format, e.Err)
}

// Unwrap exposes ErrDecode and the underlying cause.
func (e *DecodeError) Unwrap() []error {
	return []error{ErrDecode, e.Err}
}

// IsNotFound checks if an error is a 404 response.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsUnauthorized checks if an error is a 401 response.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// IsForbidden checks if an error is a 403 response.
func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden)
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}

	return 0
}
