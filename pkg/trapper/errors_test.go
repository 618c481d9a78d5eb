package trapper_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wildintel/trapper-client/pkg/trapper"
)

func TestErrorKindForStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status int
		want   error
	}{
		{http.StatusBadRequest, trapper.ErrBadRequest},
		{http.StatusUnauthorized, trapper.ErrUnauthorized},
		{http.StatusForbidden, trapper.ErrForbidden},
		{http.StatusNotFound, trapper.ErrNotFound},
		{http.StatusTooManyRequests, trapper.ErrTooManyRequests},
		{http.StatusInternalServerError, trapper.ErrInternalServer},
		{http.StatusServiceUnavailable, trapper.ErrServiceUnavailable},
		{http.StatusTeapot, trapper.ErrAPI},
		{599, trapper.ErrAPI},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, trapper.ErrorKindForStatus(tt.status))
		})
	}
}

func TestExtractErrorMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		want string
	}{
		{"error envelope", `{"_error": {"message": "Invalid classification project"}}`, "Invalid classification project"},
		{"detail", `{"detail": "Authentication credentials were not provided."}`, "Authentication credentials were not provided."},
		{"envelope wins over detail", `{"_error": {"message": "first"}, "detail": "second"}`, "first"},
		{"empty envelope message", `{"_error": {"message": ""}, "detail": "second"}`, "second"},
		{"other json", `{"errors": ["x"]}`, `{"errors": ["x"]}`},
		{"plain text", "  Bad Gateway\n", "Bad Gateway"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, trapper.ExtractErrorMessage([]byte(tt.body)))
		})
	}
}

func TestAPIError(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("listing locations: %w", trapper.NewAPIError(http.StatusNotFound, []byte(`{"detail": "Not found."}`)))

	require.ErrorIs(t, err, trapper.ErrAPI)
	require.ErrorIs(t, err, trapper.ErrNotFound)
	assert.NotErrorIs(t, err, trapper.ErrUnauthorized)
	assert.True(t, trapper.IsNotFound(err))
	assert.False(t, trapper.IsForbidden(err))
	assert.Equal(t, http.StatusNotFound, trapper.StatusCode(err))
	assert.Contains(t, err.Error(), "not found (status 404): Not found.")

	var apiErr *trapper.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.JSONEq(t, `{"detail": "Not found."}`, string(apiErr.Body))

	generic := trapper.NewAPIError(http.StatusTeapot, []byte("short and stout"))
	require.ErrorIs(t, generic, trapper.ErrAPI)
	assert.Equal(t, "trapper: API error (status 418): short and stout", generic.Error())

	assert.True(t, trapper.IsUnauthorized(trapper.NewAPIError(http.StatusUnauthorized, nil)))
	assert.True(t, trapper.IsForbidden(trapper.NewAPIError(http.StatusForbidden, nil)))
	assert.Zero(t, trapper.StatusCode(errors.New("plain")))
}

func TestErrorCategories(t *testing.T) {
	t.Parallel()

	require.ErrorIs(t, trapper.ErrNoCredentials, trapper.ErrConfiguration)
	require.ErrorIs(t, trapper.ErrConfigRequired, trapper.ErrConfiguration)
	require.ErrorIs(t, trapper.ErrBaseURLInvalid, trapper.ErrConfiguration)
	require.ErrorIs(t, trapper.ErrUnknownFilter, trapper.ErrUsage)
	require.ErrorIs(t, trapper.ErrInvalidMethod, trapper.ErrUsage)
	assert.NotErrorIs(t, trapper.ErrNoMoreItems, trapper.ErrUsage)

	decodeErr := &trapper.DecodeError{Format: "csv", Err: trapper.ErrUnrecognizedPayload}
	require.ErrorIs(t, decodeErr, trapper.ErrDecode)
	require.ErrorIs(t, decodeErr, trapper.ErrUnrecognizedPayload)
	assert.Equal(t, "trapper: decoding csv: unrecognized response payload", decodeErr.Error())
}
