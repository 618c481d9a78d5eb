package trapper_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wildintel/trapper-client/pkg/trapper"
)

func TestDecode_CSVStrings(t *testing.T) {
	t.Parallel()

	location, err := trapper.Decode[trapper.Location](trapper.Record{
		"pk":           "3",
		"location_id":  "LOC-3",
		"name":         "",
		"city":         "Białowieża",
		"date_created": "2023-01-02 10:00:00",
		"is_public":    "True",
		"coordinates":  "52.7, 23.8",
		"owner":        "alice",
	})
	require.NoError(t, err)

	assert.Equal(t, 3, location.PK)
	assert.Equal(t, "LOC-3", location.LocationID)
	assert.Nil(t, location.Name, "empty optional column decodes as absent")
	require.NotNil(t, location.City)
	assert.Equal(t, "Białowieża", *location.City)
	assert.Equal(t, time.Date(2023, 1, 2, 10, 0, 0, 0, time.UTC), location.DateCreated)
	assert.True(t, location.IsPublic)
	assert.Equal(t, trapper.Coordinates{Latitude: 52.7, Longitude: 23.8}, location.Coordinates)
}

func TestDecode_JSONValues(t *testing.T) {
	t.Parallel()

	deployment, err := trapper.Decode[trapper.Deployment](trapper.Record{
		"pk":              float64(11),
		"deployment_code": "D-11",
		"location":        float64(3),
		"start_date":      "2024-05-01T08:30:00Z",
		"tags":            []any{"forest", "river"},
		"correct_setup":   true,
		"unknown_column":  "ignored",
	})
	require.NoError(t, err)

	assert.Equal(t, 11, deployment.PK)
	assert.Equal(t, 3, deployment.Location)
	assert.Equal(t, []string{"forest", "river"}, deployment.Tags)
	assert.True(t, deployment.CorrectSetup)
	assert.Equal(t, 2024, deployment.StartDate.Year())
}

func TestDecode_RecordPassThrough(t *testing.T) {
	t.Parallel()

	rec := trapper.Record{"anything": []any{1, 2}}

	out, err := trapper.Decode[trapper.Record](rec)
	require.NoError(t, err)
	assert.Equal(t, rec, out)
}

func TestDecode_Errors(t *testing.T) {
	t.Parallel()

	_, err := trapper.Decode[trapper.Location](trapper.Record{"coordinates": "not a point"})
	require.ErrorIs(t, err, trapper.ErrMalformedCoordinates)
	require.ErrorIs(t, err, trapper.ErrUsage)

	_, err = trapper.Decode[trapper.Location](trapper.Record{"pk": "three"})
	require.ErrorIs(t, err, trapper.ErrDecode)

	var decodeErr *trapper.DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, "record", decodeErr.Format)

	_, err = trapper.Decode[trapper.Location](trapper.Record{"date_created": "yesterday"})
	require.ErrorIs(t, err, trapper.ErrDecode)
}

func TestDecodeList(t *testing.T) {
	t.Parallel()

	env := &trapper.Envelope{
		Pagination: trapper.Pagination{Page: 1, PageSize: 2, Pages: 4, Count: 8},
		Results:    []trapper.Record{{"pk": 1}, {"pk": "2"}},
	}

	list, err := trapper.DecodeList[pkRow](env)
	require.NoError(t, err)

	assert.Equal(t, env.Pagination, list.Pagination)
	assert.Equal(t, []pkRow{{1}, {2}}, list.Results)
	assert.Equal(t, 2, list.Len())

	odd := list.Filter(func(row pkRow) bool { return row.PK%2 == 1 })
	assert.Equal(t, []pkRow{{1}}, odd.Results)
	assert.Equal(t, env.Pagination, odd.Pagination)

	env.Results = append(env.Results, trapper.Record{"pk": "x"})

	_, err = trapper.DecodeList[pkRow](env)
	require.ErrorIs(t, err, trapper.ErrDecode)
	assert.Contains(t, err.Error(), "decoding result 2")
}

func TestParseCoordinates(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    trapper.Coordinates
		wantErr bool
	}{
		{"52.1, 21.0", trapper.Coordinates{Latitude: 52.1, Longitude: 21.0}, false},
		{"52.1 21.0", trapper.Coordinates{Latitude: 52.1, Longitude: 21.0}, false},
		{"-1.5,2", trapper.Coordinates{Latitude: -1.5, Longitude: 2}, false},
		{"52.1", trapper.Coordinates{}, true},
		{"a, b", trapper.Coordinates{}, true},
		{"1, 2, 3", trapper.Coordinates{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got, err := trapper.ParseCoordinates(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, trapper.ErrMalformedCoordinates)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseBBoxes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    trapper.BBoxes
		wantErr bool
	}{
		{"empty", "", trapper.BBoxes{}, false},
		{"empty list", "[]", trapper.BBoxes{}, false},
		{"json", "[[0.1, 0.2, 0.3, 0.4]]", trapper.BBoxes{{0.1, 0.2, 0.3, 0.4}}, false},
		{"tuples", "[(0.1, 0.2, 0.3, 0.4), (0.5, 0.5, 0.1, 0.1)]", trapper.BBoxes{{0.1, 0.2, 0.3, 0.4}, {0.5, 0.5, 0.1, 0.1}}, false},
		{"garbage", "boxes", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := trapper.ParseBBoxes(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, trapper.ErrMalformedBBoxes)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
