package trapper

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
)

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

var (
	timeType        = reflect.TypeOf(time.Time{})
	coordinatesType = reflect.TypeOf(Coordinates{})
	bboxesType      = reflect.TypeOf(BBoxes{})
)

// Decode converts a record into T. When T is Record the row is returned as-is.
//
// Field names follow the json struct tags. String values are converted to
// numbers, booleans and times as needed, since CSV rows carry strings only.
func Decode[T any](rec Record) (T, error) {
	var out T

	if raw, ok := any(rec).(T); ok {
		return raw, nil
	}

	// mapstructure flattens hook errors into strings, so usage errors raised
	// by the hooks are kept aside to preserve their identity.
	var usageErr error

	keep := func(hook mapstructure.DecodeHookFuncType) mapstructure.DecodeHookFuncType {
		return func(from reflect.Type, to reflect.Type, data any) (any, error) {
			converted, err := hook(from, to, data)
			if err != nil && usageErr == nil && errors.Is(err, ErrUsage) {
				usageErr = err
			}

			return converted, err
		}
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Squash:           true,
		Result:           &out,
		// emptyStringToNilHook must stay last: hooks after it would be
		// handed a nil value.
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			keep(coordinatesHook),
			keep(bboxesHook),
			timeHook,
			emptyStringToNilHook,
		),
	})
	if err != nil {
		return out, fmt.Errorf("creating record decoder: %w", err)
	}

	if err := decoder.Decode(map[string]any(rec)); err != nil {
		if usageErr != nil {
			return out, usageErr
		}

		return out, &DecodeError{Format: "record", Err: err}
	}

	return out, nil
}

// DecodeList converts every record of env into T.
func DecodeList[T any](env *Envelope) (*List[T], error) {
	list := &List[T]{
		Pagination: env.Pagination,
		Results:    make([]T, 0, len(env.Results)),
	}

	for i, rec := range env.Results {
		item, err := Decode[T](rec)
		if err != nil {
			return nil, fmt.Errorf("decoding result %d: %w", i, err)
		}

		list.Results = append(list.Results, item)
	}

	return list, nil
}

// emptyStringToNilHook maps "" to nil for pointer targets so optional CSV
// columns decode as absent.
func emptyStringToNilHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to.Kind() != reflect.Ptr {
		return data, nil
	}

	if s, ok := data.(string); ok && strings.TrimSpace(s) == "" {
		return nil, nil
	}

	return data, nil
}

func timeHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to != timeType {
		return data, nil
	}

	value := strings.TrimSpace(data.(string))
	if value == "" {
		return time.Time{}, nil
	}

	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}

	return nil, fmt.Errorf("parsing time %q: unsupported layout", value)
}

func coordinatesHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to != coordinatesType {
		return data, nil
	}

	return ParseCoordinates(data.(string))
}

func bboxesHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to != bboxesType {
		return data, nil
	}

	return ParseBBoxes(data.(string))
}

// Coordinates is a latitude/longitude pair.
type Coordinates struct {
	Latitude  float64 `json:"latitude"  yaml:"latitude"`
	Longitude float64 `json:"longitude" yaml:"longitude"`
}

// ParseCoordinates reads "lat, lon" or "lat lon".
func ParseCoordinates(value string) (Coordinates, error) {
	parts := strings.FieldsFunc(value, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})

	if len(parts) != 2 {
		return Coordinates{}, fmt.Errorf("%w: %q", ErrMalformedCoordinates, value)
	}

	lat, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return Coordinates{}, fmt.Errorf("%w: %q", ErrMalformedCoordinates, value)
	}

	lon, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return Coordinates{}, fmt.Errorf("%w: %q", ErrMalformedCoordinates, value)
	}

	return Coordinates{Latitude: lat, Longitude: lon}, nil
}

// BBoxes is a list of bounding boxes, each [x, y, width, height].
type BBoxes [][]float64

// ParseBBoxes reads a JSON-encoded list of boxes. Tuple notation such as
// "[(0.1, 0.2, 0.3, 0.4)]" is accepted too.
func ParseBBoxes(value string) (BBoxes, error) {
	value = strings.TrimSpace(value)
	if value == "" || value == "[]" {
		return BBoxes{}, nil
	}

	var boxes BBoxes
	if err := json.Unmarshal([]byte(value), &boxes); err == nil {
		return boxes, nil
	}

	listed := strings.NewReplacer("(", "[", ")", "]").Replace(value)
	if err := json.Unmarshal([]byte(listed), &boxes); err == nil {
		return boxes, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrMalformedBBoxes, value)
}
