package graph

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// OpenFlights writes missing values as \N.
const nullMarker = `\N`

var (
	// ErrMissingField is wrapped by a ParseError when a required value is empty or null.
	ErrMissingField = errors.New("missing value")
	// ErrUnknownAirport is returned for queries about an airport that is not loaded.
	ErrUnknownAirport = errors.New("unknown airport")
)

// ParseError describes a malformed field in airport or route data.
type ParseError struct {
	Field string
	Value string
	Line  int // 1-based; 0 when unknown
	Err   error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: invalid %s %q: %v", e.Line, e.Field, e.Value, e.Err)
	}
	return fmt.Sprintf("invalid %s %q: %v", e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ParseID parses an airport identifier. Empty and null values are rejected
// rather than coerced to zero.
func ParseID(field, value string) (int32, error) {
	v := strings.TrimSpace(value)
	if v == "" || v == nullMarker {
		return 0, &ParseError{Field: field, Value: value, Err: ErrMissingField}
	}
	n, err := strconv.ParseInt(v, 10, 32)
	if err != nil {
		return 0, &ParseError{Field: field, Value: value, Err: err}
	}
	return int32(n), nil
}

// ParseFloat parses a required floating point field such as altitude.
func ParseFloat(field, value string) (float64, error) {
	v := strings.TrimSpace(value)
	if v == "" || v == nullMarker {
		return 0, &ParseError{Field: field, Value: value, Err: ErrMissingField}
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, &ParseError{Field: field, Value: value, Err: err}
	}
	return f, nil
}

// IsNull reports whether a raw field holds no value.
func IsNull(value string) bool {
	v := strings.TrimSpace(value)
	return v == "" || v == nullMarker
}
