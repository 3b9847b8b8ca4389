package resolver

import (
	"errors"
	"fmt"
)

// Kind classifies why a resolution attempt failed
type Kind int

const (
	KindUnexpected Kind = iota
	KindEmptyInput
	KindCityNotFound
	KindGeocodeRequestFailed
	KindForecastRequestFailed
)

func (k Kind) String() string {
	switch k {
	case KindEmptyInput:
		return "EmptyInput"
	case KindCityNotFound:
		return "CityNotFound"
	case KindGeocodeRequestFailed:
		return "GeocodeRequestFailed"
	case KindForecastRequestFailed:
		return "ForecastRequestFailed"
	default:
		return "Unexpected"
	}
}

// Message returns the text shown to the user for this kind
func (k Kind) Message() string {
	switch k {
	case KindEmptyInput:
		return "Please enter a city name"
	case KindCityNotFound:
		return "City not found"
	case KindGeocodeRequestFailed:
		return "Geocoding request failed"
	case KindForecastRequestFailed:
		return "Weather request failed"
	default:
		return "Unable to fetch weather data"
	}
}

// Error is the single terminal outcome of a failed resolution
type Error struct {
	Kind Kind
	Err  error // underlying cause, nil for EmptyInput
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.Message()
	}
	return fmt.Sprintf("%s: %v", e.Kind.Message(), e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error with the same Kind, so errors.Is(err, ErrCityNotFound) works
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Err == nil && t.Kind == e.Kind
}

// Sentinels for errors.Is comparisons
var (
	ErrEmptyInput            = &Error{Kind: KindEmptyInput}
	ErrCityNotFound          = &Error{Kind: KindCityNotFound}
	ErrGeocodeRequestFailed  = &Error{Kind: KindGeocodeRequestFailed}
	ErrForecastRequestFailed = &Error{Kind: KindForecastRequestFailed}
	ErrUnexpected            = &Error{Kind: KindUnexpected}
)

// KindOf reports the Kind of err; errors outside the taxonomy are Unexpected
func KindOf(err error) Kind {
	var rerr *Error
	if errors.As(err, &rerr) {
		return rerr.Kind
	}
	return KindUnexpected
}

// Message returns the user-facing message for err, or "" when err is nil
func Message(err error) string {
	if err == nil {
		return ""
	}
	return KindOf(err).Message()
}
