package resolver

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/ngmaloney/weather-now/internal/geocoding"
	"github.com/ngmaloney/weather-now/internal/models"
	"github.com/ngmaloney/weather-now/internal/openmeteo"
)

// LocationResolver performs the geocoding step
type LocationResolver interface {
	ResolveLocation(ctx context.Context, cityName string) (*models.Location, error)
}

// WeatherFetcher performs the forecast step
type WeatherFetcher interface {
	FetchWeather(ctx context.Context, location models.Location) (*models.WeatherSnapshot, error)
}

// Recorder is notified of every successfully resolved location
type Recorder interface {
	Record(ctx context.Context, location models.Location) error
}

// Result is a successful resolution
type Result struct {
	Location models.Location
	Weather  models.WeatherSnapshot
	Label    string
}

// Resolver runs geocode then forecast, strictly in that order
type Resolver struct {
	geocoder LocationResolver
	weather  WeatherFetcher
	recorder Recorder
	logger   *slog.Logger
}

type Option func(*Resolver)

// WithRecorder stores resolved locations. Recorder failures are logged and never fail a resolution.
func WithRecorder(r Recorder) Option {
	return func(res *Resolver) { res.recorder = r }
}

func WithLogger(l *slog.Logger) Option {
	return func(res *Resolver) { res.logger = l }
}

// New creates a resolver over the two pipeline steps
func New(geocoder LocationResolver, weather WeatherFetcher, opts ...Option) *Resolver {
	r := &Resolver{
		geocoder: geocoder,
		weather:  weather,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Validate trims raw input and rejects empty or whitespace-only city names
func Validate(raw string) (string, error) {
	city := strings.TrimSpace(raw)
	if city == "" {
		return "", ErrEmptyInput
	}
	return city, nil
}

// Resolve turns raw user input into a weather snapshot plus display label.
// Any failure aborts the pipeline and is returned as *Error.
func (r *Resolver) Resolve(ctx context.Context, raw string) (*Result, error) {
	city, err := Validate(raw)
	if err != nil {
		return nil, err
	}

	location, err := r.geocoder.ResolveLocation(ctx, city)
	if err != nil {
		r.logger.Warn("geocoding failed", "city", city, "error", err)
		return nil, classifyGeocode(err)
	}

	return r.Refresh(ctx, *location)
}

// Refresh runs only the forecast step for an already geocoded location
func (r *Resolver) Refresh(ctx context.Context, location models.Location) (*Result, error) {
	snapshot, err := r.weather.FetchWeather(ctx, location)
	if err != nil {
		r.logger.Warn("forecast failed", "location", location.Label(), "error", err)
		return nil, classifyForecast(err)
	}

	result := &Result{
		Location: location,
		Weather:  *snapshot,
		Label:    location.Label(),
	}

	r.logger.Info("weather resolved",
		"label", result.Label,
		"temperature", snapshot.Temperature,
		"observed_at", snapshot.ObservedAt,
		"humidity", snapshot.Humidity.String(),
	)

	if r.recorder != nil {
		if err := r.recorder.Record(ctx, location); err != nil {
			r.logger.Warn("recording search failed", "label", result.Label, "error", err)
		}
	}

	return result, nil
}

func classifyGeocode(err error) error {
	switch {
	case errors.Is(err, geocoding.ErrNotFound):
		return &Error{Kind: KindCityNotFound, Err: err}
	case errors.Is(err, geocoding.ErrMalformedResponse):
		return &Error{Kind: KindUnexpected, Err: err}
	default:
		// non-2xx status, transport failures, cancellation
		return &Error{Kind: KindGeocodeRequestFailed, Err: err}
	}
}

func classifyForecast(err error) error {
	if errors.Is(err, openmeteo.ErrMalformedResponse) {
		return &Error{Kind: KindUnexpected, Err: err}
	}
	return &Error{Kind: KindForecastRequestFailed, Err: err}
}
