package main

import (
	"io"
	"log/slog"

	"github.com/ngmaloney/weather-now/internal/config"
	"github.com/ngmaloney/weather-now/internal/geocoding"
	"github.com/ngmaloney/weather-now/internal/history"
	"github.com/ngmaloney/weather-now/internal/openmeteo"
	"github.com/ngmaloney/weather-now/internal/resolver"
)

// app holds the dependencies shared by every command
type app struct {
	logger   *slog.Logger
	resolver *resolver.Resolver
	history  *history.Repository // nil when history is disabled
}

// newApp wires the clients, history store and resolver from configuration.
// logFallback receives logs when no log file is configured.
func newApp(cfg *config.Config, logFallback io.Writer) (*app, func() error, error) {
	w, closeLog, err := cfg.OpenLogFile(logFallback)
	if err != nil {
		return nil, nil, err
	}

	logger := cfg.NewLogger(w)
	slog.SetDefault(logger)

	// One limiter shared by both upstream calls
	limiter := cfg.NewLimiter()

	geocoder := geocoding.NewGeocoder(
		geocoding.WithBaseURL(cfg.OpenMeteo.GeocodingURL),
		geocoding.WithTimeout(cfg.OpenMeteo.Timeout),
		geocoding.WithUserAgent(cfg.OpenMeteo.UserAgent),
		geocoding.WithLimiter(limiter),
		geocoding.WithLogger(logger),
	)
	forecast := openmeteo.NewForecastClient(
		openmeteo.WithBaseURL(cfg.OpenMeteo.ForecastURL),
		openmeteo.WithTimeout(cfg.OpenMeteo.Timeout),
		openmeteo.WithUserAgent(cfg.OpenMeteo.UserAgent),
		openmeteo.WithLimiter(limiter),
		openmeteo.WithLogger(logger),
	)

	a := &app{logger: logger}

	opts := []resolver.Option{resolver.WithLogger(logger)}
	if cfg.History.Enabled {
		a.history = history.NewRepository(cfg.History.Path)
		opts = append(opts, resolver.WithRecorder(a.history))
	}

	a.resolver = resolver.New(geocoder, forecast, opts...)

	logger.Debug("application configured",
		"geocoding_url", cfg.OpenMeteo.GeocodingURL,
		"forecast_url", cfg.OpenMeteo.ForecastURL,
		"history", cfg.History.Enabled,
	)

	return a, closeLog, nil
}
