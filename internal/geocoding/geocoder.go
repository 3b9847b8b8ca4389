package geocoding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/ngmaloney/weather-now/internal/models"
	"golang.org/x/time/rate"
)

// API Docs: https://open-meteo.com/en/docs/geocoding-api
// Sample request: https://geocoding-api.open-meteo.com/v1/search?name=London&count=1
const (
	DefaultURL = "https://geocoding-api.open-meteo.com/v1/search"
	userAgent  = "WeatherNow/1.0"
)

var (
	// ErrNotFound is returned when the endpoint answers successfully with no results
	ErrNotFound = errors.New("city not found")

	// ErrMalformedResponse is returned when the response body is not the expected JSON
	ErrMalformedResponse = errors.New("malformed geocoding response")
)

// StatusError reports a non-success HTTP status from the geocoding endpoint
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("geocoding API returned status %d", e.StatusCode)
}

// Geocoder converts city names to coordinates using the Open-Meteo geocoding API
type Geocoder struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
	limiter    *rate.Limiter // nil means unlimited
	logger     *slog.Logger
}

// Option configures a Geocoder
type Option func(*Geocoder)

// WithBaseURL points the geocoder at a different search endpoint
func WithBaseURL(u string) Option {
	return func(g *Geocoder) { g.baseURL = u }
}

// WithTimeout sets the HTTP client timeout
func WithTimeout(d time.Duration) Option {
	return func(g *Geocoder) { g.httpClient.Timeout = d }
}

func WithUserAgent(ua string) Option {
	return func(g *Geocoder) { g.userAgent = ua }
}

// WithLimiter throttles outbound requests
func WithLimiter(l *rate.Limiter) Option {
	return func(g *Geocoder) { g.limiter = l }
}

func WithLogger(l *slog.Logger) Option {
	return func(g *Geocoder) { g.logger = l }
}

// NewGeocoder creates a new geocoder
func NewGeocoder(opts ...Option) *Geocoder {
	g := &Geocoder{
		baseURL: DefaultURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		userAgent: userAgent,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

type searchResponse struct {
	Results []struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
		Name      string  `json:"name"`
		Country   string  `json:"country"`
	} `json:"results"`
}

// ResolveLocation returns the best match for cityName. The caller trims and
// rejects empty input before calling.
func (g *Geocoder) ResolveLocation(ctx context.Context, cityName string) (*models.Location, error) {
	u, err := url.Parse(g.baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}

	q := u.Query()
	q.Set("name", cityName)
	q.Set("count", "1")
	u.RawQuery = q.Encode()

	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait canceled: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", g.userAgent)
	req.Header.Set("Accept", "application/json")

	g.logger.Debug("geocoding request", "city", cityName)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var result searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	if len(result.Results) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, cityName)
	}

	first := result.Results[0]
	g.logger.Debug("geocoding match", "city", cityName, "name", first.Name, "country", first.Country)

	return &models.Location{
		Latitude:  first.Latitude,
		Longitude: first.Longitude,
		Name:      first.Name,
		Country:   first.Country,
	}, nil
}
