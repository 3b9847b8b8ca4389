package openmeteo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/ngmaloney/weather-now/internal/models"
	"golang.org/x/time/rate"
)

// API Docs: https://open-meteo.com/en/docs
// Sample request: https://api.open-meteo.com/v1/forecast?latitude=51.5&longitude=-0.12&current_weather=true&hourly=relativehumidity_2m&timezone=auto
const (
	DefaultForecastURL = "https://api.open-meteo.com/v1/forecast"
	userAgent          = "WeatherNow/1.0"
	humidityVariable   = "relativehumidity_2m"
)

// ErrMalformedResponse is returned when the body cannot be decoded or lacks current_weather
var ErrMalformedResponse = errors.New("malformed forecast response")

// StatusError reports a non-success HTTP status from the forecast endpoint
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("forecast API returned status %d", e.StatusCode)
}

// ForecastClient fetches current weather from the Open-Meteo forecast API
type ForecastClient struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
	limiter    *rate.Limiter
	logger     *slog.Logger
}

type Option func(*ForecastClient)

// WithBaseURL points the client at a different forecast endpoint
func WithBaseURL(u string) Option {
	return func(c *ForecastClient) { c.baseURL = u }
}

func WithTimeout(d time.Duration) Option {
	return func(c *ForecastClient) { c.httpClient.Timeout = d }
}

func WithUserAgent(ua string) Option {
	return func(c *ForecastClient) { c.userAgent = ua }
}

// WithLimiter throttles outbound requests
func WithLimiter(l *rate.Limiter) Option {
	return func(c *ForecastClient) { c.limiter = l }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *ForecastClient) { c.logger = l }
}

func NewForecastClient(opts ...Option) *ForecastClient {
	c := &ForecastClient{
		baseURL: DefaultForecastURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		userAgent: userAgent,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ForecastAPIResponse is the subset of the forecast response we request
type ForecastAPIResponse struct {
	Latitude       float64         `json:"latitude"`
	Longitude      float64         `json:"longitude"`
	Timezone       string          `json:"timezone"`
	CurrentWeather *CurrentWeather `json:"current_weather"`
	Hourly         *Hourly         `json:"hourly"`
}

type CurrentWeather struct {
	Temperature float64 `json:"temperature"`
	WindSpeed   float64 `json:"windspeed"`
	WeatherCode int     `json:"weathercode"`
	Time        string  `json:"time"`
}

// Hourly holds index-aligned series; null samples decode as nil
type Hourly struct {
	Time             []string   `json:"time"`
	RelativeHumidity []*float64 `json:"relativehumidity_2m"`
}

// FetchWeather retrieves the current weather snapshot for a location
func (c *ForecastClient) FetchWeather(ctx context.Context, location models.Location) (*models.WeatherSnapshot, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}

	q := u.Query()
	q.Set("latitude", strconv.FormatFloat(location.Latitude, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(location.Longitude, 'f', -1, 64))
	q.Set("current_weather", "true")
	q.Set("hourly", humidityVariable)
	q.Set("timezone", "auto")
	u.RawQuery = q.Encode()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait canceled: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("forecast request", "latitude", location.Latitude, "longitude", location.Longitude)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching forecast: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var apiResp ForecastAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if apiResp.CurrentWeather == nil {
		return nil, fmt.Errorf("%w: current_weather missing", ErrMalformedResponse)
	}

	return apiResp.Snapshot(), nil
}

// Snapshot converts the response into a WeatherSnapshot, sampling humidity at the observation time
func (r *ForecastAPIResponse) Snapshot() *models.WeatherSnapshot {
	current := r.CurrentWeather
	return &models.WeatherSnapshot{
		Temperature: current.Temperature,
		WindSpeed:   current.WindSpeed,
		WeatherCode: current.WeatherCode,
		ObservedAt:  current.Time,
		Humidity:    r.Hourly.HumidityAt(current.Time),
	}
}
