package resolver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/ngmaloney/weather-now/internal/geocoding"
	"github.com/ngmaloney/weather-now/internal/models"
	"github.com/ngmaloney/weather-now/internal/openmeteo"
)

// Mock steps for testing

type mockGeocoder struct {
	location *models.Location
	err      error
	calls    int
	query    string
}

func (m *mockGeocoder) ResolveLocation(ctx context.Context, cityName string) (*models.Location, error) {
	m.calls++
	m.query = cityName
	if m.err != nil {
		return nil, m.err
	}
	return m.location, nil
}

type mockFetcher struct {
	snapshot *models.WeatherSnapshot
	err      error
	calls    int
	location models.Location
}

func (m *mockFetcher) FetchWeather(ctx context.Context, location models.Location) (*models.WeatherSnapshot, error) {
	m.calls++
	m.location = location
	if m.err != nil {
		return nil, m.err
	}
	return m.snapshot, nil
}

type mockRecorder struct {
	recorded []models.Location
	err      error
}

func (m *mockRecorder) Record(ctx context.Context, location models.Location) error {
	m.recorded = append(m.recorded, location)
	return m.err
}

var paris = &models.Location{Latitude: 48.85341, Longitude: 2.3488, Name: "Paris", Country: "France"}

func TestValidate(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"London", "London", false},
		{"  London \t", "London", false},
		{"New York", "New York", false},
		{"", "", true},
		{"   ", "", true},
		{"\t\n", "", true},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%q", tt.input), func(t *testing.T) {
			got, err := Validate(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrEmptyInput) {
				t.Errorf("Validate(%q) error = %v, want ErrEmptyInput", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Validate(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestResolve_EmptyInputIssuesNoCalls(t *testing.T) {
	for _, input := range []string{"", " ", "\t  \n"} {
		g := &mockGeocoder{location: paris}
		f := &mockFetcher{snapshot: &models.WeatherSnapshot{}}

		result, err := New(g, f).Resolve(context.Background(), input)
		if result != nil {
			t.Errorf("Resolve(%q) result = %+v, want nil", input, result)
		}
		if KindOf(err) != KindEmptyInput {
			t.Errorf("Resolve(%q) kind = %v, want EmptyInput", input, KindOf(err))
		}
		if g.calls != 0 || f.calls != 0 {
			t.Errorf("Resolve(%q) made %d geocode and %d forecast calls, want 0", input, g.calls, f.calls)
		}
	}
}

func TestResolve_TrimsBeforeGeocoding(t *testing.T) {
	g := &mockGeocoder{location: paris}
	f := &mockFetcher{snapshot: &models.WeatherSnapshot{ObservedAt: "2024-01-01T12:00"}}

	result, err := New(g, f).Resolve(context.Background(), "  Paris  ")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if g.query != "Paris" {
		t.Errorf("geocoder query = %q, want 'Paris'", g.query)
	}
	if f.location != *paris {
		t.Errorf("forecast location = %+v, want %+v", f.location, *paris)
	}
	if result.Label != "Paris, France" {
		t.Errorf("Label = %q, want 'Paris, France'", result.Label)
	}
}

func TestResolve_GeocodeFailuresStopPipeline(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantKind Kind
	}{
		{"not found", fmt.Errorf("%w: %q", geocoding.ErrNotFound, "Nowhere"), KindCityNotFound},
		{"bad status", &geocoding.StatusError{StatusCode: 500}, KindGeocodeRequestFailed},
		{"transport", errors.New("dial tcp: connection refused"), KindGeocodeRequestFailed},
		{"cancelled", context.Canceled, KindGeocodeRequestFailed},
		{"malformed", fmt.Errorf("%w: eof", geocoding.ErrMalformedResponse), KindUnexpected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := &mockGeocoder{err: tt.err}
			f := &mockFetcher{snapshot: &models.WeatherSnapshot{}}
			rec := &mockRecorder{}

			result, err := New(g, f, WithRecorder(rec)).Resolve(context.Background(), "Nowhere")
			if result != nil {
				t.Errorf("result = %+v, want nil", result)
			}
			if got := KindOf(err); got != tt.wantKind {
				t.Errorf("kind = %v, want %v", got, tt.wantKind)
			}
			if !errors.Is(err, tt.err) {
				t.Errorf("error %v does not wrap cause %v", err, tt.err)
			}
			if f.calls != 0 {
				t.Errorf("forecast called %d times after geocode failure", f.calls)
			}
			if len(rec.recorded) != 0 {
				t.Errorf("recorded %d locations after failure", len(rec.recorded))
			}
		})
	}
}

func TestResolve_ForecastFailures(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantKind Kind
	}{
		{"bad status", &openmeteo.StatusError{StatusCode: 502}, KindForecastRequestFailed},
		{"transport", errors.New("i/o timeout"), KindForecastRequestFailed},
		{"malformed", fmt.Errorf("%w: current_weather missing", openmeteo.ErrMalformedResponse), KindUnexpected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := &mockGeocoder{location: paris}
			f := &mockFetcher{err: tt.err}

			result, err := New(g, f).Resolve(context.Background(), "Paris")
			if result != nil {
				t.Errorf("result = %+v, want nil (no partial state)", result)
			}
			if got := KindOf(err); got != tt.wantKind {
				t.Errorf("kind = %v, want %v", got, tt.wantKind)
			}
		})
	}
}

func TestResolve_RecorderFailureDoesNotFail(t *testing.T) {
	g := &mockGeocoder{location: paris}
	f := &mockFetcher{snapshot: &models.WeatherSnapshot{Temperature: 9}}
	rec := &mockRecorder{err: errors.New("disk full")}

	result, err := New(g, f, WithRecorder(rec)).Resolve(context.Background(), "Paris")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if result.Weather.Temperature != 9 {
		t.Errorf("Temperature = %v, want 9", result.Weather.Temperature)
	}
	if len(rec.recorded) != 1 || rec.recorded[0] != *paris {
		t.Errorf("recorded = %+v, want [Paris]", rec.recorded)
	}
}

func TestRefresh_SkipsGeocoding(t *testing.T) {
	g := &mockGeocoder{location: paris}
	f := &mockFetcher{snapshot: &models.WeatherSnapshot{WeatherCode: 3}}

	result, err := New(g, f).Refresh(context.Background(), models.Location{Name: "Paris", Latitude: 1, Longitude: 2})
	if err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if g.calls != 0 {
		t.Errorf("geocoder called %d times, want 0", g.calls)
	}
	if result.Label != "Paris" {
		t.Errorf("Label = %q, want 'Paris'", result.Label)
	}
}

// TestResolve_EndToEnd drives both real clients against fake Open-Meteo endpoints
func TestResolve_EndToEnd(t *testing.T) {
	var geocodeCalls, forecastCalls atomic.Int32

	geoServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		geocodeCalls.Add(1)
		if r.URL.Query().Get("name") != "London" {
			t.Errorf("geocode name = %q, want London", r.URL.Query().Get("name"))
		}
		w.Write([]byte(`{"results":[{"latitude":51.5,"longitude":-0.12,"name":"London","country":"United Kingdom"}]}`))
	}))
	defer geoServer.Close()

	forecastServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		forecastCalls.Add(1)
		if geocodeCalls.Load() != 1 {
			t.Error("forecast requested before geocoding completed")
		}
		times := make([]string, 24)
		humidity := make([]string, 24)
		for i := range times {
			times[i] = fmt.Sprintf(`"2024-03-01T%02d:00"`, i)
			humidity[i] = "60"
		}
		humidity[10] = "72"
		fmt.Fprintf(w, `{"current_weather":{"temperature":15.2,"windspeed":10.1,"weathercode":1,"time":"2024-03-01T10:00"},"hourly":{"time":[%s],"relativehumidity_2m":[%s]}}`,
			strings.Join(times, ","), strings.Join(humidity, ","))
	}))
	defer forecastServer.Close()

	r := New(
		geocoding.NewGeocoder(geocoding.WithBaseURL(geoServer.URL)),
		openmeteo.NewForecastClient(openmeteo.WithBaseURL(forecastServer.URL)),
	)

	result, err := r.Resolve(context.Background(), "London")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	want := models.WeatherSnapshot{
		Temperature: 15.2,
		WindSpeed:   10.1,
		WeatherCode: 1,
		ObservedAt:  "2024-03-01T10:00",
		Humidity:    models.HumidityOf(72),
	}
	if result.Weather != want {
		t.Errorf("Weather = %+v, want %+v", result.Weather, want)
	}
	if result.Label != "London, United Kingdom" {
		t.Errorf("Label = %q, want 'London, United Kingdom'", result.Label)
	}
	if geocodeCalls.Load() != 1 || forecastCalls.Load() != 1 {
		t.Errorf("calls = %d geocode, %d forecast, want 1 each", geocodeCalls.Load(), forecastCalls.Load())
	}
}

func TestResolve_EndToEndStatusFailures(t *testing.T) {
	t.Run("geocode status", func(t *testing.T) {
		var forecastCalls atomic.Int32
		geoServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer geoServer.Close()
		forecastServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			forecastCalls.Add(1)
		}))
		defer forecastServer.Close()

		r := New(
			geocoding.NewGeocoder(geocoding.WithBaseURL(geoServer.URL)),
			openmeteo.NewForecastClient(openmeteo.WithBaseURL(forecastServer.URL)),
		)
		_, err := r.Resolve(context.Background(), "London")
		if !errors.Is(err, ErrGeocodeRequestFailed) {
			t.Errorf("error = %v, want GeocodeRequestFailed", err)
		}
		if forecastCalls.Load() != 0 {
			t.Error("forecast endpoint called after geocode failure")
		}
	})

	t.Run("empty results", func(t *testing.T) {
		geoServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"results":[]}`))
		}))
		defer geoServer.Close()

		r := New(geocoding.NewGeocoder(geocoding.WithBaseURL(geoServer.URL)), &mockFetcher{})
		_, err := r.Resolve(context.Background(), "Xyzzy")
		if !errors.Is(err, ErrCityNotFound) {
			t.Errorf("error = %v, want CityNotFound", err)
		}
		if Message(err) != "City not found" {
			t.Errorf("Message() = %q, want 'City not found'", Message(err))
		}
	})

	t.Run("forecast status", func(t *testing.T) {
		forecastServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer forecastServer.Close()

		r := New(&mockGeocoder{location: paris}, openmeteo.NewForecastClient(openmeteo.WithBaseURL(forecastServer.URL)))
		_, err := r.Resolve(context.Background(), "Paris")
		if !errors.Is(err, ErrForecastRequestFailed) {
			t.Errorf("error = %v, want ForecastRequestFailed", err)
		}
		if Message(err) != "Weather request failed" {
			t.Errorf("Message() = %q", Message(err))
		}
	})
}
