package models

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// HumidityUnavailable is reported when no hourly sample matches the observation time
const HumidityUnavailable = "unavailable"

// ObservationLayout is the local-time format Open-Meteo uses for current_weather.time
const ObservationLayout = "2006-01-02T15:04"

// Location is the best geocoding match for a city name
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Name      string  `json:"name"`
	Country   string  `json:"country,omitempty"`
}

// Label returns the canonical display label, e.g. "Paris, France" or "Paris"
func (l Location) Label() string {
	if l.Country == "" {
		return l.Name
	}
	return fmt.Sprintf("%s, %s", l.Name, l.Country)
}

// Humidity is a relative humidity percentage that may be missing
type Humidity struct {
	Percent   float64
	Available bool
}

// HumidityOf returns an available humidity value
func HumidityOf(percent float64) Humidity {
	return Humidity{Percent: percent, Available: true}
}

func (h Humidity) String() string {
	if !h.Available {
		return HumidityUnavailable
	}
	return fmt.Sprintf("%.0f%%", math.Round(h.Percent))
}

// MarshalJSON encodes the percentage as a number, or the unavailable sentinel as a string
func (h Humidity) MarshalJSON() ([]byte, error) {
	if !h.Available {
		return json.Marshal(HumidityUnavailable)
	}
	return json.Marshal(h.Percent)
}

// WeatherSnapshot represents current weather conditions at a location
type WeatherSnapshot struct {
	Temperature float64  `json:"temperature"` // °C
	WindSpeed   float64  `json:"wind_speed"`  // km/h
	WeatherCode int      `json:"weather_code"`
	ObservedAt  string   `json:"observed_at"` // verbatim from current_weather.time
	Humidity    Humidity `json:"humidity"`
}

// ObservedTime parses ObservedAt for display. The raw string stays authoritative.
func (w WeatherSnapshot) ObservedTime() (time.Time, bool) {
	t, err := time.Parse(ObservationLayout, w.ObservedAt)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
