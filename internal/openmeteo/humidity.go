package openmeteo

import "github.com/ngmaloney/weather-now/internal/models"

// HumidityAt returns the humidity sample whose timestamp equals ts exactly.
// The first match wins; a missing series, no match, or a null sample is unavailable.
func (h *Hourly) HumidityAt(ts string) models.Humidity {
	if h == nil || h.Time == nil || h.RelativeHumidity == nil {
		return models.Humidity{}
	}

	for i, t := range h.Time {
		if t != ts {
			continue
		}
		if i >= len(h.RelativeHumidity) || h.RelativeHumidity[i] == nil {
			return models.Humidity{}
		}
		return models.HumidityOf(*h.RelativeHumidity[i])
	}

	return models.Humidity{}
}
