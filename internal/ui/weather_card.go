package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/ngmaloney/weather-now/internal/models"
	"github.com/ngmaloney/weather-now/internal/resolver"
)

// RenderCard renders a resolved snapshot as a bordered card
func RenderCard(result *resolver.Result, width int) string {
	if result == nil {
		return ""
	}

	// Border: 2 chars, Padding: 8 chars
	contentWidth := width - 10
	if contentWidth < 24 {
		contentWidth = 24
	}
	center := lipgloss.NewStyle().Width(contentWidth).Align(lipgloss.Center)

	w := result.Weather

	var lines []string
	lines = append(lines,
		center.Render(cityStyle.Render(result.Label)),
		"",
		center.Render(temperatureStyle.Render(formatTemperature(w.Temperature))),
		center.Render(valueStyle.Render(models.ConditionFor(w.WeatherCode).String())),
		center.Render(mutedStyle.Render("As of: "+formatObserved(w))),
		"",
		center.Render(fmt.Sprintf("%s %s    %s %s",
			labelStyle.Render("💨"), valueStyle.Render(formatWindSpeed(w.WindSpeed)),
			labelStyle.Render("💧"), valueStyle.Render(formatHumidity(w.Humidity)),
		)),
	)

	return cardStyle.Render(strings.Join(lines, "\n"))
}

// PlainCard renders a snapshot as unstyled text for non-interactive output
func PlainCard(result *resolver.Result) string {
	w := result.Weather
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", result.Label)
	fmt.Fprintf(&b, "  Temperature: %s\n", formatTemperature(w.Temperature))
	fmt.Fprintf(&b, "  Conditions:  %s\n", models.ConditionFor(w.WeatherCode))
	fmt.Fprintf(&b, "  Wind:        %s\n", formatWindSpeed(w.WindSpeed))
	fmt.Fprintf(&b, "  Humidity:    %s\n", formatHumidity(w.Humidity))
	fmt.Fprintf(&b, "  As of:       %s\n", formatObserved(w))
	return b.String()
}

// round avoids rendering "-0" for values just below zero
func round(v float64) float64 {
	r := math.Round(v)
	if r == 0 {
		return 0
	}
	return r
}

func formatTemperature(c float64) string {
	return fmt.Sprintf("%.0f°C", round(c))
}

func formatWindSpeed(kmh float64) string {
	return fmt.Sprintf("%.0f km/h", round(kmh))
}

func formatHumidity(h models.Humidity) string {
	if !h.Available {
		return "N/A"
	}
	return fmt.Sprintf("%.0f%%", round(h.Percent))
}

// formatObserved falls back to the raw timestamp when it cannot be parsed
func formatObserved(w models.WeatherSnapshot) string {
	t, ok := w.ObservedTime()
	if !ok {
		return w.ObservedAt
	}
	return t.Format("Mon, 02 Jan 2006 15:04")
}
