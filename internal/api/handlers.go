package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ngmaloney/weather-now/internal/models"
	"github.com/ngmaloney/weather-now/internal/resolver"
)

// HealthResponse represents the response for the health endpoint
type HealthResponse struct {
	Status string `json:"status"`
}

// WeatherResponse is a successful resolution
type WeatherResponse struct {
	Label    string                 `json:"label"`
	Location models.Location        `json:"location"`
	Weather  models.WeatherSnapshot `json:"weather"`
}

// ErrorResponse carries the failure kind and its user-facing message
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// HistoryResponse lists recent searches, newest first
type HistoryResponse struct {
	Searches []models.SearchEntry `json:"searches"`
}

// GetWeatherInput defines the query parameters for the weather endpoint
type GetWeatherInput struct {
	City string `form:"city"`
}

// ListHistoryInput defines the query parameters for the history endpoint
type ListHistoryInput struct {
	Limit int `form:"limit"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

func (s *Server) handleGetWeather(c *gin.Context) {
	var input GetWeatherInput
	if err := c.ShouldBindQuery(&input); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "BadRequest", Message: err.Error()})
		return
	}

	// Validation happens inside Resolve so empty input never reaches the network
	result, err := s.resolver.Resolve(c.Request.Context(), input.City)
	if err != nil {
		kind := resolver.KindOf(err)
		status := statusFor(kind)
		if status >= http.StatusInternalServerError {
			s.logger.Error("failed to resolve weather",
				"request_id", c.GetString(requestIDHeader),
				"city", input.City,
				"error", err,
			)
		}
		c.JSON(status, ErrorResponse{Error: kind.String(), Message: kind.Message()})
		return
	}

	c.JSON(http.StatusOK, WeatherResponse{
		Label:    result.Label,
		Location: result.Location,
		Weather:  result.Weather,
	})
}

func (s *Server) handleListHistory(c *gin.Context) {
	var input ListHistoryInput
	if err := c.ShouldBindQuery(&input); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "BadRequest", Message: err.Error()})
		return
	}

	if s.history == nil {
		c.JSON(http.StatusOK, HistoryResponse{Searches: []models.SearchEntry{}})
		return
	}

	limit := input.Limit
	if limit <= 0 {
		limit = s.historyLimit
	}

	entries, err := s.history.ListRecent(c.Request.Context(), limit)
	if err != nil {
		s.logger.Error("failed to list history", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "HistoryUnavailable", Message: "failed to list recent searches"})
		return
	}
	if entries == nil {
		entries = []models.SearchEntry{}
	}

	c.JSON(http.StatusOK, HistoryResponse{Searches: entries})
}

// statusFor maps a failure kind to its HTTP status
func statusFor(kind resolver.Kind) int {
	switch kind {
	case resolver.KindEmptyInput:
		return http.StatusBadRequest
	case resolver.KindCityNotFound:
		return http.StatusNotFound
	case resolver.KindGeocodeRequestFailed, resolver.KindForecastRequestFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
