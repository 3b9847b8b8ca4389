package api

import (
	"context"
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/ngmaloney/weather-now/internal/models"
	"github.com/ngmaloney/weather-now/internal/resolver"
)

// Resolver resolves a raw city name into current weather
type Resolver interface {
	Resolve(ctx context.Context, raw string) (*resolver.Result, error)
}

// HistoryStore lists recently resolved locations
type HistoryStore interface {
	ListRecent(ctx context.Context, limit int) ([]models.SearchEntry, error)
}

// Server encapsulates the HTTP surface and its dependencies
type Server struct {
	router       *gin.Engine
	logger       *slog.Logger
	resolver     Resolver
	history      HistoryStore // nil when history is disabled
	historyLimit int
}

// NewServer creates a server with injected dependencies. history may be nil.
func NewServer(r Resolver, history HistoryStore, historyLimit int, logger *slog.Logger) *Server {
	router := gin.New()

	// Add middleware
	router.Use(gin.Recovery())
	router.Use(requestID())
	router.Use(requestLogger(logger))

	s := &Server{
		router:       router,
		logger:       logger,
		resolver:     r,
		history:      history,
		historyLimit: historyLimit,
	}

	s.registerRoutes()

	return s
}

// Handler exposes the router for http.Server and tests
func (s *Server) Handler() *gin.Engine {
	return s.router
}

// Run starts the HTTP server
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

// registerRoutes sets up all API endpoints
func (s *Server) registerRoutes() {
	s.router.GET("/health", s.handleHealth)

	v1 := s.router.Group("/api/v1")
	v1.GET("/weather", s.handleGetWeather)
	v1.GET("/history", s.handleListHistory)
}
