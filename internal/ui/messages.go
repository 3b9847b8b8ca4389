package ui

import (
	"github.com/ngmaloney/weather-now/internal/models"
	"github.com/ngmaloney/weather-now/internal/resolver"
)

// Message types for async operations

// resolvedMsg is sent when a resolution attempt finishes, successfully or not
type resolvedMsg struct {
	result *resolver.Result
	err    error
}

// historyLoadedMsg is sent when recent searches have been read from the store
type historyLoadedMsg struct {
	entries []models.SearchEntry
	err     error
}

// historyDeletedMsg is sent when a stored location has been removed
type historyDeletedMsg struct {
	id  int64
	err error
}
