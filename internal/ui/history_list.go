package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/ngmaloney/weather-now/internal/models"
)

// searchItem wraps a SearchEntry for use in a list
type searchItem struct {
	entry models.SearchEntry
}

// FilterValue implements list.Item
func (s searchItem) FilterValue() string {
	return s.entry.Label()
}

// Title implements list.DefaultItem
func (s searchItem) Title() string {
	return s.entry.Label()
}

// Description implements list.DefaultItem
func (s searchItem) Description() string {
	times := "once"
	if s.entry.Count > 1 {
		times = fmt.Sprintf("%d times", s.entry.Count)
	}
	return fmt.Sprintf("%.2f, %.2f · searched %s · last %s",
		s.entry.Latitude, s.entry.Longitude, times, s.entry.SearchedAt.Local().Format("Jan 2 15:04"))
}

// createHistoryList creates a list.Model from recent searches
func createHistoryList(entries []models.SearchEntry, width, height int) list.Model {
	items := make([]list.Item, len(entries))
	for i, entry := range entries {
		items[i] = searchItem{entry: entry}
	}

	l := list.New(items, list.NewDefaultDelegate(), width, height)
	l.Title = "Recent Searches"
	l.SetShowHelp(true)
	l.SetFilteringEnabled(false)

	return l
}
