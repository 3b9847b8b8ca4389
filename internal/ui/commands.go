package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ngmaloney/weather-now/internal/models"
	"github.com/ngmaloney/weather-now/internal/resolver"
)

// Resolver is the weather pipeline the model drives
type Resolver interface {
	Resolve(ctx context.Context, raw string) (*resolver.Result, error)
	Refresh(ctx context.Context, location models.Location) (*resolver.Result, error)
}

// HistoryStore lists and prunes recently resolved locations
type HistoryStore interface {
	ListRecent(ctx context.Context, limit int) ([]models.SearchEntry, error)
	Delete(ctx context.Context, id int64) error
}

// resolveCity runs geocode and forecast in the background. There is no
// cancellation: once started the attempt always completes.
func resolveCity(r Resolver, query string) tea.Cmd {
	return func() tea.Msg {
		result, err := r.Resolve(context.Background(), query)
		return resolvedMsg{result: result, err: err}
	}
}

// refreshLocation runs only the forecast step for a stored location
func refreshLocation(r Resolver, location models.Location) tea.Cmd {
	return func() tea.Msg {
		result, err := r.Refresh(context.Background(), location)
		return resolvedMsg{result: result, err: err}
	}
}

// loadHistory reads recent searches from the store
func loadHistory(store HistoryStore, limit int) tea.Cmd {
	return func() tea.Msg {
		entries, err := store.ListRecent(context.Background(), limit)
		return historyLoadedMsg{entries: entries, err: err}
	}
}

// deleteHistoryEntry removes one stored location
func deleteHistoryEntry(store HistoryStore, id int64) tea.Cmd {
	return func() tea.Msg {
		err := store.Delete(context.Background(), id)
		return historyDeletedMsg{id: id, err: err}
	}
}
