package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/ngmaloney/weather-now/internal/resolver"
)

// AppState represents the current state of the application
type AppState int

const (
	StateSearch  AppState = iota // Idle, waiting for a city name
	StateLoading                 // Resolving; new triggers are ignored
	StateDisplay                 // Resolved, showing the weather card
	StateError                   // Failed, showing the error message
	StateHistory                 // Picking a recent search
)

func (s AppState) String() string {
	switch s {
	case StateSearch:
		return "search"
	case StateLoading:
		return "loading"
	case StateDisplay:
		return "display"
	case StateError:
		return "error"
	case StateHistory:
		return "history"
	}
	return fmt.Sprintf("AppState(%d)", int(s))
}

var errNoHistory = errors.New("no recent searches yet")

// Model represents the application's state
type Model struct {
	state  AppState
	width  int
	height int
	err    error

	// Search
	searchInput textinput.Model
	pending     string // city or label being resolved
	spinner     spinner.Model

	resolver Resolver
	result   *resolver.Result

	// Recent searches, nil store when disabled
	history      HistoryStore
	historyLimit int
	historyList  list.Model
	returnState  AppState // state to restore when leaving the history list
}

// Option configures a Model
type Option func(*Model)

// WithHistory enables the recent-search picker
func WithHistory(store HistoryStore, limit int) Option {
	return func(m *Model) {
		m.history = store
		m.historyLimit = limit
	}
}

// WithInitialCity pre-fills the search input
func WithInitialCity(city string) Option {
	return func(m *Model) {
		m.searchInput.SetValue(city)
	}
}

// NewModel creates a new application model
func NewModel(r Resolver, opts ...Option) Model {
	ti := textinput.New()
	ti.Placeholder = "Enter city (e.g. London)"
	ti.Focus()
	ti.CharLimit = 100
	ti.Width = 60

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(colorPrimary)

	m := Model{
		state:       StateSearch,
		searchInput: ti,
		spinner:     s,
		resolver:    r,
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// State returns the current lifecycle state
func (m Model) State() AppState {
	return m.state
}

// Result returns the last successful resolution, nil if none is displayed
func (m Model) Result() *resolver.Result {
	return m.result
}

// Err returns the error being displayed
func (m Model) Err() error {
	return m.err
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	// Handle window size
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = msg.Width
		m.height = msg.Height
		if m.state == StateHistory {
			m.historyList.SetSize(listSize(msg.Width, msg.Height))
		}
		return m, nil
	}

	// Handle custom messages
	switch msg := msg.(type) {
	case resolvedMsg:
		if m.state != StateLoading {
			// Nothing is in flight; drop it
			return m, nil
		}
		m.pending = ""
		m.searchInput.Focus()
		if msg.err != nil {
			m.err = msg.err
			m.result = nil
			m.state = StateError
			return m, textinput.Blink
		}
		m.err = nil
		m.result = msg.result
		m.state = StateDisplay
		// Show the canonical label in the input
		m.searchInput.SetValue(msg.result.Label)
		m.searchInput.CursorEnd()
		return m, textinput.Blink

	case historyLoadedMsg:
		if !m.idle() {
			// A resolution started or the list is already open
			return m, nil
		}
		if msg.err != nil {
			m.err = fmt.Errorf("loading recent searches: %w", msg.err)
			m.state = StateError
			return m, nil
		}
		if len(msg.entries) == 0 {
			m.err = errNoHistory
			m.state = StateError
			return m, nil
		}
		m.returnState = m.state
		w, h := listSize(m.width, m.height)
		m.historyList = createHistoryList(msg.entries, w, h)
		m.state = StateHistory
		m.searchInput.Blur()
		return m, nil

	case historyDeletedMsg:
		if m.state != StateHistory {
			return m, nil
		}
		if msg.err != nil {
			m.err = fmt.Errorf("deleting recent search: %w", msg.err)
			m.state = StateError
			m.searchInput.Focus()
			return m, nil
		}
		for i, item := range m.historyList.Items() {
			if s, ok := item.(searchItem); ok && s.entry.ID == msg.id {
				m.historyList.RemoveItem(i)
				break
			}
		}
		if len(m.historyList.Items()) == 0 {
			m.state = m.returnState
			m.searchInput.Focus()
			return m, textinput.Blink
		}
		return m, nil

	case spinner.TickMsg:
		if m.state != StateLoading {
			return m, nil
		}
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	// Handle keyboard input
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		// Global keys
		if keyMsg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}

		// State-specific handling
		switch m.state {
		case StateLoading:
			// Input is disabled while a resolution is in flight
			return m, nil

		case StateHistory:
			return m.handleHistoryList(keyMsg)

		default:
			return m.handleSearchInput(keyMsg)
		}
	}

	// Update appropriate component based on state
	switch m.state {
	case StateHistory:
		m.historyList, cmd = m.historyList.Update(msg)
	case StateLoading:
	default:
		m.searchInput, cmd = m.searchInput.Update(msg)
	}

	return m, cmd
}

// idle reports whether no resolution is in flight and the history list is closed
func (m Model) idle() bool {
	switch m.state {
	case StateSearch, StateDisplay, StateError:
		return true
	}
	return false
}

// handleSearchInput handles keyboard input in the search, display and error states
func (m Model) handleSearchInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg.Type {
	case tea.KeyEnter:
		return m.startResolve()

	case tea.KeyEsc:
		return m, tea.Quit

	case tea.KeyCtrlR:
		if m.history == nil {
			return m, nil
		}
		return m, loadHistory(m.history, m.historyLimit)
	}

	// Typing after a failure returns to search and clears the error
	if m.state == StateError {
		m.err = nil
		m.state = StateSearch
	}

	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

// startResolve validates the input and begins a resolution
func (m Model) startResolve() (tea.Model, tea.Cmd) {
	query, err := resolver.Validate(m.searchInput.Value())
	if err != nil {
		// Rejected without touching the network
		m.err = err
		m.result = nil
		m.state = StateError
		return m, nil
	}

	m.err = nil
	m.result = nil
	m.pending = query
	m.state = StateLoading
	m.searchInput.Blur()
	return m, tea.Batch(m.spinner.Tick, resolveCity(m.resolver, query))
}

// handleHistoryList handles keyboard input in the recent-search list
func (m Model) handleHistoryList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg.Type {
	case tea.KeyEnter:
		item, ok := m.historyList.SelectedItem().(searchItem)
		if !ok {
			return m, nil
		}
		m.err = nil
		m.result = nil
		m.pending = item.entry.Label()
		m.searchInput.SetValue(m.pending)
		m.state = StateLoading
		return m, tea.Batch(m.spinner.Tick, refreshLocation(m.resolver, item.entry.Location()))

	case tea.KeyEsc:
		m.state = m.returnState
		m.searchInput.Focus()
		return m, textinput.Blink
	}

	if msg.String() == "d" {
		item, ok := m.historyList.SelectedItem().(searchItem)
		if !ok {
			return m, nil
		}
		return m, deleteHistoryEntry(m.history, item.entry.ID)
	}

	m.historyList, cmd = m.historyList.Update(msg)
	return m, cmd
}

// listSize leaves room for the help line below the list
func listSize(width, height int) (int, int) {
	return max(width-4, 20), max(height-6, 10)
}

// View renders the UI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	if m.state == StateHistory {
		return m.viewHistory()
	}
	return m.viewMain()
}

// errorText maps resolution failures to their user-facing message
func errorText(err error) string {
	var rerr *resolver.Error
	if errors.As(err, &rerr) {
		return rerr.Kind.Message()
	}
	return err.Error()
}

// viewMain renders the search box with the error or weather card below it
func (m Model) viewMain() string {
	title := titleStyle.Render("🌤️  Weather Now")
	subtitle := mutedStyle.Render("Current conditions from Open-Meteo (no API key required)")

	box := searchBoxStyle
	if m.state == StateLoading {
		box = disabledSearchBoxStyle
	}
	searchBox := box.Render(m.searchInput.View())

	var sections []string
	sections = append(sections, title, subtitle, "", searchBox)

	switch m.state {
	case StateLoading:
		sections = append(sections, "", fmt.Sprintf("%s Loading weather for %s...", m.spinner.View(), m.pending))
	case StateError:
		if m.err != nil {
			sections = append(sections, "", errorStyle.Render("✗ "+errorText(m.err)))
		}
	case StateDisplay:
		sections = append(sections, RenderCard(m.result, 64))
	}

	var help []string
	switch m.state {
	case StateLoading:
		help = append(help, "Fetching weather", "Ctrl+C: Quit")
	default:
		help = append(help, "Enter: Get weather")
		if m.history != nil {
			help = append(help, "Ctrl+R: Recent searches")
		}
		help = append(help, "Esc: Quit")
	}
	sections = append(sections, helpStyle.Render(strings.Join(help, " • ")))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// viewHistory renders the recent-search selection list
func (m Model) viewHistory() string {
	help := helpStyle.Render("↑/↓: Navigate • Enter: Get weather • d: Delete • Esc: Back")

	return lipgloss.JoinVertical(lipgloss.Left, m.historyList.View(), help)
}
