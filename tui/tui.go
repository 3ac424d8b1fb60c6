// ABOUTME: Terminal user interface using bubbletea framework
// ABOUTME: Tabbed browser over the synchronized contact, deal, and agenda collections
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/funilhq/funil/api"
	"github.com/funilhq/funil/store"
)

// ViewMode represents the current TUI view
type ViewMode int

const (
	ViewList ViewMode = iota
	ViewConfirmDelete
)

// Tab selects which collection the table shows
type Tab int

const (
	TabContacts Tab = iota
	TabDeals
	TabAgenda
)

const requestTimeout = 15 * time.Second

// Model is the main bubbletea model
type Model struct {
	contacts    *store.Contacts
	deals       *store.Deals
	obligations *store.Obligations
	notes       *store.Notifier

	viewMode ViewMode
	tab      Tab

	// List view state
	selectedRow int
	search      textinput.Model
	searching   bool

	// Delete confirmation state
	deleteID    int64
	deleteLabel string

	// Status bar state
	loading bool
	notice  string

	// UI state
	width  int
	height int
}

// NewModel wires a fresh set of synchronizers over the entity service
// client. All three collections share one notifier so the status bar
// watches a single stream.
func NewModel(client *api.Client) Model {
	notes := store.NewNotifier(0)
	opts := store.Options{Notifier: notes}

	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "type to filter"
	search.CharLimit = 64

	return Model{
		contacts:    store.NewContacts(client, opts),
		deals:       store.NewDeals(client, opts),
		obligations: store.NewObligations(client, opts),
		notes:       notes,
		viewMode:    ViewList,
		tab:         TabContacts,
		search:      search,
		loading:     true,
		width:       80,
		height:      24,
	}
}

// Run starts the TUI and blocks until the user quits.
func Run(client *api.Client) error {
	p := tea.NewProgram(NewModel(client), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadAll(), m.waitForNotification())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case loadDoneMsg:
		m.loading = false
		m.clampSelection()
		return m, nil
	case mutationDoneMsg:
		m.clampSelection()
		return m, nil
	case notificationMsg:
		m.notice = store.Notification(msg).String()
		return m, m.waitForNotification()
	}
	return m, nil
}

func (m Model) View() string {
	switch m.viewMode {
	case ViewList:
		return m.renderListView()
	case ViewConfirmDelete:
		return m.renderConfirmDeleteView()
	}
	return ""
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searching {
		return m.handleSearchKeys(msg)
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	}

	// Delegate to view-specific handlers
	switch m.viewMode {
	case ViewList:
		return m.handleListKeys(msg)
	case ViewConfirmDelete:
		return m.handleConfirmDeleteKeys(msg)
	}

	return m, nil
}

func (m *Model) clampSelection() {
	if count := m.rowCount(); m.selectedRow >= count {
		m.selectedRow = count - 1
	}
	if m.selectedRow < 0 {
		m.selectedRow = 0
	}
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			MarginBottom(1)

	tabActiveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			Background(lipgloss.Color("235")).
			Padding(0, 2)

	tabInactiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Padding(0, 2)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			MarginTop(1)

	bannerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true)

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11"))

	loadingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11")).
			Bold(true)
)
