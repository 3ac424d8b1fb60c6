// ABOUTME: List view rendering and key handling for the tabbed tables
// ABOUTME: Contacts and deals filter through the search box; agenda groups by due bucket
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/funilhq/funil/models"
	"github.com/funilhq/funil/views"
)

func (m Model) renderListView() string {
	var s strings.Builder

	// Title
	s.WriteString(titleStyle.Render("FUNIL CRM"))
	s.WriteString("\n\n")

	// Tabs
	s.WriteString(m.renderTabs())
	s.WriteString("\n\n")

	// Search box
	if m.searching || m.search.Value() != "" {
		s.WriteString(m.search.View())
		s.WriteString("\n\n")
	}

	// Table
	s.WriteString(m.renderTable())
	s.WriteString("\n\n")

	// Status bar
	if status := m.renderStatusBar(); status != "" {
		s.WriteString(status)
		s.WriteString("\n")
	}

	// Help
	s.WriteString(m.renderListHelp())

	return s.String()
}

func (m Model) renderTabs() string {
	tabs := []string{"Contacts", "Deals", "Agenda"}
	var rendered []string

	for i, tab := range tabs {
		if Tab(i) == m.tab {
			rendered = append(rendered, tabActiveStyle.Render(tab))
		} else {
			rendered = append(rendered, tabInactiveStyle.Render(tab))
		}
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m Model) renderTable() string {
	switch m.tab {
	case TabContacts:
		return m.renderContactsTable()
	case TabDeals:
		return m.renderDealsTable()
	case TabAgenda:
		return m.renderAgendaTable()
	}
	return ""
}

func (m Model) renderContactsTable() string {
	contacts := m.visibleContacts()
	if len(contacts) == 0 {
		return "No contacts found."
	}

	columns := []table.Column{
		{Title: "Name", Width: 24},
		{Title: "Stage", Width: 10},
		{Title: "Heat", Width: 6},
		{Title: "Awaiting", Width: 10},
		{Title: "Email", Width: 26},
	}

	var rows []table.Row
	for _, c := range contacts {
		email := ""
		if c.Email != nil {
			email = *c.Email
		}
		awaiting := string(c.AwaitStatus)
		if c.AwaitStatus == models.AwaitNone {
			awaiting = ""
		}
		rows = append(rows, table.Row{
			c.Name,
			string(c.Stage),
			string(c.Heat),
			awaiting,
			email,
		})
	}

	return m.buildTable(columns, rows)
}

func (m Model) renderDealsTable() string {
	deals := m.visibleDeals()
	if len(deals) == 0 {
		return "No deals found."
	}

	columns := []table.Column{
		{Title: "Title", Width: 28},
		{Title: "Column", Width: 10},
		{Title: "Value", Width: 10},
		{Title: "Priority", Width: 8},
		{Title: "Due", Width: 10},
	}

	var rows []table.Row
	for _, d := range deals {
		due := ""
		if d.DueDate != nil {
			due = d.DueDate.String()
		}
		rows = append(rows, table.Row{
			d.Title,
			string(d.Column),
			fmt.Sprintf("R$ %.0f", d.Value),
			string(d.Priority),
			due,
		})
	}

	return m.buildTable(columns, rows)
}

func (m Model) renderAgendaTable() string {
	obligations := m.visibleObligations()
	if len(obligations) == 0 {
		return "No obligations found."
	}

	agenda := views.BuildAgenda(obligations, time.Now())

	columns := []table.Column{
		{Title: "", Width: 2},
		{Title: "Title", Width: 32},
		{Title: "Due", Width: 16},
		{Title: "Status", Width: 6},
	}

	var rows []table.Row
	addRows := func(marker string, group []models.Obligation) {
		for _, o := range group {
			rows = append(rows, table.Row{
				marker,
				o.Title,
				o.DueDate.Format("2006-01-02 15:04"),
				string(o.Status),
			})
		}
	}
	addRows("🔴", agenda.Overdue)
	addRows("🟡", agenda.Today)
	addRows("🟢", agenda.Upcoming)
	addRows("✓", agenda.Done)

	return m.buildTable(columns, rows)
}

func (m Model) buildTable(columns []table.Column, rows []table.Row) string {
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(m.tableHeight()),
	)
	t.SetCursor(m.selectedRow)
	return t.View()
}

func (m Model) tableHeight() int {
	h := m.height - 12
	if h < 3 {
		h = 3
	}
	return h
}

func (m Model) renderStatusBar() string {
	if m.loading {
		return loadingStyle.Render("⟳ Loading...")
	}
	if banner := m.banner(); banner != "" {
		return bannerStyle.Render("⚠  " + banner + " (esc to dismiss)")
	}
	if m.notice != "" {
		return noticeStyle.Render("↩ " + m.notice)
	}
	return ""
}

// banner returns the first pending load failure across the collections.
func (m Model) banner() string {
	for _, msg := range []string{m.contacts.Err(), m.deals.Err(), m.obligations.Err()} {
		if msg != "" {
			return msg
		}
	}
	return ""
}

func (m *Model) dismissBanners() {
	m.contacts.Dismiss()
	m.deals.Dismiss()
	m.obligations.Dismiss()
	m.notice = ""
}

func (m Model) renderListHelp() string {
	help := []string{
		"↑/↓: navigate",
		"tab: switch",
		"/: search",
	}
	switch m.tab {
	case TabDeals:
		help = append(help, "m: move column")
	case TabAgenda:
		help = append(help, "m: toggle done")
	}
	help = append(help, "d: delete", "r: reload", "q: quit")
	return helpStyle.Render(strings.Join(help, " • "))
}

// visibleContacts applies the search filter to the contact collection.
func (m Model) visibleContacts() []models.Contact {
	return views.FilterContacts(m.contacts.Items(), m.search.Value())
}

func (m Model) visibleDeals() []models.Deal {
	return views.FilterDeals(m.deals.Items(), m.search.Value())
}

// visibleObligations returns obligations in agenda display order so row
// selection and rendering agree on indexing.
func (m Model) visibleObligations() []models.Obligation {
	filtered := views.FilterObligations(m.obligations.Items(), m.search.Value())
	return flattenAgenda(views.BuildAgenda(filtered, time.Now()))
}

func flattenAgenda(a views.Agenda) []models.Obligation {
	out := make([]models.Obligation, 0, len(a.Overdue)+len(a.Today)+len(a.Upcoming)+len(a.Done))
	out = append(out, a.Overdue...)
	out = append(out, a.Today...)
	out = append(out, a.Upcoming...)
	out = append(out, a.Done...)
	return out
}

func (m Model) rowCount() int {
	switch m.tab {
	case TabContacts:
		return len(m.visibleContacts())
	case TabDeals:
		return len(m.visibleDeals())
	case TabAgenda:
		return len(m.visibleObligations())
	}
	return 0
}

func (m Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.selectedRow > 0 {
			m.selectedRow--
		}
	case "down", "j":
		if m.selectedRow < m.rowCount()-1 {
			m.selectedRow++
		}
	case "tab":
		m.tab = (m.tab + 1) % 3
		m.selectedRow = 0
	case "/":
		m.searching = true
		m.search.Focus()
		return m, textinput.Blink
	case "esc":
		m.dismissBanners()
	case "r":
		m.loading = true
		return m, m.loadAll()
	case "m":
		return m.handleMutateKey()
	case "d":
		return m.handleDeleteKey()
	}
	return m, nil
}

func (m Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searching = false
		m.search.Blur()
		return m, nil
	case "esc":
		m.searching = false
		m.search.Blur()
		m.search.SetValue("")
		m.selectedRow = 0
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.selectedRow = 0
	return m, cmd
}

// handleMutateKey advances the selected deal one column, or toggles the
// selected obligation between open and done.
func (m Model) handleMutateKey() (tea.Model, tea.Cmd) {
	switch m.tab {
	case TabDeals:
		deals := m.visibleDeals()
		if m.selectedRow >= len(deals) {
			return m, nil
		}
		deal := deals[m.selectedRow]
		next, ok := nextColumn(deal.Column)
		if !ok {
			return m, nil
		}
		return m, m.moveDeal(deal.ID, next)
	case TabAgenda:
		obligations := m.visibleObligations()
		if m.selectedRow >= len(obligations) {
			return m, nil
		}
		return m, m.toggleObligation(obligations[m.selectedRow])
	}
	return m, nil
}

// nextColumn returns the column after c in board order. Terminal
// columns have no successor.
func nextColumn(c models.Column) (models.Column, bool) {
	order := models.Columns()
	for i, col := range order {
		if col == c && i+1 < len(order) {
			return order[i+1], true
		}
	}
	return c, false
}

func (m Model) handleDeleteKey() (tea.Model, tea.Cmd) {
	switch m.tab {
	case TabContacts:
		contacts := m.visibleContacts()
		if m.selectedRow >= len(contacts) {
			return m, nil
		}
		m.deleteID = contacts[m.selectedRow].ID
		m.deleteLabel = fmt.Sprintf("contact %q", contacts[m.selectedRow].Name)
	case TabDeals:
		deals := m.visibleDeals()
		if m.selectedRow >= len(deals) {
			return m, nil
		}
		m.deleteID = deals[m.selectedRow].ID
		m.deleteLabel = fmt.Sprintf("deal %q", deals[m.selectedRow].Title)
	case TabAgenda:
		obligations := m.visibleObligations()
		if m.selectedRow >= len(obligations) {
			return m, nil
		}
		m.deleteID = obligations[m.selectedRow].ID
		m.deleteLabel = fmt.Sprintf("obligation %q", obligations[m.selectedRow].Title)
	}
	m.viewMode = ViewConfirmDelete
	return m, nil
}
