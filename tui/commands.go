// ABOUTME: Async bubbletea commands for loading and mutating collections
// ABOUTME: Completion messages carry no payload; failures surface through the notifier
package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/funilhq/funil/models"
	"github.com/funilhq/funil/store"
)

type loadDoneMsg struct{}

type mutationDoneMsg struct{}

type notificationMsg store.Notification

// loadAll refreshes all three collections. Load errors are not returned
// here; each store keeps its banner and the status bar reads it.
func (m Model) loadAll() tea.Cmd {
	contacts, deals, obligations := m.contacts, m.deals, m.obligations
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		_ = contacts.Load(ctx)
		_ = deals.Load(ctx)
		_ = obligations.Load(ctx)
		return loadDoneMsg{}
	}
}

func (m Model) moveDeal(id int64, column models.Column) tea.Cmd {
	deals := m.deals
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		deals.MoveColumn(ctx, id, column)
		return mutationDoneMsg{}
	}
}

func (m Model) toggleObligation(o models.Obligation) tea.Cmd {
	obligations := m.obligations
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		if o.Status == models.ObligationDone {
			obligations.Reopen(ctx, o.ID)
		} else {
			obligations.MarkDone(ctx, o.ID)
		}
		return mutationDoneMsg{}
	}
}

func (m Model) removeSelected(tab Tab, id int64) tea.Cmd {
	contacts, deals, obligations := m.contacts, m.deals, m.obligations
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		switch tab {
		case TabContacts:
			contacts.Remove(ctx, id)
		case TabDeals:
			deals.Remove(ctx, id)
		case TabAgenda:
			obligations.Remove(ctx, id)
		}
		return mutationDoneMsg{}
	}
}

// waitForNotification blocks on the shared rollback stream. Update
// re-arms it after each delivery.
func (m Model) waitForNotification() tea.Cmd {
	notes := m.notes
	return func() tea.Msg {
		return notificationMsg(<-notes.C())
	}
}
