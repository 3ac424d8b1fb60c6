// ABOUTME: Terminal dashboard statistics and rendering
// ABOUTME: Provides an ASCII overview computed from the synchronized collections
package viz

import (
	"fmt"
	"strings"
	"time"

	"github.com/funilhq/funil/models"
	"github.com/funilhq/funil/views"
)

type DashboardStats struct {
	// Pipeline funnel in board order
	Pipeline []views.ColumnTotal

	// Overall stats
	TotalContacts int
	TotalDeals    int
	TotalClients  int
	HotContacts   int

	// Needs attention
	OverdueObligations int
	DueSoonObligations int
	OpenObligations    int
	AwaitingUs         int
	AwaitingPayment    int
}

// GenerateDashboardStats computes the overview from already loaded
// collections; it never talks to the service itself.
func GenerateDashboardStats(contacts []models.Contact, deals []models.Deal, obligations []models.Obligation, now time.Time) *DashboardStats {
	stats := &DashboardStats{
		Pipeline:      views.PipelineTotals(deals),
		TotalContacts: len(contacts),
		TotalDeals:    len(deals),
	}

	for _, contact := range contacts {
		if contact.Stage == models.StageClient {
			stats.TotalClients++
		}
		if contact.Heat == models.HeatHot {
			stats.HotContacts++
		}
		switch contact.AwaitStatus {
		case models.AwaitUs:
			stats.AwaitingUs++
		case models.AwaitPayment:
			stats.AwaitingPayment++
		}
	}

	agenda := views.BuildAgenda(obligations, now)
	stats.OverdueObligations = len(agenda.Overdue)
	stats.OpenObligations = agenda.OpenCount()

	week := now.AddDate(0, 0, 7)
	for _, o := range obligations {
		if o.Status == models.ObligationOpen && !o.DueDate.Before(now) && o.DueDate.Before(week) {
			stats.DueSoonObligations++
		}
	}

	return stats
}

func RenderDashboard(stats *DashboardStats) string {
	var out strings.Builder

	out.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
	out.WriteString("  FUNIL DASHBOARD\n")
	out.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n\n")

	out.WriteString("PIPELINE OVERVIEW\n")
	renderPipeline(&out, stats.Pipeline)
	out.WriteString("\n")

	out.WriteString("STATS\n")
	out.WriteString(fmt.Sprintf("  📇 %d contacts (%d clients, %d hot)  💼 %d deals  📅 %d open obligations\n\n",
		stats.TotalContacts, stats.TotalClients, stats.HotContacts, stats.TotalDeals, stats.OpenObligations))

	if stats.OverdueObligations > 0 || stats.DueSoonObligations > 0 || stats.AwaitingUs > 0 || stats.AwaitingPayment > 0 {
		out.WriteString("NEEDS ATTENTION\n")
		if stats.OverdueObligations > 0 {
			out.WriteString(fmt.Sprintf("  ⚠️  %d obligations overdue\n", stats.OverdueObligations))
		}
		if stats.DueSoonObligations > 0 {
			out.WriteString(fmt.Sprintf("  ⏰ %d obligations due in the next 7 days\n", stats.DueSoonObligations))
		}
		if stats.AwaitingUs > 0 {
			out.WriteString(fmt.Sprintf("  ⚠️  %d contacts waiting on us\n", stats.AwaitingUs))
		}
		if stats.AwaitingPayment > 0 {
			out.WriteString(fmt.Sprintf("  ⚠️  %d contacts awaiting payment\n", stats.AwaitingPayment))
		}
	}

	return out.String()
}

func renderPipeline(out *strings.Builder, pipeline []views.ColumnTotal) {
	// Find max count for scaling
	maxCount := 0
	for _, t := range pipeline {
		if t.Count > maxCount {
			maxCount = t.Count
		}
	}
	if maxCount == 0 {
		maxCount = 1
	}

	for _, t := range pipeline {
		// Calculate bar length (0-10 blocks)
		barLength := (t.Count * 10) / maxCount
		bar := strings.Repeat("█", barLength) + strings.Repeat("░", 10-barLength)

		out.WriteString(fmt.Sprintf("  %-13s %s  %2d (%s)\n",
			t.Column, bar, t.Count, formatBRL(t.Value)))
	}
}
