// ABOUTME: Calendar projection of the obligation collection
// ABOUTME: Buckets obligations by time and status with due dates ascending
package views

import (
	"slices"
	"time"

	"github.com/funilhq/funil/models"
)

// Agenda is the bucketed calendar view. Every bucket is sorted ascending by
// due timestamp; completed obligations sit in Done regardless of due date.
type Agenda struct {
	Overdue  []models.Obligation
	Today    []models.Obligation
	Upcoming []models.Obligation
	Done     []models.Obligation
}

// BuildAgenda buckets obligations relative to now. Open obligations due
// strictly before now are overdue; the rest of today's land in Today;
// later ones in Upcoming. The input is not modified.
func BuildAgenda(obligations []models.Obligation, now time.Time) Agenda {
	var a Agenda
	for _, o := range obligations {
		switch {
		case o.Status == models.ObligationDone:
			a.Done = append(a.Done, o)
		case o.DueDate.Before(now):
			a.Overdue = append(a.Overdue, o)
		case sameDay(o.DueDate, now):
			a.Today = append(a.Today, o)
		default:
			a.Upcoming = append(a.Upcoming, o)
		}
	}
	sortByDue(a.Overdue)
	sortByDue(a.Today)
	sortByDue(a.Upcoming)
	sortByDue(a.Done)
	return a
}

// OpenCount reports how many obligations still need action.
func (a Agenda) OpenCount() int {
	return len(a.Overdue) + len(a.Today) + len(a.Upcoming)
}

func sortByDue(obligations []models.Obligation) {
	slices.SortStableFunc(obligations, func(a, b models.Obligation) int {
		return a.DueDate.Compare(b.DueDate)
	})
}

func sameDay(due, now time.Time) bool {
	y1, m1, d1 := due.In(now.Location()).Date()
	y2, m2, d2 := now.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
