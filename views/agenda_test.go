// ABOUTME: Tests for the calendar projection
// ABOUTME: Verifies time/status bucketing and ascending due-date ordering
package views

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funilhq/funil/models"
)

func TestOverdueBucketSortsAscendingByDue(t *testing.T) {
	obligations := []models.Obligation{
		{ID: 1, Title: "a", DueDate: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC), Status: models.ObligationOpen},
		{ID: 2, Title: "b", DueDate: time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC), Status: models.ObligationOpen},
	}
	now := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)

	agenda := BuildAgenda(obligations, now)

	require.Len(t, agenda.Overdue, 2)
	assert.Equal(t, int64(1), agenda.Overdue[0].ID)
	assert.Equal(t, int64(2), agenda.Overdue[1].ID)
	assert.Empty(t, agenda.Today)
	assert.Empty(t, agenda.Upcoming)
	assert.Empty(t, agenda.Done)
}

func TestBucketAssignment(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	obligations := []models.Obligation{
		{ID: 1, DueDate: now.Add(-48 * time.Hour), Status: models.ObligationOpen},
		{ID: 2, DueDate: now.Add(-time.Hour), Status: models.ObligationOpen},
		{ID: 3, DueDate: now.Add(2 * time.Hour), Status: models.ObligationOpen},
		{ID: 4, DueDate: now.Add(72 * time.Hour), Status: models.ObligationOpen},
		{ID: 5, DueDate: now.Add(-24 * time.Hour), Status: models.ObligationDone},
	}

	agenda := BuildAgenda(obligations, now)

	require.Len(t, agenda.Overdue, 2)
	assert.Equal(t, int64(1), agenda.Overdue[0].ID, "earlier due comes first")
	assert.Equal(t, int64(2), agenda.Overdue[1].ID)

	require.Len(t, agenda.Today, 1)
	assert.Equal(t, int64(3), agenda.Today[0].ID, "due later today is not overdue")

	require.Len(t, agenda.Upcoming, 1)
	assert.Equal(t, int64(4), agenda.Upcoming[0].ID)

	require.Len(t, agenda.Done, 1)
	assert.Equal(t, int64(5), agenda.Done[0].ID, "completed obligations ignore due date")

	assert.Equal(t, 4, agenda.OpenCount())
}

func TestBuildAgendaSortsEveryBucket(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	obligations := []models.Obligation{
		{ID: 1, DueDate: now.Add(96 * time.Hour), Status: models.ObligationOpen},
		{ID: 2, DueDate: now.Add(24 * time.Hour), Status: models.ObligationOpen},
		{ID: 3, DueDate: now.Add(48 * time.Hour), Status: models.ObligationOpen},
	}

	agenda := BuildAgenda(obligations, now)

	require.Len(t, agenda.Upcoming, 3)
	assert.Equal(t, int64(2), agenda.Upcoming[0].ID)
	assert.Equal(t, int64(3), agenda.Upcoming[1].ID)
	assert.Equal(t, int64(1), agenda.Upcoming[2].ID)
}

func TestBuildAgendaDoesNotModifyInput(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	obligations := []models.Obligation{
		{ID: 2, DueDate: now.Add(-time.Hour), Status: models.ObligationOpen},
		{ID: 1, DueDate: now.Add(-2 * time.Hour), Status: models.ObligationOpen},
	}

	agenda := BuildAgenda(obligations, now)
	require.Len(t, agenda.Overdue, 2)
	assert.Equal(t, int64(1), agenda.Overdue[0].ID)

	// Source keeps the server's order even though the bucket re-sorted.
	assert.Equal(t, int64(2), obligations[0].ID)
	assert.Equal(t, int64(1), obligations[1].ID)
}
