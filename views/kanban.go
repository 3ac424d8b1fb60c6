// ABOUTME: Kanban projection of the deal collection
// ABOUTME: Groups deals into pipeline columns and sums per-column totals
package views

import (
	"github.com/funilhq/funil/models"
)

// KanbanColumn is one pipeline column with its deals in server order.
type KanbanColumn struct {
	Column models.Column
	Deals  []models.Deal
}

// Kanban groups deals by column. Every column appears in board order even
// when empty; within a column the server's ordering is preserved. The input
// is not modified.
func Kanban(deals []models.Deal) []KanbanColumn {
	byColumn := make(map[models.Column][]models.Deal, len(models.Columns()))
	for _, d := range deals {
		byColumn[d.Column] = append(byColumn[d.Column], d)
	}

	board := make([]KanbanColumn, 0, len(models.Columns()))
	for _, col := range models.Columns() {
		board = append(board, KanbanColumn{Column: col, Deals: byColumn[col]})
	}
	return board
}

// ColumnTotal is the count and summed value of one pipeline column.
type ColumnTotal struct {
	Column models.Column
	Count  int
	Value  float64
}

// PipelineTotals sums deal counts and values per column in board order.
func PipelineTotals(deals []models.Deal) []ColumnTotal {
	totals := make([]ColumnTotal, 0, len(models.Columns()))
	for _, col := range models.Columns() {
		totals = append(totals, ColumnTotal{Column: col})
	}
	index := make(map[models.Column]int, len(totals))
	for i, t := range totals {
		index[t.Column] = i
	}
	for _, d := range deals {
		if i, ok := index[d.Column]; ok {
			totals[i].Count++
			totals[i].Value += d.Value
		}
	}
	return totals
}
