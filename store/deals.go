// ABOUTME: Deal collection synchronizer
// ABOUTME: Wires the generic collection to the deal endpoints and adds kanban helpers
package store

import (
	"context"

	"github.com/funilhq/funil/api"
	"github.com/funilhq/funil/models"
)

// Deals mirrors the /deals collection.
type Deals struct {
	*Collection[models.Deal, models.DealPatch, models.DealDraft]
}

// NewDeals builds the deal synchronizer over an entity service client.
func NewDeals(client *api.Client, opts Options) *Deals {
	return &Deals{NewCollection("deal", Funcs[models.Deal, models.DealPatch, models.DealDraft]{
		Fetch: func(ctx context.Context) ([]models.Deal, error) {
			return client.ListDeals(ctx, api.DealFilter{})
		},
		Create: client.CreateDeal,
		Update: client.UpdateDeal,
		Delete: client.DeleteDeal,
	}, opts)}
}

// MoveColumn is the kanban drag: optimistically shifts the deal to the
// target column and rolls back if the service rejects the move.
func (d *Deals) MoveColumn(ctx context.Context, id int64, column models.Column) error {
	return d.MutateField(ctx, id, models.DealPatch{Column: &column})
}

// SetPriority changes a deal's priority in place.
func (d *Deals) SetPriority(ctx context.Context, id int64, priority models.Priority) error {
	return d.MutateField(ctx, id, models.DealPatch{Priority: &priority})
}
