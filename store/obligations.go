// ABOUTME: Obligation collection synchronizer
// ABOUTME: Wires the generic collection to the obligation endpoints and adds status helpers
package store

import (
	"context"

	"github.com/funilhq/funil/api"
	"github.com/funilhq/funil/models"
)

// Obligations mirrors the /obligations collection.
type Obligations struct {
	*Collection[models.Obligation, models.ObligationPatch, models.ObligationDraft]
}

// NewObligations builds the obligation synchronizer over an entity service client.
func NewObligations(client *api.Client, opts Options) *Obligations {
	return &Obligations{NewCollection("obligation", Funcs[models.Obligation, models.ObligationPatch, models.ObligationDraft]{
		Fetch: func(ctx context.Context) ([]models.Obligation, error) {
			return client.ListObligations(ctx, api.ObligationFilter{})
		},
		Create: client.CreateObligation,
		Update: client.UpdateObligation,
		Delete: client.DeleteObligation,
	}, opts)}
}

// MarkDone ticks an obligation off the calendar.
func (o *Obligations) MarkDone(ctx context.Context, id int64) error {
	done := models.ObligationDone
	return o.MutateField(ctx, id, models.ObligationPatch{Status: &done})
}

// Reopen puts a completed obligation back on the calendar.
func (o *Obligations) Reopen(ctx context.Context, id int64) error {
	open := models.ObligationOpen
	return o.MutateField(ctx, id, models.ObligationPatch{Status: &open})
}
