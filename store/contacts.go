// ABOUTME: Contact collection synchronizer
// ABOUTME: Wires the generic collection to the contact endpoints and adds inline-edit helpers
package store

import (
	"context"

	"github.com/funilhq/funil/api"
	"github.com/funilhq/funil/models"
)

// Contacts mirrors the /contacts collection.
type Contacts struct {
	*Collection[models.Contact, models.ContactPatch, models.ContactDraft]
}

// NewContacts builds the contact synchronizer over an entity service client.
func NewContacts(client *api.Client, opts Options) *Contacts {
	return &Contacts{NewCollection("contact", Funcs[models.Contact, models.ContactPatch, models.ContactDraft]{
		Fetch:  client.ListContacts,
		Create: client.CreateContact,
		Update: client.UpdateContact,
		Delete: client.DeleteContact,
	}, opts)}
}

// SetStage is the inline stage select on the contact table.
func (c *Contacts) SetStage(ctx context.Context, id int64, stage models.Stage) error {
	return c.MutateField(ctx, id, models.ContactPatch{Stage: &stage})
}

// SetHeat is the inline heat select on the contact table.
func (c *Contacts) SetHeat(ctx context.Context, id int64, heat models.Heat) error {
	return c.MutateField(ctx, id, models.ContactPatch{Heat: &heat})
}

// SetAwaitStatus is the inline await select on the contact table.
func (c *Contacts) SetAwaitStatus(ctx context.Context, id int64, status models.AwaitStatus) error {
	return c.MutateField(ctx, id, models.ContactPatch{AwaitStatus: &status})
}
