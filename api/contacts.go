// ABOUTME: Contact endpoints of the entity service
// ABOUTME: List, get, create, patch, and delete against /contacts
package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/funilhq/funil/models"
)

// ListContacts fetches the full contact collection, newest first.
func (c *Client) ListContacts(ctx context.Context) ([]models.Contact, error) {
	var out []models.Contact
	if err := c.do(ctx, http.MethodGet, "/contacts", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetContact fetches a single contact by id.
func (c *Client) GetContact(ctx context.Context, id int64) (models.Contact, error) {
	var out models.Contact
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/contacts/%d", id), nil, nil, &out); err != nil {
		return models.Contact{}, err
	}
	return out, nil
}

// CreateContact creates a contact and returns the server's copy with its
// assigned identity and timestamps.
func (c *Client) CreateContact(ctx context.Context, draft models.ContactDraft) (models.Contact, error) {
	var out models.Contact
	if err := c.do(ctx, http.MethodPost, "/contacts", nil, draft, &out); err != nil {
		return models.Contact{}, err
	}
	return out, nil
}

// UpdateContact sends a partial update; only the patch's set fields change.
func (c *Client) UpdateContact(ctx context.Context, id int64, patch models.ContactPatch) (models.Contact, error) {
	var out models.Contact
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/contacts/%d", id), nil, patch, &out); err != nil {
		return models.Contact{}, err
	}
	return out, nil
}

// DeleteContact removes a contact by id.
func (c *Client) DeleteContact(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/contacts/%d", id), nil, nil, nil)
}
