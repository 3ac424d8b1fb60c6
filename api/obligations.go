// ABOUTME: Obligation endpoints of the entity service
// ABOUTME: List (with optional date window), get, create, patch, and delete against /obligations
package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/funilhq/funil/models"
)

// ObligationFilter narrows ListObligations to a date window. Start is
// inclusive from midnight, End inclusive through end of day, matching the
// service's interpretation of the YYYY-MM-DD bounds.
type ObligationFilter struct {
	Start *models.Date
	End   *models.Date
}

// ListObligations fetches obligations ordered by due date ascending.
func (c *Client) ListObligations(ctx context.Context, filter ObligationFilter) ([]models.Obligation, error) {
	query := url.Values{}
	if filter.Start != nil {
		query.Set("start", filter.Start.String())
	}
	if filter.End != nil {
		query.Set("end", filter.End.String())
	}
	var out []models.Obligation
	if err := c.do(ctx, http.MethodGet, "/obligations", query, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetObligation fetches a single obligation by id.
func (c *Client) GetObligation(ctx context.Context, id int64) (models.Obligation, error) {
	var out models.Obligation
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/obligations/%d", id), nil, nil, &out); err != nil {
		return models.Obligation{}, err
	}
	return out, nil
}

// CreateObligation creates an obligation and returns the server's copy.
func (c *Client) CreateObligation(ctx context.Context, draft models.ObligationDraft) (models.Obligation, error) {
	var out models.Obligation
	if err := c.do(ctx, http.MethodPost, "/obligations", nil, draft, &out); err != nil {
		return models.Obligation{}, err
	}
	return out, nil
}

// UpdateObligation sends a partial update; only the patch's set fields change.
func (c *Client) UpdateObligation(ctx context.Context, id int64, patch models.ObligationPatch) (models.Obligation, error) {
	var out models.Obligation
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/obligations/%d", id), nil, patch, &out); err != nil {
		return models.Obligation{}, err
	}
	return out, nil
}

// DeleteObligation removes an obligation by id.
func (c *Client) DeleteObligation(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/obligations/%d", id), nil, nil, nil)
}
