// ABOUTME: Deal endpoints of the entity service
// ABOUTME: List (with optional column filter), get, create, patch, and delete against /deals
package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/funilhq/funil/models"
)

// DealFilter narrows ListDeals. The zero value lists everything.
type DealFilter struct {
	Column models.Column
}

// ListDeals fetches deals, newest first, optionally filtered to one column.
func (c *Client) ListDeals(ctx context.Context, filter DealFilter) ([]models.Deal, error) {
	var query url.Values
	if filter.Column != "" {
		query = url.Values{"column": {string(filter.Column)}}
	}
	var out []models.Deal
	if err := c.do(ctx, http.MethodGet, "/deals", query, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetDeal fetches a single deal by id.
func (c *Client) GetDeal(ctx context.Context, id int64) (models.Deal, error) {
	var out models.Deal
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/deals/%d", id), nil, nil, &out); err != nil {
		return models.Deal{}, err
	}
	return out, nil
}

// CreateDeal creates a deal and returns the server's copy.
func (c *Client) CreateDeal(ctx context.Context, draft models.DealDraft) (models.Deal, error) {
	var out models.Deal
	if err := c.do(ctx, http.MethodPost, "/deals", nil, draft, &out); err != nil {
		return models.Deal{}, err
	}
	return out, nil
}

// UpdateDeal sends a partial update; only the patch's set fields change.
func (c *Client) UpdateDeal(ctx context.Context, id int64, patch models.DealPatch) (models.Deal, error) {
	var out models.Deal
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/deals/%d", id), nil, patch, &out); err != nil {
		return models.Deal{}, err
	}
	return out, nil
}

// DeleteDeal removes a deal by id.
func (c *Client) DeleteDeal(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/deals/%d", id), nil, nil, nil)
}
