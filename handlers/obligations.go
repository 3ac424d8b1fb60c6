// ABOUTME: Obligation MCP tool handlers
// ABOUTME: Implements add_obligation, complete_obligation, and find_obligations tools
package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/funilhq/funil/api"
	"github.com/funilhq/funil/models"
	"github.com/funilhq/funil/views"
)

type ObligationHandlers struct {
	client *api.Client
}

func NewObligationHandlers(client *api.Client) *ObligationHandlers {
	return &ObligationHandlers{client: client}
}

type AddObligationInput struct {
	Title       string `json:"title" jsonschema:"Obligation title (required)"`
	Description string `json:"description,omitempty" jsonschema:"Longer description"`
	DueDate     string `json:"due_date" jsonschema:"Due date and time in ISO 8601 format (required)"`
	ContactID   int64  `json:"contact_id,omitempty" jsonschema:"Contact ID this obligation relates to"`
}

func (h *ObligationHandlers) AddObligation(ctx context.Context, request *mcp.CallToolRequest, input AddObligationInput) (*mcp.CallToolResult, models.Obligation, error) {
	if input.DueDate == "" {
		return nil, models.Obligation{}, fmt.Errorf("due_date is required")
	}
	due, err := time.Parse(time.RFC3339, input.DueDate)
	if err != nil {
		return nil, models.Obligation{}, fmt.Errorf("invalid due_date format (use ISO 8601/RFC3339): %w", err)
	}

	draft := models.ObligationDraft{
		Title:   input.Title,
		DueDate: due,
	}
	if input.Description != "" {
		draft.Description = &input.Description
	}
	if input.ContactID != 0 {
		draft.ContactID = &input.ContactID
	}
	if err := draft.Validate(); err != nil {
		return nil, models.Obligation{}, err
	}

	obligation, err := h.client.CreateObligation(ctx, draft)
	if err != nil {
		return nil, models.Obligation{}, fmt.Errorf("failed to create obligation: %w", err)
	}
	return nil, obligation, nil
}

type CompleteObligationInput struct {
	ID int64 `json:"id" jsonschema:"Obligation ID (required)"`
}

func (h *ObligationHandlers) CompleteObligation(ctx context.Context, request *mcp.CallToolRequest, input CompleteObligationInput) (*mcp.CallToolResult, models.Obligation, error) {
	if input.ID == 0 {
		return nil, models.Obligation{}, fmt.Errorf("id is required")
	}

	done := models.ObligationDone
	obligation, err := h.client.UpdateObligation(ctx, input.ID, models.ObligationPatch{Status: &done})
	if err != nil {
		return nil, models.Obligation{}, fmt.Errorf("failed to complete obligation: %w", err)
	}
	return nil, obligation, nil
}

type FindObligationsInput struct {
	Query string `json:"query,omitempty" jsonschema:"Search text matched against title and description"`
	Start string `json:"start,omitempty" jsonschema:"Earliest due date in YYYY-MM-DD format"`
	End   string `json:"end,omitempty" jsonschema:"Latest due date in YYYY-MM-DD format"`
	Limit int    `json:"limit,omitempty" jsonschema:"Maximum number of results (default 10)"`
}

type FindObligationsOutput struct {
	Obligations []models.Obligation `json:"obligations"`
}

func (h *ObligationHandlers) FindObligations(ctx context.Context, request *mcp.CallToolRequest, input FindObligationsInput) (*mcp.CallToolResult, FindObligationsOutput, error) {
	limit := input.Limit
	if limit == 0 {
		limit = 10
	}

	var filter api.ObligationFilter
	if input.Start != "" {
		start, err := models.ParseDate(input.Start)
		if err != nil {
			return nil, FindObligationsOutput{}, err
		}
		filter.Start = &start
	}
	if input.End != "" {
		end, err := models.ParseDate(input.End)
		if err != nil {
			return nil, FindObligationsOutput{}, err
		}
		filter.End = &end
	}

	obligations, err := h.client.ListObligations(ctx, filter)
	if err != nil {
		return nil, FindObligationsOutput{}, fmt.Errorf("failed to list obligations: %w", err)
	}

	matched := views.FilterObligations(obligations, input.Query)
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return nil, FindObligationsOutput{Obligations: matched}, nil
}
