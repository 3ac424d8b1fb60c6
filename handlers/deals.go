// ABOUTME: Deal MCP tool handlers
// ABOUTME: Implements create_deal, move_deal, find_deals, and delete_deal tools
package handlers

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/funilhq/funil/api"
	"github.com/funilhq/funil/models"
	"github.com/funilhq/funil/views"
)

type DealHandlers struct {
	client *api.Client
}

func NewDealHandlers(client *api.Client) *DealHandlers {
	return &DealHandlers{client: client}
}

type CreateDealInput struct {
	ContactID int64    `json:"contact_id" jsonschema:"Contact ID the deal belongs to (required)"`
	Title     string   `json:"title" jsonschema:"Deal title (required)"`
	Value     float64  `json:"value,omitempty" jsonschema:"Deal value in BRL"`
	Column    string   `json:"column,omitempty" jsonschema:"Pipeline column: novo, qualificacao, proposta, fechamento, ganho, or perdido (default novo)"`
	Priority  string   `json:"priority,omitempty" jsonschema:"Priority: baixa, normal, or alta (default normal)"`
	DueDate   string   `json:"due_date,omitempty" jsonschema:"Due date in YYYY-MM-DD format"`
	Tags      []string `json:"tags,omitempty" jsonschema:"Free-form tags"`
}

func (h *DealHandlers) CreateDeal(ctx context.Context, request *mcp.CallToolRequest, input CreateDealInput) (*mcp.CallToolResult, models.Deal, error) {
	draft := models.DealDraft{
		ContactID: input.ContactID,
		Title:     input.Title,
		Value:     input.Value,
		Tags:      input.Tags,
	}
	if input.Column != "" {
		column, err := models.ParseColumn(input.Column)
		if err != nil {
			return nil, models.Deal{}, err
		}
		draft.Column = column
	}
	if input.Priority != "" {
		priority, err := models.ParsePriority(input.Priority)
		if err != nil {
			return nil, models.Deal{}, err
		}
		draft.Priority = priority
	}
	if input.DueDate != "" {
		due, err := models.ParseDate(input.DueDate)
		if err != nil {
			return nil, models.Deal{}, err
		}
		draft.DueDate = &due
	}
	if err := draft.Validate(); err != nil {
		return nil, models.Deal{}, err
	}

	deal, err := h.client.CreateDeal(ctx, draft)
	if err != nil {
		return nil, models.Deal{}, fmt.Errorf("failed to create deal: %w", err)
	}
	return nil, deal, nil
}

type MoveDealInput struct {
	ID     int64  `json:"id" jsonschema:"Deal ID (required)"`
	Column string `json:"column" jsonschema:"Target pipeline column (required)"`
}

func (h *DealHandlers) MoveDeal(ctx context.Context, request *mcp.CallToolRequest, input MoveDealInput) (*mcp.CallToolResult, models.Deal, error) {
	if input.ID == 0 {
		return nil, models.Deal{}, fmt.Errorf("id is required")
	}
	column, err := models.ParseColumn(input.Column)
	if err != nil {
		return nil, models.Deal{}, err
	}

	deal, err := h.client.UpdateDeal(ctx, input.ID, models.DealPatch{Column: &column})
	if err != nil {
		return nil, models.Deal{}, fmt.Errorf("failed to move deal: %w", err)
	}
	return nil, deal, nil
}

type FindDealsInput struct {
	Query  string `json:"query,omitempty" jsonschema:"Search text matched against title and tags"`
	Column string `json:"column,omitempty" jsonschema:"Filter by pipeline column"`
	Limit  int    `json:"limit,omitempty" jsonschema:"Maximum number of results (default 10)"`
}

type FindDealsOutput struct {
	Deals []models.Deal `json:"deals"`
}

func (h *DealHandlers) FindDeals(ctx context.Context, request *mcp.CallToolRequest, input FindDealsInput) (*mcp.CallToolResult, FindDealsOutput, error) {
	limit := input.Limit
	if limit == 0 {
		limit = 10
	}

	var filter api.DealFilter
	if input.Column != "" {
		column, err := models.ParseColumn(input.Column)
		if err != nil {
			return nil, FindDealsOutput{}, err
		}
		filter.Column = column
	}

	deals, err := h.client.ListDeals(ctx, filter)
	if err != nil {
		return nil, FindDealsOutput{}, fmt.Errorf("failed to list deals: %w", err)
	}

	matched := views.FilterDeals(deals, input.Query)
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return nil, FindDealsOutput{Deals: matched}, nil
}

type DeleteDealInput struct {
	ID int64 `json:"id" jsonschema:"Deal ID (required)"`
}

func (h *DealHandlers) DeleteDeal(ctx context.Context, request *mcp.CallToolRequest, input DeleteDealInput) (*mcp.CallToolResult, DeleteOutput, error) {
	if input.ID == 0 {
		return nil, DeleteOutput{}, fmt.Errorf("id is required")
	}

	if err := h.client.DeleteDeal(ctx, input.ID); err != nil {
		return nil, DeleteOutput{}, fmt.Errorf("failed to delete deal: %w", err)
	}
	return nil, DeleteOutput{
		Success: true,
		Message: fmt.Sprintf("Deleted deal %d", input.ID),
	}, nil
}
