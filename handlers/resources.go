// ABOUTME: MCP resource handlers exposing read-only CRM projections
// ABOUTME: Serves funil:// URIs with JSON snapshots of contacts, deals, and obligations
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/funilhq/funil/api"
	"github.com/funilhq/funil/models"
	"github.com/funilhq/funil/views"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type ResourceHandlers struct {
	client *api.Client
}

func NewResourceHandlers(client *api.Client) *ResourceHandlers {
	return &ResourceHandlers{client: client}
}

// Resources lists the URIs served by ReadResource, in registration order.
func Resources() []*mcp.Resource {
	return []*mcp.Resource{
		{
			URI:         "funil://contacts",
			Name:        "contacts",
			Description: "All contacts, newest first",
			MIMEType:    "application/json",
		},
		{
			URI:         "funil://deals",
			Name:        "deals",
			Description: "All deals, newest first",
			MIMEType:    "application/json",
		},
		{
			URI:         "funil://obligations",
			Name:        "obligations",
			Description: "All obligations ordered by due date",
			MIMEType:    "application/json",
		},
		{
			URI:         "funil://pipeline",
			Name:        "pipeline",
			Description: "Per-column deal counts and value totals",
			MIMEType:    "application/json",
		},
		{
			URI:         "funil://agenda",
			Name:        "agenda",
			Description: "Obligations bucketed into overdue, today, upcoming, and done",
			MIMEType:    "application/json",
		},
	}
}

// ReadResource handles resource read requests
func (h *ResourceHandlers) ReadResource(ctx context.Context, request *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	uri := request.Params.URI
	if !strings.HasPrefix(uri, "funil://") {
		return nil, fmt.Errorf("invalid URI scheme: expected funil://")
	}

	switch strings.TrimPrefix(uri, "funil://") {
	case "contacts":
		return h.readContacts(ctx)
	case "deals":
		return h.readDeals(ctx)
	case "obligations":
		return h.readObligations(ctx)
	case "pipeline":
		return h.readPipeline(ctx)
	case "agenda":
		return h.readAgenda(ctx)
	default:
		return nil, fmt.Errorf("unknown resource: %s", uri)
	}
}

func (h *ResourceHandlers) readContacts(ctx context.Context) (*mcp.ReadResourceResult, error) {
	contacts, err := h.client.ListContacts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch contacts: %w", err)
	}

	data, err := json.MarshalIndent(contacts, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal contacts: %w", err)
	}

	return &mcp.ReadResourceResult{Contents: []*mcp.ResourceContents{
		{
			URI:      "funil://contacts",
			MIMEType: "application/json",
			Text:     string(data),
		},
	}}, nil
}

func (h *ResourceHandlers) readDeals(ctx context.Context) (*mcp.ReadResourceResult, error) {
	deals, err := h.client.ListDeals(ctx, api.DealFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch deals: %w", err)
	}

	data, err := json.MarshalIndent(deals, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal deals: %w", err)
	}

	return &mcp.ReadResourceResult{Contents: []*mcp.ResourceContents{
		{
			URI:      "funil://deals",
			MIMEType: "application/json",
			Text:     string(data),
		},
	}}, nil
}

func (h *ResourceHandlers) readObligations(ctx context.Context) (*mcp.ReadResourceResult, error) {
	obligations, err := h.client.ListObligations(ctx, api.ObligationFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch obligations: %w", err)
	}

	data, err := json.MarshalIndent(obligations, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal obligations: %w", err)
	}

	return &mcp.ReadResourceResult{Contents: []*mcp.ResourceContents{
		{
			URI:      "funil://obligations",
			MIMEType: "application/json",
			Text:     string(data),
		},
	}}, nil
}

func (h *ResourceHandlers) readPipeline(ctx context.Context) (*mcp.ReadResourceResult, error) {
	deals, err := h.client.ListDeals(ctx, api.DealFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch deals: %w", err)
	}

	type columnEntry struct {
		Column models.Column `json:"column"`
		Count  int           `json:"count"`
		Value  float64       `json:"total_value"`
	}
	pipeline := make([]columnEntry, 0, len(models.Columns()))
	for _, t := range views.PipelineTotals(deals) {
		pipeline = append(pipeline, columnEntry{Column: t.Column, Count: t.Count, Value: t.Value})
	}

	data, err := json.MarshalIndent(pipeline, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal pipeline: %w", err)
	}

	return &mcp.ReadResourceResult{Contents: []*mcp.ResourceContents{
		{
			URI:      "funil://pipeline",
			MIMEType: "application/json",
			Text:     string(data),
		},
	}}, nil
}

func (h *ResourceHandlers) readAgenda(ctx context.Context) (*mcp.ReadResourceResult, error) {
	obligations, err := h.client.ListObligations(ctx, api.ObligationFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch obligations: %w", err)
	}

	agenda := views.BuildAgenda(obligations, time.Now())
	buckets := struct {
		Overdue  []models.Obligation `json:"overdue"`
		Today    []models.Obligation `json:"today"`
		Upcoming []models.Obligation `json:"upcoming"`
		Done     []models.Obligation `json:"done"`
	}{agenda.Overdue, agenda.Today, agenda.Upcoming, agenda.Done}

	data, err := json.MarshalIndent(buckets, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal agenda: %w", err)
	}

	return &mcp.ReadResourceResult{Contents: []*mcp.ResourceContents{
		{
			URI:      "funil://agenda",
			MIMEType: "application/json",
			Text:     string(data),
		},
	}}, nil
}
