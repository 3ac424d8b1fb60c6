// ABOUTME: CRM statistics MCP tool handler
// ABOUTME: Implements crm_stats, a pipeline and attention overview computed from fresh fetches
package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/funilhq/funil/api"
	"github.com/funilhq/funil/viz"
)

type StatsHandlers struct {
	client *api.Client
}

func NewStatsHandlers(client *api.Client) *StatsHandlers {
	return &StatsHandlers{client: client}
}

type CRMStatsInput struct{}

type PipelineEntry struct {
	Column string  `json:"column"`
	Count  int     `json:"count"`
	Value  float64 `json:"value"`
}

type CRMStatsOutput struct {
	Pipeline           []PipelineEntry `json:"pipeline"`
	TotalContacts      int             `json:"total_contacts"`
	TotalClients       int             `json:"total_clients"`
	HotContacts        int             `json:"hot_contacts"`
	TotalDeals         int             `json:"total_deals"`
	OpenObligations    int             `json:"open_obligations"`
	OverdueObligations int             `json:"overdue_obligations"`
	DueSoonObligations int             `json:"due_soon_obligations"`
	AwaitingUs         int             `json:"awaiting_us"`
	AwaitingPayment    int             `json:"awaiting_payment"`
}

func (h *StatsHandlers) CRMStats(ctx context.Context, request *mcp.CallToolRequest, input CRMStatsInput) (*mcp.CallToolResult, CRMStatsOutput, error) {
	contacts, err := h.client.ListContacts(ctx)
	if err != nil {
		return nil, CRMStatsOutput{}, fmt.Errorf("failed to list contacts: %w", err)
	}
	deals, err := h.client.ListDeals(ctx, api.DealFilter{})
	if err != nil {
		return nil, CRMStatsOutput{}, fmt.Errorf("failed to list deals: %w", err)
	}
	obligations, err := h.client.ListObligations(ctx, api.ObligationFilter{})
	if err != nil {
		return nil, CRMStatsOutput{}, fmt.Errorf("failed to list obligations: %w", err)
	}

	stats := viz.GenerateDashboardStats(contacts, deals, obligations, time.Now())

	out := CRMStatsOutput{
		TotalContacts:      stats.TotalContacts,
		TotalClients:       stats.TotalClients,
		HotContacts:        stats.HotContacts,
		TotalDeals:         stats.TotalDeals,
		OpenObligations:    stats.OpenObligations,
		OverdueObligations: stats.OverdueObligations,
		DueSoonObligations: stats.DueSoonObligations,
		AwaitingUs:         stats.AwaitingUs,
		AwaitingPayment:    stats.AwaitingPayment,
	}
	for _, t := range stats.Pipeline {
		out.Pipeline = append(out.Pipeline, PipelineEntry{
			Column: string(t.Column),
			Count:  t.Count,
			Value:  t.Value,
		})
	}
	return nil, out, nil
}
