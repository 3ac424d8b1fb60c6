// ABOUTME: Graphviz pipeline MCP tool handler
// ABOUTME: Implements pipeline_graph, rendering the deal pipeline as DOT source
package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/funilhq/funil/api"
	"github.com/funilhq/funil/viz"
)

type GraphHandlers struct {
	client *api.Client
}

func NewGraphHandlers(client *api.Client) *GraphHandlers {
	return &GraphHandlers{client: client}
}

type PipelineGraphInput struct{}

type PipelineGraphOutput struct {
	DOTSource string `json:"dot_source"`
	DealCount int    `json:"deal_count"`
	EdgeCount int    `json:"edge_count"`
}

func (h *GraphHandlers) PipelineGraph(ctx context.Context, request *mcp.CallToolRequest, input PipelineGraphInput) (*mcp.CallToolResult, PipelineGraphOutput, error) {
	deals, err := h.client.ListDeals(ctx, api.DealFilter{})
	if err != nil {
		return nil, PipelineGraphOutput{}, fmt.Errorf("failed to list deals: %w", err)
	}
	contacts, err := h.client.ListContacts(ctx)
	if err != nil {
		return nil, PipelineGraphOutput{}, fmt.Errorf("failed to list contacts: %w", err)
	}

	dot, err := viz.PipelineGraph(deals, contacts)
	if err != nil {
		return nil, PipelineGraphOutput{}, fmt.Errorf("failed to generate graph: %w", err)
	}

	return nil, PipelineGraphOutput{
		DOTSource: dot,
		DealCount: len(deals),
		EdgeCount: strings.Count(dot, "->"),
	}, nil
}
