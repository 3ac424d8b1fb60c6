// ABOUTME: MCP prompt handlers for reusable CRM workflow templates
// ABOUTME: Provides standardized prompts for contact review, pipeline analysis, and overdue chasing
package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/funilhq/funil/api"
	"github.com/funilhq/funil/models"
	"github.com/funilhq/funil/views"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type PromptHandlers struct {
	client *api.Client
}

func NewPromptHandlers(client *api.Client) *PromptHandlers {
	return &PromptHandlers{client: client}
}

// Prompts lists the prompt templates served by GetPrompt, in registration order.
func Prompts() []*mcp.Prompt {
	return []*mcp.Prompt{
		{
			Name:        "contact-review",
			Description: "Summarize a contact and suggest the next action",
			Arguments: []*mcp.PromptArgument{
				{Name: "contact_id", Description: "Numeric ID of the contact", Required: true},
			},
		},
		{
			Name:        "pipeline-review",
			Description: "Analyze deal distribution and value across the pipeline",
		},
		{
			Name:        "overdue-digest",
			Description: "Prioritize overdue and due-today obligations",
		},
	}
}

// GetPrompt generates the prompt message based on the template
func (h *PromptHandlers) GetPrompt(ctx context.Context, request *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	name := request.Params.Name
	arguments := request.Params.Arguments
	switch name {
	case "contact-review":
		return h.getContactReviewPrompt(ctx, arguments)
	case "pipeline-review":
		return h.getPipelineReviewPrompt(ctx)
	case "overdue-digest":
		return h.getOverdueDigestPrompt(ctx)
	default:
		return nil, fmt.Errorf("unknown prompt: %s", name)
	}
}

func (h *PromptHandlers) getContactReviewPrompt(ctx context.Context, args map[string]string) (*mcp.GetPromptResult, error) {
	contactIDStr, ok := args["contact_id"]
	if !ok {
		return nil, fmt.Errorf("contact_id is required")
	}

	contactID, err := strconv.ParseInt(contactIDStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid contact_id: %w", err)
	}

	contact, err := h.client.GetContact(ctx, contactID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch contact: %w", err)
	}

	deals, err := h.client.ListDeals(ctx, api.DealFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch deals: %w", err)
	}

	obligations, err := h.client.ListObligations(ctx, api.ObligationFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch obligations: %w", err)
	}

	// Build the prompt
	var promptText strings.Builder
	promptText.WriteString("Please review this CRM contact:\n\n")
	promptText.WriteString(fmt.Sprintf("Name: %s\n", contact.Name))
	if contact.Email != nil {
		promptText.WriteString(fmt.Sprintf("Email: %s\n", *contact.Email))
	}
	if contact.Phone != nil {
		promptText.WriteString(fmt.Sprintf("Phone: %s\n", *contact.Phone))
	}
	promptText.WriteString(fmt.Sprintf("Stage: %s\n", contact.Stage))
	promptText.WriteString(fmt.Sprintf("Heat: %s\n", contact.Heat))
	if contact.AwaitStatus != models.AwaitNone {
		promptText.WriteString(fmt.Sprintf("Awaiting: %s\n", contact.AwaitStatus))
	}
	if contact.Notes != nil {
		promptText.WriteString(fmt.Sprintf("\nNotes: %s\n", *contact.Notes))
	}

	var open []models.Deal
	for _, deal := range deals {
		if deal.ContactID == contactID {
			open = append(open, deal)
		}
	}
	if len(open) > 0 {
		promptText.WriteString(fmt.Sprintf("\nDeals: %d\n", len(open)))
		for _, deal := range open {
			promptText.WriteString(fmt.Sprintf("  - %s: R$ %.2f (%s)\n", deal.Title, deal.Value, deal.Column))
		}
	}

	var pending []models.Obligation
	for _, o := range obligations {
		if o.ContactID != nil && *o.ContactID == contactID && o.Status == models.ObligationOpen {
			pending = append(pending, o)
		}
	}
	if len(pending) > 0 {
		promptText.WriteString(fmt.Sprintf("\nOpen obligations: %d\n", len(pending)))
		for _, o := range pending {
			promptText.WriteString(fmt.Sprintf("  - %s (due %s)\n", o.Title, o.DueDate.Format(time.DateOnly)))
		}
	}

	promptText.WriteString("\nPlease provide:")
	promptText.WriteString("\n1. A short summary of where this relationship stands")
	promptText.WriteString("\n2. The next concrete action to move it forward")
	promptText.WriteString("\n3. Any risk signals worth flagging")

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Review of contact: %s", contact.Name),
		Messages: []*mcp.PromptMessage{
			{
				Role: "user",
				Content: &mcp.TextContent{
					Text: promptText.String(),
				},
			},
		},
	}, nil
}

func (h *PromptHandlers) getPipelineReviewPrompt(ctx context.Context) (*mcp.GetPromptResult, error) {
	deals, err := h.client.ListDeals(ctx, api.DealFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch deals: %w", err)
	}

	totalValue := 0.0
	for _, deal := range deals {
		totalValue += deal.Value
	}

	var promptText strings.Builder
	promptText.WriteString("Please analyze the current deal pipeline:\n\n")
	promptText.WriteString(fmt.Sprintf("Total Deals: %d\n", len(deals)))
	promptText.WriteString(fmt.Sprintf("Total Value: R$ %.2f\n\n", totalValue))
	promptText.WriteString("Pipeline by Column:\n")
	for _, t := range views.PipelineTotals(deals) {
		promptText.WriteString(fmt.Sprintf("  - %s: %d deals, R$ %.2f\n", t.Column, t.Count, t.Value))
	}

	promptText.WriteString("\nPlease provide:")
	promptText.WriteString("\n1. Analysis of pipeline health and distribution")
	promptText.WriteString("\n2. Columns or deals that look stuck")
	promptText.WriteString("\n3. Suggestions for improving conversion toward ganho")

	return &mcp.GetPromptResult{
		Description: "Deal pipeline analysis",
		Messages: []*mcp.PromptMessage{
			{
				Role: "user",
				Content: &mcp.TextContent{
					Text: promptText.String(),
				},
			},
		},
	}, nil
}

func (h *PromptHandlers) getOverdueDigestPrompt(ctx context.Context) (*mcp.GetPromptResult, error) {
	obligations, err := h.client.ListObligations(ctx, api.ObligationFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch obligations: %w", err)
	}

	agenda := views.BuildAgenda(obligations, time.Now())

	var promptText strings.Builder
	promptText.WriteString("Obligations needing attention:\n\n")

	if len(agenda.Overdue) > 0 {
		promptText.WriteString(fmt.Sprintf("Overdue: %d\n", len(agenda.Overdue)))
		for _, o := range agenda.Overdue {
			promptText.WriteString(fmt.Sprintf("  - %s (due %s)\n", o.Title, o.DueDate.Format(time.DateOnly)))
		}
	}
	if len(agenda.Today) > 0 {
		promptText.WriteString(fmt.Sprintf("\nDue today: %d\n", len(agenda.Today)))
		for _, o := range agenda.Today {
			promptText.WriteString(fmt.Sprintf("  - %s\n", o.Title))
		}
	}
	if len(agenda.Overdue) == 0 && len(agenda.Today) == 0 {
		promptText.WriteString("Nothing is overdue or due today.\n")
	}

	promptText.WriteString("\nPlease:")
	promptText.WriteString("\n1. Prioritize which obligations to handle first")
	promptText.WriteString("\n2. Suggest how to follow up on the late ones")
	promptText.WriteString("\n3. Flag anything that should be rescheduled or dropped")

	return &mcp.GetPromptResult{
		Description: "Overdue obligation digest",
		Messages: []*mcp.PromptMessage{
			{
				Role: "user",
				Content: &mcp.TextContent{
					Text: promptText.String(),
				},
			},
		},
	}, nil
}
