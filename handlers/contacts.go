// ABOUTME: Contact MCP tool handlers
// ABOUTME: Implements add_contact, find_contacts, update_contact, and delete_contact tools
package handlers

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/funilhq/funil/api"
	"github.com/funilhq/funil/models"
	"github.com/funilhq/funil/views"
)

type ContactHandlers struct {
	client *api.Client
}

func NewContactHandlers(client *api.Client) *ContactHandlers {
	return &ContactHandlers{client: client}
}

type AddContactInput struct {
	Name        string `json:"name" jsonschema:"Contact name (required)"`
	Email       string `json:"email,omitempty" jsonschema:"Contact email address"`
	Phone       string `json:"phone,omitempty" jsonschema:"Contact phone number"`
	Stage       string `json:"stage,omitempty" jsonschema:"Lifecycle stage: lead or client (default lead)"`
	Heat        string `json:"heat,omitempty" jsonschema:"Temperature: hot, warm, or cold (default cold)"`
	AwaitStatus string `json:"await_status,omitempty" jsonschema:"Who the next move is on: none, awaiting_client, awaiting_us, or awaiting_payment"`
	IsReal      bool   `json:"is_real,omitempty" jsonschema:"Whether this is a real contact rather than a test entry"`
	Notes       string `json:"notes,omitempty" jsonschema:"Additional notes about the contact"`
}

func (h *ContactHandlers) AddContact(ctx context.Context, request *mcp.CallToolRequest, input AddContactInput) (*mcp.CallToolResult, models.Contact, error) {
	draft := models.ContactDraft{
		Name:   input.Name,
		IsReal: input.IsReal,
	}
	if input.Email != "" {
		draft.Email = &input.Email
	}
	if input.Phone != "" {
		draft.Phone = &input.Phone
	}
	if input.Notes != "" {
		draft.Notes = &input.Notes
	}
	if input.Stage != "" {
		stage, err := models.ParseStage(input.Stage)
		if err != nil {
			return nil, models.Contact{}, err
		}
		draft.Stage = stage
	}
	if input.Heat != "" {
		heat, err := models.ParseHeat(input.Heat)
		if err != nil {
			return nil, models.Contact{}, err
		}
		draft.Heat = heat
	}
	if input.AwaitStatus != "" {
		await, err := models.ParseAwaitStatus(input.AwaitStatus)
		if err != nil {
			return nil, models.Contact{}, err
		}
		draft.AwaitStatus = await
	}
	if err := draft.Validate(); err != nil {
		return nil, models.Contact{}, err
	}

	contact, err := h.client.CreateContact(ctx, draft)
	if err != nil {
		return nil, models.Contact{}, fmt.Errorf("failed to create contact: %w", err)
	}
	return nil, contact, nil
}

type FindContactsInput struct {
	Query string `json:"query,omitempty" jsonschema:"Search text matched against name, email, and phone"`
	Limit int    `json:"limit,omitempty" jsonschema:"Maximum number of results (default 10)"`
}

type FindContactsOutput struct {
	Contacts []models.Contact `json:"contacts"`
}

func (h *ContactHandlers) FindContacts(ctx context.Context, request *mcp.CallToolRequest, input FindContactsInput) (*mcp.CallToolResult, FindContactsOutput, error) {
	limit := input.Limit
	if limit == 0 {
		limit = 10
	}

	contacts, err := h.client.ListContacts(ctx)
	if err != nil {
		return nil, FindContactsOutput{}, fmt.Errorf("failed to list contacts: %w", err)
	}

	matched := views.FilterContacts(contacts, input.Query)
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return nil, FindContactsOutput{Contacts: matched}, nil
}

type UpdateContactInput struct {
	ID          int64  `json:"id" jsonschema:"Contact ID (required)"`
	Name        string `json:"name,omitempty" jsonschema:"Updated contact name"`
	Email       string `json:"email,omitempty" jsonschema:"Updated email address"`
	Phone       string `json:"phone,omitempty" jsonschema:"Updated phone number"`
	Stage       string `json:"stage,omitempty" jsonschema:"Updated lifecycle stage: lead or client"`
	Heat        string `json:"heat,omitempty" jsonschema:"Updated temperature: hot, warm, or cold"`
	AwaitStatus string `json:"await_status,omitempty" jsonschema:"Updated await status"`
	Notes       string `json:"notes,omitempty" jsonschema:"Updated notes"`
}

func (h *ContactHandlers) UpdateContact(ctx context.Context, request *mcp.CallToolRequest, input UpdateContactInput) (*mcp.CallToolResult, models.Contact, error) {
	if input.ID == 0 {
		return nil, models.Contact{}, fmt.Errorf("id is required")
	}

	var patch models.ContactPatch
	if input.Name != "" {
		patch.Name = &input.Name
	}
	if input.Email != "" {
		patch.Email = &input.Email
	}
	if input.Phone != "" {
		patch.Phone = &input.Phone
	}
	if input.Notes != "" {
		patch.Notes = &input.Notes
	}
	if input.Stage != "" {
		stage, err := models.ParseStage(input.Stage)
		if err != nil {
			return nil, models.Contact{}, err
		}
		patch.Stage = &stage
	}
	if input.Heat != "" {
		heat, err := models.ParseHeat(input.Heat)
		if err != nil {
			return nil, models.Contact{}, err
		}
		patch.Heat = &heat
	}
	if input.AwaitStatus != "" {
		await, err := models.ParseAwaitStatus(input.AwaitStatus)
		if err != nil {
			return nil, models.Contact{}, err
		}
		patch.AwaitStatus = &await
	}
	if patch.Empty() {
		return nil, models.Contact{}, fmt.Errorf("nothing to update")
	}

	contact, err := h.client.UpdateContact(ctx, input.ID, patch)
	if err != nil {
		return nil, models.Contact{}, fmt.Errorf("failed to update contact: %w", err)
	}
	return nil, contact, nil
}

type DeleteContactInput struct {
	ID int64 `json:"id" jsonschema:"Contact ID (required)"`
}

type DeleteOutput struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (h *ContactHandlers) DeleteContact(ctx context.Context, request *mcp.CallToolRequest, input DeleteContactInput) (*mcp.CallToolResult, DeleteOutput, error) {
	if input.ID == 0 {
		return nil, DeleteOutput{}, fmt.Errorf("id is required")
	}

	if err := h.client.DeleteContact(ctx, input.ID); err != nil {
		return nil, DeleteOutput{}, fmt.Errorf("failed to delete contact: %w", err)
	}
	return nil, DeleteOutput{
		Success: true,
		Message: fmt.Sprintf("Deleted contact %d", input.ID),
	}, nil
}
