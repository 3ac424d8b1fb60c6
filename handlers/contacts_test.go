// ABOUTME: Tests for contact MCP tool handlers
// ABOUTME: Validates tool input/output and error handling against a fake entity service
package handlers

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/funilhq/funil/api"
	"github.com/funilhq/funil/apitest"
	"github.com/funilhq/funil/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func newHandlerClient(t *testing.T) (*apitest.Server, *api.Client) {
	t.Helper()
	server, cleanup := apitest.New(t)
	t.Cleanup(cleanup)
	client := api.New(api.Config{BaseURL: server.URL, Token: apitest.Token})
	return server, client
}

func TestAddContactHandler(t *testing.T) {
	_, client := newHandlerClient(t)
	handler := NewContactHandlers(client)

	input := AddContactInput{
		Name:  "John Doe",
		Email: "john@example.com",
		Phone: "555-1234",
		Notes: "Test contact",
	}

	_, contact, err := handler.AddContact(context.Background(), &mcp.CallToolRequest{}, input)
	if err != nil {
		t.Fatalf("AddContact failed: %v", err)
	}

	if contact.ID == 0 {
		t.Error("ID was not set")
	}
	if contact.Name != "John Doe" {
		t.Errorf("Expected name 'John Doe', got %q", contact.Name)
	}
	email := ""
	if contact.Email != nil {
		email = *contact.Email
	}
	if email != "john@example.com" {
		t.Errorf("Expected email 'john@example.com', got %q", email)
	}
	if contact.Stage != models.StageLead {
		t.Errorf("Expected default stage lead, got %s", contact.Stage)
	}
	if contact.Heat != models.HeatCold {
		t.Errorf("Expected default heat cold, got %s", contact.Heat)
	}
}

func TestAddContactValidation(t *testing.T) {
	_, client := newHandlerClient(t)
	handler := NewContactHandlers(client)

	// Missing required name
	input := AddContactInput{Email: "test@example.com"}

	_, _, err := handler.AddContact(context.Background(), &mcp.CallToolRequest{}, input)
	if err == nil {
		t.Error("Expected validation error for missing name")
	}
}

func TestAddContactInvalidEnum(t *testing.T) {
	_, client := newHandlerClient(t)
	handler := NewContactHandlers(client)

	input := AddContactInput{Name: "Test User", Heat: "blazing"}

	_, _, err := handler.AddContact(context.Background(), &mcp.CallToolRequest{}, input)
	if err == nil || !strings.Contains(err.Error(), "invalid heat") {
		t.Errorf("Expected invalid heat error, got %v", err)
	}
}

func TestFindContactsHandler(t *testing.T) {
	server, client := newHandlerClient(t)
	handler := NewContactHandlers(client)

	server.SeedContact(t, models.Contact{Name: "Alice Smith"})
	server.SeedContact(t, models.Contact{Name: "Bob Jones"})

	_, output, err := handler.FindContacts(context.Background(), &mcp.CallToolRequest{}, FindContactsInput{Query: "smith"})
	if err != nil {
		t.Fatalf("FindContacts failed: %v", err)
	}

	if len(output.Contacts) != 1 {
		t.Fatalf("Expected 1 contact, got %d", len(output.Contacts))
	}
	if output.Contacts[0].Name != "Alice Smith" {
		t.Errorf("Expected 'Alice Smith', got %q", output.Contacts[0].Name)
	}
}

func TestFindContactsLimit(t *testing.T) {
	server, client := newHandlerClient(t)
	handler := NewContactHandlers(client)

	server.SeedContact(t, models.Contact{Name: "Contact One"})
	server.SeedContact(t, models.Contact{Name: "Contact Two"})
	server.SeedContact(t, models.Contact{Name: "Contact Three"})

	_, output, err := handler.FindContacts(context.Background(), &mcp.CallToolRequest{}, FindContactsInput{Limit: 2})
	if err != nil {
		t.Fatalf("FindContacts failed: %v", err)
	}

	if len(output.Contacts) != 2 {
		t.Errorf("Expected 2 contacts, got %d", len(output.Contacts))
	}
}

func TestUpdateContactHandler(t *testing.T) {
	server, client := newHandlerClient(t)
	handler := NewContactHandlers(client)

	seeded := server.SeedContact(t, models.Contact{Name: "Original Name"})

	input := UpdateContactInput{
		ID:   seeded.ID,
		Name: "Updated Name",
		Heat: "hot",
	}

	_, contact, err := handler.UpdateContact(context.Background(), &mcp.CallToolRequest{}, input)
	if err != nil {
		t.Fatalf("UpdateContact failed: %v", err)
	}

	if contact.Name != "Updated Name" {
		t.Errorf("Expected name 'Updated Name', got %q", contact.Name)
	}
	if contact.Heat != models.HeatHot {
		t.Errorf("Expected heat hot, got %s", contact.Heat)
	}
}

func TestUpdateContactNothingToUpdate(t *testing.T) {
	server, client := newHandlerClient(t)
	handler := NewContactHandlers(client)

	seeded := server.SeedContact(t, models.Contact{Name: "Unchanged"})

	_, _, err := handler.UpdateContact(context.Background(), &mcp.CallToolRequest{}, UpdateContactInput{ID: seeded.ID})
	if err == nil || !strings.Contains(err.Error(), "nothing to update") {
		t.Errorf("Expected nothing to update error, got %v", err)
	}
}

func TestUpdateContactNotFound(t *testing.T) {
	_, client := newHandlerClient(t)
	handler := NewContactHandlers(client)

	input := UpdateContactInput{ID: 999, Name: "Updated Name"}

	_, _, err := handler.UpdateContact(context.Background(), &mcp.CallToolRequest{}, input)
	if err == nil {
		t.Error("Expected error for non-existent contact")
	}
}

func TestDeleteContactHandler(t *testing.T) {
	server, client := newHandlerClient(t)
	handler := NewContactHandlers(client)

	seeded := server.SeedContact(t, models.Contact{Name: "Doomed"})

	_, output, err := handler.DeleteContact(context.Background(), &mcp.CallToolRequest{}, DeleteContactInput{ID: seeded.ID})
	if err != nil {
		t.Fatalf("DeleteContact failed: %v", err)
	}
	if !output.Success {
		t.Error("Expected success to be true")
	}

	_, err = client.GetContact(context.Background(), seeded.ID)
	if !errors.Is(err, api.ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}
}
