// ABOUTME: Tests for obligation MCP tool handlers
// ABOUTME: Validates due date parsing, completion, and range filtering against a fake entity service
package handlers

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/funilhq/funil/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func TestAddObligationHandler(t *testing.T) {
	server, client := newHandlerClient(t)
	handler := NewObligationHandlers(client)

	contact := server.SeedContact(t, models.Contact{Name: "Debtor"})

	input := AddObligationInput{
		Title:     "Send invoice",
		DueDate:   "2026-09-15T14:00:00Z",
		ContactID: contact.ID,
	}

	_, obligation, err := handler.AddObligation(context.Background(), &mcp.CallToolRequest{}, input)
	if err != nil {
		t.Fatalf("AddObligation failed: %v", err)
	}

	if obligation.ID == 0 {
		t.Error("ID was not set")
	}
	if obligation.Status != models.ObligationOpen {
		t.Errorf("Expected default status open, got %s", obligation.Status)
	}
	want := time.Date(2026, 9, 15, 14, 0, 0, 0, time.UTC)
	if !obligation.DueDate.Equal(want) {
		t.Errorf("Expected due date %v, got %v", want, obligation.DueDate)
	}
	if obligation.ContactID == nil || *obligation.ContactID != contact.ID {
		t.Error("Contact ID was not preserved")
	}
}

func TestAddObligationRequiresDueDate(t *testing.T) {
	_, client := newHandlerClient(t)
	handler := NewObligationHandlers(client)

	_, _, err := handler.AddObligation(context.Background(), &mcp.CallToolRequest{}, AddObligationInput{Title: "No deadline"})
	if err == nil || !strings.Contains(err.Error(), "due_date is required") {
		t.Errorf("Expected due_date required error, got %v", err)
	}
}

func TestAddObligationBadDateFormat(t *testing.T) {
	_, client := newHandlerClient(t)
	handler := NewObligationHandlers(client)

	input := AddObligationInput{Title: "Fuzzy deadline", DueDate: "next tuesday"}

	_, _, err := handler.AddObligation(context.Background(), &mcp.CallToolRequest{}, input)
	if err == nil || !strings.Contains(err.Error(), "invalid due_date format") {
		t.Errorf("Expected due_date format error, got %v", err)
	}
}

func TestCompleteObligationHandler(t *testing.T) {
	server, client := newHandlerClient(t)
	handler := NewObligationHandlers(client)

	seeded := server.SeedObligation(t, models.Obligation{
		Title:   "Chase payment",
		DueDate: time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC),
	})

	_, obligation, err := handler.CompleteObligation(context.Background(), &mcp.CallToolRequest{}, CompleteObligationInput{ID: seeded.ID})
	if err != nil {
		t.Fatalf("CompleteObligation failed: %v", err)
	}

	if obligation.Status != models.ObligationDone {
		t.Errorf("Expected status done, got %s", obligation.Status)
	}
}

func TestFindObligationsDateRange(t *testing.T) {
	server, client := newHandlerClient(t)
	handler := NewObligationHandlers(client)

	server.SeedObligation(t, models.Obligation{Title: "Early", DueDate: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)})
	server.SeedObligation(t, models.Obligation{Title: "Inside", DueDate: time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)})
	server.SeedObligation(t, models.Obligation{Title: "Late", DueDate: time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC)})

	input := FindObligationsInput{Start: "2026-03-05", End: "2026-03-31"}

	_, output, err := handler.FindObligations(context.Background(), &mcp.CallToolRequest{}, input)
	if err != nil {
		t.Fatalf("FindObligations failed: %v", err)
	}

	if len(output.Obligations) != 1 {
		t.Fatalf("Expected 1 obligation, got %d", len(output.Obligations))
	}
	if output.Obligations[0].Title != "Inside" {
		t.Errorf("Expected 'Inside', got %q", output.Obligations[0].Title)
	}
}

func TestFindObligationsByQuery(t *testing.T) {
	server, client := newHandlerClient(t)
	handler := NewObligationHandlers(client)

	server.SeedObligation(t, models.Obligation{Title: "Send proposal", DueDate: time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)})
	server.SeedObligation(t, models.Obligation{Title: "Book flights", DueDate: time.Date(2026, 5, 2, 9, 0, 0, 0, time.UTC)})

	_, output, err := handler.FindObligations(context.Background(), &mcp.CallToolRequest{}, FindObligationsInput{Query: "proposal"})
	if err != nil {
		t.Fatalf("FindObligations failed: %v", err)
	}

	if len(output.Obligations) != 1 {
		t.Errorf("Expected 1 obligation, got %d", len(output.Obligations))
	}
}
