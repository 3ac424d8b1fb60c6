// ABOUTME: Tests for deal MCP tool handlers
// ABOUTME: Validates tool input/output and error handling against a fake entity service
package handlers

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/funilhq/funil/api"
	"github.com/funilhq/funil/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func TestCreateDealHandler(t *testing.T) {
	server, client := newHandlerClient(t)
	handler := NewDealHandlers(client)

	contact := server.SeedContact(t, models.Contact{Name: "Deal Owner"})

	input := CreateDealInput{
		ContactID: contact.ID,
		Title:     "Website redesign",
		Value:     4500,
		DueDate:   "2026-09-30",
		Tags:      []string{"web"},
	}

	_, deal, err := handler.CreateDeal(context.Background(), &mcp.CallToolRequest{}, input)
	if err != nil {
		t.Fatalf("CreateDeal failed: %v", err)
	}

	if deal.ID == 0 {
		t.Error("ID was not set")
	}
	if deal.Title != "Website redesign" {
		t.Errorf("Expected title 'Website redesign', got %q", deal.Title)
	}
	if deal.Column != models.ColumnNovo {
		t.Errorf("Expected default column novo, got %s", deal.Column)
	}
	if deal.Priority != models.PriorityNormal {
		t.Errorf("Expected default priority normal, got %s", deal.Priority)
	}
	if deal.DueDate == nil || deal.DueDate.String() != "2026-09-30" {
		t.Errorf("Expected due date 2026-09-30, got %v", deal.DueDate)
	}
}

func TestCreateDealValidation(t *testing.T) {
	_, client := newHandlerClient(t)
	handler := NewDealHandlers(client)

	// Missing required contact_id
	input := CreateDealInput{Title: "Orphan deal"}

	_, _, err := handler.CreateDeal(context.Background(), &mcp.CallToolRequest{}, input)
	if err == nil {
		t.Error("Expected validation error for missing contact_id")
	}
}

func TestCreateDealInvalidColumn(t *testing.T) {
	_, client := newHandlerClient(t)
	handler := NewDealHandlers(client)

	input := CreateDealInput{ContactID: 1, Title: "Misfiled", Column: "limbo"}

	_, _, err := handler.CreateDeal(context.Background(), &mcp.CallToolRequest{}, input)
	if err == nil || !strings.Contains(err.Error(), "invalid column") {
		t.Errorf("Expected invalid column error, got %v", err)
	}
}

func TestMoveDealHandler(t *testing.T) {
	server, client := newHandlerClient(t)
	handler := NewDealHandlers(client)

	seeded := server.SeedDeal(t, models.Deal{ContactID: 1, Title: "Moving deal"})

	_, deal, err := handler.MoveDeal(context.Background(), &mcp.CallToolRequest{}, MoveDealInput{ID: seeded.ID, Column: "proposta"})
	if err != nil {
		t.Fatalf("MoveDeal failed: %v", err)
	}

	if deal.Column != models.ColumnProposta {
		t.Errorf("Expected column proposta, got %s", deal.Column)
	}
}

func TestMoveDealRejected(t *testing.T) {
	server, client := newHandlerClient(t)
	handler := NewDealHandlers(client)

	seeded := server.SeedDeal(t, models.Deal{ID: 3, ContactID: 1, Title: "Guarded deal"})
	server.FailNext("PATCH", "/deals/3", 403, "deal not owned by user")

	_, _, err := handler.MoveDeal(context.Background(), &mcp.CallToolRequest{}, MoveDealInput{ID: seeded.ID, Column: "ganho"})
	if err == nil || !strings.Contains(err.Error(), "deal not owned by user") {
		t.Errorf("Expected service rejection detail, got %v", err)
	}
}

func TestFindDealsByColumn(t *testing.T) {
	server, client := newHandlerClient(t)
	handler := NewDealHandlers(client)

	server.SeedDeal(t, models.Deal{ContactID: 1, Title: "Fresh lead"})
	server.SeedDeal(t, models.Deal{ContactID: 1, Title: "Closed win", Column: models.ColumnGanho})

	_, output, err := handler.FindDeals(context.Background(), &mcp.CallToolRequest{}, FindDealsInput{Column: "ganho"})
	if err != nil {
		t.Fatalf("FindDeals failed: %v", err)
	}

	if len(output.Deals) != 1 {
		t.Fatalf("Expected 1 deal, got %d", len(output.Deals))
	}
	if output.Deals[0].Title != "Closed win" {
		t.Errorf("Expected 'Closed win', got %q", output.Deals[0].Title)
	}
}

func TestFindDealsByQuery(t *testing.T) {
	server, client := newHandlerClient(t)
	handler := NewDealHandlers(client)

	server.SeedDeal(t, models.Deal{ContactID: 1, Title: "Website redesign", Tags: []string{"web"}})
	server.SeedDeal(t, models.Deal{ContactID: 1, Title: "Logo refresh"})

	_, output, err := handler.FindDeals(context.Background(), &mcp.CallToolRequest{}, FindDealsInput{Query: "website"})
	if err != nil {
		t.Fatalf("FindDeals failed: %v", err)
	}

	if len(output.Deals) != 1 {
		t.Errorf("Expected 1 deal, got %d", len(output.Deals))
	}
}

func TestDeleteDealHandler(t *testing.T) {
	server, client := newHandlerClient(t)
	handler := NewDealHandlers(client)

	seeded := server.SeedDeal(t, models.Deal{ContactID: 1, Title: "Dead deal"})

	_, output, err := handler.DeleteDeal(context.Background(), &mcp.CallToolRequest{}, DeleteDealInput{ID: seeded.ID})
	if err != nil {
		t.Fatalf("DeleteDeal failed: %v", err)
	}
	if !output.Success {
		t.Error("Expected success to be true")
	}

	_, err = client.GetDeal(context.Background(), seeded.ID)
	if !errors.Is(err, api.ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}
}
