// ABOUTME: Tests for the read-only web board
// ABOUTME: Renders the handler against the fake entity service and inspects the HTML
package web

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/funilhq/funil/api"
	"github.com/funilhq/funil/apitest"
	"github.com/funilhq/funil/models"
)

func newTestServer(t *testing.T) (*Server, *apitest.Server) {
	t.Helper()
	fake, cleanup := apitest.New(t)
	t.Cleanup(cleanup)
	client := api.New(api.Config{BaseURL: fake.URL, Token: apitest.Token})
	server, err := NewServer(client)
	if err != nil {
		t.Fatalf("Failed to build web server: %v", err)
	}
	return server, fake
}

func TestBoardRendersProjections(t *testing.T) {
	server, fake := newTestServer(t)
	fake.SeedContact(t, models.Contact{Name: "Ana Souza"})
	fake.SeedDeal(t, models.Deal{ContactID: 1, Title: "Website redesign", Value: 4200, Column: models.ColumnProposta})
	fake.SeedObligation(t, models.Obligation{Title: "Send invoice", DueDate: time.Now().Add(-time.Hour)})

	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()
	server.handleBoard(rec, req)

	if rec.Code != 200 {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	body := rec.Body.String()

	if !strings.Contains(body, "Ana Souza") {
		t.Error("Expected contact table to show seeded contact")
	}
	if !strings.Contains(body, "Website redesign") {
		t.Error("Expected board to show seeded deal")
	}
	if !strings.Contains(body, "Send invoice") {
		t.Error("Expected agenda to show seeded obligation")
	}
	// Every pipeline column renders, populated or not
	for _, col := range models.Columns() {
		if !strings.Contains(body, string(col)) {
			t.Errorf("Expected board to show column %s", col)
		}
	}
}

func TestBoardSearchFiltersContacts(t *testing.T) {
	server, fake := newTestServer(t)
	fake.SeedContact(t, models.Contact{Name: "Alice Smith"})
	fake.SeedContact(t, models.Contact{Name: "Bob Jones"})

	req := httptest.NewRequest("GET", "/?q=smith", nil)
	rec := httptest.NewRecorder()
	server.handleBoard(rec, req)

	body := rec.Body.String()
	if !strings.Contains(body, "Alice Smith") {
		t.Error("Expected matching contact in filtered table")
	}
	if strings.Contains(body, "Bob Jones") {
		t.Error("Expected non-matching contact to be filtered out")
	}
}

func TestBoardServiceFailure(t *testing.T) {
	fake, cleanup := apitest.New(t)
	t.Cleanup(cleanup)
	client := api.New(api.Config{BaseURL: fake.URL, Token: "wrong-token"})
	server, err := NewServer(client)
	if err != nil {
		t.Fatalf("Failed to build web server: %v", err)
	}

	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()
	server.handleBoard(rec, req)

	if rec.Code != 500 {
		t.Errorf("Expected status 500 when the service rejects the fetch, got %d", rec.Code)
	}
}
