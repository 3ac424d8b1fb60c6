// ABOUTME: Tests for CLI commands and the snapshot fallback helper
// ABOUTME: Runs commands against the fake entity service and a temp cache
package cli

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/funilhq/funil/api"
	"github.com/funilhq/funil/apitest"
	"github.com/funilhq/funil/cache"
	"github.com/funilhq/funil/models"
)

func setupTestCLI(t *testing.T) (*api.Client, *apitest.Server) {
	t.Helper()
	server, cleanup := apitest.New(t)
	t.Cleanup(cleanup)
	client := api.New(api.Config{BaseURL: server.URL, Token: apitest.Token})
	return client, server
}

func openTestCache(t *testing.T) *cache.Store {
	t.Helper()
	snaps, err := cache.Open(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = snaps.Close() })
	return snaps
}

func TestFetchOrCacheFallsBack(t *testing.T) {
	snaps := openTestCache(t)

	// Successful fetch populates the snapshot.
	live := []models.Contact{{ID: 1, Name: "Ana"}, {ID: 2, Name: "Bruno"}}
	got, err := fetchOrCache(snaps, "contacts", func() ([]models.Contact, error) {
		return live, nil
	})
	if err != nil {
		t.Fatalf("fetchOrCache failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 contacts, got %d", len(got))
	}

	// Failing fetch falls back to the snapshot.
	got, err = fetchOrCache(snaps, "contacts", func() ([]models.Contact, error) {
		return nil, errors.New("connection refused")
	})
	if err != nil {
		t.Fatalf("Expected snapshot fallback, got error: %v", err)
	}
	if len(got) != 2 || got[0].Name != "Ana" {
		t.Errorf("Expected cached contacts back, got %+v", got)
	}
}

func TestFetchOrCacheNoSnapshot(t *testing.T) {
	snaps := openTestCache(t)

	_, err := fetchOrCache(snaps, "contacts", func() ([]models.Contact, error) {
		return nil, errors.New("connection refused")
	})
	if err == nil {
		t.Fatal("Expected fetch error when no snapshot exists")
	}
}

func TestFetchOrCacheNilStore(t *testing.T) {
	_, err := fetchOrCache[models.Contact](nil, "contacts", func() ([]models.Contact, error) {
		return nil, errors.New("connection refused")
	})
	if err == nil {
		t.Fatal("Expected fetch error when cache is unavailable")
	}
}

func TestContactsCommandList(t *testing.T) {
	client, server := setupTestCLI(t)
	snaps := openTestCache(t)
	server.SeedContact(t, models.Contact{Name: "Ana Souza"})

	if err := ContactsCommand(client, snaps, []string{"list"}); err != nil {
		t.Errorf("ContactsCommand failed: %v", err)
	}
}

func TestAddContactCommand(t *testing.T) {
	client, _ := setupTestCLI(t)

	err := addContact(client, []string{"--name", "Carla Lima", "--email", "carla@example.com", "--heat", "hot"})
	if err != nil {
		t.Fatalf("addContact failed: %v", err)
	}

	contacts, err := client.ListContacts(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(contacts) != 1 {
		t.Fatalf("Expected 1 contact, got %d", len(contacts))
	}
	if contacts[0].Name != "Carla Lima" || contacts[0].Heat != models.HeatHot {
		t.Errorf("Contact not created as requested: %+v", contacts[0])
	}
}

func TestAddContactRequiresName(t *testing.T) {
	client, _ := setupTestCLI(t)

	if err := addContact(client, []string{"--email", "x@example.com"}); err == nil {
		t.Error("Expected error when --name is missing")
	}
}

func TestMoveDealCommand(t *testing.T) {
	client, server := setupTestCLI(t)
	deal := server.SeedDeal(t, models.Deal{ContactID: 1, Title: "Website redesign"})

	err := moveDeal(client, []string{"3", "qualificacao"})
	if err == nil {
		t.Error("Expected error for unknown deal ID")
	}

	if err := moveDeal(client, []string{"1", "qualificacao"}); err != nil {
		t.Fatalf("moveDeal failed: %v", err)
	}

	got, err := client.GetDeal(context.Background(), deal.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Column != models.ColumnQualificacao {
		t.Errorf("Expected column qualificacao, got %s", got.Column)
	}
}

func TestMoveDealCommandRejected(t *testing.T) {
	client, server := setupTestCLI(t)
	deal := server.SeedDeal(t, models.Deal{ContactID: 1, Title: "Stuck deal"})
	server.FailNext("PATCH", "/deals/1", 403, "column locked")

	if err := moveDeal(client, []string{"1", "proposta"}); err == nil {
		t.Fatal("Expected move rejection to surface as an error")
	}

	got, err := client.GetDeal(context.Background(), deal.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Column != models.ColumnNovo {
		t.Errorf("Expected column unchanged after rejection, got %s", got.Column)
	}
}

func TestToggleObligationCommand(t *testing.T) {
	client, server := setupTestCLI(t)
	obligation := server.SeedObligation(t, models.Obligation{Title: "Send proposal", DueDate: time.Now().Add(24 * time.Hour)})

	if err := toggleObligation(client, []string{"1"}); err != nil {
		t.Fatalf("toggleObligation failed: %v", err)
	}
	got, err := client.GetObligation(context.Background(), obligation.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != models.ObligationDone {
		t.Errorf("Expected obligation done, got %s", got.Status)
	}

	// Toggling again reopens it.
	if err := toggleObligation(client, []string{"1"}); err != nil {
		t.Fatalf("toggleObligation failed: %v", err)
	}
	got, err = client.GetObligation(context.Background(), obligation.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != models.ObligationOpen {
		t.Errorf("Expected obligation reopened, got %s", got.Status)
	}
}

func TestDealBoardCommand(t *testing.T) {
	client, server := setupTestCLI(t)
	snaps := openTestCache(t)
	server.SeedDeal(t, models.Deal{ContactID: 1, Title: "Big deal", Value: 5000, Column: models.ColumnProposta})

	if err := dealBoard(client, snaps, nil); err != nil {
		t.Errorf("dealBoard failed: %v", err)
	}
}

func TestObligationAgendaCommand(t *testing.T) {
	client, server := setupTestCLI(t)
	snaps := openTestCache(t)
	server.SeedObligation(t, models.Obligation{Title: "Overdue call", DueDate: time.Now().Add(-48 * time.Hour)})

	if err := obligationAgenda(client, snaps, nil); err != nil {
		t.Errorf("obligationAgenda failed: %v", err)
	}
}

func TestParseID(t *testing.T) {
	id, err := parseID("42")
	if err != nil {
		t.Fatalf("parseID failed: %v", err)
	}
	if id != 42 {
		t.Errorf("Expected 42, got %d", id)
	}

	if _, err := parseID("abc"); err == nil {
		t.Error("Expected error for non-numeric ID")
	}
}

func TestParseDue(t *testing.T) {
	due, err := parseDue("2026-09-01")
	if err != nil {
		t.Fatalf("parseDue failed: %v", err)
	}
	if due.Year() != 2026 || due.Month() != time.September {
		t.Errorf("Unexpected date: %v", due)
	}

	due, err = parseDue("2026-09-01T14:30:00Z")
	if err != nil {
		t.Fatalf("parseDue failed for RFC3339: %v", err)
	}
	if due.Hour() != 14 {
		t.Errorf("Expected 14:30, got %v", due)
	}

	if _, err := parseDue("next tuesday"); err == nil {
		t.Error("Expected error for unparseable due date")
	}
}
