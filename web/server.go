// ABOUTME: Read-only web board with embedded templates
// ABOUTME: Serves the contact, kanban, and agenda projections as plain HTML tables
package web

import (
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/funilhq/funil/api"
	"github.com/funilhq/funil/views"
)

//go:embed templates/*
var templatesFS embed.FS

type Server struct {
	client    *api.Client
	templates *template.Template
}

func NewServer(client *api.Client) (*Server, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	return &Server{
		client:    client,
		templates: tmpl,
	}, nil
}

func (s *Server) Start(port int) error {
	http.HandleFunc("/", s.handleBoard)

	addr := fmt.Sprintf(":%d", port)
	slog.Info("starting web server", "url", "http://localhost"+addr)
	return http.ListenAndServe(addr, nil)
}

// handleBoard serves all three projections on one page. The q parameter
// filters the contact table client-side; the board itself stays complete.
func (s *Server) handleBoard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query().Get("q")

	contacts, err := s.client.ListContacts(ctx)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	deals, err := s.client.ListDeals(ctx, api.DealFilter{})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	obligations, err := s.client.ListObligations(ctx, api.ObligationFilter{})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	data := map[string]interface{}{
		"Title":    "Funil",
		"Query":    query,
		"Contacts": views.FilterContacts(contacts, query),
		"Board":    views.Kanban(deals),
		"Agenda":   views.BuildAgenda(obligations, time.Now()),
	}

	s.renderTemplate(w, "board.html", data)
}

func (s *Server) renderTemplate(w http.ResponseWriter, name string, data interface{}) {
	err := s.templates.ExecuteTemplate(w, name, data)
	if err != nil {
		slog.Error("template error", "template", name, "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}
