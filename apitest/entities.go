// ABOUTME: Entity routes for the fake service
// ABOUTME: Implements contact, deal, and obligation CRUD with real-service ordering and defaults
package apitest

import (
	"cmp"
	"encoding/json"
	"net/http"
	"slices"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v3"

	"github.com/funilhq/funil/models"
)

func (s *Server) handleContacts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		var contacts []models.Contact
		err := s.scan("contacts/", func(data []byte) error {
			var c models.Contact
			if err := json.Unmarshal(data, &c); err != nil {
				return err
			}
			contacts = append(contacts, c)
			return nil
		})
		if err != nil {
			writeDetail(w, http.StatusInternalServerError, err.Error())
			return
		}
		// Newest first, matching the service's id DESC ordering
		slices.SortFunc(contacts, func(a, b models.Contact) int {
			return cmp.Compare(b.ID, a.ID)
		})
		writeJSON(w, http.StatusOK, contacts)

	case http.MethodPost:
		var draft models.ContactDraft
		if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
			writeDetail(w, http.StatusUnprocessableEntity, "invalid request body")
			return
		}
		if err := draft.Validate(); err != nil {
			writeDetail(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		contact := models.Contact{
			ID:          s.next("contacts"),
			Name:        draft.Name,
			Phone:       draft.Phone,
			Email:       draft.Email,
			Stage:       draft.Stage,
			Heat:        draft.Heat,
			AwaitStatus: draft.AwaitStatus,
			IsReal:      draft.IsReal,
			Notes:       draft.Notes,
		}
		contactDefaults(&contact)
		if err := s.put(entityKey("contacts", contact.ID), contact); err != nil {
			writeDetail(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, contact)

	default:
		writeDetail(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (s *Server) handleContactByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r.URL.Path, "/contacts/")
	if !ok {
		writeDetail(w, http.StatusNotFound, "Not Found")
		return
	}
	key := entityKey("contacts", id)

	var contact models.Contact
	if err := s.get(key, &contact); err != nil {
		if err == badger.ErrKeyNotFound {
			writeDetail(w, http.StatusNotFound, "Contact not found")
		} else {
			writeDetail(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, contact)

	case http.MethodPatch:
		var patch models.ContactPatch
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			writeDetail(w, http.StatusUnprocessableEntity, "invalid request body")
			return
		}
		patch.Apply(&contact)
		contact.UpdatedAt = time.Now().UTC()
		if err := s.put(key, contact); err != nil {
			writeDetail(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, contact)

	case http.MethodDelete:
		if err := s.delete(key); err != nil {
			writeDetail(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})

	default:
		writeDetail(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (s *Server) handleDeals(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		var column models.Column
		if raw := r.URL.Query().Get("column"); raw != "" {
			parsed, err := models.ParseColumn(raw)
			if err != nil {
				writeDetail(w, http.StatusUnprocessableEntity, err.Error())
				return
			}
			column = parsed
		}

		var deals []models.Deal
		err := s.scan("deals/", func(data []byte) error {
			var d models.Deal
			if err := json.Unmarshal(data, &d); err != nil {
				return err
			}
			if column == "" || d.Column == column {
				deals = append(deals, d)
			}
			return nil
		})
		if err != nil {
			writeDetail(w, http.StatusInternalServerError, err.Error())
			return
		}
		slices.SortFunc(deals, func(a, b models.Deal) int {
			return cmp.Compare(b.ID, a.ID)
		})
		writeJSON(w, http.StatusOK, deals)

	case http.MethodPost:
		var draft models.DealDraft
		if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
			writeDetail(w, http.StatusUnprocessableEntity, "invalid request body")
			return
		}
		if err := draft.Validate(); err != nil {
			writeDetail(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		deal := models.Deal{
			ID:        s.next("deals"),
			ContactID: draft.ContactID,
			Title:     draft.Title,
			Value:     draft.Value,
			Column:    draft.Column,
			Priority:  draft.Priority,
			DueDate:   draft.DueDate,
			Tags:      draft.Tags,
		}
		dealDefaults(&deal)
		if err := s.put(entityKey("deals", deal.ID), deal); err != nil {
			writeDetail(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, deal)

	default:
		writeDetail(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (s *Server) handleDealByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r.URL.Path, "/deals/")
	if !ok {
		writeDetail(w, http.StatusNotFound, "Not Found")
		return
	}
	key := entityKey("deals", id)

	var deal models.Deal
	if err := s.get(key, &deal); err != nil {
		if err == badger.ErrKeyNotFound {
			writeDetail(w, http.StatusNotFound, "Deal not found")
		} else {
			writeDetail(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, deal)

	case http.MethodPatch:
		var patch models.DealPatch
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			writeDetail(w, http.StatusUnprocessableEntity, "invalid request body")
			return
		}
		if patch.Column != nil && !patch.Column.Valid() {
			writeDetail(w, http.StatusUnprocessableEntity, "invalid column")
			return
		}
		patch.Apply(&deal)
		if err := s.put(key, deal); err != nil {
			writeDetail(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, deal)

	case http.MethodDelete:
		if err := s.delete(key); err != nil {
			writeDetail(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})

	default:
		writeDetail(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (s *Server) handleObligations(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		var start, end *models.Date
		if raw := r.URL.Query().Get("start"); raw != "" {
			parsed, err := models.ParseDate(raw)
			if err != nil {
				writeDetail(w, http.StatusUnprocessableEntity, err.Error())
				return
			}
			start = &parsed
		}
		if raw := r.URL.Query().Get("end"); raw != "" {
			parsed, err := models.ParseDate(raw)
			if err != nil {
				writeDetail(w, http.StatusUnprocessableEntity, err.Error())
				return
			}
			end = &parsed
		}

		var obligations []models.Obligation
		err := s.scan("obligations/", func(data []byte) error {
			var o models.Obligation
			if err := json.Unmarshal(data, &o); err != nil {
				return err
			}
			if start != nil && o.DueDate.Before(start.Time) {
				return nil
			}
			// End bound is inclusive of the whole end day
			if end != nil && !o.DueDate.Before(end.AddDate(0, 0, 1)) {
				return nil
			}
			obligations = append(obligations, o)
			return nil
		})
		if err != nil {
			writeDetail(w, http.StatusInternalServerError, err.Error())
			return
		}
		slices.SortFunc(obligations, func(a, b models.Obligation) int {
			if c := a.DueDate.Compare(b.DueDate); c != 0 {
				return c
			}
			return cmp.Compare(a.ID, b.ID)
		})
		writeJSON(w, http.StatusOK, obligations)

	case http.MethodPost:
		var draft models.ObligationDraft
		if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
			writeDetail(w, http.StatusUnprocessableEntity, "invalid request body")
			return
		}
		if err := draft.Validate(); err != nil {
			writeDetail(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		obligation := models.Obligation{
			ID:          s.next("obligations"),
			Title:       draft.Title,
			Description: draft.Description,
			DueDate:     draft.DueDate,
			Status:      draft.Status,
			ContactID:   draft.ContactID,
		}
		obligationDefaults(&obligation)
		if err := s.put(entityKey("obligations", obligation.ID), obligation); err != nil {
			writeDetail(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, obligation)

	default:
		writeDetail(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (s *Server) handleObligationByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r.URL.Path, "/obligations/")
	if !ok {
		writeDetail(w, http.StatusNotFound, "Not Found")
		return
	}
	key := entityKey("obligations", id)

	var obligation models.Obligation
	if err := s.get(key, &obligation); err != nil {
		if err == badger.ErrKeyNotFound {
			writeDetail(w, http.StatusNotFound, "Obligation not found")
		} else {
			writeDetail(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, obligation)

	case http.MethodPatch:
		var patch models.ObligationPatch
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			writeDetail(w, http.StatusUnprocessableEntity, "invalid request body")
			return
		}
		patch.Apply(&obligation)
		if err := s.put(key, obligation); err != nil {
			writeDetail(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, obligation)

	case http.MethodDelete:
		if err := s.delete(key); err != nil {
			writeDetail(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})

	default:
		writeDetail(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func contactDefaults(c *models.Contact) {
	if c.Stage == "" {
		c.Stage = models.StageLead
	}
	if c.Heat == "" {
		c.Heat = models.HeatCold
	}
	if c.AwaitStatus == "" {
		c.AwaitStatus = models.AwaitNone
	}
	if c.OwnerUserID == 0 {
		c.OwnerUserID = 1
	}
	now := time.Now().UTC()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = now
	}
}

func dealDefaults(d *models.Deal) {
	if d.Column == "" {
		d.Column = models.ColumnNovo
	}
	if d.Priority == "" {
		d.Priority = models.PriorityNormal
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now().UTC()
	}
}

func obligationDefaults(o *models.Obligation) {
	if o.Status == "" {
		o.Status = models.ObligationOpen
	}
	if o.OwnerUserID == 0 {
		o.OwnerUserID = 1
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now().UTC()
	}
}

// SeedContact stores a contact directly, assigning an ID when unset.
func (s *Server) SeedContact(t *testing.T, c models.Contact) models.Contact {
	t.Helper()
	if c.ID == 0 {
		c.ID = s.next("contacts")
	} else {
		s.claim("contacts", c.ID)
	}
	contactDefaults(&c)
	if err := s.put(entityKey("contacts", c.ID), c); err != nil {
		t.Fatalf("Failed to seed contact: %v", err)
	}
	return c
}

// SeedDeal stores a deal directly, assigning an ID when unset.
func (s *Server) SeedDeal(t *testing.T, d models.Deal) models.Deal {
	t.Helper()
	if d.ID == 0 {
		d.ID = s.next("deals")
	} else {
		s.claim("deals", d.ID)
	}
	dealDefaults(&d)
	if err := s.put(entityKey("deals", d.ID), d); err != nil {
		t.Fatalf("Failed to seed deal: %v", err)
	}
	return d
}

// SeedObligation stores an obligation directly, assigning an ID when unset.
func (s *Server) SeedObligation(t *testing.T, o models.Obligation) models.Obligation {
	t.Helper()
	if o.ID == 0 {
		o.ID = s.next("obligations")
	} else {
		s.claim("obligations", o.ID)
	}
	obligationDefaults(&o)
	if err := s.put(entityKey("obligations", o.ID), o); err != nil {
		t.Fatalf("Failed to seed obligation: %v", err)
	}
	return o
}
