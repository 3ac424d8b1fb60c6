// ABOUTME: Search filters over the mirrored collections
// ABOUTME: Case-insensitive substring match across each entity's designated text fields
package views

import (
	"strings"

	"github.com/funilhq/funil/models"
	"github.com/funilhq/funil/store"
)

// FilterContacts keeps contacts whose name, email, or phone contains the
// query, ignoring case. An empty query keeps everything. Server order is
// preserved.
func FilterContacts(contacts []models.Contact, query string) []models.Contact {
	return store.Project(contacts, func(c models.Contact) bool {
		return matches(query, c.Name, deref(c.Email), deref(c.Phone))
	})
}

// FilterDeals keeps deals whose title or tags contain the query.
func FilterDeals(deals []models.Deal, query string) []models.Deal {
	return store.Project(deals, func(d models.Deal) bool {
		fields := append([]string{d.Title}, d.Tags...)
		return matches(query, fields...)
	})
}

// FilterObligations keeps obligations whose title or description contains
// the query.
func FilterObligations(obligations []models.Obligation, query string) []models.Obligation {
	return store.Project(obligations, func(o models.Obligation) bool {
		return matches(query, o.Title, deref(o.Description))
	})
}

func matches(query string, fields ...string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	for _, f := range fields {
		if f != "" && strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
