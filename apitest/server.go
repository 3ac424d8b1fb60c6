// ABOUTME: In-process fake of the entity service for integration tests
// ABOUTME: Serves the REST API from a temporary BadgerDB without network dependencies
package apitest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/dgraph-io/badger/v3"
)

// Token is the bearer token the fake service accepts.
const Token = "test-token"

// Server is a fake entity service. It persists entities in a temporary
// BadgerDB and mirrors the real service's routes, ordering, and error bodies.
type Server struct {
	URL string

	db       *badger.DB
	srv      *httptest.Server
	mu       sync.Mutex
	seq      map[string]int64
	failures map[string]plannedFailure
}

type plannedFailure struct {
	status int
	detail string
}

// New starts a fake service backed by a temp-dir BadgerDB. The returned
// cleanup function should be deferred to stop the server and close the store.
func New(t *testing.T) (*Server, func()) {
	t.Helper()

	opts := badger.DefaultOptions(t.TempDir()).
		WithLogger(nil) // Suppress badger logs in tests

	db, err := badger.Open(opts)
	if err != nil {
		t.Fatalf("Failed to open badger: %v", err)
	}

	s := &Server{
		db:       db,
		seq:      make(map[string]int64),
		failures: make(map[string]plannedFailure),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.withAuth(s.handleHealth))
	mux.HandleFunc("/contacts", s.withAuth(s.handleContacts))
	mux.HandleFunc("/contacts/", s.withAuth(s.handleContactByID))
	mux.HandleFunc("/deals", s.withAuth(s.handleDeals))
	mux.HandleFunc("/deals/", s.withAuth(s.handleDealByID))
	mux.HandleFunc("/obligations", s.withAuth(s.handleObligations))
	mux.HandleFunc("/obligations/", s.withAuth(s.handleObligationByID))

	s.srv = httptest.NewServer(mux)
	s.URL = s.srv.URL

	cleanup := func() {
		s.srv.Close()
		if err := db.Close(); err != nil {
			t.Logf("Warning: failed to close test database: %v", err)
		}
	}

	return s, cleanup
}

// FailNext arranges for the next request matching method and path to be
// rejected with the given status and a {"detail": ...} body. Consumed once.
func (s *Server) FailNext(method, path string, status int, detail string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method+" "+path] = plannedFailure{status: status, detail: detail}
}

func (s *Server) withAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+Token {
			writeDetail(w, http.StatusUnauthorized, "Not authenticated")
			return
		}

		s.mu.Lock()
		key := r.Method + " " + r.URL.Path
		failure, planned := s.failures[key]
		if planned {
			delete(s.failures, key)
		}
		s.mu.Unlock()

		if planned {
			writeDetail(w, failure.status, failure.detail)
			return
		}

		next(w, r)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// next assigns the next autoincrement ID for an entity.
func (s *Server) next(entity string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq[entity]++
	return s.seq[entity]
}

// claim bumps the sequence so seeded IDs never collide with assigned ones.
func (s *Server) claim(entity string, id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id > s.seq[entity] {
		s.seq[entity] = id
	}
}

func (s *Server) put(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

func (s *Server) get(key string, out any) error {
	return s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		data, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		return json.Unmarshal(data, out)
	})
}

func (s *Server) delete(key string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
}

// scan calls fn with each stored value under prefix.
func (s *Server) scan(prefix string, fn func(data []byte) error) error {
	return s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefix)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			data, err := it.Item().ValueCopy(nil)
			if err != nil {
				return err
			}
			if err := fn(data); err != nil {
				return err
			}
		}
		return nil
	})
}

func entityKey(entity string, id int64) string {
	return fmt.Sprintf("%s/%020d", entity, id)
}

// pathID extracts the numeric ID from paths like /contacts/42.
func pathID(path, prefix string) (int64, bool) {
	rest := strings.TrimPrefix(path, prefix)
	if rest == "" || strings.Contains(rest, "/") {
		return 0, false
	}
	id, err := strconv.ParseInt(rest, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		return
	}
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
