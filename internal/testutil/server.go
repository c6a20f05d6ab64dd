// Package testutil provides a fake note server and a CLI harness for
// integration tests.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/RichWolff/joplin-sync/internal/note"
)

// Default credentials accepted by the fake server.
const (
	TestEmail    = "tester@example.com"
	TestPassword = "hunter2"

	sessionID = "0123456789abcdef0123456789abcdef"
)

// FakeServer is an in-memory note server speaking the same wire protocol
// as the real one: session login, then note fetch/create/update.
type FakeServer struct {
	t   *testing.T
	srv *httptest.Server

	mu        sync.Mutex
	notes     map[string]*note.Record
	notebooks map[string]bool
	nextID    int

	sessionCalls int
	fetchCalls   int
	createCalls  int
	updateCalls  int
}

// NewFakeServer starts a fake server accepting TestEmail/TestPassword.
// It is shut down automatically when the test finishes.
func NewFakeServer(t *testing.T) *FakeServer {
	t.Helper()

	s := &FakeServer{
		t:         t,
		notes:     make(map[string]*note.Record),
		notebooks: make(map[string]bool),
		nextID:    1,
	}
	s.srv = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.srv.Close)
	return s
}

// URL returns the server's base URL.
func (s *FakeServer) URL() string { return s.srv.URL }

// AddNotebook registers a notebook id that create calls may target.
func (s *FakeServer) AddNotebook(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notebooks[id] = true
}

// AddNote seeds a note. Its notebook is registered as a side effect.
func (s *FakeServer) AddNote(rec note.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := rec
	s.notes[rec.ID] = &stored
	s.notebooks[rec.ParentID] = true
}

// Note returns a copy of a stored note, or nil.
func (s *FakeServer) Note(id string) *note.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.notes[id]
	if !ok {
		return nil
	}
	copied := *rec
	return &copied
}

// CallCounts reports how many times each operation was hit.
func (s *FakeServer) CallCounts() (sessions, fetches, creates, updates int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessionCalls, s.fetchCalls, s.createCalls, s.updateCalls
}

func (s *FakeServer) handle(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/api/sessions":
		s.handleSession(w, r)
	case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/api/notes/"):
		s.handleFetch(w, r)
	case r.Method == http.MethodPost && r.URL.Path == "/api/notes":
		s.handleCreate(w, r)
	case r.Method == http.MethodPut && strings.HasPrefix(r.URL.Path, "/api/notes/"):
		s.handleUpdate(w, r)
	default:
		writeError(w, http.StatusNotFound, "no such endpoint: "+r.URL.Path)
	}
}

func (s *FakeServer) handleSession(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.sessionCalls++
	s.mu.Unlock()

	var creds struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeError(w, http.StatusBadRequest, "invalid session request")
		return
	}
	if creds.Email != TestEmail || creds.Password != TestPassword {
		writeError(w, http.StatusForbidden, "invalid credentials")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": sessionID})
}

func (s *FakeServer) authorized(w http.ResponseWriter, r *http.Request) bool {
	if r.Header.Get("X-API-AUTH") != sessionID {
		writeError(w, http.StatusUnauthorized, "missing or invalid session")
		return false
	}
	return true
}

func (s *FakeServer) handleFetch(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.fetchCalls++
	s.mu.Unlock()

	if !s.authorized(w, r) {
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/notes/")
	rec := s.Note(id)
	if rec == nil {
		writeError(w, http.StatusNotFound, "note not found: "+id)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *FakeServer) handleCreate(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.createCalls++
	s.mu.Unlock()

	if !s.authorized(w, r) {
		return
	}

	var in struct {
		ParentID string `json:"parent_id"`
		Title    string `json:"title"`
		Body     string `json:"body"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid create request")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.notebooks[in.ParentID] {
		writeError(w, http.StatusNotFound, "notebook not found: "+in.ParentID)
		return
	}

	rec := &note.Record{
		ID:       fmt.Sprintf("%032x", s.nextID),
		ParentID: in.ParentID,
		Title:    in.Title,
		Body:     in.Body,
	}
	s.nextID++
	s.notes[rec.ID] = rec
	writeJSON(w, http.StatusOK, rec)
}

func (s *FakeServer) handleUpdate(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.updateCalls++
	s.mu.Unlock()

	if !s.authorized(w, r) {
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/notes/")

	var in struct {
		Title string `json:"title"`
		Body  string `json:"body"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid update request")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.notes[id]
	if !ok {
		writeError(w, http.StatusNotFound, "note not found: "+id)
		return
	}
	rec.Title = in.Title
	rec.Body = in.Body
	writeJSON(w, http.StatusOK, rec)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
