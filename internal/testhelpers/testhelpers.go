// Package testhelpers provides a fake Pipedrive API server for tests. It
// serves the same resources the real client consumes and records every write
// so tests can assert on outbound side effects.
package testhelpers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/softvask/followup/internal/domain"
)

// FakePipedrive is an in-process stand-in for the Pipedrive API. Configure
// the exported fields before issuing requests; reads of recorded writes go
// through the accessor methods.
type FakePipedrive struct {
	Stages      []domain.Stage
	Deals       []domain.DealSnapshot
	Emails      map[int64]string // person id -> email; absent id serves a person without email
	FailPersons map[int64]bool   // person ids whose lookup returns 500
	FailStages  bool
	FailDeals   bool

	mu         sync.Mutex
	notes      []map[string]any
	activities []map[string]any
	dealCalls  int

	srv *httptest.Server
}

// NewFakePipedrive starts a fake Pipedrive server. It is shut down when the
// test completes.
func NewFakePipedrive(t *testing.T) *FakePipedrive {
	t.Helper()

	f := &FakePipedrive{
		Emails:      make(map[int64]string),
		FailPersons: make(map[int64]bool),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /stages", f.handleStages)
	mux.HandleFunc("GET /deals", f.handleDeals)
	mux.HandleFunc("GET /persons/{personId}", f.handlePerson)
	mux.HandleFunc("POST /notes", f.handleNotes)
	mux.HandleFunc("POST /activities", f.handleActivities)

	f.srv = httptest.NewServer(mux)
	t.Cleanup(f.srv.Close)
	return f
}

// URL returns the fake server's base URL.
func (f *FakePipedrive) URL() string { return f.srv.URL }

// Notes returns the bodies of every recorded POST /notes call.
func (f *FakePipedrive) Notes() []map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]map[string]any(nil), f.notes...)
}

// Activities returns the bodies of every recorded POST /activities call.
func (f *FakePipedrive) Activities() []map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]map[string]any(nil), f.activities...)
}

// DealCalls returns how many GET /deals requests have been served.
func (f *FakePipedrive) DealCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.dealCalls
}

func (f *FakePipedrive) handleStages(w http.ResponseWriter, _ *http.Request) {
	if f.FailStages {
		http.Error(w, `{"success":false,"error":"stages unavailable"}`, http.StatusInternalServerError)
		return
	}
	writeEnvelope(w, f.Stages)
}

func (f *FakePipedrive) handleDeals(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.dealCalls++
	f.mu.Unlock()

	if f.FailDeals {
		http.Error(w, `{"success":false,"error":"deals unavailable"}`, http.StatusInternalServerError)
		return
	}

	start, _ := strconv.Atoi(r.URL.Query().Get("start"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 {
		limit = len(f.Deals)
	}

	end := start + limit
	if start > len(f.Deals) {
		start = len(f.Deals)
	}
	if end > len(f.Deals) {
		end = len(f.Deals)
	}
	writeEnvelope(w, f.Deals[start:end])
}

func (f *FakePipedrive) handlePerson(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("personId"), 10, 64)
	if err != nil {
		http.Error(w, `{"success":false,"error":"bad id"}`, http.StatusBadRequest)
		return
	}
	if f.FailPersons[id] {
		http.Error(w, `{"success":false,"error":"person lookup failed"}`, http.StatusInternalServerError)
		return
	}

	p := map[string]any{"id": id}
	if email, ok := f.Emails[id]; ok && email != "" {
		p["email"] = []map[string]any{{"value": email, "primary": true}}
	}
	writeEnvelope(w, p)
}

func (f *FakePipedrive) handleNotes(w http.ResponseWriter, r *http.Request) {
	f.recordWrite(w, r, &f.notes)
}

func (f *FakePipedrive) handleActivities(w http.ResponseWriter, r *http.Request) {
	f.recordWrite(w, r, &f.activities)
}

func (f *FakePipedrive) recordWrite(w http.ResponseWriter, r *http.Request, into *[]map[string]any) {
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, fmt.Sprintf(`{"success":false,"error":%q}`, err), http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	*into = append(*into, body)
	f.mu.Unlock()
	writeEnvelope(w, body)
}

func writeEnvelope(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "data": data})
}
