package webhook_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/softvask/followup/internal/api/webhook"
	"github.com/softvask/followup/internal/pipedrive"
	"github.com/softvask/followup/internal/testhelpers"
	"github.com/softvask/followup/internal/worker"
)

// setup wires the webhook handler to a fake Pipedrive through a single-worker
// pool. Flushing the pool with Shutdown makes the deferred note write
// observable.
func setup(t *testing.T) (*http.ServeMux, *testhelpers.FakePipedrive, *worker.Pool) {
	t.Helper()
	f := testhelpers.NewFakePipedrive(t)
	c := pipedrive.New(pipedrive.Config{BaseURL: f.URL(), APIToken: "test-token"})
	pool := worker.NewPool(1, 8)

	mux := http.NewServeMux()
	webhook.RegisterRoutes(mux, c, pool)
	return mux, f, pool
}

func post(t *testing.T, mux *http.ServeMux, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func flush(t *testing.T, pool *worker.Pool) {
	t.Helper()
	if err := pool.Shutdown(context.Background()); err != nil {
		t.Fatalf("flush pool: %v", err)
	}
}

func decodeAck(t *testing.T, rec *httptest.ResponseRecorder) webhook.AckResponse {
	t.Helper()
	var ack webhook.AckResponse
	if err := json.NewDecoder(rec.Body).Decode(&ack); err != nil {
		t.Fatalf("decode ack: %v", err)
	}
	return ack
}

func TestReceiveStageChangeRecordsNote(t *testing.T) {
	mux, f, pool := setup(t)

	rec := post(t, mux, `{
		"meta": {"action": "updated", "object": "deal"},
		"current": {"id": 12, "stage_id": 3},
		"previous": {"stage_id": 2}
	}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ack := decodeAck(t, rec); !ack.Acknowledged {
		t.Fatalf("acknowledged = false, want true: %+v", ack)
	}

	flush(t, pool)
	notes := f.Notes()
	if len(notes) != 1 {
		t.Fatalf("recorded %d notes, want 1", len(notes))
	}
	if got := notes[0]["deal_id"]; got != float64(12) {
		t.Errorf("deal_id = %v, want 12", got)
	}
	content, _ := notes[0]["content"].(string)
	if !strings.HasPrefix(content, "Webhook: stage 2 -> 3 @ ") {
		t.Errorf("content = %q, want stage transition wording", content)
	}
}

func TestReceiveNonChangeRecordsReceivedNote(t *testing.T) {
	mux, f, pool := setup(t)

	post(t, mux, `{
		"meta": {"action": "updated", "object": "deal"},
		"current": {"id": 12, "stage_id": 3},
		"previous": {"stage_id": 3}
	}`)

	flush(t, pool)
	notes := f.Notes()
	if len(notes) != 1 {
		t.Fatalf("recorded %d notes, want 1", len(notes))
	}
	content, _ := notes[0]["content"].(string)
	if !strings.HasPrefix(content, "Webhook mottatt (action=updated, object=deal) @ ") {
		t.Errorf("content = %q, want received wording", content)
	}
}

func TestReceiveNestedShape(t *testing.T) {
	mux, f, pool := setup(t)

	post(t, mux, `{
		"event_action": "change",
		"event_object": "deal",
		"data": {
			"current": {"id": 55, "stage_id": 7},
			"previous": {"stage_id": 6}
		}
	}`)

	flush(t, pool)
	notes := f.Notes()
	if len(notes) != 1 {
		t.Fatalf("recorded %d notes, want 1", len(notes))
	}
	if got := notes[0]["deal_id"]; got != float64(55) {
		t.Errorf("deal_id = %v, want 55", got)
	}
}

func TestReceiveMissingDealIDAcknowledgesWithoutWrites(t *testing.T) {
	mux, f, pool := setup(t)

	rec := post(t, mux, `{"current": {"stage_id": 3}, "previous": {"stage_id": 2}}`)

	if ack := decodeAck(t, rec); !ack.Acknowledged {
		t.Fatal("acknowledged = false, want true")
	}

	flush(t, pool)
	if len(f.Notes()) != 0 {
		t.Errorf("recorded %d notes for an id-less payload, want 0", len(f.Notes()))
	}
}

func TestReceiveInvalidJSON(t *testing.T) {
	mux, f, pool := setup(t)

	rec := post(t, mux, `{not json`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 even for bad payloads", rec.Code)
	}
	ack := decodeAck(t, rec)
	if ack.Acknowledged {
		t.Error("acknowledged = true for invalid JSON")
	}
	if ack.Error != "invalid payload" {
		t.Errorf("error = %q, want %q", ack.Error, "invalid payload")
	}

	flush(t, pool)
	if len(f.Notes()) != 0 {
		t.Error("notes recorded for invalid payload")
	}
}

func TestReceiveAnnotationFailureStaysAcknowledged(t *testing.T) {
	// Point the handler at a dead upstream; the ack must not depend on the
	// deferred write succeeding.
	dead := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"success":false}`, http.StatusInternalServerError)
	}))
	defer dead.Close()

	c := pipedrive.New(pipedrive.Config{BaseURL: dead.URL, APIToken: "test-token"})
	pool := worker.NewPool(1, 8)
	mux := http.NewServeMux()
	webhook.RegisterRoutes(mux, c, pool)

	rec := post(t, mux, `{"current": {"id": 12, "stage_id": 3}}`)

	if ack := decodeAck(t, rec); !ack.Acknowledged {
		t.Error("acknowledged = false when the annotation write fails")
	}
	flush(t, pool)
}
