// Package webhook receives change notifications from Pipedrive, normalizes
// them, and records a note on the affected deal. The upstream platform
// retries webhooks until it sees a success status, so every parseable
// request is acknowledged regardless of what this service does with it.
package webhook

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/softvask/followup/internal/api"
	"github.com/softvask/followup/internal/domain"
	"github.com/softvask/followup/internal/pipedrive"
	"github.com/softvask/followup/internal/worker"
)

// maxBodySize caps inbound webhook payloads at 1MB.
const maxBodySize = 1 << 20

// Annotator is the slice of the Pipedrive API the webhook path writes to.
type Annotator interface {
	AddNote(ctx context.Context, link pipedrive.NoteLink, content string) error
}

// Handler normalizes change notifications and defers the annotation write to
// a background pool so the acknowledgment never waits on the upstream API.
type Handler struct {
	crm  Annotator
	pool *worker.Pool
	now  func() time.Time
}

// AckResponse is the webhook acknowledgment body.
type AckResponse struct {
	Acknowledged bool   `json:"acknowledged"`
	Error        string `json:"error,omitempty"`
}

// Receive handles POST /webhook.
func (h *Handler) Receive(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		api.WriteJSON(w, http.StatusOK, AckResponse{Acknowledged: false, Error: "invalid payload"})
		return
	}

	var n domain.ChangeNotification
	if err := json.Unmarshal(body, &n); err != nil {
		api.WriteJSON(w, http.StatusOK, AckResponse{Acknowledged: false, Error: "invalid payload"})
		return
	}

	t := domain.Normalize(&n)
	slog.Info("webhook received",
		"event", n.Event,
		"action", n.Action(),
		"object", n.Object(),
		"deal_id", t.DealID,
		"has_deal", t.HasDeal,
		"stage_before", formatStage(t.PrevStageID, t.HasPrev),
		"stage_after", formatStage(t.CurStageID, t.HasCur),
		"signed", r.Header.Get("X-Pipedrive-Signature") != "",
	)

	if t.HasDeal {
		content := h.noteContent(&n, t)
		dealID := t.DealID
		h.pool.Submit(worker.Task{
			Name: "webhook-note",
			Run: func(ctx context.Context) error {
				return h.crm.AddNote(ctx, pipedrive.NoteLink{DealID: dealID}, content)
			},
		})
	}

	api.WriteJSON(w, http.StatusOK, AckResponse{Acknowledged: true})
}

// noteContent renders the annotation. A real stage change records the
// transition; anything else records that a webhook arrived.
func (h *Handler) noteContent(n *domain.ChangeNotification, t domain.StageTransition) string {
	ts := h.now().UTC().Format(time.RFC3339)
	if t.Changed() {
		return fmt.Sprintf("Webhook: stage %s -> %s @ %s",
			formatStage(t.PrevStageID, t.HasPrev), formatStage(t.CurStageID, t.HasCur), ts)
	}

	action := n.Action()
	if action == "" {
		action = "n/a"
	}
	return fmt.Sprintf("Webhook mottatt (action=%s, object=%s) @ %s", action, n.Object(), ts)
}

func formatStage(id int64, ok bool) string {
	if !ok {
		return "none"
	}
	return strconv.FormatInt(id, 10)
}
