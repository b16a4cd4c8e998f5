package sweep

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/softvask/followup/internal/api"
	"github.com/softvask/followup/internal/followup"
)

// Runner runs one follow-up sweep.
type Runner interface {
	Run(ctx context.Context) (followup.Result, error)
}

// Handler triggers sweeps on demand, typically from a cron-style scheduler.
type Handler struct {
	engine Runner
}

// Response is the sweep result body.
type Response struct {
	Status    string          `json:"status"`
	Processed followup.Result `json:"processed"`
}

// Run handles POST /daily-sweep.
func (h *Handler) Run(w http.ResponseWriter, r *http.Request) {
	result, err := h.engine.Run(r.Context())
	if err != nil {
		slog.Error("sweep failed", "error", err)
		api.WriteError(w, http.StatusBadGateway, err.Error(), api.CorrelationID(r.Context()))
		return
	}
	api.WriteJSON(w, http.StatusOK, Response{Status: "ok", Processed: result})
}
