package webhook

import (
	"net/http"
	"time"

	"github.com/softvask/followup/internal/worker"
)

// RegisterRoutes registers the webhook route on the mux.
func RegisterRoutes(mux *http.ServeMux, crm Annotator, pool *worker.Pool) {
	h := &Handler{crm: crm, pool: pool, now: time.Now}

	mux.HandleFunc("POST /webhook", h.Receive)
}
