package health

import (
	"net/http"
	"time"
)

// RegisterRoutes registers the health route on the mux.
func RegisterRoutes(mux *http.ServeMux) {
	h := &Handler{now: time.Now}

	mux.HandleFunc("GET /health", h.Check)
}
