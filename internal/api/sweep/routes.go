package sweep

import "net/http"

// RegisterRoutes registers the sweep route on the mux.
func RegisterRoutes(mux *http.ServeMux, engine Runner) {
	h := &Handler{engine: engine}

	mux.HandleFunc("POST /daily-sweep", h.Run)
}
