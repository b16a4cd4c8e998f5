package health

import (
	"net/http"
	"time"

	"github.com/softvask/followup/internal/api"
)

// Handler answers liveness probes.
type Handler struct {
	now func() time.Time
}

// Response is the health check body.
type Response struct {
	OK      bool   `json:"ok"`
	TimeUTC string `json:"time_utc"`
}

// Check reports that the service is up, with the current UTC time.
func (h *Handler) Check(w http.ResponseWriter, _ *http.Request) {
	api.WriteJSON(w, http.StatusOK, Response{
		OK:      true,
		TimeUTC: h.now().UTC().Format(time.RFC3339),
	})
}
