package handlers

import (
	"net/http"
	"time"
)

type GraphLister interface {
	Names() []string
}

// HealthHandler is a liveness check that also reports the plan graphs
// already loaded.
type HealthHandler struct {
	Graphs  GraphLister
	Started time.Time
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}

	res := map[string]any{
		"status":        "ok",
		"uptime_s":      int64(time.Since(h.Started).Seconds()),
		"loaded_graphs": h.Graphs.Names(),
	}
	writeJSON(w, r, http.StatusOK, res)
}
