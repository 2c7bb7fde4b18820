package handlers

import (
	"context"
	"courier-route-service/internal/api/dto"
	"courier-route-service/internal/domain"
	"courier-route-service/internal/platform/obs"
	"net/http"
	"strconv"

	log "github.com/sirupsen/logrus"
)

const (
	defaultRunsLimit = 20
	maxRunsLimit     = 200
)

type RunLister interface {
	RecentRuns(ctx context.Context, limit int) ([]domain.RunRecord, error)
}

// RunHandler exposes the routing run history.
type RunHandler struct {
	Runs RunLister
}

func (h *RunHandler) List(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}

	limit := defaultRunsLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxRunsLimit {
			writeError(w, r, http.StatusBadRequest, "limit must be between 1 and "+strconv.Itoa(maxRunsLimit))
			return
		}
		limit = n
	}

	runs, err := h.Runs.RecentRuns(r.Context(), limit)
	if err != nil {
		log.WithField("req_id", obs.RequestID(r.Context())).WithError(err).Error("list runs failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.FromRuns(runs))
}
