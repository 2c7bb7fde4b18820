package handlers

import (
	"courier-route-service/internal/domain"
	"courier-route-service/internal/platform/obs"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	log "github.com/sirupsen/logrus"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithFields(log.Fields{
			"req_id": obs.RequestID(r.Context()),
			"method": r.Method,
			"path":   r.URL.Path,
		}).WithError(err).Warn("encode failed")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

// decodeJSON strictly decodes a single JSON object from the request body and
// writes a 400 response when it cannot.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return false
	}
	return true
}

// writeRoutingError maps routing failures to HTTP statuses. Client errors
// echo the error message; everything else is logged and hidden.
func writeRoutingError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		ve *domain.ValidationError
		pe *domain.ParseError
		ie *domain.AssignmentInfeasibleError
		ge *domain.GraphLoadError
	)

	switch {
	case errors.As(err, &ve):
		writeError(w, r, http.StatusBadRequest, ve.Error())
	case errors.Is(err, domain.ErrGraphNotFound):
		msg := "plan file not found"
		if errors.As(err, &ge) {
			msg += ": " + ge.Name
		}
		writeError(w, r, http.StatusNotFound, msg)
	case errors.As(err, &pe):
		writeError(w, r, http.StatusUnprocessableEntity, err.Error())
	case errors.As(err, &ie):
		writeError(w, r, http.StatusUnprocessableEntity, ie.Error())
	default:
		log.WithFields(log.Fields{
			"req_id": obs.RequestID(r.Context()),
			"path":   r.URL.Path,
		}).WithError(err).Error("routing failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}
