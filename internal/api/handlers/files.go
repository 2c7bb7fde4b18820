package handlers

import (
	"bytes"
	"courier-route-service/internal/api/dto"
	"courier-route-service/internal/domain"
	"courier-route-service/internal/platform/obs"
	"courier-route-service/internal/ports"
	"errors"
	"io"
	"net/http"

	log "github.com/sirupsen/logrus"
)

// FileHandler lists and serves the plan and request XML files.
type FileHandler struct {
	Plans    ports.FileCatalog
	Requests ports.FileCatalog
	// ParseRequest turns a request document into a delivery request.
	ParseRequest func(io.Reader) (domain.DeliveryRequest, error)
}

func (h *FileHandler) PlanNames(w http.ResponseWriter, r *http.Request) {
	h.names(w, r, h.Plans)
}

func (h *FileHandler) RequestNames(w http.ResponseWriter, r *http.Request) {
	h.names(w, r, h.Requests)
}

// Plan serves GET /plans/{name}.
func (h *FileHandler) Plan(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, h.Plans, "plan file not found")
}

// Request serves GET /requests/{name}.
func (h *FileHandler) Request(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, h.Requests, "request file not found")
}

// ParsedRequest serves GET /requests/{name}/parsed: the request file as a
// /get_tsp body.
func (h *FileHandler) ParsedRequest(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}

	data, ok := h.read(w, r, h.Requests, "request file not found")
	if !ok {
		return
	}

	req, err := h.ParseRequest(bytes.NewReader(data))
	if err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}

	writeJSON(w, r, http.StatusOK, dto.FromDeliveryRequest(req))
}

func (h *FileHandler) names(w http.ResponseWriter, r *http.Request, c ports.FileCatalog) {
	if !allowGet(w, r) {
		return
	}

	names, err := c.Names()
	if err != nil {
		log.WithField("req_id", obs.RequestID(r.Context())).WithError(err).Error("list files failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, names)
}

func (h *FileHandler) serve(w http.ResponseWriter, r *http.Request, c ports.FileCatalog, notFound string) {
	if !allowGet(w, r) {
		return
	}

	data, ok := h.read(w, r, c, notFound)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (h *FileHandler) read(w http.ResponseWriter, r *http.Request, c ports.FileCatalog, notFound string) ([]byte, bool) {
	data, err := c.ReadFile(r.PathValue("name"))
	switch {
	case errors.Is(err, domain.ErrFileNotFound), errors.Is(err, domain.ErrInvalidFileName):
		writeError(w, r, http.StatusNotFound, notFound)
		return nil, false
	case err != nil:
		log.WithField("req_id", obs.RequestID(r.Context())).WithError(err).Error("read file failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return nil, false
	}
	return data, true
}

func allowGet(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return false
	}
	return true
}
