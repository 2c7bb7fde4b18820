package handlers

import (
	"context"
	"courier-route-service/internal/api/dto"
	"courier-route-service/internal/domain"
	"net/http"
	"strings"
)

// RoutePlanner computes courier routes for a delivery request.
type RoutePlanner interface {
	Plan(ctx context.Context, req domain.DeliveryRequest) ([]domain.CourierRoute, error)
}

type TSPHandler struct {
	Planner RoutePlanner
}

// Plan answers /get_tsp. GET with a JSON body is accepted as well as POST.
func (h *TSPHandler) Plan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost && r.Method != http.MethodGet {
		w.Header().Set("Allow", strings.Join([]string{http.MethodGet, http.MethodPost}, ", "))
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.TSPRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	routes, err := h.Planner.Plan(r.Context(), req.ToDomain())
	if err != nil {
		writeRoutingError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.FromCourierRoutes(routes))
}
