package services

import (
	"courier-route-service/internal/domain"
	"fmt"
	"strings"
)

// NormalizeRequest trims identifiers, fills the default plan and checks the
// request before any routing work. maxCouriers <= 0 disables the upper bound.
func NormalizeRequest(req domain.DeliveryRequest, maxCouriers int) (domain.DeliveryRequest, error) {
	out := req
	out.WarehouseNodeID = strings.TrimSpace(req.WarehouseNodeID)
	if out.WarehouseNodeID == "" {
		return domain.DeliveryRequest{}, &domain.ValidationError{Field: "warehouse_node_id", Reason: "is required"}
	}

	if req.CouriersNumber < 1 {
		return domain.DeliveryRequest{}, &domain.ValidationError{Field: "couriers_number", Reason: "must be >= 1"}
	}
	if maxCouriers > 0 && req.CouriersNumber > maxCouriers {
		return domain.DeliveryRequest{}, &domain.ValidationError{
			Field:  "couriers_number",
			Reason: fmt.Sprintf("must be <= %d", maxCouriers),
		}
	}

	plan := domain.XMLFileName(req.PlanFile)
	if plan == "" {
		plan = domain.DefaultPlanFile
	}
	if strings.ContainsAny(plan, `/\`) || strings.Contains(plan, "..") {
		return domain.DeliveryRequest{}, &domain.ValidationError{Field: "plan_file", Reason: "must be a bare file name"}
	}
	out.PlanFile = plan

	out.DepartureTime = strings.TrimSpace(req.DepartureTime)
	if _, ok := parseClock(out.DepartureTime); out.DepartureTime != "" && !ok {
		return domain.DeliveryRequest{}, &domain.ValidationError{Field: "departure_time", Reason: "must be H:M:S"}
	}

	out.Points = make([]domain.DeliveryPoint, len(req.Points))
	for i, p := range req.Points {
		p.PickupNodeID = strings.TrimSpace(p.PickupNodeID)
		p.DeliveryNodeID = strings.TrimSpace(p.DeliveryNodeID)

		field := fmt.Sprintf("points[%d]", i)
		if p.PickupNodeID == "" {
			return domain.DeliveryRequest{}, &domain.ValidationError{Field: field + ".pickup_node_id", Reason: "is required"}
		}
		if p.DeliveryNodeID == "" {
			return domain.DeliveryRequest{}, &domain.ValidationError{Field: field + ".delivery_node_id", Reason: "is required"}
		}
		if p.PickupDuration < 0 || p.DeliveryDuration < 0 {
			return domain.DeliveryRequest{}, &domain.ValidationError{Field: field, Reason: "durations must be >= 0"}
		}
		out.Points[i] = p
	}

	return out, nil
}
