package services

import (
	"context"
	"courier-route-service/internal/domain"
	"courier-route-service/internal/graph"
	"courier-route-service/internal/platform/obs"
	"courier-route-service/internal/ports"
	"fmt"
	"math"

	log "github.com/sirupsen/logrus"
)

// Tolerance between an assembled route length and the distances used while inserting.
const lengthTolerance = 1e-6

type planOptions struct {
	speedKmh float64
}

// PlanOption tunes PlanCourierRoutes.
type PlanOption func(*planOptions)

// WithCourierSpeed sets the speed used for stop timelines. Values <= 0 keep
// DefaultCourierSpeedKmh.
func WithCourierSpeed(kmh float64) PlanOption {
	return func(o *planOptions) {
		if kmh > 0 {
			o.speedKmh = kmh
		}
	}
}

// PlanCourierRoutes computes one route per courier for a normalized request.
//
// It loads the plan graph, indexes shortest paths from every key node
// (warehouse, pickups, deliveries), assigns the delivery points by greedy
// cheapest insertion and expands each courier's node sequence into street
// segments. Each route also carries a stop timeline built from the request
// durations and departure time; those never influence the assignment.
// Routes are returned in courier order; idle couriers get an empty route.
// No partial result is ever returned.
func PlanCourierRoutes(
	ctx context.Context,
	loader ports.GraphLoader,
	req domain.DeliveryRequest,
	opts ...PlanOption,
) (_ []domain.CourierRoute, err error) {
	defer obs.Time(ctx, "services.PlanCourierRoutes")(&err)

	o := planOptions{speedKmh: DefaultCourierSpeedKmh}
	for _, opt := range opts {
		opt(&o)
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("plan courier routes: %w", err)
	}
	if req.CouriersNumber < 1 {
		return nil, &domain.ValidationError{Field: "couriers_number", Reason: "must be >= 1"}
	}

	g, err := loader.LoadGraph(ctx, req.PlanFile)
	if err != nil {
		return nil, fmt.Errorf("plan courier routes: %w", err)
	}

	keys := req.KeyNodes()
	for _, k := range keys {
		if !g.HasNode(k) {
			log.WithFields(log.Fields{"plan": g.Name, "node": k}).Warn("key node not in plan; treated as unreachable")
		}
	}

	idx := graph.BuildIndex(g, keys)

	plans, err := insertStops(idx, req.WarehouseNodeID, req.CouriersNumber, req.Points)
	if err != nil {
		return nil, fmt.Errorf("plan courier routes: %w", err)
	}

	out := make([]domain.CourierRoute, 0, len(plans))
	for i, plan := range plans {
		nodes := plan.nodes
		cr, err := AssembleRoute(g, idx, i+1, nodes)
		if err != nil {
			log.WithFields(log.Fields{
				"kind":    "internal_consistency",
				"plan":    g.Name,
				"courier": i + 1,
			}).Error(err)
			return nil, fmt.Errorf("plan courier routes: courier %d: %w", i+1, err)
		}

		if want := routeCost(idx, nodes); !math.IsInf(want, 1) && math.Abs(want-cr.TotalLength) > lengthTolerance {
			log.WithFields(log.Fields{
				"kind":      "internal_consistency",
				"plan":      g.Name,
				"courier":   i + 1,
				"assembled": cr.TotalLength,
				"indexed":   want,
			}).Error("assembled length differs from indexed distance")
		}

		cr.Stops = buildTimeline(idx, plan, req.Points, o.speedKmh, req.DepartureTime)
		out = append(out, cr)
	}

	return out, nil
}
