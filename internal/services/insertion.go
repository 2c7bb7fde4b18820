package services

import (
	"courier-route-service/internal/domain"
	"errors"
	"math"
	"slices"
)

// DistanceOracle answers shortest distances between route nodes.
// Unreachable pairs report +Inf.
type DistanceOracle interface {
	Distance(from, to string) float64
}

// Marginal costs closer than this are treated as equal.
const tieTolerance = 1e-9

type insertion struct {
	point    int // index into the unassigned slice
	courier  int
	pickup   int // position of the pickup in the route
	delivery int // position of the delivery once the pickup is in place
	cost     float64
}

// InsertAll assigns every delivery point to a courier by repeated cheapest
// insertion and returns one node sequence per courier.
//
// Each route starts as [warehouse, warehouse]. On every round the cheapest
// feasible (point, courier, pickup position, delivery position) combination
// over all unassigned points is applied; decisions are never revisited.
// Candidates are visited in point order, then courier order, then position
// order. A smaller marginal cost replaces the running best; an equal one
// (within tieTolerance) does so only when its courier currently has a shorter
// route, which spreads work over idle couriers. Remaining ties go to the
// first candidate seen, so the result is deterministic for a given input.
//
// The pickup is never placed before the leading warehouse and the delivery
// never after the trailing one. When no feasible candidate is left the whole
// assignment fails with *domain.AssignmentInfeasibleError.
func InsertAll(
	dist DistanceOracle,
	warehouse string,
	couriers int,
	points []domain.DeliveryPoint,
) ([][]string, error) {
	plans, err := insertStops(dist, warehouse, couriers, points)
	if err != nil {
		return nil, err
	}

	routes := make([][]string, len(plans))
	for i, p := range plans {
		routes[i] = p.nodes
	}
	return routes, nil
}

// stopTag records which request point put a node into a route.
type stopTag struct {
	kind  domain.StopKind
	point int // -1 for the warehouse
}

var warehouseTag = stopTag{kind: domain.StopWarehouse, point: -1}

// plannedRoute is a courier's node sequence with one tag per node.
type plannedRoute struct {
	nodes []string
	tags  []stopTag
}

func insertStops(
	dist DistanceOracle,
	warehouse string,
	couriers int,
	points []domain.DeliveryPoint,
) ([]plannedRoute, error) {
	if couriers < 1 {
		return nil, errors.New("insert all: couriers must be >= 1")
	}

	routes := make([][]string, couriers)
	tags := make([][]stopTag, couriers)
	for i := range routes {
		routes[i] = []string{warehouse, warehouse}
		tags[i] = []stopTag{warehouseTag, warehouseTag}
	}

	unassigned := slices.Clone(points)
	pending := make([]int, len(points))
	for i := range pending {
		pending[i] = i
	}

	for len(unassigned) > 0 {
		best, ok := cheapestInsertion(dist, routes, unassigned)
		if !ok {
			return nil, &domain.AssignmentInfeasibleError{Unassigned: unassigned}
		}

		p, c, pi := unassigned[best.point], best.courier, pending[best.point]
		r := slices.Insert(routes[c], best.pickup, p.PickupNodeID)
		routes[c] = slices.Insert(r, best.delivery, p.DeliveryNodeID)
		tg := slices.Insert(tags[c], best.pickup, stopTag{kind: domain.StopPickup, point: pi})
		tags[c] = slices.Insert(tg, best.delivery, stopTag{kind: domain.StopDelivery, point: pi})

		unassigned = slices.Delete(unassigned, best.point, best.point+1)
		pending = slices.Delete(pending, best.point, best.point+1)
	}

	out := make([]plannedRoute, couriers)
	for i := range routes {
		out[i] = plannedRoute{nodes: routes[i], tags: tags[i]}
	}
	return out, nil
}

func cheapestInsertion(dist DistanceOracle, routes [][]string, unassigned []domain.DeliveryPoint) (insertion, bool) {
	loads := make([]float64, len(routes))
	for i, r := range routes {
		loads[i] = routeCost(dist, r)
	}

	best := insertion{cost: math.Inf(1)}
	found := false

	for pi, p := range unassigned {
		for ci, route := range routes {
			n := len(route)
			for pos := 1; pos < n; pos++ {
				for del := pos + 1; del <= n; del++ {
					cost, ok := marginalCost(dist, route, p.PickupNodeID, p.DeliveryNodeID, pos, del)
					if !ok {
						continue
					}

					better := !found || cost < best.cost-tieTolerance
					if !better && math.Abs(cost-best.cost) <= tieTolerance {
						better = loads[ci] < loads[best.courier]
					}
					if better {
						best = insertion{point: pi, courier: ci, pickup: pos, delivery: del, cost: cost}
						found = true
					}
				}
			}
		}
	}

	return best, found
}

// marginalCost is the increase in route distance caused by inserting pickup at
// position pos and then delivery at position del of the grown route. Only the
// replaced edges are subtracted and the new edges added; the result equals the
// difference of the full route sums. ok is false when a new edge is unreachable.
func marginalCost(dist DistanceOracle, route []string, pickup, delivery string, pos, del int) (float64, bool) {
	a, b := route[pos-1], route[pos]

	var added, removed []float64
	if del == pos+1 {
		added = []float64{dist.Distance(a, pickup), dist.Distance(pickup, delivery), dist.Distance(delivery, b)}
		removed = []float64{dist.Distance(a, b)}
	} else {
		// In the grown route the delivery sits between the original
		// route[del-2] and route[del-1].
		c, e := route[del-2], route[del-1]
		added = []float64{
			dist.Distance(a, pickup), dist.Distance(pickup, b),
			dist.Distance(c, delivery), dist.Distance(delivery, e),
		}
		removed = []float64{dist.Distance(a, b), dist.Distance(c, e)}
	}

	cost := 0.0
	for _, d := range added {
		if math.IsInf(d, 1) {
			return 0, false
		}
		cost += d
	}
	for _, d := range removed {
		cost -= d
	}
	return cost, true
}

// routeCost sums the shortest distances between consecutive route nodes.
func routeCost(dist DistanceOracle, route []string) float64 {
	total := 0.0
	for i := 0; i+1 < len(route); i++ {
		total += dist.Distance(route[i], route[i+1])
	}
	return total
}
