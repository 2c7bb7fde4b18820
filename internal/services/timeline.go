package services

import (
	"courier-route-service/internal/domain"
	"math"
	"strings"
	"time"
)

// DefaultCourierSpeedKmh is used when no positive speed is configured.
const DefaultCourierSpeedKmh = 15.0

const clockLayout = "15:04:05"

// buildTimeline walks a planned route and reports, for every visited node,
// the leg and cumulative length, the travel time at speedKmh, the service
// duration of the pickup or delivery and the cumulative time. The warehouse
// has no service time. Idle couriers get no stops.
//
// The timeline is reporting only; insertion never looks at durations.
func buildTimeline(
	dist DistanceOracle,
	plan plannedRoute,
	points []domain.DeliveryPoint,
	speedKmh float64,
	departure string,
) []domain.RouteStop {
	if len(plan.nodes) <= 2 {
		return nil
	}
	if speedKmh <= 0 {
		speedKmh = DefaultCourierSpeedKmh
	}
	mps := speedKmh / 3.6
	start, hasClock := parseClock(departure)

	stops := make([]domain.RouteStop, len(plan.nodes))
	length, elapsed := 0.0, 0.0
	for i, id := range plan.nodes {
		tag := plan.tags[i]
		st := domain.RouteStop{NodeID: id, Kind: tag.kind, PointIndex: tag.point}

		if i > 0 {
			st.LegLength = dist.Distance(plan.nodes[i-1], id)
			st.TravelSeconds = st.LegLength / mps
		}
		length += st.LegLength
		elapsed += st.TravelSeconds
		st.CumulativeLength = length
		st.ArrivalSeconds = elapsed

		switch tag.kind {
		case domain.StopPickup:
			st.ServiceSeconds = points[tag.point].PickupDuration
		case domain.StopDelivery:
			st.ServiceSeconds = points[tag.point].DeliveryDuration
		}
		elapsed += float64(st.ServiceSeconds)
		st.CumulativeSeconds = elapsed

		if hasClock {
			offset := time.Duration(math.Round(st.ArrivalSeconds)) * time.Second
			st.ArrivalTime = start.Add(offset).Format(clockLayout)
		}
		stops[i] = st
	}

	return stops
}

// parseClock reads departure times written as H:M:S or H:M, zero padded or not.
func parseClock(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{"15:4:5", "15:4"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
