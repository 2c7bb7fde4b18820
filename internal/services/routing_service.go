package services

import (
	"context"
	"courier-route-service/internal/domain"
	"courier-route-service/internal/platform/metrics"
	"courier-route-service/internal/platform/obs"
	"courier-route-service/internal/ports"
	"strconv"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// RoutingService wraps PlanCourierRoutes with request normalization, the
// optional route cache and the run history.
type RoutingService struct {
	Graphs      ports.GraphLoader
	Runs        ports.RunRepository // optional
	Cache       ports.RouteCache    // optional
	MaxCouriers int
	DefaultPlan string

	// Speed used for stop timelines.
	CourierSpeedKmh float64

	now func() time.Time
}

func NewRoutingService(graphs ports.GraphLoader, runs ports.RunRepository, cache ports.RouteCache, maxCouriers int, defaultPlan string) *RoutingService {
	return &RoutingService{
		Graphs:          graphs,
		Runs:            runs,
		Cache:           cache,
		MaxCouriers:     maxCouriers,
		DefaultPlan:     defaultPlan,
		CourierSpeedKmh: DefaultCourierSpeedKmh,
		now:             time.Now,
	}
}

// Plan validates req, answers from the route cache when possible and
// otherwise computes the routes. Every outcome is counted and, when a run
// repository is set, recorded. Store failures are logged and never fail
// the request.
func (s *RoutingService) Plan(ctx context.Context, req domain.DeliveryRequest) ([]domain.CourierRoute, error) {
	start := s.clock()

	if req.PlanFile == "" {
		req.PlanFile = s.DefaultPlan
	}
	norm, err := NormalizeRequest(req, s.MaxCouriers)
	if err != nil {
		s.finish(ctx, req, nil, err, start)
		return nil, err
	}

	// Timelines depend on the speed, so it is part of the key.
	key := norm.Fingerprint() + "@" + strconv.FormatFloat(s.CourierSpeedKmh, 'g', -1, 64)
	if s.Cache != nil {
		routes, ok, err := s.Cache.Get(ctx, key)
		if err != nil {
			log.WithError(err).WithField("req_id", obs.RequestID(ctx)).Warn("route cache lookup failed")
		}
		if ok {
			s.finish(ctx, norm, routes, nil, start)
			return routes, nil
		}
	}

	routes, err := PlanCourierRoutes(ctx, s.Graphs, norm, WithCourierSpeed(s.CourierSpeedKmh))
	s.finish(ctx, norm, routes, err, start)
	if err != nil {
		return nil, err
	}

	if s.Cache != nil {
		if err := s.Cache.Put(ctx, key, routes); err != nil {
			log.WithError(err).WithField("req_id", obs.RequestID(ctx)).Warn("route cache store failed")
		}
	}

	return routes, nil
}

// RecentRuns returns the newest runs, or an empty list without a repository.
func (s *RoutingService) RecentRuns(ctx context.Context, limit int) ([]domain.RunRecord, error) {
	if s.Runs == nil {
		return []domain.RunRecord{}, nil
	}
	return s.Runs.ListRuns(ctx, limit)
}

func (s *RoutingService) finish(ctx context.Context, req domain.DeliveryRequest, routes []domain.CourierRoute, err error, start time.Time) {
	elapsed := s.clock().Sub(start)
	status := domain.StatusOf(err)

	metrics.RoutingRuns.WithLabelValues(string(status)).Inc()
	metrics.RoutingDuration.Observe(elapsed.Seconds())

	if s.Runs == nil {
		return
	}

	total := 0.0
	for _, r := range routes {
		total += r.TotalLength
	}

	run := domain.RunRecord{
		ID:              uuid.NewString(),
		PlanFile:        req.PlanFile,
		WarehouseNodeID: req.WarehouseNodeID,
		CouriersNumber:  req.CouriersNumber,
		PointsCount:     len(req.Points),
		TotalLength:     total,
		Status:          status,
		DurationMs:      elapsed.Milliseconds(),
		CreatedAt:       start.UTC(),
	}
	if err := s.Runs.SaveRun(ctx, run); err != nil {
		log.WithError(err).WithFields(log.Fields{"req_id": obs.RequestID(ctx), "run_id": run.ID}).Warn("save run failed")
	}
}

func (s *RoutingService) clock() time.Time {
	if s.now == nil {
		return time.Now()
	}
	return s.now()
}
