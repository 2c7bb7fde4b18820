package ports

import (
	"context"
	"courier-route-service/internal/domain"
)

// Optional store for computed courier routes, keyed by a request fingerprint.
// Graphs are immutable once named, so a cached answer never goes stale.
type RouteCache interface {
	Get(ctx context.Context, key string) ([]domain.CourierRoute, bool, error)
	Put(ctx context.Context, key string, routes []domain.CourierRoute) error
}
