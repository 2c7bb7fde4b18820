package ports

import (
	"context"
	"courier-route-service/internal/graph"
)

// Contract for retrieving a road network by name.
type GraphLoader interface {
	// Return the named graph, loading it on first use. Failures are
	// *domain.GraphLoadError values.
	LoadGraph(ctx context.Context, name string) (*graph.Graph, error)
}
