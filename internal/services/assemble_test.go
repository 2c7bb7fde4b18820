package services

import (
	"courier-route-service/internal/domain"
	"courier-route-service/internal/graph"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedPaths map[[2]string][]string

func (f fixedPaths) Path(from, to string) ([]string, bool) {
	p, ok := f[[2]string{from, to}]
	return p, ok
}

func TestAssembleRouteTriangle(t *testing.T) {
	g := triangle(t)
	idx := graph.BuildIndex(g, []string{"A", "B", "C"})

	cr, err := AssembleRoute(g, idx, 1, []string{"A", "B", "C", "A"})
	require.NoError(t, err)

	assert.Equal(t, 1, cr.CourierID)
	assert.Equal(t, []domain.RouteSegment{
		{OriginID: "A", DestinationID: "B", Length: 5, StreetName: "Main St"},
		{OriginID: "B", DestinationID: "C", Length: 3, StreetName: "Oak Ave"},
		{OriginID: "C", DestinationID: "A", Length: 4, StreetName: "Elm Rd"},
	}, cr.Route)
	assert.Equal(t, 12.0, cr.TotalLength)
}

func TestAssembleRouteExpandsIndirectPairs(t *testing.T) {
	g := triangle(t)
	idx := graph.BuildIndex(g, []string{"A", "C", "B"})

	cr, err := AssembleRoute(g, idx, 2, []string{"A", "C", "B", "A"})
	require.NoError(t, err)

	var streets []string
	sum := 0.0
	for _, s := range cr.Route {
		streets = append(streets, s.StreetName)
		sum += s.Length
	}
	assert.Equal(t, []string{"Main St", "Oak Ave", "Elm Rd", "Main St", "Oak Ave", "Elm Rd"}, streets)
	assert.InDelta(t, sum, cr.TotalLength, 1e-6)
	assert.Equal(t, 24.0, cr.TotalLength)
}

func TestAssembleRouteIdleCourier(t *testing.T) {
	g := triangle(t)

	cr, err := AssembleRoute(g, graph.BuildIndex(g, []string{"A"}), 3, []string{"A", "A"})
	require.NoError(t, err)
	assert.NotNil(t, cr.Route)
	assert.Empty(t, cr.Route)
	assert.Zero(t, cr.TotalLength)
}

func TestAssembleRouteMissingPath(t *testing.T) {
	g := triangle(t)

	_, err := AssembleRoute(g, fixedPaths{}, 1, []string{"A", "B", "A"})

	var ce *domain.InternalConsistencyError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "A", ce.From)
	assert.Equal(t, "B", ce.To)
}

func TestAssembleRouteMissingSegment(t *testing.T) {
	g := triangle(t)
	paths := fixedPaths{{"A", "C"}: {"A", "C"}}

	_, err := AssembleRoute(g, paths, 1, []string{"A", "C"})

	var ce *domain.InternalConsistencyError
	require.True(t, errors.As(err, &ce))
	assert.Contains(t, ce.Reason, "A -> C")
}
