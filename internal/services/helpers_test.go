package services

import (
	"context"
	"courier-route-service/internal/domain"
	"courier-route-service/internal/graph"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

type edgeSpec struct {
	from, to string
	length   float64
	street   string
}

func buildGraph(t *testing.T, name string, nodes []string, edges []edgeSpec) *graph.Graph {
	t.Helper()

	g := graph.New(name)
	for i, id := range nodes {
		g.AddNode(graph.Node{ID: id, Position: domain.Coordinates{Lat: 45.7 + float64(i)*0.001, Lon: 4.8}})
	}
	for _, e := range edges {
		require.NoError(t, g.AddSegment(graph.Segment{Origin: e.from, Destination: e.to, Length: e.length, StreetName: e.street}))
	}
	return g
}

// triangle: A->B (5, Main St), B->C (3, Oak Ave), C->A (4, Elm Rd).
func triangle(t *testing.T) *graph.Graph {
	return buildGraph(t, "triangle.xml", []string{"A", "B", "C"}, []edgeSpec{
		{"A", "B", 5, "Main St"},
		{"B", "C", 3, "Oak Ave"},
		{"C", "A", 4, "Elm Rd"},
	})
}

// twoLoops: W->P1->D1->W and W->P2->D2->W, every segment of length 1.
func twoLoops(t *testing.T) *graph.Graph {
	return buildGraph(t, "loops.xml", []string{"W", "P1", "D1", "P2", "D2"}, []edgeSpec{
		{"W", "P1", 1, "North 1"}, {"P1", "D1", 1, "North 2"}, {"D1", "W", 1, "North 3"},
		{"W", "P2", 1, "South 1"}, {"P2", "D2", 1, "South 2"}, {"D2", "W", 1, "South 3"},
	})
}

// grid builds an n x n two-way grid; horizontal streets have length 1 and
// vertical ones length 2.
func grid(t *testing.T, n int) *graph.Graph {
	t.Helper()

	id := func(r, c int) string { return fmt.Sprintf("n%d_%d", r, c) }

	var nodes []string
	var edges []edgeSpec
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			nodes = append(nodes, id(r, c))
			if c+1 < n {
				edges = append(edges,
					edgeSpec{id(r, c), id(r, c+1), 1, fmt.Sprintf("Row %d", r)},
					edgeSpec{id(r, c+1), id(r, c), 1, fmt.Sprintf("Row %d", r)})
			}
			if r+1 < n {
				edges = append(edges,
					edgeSpec{id(r, c), id(r+1, c), 2, fmt.Sprintf("Col %d", c)},
					edgeSpec{id(r+1, c), id(r, c), 2, fmt.Sprintf("Col %d", c)})
			}
		}
	}
	return buildGraph(t, "grid.xml", nodes, edges)
}

type staticLoader struct {
	g     *graph.Graph
	err   error
	calls int
}

func (l *staticLoader) LoadGraph(_ context.Context, _ string) (*graph.Graph, error) {
	l.calls++
	if l.err != nil {
		return nil, l.err
	}
	return l.g, nil
}

type tableOracle map[[2]string]float64

func (o tableOracle) Distance(from, to string) float64 {
	if from == to {
		return 0
	}
	return o[[2]string{from, to}]
}
