// Package graph holds the directed road network of a plan and the
// shortest-path index computed over it for a routing request.
package graph

import (
	"courier-route-service/internal/domain"
	"errors"
	"fmt"
	"math"
)

// Node is a road intersection.
type Node struct {
	ID       string
	Position domain.Coordinates
}

// Segment is a directed street segment between two nodes.
type Segment struct {
	Origin      string
	Destination string
	Length      float64
	StreetName  string
}

type edge struct {
	to     int
	length float64
	street string
}

// Graph is a weighted directed graph with non-negative segment lengths.
//
// Node ids are interned to dense indices in load order. Adjacency lists keep
// the order in which segments were first loaded, so shortest-path runs are
// deterministic. A Graph is built once by a single goroutine and is read-only
// afterwards; concurrent reads are safe.
type Graph struct {
	Name string

	ids   []string
	pos   []domain.Coordinates
	index map[string]int
	adj   [][]edge
	edges int
}

func New(name string) *Graph {
	return &Graph{
		Name:  name,
		index: make(map[string]int),
	}
}

// AddNode registers a node. Re-adding an id replaces its position.
func (g *Graph) AddNode(n Node) {
	if i, ok := g.index[n.ID]; ok {
		g.pos[i] = n.Position
		return
	}
	g.index[n.ID] = len(g.ids)
	g.ids = append(g.ids, n.ID)
	g.pos = append(g.pos, n.Position)
	g.adj = append(g.adj, nil)
}

// AddSegment adds a directed segment between two known nodes.
// A later segment with the same origin and destination replaces the earlier one.
func (g *Graph) AddSegment(s Segment) error {
	from, ok := g.index[s.Origin]
	if !ok {
		return fmt.Errorf("add segment: unknown origin node %q", s.Origin)
	}
	to, ok := g.index[s.Destination]
	if !ok {
		return fmt.Errorf("add segment: unknown destination node %q", s.Destination)
	}
	if math.IsNaN(s.Length) || math.IsInf(s.Length, 0) {
		return errors.New("add segment: length must be finite")
	}
	if s.Length < 0 {
		return fmt.Errorf("add segment: negative length %v", s.Length)
	}

	e := edge{to: to, length: s.Length, street: s.StreetName}
	for i := range g.adj[from] {
		if g.adj[from][i].to == to {
			g.adj[from][i] = e
			return nil
		}
	}
	g.adj[from] = append(g.adj[from], e)
	g.edges++
	return nil
}

func (g *Graph) HasNode(id string) bool {
	_, ok := g.index[id]
	return ok
}

func (g *Graph) Node(id string) (Node, bool) {
	i, ok := g.index[id]
	if !ok {
		return Node{}, false
	}
	return Node{ID: id, Position: g.pos[i]}, true
}

// Segment returns the directed segment from -> to, if any.
func (g *Graph) Segment(from, to string) (Segment, bool) {
	fi, ok := g.index[from]
	if !ok {
		return Segment{}, false
	}
	ti, ok := g.index[to]
	if !ok {
		return Segment{}, false
	}
	for _, e := range g.adj[fi] {
		if e.to == ti {
			return Segment{Origin: from, Destination: to, Length: e.length, StreetName: e.street}, true
		}
	}
	return Segment{}, false
}

func (g *Graph) NodeCount() int { return len(g.ids) }

func (g *Graph) SegmentCount() int { return g.edges }
