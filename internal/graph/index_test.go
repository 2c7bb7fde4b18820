package graph

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexTriangleDistancesAndPaths(t *testing.T) {
	g := triangle(t)
	ix := BuildIndex(g, []string{"A", "B", "C"})

	assert.Equal(t, 3, ix.Sources())
	assert.Equal(t, 5.0, ix.Distance("A", "B"))
	assert.Equal(t, 8.0, ix.Distance("A", "C"))
	// C -> B has no direct segment and goes through A.
	assert.Equal(t, 9.0, ix.Distance("C", "B"))

	path, ok := ix.Path("C", "B")
	require.True(t, ok)
	assert.Equal(t, []string{"C", "A", "B"}, path)
}

func TestIndexSelfDistanceIsZero(t *testing.T) {
	g := triangle(t)
	ix := BuildIndex(g, []string{"A", "B", "C"})

	for _, id := range []string{"A", "B", "C"} {
		assert.Equal(t, 0.0, ix.Distance(id, id), id)
		path, ok := ix.Path(id, id)
		require.True(t, ok)
		assert.Equal(t, []string{id}, path)
	}
}

func TestIndexUnreachableIsInfinite(t *testing.T) {
	g := triangle(t)
	g.AddNode(Node{ID: "D"})
	require.NoError(t, g.AddSegment(Segment{Origin: "D", Destination: "A", Length: 1}))

	ix := BuildIndex(g, []string{"A", "D", "ghost"})

	assert.True(t, math.IsInf(ix.Distance("A", "D"), 1))
	_, ok := ix.Path("A", "D")
	assert.False(t, ok)

	assert.Equal(t, 1.0, ix.Distance("D", "A"))
	assert.True(t, math.IsInf(ix.Distance("ghost", "A"), 1))
	assert.True(t, math.IsInf(ix.Distance("A", "ghost"), 1))
	// only key nodes are sources
	assert.True(t, math.IsInf(ix.Distance("B", "C"), 1))
	assert.Equal(t, 2, ix.Sources())
}

func TestIndexPrefersShorterDetour(t *testing.T) {
	g := New("detour.xml")
	for _, id := range []string{"s", "m", "t"} {
		g.AddNode(Node{ID: id})
	}
	require.NoError(t, g.AddSegment(Segment{Origin: "s", Destination: "t", Length: 10}))
	require.NoError(t, g.AddSegment(Segment{Origin: "s", Destination: "m", Length: 2}))
	require.NoError(t, g.AddSegment(Segment{Origin: "m", Destination: "t", Length: 3}))

	ix := BuildIndex(g, []string{"s"})
	assert.Equal(t, 5.0, ix.Distance("s", "t"))
	path, ok := ix.Path("s", "t")
	require.True(t, ok)
	assert.Equal(t, []string{"s", "m", "t"}, path)
}

func TestIndexDistancesNeverNegative(t *testing.T) {
	// A 6x6 grid with one-way streets in both directions of varying weight.
	g := New("grid.xml")
	const n = 6
	id := func(r, c int) string { return fmt.Sprintf("%d-%d", r, c) }
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			g.AddNode(Node{ID: id(r, c)})
		}
	}
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			w := float64((r*7+c*3)%5) + 0.5
			if c+1 < n {
				require.NoError(t, g.AddSegment(Segment{Origin: id(r, c), Destination: id(r, c+1), Length: w}))
				require.NoError(t, g.AddSegment(Segment{Origin: id(r, c+1), Destination: id(r, c), Length: w + 1}))
			}
			if r+1 < n {
				require.NoError(t, g.AddSegment(Segment{Origin: id(r, c), Destination: id(r+1, c), Length: w * 2}))
				require.NoError(t, g.AddSegment(Segment{Origin: id(r+1, c), Destination: id(r, c), Length: 0}))
			}
		}
	}

	keys := []string{id(0, 0), id(3, 2), id(5, 5)}
	ix := BuildIndex(g, keys)

	for _, k := range keys {
		assert.Equal(t, 0.0, ix.Distance(k, k))
		for r := 0; r < n; r++ {
			for c := 0; c < n; c++ {
				d := ix.Distance(k, id(r, c))
				assert.False(t, d < 0, "negative distance %v from %s", d, k)
				assert.False(t, math.IsInf(d, 1), "grid is strongly connected")

				// the reported path length equals the reported distance
				path, ok := ix.Path(k, id(r, c))
				require.True(t, ok)
				sum := 0.0
				for i := 0; i+1 < len(path); i++ {
					s, ok := g.Segment(path[i], path[i+1])
					require.True(t, ok)
					sum += s.Length
				}
				assert.InDelta(t, d, sum, 1e-9)
			}
		}
	}
}
