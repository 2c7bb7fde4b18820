package graph

import (
	"container/heap"
	"math"
)

// Index holds one single-source shortest-path tree per key node of a request.
// It answers distance and node-path queries from any key node to any node of
// the graph. Unreachable pairs have an infinite distance and no path.
type Index struct {
	g     *Graph
	trees map[int]*spTree
}

type spTree struct {
	dist []float64
	prev []int
}

// BuildIndex runs Dijkstra once from every distinct key node present in g.
// Key nodes unknown to the graph are skipped and answer +Inf for every query.
func BuildIndex(g *Graph, keyNodes []string) *Index {
	ix := &Index{g: g, trees: make(map[int]*spTree, len(keyNodes))}
	for _, id := range keyNodes {
		src, ok := g.index[id]
		if !ok {
			continue
		}
		if _, done := ix.trees[src]; done {
			continue
		}
		ix.trees[src] = g.dijkstra(src)
	}
	return ix
}

// Distance returns the shortest distance from a key node to any node.
func (ix *Index) Distance(from, to string) float64 {
	t, dst, ok := ix.lookup(from, to)
	if !ok {
		return math.Inf(1)
	}
	return t.dist[dst]
}

// Path returns the node ids of a shortest path, both ends included.
func (ix *Index) Path(from, to string) ([]string, bool) {
	t, dst, ok := ix.lookup(from, to)
	if !ok || math.IsInf(t.dist[dst], 1) {
		return nil, false
	}

	n := 1
	for v := dst; t.prev[v] >= 0; v = t.prev[v] {
		n++
	}
	path := make([]string, n)
	for v, i := dst, n-1; i >= 0; v, i = t.prev[v], i-1 {
		path[i] = ix.g.ids[v]
	}
	return path, true
}

// Sources returns how many key nodes were indexed.
func (ix *Index) Sources() int { return len(ix.trees) }

func (ix *Index) lookup(from, to string) (*spTree, int, bool) {
	src, ok := ix.g.index[from]
	if !ok {
		return nil, 0, false
	}
	t, ok := ix.trees[src]
	if !ok {
		return nil, 0, false
	}
	dst, ok := ix.g.index[to]
	if !ok {
		return nil, 0, false
	}
	return t, dst, true
}

func (g *Graph) dijkstra(src int) *spTree {
	n := len(g.ids)
	t := &spTree{dist: make([]float64, n), prev: make([]int, n)}
	for i := range t.dist {
		t.dist[i] = math.Inf(1)
		t.prev[i] = -1
	}
	t.dist[src] = 0

	settled := make([]bool, n)
	pq := &distQueue{}
	var seq uint64
	heap.Push(pq, &distItem{node: src, dist: 0, seq: seq})

	for pq.Len() > 0 {
		it := heap.Pop(pq).(*distItem)
		u := it.node
		if settled[u] {
			continue
		}
		settled[u] = true

		for _, e := range g.adj[u] {
			if settled[e.to] {
				continue
			}
			nd := t.dist[u] + e.length
			if nd < t.dist[e.to] {
				t.dist[e.to] = nd
				t.prev[e.to] = u
				seq++
				heap.Push(pq, &distItem{node: e.to, dist: nd, seq: seq})
			}
		}
	}

	return t
}

// Min-heap on tentative distance; equal distances pop in push order.
type distItem struct {
	node int
	dist float64
	seq  uint64
}

type distQueue []*distItem

func (q distQueue) Len() int { return len(q) }

func (q distQueue) Less(i, j int) bool {
	if q[i].dist != q[j].dist {
		return q[i].dist < q[j].dist
	}
	return q[i].seq < q[j].seq
}

func (q distQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *distQueue) Push(x any) { *q = append(*q, x.(*distItem)) }

func (q *distQueue) Pop() any {
	old := *q
	n := len(old)
	it := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return it
}
