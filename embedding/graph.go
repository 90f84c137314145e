// Package embedding learns fixed-length vectors for sensor nodes from a
// weighted proximity graph. The graph is built over a bounded node subset
// from a spatial distance matrix; vectors come from second-order biased
// random walks (node2vec style) fed into a skip-gram trainer with negative
// sampling.
package embedding

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// Graph is an undirected weighted graph over sensor node indices. Vertices
// exist only by virtue of incident edges; a node nothing connects to is not
// part of the graph.
type Graph struct {
	neighbors map[int][]int
	weights   map[int][]float64
	edgeSet   map[[2]int]struct{}
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{
		neighbors: make(map[int][]int),
		weights:   make(map[int][]float64),
		edgeSet:   make(map[[2]int]struct{}),
	}
}

// AddEdge inserts the undirected edge (u,v) with the given weight.
// Self-edges and duplicates are ignored.
func (g *Graph) AddEdge(u, v int, w float64) {
	if u == v {
		return
	}
	if g.HasEdge(u, v) {
		return
	}
	g.neighbors[u] = append(g.neighbors[u], v)
	g.weights[u] = append(g.weights[u], w)
	g.neighbors[v] = append(g.neighbors[v], u)
	g.weights[v] = append(g.weights[v], w)
	g.edgeSet[edgeKey(u, v)] = struct{}{}
}

// HasEdge reports whether u and v are adjacent.
func (g *Graph) HasEdge(u, v int) bool {
	_, ok := g.edgeSet[edgeKey(u, v)]
	return ok
}

// Neighbors returns the adjacency and weight slices for u. Callers must not
// modify them.
func (g *Graph) Neighbors(u int) ([]int, []float64) {
	return g.neighbors[u], g.weights[u]
}

// Vertices returns all vertices in ascending order.
func (g *Graph) Vertices() []int {
	vs := make([]int, 0, len(g.neighbors))
	for v := range g.neighbors {
		vs = append(vs, v)
	}
	sort.Ints(vs)
	return vs
}

// NumVertices returns the number of vertices with at least one edge.
func (g *Graph) NumVertices() int { return len(g.neighbors) }

// NumEdges returns the number of undirected edges.
func (g *Graph) NumEdges() int { return len(g.edgeSet) }

func edgeKey(u, v int) [2]int {
	if u > v {
		u, v = v, u
	}
	return [2]int{u, v}
}

// BuildGraph constructs the proximity graph over the sampled nodes: an edge
// (i,j) exists exactly when the distance matrix entry is finite, weighted by
// that distance. The i == j diagonal is skipped explicitly so a finite (or
// zero) diagonal never turns into a self-loop.
func BuildGraph(dist *mat.Dense, nodes []int) *Graph {
	g := NewGraph()
	for a := 0; a < len(nodes); a++ {
		for b := a + 1; b < len(nodes); b++ {
			i, j := nodes[a], nodes[b]
			if w := dist.At(i, j); !math.IsInf(w, 1) {
				g.AddEdge(i, j, w)
			}
		}
	}
	return g
}
