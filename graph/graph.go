// Package graph provides an immutable weighted undirected graph value
// realized from a learned Laplacian matrix.
package graph

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
	"gonum.org/v1/gonum/mat"
)

// weightTol bounds how far above zero an off-diagonal Laplacian entry may
// sit before it stops counting as solver noise and becomes invalid input.
const weightTol = 1e-6

// ErrNotLaplacian reports a matrix whose off-diagonal entries imply
// negative edge weights.
var ErrNotLaplacian = errors.New("graph: matrix is not a valid Laplacian")

// Edge is one weighted undirected edge. I < J always holds.
type Edge struct {
	I, J   int
	Weight float64
}

// Graph is an immutable weighted undirected graph stored as a dense
// adjacency matrix. The zero value is an empty graph; useful values come
// from FromLaplacian.
type Graph struct {
	adj *mat.SymDense
}

// FromLaplacian realizes the graph a Laplacian encodes: the weight of edge
// (i, j) is -l[i,j], and the diagonal is discarded. Off-diagonal entries up
// to weightTol above zero are rounded down to absent edges; anything larger
// reports ErrNotLaplacian.
func FromLaplacian(l mat.Symmetric) (*Graph, error) {
	n := l.SymmetricDim()
	adj := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			w := -l.At(i, j)
			if w < 0 {
				if w < -weightTol {
					return nil, fmt.Errorf("graph: positive off-diagonal %v at (%d,%d): %w", l.At(i, j), i, j, ErrNotLaplacian)
				}
				w = 0
			}
			adj.SetSym(i, j, w)
		}
	}
	return &Graph{adj: adj}, nil
}

// NumVertices returns the number of vertices.
func (g *Graph) NumVertices() int {
	if g.adj == nil {
		return 0
	}
	return g.adj.SymmetricDim()
}

// NumEdges returns the number of edges with positive weight.
func (g *Graph) NumEdges() int {
	n := g.NumVertices()
	count := 0
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if g.adj.At(i, j) > 0 {
				count++
			}
		}
	}
	return count
}

// Weight returns the weight of edge (i, j), zero when the edge is absent
// or i == j.
func (g *Graph) Weight(i, j int) float64 {
	return g.adj.At(i, j)
}

// Degrees returns the weighted degree of every vertex.
func (g *Graph) Degrees() []float64 {
	n := g.NumVertices()
	deg := make([]float64, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i != j {
				deg[i] += g.adj.At(i, j)
			}
		}
	}
	return deg
}

// Edges returns every edge with positive weight, ordered by (I, J).
func (g *Graph) Edges() []Edge {
	n := g.NumVertices()
	var edges []Edge
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if w := g.adj.At(i, j); w > 0 {
				edges = append(edges, Edge{I: i, J: j, Weight: w})
			}
		}
	}
	return edges
}

// Adjacency returns a copy of the adjacency matrix.
func (g *Graph) Adjacency() *mat.SymDense {
	n := g.NumVertices()
	adj := mat.NewSymDense(n, nil)
	adj.CopySym(g.adj)
	return adj
}

// Laplacian returns the Laplacian D - W of the graph, where D is the
// diagonal degree matrix and W the adjacency matrix.
func (g *Graph) Laplacian() *mat.SymDense {
	n := g.NumVertices()
	deg := g.Degrees()
	l := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		l.SetSym(i, i, deg[i])
		for j := i + 1; j < n; j++ {
			l.SetSym(i, j, -g.adj.At(i, j))
		}
	}
	return l
}

// WeightedUndirected converts the graph to gonum's weighted undirected
// form so it can feed gonum's graph algorithms.
func (g *Graph) WeightedUndirected() *simple.WeightedUndirectedGraph {
	wg := simple.NewWeightedUndirectedGraph(0, 0)
	n := g.NumVertices()
	for i := 0; i < n; i++ {
		wg.AddNode(simple.Node(i))
	}
	for _, e := range g.Edges() {
		wg.SetWeightedEdge(simple.WeightedEdge{
			F: simple.Node(e.I),
			T: simple.Node(e.J),
			W: e.Weight,
		})
	}
	return wg
}

// Connected reports whether every vertex is reachable from every other.
// The empty graph counts as connected.
func (g *Graph) Connected() bool {
	if g.NumVertices() == 0 {
		return true
	}
	return len(topo.ConnectedComponents(g.WeightedUndirected())) == 1
}
