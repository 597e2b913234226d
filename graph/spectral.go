package graph

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// ErrSpectral reports a failed eigendecomposition.
var ErrSpectral = errors.New("graph: eigendecomposition failed")

// FiedlerValue returns the second-smallest eigenvalue of the graph
// Laplacian, the algebraic connectivity. It is positive exactly when the
// graph is connected, and larger values indicate a harder-to-disconnect
// graph.
func (g *Graph) FiedlerValue() (float64, error) {
	n := g.NumVertices()
	if n < 2 {
		return 0, fmt.Errorf("graph: need at least 2 vertices, got %d: %w", n, ErrSpectral)
	}

	var eig mat.EigenSym
	if ok := eig.Factorize(g.Laplacian(), false); !ok {
		return 0, ErrSpectral
	}
	// Values returns the eigenvalues in ascending order.
	return eig.Values(nil)[1], nil
}
