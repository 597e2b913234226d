package laplacian

import (
	"gonum.org/v1/gonum/mat"

	"github.com/mamengcode/libGF/vech"
)

// Equality builds the equality-constraint matrix A of shape
// (n+1)×n(n+1)/2 over half-vectorized Laplacian coordinates, together with
// its right-hand side. Rows 0..n-1 encode "row r of L sums to zero": row r
// of L touches the strict lower-triangle segment where r is the larger
// index and the column segment where r is the smaller, and both are located
// through vech.Index so the arithmetic matches the duplication matrix. Row
// n places a 1 at every diagonal position and encodes tr(L) = trace.
func Equality(n int, trace float64) (*mat.Dense, []float64) {
	a := mat.NewDense(n+1, vech.Len(n), nil)
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			i, j := r, c
			if i < j {
				i, j = j, i
			}
			a.Set(r, vech.Index(n, i, j), 1)
		}
	}
	for _, d := range vech.DiagIndices(n) {
		a.Set(n, d, 1)
	}
	rhs := make([]float64, n+1)
	rhs[n] = trace
	return a, rhs
}

// Inequality builds the selection matrix B of shape
// (n(n+1)/2−n)×n(n+1)/2 isolating the off-diagonal half-vectorized
// positions: the identity with its diagonal-position rows dropped, leaving
// exactly one unit row per off-diagonal position. The constraint sense is
// B·h ≤ 0, i.e. every off-diagonal entry of L is non-positive. n must be
// at least 2.
func Inequality(n int) *mat.Dense {
	t := vech.Len(n)
	isDiag := make([]bool, t)
	for _, d := range vech.DiagIndices(n) {
		isDiag[d] = true
	}
	b := mat.NewDense(t-n, t, nil)
	r := 0
	for pos := 0; pos < t; pos++ {
		if isDiag[pos] {
			continue
		}
		b.Set(r, pos, 1)
		r++
	}
	return b
}

// feasibleStart returns the half-vectorization of the complete-graph
// Laplacian scaled to the requested trace, trace/(n-1)·(I − J/n) with J the
// all-ones matrix. It satisfies every constraint strictly on the
// off-diagonal, which makes it a reliable warm start for the first QP
// solve.
func feasibleStart(n int, trace float64) []float64 {
	s := trace / float64(n-1)
	diag := s * (1 - 1/float64(n))
	off := -s / float64(n)
	h := make([]float64, vech.Len(n))
	k := 0
	for j := 0; j < n; j++ {
		for i := j; i < n; i++ {
			if i == j {
				h[k] = diag
			} else {
				h[k] = off
			}
			k++
		}
	}
	return h
}
