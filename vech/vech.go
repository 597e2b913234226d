// Package vech provides half-vectorization utilities for symmetric matrices.
//
// The half-vectorization vech(M) of an n×n symmetric matrix is the vector of
// its n(n+1)/2 entries on or below the main diagonal, read column by column
// from the diagonal downward. Because a symmetric matrix is fully determined
// by its lower triangle, vech carries no redundant degrees of freedom, which
// makes it the natural optimization variable for problems over symmetric
// matrices. The duplication matrix connects vech back to the full
// column-stacked vectorization vec.
package vech

import (
	"errors"

	"gonum.org/v1/gonum/mat"
)

// ErrShape is returned when a vector length is not a triangular number
// n(n+1)/2 and therefore cannot be the half-vectorization of any square
// symmetric matrix.
var ErrShape = errors.New("vech: length is not a triangular number")

// Len returns the length n(n+1)/2 of the half-vectorization of an n×n matrix.
func Len(n int) int {
	return n * (n + 1) / 2
}

// Dim returns the matrix dimension n whose half-vectorization has length l,
// or ErrShape if l is not a positive triangular number. The check solves
// n(n+1)/2 = l for n = (-1+√(1+8l))/2 and requires an integer result.
func Dim(l int) (int, error) {
	if l < 1 {
		return 0, ErrShape
	}
	// Integer square root of 1+8l, guarded against float rounding.
	d := 1 + 8*l
	s := isqrt(d)
	if s*s != d || (s-1)%2 != 0 {
		return 0, ErrShape
	}
	return (s - 1) / 2, nil
}

// Index returns the position of the lower-triangle entry (i, j), i ≥ j, of an
// n×n matrix within its half-vectorization. All index arithmetic in this
// module funnels through Index so that the duplication matrix and the
// constraint builders stay mutually consistent.
func Index(n, i, j int) int {
	if j < 0 || i < j || i >= n {
		panic(mat.ErrIndexOutOfRange)
	}
	// Column j starts after the j columns before it, holding n-k entries each.
	return j*n - j*(j-1)/2 + (i - j)
}

// DiagIndices returns the positions of the diagonal entries (r, r) within the
// half-vectorization of an n×n matrix, as a cumulative sum of the shrinking
// column segment lengths.
func DiagIndices(n int) []int {
	idx := make([]int, n)
	for r := 1; r < n; r++ {
		idx[r] = idx[r-1] + n - r + 1
	}
	return idx
}

// Vech returns the half-vectorization of m. Only the lower triangle is read:
// a non-symmetric input silently loses its upper triangle. Vech panics with
// mat.ErrShape if m is not square.
func Vech(m mat.Matrix) []float64 {
	r, c := m.Dims()
	if r != c {
		panic(mat.ErrShape)
	}
	h := make([]float64, Len(r))
	k := 0
	for j := 0; j < r; j++ {
		for i := j; i < r; i++ {
			h[k] = m.At(i, j)
			k++
		}
	}
	return h
}

// Unvech reconstructs the symmetric matrix whose half-vectorization is h.
// The lower triangle is filled from h and mirrored to the upper triangle;
// the diagonal is written exactly once. Returns ErrShape if len(h) is not a
// triangular number.
func Unvech(h []float64) (*mat.SymDense, error) {
	n, err := Dim(len(h))
	if err != nil {
		return nil, err
	}
	s := mat.NewSymDense(n, nil)
	k := 0
	for j := 0; j < n; j++ {
		for i := j; i < n; i++ {
			s.SetSym(i, j, h[k])
			k++
		}
	}
	return s, nil
}

// Vec returns the full column-stacked vectorization of m: entry (i, j) lands
// at position j*rows + i.
func Vec(m mat.Matrix) []float64 {
	r, c := m.Dims()
	v := make([]float64, r*c)
	for j := 0; j < c; j++ {
		for i := 0; i < r; i++ {
			v[j*r+i] = m.At(i, j)
		}
	}
	return v
}

// Duplication returns the n²×n(n+1)/2 duplication matrix D satisfying
// D·vech(M) = vec(M) for every symmetric n×n matrix M. Each linear index
// into vec is reflected to its lower-triangle coordinate and mapped through
// Index, so every row of D holds exactly one 1.
func Duplication(n int) *mat.Dense {
	d := mat.NewDense(n*n, Len(n), nil)
	for l := 0; l < n*n; l++ {
		r, c := l%n, l/n
		i, j := r, c
		if i < j {
			i, j = j, i
		}
		d.Set(l, Index(n, i, j), 1)
	}
	return d
}

// isqrt returns the integer square root of x for x ≥ 0.
func isqrt(x int) int {
	if x < 2 {
		return x
	}
	s := x / 2
	for {
		t := (s + x/s) / 2
		if t >= s {
			return s
		}
		s = t
	}
}
