package laplacian

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Smooth filters the signal matrix x through the graph described by l,
// solving (I + αl)·Y = x. Larger alpha attenuates the high-frequency
// components of x more strongly. The system is symmetric positive definite
// whenever l is positive semi-definite and alpha is positive, so the solve
// uses a Cholesky factorization; a factorization failure reports
// ErrSingular.
func Smooth(l mat.Symmetric, x mat.Matrix, alpha float64) (*mat.Dense, error) {
	n := l.SymmetricDim()
	if xr, _ := x.Dims(); xr != n {
		return nil, fmt.Errorf("laplacian: signal rows %d do not match Laplacian order %d: %w", xr, n, ErrConfig)
	}

	sys := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			v := alpha * l.At(i, j)
			if i == j {
				v++
			}
			sys.SetSym(i, j, v)
		}
	}

	var chol mat.Cholesky
	if ok := chol.Factorize(sys); !ok {
		return nil, fmt.Errorf("laplacian: I + alpha*L is not positive definite: %w", ErrSingular)
	}
	_, k := x.Dims()
	y := mat.NewDense(n, k, nil)
	if err := chol.SolveTo(y, x); err != nil {
		return nil, fmt.Errorf("laplacian: smoothing solve failed: %w", ErrSingular)
	}
	return y, nil
}

// DirichletEnergy evaluates tr(XᵀLX), the graph smoothness of x with
// respect to l. For a valid Laplacian this equals the weighted sum of
// squared signal differences across edges, so smaller is smoother. It
// panics with mat.ErrShape when the row count of x does not match the
// order of l.
func DirichletEnergy(l mat.Symmetric, x mat.Matrix) float64 {
	n := l.SymmetricDim()
	xr, k := x.Dims()
	if xr != n {
		panic(mat.ErrShape)
	}

	var lx mat.Dense
	lx.Mul(l, x)
	energy := 0.0
	for i := 0; i < n; i++ {
		for j := 0; j < k; j++ {
			energy += x.At(i, j) * lx.At(i, j)
		}
	}
	return energy
}
