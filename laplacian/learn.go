// Package laplacian learns a graph Laplacian matrix from observed vertex
// signals under a smoothness prior: neighboring vertices should carry
// similar signal values.
//
// The learning problem is solved by alternating minimization over the
// Laplacian L and a denoised copy Y of the signals X:
//
//	min_{L,Y}  ‖X − Y‖²_F + α·tr(YᵀLY) + β·‖L‖²_F
//
// subject to L being a valid Laplacian with a fixed trace: symmetric, zero
// row sums, non-positive off-diagonal entries. With Y fixed, the L-step is
// a convex QP over the half-vectorization of L, whose feasible set is
// expressed through the constraint matrices built in this package. With L
// fixed, the Y-step has the closed form Y = (I + αL)⁻¹X, a Tikhonov
// low-pass filter on the freshly learned graph. The loop stops when the
// Frobenius norm of the Y update falls below a tolerance or the iteration
// budget runs out; running out of budget returns the current estimate
// rather than an error.
package laplacian

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/mamengcode/libGF/qp"
	"github.com/mamengcode/libGF/vech"
)

var (
	// ErrConfig reports an invalid configuration value or malformed signal
	// matrix. Every such failure is a precondition violation: fail fast, no
	// retry.
	ErrConfig = errors.New("laplacian: invalid configuration")

	// ErrSingular reports that the Y-step system I + αL could not be
	// factorized. The constraint set guarantees L is positive semi-definite,
	// so this cannot occur for α > 0 unless a precondition was violated
	// upstream.
	ErrSingular = errors.New("laplacian: singular system in signal update")
)

// Config configures one learning run. The zero value is not valid; start
// from DefaultConfig.
type Config struct {
	// Alpha weighs the smoothness term tr(YᵀLY). Must be positive.
	Alpha float64

	// Beta weighs the Frobenius shrinkage on L, spreading edge weight
	// instead of concentrating it. Must be non-negative.
	Beta float64

	// MaxIterations bounds the outer alternating loop. Must be at least 1.
	MaxIterations int

	// Tolerance is the convergence threshold on the Frobenius norm of the
	// Y update. Must be positive.
	Tolerance float64

	// Trace fixes tr(L), the scale normalization that rules out the
	// all-zero solution. Zero means the vertex count, the conventional
	// choice.
	Trace float64

	// QP configures the inner SLSQP solves. Zero values select the qp
	// package defaults.
	QP qp.Options

	// Callback, when non-nil, is invoked after each completed iteration
	// with the iteration number (from 1) and its Frobenius delta.
	Callback func(iteration int, delta float64)
}

// DefaultConfig returns the default learning configuration.
func DefaultConfig() Config {
	return Config{
		Alpha:         1,
		Beta:          0.01,
		MaxIterations: 50,
		Tolerance:     1e-4,
	}
}

// Result is the outcome of one learning run.
type Result struct {
	// Laplacian is the learned matrix: symmetric, zero row sums,
	// non-positive off-diagonal entries, trace equal to the configured
	// normalization (all up to solver tolerance).
	Laplacian *mat.SymDense

	// History holds one Frobenius delta per completed iteration, in order.
	History []float64

	// Converged reports whether the final delta fell below the tolerance.
	// An unconverged result is still usable; inspect History to judge it.
	Converged bool

	// Iterations is the number of completed iterations, len(History).
	Iterations int
}

// Learn runs the alternating minimization on the observed signal matrix x,
// whose rows are vertices and columns are independent observations. The
// returned Laplacian is owned by the caller.
func Learn(x mat.Matrix, cfg Config) (*Result, error) {
	if x == nil {
		return nil, fmt.Errorf("laplacian: nil signal matrix: %w", ErrConfig)
	}
	n, k := x.Dims()
	switch {
	case n < 2:
		return nil, fmt.Errorf("laplacian: need at least 2 vertices, got %d: %w", n, ErrConfig)
	case k < 1:
		return nil, fmt.Errorf("laplacian: need at least 1 observation column: %w", ErrConfig)
	case cfg.Alpha <= 0:
		return nil, fmt.Errorf("laplacian: alpha must be positive, got %v: %w", cfg.Alpha, ErrConfig)
	case cfg.Beta < 0:
		return nil, fmt.Errorf("laplacian: beta must be non-negative, got %v: %w", cfg.Beta, ErrConfig)
	case cfg.MaxIterations < 1:
		return nil, fmt.Errorf("laplacian: iteration budget must be at least 1, got %d: %w", cfg.MaxIterations, ErrConfig)
	case cfg.Tolerance <= 0:
		return nil, fmt.Errorf("laplacian: tolerance must be positive, got %v: %w", cfg.Tolerance, ErrConfig)
	case cfg.Trace < 0:
		return nil, fmt.Errorf("laplacian: trace normalization must be non-negative, got %v: %w", cfg.Trace, ErrConfig)
	}
	for i := 0; i < n; i++ {
		for j := 0; j < k; j++ {
			if v := x.At(i, j); math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("laplacian: non-finite signal at (%d,%d): %w", i, j, ErrConfig)
			}
		}
	}

	trace := cfg.Trace
	if trace == 0 {
		trace = float64(n)
	}

	// The constraint structures depend only on n, never on the data, so
	// they are built once and shared by every iteration of the run.
	tl := vech.Len(n)
	dup := vech.Duplication(n)
	dupT := dup.T()

	// Quadratic term P = 2β·DᵀD, so that ½hᵀPh = β·‖D·h‖² = β·‖L‖²_F.
	var dtd mat.Dense
	dtd.Mul(dupT, dup)
	p := mat.NewSymDense(tl, nil)
	for i := 0; i < tl; i++ {
		for j := i; j < tl; j++ {
			p.SetSym(i, j, 2*cfg.Beta*dtd.At(i, j))
		}
	}

	eq, rhs := Equality(n, trace)
	ineq := Inequality(n)
	q := make([]float64, tl)

	solver, err := qp.NewSolver(&qp.Problem{
		P: p,
		Q: q,
		A: eq,
		B: rhs,
		G: ineq,
		H: make([]float64, tl-n),
	}, cfg.QP)
	if err != nil {
		return nil, err
	}

	y := mat.DenseCopyOf(x)
	h := feasibleStart(n, trace)
	history := make([]float64, 0, cfg.MaxIterations)
	converged := false

	var (
		lap  *mat.SymDense
		gram mat.Dense
		diff mat.Dense
	)
	for it := 1; it <= cfg.MaxIterations; it++ {
		// L-step: refresh the linear term q = α·Dᵀvec(YYᵀ), which encodes
		// tr(LYYᵀ) over the reduced variable, and re-solve the QP from the
		// previous solution.
		gram.Mul(y, y.T())
		qv := mat.NewVecDense(tl, q)
		qv.MulVec(dupT, mat.NewVecDense(n*n, vech.Vec(&gram)))
		floats.Scale(cfg.Alpha, q)

		h, err = solver.Solve(h)
		if err != nil {
			return nil, err
		}
		lap, err = vech.Unvech(h)
		if err != nil {
			return nil, err
		}

		// Y-step: closed-form Tikhonov smoothing on the new graph.
		next, err := Smooth(lap, x, cfg.Alpha)
		if err != nil {
			return nil, err
		}

		diff.Sub(next, y)
		delta := mat.Norm(&diff, 2)
		history = append(history, delta)
		if cfg.Callback != nil {
			cfg.Callback(it, delta)
		}
		y = next
		if delta < cfg.Tolerance {
			converged = true
			break
		}
	}

	return &Result{
		Laplacian:  lap,
		History:    history,
		Converged:  converged,
		Iterations: len(history),
	}, nil
}
