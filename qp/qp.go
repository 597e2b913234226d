// Package qp solves convex quadratic programs with linear equality and
// inequality constraints:
//
//	minimize    ½·xᵀPx + qᵀx
//	subject to  A·x = b
//	            G·x ≤ h
//
// The solve is delegated to the SLSQP sequential least-squares solver; this
// package only translates the linear-constraint form above into SLSQP's
// evaluation-callback interface. P must be positive semi-definite so that
// the program is convex; that contract is the caller's to uphold.
package qp

import (
	"errors"
	"fmt"

	"github.com/curioloop/optimizer/slsqp"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

var (
	// ErrInfeasible is returned when the solver cannot produce a feasible
	// optimal point. For a well-formed convex program with a non-empty
	// feasible region this indicates a construction bug in the problem data,
	// so callers must treat it as fatal rather than retry.
	ErrInfeasible = errors.New("qp: infeasible or unbounded problem")

	// ErrDimension is returned when the problem terms disagree on the
	// variable count.
	ErrDimension = errors.New("qp: constraint dimensions do not match variable count")
)

// Problem holds the data of a linearly constrained convex QP. A/B and G/H
// may be nil for programs without equality or inequality constraints.
type Problem struct {
	P *mat.SymDense // quadratic term, n×n, positive semi-definite
	Q []float64     // linear term, length n
	A *mat.Dense    // equality constraint rows, m_eq×n
	B []float64     // equality right-hand side, length m_eq
	G *mat.Dense    // inequality constraint rows, m_in×n
	H []float64     // inequality right-hand side, length m_in
}

// Options controls the underlying SLSQP iteration.
type Options struct {
	// Accuracy is the solution accuracy for SLSQP convergence.
	Accuracy float64
	// MaxIterations bounds the SLSQP iteration count.
	MaxIterations int
}

// DefaultOptions returns the default solver options.
func DefaultOptions() Options {
	return Options{
		Accuracy:      1e-8,
		MaxIterations: 100,
	}
}

// Solver is a reusable solver for one problem structure. The evaluation
// callbacks read the Problem's P and q at call time, so a caller may update
// those coefficients in place between Solve calls and reuse the solver as
// long as every dimension stays fixed. A Solver is not safe for concurrent
// use; the SLSQP workspace it holds is single-goroutine state.
type Solver struct {
	n    int
	prob *Problem
	opt  *slsqp.Optimizer
	work *slsqp.Workspace
}

// NewSolver validates the problem dimensions and prepares an SLSQP optimizer
// for it.
func NewSolver(p *Problem, opts Options) (*Solver, error) {
	if p == nil || p.P == nil {
		return nil, fmt.Errorf("qp: nil problem: %w", ErrDimension)
	}
	n := p.P.SymmetricDim()
	if n < 1 || len(p.Q) != n {
		return nil, fmt.Errorf("qp: quadratic term is %d×%d but linear term has length %d: %w",
			n, n, len(p.Q), ErrDimension)
	}
	if err := checkConstraint(p.A, p.B, n); err != nil {
		return nil, err
	}
	if err := checkConstraint(p.G, p.H, n); err != nil {
		return nil, err
	}

	if opts.Accuracy <= 0 {
		opts.Accuracy = DefaultOptions().Accuracy
	}
	if opts.MaxIterations < 1 {
		opts.MaxIterations = DefaultOptions().MaxIterations
	}

	s := &Solver{n: n, prob: p}

	sp := slsqp.Problem{
		N:       n,
		Object:  s.objective(),
		EqCons:  s.equalities(),
		NeqCons: s.inequalities(),
		Stop: slsqp.Termination{
			Accuracy:      opts.Accuracy,
			MaxIterations: opts.MaxIterations,
		},
	}
	opt, err := sp.New()
	if err != nil {
		return nil, fmt.Errorf("qp: %w", err)
	}
	s.opt = opt
	s.work = opt.Init()
	return s, nil
}

// Solve runs the optimization from the starting point x0 and returns the
// optimal vector. Any SLSQP status other than success is surfaced as
// ErrInfeasible with the status attached.
func (s *Solver) Solve(x0 []float64) ([]float64, error) {
	if len(x0) != s.n {
		return nil, fmt.Errorf("qp: starting point has length %d, want %d: %w",
			len(x0), s.n, ErrDimension)
	}
	res := s.opt.Fit(x0, s.work)
	if !res.OK {
		return nil, fmt.Errorf("qp: solver stopped with status %v after %d iterations: %w",
			res.Status, res.NumIter, ErrInfeasible)
	}
	return res.X, nil
}

// Solve is a one-shot convenience wrapper around NewSolver and Solver.Solve.
func Solve(p *Problem, x0 []float64, opts Options) ([]float64, error) {
	s, err := NewSolver(p, opts)
	if err != nil {
		return nil, err
	}
	return s.Solve(x0)
}

// objective evaluates f(x) = ½·xᵀPx + qᵀx, writing the gradient Px + q
// into g when the solver asks for it.
func (s *Solver) objective() slsqp.Evaluation {
	return func(x, g []float64) float64 {
		xv := mat.NewVecDense(s.n, x)
		px := mat.NewVecDense(s.n, nil)
		px.MulVec(s.prob.P, xv)
		if g != nil {
			for i := 0; i < s.n; i++ {
				g[i] = px.AtVec(i) + s.prob.Q[i]
			}
		}
		return 0.5*mat.Dot(xv, px) + floats.Dot(s.prob.Q, x)
	}
}

// equalities maps each row r of A·x = b to the SLSQP form c(x) = 0 with
// c(x) = A_r·x - b_r and constant gradient A_r.
func (s *Solver) equalities() []slsqp.Evaluation {
	if s.prob.A == nil {
		return nil
	}
	rows, _ := s.prob.A.Dims()
	cons := make([]slsqp.Evaluation, rows)
	for r := 0; r < rows; r++ {
		row := r
		cons[r] = func(x, g []float64) float64 {
			a := s.prob.A.RawRowView(row)
			if g != nil {
				copy(g, a)
			}
			return floats.Dot(a, x) - s.prob.B[row]
		}
	}
	return cons
}

// inequalities maps each row r of G·x ≤ h to the SLSQP form c(x) ≥ 0 with
// c(x) = h_r - G_r·x and constant gradient -G_r.
func (s *Solver) inequalities() []slsqp.Evaluation {
	if s.prob.G == nil {
		return nil
	}
	rows, _ := s.prob.G.Dims()
	cons := make([]slsqp.Evaluation, rows)
	for r := 0; r < rows; r++ {
		row := r
		cons[r] = func(x, g []float64) float64 {
			c := s.prob.G.RawRowView(row)
			if g != nil {
				for i, v := range c {
					g[i] = -v
				}
			}
			return s.prob.H[row] - floats.Dot(c, x)
		}
	}
	return cons
}

func checkConstraint(m *mat.Dense, rhs []float64, n int) error {
	if m == nil {
		if rhs != nil {
			return fmt.Errorf("qp: right-hand side without constraint matrix: %w", ErrDimension)
		}
		return nil
	}
	rows, cols := m.Dims()
	if cols != n || len(rhs) != rows {
		return fmt.Errorf("qp: constraint block is %d×%d with right-hand side length %d over %d variables: %w",
			rows, cols, len(rhs), n, ErrDimension)
	}
	return nil
}
