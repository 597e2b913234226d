// Package libgf learns weighted undirected graphs from observed vertex
// signals.
//
// The central assumption is smoothness: signals produced by a graph vary
// slowly along its edges, so strongly connected vertices carry similar
// values. Given a matrix of signal observations, the smooth-signal learner
// recovers the graph Laplacian that best explains them and realizes it as
// a weighted graph value.
//
// Basic usage:
//
//	learner := libgf.NewSmoothLearner(libgf.DefaultConfig())
//	g, err := learner.Generate(signals)
package libgf

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/mamengcode/libGF/graph"
	"github.com/mamengcode/libGF/laplacian"
)

// ErrNotFitted reports use of a learner accessor before a successful Fit.
var ErrNotFitted = errors.New("libgf: learner has not been fitted")

// Config configures graph learning.
type Config struct {
	// Alpha is the smoothness weight. Larger values demand smoother
	// signals and produce denser graphs.
	// Default: 1.0
	Alpha float64

	// Beta is the Frobenius-norm shrinkage weight. Larger values spread
	// edge weight more evenly across vertex pairs.
	// Default: 0.01
	Beta float64

	// MaxIterations is the outer alternating-minimization budget.
	// Default: 50
	MaxIterations int

	// Tolerance is the convergence threshold on the Frobenius norm of the
	// smoothed-signal update.
	// Default: 1e-4
	Tolerance float64

	// TraceNorm fixes the trace of the learned Laplacian, the scale of the
	// graph. 0 means the number of vertices.
	// Default: 0
	TraceNorm float64

	// Verbose prints one progress line per iteration when no
	// ProgressCallback is installed.
	// Default: false
	Verbose bool

	// ProgressCallback is called after each iteration with (iteration, delta).
	// Default: nil
	ProgressCallback func(iteration int, delta float64)
}

// DefaultConfig returns the default learning configuration.
func DefaultConfig() Config {
	return Config{
		Alpha:         1.0,
		Beta:          0.01,
		MaxIterations: 50,
		Tolerance:     1e-4,
		TraceNorm:     0,
		Verbose:       false,
	}
}

// Generator produces a graph from observed vertex signals. It is the
// seam between graph-construction strategies and their consumers; the
// smooth-signal learner is one implementation.
type Generator interface {
	Generate(signals mat.Matrix) (*graph.Graph, error)
}

// SmoothLearner learns a graph under the assumption that the observed
// signals are smooth on it.
type SmoothLearner struct {
	Config Config

	// Learned state after fitting
	result *laplacian.Result
}

var _ Generator = (*SmoothLearner)(nil)

// NewSmoothLearner creates a learner with the given configuration.
func NewSmoothLearner(config Config) *SmoothLearner {
	return &SmoothLearner{Config: config}
}

// Fit learns a Laplacian from the signal matrix, whose rows are vertices
// and whose columns are independent observations.
func (s *SmoothLearner) Fit(signals mat.Matrix) error {
	cb := s.Config.ProgressCallback
	if cb == nil && s.Config.Verbose {
		cb = func(iteration int, delta float64) {
			fmt.Printf("Iteration %d: delta = %.3e\n", iteration, delta)
		}
	}

	res, err := laplacian.Learn(signals, laplacian.Config{
		Alpha:         s.Config.Alpha,
		Beta:          s.Config.Beta,
		MaxIterations: s.Config.MaxIterations,
		Tolerance:     s.Config.Tolerance,
		Trace:         s.Config.TraceNorm,
		Callback:      cb,
	})
	if err != nil {
		return err
	}
	s.result = res
	return nil
}

// Generate fits the learner to the signals and realizes the learned
// Laplacian as a graph in one call.
func (s *SmoothLearner) Generate(signals mat.Matrix) (*graph.Graph, error) {
	if err := s.Fit(signals); err != nil {
		return nil, err
	}
	return s.Graph()
}

// Graph realizes the learned Laplacian as a weighted graph.
func (s *SmoothLearner) Graph() (*graph.Graph, error) {
	if s.result == nil {
		return nil, ErrNotFitted
	}
	return graph.FromLaplacian(s.result.Laplacian)
}

// Laplacian returns the learned Laplacian, or nil before a successful Fit.
func (s *SmoothLearner) Laplacian() *mat.SymDense {
	if s.result == nil {
		return nil
	}
	return s.result.Laplacian
}

// History returns the Frobenius-norm delta recorded at each completed
// iteration of the last Fit.
func (s *SmoothLearner) History() []float64 {
	if s.result == nil {
		return nil
	}
	return s.result.History
}

// Converged reports whether the last Fit reached its tolerance within the
// iteration budget.
func (s *SmoothLearner) Converged() bool {
	return s.result != nil && s.result.Converged
}
