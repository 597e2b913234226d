package libgf

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/mamengcode/libGF/laplacian"
)

// generateClusterSignals builds signal columns that take one value on the
// first half of the vertices and the opposite value on the second half,
// plus a little deterministic noise.
func generateClusterSignals(nVertices, nSignals int, seed int64) *mat.Dense {
	// Simple LCG for reproducibility
	rng := seed
	nextFloat := func() float64 {
		rng = (rng*6364136223846793005 + 1442695040888963407) & 0x7FFFFFFF
		return float64(rng) / float64(0x7FFFFFFF)
	}

	half := nVertices / 2
	data := mat.NewDense(nVertices, nSignals, nil)
	for j := 0; j < nSignals; j++ {
		level := 0.5 + 1.5*nextFloat()
		for i := 0; i < nVertices; i++ {
			v := level
			if i >= half {
				v = -level
			}
			data.Set(i, j, v+0.01*(nextFloat()-0.5))
		}
	}
	return data
}

func TestGenerateSeparatesClusters(t *testing.T) {
	signals := generateClusterSignals(6, 3, 42)

	learner := NewSmoothLearner(DefaultConfig())
	g, err := learner.Generate(signals)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if g.NumVertices() != 6 {
		t.Errorf("Expected 6 vertices, got %d", g.NumVertices())
	}
	if !learner.Converged() {
		t.Errorf("Expected convergence, ran %d iterations", len(learner.History()))
	}

	// Vertices 0-2 and 3-5 carry opposite signals, so no edge may cross
	// the two groups.
	for i := 0; i < 3; i++ {
		for j := 3; j < 6; j++ {
			if w := g.Weight(i, j); w > 1e-6 {
				t.Errorf("Unexpected cross-cluster edge (%d,%d) with weight %v", i, j, w)
			}
		}
	}
	for _, pair := range [][2]int{{0, 1}, {0, 2}, {1, 2}, {3, 4}, {3, 5}, {4, 5}} {
		if w := g.Weight(pair[0], pair[1]); w < 0.3 {
			t.Errorf("Expected strong edge (%d,%d), got weight %v", pair[0], pair[1], w)
		}
	}

	if g.Connected() {
		t.Errorf("Expected two components, got a connected graph")
	}
	t.Logf("Learned %d edges in %d iterations", g.NumEdges(), len(learner.History()))
}

func TestAccessorsBeforeFit(t *testing.T) {
	learner := NewSmoothLearner(DefaultConfig())

	if l := learner.Laplacian(); l != nil {
		t.Errorf("Expected nil Laplacian before Fit, got %v", l)
	}
	if h := learner.History(); h != nil {
		t.Errorf("Expected nil history before Fit, got %v", h)
	}
	if learner.Converged() {
		t.Errorf("Expected Converged to be false before Fit")
	}
	if _, err := learner.Graph(); !errors.Is(err, ErrNotFitted) {
		t.Errorf("Expected ErrNotFitted, got %v", err)
	}
}

func TestFitAccessors(t *testing.T) {
	signals := generateClusterSignals(6, 3, 7)

	calls := 0
	config := DefaultConfig()
	config.ProgressCallback = func(iteration int, delta float64) {
		calls++
		if iteration != calls {
			t.Errorf("Expected iteration %d, got %d", calls, iteration)
		}
	}

	learner := NewSmoothLearner(config)
	if err := learner.Fit(signals); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	l := learner.Laplacian()
	if l == nil {
		t.Fatal("Expected a Laplacian after Fit")
	}
	if n := l.SymmetricDim(); n != 6 {
		t.Errorf("Expected order 6, got %d", n)
	}

	history := learner.History()
	if len(history) == 0 {
		t.Fatal("Expected a non-empty history")
	}
	if calls != len(history) {
		t.Errorf("Expected %d callback calls, got %d", len(history), calls)
	}
	for i, delta := range history {
		if math.IsNaN(delta) || math.IsInf(delta, 0) {
			t.Errorf("Non-finite delta at iteration %d: %v", i+1, delta)
		}
	}
}

func TestSmallDataset(t *testing.T) {
	// Two vertices leave a single feasible Laplacian, whatever the data.
	signals := mat.NewDense(2, 3, []float64{
		1.5, -0.25, 0.75,
		0.5, 2.0, -1.0,
	})

	learner := NewSmoothLearner(DefaultConfig())
	g, err := learner.Generate(signals)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if g.NumEdges() != 1 {
		t.Errorf("Expected 1 edge, got %d", g.NumEdges())
	}
	if w := g.Weight(0, 1); math.Abs(w-1) > 1e-6 {
		t.Errorf("Expected unit edge weight, got %v", w)
	}
}

func TestInvalidConfig(t *testing.T) {
	signals := generateClusterSignals(4, 2, 3)

	config := DefaultConfig()
	config.Alpha = -1

	learner := NewSmoothLearner(config)
	if err := learner.Fit(signals); !errors.Is(err, laplacian.ErrConfig) {
		t.Errorf("Expected a configuration error, got %v", err)
	}
}

func BenchmarkSmoothLearner(b *testing.B) {
	signals := generateClusterSignals(12, 8, 42)

	config := DefaultConfig()
	config.MaxIterations = 10

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		learner := NewSmoothLearner(config)
		if err := learner.Fit(signals); err != nil {
			b.Fatal(err)
		}
	}
}
