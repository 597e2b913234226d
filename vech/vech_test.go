package vech

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// randomSym builds a deterministic random symmetric matrix.
func randomSym(n int, rng *rand.Rand) *mat.SymDense {
	s := mat.NewSymDense(n, nil)
	for j := 0; j < n; j++ {
		for i := j; i < n; i++ {
			s.SetSym(i, j, rng.NormFloat64())
		}
	}
	return s
}

func TestLenDim(t *testing.T) {
	for n := 1; n <= 12; n++ {
		l := Len(n)
		require.Equal(t, n*(n+1)/2, l)
		got, err := Dim(l)
		require.NoError(t, err)
		require.Equal(t, n, got)
	}
}

func TestDimRejectsNonTriangular(t *testing.T) {
	for _, l := range []int{-3, 0, 2, 4, 5, 7, 8, 9, 11, 12, 14, 16, 22} {
		_, err := Dim(l)
		require.ErrorIs(t, err, ErrShape, "length %d", l)
	}
}

func TestIndexMatchesColumnOrder(t *testing.T) {
	// Walking the lower triangle column by column must visit positions 0,1,2,...
	for _, n := range []int{1, 2, 3, 4, 7} {
		k := 0
		for j := 0; j < n; j++ {
			for i := j; i < n; i++ {
				require.Equal(t, k, Index(n, i, j), "n=%d (%d,%d)", n, i, j)
				k++
			}
		}
	}
}

func TestIndexPanicsOutOfRange(t *testing.T) {
	require.PanicsWithValue(t, mat.ErrIndexOutOfRange, func() { Index(3, 1, 2) })
	require.PanicsWithValue(t, mat.ErrIndexOutOfRange, func() { Index(3, 3, 0) })
	require.PanicsWithValue(t, mat.ErrIndexOutOfRange, func() { Index(3, 0, -1) })
}

func TestDiagIndices(t *testing.T) {
	require.Equal(t, []int{0, 4, 7, 9}, DiagIndices(4))
	for _, n := range []int{1, 2, 5, 9} {
		idx := DiagIndices(n)
		require.Len(t, idx, n)
		for r, pos := range idx {
			require.Equal(t, Index(n, r, r), pos, "n=%d r=%d", n, r)
		}
	}
}

func TestVechUnvechRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for n := 2; n <= 9; n++ {
		m := randomSym(n, rng)
		h := Vech(m)
		require.Len(t, h, Len(n))

		back, err := Unvech(h)
		require.NoError(t, err)
		require.True(t, mat.Equal(m, back), "round trip failed for n=%d", n)
	}
}

func TestVechReadsLowerTriangleOnly(t *testing.T) {
	// Upper triangle is deliberately inconsistent and must be ignored.
	m := mat.NewDense(3, 3, []float64{
		1, 99, 99,
		4, 2, 99,
		5, 6, 3,
	})
	require.Equal(t, []float64{1, 4, 5, 2, 6, 3}, Vech(m))
}

func TestVechPanicsNonSquare(t *testing.T) {
	m := mat.NewDense(2, 3, nil)
	require.PanicsWithValue(t, mat.ErrShape, func() { Vech(m) })
}

func TestUnvechRejectsBadLength(t *testing.T) {
	_, err := Unvech(make([]float64, 5))
	require.ErrorIs(t, err, ErrShape)
	_, err = Unvech(nil)
	require.ErrorIs(t, err, ErrShape)
}

func TestVecColumnStacking(t *testing.T) {
	m := mat.NewDense(2, 3, []float64{
		1, 2, 3,
		4, 5, 6,
	})
	require.Equal(t, []float64{1, 4, 2, 5, 3, 6}, Vec(m))
}

func TestDuplicationReproducesVec(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	for _, n := range []int{2, 3, 4, 6} {
		m := randomSym(n, rng)
		d := Duplication(n)

		h := mat.NewVecDense(Len(n), Vech(m))
		var full mat.VecDense
		full.MulVec(d, h)

		want := Vec(m)
		for i := 0; i < n*n; i++ {
			require.InDelta(t, want[i], full.AtVec(i), 1e-15, "n=%d i=%d", n, i)
		}
	}
}

func TestDuplicationRowsHaveSingleOne(t *testing.T) {
	for _, n := range []int{2, 3, 5} {
		d := Duplication(n)
		rows, cols := d.Dims()
		require.Equal(t, n*n, rows)
		require.Equal(t, Len(n), cols)
		for i := 0; i < rows; i++ {
			ones := 0
			for j := 0; j < cols; j++ {
				switch d.At(i, j) {
				case 1:
					ones++
				case 0:
				default:
					t.Fatalf("n=%d entry (%d,%d) = %v, want 0 or 1", n, i, j, d.At(i, j))
				}
			}
			require.Equal(t, 1, ones, "n=%d row %d", n, i)
		}
	}
}

func BenchmarkDuplication(b *testing.B) {
	for i := 0; i < b.N; i++ {
		Duplication(30)
	}
}
