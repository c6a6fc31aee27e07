package tensor

import (
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestMatMulValues(t *testing.T) {
	a := boundedTensor(t,
		[]float64{1, 2, 3, 4}, []float64{1, 2, 3, 4}, []float64{1, 2, 3, 4},
		nil, Shape{2, 2})
	b := boundedTensor(t,
		[]float64{5, 6, 7, 8}, []float64{5, 6, 7, 8}, []float64{5, 6, 7, 8},
		nil, Shape{2, 2})

	out := a.MatMul(b)

	want := []float64{19, 22, 43, 50}
	for i, w := range want {
		if out.Values()[i] != w {
			t.Errorf("values[%d] = %g, want %g", i, out.Values()[i], w)
		}
	}
	if !out.IsExact() {
		t.Error("product of exact tensors must be exact")
	}
}

func TestMatMulMatchesGonum(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	m, k, n := 17, 23, 11

	aValues := make([]float64, m*k)
	bValues := make([]float64, k*n)
	for i := range aValues {
		aValues[i] = rng.NormFloat64()
	}
	for i := range bValues {
		bValues[i] = rng.NormFloat64()
	}

	a, err := Exact(aValues, Shape{m, k})
	if err != nil {
		t.Fatal(err)
	}
	b, err := Exact(bValues, Shape{k, n})
	if err != nil {
		t.Fatal(err)
	}

	out := a.MatMul(b)

	var ref mat.Dense
	ref.Mul(mat.NewDense(m, k, aValues), mat.NewDense(k, n, bValues))

	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			got := out.At(i, j)
			want := ref.At(i, j)
			if math.Abs(got-want) > 1e-10*math.Max(1, math.Abs(want)) {
				t.Fatalf("out[%d,%d] = %g, reference %g", i, j, got, want)
			}
		}
	}
}

func TestMatMulBoundsAmplify(t *testing.T) {
	// Two elements each in [-1, 1] contracted together: the output interval
	// must be the sum of per-pair product intervals, [-2, 2] — wider than
	// any single element-wise product interval.
	a := boundedTensor(t,
		[]float64{0.5, -0.5}, []float64{-1, -1}, []float64{1, 1},
		nil, Shape{1, 2})
	b := boundedTensor(t,
		[]float64{0.25, 0.75}, []float64{-1, -1}, []float64{1, 1},
		nil, Shape{2, 1})

	out := a.MatMul(b)

	if got := out.At(0, 0); math.Abs(got-(-0.25)) > 1e-15 {
		t.Errorf("value = %g, want -0.25", got)
	}
	lo, hi := out.BoundsAt(0, 0)
	if lo != -2 || hi != 2 {
		t.Errorf("bounds = [%g, %g], want [-2, 2]", lo, hi)
	}
}

func TestMatMulProvenanceUnion(t *testing.T) {
	a := boundedTensor(t,
		[]float64{1, 1}, []float64{1, 1}, []float64{1, 1},
		[]Subjects{{"alice"}, {"bob"}}, Shape{1, 2})
	b := boundedTensor(t,
		[]float64{1, 1}, []float64{1, 1}, []float64{1, 1},
		[]Subjects{{"carol"}, nil}, Shape{2, 1})

	out := a.MatMul(b)

	want := Subjects{"alice", "bob", "carol"}
	if !out.SubjectsAt(0, 0).Equal(want) {
		t.Errorf("subjects = %v, want %v", out.SubjectsAt(0, 0), want)
	}
}

func TestMatMulLargeParallelSound(t *testing.T) {
	SetDebugBoundsCheck(true)
	defer SetDebugBoundsCheck(false)

	rng := rand.New(rand.NewSource(11))
	m, k, n := 64, 9, 13 // m above the parallel threshold

	aValues := make([]float64, m*k)
	aLower := make([]float64, m*k)
	aUpper := make([]float64, m*k)
	for i := range aValues {
		aValues[i] = rng.Float64()*2 - 1
		aLower[i] = aValues[i] - rng.Float64()
		aUpper[i] = aValues[i] + rng.Float64()
	}
	bValues := make([]float64, k*n)
	for i := range bValues {
		bValues[i] = rng.Float64()*2 - 1
	}

	a := boundedTensor(t, aValues, aLower, aUpper, nil, Shape{m, k})
	b, err := Exact(bValues, Shape{k, n})
	if err != nil {
		t.Fatal(err)
	}

	// The debug check inside MatMul verifies lower ≤ value ≤ upper for
	// every output element.
	out := a.MatMul(b)
	if !out.Shape().Equal(Shape{m, n}) {
		t.Fatalf("shape = %v", out.Shape())
	}
}

func TestMatMulShapeMismatchPanics(t *testing.T) {
	a := Zeros(Shape{2, 3})
	b := Zeros(Shape{4, 5})

	defer func() {
		if _, ok := recover().(*ShapeError); !ok {
			t.Error("expected *ShapeError panic")
		}
	}()
	a.MatMul(b)
}

func TestMatMulRejectsNon2D(t *testing.T) {
	a := Zeros(Shape{2, 3, 4})
	b := Zeros(Shape{4, 5})

	defer func() {
		if _, ok := recover().(*ShapeError); !ok {
			t.Error("expected *ShapeError panic")
		}
	}()
	a.MatMul(b)
}
