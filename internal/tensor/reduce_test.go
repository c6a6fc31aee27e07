package tensor

import "testing"

func TestSumAll(t *testing.T) {
	a := boundedTensor(t,
		[]float64{1, 2, 3, 4}, []float64{0, 1, 2, 3}, []float64{2, 3, 4, 5},
		[]Subjects{{"alice"}, nil, {"bob"}, {"alice"}}, Shape{2, 2})

	out := a.Sum()

	if !out.Shape().Equal(Shape{}) {
		t.Fatalf("shape = %v, want scalar", out.Shape())
	}
	if out.Values()[0] != 10 {
		t.Errorf("sum = %g, want 10", out.Values()[0])
	}
	if out.Lower()[0] != 6 || out.Upper()[0] != 14 {
		t.Errorf("bounds = [%g, %g], want [6, 14]", out.Lower()[0], out.Upper()[0])
	}
	if !out.SubjectPlane()[0].Equal(Subjects{"alice", "bob"}) {
		t.Errorf("subjects = %v", out.SubjectPlane()[0])
	}
}

func TestSumAxis(t *testing.T) {
	// (2, 3): sum over axis 0 → (3,)
	a := boundedTensor(t,
		[]float64{1, 2, 3, 10, 20, 30},
		[]float64{1, 2, 3, 10, 20, 30},
		[]float64{1, 2, 3, 10, 20, 30},
		[]Subjects{{"alice"}, nil, nil, {"bob"}, nil, nil}, Shape{2, 3})

	out := a.Sum(0)

	if !out.Shape().Equal(Shape{3}) {
		t.Fatalf("shape = %v, want [3]", out.Shape())
	}
	want := []float64{11, 22, 33}
	for i, w := range want {
		if out.At(i) != w {
			t.Errorf("out[%d] = %g, want %g", i, out.At(i), w)
		}
	}
	if !out.SubjectsAt(0).Equal(Subjects{"alice", "bob"}) {
		t.Errorf("subjects[0] = %v", out.SubjectsAt(0))
	}
	if out.SubjectsAt(1) != nil {
		t.Errorf("subjects[1] = %v, want empty", out.SubjectsAt(1))
	}
}

func TestSumMultiAxisNativeBounds(t *testing.T) {
	// (2, 3, 2, 2) summed over axes 0, 2, 3 → (3,); bound planes must come
	// out at the result shape directly.
	n := 24
	values := make([]float64, n)
	lower := make([]float64, n)
	upper := make([]float64, n)
	for i := range values {
		values[i] = 1
		lower[i] = 0.5
		upper[i] = 2
	}
	a := boundedTensor(t, values, lower, upper, nil, Shape{2, 3, 2, 2})

	out := a.Sum(0, 2, 3)

	if !out.Shape().Equal(Shape{3}) {
		t.Fatalf("shape = %v, want [3]", out.Shape())
	}
	for i := 0; i < 3; i++ {
		if out.At(i) != 8 {
			t.Errorf("out[%d] = %g, want 8", i, out.At(i))
		}
		lo, hi := out.BoundsAt(i)
		if lo != 4 || hi != 16 {
			t.Errorf("bounds[%d] = [%g, %g], want [4, 16]", i, lo, hi)
		}
	}
	if len(out.Lower()) != 3 || len(out.Upper()) != 3 {
		t.Error("bound planes not natively shaped")
	}
}

func TestSumNegativeAxis(t *testing.T) {
	a := Ones(Shape{2, 3})
	out := a.Sum(-1)
	if !out.Shape().Equal(Shape{2}) {
		t.Fatalf("shape = %v, want [2]", out.Shape())
	}
	if out.At(0) != 3 {
		t.Errorf("out[0] = %g, want 3", out.At(0))
	}
}

func TestSumInvalidAxisPanics(t *testing.T) {
	defer func() {
		if _, ok := recover().(*ShapeError); !ok {
			t.Error("expected *ShapeError panic")
		}
	}()
	Ones(Shape{2}).Sum(3)
}

func TestSumRepeatedAxisPanics(t *testing.T) {
	defer func() {
		if _, ok := recover().(*ShapeError); !ok {
			t.Error("expected *ShapeError panic")
		}
	}()
	Ones(Shape{2, 2}).Sum(0, 0)
}
