// Package tensor implements the bounded-value tensor kernel of the Span
// engine.
//
// A Tensor carries four planes that move in lockstep through every
// operation: the element values, a conservative per-element lower and upper
// bound on those values, and a per-element provenance tag set naming the
// data subjects that influenced each element. Keeping the planes inside one
// value type — rather than as independently mutated fields — makes it
// structurally impossible for an operation to transform values while
// leaving bounds or provenance behind.
package tensor

import (
	"fmt"
	"math"
)

// Tensor is a dense N-dimensional float64 array with per-element value
// bounds and provenance tags.
//
// Invariant: for every tensor produced by a kernel operation,
// lower[i] ≤ values[i] ≤ upper[i] holds element-wise. Externally
// constructed tensors may carry permissive bounds such as ±Inf.
type Tensor struct {
	shape    Shape
	values   []float64
	lower    []float64
	upper    []float64
	subjects []Subjects
}

// New creates a tensor from explicit value, bound and provenance planes.
//
// All three float planes must have exactly shape.NumElements() entries.
// subjects may be nil (no provenance) or must match the element count; tag
// sets are normalized (sorted, deduplicated). All inputs are copied.
//
// New does not reject lower > values or values > upper: callers may inject
// permissive bounds (e.g. -Inf/+Inf). The invariant is only enforced on
// operation results, and only when debug bounds checking is enabled.
func New(values, lower, upper []float64, subjects []Subjects, shape Shape) (*Tensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}
	n := shape.NumElements()
	if len(values) != n {
		return nil, shapeErrorf("new", "shape %v requires %d values, got %d", shape, n, len(values))
	}
	if len(lower) != n || len(upper) != n {
		return nil, shapeErrorf("new", "bound planes must have %d elements, got lower=%d upper=%d",
			n, len(lower), len(upper))
	}
	if subjects != nil && len(subjects) != n {
		return nil, shapeErrorf("new", "provenance plane must have %d elements, got %d", n, len(subjects))
	}

	t := &Tensor{
		shape:    shape.Clone(),
		values:   append([]float64(nil), values...),
		lower:    append([]float64(nil), lower...),
		upper:    append([]float64(nil), upper...),
		subjects: make([]Subjects, n),
	}
	for i := range t.subjects {
		if subjects != nil {
			t.subjects[i] = normalizeSubjects(subjects[i])
		}
	}
	return t, nil
}

// Exact creates a tensor whose bounds coincide with its values and whose
// provenance is empty. This is how known constants — weights, biases —
// enter the bounded domain.
func Exact(values []float64, shape Shape) (*Tensor, error) {
	return New(values, values, values, nil, shape)
}

// Bounded creates a tensor with uniform scalar bounds materialized to every
// element and, if subject is non-empty, a single data-subject tag on every
// element. This mirrors how raw per-subject input data enters the engine:
// the caller declares the analytic value range of the source domain.
func Bounded(values []float64, lo, hi float64, subject string, shape Shape) (*Tensor, error) {
	n := shape.NumElements()
	lower := make([]float64, n)
	upper := make([]float64, n)
	for i := range lower {
		lower[i] = lo
		upper[i] = hi
	}

	var subjects []Subjects
	if subject != "" {
		subjects = make([]Subjects, n)
		for i := range subjects {
			subjects[i] = SingleSubject(subject)
		}
	}
	return New(values, lower, upper, subjects, shape)
}

// Zeros creates an exact all-zero tensor.
// Panics if the shape is invalid.
func Zeros(shape Shape) *Tensor {
	t, err := Exact(make([]float64, shape.NumElements()), shape)
	if err != nil {
		panic(err)
	}
	return t
}

// Ones creates an exact all-one tensor.
// Panics if the shape is invalid.
func Ones(shape Shape) *Tensor {
	return Full(shape, 1)
}

// Full creates an exact tensor filled with the given value.
// Panics if the shape is invalid.
func Full(shape Shape, value float64) *Tensor {
	values := make([]float64, shape.NumElements())
	for i := range values {
		values[i] = value
	}
	t, err := Exact(values, shape)
	if err != nil {
		panic(err)
	}
	return t
}

// newUninit allocates a tensor with zeroed planes and no provenance.
// Internal constructor for operation results; shape is cloned.
func newUninit(shape Shape) *Tensor {
	n := shape.NumElements()
	return &Tensor{
		shape:    shape.Clone(),
		values:   make([]float64, n),
		lower:    make([]float64, n),
		upper:    make([]float64, n),
		subjects: make([]Subjects, n),
	}
}

// Shape returns the tensor's shape.
func (t *Tensor) Shape() Shape {
	return t.shape
}

// NumElements returns the total number of elements.
func (t *Tensor) NumElements() int {
	return t.shape.NumElements()
}

// Values returns the flat value plane in row-major order.
//
// WARNING: the slice aliases the tensor's memory; modifications through it
// bypass bound and provenance tracking. Intended for test setup and for
// read-only consumers such as serialization.
func (t *Tensor) Values() []float64 {
	return t.values
}

// Lower returns the flat lower-bound plane in row-major order.
// The same aliasing warning as Values applies.
func (t *Tensor) Lower() []float64 {
	return t.lower
}

// Upper returns the flat upper-bound plane in row-major order.
// The same aliasing warning as Values applies.
func (t *Tensor) Upper() []float64 {
	return t.upper
}

// SubjectPlane returns the flat per-element provenance plane.
// The same aliasing warning as Values applies.
func (t *Tensor) SubjectPlane() []Subjects {
	return t.subjects
}

// flatIndex converts multi-dimensional indices to a flat offset.
// Panics if the index arity or any coordinate is out of range.
func (t *Tensor) flatIndex(indices []int) int {
	if len(indices) != len(t.shape) {
		panic(shapeErrorf("index", "expected %d indices, got %d", len(t.shape), len(indices)))
	}
	offset := 0
	strides := t.shape.ComputeStrides()
	for i, idx := range indices {
		if idx < 0 || idx >= t.shape[i] {
			panic(shapeErrorf("index", "index %d out of bounds for dimension %d (size %d)", idx, i, t.shape[i]))
		}
		offset += idx * strides[i]
	}
	return offset
}

// At returns the value at the given indices.
func (t *Tensor) At(indices ...int) float64 {
	return t.values[t.flatIndex(indices)]
}

// BoundsAt returns the lower and upper bound at the given indices.
func (t *Tensor) BoundsAt(indices ...int) (lo, hi float64) {
	i := t.flatIndex(indices)
	return t.lower[i], t.upper[i]
}

// SubjectsAt returns the provenance tag set at the given indices.
func (t *Tensor) SubjectsAt(indices ...int) Subjects {
	return t.subjects[t.flatIndex(indices)]
}

// Set overwrites the element at the given indices, keeping the planes
// consistent: the value, its bounds and its provenance are all replaced.
func (t *Tensor) Set(value, lo, hi float64, subjects Subjects, indices ...int) {
	i := t.flatIndex(indices)
	t.values[i] = value
	t.lower[i] = lo
	t.upper[i] = hi
	t.subjects[i] = normalizeSubjects(subjects)
}

// Clone creates a deep copy of the tensor.
func (t *Tensor) Clone() *Tensor {
	return &Tensor{
		shape:    t.shape.Clone(),
		values:   append([]float64(nil), t.values...),
		lower:    append([]float64(nil), t.lower...),
		upper:    append([]float64(nil), t.upper...),
		subjects: cloneSubjectPlane(t.subjects),
	}
}

// IsExact reports whether every element's bounds coincide with its value.
func (t *Tensor) IsExact() bool {
	for i, v := range t.values {
		if t.lower[i] != v || t.upper[i] != v {
			return false
		}
	}
	return true
}

// MaxBoundWidth returns the widest bound interval in the tensor. Useful for
// downstream noise calibration and for tests asserting bound tightness.
func (t *Tensor) MaxBoundWidth() float64 {
	width := 0.0
	for i := range t.values {
		width = math.Max(width, t.upper[i]-t.lower[i])
	}
	return width
}

// String returns a human-readable representation of the tensor.
func (t *Tensor) String() string {
	return fmt.Sprintf("Tensor%v bounded[%g, %g]", t.shape, minSlice(t.lower), maxSlice(t.upper))
}

func minSlice(xs []float64) float64 {
	m := math.Inf(1)
	for _, x := range xs {
		m = math.Min(m, x)
	}
	return m
}

func maxSlice(xs []float64) float64 {
	m := math.Inf(-1)
	for _, x := range xs {
		m = math.Max(m, x)
	}
	return m
}
