package tensor

import (
	"gonum.org/v1/gonum/floats"
)

// Sum reduces the tensor by summing over the given axes (negative axes
// index from the end). With no axes, all elements are summed into a scalar
// tensor.
//
// Bounds sum alongside values — a sum of element lower bounds is a valid
// lower bound on the sum — and the result's bound planes are produced
// directly at the result shape, never reshaped after the fact. Provenance
// of each result element is the union across all elements it absorbed.
//
// Panics with a *ShapeError if an axis is out of range or repeated.
func (t *Tensor) Sum(axes ...int) *Tensor {
	ndim := len(t.shape)

	if len(axes) == 0 {
		out := newUninit(Shape{})
		out.values[0] = floats.Sum(t.values)
		out.lower[0] = floats.Sum(t.lower)
		out.upper[0] = floats.Sum(t.upper)
		subs := Subjects(nil)
		for _, s := range t.subjects {
			subs = subs.Union(s)
		}
		out.subjects[0] = subs
		assertBounds("sum", out)
		return out
	}

	reduced := make([]bool, ndim)
	for _, axis := range axes {
		if axis < 0 {
			axis += ndim
		}
		if axis < 0 || axis >= ndim {
			panic(shapeErrorf("sum", "axis %d out of range for %dD tensor", axis, ndim))
		}
		if reduced[axis] {
			panic(shapeErrorf("sum", "axis %d repeated", axis))
		}
		reduced[axis] = true
	}

	outShape := make(Shape, 0, ndim-len(axes))
	for d, size := range t.shape {
		if !reduced[d] {
			outShape = append(outShape, size)
		}
	}

	out := newUninit(outShape)
	strides := t.shape.ComputeStrides()
	outStrides := outShape.ComputeStrides()

	for i := range t.values {
		// Map the input element to its result slot by dropping reduced axes.
		outIdx := 0
		remaining := i
		outDim := 0
		for d := 0; d < ndim; d++ {
			coord := remaining / strides[d]
			remaining %= strides[d]
			if !reduced[d] {
				outIdx += coord * outStrides[outDim]
				outDim++
			}
		}

		out.values[outIdx] += t.values[i]
		out.lower[outIdx] += t.lower[i]
		out.upper[outIdx] += t.upper[i]
		out.subjects[outIdx] = out.subjects[outIdx].Union(t.subjects[i])
	}

	assertBounds("sum", out)
	return out
}
