package tensor

// Reshape returns a tensor with the same elements reinterpreted at a new
// shape. At most one dimension may be -1, in which case it is inferred from
// the element count. All four planes are carried over in flat row-major
// order — values, bounds and provenance can never diverge in shape.
//
// Panics with a *ShapeError if the element count does not match.
func (t *Tensor) Reshape(dims ...int) *Tensor {
	newShape := make(Shape, len(dims))
	copy(newShape, dims)

	inferAt := -1
	known := 1
	for i, dim := range newShape {
		switch {
		case dim == -1:
			if inferAt >= 0 {
				panic(shapeErrorf("reshape", "at most one dimension may be -1, got %v", dims))
			}
			inferAt = i
		case dim <= 0:
			panic(shapeErrorf("reshape", "invalid dimension %d in %v", dim, dims))
		default:
			known *= dim
		}
	}

	n := t.NumElements()
	if inferAt >= 0 {
		if known == 0 || n%known != 0 {
			panic(shapeErrorf("reshape", "cannot infer dimension: %d elements not divisible by %d", n, known))
		}
		newShape[inferAt] = n / known
	} else if known != n {
		panic(shapeErrorf("reshape", "shape %v requires %d elements, tensor has %d", newShape, known, n))
	}

	out := t.Clone()
	out.shape = newShape
	return out
}

// Flatten2D collapses the tensor to a matrix with the given number of rows,
// inferring the column count from the element count.
func (t *Tensor) Flatten2D(rows int) *Tensor {
	return t.Reshape(rows, -1)
}

// Transpose permutes the tensor's axes, applying the identical index
// permutation to values, bounds and provenance. With no arguments the axis
// order is reversed (the matrix transpose for 2-D tensors).
//
// Panics with a *ShapeError if axes is not a permutation of the dimensions.
func (t *Tensor) Transpose(axes ...int) *Tensor {
	ndim := len(t.shape)

	if len(axes) == 0 {
		axes = make([]int, ndim)
		for i := range axes {
			axes[i] = ndim - 1 - i
		}
	}

	if len(axes) != ndim {
		panic(shapeErrorf("transpose", "expected %d axes, got %d", ndim, len(axes)))
	}
	seen := make([]bool, ndim)
	for _, a := range axes {
		if a < 0 || a >= ndim {
			panic(shapeErrorf("transpose", "axis %d out of range for %dD tensor", a, ndim))
		}
		if seen[a] {
			panic(shapeErrorf("transpose", "axis %d repeated in %v", a, axes))
		}
		seen[a] = true
	}

	outShape := make(Shape, ndim)
	for i, a := range axes {
		outShape[i] = t.shape[a]
	}

	out := newUninit(outShape)
	inStrides := t.shape.ComputeStrides()
	outStrides := outShape.ComputeStrides()

	for i := range out.values {
		// out coordinate d corresponds to input axis axes[d].
		inIdx := 0
		remaining := i
		for d := 0; d < ndim; d++ {
			coord := remaining / outStrides[d]
			remaining %= outStrides[d]
			inIdx += coord * inStrides[axes[d]]
		}

		out.values[i] = t.values[inIdx]
		out.lower[i] = t.lower[inIdx]
		out.upper[i] = t.upper[inIdx]
		out.subjects[i] = t.subjects[inIdx].Clone()
	}

	return out
}
