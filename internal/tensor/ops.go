package tensor

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// intervalOp combines one element pair: values from both operands plus
// their bound intervals, producing the result value and its interval.
// Every element-wise operation is expressed through exactly one intervalOp,
// so no call site can update the value plane without the bound planes.
type intervalOp func(av, alo, ahi, bv, blo, bhi float64) (v, lo, hi float64)

// Add returns the element-wise sum with NumPy-style broadcasting.
// Bounds add; provenance is the element-wise union.
func (t *Tensor) Add(other *Tensor) *Tensor {
	return combine("add", t, other, func(av, alo, ahi, bv, blo, bhi float64) (float64, float64, float64) {
		return av + bv, alo + blo, ahi + bhi
	})
}

// Sub returns the element-wise difference with NumPy-style broadcasting.
// Bounds: [a.lo − b.hi, a.hi − b.lo].
func (t *Tensor) Sub(other *Tensor) *Tensor {
	return combine("sub", t, other, func(av, alo, ahi, bv, blo, bhi float64) (float64, float64, float64) {
		return av - bv, alo - bhi, ahi - blo
	})
}

// Mul returns the element-wise product with NumPy-style broadcasting.
//
// The sign of neither operand is statically known, so the result interval
// must consider all four corner products of the operand intervals.
func (t *Tensor) Mul(other *Tensor) *Tensor {
	return combine("mul", t, other, func(av, alo, ahi, bv, blo, bhi float64) (float64, float64, float64) {
		lo, hi := mulInterval(alo, ahi, blo, bhi)
		return av * bv, lo, hi
	})
}

// AddScalar returns a tensor with the scalar added to every element.
// Bounds shift by the same amount; provenance is unchanged.
func (t *Tensor) AddScalar(s float64) *Tensor {
	out := t.Clone()
	floats.AddConst(s, out.values)
	floats.AddConst(s, out.lower)
	floats.AddConst(s, out.upper)
	assertBounds("add_scalar", out)
	return out
}

// MulScalar returns a tensor with every element multiplied by the scalar.
// A negative scalar flips the bound interval. Bounds go through cornerMul
// so a zero scalar collapses even permissive infinite bounds to [0, 0]
// instead of NaN.
func (t *Tensor) MulScalar(s float64) *Tensor {
	out := t.Clone()
	floats.Scale(s, out.values)
	for i := range out.lower {
		out.lower[i] = cornerMul(s, out.lower[i])
		out.upper[i] = cornerMul(s, out.upper[i])
	}
	if s < 0 {
		out.lower, out.upper = out.upper, out.lower
	}
	assertBounds("mul_scalar", out)
	return out
}

// combine implements broadcasting element-wise combination of two bounded
// tensors: values and bounds through op, provenance by union.
// Panics with a *ShapeError if the shapes are not broadcast compatible.
func combine(opName string, a, b *Tensor, op intervalOp) *Tensor {
	outShape, needsBroadcast, err := BroadcastShapes(a.shape, b.shape)
	if err != nil {
		panic(shapeErrorf(opName, "%v", err))
	}

	out := newUninit(outShape)

	if !needsBroadcast {
		// Fast path: identical layouts, one flat pass.
		for i := range out.values {
			out.values[i], out.lower[i], out.upper[i] = op(
				a.values[i], a.lower[i], a.upper[i],
				b.values[i], b.lower[i], b.upper[i],
			)
			out.subjects[i] = a.subjects[i].Union(b.subjects[i])
		}
		assertBounds(opName, out)
		return out
	}

	outStrides := outShape.ComputeStrides()
	aIndex := broadcastIndexer(a.shape, outShape)
	bIndex := broadcastIndexer(b.shape, outShape)

	coords := make([]int, len(outShape))
	for i := range out.values {
		remaining := i
		for d := range outStrides {
			coords[d] = remaining / outStrides[d]
			remaining %= outStrides[d]
		}
		ai := aIndex(coords)
		bi := bIndex(coords)
		out.values[i], out.lower[i], out.upper[i] = op(
			a.values[ai], a.lower[ai], a.upper[ai],
			b.values[bi], b.lower[bi], b.upper[bi],
		)
		out.subjects[i] = a.subjects[ai].Union(b.subjects[bi])
	}
	assertBounds(opName, out)
	return out
}

// broadcastIndexer returns a function mapping output coordinates to the
// flat index of the operand, collapsing size-1 dimensions to coordinate 0.
func broadcastIndexer(operand, outShape Shape) func(coords []int) int {
	strides := operand.ComputeStrides()
	offset := len(outShape) - len(operand)
	return func(coords []int) int {
		idx := 0
		for i := range operand {
			coord := coords[offset+i]
			if operand[i] == 1 {
				coord = 0
			}
			idx += coord * strides[i]
		}
		return idx
	}
}

// mulInterval returns the product interval of [alo, ahi] × [blo, bhi]
// via the four corner products.
func mulInterval(alo, ahi, blo, bhi float64) (lo, hi float64) {
	c1 := cornerMul(alo, blo)
	c2 := cornerMul(alo, bhi)
	c3 := cornerMul(ahi, blo)
	c4 := cornerMul(ahi, bhi)
	lo = math.Min(math.Min(c1, c2), math.Min(c3, c4))
	hi = math.Max(math.Max(c1, c2), math.Max(c3, c4))
	return lo, hi
}

// cornerMul multiplies interval endpoints, treating 0·±Inf as 0 so that
// permissive infinite bounds remain usable alongside exact zeros.
func cornerMul(x, y float64) float64 {
	if x == 0 || y == 0 {
		return 0
	}
	return x * y
}
