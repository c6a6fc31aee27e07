package tensor

import (
	"github.com/span-ml/span/internal/parallel"
)

// matmulMinRowsParallel is the row count below which MatMul stays
// sequential; small products are not worth the goroutine overhead.
const matmulMinRowsParallel = 8

// MatMul performs 2-D matrix multiplication: (M, K) @ (K, N) → (M, N).
//
// Values are computed exactly as a plain matrix product. Bounds are
// computed per output element as the worst-case sum over the contracted
// dimension of the corner-product intervals of each (a[i,k], b[k,j]) pair —
// the contraction couples K bound pairs per output element, so reusing
// element-wise multiply bounds without summing interval endpoints would
// understate the envelope. Provenance per output element is the union over
// the contracted dimension of both operands' tags.
//
// Output rows are computed in parallel; every output element is still a
// single sequential accumulation, so results are bit-identical to a
// sequential reference.
//
// Panics with a *ShapeError if the operands are not 2-D with matching
// contraction dimensions.
func (t *Tensor) MatMul(other *Tensor) *Tensor {
	if len(t.shape) != 2 || len(other.shape) != 2 {
		panic(shapeErrorf("matmul", "only 2D tensors supported, got %dD and %dD", len(t.shape), len(other.shape)))
	}

	m, k := t.shape[0], t.shape[1]
	kAlt, n := other.shape[0], other.shape[1]
	if k != kAlt {
		panic(shapeErrorf("matmul", "shape mismatch [%d,%d] @ [%d,%d]", m, k, kAlt, n))
	}

	out := newUninit(Shape{m, n})

	worker := func(start, end int) {
		for i := start; i < end; i++ {
			for j := 0; j < n; j++ {
				var v, lo, hi float64
				subs := Subjects(nil)
				for kk := 0; kk < k; kk++ {
					ai := i*k + kk
					bi := kk*n + j
					v += t.values[ai] * other.values[bi]
					pl, ph := mulInterval(t.lower[ai], t.upper[ai], other.lower[bi], other.upper[bi])
					lo += pl
					hi += ph
					subs = subs.Union(t.subjects[ai]).Union(other.subjects[bi])
				}
				oi := i*n + j
				out.values[oi] = v
				out.lower[oi] = lo
				out.upper[oi] = hi
				out.subjects[oi] = subs
			}
		}
	}

	if m < matmulMinRowsParallel {
		worker(0, m)
	} else {
		parallel.For(m, matmulMinRowsParallel, worker)
	}

	assertBounds("matmul", out)
	return out
}
