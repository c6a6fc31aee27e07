// Package patch implements the im2col / col2im transforms on bounded
// tensors.
//
// Im2col flattens convolution receptive fields into the columns of a
// matrix so that a convolution becomes a single matrix multiply; Col2im is
// its adjoint, scattering gradient patches back into image shape while
// summing overlapping contributions. Both transforms move the value, bound
// and provenance planes together.
package patch

import (
	"github.com/span-ml/span/internal/tensor"
)

// OutputDims returns the spatial output size of a convolution:
//
//	out = (in + 2·padding − kernel) / stride + 1
//
// This is the single shared implementation of the formula; the convolution
// layer derives its output shape through it as well, so the two can never
// diverge.
func OutputDims(h, w, kh, kw, padding, stride int) (outH, outW int) {
	outH = (h+2*padding-kh)/stride + 1
	outW = (w+2*padding-kw)/stride + 1
	return outH, outW
}

// Im2col extracts receptive-field patches from a batched image tensor.
//
// Input shape: (N, C, H, W). Output shape: (C·kh·kw, N·outH·outW), where
// column m = (i·outW + j)·N + n holds the flattened patch read at spatial
// position (i, j) of batch item n, and row r = c·kh·kw + ki·kw + kj
// corresponds to one (channel, kernel-row, kernel-col) triple.
//
// Zero padding is applied conceptually before extraction: synthetic padding
// cells contribute value 0 with exact bounds [0, 0] and empty provenance —
// they carry no data subject's information.
func Im2col(t *tensor.Tensor, kh, kw, padding, stride int) (*tensor.Tensor, error) {
	shape := t.Shape()
	if len(shape) != 4 {
		return nil, &tensor.ShapeError{Op: "im2col", Detail: "input must be 4D (N,C,H,W)"}
	}
	if kh <= 0 || kw <= 0 || stride <= 0 || padding < 0 {
		return nil, &tensor.ShapeError{Op: "im2col", Detail: "kernel and stride must be positive, padding non-negative"}
	}

	n, c, h, w := shape[0], shape[1], shape[2], shape[3]
	outH, outW := OutputDims(h, w, kh, kw, padding, stride)
	if outH <= 0 || outW <= 0 {
		return nil, &tensor.ShapeError{Op: "im2col", Detail: "kernel larger than padded input"}
	}

	rows := c * kh * kw
	cols := n * outH * outW

	values := make([]float64, rows*cols)
	lower := make([]float64, rows*cols)
	upper := make([]float64, rows*cols)
	subjects := make([]tensor.Subjects, rows*cols)

	inValues := t.Values()
	inLower := t.Lower()
	inUpper := t.Upper()
	inSubjects := t.SubjectPlane()

	for batch := 0; batch < n; batch++ {
		for i := 0; i < outH; i++ {
			for j := 0; j < outW; j++ {
				m := (i*outW+j)*n + batch
				hStart := i*stride - padding
				wStart := j*stride - padding

				for ch := 0; ch < c; ch++ {
					for ki := 0; ki < kh; ki++ {
						for kj := 0; kj < kw; kj++ {
							hh := hStart + ki
							ww := wStart + kj
							r := ch*kh*kw + ki*kw + kj
							out := r*cols + m

							if hh >= 0 && hh < h && ww >= 0 && ww < w {
								in := batch*c*h*w + ch*h*w + hh*w + ww
								values[out] = inValues[in]
								lower[out] = inLower[in]
								upper[out] = inUpper[in]
								subjects[out] = inSubjects[in]
							}
							// Padding cells stay at the zero value with
							// exact [0,0] bounds and empty provenance.
						}
					}
				}
			}
		}
	}

	return tensor.New(values, lower, upper, subjects, tensor.Shape{rows, cols})
}

// Col2im scatters a patch-space matrix back into image shape.
//
// cols must be shaped like an Im2col output, (C·kh·kw, N·outH·outW), here
// holding gradient values. Every image element accumulates — sums, never
// overwrites — the contribution of each patch position that read it during
// extraction; with stride < kernel size neighboring receptive fields
// overlap and this summation is what makes the gradient correct.
// Contributions that land in the padding ring are discarded when the
// accumulator is cropped back to the unpadded shape.
//
// Bound planes accumulate the same way (interval sums stay sound).
// subjects, if non-nil, is the provenance plane of the original cached
// input (length N·C·H·W) and is reattached to the result so the gradient
// carries correct per-element sensitivity tags.
func Col2im(cols *tensor.Tensor, imageShape tensor.Shape, subjects []tensor.Subjects, kh, kw, padding, stride int) (*tensor.Tensor, error) {
	if len(imageShape) != 4 {
		return nil, &tensor.ShapeError{Op: "col2im", Detail: "image shape must be 4D (N,C,H,W)"}
	}
	n, c, h, w := imageShape[0], imageShape[1], imageShape[2], imageShape[3]
	outH, outW := OutputDims(h, w, kh, kw, padding, stride)

	colShape := cols.Shape()
	wantRows := c * kh * kw
	wantCols := n * outH * outW
	if len(colShape) != 2 || colShape[0] != wantRows || colShape[1] != wantCols {
		return nil, &tensor.ShapeError{
			Op:     "col2im",
			Detail: "column matrix shape does not match image/kernel geometry",
		}
	}
	if subjects != nil && len(subjects) != imageShape.NumElements() {
		return nil, &tensor.ShapeError{Op: "col2im", Detail: "provenance plane does not match image shape"}
	}

	hPad := h + 2*padding
	wPad := w + 2*padding
	padValues := make([]float64, n*c*hPad*wPad)
	padLower := make([]float64, n*c*hPad*wPad)
	padUpper := make([]float64, n*c*hPad*wPad)

	colValues := cols.Values()
	colLower := cols.Lower()
	colUpper := cols.Upper()

	for r := 0; r < wantRows; r++ {
		ch := r / (kh * kw)
		ki := (r / kw) % kh
		kj := r % kw

		for m := 0; m < wantCols; m++ {
			p := m / n
			batch := m % n
			i := p / outW
			j := p % outW

			hh := i*stride + ki
			ww := j*stride + kj
			dst := batch*c*hPad*wPad + ch*hPad*wPad + hh*wPad + ww
			src := r*wantCols + m

			padValues[dst] += colValues[src]
			padLower[dst] += colLower[src]
			padUpper[dst] += colUpper[src]
		}
	}

	// Crop the padding ring back off.
	values := make([]float64, imageShape.NumElements())
	lower := make([]float64, imageShape.NumElements())
	upper := make([]float64, imageShape.NumElements())
	for batch := 0; batch < n; batch++ {
		for ch := 0; ch < c; ch++ {
			for hh := 0; hh < h; hh++ {
				for ww := 0; ww < w; ww++ {
					dst := batch*c*h*w + ch*h*w + hh*w + ww
					src := batch*c*hPad*wPad + ch*hPad*wPad + (hh+padding)*wPad + (ww + padding)
					values[dst] = padValues[src]
					lower[dst] = padLower[src]
					upper[dst] = padUpper[src]
				}
			}
		}
	}

	return tensor.New(values, lower, upper, subjects, imageShape)
}
