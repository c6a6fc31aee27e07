// Copyright 2025 The Span Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/span-ml/span/internal/patch"
	"github.com/span-ml/span/internal/tensor"
)

// Type aliases for the public API.

// Shape represents the dimensions of a tensor.
// Example: Shape{2, 3, 4} is a 3D tensor with dimensions 2×3×4.
type Shape = tensor.Shape

// Tensor is a dense N-dimensional float64 array with per-element value
// bounds and data-subject provenance tags.
type Tensor = tensor.Tensor

// Subjects is the per-element provenance tag set: a sorted, deduplicated
// set of data-subject identifiers.
type Subjects = tensor.Subjects

// ShapeError reports operand shapes that are not broadcast or contraction
// compatible.
type ShapeError = tensor.ShapeError

// BoundsError reports a violated lower ≤ value ≤ upper post-condition,
// detected by the debug bounds check.
type BoundsError = tensor.BoundsError

// Constructors.

// New creates a tensor from explicit value, bound and provenance planes.
func New(values, lower, upper []float64, subjects []Subjects, shape Shape) (*Tensor, error) {
	return tensor.New(values, lower, upper, subjects, shape)
}

// Exact creates a tensor whose bounds coincide with its values and whose
// provenance is empty. This is how known constants enter the bounded
// domain.
func Exact(values []float64, shape Shape) (*Tensor, error) {
	return tensor.Exact(values, shape)
}

// Bounded creates a tensor with uniform scalar bounds on every element
// and, if subject is non-empty, a single data-subject tag throughout. This
// is how raw per-subject input data enters the engine.
func Bounded(values []float64, lo, hi float64, subject string, shape Shape) (*Tensor, error) {
	return tensor.Bounded(values, lo, hi, subject, shape)
}

// Zeros creates an exact all-zero tensor. Panics if the shape is invalid.
func Zeros(shape Shape) *Tensor {
	return tensor.Zeros(shape)
}

// Ones creates an exact all-one tensor. Panics if the shape is invalid.
func Ones(shape Shape) *Tensor {
	return tensor.Ones(shape)
}

// Full creates an exact tensor filled with the given value.
// Panics if the shape is invalid.
func Full(shape Shape, value float64) *Tensor {
	return tensor.Full(shape, value)
}

// Provenance helpers.

// NewSubject mints a fresh, globally unique data-subject identifier.
func NewSubject() string {
	return tensor.NewSubject()
}

// SingleSubject returns a provenance set containing exactly one subject.
func SingleSubject(id string) Subjects {
	return tensor.SingleSubject(id)
}

// BroadcastShapes implements NumPy-style broadcasting rules, returning the
// broadcast result shape.
func BroadcastShapes(a, b Shape) (Shape, bool, error) {
	return tensor.BroadcastShapes(a, b)
}

// Debug bounds checking.

// SetDebugBoundsCheck enables or disables the lower ≤ value ≤ upper
// post-condition check on every operation result.
func SetDebugBoundsCheck(enabled bool) {
	tensor.SetDebugBoundsCheck(enabled)
}

// DebugBoundsCheckEnabled reports whether the invariant check is active.
func DebugBoundsCheckEnabled() bool {
	return tensor.DebugBoundsCheckEnabled()
}

// Patch transforms.

// ConvOutputDims returns the spatial output size of a convolution:
// out = (in + 2·padding − kernel) / stride + 1.
func ConvOutputDims(h, w, kh, kw, padding, stride int) (outH, outW int) {
	return patch.OutputDims(h, w, kh, kw, padding, stride)
}

// Im2col extracts receptive-field patches from a (N, C, H, W) tensor into
// a (C·kh·kw, N·outH·outW) matrix, carrying bounds and provenance along.
// Synthetic zero-padding cells are exact zeros with empty provenance.
func Im2col(t *Tensor, kh, kw, padding, stride int) (*Tensor, error) {
	return patch.Im2col(t, kh, kw, padding, stride)
}

// Col2im scatters a patch-space matrix back into image shape, summing
// overlapping contributions. subjects, if non-nil, is the provenance plane
// reattached to the result.
func Col2im(cols *Tensor, imageShape Shape, subjects []Subjects, kh, kw, padding, stride int) (*Tensor, error) {
	return patch.Col2im(cols, imageShape, subjects, kh, kw, padding, stride)
}
