// Copyright 2025 The Span Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/span-ml/span/tensor"
)

// TestBoundedPipeline exercises the public surface end to end: tagged
// bounded input, exact weights, patch extraction, contraction, reduction.
func TestBoundedPipeline(t *testing.T) {
	subject := tensor.NewSubject()
	require.NotEmpty(t, subject)

	input, err := tensor.Bounded(
		[]float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9},
		0, 1, subject, tensor.Shape{1, 1, 3, 3})
	require.NoError(t, err)

	cols, err := tensor.Im2col(input, 2, 2, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{4, 4}, cols.Shape())

	weights, err := tensor.Exact([]float64{1, -1, 1, -1}, tensor.Shape{1, 4})
	require.NoError(t, err)

	out := weights.MatMul(cols)
	assert.Equal(t, tensor.Shape{1, 4}, out.Shape())
	assert.True(t, out.SubjectsAt(0, 0).Contains(subject))

	lo, hi := out.BoundsAt(0, 0)
	assert.Equal(t, -2.0, lo, "two −1 taps of a [0,1] input")
	assert.Equal(t, 2.0, hi)

	total := out.Sum()
	assert.Equal(t, tensor.Shape{}, total.Shape())
	assert.True(t, total.SubjectPlane()[0].Contains(subject))
}

func TestConvOutputDims(t *testing.T) {
	outH, outW := tensor.ConvOutputDims(8, 8, 3, 3, 1, 1)
	assert.Equal(t, 8, outH)
	assert.Equal(t, 8, outW)
}

func TestCol2imRoundTrip(t *testing.T) {
	shape := tensor.Shape{1, 1, 4, 4}
	input := tensor.Ones(shape)

	cols, err := tensor.Im2col(input, 1, 1, 0, 1)
	require.NoError(t, err)

	back, err := tensor.Col2im(cols, shape, input.SubjectPlane(), 1, 1, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, input.Values(), back.Values())
}

func TestDebugToggle(t *testing.T) {
	assert.False(t, tensor.DebugBoundsCheckEnabled())
	tensor.SetDebugBoundsCheck(true)
	assert.True(t, tensor.DebugBoundsCheckEnabled())
	tensor.SetDebugBoundsCheck(false)
}
