// Copyright 2025 The Span Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/span-ml/span/nn"
	"github.com/span-ml/span/tensor"
)

// TestPublicSurface runs a whole layer lifecycle through the facade:
// construct, connect, forward, backward, save, reload.
func TestPublicSurface(t *testing.T) {
	layer, err := nn.NewConvolution(nn.Config{
		Filters:    2,
		KernelH:    3,
		Padding:    1,
		Activation: nn.ReLU{},
		InputShape: tensor.Shape{1, 1, 6, 6},
	})
	require.NoError(t, err)
	require.NoError(t, layer.Connect(nil))
	assert.Equal(t, tensor.Shape{1, 2, 6, 6}, layer.OutShape())

	subject := tensor.NewSubject()
	values := make([]float64, 36)
	for i := range values {
		values[i] = float64(i) / 36
	}
	input, err := tensor.Bounded(values, 0, 1, subject, tensor.Shape{1, 1, 6, 6})
	require.NoError(t, err)

	out, err := layer.Forward(input)
	require.NoError(t, err)
	assert.True(t, out.SubjectsAt(0, 0, 3, 3).Contains(subject))

	grad, err := layer.Backward(out)
	require.NoError(t, err)
	assert.Equal(t, input.Shape(), grad.Shape())

	var trainable nn.Trainable = layer
	weights, bias := trainable.Params()
	assert.Equal(t, tensor.Shape{2, 1, 3, 3}, weights.Shape())
	assert.Equal(t, tensor.Shape{2}, bias.Shape())

	path := filepath.Join(t.TempDir(), "layer.span")
	require.NoError(t, layer.Save(path))

	restored, err := nn.LoadConvolution(path)
	require.NoError(t, err)

	wantOut, err := layer.Forward(input)
	require.NoError(t, err)
	gotOut, err := restored.Forward(input)
	require.NoError(t, err)
	assert.Equal(t, wantOut.Values(), gotOut.Values())
}
