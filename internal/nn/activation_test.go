package nn

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/span-ml/span/internal/tensor"
)

func TestActivationByName(t *testing.T) {
	for name, want := range map[string]string{
		"identity": "identity",
		"":         "identity",
		"relu":     "relu",
		"sigmoid":  "sigmoid",
		"tanh":     "tanh",
	} {
		act, err := ActivationByName(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, act.Name())
	}

	_, err := ActivationByName("softplus")
	var cerr *ConfigError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "activation", cerr.Field)
}

func TestIdentity(t *testing.T) {
	in := tensor.Ones(tensor.Shape{2, 2})

	assert.Same(t, in, Identity{}.Forward(in))

	d := Identity{}.Derivative(in)
	assert.Equal(t, 1.0, d.At(1, 1))
	assert.True(t, d.IsExact())
}

func TestReLUForward(t *testing.T) {
	in, err := tensor.New(
		[]float64{-2, 0, 3},
		[]float64{-3, -1, 1},
		[]float64{-1, 1, 4},
		[]tensor.Subjects{{"alice"}, nil, {"bob"}}, tensor.Shape{3})
	require.NoError(t, err)

	out := ReLU{}.Forward(in)

	assert.Equal(t, []float64{0, 0, 3}, out.Values())
	lo, hi := out.BoundsAt(0)
	assert.Equal(t, 0.0, lo)
	assert.Equal(t, 0.0, hi)
	lo, hi = out.BoundsAt(1)
	assert.Equal(t, 0.0, lo)
	assert.Equal(t, 1.0, hi)
	// Applying a function never changes whose data an element carries.
	assert.True(t, out.SubjectsAt(0).Contains("alice"))
}

func TestReLUDerivativeTightensBySign(t *testing.T) {
	in, err := tensor.New(
		[]float64{5, -5, 0.5},
		[]float64{2, -6, -1},
		[]float64{6, -4, 1},
		nil, tensor.Shape{3})
	require.NoError(t, err)

	d := ReLU{}.Derivative(in)

	assert.Equal(t, []float64{1, 0, 1}, d.Values())
	lo, hi := d.BoundsAt(0)
	assert.Equal(t, [2]float64{1, 1}, [2]float64{lo, hi}, "provably positive")
	lo, hi = d.BoundsAt(1)
	assert.Equal(t, [2]float64{0, 0}, [2]float64{lo, hi}, "provably non-positive")
	lo, hi = d.BoundsAt(2)
	assert.Equal(t, [2]float64{0, 1}, [2]float64{lo, hi}, "sign uncertain")
}

func TestSigmoid(t *testing.T) {
	in, err := tensor.New([]float64{0}, []float64{-1}, []float64{1}, nil, tensor.Shape{1})
	require.NoError(t, err)

	out := Sigmoid{}.Forward(in)
	assert.InDelta(t, 0.5, out.At(0), 1e-15)
	lo, hi := out.BoundsAt(0)
	assert.InDelta(t, sigmoid(-1), lo, 1e-15)
	assert.InDelta(t, sigmoid(1), hi, 1e-15)

	d := Sigmoid{}.Derivative(in)
	assert.InDelta(t, 0.25, d.At(0), 1e-15)
	lo, hi = d.BoundsAt(0)
	assert.Equal(t, 0.0, lo)
	assert.Equal(t, 0.25, hi)
}

func TestTanh(t *testing.T) {
	in, err := tensor.New([]float64{1}, []float64{0}, []float64{2}, nil, tensor.Shape{1})
	require.NoError(t, err)

	out := Tanh{}.Forward(in)
	assert.InDelta(t, math.Tanh(1), out.At(0), 1e-15)
	lo, hi := out.BoundsAt(0)
	assert.Equal(t, 0.0, lo)
	assert.InDelta(t, math.Tanh(2), hi, 1e-15)

	d := Tanh{}.Derivative(in)
	assert.InDelta(t, 1-math.Tanh(1)*math.Tanh(1), d.At(0), 1e-15)
	lo, hi = d.BoundsAt(0)
	assert.Equal(t, 0.0, lo)
	assert.Equal(t, 1.0, hi)
}
