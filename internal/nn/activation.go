package nn

import (
	"fmt"
	"math"

	"github.com/span-ml/span/internal/tensor"
)

// Activation is the strategy interface a layer applies after its linear
// transform. Implementations propagate bounds conservatively: Forward of a
// monotone non-decreasing function maps the interval endpoints through the
// function; Derivative may widen to a known range of the derivative where
// the exact image is not cheap to bound.
//
// Identity is the explicit stand-in for "no activation" — layers hold an
// Activation unconditionally instead of branching on nil.
type Activation interface {
	// Forward applies the activation element-wise.
	Forward(t *tensor.Tensor) *tensor.Tensor

	// Derivative evaluates the activation's local derivative element-wise
	// at the pre-activation value.
	Derivative(t *tensor.Tensor) *tensor.Tensor

	// Name returns the registry identifier used in serialized layer state.
	Name() string
}

// ActivationByName restores an activation from its serialized identifier.
func ActivationByName(name string) (Activation, error) {
	switch name {
	case "identity", "":
		return Identity{}, nil
	case "relu":
		return ReLU{}, nil
	case "sigmoid":
		return Sigmoid{}, nil
	case "tanh":
		return Tanh{}, nil
	default:
		return nil, &ConfigError{Field: "activation", Detail: fmt.Sprintf("unknown activation %q", name)}
	}
}

// mapBounded applies f to every (value, lower, upper) triple, keeping the
// provenance plane: applying a function to an element does not change whose
// data influenced it.
func mapBounded(t *tensor.Tensor, f func(v, lo, hi float64) (v2, lo2, hi2 float64)) *tensor.Tensor {
	n := t.NumElements()
	values := make([]float64, n)
	lower := make([]float64, n)
	upper := make([]float64, n)

	inValues := t.Values()
	inLower := t.Lower()
	inUpper := t.Upper()
	for i := 0; i < n; i++ {
		values[i], lower[i], upper[i] = f(inValues[i], inLower[i], inUpper[i])
	}

	out, err := tensor.New(values, lower, upper, t.SubjectPlane(), t.Shape())
	if err != nil {
		panic(err) // Shapes are taken from the input; cannot mismatch.
	}
	return out
}

// Identity passes values through unchanged.
type Identity struct{}

// Forward returns the input unchanged.
func (Identity) Forward(t *tensor.Tensor) *tensor.Tensor { return t }

// Derivative returns an exact all-ones tensor.
func (Identity) Derivative(t *tensor.Tensor) *tensor.Tensor {
	return tensor.Ones(t.Shape())
}

// Name returns "identity".
func (Identity) Name() string { return "identity" }

// ReLU is the rectified linear unit, f(x) = max(0, x).
type ReLU struct{}

// Forward applies max(0, x); the function is monotone, so bounds map
// through the endpoints.
func (ReLU) Forward(t *tensor.Tensor) *tensor.Tensor {
	return mapBounded(t, func(v, lo, hi float64) (float64, float64, float64) {
		return math.Max(0, v), math.Max(0, lo), math.Max(0, hi)
	})
}

// Derivative is the unit step. The bound interval tightens per element:
// an input provably positive has derivative exactly 1, provably
// non-positive exactly 0, and [0, 1] where the sign is uncertain.
func (ReLU) Derivative(t *tensor.Tensor) *tensor.Tensor {
	return mapBounded(t, func(v, lo, hi float64) (float64, float64, float64) {
		d := 0.0
		if v > 0 {
			d = 1
		}
		switch {
		case lo > 0:
			return d, 1, 1
		case hi <= 0:
			return d, 0, 0
		default:
			return d, 0, 1
		}
	})
}

// Name returns "relu".
func (ReLU) Name() string { return "relu" }

// Sigmoid is the logistic function, σ(x) = 1 / (1 + exp(−x)).
type Sigmoid struct{}

// Forward applies σ; monotone, bounds map through the endpoints.
func (Sigmoid) Forward(t *tensor.Tensor) *tensor.Tensor {
	return mapBounded(t, func(v, lo, hi float64) (float64, float64, float64) {
		return sigmoid(v), sigmoid(lo), sigmoid(hi)
	})
}

// Derivative is σ(x)(1−σ(x)), which lies in (0, 1/4]; the bound interval
// is the conservative [0, 1/4].
func (Sigmoid) Derivative(t *tensor.Tensor) *tensor.Tensor {
	return mapBounded(t, func(v, _, _ float64) (float64, float64, float64) {
		s := sigmoid(v)
		return s * (1 - s), 0, 0.25
	})
}

// Name returns "sigmoid".
func (Sigmoid) Name() string { return "sigmoid" }

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

// Tanh is the hyperbolic tangent.
type Tanh struct{}

// Forward applies tanh; monotone, bounds map through the endpoints.
func (Tanh) Forward(t *tensor.Tensor) *tensor.Tensor {
	return mapBounded(t, func(v, lo, hi float64) (float64, float64, float64) {
		return math.Tanh(v), math.Tanh(lo), math.Tanh(hi)
	})
}

// Derivative is 1 − tanh²(x), which lies in (0, 1]; the bound interval is
// the conservative [0, 1].
func (Tanh) Derivative(t *tensor.Tensor) *tensor.Tensor {
	return mapBounded(t, func(v, _, _ float64) (float64, float64, float64) {
		th := math.Tanh(v)
		return 1 - th*th, 0, 1
	})
}

// Name returns "tanh".
func (Tanh) Name() string { return "tanh" }
