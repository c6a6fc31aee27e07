// Package nn implements bound-tracking neural network layers for the Span
// engine.
//
// Layers operate on bounded tensors: every forward and backward pass
// propagates value bounds and data-subject provenance alongside the
// numeric result, so downstream privacy accounting can read worst-case
// sensitivity straight off the outputs.
package nn

import (
	"github.com/span-ml/span/internal/tensor"
)

// Layer is the interface all network layers implement.
//
// Lifecycle: a layer is constructed with its configuration, bound to its
// predecessor's output shape with Connect, and then driven through
// repeated Forward/Backward cycles. A layer instance holds exactly one
// in-flight pass's scratch state: Forward caches what Backward consumes,
// so at most one forward/backward pair may be in flight per instance, and
// a single instance must not be called from two passes concurrently.
type Layer interface {
	// Connect binds the layer to its predecessor's output shape (or, for
	// the first layer, its configured input shape) and allocates
	// parameters. Calling Connect again fully resets the layer.
	Connect(prev Layer) error

	// Forward computes the layer output for a rank-validated input and
	// caches the pass state Backward needs.
	Forward(input *tensor.Tensor) (*tensor.Tensor, error)

	// Backward consumes the cached pass state and the output gradient,
	// stores parameter gradients, and returns the input gradient.
	Backward(grad *tensor.Tensor) (*tensor.Tensor, error)

	// OutShape returns the output shape derived at Connect time.
	OutShape() tensor.Shape
}

// Trainable is implemented by layers with parameters. An external
// optimizer reads Params and Grads and writes updated parameters back with
// SetParams; this core performs no updates itself.
type Trainable interface {
	// Params returns the layer's weight and bias tensors.
	Params() (weights, bias *tensor.Tensor)

	// Grads returns the gradients stored by the most recent Backward.
	Grads() (weightGrad, biasGrad *tensor.Tensor)

	// SetParams replaces the layer parameters. Exactly two tensors —
	// weights then bias — must be supplied.
	SetParams(params ...*tensor.Tensor) error
}
