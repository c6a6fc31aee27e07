package nn

import (
	"fmt"

	"github.com/span-ml/span/internal/patch"
	"github.com/span-ml/span/internal/tensor"
)

// passState tracks the layer lifecycle: Unconnected → ForwardReady ⇄
// BackwardReady. The explicit state makes "backward before forward" a
// checked error instead of a nil-cache crash.
type passState int

const (
	stateUnconnected passState = iota
	stateForwardReady
	stateBackwardReady
)

// Config holds the construction-time configuration of a Convolution layer.
type Config struct {
	// Filters is the number of output channels.
	Filters int

	// KernelH and KernelW are the kernel dimensions. If KernelW is zero
	// the kernel is square with side KernelH.
	KernelH int
	KernelW int

	// InputShape is the full (batch, channels, height, width) input shape.
	// Required only when the layer has no predecessor to derive it from.
	InputShape tensor.Shape

	// Stride defaults to 1 when zero.
	Stride int

	// Padding is the zero-padding applied to both spatial dimensions.
	Padding int

	// Activation defaults to Identity when nil.
	Activation Activation

	// Init produces the initial weight values; defaults to Xavier.
	Init Initializer
}

// Convolution is a 2-D convolution layer over bounded tensors.
//
// Forward runs im2col + matrix multiply; backward reconstructs the
// gradient and scatters it back with col2im. Weights and biases are owned
// exclusively by the layer; the cached input and patch matrix are valid
// only between a Forward call and the next Backward call on this instance.
// Not safe for concurrent use.
type Convolution struct {
	filters    int
	kernelH    int
	kernelW    int
	stride     int
	padding    int
	activation Activation
	init       Initializer

	configInput tensor.Shape // Explicit input shape from Config, if any.

	state      passState
	inputShape tensor.Shape
	outShape   tensor.Shape

	weights *tensor.Tensor // (filters, channels, kernelH, kernelW)
	bias    *tensor.Tensor // (filters,)

	weightGrad *tensor.Tensor
	biasGrad   *tensor.Tensor

	// Scratch state of the in-flight pass, set by Forward and consumed by
	// Backward.
	lastCols     *tensor.Tensor
	lastPreAct   *tensor.Tensor
	lastSubjects []tensor.Subjects
}

// NewConvolution validates the configuration and returns an unconnected
// layer. A zero KernelW means a square kernel; a zero Stride means 1;
// a nil Activation means Identity; a nil Init means Xavier.
func NewConvolution(cfg Config) (*Convolution, error) {
	if cfg.Filters <= 0 {
		return nil, &ConfigError{Field: "filters", Detail: fmt.Sprintf("must be positive, got %d", cfg.Filters)}
	}
	if cfg.KernelH <= 0 {
		return nil, &ConfigError{Field: "kernel", Detail: fmt.Sprintf("kernel height must be positive, got %d", cfg.KernelH)}
	}
	if cfg.KernelW < 0 {
		return nil, &ConfigError{Field: "kernel", Detail: fmt.Sprintf("kernel width must be non-negative, got %d", cfg.KernelW)}
	}
	if cfg.Stride < 0 {
		return nil, &ConfigError{Field: "stride", Detail: fmt.Sprintf("must be non-negative, got %d", cfg.Stride)}
	}
	if cfg.Padding < 0 {
		return nil, &ConfigError{Field: "padding", Detail: fmt.Sprintf("must be non-negative, got %d", cfg.Padding)}
	}
	if cfg.InputShape != nil {
		if err := cfg.InputShape.Validate(); err != nil {
			return nil, &ConfigError{Field: "input_shape", Detail: err.Error()}
		}
	}

	c := &Convolution{
		filters:    cfg.Filters,
		kernelH:    cfg.KernelH,
		kernelW:    cfg.KernelW,
		stride:     cfg.Stride,
		padding:    cfg.Padding,
		activation: cfg.Activation,
		init:       cfg.Init,
		state:      stateUnconnected,
	}
	if cfg.InputShape != nil {
		c.configInput = cfg.InputShape.Clone()
	}
	if c.kernelW == 0 {
		c.kernelW = c.kernelH
	}
	if c.stride == 0 {
		c.stride = 1
	}
	if c.activation == nil {
		c.activation = Identity{}
	}
	if c.init == nil {
		c.init = Xavier{}
	}
	return c, nil
}

// Connect binds the layer to its predecessor's output shape, or to the
// configured input shape when prev is nil. It derives the output shape,
// allocates Xavier-initialized weights and a zero bias, and zeroes the
// gradients. Connecting an already-connected layer is a full reset.
func (c *Convolution) Connect(prev Layer) error {
	var inputShape tensor.Shape
	if prev != nil {
		inputShape = prev.OutShape()
	} else {
		if c.configInput == nil {
			return &ConfigError{Field: "input_shape", Detail: "required for a layer with no predecessor"}
		}
		inputShape = c.configInput
	}

	if len(inputShape) != 4 {
		return &ConfigError{
			Field:  "input_shape",
			Detail: fmt.Sprintf("must be 4D (batch, channels, height, width), got %v", inputShape),
		}
	}

	batch, channels, height, width := inputShape[0], inputShape[1], inputShape[2], inputShape[3]
	outH, outW := patch.OutputDims(height, width, c.kernelH, c.kernelW, c.padding, c.stride)
	if outH <= 0 || outW <= 0 {
		return &ConfigError{
			Field: "kernel",
			Detail: fmt.Sprintf("kernel %dx%d with padding %d does not fit input %dx%d",
				c.kernelH, c.kernelW, c.padding, height, width),
		}
	}

	c.inputShape = inputShape.Clone()
	c.outShape = tensor.Shape{batch, c.filters, outH, outW}

	weightShape := tensor.Shape{c.filters, channels, c.kernelH, c.kernelW}
	weights, err := tensor.Exact(c.init.Generate(weightShape), weightShape)
	if err != nil {
		return fmt.Errorf("allocating weights: %w", err)
	}
	c.weights = weights
	c.bias = tensor.Zeros(tensor.Shape{c.filters})

	c.weightGrad = tensor.Zeros(weightShape)
	c.biasGrad = tensor.Zeros(tensor.Shape{c.filters})

	c.lastCols = nil
	c.lastPreAct = nil
	c.lastSubjects = nil
	c.state = stateForwardReady
	return nil
}

// OutShape returns the (batch, filters, outH, outW) shape derived at
// Connect time, or nil before Connect.
func (c *Convolution) OutShape() tensor.Shape {
	return c.outShape
}

// InputShape returns the input shape the layer was connected with.
func (c *Convolution) InputShape() tensor.Shape {
	return c.inputShape
}

// Forward computes the convolution output for one bounded input batch.
//
// The input must match the connected input shape; in particular its
// channel count must equal the weights' input-channel axis. The output
// shape always equals OutShape. Forward caches the input provenance and
// patch matrix for the matching Backward call.
func (c *Convolution) Forward(input *tensor.Tensor) (*tensor.Tensor, error) {
	if c.state == stateUnconnected {
		return nil, &StateError{Op: "forward", Detail: "layer is not connected"}
	}

	shape := input.Shape()
	if len(shape) != 4 {
		return nil, &tensor.ShapeError{
			Op:     "conv.forward",
			Detail: fmt.Sprintf("input must be 4D (batch, channels, height, width), got %v", shape),
		}
	}
	if shape[1] != c.inputShape[1] {
		return nil, &tensor.ShapeError{
			Op:     "conv.forward",
			Detail: fmt.Sprintf("input has %d channels, weights expect %d", shape[1], c.inputShape[1]),
		}
	}
	if !shape.Equal(c.inputShape) {
		return nil, &tensor.ShapeError{
			Op:     "conv.forward",
			Detail: fmt.Sprintf("input shape %v does not match connected shape %v", shape, c.inputShape),
		}
	}

	cols, err := patch.Im2col(input, c.kernelH, c.kernelW, c.padding, c.stride)
	if err != nil {
		return nil, fmt.Errorf("extracting patches: %w", err)
	}

	batch := shape[0]
	outH, outW := c.outShape[2], c.outShape[3]

	// (filters, channels·kh·kw) @ (channels·kh·kw, batch·outH·outW),
	// plus the bias broadcast across patch columns. Equivalent to the
	// patchesᵀ·weightsᵀ formulation, transposed up front so the reshape
	// to output layout is a plain buffer reinterpretation.
	wCol := c.weights.Reshape(c.filters, -1)
	preAct := wCol.MatMul(cols).Add(c.bias.Reshape(c.filters, 1))
	preAct = preAct.Reshape(c.filters, outH, outW, batch).Transpose(3, 0, 1, 2)

	c.lastCols = cols
	c.lastPreAct = preAct
	c.lastSubjects = input.SubjectPlane()
	c.state = stateBackwardReady

	return c.activation.Forward(preAct), nil
}

// Backward consumes the cached pass state and the output gradient.
//
// It stores the bias gradient (summed over batch and spatial axes) and the
// weight gradient, and returns the input gradient, scattered back to
// exactly the connected input shape with the cached per-element provenance
// reattached. The cached state is cleared: a second Backward without an
// intervening Forward fails with a *StateError.
func (c *Convolution) Backward(grad *tensor.Tensor) (*tensor.Tensor, error) {
	switch c.state {
	case stateUnconnected:
		return nil, &StateError{Op: "backward", Detail: "layer is not connected"}
	case stateForwardReady:
		return nil, &StateError{Op: "backward", Detail: "no forward pass in flight (backward before forward)"}
	}

	if !grad.Shape().Equal(c.outShape) {
		return nil, &tensor.ShapeError{
			Op:     "conv.backward",
			Detail: fmt.Sprintf("gradient shape %v does not match output shape %v", grad.Shape(), c.outShape),
		}
	}

	g := grad
	if _, isIdentity := c.activation.(Identity); !isIdentity {
		// Chain rule through the activation: the local derivative is
		// evaluated at the cached pre-activation value.
		g = grad.Mul(c.activation.Derivative(c.lastPreAct))
	}

	c.biasGrad = g.Sum(0, 2, 3) // (filters,), bounds shaped natively.

	// Align the gradient with the patch matrix layout:
	// (batch, filters, outH, outW) → (filters, batch·outH·outW) with
	// columns ordered exactly like the im2col output.
	gCols := g.Transpose(1, 2, 3, 0).Reshape(c.filters, -1)

	c.weightGrad = gCols.MatMul(c.lastCols.Transpose()).
		Reshape(c.filters, c.inputShape[1], c.kernelH, c.kernelW)

	wCol := c.weights.Reshape(c.filters, -1)
	dCols := wCol.Transpose().MatMul(gCols)

	dX, err := patch.Col2im(dCols, c.inputShape, c.lastSubjects, c.kernelH, c.kernelW, c.padding, c.stride)
	if err != nil {
		return nil, fmt.Errorf("scattering patches: %w", err)
	}

	c.lastCols = nil
	c.lastPreAct = nil
	c.lastSubjects = nil
	c.state = stateForwardReady

	return dX, nil
}

// Params returns the layer's weight and bias tensors.
func (c *Convolution) Params() (weights, bias *tensor.Tensor) {
	return c.weights, c.bias
}

// Grads returns the gradients stored by the most recent Backward
// (zero tensors between Connect and the first Backward).
func (c *Convolution) Grads() (weightGrad, biasGrad *tensor.Tensor) {
	return c.weightGrad, c.biasGrad
}

// SetParams replaces the layer parameters with optimizer-updated values.
// Exactly two tensors — weights then bias — must be supplied, and their
// shapes must match the connected parameter shapes.
func (c *Convolution) SetParams(params ...*tensor.Tensor) error {
	if len(params) != 2 {
		return &ArityError{Op: "set_params", Want: 2, Got: len(params)}
	}
	if c.state == stateUnconnected {
		return &StateError{Op: "set_params", Detail: "layer is not connected"}
	}

	weights, bias := params[0], params[1]
	if !weights.Shape().Equal(c.weights.Shape()) {
		return &tensor.ShapeError{
			Op:     "set_params",
			Detail: fmt.Sprintf("weights shape %v does not match %v", weights.Shape(), c.weights.Shape()),
		}
	}
	if !bias.Shape().Equal(c.bias.Shape()) {
		return &tensor.ShapeError{
			Op:     "set_params",
			Detail: fmt.Sprintf("bias shape %v does not match %v", bias.Shape(), c.bias.Shape()),
		}
	}

	c.weights = weights
	c.bias = bias
	return nil
}

// Activation returns the layer's activation strategy.
func (c *Convolution) Activation() Activation {
	return c.activation
}

// String returns a human-readable summary of the layer.
func (c *Convolution) String() string {
	return fmt.Sprintf("Convolution(filters=%d, kernel=%dx%d, stride=%d, padding=%d, activation=%s)",
		c.filters, c.kernelH, c.kernelW, c.stride, c.padding, c.activation.Name())
}

// Compile-time interface checks.
var (
	_ Layer     = (*Convolution)(nil)
	_ Trainable = (*Convolution)(nil)
)
