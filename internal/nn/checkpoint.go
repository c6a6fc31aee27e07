package nn

import (
	"fmt"

	"github.com/span-ml/span/internal/serialization"
	"github.com/span-ml/span/internal/tensor"
)

// Save writes the connected layer's configuration, parameters and current
// gradients to a .span checkpoint. Only the value planes are persisted:
// parameters and gradients are exact tensors with no provenance, so the
// numeric planes fully describe them.
func (c *Convolution) Save(path string) error {
	if c.state == stateUnconnected {
		return &StateError{Op: "save", Detail: "layer is not connected"}
	}

	w := serialization.NewWriter(path, "Convolution")
	w.SetLayerMeta(serialization.LayerMeta{
		Filters:    c.filters,
		KernelH:    c.kernelH,
		KernelW:    c.kernelW,
		Stride:     c.stride,
		Padding:    c.padding,
		Activation: c.activation.Name(),
		InputShape: c.inputShape,
		OutShape:   c.outShape,
	})

	if err := w.AddTensor("weights", c.weights.Shape(), c.weights.Values()); err != nil {
		return fmt.Errorf("adding weights: %w", err)
	}
	if err := w.AddTensor("bias", c.bias.Shape(), c.bias.Values()); err != nil {
		return fmt.Errorf("adding bias: %w", err)
	}
	if err := w.AddTensor("weight_grad", c.weightGrad.Shape(), c.weightGrad.Values()); err != nil {
		return fmt.Errorf("adding weight gradient: %w", err)
	}
	if err := w.AddTensor("bias_grad", c.biasGrad.Shape(), c.biasGrad.Values()); err != nil {
		return fmt.Errorf("adding bias gradient: %w", err)
	}
	return w.Close()
}

// LoadConvolution reconstructs a Convolution layer from a .span checkpoint.
// The returned layer is forward-ready without a Connect call: shapes come
// from the checkpoint header and parameters from the data section.
func LoadConvolution(path string) (*Convolution, error) {
	r, err := serialization.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening checkpoint: %w", err)
	}
	defer r.Close()

	header := r.Header()
	if header.LayerType != "Convolution" {
		return nil, &ConfigError{
			Field:  "layer_type",
			Detail: fmt.Sprintf("checkpoint holds %q, expected \"Convolution\"", header.LayerType),
		}
	}
	meta := header.Layer
	if meta == nil {
		return nil, &ConfigError{Field: "layer", Detail: "checkpoint has no layer configuration"}
	}

	activation, err := ActivationByName(meta.Activation)
	if err != nil {
		return nil, err
	}

	inputShape := tensor.Shape(meta.InputShape)
	outShape := tensor.Shape(meta.OutShape)
	if len(inputShape) != 4 || len(outShape) != 4 {
		return nil, &ConfigError{
			Field:  "layer",
			Detail: fmt.Sprintf("checkpoint shapes must be 4D, got input %v, output %v", inputShape, outShape),
		}
	}

	wantWeights := tensor.Shape{meta.Filters, inputShape[1], meta.KernelH, meta.KernelW}
	wantBias := tensor.Shape{meta.Filters}

	weights, err := readExact(r, "weights", wantWeights)
	if err != nil {
		return nil, err
	}
	bias, err := readExact(r, "bias", wantBias)
	if err != nil {
		return nil, err
	}
	weightGrad, err := readExact(r, "weight_grad", wantWeights)
	if err != nil {
		return nil, err
	}
	biasGrad, err := readExact(r, "bias_grad", wantBias)
	if err != nil {
		return nil, err
	}

	c := &Convolution{
		filters:    meta.Filters,
		kernelH:    meta.KernelH,
		kernelW:    meta.KernelW,
		stride:     meta.Stride,
		padding:    meta.Padding,
		activation: activation,
		init:       Xavier{},
		// The checkpointed geometry doubles as explicit configuration, so
		// the restored layer can be re-Connected without a predecessor.
		configInput: inputShape.Clone(),
		inputShape:  inputShape.Clone(),
		outShape:    outShape.Clone(),
		weights:     weights,
		bias:        bias,
		weightGrad:  weightGrad,
		biasGrad:    biasGrad,
		state:       stateForwardReady,
	}
	return c, nil
}

// readExact reads a named tensor section and wraps it as an exact tensor,
// rejecting a shape that disagrees with the checkpoint's configuration.
func readExact(r *serialization.Reader, name string, want tensor.Shape) (*tensor.Tensor, error) {
	values, shape, err := r.Tensor(name)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	if !tensor.Shape(shape).Equal(want) {
		return nil, &ConfigError{
			Field:  name,
			Detail: fmt.Sprintf("checkpoint %s shape %v does not match configuration %v", name, shape, want),
		}
	}
	out, err := tensor.Exact(values, want)
	if err != nil {
		return nil, fmt.Errorf("restoring %s: %w", name, err)
	}
	return out, nil
}
