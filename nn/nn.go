// Copyright 2025 The Span Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides the public API for bound-tracking neural network
// layers in the Span engine.
//
// Layers consume and produce bounded tensors: every forward and backward
// pass propagates value bounds and data-subject provenance alongside the
// numeric result.
//
// Example:
//
//	layer, err := nn.NewConvolution(nn.Config{
//	    Filters:    16,
//	    KernelH:    3,
//	    Padding:    1,
//	    Activation: nn.ReLU{},
//	    InputShape: tensor.Shape{8, 3, 32, 32},
//	})
//	if err := layer.Connect(nil); err != nil { ... }
//	out, err := layer.Forward(input)
//	grad, err := layer.Backward(upstream)
package nn

import (
	"github.com/span-ml/span/internal/nn"
)

// Type aliases for the public API.

// Layer is the interface all network layers implement: Connect, Forward,
// Backward, OutShape.
type Layer = nn.Layer

// Trainable is implemented by layers with parameters readable via Params
// and Grads and writable via SetParams.
type Trainable = nn.Trainable

// Config holds the construction-time configuration of a Convolution layer.
type Config = nn.Config

// Convolution is a 2-D convolution layer over bounded tensors.
type Convolution = nn.Convolution

// Activation is the strategy applied after a layer's linear transform.
type Activation = nn.Activation

// Activations.
type (
	// Identity passes values through unchanged.
	Identity = nn.Identity
	// ReLU is the rectified linear unit.
	ReLU = nn.ReLU
	// Sigmoid is the logistic function.
	Sigmoid = nn.Sigmoid
	// Tanh is the hyperbolic tangent.
	Tanh = nn.Tanh
)

// Initializer produces initial weight values for a parameter shape.
type Initializer = nn.Initializer

// Xavier implements Glorot uniform initialization.
type Xavier = nn.Xavier

// Error types.
type (
	// ConfigError reports invalid or missing layer configuration.
	ConfigError = nn.ConfigError
	// StateError reports a layer lifecycle violation.
	StateError = nn.StateError
	// ArityError reports a parameter update with the wrong number of
	// tensors.
	ArityError = nn.ArityError
)

// NewConvolution validates the configuration and returns an unconnected
// convolution layer.
func NewConvolution(cfg Config) (*Convolution, error) {
	return nn.NewConvolution(cfg)
}

// ActivationByName restores an activation from its serialized identifier
// ("identity", "relu", "sigmoid", "tanh").
func ActivationByName(name string) (Activation, error) {
	return nn.ActivationByName(name)
}

// LoadConvolution reconstructs a Convolution layer from a .span
// checkpoint. The returned layer is forward-ready without a Connect call.
func LoadConvolution(path string) (*Convolution, error) {
	return nn.LoadConvolution(path)
}
