// Copyright 2025 The Span Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the public API for bounded-value tensors in the
// Span engine.
//
// # Overview
//
// A bounded tensor carries four planes in lockstep through every
// operation:
//   - values: the numeric result, computed exactly as the plain operation
//   - lower, upper: a conservative per-element interval containing the value
//   - subjects: per-element data-subject provenance tags
//
// Operations propagate bounds by interval arithmetic and provenance by
// union, so any output element's interval soundly contains every value the
// operation could have produced from inputs within their intervals, and its
// tag set names every data subject whose raw data influenced it.
//
// # Basic Usage
//
//	// Raw per-subject data enters with declared bounds and a subject tag.
//	x, err := tensor.Bounded(pixels, 0, 1, tensor.NewSubject(), tensor.Shape{1, 1, 28, 28})
//
//	// Known constants enter exact: bounds collapse onto the value.
//	w, err := tensor.Exact(weights, tensor.Shape{16, 9})
//
//	y := a.MatMul(b).AddScalar(0.5)
//	lo, hi := y.BoundsAt(0, 0)   // worst-case envelope
//	who := y.SubjectsAt(0, 0)    // whose data is in this element
//
// # Broadcasting
//
// Element-wise operations follow NumPy broadcasting rules:
//
//	a := tensor.Zeros(tensor.Shape{3, 1})
//	b := tensor.Ones(tensor.Shape{3, 4})
//	c := a.Add(b) // (3, 4)
//
// # Debug bounds checking
//
// SetDebugBoundsCheck(true) makes every operation verify
// lower ≤ value ≤ upper on its result and panic with a *BoundsError on the
// first violation. The check guards against kernel bugs and is off by
// default.
package tensor
