package tensor

import "sync/atomic"

// debugBounds gates the post-operation bounds invariant check. Off by
// default: the check adds a full pass over every result element, which
// performance builds should not pay.
var debugBounds atomic.Bool

// SetDebugBoundsCheck enables or disables the lower ≤ value ≤ upper
// post-condition check on every kernel operation result. When a violation
// is found the operation panics with a *BoundsError — this indicates a bug
// in the kernel, never malformed caller input.
func SetDebugBoundsCheck(enabled bool) {
	debugBounds.Store(enabled)
}

// DebugBoundsCheckEnabled reports whether the invariant check is active.
func DebugBoundsCheckEnabled() bool {
	return debugBounds.Load()
}

// assertBounds verifies the bounds invariant on an operation result.
// NaN in any plane also fails the comparison and is reported.
func assertBounds(op string, t *Tensor) {
	if !debugBounds.Load() {
		return
	}
	for i, v := range t.values {
		if !(t.lower[i] <= v && v <= t.upper[i]) {
			panic(&BoundsError{Op: op, Index: i, Lower: t.lower[i], Value: v, Upper: t.upper[i]})
		}
	}
}
