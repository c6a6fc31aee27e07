package nn

import "fmt"

// ConfigError reports invalid or missing layer configuration, detected at
// construction or connect time. Configuration errors indicate caller
// misuse and are never retried.
type ConfigError struct {
	Field  string // Configuration field at fault (e.g., "input_shape").
	Detail string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Detail)
}

// StateError reports a layer lifecycle violation, such as backward invoked
// without a preceding forward pass.
type StateError struct {
	Op     string // Operation that was attempted (e.g., "backward").
	Detail string
}

// Error implements the error interface.
func (e *StateError) Error() string {
	return fmt.Sprintf("state: %s: %s", e.Op, e.Detail)
}

// ArityError reports a parameter-update call with the wrong number of
// tensors.
type ArityError struct {
	Op   string
	Want int
	Got  int
}

// Error implements the error interface.
func (e *ArityError) Error() string {
	return fmt.Sprintf("%s: expected %d values, got %d", e.Op, e.Want, e.Got)
}
