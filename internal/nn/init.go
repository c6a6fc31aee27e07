package nn

import (
	"math"
	"math/rand"

	"github.com/span-ml/span/internal/tensor"
)

// Initializer produces initial weight values for a parameter shape.
// The result is a plain numeric array: freshly initialized weights are
// known constants, so the layer wraps them with exact bounds and no
// provenance.
type Initializer interface {
	Generate(shape tensor.Shape) []float64
}

// Xavier implements Glorot uniform initialization: values drawn from
// U(−b, b) with b = sqrt(6 / (fanIn + fanOut)). This keeps activation
// variance roughly constant across layers.
//
// For a 4-D convolution weight shape (filters, channels, kh, kw):
// fanIn = channels·kh·kw, fanOut = filters·kh·kw. For other ranks the
// leading dimension is fanOut and the product of the rest is fanIn.
type Xavier struct {
	// Rand is the random source; nil uses the global math/rand source.
	// Weight initialization is statistical, not security-critical.
	Rand *rand.Rand
}

// Generate returns Xavier-distributed values for the given shape.
func (x Xavier) Generate(shape tensor.Shape) []float64 {
	fanIn, fanOut := fans(shape)
	bound := math.Sqrt(6.0 / float64(fanIn+fanOut))

	values := make([]float64, shape.NumElements())
	for i := range values {
		values[i] = (x.float64()*2 - 1) * bound
	}
	return values
}

func (x Xavier) float64() float64 {
	if x.Rand != nil {
		return x.Rand.Float64()
	}
	return rand.Float64() //nolint:gosec // Statistical initialization, not security-critical.
}

// fans derives (fanIn, fanOut) from a weight shape.
func fans(shape tensor.Shape) (fanIn, fanOut int) {
	switch len(shape) {
	case 0:
		return 1, 1
	case 1:
		return shape[0], shape[0]
	case 4:
		kernel := shape[2] * shape[3]
		return shape[1] * kernel, shape[0] * kernel
	default:
		rest := 1
		for _, dim := range shape[1:] {
			rest *= dim
		}
		return rest, shape[0]
	}
}
