package nn

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/span-ml/span/internal/tensor"
)

func TestXavierWithinBound(t *testing.T) {
	shape := tensor.Shape{4, 3, 3, 3}
	fanIn, fanOut := fans(shape)
	bound := math.Sqrt(6.0 / float64(fanIn+fanOut))

	x := Xavier{Rand: rand.New(rand.NewSource(1))}
	values := x.Generate(shape)

	assert.Len(t, values, shape.NumElements())
	for _, v := range values {
		assert.LessOrEqual(t, math.Abs(v), bound)
	}
}

func TestXavierDeterministicWithSeed(t *testing.T) {
	shape := tensor.Shape{2, 2}
	a := Xavier{Rand: rand.New(rand.NewSource(5))}.Generate(shape)
	b := Xavier{Rand: rand.New(rand.NewSource(5))}.Generate(shape)
	assert.Equal(t, a, b)
}

func TestFans(t *testing.T) {
	tests := []struct {
		shape           tensor.Shape
		wantIn, wantOut int
	}{
		{tensor.Shape{}, 1, 1},
		{tensor.Shape{7}, 7, 7},
		{tensor.Shape{10, 20}, 20, 10},
		{tensor.Shape{4, 3, 5, 5}, 75, 100}, // conv: fanIn=C·kh·kw, fanOut=F·kh·kw
	}

	for _, tt := range tests {
		fanIn, fanOut := fans(tt.shape)
		assert.Equal(t, tt.wantIn, fanIn, "fanIn of %v", tt.shape)
		assert.Equal(t, tt.wantOut, fanOut, "fanOut of %v", tt.shape)
	}
}
