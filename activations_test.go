package neat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReLU(t *testing.T) {
	assert.Equal(t, 0.0, ReLU([]float64{-1.0}, 0))
	assert.Equal(t, 2.0, ReLU([]float64{2.0}, 0))
}

func TestLeakyReLU(t *testing.T) {
	assert.InDelta(t, -0.1, LeakyReLU([]float64{-1.0}, 0), 1e-9)
	assert.Equal(t, 2.0, LeakyReLU([]float64{2.0}, 0))
}

func TestSigmoid_Bounds(t *testing.T) {
	v := Sigmoid([]float64{0.0}, 0)
	assert.InDelta(t, 0.5, v, 1e-9)
	assert.True(t, Sigmoid([]float64{100}, 0) > 0.99)
	assert.True(t, Sigmoid([]float64{-100}, 0) < 0.01)
}

func TestSoftmax_SumsToOne(t *testing.T) {
	values := []float64{1.0, 2.0, 3.0}
	sum := 0.0
	for i := range values {
		sum += Softmax(values, i)
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestGetActivation_Unknown(t *testing.T) {
	_, err := GetActivation("does-not-exist")
	assert.Error(t, err)
}

func TestNewNetworkActivations_ValidatesNames(t *testing.T) {
	_, err := NewNetworkActivations("relu", "bogus")
	require.Error(t, err)

	na, err := NewNetworkActivations("relu", "sigmoid")
	require.NoError(t, err)
	assert.NotNil(t, na.Hidden())
	assert.NotNil(t, na.Output())
}
