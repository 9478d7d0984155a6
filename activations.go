package neat

import (
	"fmt"
	"math"
)

// ActivationFunc computes the activated value for the node at index within values,
// given the full slice of pre-activation values for the layer being evaluated. Most
// activations only look at values[index]; Softmax needs the whole slice to normalize.
type ActivationFunc func(values []float64, index int) float64

const leakyReLUSlope = 0.1

// ReLU zeroes negative inputs and passes positive ones through unchanged.
func ReLU(values []float64, index int) float64 {
	return math.Max(0, values[index])
}

// LeakyReLU behaves like ReLU but lets a small fraction of negative input through,
// avoiding the "dead node" problem where a ReLU node that always receives a negative
// input never contributes a gradient-bearing signal (not that this engine trains by
// gradient, but a permanently-zero node is still dead weight for evolution to select).
func LeakyReLU(values []float64, index int) float64 {
	x := values[index]
	if x >= 0 {
		return x
	}
	return x * leakyReLUSlope
}

// Sigmoid squashes its input into (0, 1) with the standard logistic curve.
func Sigmoid(values []float64, index int) float64 {
	x := values[index]
	return 1.0 / (1.0 + math.Exp(-x))
}

// Softmax normalizes the whole output layer into a probability distribution. Unlike
// the other activations it is not a pure function of a single node's input: every
// output node in the layer must be evaluated with the same values slice for the
// normalization to be correct.
func Softmax(values []float64, index int) float64 {
	maxV := values[0]
	for _, v := range values[1:] {
		if v > maxV {
			maxV = v
		}
	}
	sum := 0.0
	for _, v := range values {
		sum += math.Exp(v - maxV)
	}
	if sum == 0 {
		return 0
	}
	return math.Exp(values[index]-maxV) / sum
}

// activationFunctions maps the names accepted in configuration files and builder
// calls to their implementations.
var activationFunctions = map[string]ActivationFunc{
	"relu":       ReLU,
	"leaky_relu": LeakyReLU,
	"sigmoid":    Sigmoid,
	"softmax":    Softmax,
}

// GetActivation retrieves an activation function by its configuration name.
func GetActivation(name string) (ActivationFunc, error) {
	if fn, ok := activationFunctions[name]; ok {
		return fn, nil
	}
	return nil, fmt.Errorf("unknown activation function: %s", name)
}

// NetworkActivations pairs the activation used for hidden nodes with the one used
// for output nodes, keyed by name so a genome can be serialized and reloaded without
// pinning a function value into the encoded bytes.
type NetworkActivations struct {
	HiddenName string
	OutputName string
}

// NewNetworkActivations validates both names up front rather than failing lazily the
// first time a genome tries to activate.
func NewNetworkActivations(hiddenName, outputName string) (NetworkActivations, error) {
	if _, err := GetActivation(hiddenName); err != nil {
		return NetworkActivations{}, fmt.Errorf("hidden activation: %w", err)
	}
	if _, err := GetActivation(outputName); err != nil {
		return NetworkActivations{}, fmt.Errorf("output activation: %w", err)
	}
	return NetworkActivations{HiddenName: hiddenName, OutputName: outputName}, nil
}

// Hidden resolves the hidden-layer activation function.
func (na NetworkActivations) Hidden() ActivationFunc {
	fn, _ := GetActivation(na.HiddenName)
	return fn
}

// Output resolves the output-layer activation function.
func (na NetworkActivations) Output() ActivationFunc {
	fn, _ := GetActivation(na.OutputName)
	return fn
}
