package nn_test

import (
	"math/rand"
	"testing"

	"github.com/baldhumanity/neat-go"
	"github.com/baldhumanity/neat-go/nn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewView_ReflectsGenomeTopology(t *testing.T) {
	activations, err := neat.NewNetworkActivations("relu", "sigmoid")
	require.NoError(t, err)

	g := neat.NewGenome(
		2, 1,
		neat.NewInnovationRegistry(),
		activations,
		neat.DefaultGenomeMutationProbabilities(),
		neat.DefaultWeightChangeProbabilities(),
		true,
		10,
		rand.New(rand.NewSource(1)),
	)

	view, err := nn.NewView(g)
	require.NoError(t, err)

	assert.Len(t, view.Nodes, 3)
	assert.Len(t, view.Connections, 2)
	assert.Len(t, view.EvaluationOrder, 3)
}

func TestNewView_IsIndependentSnapshot(t *testing.T) {
	activations, err := neat.NewNetworkActivations("relu", "sigmoid")
	require.NoError(t, err)

	g := neat.NewGenome(
		1, 1,
		neat.NewInnovationRegistry(),
		activations,
		neat.DefaultGenomeMutationProbabilities(),
		neat.DefaultWeightChangeProbabilities(),
		true,
		10,
		rand.New(rand.NewSource(1)),
	)

	view, err := nn.NewView(g)
	require.NoError(t, err)
	before := len(view.Connections)

	g.Mutate()

	assert.Equal(t, before, len(view.Connections), "a previously built view must not change when the source genome mutates later")
}
