package neat

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeightedChoice_RespectsZeroWeights(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 200; i++ {
		choice := WeightedChoice([]int{0, 5, 0}, rng)
		assert.Equal(t, 1, choice)
	}
}

func TestWeightedChoice_PanicsOnAllZero(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	assert.Panics(t, func() { WeightedChoice([]int{0, 0}, rng) })
}

func TestMean(t *testing.T) {
	assert.Equal(t, 0.0, Mean(nil))
	assert.InDelta(t, 2.0, Mean([]float64{1, 2, 3}), 1e-9)
}

func TestExponentialAverage_SeedsWithFirstValue(t *testing.T) {
	assert.Equal(t, 0.0, ExponentialAverage(nil, 0.5))
	assert.Equal(t, 5.0, ExponentialAverage([]float64{5.0}, 0.5))
}

func TestTopAndBottomKIndices(t *testing.T) {
	registry := NewInnovationRegistry()
	rng := rand.New(rand.NewSource(1))
	genomes := make([]*Genome, 5)
	for i := range genomes {
		g := NewGenome(1, 1, registry, testActivationsHelper(t), DefaultGenomeMutationProbabilities(), DefaultWeightChangeProbabilities(), false, 10, rng)
		g.Fitness = float64(i)
		genomes[i] = g
	}

	top := TopKIndices(genomes, 2)
	require.Len(t, top, 2)
	assert.Equal(t, 4, top[0])
	assert.Equal(t, 3, top[1])

	bottom := BottomKIndices(genomes, 2)
	assert.Equal(t, 0, bottom[0])
	assert.Equal(t, 1, bottom[1])
}

func testActivationsHelper(t *testing.T) NetworkActivations {
	t.Helper()
	na, err := NewNetworkActivations("relu", "sigmoid")
	require.NoError(t, err)
	return na
}
