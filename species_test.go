package neat

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSpecies(t *testing.T, size int) *Species {
	t.Helper()
	registry := NewInnovationRegistry()
	rep := newTestGenome(t, registry, true)
	return NewSpecies("test-species", 0, rep, size, 0.2, 5, 10, rand.New(rand.NewSource(13)))
}

func TestNewSpecies_ClonesRepresentativeIntoEveryMember(t *testing.T) {
	sp := newTestSpecies(t, 6)
	require.Len(t, sp.Members, 6)
	for _, m := range sp.Members {
		assert.Equal(t, sp.Members[0].InputSize, m.InputSize)
		assert.Equal(t, sp.Members[0].OutputSize, m.OutputSize)
	}
}

func TestSpecies_EvaluateUpdatesFitnessAndHistory(t *testing.T) {
	sp := newTestSpecies(t, 4)
	sp.Evaluate(ConstantFitness(3.0))

	for _, m := range sp.Members {
		assert.Equal(t, 3.0, m.Fitness)
	}
	assert.Equal(t, 3.0, sp.AverageFitness())
	require.Len(t, sp.history, 1)
	assert.Equal(t, 3.0, sp.history[0])
}

func TestSpecies_StepKeepsPoolSizeConstant(t *testing.T) {
	sp := newTestSpecies(t, 10)
	evaluator := FitnessFunc(func(g *Genome) float64 { return float64(len(g.Connections)) })
	sp.Evaluate(evaluator)

	before := len(sp.Members)
	// windowSize is 10, so generation 10 is on the crossover cadence.
	sp.Step(10, evaluator)
	assert.Equal(t, before, len(sp.Members))
}

func TestSpecies_StepOnlyCrossesOverOnWindowCadence(t *testing.T) {
	sp := newTestSpecies(t, 10)
	evaluator := FitnessFunc(func(g *Genome) float64 { return float64(len(g.Connections)) })
	sp.Evaluate(evaluator)

	worstBefore := sp.Members[sp.worstIndex()]
	sp.Step(3, evaluator) // not a multiple of windowSize (10)
	assert.Same(t, worstBefore, sp.Members[sp.worstIndex()], "off-cadence Step must not replace the worst member via crossover")
}

func TestSpecies_StepSeedsCrossoverChildFitnessBeforeInsertion(t *testing.T) {
	sp := newTestSpecies(t, 10)
	evaluator := FitnessFunc(func(g *Genome) float64 { return 7.0 })
	sp.Evaluate(evaluator)

	sp.Step(10, evaluator)
	for _, m := range sp.Members {
		assert.Equal(t, 7.0, m.Fitness, "every member, including any crossover child, must carry a seeded fitness rather than the zero value")
	}
}

func TestSpecies_BestMember(t *testing.T) {
	sp := newTestSpecies(t, 4)
	sp.Members[2].Fitness = 99.0
	assert.Same(t, sp.Members[2], sp.BestMember())
}

func TestGenerateSpeciesName_IsNonEmpty(t *testing.T) {
	name := generateSpeciesName(rand.New(rand.NewSource(1)))
	assert.NotEmpty(t, name)
}
