package neat

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopologicalOrder_InputsBeforeOutputs(t *testing.T) {
	registry := NewInnovationRegistry()
	g := newTestGenome(t, registry, true)

	order, err := g.EvaluationOrder()
	require.NoError(t, err)

	positionOf := make(map[int]int, len(order))
	for i, id := range order {
		positionOf[id] = i
	}
	for i := 0; i < g.InputSize; i++ {
		for o := 0; o < g.OutputSize; o++ {
			assert.Less(t, positionOf[i], positionOf[g.InputSize+o])
		}
	}
}

func TestTopologicalOrder_IsDeterministic(t *testing.T) {
	registry := NewInnovationRegistry()
	g := newTestGenome(t, registry, true)
	g.rng = rand.New(rand.NewSource(21))
	for i := 0; i < 10; i++ {
		g.Mutate()
	}

	first, err := g.EvaluationOrder()
	require.NoError(t, err)

	g.invalidateTopology()
	second, err := g.EvaluationOrder()
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestCreatesCycle_DetectsSelfLoop(t *testing.T) {
	registry := NewInnovationRegistry()
	g := newTestGenome(t, registry, false)
	assert.True(t, g.createsCycle(0, 0))
}

func TestCreatesCycle_DetectsCycleThroughExistingEdge(t *testing.T) {
	registry := NewInnovationRegistry()
	na := testActivations(t)
	g := NewGenome(1, 1, registry, na, DefaultGenomeMutationProbabilities(), DefaultWeightChangeProbabilities(), false, 10, rand.New(rand.NewSource(1)))

	// Manually build 0 -> 2 -> 1, a hidden node in between.
	hidden := NewNodeGene(2, NodeRegular, 0.5)
	g.addNode(hidden)
	g.addConnection(NewConnectionGene(0, 2, 1.0, registry.GetOrIssue(0, 2)))
	g.addConnection(NewConnectionGene(2, 1, 1.0, registry.GetOrIssue(2, 1)))

	// 1 -> 2 would close a cycle back through the existing 2 -> 1 edge... but
	// 1 is an output node, so instead check the direct structural case: 2 -> 0
	// would create a cycle via the existing 0 -> 2 edge.
	assert.True(t, g.createsCycle(2, 0))
	assert.False(t, g.createsCycle(0, 1))
}
