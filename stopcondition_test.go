package neat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStopCondition_SingleLeaf(t *testing.T) {
	sc := After(GenerationsReached(10))
	assert.False(t, sc.ShouldStop(0, 9))
	assert.True(t, sc.ShouldStop(0, 10))
}

func TestStopCondition_Or(t *testing.T) {
	sc := After(FitnessReached(0.99)).Chain(Or, GenerationsReached(500))
	assert.True(t, sc.ShouldStop(1.0, 1), "fitness alone should satisfy an Or clause")
	assert.True(t, sc.ShouldStop(0.0, 500), "generation count alone should satisfy an Or clause")
	assert.False(t, sc.ShouldStop(0.0, 1))
}

func TestStopCondition_And(t *testing.T) {
	sc := After(FitnessReached(0.99)).Chain(And, GenerationsReached(20))
	assert.False(t, sc.ShouldStop(1.0, 5), "fitness reached but generation floor not yet met")
	assert.False(t, sc.ShouldStop(0.5, 20), "generation floor met but fitness not yet reached")
	assert.True(t, sc.ShouldStop(1.0, 20))
}

func TestStopCondition_Empty(t *testing.T) {
	var sc StopCondition
	assert.False(t, sc.ShouldStop(1000, 1000))
}
