package neat

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInnovationRegistry_SameEdgeSharesNumber(t *testing.T) {
	r := NewInnovationRegistry()

	first := r.GetOrIssue(0, 3)
	second := r.GetOrIssue(0, 3)
	require.Equal(t, first, second)
}

func TestInnovationRegistry_DistinctEdgesGetDistinctNumbers(t *testing.T) {
	r := NewInnovationRegistry()

	a := r.GetOrIssue(0, 3)
	b := r.GetOrIssue(1, 3)
	assert.NotEqual(t, a, b)
}

func TestInnovationRegistry_ConcurrentIssueIsRaceFree(t *testing.T) {
	r := NewInnovationRegistry()

	var wg sync.WaitGroup
	results := make([]int, 100)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = r.GetOrIssue(7, 9)
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, results[0], got, "every goroutine discovering the same edge must get the same innovation number")
	}
}

func TestInnovationRegistry_Contains(t *testing.T) {
	r := NewInnovationRegistry()
	assert.False(t, r.Contains(0, 1))
	r.GetOrIssue(0, 1)
	assert.True(t, r.Contains(0, 1))
}
