package neat

import (
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WeightedChoice walks a table of relative integer weights and returns the index of
// the one a uniform draw lands in. A weight of zero can never be selected. Panics if
// every weight is zero or the slice is empty, since that means the caller built an
// empty event table rather than that the draw was unlucky.
func WeightedChoice(weights []int, rng *rand.Rand) int {
	total := 0
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		panic("neat: WeightedChoice called with a table that sums to zero")
	}

	r := rng.Intn(total)
	cumulative := 0
	for i, w := range weights {
		cumulative += w
		if r < cumulative {
			return i
		}
	}
	return len(weights) - 1 // unreachable given the invariant above
}

// Mean returns the arithmetic mean of values, or 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return stat.Mean(values, nil)
}

// StdDev returns the sample standard deviation of values, or 0 for fewer than two
// values.
func StdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	return stat.StdDev(values, nil)
}

// ExponentialAverage folds values into a single smoothed value using the recurrence
// avg = alpha*v + (1-alpha)*avg, seeded with the first value. Species.SmoothedFitness
// uses it to smooth a species' rolling fitness history.
func ExponentialAverage(values []float64, alpha float64) float64 {
	if len(values) == 0 {
		return 0
	}
	avg := values[0]
	for _, v := range values[1:] {
		avg = alpha*v + (1-alpha)*avg
	}
	return avg
}

// indexesByFitness returns the indexes of genomes sorted by Fitness. Ascending
// sorts worst-first, which is what the bottom/top-K helpers below build on.
func indexesByFitness(genomes []*Genome) []int {
	idx := make([]int, len(genomes))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(i, j int) bool { return genomes[idx[i]].Fitness < genomes[idx[j]].Fitness })
	return idx
}

// BottomKIndices returns the indexes of the k lowest-fitness genomes, ordered
// worst-first.
func BottomKIndices(genomes []*Genome, k int) []int {
	idx := indexesByFitness(genomes)
	if k > len(idx) {
		k = len(idx)
	}
	return idx[:k]
}

// TopKIndices returns the indexes of the k highest-fitness genomes, ordered
// best-first.
func TopKIndices(genomes []*Genome, k int) []int {
	idx := indexesByFitness(genomes)
	if k > len(idx) {
		k = len(idx)
	}
	out := make([]int, k)
	for i := 0; i < k; i++ {
		out[i] = idx[len(idx)-1-i]
	}
	return out
}
