package neat

import (
	"fmt"
	"math/rand"
)

// mutateBottomFraction is the share of a species' pool, by ascending fitness, that
// gets mutated every generation step.
const mutateBottomFraction = 0.7

// cloneBestOverWorstChance is the probability that, after mutation, the species'
// best member is cloned directly over its worst member, giving a strong genome an
// extra foothold in the pool without waiting for crossover to rediscover it.
const cloneBestOverWorstChance = 0.05

// Species is a fixed-size pool of genomes descended from a single representative.
// Unlike a compatibility-threshold reclustering scheme, membership here never
// changes size and never migrates between species: a species is a population in its
// own right, improved generation over generation by local crossover and mutation.
type Species struct {
	Name    string
	Index   int
	Members []*Genome

	distanceThreshold float64
	crossoverRetries  int

	history    []float64 // rolling window of this species' average fitness
	windowSize int

	rng *rand.Rand
}

// NewSpecies builds a species of size members by cloning representative into every
// slot, then mutating every slot but the first so the pool starts with some
// diversity around the representative rather than size identical genomes.
func NewSpecies(
	name string,
	index int,
	representative *Genome,
	size int,
	distanceThreshold float64,
	crossoverRetries int,
	windowSize int,
	rng *rand.Rand,
) *Species {
	members := make([]*Genome, size)
	for i := 0; i < size; i++ {
		members[i] = representative.Clone()
		if i > 0 {
			members[i].Mutate()
		}
	}
	return &Species{
		Name:              name,
		Index:             index,
		Members:           members,
		distanceThreshold: distanceThreshold,
		crossoverRetries:  crossoverRetries,
		windowSize:        windowSize,
		rng:               rng,
	}
}

// Evaluate scores every member with evaluator, folds each score into that member's
// rolling fitness window, and folds the species' own average fitness into its
// history.
func (s *Species) Evaluate(evaluator FitnessEvaluator) {
	for _, m := range s.Members {
		score := evaluator.Run(m)
		m.recordFitness(score)
	}
	s.history = append(s.history, s.AverageFitness())
	if len(s.history) > s.windowSize {
		s.history = s.history[len(s.history)-s.windowSize:]
	}
}

// AverageFitness returns the mean current fitness across the species' members.
func (s *Species) AverageFitness() float64 {
	scores := make([]float64, len(s.Members))
	for i, m := range s.Members {
		scores[i] = m.Fitness
	}
	return Mean(scores)
}

// SmoothedFitness exponentially smooths this species' fitness history, giving a
// noise-resistant trend line. The stop-condition check and telemetry use
// AverageFitness, not this value.
func (s *Species) SmoothedFitness(alpha float64) float64 {
	return ExponentialAverage(s.history, alpha)
}

// Step performs one generation of local improvement: every windowSize
// generations, a crossover offspring replaces the pool's current worst member;
// every generation, the bottom 70% of the pool (by fitness) is mutated in place,
// and with a small probability the best member is cloned directly over the worst.
func (s *Species) Step(generation int, evaluator FitnessEvaluator) {
	if s.windowSize > 0 && generation%s.windowSize == 0 {
		if child := s.crossoverChild(); child != nil {
			if _, err := child.topologicalOrder(); err == nil {
				score := evaluator.Run(child)
				for i := 0; i < child.windowSize; i++ {
					child.recordFitness(score)
				}
				worst := s.worstIndex()
				s.Members[worst] = child
			}
		}
	}

	bottomCount := int(float64(len(s.Members)) * mutateBottomFraction)
	for _, idx := range BottomKIndices(s.Members, bottomCount) {
		s.Members[idx].Mutate()
	}

	if s.rng.Float64() < cloneBestOverWorstChance {
		best, worst := s.bestIndex(), s.worstIndex()
		if best != worst {
			s.Members[worst] = s.Members[best].Clone()
		}
	}
}

// crossoverChild selects two parents by fitness-proportionate (roulette) sampling,
// retrying up to crossoverRetries times to find a pair whose genetic distance is
// below distanceThreshold. If no such pair turns up within the retry budget, it
// crosses the last pair drawn anyway; if that last draw picked the same member
// twice, it returns nil and no child is produced this generation.
func (s *Species) crossoverChild() *Genome {
	if len(s.Members) < 2 {
		return nil
	}

	var p1, p2 *Genome
	for attempt := 0; attempt <= s.crossoverRetries; attempt++ {
		p1 = s.rouletteSelect()
		p2 = s.rouletteSelect()
		if p1 == p2 {
			continue
		}
		if p1.Distance(p2) < s.distanceThreshold {
			break
		}
	}
	if p1 == nil || p2 == nil || p1 == p2 {
		return nil
	}
	return Crossover(p1, p2, s.rng)
}

// rouletteSelect draws one member with probability proportional to fitness, shifted
// so every member (even one with negative or zero fitness) has a nonzero chance of
// selection.
func (s *Species) rouletteSelect() *Genome {
	minFitness := s.Members[0].Fitness
	for _, m := range s.Members {
		if m.Fitness < minFitness {
			minFitness = m.Fitness
		}
	}
	shift := -minFitness + 1e-6

	total := 0.0
	for _, m := range s.Members {
		total += m.Fitness + shift
	}
	r := s.rng.Float64() * total
	cumulative := 0.0
	for _, m := range s.Members {
		cumulative += m.Fitness + shift
		if r < cumulative {
			return m
		}
	}
	return s.Members[len(s.Members)-1]
}

func (s *Species) worstIndex() int {
	return BottomKIndices(s.Members, 1)[0]
}

func (s *Species) bestIndex() int {
	return TopKIndices(s.Members, 1)[0]
}

// BestMember returns the highest-fitness genome currently in the pool.
func (s *Species) BestMember() *Genome {
	return s.Members[s.bestIndex()]
}

func (s *Species) String() string {
	return fmt.Sprintf("Species{name=%q size=%d avgFitness=%.4f}", s.Name, len(s.Members), s.AverageFitness())
}

var speciesNamePrefixes = []string{
	"amber", "cobalt", "crimson", "dusk", "ember", "frost", "granite", "harbor",
	"ivory", "jade", "lunar", "maple", "nimbus", "onyx", "pine", "quartz",
	"river", "slate", "tidal", "umber", "violet", "willow", "zephyr",
}

var speciesNameSuffixes = []string{
	"falcon", "heron", "lynx", "marten", "osprey", "otter", "raven", "sparrow",
	"stag", "tern", "viper", "wolf",
}

// generateSpeciesName produces a two-word human-readable name for a species,
// grounded on the original implementation's naming scheme but drawn from a tamed
// word list.
func generateSpeciesName(rng *rand.Rand) string {
	prefix := speciesNamePrefixes[rng.Intn(len(speciesNamePrefixes))]
	suffix := speciesNameSuffixes[rng.Intn(len(speciesNameSuffixes))]
	return prefix + "-" + suffix
}
