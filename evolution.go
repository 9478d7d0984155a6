package neat

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/baldhumanity/neat-go/telemetry"
)

// EvolutionBuilder assembles an Evolution through a fluent chain of setters,
// mirroring the method-per-field construction style the original implementation
// uses for wiring up a run: every call returns the same builder so calls read as one
// sentence, and Build validates that every required field was actually set before
// handing back a runnable Evolution.
type EvolutionBuilder struct {
	speciesMemberCount int
	numSpecies         int
	inputNodes         int
	outputNodes        int
	hiddenActivation   string
	outputActivation   string
	mutationProbs      GenomeMutationProbabilities
	weightProbs        WeightChangeProbabilities
	preestablishConns  bool
	distanceThreshold  float64
	crossoverRetries   int
	windowSize         int
	parallelChunkSize  int
	replaceWorstEveryN int // 0 disables
	stopCondition      StopCondition
	evaluator          FitnessEvaluator
	telemetry          *telemetry.Recorder

	inputNodesSet, outputNodesSet, speciesMemberCountSet, numSpeciesSet bool
}

// NewEvolution starts a builder pre-loaded with the package's default activations,
// mutation tables, window and crossover settings; the network shape (WithInputNodes,
// WithOutputNodes), the pool shape (BatchSize, WithSpeciesSize) and the fitness
// evaluator are required before Build succeeds.
func NewEvolution() *EvolutionBuilder {
	return &EvolutionBuilder{
		hiddenActivation:  "leaky_relu",
		outputActivation:  "sigmoid",
		mutationProbs:     DefaultGenomeMutationProbabilities(),
		weightProbs:       DefaultWeightChangeProbabilities(),
		distanceThreshold: 0.2,
		crossoverRetries:  5,
		windowSize:        10,
		parallelChunkSize: 1,
	}
}

// BatchSize sets how many genomes live in each species' fixed-size pool.
func (b *EvolutionBuilder) BatchSize(n int) *EvolutionBuilder {
	b.speciesMemberCount = n
	b.speciesMemberCountSet = true
	return b
}

// WithSpeciesSize sets how many independent species the evolution runs side by side.
func (b *EvolutionBuilder) WithSpeciesSize(n int) *EvolutionBuilder {
	b.numSpecies = n
	b.numSpeciesSet = true
	return b
}

// WithInputNodes sets the number of input nodes every genome is constructed with.
func (b *EvolutionBuilder) WithInputNodes(n int) *EvolutionBuilder {
	b.inputNodes = n
	b.inputNodesSet = true
	return b
}

// WithOutputNodes sets the number of output nodes every genome is constructed with.
func (b *EvolutionBuilder) WithOutputNodes(n int) *EvolutionBuilder {
	b.outputNodes = n
	b.outputNodesSet = true
	return b
}

// WithHiddenActivation selects the activation function applied to hidden nodes.
func (b *EvolutionBuilder) WithHiddenActivation(name string) *EvolutionBuilder {
	b.hiddenActivation = name
	return b
}

// WithOutputActivation selects the activation function applied to output nodes.
func (b *EvolutionBuilder) WithOutputActivation(name string) *EvolutionBuilder {
	b.outputActivation = name
	return b
}

// MutationProbabilities overrides the default structural/weight mutation event
// weights.
func (b *EvolutionBuilder) MutationProbabilities(p GenomeMutationProbabilities) *EvolutionBuilder {
	b.mutationProbs = p
	return b
}

// WeightChangeProbabilities overrides the default weight-perturbation event
// weights.
func (b *EvolutionBuilder) WeightChangeProbabilities(p WeightChangeProbabilities) *EvolutionBuilder {
	b.weightProbs = p
	return b
}

// PreestablishConnections, when true, starts every genome fully connected between
// inputs and outputs rather than with no connections at all.
func (b *EvolutionBuilder) PreestablishConnections(v bool) *EvolutionBuilder {
	b.preestablishConns = v
	return b
}

// DistanceThreshold sets the maximum genetic distance allowed between crossover
// parents within a species.
func (b *EvolutionBuilder) DistanceThreshold(v float64) *EvolutionBuilder {
	b.distanceThreshold = v
	return b
}

// CrossoverRetries sets how many times a species retries parent selection looking
// for a pair under the distance threshold before crossing the last pair drawn
// anyway.
func (b *EvolutionBuilder) CrossoverRetries(n int) *EvolutionBuilder {
	b.crossoverRetries = n
	return b
}

// WindowSize sets the length of the rolling fitness window each genome and species
// keeps.
func (b *EvolutionBuilder) WindowSize(n int) *EvolutionBuilder {
	b.windowSize = n
	return b
}

// ParallelChunkSize sets how many species a single worker goroutine evaluates
// sequentially before the next chunk is handed out; the number of workers is
// ceil(numSpecies / parallelChunkSize).
func (b *EvolutionBuilder) ParallelChunkSize(n int) *EvolutionBuilder {
	b.parallelChunkSize = n
	return b
}

// ReplaceWorstEveryNthGen makes the evolution replace its worst-performing species'
// entire pool with clones of the best genome found so far, each mutated once, every n
// generations. Pass 0 to disable periodic replacement.
func (b *EvolutionBuilder) ReplaceWorstEveryNthGen(n int) *EvolutionBuilder {
	b.replaceWorstEveryN = n
	return b
}

// WithStopCondition installs the condition checked every generation against each
// species' average fitness, right after that species is evaluated.
func (b *EvolutionBuilder) WithStopCondition(sc StopCondition) *EvolutionBuilder {
	b.stopCondition = sc
	return b
}

// SetFitnessEvaluator installs the evaluator used to score every genome.
func (b *EvolutionBuilder) SetFitnessEvaluator(e FitnessEvaluator) *EvolutionBuilder {
	b.evaluator = e
	return b
}

// WithTelemetry installs a recorder that receives one row per species every
// generation. Optional; a nil recorder (the default) means Generation skips
// telemetry entirely.
func (b *EvolutionBuilder) WithTelemetry(rec *telemetry.Recorder) *EvolutionBuilder {
	b.telemetry = rec
	return b
}

// Build validates that every required field has been set and constructs the
// evolution's initial species pools, each seeded from its own freshly constructed
// representative genome.
func (b *EvolutionBuilder) Build() (*Evolution, error) {
	if !b.inputNodesSet {
		return nil, fmt.Errorf("neat: EvolutionBuilder.Build: input nodes not set")
	}
	if !b.outputNodesSet {
		return nil, fmt.Errorf("neat: EvolutionBuilder.Build: output nodes not set")
	}
	if !b.speciesMemberCountSet {
		return nil, fmt.Errorf("neat: EvolutionBuilder.Build: batch size not set")
	}
	if !b.numSpeciesSet {
		return nil, fmt.Errorf("neat: EvolutionBuilder.Build: species count not set")
	}
	if b.evaluator == nil {
		return nil, fmt.Errorf("neat: EvolutionBuilder.Build: fitness evaluator not set")
	}

	activations, err := NewNetworkActivations(b.hiddenActivation, b.outputActivation)
	if err != nil {
		return nil, fmt.Errorf("neat: EvolutionBuilder.Build: %w", err)
	}

	registry := NewInnovationRegistry()
	rng := rand.New(rand.NewSource(1))

	species := make([]*Species, b.numSpecies)
	for i := 0; i < b.numSpecies; i++ {
		representative := NewGenome(
			b.inputNodes, b.outputNodes,
			registry, activations,
			b.mutationProbs, b.weightProbs,
			b.preestablishConns, b.windowSize,
			rand.New(rand.NewSource(rng.Int63())),
		)
		species[i] = NewSpecies(
			generateSpeciesName(rng), i, representative,
			b.speciesMemberCount, b.distanceThreshold, b.crossoverRetries,
			b.windowSize, rand.New(rand.NewSource(rng.Int63())),
		)
	}

	return &Evolution{
		species:            species,
		registry:           registry,
		evaluator:          b.evaluator,
		stopCondition:      b.stopCondition,
		replaceWorstEveryN: b.replaceWorstEveryN,
		parallelChunkSize:  b.parallelChunkSize,
		telemetry:          b.telemetry,
		rng:                rng,
	}, nil
}

// Evolution owns the full set of species, the shared innovation registry they draw
// from, and the fitness evaluator scoring every genome. It is the top-level object a
// caller drives generation by generation.
type Evolution struct {
	species       []*Species
	registry      *InnovationRegistry
	evaluator     FitnessEvaluator
	stopCondition StopCondition

	generation  int
	bestFitness float64
	bestGenome  *Genome

	replaceWorstEveryN int
	parallelChunkSize  int

	telemetry *telemetry.Recorder

	rng *rand.Rand
}

// Species exposes the current species, in builder order. The returned slice is a
// live view; callers should not mutate it.
func (e *Evolution) Species() []*Species {
	return e.species
}

// BestGenome returns the best genome found so far.
func (e *Evolution) BestGenome() *Genome {
	return e.bestGenome
}

// GenerationCount returns how many generations have completed.
func (e *Evolution) GenerationCount() int {
	return e.generation
}

// Generation runs exactly one generation: the generation counter advances first,
// then every species is evaluated and stepped (local crossover on cadence, then
// mutation) in parallel, the best genome across all species is tracked, and the
// worst species pool is periodically replaced. It returns true once any species'
// evaluation round has satisfied the stop condition against its own current
// average fitness and the generation counter.
func (e *Evolution) Generation() (bool, error) {
	e.generation++

	stopRequested := e.runSpeciesConcurrently()

	for _, sp := range e.species {
		for _, m := range sp.Members {
			if e.bestGenome == nil || m.Fitness > e.bestFitness {
				e.bestFitness = m.Fitness
				e.bestGenome = m
			}
		}
	}

	fmt.Printf("generation %d: best fitness = %.6f (species=%d)\n", e.generation, e.bestFitness, len(e.species))

	replacedName := ""
	if e.replaceWorstEveryN > 0 && e.generation%e.replaceWorstEveryN == 0 {
		replacedName = e.replaceWorstSpecies()
	}

	if e.telemetry != nil {
		for _, sp := range e.species {
			stat := telemetry.GenerationStat{
				Generation:     e.generation,
				SpeciesName:    sp.Name,
				AverageFitness: sp.AverageFitness(),
				BestFitness:    sp.BestMember().Fitness,
				PopulationSize: len(sp.Members),
				ReplacedWorst:  sp.Name == replacedName,
			}
			if err := e.telemetry.Record(stat); err != nil {
				return false, fmt.Errorf("neat: recording telemetry: %w", err)
			}
		}
	}

	return stopRequested, nil
}

// runSpeciesConcurrently evaluates and steps every species, splitting the species
// slice into chunks of parallelChunkSize and giving each chunk its own goroutine and
// its own clone of the fitness evaluator, since evaluators are not assumed
// goroutine-safe. Within a chunk, species run strictly evaluate -> stop check ->
// step, in order; across chunks no ordering is guaranteed. It reports whether any
// species' post-evaluation average fitness satisfied the stop condition.
func (e *Evolution) runSpeciesConcurrently() bool {
	chunkSize := e.parallelChunkSize
	if chunkSize <= 0 {
		chunkSize = 1
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	stopRequested := false

	for start := 0; start < len(e.species); start += chunkSize {
		end := start + chunkSize
		if end > len(e.species) {
			end = len(e.species)
		}
		chunk := e.species[start:end]

		wg.Add(1)
		go func(chunk []*Species) {
			defer wg.Done()
			evaluator := e.evaluator.Clone()
			for _, sp := range chunk {
				sp.Evaluate(evaluator)
				if e.stopCondition.ShouldStop(sp.AverageFitness(), e.generation) {
					mu.Lock()
					stopRequested = true
					mu.Unlock()
				}
				sp.Step(e.generation, evaluator)
			}
		}(chunk)
	}
	wg.Wait()
	return stopRequested
}

// replaceWorstSpecies finds the species with the lowest average fitness and
// replaces its entire pool with clones of the best genome found so far, each mutated once,
// giving the weakest lineage a fresh start seeded from the run's best result instead
// of letting it drift indefinitely. It returns the name of the replaced species, or
// "" if no replacement happened.
func (e *Evolution) replaceWorstSpecies() string {
	if e.bestGenome == nil || len(e.species) == 0 {
		return ""
	}

	worstIdx := 0
	worstAvg := e.species[0].AverageFitness()
	for i, sp := range e.species[1:] {
		if avg := sp.AverageFitness(); avg < worstAvg {
			worstAvg = avg
			worstIdx = i + 1
		}
	}

	worst := e.species[worstIdx]
	for i := range worst.Members {
		clone := e.bestGenome.Clone()
		clone.Mutate()
		worst.Members[i] = clone
	}
	fmt.Printf("generation %d: replaced species %q (avg fitness %.6f) with clones of the best genome\n", e.generation, worst.Name, worstAvg)
	return worst.Name
}

// Run drives Generation until the stop condition is satisfied or maxGenerations is
// reached (0 means no cap).
func (e *Evolution) Run(maxGenerations int) error {
	for maxGenerations <= 0 || e.generation < maxGenerations {
		stop, err := e.Generation()
		if err != nil {
			return err
		}
		if stop {
			return nil
		}
	}
	return nil
}
