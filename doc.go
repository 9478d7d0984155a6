// Package neat provides a Go implementation of NeuroEvolution of Augmenting
// Topologies (NEAT): a genetic algorithm that evolves both the weights and the
// structure of small feedforward neural networks.
//
// A Genome is a set of nodes and weighted connections, each connection tagged with
// an innovation number shared process-wide by an InnovationRegistry so that two
// genomes which independently discover the same structural change can still be
// recombined gene-for-gene. A Species is a fixed-size pool of genomes descended from
// one representative, improved generation over generation by local fitness-weighted
// crossover and mutation. Evolution owns a set of species plus the registry they
// share, and drives them forward one generation at a time.
//
// Basic usage:
//
//	stop := neat.After(neat.FitnessReached(15.5)).Chain(neat.Or, neat.GenerationsReached(300))
//
//	evolution, err := neat.NewEvolution().
//		BatchSize(25).
//		WithSpeciesSize(6).
//		WithInputNodes(2).
//		WithOutputNodes(1).
//		WithStopCondition(stop).
//		SetFitnessEvaluator(myEvaluator{}).
//		Build()
//	if err != nil {
//		log.Fatalf("building evolution: %v", err)
//	}
//
//	if err := evolution.Run(0); err != nil {
//		log.Fatalf("running evolution: %v", err)
//	}
//
//	best := evolution.BestGenome()
package neat
