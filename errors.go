package neat

import "errors"

var (
	// errCyclicGraph is returned internally when a genome's connection set fails
	// Kahn's algorithm, i.e. contains a cycle. This should never surface to a caller
	// in practice since every mutation and crossover path is constructed to preserve
	// acyclicity; if it does, it indicates a bug in one of those paths rather than
	// bad input data.
	errCyclicGraph = errors.New("neat: genome connection graph contains a cycle")

	// ErrInputSize is returned by Evaluate when the supplied input slice does not
	// match the genome's configured input size.
	ErrInputSize = errors.New("neat: input slice length does not match genome input size")
)
