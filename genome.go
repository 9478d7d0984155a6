package neat

import (
	"fmt"
	"math/rand"
	"sort"
)

// GenomeMutationProbabilities is the weighted event table Mutate draws a single
// structural or non-structural event from every time it is called. The weights are
// not percentages; they are relative weights walked cumulatively, matching the
// original implementation's mutation table.
type GenomeMutationProbabilities struct {
	ChangeWeight     int
	SplitConnection  int
	CreateConnection int
	ToggleWeight     int
	Nothing          int
}

// DefaultGenomeMutationProbabilities mirrors the original implementation's defaults.
func DefaultGenomeMutationProbabilities() GenomeMutationProbabilities {
	return GenomeMutationProbabilities{
		ChangeWeight:     100,
		SplitConnection:  5,
		CreateConnection: 8,
		ToggleWeight:     2,
		Nothing:          20,
	}
}

// WeightChangeProbabilities is the weighted sub-table consulted when the
// change_weight event is chosen, controlling how an individual connection weight is
// perturbed.
type WeightChangeProbabilities struct {
	AdditionSmall       int
	AdditionLarge       int
	MultiplicationSmall int
	MultiplicationLarge int
	ChangeSign          int
}

// DefaultWeightChangeProbabilities mirrors the original implementation's defaults.
func DefaultWeightChangeProbabilities() WeightChangeProbabilities {
	return WeightChangeProbabilities{
		AdditionSmall:       20,
		AdditionLarge:       5,
		MultiplicationSmall: 20,
		MultiplicationLarge: 5,
		ChangeSign:          5,
	}
}

const (
	smallWeightDelta = 0.1
	largeWeightDelta = 1.0
	smallFactorSpan  = 0.1 // multiplicative factor drawn from [1-span, 1+span]
	largeFactorSpan  = 0.5
	newConnAttempts  = 20
)

// Genome is a single evolvable network: a set of nodes and the weighted connections
// between them, annotated with the innovation numbers that let two independently
// mutated genomes be recombined gene-for-gene.
//
// Nodes always holds InputSize input nodes at IDs [0, InputSize), then OutputSize
// output nodes at IDs [InputSize, InputSize+OutputSize), then any number of hidden
// nodes created by split_connection mutations, in creation order. This ID scheme is
// an invariant every construction path preserves, and Evaluate relies on it to find
// the output nodes without a lookup.
type Genome struct {
	InputSize  int
	OutputSize int

	Nodes       []*NodeGene
	Connections []*ConnectionGene

	nodeIndex  map[int]int     // node ID -> index into Nodes
	edgeIndex  map[edgeKey]int // (nodeIn,nodeOut) -> index into Connections, this genome only
	nextNodeID int

	registry      *InnovationRegistry
	activations   NetworkActivations
	mutationProbs GenomeMutationProbabilities
	weightProbs   WeightChangeProbabilities

	Fitness       float64
	fitnessWindow []float64
	windowSize    int

	topoOrder []int
	topoValid bool

	rng *rand.Rand
}

// NewGenome creates a genome with InputSize input nodes and OutputSize output nodes
// and no hidden nodes. When preestablishConnections is true every input is connected
// to every output with a small random weight, registering an innovation number for
// each such edge through registry; otherwise the genome starts with no connections at
// all and relies on create_connection mutations to grow structure.
func NewGenome(
	inputSize, outputSize int,
	registry *InnovationRegistry,
	activations NetworkActivations,
	mutationProbs GenomeMutationProbabilities,
	weightProbs WeightChangeProbabilities,
	preestablishConnections bool,
	windowSize int,
	rng *rand.Rand,
) *Genome {
	g := &Genome{
		InputSize:     inputSize,
		OutputSize:    outputSize,
		nodeIndex:     make(map[int]int, inputSize+outputSize),
		edgeIndex:     make(map[edgeKey]int),
		registry:      registry,
		activations:   activations,
		mutationProbs: mutationProbs,
		weightProbs:   weightProbs,
		windowSize:    windowSize,
		rng:           rng,
	}

	for i := 0; i < inputSize; i++ {
		g.addNode(NewNodeGene(i, NodeInput, 0))
	}
	for i := 0; i < outputSize; i++ {
		g.addNode(NewNodeGene(inputSize+i, NodeOutput, 1))
	}
	g.nextNodeID = inputSize + outputSize

	if preestablishConnections {
		for i := 0; i < inputSize; i++ {
			for o := 0; o < outputSize; o++ {
				in, out := i, inputSize+o
				innov := registry.GetOrIssue(in, out)
				weight := rng.Float64()*2 - 1
				g.addConnection(NewConnectionGene(in, out, weight, innov))
			}
		}
	}

	g.invalidateTopology()
	return g
}

// newGenomeFromGenes rebuilds a genome from an explicit connection list, used by
// Crossover and by checkpoint restoration. The node set is derived from InputSize and
// OutputSize plus whatever hidden node IDs appear as endpoints of conns.
func newGenomeFromGenes(
	inputSize, outputSize int,
	registry *InnovationRegistry,
	activations NetworkActivations,
	mutationProbs GenomeMutationProbabilities,
	weightProbs WeightChangeProbabilities,
	windowSize int,
	rng *rand.Rand,
	conns []*ConnectionGene,
) *Genome {
	g := &Genome{
		InputSize:     inputSize,
		OutputSize:    outputSize,
		nodeIndex:     make(map[int]int, inputSize+outputSize),
		edgeIndex:     make(map[edgeKey]int, len(conns)),
		registry:      registry,
		activations:   activations,
		mutationProbs: mutationProbs,
		weightProbs:   weightProbs,
		windowSize:    windowSize,
		rng:           rng,
	}

	for i := 0; i < inputSize; i++ {
		g.addNode(NewNodeGene(i, NodeInput, 0))
	}
	for i := 0; i < outputSize; i++ {
		g.addNode(NewNodeGene(inputSize+i, NodeOutput, 1))
	}

	maxHidden := inputSize + outputSize - 1
	for _, c := range conns {
		for _, id := range []int{c.NodeIn, c.NodeOut} {
			if id > maxHidden {
				maxHidden = id
			}
			if _, ok := g.nodeIndex[id]; !ok {
				g.addNode(NewNodeGene(id, NodeRegular, 0.5))
			}
		}
	}
	g.nextNodeID = maxHidden + 1

	for _, c := range conns {
		g.addConnection(c.Clone())
	}

	g.invalidateTopology()
	return g
}

func (g *Genome) addNode(n *NodeGene) {
	g.nodeIndex[n.ID] = len(g.Nodes)
	g.Nodes = append(g.Nodes, n)
}

func (g *Genome) nodeByID(id int) *NodeGene {
	return g.Nodes[g.nodeIndex[id]]
}

func (g *Genome) addConnection(c *ConnectionGene) {
	idx := len(g.Connections)
	g.Connections = append(g.Connections, c)
	g.edgeIndex[edgeKey{NodeIn: c.NodeIn, NodeOut: c.NodeOut}] = idx
	g.nodeByID(c.NodeOut).RegisterNewIncoming(idx)
	g.invalidateTopology()
}

// Evaluate runs a single forward pass. Nodes are visited in topological order so
// every source value is final by the time a downstream node reads it; disabled
// connections are skipped entirely. Output-node activation is applied only after
// every output node's weighted sum has been accumulated, since Softmax normalizes
// across the whole output layer rather than per node.
func (g *Genome) Evaluate(inputs []float64) ([]float64, error) {
	if len(inputs) != g.InputSize {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInputSize, len(inputs), g.InputSize)
	}

	for i := 0; i < g.InputSize; i++ {
		g.Nodes[i].SetActivation(inputs[i])
	}

	order, err := g.topologicalOrder()
	if err != nil {
		return nil, err
	}

	outputRaw := make([]float64, g.OutputSize)
	hiddenFn := g.activations.Hidden()

	for _, idx := range order {
		node := g.Nodes[idx]
		if node.Kind == NodeInput {
			continue
		}

		raw := node.Bias
		for _, ci := range node.IncomingConnectionIndexes {
			conn := g.Connections[ci]
			if !conn.Enabled {
				continue
			}
			raw += conn.Weight * g.nodeByID(conn.NodeIn).Activation()
		}

		if node.Kind == NodeOutput {
			outputRaw[node.ID-g.InputSize] = raw
			continue
		}
		node.SetActivation(hiddenFn([]float64{raw}, 0))
	}

	outputFn := g.activations.Output()
	result := make([]float64, g.OutputSize)
	for i := 0; i < g.OutputSize; i++ {
		v := outputFn(outputRaw, i)
		g.nodeByID(g.InputSize + i).SetActivation(v)
		result[i] = v
	}
	return result, nil
}

// Mutate applies exactly one event drawn from the genome's mutation probability
// table: a weight perturbation, a structural split or new connection, an enable-flag
// toggle, or no-op.
func (g *Genome) Mutate() {
	p := g.mutationProbs
	weights := []int{p.ChangeWeight, p.SplitConnection, p.CreateConnection, p.ToggleWeight, p.Nothing}
	switch WeightedChoice(weights, g.rng) {
	case 0:
		g.mutateChangeWeight()
	case 1:
		g.mutateSplitConnection()
	case 2:
		g.mutateCreateConnection()
	case 3:
		g.mutateToggleWeight()
	default:
		// nothing
	}
}

func (g *Genome) mutateChangeWeight() {
	if len(g.Connections) == 0 {
		return
	}
	c := g.Connections[g.rng.Intn(len(g.Connections))]
	c.Weight = mutateWeight(c.Weight, g.weightProbs, g.rng)
}

// mutateWeight applies one of five weighted events to a connection weight, matching
// the original implementation's change_weight sub-table.
func mutateWeight(weight float64, p WeightChangeProbabilities, rng *rand.Rand) float64 {
	weights := []int{p.AdditionSmall, p.AdditionLarge, p.MultiplicationSmall, p.MultiplicationLarge, p.ChangeSign}
	switch WeightedChoice(weights, rng) {
	case 0:
		return weight + (rng.Float64()*2-1)*smallWeightDelta
	case 1:
		return weight + (rng.Float64()*2-1)*largeWeightDelta
	case 2:
		factor := 1 + (rng.Float64()*2-1)*smallFactorSpan
		return weight * factor
	case 3:
		factor := 1 + (rng.Float64()*2-1)*largeFactorSpan
		return weight * factor
	default:
		return -weight
	}
}

func (g *Genome) mutateSplitConnection() {
	enabled := make([]*ConnectionGene, 0, len(g.Connections))
	for _, c := range g.Connections {
		if c.Enabled {
			enabled = append(enabled, c)
		}
	}
	if len(enabled) == 0 {
		return
	}
	conn := enabled[g.rng.Intn(len(enabled))]
	conn.SetEnabled(false)

	newID := g.nextNodeID
	g.nextNodeID++
	newNode := NewNodeGene(newID, NodeRegular, 0.5)
	g.addNode(newNode)

	innovIn := g.registry.GetOrIssue(conn.NodeIn, newID)
	innovOut := g.registry.GetOrIssue(newID, conn.NodeOut)
	g.addConnection(NewConnectionGene(conn.NodeIn, newID, 1.0, innovIn))
	g.addConnection(NewConnectionGene(newID, conn.NodeOut, conn.Weight, innovOut))
}

func (g *Genome) mutateCreateConnection() {
	for attempt := 0; attempt < newConnAttempts; attempt++ {
		in := g.Nodes[g.rng.Intn(len(g.Nodes))]
		out := g.Nodes[g.rng.Intn(len(g.Nodes))]
		if in.Kind == NodeOutput || out.Kind == NodeInput {
			continue
		}
		if _, exists := g.edgeIndex[edgeKey{NodeIn: in.ID, NodeOut: out.ID}]; exists {
			continue
		}
		if g.createsCycle(in.ID, out.ID) {
			continue
		}
		innov := g.registry.GetOrIssue(in.ID, out.ID)
		weight := g.rng.Float64()*2 - 1
		g.addConnection(NewConnectionGene(in.ID, out.ID, weight, innov))
		return
	}
}

func (g *Genome) mutateToggleWeight() {
	if len(g.Connections) == 0 {
		return
	}
	c := g.Connections[g.rng.Intn(len(g.Connections))]
	c.SetEnabled(!c.Enabled)
}

// recordFitness pushes a new score onto the rolling fitness window, dropping the
// oldest entry once the window is full, and updates Fitness to the window's mean.
func (g *Genome) recordFitness(score float64) {
	g.fitnessWindow = append(g.fitnessWindow, score)
	if len(g.fitnessWindow) > g.windowSize {
		g.fitnessWindow = g.fitnessWindow[len(g.fitnessWindow)-g.windowSize:]
	}
	g.Fitness = Mean(g.fitnessWindow)
}

// distanceCoefficients: excess weight, disjoint weight, mean-weight-diff weight.
// The genetic-distance split between genomes, as in the original species-level
// implementation.
const (
	distanceC1 = 1.0 // excess
	distanceC2 = 1.0 // disjoint
	distanceC3 = 0.4 // average weight difference
)

// Distance computes the genetic distance between g and other as
// c1*E/N + c2*D/N + c3*W̄, where E and D are excess and disjoint gene counts by
// innovation number, N is the larger of the two genomes' connection counts (1 if
// both are empty, to avoid a division by zero), and W̄ is the mean weight
// difference over matching genes.
func (g *Genome) Distance(other *Genome) float64 {
	a := sortedByInnovation(g.Connections)
	b := sortedByInnovation(other.Connections)

	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	if n == 0 {
		n = 1
	}

	var excess, disjoint int
	var weightDiffSum float64
	var matching int

	maxInnovA, maxInnovB := -1, -1
	if len(a) > 0 {
		maxInnovA = a[len(a)-1].Innovation
	}
	if len(b) > 0 {
		maxInnovB = b[len(b)-1].Innovation
	}

	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i].Innovation == b[j].Innovation:
			weightDiffSum += absFloat(a[i].Weight - b[j].Weight)
			matching++
			i++
			j++
		case a[i].Innovation < b[j].Innovation:
			if a[i].Innovation > maxInnovB {
				excess++
			} else {
				disjoint++
			}
			i++
		default:
			if b[j].Innovation > maxInnovA {
				excess++
			} else {
				disjoint++
			}
			j++
		}
	}
	for ; i < len(a); i++ {
		excess++
	}
	for ; j < len(b); j++ {
		excess++
	}

	meanWeightDiff := 0.0
	if matching > 0 {
		meanWeightDiff = weightDiffSum / float64(matching)
	}

	return distanceC1*float64(excess)/float64(n) + distanceC2*float64(disjoint)/float64(n) + distanceC3*meanWeightDiff
}

func sortedByInnovation(conns []*ConnectionGene) []*ConnectionGene {
	out := make([]*ConnectionGene, len(conns))
	copy(out, conns)
	sort.Slice(out, func(i, j int) bool { return out[i].Innovation < out[j].Innovation })
	return out
}

func absFloat(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

// Crossover produces a child genome whose topology is exactly the fitter parent's
// topology: every connection the fitter parent has, the child has too. For genes
// that also exist in the weaker parent (matched by innovation number), the child's
// weight is drawn from either parent with equal probability, and the enabled flag
// follows the standard NEAT rule: if either parent has the gene disabled, the child
// has a 75% chance of inheriting it disabled as well. Because the child's edge set is
// always a subset of the fitter parent's own (already acyclic) edge set, the result
// is guaranteed acyclic without any extra checking.
func Crossover(parent1, parent2 *Genome, rng *rand.Rand) *Genome {
	fitter, weaker := parent1, parent2
	if parent2.Fitness > parent1.Fitness {
		fitter, weaker = parent2, parent1
	}

	weakerByInnov := make(map[int]*ConnectionGene, len(weaker.Connections))
	for _, c := range weaker.Connections {
		weakerByInnov[c.Innovation] = c
	}

	childConns := make([]*ConnectionGene, 0, len(fitter.Connections))
	for _, fc := range fitter.Connections {
		childConn := fc.Clone()
		if wc, ok := weakerByInnov[fc.Innovation]; ok {
			if rng.Float64() < 0.5 {
				childConn.Weight = wc.Weight
			}
			if !fc.Enabled || !wc.Enabled {
				childConn.Enabled = rng.Float64() < 0.25
			}
		}
		childConns = append(childConns, childConn)
	}

	return newGenomeFromGenes(
		fitter.InputSize, fitter.OutputSize,
		fitter.registry, fitter.activations,
		fitter.mutationProbs, fitter.weightProbs,
		fitter.windowSize, rng,
		childConns,
	)
}

// Clone returns a deep, independent copy of g, including its fitness window but
// sharing the same InnovationRegistry (innovation numbers are process-wide, not
// per-genome).
func (g *Genome) Clone() *Genome {
	conns := make([]*ConnectionGene, len(g.Connections))
	for i, c := range g.Connections {
		conns[i] = c.Clone()
	}
	clone := newGenomeFromGenes(
		g.InputSize, g.OutputSize,
		g.registry, g.activations,
		g.mutationProbs, g.weightProbs,
		g.windowSize, g.rng,
		conns,
	)
	for id, idx := range g.nodeIndex {
		clone.nodeByID(id).Bias = g.Nodes[idx].Bias
	}
	clone.Fitness = g.Fitness
	clone.fitnessWindow = append([]float64(nil), g.fitnessWindow...)
	return clone
}

func (g *Genome) String() string {
	return fmt.Sprintf("Genome{nodes=%d connections=%d fitness=%.4f}", len(g.Nodes), len(g.Connections), g.Fitness)
}
