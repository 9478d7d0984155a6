package neat

import (
	"compress/gzip"
	"encoding/gob"
	"fmt"
	"io"
	"math/rand"
)

// genomeDTO is the on-disk representation of a genome: topology, weights, biases,
// enabled flags and node placement hints, plus the next node ID, the current fitness
// and the rolling fitness window. The transient per-node activation cache is deliberately
// excluded, since it is a byproduct of the last Evaluate call rather than part of the
// genome's identity, and a restored genome should compare bit-equal to the original
// on every field that actually defines it.
type genomeDTO struct {
	InputSize   int
	OutputSize  int
	NextNodeID  int
	Nodes       []nodeDTO
	Connections []connectionDTO
	Fitness     float64
	WindowSize  int
	Window      []float64
}

type nodeDTO struct {
	ID   int
	Kind NodeKind
	Bias float64
	X    float64
}

type connectionDTO struct {
	NodeIn     int
	NodeOut    int
	Weight     float64
	Enabled    bool
	Innovation int
}

func init() {
	gob.Register(genomeDTO{})
}

// Save encodes the genome as a gzip-compressed gob stream, matching the
// compression-plus-encoding pattern used for the rest of this stack's persisted
// artifacts.
func (g *Genome) Save(w io.Writer) error {
	dto := genomeDTO{
		InputSize:  g.InputSize,
		OutputSize: g.OutputSize,
		NextNodeID: g.nextNodeID,
		Fitness:    g.Fitness,
		WindowSize: g.windowSize,
		Window:     g.fitnessWindow,
	}
	for _, n := range g.Nodes {
		dto.Nodes = append(dto.Nodes, nodeDTO{ID: n.ID, Kind: n.Kind, Bias: n.Bias, X: n.X})
	}
	for _, c := range g.Connections {
		dto.Connections = append(dto.Connections, connectionDTO{
			NodeIn: c.NodeIn, NodeOut: c.NodeOut, Weight: c.Weight, Enabled: c.Enabled, Innovation: c.Innovation,
		})
	}

	gz := gzip.NewWriter(w)
	if err := gob.NewEncoder(gz).Encode(dto); err != nil {
		return fmt.Errorf("neat: encoding genome: %w", err)
	}
	if err := gz.Close(); err != nil {
		return fmt.Errorf("neat: closing genome gzip stream: %w", err)
	}
	return nil
}

// LoadGenome decodes a genome previously written by Save, rebinding it to the given
// shared InnovationRegistry and activation pair; neither of those is part of the
// serialized bytes, since they are process-wide configuration the caller supplies
// fresh at load time rather than state owned by any one genome.
func LoadGenome(
	r io.Reader,
	registry *InnovationRegistry,
	activations NetworkActivations,
	mutationProbs GenomeMutationProbabilities,
	weightProbs WeightChangeProbabilities,
	rng *rand.Rand,
) (*Genome, error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("neat: opening genome gzip stream: %w", err)
	}
	defer gz.Close()

	var dto genomeDTO
	if err := gob.NewDecoder(gz).Decode(&dto); err != nil {
		return nil, fmt.Errorf("neat: decoding genome: %w", err)
	}

	conns := make([]*ConnectionGene, len(dto.Connections))
	for i, c := range dto.Connections {
		conns[i] = &ConnectionGene{NodeIn: c.NodeIn, NodeOut: c.NodeOut, Weight: c.Weight, Enabled: c.Enabled, Innovation: c.Innovation}
	}

	g := newGenomeFromGenes(
		dto.InputSize, dto.OutputSize,
		registry, activations,
		mutationProbs, weightProbs,
		dto.WindowSize, rng,
		conns,
	)
	g.Fitness = dto.Fitness
	g.fitnessWindow = append([]float64(nil), dto.Window...)

	for _, n := range dto.Nodes {
		node := g.nodeByID(n.ID)
		node.Bias = n.Bias
		node.X = n.X
	}
	if dto.NextNodeID > g.nextNodeID {
		g.nextNodeID = dto.NextNodeID
	}

	return g, nil
}
