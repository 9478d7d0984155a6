package neat

import "fmt"

// NodeKind classifies a node's position in the network topology.
type NodeKind int

const (
	NodeInput NodeKind = iota
	NodeOutput
	NodeRegular
)

func (k NodeKind) String() string {
	switch k {
	case NodeInput:
		return "input"
	case NodeOutput:
		return "output"
	default:
		return "regular"
	}
}

// defaultBias matches the original implementation's default for freshly created nodes.
const defaultBias = 0.1

// NodeGene is a single node in a genome's graph. Input and output nodes are created
// once per genome and never removed; regular (hidden) nodes are created by the
// split_connection mutation.
//
// IncomingConnectionIndexes caches, for each node, the index into the owning genome's
// Connections slice of every connection that feeds it. It is an optimization over
// scanning the whole connection list during forward evaluation and must be kept in
// sync whenever a connection is added: RegisterNewIncoming is the only way to append
// to it, and it panics on an attempt to register the same connection index twice,
// since that would mean a bookkeeping bug elsewhere rather than a recoverable state.
type NodeGene struct {
	ID                        int
	Kind                      NodeKind
	Bias                      float64
	X                         float64
	IncomingConnectionIndexes []int

	activation float64 // last value produced by Evaluate; transient, not persisted
}

// NewNodeGene creates a node with the default bias and the given horizontal placement
// hint X, used only by the nn view package to lay nodes out for visualization.
func NewNodeGene(id int, kind NodeKind, x float64) *NodeGene {
	return &NodeGene{
		ID:   id,
		Kind: kind,
		Bias: defaultBias,
		X:    x,
	}
}

// RegisterNewIncoming records that the connection at connIndex feeds this node.
// Panics if connIndex is already registered, since that indicates a caller bug.
func (n *NodeGene) RegisterNewIncoming(connIndex int) {
	for _, idx := range n.IncomingConnectionIndexes {
		if idx == connIndex {
			panic(fmt.Sprintf("node %d: connection index %d registered twice", n.ID, connIndex))
		}
	}
	n.IncomingConnectionIndexes = append(n.IncomingConnectionIndexes, connIndex)
}

// SetIncomingIndexes overwrites the incoming-connection index cache wholesale, for
// callers that recompute the indexes all at once. Rebuilding a genome from a gene
// list inside this package (crossover, deserialization) does not use it; that path
// registers each connection through RegisterNewIncoming.
func (n *NodeGene) SetIncomingIndexes(indexes []int) {
	n.IncomingConnectionIndexes = indexes
}

// IsIndegreeZero reports whether no connection has been registered as feeding this
// node. True for every input node and for any node no connection points into yet.
// Disabling a connection leaves it registered, so a node whose only incoming
// connection is disabled still reports false.
func (n *NodeGene) IsIndegreeZero() bool {
	return len(n.IncomingConnectionIndexes) == 0
}

// Activation returns the value this node produced the last time Evaluate ran.
func (n *NodeGene) Activation() float64 {
	return n.activation
}

// SetActivation stores the value this node produced during the current Evaluate pass.
func (n *NodeGene) SetActivation(v float64) {
	n.activation = v
}

func (n *NodeGene) String() string {
	return fmt.Sprintf("NodeGene{id=%d kind=%s bias=%.4f incoming=%v}", n.ID, n.Kind, n.Bias, n.IncomingConnectionIndexes)
}

// Clone returns an independent copy of this node, including the incoming-index cache
// but excluding the transient activation value.
func (n *NodeGene) Clone() *NodeGene {
	indexes := make([]int, len(n.IncomingConnectionIndexes))
	copy(indexes, n.IncomingConnectionIndexes)
	return &NodeGene{
		ID:                        n.ID,
		Kind:                      n.Kind,
		Bias:                      n.Bias,
		X:                         n.X,
		IncomingConnectionIndexes: indexes,
	}
}

// ConnectionGene is a single directed, weighted edge between two nodes, tagged with
// the innovation number assigned by the shared InnovationRegistry when this exact
// edge was first created anywhere in the population.
type ConnectionGene struct {
	NodeIn     int
	NodeOut    int
	Weight     float64
	Enabled    bool
	Innovation int
}

// NewConnectionGene creates an enabled connection with the given weight and
// innovation number.
func NewConnectionGene(nodeIn, nodeOut int, weight float64, innovation int) *ConnectionGene {
	return &ConnectionGene{
		NodeIn:     nodeIn,
		NodeOut:    nodeOut,
		Weight:     weight,
		Enabled:    true,
		Innovation: innovation,
	}
}

// SetEnabled toggles whether this connection participates in forward evaluation. A
// disabled connection is retained in the genome (and contributes to the topology's
// acyclicity checks) rather than removed, so a later mutation can re-enable it.
func (c *ConnectionGene) SetEnabled(enabled bool) {
	c.Enabled = enabled
}

func (c *ConnectionGene) String() string {
	state := "enabled"
	if !c.Enabled {
		state = "disabled"
	}
	return fmt.Sprintf("ConnectionGene{%d->%d w=%.4f innov=%d %s}", c.NodeIn, c.NodeOut, c.Weight, c.Innovation, state)
}

// Clone returns an independent copy of this connection.
func (c *ConnectionGene) Clone() *ConnectionGene {
	clone := *c
	return &clone
}
