// Package nn provides a read-only, dependency-free snapshot of a genome's phenotype
// for observers outside the evolutionary core: a visualization front end, a
// telemetry exporter, a debugger. It never evaluates a network itself, that stays
// the core engine's job via Genome.Evaluate, so a view can never drift from the
// genome it was built from by running stale code against it.
package nn

import "github.com/baldhumanity/neat-go"

// NodeView is an immutable snapshot of one node, laid out on a normalized [0, 1]
// horizontal axis (input nodes at X=0, output nodes at X=1, hidden nodes wherever
// the genome placed them) for a caller to turn into a diagram.
type NodeView struct {
	ID   int
	Kind neat.NodeKind
	Bias float64
	X    float64
}

// ConnectionView is an immutable snapshot of one connection.
type ConnectionView struct {
	NodeIn  int
	NodeOut int
	Weight  float64
	Enabled bool
}

// View is a complete read-only snapshot of a genome's topology, independent of the
// genome's own mutable state: mutating the genome afterward does not change an
// already-built View.
type View struct {
	Nodes           []NodeView
	Connections     []ConnectionView
	EvaluationOrder []int
}

// NewView builds a View from a genome's current state. It fails only if the
// genome's connections do not form a DAG, which should never happen for a genome
// produced by this module's own construction and mutation paths.
func NewView(g *neat.Genome) (*View, error) {
	order, err := g.EvaluationOrder()
	if err != nil {
		return nil, err
	}

	v := &View{EvaluationOrder: order}
	for _, n := range g.Nodes {
		v.Nodes = append(v.Nodes, NodeView{ID: n.ID, Kind: n.Kind, Bias: n.Bias, X: n.X})
	}
	for _, c := range g.Connections {
		v.Connections = append(v.Connections, ConnectionView{
			NodeIn: c.NodeIn, NodeOut: c.NodeOut, Weight: c.Weight, Enabled: c.Enabled,
		})
	}
	return v, nil
}
