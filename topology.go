package neat

// topologicalOrder returns the node indexes of g.Nodes in an order such that every
// node appears after all nodes that feed it through an enabled connection, using
// Kahn's algorithm. The result is deterministic: nodes with no remaining dependency
// are processed in ascending index order, so two genomes with identical topology
// always evaluate in the same order regardless of map iteration or mutation history.
//
// Ties are broken by node index rather than node ID because the index is what the
// rest of the evaluation machinery (IncomingConnectionIndexes, adjacency scans) is
// keyed on; ID is only a stable identity, not a position.
func (g *Genome) topologicalOrder() ([]int, error) {
	if g.topoValid {
		return g.topoOrder, nil
	}

	n := len(g.Nodes)
	indexOf := make(map[int]int, n)
	for i, node := range g.Nodes {
		indexOf[node.ID] = i
	}

	indegree := make([]int, n)
	adjacency := make([][]int, n)
	for _, conn := range g.Connections {
		fromIdx, okFrom := indexOf[conn.NodeIn]
		toIdx, okTo := indexOf[conn.NodeOut]
		if !okFrom || !okTo {
			continue
		}
		adjacency[fromIdx] = append(adjacency[fromIdx], toIdx)
		indegree[toIdx]++
	}

	ready := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if indegree[i] == 0 {
			ready = append(ready, i)
		}
	}

	order := make([]int, 0, n)
	for len(ready) > 0 {
		// Smallest-index-first keeps the order deterministic across runs.
		minPos := 0
		for i := 1; i < len(ready); i++ {
			if ready[i] < ready[minPos] {
				minPos = i
			}
		}
		cur := ready[minPos]
		ready = append(ready[:minPos], ready[minPos+1:]...)
		order = append(order, cur)

		for _, next := range adjacency[cur] {
			indegree[next]--
			if indegree[next] == 0 {
				ready = append(ready, next)
			}
		}
	}

	if len(order) != n {
		return nil, errCyclicGraph
	}

	g.topoOrder = order
	g.topoValid = true
	return order, nil
}

// EvaluationOrder returns the node IDs of this genome in the order Evaluate visits
// them: every node after every node that feeds it through an enabled connection.
// Exported for observers (the nn package's read-only view, telemetry, visualization)
// that want to understand or render evaluation order without reaching into the
// engine's internal node-index bookkeeping.
func (g *Genome) EvaluationOrder() ([]int, error) {
	order, err := g.topologicalOrder()
	if err != nil {
		return nil, err
	}
	ids := make([]int, len(order))
	for i, idx := range order {
		ids[i] = g.Nodes[idx].ID
	}
	return ids, nil
}

// invalidateTopology must be called after any structural change to Nodes or
// Connections (adding a node or adding a connection; toggling enabled state does
// not change the graph used here, since the order is built over disabled edges
// too) so the next Evaluate or EvaluationOrder call recomputes the cached order.
func (g *Genome) invalidateTopology() {
	g.topoValid = false
	g.topoOrder = nil
}

// createsCycle reports whether adding a directed edge nodeIn->nodeOut would create a
// cycle in the graph formed by every connection the genome currently holds,
// enabled or disabled alike: a disabled connection can always be re-enabled later,
// so the acyclicity invariant must hold for the full edge set, not just the active
// subgraph.
func (g *Genome) createsCycle(nodeIn, nodeOut int) bool {
	if nodeIn == nodeOut {
		return true
	}

	// A cycle would be created iff nodeOut can already reach nodeIn.
	visited := make(map[int]bool)
	stack := []int{nodeOut}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cur == nodeIn {
			return true
		}
		if visited[cur] {
			continue
		}
		visited[cur] = true
		for _, conn := range g.Connections {
			if conn.NodeIn == cur {
				stack = append(stack, conn.NodeOut)
			}
		}
	}
	return false
}
