package dag

import (
	"fmt"
	"sort"
	"strings"
)

// New creates and returns an initialized, empty Graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[string]*node),
	}
}

// AddNode adds a new node with the given ID to the graph. Node IDs are
// unique; adding an existing ID returns ErrDuplicateNode.
func (g *Graph) AddNode(id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("node id must not be empty")
	}

	g.mutex.Lock()
	defer g.mutex.Unlock()

	if _, ok := g.nodes[id]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateNode, id)
	}

	g.nodes[id] = &node{
		id:         id,
		seq:        len(g.order),
		deps:       make(map[string]*node),
		dependents: make(map[string]*node),
	}
	g.order = append(g.order, id)
	return nil
}

// Has reports whether a node with the given ID exists.
func (g *Graph) Has(id string) bool {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	_, ok := g.nodes[id]
	return ok
}

// Len returns the number of nodes in the graph.
func (g *Graph) Len() int {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	return len(g.nodes)
}

// AddEdge creates a directed edge from the `fromID` node to the `toID` node.
// This signifies that `toID` has a dependency on `fromID`. An error is returned
// if either node does not exist, or if the edge would create a cycle
// (a self-reference being the shortest one). Adding an existing edge again
// is a no-op.
func (g *Graph) AddEdge(fromID, toID string) error {
	if fromID == toID {
		return fmt.Errorf("%w: self-referential edge not allowed: %s -> %s", ErrCycle, fromID, fromID)
	}

	g.mutex.Lock()
	defer g.mutex.Unlock()

	fromNode, ok := g.nodes[fromID]
	if !ok {
		return fmt.Errorf("%w: source node %q", ErrUnknownNode, fromID)
	}

	toNode, ok := g.nodes[toID]
	if !ok {
		return fmt.Errorf("%w: destination node %q", ErrUnknownNode, toID)
	}

	if _, exists := toNode.deps[fromID]; exists {
		return nil
	}

	// The new edge closes a cycle iff fromID is already reachable from toID.
	if path := g.pathLocked(toNode, fromID); path != nil {
		return fmt.Errorf("%w: edge %s -> %s would close the loop %s",
			ErrCycle, fromID, toID, strings.Join(append(path, toID), " -> "))
	}

	toNode.deps[fromID] = fromNode
	fromNode.dependents[toID] = toNode

	return nil
}

// pathLocked returns the chain of node IDs leading from start to targetID
// along dependent edges, or nil when targetID is unreachable.
func (g *Graph) pathLocked(start *node, targetID string) []string {
	visited := make(map[string]bool)

	var walk func(n *node) []string
	walk = func(n *node) []string {
		if n.id == targetID {
			return []string{n.id}
		}
		if visited[n.id] {
			return nil
		}
		visited[n.id] = true
		for _, next := range sortedNodes(n.dependents) {
			if rest := walk(next); rest != nil {
				return append([]string{n.id}, rest...)
			}
		}
		return nil
	}
	return walk(start)
}

// Dependencies returns the sorted IDs of the nodes the given node depends on.
func (g *Graph) Dependencies(id string) ([]string, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	n, ok := g.nodes[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownNode, id)
	}
	return sortedKeys(n.deps), nil
}

// Dependents returns the sorted IDs of the nodes that depend on the given node.
func (g *Graph) Dependents(id string) ([]string, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	n, ok := g.nodes[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownNode, id)
	}
	return sortedKeys(n.dependents), nil
}

// Nodes returns all node IDs in insertion order.
func (g *Graph) Nodes() []string {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// Edges returns every edge, sorted by destination then source.
func (g *Graph) Edges() []Edge {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	var edges []Edge
	for _, id := range g.order {
		for _, dep := range sortedKeys(g.nodes[id].deps) {
			edges = append(edges, Edge{From: dep, To: id})
		}
	}
	sort.SliceStable(edges, func(i, j int) bool {
		if edges[i].To != edges[j].To {
			return edges[i].To < edges[j].To
		}
		return edges[i].From < edges[j].From
	})
	return edges
}

// DetectCycles checks the graph for any cycles. It returns a non-nil error
// if a cycle is found, indicating the first node involved in the detected cycle.
// AddEdge already refuses cyclic edges, so this is a final consistency check.
func (g *Graph) DetectCycles() error {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	// Use classic depth-first search with three sets of nodes:
	// permanent: nodes that have been fully visited and are not part of a cycle.
	// temporary: nodes currently in the recursion stack for the current traversal.
	// unvisited: all other nodes.
	permanent := make(map[string]bool)
	temporary := make(map[string]bool)

	var visit func(n *node) error
	visit = func(n *node) error {
		if permanent[n.id] {
			return nil
		}
		if temporary[n.id] {
			return fmt.Errorf("%w involving node '%s'", ErrCycle, n.id)
		}

		temporary[n.id] = true

		for _, dependent := range sortedNodes(n.dependents) {
			if err := visit(dependent); err != nil {
				return err
			}
		}

		delete(temporary, n.id)
		permanent[n.id] = true

		return nil
	}

	for _, id := range g.order {
		if err := visit(g.nodes[id]); err != nil {
			return err
		}
	}

	return nil
}

// TopologicalOrder returns every node ID such that each node appears after
// all of its dependencies. Among nodes that are ready at the same time,
// the one added first wins, so the order is stable across runs.
func (g *Graph) TopologicalOrder() ([]string, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	inDegree := make(map[string]int, len(g.nodes))
	ready := make([]*node, 0, len(g.nodes))
	for _, id := range g.order {
		n := g.nodes[id]
		inDegree[id] = len(n.deps)
		if len(n.deps) == 0 {
			ready = append(ready, n)
		}
	}

	ordered := make([]string, 0, len(g.nodes))
	for len(ready) > 0 {
		sort.Slice(ready, func(i, j int) bool { return ready[i].seq < ready[j].seq })
		n := ready[0]
		ready = ready[1:]
		ordered = append(ordered, n.id)
		for _, next := range n.dependents {
			inDegree[next.id]--
			if inDegree[next.id] == 0 {
				ready = append(ready, next)
			}
		}
	}

	if len(ordered) != len(g.nodes) {
		return nil, fmt.Errorf("%w: %d of %d nodes could not be ordered", ErrCycle, len(g.nodes)-len(ordered), len(g.nodes))
	}
	return ordered, nil
}

func sortedKeys(m map[string]*node) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedNodes(m map[string]*node) []*node {
	out := make([]*node, 0, len(m))
	for _, k := range sortedKeys(m) {
		out = append(out, m[k])
	}
	return out
}
