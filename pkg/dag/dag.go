package dag

import (
	"errors"
	"maps"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] when the node ID is
	// empty. All nodes must have non-empty identifiers.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Graph.AddNode] when a node with the
	// same ID already exists in the graph.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownSourceNode is returned by [Graph.AddEdge] when the From node
	// does not exist.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [Graph.AddEdge] when the To node
	// does not exist.
	ErrUnknownTargetNode = errors.New("unknown target node")
)

// Node is a vertex of the graph. Row is the layer assigned by a layout pass;
// it is -1 until [Graph.SetRows] gives the node a layer.
type Node struct {
	ID  string
	Row int
}

// Edge is a directed connection. Edges may form cycles and may connect nodes
// in any rows; story graphs loop back and skip layers freely.
type Edge struct {
	From string
	To   string
}

// Graph is a directed graph whose node order is the insertion order. Every
// query that returns several nodes returns them in that order, which makes
// traversals and layouts built on top of it deterministic.
//
// The zero value is not usable - use New to create a valid Graph instance.
// Graph is not safe for concurrent use without external synchronization.
type Graph struct {
	order    []string
	nodes    map[string]*Node
	outgoing map[string][]string
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodes:    make(map[string]*Node),
		outgoing: make(map[string][]string),
	}
}

// AddNode appends a node. Returns ErrInvalidNodeID if the ID is empty, or
// ErrDuplicateNodeID if it already exists.
func (g *Graph) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := g.nodes[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	g.nodes[n.ID] = &n
	g.order = append(g.order, n.ID)
	return nil
}

// AddEdge adds a directed edge between two existing nodes. Parallel edges and
// self loops are allowed.
func (g *Graph) AddEdge(e Edge) error {
	if _, ok := g.nodes[e.From]; !ok {
		return ErrUnknownSourceNode
	}
	if _, ok := g.nodes[e.To]; !ok {
		return ErrUnknownTargetNode
	}
	g.outgoing[e.From] = append(g.outgoing[e.From], e.To)
	return nil
}

// SetRows assigns rows from the map. Nodes absent from the map keep their
// current row.
func (g *Graph) SetRows(rows map[string]int) {
	for id, row := range rows {
		if n, ok := g.nodes[id]; ok {
			n.Row = row
		}
	}
}

// NodeIDs returns all node ids in insertion order.
func (g *Graph) NodeIDs() []string { return slices.Clone(g.order) }

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// Node returns the node with the given ID and true, or nil and false.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Children returns the targets of the node's outgoing edges in edge order.
// The returned slice should be treated as read-only.
func (g *Graph) Children(id string) []string { return g.outgoing[id] }

// NodesInRow returns the nodes assigned to row in insertion order.
func (g *Graph) NodesInRow(row int) []*Node {
	var out []*Node
	for _, id := range g.order {
		if n := g.nodes[id]; n.Row == row {
			out = append(out, n)
		}
	}
	return out
}

// RowIDs returns all distinct row indices in ascending order.
func (g *Graph) RowIDs() []int {
	rows := make(map[int]struct{}, len(g.nodes))
	for _, n := range g.nodes {
		rows[n.Row] = struct{}{}
	}
	return slices.Sorted(maps.Keys(rows))
}
