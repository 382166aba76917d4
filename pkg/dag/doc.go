// Package dag provides an ordered directed graph used to analyse storylines.
//
// # Overview
//
// Storyline events and their transitions form a directed graph that may
// contain cycles (a lose branch looping back to an earlier event) and edges
// that skip layers. This package keeps the graph structure independent of
// event content so the validator and the layout engine share one traversal implementation.
//
// # Basic Usage
//
// Create a graph with [New], add nodes with [Graph.AddNode] and edges with
// [Graph.AddEdge]:
//
//	g := dag.New()
//	g.AddNode(dag.Node{ID: "intro"})
//	g.AddNode(dag.Node{ID: "fork"})
//	g.AddEdge(dag.Edge{From: "intro", To: "fork"})
//
// # Ordering
//
// Node order is insertion order and edge order is insertion order. Every
// method returning several nodes preserves it, so a caller that inserts
// events in authoring order gets deterministic results without sorting.
//
// # Traversal
//
// [Graph.Depths] runs a breadth-first search and records the shortest hop
// count from a start node; [Graph.Reachable] and [Graph.Unreachable] are
// derived from it.
//
// # Concurrency
//
// Graph is not safe for concurrent mutation. Concurrent reads are safe once
// construction has finished.
package dag
