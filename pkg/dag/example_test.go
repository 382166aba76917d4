package dag_test

import (
	"fmt"

	"github.com/matzehuels/storyforge/pkg/dag"
)

func ExampleGraph_basic() {
	// intro → fork → (win | lose), lose loops back to intro
	g := dag.New()
	for _, id := range []string{"intro", "fork", "win", "lose"} {
		_ = g.AddNode(dag.Node{ID: id})
	}
	_ = g.AddEdge(dag.Edge{From: "intro", To: "fork"})
	_ = g.AddEdge(dag.Edge{From: "fork", To: "win"})
	_ = g.AddEdge(dag.Edge{From: "fork", To: "lose"})
	_ = g.AddEdge(dag.Edge{From: "lose", To: "intro"})

	fmt.Println("Nodes:", g.NodeCount())
	fmt.Println("Children of fork:", g.Children("fork"))
	// Output:
	// Nodes: 4
	// Children of fork: [win lose]
}

func ExampleGraph_Depths() {
	g := dag.New()
	for _, id := range []string{"a", "b", "c", "orphan"} {
		_ = g.AddNode(dag.Node{ID: id})
	}
	_ = g.AddEdge(dag.Edge{From: "a", To: "b"})
	_ = g.AddEdge(dag.Edge{From: "b", To: "c"})
	_ = g.AddEdge(dag.Edge{From: "a", To: "c"})

	d := g.Depths("a")
	fmt.Println("a:", d["a"], "b:", d["b"], "c:", d["c"])
	fmt.Println("Unreachable:", g.Unreachable("a"))
	// Output:
	// a: 0 b: 1 c: 1
	// Unreachable: [orphan]
}
