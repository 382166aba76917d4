package story

import "github.com/matzehuels/storyforge/pkg/dag"

// Graph converts the storyline into a directed graph. Nodes follow event
// order; edges follow slot order and only cover targets that name an existing
// event, so dangling references never become edges. Node rows start at -1
// (unassigned).
func Graph(s Storyline) *dag.Graph {
	g := dag.New()
	for _, e := range s.Events {
		// Duplicate ids are rejected by AddNode; the first event wins.
		_ = g.AddNode(dag.Node{ID: e.ID, Row: -1})
	}
	for _, e := range s.Events {
		for _, t := range Targets(e) {
			// Unknown targets fail AddEdge and are skipped on purpose.
			_ = g.AddEdge(dag.Edge{From: e.ID, To: t.EventID})
		}
	}
	return g
}
