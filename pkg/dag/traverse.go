package dag

// Depths runs a breadth-first search from start and returns the shortest hop
// count of every reached node. Each edge is followed once per visited
// source and the first visit wins, so the recorded depth is minimal.
//
// An unknown or empty start yields an empty map.
func (g *Graph) Depths(start string) map[string]int {
	depth := make(map[string]int, len(g.nodes))
	if _, ok := g.Node(start); !ok {
		return depth
	}

	depth[start] = 0
	queue := []string{start}
	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]
		for _, child := range g.Children(curr) {
			if _, seen := depth[child]; seen {
				continue
			}
			depth[child] = depth[curr] + 1
			queue = append(queue, child)
		}
	}
	return depth
}

// Reachable returns the set of nodes reachable from start, including start.
func (g *Graph) Reachable(start string) map[string]bool {
	depths := g.Depths(start)
	out := make(map[string]bool, len(depths))
	for id := range depths {
		out[id] = true
	}
	return out
}

// Unreachable returns the nodes not reachable from start, in insertion order.
// With an unknown start every node is unreachable.
func (g *Graph) Unreachable(start string) []string {
	reach := g.Reachable(start)
	var out []string
	for _, id := range g.order {
		if !reach[id] {
			out = append(out, id)
		}
	}
	return out
}
