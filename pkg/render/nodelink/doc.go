// Package nodelink renders storyline diagrams as node-link graphs.
//
// # Usage
//
// Build a diagram with pkg/story/diagram, convert it to DOT, then render:
//
//	dot := nodelink.ToDOT(d, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Positions
//
// Graphviz does not lay the graph out. Every node carries a pinned pos
// attribute taken from the diagram, and [RenderSVG] uses the neato engine,
// which keeps pinned nodes in place and only routes the edges. Diagram units
// map one to one onto points; the y axis is flipped because Graphviz grows
// upwards.
//
// # Styling
//
//   - Start event: bold outline
//   - Unreachable events: dashed outline and grey fill
//   - End events: double outline
//   - Edge labels: the slot label (Next, Win branch, Lose branch, Option n)
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package nodelink
