// Package render turns storyline diagrams into images.
//
// The [nodelink] subpackage emits Graphviz DOT with every node pinned to its
// layout position and renders it to SVG in-process. [ToPDF] and [ToPNG]
// convert that SVG with the external rsvg-convert tool (from librsvg):
//
//	dot := nodelink.ToDOT(d, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	pdf, err := render.ToPDF(ctx, svg)
//
// [nodelink]: github.com/matzehuels/storyforge/pkg/render/nodelink
package render
