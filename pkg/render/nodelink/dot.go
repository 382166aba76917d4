package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/storyforge/pkg/story"
	"github.com/matzehuels/storyforge/pkg/story/diagram"
	"github.com/matzehuels/storyforge/pkg/story/layout"
)

// pointsPerInch converts diagram units (points) into Graphviz inches.
const pointsPerInch = 72.0

// Options configures DOT generation.
type Options struct {
	// NodeWidth and NodeHeight are the node size in diagram units. Zero
	// values take the layout defaults.
	NodeWidth, NodeHeight int

	// Detailed adds the content kind and node type to node labels.
	Detailed bool
}

// ToDOT converts a diagram to Graphviz DOT. Node positions are pinned, so the
// output is meant for [RenderSVG] or `neato -n`, not for the dot engine.
func ToDOT(d diagram.Diagram, opts Options) string {
	w, h := opts.NodeWidth, opts.NodeHeight
	if w <= 0 {
		w = layout.DefaultNodeWidth
	}
	if h <= 0 {
		h = layout.DefaultNodeHeight
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  inputscale=72;\n")
	buf.WriteString("  splines=true;\n")
	fmt.Fprintf(&buf, "  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, fixedsize=true, width=%s, height=%s];\n",
		inches(w), inches(h))
	buf.WriteString("  edge [fontsize=11];\n")
	buf.WriteString("\n")

	for _, n := range d.Nodes {
		x := n.X + w/2
		y := -(n.Y + h/2)
		attrs := []string{
			fmt.Sprintf("label=%q", fmtLabel(n, opts.Detailed)),
			fmt.Sprintf("pos=\"%d,%d!\"", x, y),
		}
		attrs = append(attrs, styleAttrs(n)...)
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range d.Edges {
		fmt.Fprintf(&buf, "  %q -> %q [label=%q, id=%q];\n", e.Source, e.Target, e.Label, e.ID)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n diagram.Node, detailed bool) string {
	if !detailed {
		return n.Label
	}
	return fmt.Sprintf("%s\n%s / %s", n.Label, n.Kind, n.NodeType)
}

func styleAttrs(n diagram.Node) []string {
	style := []string{"rounded", "filled"}
	var attrs []string
	if !n.Reachable {
		style = append(style, "dashed")
		attrs = append(attrs, "fillcolor=lightgrey")
	}
	if n.Start {
		style = append(style, "bold")
	}
	if n.Kind == story.KindEnd {
		attrs = append(attrs, "peripheries=2")
	}
	return append([]string{fmt.Sprintf("style=%q", strings.Join(style, ","))}, attrs...)
}

func inches(units int) string {
	return strconv.FormatFloat(float64(units)/pointsPerInch, 'f', 4, 64)
}

// RenderSVG renders DOT produced by [ToDOT] to SVG with the neato engine.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the root svg tag so the image scales with its
// container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
