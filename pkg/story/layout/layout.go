// Package layout places storyline events on a layered grid.
//
// Events are assigned to rows by their shortest distance from the start event
// and to columns by their position in the storyline's event list. Events that
// cannot be reached are appended below the reachable part in rows of at most
// [Options.OrphanColumns] events. There is no crossing minimization: the
// authoring order within a row is already meaningful and storylines are
// small.
//
// [Compute] is a pure function of the event order, the start event and the
// connected transition targets, so two calls on the same storyline yield
// identical coordinates.
package layout

import (
	"maps"
	"slices"

	"github.com/matzehuels/storyforge/pkg/dag"
	"github.com/matzehuels/storyforge/pkg/story"
)

// Default geometry in diagram units.
const (
	DefaultMarginX       = 40
	DefaultMarginY       = 40
	DefaultNodeWidth     = 240
	DefaultNodeHeight    = 100
	DefaultGapX          = 60
	DefaultGapY          = 80
	DefaultOrphanColumns = 6
)

// Options controls the grid geometry. The zero value means [DefaultOptions].
type Options struct {
	MarginX, MarginY      int
	NodeWidth, NodeHeight int
	GapX, GapY            int

	// OrphanColumns is the number of unreachable events per synthetic row.
	OrphanColumns int
}

// DefaultOptions returns the default geometry.
func DefaultOptions() Options {
	return Options{
		MarginX:       DefaultMarginX,
		MarginY:       DefaultMarginY,
		NodeWidth:     DefaultNodeWidth,
		NodeHeight:    DefaultNodeHeight,
		GapX:          DefaultGapX,
		GapY:          DefaultGapY,
		OrphanColumns: DefaultOrphanColumns,
	}
}

// withDefaults treats the zero Options as the default geometry. Otherwise
// zero margins and gaps are kept; negative ones, and non-positive sizes or
// orphan columns, take their defaults.
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o == (Options{}) {
		return d
	}
	fill := func(v *int, def int, allowZero bool) {
		if *v < 0 || (*v == 0 && !allowZero) {
			*v = def
		}
	}
	fill(&o.MarginX, d.MarginX, true)
	fill(&o.MarginY, d.MarginY, true)
	fill(&o.GapX, d.GapX, true)
	fill(&o.GapY, d.GapY, true)
	fill(&o.NodeWidth, d.NodeWidth, false)
	fill(&o.NodeHeight, d.NodeHeight, false)
	fill(&o.OrphanColumns, d.OrphanColumns, false)
	return o
}

// Position is the placement of one event. X and Y are the top-left corner of
// the node box.
type Position struct {
	ID     string `json:"id"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Level  int    `json:"level"`
	Column int    `json:"column"`

	// Depth is the hop count from the start event, or -1 when the event is
	// not reachable.
	Depth int `json:"depth"`
}

// Layout is the result of [Compute].
type Layout struct {
	// Positions follows storyline event order.
	Positions []Position `json:"positions"`

	// Depth holds the BFS depth of every reachable event.
	Depth map[string]int `json:"depth"`

	// MaxDepth is the largest depth, or -1 when nothing is reachable.
	MaxDepth int `json:"max_depth"`

	// Levels lists event ids per row, top to bottom, in column order.
	Levels [][]string `json:"levels"`

	// Width and Height span every node box plus margins.
	Width  int `json:"width"`
	Height int `json:"height"`

	index map[string]int
}

// Clone returns a deep copy of l.
func (l Layout) Clone() Layout {
	l.Positions = slices.Clone(l.Positions)
	l.Depth = maps.Clone(l.Depth)
	levels := make([][]string, len(l.Levels))
	for i, ids := range l.Levels {
		levels[i] = slices.Clone(ids)
	}
	if l.Levels != nil {
		l.Levels = levels
	}
	l.index = maps.Clone(l.index)
	return l
}

// Position returns the placement of the event with the given id.
func (l Layout) Position(id string) (Position, bool) {
	if i, ok := l.index[id]; ok {
		return l.Positions[i], true
	}
	for _, p := range l.Positions {
		if p.ID == id {
			return p, true
		}
	}
	return Position{}, false
}

// Compute lays out the storyline with the given options.
func Compute(s story.Storyline, opts Options) Layout {
	opts = opts.withDefaults()
	g := story.Graph(s)

	depth := map[string]int{}
	if s.HasValidStart() {
		depth = g.Depths(s.StartEventID)
	}
	maxDepth := -1
	for _, d := range depth {
		maxDepth = max(maxDepth, d)
	}

	g.SetRows(assignRows(g, depth, maxDepth, opts.OrphanColumns))

	l := Layout{
		Depth:    depth,
		MaxDepth: maxDepth,
		index:    make(map[string]int, g.NodeCount()),
	}
	cols := 0
	for _, row := range g.RowIDs() {
		nodes := g.NodesInRow(row)
		ids := make([]string, len(nodes))
		for i, n := range nodes {
			ids[i] = n.ID
		}
		l.Levels = append(l.Levels, ids)
		cols = max(cols, len(ids))
	}

	placed := make(map[string]Position, g.NodeCount())
	for level, ids := range l.Levels {
		for col, id := range ids {
			d, ok := depth[id]
			if !ok {
				d = -1
			}
			placed[id] = Position{
				ID:     id,
				X:      opts.MarginX + col*(opts.NodeWidth+opts.GapX),
				Y:      opts.MarginY + level*(opts.NodeHeight+opts.GapY),
				Level:  level,
				Column: col,
				Depth:  d,
			}
		}
	}
	for _, id := range g.NodeIDs() {
		l.index[id] = len(l.Positions)
		l.Positions = append(l.Positions, placed[id])
	}

	if rows := len(l.Levels); rows > 0 {
		l.Width = 2*opts.MarginX + cols*opts.NodeWidth + (cols-1)*opts.GapX
		l.Height = 2*opts.MarginY + rows*opts.NodeHeight + (rows-1)*opts.GapY
	}
	return l
}

// assignRows maps reachable nodes to their depth and chunks the rest, in
// insertion order, into rows below maxDepth.
func assignRows(g *dag.Graph, depth map[string]int, maxDepth, perRow int) map[string]int {
	rows := make(map[string]int, g.NodeCount())
	orphans := 0
	for _, id := range g.NodeIDs() {
		if d, ok := depth[id]; ok {
			rows[id] = d
			continue
		}
		rows[id] = maxDepth + 1 + orphans/perRow
		orphans++
	}
	return rows
}
