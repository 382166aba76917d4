// Package diagram translates between a storyline and the node/edge diagram a
// user edits.
//
// The storyline is the only source of truth. [DeriveEdges] reads edges out of
// the transition slots, and [Connect], [Disconnect] and [RemoveEdges] turn
// diagram gestures back into storyline edits. Each edge carries the handle of
// the slot that produced it, which is what makes the reverse direction exact.
package diagram

import (
	"errors"
	"fmt"
	"strings"

	"github.com/matzehuels/storyforge/pkg/story"
	"github.com/matzehuels/storyforge/pkg/story/layout"
)

var (
	// ErrUnknownSource is returned when the source event of a gesture does
	// not exist.
	ErrUnknownSource = errors.New("unknown source event")

	// ErrUnknownTarget is returned by Connect when the target event does not
	// exist. The storyline is returned unchanged.
	ErrUnknownTarget = errors.New("unknown target event")

	// ErrUnknownHandle is returned when the handle does not name a slot of
	// the source event's current content.
	ErrUnknownHandle = errors.New("unknown handle")

	// ErrInvalidEdgeID is returned by ParseEdgeID for malformed edge ids.
	ErrInvalidEdgeID = errors.New("invalid edge id")
)

// Edge is one connected slot. ID is "<source>:<handle>-><target>".
type Edge struct {
	ID     string       `json:"id"`
	Source string       `json:"source"`
	Handle story.Handle `json:"handle"`
	Target string       `json:"target"`
	Label  string       `json:"label"`
}

// EdgeID formats the id of the edge from source's handle to target.
func EdgeID(source string, h story.Handle, target string) string {
	return source + ":" + string(h) + "->" + target
}

// ParseEdgeID splits an edge id into its parts. The source ends at the first
// ':', so ids of events containing ':' only resolve through [RemoveEdges].
func ParseEdgeID(id string) (source string, h story.Handle, target string, err error) {
	i := strings.LastIndex(id, "->")
	if i < 0 {
		return "", "", "", fmt.Errorf("%w: %q", ErrInvalidEdgeID, id)
	}
	left, target := id[:i], id[i+2:]
	source, handle, ok := strings.Cut(left, ":")
	if !ok || source == "" || target == "" {
		return "", "", "", fmt.Errorf("%w: %q", ErrInvalidEdgeID, id)
	}
	h, err = ParseHandle(handle)
	if err != nil {
		return "", "", "", fmt.Errorf("%w: %q", ErrInvalidEdgeID, id)
	}
	return source, h, target, nil
}

// ParseHandle checks the syntax of a handle string.
func ParseHandle(s string) (story.Handle, error) {
	h := story.Handle(s)
	if !h.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownHandle, s)
	}
	return h, nil
}

// DeriveEdges returns one edge per connected slot, in event order then slot
// order. Dangling targets are included; the validator reports them.
func DeriveEdges(s story.Storyline) []Edge {
	var edges []Edge
	for _, e := range s.Events {
		for _, t := range story.Targets(e) {
			edges = append(edges, Edge{
				ID:     EdgeID(e.ID, t.Handle, t.EventID),
				Source: e.ID,
				Handle: t.Handle,
				Target: t.EventID,
				Label:  t.Label,
			})
		}
	}
	return edges
}

// Connect points the slot h of source at target, replacing any previous
// target of that slot. Self loops are allowed.
func Connect(s story.Storyline, source string, h story.Handle, target string) (story.Storyline, error) {
	idx := s.Index(source)
	if idx < 0 {
		return s, fmt.Errorf("%w: %q", ErrUnknownSource, source)
	}
	if !s.Has(target) {
		return s, fmt.Errorf("%w: %q", ErrUnknownTarget, target)
	}
	return setSlot(s, idx, h, target)
}

// Disconnect clears the slot h of source. The option or branch itself stays.
func Disconnect(s story.Storyline, source string, h story.Handle) (story.Storyline, error) {
	idx := s.Index(source)
	if idx < 0 {
		return s, fmt.Errorf("%w: %q", ErrUnknownSource, source)
	}
	return setSlot(s, idx, h, "")
}

// RemoveEdges disconnects the slots behind the given edge ids. Ids are
// matched against the current edges first, so event ids containing ':' or
// "->" still resolve. Ids of edges that no longer exist are skipped; a
// malformed id fails the whole call.
func RemoveEdges(s story.Storyline, ids ...string) (story.Storyline, error) {
	out := s.Clone()
	for _, id := range ids {
		e, ok := findEdge(out, id)
		if !ok {
			if _, _, _, err := ParseEdgeID(id); err != nil {
				return s, err
			}
			continue
		}
		_ = story.SetTarget(&out.Events[out.Index(e.Source)], e.Handle, "")
	}
	return out, nil
}

func findEdge(s story.Storyline, id string) (Edge, bool) {
	for _, e := range DeriveEdges(s) {
		if e.ID == id {
			return e, true
		}
	}
	return Edge{}, false
}

func setSlot(s story.Storyline, idx int, h story.Handle, target string) (story.Storyline, error) {
	out := s.Clone()
	e := &out.Events[idx]
	if err := story.SetTarget(e, h, target); err != nil {
		return s, fmt.Errorf("%w: %s on %s event %q: %w", ErrUnknownHandle, h, e.Kind(), e.ID, err)
	}
	return out, nil
}

// Node is a positioned diagram node.
type Node struct {
	ID        string         `json:"id"`
	Label     string         `json:"label"`
	Kind      story.Kind     `json:"kind"`
	NodeType  story.NodeType `json:"node_type"`
	X         int            `json:"x"`
	Y         int            `json:"y"`
	Start     bool           `json:"start"`
	Reachable bool           `json:"reachable"`
	Handles   []story.Handle `json:"handles"`
}

// Diagram is everything a viewer needs to draw the storyline.
type Diagram struct {
	Nodes  []Node `json:"nodes"`
	Edges  []Edge `json:"edges"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Build assembles the diagram from a storyline and its layout. Only edges
// between existing events are drawn.
func Build(s story.Storyline, l layout.Layout) Diagram {
	d := Diagram{Width: l.Width, Height: l.Height}
	for _, e := range s.Events {
		p, _ := l.Position(e.ID)
		n := Node{
			ID:        e.ID,
			Label:     e.Name,
			Kind:      e.Kind(),
			NodeType:  e.NodeType,
			X:         p.X,
			Y:         p.Y,
			Start:     e.ID == s.StartEventID,
			Reachable: p.Depth >= 0,
		}
		if n.Label == "" {
			n.Label = e.ID
		}
		for _, t := range story.Slots(e) {
			n.Handles = append(n.Handles, t.Handle)
		}
		d.Nodes = append(d.Nodes, n)
	}
	ids := s.IDSet()
	for _, edge := range DeriveEdges(s) {
		if ids[edge.Target] {
			d.Edges = append(d.Edges, edge)
		}
	}
	return d
}
