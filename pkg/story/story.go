package story

import (
	"errors"
	"slices"
)

var (
	// ErrUnknownEvent is returned when an operation names an event id that
	// is not part of the storyline.
	ErrUnknownEvent = errors.New("unknown event")

	// ErrUnknownOption is returned when a Decision has no option with the
	// given id.
	ErrUnknownOption = errors.New("unknown option")

	// ErrUnknownHandle is returned when a handle does not name a slot of the
	// event's current content kind.
	ErrUnknownHandle = errors.New("unknown handle")

	// ErrWrongKind is returned when an edit only applies to one content kind
	// (e.g. adding an option to a Battle).
	ErrWrongKind = errors.New("operation not valid for content kind")

	// ErrConfirmationRequired is returned by DeleteEvent when the caller did
	// not confirm the destructive operation.
	ErrConfirmationRequired = errors.New("delete requires confirmation")

	// ErrInvalidKind is returned when a content kind string is not one of
	// the four supported kinds.
	ErrInvalidKind = errors.New("invalid content kind")
)

// NodeType is the authoring role of an event in the storyline.
type NodeType string

const (
	NodeStart  NodeType = "start"
	NodeMiddle NodeType = "middle"
	NodeEnd    NodeType = "end"
)

// Valid reports whether t is one of the known node types.
func (t NodeType) Valid() bool {
	return t == NodeStart || t == NodeMiddle || t == NodeEnd
}

// Event is a node of the storyline graph.
//
// The zero value is not usable: Content must be set. Use [NewEvent] to get an
// event with a fresh id and default content for a kind.
type Event struct {
	ID           string
	Name         string
	NodeType     NodeType
	ActionPoints int
	Content      Content
}

// Kind returns the content kind of the event, or "" when Content is nil.
func (e Event) Kind() Kind {
	if e.Content == nil {
		return ""
	}
	return e.Content.Kind()
}

// Clone returns a deep copy of the event.
func (e Event) Clone() Event {
	if e.Content != nil {
		e.Content = e.Content.clone()
	}
	return e
}

// Storyline is the top-level branching narrative graph.
//
// Events keep their authoring order; that order is meaningful to the layout
// engine and is preserved by every operation in this package. StartEventID is
// either empty or the id of one of the events.
type Storyline struct {
	ID           string
	Name         string
	StartEventID string
	Events       []Event
}

// Clone returns a deep copy of the storyline. Mutations in this package
// always operate on a clone so callers can keep the previous model.
func (s Storyline) Clone() Storyline {
	out := s
	out.Events = make([]Event, len(s.Events))
	for i, e := range s.Events {
		out.Events[i] = e.Clone()
	}
	return out
}

// Index returns the position of the event with the given id, or -1.
func (s Storyline) Index(id string) int {
	return slices.IndexFunc(s.Events, func(e Event) bool { return e.ID == id })
}

// Event returns the event with the given id.
func (s Storyline) Event(id string) (Event, bool) {
	if i := s.Index(id); i >= 0 {
		return s.Events[i], true
	}
	return Event{}, false
}

// Has reports whether an event with the given id exists.
func (s Storyline) Has(id string) bool {
	return id != "" && s.Index(id) >= 0
}

// IDs returns the event ids in storyline order.
func (s Storyline) IDs() []string {
	ids := make([]string, len(s.Events))
	for i, e := range s.Events {
		ids[i] = e.ID
	}
	return ids
}

// IDSet returns the set of event ids.
func (s Storyline) IDSet() map[string]bool {
	set := make(map[string]bool, len(s.Events))
	for _, e := range s.Events {
		set[e.ID] = true
	}
	return set
}

// HasValidStart reports whether StartEventID names an existing event.
func (s Storyline) HasValidStart() bool {
	return s.Has(s.StartEventID)
}
