package story

import "strings"

// Handle names an outgoing slot of an event: "next" for Story continuation,
// "win"/"lose" for Battle branches and "opt:<optionID>" for Decision options.
type Handle string

const (
	HandleNext Handle = "next"
	HandleWin  Handle = "win"
	HandleLose Handle = "lose"

	optionHandlePrefix = "opt:"
)

// OptionHandle returns the handle of the Decision option with the given id.
func OptionHandle(optionID string) Handle {
	return Handle(optionHandlePrefix + optionID)
}

// OptionID extracts the option id from an option handle.
func (h Handle) OptionID() (string, bool) {
	id, ok := strings.CutPrefix(string(h), optionHandlePrefix)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// Valid reports whether h is syntactically a handle. It does not check that
// any event actually has the slot.
func (h Handle) Valid() bool {
	switch h {
	case HandleNext, HandleWin, HandleLose:
		return true
	}
	_, ok := h.OptionID()
	return ok
}

// Target is one outgoing slot of an event. EventID is empty when the slot is
// not connected.
type Target struct {
	Handle  Handle
	Label   string
	EventID string
}

// Slots returns every outgoing slot of the event, connected or not, in content
// order: one for Story, one per Decision option, win then lose for Battle and
// none for End.
func Slots(e Event) []Target {
	if e.Content == nil {
		return nil
	}
	return e.Content.slots()
}

// Targets returns the connected slots of the event (non-empty next ids).
func Targets(e Event) []Target {
	var out []Target
	for _, t := range Slots(e) {
		if t.EventID != "" {
			out = append(out, t)
		}
	}
	return out
}

// TargetIDs returns every non-empty next event id of the event in slot order.
// Duplicates are kept: two options leading to the same event are two targets.
func TargetIDs(e Event) []string {
	ts := Targets(e)
	ids := make([]string, len(ts))
	for i, t := range ts {
		ids[i] = t.EventID
	}
	return ids
}

// SetTarget writes eventID into the slot named by h. An empty eventID clears
// the slot. The event is modified in place; callers working on a shared
// storyline must clone first.
func SetTarget(e *Event, h Handle, eventID string) error {
	if e.Content == nil {
		return ErrUnknownHandle
	}
	return e.Content.setTarget(h, eventID)
}
