package story

import (
	"fmt"
	"slices"
)

// New returns an empty storyline with a fresh id.
func New(name string) Storyline {
	return Storyline{ID: NewStorylineID(), Name: name}
}

// NewEvent returns an event with a fresh id and the default content for k.
func NewEvent(k Kind, name string) (Event, error) {
	c, err := DefaultContent(k)
	if err != nil {
		return Event{}, err
	}
	nt := NodeMiddle
	if k == KindEnd {
		nt = NodeEnd
	}
	return Event{ID: NewEventID(), Name: name, NodeType: nt, Content: c}, nil
}

// AddEvent appends a new event of kind k. When the storyline has no start
// event the new event becomes the start.
func AddEvent(s Storyline, k Kind, name string) (Storyline, Event, error) {
	e, err := NewEvent(k, name)
	if err != nil {
		return s, Event{}, err
	}
	for s.Has(e.ID) {
		e.ID = NewEventID()
	}

	out := s.Clone()
	if out.StartEventID == "" {
		out.StartEventID = e.ID
		if k != KindEnd {
			e.NodeType = NodeStart
		}
	}
	out.Events = append(out.Events, e)
	return out, e.Clone(), nil
}

// DeleteEvent removes an event and every reference to it. The operation is
// destructive and requires confirm to be true.
//
// When the deleted event was the start, the start falls back to the first
// remaining event, or to empty when none remain. Slots of other events that
// targeted the deleted id are cleared; options and branches themselves are
// kept.
func DeleteEvent(s Storyline, id string, confirm bool) (Storyline, error) {
	if !confirm {
		return s, ErrConfirmationRequired
	}
	idx := s.Index(id)
	if idx < 0 {
		return s, fmt.Errorf("%w: %s", ErrUnknownEvent, id)
	}

	out := s.Clone()
	out.Events = slices.Delete(out.Events, idx, idx+1)

	if out.StartEventID == id {
		out.StartEventID = ""
		if len(out.Events) > 0 {
			out.StartEventID = out.Events[0].ID
		}
	}

	for i := range out.Events {
		clearReferences(&out.Events[i], id)
	}
	return out, nil
}

// clearReferences empties every slot of e that points at target.
func clearReferences(e *Event, target string) {
	for _, t := range Slots(*e) {
		if t.EventID == target {
			// The slot came from the event itself, so the handle is valid.
			_ = SetTarget(e, t.Handle, "")
		}
	}
}

// ChangeKind replaces the event's content with the default content of k. All
// previous transition targets are discarded; no field migration is
// attempted. Changing to the current kind is a no-op.
func ChangeKind(s Storyline, id string, k Kind) (Storyline, error) {
	idx := s.Index(id)
	if idx < 0 {
		return s, fmt.Errorf("%w: %s", ErrUnknownEvent, id)
	}
	if s.Events[idx].Kind() == k {
		return s, nil
	}
	c, err := DefaultContent(k)
	if err != nil {
		return s, err
	}

	out := s.Clone()
	e := &out.Events[idx]
	e.Content = c
	switch {
	case k == KindEnd:
		e.NodeType = NodeEnd
	case e.NodeType == NodeEnd:
		e.NodeType = NodeMiddle
	}
	return out, nil
}

// SetStart marks id as the start event. An empty id unsets the start.
func SetStart(s Storyline, id string) (Storyline, error) {
	if id != "" && !s.Has(id) {
		return s, fmt.Errorf("%w: %s", ErrUnknownEvent, id)
	}
	out := s.Clone()
	out.StartEventID = id
	return out, nil
}

// EventUpdate carries optional field changes for UpdateEvent. Nil fields are
// left unchanged.
type EventUpdate struct {
	Name         *string
	NodeType     *NodeType
	ActionPoints *int
	Text         *string
}

// UpdateEvent applies scalar field edits to an event. Content kind and
// transition targets are not touched.
func UpdateEvent(s Storyline, id string, u EventUpdate) (Storyline, error) {
	idx := s.Index(id)
	if idx < 0 {
		return s, fmt.Errorf("%w: %s", ErrUnknownEvent, id)
	}
	if u.NodeType != nil && !u.NodeType.Valid() {
		return s, fmt.Errorf("invalid node type %q", *u.NodeType)
	}
	if u.ActionPoints != nil && *u.ActionPoints < 0 {
		return s, fmt.Errorf("action points must not be negative: %d", *u.ActionPoints)
	}

	out := s.Clone()
	e := &out.Events[idx]
	if u.Name != nil {
		e.Name = *u.Name
	}
	if u.NodeType != nil {
		e.NodeType = *u.NodeType
	}
	if u.ActionPoints != nil {
		e.ActionPoints = *u.ActionPoints
	}
	if u.Text != nil {
		setContentText(e.Content, *u.Text)
	}
	return out, nil
}

// AddOption appends a new option to a Decision event and returns it.
func AddOption(s Storyline, eventID, text string) (Storyline, Option, error) {
	out, d, err := editDecision(s, eventID)
	if err != nil {
		return s, Option{}, err
	}
	o := NewOption(text)
	for slices.ContainsFunc(d.Options, func(x Option) bool { return x.ID == o.ID }) {
		o = NewOption(text)
	}
	d.Options = append(d.Options, o)
	return out, o, nil
}

// RemoveOption deletes an option from a Decision event. The ids of the
// remaining options are unchanged.
func RemoveOption(s Storyline, eventID, optionID string) (Storyline, error) {
	out, d, err := editDecision(s, eventID)
	if err != nil {
		return s, err
	}
	i := slices.IndexFunc(d.Options, func(o Option) bool { return o.ID == optionID })
	if i < 0 {
		return s, fmt.Errorf("%w: %s", ErrUnknownOption, optionID)
	}
	d.Options = slices.Delete(d.Options, i, i+1)
	return out, nil
}

// UpdateOption changes the text and condition of an option. The option id and
// its target are preserved. A nil condition clears it.
func UpdateOption(s Storyline, eventID, optionID, text string, cond Payload) (Storyline, error) {
	out, d, err := editDecision(s, eventID)
	if err != nil {
		return s, err
	}
	i := slices.IndexFunc(d.Options, func(o Option) bool { return o.ID == optionID })
	if i < 0 {
		return s, fmt.Errorf("%w: %s", ErrUnknownOption, optionID)
	}
	d.Options[i].Text = text
	d.Options[i].Condition = ClonePayload(cond)
	return out, nil
}

// SetBattleEnemy stores the enemy id and its catalog snapshot on a Battle.
func SetBattleEnemy(s Storyline, eventID, enemyID string, snapshot Payload) (Storyline, error) {
	idx := s.Index(eventID)
	if idx < 0 {
		return s, fmt.Errorf("%w: %s", ErrUnknownEvent, eventID)
	}
	if s.Events[idx].Kind() != KindBattle {
		return s, fmt.Errorf("%w: %s is %s", ErrWrongKind, eventID, s.Events[idx].Kind())
	}
	out := s.Clone()
	b := out.Events[idx].Content.(*Battle)
	b.EnemyID = enemyID
	b.Enemy = ClonePayload(snapshot)
	return out, nil
}

// SetRewards replaces the reward list of a Story event (handle "next") or of
// a Battle branch ("win"/"lose").
func SetRewards(s Storyline, eventID string, h Handle, rewards []Payload) (Storyline, error) {
	idx := s.Index(eventID)
	if idx < 0 {
		return s, fmt.Errorf("%w: %s", ErrUnknownEvent, eventID)
	}
	out := s.Clone()
	switch c := out.Events[idx].Content.(type) {
	case *StoryContent:
		if h != HandleNext {
			return s, fmt.Errorf("%w: %s on %s", ErrUnknownHandle, h, KindStory)
		}
		c.Rewards = ClonePayloads(rewards)
	case *Battle:
		switch h {
		case HandleWin:
			c.Win.Rewards = ClonePayloads(rewards)
		case HandleLose:
			c.Lose.Rewards = ClonePayloads(rewards)
		default:
			return s, fmt.Errorf("%w: %s on %s", ErrUnknownHandle, h, KindBattle)
		}
	default:
		return s, fmt.Errorf("%w: %s has no rewards", ErrWrongKind, out.Events[idx].Kind())
	}
	return out, nil
}

func editDecision(s Storyline, eventID string) (Storyline, *Decision, error) {
	idx := s.Index(eventID)
	if idx < 0 {
		return s, nil, fmt.Errorf("%w: %s", ErrUnknownEvent, eventID)
	}
	if s.Events[idx].Kind() != KindDecision {
		return s, nil, fmt.Errorf("%w: %s is %s", ErrWrongKind, eventID, s.Events[idx].Kind())
	}
	out := s.Clone()
	return out, out.Events[idx].Content.(*Decision), nil
}
