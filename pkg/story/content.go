package story

import (
	"fmt"
	"strings"
)

// Kind discriminates the four event content variants.
type Kind string

const (
	KindDecision Kind = "decision"
	KindBattle   Kind = "battle"
	KindStory    Kind = "story"
	KindEnd      Kind = "end"
)

// Kinds lists every content kind in a stable order.
var Kinds = []Kind{KindDecision, KindBattle, KindStory, KindEnd}

// ParseKind converts a string to a Kind. Matching is case-insensitive.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	switch k {
	case KindDecision, KindBattle, KindStory, KindEnd:
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidKind, s)
}

// Payload is an opaque value owned by an external collaborator (condition
// evaluator, reward engine, enemy catalog). The engine stores and forwards it
// and never looks inside.
type Payload map[string]any

// Content is the closed set of event content variants: *Decision, *Battle,
// *StoryContent and *End. Each variant owns its outgoing transition slots.
type Content interface {
	Kind() Kind

	slots() []Target
	setTarget(h Handle, eventID string) error
	clone() Content
}

// Option is one choice of a Decision. ID is assigned once by [NewOption] and
// stays stable for the life of the option.
type Option struct {
	ID          string
	Text        string
	NextEventID string
	Condition   Payload
}

// Branch is a Battle outcome slot.
type Branch struct {
	NextEventID string
	Rewards     []Payload
}

// Decision presents options, each leading to its own next event.
type Decision struct {
	Text    string
	Options []Option
}

// Battle branches on the fight outcome.
type Battle struct {
	Text    string
	EnemyID string
	Enemy   Payload
	Win     Branch
	Lose    Branch
}

// StoryContent is a linear narrative step with an optional continuation.
type StoryContent struct {
	Text        string
	Rewards     []Payload
	NextEventID string
}

// End is terminal and has no outgoing slot.
type End struct {
	Text string
}

func (*Decision) Kind() Kind     { return KindDecision }
func (*Battle) Kind() Kind       { return KindBattle }
func (*StoryContent) Kind() Kind { return KindStory }
func (*End) Kind() Kind          { return KindEnd }

func (d *Decision) slots() []Target {
	out := make([]Target, len(d.Options))
	for i, o := range d.Options {
		out[i] = Target{
			Handle:  OptionHandle(o.ID),
			Label:   fmt.Sprintf("Option %d", i+1),
			EventID: o.NextEventID,
		}
	}
	return out
}

func (b *Battle) slots() []Target {
	return []Target{
		{Handle: HandleWin, Label: "Win branch", EventID: b.Win.NextEventID},
		{Handle: HandleLose, Label: "Lose branch", EventID: b.Lose.NextEventID},
	}
}

func (c *StoryContent) slots() []Target {
	return []Target{{Handle: HandleNext, Label: "Next", EventID: c.NextEventID}}
}

func (*End) slots() []Target { return nil }

func (d *Decision) setTarget(h Handle, id string) error {
	optID, ok := h.OptionID()
	if !ok {
		return fmt.Errorf("%w: %s on %s", ErrUnknownHandle, h, KindDecision)
	}
	for i := range d.Options {
		if d.Options[i].ID == optID {
			d.Options[i].NextEventID = id
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownOption, optID)
}

func (b *Battle) setTarget(h Handle, id string) error {
	switch h {
	case HandleWin:
		b.Win.NextEventID = id
	case HandleLose:
		b.Lose.NextEventID = id
	default:
		return fmt.Errorf("%w: %s on %s", ErrUnknownHandle, h, KindBattle)
	}
	return nil
}

func (c *StoryContent) setTarget(h Handle, id string) error {
	if h != HandleNext {
		return fmt.Errorf("%w: %s on %s", ErrUnknownHandle, h, KindStory)
	}
	c.NextEventID = id
	return nil
}

func (*End) setTarget(h Handle, _ string) error {
	return fmt.Errorf("%w: %s on %s", ErrUnknownHandle, h, KindEnd)
}

func (d *Decision) clone() Content {
	out := *d
	out.Options = make([]Option, len(d.Options))
	for i, o := range d.Options {
		o.Condition = ClonePayload(o.Condition)
		out.Options[i] = o
	}
	return &out
}

func (b *Battle) clone() Content {
	out := *b
	out.Enemy = ClonePayload(b.Enemy)
	out.Win.Rewards = ClonePayloads(b.Win.Rewards)
	out.Lose.Rewards = ClonePayloads(b.Lose.Rewards)
	return &out
}

func (c *StoryContent) clone() Content {
	out := *c
	out.Rewards = ClonePayloads(c.Rewards)
	return &out
}

func (e *End) clone() Content {
	out := *e
	return &out
}

// DefaultContent returns fresh content for a kind. A new Decision starts with
// one empty option so it has a handle to connect from.
func DefaultContent(k Kind) (Content, error) {
	switch k {
	case KindDecision:
		return &Decision{Options: []Option{NewOption("")}}, nil
	case KindBattle:
		return &Battle{}, nil
	case KindStory:
		return &StoryContent{}, nil
	case KindEnd:
		return &End{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrInvalidKind, k)
}

// ContentText returns the narrative text of any content variant.
func ContentText(c Content) string {
	switch c := c.(type) {
	case *Decision:
		return c.Text
	case *Battle:
		return c.Text
	case *StoryContent:
		return c.Text
	case *End:
		return c.Text
	}
	return ""
}

func setContentText(c Content, text string) {
	switch c := c.(type) {
	case *Decision:
		c.Text = text
	case *Battle:
		c.Text = text
	case *StoryContent:
		c.Text = text
	case *End:
		c.Text = text
	}
}

// ClonePayload deep-copies nested maps and slices so stored payloads are never
// shared between storyline snapshots.
func ClonePayload(p Payload) Payload {
	if p == nil {
		return nil
	}
	return Payload(cloneValue(map[string]any(p)).(map[string]any))
}

// ClonePayloads deep-copies a payload list.
func ClonePayloads(ps []Payload) []Payload {
	if ps == nil {
		return nil
	}
	out := make([]Payload, len(ps))
	for i, p := range ps {
		out[i] = ClonePayload(p)
	}
	return out
}

func cloneValue(v any) any {
	switch v := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(v))
		for k, x := range v {
			m[k] = cloneValue(x)
		}
		return m
	case Payload:
		return ClonePayload(v)
	case []any:
		s := make([]any, len(v))
		for i, x := range v {
			s[i] = cloneValue(x)
		}
		return s
	default:
		return v
	}
}
