package document

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/storyforge/pkg/errors"
	"github.com/matzehuels/storyforge/pkg/story"
)

// Version is written into every encoded document.
const Version = 1

// Storyline is the wire form of [story.Storyline].
type Storyline struct {
	Version      int     `json:"version" bson:"version"`
	ID           string  `json:"id" bson:"_id"`
	Name         string  `json:"name" bson:"name"`
	StartEventID string  `json:"start_event_id" bson:"start_event_id"`
	Events       []Event `json:"events" bson:"events"`
}

// Event is the wire form of [story.Event].
type Event struct {
	ID           string  `json:"id" bson:"id"`
	Name         string  `json:"name" bson:"name"`
	NodeType     string  `json:"node_type" bson:"node_type"`
	ActionPoints int     `json:"action_points,omitempty" bson:"action_points,omitempty"`
	Content      Content `json:"content" bson:"content"`
}

// Content is the flattened, kind-discriminated event content.
type Content struct {
	Kind        string           `json:"kind" bson:"kind"`
	Text        string           `json:"text,omitempty" bson:"text,omitempty"`
	Options     []Option         `json:"options,omitempty" bson:"options,omitempty"`
	EnemyID     string           `json:"enemy_id,omitempty" bson:"enemy_id,omitempty"`
	Enemy       map[string]any   `json:"enemy,omitempty" bson:"enemy,omitempty"`
	Win         *Branch          `json:"win,omitempty" bson:"win,omitempty"`
	Lose        *Branch          `json:"lose,omitempty" bson:"lose,omitempty"`
	Rewards     []map[string]any `json:"rewards,omitempty" bson:"rewards,omitempty"`
	NextEventID string           `json:"next_event_id,omitempty" bson:"next_event_id,omitempty"`
}

// Option is the wire form of [story.Option].
type Option struct {
	ID          string         `json:"id" bson:"id"`
	Text        string         `json:"text" bson:"text"`
	NextEventID string         `json:"next_event_id" bson:"next_event_id"`
	Condition   map[string]any `json:"condition,omitempty" bson:"condition,omitempty"`
}

// Branch is the wire form of [story.Branch].
type Branch struct {
	NextEventID string           `json:"next_event_id" bson:"next_event_id"`
	Rewards     []map[string]any `json:"rewards,omitempty" bson:"rewards,omitempty"`
}

// From converts a storyline to its wire form.
func From(s story.Storyline) Storyline {
	d := Storyline{
		Version:      Version,
		ID:           s.ID,
		Name:         s.Name,
		StartEventID: s.StartEventID,
		Events:       make([]Event, len(s.Events)),
	}
	for i, e := range s.Events {
		d.Events[i] = Event{
			ID:           e.ID,
			Name:         e.Name,
			NodeType:     string(e.NodeType),
			ActionPoints: e.ActionPoints,
			Content:      fromContent(e.Content),
		}
	}
	return d
}

func fromContent(c story.Content) Content {
	switch c := c.(type) {
	case *story.Decision:
		out := Content{Kind: string(story.KindDecision), Text: c.Text}
		for _, o := range c.Options {
			out.Options = append(out.Options, Option{
				ID:          o.ID,
				Text:        o.Text,
				NextEventID: o.NextEventID,
				Condition:   story.ClonePayload(o.Condition),
			})
		}
		return out
	case *story.Battle:
		return Content{
			Kind:    string(story.KindBattle),
			Text:    c.Text,
			EnemyID: c.EnemyID,
			Enemy:   story.ClonePayload(c.Enemy),
			Win:     fromBranch(c.Win),
			Lose:    fromBranch(c.Lose),
		}
	case *story.StoryContent:
		return Content{
			Kind:        string(story.KindStory),
			Text:        c.Text,
			Rewards:     fromPayloads(c.Rewards),
			NextEventID: c.NextEventID,
		}
	case *story.End:
		return Content{Kind: string(story.KindEnd), Text: c.Text}
	}
	return Content{}
}

func fromBranch(b story.Branch) *Branch {
	return &Branch{NextEventID: b.NextEventID, Rewards: fromPayloads(b.Rewards)}
}

func fromPayloads(ps []story.Payload) []map[string]any {
	if ps == nil {
		return nil
	}
	out := make([]map[string]any, len(ps))
	for i, p := range story.ClonePayloads(ps) {
		out[i] = p
	}
	return out
}

// Model converts the wire form back into the model.
func (d Storyline) Model() (story.Storyline, error) {
	s := story.Storyline{
		ID:           d.ID,
		Name:         d.Name,
		StartEventID: d.StartEventID,
		Events:       make([]story.Event, 0, len(d.Events)),
	}
	seen := make(map[string]bool, len(d.Events))
	for i, de := range d.Events {
		if de.ID == "" {
			return story.Storyline{}, errors.New(errors.ErrCodeInvalidFormat, "event %d: missing id", i)
		}
		if seen[de.ID] {
			return story.Storyline{}, errors.New(errors.ErrCodeInvalidFormat, "duplicate event id %q", de.ID)
		}
		seen[de.ID] = true

		c, err := de.Content.content()
		if err != nil {
			return story.Storyline{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "event %q", de.ID)
		}
		nt := story.NodeType(de.NodeType)
		if nt == "" {
			nt = story.NodeMiddle
		}
		if !nt.Valid() {
			return story.Storyline{}, errors.New(errors.ErrCodeInvalidFormat, "event %q: invalid node type %q", de.ID, de.NodeType)
		}
		s.Events = append(s.Events, story.Event{
			ID:           de.ID,
			Name:         de.Name,
			NodeType:     nt,
			ActionPoints: de.ActionPoints,
			Content:      c,
		})
	}
	return s, nil
}

func (c Content) content() (story.Content, error) {
	k, err := story.ParseKind(c.Kind)
	if err != nil {
		return nil, err
	}
	switch k {
	case story.KindDecision:
		d := &story.Decision{Text: c.Text}
		ids := make(map[string]bool, len(c.Options))
		for _, o := range c.Options {
			opt := story.Option{
				ID:          o.ID,
				Text:        o.Text,
				NextEventID: o.NextEventID,
				Condition:   toPayload(o.Condition),
			}
			if opt.ID == "" {
				opt.ID = story.NewOption("").ID
			}
			if ids[opt.ID] {
				return nil, fmt.Errorf("duplicate option id %q", opt.ID)
			}
			ids[opt.ID] = true
			d.Options = append(d.Options, opt)
		}
		return d, nil
	case story.KindBattle:
		return &story.Battle{
			Text:    c.Text,
			EnemyID: c.EnemyID,
			Enemy:   toPayload(c.Enemy),
			Win:     c.Win.branch(),
			Lose:    c.Lose.branch(),
		}, nil
	case story.KindStory:
		return &story.StoryContent{
			Text:        c.Text,
			Rewards:     toPayloads(c.Rewards),
			NextEventID: c.NextEventID,
		}, nil
	default:
		return &story.End{Text: c.Text}, nil
	}
}

func (b *Branch) branch() story.Branch {
	if b == nil {
		return story.Branch{}
	}
	return story.Branch{NextEventID: b.NextEventID, Rewards: toPayloads(b.Rewards)}
}

func toPayload(m map[string]any) story.Payload {
	if m == nil {
		return nil
	}
	return story.ClonePayload(story.Payload(m))
}

func toPayloads(ms []map[string]any) []story.Payload {
	if ms == nil {
		return nil
	}
	out := make([]story.Payload, len(ms))
	for i, m := range ms {
		out[i] = toPayload(m)
	}
	return out
}

// Marshal encodes a storyline as indented JSON.
func Marshal(s story.Storyline) ([]byte, error) {
	b, err := json.MarshalIndent(From(s), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return b, nil
}

// Unmarshal decodes a JSON document.
func Unmarshal(data []byte) (story.Storyline, error) {
	var d Storyline
	if err := json.Unmarshal(data, &d); err != nil {
		return story.Storyline{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode storyline")
	}
	return d.Model()
}

// Write encodes a storyline as JSON to w.
func Write(w io.Writer, s story.Storyline) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(From(s)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// Read decodes a JSON document from r. Read does not close r.
func Read(r io.Reader) (story.Storyline, error) {
	var d Storyline
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return story.Storyline{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode storyline")
	}
	return d.Model()
}

// Import reads the storyline file at path.
func Import(path string) (story.Storyline, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return story.Storyline{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return story.Storyline{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}

// Export writes the storyline to a file at path, replacing it atomically.
func Export(path string, s story.Storyline) error {
	data, err := Marshal(s)
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}
