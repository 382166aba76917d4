// Package storytest builds small storylines for tests.
package storytest

import (
	"strconv"

	"github.com/matzehuels/storyforge/pkg/story"
)

// ABC returns the canonical three-event storyline: A (start, Story -> B),
// B (Decision with opt1 -> C and an unconnected opt2) and C (End).
func ABC() story.Storyline {
	return story.Storyline{
		ID:           "sl_abc",
		Name:         "ABC",
		StartEventID: "A",
		Events: []story.Event{
			Story("A", "B"),
			Decision("B", "C", ""),
			End("C"),
		},
	}
}

// Story returns a start-less Story event continuing to next.
func Story(id, next string) story.Event {
	return story.Event{
		ID:       id,
		Name:     id,
		NodeType: story.NodeMiddle,
		Content:  &story.StoryContent{Text: id, NextEventID: next},
	}
}

// Decision returns a Decision event with options opt1..optN targeting the
// given ids. An empty id leaves the option unconnected.
func Decision(id string, targets ...string) story.Event {
	d := &story.Decision{Text: id}
	for i, t := range targets {
		d.Options = append(d.Options, story.Option{
			ID:          optionID(i),
			Text:        optionID(i),
			NextEventID: t,
		})
	}
	return story.Event{ID: id, Name: id, NodeType: story.NodeMiddle, Content: d}
}

// Battle returns a Battle event with the given win and lose targets.
func Battle(id, win, lose string) story.Event {
	return story.Event{
		ID:       id,
		Name:     id,
		NodeType: story.NodeMiddle,
		Content: &story.Battle{
			Text: id,
			Win:  story.Branch{NextEventID: win},
			Lose: story.Branch{NextEventID: lose},
		},
	}
}

// End returns a terminal event.
func End(id string) story.Event {
	return story.Event{ID: id, Name: id, NodeType: story.NodeEnd, Content: &story.End{Text: id}}
}

// Line returns a storyline of Story events chained in the given order,
// starting at the first id.
func Line(ids ...string) story.Storyline {
	s := story.Storyline{ID: "sl_line", Name: "line"}
	for i, id := range ids {
		next := ""
		if i+1 < len(ids) {
			next = ids[i+1]
		}
		s.Events = append(s.Events, Story(id, next))
	}
	if len(ids) > 0 {
		s.StartEventID = ids[0]
	}
	return s
}

func optionID(i int) string {
	return "opt" + strconv.Itoa(i+1)
}
