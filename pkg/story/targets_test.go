package story_test

import (
	"errors"
	"slices"
	"testing"

	"github.com/matzehuels/storyforge/pkg/story"
	"github.com/matzehuels/storyforge/pkg/story/storytest"
)

func TestTargetIDs(t *testing.T) {
	tests := []struct {
		name  string
		event story.Event
		want  []string
	}{
		{"story connected", storytest.Story("A", "B"), []string{"B"}},
		{"story open", storytest.Story("A", ""), nil},
		{"decision skips empty", storytest.Decision("D", "B", "", "C"), []string{"B", "C"}},
		{"decision keeps duplicates", storytest.Decision("D", "B", "B"), []string{"B", "B"}},
		{"battle win then lose", storytest.Battle("X", "W", "L"), []string{"W", "L"}},
		{"battle lose only", storytest.Battle("X", "", "L"), []string{"L"}},
		{"end", storytest.End("E"), nil},
		{"nil content", story.Event{ID: "Z"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := story.TargetIDs(tt.event)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("TargetIDs() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSlotsLabels(t *testing.T) {
	d := storytest.Decision("D", "A", "")
	slots := story.Slots(d)
	if len(slots) != 2 {
		t.Fatalf("Slots() len = %d, want 2", len(slots))
	}
	if slots[0].Label != "Option 1" || slots[1].Label != "Option 2" {
		t.Errorf("labels = %q, %q", slots[0].Label, slots[1].Label)
	}
	if slots[1].Handle != story.OptionHandle("opt2") {
		t.Errorf("handle = %q, want opt:opt2", slots[1].Handle)
	}

	b := story.Slots(storytest.Battle("X", "", ""))
	if b[0].Label != "Win branch" || b[1].Label != "Lose branch" {
		t.Errorf("battle labels = %q, %q", b[0].Label, b[1].Label)
	}
}

func TestHandle(t *testing.T) {
	tests := []struct {
		handle story.Handle
		valid  bool
		option string
	}{
		{story.HandleNext, true, ""},
		{story.HandleWin, true, ""},
		{story.HandleLose, true, ""},
		{"opt:abc", true, "abc"},
		{"opt:", false, ""},
		{"next2", false, ""},
		{"", false, ""},
	}

	for _, tt := range tests {
		t.Run(string(tt.handle), func(t *testing.T) {
			if got := tt.handle.Valid(); got != tt.valid {
				t.Errorf("Valid() = %v, want %v", got, tt.valid)
			}
			id, _ := tt.handle.OptionID()
			if id != tt.option {
				t.Errorf("OptionID() = %q, want %q", id, tt.option)
			}
		})
	}
}

func TestSetTarget(t *testing.T) {
	tests := []struct {
		name    string
		event   story.Event
		handle  story.Handle
		wantErr error
	}{
		{"story next", storytest.Story("A", ""), story.HandleNext, nil},
		{"story win", storytest.Story("A", ""), story.HandleWin, story.ErrUnknownHandle},
		{"battle win", storytest.Battle("X", "", ""), story.HandleWin, nil},
		{"battle lose", storytest.Battle("X", "", ""), story.HandleLose, nil},
		{"battle option", storytest.Battle("X", "", ""), "opt:opt1", story.ErrUnknownHandle},
		{"decision option", storytest.Decision("D", ""), "opt:opt1", nil},
		{"decision missing option", storytest.Decision("D", ""), "opt:nope", story.ErrUnknownOption},
		{"decision next", storytest.Decision("D", ""), story.HandleNext, story.ErrUnknownHandle},
		{"end", storytest.End("E"), story.HandleNext, story.ErrUnknownHandle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := tt.event.Clone()
			err := story.SetTarget(&e, tt.handle, "T")
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("SetTarget() error = %v, want %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if ids := story.TargetIDs(e); !slices.Contains(ids, "T") {
				t.Errorf("TargetIDs() = %v, want to contain T", ids)
			}
		})
	}
}

func TestParseKind(t *testing.T) {
	for _, k := range story.Kinds {
		got, err := story.ParseKind(" " + string(k) + " ")
		if err != nil || got != k {
			t.Errorf("ParseKind(%q) = %q, %v", k, got, err)
		}
	}
	if got, err := story.ParseKind("Battle"); err != nil || got != story.KindBattle {
		t.Errorf("ParseKind(Battle) = %q, %v", got, err)
	}
	if _, err := story.ParseKind("cutscene"); !errors.Is(err, story.ErrInvalidKind) {
		t.Errorf("ParseKind(cutscene) error = %v, want ErrInvalidKind", err)
	}
}

func TestClonePayloadIsDeep(t *testing.T) {
	p := story.Payload{"gold": 10, "items": []any{map[string]any{"id": "sword"}}}
	c := story.ClonePayload(p)
	c["items"].([]any)[0].(map[string]any)["id"] = "axe"
	c["gold"] = 0

	if p["gold"] != 10 {
		t.Errorf("original gold changed: %v", p["gold"])
	}
	if got := p["items"].([]any)[0].(map[string]any)["id"]; got != "sword" {
		t.Errorf("original nested item changed: %v", got)
	}
	if story.ClonePayload(nil) != nil {
		t.Error("ClonePayload(nil) should be nil")
	}
}
