package story_test

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/storyforge/pkg/story"
	"github.com/matzehuels/storyforge/pkg/story/storytest"
)

func TestAddEvent(t *testing.T) {
	s := story.New("empty")

	s1, a, err := story.AddEvent(s, story.KindStory, "intro")
	if err != nil {
		t.Fatalf("AddEvent() error = %v", err)
	}
	if !strings.HasPrefix(a.ID, "ev_") {
		t.Errorf("event id = %q, want ev_ prefix", a.ID)
	}
	if s1.StartEventID != a.ID {
		t.Errorf("StartEventID = %q, want first event %q", s1.StartEventID, a.ID)
	}
	if a.NodeType != story.NodeStart {
		t.Errorf("NodeType = %q, want start", a.NodeType)
	}
	if len(s.Events) != 0 {
		t.Error("AddEvent modified its input")
	}

	s2, b, err := story.AddEvent(s1, story.KindDecision, "choice")
	if err != nil {
		t.Fatalf("AddEvent() error = %v", err)
	}
	if s2.StartEventID != a.ID {
		t.Errorf("start moved to %q", s2.StartEventID)
	}
	if b.NodeType != story.NodeMiddle {
		t.Errorf("NodeType = %q, want middle", b.NodeType)
	}
	d := b.Content.(*story.Decision)
	if len(d.Options) != 1 || d.Options[0].ID == "" {
		t.Errorf("default decision options = %+v, want one option with id", d.Options)
	}
	if got := s2.IDs(); !slices.Equal(got, []string{a.ID, b.ID}) {
		t.Errorf("IDs() = %v", got)
	}

	if _, _, err := story.AddEvent(s2, "cutscene", "x"); !errors.Is(err, story.ErrInvalidKind) {
		t.Errorf("AddEvent(bad kind) error = %v", err)
	}
}

func TestDeleteEvent(t *testing.T) {
	t.Run("requires confirmation", func(t *testing.T) {
		s := storytest.ABC()
		out, err := story.DeleteEvent(s, "C", false)
		if !errors.Is(err, story.ErrConfirmationRequired) {
			t.Fatalf("error = %v, want ErrConfirmationRequired", err)
		}
		if len(out.Events) != 3 {
			t.Error("unconfirmed delete removed an event")
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := story.DeleteEvent(storytest.ABC(), "Z", true)
		if !errors.Is(err, story.ErrUnknownEvent) {
			t.Fatalf("error = %v, want ErrUnknownEvent", err)
		}
	})

	t.Run("clears references", func(t *testing.T) {
		s := storytest.ABC()
		out, err := story.DeleteEvent(s, "C", true)
		if err != nil {
			t.Fatal(err)
		}
		if out.Has("C") {
			t.Fatal("C still present")
		}
		b, _ := out.Event("B")
		d := b.Content.(*story.Decision)
		if len(d.Options) != 2 {
			t.Fatalf("options = %d, want both options kept", len(d.Options))
		}
		if d.Options[0].NextEventID != "" {
			t.Errorf("opt1 target = %q, want cleared", d.Options[0].NextEventID)
		}
		if orig, _ := s.Event("B"); orig.Content.(*story.Decision).Options[0].NextEventID != "C" {
			t.Error("DeleteEvent modified its input")
		}
	})

	t.Run("clears every slot kind", func(t *testing.T) {
		s := story.Storyline{
			Name:         "all",
			StartEventID: "S",
			Events: []story.Event{
				storytest.Story("S", "X"),
				storytest.Decision("D", "X", "S", "X"),
				storytest.Battle("B", "X", "X"),
				storytest.Story("X", "X"),
			},
		}
		out, err := story.DeleteEvent(s, "X", true)
		if err != nil {
			t.Fatal(err)
		}
		for _, e := range out.Events {
			if slices.Contains(story.TargetIDs(e), "X") {
				t.Errorf("%s still targets X", e.ID)
			}
		}
		d, _ := out.Event("D")
		if got := story.TargetIDs(d); !slices.Equal(got, []string{"S"}) {
			t.Errorf("D targets = %v, want [S]", got)
		}
	})

	t.Run("start falls back", func(t *testing.T) {
		s := storytest.ABC()
		out, err := story.DeleteEvent(s, "A", true)
		if err != nil {
			t.Fatal(err)
		}
		if out.StartEventID != "B" {
			t.Errorf("StartEventID = %q, want B", out.StartEventID)
		}
	})

	t.Run("last event leaves start empty", func(t *testing.T) {
		s := storytest.Line("A")
		out, err := story.DeleteEvent(s, "A", true)
		if err != nil {
			t.Fatal(err)
		}
		if out.StartEventID != "" || len(out.Events) != 0 {
			t.Errorf("got start %q with %d events", out.StartEventID, len(out.Events))
		}
	})
}

func TestChangeKind(t *testing.T) {
	s := storytest.ABC()

	same, err := story.ChangeKind(s, "B", story.KindDecision)
	if err != nil {
		t.Fatal(err)
	}
	if got := story.TargetIDs(mustEvent(t, same, "B")); !slices.Equal(got, []string{"C"}) {
		t.Errorf("same-kind change touched targets: %v", got)
	}

	out, err := story.ChangeKind(s, "B", story.KindBattle)
	if err != nil {
		t.Fatal(err)
	}
	b := mustEvent(t, out, "B")
	if b.Kind() != story.KindBattle {
		t.Fatalf("kind = %q, want battle", b.Kind())
	}
	if ids := story.TargetIDs(b); len(ids) != 0 {
		t.Errorf("targets after reset = %v, want none", ids)
	}

	ended, err := story.ChangeKind(s, "A", story.KindEnd)
	if err != nil {
		t.Fatal(err)
	}
	if a := mustEvent(t, ended, "A"); a.NodeType != story.NodeEnd {
		t.Errorf("NodeType = %q, want end", a.NodeType)
	}

	back, err := story.ChangeKind(s, "C", story.KindStory)
	if err != nil {
		t.Fatal(err)
	}
	if c := mustEvent(t, back, "C"); c.NodeType != story.NodeMiddle {
		t.Errorf("NodeType = %q, want middle", c.NodeType)
	}

	if _, err := story.ChangeKind(s, "Z", story.KindEnd); !errors.Is(err, story.ErrUnknownEvent) {
		t.Errorf("unknown event error = %v", err)
	}
}

func TestOptionEditsKeepIDs(t *testing.T) {
	s := storytest.ABC()

	s, added, err := story.AddOption(s, "B", "flee")
	if err != nil {
		t.Fatal(err)
	}
	s, err = story.UpdateOption(s, "B", "opt1", "fight", story.Payload{"flag": "brave"})
	if err != nil {
		t.Fatal(err)
	}
	d := mustEvent(t, s, "B").Content.(*story.Decision)
	ids := []string{d.Options[0].ID, d.Options[1].ID, d.Options[2].ID}
	if !slices.Equal(ids, []string{"opt1", "opt2", added.ID}) {
		t.Errorf("option ids = %v", ids)
	}
	if d.Options[0].NextEventID != "C" || d.Options[0].Text != "fight" {
		t.Errorf("updated option = %+v", d.Options[0])
	}

	s, err = story.RemoveOption(s, "B", "opt2")
	if err != nil {
		t.Fatal(err)
	}
	d = mustEvent(t, s, "B").Content.(*story.Decision)
	if len(d.Options) != 2 || d.Options[1].ID != added.ID {
		t.Errorf("options after remove = %+v", d.Options)
	}

	if _, _, err := story.AddOption(s, "A", "x"); !errors.Is(err, story.ErrWrongKind) {
		t.Errorf("AddOption on story error = %v", err)
	}
	if _, err := story.RemoveOption(s, "B", "nope"); !errors.Is(err, story.ErrUnknownOption) {
		t.Errorf("RemoveOption unknown error = %v", err)
	}
}

func TestUpdateEvent(t *testing.T) {
	name, text, ap := "Prologue", "Once upon a time", 3
	s, err := story.UpdateEvent(storytest.ABC(), "A", story.EventUpdate{Name: &name, Text: &text, ActionPoints: &ap})
	if err != nil {
		t.Fatal(err)
	}
	a := mustEvent(t, s, "A")
	if a.Name != name || a.ActionPoints != ap || story.ContentText(a.Content) != text {
		t.Errorf("event = %+v", a)
	}
	if got := story.TargetIDs(a); !slices.Equal(got, []string{"B"}) {
		t.Errorf("targets changed: %v", got)
	}

	neg := -1
	if _, err := story.UpdateEvent(s, "A", story.EventUpdate{ActionPoints: &neg}); err == nil {
		t.Error("negative action points accepted")
	}
	bad := story.NodeType("side")
	if _, err := story.UpdateEvent(s, "A", story.EventUpdate{NodeType: &bad}); err == nil {
		t.Error("invalid node type accepted")
	}
}

func TestSetBattleEnemyAndRewards(t *testing.T) {
	s := story.Storyline{Name: "fight", StartEventID: "X", Events: []story.Event{storytest.Battle("X", "", "")}}
	snap := story.Payload{"name": "Goblin", "hp": 12}

	s, err := story.SetBattleEnemy(s, "X", "goblin", snap)
	if err != nil {
		t.Fatal(err)
	}
	snap["hp"] = 0
	b := mustEvent(t, s, "X").Content.(*story.Battle)
	if b.EnemyID != "goblin" || b.Enemy["hp"] != 12 {
		t.Errorf("battle enemy = %q %v", b.EnemyID, b.Enemy)
	}

	s, err = story.SetRewards(s, "X", story.HandleWin, []story.Payload{{"gold": 5}})
	if err != nil {
		t.Fatal(err)
	}
	b = mustEvent(t, s, "X").Content.(*story.Battle)
	if len(b.Win.Rewards) != 1 || len(b.Lose.Rewards) != 0 {
		t.Errorf("rewards win=%v lose=%v", b.Win.Rewards, b.Lose.Rewards)
	}

	if _, err := story.SetRewards(s, "X", story.HandleNext, nil); !errors.Is(err, story.ErrUnknownHandle) {
		t.Errorf("SetRewards(next) on battle error = %v", err)
	}
	if _, err := story.SetBattleEnemy(storytest.ABC(), "A", "goblin", nil); !errors.Is(err, story.ErrWrongKind) {
		t.Errorf("SetBattleEnemy on story error = %v", err)
	}
}

func TestSetStart(t *testing.T) {
	s, err := story.SetStart(storytest.ABC(), "B")
	if err != nil || s.StartEventID != "B" {
		t.Fatalf("SetStart(B) = %q, %v", s.StartEventID, err)
	}
	s, err = story.SetStart(s, "")
	if err != nil || s.StartEventID != "" {
		t.Fatalf("SetStart(\"\") = %q, %v", s.StartEventID, err)
	}
	if _, err := story.SetStart(s, "Z"); !errors.Is(err, story.ErrUnknownEvent) {
		t.Errorf("SetStart(Z) error = %v", err)
	}
}

func TestNewIDUnique(t *testing.T) {
	seen := make(map[string]bool)
	for range 1000 {
		id := story.NewEventID()
		if seen[id] {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = true
	}
}

func mustEvent(t *testing.T, s story.Storyline, id string) story.Event {
	t.Helper()
	e, ok := s.Event(id)
	if !ok {
		t.Fatalf("event %q not found", id)
	}
	return e
}
