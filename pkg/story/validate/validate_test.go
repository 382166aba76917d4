package validate_test

import (
	"slices"
	"testing"

	"github.com/matzehuels/storyforge/pkg/errors"
	"github.com/matzehuels/storyforge/pkg/story"
	"github.com/matzehuels/storyforge/pkg/story/storytest"
	"github.com/matzehuels/storyforge/pkg/story/validate"
)

func codes(issues []validate.Issue) []validate.Code {
	out := make([]validate.Code, len(issues))
	for i, is := range issues {
		out[i] = is.Code
	}
	return out
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		build    func() story.Storyline
		errors   []validate.Code
		warnings []validate.Code
	}{
		{
			name:     "abc is clean",
			build:    storytest.ABC,
			errors:   []validate.Code{},
			warnings: []validate.Code{},
		},
		{
			name: "empty name",
			build: func() story.Storyline {
				s := storytest.ABC()
				s.Name = "   "
				return s
			},
			errors:   []validate.Code{validate.CodeEmptyName},
			warnings: []validate.Code{},
		},
		{
			name:     "no events",
			build:    func() story.Storyline { return story.Storyline{Name: "x"} },
			errors:   []validate.Code{validate.CodeNoEvents, validate.CodeStartUnset},
			warnings: []validate.Code{},
		},
		{
			name: "start unset skips reachability",
			build: func() story.Storyline {
				s := storytest.ABC()
				s.StartEventID = ""
				return s
			},
			errors:   []validate.Code{validate.CodeStartUnset},
			warnings: []validate.Code{},
		},
		{
			name: "start invalid",
			build: func() story.Storyline {
				s := storytest.ABC()
				s.StartEventID = "Z"
				return s
			},
			errors:   []validate.Code{validate.CodeStartInvalid},
			warnings: []validate.Code{},
		},
		{
			name: "dangling references",
			build: func() story.Storyline {
				s := storytest.ABC()
				s.Events = append(s.Events, storytest.Battle("X", "gone", "C"))
				s.Events[0] = storytest.Story("A", "missing")
				return s
			},
			errors:   []validate.Code{validate.CodeDanglingReference, validate.CodeDanglingReference},
			warnings: []validate.Code{validate.CodeUnreachable, validate.CodeUnreachable, validate.CodeUnreachable},
		},
		{
			name: "unreachable is a warning",
			build: func() story.Storyline {
				s := storytest.ABC()
				s.Events = append(s.Events, storytest.End("D"))
				return s
			},
			errors:   []validate.Code{},
			warnings: []validate.Code{validate.CodeUnreachable},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validate.Validate(tt.build())
			if got := codes(r.Errors); !slices.Equal(got, tt.errors) {
				t.Errorf("errors = %v, want %v", got, tt.errors)
			}
			if got := codes(r.Warnings); !slices.Equal(got, tt.warnings) {
				t.Errorf("warnings = %v, want %v", got, tt.warnings)
			}
			if r.Blocking() != (len(tt.errors) > 0) {
				t.Errorf("Blocking() = %v", r.Blocking())
			}
		})
	}
}

func TestDanglingReferenceDetails(t *testing.T) {
	s := storytest.ABC()
	s.Events[1] = storytest.Decision("B", "C", "nowhere")

	r := validate.Validate(s)
	if len(r.Errors) != 1 || r.Errors[0].Code != validate.CodeDanglingReference {
		t.Fatalf("Errors = %v, want one dangling reference", r.Errors)
	}
	got := r.Errors[0]
	if got.EventID != "B" || got.Label != "Option 2" || got.TargetID != "nowhere" {
		t.Errorf("issue = %+v", got)
	}
	if got.Severity != validate.SeverityError {
		t.Errorf("severity = %q", got.Severity)
	}
}

func TestReportErr(t *testing.T) {
	if err := validate.Validate(storytest.ABC()).Err(); err != nil {
		t.Errorf("Err() = %v, want nil", err)
	}
	err := validate.Validate(story.Storyline{}).Err()
	if !errors.Is(err, errors.ErrCodeValidationFailed) {
		t.Errorf("Err() = %v, want VALIDATION_FAILED", err)
	}
}

// A storyline without blocking errors never contains a target that is not an
// event id.
func TestReferenceIntegrity(t *testing.T) {
	cases := []story.Storyline{
		storytest.ABC(),
		storytest.Line("a", "b", "c", "d"),
		{
			Name:         "loop",
			StartEventID: "x",
			Events: []story.Event{
				storytest.Battle("x", "y", "x"),
				storytest.Decision("y", "x", "", "z"),
				storytest.End("z"),
			},
		},
	}
	for _, s := range cases {
		if validate.Validate(s).Blocking() {
			t.Fatalf("%s unexpectedly blocking", s.Name)
		}
		ids := s.IDSet()
		for _, e := range s.Events {
			for _, id := range story.TargetIDs(e) {
				if !ids[id] {
					t.Errorf("%s: %s targets unknown %s", s.Name, e.ID, id)
				}
			}
		}
	}
}

// Adding an edge from a reachable event to an unreachable one can only
// shrink the unreachable set.
func TestReachabilityMonotonic(t *testing.T) {
	s := story.Storyline{
		Name:         "islands",
		StartEventID: "A",
		Events: []story.Event{
			storytest.Decision("A", "B", ""),
			storytest.End("B"),
			storytest.Story("U1", "U2"),
			storytest.End("U2"),
			storytest.End("U3"),
		},
	}
	before := validate.Validate(s)
	if !slices.Equal(before.Unreachable, []string{"U1", "U2", "U3"}) {
		t.Fatalf("Unreachable before = %v", before.Unreachable)
	}

	linked := s.Clone()
	if err := story.SetTarget(&linked.Events[0], story.OptionHandle("opt2"), "U1"); err != nil {
		t.Fatal(err)
	}
	after := validate.Validate(linked)
	if !slices.Equal(after.Unreachable, []string{"U3"}) {
		t.Errorf("Unreachable after = %v, want [U3]", after.Unreachable)
	}
	for _, id := range after.Unreachable {
		if !slices.Contains(before.Unreachable, id) {
			t.Errorf("%s became unreachable", id)
		}
	}
}

func TestABCDeleteKeepsReachability(t *testing.T) {
	s, err := story.DeleteEvent(storytest.ABC(), "C", true)
	if err != nil {
		t.Fatal(err)
	}
	r := validate.Validate(s)
	if r.Blocking() || len(r.Warnings) != 0 {
		t.Errorf("report = %+v, want clean", r)
	}
	if !r.Reachable["A"] || !r.Reachable["B"] {
		t.Errorf("Reachable = %v", r.Reachable)
	}
}
