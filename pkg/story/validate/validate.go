// Package validate checks that a storyline is structurally sound before it
// is persisted.
//
// Validation produces a [Report] value rather than an error: blocking issues
// must be fixed before saving, warnings are informational. Reports are
// recomputed from scratch on every call; storylines are small and the editor
// memoizes reports by fingerprint.
package validate

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/matzehuels/storyforge/pkg/errors"
	"github.com/matzehuels/storyforge/pkg/story"
)

// Code identifies the kind of a validation issue.
type Code string

const (
	CodeEmptyName         Code = "empty_name"
	CodeNoEvents          Code = "no_events"
	CodeStartUnset        Code = "start_unset"
	CodeStartInvalid      Code = "start_invalid"
	CodeDanglingReference Code = "dangling_reference"
	CodeUnreachable       Code = "unreachable"
)

// Severity splits issues into save-blocking errors and warnings.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is one finding. EventID, Label and TargetID are set when the issue is
// about a specific event slot.
type Issue struct {
	Code     Code     `json:"code"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	EventID  string   `json:"event_id,omitempty"`
	Label    string   `json:"label,omitempty"`
	TargetID string   `json:"target_id,omitempty"`
}

// Report is the outcome of [Validate].
type Report struct {
	Errors   []Issue `json:"errors"`
	Warnings []Issue `json:"warnings"`

	// Reachable is the set of events reachable from a valid start. It is
	// empty when the start is unset or invalid.
	Reachable map[string]bool `json:"-"`

	// Unreachable lists events missing from Reachable, in storyline order.
	// It is only filled when the start is valid.
	Unreachable []string `json:"unreachable,omitempty"`
}

// Clone returns a deep copy of r.
func (r Report) Clone() Report {
	r.Errors = slices.Clone(r.Errors)
	r.Warnings = slices.Clone(r.Warnings)
	r.Reachable = maps.Clone(r.Reachable)
	r.Unreachable = slices.Clone(r.Unreachable)
	return r
}

// Blocking reports whether the storyline must not be saved.
func (r Report) Blocking() bool { return len(r.Errors) > 0 }

// Err summarizes blocking issues as a coded error, or returns nil.
func (r Report) Err() error {
	if !r.Blocking() {
		return nil
	}
	msgs := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		msgs[i] = e.Message
	}
	return errors.New(errors.ErrCodeValidationFailed, "%d blocking issue(s): %s",
		len(r.Errors), strings.Join(msgs, "; "))
}

// Validate checks the storyline.
//
// Blocking errors: empty name, no events, start unset or not an event, and
// every transition target that does not name an existing event. Warnings:
// events unreachable from the start. Reachability is only evaluated when the
// start is valid, so a missing start is reported once as an error rather than
// as every event being unreachable.
func Validate(s story.Storyline) Report {
	r := Report{Errors: []Issue{}, Warnings: []Issue{}, Reachable: map[string]bool{}}

	if strings.TrimSpace(s.Name) == "" {
		r.addError(Issue{Code: CodeEmptyName, Message: "storyline name is empty"})
	}
	if len(s.Events) == 0 {
		r.addError(Issue{Code: CodeNoEvents, Message: "storyline has no events"})
	}

	ids := s.IDSet()
	startValid := false
	switch {
	case s.StartEventID == "":
		r.addError(Issue{Code: CodeStartUnset, Message: "start event is not set"})
	case !ids[s.StartEventID]:
		r.addError(Issue{
			Code:     CodeStartInvalid,
			Message:  fmt.Sprintf("start event %q does not exist", s.StartEventID),
			TargetID: s.StartEventID,
		})
	default:
		startValid = true
	}

	for _, e := range s.Events {
		for _, t := range story.Targets(e) {
			if ids[t.EventID] {
				continue
			}
			r.addError(Issue{
				Code:     CodeDanglingReference,
				Message:  fmt.Sprintf("%s of %q points to missing event %q", t.Label, displayName(e), t.EventID),
				EventID:  e.ID,
				Label:    t.Label,
				TargetID: t.EventID,
			})
		}
	}

	if !startValid {
		return r
	}

	g := story.Graph(s)
	r.Reachable = g.Reachable(s.StartEventID)
	r.Unreachable = g.Unreachable(s.StartEventID)
	for _, id := range r.Unreachable {
		e, _ := s.Event(id)
		r.Warnings = append(r.Warnings, Issue{
			Code:     CodeUnreachable,
			Severity: SeverityWarning,
			Message:  fmt.Sprintf("%q is not reachable from the start event", displayName(e)),
			EventID:  id,
		})
	}
	return r
}

func (r *Report) addError(i Issue) {
	i.Severity = SeverityError
	r.Errors = append(r.Errors, i)
}

func displayName(e story.Event) string {
	if e.Name != "" {
		return e.Name
	}
	return e.ID
}
