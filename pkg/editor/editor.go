package editor

import (
	"context"
	stderrors "errors"
	"io"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/storyforge/pkg/cache"
	"github.com/matzehuels/storyforge/pkg/document"
	"github.com/matzehuels/storyforge/pkg/errors"
	"github.com/matzehuels/storyforge/pkg/observability"
	"github.com/matzehuels/storyforge/pkg/store"
	"github.com/matzehuels/storyforge/pkg/story"
	"github.com/matzehuels/storyforge/pkg/story/diagram"
	"github.com/matzehuels/storyforge/pkg/story/layout"
	"github.com/matzehuels/storyforge/pkg/story/validate"
)

// Options configures a Session.
type Options struct {
	// Logger receives debug output for edits and rejected gestures. Nil
	// discards everything.
	Logger *log.Logger

	// Layout is the grid geometry used by Layout and Diagram.
	Layout layout.Options
}

// Session is an editing session over one storyline.
type Session struct {
	mu     sync.Mutex
	model  story.Storyline
	dirty  bool
	logger *log.Logger
	opts   layout.Options

	edges  *cache.Memo[[]diagram.Edge]
	report *cache.Memo[validate.Report]
	layout *cache.Memo[layout.Layout]
}

// New starts a session over s. The session keeps its own copy.
func New(s story.Storyline, opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Session{
		model:  s.Clone(),
		logger: logger.With("storyline", s.ID),
		opts:   opts.Layout,
		edges:  cache.NewMemo("edges", slices.Clone[[]diagram.Edge]),
		report: cache.NewMemo("validation", validate.Report.Clone),
		layout: cache.NewMemo("layout", layout.Layout.Clone),
	}
}

// Open loads the storyline id from st and starts a session over it.
func Open(ctx context.Context, st store.Store, id string, opts Options) (*Session, error) {
	s, err := st.Load(ctx, id)
	if err != nil {
		if stderrors.Is(err, store.ErrNotFound) {
			return nil, errors.Wrap(errors.ErrCodeStorylineNotFound, err, "open storyline %s", id)
		}
		return nil, errors.Wrap(errors.ErrCodeStore, err, "open storyline %s", id)
	}
	return New(s, opts), nil
}

// Storyline returns a copy of the current model.
func (s *Session) Storyline() story.Storyline {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.model.Clone()
}

// ID returns the storyline id.
func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.model.ID
}

// Dirty reports whether the model changed since it was opened or last saved.
func (s *Session) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// Apply runs op on a copy of the model and replaces the model with the
// result. On error the model is unchanged and the error is returned as a
// coded error. name labels the edit in logs and hooks.
func (s *Session) Apply(ctx context.Context, name string, op func(story.Storyline) (story.Storyline, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.apply(ctx, name, op)
}

func (s *Session) apply(ctx context.Context, name string, op func(story.Storyline) (story.Storyline, error)) error {
	next, err := op(s.model.Clone())
	err = classify(name, err)
	observability.Editor().OnMutation(ctx, s.model.ID, name, err)
	if err != nil {
		s.logger.Debug("edit rejected", "op", name, "err", err)
		return err
	}
	s.model = next
	s.dirty = true
	s.logger.Debug("edit", "op", name, "events", len(next.Events))
	return nil
}

// =============================================================================
// Edits
// =============================================================================

// AddEvent appends a new event with default content of kind k and returns it.
func (s *Session) AddEvent(ctx context.Context, k story.Kind, name string) (story.Event, error) {
	var added story.Event
	err := s.Apply(ctx, "add_event", func(m story.Storyline) (story.Storyline, error) {
		out, e, err := story.AddEvent(m, k, name)
		added = e
		return out, err
	})
	return added, err
}

// DeleteEvent removes an event and every reference to it. confirm must be
// true.
func (s *Session) DeleteEvent(ctx context.Context, id string, confirm bool) error {
	return s.Apply(ctx, "delete_event", func(m story.Storyline) (story.Storyline, error) {
		return story.DeleteEvent(m, id, confirm)
	})
}

// ChangeKind replaces the content of an event with default content of k.
func (s *Session) ChangeKind(ctx context.Context, id string, k story.Kind) error {
	return s.Apply(ctx, "change_kind", func(m story.Storyline) (story.Storyline, error) {
		return story.ChangeKind(m, id, k)
	})
}

// SetStart makes id the start event.
func (s *Session) SetStart(ctx context.Context, id string) error {
	return s.Apply(ctx, "set_start", func(m story.Storyline) (story.Storyline, error) {
		return story.SetStart(m, id)
	})
}

// UpdateEvent changes name, node type or text of an event.
func (s *Session) UpdateEvent(ctx context.Context, id string, u story.EventUpdate) error {
	return s.Apply(ctx, "update_event", func(m story.Storyline) (story.Storyline, error) {
		return story.UpdateEvent(m, id, u)
	})
}

// Connect points a slot of source at target.
//
// A target that is not an event is a defensive reject: the model stays as it
// is, the attempt is logged at debug level, and Connect returns false with a
// nil error. Other failures (unknown source, unknown handle) are errors.
func (s *Session) Connect(ctx context.Context, source string, h story.Handle, target string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.model.Has(target) && s.model.Has(source) {
		s.logger.Debug("connect ignored", "source", source, "handle", h, "target", target)
		return false, nil
	}
	err := s.apply(ctx, "connect", func(m story.Storyline) (story.Storyline, error) {
		return diagram.Connect(m, source, h, target)
	})
	return err == nil, err
}

// Disconnect clears a slot of source.
func (s *Session) Disconnect(ctx context.Context, source string, h story.Handle) error {
	return s.Apply(ctx, "disconnect", func(m story.Storyline) (story.Storyline, error) {
		return diagram.Disconnect(m, source, h)
	})
}

// RemoveEdges disconnects the slots behind the given edge ids.
func (s *Session) RemoveEdges(ctx context.Context, ids ...string) error {
	return s.Apply(ctx, "remove_edges", func(m story.Storyline) (story.Storyline, error) {
		return diagram.RemoveEdges(m, ids...)
	})
}

// =============================================================================
// Derived views
// =============================================================================

// Edges returns the edges derived from the current transition slots.
func (s *Session) Edges(ctx context.Context) []diagram.Edge {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.edgesLocked(ctx)
}

func (s *Session) edgesLocked(ctx context.Context) []diagram.Edge {
	key := cache.Fingerprint(s.model.IDs(), slotTargets(s.model))
	return s.edges.Get(ctx, key, func() []diagram.Edge {
		return diagram.DeriveEdges(s.model)
	})
}

// Report validates the current model.
func (s *Session) Report(ctx context.Context) validate.Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reportLocked(ctx)
}

func (s *Session) reportLocked(ctx context.Context) validate.Report {
	key := cache.Fingerprint(s.model.Name, s.model.StartEventID, structure(s.model))
	return s.report.Get(ctx, key, func() validate.Report {
		start := time.Now()
		r := validate.Validate(s.model)
		observability.Editor().OnValidate(ctx, s.model.ID, len(r.Errors), len(r.Warnings), time.Since(start))
		return r
	})
}

// Layout computes grid positions for the current model.
func (s *Session) Layout(ctx context.Context) layout.Layout {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.layoutLocked(ctx)
}

func (s *Session) layoutLocked(ctx context.Context) layout.Layout {
	key := cache.Fingerprint(s.model.IDs(), s.model.StartEventID, s.edgesLocked(ctx), s.opts)
	return s.layout.Get(ctx, key, func() layout.Layout {
		start := time.Now()
		l := layout.Compute(s.model, s.opts)
		observability.Editor().OnLayout(ctx, s.model.ID, len(l.Positions), time.Since(start))
		return l
	})
}

// Diagram returns the positioned diagram of the current model.
func (s *Session) Diagram(ctx context.Context) diagram.Diagram {
	s.mu.Lock()
	defer s.mu.Unlock()
	return diagram.Build(s.model, s.layoutLocked(ctx))
}

// =============================================================================
// Persistence
// =============================================================================

// Submit validates the model and saves it to st. Blocking issues return a
// VALIDATION_FAILED error together with the report and st is not called. A
// store failure returns a STORE_ERROR error; the model and the dirty flag are
// left as they were.
func (s *Session) Submit(ctx context.Context, st store.Store) (validate.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	r := s.reportLocked(ctx)
	if r.Blocking() {
		err := r.Err()
		observability.Editor().OnSubmit(ctx, s.model.ID, true, time.Since(start), err)
		s.logger.Debug("submit blocked", "errors", len(r.Errors))
		return r, err
	}

	if err := st.Save(ctx, s.model.Clone()); err != nil {
		err = errors.Wrap(errors.ErrCodeStore, err, "save storyline %s", s.model.ID)
		observability.Editor().OnSubmit(ctx, s.model.ID, false, time.Since(start), err)
		s.logger.Warn("submit failed", "err", err)
		return r, err
	}
	s.dirty = false
	observability.Editor().OnSubmit(ctx, s.model.ID, false, time.Since(start), nil)
	s.logger.Info("saved", "events", len(s.model.Events), "warnings", len(r.Warnings))
	return r, nil
}

// =============================================================================
// Helpers
// =============================================================================

// slotTargets lists the connected slots of every event, in order.
func slotTargets(m story.Storyline) [][]story.Target {
	out := make([][]story.Target, len(m.Events))
	for i, e := range m.Events {
		out[i] = story.Targets(e)
	}
	return out
}

// structure is the validation input beyond name and start: event ids, names
// and content, in the persisted document shape.
func structure(m story.Storyline) []document.Event {
	return document.From(m).Events
}

// classify attaches an error code to failures of story and diagram edits.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	var coded *errors.Error
	if stderrors.As(err, &coded) {
		return err
	}
	code := errors.ErrCodeInvalidInput
	switch {
	case stderrors.Is(err, story.ErrConfirmationRequired):
		code = errors.ErrCodeConfirmationRequired
	case stderrors.Is(err, story.ErrInvalidKind):
		code = errors.ErrCodeInvalidKind
	case stderrors.Is(err, diagram.ErrUnknownTarget):
		code = errors.ErrCodeRejected
	case stderrors.Is(err, diagram.ErrUnknownHandle),
		stderrors.Is(err, story.ErrUnknownHandle),
		stderrors.Is(err, story.ErrUnknownOption),
		stderrors.Is(err, story.ErrWrongKind):
		code = errors.ErrCodeInvalidHandle
	case stderrors.Is(err, diagram.ErrUnknownSource),
		stderrors.Is(err, story.ErrUnknownEvent):
		code = errors.ErrCodeEventNotFound
	}
	return errors.Wrap(code, err, "%s", strings.ReplaceAll(op, "_", " "))
}
