package server

import (
	stderrors "errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/storyforge/pkg/buildinfo"
	"github.com/matzehuels/storyforge/pkg/document"
	"github.com/matzehuels/storyforge/pkg/editor"
	"github.com/matzehuels/storyforge/pkg/errors"
	"github.com/matzehuels/storyforge/pkg/render"
	"github.com/matzehuels/storyforge/pkg/store"
	"github.com/matzehuels/storyforge/pkg/story"
	"github.com/matzehuels/storyforge/pkg/story/diagram"
)

// stateResponse is returned by every edit.
type stateResponse struct {
	Storyline document.Storyline `json:"storyline"`
	Dirty     bool               `json:"dirty"`
}

func state(sess *editor.Session) stateResponse {
	return stateResponse{Storyline: document.From(sess.Storyline()), Dirty: sess.Dirty()}
}

// withSession resolves the {id} route parameter to a live session.
func (s *Server) withSession(fn func(http.ResponseWriter, *http.Request, *editor.Session)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := s.session(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		fn(w, r, sess)
	}
}

// edit runs a session edit and answers with the new state.
func (s *Server) edit(w http.ResponseWriter, r *http.Request, sess *editor.Session, err error) {
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, state(sess))
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Status string `json:"status"`
		buildinfo.Info
	}{"ok", buildinfo.Get()})
}

func (s *Server) listEnemies(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.catalog.Enemies())
}

// =============================================================================
// Storylines
// =============================================================================

func (s *Server) listStorylines(w http.ResponseWriter, r *http.Request) {
	list, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeStore, err, "list storylines"))
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) createStoryline(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := errors.ValidateName(req.Name); err != nil {
		s.writeError(w, r, err)
		return
	}
	sess := editor.New(story.New(req.Name), s.editorOptions())
	s.track(sess)
	writeJSON(w, http.StatusCreated, state(sess))
}

func (s *Server) getStoryline(w http.ResponseWriter, r *http.Request, sess *editor.Session) {
	writeJSON(w, http.StatusOK, state(sess))
}

func (s *Server) deleteStoryline(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	err := s.store.Delete(r.Context(), id)
	switch {
	case stderrors.Is(err, store.ErrNotFound):
		s.writeError(w, r, errors.Wrap(errors.ErrCodeStorylineNotFound, err, "delete storyline %s", id))
		return
	case err != nil:
		s.writeError(w, r, errors.Wrap(errors.ErrCodeStore, err, "delete storyline %s", id))
		return
	}
	s.forget(id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) setStart(w http.ResponseWriter, r *http.Request, sess *editor.Session) {
	var req struct {
		EventID string `json:"event_id"`
	}
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.edit(w, r, sess, sess.SetStart(r.Context(), req.EventID))
}

// =============================================================================
// Events
// =============================================================================

func (s *Server) addEvent(w http.ResponseWriter, r *http.Request, sess *editor.Session) {
	var req struct {
		Kind string `json:"kind"`
		Name string `json:"name"`
	}
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	k, err := parseKind(req.Kind)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	e, err := sess.AddEvent(r.Context(), k, req.Name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, struct {
		EventID string `json:"event_id"`
		stateResponse
	}{e.ID, state(sess)})
}

func (s *Server) updateEvent(w http.ResponseWriter, r *http.Request, sess *editor.Session) {
	var req struct {
		Name         *string `json:"name"`
		Text         *string `json:"text"`
		NodeType     *string `json:"node_type"`
		ActionPoints *int    `json:"action_points"`
	}
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	u := story.EventUpdate{Name: req.Name, Text: req.Text, ActionPoints: req.ActionPoints}
	if req.NodeType != nil {
		nt := story.NodeType(*req.NodeType)
		u.NodeType = &nt
	}
	s.edit(w, r, sess, sess.UpdateEvent(r.Context(), chi.URLParam(r, "eventID"), u))
}

func (s *Server) deleteEvent(w http.ResponseWriter, r *http.Request, sess *editor.Session) {
	confirm, _ := strconv.ParseBool(r.URL.Query().Get("confirm"))
	s.edit(w, r, sess, sess.DeleteEvent(r.Context(), chi.URLParam(r, "eventID"), confirm))
}

func (s *Server) changeKind(w http.ResponseWriter, r *http.Request, sess *editor.Session) {
	var req struct {
		Kind string `json:"kind"`
	}
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	k, err := parseKind(req.Kind)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.edit(w, r, sess, sess.ChangeKind(r.Context(), chi.URLParam(r, "eventID"), k))
}

// parseKind accepts kinds in any case, matching the CLI.
func parseKind(raw string) (story.Kind, error) {
	k, err := story.ParseKind(raw)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidKind, err, "kind")
	}
	return k, nil
}

func (s *Server) setEnemy(w http.ResponseWriter, r *http.Request, sess *editor.Session) {
	var req struct {
		EnemyID string `json:"enemy_id"`
	}
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	snap, err := s.catalog.EnemySnapshot(req.EnemyID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	eventID := chi.URLParam(r, "eventID")
	err = sess.Apply(r.Context(), "set_enemy", func(m story.Storyline) (story.Storyline, error) {
		return story.SetBattleEnemy(m, eventID, req.EnemyID, snap)
	})
	s.edit(w, r, sess, err)
}

func (s *Server) addOption(w http.ResponseWriter, r *http.Request, sess *editor.Session) {
	var req struct {
		Text string `json:"text"`
	}
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	var opt story.Option
	err := sess.Apply(r.Context(), "add_option", func(m story.Storyline) (story.Storyline, error) {
		var err error
		m, opt, err = story.AddOption(m, chi.URLParam(r, "eventID"), req.Text)
		return m, err
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, struct {
		OptionID string `json:"option_id"`
		stateResponse
	}{opt.ID, state(sess)})
}

func (s *Server) updateOption(w http.ResponseWriter, r *http.Request, sess *editor.Session) {
	var req struct {
		Text      string         `json:"text"`
		Condition map[string]any `json:"condition"`
	}
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	eventID, optionID := chi.URLParam(r, "eventID"), chi.URLParam(r, "optionID")
	err := sess.Apply(r.Context(), "update_option", func(m story.Storyline) (story.Storyline, error) {
		return story.UpdateOption(m, eventID, optionID, req.Text, req.Condition)
	})
	s.edit(w, r, sess, err)
}

func (s *Server) removeOption(w http.ResponseWriter, r *http.Request, sess *editor.Session) {
	eventID, optionID := chi.URLParam(r, "eventID"), chi.URLParam(r, "optionID")
	err := sess.Apply(r.Context(), "remove_option", func(m story.Storyline) (story.Storyline, error) {
		return story.RemoveOption(m, eventID, optionID)
	})
	s.edit(w, r, sess, err)
}

// setRewards replaces the rewards of a Story event or a Battle branch. The
// handle selects the slot: next, win or lose.
func (s *Server) setRewards(w http.ResponseWriter, r *http.Request, sess *editor.Session) {
	var req struct {
		Handle  string           `json:"handle"`
		Rewards []map[string]any `json:"rewards"`
	}
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	rewards := make([]story.Payload, len(req.Rewards))
	for i, rw := range req.Rewards {
		rewards[i] = rw
	}
	eventID := chi.URLParam(r, "eventID")
	err := sess.Apply(r.Context(), "set_rewards", func(m story.Storyline) (story.Storyline, error) {
		return story.SetRewards(m, eventID, story.Handle(req.Handle), rewards)
	})
	s.edit(w, r, sess, err)
}

// =============================================================================
// Edges
// =============================================================================

func (s *Server) connect(w http.ResponseWriter, r *http.Request, sess *editor.Session) {
	var req struct {
		Source string `json:"source"`
		Handle string `json:"handle"`
		Target string `json:"target"`
	}
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	h, err := diagram.ParseHandle(req.Handle)
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidHandle, err, "connect"))
		return
	}
	ok, err := sess.Connect(r.Context(), req.Source, h, req.Target)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Connected bool `json:"connected"`
		stateResponse
	}{ok, state(sess)})
}

func (s *Server) disconnect(w http.ResponseWriter, r *http.Request, sess *editor.Session) {
	var req struct {
		Source string `json:"source"`
		Handle string `json:"handle"`
	}
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	h, err := diagram.ParseHandle(req.Handle)
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidHandle, err, "disconnect"))
		return
	}
	s.edit(w, r, sess, sess.Disconnect(r.Context(), req.Source, h))
}

func (s *Server) removeEdges(w http.ResponseWriter, r *http.Request, sess *editor.Session) {
	var req struct {
		IDs []string `json:"ids"`
	}
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.edit(w, r, sess, sess.RemoveEdges(r.Context(), req.IDs...))
}

// =============================================================================
// Derived views
// =============================================================================

func (s *Server) validation(w http.ResponseWriter, r *http.Request, sess *editor.Session) {
	writeJSON(w, http.StatusOK, sess.Report(r.Context()))
}

func (s *Server) layoutView(w http.ResponseWriter, r *http.Request, sess *editor.Session) {
	writeJSON(w, http.StatusOK, sess.Layout(r.Context()))
}

func (s *Server) diagramView(w http.ResponseWriter, r *http.Request, sess *editor.Session) {
	writeJSON(w, http.StatusOK, sess.Diagram(r.Context()))
}

func (s *Server) renderView(w http.ResponseWriter, r *http.Request, sess *editor.Session) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = render.FormatSVG
	}
	data, err := s.renderer.Render(r.Context(), sess.Diagram(r.Context()), format)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", render.ContentType(format))
	_, _ = w.Write(data)
}

func (s *Server) submit(w http.ResponseWriter, r *http.Request, sess *editor.Session) {
	report, err := sess.Submit(r.Context(), s.store)
	if err != nil {
		if errors.Is(err, errors.ErrCodeValidationFailed) {
			s.writeErrorReport(w, r, err, report)
			return
		}
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Report any `json:"report"`
		stateResponse
	}{report, state(sess)})
}
