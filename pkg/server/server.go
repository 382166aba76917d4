package server

import (
	"context"
	stderrors "errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/storyforge/pkg/catalog"
	"github.com/matzehuels/storyforge/pkg/config"
	"github.com/matzehuels/storyforge/pkg/editor"
	"github.com/matzehuels/storyforge/pkg/render"
	"github.com/matzehuels/storyforge/pkg/store"
	"github.com/matzehuels/storyforge/pkg/story/layout"
)

// Options configures a Server. Only Store is required.
type Options struct {
	Store    store.Store
	Catalog  *catalog.Catalog
	Renderer render.Renderer
	Layout   layout.Options
	Logger   *log.Logger
	Config   config.Server
}

// Server serves the editing API.
type Server struct {
	store    store.Store
	catalog  *catalog.Catalog
	renderer render.Renderer
	layout   layout.Options
	logger   *log.Logger
	cfg      config.Server

	mu       sync.Mutex
	sessions map[string]*editor.Session
}

// New creates a server.
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	cat := opts.Catalog
	if cat == nil {
		cat = catalog.Empty()
	}
	return &Server{
		store:    opts.Store,
		catalog:  cat,
		renderer: opts.Renderer,
		layout:   opts.Layout,
		logger:   logger,
		cfg:      opts.Config,
		sessions: make(map[string]*editor.Session),
	}
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.health)
	r.Get("/catalog/enemies", s.listEnemies)

	r.Route("/storylines", func(r chi.Router) {
		r.Get("/", s.listStorylines)
		r.Post("/", s.createStoryline)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.withSession(s.getStoryline))
			r.Delete("/", s.deleteStoryline)
			r.Put("/start", s.withSession(s.setStart))

			r.Post("/events", s.withSession(s.addEvent))
			r.Patch("/events/{eventID}", s.withSession(s.updateEvent))
			r.Delete("/events/{eventID}", s.withSession(s.deleteEvent))
			r.Put("/events/{eventID}/kind", s.withSession(s.changeKind))
			r.Put("/events/{eventID}/enemy", s.withSession(s.setEnemy))
			r.Put("/events/{eventID}/rewards", s.withSession(s.setRewards))
			r.Post("/events/{eventID}/options", s.withSession(s.addOption))
			r.Patch("/events/{eventID}/options/{optionID}", s.withSession(s.updateOption))
			r.Delete("/events/{eventID}/options/{optionID}", s.withSession(s.removeOption))

			r.Post("/connect", s.withSession(s.connect))
			r.Post("/disconnect", s.withSession(s.disconnect))
			r.Post("/edges/remove", s.withSession(s.removeEdges))

			r.Get("/validation", s.withSession(s.validation))
			r.Get("/layout", s.withSession(s.layoutView))
			r.Get("/diagram", s.withSession(s.diagramView))
			r.Get("/render", s.withSession(s.renderView))
			r.Post("/submit", s.withSession(s.submit))
		})
	})
	return r
}

// Run serves on the configured address until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// session returns the live session for id, opening it from the store on
// first use. The store load runs without holding s.mu; when two requests race
// on the same id the first session to be registered wins.
func (s *Server) session(ctx context.Context, id string) (*editor.Session, error) {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	s.mu.Unlock()
	if ok {
		return sess, nil
	}

	loaded, err := editor.Open(ctx, s.store, id, s.editorOptions())
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[id]; ok {
		return sess, nil
	}
	s.sessions[id] = loaded
	return loaded, nil
}

func (s *Server) track(sess *editor.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID()] = sess
}

func (s *Server) forget(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

func (s *Server) editorOptions() editor.Options {
	return editor.Options{Logger: s.logger, Layout: s.layout}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
