// Package store persists storylines.
//
// A [Store] loads and saves whole storylines by id. Backends:
//   - [MemoryStore]: in-process map, for tests and the "memory" backend
//   - [FileStore]: one JSON document per storyline in a directory (CLI default)
//   - [RedisStore]: JSON documents in Redis plus an id index set
//   - [MongoStore]: one BSON document per storyline, upserted by id
//
// Stores do not validate storylines beyond their id; the editor only calls
// Save for storylines without blocking validation issues. Concurrent editing
// of one storyline is not coordinated here: the last save wins.
package store

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/storyforge/pkg/config"
	"github.com/matzehuels/storyforge/pkg/errors"
	"github.com/matzehuels/storyforge/pkg/observability"
	"github.com/matzehuels/storyforge/pkg/story"
)

// ErrNotFound is returned by Load and Delete when no storyline has the id.
var ErrNotFound = stderrors.New("storyline not found")

// Summary describes a stored storyline for listings.
type Summary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Events    int       `json:"events"`
	UpdatedAt time.Time `json:"updated_at,omitzero"`
}

// Store is the persistence collaborator of the editor.
type Store interface {
	// Load returns the storyline with the given id or an error wrapping
	// ErrNotFound.
	Load(ctx context.Context, id string) (story.Storyline, error)

	// Save creates or replaces the storyline under its id.
	Save(ctx context.Context, s story.Storyline) error

	// List returns summaries ordered by id.
	List(ctx context.Context) ([]Summary, error)

	// Delete removes the storyline. Deleting a missing id returns
	// ErrNotFound.
	Delete(ctx context.Context, id string) error

	Close() error
}

// New opens the backend selected by cfg.Backend. The returned store reports
// loads and saves to the observability hooks and logs them at debug level.
func New(ctx context.Context, cfg config.Store, logger *log.Logger) (Store, error) {
	var (
		st  Store
		err error
	)
	switch cfg.Backend {
	case config.BackendMemory:
		st = NewMemoryStore()
	case config.BackendFile:
		st, err = NewFileStore(cfg.Dir)
	case config.BackendRedis:
		st, err = NewRedisStore(ctx, RedisConfig{URL: cfg.RedisURL, Prefix: cfg.RedisPrefix, Timeout: cfg.Timeout})
	case config.BackendMongo:
		st, err = NewMongoStore(ctx, MongoConfig{
			URI:        cfg.MongoURI,
			Database:   cfg.MongoDatabase,
			Collection: cfg.MongoCollection,
			Timeout:    cfg.Timeout,
		})
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown store backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "open %s store", cfg.Backend)
	}
	return Instrument(st, cfg.Backend, logger), nil
}

// summarize builds a listing entry.
func summarize(s story.Storyline, updated time.Time) Summary {
	return Summary{ID: s.ID, Name: s.Name, Events: len(s.Events), UpdatedAt: updated}
}

func sortSummaries(out []Summary) {
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
}

func notFound(id string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, id)
}

// checkID rejects ids that are unsafe as file names or keys.
func checkID(id string) error {
	return errors.ValidateID(id)
}

// =============================================================================
// Instrumentation
// =============================================================================

type instrumented struct {
	Store
	backend string
	logger  *log.Logger
}

// Instrument wraps st so loads and saves reach the observability hooks and
// the logger. A nil logger disables logging.
func Instrument(st Store, backend string, logger *log.Logger) Store {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &instrumented{Store: st, backend: backend, logger: logger.With("store", backend)}
}

func (s *instrumented) Load(ctx context.Context, id string) (story.Storyline, error) {
	start := time.Now()
	out, err := s.Store.Load(ctx, id)
	elapsed := time.Since(start)
	observability.Store().OnLoad(ctx, s.backend, id, elapsed, err)
	s.logger.Debug("load", "id", id, "duration", elapsed, "err", err)
	return out, err
}

func (s *instrumented) Save(ctx context.Context, st story.Storyline) error {
	start := time.Now()
	err := s.Store.Save(ctx, st)
	elapsed := time.Since(start)
	observability.Store().OnSave(ctx, s.backend, st.ID, elapsed, err)
	s.logger.Debug("save", "id", st.ID, "events", len(st.Events), "duration", elapsed, "err", err)
	return err
}
