package store

import (
	"context"
	"sync"
	"time"

	"github.com/matzehuels/storyforge/pkg/story"
)

// MemoryStore keeps storylines in memory. Stored values are deep copies, so
// callers can keep editing what they saved.
type MemoryStore struct {
	mu      sync.RWMutex
	items   map[string]story.Storyline
	updated map[string]time.Time

	// FailSave, when set, is returned by Save without storing anything.
	FailSave error
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		items:   make(map[string]story.Storyline),
		updated: make(map[string]time.Time),
	}
}

func (m *MemoryStore) Load(ctx context.Context, id string) (story.Storyline, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.items[id]
	if !ok {
		return story.Storyline{}, notFound(id)
	}
	return s.Clone(), nil
}

func (m *MemoryStore) Save(ctx context.Context, s story.Storyline) error {
	if err := checkID(s.ID); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailSave != nil {
		return m.FailSave
	}
	m.items[s.ID] = s.Clone()
	m.updated[s.ID] = time.Now()
	return nil
}

func (m *MemoryStore) List(ctx context.Context) ([]Summary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Summary, 0, len(m.items))
	for id, s := range m.items {
		out = append(out, summarize(s, m.updated[id]))
	}
	sortSummaries(out)
	return out, nil
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return notFound(id)
	}
	delete(m.items, id)
	delete(m.updated, id)
	return nil
}

func (m *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
