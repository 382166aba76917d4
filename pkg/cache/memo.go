package cache

import (
	"context"
	"sync"

	"github.com/matzehuels/storyforge/pkg/observability"
)

// Memo holds one derived value together with the fingerprint of the inputs
// it was computed from. The value is recomputed, never patched, when the
// fingerprint changes.
//
// Callers receive clone(value), so mutating a returned map or slice never
// reaches the held value. A nil clone hands out the value itself, which is
// only correct for values without shared references.
//
// A Memo is safe for concurrent use; compute runs under the memo's lock.
type Memo[V any] struct {
	name  string
	clone func(V) V

	mu  sync.Mutex
	key string
	val V
	ok  bool
}

// NewMemo returns an empty memo. name labels cache hook events.
func NewMemo[V any](name string, clone func(V) V) *Memo[V] {
	return &Memo[V]{name: name, clone: clone}
}

// Get returns the value for key, calling compute on a miss.
func (m *Memo[V]) Get(ctx context.Context, key string, compute func() V) V {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ok && m.key == key {
		observability.Cache().OnCacheHit(ctx, m.name)
	} else {
		observability.Cache().OnCacheMiss(ctx, m.name)
		m.val, m.key, m.ok = compute(), key, true
	}
	if m.clone == nil {
		return m.val
	}
	return m.clone(m.val)
}
