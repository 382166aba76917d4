// Package observability provides hooks for metrics, tracing, and logging.
//
// Consumers register hooks at startup to receive events about editing
// sessions, derived-structure caches and storyline persistence. Libraries
// only ever talk to the hook interfaces, so no observability backend is a
// dependency of the engine.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetEditorHooks(&myEditorHooks{})
//	    observability.SetStoreHooks(&myStoreHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	start := time.Now()
//	err := st.Save(ctx, s)
//	observability.Store().OnSave(ctx, "redis", s.ID, time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Editor Hooks
// =============================================================================

// EditorHooks receives events from editing sessions.
type EditorHooks interface {
	// OnMutation records one whole-model replacement attempt. op names the
	// edit ("add_event", "connect", ...); a non-nil err means the model was
	// left unchanged.
	OnMutation(ctx context.Context, storylineID, op string, err error)

	// OnValidate records a validator run (memo misses only).
	OnValidate(ctx context.Context, storylineID string, errors, warnings int, duration time.Duration)

	// OnLayout records a layout run (memo misses only).
	OnLayout(ctx context.Context, storylineID string, nodeCount int, duration time.Duration)

	// OnSubmit records a submit attempt. blocked is true when validation
	// prevented the save.
	OnSubmit(ctx context.Context, storylineID string, blocked bool, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// Store Hooks
// =============================================================================

// StoreHooks receives events from storyline stores.
type StoreHooks interface {
	// OnLoad records a load by id.
	OnLoad(ctx context.Context, backend, id string, duration time.Duration, err error)

	// OnSave records a save.
	OnSave(ctx context.Context, backend, id string, duration time.Duration, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopEditorHooks is a no-op implementation of EditorHooks.
type NoopEditorHooks struct{}

func (NoopEditorHooks) OnMutation(context.Context, string, string, error)            {}
func (NoopEditorHooks) OnValidate(context.Context, string, int, int, time.Duration)  {}
func (NoopEditorHooks) OnLayout(context.Context, string, int, time.Duration)         {}
func (NoopEditorHooks) OnSubmit(context.Context, string, bool, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopStoreHooks is a no-op implementation of StoreHooks.
type NoopStoreHooks struct{}

func (NoopStoreHooks) OnLoad(context.Context, string, string, time.Duration, error) {}
func (NoopStoreHooks) OnSave(context.Context, string, string, time.Duration, error) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

// slot holds one registered hook set. Nil registrations are ignored.
type slot[T any] struct {
	mu   sync.RWMutex
	cur  T
	noop T
}

func newSlot[T any](noop T) *slot[T] { return &slot[T]{cur: noop, noop: noop} }

func (s *slot[T]) get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur
}

func (s *slot[T]) set(h T, isNil bool) {
	if isNil {
		return
	}
	s.mu.Lock()
	s.cur = h
	s.mu.Unlock()
}

func (s *slot[T]) reset() { s.set(s.noop, false) }

var (
	editorHooks = newSlot[EditorHooks](NoopEditorHooks{})
	cacheHooks  = newSlot[CacheHooks](NoopCacheHooks{})
	storeHooks  = newSlot[StoreHooks](NoopStoreHooks{})
)

// SetEditorHooks registers editor hooks. Call it once at startup.
func SetEditorHooks(h EditorHooks) { editorHooks.set(h, h == nil) }

// SetCacheHooks registers cache hooks before any cache is built.
func SetCacheHooks(h CacheHooks) { cacheHooks.set(h, h == nil) }

// SetStoreHooks registers store hooks.
func SetStoreHooks(h StoreHooks) { storeHooks.set(h, h == nil) }

// Editor returns the registered editor hooks.
func Editor() EditorHooks { return editorHooks.get() }

// Cache returns the registered cache hooks.
func Cache() CacheHooks { return cacheHooks.get() }

// Store returns the registered store hooks.
func Store() StoreHooks { return storeHooks.get() }

// Reset restores the no-op hooks. Tests use it to undo registrations.
func Reset() {
	editorHooks.reset()
	cacheHooks.reset()
	storeHooks.reset()
}
