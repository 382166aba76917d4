// Package editor holds an editing session over one storyline.
//
// A [Session] owns the in-memory storyline and applies every edit as a whole
// replacement of the model: operations from pkg/story and pkg/story/diagram
// return a new storyline, and the session swaps it in only when the operation
// succeeded. Derived views (edges, validation report, layout) are memoized by
// a fingerprint of the inputs they depend on and recomputed when the
// fingerprint changes.
//
// # Persistence
//
// [Session.Submit] validates the storyline and hands it to a [store.Store]
// only when the report has no blocking issues. A failed save leaves the model
// untouched and the session dirty, so the user can retry.
//
// # Concurrency
//
// A Session is guarded by a mutex and may be shared by HTTP handlers. Edits
// are serialized; the last edit wins.
package editor
