// Package pkg provides the core libraries of Storyforge, an authoring tool
// for branching game storylines.
//
// # Overview
//
// A storyline is a set of events (decisions, battles, story steps and
// endings) joined by transitions. The pkg directory is organized into four
// areas:
//
//  1. Domain - the storyline model and everything derived from it
//  2. Editing - sessions that apply edits and guard saves
//  3. Infrastructure - storage, caching, configuration and errors
//  4. Delivery - rendering and the HTTP API
//
// # Architecture
//
// The typical data flow:
//
//	Storyline (document file or store)
//	         ↓
//	    [editor] session (apply edits, memoize derived views)
//	         ↓
//	    [story/validate] + [story/layout] + [story/diagram]
//	         ↓
//	    [render] (JSON/DOT/SVG/PDF/PNG) or [store] (save)
//
// # Quick Start
//
//	s := story.New("The Crossing")
//	sess := editor.New(s, editor.Options{})
//
//	a, _ := sess.AddEvent(ctx, story.KindStory, "Harbor")
//	b, _ := sess.AddEvent(ctx, story.KindEnd, "Departure")
//	sess.Connect(ctx, a.ID, story.HandleNext, b.ID)
//
//	if _, err := sess.Submit(ctx, store.NewMemoryStore()); err != nil {
//	    // VALIDATION_FAILED or STORE_ERROR
//	}
//
// # Main Packages
//
// ## Domain
//
// [story] - Storyline, event and content types plus pure mutation functions.
// Every mutation returns a new storyline and keeps references consistent.
//
// [dag] - Insertion-ordered directed graph with breadth-first traversal.
// Cycles are allowed; storylines loop back freely.
//
// [story/validate] - Blocking issues and reachability warnings.
//
// [story/layout] - Grid layout by distance from the start event.
//
// [story/diagram] - Positioned nodes and labelled edges for drawing.
//
// ## Editing
//
// [editor] - Single-storyline editing sessions with memoized derived views.
//
// [catalog] - Enemy, skill and trait records loaded from TOML.
//
// ## Infrastructure
//
// [store] - Storyline persistence: memory, file, Redis and MongoDB.
//
// [cache] - Content-addressed cache for rendered artifacts.
//
// [document] - JSON document format for import and export.
//
// [config] - TOML and environment configuration.
//
// [errors] - Coded errors shared by the CLI and the HTTP API.
//
// [observability] - Hooks for editor, cache and store events.
//
// ## Delivery
//
// [render] - Artifact rendering with Graphviz and rsvg-convert.
//
// [server] - chi-based HTTP API around editor sessions.
//
// # Testing
//
//	go test ./pkg/...                    # All tests
//	go test -tags integration ./pkg/...  # Include Redis and MongoDB tests
//
// [story]: https://pkg.go.dev/github.com/matzehuels/storyforge/pkg/story
// [dag]: https://pkg.go.dev/github.com/matzehuels/storyforge/pkg/dag
// [story/validate]: https://pkg.go.dev/github.com/matzehuels/storyforge/pkg/story/validate
// [story/layout]: https://pkg.go.dev/github.com/matzehuels/storyforge/pkg/story/layout
// [story/diagram]: https://pkg.go.dev/github.com/matzehuels/storyforge/pkg/story/diagram
// [editor]: https://pkg.go.dev/github.com/matzehuels/storyforge/pkg/editor
// [catalog]: https://pkg.go.dev/github.com/matzehuels/storyforge/pkg/catalog
// [store]: https://pkg.go.dev/github.com/matzehuels/storyforge/pkg/store
// [cache]: https://pkg.go.dev/github.com/matzehuels/storyforge/pkg/cache
// [document]: https://pkg.go.dev/github.com/matzehuels/storyforge/pkg/document
// [config]: https://pkg.go.dev/github.com/matzehuels/storyforge/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/storyforge/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/storyforge/pkg/observability
// [render]: https://pkg.go.dev/github.com/matzehuels/storyforge/pkg/render
// [server]: https://pkg.go.dev/github.com/matzehuels/storyforge/pkg/server
package pkg
