package story

import (
	"strings"

	"github.com/google/uuid"
)

// Id prefixes keep generated ids readable in diagrams and logs.
const (
	prefixStoryline = "sl_"
	prefixEvent     = "ev_"
	prefixOption    = "opt_"
)

// NewID returns a random id with the given prefix. The suffix is the first
// 12 hex digits of a v4 UUID, enough to be unique within one storyline.
func NewID(prefix string) string {
	u := strings.ReplaceAll(uuid.NewString(), "-", "")
	return prefix + u[:12]
}

// NewStorylineID returns a fresh storyline id.
func NewStorylineID() string { return NewID(prefixStoryline) }

// NewEventID returns a fresh event id.
func NewEventID() string { return NewID(prefixEvent) }

// NewOption returns an unconnected option with a freshly assigned id.
func NewOption(text string) Option {
	return Option{ID: NewID(prefixOption), Text: text}
}
