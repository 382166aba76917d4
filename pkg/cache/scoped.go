package cache

// ScopedKeyer prefixes the keys of another Keyer. The CLI scopes artifact keys
// by build version so binaries sharing a Redis cache never serve each other's
// renders.
//
//	k := NewScopedKeyer(nil, "storyforge@v0.3.0:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer falls back to [DefaultKeyer] when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) ArtifactKey(diagramHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(diagramHash, opts)
}
