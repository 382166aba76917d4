package cache

// ArtifactKeyOpts are the render settings that change an artifact's bytes.
type ArtifactKeyOpts struct {
	Format string `json:"format"`
	Engine string `json:"engine,omitempty"`
}

// Keyer builds cache keys for rendered artifacts.
type Keyer interface {
	ArtifactKey(diagramHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes the diagram fingerprint together with the options.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ArtifactKey returns "artifact:<hash>".
func (DefaultKeyer) ArtifactKey(diagramHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", diagramHash, opts)
}

var _ Keyer = DefaultKeyer{}
