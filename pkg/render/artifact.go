package render

import (
	"context"
	"encoding/json"
	"time"

	"github.com/matzehuels/storyforge/pkg/cache"
	"github.com/matzehuels/storyforge/pkg/errors"
	"github.com/matzehuels/storyforge/pkg/render/nodelink"
	"github.com/matzehuels/storyforge/pkg/story/diagram"
)

// Output formats.
const (
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPDF  = "pdf"
	FormatPNG  = "png"
)

// Formats lists every supported output format.
var Formats = []string{FormatJSON, FormatDOT, FormatSVG, FormatPDF, FormatPNG}

// ContentType returns the MIME type of a format.
func ContentType(format string) string {
	switch format {
	case FormatJSON:
		return "application/json"
	case FormatSVG:
		return "image/svg+xml"
	case FormatPDF:
		return "application/pdf"
	case FormatPNG:
		return "image/png"
	}
	return "text/vnd.graphviz"
}

// Renderer produces diagram artifacts. Graphviz output (svg, pdf, png) goes
// through Cache; json and dot are cheap and always rebuilt.
type Renderer struct {
	Cache   cache.Cache
	Keyer   cache.Keyer
	TTL     time.Duration
	Options nodelink.Options

	// Scale applies to png output.
	Scale float64
}

// Render returns the diagram in the given format.
func (r Renderer) Render(ctx context.Context, d diagram.Diagram, format string) ([]byte, error) {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(d, "", "  ")
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode diagram")
		}
		return append(data, '\n'), nil
	case FormatDOT:
		return []byte(nodelink.ToDOT(d, r.Options)), nil
	case FormatSVG, FormatPDF, FormatPNG:
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown format %q", format)
	}

	c, keyer := r.Cache, r.Keyer
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	key := keyer.ArtifactKey(cache.Fingerprint(d, r.Options), cache.ArtifactKeyOpts{
		Format: format,
		Engine: "neato",
	})
	return cache.Fetch(ctx, c, key, "artifact_"+format, r.TTL, func() ([]byte, error) {
		svg, err := nodelink.RenderSVG(ctx, nodelink.ToDOT(d, r.Options))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "render svg")
		}
		switch format {
		case FormatPDF:
			return ToPDF(ctx, svg)
		case FormatPNG:
			return ToPNG(ctx, svg, r.Scale)
		}
		return svg, nil
	})
}
