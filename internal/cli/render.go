package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/storyforge/pkg/observability"
	"github.com/matzehuels/storyforge/pkg/render"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string   // output file, or base path when several formats are given
	formats  []string // json, dot, svg, pdf, png
	detailed bool     // show kind and node type in node labels
	noCache  bool     // bypass the artifact cache
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var formats string
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [storyline.json]",
		Short: "Render the storyline diagram",
		Long: `Render the storyline diagram.

Formats: json (positioned nodes and edges), dot (Graphviz source with pinned
positions), svg (rendered in-process with Graphviz), pdf and png (converted
from svg with rsvg-convert). Several formats can be given separated by
commas. Rendered images are cached by diagram content.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formats)
			return c.runRender(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&formats, "format", "f", render.FormatSVG, "output formats: "+strings.Join(render.Formats, ", "))
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: <input>.<format>)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show content kind and node type in labels")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	return cmd
}

func (c *CLI) runRender(ctx context.Context, path string, opts renderOpts) error {
	if err := validateFormats(opts.formats); err != nil {
		return err
	}

	sess, err := c.openFile(path)
	if err != nil {
		return err
	}
	cc, err := c.openCache(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer cc.Close()

	hits := &hitRecorder{}
	observability.SetCacheHooks(hits)
	defer observability.Reset()

	d := sess.Diagram(ctx)
	r := c.renderer(cc, opts.detailed)
	for _, format := range opts.formats {
		var data []byte
		err := spin(ctx, "Rendering "+format+"...", func() error {
			var err error
			data, err = r.Render(ctx, d, format)
			return err
		})
		if err != nil {
			return err
		}

		out := outputPath(path, opts.output, format, len(opts.formats) > 1)
		if err := os.WriteFile(out, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", out, err)
		}
		printSuccess("Rendered %s", format)
		printFile(out)
	}

	cached := hits.hit && !hits.miss
	printStats(len(d.Nodes), len(d.Edges), &cached)
	return nil
}

// outputPath derives the output file for one format. The JSON diagram of a
// .json document is written next to it as <name>.diagram.json.
func outputPath(input, output, format string, multi bool) string {
	if output == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		if format == render.FormatJSON {
			return base + ".diagram.json"
		}
		return base + "." + format
	}
	if multi {
		return strings.TrimSuffix(output, filepath.Ext(output)) + "." + format
	}
	return output
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{render.FormatSVG}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(strings.ToLower(f)); f != "" && !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	return out
}

// validateFormats rejects formats the renderer does not know.
func validateFormats(formats []string) error {
	for _, f := range formats {
		if !slices.Contains(render.Formats, f) {
			return fmt.Errorf("unknown format %q (want %s)", f, strings.Join(render.Formats, ", "))
		}
	}
	return nil
}

// hitRecorder notes whether artifact lookups hit the cache.
type hitRecorder struct {
	observability.NoopCacheHooks
	hit, miss bool
}

func (h *hitRecorder) OnCacheHit(_ context.Context, keyType string) {
	if strings.HasPrefix(keyType, "artifact_") {
		h.hit = true
	}
}

func (h *hitRecorder) OnCacheMiss(_ context.Context, keyType string) {
	if strings.HasPrefix(keyType, "artifact_") {
		h.miss = true
	}
}
