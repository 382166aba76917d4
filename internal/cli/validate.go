package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/storyforge/pkg/document"
	"github.com/matzehuels/storyforge/pkg/editor"
)

// validateCommand creates the validate command.
func (c *CLI) validateCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "validate [storyline.json]",
		Short: "Check a storyline for blocking issues and warnings",
		Long: `Check a storyline for blocking issues and warnings.

Blocking issues (empty name, no events, missing or unknown start event,
transitions to missing events) would prevent saving the storyline and make
the command exit with an error. Events that cannot be reached from the start
event are reported as warnings.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runValidate(cmd.Context(), args[0], asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	return cmd
}

func (c *CLI) runValidate(ctx context.Context, path string, asJSON bool) error {
	sess, err := c.openFile(path)
	if err != nil {
		return err
	}
	r := sess.Report(ctx)

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(r); err != nil {
			return err
		}
	} else {
		s := sess.Storyline()
		fmt.Println(StyleTitle.Render(s.Name))
		printStats(len(s.Events), len(sess.Edges(ctx)), nil)
		printReport(r)
	}
	return r.Err()
}

// openFile starts an editing session over a storyline document.
func (c *CLI) openFile(path string) (*editor.Session, error) {
	s, err := document.Import(path)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("loaded storyline", "path", path, "id", s.ID, "events", len(s.Events))
	return editor.New(s, c.editorOptions()), nil
}
