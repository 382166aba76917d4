package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/storyforge/pkg/document"
	"github.com/matzehuels/storyforge/pkg/store"
	"github.com/matzehuels/storyforge/pkg/story/validate"
)

// pushCommand creates the push command.
func (c *CLI) pushCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "push [storyline.json]",
		Short: "Validate a storyline file and save it to the configured store",
		Long: `Validate a storyline file and save it to the configured store.

Storylines with blocking issues are not saved.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPush(cmd.Context(), args[0])
		},
	}
}

func (c *CLI) runPush(ctx context.Context, path string) error {
	sess, err := c.openFile(path)
	if err != nil {
		return err
	}
	st, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	tm := startTimer(ctx)
	var r validate.Report
	err = spin(ctx, "Saving to "+c.cfg.Store.Backend+"...", func() error {
		var err error
		r, err = sess.Submit(ctx, st)
		return err
	})
	if r.Blocking() {
		printReport(r)
	}
	if err != nil {
		return err
	}
	tm.done("saved", "id", sess.ID(), "backend", c.cfg.Store.Backend)
	printSuccess("Pushed %s to %s", StyleHighlight.Render(sess.ID()), c.cfg.Store.Backend)
	printNextStep("Fetch it again with", fmt.Sprintf("%s pull %s", appName, sess.ID()))
	return nil
}

// pullCommand creates the pull command.
func (c *CLI) pullCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "pull [storyline-id]",
		Short: "Load a storyline from the configured store into a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPull(cmd.Context(), args[0], output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <id>.json)")
	return cmd
}

func (c *CLI) runPull(ctx context.Context, id, output string) error {
	st, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	if output == "" {
		output = id + ".json"
	}
	err = spin(ctx, "Loading "+id+"...", func() error {
		s, err := st.Load(ctx, id)
		if err != nil {
			return err
		}
		return document.Export(output, s)
	})
	if err != nil {
		return err
	}
	printSuccess("Pulled %s", StyleHighlight.Render(id))
	printFile(output)
	return nil
}

// listCommand creates the list command.
func (c *CLI) listCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List storylines in the configured store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			var list []store.Summary
			if err := spin(ctx, "Listing...", func() error {
				list, err = st.List(ctx)
				return err
			}); err != nil {
				return err
			}
			if len(list) == 0 {
				printInfo("No storylines in %s store", c.cfg.Store.Backend)
				return nil
			}
			for _, s := range list {
				updated := ""
				if !s.UpdatedAt.IsZero() {
					updated = " · " + s.UpdatedAt.Local().Format(time.DateTime)
				}
				printKeyValue(s.ID, s.Name+StyleDim.Render(" · "+strconv.Itoa(s.Events)+" events"+updated))
			}
			return nil
		},
	}
}
