package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/storyforge/pkg/document"
	"github.com/matzehuels/storyforge/pkg/editor"
	"github.com/matzehuels/storyforge/pkg/story"
	"github.com/matzehuels/storyforge/pkg/story/diagram"
)

// editFile opens a storyline document, applies fn and writes the result back
// when fn changed the model. Validation issues are shown but do not stop the
// write: files may hold work in progress.
func (c *CLI) editFile(ctx context.Context, path string, fn func(*editor.Session) error) error {
	sess, err := c.openFile(path)
	if err != nil {
		return err
	}
	if err := fn(sess); err != nil {
		return err
	}
	if !sess.Dirty() {
		return nil
	}
	if err := document.Export(path, sess.Storyline()); err != nil {
		return err
	}
	printFile(path)

	r := sess.Report(ctx)
	for _, i := range r.Errors {
		printLine(markError, issueText(i))
	}
	for _, i := range r.Warnings {
		printLine(markWarning, issueText(i))
	}
	return nil
}

// eventCommand groups the event editing subcommands.
func (c *CLI) eventCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "event",
		Short: "Add, delete or change events of a storyline file",
	}

	cmd.AddCommand(c.eventAddCommand())
	cmd.AddCommand(c.eventDeleteCommand())
	cmd.AddCommand(c.eventKindCommand())
	cmd.AddCommand(c.eventStartCommand())
	cmd.AddCommand(c.eventRenameCommand())
	return cmd
}

func (c *CLI) eventAddCommand() *cobra.Command {
	var kind, name string

	cmd := &cobra.Command{
		Use:   "add [storyline.json]",
		Short: "Append an event with default content",
		Long: `Append an event with default content.

A decision starts with one empty option. When the storyline has no start
event yet, the new event becomes the start.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := story.ParseKind(kind)
			if err != nil {
				return err
			}
			return c.editFile(cmd.Context(), args[0], func(sess *editor.Session) error {
				e, err := sess.AddEvent(cmd.Context(), k, name)
				if err != nil {
					return err
				}
				printSuccess("Added %s event %s", k, StyleHighlight.Render(e.ID))
				return nil
			})
		},
		ValidArgsFunction: completeArgs(argFile),
	}

	cmd.Flags().StringVarP(&kind, "kind", "k", string(story.KindStory), "content kind: decision, battle, story, end")
	cmd.Flags().StringVarP(&name, "name", "n", "", "event name")
	return cmd
}

func (c *CLI) eventDeleteCommand() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete [storyline.json] [event-id]",
		Short: "Delete an event and every transition to it",
		Long: `Delete an event and every transition to it.

Options and branches that pointed at the event stay in place but become
unconnected. Deleting the start event moves the start to the first remaining
event. The command refuses to run without --yes.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				printWarning("Deleting %s removes every transition to it", args[1])
				printNextStep("Confirm with", fmt.Sprintf("%s event delete %s %s --yes", appName, args[0], args[1]))
			}
			return c.editFile(cmd.Context(), args[0], func(sess *editor.Session) error {
				if err := sess.DeleteEvent(cmd.Context(), args[1], yes); err != nil {
					return err
				}
				printSuccess("Deleted %s", args[1])
				return nil
			})
		},
		ValidArgsFunction: completeArgs(argFile, argEvent),
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm the deletion")
	return cmd
}

func (c *CLI) eventKindCommand() *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "kind [storyline.json] [event-id]",
		Short: "Replace an event's content with default content of another kind",
		Long: `Replace an event's content with default content of another kind.

All previous transitions of the event are discarded.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := story.ParseKind(kind)
			if err != nil {
				return err
			}
			return c.editFile(cmd.Context(), args[0], func(sess *editor.Session) error {
				if err := sess.ChangeKind(cmd.Context(), args[1], k); err != nil {
					return err
				}
				printSuccess("%s is now a %s event", args[1], k)
				return nil
			})
		},
		ValidArgsFunction: completeArgs(argFile, argEvent),
	}

	cmd.Flags().StringVarP(&kind, "kind", "k", "", "content kind: decision, battle, story, end")
	_ = cmd.MarkFlagRequired("kind")
	return cmd
}

func (c *CLI) eventStartCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "start [storyline.json] [event-id]",
		Short: "Make an event the start event",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.editFile(cmd.Context(), args[0], func(sess *editor.Session) error {
				if err := sess.SetStart(cmd.Context(), args[1]); err != nil {
					return err
				}
				printSuccess("Start event is %s", args[1])
				return nil
			})
		},
		ValidArgsFunction: completeArgs(argFile, argEvent),
	}
}

func (c *CLI) eventRenameCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rename [storyline.json] [event-id] [name]",
		Short: "Rename an event",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.editFile(cmd.Context(), args[0], func(sess *editor.Session) error {
				name := args[2]
				if err := sess.UpdateEvent(cmd.Context(), args[1], story.EventUpdate{Name: &name}); err != nil {
					return err
				}
				printSuccess("Renamed %s", args[1])
				return nil
			})
		},
		ValidArgsFunction: completeArgs(argFile, argEvent, argOther),
	}
}

// connectCommand creates the connect command.
func (c *CLI) connectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "connect [storyline.json] [source] [handle] [target]",
		Short: "Point a transition slot at an event",
		Long: `Point a transition slot at an event, replacing its previous target.

Handles: next (story), win and lose (battle), opt:<option-id> (decision).
A target that is not an event of the storyline is ignored.`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := diagram.ParseHandle(args[2])
			if err != nil {
				return err
			}
			return c.editFile(cmd.Context(), args[0], func(sess *editor.Session) error {
				ok, err := sess.Connect(cmd.Context(), args[1], h, args[3])
				if err != nil {
					return err
				}
				if !ok {
					printWarning("No event %s; nothing changed", args[3])
					return nil
				}
				printSuccess("Connected %s", diagram.EdgeID(args[1], h, args[3]))
				return nil
			})
		},
		ValidArgsFunction: completeArgs(argFile, argEvent, argHandle, argEvent),
	}
}

// disconnectCommand creates the disconnect command.
func (c *CLI) disconnectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "disconnect [storyline.json] [source] [handle]",
		Short: "Clear a transition slot",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := diagram.ParseHandle(args[2])
			if err != nil {
				return err
			}
			return c.editFile(cmd.Context(), args[0], func(sess *editor.Session) error {
				if err := sess.Disconnect(cmd.Context(), args[1], h); err != nil {
					return err
				}
				printSuccess("Disconnected %s:%s", args[1], h)
				return nil
			})
		},
		ValidArgsFunction: completeArgs(argFile, argEvent, argHandle),
	}
}
