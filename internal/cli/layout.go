package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

// layoutCommand creates the layout command.
func (c *CLI) layoutCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "layout [storyline.json]",
		Short: "Compute grid positions for every event",
		Long: `Compute grid positions for every event.

Events are placed in rows by their shortest distance from the start event and
in columns by their order in the storyline. Unreachable events follow below.
Without -o the positions are printed as a table; with -o they are written as
JSON.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the layout as JSON to this file")
	return cmd
}

func (c *CLI) runLayout(ctx context.Context, path, output string) error {
	sess, err := c.openFile(path)
	if err != nil {
		return err
	}
	tm := startTimer(ctx)
	l := sess.Layout(ctx)

	if output != "" {
		data, err := json.MarshalIndent(l, "", "  ")
		if err != nil {
			return err
		}
		if err := os.WriteFile(output, append(data, '\n'), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", output, err)
		}
		tm.done("laid out", "events", len(l.Positions))
		printSuccess("Layout written")
		printFile(output)
		return nil
	}

	s := sess.Storyline()
	rows := make([][]string, 0, len(l.Positions))
	for _, p := range l.Positions {
		e, _ := s.Event(p.ID)
		depth := "-"
		if p.Depth >= 0 {
			depth = strconv.Itoa(p.Depth)
		}
		rows = append(rows, []string{p.ID, e.Name, kindBadge(e.Kind()), strconv.Itoa(p.Level), strconv.Itoa(p.Column),
			depth, fmt.Sprintf("%d,%d", p.X, p.Y)})
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Event", "Name", "Kind", "Row", "Col", "Depth", "Position").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return lipgloss.NewStyle().Foreground(colorGray).Bold(true)
			}
			if row < len(l.Positions) && l.Positions[row].Depth < 0 {
				return lipgloss.NewStyle().Foreground(colorDim)
			}
			return lipgloss.NewStyle()
		})
	fmt.Println(t.Render())
	printKeyValue("Size", fmt.Sprintf("%d x %d", l.Width, l.Height))
	return nil
}
