package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/storyforge/pkg/catalog"
	"github.com/matzehuels/storyforge/pkg/story"
	"github.com/matzehuels/storyforge/pkg/story/layout"
	"github.com/matzehuels/storyforge/pkg/story/validate"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	detailBoxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim).Padding(0, 1)
)

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [storyline.json]",
		Short: "Browse a storyline interactively",
		Long: `Browse a storyline interactively.

The left pane lists events in layout order; the right pane shows the selected
event's content, transitions and validation issues. Press enter on a
transition target to jump to it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := c.openFile(args[0])
			if err != nil {
				return err
			}
			cat, err := c.loadCatalog()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			m := NewInspectModel(sess.Storyline(), sess.Layout(ctx), sess.Report(ctx), cat)
			_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
			return err
		},
	}
}

// =============================================================================
// InspectModel - Interactive storyline browser
// =============================================================================

// InspectModel is the bubbletea model of the storyline browser.
type InspectModel struct {
	Storyline story.Storyline
	Layout    layout.Layout
	Report    validate.Report
	Catalog   *catalog.Catalog

	// Order lists event ids by layout row, then column.
	Order  []string
	Cursor int
	Height int
	Offset int
}

// NewInspectModel creates a browser over a storyline.
func NewInspectModel(s story.Storyline, l layout.Layout, r validate.Report, cat *catalog.Catalog) InspectModel {
	if cat == nil {
		cat = catalog.Empty()
	}
	var order []string
	for _, level := range l.Levels {
		order = append(order, level...)
	}
	return InspectModel{Storyline: s, Layout: l, Report: r, Catalog: cat, Order: order, Height: 15}
}

func (m InspectModel) Init() tea.Cmd {
	return nil
}

func (m InspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			m = m.moveTo(m.Cursor - 1)
		case "down", "j":
			m = m.moveTo(m.Cursor + 1)
		case "s":
			m = m.jumpTo(m.Storyline.StartEventID)
		case "enter", "n":
			// Follow the first connected transition.
			if e, ok := m.selected(); ok {
				if ids := story.TargetIDs(e); len(ids) > 0 {
					m = m.jumpTo(ids[0])
				}
			}
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 5)
	}
	return m, nil
}

func (m InspectModel) moveTo(i int) InspectModel {
	if i < 0 || i >= len(m.Order) {
		return m
	}
	m.Cursor = i
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
	return m
}

func (m InspectModel) jumpTo(id string) InspectModel {
	for i, o := range m.Order {
		if o == id {
			return m.moveTo(i)
		}
	}
	return m
}

func (m InspectModel) selected() (story.Event, bool) {
	if m.Cursor >= len(m.Order) {
		return story.Event{}, false
	}
	return m.Storyline.Event(m.Order[m.Cursor])
}

func (m InspectModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Storyline.Name))
	b.WriteString("  ")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("%d events · %d blocking · %d warnings",
		len(m.Storyline.Events), len(m.Report.Errors), len(m.Report.Warnings))))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ follow  s start  q quit"))
	b.WriteString("\n\n")

	if len(m.Order) == 0 {
		b.WriteString(listDimStyle.Render("  (no events)"))
		return b.String()
	}

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.listView(), "  ", m.detailView()))
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Order))))
	return b.String()
}

func (m InspectModel) listView() string {
	end := min(m.Offset+m.Height, len(m.Order))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		id := m.Order[i]
		e, _ := m.Storyline.Event(id)
		p, _ := m.Layout.Position(id)

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		marker := ""
		if id == m.Storyline.StartEventID {
			marker = "★"
		}
		depth := "-"
		if p.Depth >= 0 {
			depth = fmt.Sprint(p.Depth)
		}
		rows = append(rows, []string{cursor, marker, displayName(e), string(e.Kind()), depth})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "", "Event", "Kind", "Depth").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			idx := m.Offset + row
			if idx >= len(m.Order) {
				return lipgloss.NewStyle()
			}
			if idx == m.Cursor {
				return listSelectedStyle
			}
			if !m.Report.Reachable[m.Order[idx]] {
				return listDimStyle
			}
			return listNormalStyle
		})
	return t.Render()
}

func (m InspectModel) detailView() string {
	e, ok := m.selected()
	if !ok {
		return ""
	}
	var b strings.Builder
	b.WriteString(StyleTitle.Render(displayName(e)))
	b.WriteString("\n")
	b.WriteString(kindBadge(e.Kind()) + listDimStyle.Render(fmt.Sprintf(" · %s · %s", e.ID, e.NodeType)))
	b.WriteString("\n")
	if text := story.ContentText(e.Content); text != "" {
		b.WriteString("\n")
		b.WriteString(listNormalStyle.Render(text))
		b.WriteString("\n")
	}
	if bt, ok := e.Content.(*story.Battle); ok && bt.EnemyID != "" {
		b.WriteString("\n")
		b.WriteString("Enemy: " + StyleHighlight.Render(m.Catalog.Name(catalog.KindEnemy, bt.EnemyID)))
		b.WriteString("\n")
	}

	slots := story.Slots(e)
	if len(slots) > 0 {
		b.WriteString("\n")
	}
	for _, t := range slots {
		target := listDimStyle.Render("(unconnected)")
		if t.EventID != "" {
			if te, ok := m.Storyline.Event(t.EventID); ok {
				target = StyleHighlight.Render(displayName(te))
			} else {
				target = StyleError.Render(t.EventID + " (missing)")
			}
		}
		fmt.Fprintf(&b, "%s %s %s\n", t.Label, listDimStyle.Render(iconArrow), target)
	}

	for _, i := range m.Report.Errors {
		if i.EventID == e.ID {
			b.WriteString(markError.render() + " " + StyleError.Render(i.Message) + "\n")
		}
	}
	for _, i := range m.Report.Warnings {
		if i.EventID == e.ID {
			b.WriteString(markWarning.render() + " " + StyleWarning.Render(i.Message) + "\n")
		}
	}
	return detailBoxStyle.Width(48).Render(strings.TrimRight(b.String(), "\n"))
}

func displayName(e story.Event) string {
	if e.Name != "" {
		return e.Name
	}
	return e.ID
}
