package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/storyforge/pkg/story"
	"github.com/matzehuels/storyforge/pkg/story/validate"
)

// =============================================================================
// Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorBlue   = lipgloss.Color("75")
	colorPurple = lipgloss.Color("141")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	StyleTitle     = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)
	StyleDim       = lipgloss.NewStyle().Foreground(colorDim)
	StyleValue     = lipgloss.NewStyle().Foreground(colorWhite)
	StyleWarning   = lipgloss.NewStyle().Foreground(colorYellow)
	StyleError     = lipgloss.NewStyle().Foreground(colorRed)

	styleLabel   = lipgloss.NewStyle().Foreground(colorGray).Width(12)
	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
)

// kindColors tells event kinds apart in tables and the inspector.
var kindColors = map[story.Kind]lipgloss.Color{
	story.KindDecision: colorBlue,
	story.KindBattle:   colorRed,
	story.KindStory:    colorGreen,
	story.KindEnd:      colorPurple,
}

// kindBadge renders a kind name in its color.
func kindBadge(k story.Kind) string {
	return lipgloss.NewStyle().Foreground(kindColors[k]).Render(string(k))
}

// =============================================================================
// Status lines
// =============================================================================

// marker is the leading icon of a status line.
type marker struct {
	icon  string
	color lipgloss.Color
}

var (
	markSuccess = marker{"✓", colorGreen}
	markError   = marker{"✗", colorRed}
	markWarning = marker{"!", colorYellow}
	markInfo    = marker{"›", colorGray}
)

const iconArrow = "→"

func (m marker) render() string {
	return lipgloss.NewStyle().Foreground(m.color).Render(m.icon)
}

func printLine(m marker, body string) {
	fmt.Println(m.render() + " " + body)
}

func printSuccess(format string, args ...any) { printLine(markSuccess, fmt.Sprintf(format, args...)) }
func printInfo(format string, args ...any)    { printLine(markInfo, fmt.Sprintf(format, args...)) }

func printWarning(format string, args ...any) {
	printLine(markWarning, StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Println(styleLabel.Render(key) + " " + StyleValue.Render(value))
}

func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

// printStats prints "N events · M edges", followed by whether a render came
// from the cache when cached is set.
func printStats(events, edges int, cached *bool) {
	line := StyleDim.Render(fmt.Sprintf("%d events · %d edges", events, edges))
	if cached != nil {
		status := lipgloss.NewStyle().Foreground(colorGray).Render("fresh")
		if *cached {
			status = lipgloss.NewStyle().Foreground(colorGreen).Render("cached")
		}
		line += StyleDim.Render(" · ") + status
	}
	fmt.Println("  " + line)
}

// =============================================================================
// Validation
// =============================================================================

// issueText prefixes an issue with the event and slot it concerns.
func issueText(i validate.Issue) string {
	var where []string
	if i.EventID != "" {
		where = append(where, i.EventID)
	}
	if i.Label != "" {
		where = append(where, i.Label)
	}
	if len(where) == 0 {
		return i.Message
	}
	return StyleDim.Render("["+strings.Join(where, " / ")+"] ") + i.Message
}

// printReport prints blocking issues, then warnings, then a summary line.
func printReport(r validate.Report) {
	for _, i := range r.Errors {
		printLine(markError, issueText(i))
	}
	for _, i := range r.Warnings {
		printLine(markWarning, issueText(i))
	}
	switch {
	case r.Blocking():
		printDetail("%d blocking issue(s), %d warning(s); fix the blocking ones before saving",
			len(r.Errors), len(r.Warnings))
	case len(r.Warnings) > 0:
		printSuccess("Ready to save (%d warning(s))", len(r.Warnings))
	default:
		printSuccess("Ready to save")
	}
}
