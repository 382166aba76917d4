package nodelink

import (
	"strings"
	"testing"

	"github.com/matzehuels/storyforge/pkg/story"
	"github.com/matzehuels/storyforge/pkg/story/diagram"
	"github.com/matzehuels/storyforge/pkg/story/layout"
	"github.com/matzehuels/storyforge/pkg/story/storytest"
)

func abcDiagram() diagram.Diagram {
	s := storytest.ABC()
	return diagram.Build(s, layout.Compute(s, layout.Options{}))
}

func TestToDOT_Basic(t *testing.T) {
	dot := ToDOT(abcDiagram(), Options{})

	for _, want := range []string{
		"digraph G",
		"inputscale=72",
		`"A" [label="A", pos="160,-90!"`,
		`"C" [label="C", pos="160,-450!"`,
		`"A" -> "B" [label="Next", id="A:next->B"]`,
		`"B" -> "C"`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() missing %q\n%s", want, dot)
		}
	}
}

func TestToDOT_Styles(t *testing.T) {
	s := storytest.ABC()
	s.Events = append(s.Events, storytest.Story("D", "A"))
	dot := ToDOT(diagram.Build(s, layout.Compute(s, layout.Options{})), Options{})

	lines := map[string]string{}
	for _, l := range strings.Split(dot, "\n") {
		l = strings.TrimSpace(l)
		if id, _, ok := strings.Cut(l, " ["); ok && !strings.Contains(id, "->") {
			lines[strings.Trim(id, `"`)] = l
		}
	}
	if !strings.Contains(lines["A"], "bold") {
		t.Errorf("start node not bold: %s", lines["A"])
	}
	if !strings.Contains(lines["D"], "dashed") || !strings.Contains(lines["D"], "lightgrey") {
		t.Errorf("unreachable node not dashed: %s", lines["D"])
	}
	if strings.Contains(lines["B"], "dashed") {
		t.Errorf("reachable node dashed: %s", lines["B"])
	}
	if !strings.Contains(lines["C"], "peripheries=2") {
		t.Errorf("end node not doubled: %s", lines["C"])
	}
}

func TestToDOT_Detailed(t *testing.T) {
	dot := ToDOT(abcDiagram(), Options{Detailed: true})
	want := `label="B\ndecision / ` + string(story.NodeMiddle) + `"`
	if !strings.Contains(dot, want) {
		t.Errorf("detailed label missing %s\n%s", want, dot)
	}
}

func TestToDOT_NodeSize(t *testing.T) {
	dot := ToDOT(abcDiagram(), Options{NodeWidth: 144, NodeHeight: 72})
	if !strings.Contains(dot, "width=2.0000, height=1.0000") {
		t.Errorf("custom node size not applied\n%s", dot)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="10pt" height="20pt" viewBox="0.00 0.00 10.00 20.00" xmlns="x"><g/></svg>`)
	got := string(normalizeViewBox(in))
	if !strings.HasPrefix(got, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10.00 20.00" width="10" height="20">`) {
		t.Errorf("normalizeViewBox() = %s", got)
	}
	if plain := []byte("<svg></svg>"); string(normalizeViewBox(plain)) != "<svg></svg>" {
		t.Error("svg without viewBox changed")
	}
}
