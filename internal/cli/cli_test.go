package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/matzehuels/storyforge/pkg/document"
	"github.com/matzehuels/storyforge/pkg/errors"
	"github.com/matzehuels/storyforge/pkg/story"
	"github.com/matzehuels/storyforge/pkg/story/storytest"
)

// testEnv writes a config that keeps the store in a temp dir and disables
// the cache, and a storyline document to edit.
func testEnv(t *testing.T, s story.Storyline) (configPath, docPath string) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))

	configPath = filepath.Join(dir, "config.toml")
	cfg := `log_level = "warn"

[store]
backend = "file"
dir = "` + filepath.ToSlash(filepath.Join(dir, "store")) + `"

[cache]
backend = "none"
`
	if err := os.WriteFile(configPath, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}

	docPath = filepath.Join(dir, "story.json")
	if err := document.Export(docPath, s); err != nil {
		t.Fatal(err)
	}
	return configPath, docPath
}

func execute(t *testing.T, configPath string, args ...string) error {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs(append([]string{"--config", configPath}, args...))
	return root.ExecuteContext(context.Background())
}

func reload(t *testing.T, path string) story.Storyline {
	t.Helper()
	s, err := document.Import(path)
	if err != nil {
		t.Fatalf("Import(%s) error: %v", path, err)
	}
	return s
}

func TestValidateCommand(t *testing.T) {
	cfg, doc := testEnv(t, storytest.ABC())
	if err := execute(t, cfg, "validate", doc); err != nil {
		t.Fatalf("validate ABC: %v", err)
	}

	broken := storytest.ABC()
	broken.StartEventID = ""
	cfg, doc = testEnv(t, broken)
	err := execute(t, cfg, "validate", doc)
	if !errors.Is(err, errors.ErrCodeValidationFailed) {
		t.Fatalf("validate without start: got %v, want VALIDATION_FAILED", err)
	}
}

func TestEventCommands(t *testing.T) {
	cfg, doc := testEnv(t, storytest.ABC())

	if err := execute(t, cfg, "event", "add", doc, "--kind", "battle", "--name", "Ambush"); err != nil {
		t.Fatalf("event add: %v", err)
	}
	s := reload(t, doc)
	if len(s.Events) != 4 {
		t.Fatalf("events = %d, want 4", len(s.Events))
	}
	added := s.Events[3]
	if added.Name != "Ambush" || added.Kind() != story.KindBattle {
		t.Errorf("added event = %q/%s, want Ambush/battle", added.Name, added.Kind())
	}

	if err := execute(t, cfg, "connect", doc, "B", "opt:opt2", added.ID); err != nil {
		t.Fatalf("connect: %v", err)
	}
	if err := execute(t, cfg, "connect", doc, added.ID, "win", "C"); err != nil {
		t.Fatalf("connect win: %v", err)
	}
	s = reload(t, doc)
	b, _ := s.Event("B")
	if got := story.TargetIDs(b); len(got) != 2 || got[1] != added.ID {
		t.Errorf("B targets = %v, want [C %s]", got, added.ID)
	}

	if err := execute(t, cfg, "event", "rename", doc, "A", "Prologue"); err != nil {
		t.Fatalf("event rename: %v", err)
	}
	if err := execute(t, cfg, "event", "start", doc, "B"); err != nil {
		t.Fatalf("event start: %v", err)
	}
	s = reload(t, doc)
	if a, _ := s.Event("A"); a.Name != "Prologue" {
		t.Errorf("A name = %q, want Prologue", a.Name)
	}
	if s.StartEventID != "B" {
		t.Errorf("start = %q, want B", s.StartEventID)
	}

	if err := execute(t, cfg, "disconnect", doc, "B", "opt:opt1"); err != nil {
		t.Fatalf("disconnect: %v", err)
	}
	if err := execute(t, cfg, "event", "kind", doc, added.ID, "--kind", "end"); err != nil {
		t.Fatalf("event kind: %v", err)
	}
	s = reload(t, doc)
	b, _ = s.Event("B")
	if got := story.TargetIDs(b); len(got) != 1 || got[0] != added.ID {
		t.Errorf("B targets after disconnect = %v, want [%s]", got, added.ID)
	}
	if e, _ := s.Event(added.ID); e.Kind() != story.KindEnd {
		t.Errorf("kind = %s, want end", e.Kind())
	}
}

func TestEventDeleteNeedsConfirmation(t *testing.T) {
	cfg, doc := testEnv(t, storytest.ABC())

	err := execute(t, cfg, "event", "delete", doc, "C")
	if !errors.Is(err, errors.ErrCodeConfirmationRequired) {
		t.Fatalf("delete without --yes: got %v, want CONFIRMATION_REQUIRED", err)
	}
	if s := reload(t, doc); len(s.Events) != 3 {
		t.Fatalf("unconfirmed delete changed the file: %d events", len(s.Events))
	}

	if err := execute(t, cfg, "event", "delete", doc, "C", "--yes"); err != nil {
		t.Fatalf("delete --yes: %v", err)
	}
	s := reload(t, doc)
	if s.Has("C") {
		t.Fatal("C still present")
	}
	b, _ := s.Event("B")
	if ids := story.TargetIDs(b); len(ids) != 0 {
		t.Errorf("B still targets %v", ids)
	}
}

func TestConnectUnknownTargetLeavesFile(t *testing.T) {
	cfg, doc := testEnv(t, storytest.ABC())
	before, _ := os.ReadFile(doc)

	if err := execute(t, cfg, "connect", doc, "A", "next", "nowhere"); err != nil {
		t.Fatalf("connect to unknown target: %v", err)
	}
	after, _ := os.ReadFile(doc)
	if string(before) != string(after) {
		t.Error("file rewritten although nothing changed")
	}
}

func TestLayoutAndRenderCommands(t *testing.T) {
	cfg, doc := testEnv(t, storytest.ABC())
	dir := filepath.Dir(doc)

	layoutOut := filepath.Join(dir, "layout.json")
	if err := execute(t, cfg, "layout", doc, "-o", layoutOut); err != nil {
		t.Fatalf("layout: %v", err)
	}
	data, err := os.ReadFile(layoutOut)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"levels"`) {
		t.Errorf("layout output lacks levels: %s", data)
	}

	if err := execute(t, cfg, "render", doc, "-f", "dot,json", "--no-cache"); err != nil {
		t.Fatalf("render: %v", err)
	}
	dot, err := os.ReadFile(filepath.Join(dir, "story.dot"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(dot), `"A" -> "B"`) {
		t.Errorf("dot output lacks A -> B edge:\n%s", dot)
	}
	if _, err := os.Stat(filepath.Join(dir, "story.diagram.json")); err != nil {
		t.Errorf("json diagram missing: %v", err)
	}

	if err := execute(t, cfg, "render", doc, "-f", "gif"); err == nil {
		t.Error("render with unknown format: expected error")
	}
}

func TestPushPullList(t *testing.T) {
	cfg, doc := testEnv(t, storytest.ABC())

	if err := execute(t, cfg, "push", doc); err != nil {
		t.Fatalf("push: %v", err)
	}
	if err := execute(t, cfg, "list"); err != nil {
		t.Fatalf("list: %v", err)
	}

	out := filepath.Join(t.TempDir(), "pulled.json")
	if err := execute(t, cfg, "pull", "sl_abc", "-o", out); err != nil {
		t.Fatalf("pull: %v", err)
	}
	s := reload(t, out)
	if s.Name != "ABC" || len(s.Events) != 3 {
		t.Errorf("pulled %q with %d events, want ABC with 3", s.Name, len(s.Events))
	}

	err := execute(t, cfg, "pull", "sl_missing", "-o", out)
	if err == nil {
		t.Error("pull of unknown id: expected error")
	}
}

func TestPushRejectsBlockingStoryline(t *testing.T) {
	broken := storytest.ABC()
	broken.Name = ""
	cfg, doc := testEnv(t, broken)

	err := execute(t, cfg, "push", doc)
	if !errors.Is(err, errors.ErrCodeValidationFailed) {
		t.Fatalf("push: got %v, want VALIDATION_FAILED", err)
	}
}

func TestConfigFlagMissingFile(t *testing.T) {
	_, doc := testEnv(t, storytest.ABC())
	err := execute(t, filepath.Join(t.TempDir(), "absent.toml"), "validate", doc)
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Fatalf("got %v, want FILE_NOT_FOUND", err)
	}
}

func TestCompleteArgs(t *testing.T) {
	_, doc := testEnv(t, storytest.ABC())
	complete := completeArgs(argFile, argEvent, argHandle, argEvent)

	if _, dir := complete(nil, nil, ""); dir != cobra.ShellCompDirectiveFilterFileExt {
		t.Errorf("file argument directive = %v", dir)
	}

	events, _ := complete(nil, []string{doc}, "")
	if len(events) != 3 || !strings.HasPrefix(events[0], "A\t") {
		t.Errorf("event completions = %q", events)
	}

	handles, _ := complete(nil, []string{doc, "B"}, "")
	if len(handles) != 2 || !strings.HasPrefix(handles[0], "opt:opt1\t") {
		t.Errorf("handle completions = %q", handles)
	}

	if got, _ := complete(nil, []string{doc, "B", "opt:opt1", "C"}, ""); got != nil {
		t.Errorf("completions past the last argument = %q", got)
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{errors.New(errors.ErrCodeInvalidKind, "quest"), 2},
		{errors.New(errors.ErrCodeEventNotFound, "ev_1"), 3},
		{errors.New(errors.ErrCodeConfirmationRequired, "delete"), 4},
		{errors.New(errors.ErrCodeValidationFailed, "blocking"), 4},
		{errors.New(errors.ErrCodeStore, "save"), 5},
		{os.ErrPermission, 1},
	}
	for _, tt := range tests {
		if got := ExitCode(tt.err); got != tt.want {
			t.Errorf("ExitCode(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
