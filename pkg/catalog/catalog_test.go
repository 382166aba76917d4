package catalog

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/storyforge/pkg/errors"
)

const sample = `
[[enemies]]
id = "goblin"
name = "Goblin"
level = 2
skills = ["stab", "dodge"]
traits = ["cowardly"]
[enemies.stats]
hp = 12

[[enemies]]
id = "wolf"
name = "Grey Wolf"

[[skills]]
id = "stab"
name = "Stab"
manual = "attack"

[[skills]]
id = "dodge"
name = "Dodge"
manual = "defense"

[[skills]]
id = "focus"
name = "Focus"
manual = "internal"

[[traits]]
id = "cowardly"
name = "Cowardly"
`

func TestParse(t *testing.T) {
	c, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	e, err := c.Enemy("goblin")
	if err != nil {
		t.Fatal(err)
	}
	if e.Name != "Goblin" || e.Level != 2 || e.Stats["hp"] != int64(12) {
		t.Errorf("Enemy() = %+v", e)
	}
	if got := c.Enemies(); len(got) != 2 || got[0].ID != "goblin" || got[1].ID != "wolf" {
		t.Errorf("Enemies() = %+v", got)
	}
	if got := c.SkillsByManual(ManualDefense); len(got) != 1 || got[0].ID != "dodge" {
		t.Errorf("SkillsByManual(defense) = %+v", got)
	}
	if s, err := c.Skill("focus"); err != nil || s.Manual != ManualInternal {
		t.Errorf("Skill(focus) = %+v, %v", s, err)
	}
	if _, err := c.Trait("cowardly"); err != nil {
		t.Errorf("Trait(cowardly) error = %v", err)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"bad toml", "[[enemies]\n"},
		{"missing id", "[[traits]]\nname = \"x\"\n"},
		{"duplicate skill", "[[skills]]\nid = \"a\"\nmanual = \"attack\"\n[[skills]]\nid = \"a\"\nmanual = \"attack\"\n"},
		{"unknown manual", "[[skills]]\nid = \"a\"\nmanual = \"magic\"\n"},
		{"unknown enemy skill", "[[enemies]]\nid = \"e\"\nskills = [\"nope\"]\n"},
		{"unknown enemy trait", "[[enemies]]\nid = \"e\"\ntraits = [\"nope\"]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			if !errors.Is(err, errors.ErrCodeInvalidFormat) {
				t.Errorf("Parse() error = %v, want INVALID_FORMAT", err)
			}
		})
	}
}

func TestLookupMisses(t *testing.T) {
	c := Empty()
	_, err := c.Enemy("dragon")
	if !stderrors.Is(err, ErrNotFound) || !errors.Is(err, errors.ErrCodeCatalogNotFound) {
		t.Errorf("Enemy(dragon) error = %v", err)
	}
	if _, err := c.EnemySnapshot("dragon"); !stderrors.Is(err, ErrNotFound) {
		t.Errorf("EnemySnapshot(dragon) error = %v", err)
	}
}

func TestEnemySnapshot(t *testing.T) {
	c, err := Parse([]byte(sample))
	if err != nil {
		t.Fatal(err)
	}
	snap, err := c.EnemySnapshot("goblin")
	if err != nil {
		t.Fatal(err)
	}
	if snap["name"] != "Goblin" || snap["level"] != 2 {
		t.Errorf("snapshot = %v", snap)
	}
	skills := snap["skills"].([]any)
	if len(skills) != 2 || skills[0].(map[string]any)["manual"] != "attack" {
		t.Errorf("snapshot skills = %v", skills)
	}
	if snap["stats"].(map[string]any)["hp"] != int64(12) {
		t.Errorf("snapshot stats = %v", snap["stats"])
	}

	// Later edits of the catalog record do not reach the snapshot.
	c.enemies["goblin"].Stats["hp"] = int64(99)
	if snap["stats"].(map[string]any)["hp"] != int64(12) {
		t.Error("snapshot shares stats with the catalog")
	}
}

func TestName(t *testing.T) {
	c, err := Parse([]byte(sample))
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		kind, id, want string
	}{
		{KindEnemy, "wolf", "Grey Wolf"},
		{KindSkill, "stab", "Stab"},
		{KindTrait, "cowardly", "Cowardly"},
		{KindEnemy, "dragon", "dragon"},
		{"weapon", "sword", "sword"},
	}
	for _, tt := range tests {
		if got := c.Name(tt.kind, tt.id); got != tt.want {
			t.Errorf("Name(%s, %s) = %q, want %q", tt.kind, tt.id, got, tt.want)
		}
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.toml")
	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load(missing) error = %v", err)
	}
}
